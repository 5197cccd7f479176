package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/forcesim/internal/viz"
)

var (
	dataDir       string
	verbose       bool
	logFile       string
	ticks         int
	seed          int64
	noSave        bool
	metricsAddr   string
	watch         bool
	theme         string
	ticksPerFrame int
	numRuns       int
	format        string
	outFile       string
	canvasWidth   int
	canvasHeight  int

	logger = zap.NewNop()
)

// main registers the commands and opens the preset picker when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "forcesim",
		Short: "force-directed graph layout lab",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger()
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunPicker(logger, viz.WithTheme(theme))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".forcesim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "tableau", "color theme")

	runCmd := &cobra.Command{
		Use:   "run [preset|scene.yaml]",
		Short: "presimulate a layout and save it",
		Args:  cobra.ExactArgs(1),
		RunE:  runLayout,
	}
	runCmd.Flags().IntVar(&ticks, "ticks", 0, "ticks to run (default from scene)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default from scene)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live [preset|scene.yaml]",
		Short: "run a layout with live terminal rendering",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default from scene)")
	liveCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics, /layout and /layout.svg on this address")
	liveCmd.Flags().BoolVar(&watch, "watch", false, "reload the scene file when it changes")
	liveCmd.Flags().IntVar(&ticksPerFrame, "ticks-per-frame", 1, "simulation ticks per rendered frame")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "draw a stored layout and its cooling trace",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().IntVar(&canvasWidth, "width", 60, "canvas width in cells")
	showCmd.Flags().IntVar(&canvasHeight, "height", 20, "canvas height in cells")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored layout as svg, json, trace or braille svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&format, "format", "f", "svg", "svg, json, trace or braille")
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportCmd.Flags().IntVar(&canvasWidth, "width", 60, "braille canvas width in cells")
	exportCmd.Flags().IntVar(&canvasHeight, "height", 20, "braille canvas height in cells")

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	checkCmd := &cobra.Command{
		Use:   "check [scene.yaml]",
		Short: "validate a scene file",
		Args:  cobra.ExactArgs(1),
		RunE:  checkScene,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [preset|scene.yaml]",
		Short: "run a scene under several seeds in parallel",
		Args:  cobra.ExactArgs(1),
		RunE:  benchScene,
	}
	benchCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeds")
	benchCmd.Flags().Int64Var(&seed, "seed", 1, "first seed")
	benchCmd.Flags().IntVar(&ticks, "ticks", 0, "ticks per run (default from scene)")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, showCmd, exportCmd, deleteCmd, presetsCmd, checkCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger logs warnings and up unless --verbose. Interactive commands
// stay silent without --log so log lines do not tear the screen.
func newLogger() (*zap.Logger, error) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	if logFile != "" {
		cfg.OutputPaths = []string{logFile}
		cfg.ErrorOutputPaths = []string{logFile}
	}
	return cfg.Build()
}
