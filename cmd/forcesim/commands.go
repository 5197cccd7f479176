package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"text/tabwriter"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/forcesim/internal/config"
	"github.com/san-kum/forcesim/internal/export"
	"github.com/san-kum/forcesim/internal/metrics"
	"github.com/san-kum/forcesim/internal/scene"
	"github.com/san-kum/forcesim/internal/sim"
	"github.com/san-kum/forcesim/internal/storage"
	"github.com/san-kum/forcesim/internal/viz"
)

// loadScene resolves a preset name first, then a scene file path.
func loadScene(arg string) (*config.Config, error) {
	cfg, err := config.Preset(arg)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, config.ErrUnknownPreset) {
		return nil, err
	}
	if _, statErr := os.Stat(arg); statErr != nil {
		return nil, fmt.Errorf("%q is neither a preset nor a readable scene file", arg)
	}
	return config.Load(arg)
}

func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("ticks") {
		cfg.Ticks = ticks
	}
}

func groupOf(n *sim.Node) int { return scene.AttrsOf(n).Group }

func linkPairs(sc *scene.Scene) [][2]int {
	links := sc.Links()
	out := make([][2]int, len(links))
	for i := range links {
		out[i][0], out[i][1] = links[i].Endpoints()
	}
	return out
}

func runLayout(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(args[0])
	if err != nil {
		return err
	}
	applyOverrides(cmd, cfg)

	sc, err := scene.Build(cfg, scene.WithLogger(logger))
	if err != nil {
		return err
	}
	tracker := metrics.NewTracker(sc.Sim, metrics.Default()...).WithLimit(cfg.Ticks)
	sc.Sim.AddObserver(tracker)

	elapsed := sc.Presimulate()
	s := sc.Sim

	fmt.Printf("scene: %s\n", cfg.Name)
	fmt.Printf("nodes: %d  links: %d  forces: %v\n", len(s.Nodes()), len(sc.Links()), s.ForceNames())
	fmt.Printf("ticks: %d  alpha: %.5f  converged: %v  elapsed: %v\n\n", s.Ticks(), s.Alpha(), s.Converged(), elapsed)

	if alpha := tracker.Alpha(); len(alpha) > 1 {
		fmt.Println(asciigraph.Plot(alpha, asciigraph.Height(8), asciigraph.Width(70), asciigraph.Caption("alpha")))
		fmt.Println()
	}
	if energy := tracker.History("kinetic_energy"); len(energy) > 1 {
		fmt.Println(asciigraph.Plot(energy, asciigraph.Height(8), asciigraph.Width(70), asciigraph.Caption("kinetic energy")))
		fmt.Println()
	}

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(&storage.Run{
		Meta: storage.RunMetadata{
			Name:      cfg.Name,
			Seed:      cfg.Seed,
			Ticks:     s.Ticks(),
			Alpha:     s.Alpha(),
			Converged: s.Converged(),
			EndTick:   tracker.EndTick(),
			Forces:    s.ForceNames(),
			Elapsed:   elapsed,
			Metrics:   tracker.Values(),
		},
		Positions: storage.PositionsOf(s.Nodes(), groupOf),
		Links:     linkPairs(sc),
		Trace:     storage.TraceOf(tracker.Alpha(), tracker.History("kinetic_energy"), s.Ticks()),
		Scene:     cfg,
	})
	if err != nil {
		return err
	}
	logger.Info("run saved", zap.String("id", runID), zap.String("dir", dataDir))
	fmt.Printf("saved run %s\n", runID)
	return nil
}

// endpoints is what the HTTP side of a live session serves for the
// current scene. It is swapped whole on reload.
type endpoints struct {
	collector *metrics.Collector
	publisher *export.Publisher
}

func attach(sc *scene.Scene) *endpoints {
	e := &endpoints{
		collector: metrics.NewCollector(sc.Sim),
		publisher: export.NewPublisher(sc.Sim.Nodes, linkPairs(sc), groupOf),
	}
	sc.Sim.AddObserver(e.collector)
	sc.Sim.AddObserver(e.publisher)
	return e
}

func newRouter(current *atomic.Pointer[endpoints]) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		current.Load().collector.Handler().ServeHTTP(w, req)
	})
	r.Get("/layout", func(w http.ResponseWriter, req *http.Request) {
		current.Load().publisher.ServeJSON(w, req)
	})
	r.Get("/layout.svg", func(w http.ResponseWriter, req *http.Request) {
		current.Load().publisher.ServeSVG(w, req)
	})
	return r
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(args[0])
	if err != nil {
		return err
	}
	applyOverrides(cmd, cfg)

	live := logger
	if logFile == "" {
		live = zap.NewNop()
	}
	sc, err := scene.Build(cfg, scene.WithLogger(live))
	if err != nil {
		return err
	}

	var current atomic.Pointer[endpoints]
	current.Store(attach(sc))

	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: newRouter(&current), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				live.Error("metrics server", zap.Error(err))
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	m := viz.NewModel(sc, viz.WithLogger(live), viz.WithTheme(theme), viz.WithTicksPerFrame(ticksPerFrame))
	p := viz.NewProgram(m)

	if watch {
		if _, err := os.Stat(args[0]); err != nil {
			return fmt.Errorf("--watch needs a scene file: %w", err)
		}
		w, err := config.NewWatcher(args[0], live, func(cfg *config.Config) {
			applyOverrides(cmd, cfg)
			next, err := scene.Build(cfg, scene.WithLogger(live))
			if err != nil {
				live.Warn("reloaded scene does not build", zap.Error(err))
				return
			}
			current.Store(attach(next))
			p.Send(viz.ReloadMsg{Scene: next})
		})
		if err != nil {
			return err
		}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				live.Error("scene watcher", zap.Error(err))
			}
		}()
	}

	_, err = p.Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tNODES\tLINKS\tTICKS\tALPHA\tCONVERGED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.5f\t%v\n",
			run.ID[:8],
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Nodes,
			run.Links,
			run.Ticks,
			run.Alpha,
			run.Converged,
		)
	}
	return w.Flush()
}

// nodesOf rebuilds drawable nodes from stored rows.
func nodesOf(pos []storage.Position) []sim.Node {
	nodes := make([]sim.Node, len(pos))
	for i, p := range pos {
		nodes[i] = sim.Node{ID: p.ID, Index: i, X: p.X, Y: p.Y, Radius: p.Radius, Data: scene.Attrs{Group: p.Group}}
		if p.Pinned {
			nodes[i].Pin(p.X, p.Y)
		}
	}
	return nodes
}

type storedRun struct {
	meta      *storage.RunMetadata
	positions []storage.Position
	links     [][2]int
}

func loadRun(st *storage.Store, prefix string) (*storedRun, error) {
	runID, err := st.Resolve(prefix)
	if err != nil {
		return nil, err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return nil, err
	}
	pos, err := st.LoadPositions(runID)
	if err != nil {
		return nil, err
	}
	links, err := st.LoadLinks(runID)
	if err != nil {
		return nil, err
	}
	return &storedRun{meta: meta, positions: pos, links: links}, nil
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	run, err := loadRun(st, args[0])
	if err != nil {
		return err
	}
	meta := run.meta

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s  seed: %d\n", meta.Name, meta.Seed)
	fmt.Printf("ticks: %d  end tick: %d  alpha: %.5f  elapsed: %v\n", meta.Ticks, meta.EndTick, meta.Alpha, meta.Elapsed)
	for name, v := range meta.Metrics {
		fmt.Printf("  %-16s %.4f\n", name, v)
	}
	fmt.Println()

	c := viz.NewCanvas(canvasWidth, canvasHeight)
	viz.Plot(c, nodesOf(run.positions), run.links)
	t := viz.GetTheme(theme)
	fmt.Println(c.Render(t.Palette(), viz.Subtle))

	trace, err := st.LoadTrace(meta.ID)
	if err != nil {
		return err
	}
	if len(trace) > 1 {
		alpha := make([]float64, len(trace))
		for i, tp := range trace {
			alpha[i] = tp.Alpha
		}
		fmt.Println(asciigraph.Plot(alpha, asciigraph.Height(6), asciigraph.Width(60), asciigraph.Caption("alpha")))
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	run, err := loadRun(st, args[0])
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "svg":
		_, err = io.WriteString(w, export.LayoutToSVG(run.positions, run.links, export.DefaultSVGOptions()))
	case "json":
		err = export.WriteJSON(w, export.NewLayout(run.positions, run.links))
	case "trace":
		var trace []storage.TracePoint
		trace, err = st.LoadTrace(run.meta.ID)
		if err != nil {
			return err
		}
		alpha := make([]float64, len(trace))
		for i, tp := range trace {
			alpha[i] = tp.Alpha
		}
		_, err = io.WriteString(w, export.TraceToSVG(alpha, 600, 200, "#4e79a7"))
	case "braille":
		c := viz.NewCanvas(canvasWidth, canvasHeight)
		viz.Plot(c, nodesOf(run.positions), run.links)
		_, err = io.WriteString(w, export.CanvasToSVG(c, 4))
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}
	if outFile != "" {
		logger.Info("exported", zap.String("run", run.meta.ID), zap.String("format", format), zap.String("file", outFile))
	}
	return nil
}

func deleteRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runID, err := st.Resolve(args[0])
	if err != nil {
		return err
	}
	if err := st.Delete(runID); err != nil {
		return err
	}
	fmt.Printf("deleted run %s\n", runID)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		fmt.Fprintf(w, "%s\t%s\n", name, config.About(name))
	}
	return w.Flush()
}

func checkScene(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}
	g, err := scene.Generate(cfg.Graph, cfg.Seed)
	if err != nil {
		return err
	}
	fmt.Printf("%s: ok (%d nodes, %d links, %d forces)\n", args[0], len(g.Nodes), len(g.Links), len(cfg.Forces))
	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(args[0])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("ticks") {
		cfg.Ticks = ticks
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("benchmarking %s: %d runs from seed %d\n\n", cfg.Name, numRuns, seed)
	start := time.Now()
	results, err := scene.NewEnsemble(cfg, numRuns, seed, scene.WithLogger(logger)).Run(ctx)
	if err != nil {
		return err
	}
	wall := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tTICKS\tEND\tALPHA\tENERGY\tMIN GAP\tTIME\tTICKS/SEC")
	var total time.Duration
	for _, r := range results {
		total += r.Elapsed
		fmt.Fprintf(w, "%d\t%d\t%d\t%.5f\t%.4f\t%.3f\t%v\t%.0f\n",
			r.Seed, r.Ticks, r.EndTick, r.Alpha, r.Energy, r.Gap,
			r.Elapsed.Round(time.Microsecond), float64(r.Ticks)/r.Elapsed.Seconds())
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(results) > 0 {
		fmt.Printf("\nmean %v per run, wall %v\n", (total / time.Duration(len(results))).Round(time.Microsecond), wall.Round(time.Microsecond))
	}
	return nil
}
