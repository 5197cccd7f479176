package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/forcesim/internal/config"
	"github.com/san-kum/forcesim/internal/sim"
)

var (
	ErrRunNotFound  = errors.New("run not found")
	ErrAmbiguousRun = errors.New("ambiguous run id")
)

const (
	metadataFile  = "metadata.json"
	positionsFile = "positions.csv"
	linksFile     = "links.csv"
	traceFile     = "trace.csv"
	sceneFile     = "scene.yaml"
)

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Ticks     int                `json:"ticks"`
	Nodes     int                `json:"nodes"`
	Links     int                `json:"links"`
	Alpha     float64            `json:"alpha"`
	Converged bool               `json:"converged"`
	EndTick   int                `json:"end_tick"`
	Forces    []string           `json:"forces"`
	Elapsed   time.Duration      `json:"elapsed_ns"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Position is one row of positions.csv.
type Position struct {
	ID     string
	X, Y   float64
	VX, VY float64
	Radius float64
	Group  int
	Pinned bool
}

// TracePoint is one row of trace.csv.
type TracePoint struct {
	Tick   int
	Alpha  float64
	Energy float64
}

// Run is everything Save writes for a finished layout.
type Run struct {
	Meta      RunMetadata
	Positions []Position
	Links     [][2]int
	Trace     []TracePoint
	Scene     *config.Config
}

// PositionsOf converts live nodes to rows. group may be nil.
func PositionsOf(nodes []sim.Node, group func(*sim.Node) int) []Position {
	out := make([]Position, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		_, _, pinned := n.Pinned()
		out[i] = Position{ID: n.ID, X: n.X, Y: n.Y, VX: n.VX, VY: n.VY, Radius: n.Radius, Pinned: pinned}
		if group != nil {
			out[i].Group = group(n)
		}
	}
	return out
}

// TraceOf zips per-tick alpha and energy histories ending at lastTick.
func TraceOf(alpha, energy []float64, lastTick int) []TracePoint {
	n := min(len(alpha), len(energy))
	alpha, energy = alpha[len(alpha)-n:], energy[len(energy)-n:]
	out := make([]TracePoint, n)
	for i := range out {
		out[i] = TracePoint{Tick: lastTick - n + 1 + i, Alpha: alpha[i], Energy: energy[i]}
	}
	return out
}

// Save writes run under a fresh id and returns the id.
func (s *Store) Save(run *Run) (string, error) {
	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := run.Meta
	meta.ID = runID
	meta.Timestamp = s.now()
	meta.Nodes = len(run.Positions)
	meta.Links = len(run.Links)
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(run.Positions))
	for _, p := range run.Positions {
		rows = append(rows, []string{
			p.ID, ftoa(p.X), ftoa(p.Y), ftoa(p.VX), ftoa(p.VY), ftoa(p.Radius),
			strconv.Itoa(p.Group), strconv.FormatBool(p.Pinned),
		})
	}
	if err := writeCSV(filepath.Join(runDir, positionsFile),
		[]string{"id", "x", "y", "vx", "vy", "r", "group", "pinned"}, rows); err != nil {
		return "", err
	}

	rows = rows[:0]
	for _, l := range run.Links {
		rows = append(rows, []string{strconv.Itoa(l[0]), strconv.Itoa(l[1])})
	}
	if err := writeCSV(filepath.Join(runDir, linksFile), []string{"source", "target"}, rows); err != nil {
		return "", err
	}

	rows = rows[:0]
	for _, tp := range run.Trace {
		rows = append(rows, []string{strconv.Itoa(tp.Tick), ftoa(tp.Alpha), ftoa(tp.Energy)})
	}
	if err := writeCSV(filepath.Join(runDir, traceFile), []string{"tick", "alpha", "energy"}, rows); err != nil {
		return "", err
	}

	if run.Scene != nil {
		if err := config.Save(filepath.Join(runDir, sceneFile), run.Scene); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

// Resolve expands a unique id prefix to the full run id.
func (s *Store) Resolve(prefix string) (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	var match string
	for _, r := range runs {
		if r.ID == prefix {
			return r.ID, nil
		}
		if strings.HasPrefix(r.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", ErrAmbiguousRun, prefix)
			}
			match = r.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	}
	return match, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := s.read(runID, metadataFile)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadPositions(runID string) ([]Position, error) {
	records, err := s.readCSV(runID, positionsFile)
	if err != nil {
		return nil, err
	}

	out := make([]Position, 0, len(records))
	for i, rec := range records {
		if len(rec) < 8 {
			return nil, fmt.Errorf("run %s: %s row %d: want 8 fields, got %d", runID, positionsFile, i+1, len(rec))
		}
		p := Position{ID: rec[0]}
		vals, err := parseFloats(rec[1:6])
		if err != nil {
			return nil, fmt.Errorf("run %s: %s row %d: %w", runID, positionsFile, i+1, err)
		}
		p.X, p.Y, p.VX, p.VY, p.Radius = vals[0], vals[1], vals[2], vals[3], vals[4]
		if p.Group, err = strconv.Atoi(rec[6]); err != nil {
			return nil, fmt.Errorf("run %s: %s row %d: %w", runID, positionsFile, i+1, err)
		}
		if p.Pinned, err = strconv.ParseBool(rec[7]); err != nil {
			return nil, fmt.Errorf("run %s: %s row %d: %w", runID, positionsFile, i+1, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) LoadLinks(runID string) ([][2]int, error) {
	records, err := s.readCSV(runID, linksFile)
	if err != nil {
		return nil, err
	}

	out := make([][2]int, 0, len(records))
	for i, rec := range records {
		if len(rec) < 2 {
			return nil, fmt.Errorf("run %s: %s row %d: want 2 fields", runID, linksFile, i+1)
		}
		a, errA := strconv.Atoi(rec[0])
		b, errB := strconv.Atoi(rec[1])
		if err := errors.Join(errA, errB); err != nil {
			return nil, fmt.Errorf("run %s: %s row %d: %w", runID, linksFile, i+1, err)
		}
		out = append(out, [2]int{a, b})
	}
	return out, nil
}

func (s *Store) LoadTrace(runID string) ([]TracePoint, error) {
	records, err := s.readCSV(runID, traceFile)
	if err != nil {
		return nil, err
	}

	out := make([]TracePoint, 0, len(records))
	for i, rec := range records {
		if len(rec) < 3 {
			return nil, fmt.Errorf("run %s: %s row %d: want 3 fields", runID, traceFile, i+1)
		}
		tick, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("run %s: %s row %d: %w", runID, traceFile, i+1, err)
		}
		vals, err := parseFloats(rec[1:3])
		if err != nil {
			return nil, fmt.Errorf("run %s: %s row %d: %w", runID, traceFile, i+1, err)
		}
		out = append(out, TracePoint{Tick: tick, Alpha: vals[0], Energy: vals[1]})
	}
	return out, nil
}

// LoadScene returns the scene the run was built from.
func (s *Store) LoadScene(runID string) (*config.Config, error) {
	path := filepath.Join(s.baseDir, runID, sceneFile)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s has no scene", ErrRunNotFound, runID)
		}
		return nil, err
	}
	return config.Load(path)
}

func (s *Store) Delete(runID string) error {
	if _, err := s.Load(runID); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(s.baseDir, runID))
}

func (s *Store) read(runID, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	return data, nil
}

// readCSV returns the data rows, header stripped.
func (s *Store) readCSV(runID, name string) ([][]string, error) {
	data, err := s.read(runID, name)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(strings.NewReader(string(data)))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %s: %w", runID, name, err)
	}
	if len(records) < 2 {
		return [][]string{}, nil
	}
	return records[1:], nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
