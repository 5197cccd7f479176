package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "random", cfg.Graph.Kind)
	assert.Equal(t, DefaultTicks, cfg.Ticks)
	assert.InDelta(t, 0.0228, cfg.Alpha.Decay, 1e-4)

	sc := cfg.SimConfig()
	assert.Equal(t, 1.0, sc.Alpha)
	assert.Equal(t, 0.4, sc.VelocityDecay)
	assert.Equal(t, int64(1), sc.Seed)
}

func TestPreset(t *testing.T) {
	cfg, err := Preset("collision")
	require.NoError(t, err)
	assert.Equal(t, 0.3, cfg.Alpha.Target)
	assert.Equal(t, 0.1, cfg.VelocityDecay)
	require.NotNil(t, cfg.Graph.Pointer)

	f, ok := cfg.Force("charge")
	require.True(t, ok)
	assert.True(t, f.FromNode)
}

func TestPresetIsFreshCopy(t *testing.T) {
	a, err := Preset("lattice")
	require.NoError(t, err)
	a.Forces[0].Name = "changed"
	a.Graph.Size = 3

	b, err := Preset("lattice")
	require.NoError(t, err)
	assert.Equal(t, "charge", b.Forces[0].Name)
	assert.Equal(t, 20, b.Graph.Size)
}

func TestPresetNotFound(t *testing.T) {
	_, err := Preset("nonexistent")
	assert.True(t, errors.Is(err, ErrUnknownPreset))
}

func TestAllPresetsValid(t *testing.T) {
	names := ListPresets()
	assert.Len(t, names, len(Presets))
	assert.IsIncreasing(t, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			cfg, err := Preset(name)
			require.NoError(t, err)
			assert.NoError(t, cfg.Validate())
			assert.NotEmpty(t, About(name))
		})
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
name: tiny
ticks: 50
graph:
  kind: file
  nodes:
    - {id: a, x: 0, y: 0, fixed: true}
    - {id: b, r: 4, charge: -100}
  edges:
    - {source: a, target: b, distance: 40}
`))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Ticks)
	assert.Equal(t, 0.4, cfg.VelocityDecay)
	require.Len(t, cfg.Graph.Nodes, 2)
	assert.True(t, cfg.Graph.Nodes[0].Fixed)
	assert.Nil(t, cfg.Graph.Nodes[1].X)
	assert.Equal(t, -100.0, *cfg.Graph.Nodes[1].Charge)
	assert.Equal(t, 40.0, *cfg.Graph.Edges[0].Distance)
	assert.Len(t, cfg.Forces, 2, "default forces apply when none are listed")
}

func TestParseReplacesForces(t *testing.T) {
	cfg, err := Parse([]byte(`
forces:
  - {name: pull, kind: x, strength: 0.5}
`))
	require.NoError(t, err)
	require.Len(t, cfg.Forces, 1)
	assert.Equal(t, "pull", cfg.Forces[0].Name)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown force kind", "forces: [{name: f, kind: gravity}]"},
		{"missing force name", "forces: [{kind: x}]"},
		{"duplicate force", "forces: [{name: f, kind: x}, {name: f, kind: y}]"},
		{"alpha above one", "alpha: {start: 2}"},
		{"negative ticks", "ticks: -1"},
		{"velocity decay above one", "velocity_decay: 1.5"},
		{"unknown graph kind", "graph: {kind: tree}"},
		{"file without nodes", "graph: {kind: file}"},
		{"bounds without box", "forces: [{name: b, kind: bounds}]"},
		{"edge to unknown node", "graph: {kind: file, nodes: [{id: a}], edges: [{source: a, target: z}]}"},
		{"duplicate node", "graph: {kind: file, nodes: [{id: a}, {id: a}]}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), err.Error())
		})
	}
}

func TestValidateAcceptsOddPhysics(t *testing.T) {
	_, err := Parse([]byte(`
forces:
  - {name: c, kind: collide, radius: -3}
  - {name: m, kind: manybody, strength: 500}
`))
	assert.NoError(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	cfg, err := Preset("disjoint")
	require.NoError(t, err)

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
