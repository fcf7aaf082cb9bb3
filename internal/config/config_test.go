package config

import (
	"math"
	"path/filepath"
	"sort"
	"testing"
)

func TestDefaultConfigResolves(t *testing.T) {
	prob, err := DefaultConfig().Resolve()
	if err != nil {
		t.Fatalf("resolve default: %v", err)
	}
	if prob.Name != "cartpole" {
		t.Errorf("plant = %s, want cartpole", prob.Name)
	}
	n, m := prob.System.Dims()
	if n != 4 || m != 1 {
		t.Errorf("dims = %d,%d, want 4,1", n, m)
	}
	if got := prob.Weights.Q.At(2, 2); got != 1 {
		t.Errorf("Q[2][2] = %v, want 1", got)
	}
	if got := prob.Weights.R.At(0, 0); got != 100 {
		t.Errorf("R[0][0] = %v, want 100", got)
	}
	if len(prob.X0) != 4 {
		t.Errorf("x0 has %d entries, want 4", len(prob.X0))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "problem.yaml")

	cfg := DefaultConfig()
	cfg.Plant = "pendulum"
	cfg.Weights.RScale = 10
	cfg.Solver.Tolerance = 1e-12
	cfg.Solver.MaxIter = 500
	cfg.Sim.Steps = 250
	cfg.Sim.X0 = []float64{0.2, 0}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Plant != "pendulum" {
		t.Errorf("plant = %s, want pendulum", loaded.Plant)
	}
	if loaded.Weights.RScale != 10 {
		t.Errorf("r_scale = %v, want 10", loaded.Weights.RScale)
	}
	if loaded.Solver.Tolerance != 1e-12 {
		t.Errorf("tolerance = %v, want 1e-12", loaded.Solver.Tolerance)
	}
	if loaded.Solver.MaxIter != 500 {
		t.Errorf("max_iter = %d, want 500", loaded.Solver.MaxIter)
	}
	if loaded.Sim.Steps != 250 {
		t.Errorf("steps = %d, want 250", loaded.Sim.Steps)
	}
	if len(loaded.Sim.X0) != 2 || loaded.Sim.X0[0] != 0.2 {
		t.Errorf("x0 = %v, want [0.2 0]", loaded.Sim.X0)
	}
}

func TestResolveExplicitSystem(t *testing.T) {
	cfg := &Config{
		System: SystemConfig{
			A:        [][]float64{{1, 0.1}, {0, 1}},
			B:        [][]float64{{0.005}, {0.1}},
			Dt:       0.1,
			Discrete: true,
		},
		Weights: WeightsConfig{
			Q: [][]float64{{1, 0}, {0, 0}},
			R: [][]float64{{2}},
		},
	}
	prob, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if prob.Name != "custom" {
		t.Errorf("name = %s, want custom", prob.Name)
	}
	if got := prob.System.A.At(0, 1); got != 0.1 {
		t.Errorf("A[0][1] = %v, want 0.1", got)
	}
	if got := prob.Weights.R.At(0, 0); got != 2 {
		t.Errorf("R[0][0] = %v, want 2", got)
	}
	if len(prob.X0) != 2 {
		t.Errorf("x0 has %d entries, want 2", len(prob.X0))
	}
}

func TestResolveScalesWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.RScale = 10
	prob, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := prob.Weights.R.At(0, 0); math.Abs(got-1000) > 1e-12 {
		t.Errorf("scaled R[0][0] = %v, want 1000", got)
	}
}

func TestResolveUnknownPlant(t *testing.T) {
	cfg := &Config{Plant: "hovercraft"}
	if _, err := cfg.Resolve(); err == nil {
		t.Fatal("expected error for unknown plant")
	}
}

func TestResolveRejectsRaggedRows(t *testing.T) {
	cfg := &Config{
		System: SystemConfig{
			A:        [][]float64{{1, 0}, {0}},
			B:        [][]float64{{0}, {1}},
			Discrete: true,
		},
	}
	if _, err := cfg.Resolve(); err == nil {
		t.Fatal("expected error for ragged matrix rows")
	}
}

func TestPresets(t *testing.T) {
	cfg := GetPreset("cartpole", "balance")
	if cfg == nil {
		t.Fatal("cartpole/balance preset missing")
	}
	if _, err := cfg.Resolve(); err != nil {
		t.Errorf("preset does not resolve: %v", err)
	}

	if GetPreset("cartpole", "nope") != nil {
		t.Error("expected nil for unknown preset")
	}
	if GetPreset("nope", "balance") != nil {
		t.Error("expected nil for unknown plant")
	}
	if names := ListPresets("pendulum"); len(names) == 0 {
		t.Error("pendulum has no presets listed")
	}
	names := ListPresets("cartpole")
	if !sort.StringsAreSorted(names) {
		t.Errorf("preset names not sorted: %v", names)
	}
	if len(names) != 3 || names[0] != "balance" {
		t.Errorf("cartpole presets = %v, want [balance cheap recover]", names)
	}

	for plantName, plantPresets := range Presets {
		for name, cfg := range plantPresets {
			if _, err := cfg.Resolve(); err != nil {
				t.Errorf("%s/%s does not resolve: %v", plantName, name, err)
			}
		}
	}
}
