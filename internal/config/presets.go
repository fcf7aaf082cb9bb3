package config

import "sort"

// Presets are ready-made design problems keyed by plant and scenario name.
var Presets = map[string]map[string]*Config{
	"cartpole": {
		"balance": {
			Plant:  "cartpole",
			Solver: SolverConfig{Tolerance: 1e-15},
			Sim:    SimConfig{Steps: 1500, X0: []float64{0, 0, 0.05, 0}},
		},
		"recover": {
			Plant:  "cartpole",
			Solver: SolverConfig{Tolerance: 1e-15},
			Sim:    SimConfig{Steps: 2000, X0: []float64{0, 0, 0.3, 0}},
		},
		"cheap": {
			Plant:   "cartpole",
			Weights: WeightsConfig{RScale: 0.01},
			Solver:  SolverConfig{Tolerance: 1e-15},
			Sim:     SimConfig{Steps: 1500, X0: []float64{0, 0, 0.05, 0}},
		},
	},
	"pendulum": {
		"upright": {
			Plant:  "pendulum",
			Solver: SolverConfig{Tolerance: 1e-12},
			Sim:    SimConfig{Steps: 1000, X0: []float64{0.1, 0}},
		},
		"shove": {
			Plant:  "pendulum",
			Solver: SolverConfig{Tolerance: 1e-12},
			Sim:    SimConfig{Steps: 1500, X0: []float64{0.05, 2.0}},
		},
	},
	"springmass": {
		"settle": {
			Plant:  "springmass",
			Solver: SolverConfig{Tolerance: 1e-12},
			Sim:    SimConfig{Steps: 1000, X0: []float64{2, 0}},
		},
	},
	"doubleintegrator": {
		"brake": {
			Plant:  "doubleintegrator",
			Solver: SolverConfig{Tolerance: 1e-12},
			Sim:    SimConfig{Steps: 200, X0: []float64{1, 1}},
		},
	},
}

func GetPreset(plantName, preset string) *Config {
	plantPresets, ok := Presets[plantName]
	if !ok {
		return nil
	}
	cfg, ok := plantPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(plantName string) []string {
	plantPresets, ok := Presets[plantName]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(plantPresets))
	for name := range plantPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
