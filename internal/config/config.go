package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dlqr/internal/linsys"
	"github.com/san-kum/dlqr/internal/plant"
)

const (
	DefaultPlant     = "cartpole"
	DefaultTolerance = 1e-15
	DefaultSteps     = 1000
)

// Config describes a gain design problem: either a named plant from the
// library or an explicit system given as matrix rows, plus cost weights,
// solver settings, and simulation settings.
type Config struct {
	Plant   string        `yaml:"plant,omitempty"`
	System  SystemConfig  `yaml:"system,omitempty"`
	Weights WeightsConfig `yaml:"weights,omitempty"`
	Solver  SolverConfig  `yaml:"solver,omitempty"`
	Sim     SimConfig     `yaml:"sim,omitempty"`
}

// SystemConfig is an explicit model as row lists. A and B are taken as
// continuous-time and discretized at Dt unless Discrete is set.
type SystemConfig struct {
	A        [][]float64 `yaml:"a,omitempty"`
	B        [][]float64 `yaml:"b,omitempty"`
	Dt       float64     `yaml:"dt,omitempty"`
	Discrete bool        `yaml:"discrete,omitempty"`
}

// WeightsConfig overrides the cost structure. Explicit matrices replace
// the plant defaults; the scales multiply whatever is in effect. Zero
// scales mean one.
type WeightsConfig struct {
	Q      [][]float64 `yaml:"q,omitempty"`
	R      [][]float64 `yaml:"r,omitempty"`
	N      [][]float64 `yaml:"n,omitempty"`
	QScale float64     `yaml:"q_scale,omitempty"`
	RScale float64     `yaml:"r_scale,omitempty"`
}

type SolverConfig struct {
	Tolerance float64 `yaml:"tolerance,omitempty"`
	MaxIter   int     `yaml:"max_iter,omitempty"`
}

type SimConfig struct {
	Steps int       `yaml:"steps,omitempty"`
	X0    []float64 `yaml:"x0,omitempty"`
}

// Problem is a config resolved into solver-ready form.
type Problem struct {
	Name    string
	System  *linsys.System
	Weights *linsys.Weights
	X0      linsys.State
	Dt      float64
	States  []string
	Inputs  []string
}

func DefaultConfig() *Config {
	return &Config{
		Plant:  DefaultPlant,
		Solver: SolverConfig{Tolerance: DefaultTolerance},
		Sim:    SimConfig{Steps: DefaultSteps},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Plant = ""
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Resolve turns the config into a concrete problem. A named plant supplies
// the model and defaults; explicit system or weight entries take
// precedence over it.
func (c *Config) Resolve() (*Problem, error) {
	if c.Plant != "" {
		return c.resolvePlant()
	}
	return c.resolveExplicit()
}

func (c *Config) resolvePlant() (*Problem, error) {
	p, err := plant.Get(c.Plant)
	if err != nil {
		return nil, err
	}

	dt := p.Dt
	if c.System.Dt > 0 {
		dt = c.System.Dt
	}
	sys, err := p.DiscretizeAt(dt)
	if err != nil {
		return nil, err
	}

	w, err := c.weights(p.Weights)
	if err != nil {
		return nil, err
	}
	if err := w.Check(sys); err != nil {
		return nil, err
	}

	x0 := p.X0.Clone()
	if len(c.Sim.X0) > 0 {
		x0 = linsys.State(c.Sim.X0).Clone()
	}

	return &Problem{
		Name:    p.Name,
		System:  sys,
		Weights: w,
		X0:      x0,
		Dt:      dt,
		States:  p.States,
		Inputs:  p.Inputs,
	}, nil
}

func (c *Config) resolveExplicit() (*Problem, error) {
	if len(c.System.A) == 0 || len(c.System.B) == 0 {
		return nil, fmt.Errorf("config: no plant name and no system matrices")
	}
	a, err := linsys.FromRows(c.System.A)
	if err != nil {
		return nil, fmt.Errorf("config: system a: %w", err)
	}
	b, err := linsys.FromRows(c.System.B)
	if err != nil {
		return nil, fmt.Errorf("config: system b: %w", err)
	}

	var sys *linsys.System
	dt := c.System.Dt
	if c.System.Discrete {
		if dt <= 0 {
			dt = 1
		}
		sys, err = linsys.NewSystem(a, b)
	} else {
		sys, err = linsys.Discretize(a, b, dt)
	}
	if err != nil {
		return nil, err
	}

	n, m := sys.Dims()
	w, err := c.weights(linsys.DefaultWeights(n, m))
	if err != nil {
		return nil, err
	}
	if err := w.Check(sys); err != nil {
		return nil, err
	}

	x0 := make(linsys.State, n)
	if len(c.Sim.X0) > 0 {
		x0 = linsys.State(c.Sim.X0).Clone()
	}

	return &Problem{
		Name:    "custom",
		System:  sys,
		Weights: w,
		X0:      x0,
		Dt:      dt,
	}, nil
}

// weights applies explicit overrides and scales on top of a base cost
// structure.
func (c *Config) weights(base *linsys.Weights) (*linsys.Weights, error) {
	q, r, n := base.Q, base.R, base.N

	if len(c.Weights.Q) > 0 {
		m, err := linsys.FromRows(c.Weights.Q)
		if err != nil {
			return nil, fmt.Errorf("config: weights q: %w", err)
		}
		q = m
	}
	if len(c.Weights.R) > 0 {
		m, err := linsys.FromRows(c.Weights.R)
		if err != nil {
			return nil, fmt.Errorf("config: weights r: %w", err)
		}
		r = m
	}
	if len(c.Weights.N) > 0 {
		m, err := linsys.FromRows(c.Weights.N)
		if err != nil {
			return nil, fmt.Errorf("config: weights n: %w", err)
		}
		n = m
	}

	w, err := linsys.NewWeights(q, r, n)
	if err != nil {
		return nil, err
	}

	qScale, rScale := c.Weights.QScale, c.Weights.RScale
	if qScale == 0 {
		qScale = 1
	}
	if rScale == 0 {
		rScale = 1
	}
	if qScale != 1 || rScale != 1 {
		w = w.Scaled(qScale, rScale)
	}
	return w, nil
}
