// Package sim steps discrete-time linear systems under feedback and
// records the resulting trajectories.
package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/dlqr/internal/linsys"
)

// Config controls a single run.
type Config struct {
	Dt    float64
	Steps int
}

// Result is a recorded trajectory. States holds Steps+1 samples including
// the initial state; Controls holds the Steps inputs that produced them.
type Result struct {
	States   []linsys.State
	Controls []linsys.Control
	Times    []float64
	Metrics  map[string]float64
}

// Final returns the last recorded state.
func (r *Result) Final() linsys.State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

type Simulator struct {
	sys        *linsys.System
	controller linsys.Controller
	metrics    []linsys.Metric
	observers  []linsys.Observer
}

// New builds a simulator for the system under the given controller. A nil
// controller runs the system open loop.
func New(sys *linsys.System, controller linsys.Controller) *Simulator {
	return &Simulator{
		sys:        sys,
		controller: controller,
		metrics:    make([]linsys.Metric, 0),
		observers:  make([]linsys.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m linsys.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o linsys.Observer) { s.observers = append(s.observers, o) }

// Run simulates cfg.Steps samples starting from x0. Metrics observe each
// (state, input) pair before the step is taken, so they see exactly the
// pairs that enter the accumulated cost. A non-finite state aborts the run
// with a StepError; the partial result up to that point is still returned.
func (s *Simulator) Run(ctx context.Context, x0 linsys.State, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	n, _ := s.sys.Dims()
	if len(x0) != n {
		return nil, fmt.Errorf("%w: initial state has %d entries for a %d-state system", linsys.ErrDimension, len(x0), n)
	}
	if !x0.IsValid() {
		return nil, &StepError{Step: 0, Time: 0, Err: ErrDiverged}
	}

	result := &Result{
		States:   make([]linsys.State, 0, cfg.Steps+1),
		Controls: make([]linsys.Control, 0, cfg.Steps),
		Times:    make([]float64, 0, cfg.Steps+1),
		Metrics:  make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		var u linsys.Control
		if s.controller != nil {
			u = s.controller.Compute(x, t)
		}

		for _, m := range s.metrics {
			m.Observe(x, u, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, u, t)
		}

		next, err := s.sys.Step(x, u)
		if err != nil {
			return result, &StepError{Step: i, Time: t, Err: err}
		}
		if !next.IsValid() {
			return result, &StepError{Step: i, Time: t, Err: ErrDiverged}
		}

		x = next
		t += cfg.Dt

		result.States = append(result.States, x.Clone())
		result.Controls = append(result.Controls, u)
		result.Times = append(result.Times, t)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("sim: dt must be positive, got %g", cfg.Dt)
	}
	if cfg.Steps <= 0 {
		return fmt.Errorf("sim: steps must be positive, got %d", cfg.Steps)
	}
	return nil
}
