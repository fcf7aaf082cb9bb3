// Package sweep evaluates a gain design problem across a grid of cost
// weight scalings: each candidate gets its own Riccati solve and
// closed-loop run, and candidates are ranked by a chosen run metric.
package sweep

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/san-kum/dlqr/internal/analysis"
	"github.com/san-kum/dlqr/internal/control"
	"github.com/san-kum/dlqr/internal/linsys"
	"github.com/san-kum/dlqr/internal/metrics"
	"github.com/san-kum/dlqr/internal/riccati"
	"github.com/san-kum/dlqr/internal/sim"
)

// Candidate is one point of the grid: multipliers applied to the baseline
// Q and R.
type Candidate struct {
	QScale float64
	RScale float64
}

// Row is a fully evaluated candidate.
type Row struct {
	Candidate
	GainMax        float64 // largest absolute gain entry
	Iterations     int
	SpectralRadius float64
	Metrics        map[string]float64
	Err            error // design or simulation failure; other fields are zero
}

// Problem bundles everything a sweep evaluates against.
type Problem struct {
	System  *linsys.System
	Weights *linsys.Weights
	X0      linsys.State
	Dt      float64
	Steps   int
	Solver  riccati.Options
}

// Scales returns n geometrically spaced multipliers from min to max
// inclusive, the usual spacing for cost weight sweeps.
func Scales(min, max float64, n int) []float64 {
	if n <= 1 || min <= 0 || max <= min {
		return []float64{min}
	}
	out := make([]float64, n)
	ratio := math.Pow(max/min, 1/float64(n-1))
	v := min
	for i := range out {
		out[i] = v
		v *= ratio
	}
	out[n-1] = max
	return out
}

// Grid crosses the two scale lists into candidates, R varying fastest.
func Grid(qScales, rScales []float64) []Candidate {
	out := make([]Candidate, 0, len(qScales)*len(rScales))
	for _, q := range qScales {
		for _, r := range rScales {
			out = append(out, Candidate{QScale: q, RScale: r})
		}
	}
	return out
}

// Run evaluates every candidate in parallel and returns rows in candidate
// order. A failed candidate carries its error in the row rather than
// aborting the sweep; only cancellation stops it early.
func Run(ctx context.Context, prob *Problem, candidates []Candidate) ([]Row, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("sweep: no candidates")
	}

	rows := make([]Row, len(candidates))

	var wg sync.WaitGroup
	for i := range candidates {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			rows[idx] = evaluate(ctx, prob, candidates[idx])
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func evaluate(ctx context.Context, prob *Problem, c Candidate) Row {
	row := Row{Candidate: c}

	w := prob.Weights.Scaled(c.QScale, c.RScale)

	sol, err := riccati.Solve(prob.System.A, prob.System.B, w.Q, w.R, w.N, prob.Solver)
	if err != nil {
		row.Err = fmt.Errorf("solve: %w", err)
		return row
	}
	row.Iterations = sol.Iterations

	kr, kc := sol.K.Dims()
	for i := 0; i < kr; i++ {
		for j := 0; j < kc; j++ {
			if a := math.Abs(sol.K.At(i, j)); a > row.GainMax {
				row.GainMax = a
			}
		}
	}

	acl, err := prob.System.ClosedLoop(sol.K)
	if err != nil {
		row.Err = fmt.Errorf("closed loop: %w", err)
		return row
	}
	radius, err := analysis.SpectralRadius(acl)
	if err != nil {
		row.Err = fmt.Errorf("spectral radius: %w", err)
		return row
	}
	row.SpectralRadius = radius

	s := sim.New(prob.System, control.NewStateFeedback(sol.K, nil))
	s.AddMetric(metrics.NewQuadraticCost(w))
	s.AddMetric(metrics.NewControlEffort())

	result, err := s.Run(ctx, prob.X0, sim.Config{Dt: prob.Dt, Steps: prob.Steps})
	if err != nil {
		row.Err = fmt.Errorf("simulate: %w", err)
		return row
	}
	row.Metrics = result.Metrics
	return row
}

// Best returns the index of the successful row with the smallest value of
// the named metric, or -1 if no row qualifies.
func Best(rows []Row, metric string) int {
	best := -1
	bestVal := math.Inf(1)
	for i, row := range rows {
		if row.Err != nil {
			continue
		}
		val, ok := row.Metrics[metric]
		if !ok {
			continue
		}
		if val < bestVal {
			bestVal = val
			best = i
		}
	}
	return best
}
