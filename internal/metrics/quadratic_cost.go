package metrics

import (
	"github.com/san-kum/dlqr/internal/linsys"
)

// QuadraticCost accumulates the LQR stage cost x^T·Q·x + 2·x^T·N·u + u^T·R·u
// over a run. Its final value is the realized cost the gain was optimized
// to minimize.
type QuadraticCost struct {
	name    string
	weights *linsys.Weights
	total   float64
	samples int
}

func NewQuadraticCost(w *linsys.Weights) *QuadraticCost {
	return &QuadraticCost{
		name:    "quadratic_cost",
		weights: w,
	}
}

func (q *QuadraticCost) Name() string {
	return q.name
}

func (q *QuadraticCost) Observe(x linsys.State, u linsys.Control, t float64) {
	q.total += StageCost(q.weights, x, u)
	q.samples++
}

func (q *QuadraticCost) Value() float64 {
	return q.total
}

func (q *QuadraticCost) Reset() {
	q.total = 0
	q.samples = 0
}

// StageCost evaluates the quadratic cost of a single sample. Entries beyond
// the weight dimensions are ignored.
func StageCost(w *linsys.Weights, x linsys.State, u linsys.Control) float64 {
	cost := 0.0

	n, _ := w.Q.Dims()
	for i := 0; i < n && i < len(x); i++ {
		for j := 0; j < n && j < len(x); j++ {
			cost += x[i] * w.Q.At(i, j) * x[j]
		}
	}

	m, _ := w.R.Dims()
	for i := 0; i < m && i < len(u); i++ {
		for j := 0; j < m && j < len(u); j++ {
			cost += u[i] * w.R.At(i, j) * u[j]
		}
	}

	if w.N != nil {
		for i := 0; i < n && i < len(x); i++ {
			for j := 0; j < m && j < len(u); j++ {
				cost += 2 * x[i] * w.N.At(i, j) * u[j]
			}
		}
	}

	return cost
}
