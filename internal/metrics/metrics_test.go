package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/dlqr/internal/linsys"
)

func testWeights() *linsys.Weights {
	return &linsys.Weights{
		Q: mat.NewDense(2, 2, []float64{1, 0, 0, 2}),
		R: mat.NewDense(1, 1, []float64{3}),
		N: mat.NewDense(2, 1, nil),
	}
}

func TestQuadraticCost(t *testing.T) {
	m := NewQuadraticCost(testWeights())

	m.Observe(linsys.State{1, 1}, linsys.Control{2}, 0)
	// 1 + 2 + 3*4 = 15
	if got := m.Value(); math.Abs(got-15) > 1e-12 {
		t.Errorf("cost = %v, want 15", got)
	}

	m.Observe(linsys.State{1, 0}, linsys.Control{0}, 0.1)
	if got := m.Value(); math.Abs(got-16) > 1e-12 {
		t.Errorf("accumulated cost = %v, want 16", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero cost after reset")
	}
}

func TestQuadraticCostCrossTerm(t *testing.T) {
	w := testWeights()
	w.N = mat.NewDense(2, 1, []float64{1, 0})
	m := NewQuadraticCost(w)

	m.Observe(linsys.State{1, 2}, linsys.Control{3}, 0)
	// 9 + 27 + 2*1*1*3 = 42
	if got := m.Value(); math.Abs(got-42) > 1e-12 {
		t.Errorf("cost with cross term = %v, want 42", got)
	}
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()

	m.Observe(linsys.State{0}, linsys.Control{2}, 0)
	m.Observe(linsys.State{0}, linsys.Control{-3}, 0.1)

	if got := m.Value(); math.Abs(got-13) > 1e-12 {
		t.Errorf("effort = %v, want 13", got)
	}
	if got := m.Peak(); math.Abs(got-3) > 1e-12 {
		t.Errorf("peak = %v, want 3", got)
	}

	m.Reset()
	if m.Value() != 0 || m.Peak() != 0 {
		t.Error("expected zero effort after reset")
	}
}

func TestSettlingTime(t *testing.T) {
	m := NewSettlingTime(0.5)

	m.Observe(linsys.State{1.0}, nil, 0)
	m.Observe(linsys.State{0.4}, nil, 0.1)
	m.Observe(linsys.State{0.6}, nil, 0.2)
	m.Observe(linsys.State{0.1}, nil, 0.3)

	if got := m.Value(); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("settling time = %v, want 0.2", got)
	}
}

func TestSettlingTimeNeverViolated(t *testing.T) {
	m := NewSettlingTime(10)

	m.Observe(linsys.State{1, 2}, nil, 0)
	m.Observe(linsys.State{0, 1}, nil, 0.1)

	if got := m.Value(); got != 0 {
		t.Errorf("settling time = %v, want 0 for a run inside the band", got)
	}
}
