package linsys

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNewWeights(t *testing.T) {
	w, err := NewWeights(mat.NewDense(2, 2, nil), mat.NewDense(1, 1, nil), nil)
	if err != nil {
		t.Fatalf("valid weights rejected: %v", err)
	}
	if nr, nc := w.N.Dims(); nr != 2 || nc != 1 {
		t.Errorf("zero cross term is %dx%d, want 2x1", nr, nc)
	}

	if _, err := NewWeights(mat.NewDense(2, 3, nil), mat.NewDense(1, 1, nil), nil); !errors.Is(err, ErrDimension) {
		t.Errorf("non-square Q: expected ErrDimension, got %v", err)
	}
	if _, err := NewWeights(mat.NewDense(2, 2, nil), mat.NewDense(1, 1, nil), mat.NewDense(1, 1, nil)); !errors.Is(err, ErrDimension) {
		t.Errorf("N shape mismatch: expected ErrDimension, got %v", err)
	}
}

func TestWeightsCheck(t *testing.T) {
	sys, _ := NewSystem(mat.NewDense(2, 2, nil), mat.NewDense(2, 1, nil))

	if err := DefaultWeights(2, 1).Check(sys); err != nil {
		t.Errorf("matching weights rejected: %v", err)
	}
	if err := DefaultWeights(3, 1).Check(sys); !errors.Is(err, ErrDimension) {
		t.Errorf("Q size mismatch: expected ErrDimension, got %v", err)
	}
	if err := DefaultWeights(2, 2).Check(sys); !errors.Is(err, ErrDimension) {
		t.Errorf("R size mismatch: expected ErrDimension, got %v", err)
	}
}

func TestWeightsScaled(t *testing.T) {
	w := DefaultWeights(2, 1)
	s := w.Scaled(2, 10)

	if got := s.Q.At(0, 0); math.Abs(got-2) > 1e-12 {
		t.Errorf("scaled Q diagonal = %v, want 2", got)
	}
	if got := s.R.At(0, 0); math.Abs(got-10) > 1e-12 {
		t.Errorf("scaled R diagonal = %v, want 10", got)
	}
	if got := w.Q.At(0, 0); got != 1 {
		t.Errorf("original Q modified: %v", got)
	}
}

func TestFromRows(t *testing.T) {
	m, err := FromRows([][]float64{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatalf("rectangular rows rejected: %v", err)
	}
	if m.At(1, 0) != 3 {
		t.Errorf("m[1][0] = %v, want 3", m.At(1, 0))
	}

	if _, err := FromRows([][]float64{{1, 2}, {3}}); !errors.Is(err, ErrDimension) {
		t.Errorf("ragged rows: expected ErrDimension, got %v", err)
	}
	if _, err := FromRows(nil); !errors.Is(err, ErrDimension) {
		t.Errorf("nil rows: expected ErrDimension, got %v", err)
	}

	back := Rows(m)
	if back[0][1] != 2 || back[1][1] != 4 {
		t.Errorf("Rows round trip = %v", back)
	}
}
