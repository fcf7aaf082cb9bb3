package linsys

import "math"

// State is a system state vector.
type State []float64

// Control is a control input vector.
type Control []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every element is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Norm returns the Euclidean norm.
func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// MaxAbs returns the largest absolute element.
func (s State) MaxAbs() float64 {
	max := 0.0
	for _, v := range s {
		if a := math.Abs(v); a > max {
			max = a
		}
	}
	return max
}

func (c Control) Clone() Control {
	out := make(Control, len(c))
	copy(out, c)
	return out
}

// Controller computes a control input from the current state and time.
type Controller interface {
	Compute(x State, t float64) Control
}

// Metric accumulates a scalar quantity over a simulation run.
type Metric interface {
	Name() string
	Observe(x State, u Control, t float64)
	Value() float64
	Reset()
}

// Observer receives each simulation step as it happens.
type Observer interface {
	OnStep(x State, u Control, t float64)
}
