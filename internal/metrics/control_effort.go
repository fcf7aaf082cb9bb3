package metrics

import (
	"math"

	"github.com/san-kum/dlqr/internal/linsys"
)

// ControlEffort accumulates the squared input magnitude over a run and
// tracks the largest single actuation.
type ControlEffort struct {
	name    string
	sum     float64
	peak    float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(x linsys.State, u linsys.Control, t float64) {
	for _, val := range u {
		c.sum += val * val
		if a := math.Abs(val); a > c.peak {
			c.peak = a
		}
	}
	c.samples++
}

// Value returns the total squared control effort.
func (c *ControlEffort) Value() float64 {
	return c.sum
}

// Peak returns the largest absolute input seen since the last reset.
func (c *ControlEffort) Peak() float64 {
	return c.peak
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.peak = 0
	c.samples = 0
}
