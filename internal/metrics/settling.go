package metrics

import (
	"math"

	"github.com/san-kum/dlqr/internal/linsys"
)

// SettlingTime records when the state last left the settling band. Its
// value is the time of the most recent sample with any state entry larger
// than the threshold; all later samples stayed inside the band. A run that
// never leaves the band reports zero.
type SettlingTime struct {
	name          string
	threshold     float64
	lastViolation float64
}

func NewSettlingTime(threshold float64) *SettlingTime {
	return &SettlingTime{
		name:      "settling_time",
		threshold: threshold,
	}
}

func (s *SettlingTime) Name() string {
	return s.name
}

func (s *SettlingTime) Observe(x linsys.State, u linsys.Control, t float64) {
	for _, val := range x {
		if math.Abs(val) > s.threshold {
			s.lastViolation = t
			return
		}
	}
}

func (s *SettlingTime) Value() float64 {
	return s.lastViolation
}

func (s *SettlingTime) Reset() {
	s.lastViolation = 0
}
