package control

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/dlqr/internal/linsys"
)

// StateFeedback applies u = -K·(x - target). A nil target regulates to the
// origin. A missing gain column or target entry is treated as zero, so a
// gain for a lower-order model can drive a larger state without panicking.
type StateFeedback struct {
	K      *mat.Dense
	Target linsys.State
}

func NewStateFeedback(k *mat.Dense, target linsys.State) *StateFeedback {
	return &StateFeedback{K: k, Target: target}
}

func (s *StateFeedback) Compute(x linsys.State, t float64) linsys.Control {
	m, n := s.K.Dims()
	u := make(linsys.Control, m)
	for i := 0; i < m; i++ {
		for j := 0; j < n && j < len(x); j++ {
			target := 0.0
			if j < len(s.Target) {
				target = s.Target[j]
			}
			u[i] -= s.K.At(i, j) * (x[j] - target)
		}
	}
	return u
}
