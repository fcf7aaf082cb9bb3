package sim

import (
	"context"
	"errors"
	"math"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/dlqr/internal/linsys"
)

type gainController struct {
	k float64
}

func (g *gainController) Compute(x linsys.State, t float64) linsys.Control {
	return linsys.Control{-g.k * x[0]}
}

type poisonController struct {
	calls int
}

func (p *poisonController) Compute(x linsys.State, t float64) linsys.Control {
	p.calls++
	if p.calls > 2 {
		return linsys.Control{math.NaN()}
	}
	return linsys.Control{0}
}

type countingMetric struct {
	count int
}

func (c *countingMetric) Name() string                                       { return "observations" }
func (c *countingMetric) Observe(x linsys.State, u linsys.Control, t float64) { c.count++ }
func (c *countingMetric) Value() float64                                     { return float64(c.count) }
func (c *countingMetric) Reset()                                             { c.count = 0 }

type recordingObserver struct {
	times []float64
}

func (r *recordingObserver) OnStep(x linsys.State, u linsys.Control, t float64) {
	r.times = append(r.times, t)
}

func decaySystem() *linsys.System {
	sys, err := linsys.NewSystem(
		mat.NewDense(1, 1, []float64{0.5}),
		mat.NewDense(1, 1, []float64{1}),
	)
	Expect(err).ToNot(HaveOccurred())
	return sys
}

var _ = Describe("Simulator", func() {
	var sys *linsys.System

	BeforeEach(func() {
		sys = decaySystem()
	})

	It("should record the full trajectory", func() {
		s := New(sys, nil)

		res, err := s.Run(context.Background(), linsys.State{1}, Config{Dt: 0.1, Steps: 10})

		Expect(err).ToNot(HaveOccurred())
		Expect(res.States).To(HaveLen(11))
		Expect(res.Controls).To(HaveLen(10))
		Expect(res.Times).To(HaveLen(11))
		Expect(res.States[10][0]).To(BeNumerically("~", math.Pow(0.5, 10), 1e-12))
		Expect(res.Final()[0]).To(Equal(res.States[10][0]))
	})

	It("should apply feedback from the controller", func() {
		// u = -0.5·x cancels the decay dynamics exactly.
		s := New(sys, &gainController{k: 0.5})

		res, err := s.Run(context.Background(), linsys.State{1}, Config{Dt: 0.1, Steps: 3})

		Expect(err).ToNot(HaveOccurred())
		Expect(res.States[1][0]).To(BeZero())
		Expect(res.Controls[0][0]).To(Equal(-0.5))
	})

	It("should reject bad configs", func() {
		s := New(sys, nil)

		_, err := s.Run(context.Background(), linsys.State{1}, Config{Dt: 0, Steps: 10})
		Expect(err).To(HaveOccurred())

		_, err = s.Run(context.Background(), linsys.State{1}, Config{Dt: 0.1, Steps: 0})
		Expect(err).To(HaveOccurred())
	})

	It("should reject a mismatched initial state", func() {
		s := New(sys, nil)

		_, err := s.Run(context.Background(), linsys.State{1, 2}, Config{Dt: 0.1, Steps: 5})

		Expect(errors.Is(err, linsys.ErrDimension)).To(BeTrue())
	})

	It("should stop on divergence with step context", func() {
		s := New(sys, &poisonController{})

		res, err := s.Run(context.Background(), linsys.State{1}, Config{Dt: 0.1, Steps: 10})

		Expect(errors.Is(err, ErrDiverged)).To(BeTrue())
		var stepErr *StepError
		Expect(errors.As(err, &stepErr)).To(BeTrue())
		Expect(stepErr.Step).To(Equal(2))
		Expect(res.States).To(HaveLen(3))
	})

	It("should honor context cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s := New(sys, nil)

		_, err := s.Run(ctx, linsys.State{1}, Config{Dt: 0.1, Steps: 1000})

		Expect(err).To(MatchError(context.Canceled))
	})

	It("should reset and report metrics", func() {
		s := New(sys, nil)
		m := &countingMetric{count: 99}
		s.AddMetric(m)

		res, err := s.Run(context.Background(), linsys.State{1}, Config{Dt: 0.1, Steps: 5})

		Expect(err).ToNot(HaveOccurred())
		Expect(res.Metrics).To(HaveKey("observations"))
		Expect(res.Metrics["observations"]).To(Equal(5.0))
	})

	It("should notify observers once per step", func() {
		s := New(sys, nil)
		obs := &recordingObserver{}
		s.AddObserver(obs)

		_, err := s.Run(context.Background(), linsys.State{1}, Config{Dt: 0.1, Steps: 4})

		Expect(err).ToNot(HaveOccurred())
		Expect(obs.times).To(HaveLen(4))
		Expect(obs.times[0]).To(BeZero())
	})
})

var _ = Describe("Ensemble", func() {
	var sys *linsys.System

	BeforeEach(func() {
		sys = decaySystem()
	})

	It("should run every start in order", func() {
		starts := []linsys.State{{1}, {2}, {4}}
		e := NewEnsemble(sys, nil)

		results, err := e.Run(context.Background(), starts, Config{Dt: 0.1, Steps: 4})

		Expect(err).ToNot(HaveOccurred())
		Expect(results).To(HaveLen(3))
		for i, res := range results {
			want := starts[i][0] * math.Pow(0.5, 4)
			Expect(res.States[4][0]).To(BeNumerically("~", want, 1e-12))
		}
	})

	It("should give each run its own controller", func() {
		var made atomic.Int32
		factory := func() linsys.Controller {
			made.Add(1)
			return &gainController{k: 0.5}
		}
		e := NewEnsemble(sys, factory)

		results, err := e.Run(context.Background(), []linsys.State{{1}, {2}, {3}}, Config{Dt: 0.1, Steps: 2})

		Expect(err).ToNot(HaveOccurred())
		Expect(results).To(HaveLen(3))
		Expect(made.Load()).To(Equal(int32(3)))
		for _, res := range results {
			Expect(res.States[1][0]).To(BeZero())
		}
	})

	It("should surface the first failure", func() {
		starts := []linsys.State{{1}, {math.NaN()}}
		e := NewEnsemble(sys, nil)

		results, err := e.Run(context.Background(), starts, Config{Dt: 0.1, Steps: 2})

		Expect(err).To(HaveOccurred())
		Expect(results).To(BeNil())
	})
})
