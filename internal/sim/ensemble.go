package sim

import (
	"context"
	"sync"

	"github.com/san-kum/dlqr/internal/linsys"
)

// Ensemble runs one simulation per initial state in parallel. Controllers
// carry state between steps, so every run gets a fresh one from the
// factory; a nil factory runs each start open loop.
type Ensemble struct {
	sys     *linsys.System
	makeCtl func() linsys.Controller
}

func NewEnsemble(sys *linsys.System, makeCtl func() linsys.Controller) *Ensemble {
	return &Ensemble{sys: sys, makeCtl: makeCtl}
}

// Run simulates every start with the same config and returns the results
// in start order. The first failed run's error is returned, if any.
func (e *Ensemble) Run(ctx context.Context, starts []linsys.State, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(starts))
	errs := make([]error, len(starts))

	var wg sync.WaitGroup
	for i := range starts {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			var ctl linsys.Controller
			if e.makeCtl != nil {
				ctl = e.makeCtl()
			}
			results[idx], errs[idx] = New(e.sys, ctl).Run(ctx, starts[idx], cfg)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
