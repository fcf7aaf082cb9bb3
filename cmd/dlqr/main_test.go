package main

import (
	"testing"

	"github.com/san-kum/dlqr/internal/config"
	"github.com/san-kum/dlqr/internal/control"
)

func TestBuildController(t *testing.T) {
	cfg := config.DefaultConfig()
	prob, err := cfg.Resolve()
	if err != nil {
		t.Fatalf("resolve default: %v", err)
	}

	makeCtl, sol, err := buildController("lqr", prob, cfg)
	if err != nil {
		t.Fatalf("lqr: %v", err)
	}
	if sol == nil {
		t.Fatal("lqr controller has no gain solution")
	}
	if _, ok := makeCtl().(*control.StateFeedback); !ok {
		t.Errorf("lqr factory built %T, want *control.StateFeedback", makeCtl())
	}

	makeCtl, sol, err = buildController("pid", prob, cfg)
	if err != nil {
		t.Fatalf("pid: %v", err)
	}
	if sol != nil {
		t.Error("pid baseline should not solve for a gain")
	}
	if _, ok := makeCtl().(*control.PID); !ok {
		t.Errorf("pid factory built %T, want *control.PID", makeCtl())
	}
	// Each ensemble run needs its own integrator state.
	if makeCtl() == makeCtl() {
		t.Error("pid factory reuses a controller")
	}

	makeCtl, _, err = buildController("none", prob, cfg)
	if err != nil {
		t.Fatalf("none: %v", err)
	}
	u := makeCtl().Compute(prob.X0, 0)
	if len(u) != 1 {
		t.Errorf("open-loop input has %d entries, want 1", len(u))
	}
	for _, v := range u {
		if v != 0 {
			t.Errorf("open-loop input = %v, want zeros", u)
		}
	}

	if _, _, err := buildController("bangbang", prob, cfg); err == nil {
		t.Error("expected error for unknown controller")
	}
}
