package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/dlqr/internal/linsys"
	"github.com/san-kum/dlqr/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		States: []linsys.State{
			{1.0, 0.0},
			{0.9, -0.1},
			{0.8, -0.15},
		},
		Controls: []linsys.Control{
			{-0.5},
			{-0.4},
		},
		Times: []float64{0.0, 0.01, 0.02},
		Metrics: map[string]float64{
			"quadratic_cost": 1.5,
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	gain := [][]float64{{2.5, 0.8}}
	runID, err := st.Save("pendulum", 0.01, 1e-15, 120, gain, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Plant != "pendulum" {
		t.Errorf("expected plant 'pendulum', got '%s'", meta.Plant)
	}
	if meta.Iterations != 120 {
		t.Errorf("expected 120 iterations, got %d", meta.Iterations)
	}
	if meta.Tolerance != 1e-15 {
		t.Errorf("expected tolerance 1e-15, got %g", meta.Tolerance)
	}
	if len(meta.Gain) != 1 || len(meta.Gain[0]) != 2 || meta.Gain[0][0] != 2.5 {
		t.Errorf("gain round trip failed: %v", meta.Gain)
	}
	if meta.Metrics["quadratic_cost"] != 1.5 {
		t.Errorf("expected quadratic_cost 1.5, got %f", meta.Metrics["quadratic_cost"])
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}

	if len(states) != 3 {
		t.Errorf("expected 3 samples, got %d", len(states))
	}
	if len(times) != 3 {
		t.Errorf("expected 3 times, got %d", len(times))
	}
	// Two state columns plus one input column.
	if len(states[0]) != 3 {
		t.Errorf("expected 3 columns per sample, got %d", len(states[0]))
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save("cartpole", 0.02, 1e-15, 80, [][]float64{{1, 2, 3, 4}}, sampleResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreDistinctRunIDs(t *testing.T) {
	st := New(t.TempDir())

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	first, err := st.Save("cartpole", 0.02, 1e-15, 80, nil, sampleResult())
	if err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	second, err := st.Save("cartpole", 0.02, 1e-15, 80, nil, sampleResult())
	if err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	if first == second {
		t.Errorf("back-to-back saves share run id %s", first)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("cartpole", 0.02, 1e-15, 80, nil, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "states.csv")); os.IsNotExist(err) {
		t.Error("states.csv not created")
	}
}

func TestWriteJSON(t *testing.T) {
	meta := &RunMetadata{
		Plant:      "pendulum",
		Dt:         0.01,
		Steps:      2,
		Iterations: 42,
		Gain:       [][]float64{{2.5, 0.8}},
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, meta, sampleResult()); err != nil {
		t.Fatalf("write json failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export is not valid json: %v", err)
	}
	if data.Plant != "pendulum" || data.Iterations != 42 {
		t.Errorf("metadata not carried: %+v", data)
	}
	if len(data.States) != 3 || len(data.Controls) != 2 {
		t.Errorf("trajectory not carried: %d states, %d controls", len(data.States), len(data.Controls))
	}
}

func TestTrajectorySVG(t *testing.T) {
	states := [][]float64{
		{1.0, 0.0},
		{0.5, -0.5},
		{0.0, 0.0},
	}

	svg, err := TrajectorySVG(states, 0, 1, 400, 300, "#00ff00")
	if err != nil {
		t.Fatalf("svg failed: %v", err)
	}
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "<path") {
		t.Error("output missing svg elements")
	}

	if _, err := TrajectorySVG(states, 0, 5, 400, 300, "#00ff00"); err == nil {
		t.Error("expected error for out-of-range axis")
	}
	if _, err := TrajectorySVG(states, -1, 1, 400, 300, "#00ff00"); err == nil {
		t.Error("expected error for negative x axis")
	}
	if _, err := TrajectorySVG(states, 0, -2, 400, 300, "#00ff00"); err == nil {
		t.Error("expected error for negative y axis")
	}
	if _, err := TrajectorySVG(states[:1], 0, 1, 400, 300, "#00ff00"); err == nil {
		t.Error("expected error for too few samples")
	}
}
