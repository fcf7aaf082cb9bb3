package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/dlqr/internal/sim"
)

// ExportData is the JSON export shape for a run: design metadata plus the
// full trajectory.
type ExportData struct {
	Plant      string             `json:"plant"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	Gain       [][]float64        `json:"gain"`
	Iterations int                `json:"iterations"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Controls   [][]float64        `json:"controls"`
	Metrics    map[string]float64 `json:"metrics"`
}

// WriteJSON exports a fresh result together with its design metadata.
func WriteJSON(w io.Writer, meta *RunMetadata, result *sim.Result) error {
	data := ExportData{
		Plant:      meta.Plant,
		Dt:         meta.Dt,
		Steps:      meta.Steps,
		Gain:       meta.Gain,
		Iterations: meta.Iterations,
		Times:      result.Times,
		States:     make([][]float64, len(result.States)),
		Controls:   make([][]float64, len(result.Controls)),
		Metrics:    result.Metrics,
	}
	for i, s := range result.States {
		data.States[i] = s
	}
	for i, c := range result.Controls {
		data.Controls[i] = c
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteStoredJSON exports a previously saved run from its metadata and
// reloaded trajectory columns.
func WriteStoredJSON(w io.Writer, meta *RunMetadata, times []float64, states [][]float64) error {
	data := ExportData{
		Plant:      meta.Plant,
		Dt:         meta.Dt,
		Steps:      meta.Steps,
		Gain:       meta.Gain,
		Iterations: meta.Iterations,
		Times:      times,
		States:     states,
		Metrics:    meta.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSON writes a run export to a file.
func ExportJSON(path string, meta *RunMetadata, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, meta, result)
}
