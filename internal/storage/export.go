package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/particlesim/internal/sim"
)

type ExportData struct {
	Name       string             `json:"name"`
	Integrator string             `json:"integrator"`
	Steps      int                `json:"steps"`
	Collisions int                `json:"collisions"`
	Clamps     int                `json:"clamps"`
	Names      []string           `json:"names"`
	Trace      [][]float64        `json:"trace"`
	Metrics    map[string]float64 `json:"metrics"`
}

// ExportJSON writes the full result, trace included, as indented JSON.
func ExportJSON(w io.Writer, name, integrator string, result *sim.Result) error {
	data := ExportData{
		Name:       name,
		Integrator: integrator,
		Steps:      result.Steps,
		Collisions: result.Collisions,
		Clamps:     result.Clamps,
		Names:      result.Names,
		Trace:      result.Trace,
		Metrics:    result.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
