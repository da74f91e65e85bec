package storage

import (
	"encoding/json"
	"io"

	"github.com/LuckySan/controlling-fun/internal/dynamo"
)

type ExportSample struct {
	Time      float64 `json:"time"`
	Theta     float64 `json:"theta"`
	ThetaDot  float64 `json:"theta_dot"`
	X         float64 `json:"x"`
	XVelocity float64 `json:"x_velocity"`
	Torque    float64 `json:"torque"`
	Command   int     `json:"command"`
	Tipped    bool    `json:"tipped"`
}

type ExportData struct {
	RunMetadata
	States []ExportSample `json:"states"`
}

// ExportJSON writes the run metadata and its samples as one indented document.
func ExportJSON(w io.Writer, meta RunMetadata, samples []dynamo.Snapshot) error {
	data := ExportData{
		RunMetadata: meta,
		States:      make([]ExportSample, len(samples)),
	}

	for i, s := range samples {
		data.States[i] = ExportSample{
			Time:      s.Elapsed,
			Theta:     s.Theta,
			ThetaDot:  s.ThetaDot,
			X:         s.X,
			XVelocity: s.XVelocity,
			Torque:    s.Torque,
			Command:   int(s.Command),
			Tipped:    s.Tipped,
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
