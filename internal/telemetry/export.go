package telemetry

import (
	"encoding/json"
	"io"
)

// Trace is the JSON form of a recording.
type Trace struct {
	Bodies []string       `json:"bodies"`
	Frames []uint64       `json:"frames"`
	Center []float64      `json:"center"`
	Angles [][][2]float64 `json:"angles"`    // [frame][body]{revolution, spin}
	Points [][][3]float64 `json:"positions"` // [frame][body]{x, y, z}
}

func (r *Recorder) Trace() Trace {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := Trace{
		Bodies: append([]string(nil), r.names...),
		Frames: make([]uint64, len(r.samples)),
		Center: make([]float64, len(r.samples)),
		Angles: make([][][2]float64, len(r.samples)),
		Points: make([][][3]float64, len(r.samples)),
	}
	for i, s := range r.samples {
		t.Frames[i] = s.Frame
		t.Center[i] = s.Center
		t.Angles[i] = make([][2]float64, len(s.Bodies))
		t.Points[i] = make([][3]float64, len(s.Positions))
		for j, b := range s.Bodies {
			t.Angles[i][j] = [2]float64{b.Revolution, b.Spin}
		}
		for j, p := range s.Positions {
			t.Points[i][j] = [3]float64{p.X(), p.Y(), p.Z()}
		}
	}
	return t
}

func (r *Recorder) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Trace())
}
