// Package telemetry records per-frame animation state and renders it as
// plots and tables.
package telemetry

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/orrery/internal/anim"
)

// Field selects one per-body quantity of a sample.
type Field int

const (
	Revolution Field = iota
	Spin
	PosX
	PosZ
)

func (f Field) String() string {
	switch f {
	case Revolution:
		return "revolution"
	case Spin:
		return "spin"
	case PosX:
		return "x"
	case PosZ:
		return "z"
	default:
		return "unknown"
	}
}

// ParseField accepts the names printed by Field.String.
func ParseField(s string) (Field, error) {
	for f := Revolution; f <= PosZ; f++ {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown field %q", s)
}

// Sample is the state after one frame.
type Sample struct {
	Frame     uint64
	Center    float64
	Bodies    []anim.BodyState
	Positions []mgl64.Vec3 // world position of each body
}

func (s Sample) value(body int, f Field) float64 {
	switch f {
	case Revolution:
		return s.Bodies[body].Revolution
	case Spin:
		return s.Bodies[body].Spin
	case PosX:
		return s.Positions[body].X()
	case PosZ:
		return s.Positions[body].Z()
	}
	return 0
}

// Recorder is an anim.Observer that keeps the most recent samples. A
// frame numbered 1 marks a new scene and clears earlier samples.
type Recorder struct {
	mu      sync.Mutex
	limit   int
	names   []string
	samples []Sample
}

// NewRecorder keeps at most limit samples; limit <= 0 keeps all.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

func (r *Recorder) OnFrame(info anim.FrameInfo) {
	sats := info.Scene.Satellites()
	s := Sample{
		Frame:     info.Frame,
		Center:    info.Center,
		Bodies:    info.Bodies,
		Positions: make([]mgl64.Vec3, len(sats)),
	}
	for i, sat := range sats {
		s.Positions[i] = info.Scene.WorldPosition(sat.Mesh)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if info.Frame == 1 || len(r.names) != len(sats) {
		r.samples = r.samples[:0]
		r.names = r.names[:0]
		for _, sat := range sats {
			r.names = append(r.names, sat.Name)
		}
	}
	r.samples = append(r.samples, s)
	if r.limit > 0 && len(r.samples) > r.limit {
		r.samples = slices.Delete(r.samples, 0, len(r.samples)-r.limit)
	}
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.names)
}

func (r *Recorder) Samples() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.samples)
}

// Series returns one body's field over the recorded frames.
func (r *Recorder) Series(body int, f Field) ([]float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if body < 0 || body >= len(r.names) {
		return nil, fmt.Errorf("no body %d (have %d)", body, len(r.names))
	}
	out := make([]float64, len(r.samples))
	for i, s := range r.samples {
		out[i] = s.value(body, f)
	}
	return out, nil
}

// Plot draws one body's field as an ASCII chart.
func (r *Recorder) Plot(body int, f Field, width, height int) (string, error) {
	data, err := r.Series(body, f)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no samples recorded")
	}
	caption := fmt.Sprintf("%s %s over %d frames", r.Names()[body], f, len(data))
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	), nil
}

// PlotAll draws the field of every body in one chart.
func (r *Recorder) PlotAll(f Field, width, height int) (string, error) {
	n := len(r.Names())
	if n == 0 || r.Len() == 0 {
		return "", fmt.Errorf("no samples recorded")
	}
	series := make([][]float64, n)
	for i := range series {
		s, err := r.Series(i, f)
		if err != nil {
			return "", err
		}
		series[i] = s
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("%s of %d bodies", f, n)),
	), nil
}

// WriteCSV writes one row per frame and body.
func (r *Recorder) WriteCSV(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"frame", "body", "center", "revolution", "spin", "x", "y", "z"}); err != nil {
		return err
	}
	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', 9, 64) }
	for _, s := range r.samples {
		for i, name := range r.names {
			p := s.Positions[i]
			row := []string{
				strconv.FormatUint(s.Frame, 10), name, ff(s.Center),
				ff(s.Bodies[i].Revolution), ff(s.Bodies[i].Spin),
				ff(p.X()), ff(p.Y()), ff(p.Z()),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
