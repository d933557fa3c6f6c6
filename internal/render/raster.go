package render

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

type primitive struct {
	depth float64 // distance from the eye
	draw  func(c *Canvas)
}

// Rasterize draws the frame onto a braille canvas sized to hold the
// frame's surface, far primitives first.
func Rasterize(f *Frame) *Canvas {
	c := NewCanvas((f.Width+1)/2, (f.Height+3)/4)
	if f.Width <= 0 || f.Height <= 0 {
		return c
	}

	var prims []primitive
	segment := func(a, b mgl64.Vec3, col colorful.Color) {
		ax, ay, _, okA := f.Project(a)
		bx, by, _, okB := f.Project(b)
		if !okA || !okB || !onScreen(f, ax, ay) || !onScreen(f, bx, by) {
			return
		}
		d := a.Add(b).Mul(0.5).Sub(f.Eye).Len()
		prims = append(prims, primitive{d, func(c *Canvas) {
			c.DrawLine(round(ax), round(ay), round(bx), round(by), col)
		}})
	}
	polyline := func(pts []mgl64.Vec3, col colorful.Color) {
		for i := 1; i < len(pts); i++ {
			segment(pts[i-1], pts[i], col)
		}
	}

	for _, l := range f.Lines {
		polyline(l.Points, dim(l.Color, 0.35))
	}
	for _, r := range f.Rings {
		polyline(r.RingPoints(r.Inner), r.Color)
		polyline(r.RingPoints(r.Outer), r.Color)
	}
	for _, s := range f.Spheres {
		x, y, _, ok := f.Project(s.Center)
		if !ok {
			continue
		}
		radius := f.ProjectedRadius(s)
		col := s.Color
		prims = append(prims, primitive{s.Center.Sub(f.Eye).Len(), func(c *Canvas) {
			c.FillCircle(x, y, radius, col)
		}})
	}

	sort.SliceStable(prims, func(i, j int) bool { return prims[i].depth > prims[j].depth })
	for _, p := range prims {
		p.draw(c)
	}
	return c
}

// onScreen allows a margin so segments crossing the edge still draw;
// segments reaching far outside it are dropped.
func onScreen(f *Frame, x, y float64) bool {
	mw, mh := float64(f.Width), float64(f.Height)
	return x >= -mw && x <= 2*mw && y >= -mh && y <= 2*mh
}

func round(v float64) int {
	return int(math.Round(v))
}

func dim(c colorful.Color, k float64) colorful.Color {
	return colorful.Color{R: c.R * k, G: c.G * k, B: c.B * k}
}
