package render

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orrery/internal/scene"
	"github.com/san-kum/orrery/internal/viewport"
)

// Sphere is a body in world space.
type Sphere struct {
	Name     string
	Center   mgl64.Vec3
	Radius   float64
	Color    colorful.Color
	Emissive bool
	Fallback bool
}

// Ring is an annulus in world space. World maps the ring's local XY plane
// into the scene.
type Ring struct {
	Name     string
	World    mgl64.Mat4
	Center   mgl64.Vec3
	Normal   mgl64.Vec3
	Inner    float64
	Outer    float64
	Segments int
	Color    colorful.Color
	Fallback bool
}

// Line is a polyline in world space.
type Line struct {
	Name   string
	Points []mgl64.Vec3
	Color  colorful.Color
}

// Frame is an immutable snapshot of everything a host needs to draw one
// image.
type Frame struct {
	Seq        uint64
	Width      int
	Height     int
	Eye        mgl64.Vec3
	Target     mgl64.Vec3
	Up         mgl64.Vec3
	FOV        float64 // vertical, degrees
	View       mgl64.Mat4
	Projection mgl64.Mat4
	Background colorful.Color
	Lights     []scene.Light
	Spheres    []Sphere
	Rings      []Ring
	Lines      []Line
}

// BuildFrame walks the scene and captures world-space primitives as seen
// by cam on a width by height surface.
func BuildFrame(sc *scene.Scene, cam *viewport.Camera, width, height int) *Frame {
	f := &Frame{
		Width:      width,
		Height:     height,
		Eye:        cam.Eye,
		Target:     cam.Target,
		Up:         cam.Up,
		FOV:        cam.FOV,
		View:       cam.View(),
		Projection: cam.Projection(),
		Background: sc.Background().Color(),
		Lights:     slices.Clone(sc.Lights()),
	}
	sc.Walk(func(_ scene.NodeID, n *scene.Node, world mgl64.Mat4) bool {
		color := n.Material.SurfaceColor()
		switch n.Geometry.Kind {
		case scene.GeomSphere:
			f.Spheres = append(f.Spheres, Sphere{
				Name:     n.Name,
				Center:   world.Col(3).Vec3(),
				Radius:   n.Geometry.Radius,
				Color:    color,
				Emissive: n.Material.Shading == scene.ShadingBasic,
				Fallback: n.Material.Fallback,
			})
		case scene.GeomRing:
			f.Rings = append(f.Rings, Ring{
				Name:     n.Name,
				World:    world,
				Center:   world.Col(3).Vec3(),
				Normal:   world.Mul4x1(mgl64.Vec4{0, 0, 1, 0}).Vec3().Normalize(),
				Inner:    n.Geometry.Inner,
				Outer:    n.Geometry.Outer,
				Segments: n.Geometry.Segments,
				Color:    color,
				Fallback: n.Material.Fallback,
			})
		case scene.GeomPolyline:
			pts := make([]mgl64.Vec3, len(n.Geometry.Points))
			for i, p := range n.Geometry.Points {
				pts[i] = mgl64.TransformCoordinate(p, world)
			}
			f.Lines = append(f.Lines, Line{Name: n.Name, Points: pts, Color: color})
		}
		return true
	})
	return f
}

// Project maps a world point to surface coordinates with the origin at the
// top left. ok is false for points behind the camera.
func (f *Frame) Project(p mgl64.Vec3) (x, y, depth float64, ok bool) {
	clip := f.Projection.Mul4(f.View).Mul4x1(p.Vec4(1))
	w := clip.W()
	if w <= 0 {
		return 0, 0, 0, false
	}
	nx, ny, nz := clip.X()/w, clip.Y()/w, clip.Z()/w
	x = (nx + 1) / 2 * float64(f.Width)
	y = (1 - ny) / 2 * float64(f.Height)
	return x, y, nz, true
}

// ProjectedRadius returns the on-surface radius of a sphere, or 0 when its
// center is behind the camera.
func (f *Frame) ProjectedRadius(s Sphere) float64 {
	d := s.Center.Sub(f.Eye).Len()
	if d <= s.Radius {
		return 0
	}
	if _, _, _, ok := f.Project(s.Center); !ok {
		return 0
	}
	// Projection[5] is cot(fov/2).
	return s.Radius / d * f.Projection[5] * float64(f.Height) / 2
}

// RingPoints samples one edge circle of a ring in world space.
func (r Ring) RingPoints(radius float64) []mgl64.Vec3 {
	n := max(r.Segments, 3)
	pts := make([]mgl64.Vec3, n+1)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = mgl64.TransformCoordinate(mgl64.Vec3{radius * math.Cos(a), radius * math.Sin(a), 0}, r.World)
	}
	pts[n] = pts[0]
	return pts
}
