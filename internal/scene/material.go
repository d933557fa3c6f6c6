package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orrery/internal/asset"
)

// GeometryKind identifies the shape of a drawable node.
type GeometryKind uint8

const (
	GeomNone GeometryKind = iota
	GeomSphere
	GeomRing
	GeomPolyline
)

func (k GeometryKind) String() string {
	switch k {
	case GeomSphere:
		return "sphere"
	case GeomRing:
		return "ring"
	case GeomPolyline:
		return "polyline"
	default:
		return "none"
	}
}

const (
	sphereSegments = 50
	ringSegments   = 32
)

// Geometry is the shape of a drawable node in its local frame.
type Geometry struct {
	Kind     GeometryKind
	Radius   float64 // sphere
	Inner    float64 // ring
	Outer    float64 // ring
	Segments int
	Points   []mgl64.Vec3 // polyline
}

func Sphere(radius float64) Geometry {
	return Geometry{Kind: GeomSphere, Radius: radius, Segments: sphereSegments}
}

// Ring is a flat annulus in the local XY plane.
func Ring(inner, outer float64) Geometry {
	return Geometry{Kind: GeomRing, Inner: inner, Outer: outer, Segments: ringSegments}
}

func Polyline(points []mgl64.Vec3) Geometry {
	return Geometry{Kind: GeomPolyline, Points: points, Segments: len(points) - 1}
}

// Shading selects whether a surface reacts to scene lights.
type Shading uint8

const (
	ShadingBasic Shading = iota // unlit, shows its color as is
	ShadingStandard
)

// Material describes the appearance of a drawable node.
type Material struct {
	Handle      asset.Handle
	Texture     *asset.Texture // nil when untextured or fallen back
	Color       colorful.Color
	Shading     Shading
	DoubleSided bool
	Fallback    bool
}

// SurfaceColor is the flat color that best represents the material: the
// texture's average modulated by the material color, or the color alone.
func (m Material) SurfaceColor() colorful.Color {
	if m.Texture == nil {
		return m.Color
	}
	a := m.Texture.Average
	return colorful.Color{R: a.R * m.Color.R, G: a.G * m.Color.G, B: a.B * m.Color.B}
}

// LightKind identifies a light source.
type LightKind uint8

const (
	LightPoint LightKind = iota
	LightAmbient
)

type Light struct {
	Kind      LightKind
	Color     colorful.Color
	Intensity float64
	Range     float64 // point lights only, 0 means unlimited
	Position  mgl64.Vec3
}

// Background is a six-face cube texture: +x, -x, +y, -y, +z, -z.
type Background struct {
	Faces [6]Material
}

// Color averages the faces into one flat color.
func (b Background) Color() colorful.Color {
	var r, g, bl float64
	for _, f := range b.Faces {
		c := f.SurfaceColor()
		r += c.R
		g += c.G
		bl += c.B
	}
	return colorful.Color{R: r / 6, G: g / 6, B: bl / 6}
}
