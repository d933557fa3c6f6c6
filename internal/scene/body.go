package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orrery/internal/asset"
)

// RingTilt is the fixed X rotation that lays a ring's plane flat in the
// orbital plane, perpendicular to the revolution axis.
const RingTilt = -0.5 * math.Pi

var white = colorful.Color{R: 1, G: 1, B: 1}

// RingSpec describes an optional ring around a body.
type RingSpec struct {
	InnerRadius float64
	OuterRadius float64
	Texture     asset.Handle
}

// BodyConfig is the immutable description of one satellite body.
// Speeds are in radians per frame.
type BodyConfig struct {
	Name            string
	Size            float64
	Texture         asset.Handle
	Distance        float64
	Ring            *RingSpec
	RevolutionSpeed float64
	SpinSpeed       float64
}

// Validate checks every numeric field of the config.
func (c BodyConfig) Validate(index int) error {
	bad := func(field string, v float64, reason string) error {
		return &ConfigError{Index: index, Field: field, Value: v, Reason: reason}
	}
	switch {
	case !finite(c.Size) || c.Size <= 0:
		return bad("size", c.Size, "must be positive")
	case !finite(c.Distance) || c.Distance < 0:
		return bad("distance", c.Distance, "must be non-negative")
	case !finite(c.RevolutionSpeed):
		return bad("revolution_speed", c.RevolutionSpeed, "must be finite")
	case !finite(c.SpinSpeed):
		return bad("spin_speed", c.SpinSpeed, "must be finite")
	}
	if r := c.Ring; r != nil {
		switch {
		case !finite(r.InnerRadius) || r.InnerRadius < 0:
			return bad("ring.inner_radius", r.InnerRadius, "must be non-negative")
		case !finite(r.OuterRadius) || r.OuterRadius <= r.InnerRadius:
			return bad("ring.outer_radius", r.OuterRadius, "must exceed the inner radius")
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Satellite holds the handles of one body's sub-hierarchy, captured at
// construction so the animation loop never searches for them.
type Satellite struct {
	Index           int
	Name            string
	Pivot           NodeID
	Mesh            NodeID
	Ring            NodeID // NoNode without a ring
	Path            int    // index into Scene.Paths
	RevolutionSpeed float64
	SpinSpeed       float64
}

func (s Satellite) HasRing() bool { return s.Ring != NoNode }

// Factory builds satellite sub-hierarchies.
type Factory struct {
	resolver asset.Resolver
	segments int
}

// NewFactory returns a factory resolving textures through r. A nil
// resolver builds every surface with the fallback color.
func NewFactory(r asset.Resolver, segments int) *Factory {
	if segments == 0 {
		segments = DefaultOrbitSegments
	}
	return &Factory{resolver: r, segments: segments}
}

// Build adds one pivot with its body (and ring) under the scene root and
// registers the body's orbit path. The pivot starts at rotation zero.
func (f *Factory) Build(sc *Scene, index int, cfg BodyConfig) (Satellite, []Warning, error) {
	if err := cfg.Validate(index); err != nil {
		return Satellite{}, nil, err
	}
	points, err := GenerateOrbitPath(cfg.Distance, f.segments)
	if err != nil {
		return Satellite{}, nil, err
	}

	name := cfg.Name
	if name == "" {
		name = "body"
	}
	var warnings []Warning
	offset := mgl64.Vec3{cfg.Distance, 0, 0}

	sat := Satellite{
		Index:           index,
		Name:            name,
		Ring:            NoNode,
		RevolutionSpeed: cfg.RevolutionSpeed,
		SpinSpeed:       cfg.SpinSpeed,
	}
	sat.Pivot = sc.add(sc.root, Node{Name: name + "/pivot", Kind: KindGroup})

	if r := cfg.Ring; r != nil {
		mat, w := f.material(index, name+"/ring", r.Texture, ShadingBasic)
		mat.DoubleSided = true
		warnings = appendWarning(warnings, w)
		sat.Ring = sc.add(sat.Pivot, Node{
			Name: name + "/ring",
			Kind: KindMesh,
			Transform: Transform{
				Position: offset,
				Rotation: mgl64.Vec3{RingTilt, 0, 0},
			},
			Geometry: Ring(r.InnerRadius, r.OuterRadius),
			Material: mat,
		})
	}

	mat, w := f.material(index, name, cfg.Texture, ShadingStandard)
	warnings = appendWarning(warnings, w)
	sat.Mesh = sc.add(sat.Pivot, Node{
		Name:      name,
		Kind:      KindMesh,
		Transform: Transform{Position: offset},
		Geometry:  Sphere(cfg.Size),
		Material:  mat,
	})

	line := sc.add(sc.root, Node{
		Name:     name + "/orbit",
		Kind:     KindLine,
		Geometry: Polyline(points),
		Material: Material{Color: white, Shading: ShadingBasic},
	})
	sat.Path = len(sc.paths)
	sc.paths = append(sc.paths, OrbitPath{Radius: cfg.Distance, Points: points, Node: line})

	return sat, warnings, nil
}

// material resolves a texture. An empty handle means an untextured
// surface; a failing one falls back to the flat color with a warning.
func (f *Factory) material(index int, body string, h asset.Handle, shading Shading) (Material, *Warning) {
	m := Material{Handle: h, Color: white, Shading: shading}
	if h.IsZero() {
		m.Color = asset.FallbackColor
		m.Fallback = true
		return m, nil
	}
	var (
		tex *asset.Texture
		err error
	)
	if f.resolver == nil {
		err = asset.ErrNotFound
	} else {
		tex, err = f.resolver.Resolve(h)
	}
	if err != nil {
		m.Color = asset.FallbackColor
		m.Fallback = true
		return m, &Warning{Index: index, Body: body, Handle: h, Err: err}
	}
	m.Texture = tex
	return m, nil
}

func appendWarning(ws []Warning, w *Warning) []Warning {
	if w == nil {
		return ws
	}
	return append(ws, *w)
}
