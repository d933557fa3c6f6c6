package scene

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orrery/internal/asset"
)

const (
	DefaultCenterSize       = 15.0
	DefaultCenterSpin       = 0.004
	DefaultPointIntensity   = 4.0
	DefaultPointRange       = 4000.0
	DefaultAmbientIntensity = 2.0
)

// DefaultCenterTint is the warm tint applied over the center body's texture.
var DefaultCenterTint = colorful.Color{R: 1, G: 0.8, B: 1.0 / 3}

var backgroundFallback = colorful.Color{R: 0.02, G: 0.02, B: 0.05}

// CenterConfig describes the central body.
type CenterConfig struct {
	Name      string
	Size      float64
	Texture   asset.Handle
	Tint      colorful.Color
	SpinSpeed float64
}

// LightConfig describes the global light sources: one point light at the
// center and one ambient light.
type LightConfig struct {
	Color            colorful.Color
	PointIntensity   float64
	PointRange       float64
	AmbientIntensity float64
}

// Environment is everything in the scene besides the satellites.
type Environment struct {
	Center     CenterConfig
	Lights     LightConfig
	Background [6]asset.Handle
}

func DefaultEnvironment() Environment {
	return Environment{
		Center: CenterConfig{
			Name:      "sun",
			Size:      DefaultCenterSize,
			Tint:      DefaultCenterTint,
			SpinSpeed: DefaultCenterSpin,
		},
		Lights: LightConfig{
			Color:            white,
			PointIntensity:   DefaultPointIntensity,
			PointRange:       DefaultPointRange,
			AmbientIntensity: DefaultAmbientIntensity,
		},
	}
}

func (e Environment) Validate() error {
	bad := func(field string, v float64, reason string) error {
		return &ConfigError{Index: -1, Field: field, Value: v, Reason: reason}
	}
	switch {
	case !finite(e.Center.Size) || e.Center.Size <= 0:
		return bad("center.size", e.Center.Size, "must be positive")
	case !finite(e.Center.SpinSpeed):
		return bad("center.spin_speed", e.Center.SpinSpeed, "must be finite")
	case !finite(e.Lights.PointIntensity) || e.Lights.PointIntensity < 0:
		return bad("lights.point_intensity", e.Lights.PointIntensity, "must be non-negative")
	case !finite(e.Lights.PointRange) || e.Lights.PointRange < 0:
		return bad("lights.point_range", e.Lights.PointRange, "must be non-negative")
	case !finite(e.Lights.AmbientIntensity) || e.Lights.AmbientIntensity < 0:
		return bad("lights.ambient_intensity", e.Lights.AmbientIntensity, "must be non-negative")
	}
	return nil
}

// BuildOptions carries the collaborators of a build.
type BuildOptions struct {
	Resolver asset.Resolver
	Segments int // orbit path segments, DefaultOrbitSegments when zero
}

// Validate checks every input of a build without constructing anything.
// All problems are reported together.
func Validate(bodies []BodyConfig, env Environment, segments int) error {
	var errs []error
	if segments != 0 && segments < 3 {
		errs = append(errs, &ConfigError{Index: -1, Field: "segments", Value: float64(segments), Reason: "must be at least 3"})
	}
	if err := env.Validate(); err != nil {
		errs = append(errs, err)
	}
	for i, b := range bodies {
		if err := b.Validate(i); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Build assembles the full scene: center body, lights, background and one
// satellite per body config, in order. Inputs are validated up front, so a
// configuration error never yields a partial scene. Texture failures are
// returned as warnings.
func Build(bodies []BodyConfig, env Environment, opts BuildOptions) (*Scene, []Warning, error) {
	if err := Validate(bodies, env, opts.Segments); err != nil {
		return nil, nil, err
	}

	sc := newScene()
	f := NewFactory(opts.Resolver, opts.Segments)
	var warnings []Warning

	centerName := env.Center.Name
	if centerName == "" {
		centerName = "center"
	}
	mat, w := f.material(-1, centerName, env.Center.Texture, ShadingBasic)
	warnings = appendWarning(warnings, w)
	mat.Color = env.Center.Tint
	if mat.Fallback {
		mat.Color = blend(asset.FallbackColor, env.Center.Tint)
	}
	sc.center = sc.add(sc.root, Node{
		Name:     centerName,
		Kind:     KindMesh,
		Geometry: Sphere(env.Center.Size),
		Material: mat,
	})
	sc.centerSpin = env.Center.SpinSpeed

	sc.lights = []Light{
		{Kind: LightPoint, Color: env.Lights.Color, Intensity: env.Lights.PointIntensity, Range: env.Lights.PointRange, Position: mgl64.Vec3{}},
		{Kind: LightAmbient, Color: env.Lights.Color, Intensity: env.Lights.AmbientIntensity},
	}

	resolved := make(map[asset.Handle]Material)
	for i, h := range env.Background {
		if m, ok := resolved[h]; ok {
			sc.background.Faces[i] = m
			continue
		}
		m, w := f.material(-1, "background", h, ShadingBasic)
		warnings = appendWarning(warnings, w)
		if m.Fallback {
			m.Color = backgroundFallback
		}
		resolved[h] = m
		sc.background.Faces[i] = m
	}

	sc.satellites = make([]Satellite, 0, len(bodies))
	for i, b := range bodies {
		sat, ws, err := f.Build(sc, i, b)
		if err != nil {
			sc.Dispose()
			return nil, nil, err
		}
		warnings = append(warnings, ws...)
		sc.satellites = append(sc.satellites, sat)
	}
	return sc, warnings, nil
}

func blend(a, b colorful.Color) colorful.Color {
	return colorful.Color{R: a.R * b.R, G: a.G * b.G, B: a.B * b.B}
}
