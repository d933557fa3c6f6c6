package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orrery/internal/asset"
	"github.com/san-kum/orrery/internal/scene"
)

const (
	DefaultFPS        = 60
	DefaultSegments   = scene.DefaultOrbitSegments
	DefaultCenterTint = "#ffcc55"
	DefaultLightColor = "#ffffff"
	DefaultBackground = "/image/stars.jpg"
)

// Format is a configuration file encoding.
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

var ErrUnknownFormat = errors.New("unknown config format")

type Config struct {
	Name       string       `yaml:"name" toml:"name"`
	FPS        int          `yaml:"fps" toml:"fps"`
	Segments   int          `yaml:"segments" toml:"segments"`
	Assets     string       `yaml:"assets,omitempty" toml:"assets,omitempty"`
	Center     CenterConfig `yaml:"center" toml:"center"`
	Lights     LightsConfig `yaml:"lights" toml:"lights"`
	Background []string     `yaml:"background" toml:"background"`
	Bodies     []BodyConfig `yaml:"bodies" toml:"bodies"`
}

type CenterConfig struct {
	Name      string  `yaml:"name" toml:"name"`
	Size      float64 `yaml:"size" toml:"size"`
	Texture   string  `yaml:"texture" toml:"texture"`
	Tint      string  `yaml:"tint" toml:"tint"`
	SpinSpeed float64 `yaml:"spin_speed" toml:"spin_speed"`
}

type LightsConfig struct {
	Color            string  `yaml:"color" toml:"color"`
	PointIntensity   float64 `yaml:"point_intensity" toml:"point_intensity"`
	PointRange       float64 `yaml:"point_range" toml:"point_range"`
	AmbientIntensity float64 `yaml:"ambient_intensity" toml:"ambient_intensity"`
}

type BodyConfig struct {
	Name            string      `yaml:"name" toml:"name"`
	Size            float64     `yaml:"size" toml:"size"`
	Texture         string      `yaml:"texture" toml:"texture"`
	Distance        float64     `yaml:"distance" toml:"distance"`
	Ring            *RingConfig `yaml:"ring,omitempty" toml:"ring,omitempty"`
	RevolutionSpeed float64     `yaml:"revolution_speed" toml:"revolution_speed"`
	SpinSpeed       float64     `yaml:"spin_speed" toml:"spin_speed"`
}

type RingConfig struct {
	InnerRadius float64 `yaml:"inner_radius" toml:"inner_radius"`
	OuterRadius float64 `yaml:"outer_radius" toml:"outer_radius"`
	Texture     string  `yaml:"texture" toml:"texture"`
}

func texture(name string) string { return "/image/" + name + ".jpg" }

func body(name string, size, distance, revolution, spin float64) BodyConfig {
	return BodyConfig{Name: name, Size: size, Texture: texture(name), Distance: distance, RevolutionSpeed: revolution, SpinSpeed: spin}
}

func ringed(b BodyConfig, inner, outer float64) BodyConfig {
	b.Ring = &RingConfig{InnerRadius: inner, OuterRadius: outer, Texture: "/image/" + b.Name + "_ring.png"}
	return b
}

// DefaultConfig is the full nine-body system.
func DefaultConfig() *Config {
	return &Config{
		Name:     "solar",
		FPS:      DefaultFPS,
		Segments: DefaultSegments,
		Center: CenterConfig{
			Name:      "sun",
			Size:      scene.DefaultCenterSize,
			Texture:   texture("sun"),
			Tint:      DefaultCenterTint,
			SpinSpeed: scene.DefaultCenterSpin,
		},
		Lights: LightsConfig{
			Color:            DefaultLightColor,
			PointIntensity:   scene.DefaultPointIntensity,
			PointRange:       scene.DefaultPointRange,
			AmbientIntensity: scene.DefaultAmbientIntensity,
		},
		Background: []string{DefaultBackground},
		Bodies: []BodyConfig{
			body("mercury", 3.2, 28, 0.004, 0.004),
			body("venus", 5.8, 44, 0.015, 0.002),
			body("earth", 6, 62, 0.01, 0.02),
			body("mars", 4, 78, 0.008, 0.018),
			body("jupiter", 12, 100, 0.002, 0.04),
			ringed(body("saturn", 10, 138, 0.0009, 0.038), 10, 20),
			ringed(body("uranus", 7, 176, 0.0004, 0.03), 7, 12),
			body("neptune", 7, 200, 0.0001, 0.032),
			body("pluto", 2.8, 216, 0.0007, 0.008),
		},
	}
}

// FormatOf picks the encoding from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Load reads a configuration file. Fields the file omits keep their
// defaults, except bodies: a file without bodies describes an empty system.
func Load(path string) (*Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Decode(data []byte, format Format) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Bodies = nil
	cfg.Background = nil

	var err error
	switch format {
	case YAML:
		err = yaml.Unmarshal(data, cfg)
	case TOML:
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Background == nil {
		cfg.Background = []string{DefaultBackground}
	}
	return cfg, nil
}

func Encode(w io.Writer, cfg *Config, format Format) error {
	switch format {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	case TOML:
		return toml.NewEncoder(w).Encode(cfg)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func Save(path string, cfg *Config) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, cfg, format); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// ToScene converts the file form into scene inputs.
func (c *Config) ToScene() ([]scene.BodyConfig, scene.Environment, error) {
	env := scene.DefaultEnvironment()

	tint, err := colorField("center.tint", c.Center.Tint, DefaultCenterTint)
	if err != nil {
		return nil, env, err
	}
	light, err := colorField("lights.color", c.Lights.Color, DefaultLightColor)
	if err != nil {
		return nil, env, err
	}
	env.Center = scene.CenterConfig{
		Name:      c.Center.Name,
		Size:      c.Center.Size,
		Texture:   asset.Handle(c.Center.Texture),
		Tint:      tint,
		SpinSpeed: c.Center.SpinSpeed,
	}
	env.Lights = scene.LightConfig{
		Color:            light,
		PointIntensity:   c.Lights.PointIntensity,
		PointRange:       c.Lights.PointRange,
		AmbientIntensity: c.Lights.AmbientIntensity,
	}

	switch len(c.Background) {
	case 0:
	case 1:
		for i := range env.Background {
			env.Background[i] = asset.Handle(c.Background[0])
		}
	case 6:
		for i, h := range c.Background {
			env.Background[i] = asset.Handle(h)
		}
	default:
		return nil, env, fmt.Errorf("%w: background needs 1 or 6 faces, got %d", scene.ErrInvalidConfig, len(c.Background))
	}

	bodies := make([]scene.BodyConfig, len(c.Bodies))
	for i, b := range c.Bodies {
		bodies[i] = scene.BodyConfig{
			Name:            b.Name,
			Size:            b.Size,
			Texture:         asset.Handle(b.Texture),
			Distance:        b.Distance,
			RevolutionSpeed: b.RevolutionSpeed,
			SpinSpeed:       b.SpinSpeed,
		}
		if r := b.Ring; r != nil {
			bodies[i].Ring = &scene.RingSpec{InnerRadius: r.InnerRadius, OuterRadius: r.OuterRadius, Texture: asset.Handle(r.Texture)}
		}
	}
	return bodies, env, nil
}

// Validate reports every problem that would stop the scene from being
// built.
func (c *Config) Validate() error {
	var errs []error
	if c.FPS < 0 {
		errs = append(errs, fmt.Errorf("%w: fps must not be negative", scene.ErrInvalidConfig))
	}
	bodies, env, err := c.ToScene()
	if err != nil {
		return errors.Join(append(errs, err)...)
	}
	if err := scene.Validate(bodies, env, c.Segments); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func colorField(field, s, def string) (colorful.Color, error) {
	if s == "" {
		s = def
	}
	c, err := asset.ParseColor(s)
	if err != nil {
		return c, fmt.Errorf("%w: %s: %v", scene.ErrInvalidConfig, field, err)
	}
	return c, nil
}
