package asset

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrNotFound indicates the handle does not name an existing texture.
	ErrNotFound = errors.New("asset: texture not found")

	// ErrNotImage indicates the content behind a handle is not a decodable image.
	ErrNotImage = errors.New("asset: not an image")

	// ErrEmptyHandle indicates a resolve attempt with no handle at all.
	ErrEmptyHandle = errors.New("asset: empty handle")

	// ErrOutsideRoot indicates a handle that leaves the asset directory.
	ErrOutsideRoot = errors.New("asset: handle outside asset root")
)

// Handle names a texture. File resolvers treat it as a slash separated path.
type Handle string

// IsZero reports whether the handle is unset.
func (h Handle) IsZero() bool { return h == "" }

// FallbackColor is the flat color of any surface whose texture failed to resolve.
var FallbackColor = colorful.Color{R: 0.6, G: 0.6, B: 0.65}

// Texture is a resolved, drawable surface.
type Texture struct {
	Handle  Handle
	Width   int
	Height  int
	Format  string
	Average colorful.Color
	Image   image.Image
}

// Resolver maps a handle to a texture or a resolution failure.
type Resolver interface {
	Resolve(h Handle) (*Texture, error)
}

// MapResolver serves preloaded textures.
type MapResolver map[Handle]*Texture

func (m MapResolver) Resolve(h Handle) (*Texture, error) {
	if h.IsZero() {
		return nil, ErrEmptyHandle
	}
	if t, ok := m[h]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, h)
}

// Solid returns a 1x1 texture of a single color.
func Solid(h Handle, c colorful.Color) *Texture {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	r, g, b := c.Clamped().RGB255()
	img.SetRGBA(0, 0, color.RGBA{R: r, G: g, B: b, A: 255})
	return &Texture{Handle: h, Width: 1, Height: 1, Format: "solid", Average: c.Clamped(), Image: img}
}

// ParseColor parses a "#rrggbb" or "#rgb" color.
func ParseColor(s string) (colorful.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("asset: color %q: %w", s, err)
	}
	return c, nil
}
