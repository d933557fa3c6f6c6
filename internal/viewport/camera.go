// Package viewport owns the camera and reacts to host size changes.
package viewport

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultFOV  = 75.0 // vertical, degrees
	DefaultNear = 0.1
	DefaultFar  = 1000.0

	// MinAspect and MaxAspect bound the aspect ratio of any non-degenerate viewport.
	MinAspect = 1e-3
	MaxAspect = 1e3

	minPolar    = 0.01
	minDistance = 1.0
)

// DefaultEye is where the camera sits before any user movement.
var DefaultEye = mgl64.Vec3{-50, 90, 150}

// Camera is a perspective camera looking at a target.
type Camera struct {
	FOV    float64
	Near   float64
	Far    float64
	Aspect float64
	Eye    mgl64.Vec3
	Target mgl64.Vec3
	Up     mgl64.Vec3

	home mgl64.Vec3
}

// NewCamera returns the default camera for a viewport of the given size.
// A degenerate size leaves the aspect at 1.
func NewCamera(width, height int) *Camera {
	c := &Camera{
		FOV:    DefaultFOV,
		Near:   DefaultNear,
		Far:    DefaultFar,
		Aspect: 1,
		Eye:    DefaultEye,
		Up:     mgl64.Vec3{0, 1, 0},
		home:   DefaultEye,
	}
	c.SetAspect(width, height)
	return c
}

// SetAspect sets the aspect to width/height, clamped to [MinAspect,
// MaxAspect]. A non-positive dimension is rejected and the previous aspect
// is kept.
func (c *Camera) SetAspect(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	a := float64(width) / float64(height)
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return false
	}
	c.Aspect = clamp(a, MinAspect, MaxAspect)
	return true
}

func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Eye, c.Target, c.Up)
}

func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// ViewProjection maps world space to clip space.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Distance returns the eye's distance from the target.
func (c *Camera) Distance() float64 {
	return c.Eye.Sub(c.Target).Len()
}

// Orbit moves the eye around the target on a sphere, by azimuth about the
// up axis and by polar angle from it. The polar angle stays clear of the
// poles so the view never flips.
func (c *Camera) Orbit(dAzimuth, dPolar float64) {
	off := c.Eye.Sub(c.Target)
	r := off.Len()
	if r == 0 {
		return
	}
	theta := math.Atan2(off.X(), off.Z()) + dAzimuth
	phi := clamp(math.Acos(clamp(off.Y()/r, -1, 1))+dPolar, minPolar, math.Pi-minPolar)

	s := math.Sin(phi)
	c.Eye = c.Target.Add(mgl64.Vec3{r * s * math.Sin(theta), r * math.Cos(phi), r * s * math.Cos(theta)})
}

// Zoom divides the eye distance by factor.
func (c *Camera) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	off := c.Eye.Sub(c.Target)
	if off.Len() == 0 {
		return
	}
	d := clamp(off.Len()/factor, minDistance, c.Far*0.9)
	c.Eye = c.Target.Add(off.Normalize().Mul(d))
}

// Reset restores the initial eye and target.
func (c *Camera) Reset() {
	c.Eye = c.home
	c.Target = mgl64.Vec3{}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
