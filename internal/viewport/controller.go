package viewport

import (
	"log/slog"

	"github.com/san-kum/orrery/internal/logging"
)

// Resizer is the part of a rendering surface the controller drives.
type Resizer interface {
	Resize(width, height int)
}

// Executor runs camera and surface mutations where they cannot overlap a
// frame. The animation scheduler is one.
type Executor interface {
	Do(fn func())
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(fn func())

func (f ExecutorFunc) Do(fn func()) { f(fn) }

// Direct runs mutations immediately on the caller's goroutine.
var Direct Executor = ExecutorFunc(func(fn func()) { fn() })

// Controller applies viewport changes to the camera and surface.
type Controller struct {
	cam     *Camera
	surface Resizer
	exec    Executor
	log     *slog.Logger
}

// NewController wires a camera to a surface. A nil executor applies
// changes directly.
func NewController(cam *Camera, surface Resizer, exec Executor, log *slog.Logger) *Controller {
	if exec == nil {
		exec = Direct
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Controller{cam: cam, surface: surface, exec: exec, log: log}
}

func (c *Controller) Camera() *Camera { return c.cam }

// OnResize recomputes the aspect and resizes the surface. A degenerate
// size keeps the last valid aspect.
func (c *Controller) OnResize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	c.exec.Do(func() {
		if !c.cam.SetAspect(width, height) {
			c.log.Debug("degenerate viewport, keeping aspect", "width", width, "height", height, "aspect", c.cam.Aspect)
		}
		if c.surface != nil {
			c.surface.Resize(width, height)
		}
	})
}

func (c *Controller) Orbit(dAzimuth, dPolar float64) {
	c.exec.Do(func() { c.cam.Orbit(dAzimuth, dPolar) })
}

func (c *Controller) Zoom(factor float64) {
	c.exec.Do(func() { c.cam.Zoom(factor) })
}

func (c *Controller) Reset() {
	c.exec.Do(c.cam.Reset)
}
