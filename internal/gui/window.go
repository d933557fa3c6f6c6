// Package gui shows the scene in a native window with raylib.
package gui

import (
	"fmt"
	"sync"
	"sync/atomic"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orrery/internal/render"
	"github.com/san-kum/orrery/internal/viewport"
)

const (
	DefaultWidth  = 1280
	DefaultHeight = 720

	keyOrbitStep   = 0.02
	mouseOrbitStep = 0.005
	wheelZoomStep  = 0.1
)

var (
	colHUD   = rl.NewColor(180, 180, 180, 255)
	colHint  = rl.NewColor(90, 90, 90, 255)
	colGuide = uint8(70) // orbit guide alpha
)

// Window is a render.Host backed by a raylib window. Raylib must be driven
// from the main thread, so the animation loop only stores frames and Run
// draws the newest one on every window refresh.
type Window struct {
	render.Listeners

	title    string
	latest   atomic.Pointer[render.Frame]
	attached atomic.Bool

	mu     sync.Mutex
	width  int
	height int
}

func NewWindow(title string, width, height int) *Window {
	if width <= 0 || height <= 0 {
		width, height = DefaultWidth, DefaultHeight
	}
	return &Window{title: title, width: width, height: height}
}

func (w *Window) Attach() error {
	w.attached.Store(true)
	return nil
}

func (w *Window) Detach() error {
	if w.attached.Swap(false) {
		w.latest.Store(nil)
	}
	return nil
}

func (w *Window) Resize(width, height int) {
	w.mu.Lock()
	w.width, w.height = width, height
	w.mu.Unlock()
}

func (w *Window) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *Window) Present(f *render.Frame) error {
	if !w.attached.Load() {
		return render.ErrDetached
	}
	w.latest.Store(f)
	return nil
}

func (w *Window) OnResize(fn func(width, height int)) func() {
	return w.Add(fn)
}

// Run opens the window and draws until it is closed. It must be called
// from the main goroutine. controller is asked for the current camera
// controller on every refresh and may return nil.
func (w *Window) Run(fps int, controller func() *viewport.Controller) {
	width, height := w.Size()
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(width), int32(height), w.title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(rl.KeyQ)

	for !rl.WindowShouldClose() {
		if rl.IsWindowResized() {
			w.Notify(int(rl.GetScreenWidth()), int(rl.GetScreenHeight()))
		}
		if ctl := controller(); ctl != nil {
			input(ctl)
		}
		draw(w.latest.Load())
	}
}

func input(ctl *viewport.Controller) {
	var dAz, dPolar float64
	if rl.IsKeyDown(rl.KeyLeft) || rl.IsKeyDown(rl.KeyA) {
		dAz -= keyOrbitStep
	}
	if rl.IsKeyDown(rl.KeyRight) || rl.IsKeyDown(rl.KeyD) {
		dAz += keyOrbitStep
	}
	if rl.IsKeyDown(rl.KeyUp) || rl.IsKeyDown(rl.KeyW) {
		dPolar -= keyOrbitStep
	}
	if rl.IsKeyDown(rl.KeyDown) || rl.IsKeyDown(rl.KeyS) {
		dPolar += keyOrbitStep
	}
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		d := rl.GetMouseDelta()
		dAz -= float64(d.X) * mouseOrbitStep
		dPolar -= float64(d.Y) * mouseOrbitStep
	}
	if dAz != 0 || dPolar != 0 {
		ctl.Orbit(dAz, dPolar)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		ctl.Zoom(1 + float64(wheel)*wheelZoomStep)
	}
	if rl.IsKeyPressed(rl.KeyR) {
		ctl.Reset()
	}
}

func draw(f *render.Frame) {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	if f == nil {
		rl.ClearBackground(rl.Black)
		rl.DrawText("waiting for the first frame", 20, 20, 20, colHint)
		return
	}
	rl.ClearBackground(toColor(f.Background, 255))

	rl.BeginMode3D(camera(f))
	for _, l := range f.Lines {
		polyline(l.Points, toColor(l.Color, colGuide))
	}
	for _, r := range f.Rings {
		c := toColor(r.Color, 200)
		polyline(r.RingPoints(r.Inner), c)
		polyline(r.RingPoints(r.Outer), c)
	}
	for _, s := range f.Spheres {
		rl.DrawSphere(vec(s.Center), float32(s.Radius), toColor(s.Color, 255))
	}
	rl.EndMode3D()

	rl.DrawText(fmt.Sprintf("frame %d  %d bodies", f.Seq, len(f.Spheres)-1), 20, 20, 20, colHUD)
	rl.DrawText("drag/arrows orbit  wheel zoom  r reset  q quit", 20, int32(f.Height)-30, 16, colHint)
	rl.DrawFPS(int32(f.Width)-100, 20)
}

func camera(f *render.Frame) rl.Camera3D {
	return rl.NewCamera3D(vec(f.Eye), vec(f.Target), vec(f.Up), float32(f.FOV), rl.CameraPerspective)
}

func polyline(pts []mgl64.Vec3, c rl.Color) {
	for i := 1; i < len(pts); i++ {
		rl.DrawLine3D(vec(pts[i-1]), vec(pts[i]), c)
	}
}

func vec(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}

func toColor(c colorful.Color, alpha uint8) rl.Color {
	r, g, b := c.Clamped().RGB255()
	return rl.NewColor(r, g, b, alpha)
}
