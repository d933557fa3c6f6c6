// Package engine pairs a rendering host with a scene and its animation
// loop, and guarantees that everything set up on mount is torn down on
// unmount.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/san-kum/orrery/internal/anim"
	"github.com/san-kum/orrery/internal/asset"
	"github.com/san-kum/orrery/internal/logging"
	"github.com/san-kum/orrery/internal/render"
	"github.com/san-kum/orrery/internal/scene"
	"github.com/san-kum/orrery/internal/viewport"
)

var (
	ErrNoSurface      = errors.New("engine: no rendering surface")
	ErrAlreadyMounted = errors.New("engine: already mounted")
	ErrNotMounted     = errors.New("engine: not mounted")
)

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithResolver(r asset.Resolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// WithSegments sets the number of segments of every orbit path.
func WithSegments(n int) Option {
	return func(e *Engine) { e.segments = n }
}

// WithFrameSource sets how each mount obtains its frame source. A
// scheduler is single use, so every mount needs a fresh source.
func WithFrameSource(fn func() anim.FrameSource) Option {
	return func(e *Engine) {
		if fn != nil {
			e.source = fn
		}
	}
}

// WithFPS paces frames on the wall clock at fps.
func WithFPS(fps int) Option {
	return WithFrameSource(func() anim.FrameSource { return anim.NewTicker(fps) })
}

// WithObserver is attached to the scheduler of every mount.
func WithObserver(o anim.Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

// Engine is the lifecycle manager of one visualization.
type Engine struct {
	log       *slog.Logger
	resolver  asset.Resolver
	segments  int
	source    func() anim.FrameSource
	observers []anim.Observer

	mu          sync.Mutex
	host        render.Host
	sc          *scene.Scene
	summary     scene.Summary
	sched       *anim.Scheduler
	cam         *viewport.Camera
	ctl         *viewport.Controller
	unsubscribe func()
}

func New(opts ...Option) *Engine {
	e := &Engine{
		log:    logging.Discard(),
		source: func() anim.FrameSource { return anim.NewTicker(anim.DefaultFPS) },
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Mount attaches the host, builds the scene, and starts the animation
// loop. If the scene cannot be built the host is detached again and
// nothing keeps running.
func (e *Engine) Mount(host render.Host, bodies []scene.BodyConfig, env scene.Environment) ([]scene.Warning, error) {
	if host == nil {
		return nil, ErrNoSurface
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.host != nil {
		return nil, ErrAlreadyMounted
	}

	if err := host.Attach(); err != nil {
		return nil, fmt.Errorf("engine: attach host: %w", err)
	}
	sc, warnings, err := scene.Build(bodies, env, scene.BuildOptions{Resolver: e.resolver, Segments: e.segments})
	if err != nil {
		e.detach(host)
		return nil, fmt.Errorf("engine: build scene: %w", err)
	}
	for _, w := range warnings {
		e.log.Warn("texture unavailable, using fallback", "body", w.Body, "texture", string(w.Handle), "err", w.Err)
	}

	w, h := host.Size()
	cam := viewport.NewCamera(w, h)
	opts := []anim.Option{anim.WithLogger(e.log)}
	for _, o := range e.observers {
		opts = append(opts, anim.WithObserver(o))
	}
	sched := anim.NewScheduler(e.source(), render.NewRenderer(host, cam), opts...)
	ctl := viewport.NewController(cam, host, sched, e.log)
	summary := sc.Summary()
	unsubscribe := host.OnResize(ctl.OnResize)

	if err := sched.Start(sc); err != nil {
		unsubscribe()
		sc.Dispose()
		e.detach(host)
		return nil, fmt.Errorf("engine: start animation: %w", err)
	}

	e.host, e.sc, e.sched, e.cam, e.ctl, e.unsubscribe = host, sc, sched, cam, ctl, unsubscribe
	e.summary = summary
	e.log.Info("mounted", "bodies", len(bodies), "nodes", sc.Len(), "warnings", len(warnings))
	return warnings, nil
}

// Unmount stops the loop, unregisters the resize listener, releases the
// scene and detaches the host, in that order.
func (e *Engine) Unmount() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.host == nil {
		return ErrNotMounted
	}

	var errs []error
	if err := e.sched.Cancel(); err != nil && !errors.Is(err, anim.ErrNotRunning) {
		errs = append(errs, fmt.Errorf("engine: cancel animation: %w", err))
	}
	e.unsubscribe()
	frames := e.sched.Frames()
	e.sc.Dispose()
	if err := e.host.Detach(); err != nil {
		errs = append(errs, fmt.Errorf("engine: detach host: %w", err))
	}

	e.host, e.sc, e.sched, e.cam, e.ctl, e.unsubscribe = nil, nil, nil, nil, nil, nil
	e.summary = scene.Summary{}
	e.log.Info("unmounted", "frames", frames)
	return errors.Join(errs...)
}

// Reload rebuilds everything against the current host with a new
// configuration. Animation restarts from zero.
func (e *Engine) Reload(bodies []scene.BodyConfig, env scene.Environment) ([]scene.Warning, error) {
	e.mu.Lock()
	host := e.host
	e.mu.Unlock()
	if host == nil {
		return nil, ErrNotMounted
	}
	if err := e.Unmount(); err != nil {
		return nil, err
	}
	return e.Mount(host, bodies, env)
}

// Cancel stops the animation loop but leaves the scene mounted.
func (e *Engine) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sched == nil {
		return ErrNotMounted
	}
	return e.sched.Cancel()
}

func (e *Engine) Mounted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.host != nil
}

func (e *Engine) Scene() *scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sc
}

// Summary describes the mounted scene. Unlike Scene it is safe to read
// while the animation loop runs.
func (e *Engine) Summary() scene.Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.summary
}

func (e *Engine) Scheduler() *anim.Scheduler {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sched
}

func (e *Engine) Camera() *viewport.Camera {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cam
}

// Controller returns the viewport controller of the current mount, for
// camera input.
func (e *Engine) Controller() *viewport.Controller {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctl
}

func (e *Engine) detach(host render.Host) {
	if err := host.Detach(); err != nil {
		e.log.Error("detach host", "err", err)
	}
}
