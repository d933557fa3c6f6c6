package anim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/san-kum/orrery/internal/logging"
	"github.com/san-kum/orrery/internal/scene"
)

const fullTurn = 2 * math.Pi

var (
	// ErrBadTransition indicates Start on a scheduler that is not Idle.
	ErrBadTransition = errors.New("anim: invalid state transition")

	// ErrNotRunning indicates Cancel or WaitFrames on a scheduler that never ran.
	ErrNotRunning = errors.New("anim: scheduler not running")
)

// State is the scheduler lifecycle state.
type State int32

const (
	Idle State = iota
	Running
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Renderer draws the scene once per frame.
type Renderer interface {
	Render(sc *scene.Scene) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(sc *scene.Scene) error

func (f RendererFunc) Render(sc *scene.Scene) error { return f(sc) }

// BodyState is the accumulated animation of one satellite, both angles in [0, 2π).
type BodyState struct {
	Revolution float64
	Spin       float64
}

// FrameInfo describes a completed frame.
type FrameInfo struct {
	Frame  uint64
	Time   time.Time
	Center float64
	Bodies []BodyState
	Scene  *scene.Scene
}

// Observer is notified after every rendered frame.
type Observer interface {
	OnFrame(info FrameInfo)
}

type ObserverFunc func(info FrameInfo)

func (f ObserverFunc) OnFrame(info FrameInfo) { f(info) }

type Option func(*Scheduler)

func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(s *Scheduler) { s.observers = append(s.observers, o) }
}

// Scheduler runs the animation loop of one scene. It is single use:
// once cancelled it cannot be started again.
type Scheduler struct {
	src       FrameSource
	renderer  Renderer
	log       *slog.Logger
	observers []Observer

	state  atomic.Int32
	frames atomic.Uint64

	mu     sync.Mutex
	scene  *scene.Scene
	center float64
	bodies []BodyState
	tick   chan struct{} // closed and replaced after every frame

	stop chan struct{}
	done chan struct{}
}

func NewScheduler(src FrameSource, r Renderer, opts ...Option) *Scheduler {
	s := &Scheduler{
		src:      src,
		renderer: r,
		log:      logging.Discard(),
		tick:     make(chan struct{}),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start moves the scheduler from Idle to Running and begins the loop.
// All angles start at zero.
func (s *Scheduler) Start(sc *scene.Scene) error {
	if sc == nil {
		return fmt.Errorf("anim: start: nil scene")
	}
	if !s.state.CompareAndSwap(int32(Idle), int32(Running)) {
		return fmt.Errorf("%w: start while %s", ErrBadTransition, s.State())
	}

	s.mu.Lock()
	s.scene = sc
	s.center = 0
	s.bodies = make([]BodyState, len(sc.Satellites()))
	s.mu.Unlock()

	s.log.Debug("scheduler started", "bodies", len(s.bodies))
	go s.loop()
	return nil
}

// Cancel stops the loop. A frame already in progress completes; no
// further frame starts. Cancelling twice is a no-op.
func (s *Scheduler) Cancel() error {
	if s.state.CompareAndSwap(int32(Running), int32(Cancelled)) {
		close(s.stop)
		<-s.done
		s.src.Stop()
		s.log.Debug("scheduler cancelled", "frames", s.frames.Load())
		return nil
	}
	if s.State() == Cancelled {
		return nil
	}
	return ErrNotRunning
}

func (s *Scheduler) State() State { return State(s.state.Load()) }

// Frames returns the number of frames run so far.
func (s *Scheduler) Frames() uint64 { return s.frames.Load() }

// States returns a copy of the per-satellite angles in scene order.
func (s *Scheduler) States() []BodyState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.bodies)
}

// Center returns the center body's spin angle.
func (s *Scheduler) Center() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.center
}

// Do runs fn between frames.
func (s *Scheduler) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// WaitFrames blocks until at least n frames have run, the scheduler stops,
// or ctx is done.
func (s *Scheduler) WaitFrames(ctx context.Context, n uint64) error {
	if s.State() == Idle {
		return ErrNotRunning
	}
	for {
		s.mu.Lock()
		if s.frames.Load() >= n {
			s.mu.Unlock()
			return nil
		}
		tick := s.tick
		s.mu.Unlock()

		select {
		case <-tick:
		case <-s.done:
			if s.frames.Load() >= n {
				return nil
			}
			return fmt.Errorf("%w: stopped after %d of %d frames", ErrNotRunning, s.frames.Load(), n)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Scheduler) loop() {
	defer close(s.done)
	frames := s.src.Frames()
	for {
		select {
		case <-s.stop:
			return
		case t, ok := <-frames:
			if !ok {
				s.log.Debug("frame source exhausted", "frames", s.frames.Load())
				frames = nil
				continue
			}
			select {
			case <-s.stop:
				return
			default:
			}
			s.frame(t)
		}
	}
}

// frame advances every angle by exactly one increment, then renders.
func (s *Scheduler) frame(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := s.scene
	s.center = wrap(s.center + sc.CenterSpinSpeed())
	sc.SetRotationY(sc.Center(), s.center)

	for i, sat := range sc.Satellites() {
		b := &s.bodies[i]
		b.Revolution = wrap(b.Revolution + sat.RevolutionSpeed)
		b.Spin = wrap(b.Spin + sat.SpinSpeed)
		sc.SetRotationY(sat.Pivot, b.Revolution)
		sc.SetRotationY(sat.Mesh, b.Spin)
	}

	n := s.frames.Add(1)
	if s.renderer != nil {
		if err := s.renderer.Render(sc); err != nil {
			s.log.Warn("render failed", "frame", n, "err", err)
		}
	}

	if len(s.observers) > 0 {
		info := FrameInfo{Frame: n, Time: t, Center: s.center, Bodies: slices.Clone(s.bodies), Scene: sc}
		for _, o := range s.observers {
			o.OnFrame(info)
		}
	}

	close(s.tick)
	s.tick = make(chan struct{})
}

// wrap reduces an angle into [0, 2π).
func wrap(a float64) float64 {
	a = math.Mod(a, fullTurn)
	if a < 0 {
		a += fullTurn
	}
	if a >= fullTurn {
		a = 0
	}
	return a
}
