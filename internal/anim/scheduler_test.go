package anim

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/orrery/internal/scene"
)

const tol = 1e-9

func buildScene(t *testing.T, bodies ...scene.BodyConfig) *scene.Scene {
	t.Helper()
	sc, _, err := scene.Build(bodies, scene.DefaultEnvironment(), scene.BuildOptions{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return sc
}

func runFrames(t *testing.T, s *Scheduler, sc *scene.Scene, n uint64) {
	t.Helper()
	if err := s.Start(sc); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.WaitFrames(ctx, n); err != nil {
		t.Fatalf("wait failed: %v", err)
	}
	if err := s.Cancel(); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
}

func angleEqual(a, b float64) bool {
	return math.Abs(math.Remainder(a-b, 2*math.Pi)) < tol
}

func TestSchedulerAnglesAfterK(t *testing.T) {
	bodies := []scene.BodyConfig{
		{Name: "mercury", Size: 3.2, Distance: 28, RevolutionSpeed: 0.004, SpinSpeed: 0.004},
		{Name: "venus", Size: 5.8, Distance: 44, RevolutionSpeed: 0.015, SpinSpeed: 0.002},
		{Name: "jupiter", Size: 12, Distance: 100, RevolutionSpeed: 0.002, SpinSpeed: 0.04},
		{Name: "retro", Size: 1, Distance: 10, RevolutionSpeed: -0.3, SpinSpeed: 1.7},
	}

	for _, k := range []uint64{1, 7, 100, 1000} {
		sc := buildScene(t, bodies...)
		s := NewScheduler(NewBurst(int(k)), nil)
		runFrames(t, s, sc, k)

		if s.Frames() != k {
			t.Fatalf("k=%d: ran %d frames", k, s.Frames())
		}
		for i, st := range s.States() {
			b := bodies[i]
			if !angleEqual(st.Revolution, float64(k)*b.RevolutionSpeed) {
				t.Errorf("k=%d %s: revolution %g, want %g mod 2π", k, b.Name, st.Revolution, float64(k)*b.RevolutionSpeed)
			}
			if !angleEqual(st.Spin, float64(k)*b.SpinSpeed) {
				t.Errorf("k=%d %s: spin %g, want %g mod 2π", k, b.Name, st.Spin, float64(k)*b.SpinSpeed)
			}
			if st.Revolution < 0 || st.Revolution >= 2*math.Pi || st.Spin < 0 || st.Spin >= 2*math.Pi {
				t.Errorf("k=%d %s: angles not wrapped: %+v", k, b.Name, st)
			}
			sat := sc.Satellites()[i]
			if sc.Rotation(sat.Pivot).Y() != st.Revolution || sc.Rotation(sat.Mesh).Y() != st.Spin {
				t.Errorf("k=%d %s: node rotations do not match state", k, b.Name)
			}
		}
		if !angleEqual(s.Center(), float64(k)*scene.DefaultCenterSpin) {
			t.Errorf("k=%d: center spin %g", k, s.Center())
		}
	}
}

func TestSchedulerSingleBodyScenario(t *testing.T) {
	sc := buildScene(t, scene.BodyConfig{Name: "earth", Size: 6, Distance: 62, RevolutionSpeed: 0.01, SpinSpeed: 0.02})
	s := NewScheduler(NewBurst(100), nil)
	runFrames(t, s, sc, 100)

	st := s.States()[0]
	if math.Abs(st.Revolution-1.0) > 1e-9 {
		t.Errorf("expected revolution ~1.0, got %.12f", st.Revolution)
	}
	if math.Abs(st.Spin-2.0) > 1e-9 {
		t.Errorf("expected spin ~2.0, got %.12f", st.Spin)
	}
	if len(sc.Paths()[0].Points) != 101 {
		t.Errorf("expected 101 orbit points, got %d", len(sc.Paths()[0].Points))
	}
}

func TestSchedulerIndependentAxes(t *testing.T) {
	sc := buildScene(t,
		scene.BodyConfig{Name: "still", Size: 1, Distance: 30, RevolutionSpeed: 0.05, SpinSpeed: 0},
		scene.BodyConfig{Name: "parked", Size: 1, Distance: 40, RevolutionSpeed: 0, SpinSpeed: 0.05},
	)
	still, parked := sc.Satellites()[0], sc.Satellites()[1]

	var positions [][2][3]float64
	var spins [][2]float64
	obs := ObserverFunc(func(info FrameInfo) {
		a, b := info.Scene.WorldPosition(still.Mesh), info.Scene.WorldPosition(parked.Mesh)
		positions = append(positions, [2][3]float64{{a[0], a[1], a[2]}, {b[0], b[1], b[2]}})
		spins = append(spins, [2]float64{info.Scene.Rotation(still.Mesh).Y(), info.Scene.Rotation(parked.Mesh).Y()})
	})

	s := NewScheduler(NewBurst(20), nil, WithObserver(obs))
	runFrames(t, s, sc, 20)

	for i := 1; i < len(spins); i++ {
		if spins[i][0] != 0 {
			t.Fatalf("frame %d: zero spin speed still rotated the mesh to %g", i, spins[i][0])
		}
		if positions[i][0] == positions[i-1][0] {
			t.Errorf("frame %d: revolving body did not move", i)
		}
		if positions[i][1] != positions[0][1] {
			t.Errorf("frame %d: body with zero revolution moved from %v to %v", i, positions[0][1], positions[i][1])
		}
		if spins[i][1] == spins[i-1][1] {
			t.Errorf("frame %d: spinning body did not spin", i)
		}
	}
}

func TestSchedulerUpdatesBeforeRender(t *testing.T) {
	sc := buildScene(t, scene.BodyConfig{Name: "earth", Size: 6, Distance: 62, RevolutionSpeed: 0.01, SpinSpeed: 0.02})
	sat := sc.Satellites()[0]

	rendered := 0
	var mismatch error
	r := RendererFunc(func(sc *scene.Scene) error {
		rendered++
		want := float64(rendered) * 0.01
		if got := sc.Rotation(sat.Pivot).Y(); !angleEqual(got, want) && mismatch == nil {
			mismatch = errors.New("render saw stale pivot rotation")
		}
		return nil
	})

	s := NewScheduler(NewBurst(50), r)
	runFrames(t, s, sc, 50)

	if rendered != 50 {
		t.Errorf("expected 50 renders, got %d", rendered)
	}
	if mismatch != nil {
		t.Error(mismatch)
	}
}

func TestSchedulerRenderErrorKeepsRunning(t *testing.T) {
	sc := buildScene(t)
	r := RendererFunc(func(*scene.Scene) error { return errors.New("surface lost") })
	s := NewScheduler(NewBurst(5), r)
	runFrames(t, s, sc, 5)
	if s.Frames() != 5 {
		t.Errorf("expected the loop to survive render errors, ran %d frames", s.Frames())
	}
}

func TestSchedulerTransitions(t *testing.T) {
	sc := buildScene(t)
	src := NewManual()
	s := NewScheduler(src, nil)

	if s.State() != Idle {
		t.Fatalf("new scheduler in state %s", s.State())
	}
	if err := s.Cancel(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("cancel while idle: expected ErrNotRunning, got %v", err)
	}
	if err := s.Start(sc); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := s.Start(sc); !errors.Is(err, ErrBadTransition) {
		t.Errorf("second start: expected ErrBadTransition, got %v", err)
	}

	for i := 0; i < 3; i++ {
		if !src.Tick() {
			t.Fatal("tick refused while running")
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.WaitFrames(ctx, 3); err != nil {
		t.Fatalf("wait failed: %v", err)
	}

	if err := s.Cancel(); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if s.State() != Cancelled {
		t.Errorf("expected cancelled, got %s", s.State())
	}
	if src.Tick() {
		t.Error("source should refuse ticks after cancel")
	}
	if s.Frames() != 3 {
		t.Errorf("frames changed after cancel: %d", s.Frames())
	}
	if err := s.Cancel(); err != nil {
		t.Errorf("second cancel should be a no-op, got %v", err)
	}
	if err := s.Start(sc); !errors.Is(err, ErrBadTransition) {
		t.Errorf("restart after cancel: expected ErrBadTransition, got %v", err)
	}
	if err := s.WaitFrames(ctx, 10); !errors.Is(err, ErrNotRunning) {
		t.Errorf("waiting past a cancelled loop: expected ErrNotRunning, got %v", err)
	}
}

func TestSchedulerDoBetweenFrames(t *testing.T) {
	sc := buildScene(t, scene.BodyConfig{Name: "earth", Size: 6, Distance: 62, RevolutionSpeed: 0.01})
	src := NewManual()
	s := NewScheduler(src, nil)
	if err := s.Start(sc); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer s.Cancel()

	src.Tick()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.WaitFrames(ctx, 1); err != nil {
		t.Fatalf("wait failed: %v", err)
	}

	var seen uint64
	s.Do(func() { seen = s.Frames() })
	if seen != 1 {
		t.Errorf("Do observed frame count %d, want 1", seen)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{1, 1},
		{2 * math.Pi, 0},
		{-0.5, 2*math.Pi - 0.5},
		{7 * math.Pi, math.Pi},
		{-1e-300, 0},
	}
	for _, tt := range tests {
		got := wrap(tt.in)
		if math.Abs(got-tt.want) > tol {
			t.Errorf("wrap(%g) = %g, want %g", tt.in, got, tt.want)
		}
		if got < 0 || got >= 2*math.Pi {
			t.Errorf("wrap(%g) = %g out of range", tt.in, got)
		}
	}
}
