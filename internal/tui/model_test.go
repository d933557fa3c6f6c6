package tui

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/orrery/internal/anim"
	"github.com/san-kum/orrery/internal/engine"
	"github.com/san-kum/orrery/internal/scene"
)

func mount(t *testing.T, frames int) (*Host, *engine.Engine) {
	t.Helper()
	host := NewHost()
	e := engine.New(engine.WithFrameSource(func() anim.FrameSource { return anim.NewBurst(frames) }))
	bodies := []scene.BodyConfig{
		{Name: "earth", Size: 6, Distance: 62, RevolutionSpeed: 0.01, SpinSpeed: 0.02},
		{Name: "saturn", Size: 10, Distance: 138, Ring: &scene.RingSpec{InnerRadius: 10, OuterRadius: 20}},
	}
	if _, err := e.Mount(host, bodies, scene.DefaultEnvironment()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	t.Cleanup(func() { _ = e.Unmount() })
	return host, e
}

func waitFrames(t *testing.T, e *engine.Engine, n uint64) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Scheduler().WaitFrames(ctx, n); err != nil {
		t.Fatal(err)
	}
}

func TestWindowSizeResizesCamera(t *testing.T) {
	host, e := mount(t, 0)
	m := NewModel(host, e, Options{})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 130, Height: 42})
	m = next.(Model)

	wantW, wantH := (130-hudWidth)*2, (42-chromeLines)*4
	if w, h := host.Size(); w != wantW || h != wantH {
		t.Errorf("surface %dx%d, want %dx%d", w, h, wantW, wantH)
	}
	if got, want := e.Camera().Aspect, float64(wantW)/float64(wantH); math.Abs(got-want) > 1e-12 {
		t.Errorf("aspect %g, want %g", got, want)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	m = next.(Model)
	if w, _ := host.Size(); w != 130*2 {
		t.Errorf("hiding the HUD should give the scene the full width, got %d dots", w)
	}

	m.Update(tea.WindowSizeMsg{Width: 130, Height: 1})
	if got, want := e.Camera().Aspect, float64(130*2)/float64(wantH); math.Abs(got-want) > 1e-12 {
		t.Errorf("degenerate height changed aspect to %g", got)
	}
}

func TestTickPicksUpLatestFrame(t *testing.T) {
	host, e := mount(t, 3)
	m := NewModel(host, e, Options{Title: "inner"})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	waitFrames(t, e, 3)

	next, cmd := m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if m.frame == nil || m.canvas == nil {
		t.Fatal("expected a frame after the loop ran")
	}

	view := m.View()
	for _, want := range []string{"INNER", "earth", "saturn", "frame 3"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

// The HUD is drawn on the bubbletea goroutine while the loop keeps
// rotating the scene; run with -race.
func TestViewWhileAnimating(t *testing.T) {
	host := NewHost()
	e := engine.New(engine.WithFrameSource(func() anim.FrameSource { return anim.NewTicker(1000) }))
	bodies := []scene.BodyConfig{
		{Name: "earth", Size: 6, Distance: 62, RevolutionSpeed: 0.01, SpinSpeed: 0.02},
		{Name: "saturn", Size: 10, Distance: 138, Ring: &scene.RingSpec{InnerRadius: 10, OuterRadius: 20}},
	}
	if _, err := e.Mount(host, bodies, scene.DefaultEnvironment()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	t.Cleanup(func() { _ = e.Unmount() })

	m := NewModel(host, e, Options{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 130, Height: 42})
	m = next.(Model)

	deadline := time.Now().Add(100 * time.Millisecond)
	for time.Now().Before(deadline) {
		next, _ = m.Update(TickMsg(time.Now()))
		m = next.(Model)
		if !strings.Contains(m.View(), "saturn◦") {
			t.Fatal("HUD should list the ringed body")
		}
	}

	if _, err := e.Reload(bodies[:1], scene.DefaultEnvironment()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if view := m.View(); strings.Contains(view, "saturn") {
		t.Error("HUD still shows a body from before the reload")
	}
}

func TestKeysMoveCamera(t *testing.T) {
	host, e := mount(t, 0)
	m := NewModel(host, e, Options{})

	before := e.Camera().Eye
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if e.Camera().Eye == before {
		t.Error("left arrow should orbit the camera")
	}

	d := e.Camera().Distance()
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	if e.Camera().Distance() >= d {
		t.Error("+ should zoom in")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if e.Camera().Eye != before {
		t.Errorf("reset left the eye at %v", e.Camera().Eye)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if next.(Model).theme.Name == m.theme.Name {
		t.Error("t should switch theme")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should produce a quit message")
	}
}

func TestHostPresentAfterDetach(t *testing.T) {
	h := NewHost()
	if err := h.Present(nil); err == nil {
		t.Error("presenting to a detached host should fail")
	}
	_ = h.Attach()
	_ = h.Detach()
	if h.Latest() != nil {
		t.Error("detach should drop the held frame")
	}
}

func TestGetTheme(t *testing.T) {
	if GetTheme("nebula").Name != "nebula" {
		t.Error("expected nebula theme")
	}
	if GetTheme("missing").Name != Themes[0].Name {
		t.Error("unknown theme should fall back to the first")
	}
}
