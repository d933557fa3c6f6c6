// Package tui shows the scene in a terminal with bubbletea.
package tui

import (
	"sync"
	"sync/atomic"

	"github.com/san-kum/orrery/internal/render"
)

// Host is a render.Host backed by the terminal. Frames are handed over
// through an atomic pointer and picked up by the bubbletea model on its
// own tick, so the animation loop never waits on the terminal.
//
// Sizes are in braille dots: a cell is 2 dots wide and 4 dots tall.
type Host struct {
	render.Listeners

	latest   atomic.Pointer[render.Frame]
	attached atomic.Bool

	mu     sync.Mutex
	width  int
	height int
}

func NewHost() *Host { return &Host{} }

func (h *Host) Attach() error {
	h.attached.Store(true)
	return nil
}

func (h *Host) Detach() error {
	if h.attached.Swap(false) {
		h.latest.Store(nil)
	}
	return nil
}

func (h *Host) Resize(width, height int) {
	h.mu.Lock()
	h.width, h.height = width, height
	h.mu.Unlock()
}

func (h *Host) Size() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width, h.height
}

func (h *Host) Present(f *render.Frame) error {
	if !h.attached.Load() {
		return render.ErrDetached
	}
	h.latest.Store(f)
	return nil
}

func (h *Host) OnResize(fn func(width, height int)) func() {
	return h.Add(fn)
}

// Latest returns the most recent frame, or nil.
func (h *Host) Latest() *render.Frame {
	return h.latest.Load()
}

// setCells reports a new drawing area of cols by rows cells.
func (h *Host) setCells(cols, rows int) {
	h.Notify(cols*2, rows*4)
}
