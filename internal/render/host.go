// Package render turns a scene into frames and defines the surfaces that
// display them.
package render

import (
	"errors"
	"slices"
	"sync"
)

// ErrDetached is returned when presenting to a host that is not attached.
var ErrDetached = errors.New("render: host not attached")

// Host is a drawable surface: a terminal, a window or an in-memory buffer.
// Attach, Detach and Resize are idempotent.
type Host interface {
	Attach() error
	Detach() error
	Resize(width, height int)
	Present(f *Frame) error
	Size() (width, height int)

	// OnResize registers fn for size changes coming from outside the
	// program. The returned cancel func unregisters it.
	OnResize(fn func(width, height int)) (cancel func())
}

// Listeners is the resize listener registry hosts embed.
type Listeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(width, height int)
}

// Add registers fn and returns a func that removes it. Calling the
// returned func more than once is harmless.
func (l *Listeners) Add(fn func(width, height int)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func(int, int))
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	return func() {
		l.mu.Lock()
		delete(l.fns, id)
		l.mu.Unlock()
	}
}

// Notify calls every listener in registration order. Listeners run
// without the registry lock held.
func (l *Listeners) Notify(width, height int) {
	l.mu.Lock()
	ids := make([]int, 0, len(l.fns))
	for id := range l.fns {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(int, int), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, l.fns[id])
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(width, height)
	}
}

func (l *Listeners) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}
