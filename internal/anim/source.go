package anim

import (
	"sync"
	"time"
)

// DefaultFPS is the frame rate of a ticker created with a non-positive rate.
const DefaultFPS = 60

// FrameSource hands out frame slots. A closed channel means no more slots
// will come; it does not stop the scheduler.
type FrameSource interface {
	Frames() <-chan time.Time
	Stop()
}

// Ticker paces frames on the wall clock.
type Ticker struct {
	t *time.Ticker
}

func NewTicker(fps int) *Ticker {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Ticker{t: time.NewTicker(time.Second / time.Duration(fps))}
}

func (t *Ticker) Frames() <-chan time.Time { return t.t.C }
func (t *Ticker) Stop()                    { t.t.Stop() }

// Burst provides n frame slots at once, then closes.
type Burst struct {
	ch chan time.Time
}

func NewBurst(n int) *Burst {
	if n < 0 {
		n = 0
	}
	ch := make(chan time.Time, n)
	now := time.Now()
	for i := 0; i < n; i++ {
		ch <- now.Add(time.Duration(i) * time.Second / DefaultFPS)
	}
	close(ch)
	return &Burst{ch: ch}
}

func (b *Burst) Frames() <-chan time.Time { return b.ch }
func (b *Burst) Stop()                    {}

// Manual hands out a frame slot each time Tick is called.
type Manual struct {
	ch      chan time.Time
	stopped chan struct{}
	once    sync.Once
}

func NewManual() *Manual {
	return &Manual{ch: make(chan time.Time), stopped: make(chan struct{})}
}

// Tick blocks until the scheduler takes the slot. It returns false once
// the source has been stopped.
func (m *Manual) Tick() bool {
	select {
	case <-m.stopped:
		return false
	default:
	}
	select {
	case m.ch <- time.Now():
		return true
	case <-m.stopped:
		return false
	}
}

func (m *Manual) Frames() <-chan time.Time { return m.ch }

func (m *Manual) Stop() {
	m.once.Do(func() { close(m.stopped) })
}
