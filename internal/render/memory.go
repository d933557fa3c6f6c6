package render

import "sync"

// MemoryHost keeps presented frames in memory. It backs headless
// commands and tests.
type MemoryHost struct {
	Listeners

	mu       sync.Mutex
	attached bool
	width    int
	height   int
	last     *Frame
	frames   uint64
	attaches int
	detaches int
}

func NewMemoryHost(width, height int) *MemoryHost {
	return &MemoryHost{width: width, height: height}
}

func (h *MemoryHost) Attach() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.attached {
		h.attached = true
		h.attaches++
	}
	return nil
}

func (h *MemoryHost) Detach() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.attached {
		h.attached = false
		h.detaches++
	}
	return nil
}

func (h *MemoryHost) Resize(width, height int) {
	h.mu.Lock()
	h.width, h.height = width, height
	h.mu.Unlock()
}

func (h *MemoryHost) Present(f *Frame) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.attached {
		return ErrDetached
	}
	h.last = f
	h.frames++
	return nil
}

func (h *MemoryHost) Size() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width, h.height
}

func (h *MemoryHost) OnResize(fn func(width, height int)) func() {
	return h.Add(fn)
}

// SetSize simulates the surrounding environment changing size: every
// registered listener is told about it.
func (h *MemoryHost) SetSize(width, height int) {
	h.Notify(width, height)
}

func (h *MemoryHost) Last() *Frame {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// Presented returns the number of frames presented so far.
func (h *MemoryHost) Presented() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

func (h *MemoryHost) Attached() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.attached
}

// Lifecycle returns how many times the host was attached and detached.
func (h *MemoryHost) Lifecycle() (attaches, detaches int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.attaches, h.detaches
}
