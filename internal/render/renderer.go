package render

import (
	"fmt"

	"github.com/san-kum/orrery/internal/scene"
	"github.com/san-kum/orrery/internal/viewport"
)

// Renderer presents one frame of the scene to a host per call. It runs on
// the animation loop and reads the camera under the loop's frame lock.
// Frame sequence numbers count presented frames only.
type Renderer struct {
	host Host
	cam  *viewport.Camera
	seq  uint64
}

func NewRenderer(host Host, cam *viewport.Camera) *Renderer {
	return &Renderer{host: host, cam: cam}
}

func (r *Renderer) Render(sc *scene.Scene) error {
	w, h := r.host.Size()
	f := BuildFrame(sc, r.cam, w, h)
	f.Seq = r.seq + 1
	if err := r.host.Present(f); err != nil {
		return fmt.Errorf("present frame %d: %w", f.Seq, err)
	}
	r.seq = f.Seq
	return nil
}
