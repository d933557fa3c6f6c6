package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultOrbitSegments is the segment count of every orbit path.
const DefaultOrbitSegments = 100

// OrbitPath is a static guide circle. It belongs to no pivot and takes
// no part in animation.
type OrbitPath struct {
	Radius float64
	Points []mgl64.Vec3
	Node   NodeID
}

// GenerateOrbitPath samples a circle of the given radius in the XZ plane.
// It returns segments+1 points; the last point is an exact copy of the
// first so the loop closes.
func GenerateOrbitPath(radius float64, segments int) ([]mgl64.Vec3, error) {
	if segments < 3 {
		return nil, &ConfigError{Index: -1, Field: "segments", Value: float64(segments), Reason: "must be at least 3"}
	}
	if radius < 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, &ConfigError{Index: -1, Field: "radius", Value: radius, Reason: "must be a non-negative finite number"}
	}

	pts := make([]mgl64.Vec3, segments+1)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		pts[i] = mgl64.Vec3{radius * math.Cos(a), 0, radius * math.Sin(a)}
	}
	pts[segments] = pts[0]
	return pts, nil
}
