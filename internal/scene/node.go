package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// NodeID addresses a node inside its Scene.
type NodeID int

// NoNode marks an absent node, such as the parent of the root or the ring
// of a body configured without one.
const NoNode NodeID = -1

// Kind classifies what a node contributes to a frame.
type Kind uint8

const (
	KindGroup Kind = iota // transform only
	KindMesh
	KindLine
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindMesh:
		return "mesh"
	case KindLine:
		return "line"
	default:
		return "unknown"
	}
}

// Transform is a node's placement relative to its parent. Rotation holds
// Euler angles in radians applied in X, Y, Z order.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Vec3
}

// Matrix returns the local-to-parent matrix.
func (t Transform) Matrix() mgl64.Mat4 {
	m := mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	if t.Rotation.X() != 0 {
		m = m.Mul4(mgl64.HomogRotate3DX(t.Rotation.X()))
	}
	if t.Rotation.Y() != 0 {
		m = m.Mul4(mgl64.HomogRotate3DY(t.Rotation.Y()))
	}
	if t.Rotation.Z() != 0 {
		m = m.Mul4(mgl64.HomogRotate3DZ(t.Rotation.Z()))
	}
	return m
}

// Node is one element of the ownership tree. A node is owned by exactly
// its parent; Children lists owned nodes in insertion order.
type Node struct {
	Name      string
	Kind      Kind
	Parent    NodeID
	Children  []NodeID
	Transform Transform
	Geometry  Geometry
	Material  Material
}
