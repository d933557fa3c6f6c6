package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Scene is the root of the built hierarchy. It is built once by [Build],
// mutated only by the animation loop through SetRotation, and released
// with Dispose. It is never partially rebuilt.
type Scene struct {
	nodes      []Node
	root       NodeID
	center     NodeID
	centerSpin float64
	lights     []Light
	background Background
	satellites []Satellite
	paths      []OrbitPath
	disposed   bool
}

func newScene() *Scene {
	s := &Scene{center: NoNode}
	s.root = s.add(NoNode, Node{Name: "root", Kind: KindGroup})
	return s
}

// add appends n as the last child of parent and returns its id.
func (s *Scene) add(parent NodeID, n Node) NodeID {
	id := NodeID(len(s.nodes))
	n.Parent = parent
	n.Children = nil
	s.nodes = append(s.nodes, n)
	if parent != NoNode {
		s.nodes[parent].Children = append(s.nodes[parent].Children, id)
	}
	return id
}

func (s *Scene) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(s.nodes)
}

func (s *Scene) Root() NodeID { return s.root }

// Len returns the number of nodes, zero once disposed.
func (s *Scene) Len() int { return len(s.nodes) }

// Node returns a copy of the node. The Children slice must not be modified.
func (s *Scene) Node(id NodeID) (Node, bool) {
	if !s.valid(id) {
		return Node{}, false
	}
	return s.nodes[id], true
}

// Center returns the center body node.
func (s *Scene) Center() NodeID { return s.center }

// CenterSpinSpeed returns the center body's spin in radians per frame.
func (s *Scene) CenterSpinSpeed() float64 { return s.centerSpin }

func (s *Scene) Lights() []Light { return s.lights }

func (s *Scene) Background() Background { return s.background }

// Satellites returns the satellites in configuration order, which is also
// the order the animation loop updates them in.
func (s *Scene) Satellites() []Satellite { return s.satellites }

func (s *Scene) Paths() []OrbitPath { return s.paths }

// Rotation returns a node's local Euler rotation.
func (s *Scene) Rotation(id NodeID) mgl64.Vec3 {
	if !s.valid(id) {
		return mgl64.Vec3{}
	}
	return s.nodes[id].Transform.Rotation
}

// SetRotationY sets the rotation of a node about its local Y axis.
func (s *Scene) SetRotationY(id NodeID, angle float64) {
	if !s.valid(id) {
		return
	}
	s.nodes[id].Transform.Rotation[1] = angle
}

// LocalMatrix returns the node's local-to-parent matrix.
func (s *Scene) LocalMatrix(id NodeID) mgl64.Mat4 {
	if !s.valid(id) {
		return mgl64.Ident4()
	}
	return s.nodes[id].Transform.Matrix()
}

// WorldMatrix composes local matrices from the root down to id.
func (s *Scene) WorldMatrix(id NodeID) mgl64.Mat4 {
	if !s.valid(id) {
		return mgl64.Ident4()
	}
	m := s.LocalMatrix(id)
	for p := s.nodes[id].Parent; p != NoNode; p = s.nodes[p].Parent {
		m = s.LocalMatrix(p).Mul4(m)
	}
	return m
}

// WorldPosition returns the node's origin in world space.
func (s *Scene) WorldPosition(id NodeID) mgl64.Vec3 {
	return s.WorldMatrix(id).Col(3).Vec3()
}

// Walk visits every node depth first in child order, passing its world
// matrix. Returning false from fn skips the node's children.
func (s *Scene) Walk(fn func(id NodeID, n *Node, world mgl64.Mat4) bool) {
	if !s.valid(s.root) {
		return
	}
	s.walk(s.root, mgl64.Ident4(), fn)
}

func (s *Scene) walk(id NodeID, parent mgl64.Mat4, fn func(NodeID, *Node, mgl64.Mat4) bool) {
	n := &s.nodes[id]
	world := parent.Mul4(n.Transform.Matrix())
	if !fn(id, n, world) {
		return
	}
	for _, c := range n.Children {
		s.walk(c, world, fn)
	}
}

// Dispose releases every node, texture and light. The scene is empty
// afterwards; calling Dispose again is a no-op.
func (s *Scene) Dispose() {
	if s.disposed {
		return
	}
	s.nodes = nil
	s.lights = nil
	s.satellites = nil
	s.paths = nil
	s.background = Background{}
	s.root = NoNode
	s.center = NoNode
	s.disposed = true
}

func (s *Scene) Disposed() bool { return s.disposed }

// BodyInfo names one satellite for display.
type BodyInfo struct {
	Name string
	Ring bool
}

// Summary describes a built scene without referring to its nodes. It stays
// valid after the scene is disposed.
type Summary struct {
	Center string
	Bodies []BodyInfo
}

// Summary must be taken before the animation loop starts mutating the scene.
func (s *Scene) Summary() Summary {
	var sum Summary
	if n, ok := s.Node(s.center); ok {
		sum.Center = n.Name
	}
	sum.Bodies = make([]BodyInfo, len(s.satellites))
	for i, sat := range s.satellites {
		sum.Bodies[i] = BodyInfo{Name: sat.Name, Ring: sat.HasRing()}
	}
	return sum
}
