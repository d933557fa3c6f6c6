// Package scene builds the hierarchical orbital scene.
//
// The scene is an ownership tree stored in a flat slice and addressed by
// [NodeID]. Each satellite body hangs under its own pivot node:
//
//	root
//	├── center body
//	├── pivot (revolution)      ─┐
//	│   ├── ring (fixed tilt)    │ one per BodyConfig, in order
//	│   └── body mesh (spin)    ─┘
//	└── orbit path (static line)
//
// Rotating a pivot moves its body along the orbit; rotating the body mesh
// only spins it in place. The two never share a node.
//
//   - [GenerateOrbitPath]: closed circle polyline for a radius
//   - [Factory]: one satellite sub-hierarchy from a [BodyConfig]
//   - [Build]: the whole [Scene] from an ordered config slice and an [Environment]
package scene
