package component

import "github.com/jakecoffman/cp"

// Transform is an entity's local placement. Rotation is in degrees,
// counter-clockwise. Parent holds the raw parent entity value, 0 for roots.
type Transform struct {
	Position cp.Vector
	Rotation float64
	Scale    cp.Vector
	Parent   uint64

	// Changed marks a write the host has not seen yet. Rotation, parent and
	// world position writes raise it. Pivot-relative position writes from
	// the selection leave it untouched, so snapping and layout do not echo
	// back as host edits. Only the host clears it.
	Changed bool
}

// NewTransform returns an identity transform at pos.
func NewTransform(pos cp.Vector) Transform {
	return Transform{Position: pos, Scale: cp.Vector{X: 1, Y: 1}}
}

var TransformComponent = NewComponent[Transform]()
