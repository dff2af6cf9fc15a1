package geom

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

// PivotType names the nine pivot presets. The Y axis points up, so Top is 1.
type PivotType int

const (
	PivotCenter PivotType = iota
	PivotTopLeft
	PivotTopCenter
	PivotTopRight
	PivotLeftCenter
	PivotRightCenter
	PivotBottomLeft
	PivotBottomCenter
	PivotBottomRight
)

// PivotTypes lists every preset in declaration order.
var PivotTypes = []PivotType{
	PivotCenter,
	PivotTopLeft,
	PivotTopCenter,
	PivotTopRight,
	PivotLeftCenter,
	PivotRightCenter,
	PivotBottomLeft,
	PivotBottomCenter,
	PivotBottomRight,
}

var pivotVectors = [...]cp.Vector{
	PivotCenter:       {X: 0.5, Y: 0.5},
	PivotTopLeft:      {X: 0, Y: 1},
	PivotTopCenter:    {X: 0.5, Y: 1},
	PivotTopRight:     {X: 1, Y: 1},
	PivotLeftCenter:   {X: 0, Y: 0.5},
	PivotRightCenter:  {X: 1, Y: 0.5},
	PivotBottomLeft:   {X: 0, Y: 0},
	PivotBottomCenter: {X: 0.5, Y: 0},
	PivotBottomRight:  {X: 1, Y: 0},
}

var pivotNames = [...]string{
	PivotCenter:       "center",
	PivotTopLeft:      "top_left",
	PivotTopCenter:    "top_center",
	PivotTopRight:     "top_right",
	PivotLeftCenter:   "left_center",
	PivotRightCenter:  "right_center",
	PivotBottomLeft:   "bottom_left",
	PivotBottomCenter: "bottom_center",
	PivotBottomRight:  "bottom_right",
}

// Vector returns the normalized pivot. Unknown values map to center.
func (p PivotType) Vector() cp.Vector {
	if p < 0 || int(p) >= len(pivotVectors) {
		return pivotVectors[PivotCenter]
	}
	return pivotVectors[p]
}

func (p PivotType) String() string {
	if p < 0 || int(p) >= len(pivotNames) {
		return fmt.Sprintf("PivotType(%d)", int(p))
	}
	return pivotNames[p]
}

// ParsePivotType resolves a preset by name.
func ParsePivotType(name string) (PivotType, error) {
	for i, n := range pivotNames {
		if n == name {
			return PivotType(i), nil
		}
	}
	return PivotCenter, fmt.Errorf("geom: unknown pivot %q", name)
}

// MarshalYAML writes the preset name.
func (p PivotType) MarshalYAML() (any, error) {
	return p.String(), nil
}

// UnmarshalYAML reads a preset name.
func (p *PivotType) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	v, err := ParsePivotType(name)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// BoundsType picks which of an entity's two boxes pivot math runs against.
type BoundsType int

const (
	// AlignObject uses the object-aligned box, following rotation and scale.
	AlignObject BoundsType = iota
	// AlignAxis uses the world axis-aligned box.
	AlignAxis
)

// Axis tags guides and per-axis operations.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// MarshalYAML writes the axis name.
func (a Axis) MarshalYAML() (any, error) {
	return a.String(), nil
}

// UnmarshalYAML reads an axis name.
func (a *Axis) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	switch name {
	case "horizontal":
		*a = Horizontal
	case "vertical":
		*a = Vertical
	default:
		return fmt.Errorf("geom: unknown axis %q", name)
	}
	return nil
}
