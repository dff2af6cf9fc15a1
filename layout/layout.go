// Package layout aligns and distributes the members of a selection.
package layout

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/milk9111/transform2d/geom"
	"github.com/milk9111/transform2d/selection"
)

var ErrUnknownMode = errors.New("layout: unknown mode")

// Anchor is the edge or center Align lines entities up on.
type Anchor int

const (
	AlignLeft Anchor = iota
	AlignHorizontalCenter
	AlignRight
	AlignTop
	AlignVerticalCenter
	AlignBottom
)

var anchorNames = [...]string{
	AlignLeft:             "left",
	AlignHorizontalCenter: "horizontal_center",
	AlignRight:            "right",
	AlignTop:              "top",
	AlignVerticalCenter:   "vertical_center",
	AlignBottom:           "bottom",
}

func (a Anchor) String() string {
	if a < 0 || int(a) >= len(anchorNames) {
		return fmt.Sprintf("Anchor(%d)", int(a))
	}
	return anchorNames[a]
}

func ParseAnchor(name string) (Anchor, error) {
	for i, n := range anchorNames {
		if n == name {
			return Anchor(i), nil
		}
	}
	return AlignLeft, fmt.Errorf("%w: align %q", ErrUnknownMode, name)
}

// Mode is one of the eight distribution modes.
type Mode int

const (
	DistributeLeft Mode = iota
	DistributeHorizontalCenters
	DistributeRight
	DistributeHorizontalSpacing
	DistributeTop
	DistributeVerticalSpacing
	DistributeBottom
	DistributeVerticalCenters
)

var modeNames = [...]string{
	DistributeLeft:              "left",
	DistributeHorizontalCenters: "horizontal_centers",
	DistributeRight:             "right",
	DistributeHorizontalSpacing: "horizontal_spacing",
	DistributeTop:               "top",
	DistributeVerticalSpacing:   "vertical_spacing",
	DistributeBottom:            "bottom",
	DistributeVerticalCenters:   "vertical_centers",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

func ParseMode(name string) (Mode, error) {
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return DistributeLeft, fmt.Errorf("%w: distribute %q", ErrUnknownMode, name)
}

// Axis returns the axis entities move along.
func (m Mode) Axis() geom.Axis {
	switch m {
	case DistributeTop, DistributeVerticalSpacing, DistributeBottom, DistributeVerticalCenters:
		return geom.Vertical
	}
	return geom.Horizontal
}

// DistributeSpec selects a distribution mode. A NaN Spacing is computed from the
// current extents.
type DistributeSpec struct {
	Mode    Mode
	Spacing float64
}

// Auto distributes evenly between the outermost entities.
func Auto(m Mode) DistributeSpec {
	return DistributeSpec{Mode: m, Spacing: math.NaN()}
}

// Fixed distributes with an explicit spacing.
func Fixed(m Mode, spacing float64) DistributeSpec {
	return DistributeSpec{Mode: m, Spacing: spacing}
}

func (s DistributeSpec) IsFixed() bool {
	return !math.IsNaN(s.Spacing)
}

type accessor struct {
	get func(*selection.Handle) float64
	set func(*selection.Handle, float64)
}

var (
	left    = accessor{(*selection.Handle).Left, (*selection.Handle).SetLeft}
	right   = accessor{(*selection.Handle).Right, (*selection.Handle).SetRight}
	top     = accessor{(*selection.Handle).Top, (*selection.Handle).SetTop}
	bottom  = accessor{(*selection.Handle).Bottom, (*selection.Handle).SetBottom}
	hcenter = accessor{(*selection.Handle).HorizontalCenter, (*selection.Handle).SetHorizontalCenter}
	vcenter = accessor{(*selection.Handle).VerticalCenter, (*selection.Handle).SetVerticalCenter}
)

// Align moves every member so its anchor matches the group's. Fewer than two
// members is a no-op.
func Align(sel *selection.Selection, anchor Anchor) error {
	var (
		acc   accessor
		coord float64
	)
	switch anchor {
	case AlignLeft:
		acc, coord = left, sel.Left()
	case AlignRight:
		acc, coord = right, sel.Right()
	case AlignTop:
		acc, coord = top, sel.Top()
	case AlignBottom:
		acc, coord = bottom, sel.Bottom()
	case AlignHorizontalCenter:
		acc, coord = hcenter, sel.HorizontalCenter()
	case AlignVerticalCenter:
		acc, coord = vcenter, sel.VerticalCenter()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownMode, anchor)
	}
	if sel.Count() < 2 {
		return nil
	}

	sel.Record("Align")
	for _, h := range sel.Children() {
		acc.set(h, coord)
	}
	sel.NotifyChange()
	return nil
}

// Distribute spaces the members along one axis. It needs at least three
// members unless the spacing is fixed.
func Distribute(sel *selection.Selection, spec DistributeSpec) error {
	if spec.Mode < DistributeLeft || spec.Mode > DistributeVerticalCenters {
		return fmt.Errorf("%w: %s", ErrUnknownMode, spec.Mode)
	}
	n := sel.Count()
	if n == 0 || (n < 3 && !spec.IsFixed()) {
		return nil
	}

	sel.Record("Distribute")
	switch spec.Mode {
	case DistributeLeft:
		distributeEdges(sel, left, geom.Vertical, spec.Spacing)
	case DistributeHorizontalCenters:
		distributeEdges(sel, hcenter, geom.Vertical, spec.Spacing)
	case DistributeRight:
		distributeEdges(sel, right, geom.Vertical, spec.Spacing)
	case DistributeTop:
		distributeEdges(sel, top, geom.Horizontal, spec.Spacing)
	case DistributeVerticalCenters:
		distributeEdges(sel, vcenter, geom.Horizontal, spec.Spacing)
	case DistributeBottom:
		distributeEdges(sel, bottom, geom.Horizontal, spec.Spacing)
	case DistributeHorizontalSpacing:
		distributeSpacing(sel, geom.Horizontal, spec.Spacing)
	case DistributeVerticalSpacing:
		distributeSpacing(sel, geom.Vertical, spec.Spacing)
	}
	sel.NotifyChange()
	return nil
}

// distributeEdges orders members by the perpendicular spacing key first so
// that ties along the distribution axis stay deterministic.
func distributeEdges(sel *selection.Selection, acc accessor, perpendicular geom.Axis, spacing float64) {
	sorted := sortStable(sel.Children(), spacingKey(sel, perpendicular))
	sorted = sortStable(sorted, acc.get)

	min := acc.get(sorted[0])
	max := acc.get(sorted[len(sorted)-1])
	if math.IsNaN(spacing) {
		spacing = (max - min) / float64(len(sorted)-1)
	}
	for i := 1; i < len(sorted); i++ {
		acc.set(sorted[i], min+spacing*float64(i))
	}
}

// distributeSpacing places each member's leading edge one spacing after the
// previous member's trailing edge.
func distributeSpacing(sel *selection.Selection, axis geom.Axis, spacing float64) {
	lead, trail := left, right
	min, max := sel.Left(), sel.Right()
	perpendicular := geom.Vertical
	if axis == geom.Vertical {
		lead, trail = bottom, top
		min, max = sel.Bottom(), sel.Top()
		perpendicular = geom.Horizontal
	}

	children := sel.Children()
	sorted := sortStable(children, spacingKey(sel, perpendicular))
	sorted = sortStable(sorted, spacingKey(sel, axis))

	if math.IsNaN(spacing) {
		var net float64
		for _, h := range children {
			size := h.Bounds().AxisAligned().Size
			if axis == geom.Vertical {
				net += size.Y
			} else {
				net += size.X
			}
		}
		spacing = (max - min - net) / float64(len(sorted)-1)
	}
	for i := 1; i < len(sorted); i++ {
		lead.set(sorted[i], trail.get(sorted[i-1])+spacing)
	}
}

// spacingKey orders members along axis. A member touching the group's min
// edge sorts as the min, one touching the max edge as the max, and anything
// else by its center.
func spacingKey(sel *selection.Selection, axis geom.Axis) func(*selection.Handle) float64 {
	lo, hi, center := left, right, hcenter
	min, max := sel.Left(), sel.Right()
	if axis == geom.Vertical {
		lo, hi, center = bottom, top, vcenter
		min, max = sel.Bottom(), sel.Top()
	}
	return func(h *selection.Handle) float64 {
		if geom.Approximately(lo.get(h), min) {
			return min
		}
		if geom.Approximately(hi.get(h), max) {
			return max
		}
		return center.get(h)
	}
}

func sortStable(hs []*selection.Handle, key func(*selection.Handle) float64) []*selection.Handle {
	keys := make(map[*selection.Handle]float64, len(hs))
	for _, h := range hs {
		keys[h] = key(h)
	}
	out := append([]*selection.Handle(nil), hs...)
	sort.SliceStable(out, func(i, j int) bool {
		return keys[out[i]] < keys[out[j]]
	})
	return out
}
