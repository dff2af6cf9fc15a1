// Package snap corrects a moved selection onto guides and the pixel grid.
package snap

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/geom"
	"github.com/milk9111/transform2d/guides"
	"github.com/milk9111/transform2d/selection"
	"github.com/milk9111/transform2d/settings"
	"github.com/milk9111/transform2d/units"
)

// Action is a snapped position together with the normalized anchor on the
// selection's AABB that should land on it.
type Action struct {
	Position cp.Vector
	Anchor   cp.Vector
}

// Engine snaps selections. Any field may be nil: no guides never match, nil
// settings disable snapping.
type Engine struct {
	Guides    *guides.Store
	Settings  *settings.Settings
	Converter units.Converter
}

// Force is the guide tolerance at the given view zoom.
func Force(zoom float64) float64 {
	return settings.GuideSnapForce * zoom * 0.5
}

// SnapPosition computes where the selection should go. Each axis snaps to
// the nearest guide within tolerance, falling back to the pixel grid when
// no guide matches. When both axes match a guide they are resolved
// independently and merged.
func (e *Engine) SnapPosition(sel *selection.Selection, zoom float64) Action {
	if e == nil || sel.IsEmpty() {
		return Action{}
	}
	force := Force(zoom)
	b := sel.Bounds()
	anchor := geom.Div(sel.Position().Sub(b.Min()), b.Size)
	act := Action{Position: sel.PositionAt(anchor, geom.AlignAxis), Anchor: anchor}

	var snapH, snapV bool
	if e.Settings.SnapToGuides() {
		snapH = e.Guides.IsSnap(b, force, geom.Horizontal)
		snapV = e.Guides.IsSnap(b, force, geom.Vertical)
	}
	pixel := e.Settings != nil && e.Settings.SnapToPixel

	switch {
	case !snapH && !snapV:
		if pixel {
			act.Position = e.Converter.SnapToPixels(act.Position)
		}
	case snapH && !snapV:
		act = e.snapHorizontal(sel, act, force)
		if pixel {
			act.Position = e.Converter.SnapX(act.Position)
		}
	case !snapH && snapV:
		act = e.snapVertical(sel, act, force)
		if pixel {
			act.Position = e.Converter.SnapY(act.Position)
		}
	default:
		h := e.snapHorizontal(sel, act, force)
		v := e.snapVertical(sel, act, force)
		h.Position.X = v.Position.X
		h.Anchor.X = v.Anchor.X
		act = h
	}
	return act
}

// Apply moves the selection so that act.Anchor lands on act.Position.
func Apply(sel *selection.Selection, act Action) {
	sel.SetPositionAt(act.Position, act.Anchor, geom.AlignAxis)
}

type candidate struct {
	edge   float64
	anchor float64
}

// nearest picks the closest guide among the candidates. Distance ties go to
// the earlier candidate.
func (e *Engine) nearest(axis geom.Axis, force float64, cands []candidate) (pos, anchor float64, ok bool) {
	best := math.MaxFloat64
	for _, c := range cands {
		g, found := e.Guides.Nearest(c.edge, force, axis)
		if !found {
			continue
		}
		d := math.Abs(g.Position - c.edge)
		if d < best && !geom.Approximately(d, best) {
			best, pos, anchor, ok = d, g.Position, c.anchor, true
		}
	}
	return pos, anchor, ok
}

// snapHorizontal snaps Y to horizontal guides, trying top, bottom and the
// vertical center in that order.
func (e *Engine) snapHorizontal(sel *selection.Selection, act Action, force float64) Action {
	y, anchor, ok := e.nearest(geom.Horizontal, force, []candidate{
		{sel.Top(), geom.PivotTopCenter.Vector().Y},
		{sel.Bottom(), geom.PivotBottomCenter.Vector().Y},
		{sel.VerticalCenter(), geom.PivotCenter.Vector().Y},
	})
	if ok {
		act.Position.Y = y
		act.Anchor.Y = anchor
	}
	return act
}

// snapVertical snaps X to vertical guides, trying left, right and the
// horizontal center in that order.
func (e *Engine) snapVertical(sel *selection.Selection, act Action, force float64) Action {
	x, anchor, ok := e.nearest(geom.Vertical, force, []candidate{
		{sel.Left(), geom.PivotLeftCenter.Vector().X},
		{sel.Right(), geom.PivotRightCenter.Vector().X},
		{sel.HorizontalCenter(), geom.PivotCenter.Vector().X},
	})
	if ok {
		act.Position.X = x
		act.Anchor.X = anchor
	}
	return act
}
