// Package selection aggregates entity handles into an editable group.
package selection

import (
	"errors"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/bounds"
	"github.com/milk9111/transform2d/ecs"
	"github.com/milk9111/transform2d/ecs/component"
	"github.com/milk9111/transform2d/geom"
	"github.com/milk9111/transform2d/units"
)

var (
	ErrGroupOperationNotSupported = errors.New("selection: operation not supported for a group")
	ErrSizeNotEditable            = errors.New("selection: size is not editable for this bounds source")
)

// History records entity state before an edit so the host can undo it.
type History interface {
	Record(entities []ecs.Entity, label string)
}

// Selection is an ordered set of handles, unique by entity. A selection that
// contains a prefab asset or an entity together with one of its ancestors
// holds no handles and every edit on it is a no-op.
type Selection struct {
	ctx        *bounds.Context
	children   []*Handle
	hasPrefab  bool
	hasNesting bool
	pivot      cp.Vector

	History  History
	OnChange func()
}

// New builds a selection from entities in host order. Duplicates and dead
// entities are dropped.
func New(ctx *bounds.Context, entities []ecs.Entity) *Selection {
	s := &Selection{ctx: ctx, pivot: geom.PivotCenter.Vector()}
	if ctx == nil {
		return s
	}
	seen := make(map[ecs.Entity]struct{}, len(entities))
	unique := make([]ecs.Entity, 0, len(entities))
	for _, e := range entities {
		if _, dup := seen[e]; dup || !ecs.IsAlive(ctx.World, e) {
			continue
		}
		seen[e] = struct{}{}
		unique = append(unique, e)
	}

	s.hasPrefab = hasPrefab(ctx.World, unique)
	s.hasNesting = hasNesting(ctx.World, unique)
	if s.hasPrefab || s.hasNesting {
		return s
	}
	for _, e := range unique {
		s.children = append(s.children, NewHandle(ctx, e))
	}
	return s
}

func hasPrefab(w *ecs.World, entities []ecs.Entity) bool {
	for _, e := range entities {
		if p, ok := ecs.Get(w, e, component.PrefabComponent.Kind()); ok && p.Status == component.PrefabAsset {
			return true
		}
	}
	return false
}

func hasNesting(w *ecs.World, entities []ecs.Entity) bool {
	for i, a := range entities {
		for j, b := range entities {
			if i != j && ecs.IsAncestor(w, a, b) {
				return true
			}
		}
	}
	return false
}

func (s *Selection) Count() int {
	if s == nil {
		return 0
	}
	return len(s.children)
}

func (s *Selection) IsEmpty() bool  { return s.Count() == 0 }
func (s *Selection) IsSingle() bool { return s.Count() == 1 }

func (s *Selection) HasPrefab() bool  { return s != nil && s.hasPrefab }
func (s *Selection) HasNesting() bool { return s != nil && s.hasNesting }

// First returns the first handle, nil when empty.
func (s *Selection) First() *Handle {
	if s.IsEmpty() {
		return nil
	}
	return s.children[0]
}

// Children returns the handles in selection order.
func (s *Selection) Children() []*Handle {
	if s == nil {
		return nil
	}
	return append([]*Handle(nil), s.children...)
}

func (s *Selection) Entities() []ecs.Entity {
	out := make([]ecs.Entity, 0, s.Count())
	for _, h := range s.Children() {
		out = append(out, h.Entity())
	}
	return out
}

func (s *Selection) Context() *bounds.Context {
	if s == nil {
		return nil
	}
	return s.ctx
}

// Record hands the current entities to the history collaborator.
func (s *Selection) Record(label string) {
	if s == nil || s.History == nil || s.IsEmpty() {
		return
	}
	s.History.Record(s.Entities(), label)
}

// NotifyChange invokes OnChange.
func (s *Selection) NotifyChange() {
	if s != nil && s.OnChange != nil {
		s.OnChange()
	}
}

// Refresh re-reads every child's components.
func (s *Selection) Refresh() {
	for _, h := range s.Children() {
		h.Refresh()
	}
}

// Pivot is the single child's pivot, or the group pivot.
func (s *Selection) Pivot() cp.Vector {
	if s.IsSingle() {
		return s.First().Pivot()
	}
	if s == nil {
		return geom.PivotCenter.Vector()
	}
	return s.pivot
}

func (s *Selection) SetPivot(p cp.Vector) {
	if s == nil {
		return
	}
	if s.IsSingle() {
		s.First().SetPivot(p)
	}
	s.pivot = p
}

// Source is the single child's source, or the lowest source among the
// non-camera children of a group.
func (s *Selection) Source() bounds.Source {
	switch {
	case s.IsEmpty():
		return bounds.None
	case s.IsSingle():
		return s.First().Source()
	}
	src := bounds.None
	for _, h := range s.children {
		if h.Features().Camera {
			continue
		}
		if h.Source() < src {
			src = h.Source()
		}
	}
	return src
}

// SetSource requests src on every child.
func (s *Selection) SetSource(src bounds.Source) {
	for _, h := range s.Children() {
		h.SetSource(src)
	}
}

func (s *Selection) edge(pick func(*Handle) float64, better func(a, b float64) bool) float64 {
	if s.IsEmpty() {
		return math.NaN()
	}
	v := pick(s.children[0])
	for _, h := range s.children[1:] {
		if c := pick(h); better(c, v) {
			v = c
		}
	}
	return v
}

func less(a, b float64) bool    { return a < b }
func greater(a, b float64) bool { return a > b }

func (s *Selection) Left() float64   { return s.edge((*Handle).Left, less) }
func (s *Selection) Right() float64  { return s.edge((*Handle).Right, greater) }
func (s *Selection) Top() float64    { return s.edge((*Handle).Top, greater) }
func (s *Selection) Bottom() float64 { return s.edge((*Handle).Bottom, less) }

func (s *Selection) HorizontalCenter() float64 { return (s.Left() + s.Right()) / 2 }
func (s *Selection) VerticalCenter() float64   { return (s.Bottom() + s.Top()) / 2 }

func (s *Selection) Center() cp.Vector {
	return cp.Vector{X: s.HorizontalCenter(), Y: s.VerticalCenter()}
}

// Bounds is the single child's AABB, or the union box of a group.
func (s *Selection) Bounds() geom.Bounds {
	switch {
	case s.IsEmpty():
		return geom.Bounds{}
	case s.IsSingle():
		return s.First().Bounds().AxisAligned()
	}
	return geom.Bounds{Center: s.Center(), Size: s.groupSize()}
}

func (s *Selection) groupSize() cp.Vector {
	return cp.Vector{X: s.Right() - s.Left(), Y: s.Top() - s.Bottom()}
}

func (s *Selection) pivotOffset() cp.Vector {
	size := s.LocalSize()
	return geom.Mul(s.Pivot(), size).Sub(size.Mult(0.5))
}

func (s *Selection) Position() cp.Vector {
	switch {
	case s.IsEmpty():
		return cp.Vector{}
	case s.IsSingle():
		return s.First().Position()
	}
	return s.Center().Add(s.pivotOffset())
}

// SetPosition moves the pivot point to pos. A group is translated as a
// whole by one shared offset.
func (s *Selection) SetPosition(pos cp.Vector) {
	switch {
	case s.IsEmpty():
		return
	case s.IsSingle():
		h := s.First()
		if pos == h.Position() {
			return
		}
		s.Record("Transform Position")
		h.SetPosition(pos)
	default:
		offset := pos.Sub(s.pivotOffset()).Sub(s.Center())
		if offset == (cp.Vector{}) {
			return
		}
		s.Record("Transform Positions")
		for _, h := range s.children {
			h.SetPosition(h.Position().Add(offset))
		}
	}
	s.NotifyChange()
}

// PositionAt reads the position at pivot without changing the stored pivot.
func (s *Selection) PositionAt(pivot cp.Vector, bt geom.BoundsType) cp.Vector {
	if s.IsSingle() {
		return s.First().PositionAt(pivot, bt, units.Global)
	}
	if s.IsEmpty() {
		return cp.Vector{}
	}
	saved := s.pivot
	s.pivot = pivot
	defer func() { s.pivot = saved }()
	return s.Position()
}

// SetPositionAt moves the point at pivot to pos.
func (s *Selection) SetPositionAt(pos cp.Vector, pivot cp.Vector, bt geom.BoundsType) {
	if s.IsSingle() {
		s.First().SetPositionAt(pos, pivot, bt, units.Global)
		return
	}
	if s.IsEmpty() {
		return
	}
	saved := s.pivot
	s.pivot = pivot
	defer func() { s.pivot = saved }()
	s.SetPosition(pos)
}

func (s *Selection) LocalPosition() cp.Vector {
	if !s.IsSingle() {
		return cp.Vector{}
	}
	return s.First().LocalPosition()
}

func (s *Selection) SetLocalPosition(pos cp.Vector) error {
	if err := s.singleOnly(); err != nil || s.IsEmpty() {
		return err
	}
	h := s.First()
	if pos == h.LocalPosition() {
		return nil
	}
	s.Record("Transform Position")
	h.SetLocalPosition(pos)
	s.NotifyChange()
	return nil
}

func (s *Selection) singleOnly() error {
	if s.Count() > 1 {
		return ErrGroupOperationNotSupported
	}
	return nil
}

func (s *Selection) Size() cp.Vector {
	switch {
	case s.IsEmpty():
		return cp.Vector{}
	case s.IsSingle():
		return s.First().Size()
	}
	return s.groupSize()
}

func (s *Selection) SetSize(size cp.Vector) error {
	if err := s.singleOnly(); err != nil || s.IsEmpty() {
		return err
	}
	h := s.First()
	if size == h.Size() {
		return nil
	}
	if !h.Source().Editable() {
		return ErrSizeNotEditable
	}
	s.Record("Transform Size")
	if err := h.SetSize(size); err != nil {
		return err
	}
	s.NotifyChange()
	return nil
}

func (s *Selection) LocalSize() cp.Vector {
	switch {
	case s.IsEmpty():
		return cp.Vector{}
	case s.IsSingle():
		return s.First().LocalSize()
	}
	return s.groupSize()
}

func (s *Selection) SetLocalSize(size cp.Vector) error {
	if err := s.singleOnly(); err != nil || s.IsEmpty() {
		return err
	}
	h := s.First()
	if size == h.LocalSize() {
		return nil
	}
	if !h.Source().Editable() {
		return ErrSizeNotEditable
	}
	s.Record("Transform Size")
	if err := h.SetLocalSize(size); err != nil {
		return err
	}
	s.NotifyChange()
	return nil
}

// UnscaledSize is the single child's object-aligned size, or the group size.
func (s *Selection) UnscaledSize() cp.Vector {
	if s.IsSingle() {
		return s.First().UnscaledSize()
	}
	return s.LocalSize()
}

func (s *Selection) Scale() cp.Vector {
	if !s.IsSingle() {
		return cp.Vector{X: 1, Y: 1}
	}
	return s.First().Scale()
}

func (s *Selection) SetScale(scale cp.Vector) error {
	if err := s.singleOnly(); err != nil || s.IsEmpty() {
		return err
	}
	h := s.First()
	if scale == h.Scale() {
		return nil
	}
	s.Record("Transform Scale")
	h.SetScale(scale)
	s.NotifyChange()
	return nil
}

func (s *Selection) LocalScale() cp.Vector {
	if !s.IsSingle() {
		return cp.Vector{X: 1, Y: 1}
	}
	return s.First().LocalScale()
}

func (s *Selection) SetLocalScale(scale cp.Vector) error {
	if err := s.singleOnly(); err != nil || s.IsEmpty() {
		return err
	}
	h := s.First()
	if scale == h.LocalScale() {
		return nil
	}
	s.Record("Transform Scale")
	h.SetLocalScale(scale)
	s.NotifyChange()
	return nil
}

func (s *Selection) Rotation() float64 {
	if !s.IsSingle() {
		return 0
	}
	return s.First().Rotation()
}

func (s *Selection) SetRotation(deg float64) error {
	if err := s.singleOnly(); err != nil || s.IsEmpty() {
		return err
	}
	h := s.First()
	if geom.Approximately(deg, h.Rotation()) {
		return nil
	}
	s.Record("Transform Rotation")
	h.SetRotation(deg)
	s.NotifyChange()
	return nil
}

func (s *Selection) LocalRotation() float64 {
	if !s.IsSingle() {
		return 0
	}
	return s.First().LocalRotation()
}

func (s *Selection) SetLocalRotation(deg float64) error {
	if err := s.singleOnly(); err != nil || s.IsEmpty() {
		return err
	}
	h := s.First()
	if geom.Approximately(deg, h.LocalRotation()) {
		return nil
	}
	s.Record("Transform Local Rotation")
	h.SetLocalRotation(deg)
	s.NotifyChange()
	return nil
}
