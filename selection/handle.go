package selection

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/bounds"
	"github.com/milk9111/transform2d/ecs"
	"github.com/milk9111/transform2d/ecs/component"
	"github.com/milk9111/transform2d/geom"
	"github.com/milk9111/transform2d/units"
)

// Handle wraps one entity with a bounds provider per kind and a pivot. All
// position-like accessors address the point at the pivot, and every size,
// scale and rotation write keeps that point where it was.
type Handle struct {
	ctx       *bounds.Context
	entity    ecs.Entity
	providers [bounds.None + 1]*bounds.Provider
	requested bounds.Source
	source    bounds.Source
	pivot     cp.Vector
}

// NewHandle adopts e. Its source starts as Text or Camera when present and
// None otherwise.
func NewHandle(ctx *bounds.Context, e ecs.Entity) *Handle {
	h := &Handle{
		ctx:       ctx,
		entity:    e,
		requested: bounds.None,
		pivot:     geom.PivotCenter.Vector(),
	}
	for src := bounds.Camera; src <= bounds.None; src++ {
		h.providers[src] = bounds.New(ctx, e, src)
	}
	h.source = bounds.Resolve(h.world(), e, h.requested)
	return h
}

func (h *Handle) world() *ecs.World {
	if h == nil || h.ctx == nil {
		return nil
	}
	return h.ctx.World
}

func (h *Handle) transform() (*component.Transform, bool) {
	if h == nil {
		return nil, false
	}
	return ecs.TransformOf(h.world(), h.entity)
}

func (h *Handle) Entity() ecs.Entity {
	if h == nil {
		return 0
	}
	return h.entity
}

// Refresh re-reads the entity's components and re-resolves the source.
func (h *Handle) Refresh() {
	if h == nil {
		return
	}
	for _, p := range h.providers {
		p.Refresh()
	}
	h.source = bounds.Resolve(h.world(), h.entity, h.requested)
}

func (h *Handle) Source() bounds.Source {
	if h == nil {
		return bounds.None
	}
	return h.source
}

// SetSource requests a source and returns the one actually resolved.
func (h *Handle) SetSource(requested bounds.Source) bounds.Source {
	if h == nil {
		return bounds.None
	}
	h.requested = requested
	h.source = bounds.Resolve(h.world(), h.entity, requested)
	return h.source
}

// Bounds returns the provider for the active source.
func (h *Handle) Bounds() *bounds.Provider {
	if h == nil {
		return nil
	}
	return h.providers[h.source]
}

// Provider returns the provider for src regardless of the active source.
func (h *Handle) Provider(src bounds.Source) *bounds.Provider {
	if h == nil || src < bounds.Camera || src > bounds.None {
		return nil
	}
	return h.providers[src]
}

func (h *Handle) Features() bounds.Features {
	if h == nil {
		return bounds.Features{}
	}
	return bounds.Inspect(h.world(), h.entity)
}

func (h *Handle) Pivot() cp.Vector {
	if h == nil {
		return geom.PivotCenter.Vector()
	}
	return h.pivot
}

func (h *Handle) SetPivot(p cp.Vector) {
	if h != nil {
		h.pivot = p
	}
}

// PositionAt returns the point at pivot, in world or parent space.
func (h *Handle) PositionAt(pivot cp.Vector, bt geom.BoundsType, space units.Space) cp.Vector {
	t, ok := h.transform()
	if !ok {
		return cp.Vector{}
	}
	pos := t.Position
	if space == units.Global {
		pos = ecs.WorldPosition(h.world(), h.entity)
	}
	return pos.Add(h.Bounds().VectorTo(pivot, bt, space))
}

// SetPositionAt moves the entity so the point at pivot lands on pos. The
// transform's Changed flag is left as it was.
func (h *Handle) SetPositionAt(pos cp.Vector, pivot cp.Vector, bt geom.BoundsType, space units.Space) {
	t, ok := h.transform()
	if !ok {
		return
	}
	changed := t.Changed
	pos = pos.Sub(h.Bounds().VectorTo(pivot, bt, space))
	if space == units.Global {
		ecs.SetWorldPosition(h.world(), h.entity, pos)
	} else {
		t.Position = pos
	}
	t.Changed = changed
}

func (h *Handle) Position() cp.Vector {
	return h.PositionAt(h.Pivot(), geom.AlignObject, units.Global)
}

func (h *Handle) SetPosition(pos cp.Vector) {
	h.SetPositionAt(pos, h.Pivot(), geom.AlignObject, units.Global)
}

func (h *Handle) LocalPosition() cp.Vector {
	return h.PositionAt(h.Pivot(), geom.AlignObject, units.Local)
}

func (h *Handle) SetLocalPosition(pos cp.Vector) {
	h.SetPositionAt(pos, h.Pivot(), geom.AlignObject, units.Local)
}

func (h *Handle) LocalScale() cp.Vector {
	t, ok := h.transform()
	if !ok {
		return cp.Vector{X: 1, Y: 1}
	}
	return t.Scale
}

func (h *Handle) SetLocalScale(s cp.Vector) {
	t, ok := h.transform()
	if !ok {
		return
	}
	pos := h.Position()
	t.Scale = s
	h.SetPosition(pos)
}

// Scale is the world (lossy) scale.
func (h *Handle) Scale() cp.Vector {
	if _, ok := h.transform(); !ok {
		return cp.Vector{X: 1, Y: 1}
	}
	return ecs.LossyScale(h.world(), h.entity)
}

func (h *Handle) SetScale(s cp.Vector) {
	t, ok := h.transform()
	if !ok {
		return
	}
	pos := h.Position()
	t.Scale = geom.Div(s, h.parentScale())
	h.SetPosition(pos)
}

// parentScale measures the inherited scale by resetting the entity's own
// scale for the duration of the read.
func (h *Handle) parentScale() cp.Vector {
	t, _ := h.transform()
	own := t.Scale
	t.Scale = cp.Vector{X: 1, Y: 1}
	s := ecs.LossyScale(h.world(), h.entity)
	t.Scale = own
	return s
}

// Size is the world width and height of the active bounds.
func (h *Handle) Size() cp.Vector {
	return h.Bounds().Size()
}

// SetSize rescales the entity so its world size matches size. Axes whose
// unscaled size is zero get a zero scale.
func (h *Handle) SetSize(size cp.Vector) error {
	t, ok := h.transform()
	if !ok {
		return nil
	}
	if !h.Source().Editable() {
		return ErrSizeNotEditable
	}
	pos := h.Position()
	t.Scale = cp.Vector{X: 1, Y: 1}
	full := h.Bounds().Size()
	t.Scale = geom.DivOrZero(size, full)
	h.SetPosition(pos)
	return nil
}

// LocalSize is the object-aligned size times the local scale.
func (h *Handle) LocalSize() cp.Vector {
	return geom.Mul(h.UnscaledSize(), h.LocalScale())
}

func (h *Handle) SetLocalSize(size cp.Vector) error {
	t, ok := h.transform()
	if !ok {
		return nil
	}
	if !h.Source().Editable() {
		return ErrSizeNotEditable
	}
	pos := h.Position()
	t.Scale = geom.DivOrZero(size, h.UnscaledSize())
	h.SetPosition(pos)
	return nil
}

// UnscaledSize is the object-aligned size.
func (h *Handle) UnscaledSize() cp.Vector {
	return h.Bounds().ObjectAligned().Size
}

// Rotation is the world rotation in degrees.
func (h *Handle) Rotation() float64 {
	if _, ok := h.transform(); !ok {
		return 0
	}
	return ecs.WorldRotation(h.world(), h.entity)
}

// SetRotation turns the entity about its pivot.
func (h *Handle) SetRotation(deg float64) {
	if _, ok := h.transform(); !ok {
		return
	}
	toOrigin := h.Bounds().VectorTo(h.Pivot(), geom.AlignObject, units.Global).Neg()
	unrotated := geom.Rotate(toOrigin, -h.Rotation())
	pos := h.Position().Add(geom.Rotate(unrotated, deg))
	ecs.SetWorldPosition(h.world(), h.entity, pos)
	ecs.SetWorldRotation(h.world(), h.entity, deg)
}

func (h *Handle) LocalRotation() float64 {
	t, ok := h.transform()
	if !ok {
		return 0
	}
	return geom.NormalizeDegrees(t.Rotation)
}

// SetLocalRotation turns the entity about its pivot in the parent frame.
func (h *Handle) SetLocalRotation(deg float64) {
	t, ok := h.transform()
	if !ok {
		return
	}
	toOrigin := h.Bounds().VectorTo(h.Pivot(), geom.AlignObject, units.Local).Neg()
	unrotated := geom.Rotate(toOrigin, -h.LocalRotation())
	t.Position = h.LocalPosition().Add(geom.Rotate(unrotated, deg))
	t.Rotation = geom.NormalizeDegrees(deg)
	t.Changed = true
}

func (h *Handle) axisPoint(pivot geom.PivotType) cp.Vector {
	return h.PositionAt(pivot.Vector(), geom.AlignAxis, units.Global)
}

func (h *Handle) setAxisPoint(pivot geom.PivotType, set func(*cp.Vector)) {
	p := h.axisPoint(pivot)
	set(&p)
	h.SetPositionAt(p, pivot.Vector(), geom.AlignAxis, units.Global)
}

func (h *Handle) Left() float64   { return h.axisPoint(geom.PivotTopLeft).X }
func (h *Handle) Right() float64  { return h.axisPoint(geom.PivotTopRight).X }
func (h *Handle) Top() float64    { return h.axisPoint(geom.PivotTopLeft).Y }
func (h *Handle) Bottom() float64 { return h.axisPoint(geom.PivotBottomLeft).Y }

func (h *Handle) HorizontalCenter() float64 { return h.axisPoint(geom.PivotCenter).X }
func (h *Handle) VerticalCenter() float64   { return h.axisPoint(geom.PivotCenter).Y }

// Center is the world AABB center.
func (h *Handle) Center() cp.Vector { return h.axisPoint(geom.PivotCenter) }

func (h *Handle) SetLeft(v float64) {
	h.setAxisPoint(geom.PivotTopLeft, func(p *cp.Vector) { p.X = v })
}

func (h *Handle) SetRight(v float64) {
	h.setAxisPoint(geom.PivotTopRight, func(p *cp.Vector) { p.X = v })
}

func (h *Handle) SetTop(v float64) {
	h.setAxisPoint(geom.PivotTopLeft, func(p *cp.Vector) { p.Y = v })
}

func (h *Handle) SetBottom(v float64) {
	h.setAxisPoint(geom.PivotBottomLeft, func(p *cp.Vector) { p.Y = v })
}

func (h *Handle) SetHorizontalCenter(v float64) {
	h.setAxisPoint(geom.PivotCenter, func(p *cp.Vector) { p.X = v })
}

func (h *Handle) SetVerticalCenter(v float64) {
	h.setAxisPoint(geom.PivotCenter, func(p *cp.Vector) { p.Y = v })
}

func (h *Handle) SetCenter(c cp.Vector) {
	h.SetPositionAt(c, geom.PivotCenter.Vector(), geom.AlignAxis, units.Global)
}

// SpritePPU is the runtime pixels-per-unit of the sprite, NaN without one.
func (h *Handle) SpritePPU() float64 {
	return h.Provider(bounds.Sprite).SpritePPU()
}

// SpritePPUSetting is the pixels-per-unit configured on the sprite asset.
func (h *Handle) SpritePPUSetting() float64 {
	spr, ok := ecs.Get(h.world(), h.Entity(), component.SpriteComponent.Kind())
	if !ok || !spr.HasImage() {
		return math.NaN()
	}
	if spr.ImportPPU > 0 {
		return spr.ImportPPU
	}
	return spr.PixelsPerUnit
}

// SpriteScale is below 1 when the texture was downscaled on import.
func (h *Handle) SpriteScale() float64 {
	return h.SpritePPU() / h.SpritePPUSetting()
}

func (h *Handle) IsSpriteDownscaled() bool {
	return h.SpriteScale() < 1
}

// SpritePivot is the asset pivot in units, scaled by the local scale.
func (h *Handle) SpritePivot() cp.Vector {
	return geom.Mul(h.Provider(bounds.Sprite).SpritePivot(), h.LocalScale())
}
