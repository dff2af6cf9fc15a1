// Package bounds computes object-aligned and axis-aligned boxes for each kind
// of entity and resolves pivots against them.
package bounds

import (
	"errors"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/ecs"
	"github.com/milk9111/transform2d/geom"
	"github.com/milk9111/transform2d/physics"
	"github.com/milk9111/transform2d/units"
)

var ErrUnsupportedShape = errors.New("bounds: unsupported collider shape")

// Context is what providers read entities from. Physics is optional; without
// it collider boxes are derived from the transform alone.
type Context struct {
	World   *ecs.World
	Physics *physics.World
}

// variant is the per-kind part of a provider.
type variant interface {
	source() Source
	refresh(ctx *Context, e ecs.Entity)
	valid() bool
	objectAligned(ctx *Context, e ecs.Entity) geom.Bounds
	axisAligned(ctx *Context, e ecs.Entity) geom.Bounds
}

// Provider answers bounds queries for one entity through one source.
type Provider struct {
	ctx    *Context
	entity ecs.Entity
	kind   variant
}

// New creates a provider for e reading from src.
func New(ctx *Context, e ecs.Entity, src Source) *Provider {
	var v variant
	switch src {
	case Camera:
		v = &cameraBounds{}
	case Collider:
		v = &colliderBounds{}
	case Sprite:
		v = &spriteBounds{}
	case Text:
		v = &textBounds{}
	default:
		v = noBounds{}
	}
	p := &Provider{ctx: ctx, entity: e, kind: v}
	p.Refresh()
	return p
}

func (p *Provider) world() *ecs.World {
	if p == nil || p.ctx == nil {
		return nil
	}
	return p.ctx.World
}

func (p *Provider) Entity() ecs.Entity {
	if p == nil {
		return 0
	}
	return p.entity
}

func (p *Provider) Source() Source {
	if p == nil {
		return None
	}
	return p.kind.source()
}

// Refresh re-resolves the cached component. Call it whenever the entity's
// component set changes.
func (p *Provider) Refresh() {
	if p == nil || p.ctx == nil {
		return
	}
	p.kind.refresh(p.ctx, p.entity)
}

// Valid reports whether the entity is alive and carries a usable component.
func (p *Provider) Valid() bool {
	if p == nil || !ecs.IsAlive(p.world(), p.entity) {
		return false
	}
	return p.kind.valid()
}

// ObjectAligned is the box in the entity's local frame, before its own
// rotation and scale.
func (p *Provider) ObjectAligned() geom.Bounds {
	if !p.Valid() {
		return geom.Bounds{}
	}
	return p.kind.objectAligned(p.ctx, p.entity)
}

// AxisAligned is the world-space box after rotation and scale.
func (p *Provider) AxisAligned() geom.Bounds {
	if !p.Valid() {
		return geom.Bounds{}
	}
	return p.kind.axisAligned(p.ctx, p.entity)
}

// VectorTo returns the offset from the entity origin to the point at pivot.
//
// With AlignAxis the point lies on the world AABB and the offset is a plain
// world-space difference. With AlignObject the point lies on the local box
// and is carried through the world transform (Global) or through the local
// scale and rotation only (Local).
func (p *Provider) VectorTo(pivot cp.Vector, bt geom.BoundsType, space units.Space) cp.Vector {
	w := p.world()
	if p == nil || !ecs.IsAlive(w, p.entity) {
		return cp.Vector{}
	}
	b := p.ObjectAligned()
	if bt == geom.AlignAxis {
		b = p.AxisAligned()
	}
	target := geom.Mul(b.Size, pivot).Add(b.Min())

	switch {
	case bt == geom.AlignAxis:
		return target.Sub(ecs.WorldPosition(w, p.entity))
	case space == units.Global:
		return ecs.TransformVector(w, p.entity, target)
	}
	t, ok := ecs.TransformOf(w, p.entity)
	if !ok {
		return target
	}
	return geom.Rotate(geom.Mul(target, t.Scale), t.Rotation)
}

// AABBVectorTo returns point relative to the AABB min, divided by the AABB
// size when normalize is set. Zero-size axes divide by 1.
func (p *Provider) AABBVectorTo(point cp.Vector, normalize bool) cp.Vector {
	b := p.AxisAligned()
	v := point.Sub(b.Min())
	if normalize {
		v = geom.Div(v, b.Size)
	}
	return v
}

// Anchor evaluates a pivot preset on the object-aligned box in world space.
func (p *Provider) Anchor(pt geom.PivotType) cp.Vector {
	return p.VectorTo(pt.Vector(), geom.AlignObject, units.Global)
}

func (p *Provider) TopLeft() cp.Vector      { return p.Anchor(geom.PivotTopLeft) }
func (p *Provider) TopCenter() cp.Vector    { return p.Anchor(geom.PivotTopCenter) }
func (p *Provider) TopRight() cp.Vector     { return p.Anchor(geom.PivotTopRight) }
func (p *Provider) LeftCenter() cp.Vector   { return p.Anchor(geom.PivotLeftCenter) }
func (p *Provider) Center() cp.Vector       { return p.Anchor(geom.PivotCenter) }
func (p *Provider) RightCenter() cp.Vector  { return p.Anchor(geom.PivotRightCenter) }
func (p *Provider) BottomLeft() cp.Vector   { return p.Anchor(geom.PivotBottomLeft) }
func (p *Provider) BottomCenter() cp.Vector { return p.Anchor(geom.PivotBottomCenter) }
func (p *Provider) BottomRight() cp.Vector  { return p.Anchor(geom.PivotBottomRight) }

// Width is the world length of the box's bottom edge.
func (p *Provider) Width() float64 {
	return p.BottomRight().Distance(p.BottomLeft())
}

// Height is the world length of the box's left edge.
func (p *Provider) Height() float64 {
	return p.TopLeft().Distance(p.BottomLeft())
}

func (p *Provider) Size() cp.Vector {
	return cp.Vector{X: p.Width(), Y: p.Height()}
}
