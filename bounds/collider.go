package bounds

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/ecs"
	"github.com/milk9111/transform2d/ecs/component"
	"github.com/milk9111/transform2d/geom"
	"github.com/milk9111/transform2d/physics"
)

type colliderBounds struct {
	col *component.Collider
}

func (b *colliderBounds) source() Source { return Collider }

func (b *colliderBounds) refresh(ctx *Context, e ecs.Entity) {
	b.col = nil
	c, ok := ecs.Get(ctx.World, e, component.ColliderComponent.Kind())
	if !ok {
		return
	}
	if !physics.Supported(c.Shape) {
		log.Printf("bounds: entity %s: %v: %s", e, ErrUnsupportedShape, c.Shape)
		return
	}
	b.col = c
}

func (b *colliderBounds) valid() bool {
	return b.col != nil && physics.Supported(b.col.Shape)
}

func (b *colliderBounds) objectAligned(_ *Context, _ ecs.Entity) geom.Bounds {
	return ColliderShapeBounds(b.col)
}

// axisAligned reads the mirrored chipmunk shape after forcing a transform
// sync, so a position written this frame is already reflected.
func (b *colliderBounds) axisAligned(ctx *Context, e ecs.Entity) geom.Bounds {
	if ctx.Physics != nil {
		if bb, ok := ctx.Physics.Sync(ctx.World, e); ok {
			return bb
		}
	}
	return b.objectAligned(ctx, e).Transformed(ecs.WorldMatrix(ctx.World, e))
}

// ColliderShapeBounds is the local box of a collider shape. Unsupported
// shapes and nil colliders yield zero bounds.
func ColliderShapeBounds(c *component.Collider) geom.Bounds {
	if c == nil {
		return geom.Bounds{}
	}
	switch c.Shape {
	case component.ColliderBox:
		return geom.Bounds{Center: c.Offset, Size: geom.Abs(c.Size)}
	case component.ColliderCircle:
		d := math.Abs(c.Radius) * 2
		return geom.Bounds{Center: c.Offset, Size: cp.Vector{X: d, Y: d}}
	case component.ColliderCapsule:
		size := geom.Abs(c.Size)
		if c.Direction == component.CapsuleHorizontal {
			size = cp.Vector{X: size.Y, Y: size.X}
		}
		return geom.Bounds{Center: c.Offset, Size: size}
	case component.ColliderPolygon, component.ColliderEdge:
		if len(c.Points) == 0 {
			return geom.Bounds{Center: c.Offset}
		}
		b := geom.Encapsulate(c.Points...)
		b.Center = b.Center.Add(c.Offset)
		return b
	}
	return geom.Bounds{}
}
