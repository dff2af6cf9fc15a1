package bounds

import (
	"github.com/milk9111/transform2d/ecs"
	"github.com/milk9111/transform2d/geom"
)

// noBounds is a zero-size box at the entity origin.
type noBounds struct{}

func (noBounds) source() Source { return None }

func (noBounds) refresh(*Context, ecs.Entity) {}

func (noBounds) valid() bool { return true }

func (noBounds) objectAligned(*Context, ecs.Entity) geom.Bounds {
	return geom.Bounds{}
}

func (noBounds) axisAligned(ctx *Context, e ecs.Entity) geom.Bounds {
	return geom.Bounds{Center: ecs.WorldPosition(ctx.World, e)}
}
