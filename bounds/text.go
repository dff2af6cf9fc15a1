package bounds

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/ecs"
	"github.com/milk9111/transform2d/ecs/component"
	"github.com/milk9111/transform2d/geom"
)

type textBounds struct {
	txt *component.Text
}

func (b *textBounds) source() Source { return Text }

func (b *textBounds) refresh(ctx *Context, e ecs.Entity) {
	b.txt, _ = ecs.Get(ctx.World, e, component.TextComponent.Kind())
}

func (b *textBounds) valid() bool {
	return b.txt != nil
}

func (b *textBounds) objectAligned(_ *Context, _ ecs.Entity) geom.Bounds {
	size := geom.Abs(b.txt.Size)
	half := cp.Vector{X: 0.5, Y: 0.5}
	return geom.Bounds{Center: geom.Mul(half.Sub(b.txt.Pivot), size), Size: size}
}

func (b *textBounds) axisAligned(ctx *Context, e ecs.Entity) geom.Bounds {
	return b.objectAligned(ctx, e).Transformed(ecs.WorldMatrix(ctx.World, e))
}
