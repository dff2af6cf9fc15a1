package bounds

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/ecs"
	"github.com/milk9111/transform2d/ecs/component"
	"github.com/milk9111/transform2d/geom"
)

// cameraBounds frames the view of an orthographic camera. The view size does
// not follow the entity's scale, so the local box divides it out.
type cameraBounds struct {
	cam *component.Camera
}

func (b *cameraBounds) source() Source { return Camera }

func (b *cameraBounds) refresh(ctx *Context, e ecs.Entity) {
	b.cam, _ = ecs.Get(ctx.World, e, component.CameraComponent.Kind())
}

func (b *cameraBounds) valid() bool {
	return b.cam != nil && b.cam.Orthographic
}

func (b *cameraBounds) viewSize() cp.Vector {
	h := b.cam.OrthographicSize * 2
	return cp.Vector{X: h * b.cam.Aspect, Y: h}
}

func (b *cameraBounds) objectAligned(ctx *Context, e ecs.Entity) geom.Bounds {
	lossy := ecs.LossyScale(ctx.World, e)
	return geom.Bounds{Size: geom.Abs(geom.Div(b.viewSize(), lossy))}
}

func (b *cameraBounds) axisAligned(ctx *Context, e ecs.Entity) geom.Bounds {
	half := b.viewSize().Mult(0.5)
	lossy := ecs.LossyScale(ctx.World, e)
	world := ecs.WorldMatrix(ctx.World, e)
	corners := [4]cp.Vector{
		{X: -half.X, Y: -half.Y},
		{X: half.X, Y: -half.Y},
		{X: -half.X, Y: half.Y},
		{X: half.X, Y: half.Y},
	}
	for i, c := range corners {
		corners[i] = world.Point(geom.Div(c, lossy))
	}
	return geom.Encapsulate(corners[:]...)
}
