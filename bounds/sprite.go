package bounds

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/ecs"
	"github.com/milk9111/transform2d/ecs/component"
	"github.com/milk9111/transform2d/geom"
)

type spriteBounds struct {
	spr *component.Sprite
}

func (b *spriteBounds) source() Source { return Sprite }

func (b *spriteBounds) refresh(ctx *Context, e ecs.Entity) {
	b.spr, _ = ecs.Get(ctx.World, e, component.SpriteComponent.Kind())
}

func (b *spriteBounds) valid() bool {
	return b.spr != nil
}

// objectAligned is the sprite rect in units, placed so the asset pivot sits
// on the entity origin.
func (b *spriteBounds) objectAligned(_ *Context, _ ecs.Entity) geom.Bounds {
	if !b.spr.HasImage() {
		return geom.Bounds{}
	}
	ppu := b.spr.PixelsPerUnit
	size := b.spr.Rect.Mult(1 / ppu)
	center := b.spr.Rect.Mult(0.5).Sub(b.spr.Pivot).Mult(1 / ppu)
	return geom.Bounds{Center: center, Size: size}
}

func (b *spriteBounds) axisAligned(ctx *Context, e ecs.Entity) geom.Bounds {
	if !b.spr.HasImage() {
		return geom.Bounds{Center: ecs.WorldPosition(ctx.World, e)}
	}
	return b.objectAligned(ctx, e).Transformed(ecs.WorldMatrix(ctx.World, e))
}

// SpritePPU returns the sprite's pixels-per-unit, NaN when the renderer has
// no image.
func (p *Provider) SpritePPU() float64 {
	sb, ok := p.spriteVariant()
	if !ok || !sb.spr.HasImage() {
		return math.NaN()
	}
	return sb.spr.PixelsPerUnit
}

// SpritePivot returns the asset pivot in local units.
func (p *Provider) SpritePivot() cp.Vector {
	sb, ok := p.spriteVariant()
	if !ok || !sb.spr.HasImage() {
		return cp.Vector{}
	}
	return sb.spr.Pivot.Mult(1 / sb.spr.PixelsPerUnit)
}

func (p *Provider) spriteVariant() (*spriteBounds, bool) {
	if !p.Valid() {
		return nil, false
	}
	sb, ok := p.kind.(*spriteBounds)
	return sb, ok
}
