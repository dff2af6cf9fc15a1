package model

import (
	"errors"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/ecs"
	"github.com/milk9111/transform2d/ecs/component"
	"github.com/milk9111/transform2d/geom"
)

var ErrNoSprite = errors.New("model: entity has no sprite")

// SpriteAssets edits the image assets behind sprite renderers.
type SpriteAssets interface {
	SetPixelsPerUnit(e ecs.Entity, ppu float64) error
	// SnapPivotToPixel rounds the asset pivot to whole pixels as seen at
	// scale.
	SnapPivotToPixel(e ecs.Entity, scale cp.Vector) error
}

// WorldSprites edits the sprite components of a world in place.
type WorldSprites struct {
	World *ecs.World
}

func (a WorldSprites) sprite(e ecs.Entity) (*component.Sprite, error) {
	spr, ok := ecs.Get(a.World, e, component.SpriteComponent.Kind())
	if !ok || !spr.HasImage() {
		return nil, ErrNoSprite
	}
	return spr, nil
}

// SetPixelsPerUnit changes the asset PPU. The import downscale ratio is
// kept.
func (a WorldSprites) SetPixelsPerUnit(e ecs.Entity, ppu float64) error {
	spr, err := a.sprite(e)
	if err != nil {
		return err
	}
	setting := spr.ImportPPU
	if setting <= 0 {
		setting = spr.PixelsPerUnit
	}
	ratio := spr.PixelsPerUnit / setting
	spr.ImportPPU = ppu
	spr.PixelsPerUnit = ppu * ratio
	return nil
}

func (a WorldSprites) SnapPivotToPixel(e ecs.Entity, scale cp.Vector) error {
	spr, err := a.sprite(e)
	if err != nil {
		return err
	}
	spr.Pivot = cp.Vector{
		X: snapScaled(spr.Pivot.X, scale.X),
		Y: snapScaled(spr.Pivot.Y, scale.Y),
	}
	return nil
}

func snapScaled(v, scale float64) float64 {
	if scale == 0 {
		return math.Round(v)
	}
	return math.Round(v*scale) / scale
}

// pivotPixelPerfect reports whether the sprite pivot lands on whole pixels
// at scale.
func pivotPixelPerfect(spr *component.Sprite, scale cp.Vector) bool {
	x, y := spr.Pivot.X*scale.X, spr.Pivot.Y*scale.Y
	return geom.Approximately(x, math.Round(x)) && geom.Approximately(y, math.Round(y))
}
