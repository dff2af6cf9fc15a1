package bounds

import (
	"github.com/milk9111/transform2d/ecs"
	"github.com/milk9111/transform2d/ecs/component"
	"github.com/milk9111/transform2d/physics"
)

// Features summarizes the bounds-bearing components of one entity.
type Features struct {
	Renderer bool
	Collider bool
	Camera   bool
	Text     bool
}

// Inspect reports which bounds-bearing components e carries. Unsupported
// colliders and perspective cameras do not count.
func Inspect(w *ecs.World, e ecs.Entity) Features {
	var f Features
	if !ecs.IsAlive(w, e) {
		return f
	}
	f.Renderer = ecs.Has(w, e, component.SpriteComponent.Kind())
	if c, ok := ecs.Get(w, e, component.ColliderComponent.Kind()); ok {
		f.Collider = physics.Supported(c.Shape)
	}
	if c, ok := ecs.Get(w, e, component.CameraComponent.Kind()); ok {
		f.Camera = c.Orthographic
	}
	f.Text = ecs.Has(w, e, component.TextComponent.Kind())
	return f
}

// Resolve picks the source an entity's bounds come from. Text wins over
// Camera, Camera over the requested Collider or Sprite, which falls back to
// the other one and finally to None.
func Resolve(w *ecs.World, e ecs.Entity, requested Source) Source {
	f := Inspect(w, e)
	switch {
	case f.Text:
		return Text
	case f.Camera:
		return Camera
	}
	switch requested {
	case Sprite:
		if f.Renderer {
			return Sprite
		}
		if f.Collider {
			return Collider
		}
	case Collider:
		if f.Collider {
			return Collider
		}
		if f.Renderer {
			return Sprite
		}
	}
	return None
}
