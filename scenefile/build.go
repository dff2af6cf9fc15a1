package scenefile

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/ecs"
	"github.com/milk9111/transform2d/ecs/component"
)

var ErrUnknownParent = errors.New("scenefile: unknown parent")

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any) error

var componentRegistry = map[string]componentBuildFn{
	"transform": addTransform,
	"sprite":    addSprite,
	"collider":  addCollider,
	"camera":    addCamera,
	"text":      addText,
	"prefab":    addPrefab,
}

// Transform goes first so every later component has a frame to live in.
var componentBuildOrder = []string{
	"transform",
	"sprite",
	"collider",
	"camera",
	"text",
	"prefab",
}

// Build creates one entity per spec entry and returns them by name, in file
// order. Nothing is left in the world when it fails.
func Build(w *ecs.World, spec SceneSpec) ([]ecs.Entity, map[string]ecs.Entity, error) {
	if w == nil {
		return nil, nil, fmt.Errorf("build scene: world is nil")
	}

	order := make([]ecs.Entity, 0, len(spec.Entities))
	byName := make(map[string]ecs.Entity, len(spec.Entities))
	fail := func(err error) ([]ecs.Entity, map[string]ecs.Entity, error) {
		for _, e := range order {
			ecs.DestroyEntity(w, e)
		}
		return nil, nil, err
	}

	for i, es := range spec.Entities {
		e, err := BuildEntity(w, es)
		if err != nil {
			return fail(fmt.Errorf("build scene %q: entity %d: %w", spec.Name, i, err))
		}
		order = append(order, e)

		if es.Parent != "" {
			parent, ok := byName[es.Parent]
			if !ok {
				return fail(fmt.Errorf("%w: %q for %q", ErrUnknownParent, es.Parent, es.Name))
			}
			t, _ := ecs.TransformOf(w, e)
			t.Parent = uint64(parent)
		}
		if es.Name != "" {
			byName[es.Name] = e
		}
	}
	return order, byName, nil
}

// BuildEntity creates a single entity. Every entity gets a transform and a
// name even when the spec omits them.
func BuildEntity(w *ecs.World, spec EntitySpec) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}
	if _, ok := remaining["transform"]; !ok {
		remaining["transform"] = nil
	}

	names := append([]string(nil), componentBuildOrder...)
	extra := make([]string, 0)
	for name := range remaining {
		if _, ok := componentRegistry[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	names = append(names, extra...)

	for _, name := range names {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		builder, ok := componentRegistry[name]
		if !ok {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("%q: no builder for component %q", spec.Name, name)
		}
		if err := builder(w, e, raw); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("%q: add %q: %w", spec.Name, name, err)
		}
	}

	if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: spec.Name}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}

type transformSpec = TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	if spec.ScaleX == 0 {
		spec.ScaleX = 1
	}
	if spec.ScaleY == 0 {
		spec.ScaleY = 1
	}
	t := component.NewTransform(cp.Vector{X: spec.X, Y: spec.Y})
	t.Scale = cp.Vector{X: spec.ScaleX, Y: spec.ScaleY}
	t.Rotation = spec.Rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), &t)
}

type spriteSpec = SpriteComponentSpec

func addSprite(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := DecodeComponentSpec[spriteSpec](raw)
	if err != nil {
		return fmt.Errorf("decode sprite spec: %w", err)
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return fmt.Errorf("sprite needs a positive width and height")
	}
	if spec.PPU == 0 {
		spec.PPU = 100
	}
	pivot := cp.Vector{X: spec.PivotX, Y: spec.PivotY}
	if spec.CenterPivotIfZero && pivot.X == 0 && pivot.Y == 0 {
		pivot = cp.Vector{X: spec.Width / 2, Y: spec.Height / 2}
	}
	return ecs.Add(w, e, component.SpriteComponent.Kind(), &component.Sprite{
		Image:         spec.Image,
		Rect:          cp.Vector{X: spec.Width, Y: spec.Height},
		Pivot:         pivot,
		PixelsPerUnit: spec.PPU,
		ImportPPU:     spec.ImportPPU,
	})
}

type colliderSpec = ColliderComponentSpec

func addCollider(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := DecodeComponentSpec[colliderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collider spec: %w", err)
	}
	if spec.Shape == "" {
		spec.Shape = "box"
	}
	shape, ok := component.ParseColliderShape(spec.Shape)
	if !ok {
		return fmt.Errorf("unknown collider shape %q", spec.Shape)
	}

	c := component.Collider{
		Shape:  shape,
		Offset: cp.Vector{X: spec.OffsetX, Y: spec.OffsetY},
		Size:   cp.Vector{X: spec.Width, Y: spec.Height},
		Radius: spec.Radius,
	}
	switch spec.Direction {
	case "", "vertical":
		c.Direction = component.CapsuleVertical
	case "horizontal":
		c.Direction = component.CapsuleHorizontal
	default:
		return fmt.Errorf("unknown capsule direction %q", spec.Direction)
	}
	for _, p := range spec.Points {
		c.Points = append(c.Points, cp.Vector{X: p[0], Y: p[1]})
	}
	return ecs.Add(w, e, component.ColliderComponent.Kind(), &c)
}

type cameraSpec = CameraComponentSpec

func addCamera(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := DecodeComponentSpec[cameraSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera spec: %w", err)
	}
	ortho := true
	if spec.Orthographic != nil {
		ortho = *spec.Orthographic
	}
	if spec.Size == 0 {
		spec.Size = 5
	}
	if spec.Aspect == 0 {
		spec.Aspect = 16.0 / 9.0
	}
	return ecs.Add(w, e, component.CameraComponent.Kind(), &component.Camera{
		Orthographic:     ortho,
		OrthographicSize: spec.Size,
		Aspect:           spec.Aspect,
	})
}

type textSpec = TextComponentSpec

func addText(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := DecodeComponentSpec[textSpec](raw)
	if err != nil {
		return fmt.Errorf("decode text spec: %w", err)
	}
	return ecs.Add(w, e, component.TextComponent.Kind(), &component.Text{
		Content: spec.Content,
		Size:    cp.Vector{X: spec.Width, Y: spec.Height},
		Pivot:   cp.Vector{X: spec.PivotX, Y: spec.PivotY},
	})
}

type prefabSpec = PrefabComponentSpec

func addPrefab(w *ecs.World, e ecs.Entity, raw any) error {
	spec, err := DecodeComponentSpec[prefabSpec](raw)
	if err != nil {
		return fmt.Errorf("decode prefab spec: %w", err)
	}
	var status component.PrefabStatus
	switch spec.Status {
	case "", "instance":
		status = component.PrefabInstance
	case "asset":
		status = component.PrefabAsset
	case "regular":
		status = component.RegularObject
	default:
		return fmt.Errorf("unknown prefab status %q", spec.Status)
	}
	return ecs.Add(w, e, component.PrefabComponent.Kind(), &component.Prefab{Status: status, Source: spec.Source})
}
