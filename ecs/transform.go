package ecs

import (
	"errors"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/ecs/component"
	"github.com/milk9111/transform2d/geom"
)

// maxHierarchyDepth bounds parent walks so a corrupt hierarchy cannot hang.
const maxHierarchyDepth = 256

var ErrHierarchyCycle = errors.New("ecs: parent would create a cycle")

// TransformOf returns the transform of e.
func TransformOf(w *World, e Entity) (*component.Transform, bool) {
	return Get(w, e, component.TransformComponent.Kind())
}

// Parent returns the live parent of e.
func Parent(w *World, e Entity) (Entity, bool) {
	t, ok := TransformOf(w, e)
	if !ok || t.Parent == 0 {
		return 0, false
	}
	p := Entity(t.Parent)
	if !IsAlive(w, p) {
		return 0, false
	}
	return p, true
}

// SetParent reparents child under parent without moving it in world space.
// A zero parent detaches child.
func SetParent(w *World, child, parent Entity) error {
	t, ok := TransformOf(w, child)
	if !ok {
		return component.ErrEntityNotAlive
	}
	if parent != 0 && (parent == child || IsAncestor(w, child, parent)) {
		return ErrHierarchyCycle
	}
	world := WorldMatrix(w, child)
	rot := WorldRotation(w, child)
	lossy := LossyScale(w, child)

	t.Parent = uint64(parent)
	if parent == 0 {
		t.Position = world.Translation()
		t.Rotation = rot
		t.Scale = lossy
	} else {
		inv, _ := WorldMatrix(w, parent).Inverse()
		t.Position = inv.Point(world.Translation())
		t.Rotation = geom.NormalizeDegrees(rot - WorldRotation(w, parent))
		t.Scale = geom.Div(lossy, LossyScale(w, parent))
	}
	t.Changed = true
	return nil
}

// IsAncestor reports whether ancestor appears anywhere above e.
func IsAncestor(w *World, ancestor, e Entity) bool {
	cur := e
	for i := 0; i < maxHierarchyDepth; i++ {
		p, ok := Parent(w, cur)
		if !ok {
			return false
		}
		if p == ancestor {
			return true
		}
		cur = p
	}
	return false
}

// LocalMatrix is the transform from e's frame into its parent's frame.
func LocalMatrix(t *component.Transform) geom.Affine {
	if t == nil {
		return geom.Identity
	}
	return geom.TRS(t.Position, t.Rotation, t.Scale)
}

// WorldMatrix is the transform from e's frame into world space.
func WorldMatrix(w *World, e Entity) geom.Affine {
	m := geom.Identity
	cur := e
	for i := 0; i < maxHierarchyDepth; i++ {
		t, ok := TransformOf(w, cur)
		if !ok {
			break
		}
		m = LocalMatrix(t).Mul(m)
		p, ok := Parent(w, cur)
		if !ok {
			break
		}
		cur = p
	}
	return m
}

// ParentMatrix is the world transform of e's parent, identity for roots.
func ParentMatrix(w *World, e Entity) geom.Affine {
	p, ok := Parent(w, e)
	if !ok {
		return geom.Identity
	}
	return WorldMatrix(w, p)
}

func WorldPosition(w *World, e Entity) cp.Vector {
	return WorldMatrix(w, e).Translation()
}

// SetWorldPosition moves e so its origin lands on pos in world space.
func SetWorldPosition(w *World, e Entity, pos cp.Vector) {
	t, ok := TransformOf(w, e)
	if !ok {
		return
	}
	inv, _ := ParentMatrix(w, e).Inverse()
	t.Position = inv.Point(pos)
	t.Changed = true
}

// WorldRotation sums the rotations up the hierarchy, in [0, 360).
func WorldRotation(w *World, e Entity) float64 {
	var deg float64
	cur := e
	for i := 0; i < maxHierarchyDepth; i++ {
		t, ok := TransformOf(w, cur)
		if !ok {
			break
		}
		deg += t.Rotation
		p, ok := Parent(w, cur)
		if !ok {
			break
		}
		cur = p
	}
	return geom.NormalizeDegrees(deg)
}

func SetWorldRotation(w *World, e Entity, deg float64) {
	t, ok := TransformOf(w, e)
	if !ok {
		return
	}
	var parent float64
	if p, ok := Parent(w, e); ok {
		parent = WorldRotation(w, p)
	}
	t.Rotation = geom.NormalizeDegrees(deg - parent)
	t.Changed = true
}

// LossyScale approximates the world scale as the product of local scales.
func LossyScale(w *World, e Entity) cp.Vector {
	s := cp.Vector{X: 1, Y: 1}
	cur := e
	for i := 0; i < maxHierarchyDepth; i++ {
		t, ok := TransformOf(w, cur)
		if !ok {
			break
		}
		s = geom.Mul(s, t.Scale)
		p, ok := Parent(w, cur)
		if !ok {
			break
		}
		cur = p
	}
	return s
}

func TransformPoint(w *World, e Entity, p cp.Vector) cp.Vector {
	return WorldMatrix(w, e).Point(p)
}

func TransformVector(w *World, e Entity, v cp.Vector) cp.Vector {
	return WorldMatrix(w, e).Vector(v)
}
