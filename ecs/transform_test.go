package ecs

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/ecs/component"
	"github.com/milk9111/transform2d/geom"
)

func addTransform(t *testing.T, w *World, pos cp.Vector, rot float64, scale cp.Vector) Entity {
	t.Helper()
	e := CreateEntity(w)
	tr := component.NewTransform(pos)
	tr.Rotation = rot
	tr.Scale = scale
	if err := Add(w, e, component.TransformComponent.Kind(), &tr); err != nil {
		t.Fatalf("add transform: %v", err)
	}
	return e
}

func TestHierarchyWorldPosition(t *testing.T) {
	w := NewWorld()
	parent := addTransform(t, w, cp.Vector{X: 10, Y: 0}, 90, cp.Vector{X: 2, Y: 2})
	child := addTransform(t, w, cp.Vector{X: 1, Y: 0}, 0, cp.Vector{X: 1, Y: 1})
	tr, _ := TransformOf(w, child)
	tr.Parent = uint64(parent)

	got := WorldPosition(w, child)
	if !geom.ApproximatelyVec(got, cp.Vector{X: 10, Y: 2}) {
		t.Fatalf("expected (10,2), got %v", got)
	}
	if rot := WorldRotation(w, child); !geom.Approximately(rot, 90) {
		t.Fatalf("expected 90, got %v", rot)
	}
	if s := LossyScale(w, child); s != (cp.Vector{X: 2, Y: 2}) {
		t.Fatalf("expected (2,2), got %v", s)
	}

	SetWorldPosition(w, child, cp.Vector{X: 4, Y: 4})
	if got := WorldPosition(w, child); !geom.ApproximatelyVec(got, cp.Vector{X: 4, Y: 4}) {
		t.Fatalf("SetWorldPosition: got %v", got)
	}
}

func TestSetParentKeepsWorldPlacement(t *testing.T) {
	w := NewWorld()
	parent := addTransform(t, w, cp.Vector{X: -3, Y: 5}, 30, cp.Vector{X: 1, Y: 1})
	child := addTransform(t, w, cp.Vector{X: 2, Y: 2}, 45, cp.Vector{X: 1, Y: 1})

	if err := SetParent(w, child, parent); err != nil {
		t.Fatalf("SetParent: %v", err)
	}
	if got := WorldPosition(w, child); !geom.ApproximatelyVec(got, cp.Vector{X: 2, Y: 2}) {
		t.Fatalf("world position moved: %v", got)
	}
	if rot := WorldRotation(w, child); !geom.Approximately(rot, 45) {
		t.Fatalf("world rotation changed: %v", rot)
	}
	if !IsAncestor(w, parent, child) {
		t.Fatalf("expected parent to be an ancestor")
	}
	if err := SetParent(w, parent, child); err != ErrHierarchyCycle {
		t.Fatalf("expected cycle error, got %v", err)
	}
}
