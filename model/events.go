package model

import "github.com/milk9111/transform2d/ecs"

// Origin tells where a transform edit came from.
type Origin int

const (
	OriginInspector Origin = iota
	OriginScene
	OriginScript
)

// TransformKind is the tool that produced a transform edit.
type TransformKind int

const (
	TransformNone TransformKind = iota
	TransformMove
	TransformResize
	TransformRotate
)

// Tracked properties that change an entity's bounds source.
const (
	PropertySprite           = "sprite"
	PropertyCameraOrthogonal = "camera.orthographic"
)

// Event is a change reported by the host editor.
type Event interface {
	isEvent()
}

type SelectionChanged struct{ Entities []ecs.Entity }

// HierarchyChanged reports entities created, destroyed or reparented. A nil
// Entities keeps the current selection.
type HierarchyChanged struct{ Entities []ecs.Entity }

type TransformChanged struct {
	Origin Origin
	Kind   TransformKind
}

// ComponentChanged reports that a tracked component was added or removed.
type ComponentChanged struct{}

type PropertyChanged struct {
	Property string
	Entities []ecs.Entity
}

type SceneViewModeChanged struct{ Is2D bool }

func (SelectionChanged) isEvent()     {}
func (HierarchyChanged) isEvent()     {}
func (TransformChanged) isEvent()     {}
func (ComponentChanged) isEvent()     {}
func (PropertyChanged) isEvent()      {}
func (SceneViewModeChanged) isEvent() {}
