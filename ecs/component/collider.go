package component

import "github.com/jakecoffman/cp"

type ColliderShape int

const (
	ColliderBox ColliderShape = iota
	ColliderCircle
	ColliderCapsule
	ColliderPolygon
	ColliderEdge
	ColliderComposite
	ColliderTilemap
	ColliderCustom
)

var colliderShapeNames = [...]string{
	ColliderBox:       "box",
	ColliderCircle:    "circle",
	ColliderCapsule:   "capsule",
	ColliderPolygon:   "polygon",
	ColliderEdge:      "edge",
	ColliderComposite: "composite",
	ColliderTilemap:   "tilemap",
	ColliderCustom:    "custom",
}

func (s ColliderShape) String() string {
	if s < 0 || int(s) >= len(colliderShapeNames) {
		return "unknown"
	}
	return colliderShapeNames[s]
}

// ParseColliderShape resolves a shape name, reporting false when unknown.
func ParseColliderShape(name string) (ColliderShape, bool) {
	for i, n := range colliderShapeNames {
		if n == name {
			return ColliderShape(i), true
		}
	}
	return ColliderBox, false
}

type CapsuleDirection int

const (
	CapsuleVertical CapsuleDirection = iota
	CapsuleHorizontal
)

// Collider is a 2D collision shape in the entity's local frame.
type Collider struct {
	Shape     ColliderShape
	Offset    cp.Vector
	Size      cp.Vector
	Radius    float64
	Direction CapsuleDirection
	Points    []cp.Vector
}

var ColliderComponent = NewComponent[Collider]()
