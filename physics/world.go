// Package physics keeps a chipmunk mirror of collider entities so their
// world bounds can be read back after a transform write.
package physics

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/ecs"
	"github.com/milk9111/transform2d/ecs/component"
	"github.com/milk9111/transform2d/geom"
)

// World owns the chipmunk space and one kinematic body per collider entity.
type World struct {
	space  *cp.Space
	bodies map[ecs.Entity]*entityBody
}

type entityBody struct {
	body   *cp.Body
	shapes []*cp.Shape
	key    shapeKey
}

// shapeKey is the geometry a body was built from. Bodies are rebuilt when it
// changes.
type shapeKey struct {
	shape     component.ColliderShape
	offset    cp.Vector
	size      cp.Vector
	radius    float64
	direction component.CapsuleDirection
	points    []cp.Vector
	scale     cp.Vector
}

func (k shapeKey) equal(o shapeKey) bool {
	if k.shape != o.shape || k.offset != o.offset || k.size != o.size || k.radius != o.radius ||
		k.direction != o.direction || k.scale != o.scale || len(k.points) != len(o.points) {
		return false
	}
	for i := range k.points {
		if k.points[i] != o.points[i] {
			return false
		}
	}
	return true
}

// NewWorld creates an empty physics world.
func NewWorld() *World {
	return &World{
		space:  cp.NewSpace(),
		bodies: make(map[ecs.Entity]*entityBody),
	}
}

// Space returns the underlying chipmunk space.
func (pw *World) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// Supported reports whether shape can be mirrored.
func Supported(shape component.ColliderShape) bool {
	switch shape {
	case component.ColliderBox, component.ColliderCircle, component.ColliderCapsule,
		component.ColliderPolygon, component.ColliderEdge:
		return true
	}
	return false
}

// Sync pushes the entity's current world transform into its body and
// returns the world AABB of its shapes. It reports false when e has no
// supported collider.
func (pw *World) Sync(w *ecs.World, e ecs.Entity) (geom.Bounds, bool) {
	if pw == nil || pw.space == nil {
		return geom.Bounds{}, false
	}
	c, ok := ecs.Get(w, e, component.ColliderComponent.Kind())
	if !ok || !Supported(c.Shape) {
		pw.Remove(e)
		return geom.Bounds{}, false
	}

	key := shapeKey{
		shape:     c.Shape,
		offset:    c.Offset,
		size:      c.Size,
		radius:    c.Radius,
		direction: c.Direction,
		points:    append([]cp.Vector(nil), c.Points...),
		scale:     ecs.LossyScale(w, e),
	}
	eb := pw.bodies[e]
	if eb == nil || !eb.key.equal(key) {
		pw.Remove(e)
		eb = pw.build(e, key)
	}

	eb.body.SetPosition(ecs.WorldPosition(w, e))
	eb.body.SetAngle(ecs.WorldRotation(w, e) * math.Pi / 180)

	if len(eb.shapes) == 0 {
		p := eb.body.Position()
		return geom.Bounds{Center: p}, true
	}
	var bb cp.BB
	for i, shape := range eb.shapes {
		sbb := shape.CacheBB()
		if i == 0 {
			bb = sbb
			continue
		}
		bb = cp.BB{
			L: math.Min(bb.L, sbb.L),
			B: math.Min(bb.B, sbb.B),
			R: math.Max(bb.R, sbb.R),
			T: math.Max(bb.T, sbb.T),
		}
	}
	return geom.FromBB(bb), true
}

// Remove drops the body mirrored for e.
func (pw *World) Remove(e ecs.Entity) {
	if pw == nil {
		return
	}
	eb, ok := pw.bodies[e]
	if !ok {
		return
	}
	for _, shape := range eb.shapes {
		pw.space.RemoveShape(shape)
	}
	pw.space.RemoveBody(eb.body)
	delete(pw.bodies, e)
}

// Prune drops bodies whose entities are gone.
func (pw *World) Prune(w *ecs.World) {
	if pw == nil {
		return
	}
	for e := range pw.bodies {
		if !ecs.IsAlive(w, e) {
			pw.Remove(e)
		}
	}
}

// SyncAll prunes dead bodies and mirrors every entity that carries both a
// transform and a supported collider. It returns the number of bodies.
func (pw *World) SyncAll(w *ecs.World) int {
	if pw == nil {
		return 0
	}
	pw.Prune(w)
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.ColliderComponent.Kind(),
		func(e ecs.Entity, _ *component.Transform, _ *component.Collider) {
			pw.Sync(w, e)
		})
	return pw.Len()
}

// Len returns the number of mirrored entities.
func (pw *World) Len() int {
	if pw == nil {
		return 0
	}
	return len(pw.bodies)
}

func (pw *World) build(e ecs.Entity, key shapeKey) *entityBody {
	body := cp.NewKinematicBody()
	pw.space.AddBody(body)

	eb := &entityBody{body: body, key: key}
	for _, shape := range buildShapes(body, key) {
		shape.SetSensor(true)
		pw.space.AddShape(shape)
		eb.shapes = append(eb.shapes, shape)
	}
	pw.bodies[e] = eb
	log.Printf("PhysicsWorld: built %s body for entity %s with %d shapes", key.shape, e, len(eb.shapes))
	return eb
}

// buildShapes bakes the lossy scale into body-local geometry.
func buildShapes(body *cp.Body, key shapeKey) []*cp.Shape {
	s := key.scale
	scaled := func(v cp.Vector) cp.Vector { return geom.Mul(v, s) }
	off := key.offset

	switch key.shape {
	case component.ColliderBox:
		b := geom.Bounds{Center: off, Size: key.size}
		c := b.Corners()
		verts := []cp.Vector{scaled(c[0]), scaled(c[3]), scaled(c[2]), scaled(c[1])}
		return []*cp.Shape{cp.NewPolyShapeRaw(body, len(verts), verts, 0)}
	case component.ColliderCircle:
		r := key.radius * math.Max(math.Abs(s.X), math.Abs(s.Y))
		return []*cp.Shape{cp.NewCircle(body, r, scaled(off))}
	case component.ColliderCapsule:
		return []*cp.Shape{capsuleShape(body, key)}
	case component.ColliderPolygon:
		if len(key.points) < 3 {
			return segmentShapes(body, key)
		}
		verts := make([]cp.Vector, len(key.points))
		for i, p := range key.points {
			verts[i] = scaled(p.Add(off))
		}
		return []*cp.Shape{cp.NewPolyShapeRaw(body, len(verts), verts, 0)}
	case component.ColliderEdge:
		return segmentShapes(body, key)
	}
	return nil
}

func capsuleShape(body *cp.Body, key shapeKey) *cp.Shape {
	size := key.size
	if key.direction == component.CapsuleHorizontal {
		size = cp.Vector{X: size.Y, Y: size.X}
	}
	size = geom.Abs(geom.Mul(size, key.scale))
	center := geom.Mul(key.offset, key.scale)

	if size.X >= size.Y {
		r := size.Y * 0.5
		half := size.X*0.5 - r
		a := cp.Vector{X: center.X - half, Y: center.Y}
		b := cp.Vector{X: center.X + half, Y: center.Y}
		return cp.NewSegment(body, a, b, r)
	}
	r := size.X * 0.5
	half := size.Y*0.5 - r
	a := cp.Vector{X: center.X, Y: center.Y - half}
	b := cp.Vector{X: center.X, Y: center.Y + half}
	return cp.NewSegment(body, a, b, r)
}

func segmentShapes(body *cp.Body, key shapeKey) []*cp.Shape {
	pts := make([]cp.Vector, len(key.points))
	for i, p := range key.points {
		pts[i] = geom.Mul(p.Add(key.offset), key.scale)
	}
	switch len(pts) {
	case 0:
		return nil
	case 1:
		return []*cp.Shape{cp.NewCircle(body, 0, pts[0])}
	}
	out := make([]*cp.Shape, 0, len(pts)-1)
	for i := 1; i < len(pts); i++ {
		out = append(out, cp.NewSegment(body, pts[i-1], pts[i], 0))
	}
	return out
}
