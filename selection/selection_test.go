package selection

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/bounds"
	"github.com/milk9111/transform2d/ecs"
	"github.com/milk9111/transform2d/ecs/component"
	"github.com/milk9111/transform2d/geom"
	"github.com/milk9111/transform2d/physics"
	"github.com/milk9111/transform2d/units"
)

type recorder struct {
	labels []string
}

func (r *recorder) Record(_ []ecs.Entity, label string) {
	r.labels = append(r.labels, label)
}

func newContext() *bounds.Context {
	return &bounds.Context{World: ecs.NewWorld(), Physics: physics.NewWorld()}
}

func boxEntity(t *testing.T, ctx *bounds.Context, pos, size cp.Vector) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(ctx.World)
	tr := component.NewTransform(pos)
	if err := ecs.Add(ctx.World, e, component.TransformComponent.Kind(), &tr); err != nil {
		t.Fatalf("add transform: %v", err)
	}
	c := component.Collider{Shape: component.ColliderBox, Size: size}
	if err := ecs.Add(ctx.World, e, component.ColliderComponent.Kind(), &c); err != nil {
		t.Fatalf("add collider: %v", err)
	}
	return e
}

func colliderHandle(ctx *bounds.Context, e ecs.Entity) *Handle {
	h := NewHandle(ctx, e)
	h.SetSource(bounds.Collider)
	return h
}

func assertVec(t *testing.T, label string, got, want cp.Vector) {
	t.Helper()
	if !geom.ApproximatelyVec(got, want) {
		t.Fatalf("%s: expected %v, got %v", label, want, got)
	}
}

func TestPositionRoundTrip(t *testing.T) {
	for _, space := range []units.Space{units.Global, units.Local} {
		for _, pivot := range geom.PivotTypes {
			t.Run(fmt.Sprintf("%s_%s", space, pivot), func(t *testing.T) {
				ctx := newContext()
				parent := boxEntity(t, ctx, cp.Vector{X: 5, Y: -3}, cp.Vector{X: 1, Y: 1})
				ptr, _ := ecs.TransformOf(ctx.World, parent)
				ptr.Rotation = 30
				ptr.Scale = cp.Vector{X: 2, Y: 0.5}

				e := boxEntity(t, ctx, cp.Vector{X: 1, Y: 2}, cp.Vector{X: 4, Y: 2})
				tr, _ := ecs.TransformOf(ctx.World, e)
				tr.Parent = uint64(parent)
				tr.Rotation = 45
				tr.Scale = cp.Vector{X: 1.5, Y: 3}

				h := colliderHandle(ctx, e)
				h.SetPivot(pivot.Vector())
				want := cp.Vector{X: 12.25, Y: -7.5}
				h.SetPositionAt(want, h.Pivot(), geom.AlignObject, space)
				assertVec(t, "position", h.PositionAt(h.Pivot(), geom.AlignObject, space), want)
			})
		}
	}
}

func TestRotationKeepsPivot(t *testing.T) {
	for _, deg := range []float64{0, 45, 90, 180, 270} {
		t.Run(fmt.Sprintf("deg_%v", deg), func(t *testing.T) {
			ctx := newContext()
			e := boxEntity(t, ctx, cp.Vector{X: 3, Y: 4}, cp.Vector{X: 4, Y: 2})
			tr, _ := ecs.TransformOf(ctx.World, e)
			tr.Rotation = 20
			tr.Scale = cp.Vector{X: 2, Y: 1}

			h := colliderHandle(ctx, e)
			h.SetPivot(geom.PivotTopLeft.Vector())
			before := h.Position()
			h.SetRotation(deg)

			assertVec(t, "top left", h.Position(), before)
			if !geom.Approximately(h.Rotation(), geom.NormalizeDegrees(deg)) {
				t.Fatalf("expected rotation %v, got %v", deg, h.Rotation())
			}
		})
	}
}

func TestLocalRotationKeepsPivot(t *testing.T) {
	ctx := newContext()
	parent := boxEntity(t, ctx, cp.Vector{X: 1, Y: 1}, cp.Vector{X: 1, Y: 1})
	ptr, _ := ecs.TransformOf(ctx.World, parent)
	ptr.Rotation = 90

	e := boxEntity(t, ctx, cp.Vector{X: 2, Y: 0}, cp.Vector{X: 2, Y: 2})
	tr, _ := ecs.TransformOf(ctx.World, e)
	tr.Parent = uint64(parent)

	h := colliderHandle(ctx, e)
	h.SetPivot(geom.PivotBottomRight.Vector())
	before := h.LocalPosition()
	h.SetLocalRotation(135)
	assertVec(t, "local pivot", h.LocalPosition(), before)
	if !geom.Approximately(h.Rotation(), 225) {
		t.Fatalf("expected world rotation 225, got %v", h.Rotation())
	}
}

func TestSizeKeepsPivot(t *testing.T) {
	ctx := newContext()
	e := boxEntity(t, ctx, cp.Vector{X: 0, Y: 0}, cp.Vector{X: 2, Y: 2})
	h := colliderHandle(ctx, e)
	h.SetPivot(geom.PivotBottomLeft.Vector())
	before := h.Position()

	if err := h.SetSize(cp.Vector{X: 4, Y: 6}); err != nil {
		t.Fatalf("SetSize: %v", err)
	}
	assertVec(t, "size", h.Size(), cp.Vector{X: 4, Y: 6})
	assertVec(t, "pivot", h.Position(), before)
	assertVec(t, "scale", h.LocalScale(), cp.Vector{X: 2, Y: 3})

	if err := h.SetLocalSize(cp.Vector{X: 1, Y: 0}); err != nil {
		t.Fatalf("SetLocalSize: %v", err)
	}
	assertVec(t, "local size", h.LocalSize(), cp.Vector{X: 1, Y: 0})
	assertVec(t, "pivot after local size", h.Position(), before)
}

func TestSizeOnDegenerateAxis(t *testing.T) {
	ctx := newContext()
	e := boxEntity(t, ctx, cp.Vector{}, cp.Vector{X: 2, Y: 0})
	h := colliderHandle(ctx, e)
	if err := h.SetSize(cp.Vector{X: 4, Y: 3}); err != nil {
		t.Fatalf("SetSize: %v", err)
	}
	assertVec(t, "scale", h.LocalScale(), cp.Vector{X: 2, Y: 0})
}

func TestSizeNotEditable(t *testing.T) {
	ctx := newContext()
	e := ecs.CreateEntity(ctx.World)
	tr := component.NewTransform(cp.Vector{})
	if err := ecs.Add(ctx.World, e, component.TransformComponent.Kind(), &tr); err != nil {
		t.Fatal(err)
	}
	h := NewHandle(ctx, e)
	if err := h.SetSize(cp.Vector{X: 1, Y: 1}); !errors.Is(err, ErrSizeNotEditable) {
		t.Fatalf("expected ErrSizeNotEditable, got %v", err)
	}
	if h.LocalScale() != (cp.Vector{X: 1, Y: 1}) {
		t.Fatalf("scale must be untouched, got %v", h.LocalScale())
	}
}

func TestScaleWithParent(t *testing.T) {
	ctx := newContext()
	parent := boxEntity(t, ctx, cp.Vector{}, cp.Vector{X: 1, Y: 1})
	ptr, _ := ecs.TransformOf(ctx.World, parent)
	ptr.Scale = cp.Vector{X: 2, Y: 4}

	e := boxEntity(t, ctx, cp.Vector{X: 1, Y: 1}, cp.Vector{X: 1, Y: 1})
	tr, _ := ecs.TransformOf(ctx.World, e)
	tr.Parent = uint64(parent)

	h := colliderHandle(ctx, e)
	h.SetPivot(geom.PivotTopRight.Vector())
	before := h.Position()
	h.SetScale(cp.Vector{X: 1, Y: 1})

	assertVec(t, "local scale", h.LocalScale(), cp.Vector{X: 0.5, Y: 0.25})
	assertVec(t, "world scale", h.Scale(), cp.Vector{X: 1, Y: 1})
	assertVec(t, "pivot", h.Position(), before)
}

func TestSetPositionKeepsChangedFlag(t *testing.T) {
	for _, pending := range []bool{false, true} {
		t.Run(fmt.Sprintf("pending=%v", pending), func(t *testing.T) {
			ctx := newContext()
			e := boxEntity(t, ctx, cp.Vector{}, cp.Vector{X: 1, Y: 1})
			tr, _ := ecs.TransformOf(ctx.World, e)
			tr.Changed = pending

			h := colliderHandle(ctx, e)
			h.SetPosition(cp.Vector{X: 9, Y: 9})
			h.SetLocalPosition(cp.Vector{X: 3, Y: 3})
			h.SetLeft(1)
			if tr.Changed != pending {
				t.Fatalf("expected Changed=%v after pivot writes, got %v", pending, tr.Changed)
			}
		})
	}
}

func TestRotationRaisesChanged(t *testing.T) {
	ctx := newContext()
	e := boxEntity(t, ctx, cp.Vector{}, cp.Vector{X: 1, Y: 1})
	tr, _ := ecs.TransformOf(ctx.World, e)
	h := colliderHandle(ctx, e)

	h.SetLocalRotation(30)
	if !tr.Changed {
		t.Fatal("local rotation should raise Changed")
	}
	tr.Changed = false
	h.SetRotation(60)
	if !tr.Changed {
		t.Fatal("world rotation should raise Changed")
	}
}

func TestAxisEdges(t *testing.T) {
	ctx := newContext()
	e := boxEntity(t, ctx, cp.Vector{X: 10, Y: 10}, cp.Vector{X: 4, Y: 2})
	tr, _ := ecs.TransformOf(ctx.World, e)
	tr.Rotation = 90
	h := colliderHandle(ctx, e)

	cases := []struct {
		name string
		get  func() float64
		want float64
	}{
		{"left", h.Left, 9},
		{"right", h.Right, 11},
		{"bottom", h.Bottom, 8},
		{"top", h.Top, 12},
		{"hcenter", h.HorizontalCenter, 10},
		{"vcenter", h.VerticalCenter, 10},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.get(); !geom.Approximately(got, c.want) {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}

	h.SetLeft(0)
	if !geom.Approximately(h.Left(), 0) || !geom.Approximately(h.Right(), 2) {
		t.Fatalf("SetLeft: left=%v right=%v", h.Left(), h.Right())
	}
	h.SetTop(0)
	if !geom.Approximately(h.Top(), 0) || !geom.Approximately(h.Bottom(), -4) {
		t.Fatalf("SetTop: top=%v bottom=%v", h.Top(), h.Bottom())
	}
}

func TestSelectionShape(t *testing.T) {
	t.Run("prefab_asset", func(t *testing.T) {
		ctx := newContext()
		a := boxEntity(t, ctx, cp.Vector{}, cp.Vector{X: 1, Y: 1})
		b := boxEntity(t, ctx, cp.Vector{X: 3}, cp.Vector{X: 1, Y: 1})
		p := component.Prefab{Status: component.PrefabAsset}
		if err := ecs.Add(ctx.World, a, component.PrefabComponent.Kind(), &p); err != nil {
			t.Fatal(err)
		}
		s := New(ctx, []ecs.Entity{a, b})
		if !s.HasPrefab() || s.Count() != 0 {
			t.Fatalf("expected HasPrefab and no handles, got %v %d", s.HasPrefab(), s.Count())
		}
		s.SetPosition(cp.Vector{X: 100})
		if got := ecs.WorldPosition(ctx.World, b); got != (cp.Vector{X: 3}) {
			t.Fatalf("edit on invalid selection moved an entity: %v", got)
		}
	})

	t.Run("prefab_instance_is_editable", func(t *testing.T) {
		ctx := newContext()
		a := boxEntity(t, ctx, cp.Vector{}, cp.Vector{X: 1, Y: 1})
		p := component.Prefab{Status: component.PrefabInstance}
		if err := ecs.Add(ctx.World, a, component.PrefabComponent.Kind(), &p); err != nil {
			t.Fatal(err)
		}
		if s := New(ctx, []ecs.Entity{a}); s.HasPrefab() || s.Count() != 1 {
			t.Fatalf("instance should be editable")
		}
	})

	t.Run("nesting", func(t *testing.T) {
		ctx := newContext()
		root := boxEntity(t, ctx, cp.Vector{}, cp.Vector{X: 1, Y: 1})
		mid := boxEntity(t, ctx, cp.Vector{}, cp.Vector{X: 1, Y: 1})
		leaf := boxEntity(t, ctx, cp.Vector{}, cp.Vector{X: 1, Y: 1})
		if err := ecs.SetParent(ctx.World, mid, root); err != nil {
			t.Fatal(err)
		}
		if err := ecs.SetParent(ctx.World, leaf, mid); err != nil {
			t.Fatal(err)
		}
		s := New(ctx, []ecs.Entity{leaf, root})
		if !s.HasNesting() || s.Count() != 0 {
			t.Fatalf("expected nesting, got %v %d", s.HasNesting(), s.Count())
		}
	})

	t.Run("duplicates", func(t *testing.T) {
		ctx := newContext()
		a := boxEntity(t, ctx, cp.Vector{}, cp.Vector{X: 1, Y: 1})
		if s := New(ctx, []ecs.Entity{a, a, a}); s.Count() != 1 {
			t.Fatalf("expected 1 handle, got %d", s.Count())
		}
	})
}

func TestGroupAggregation(t *testing.T) {
	ctx := newContext()
	a := boxEntity(t, ctx, cp.Vector{X: 0, Y: 0}, cp.Vector{X: 2, Y: 2})
	b := boxEntity(t, ctx, cp.Vector{X: 6, Y: 3}, cp.Vector{X: 2, Y: 4})
	s := New(ctx, []ecs.Entity{a, b})
	s.SetSource(bounds.Collider)
	rec := &recorder{}
	s.History = rec
	changes := 0
	s.OnChange = func() { changes++ }

	if s.Left() != -1 || s.Right() != 7 || s.Bottom() != -1 || s.Top() != 5 {
		t.Fatalf("edges: l=%v r=%v b=%v t=%v", s.Left(), s.Right(), s.Bottom(), s.Top())
	}
	assertVec(t, "size", s.Size(), cp.Vector{X: 8, Y: 6})
	assertVec(t, "center", s.Center(), cp.Vector{X: 3, Y: 2})
	assertVec(t, "position", s.Position(), cp.Vector{X: 3, Y: 2})

	s.SetPivot(geom.PivotBottomLeft.Vector())
	assertVec(t, "bottom left", s.Position(), cp.Vector{X: -1, Y: -1})
	s.SetPosition(cp.Vector{X: 0, Y: 0})
	assertVec(t, "a moved", ecs.WorldPosition(ctx.World, a), cp.Vector{X: 1, Y: 1})
	assertVec(t, "b moved", ecs.WorldPosition(ctx.World, b), cp.Vector{X: 7, Y: 4})
	if changes != 1 || len(rec.labels) != 1 {
		t.Fatalf("expected one change and one record, got %d %v", changes, rec.labels)
	}

	assertVec(t, "top right", s.PositionAt(geom.PivotTopRight.Vector(), geom.AlignAxis), cp.Vector{X: 8, Y: 6})
	assertVec(t, "pivot restored", s.Pivot(), geom.PivotBottomLeft.Vector())

	for name, op := range map[string]func() error{
		"size":           func() error { return s.SetSize(cp.Vector{X: 1, Y: 1}) },
		"local_size":     func() error { return s.SetLocalSize(cp.Vector{X: 1, Y: 1}) },
		"scale":          func() error { return s.SetScale(cp.Vector{X: 2, Y: 2}) },
		"local_scale":    func() error { return s.SetLocalScale(cp.Vector{X: 2, Y: 2}) },
		"rotation":       func() error { return s.SetRotation(45) },
		"local_rotation": func() error { return s.SetLocalRotation(45) },
		"local_position": func() error { return s.SetLocalPosition(cp.Vector{X: 2}) },
	} {
		t.Run(name, func(t *testing.T) {
			if err := op(); !errors.Is(err, ErrGroupOperationNotSupported) {
				t.Fatalf("expected ErrGroupOperationNotSupported, got %v", err)
			}
		})
	}
	assertVec(t, "a untouched", ecs.WorldPosition(ctx.World, a), cp.Vector{X: 1, Y: 1})
	if tr, _ := ecs.TransformOf(ctx.World, a); tr.Scale != (cp.Vector{X: 1, Y: 1}) || tr.Rotation != 0 {
		t.Fatalf("group op mutated a child: %+v", tr)
	}
}

func TestEmptySelection(t *testing.T) {
	s := New(newContext(), nil)
	if !s.IsEmpty() || s.Source() != bounds.None {
		t.Fatalf("expected empty selection with None source")
	}
	if l := s.Left(); !math.IsNaN(l) {
		t.Fatalf("expected NaN left, got %v", l)
	}
	if err := s.SetSize(cp.Vector{X: 1, Y: 1}); err != nil {
		t.Fatalf("empty selection edits must be no-ops, got %v", err)
	}
	if s.Position() != (cp.Vector{}) {
		t.Fatalf("expected zero position")
	}
}

func TestGroupSourceSkipsCameras(t *testing.T) {
	ctx := newContext()
	a := boxEntity(t, ctx, cp.Vector{}, cp.Vector{X: 1, Y: 1})
	cam := ecs.CreateEntity(ctx.World)
	tr := component.NewTransform(cp.Vector{})
	c := component.Camera{Orthographic: true, OrthographicSize: 1, Aspect: 1}
	if err := ecs.Add(ctx.World, cam, component.TransformComponent.Kind(), &tr); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(ctx.World, cam, component.CameraComponent.Kind(), &c); err != nil {
		t.Fatal(err)
	}
	s := New(ctx, []ecs.Entity{cam, a})
	s.SetSource(bounds.Collider)
	if got := s.Source(); got != bounds.Collider {
		t.Fatalf("expected collider, got %s", got)
	}
}
