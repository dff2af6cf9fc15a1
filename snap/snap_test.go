package snap

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/bounds"
	"github.com/milk9111/transform2d/ecs"
	"github.com/milk9111/transform2d/ecs/component"
	"github.com/milk9111/transform2d/geom"
	"github.com/milk9111/transform2d/guides"
	"github.com/milk9111/transform2d/physics"
	"github.com/milk9111/transform2d/selection"
	"github.com/milk9111/transform2d/settings"
	"github.com/milk9111/transform2d/units"
)

func boxSelection(t *testing.T, center, size cp.Vector) *selection.Selection {
	t.Helper()
	ctx := &bounds.Context{World: ecs.NewWorld(), Physics: physics.NewWorld()}
	e := ecs.CreateEntity(ctx.World)
	tr := component.NewTransform(center)
	if err := ecs.Add(ctx.World, e, component.TransformComponent.Kind(), &tr); err != nil {
		t.Fatalf("add transform: %v", err)
	}
	c := component.Collider{Shape: component.ColliderBox, Size: size}
	if err := ecs.Add(ctx.World, e, component.ColliderComponent.Kind(), &c); err != nil {
		t.Fatalf("add collider: %v", err)
	}
	sel := selection.New(ctx, []ecs.Entity{e})
	sel.SetSource(bounds.Collider)
	return sel
}

func guideSettings(pixel bool) *settings.Settings {
	s := settings.Default()
	s.SnapToPixel = pixel
	return s
}

func assertVec(t *testing.T, label string, got, want cp.Vector) {
	t.Helper()
	if !geom.ApproximatelyVec(got, want) {
		t.Fatalf("%s: expected %v, got %v", label, want, got)
	}
}

func TestForce(t *testing.T) {
	if got := Force(100); !geom.Approximately(got, 5) {
		t.Fatalf("expected 5, got %v", got)
	}
}

func TestSnapLeftEdgeToGuide(t *testing.T) {
	sel := boxSelection(t, cp.Vector{X: 107, Y: 0}, cp.Vector{X: 10, Y: 10})
	store := guides.NewStore(nil)
	store.Add(guides.Guide{Axis: geom.Vertical, Position: 100})
	e := &Engine{Guides: store, Settings: guideSettings(false)}

	act := e.SnapPosition(sel, 100)
	assertVec(t, "position", act.Position, cp.Vector{X: 100, Y: 0})
	assertVec(t, "anchor", act.Anchor, cp.Vector{X: 0, Y: 0.5})

	Apply(sel, act)
	if got := sel.Left(); !geom.Approximately(got, 100) {
		t.Fatalf("expected Left 100, got %v", got)
	}
}

func TestSnapOutsideTolerance(t *testing.T) {
	sel := boxSelection(t, cp.Vector{X: 111, Y: 0}, cp.Vector{X: 10, Y: 10})
	store := guides.NewStore(nil)
	store.Add(guides.Guide{Axis: geom.Vertical, Position: 100})
	e := &Engine{Guides: store, Settings: guideSettings(false)}

	act := e.SnapPosition(sel, 100)
	assertVec(t, "position", act.Position, cp.Vector{X: 111, Y: 0})
}

func TestSnapPixelsOnly(t *testing.T) {
	sel := boxSelection(t, cp.Vector{X: 1.234, Y: -0.456}, cp.Vector{X: 1, Y: 1})
	e := &Engine{Settings: guideSettings(true), Converter: units.NewConverter(100)}

	act := e.SnapPosition(sel, 1)
	assertVec(t, "position", act.Position, cp.Vector{X: 1.23, Y: -0.46})
	assertVec(t, "anchor", act.Anchor, cp.Vector{X: 0.5, Y: 0.5})
}

func TestSnapGuideThenPixelOtherAxis(t *testing.T) {
	sel := boxSelection(t, cp.Vector{X: 1.234, Y: 3.9}, cp.Vector{X: 1, Y: 2})
	store := guides.NewStore(nil)
	store.Add(guides.Guide{Axis: geom.Horizontal, Position: 5})
	e := &Engine{Guides: store, Settings: guideSettings(true), Converter: units.NewConverter(100)}

	// Top is at 4.9, within 0.5 of the guide at 5.
	act := e.SnapPosition(sel, 10)
	assertVec(t, "position", act.Position, cp.Vector{X: 1.23, Y: 5})
	assertVec(t, "anchor", act.Anchor, cp.Vector{X: 0.5, Y: 1})
}

func TestSnapBothAxes(t *testing.T) {
	sel := boxSelection(t, cp.Vector{X: 11, Y: 21}, cp.Vector{X: 4, Y: 4})
	store := guides.NewStore(nil)
	store.Add(guides.Guide{Axis: geom.Vertical, Position: 12.5})
	store.Add(guides.Guide{Axis: geom.Horizontal, Position: 21.5})
	e := &Engine{Guides: store, Settings: guideSettings(true)}

	// Right edge 13 snaps to 12.5, vertical center 21 snaps to 21.5.
	act := e.SnapPosition(sel, 40)
	assertVec(t, "position", act.Position, cp.Vector{X: 12.5, Y: 21.5})
	assertVec(t, "anchor", act.Anchor, cp.Vector{X: 1, Y: 0.5})

	Apply(sel, act)
	if !geom.Approximately(sel.Right(), 12.5) || !geom.Approximately(sel.VerticalCenter(), 21.5) {
		t.Fatalf("expected right 12.5 and center 21.5, got %v %v", sel.Right(), sel.VerticalCenter())
	}
}

func TestSnapTieGoesToTop(t *testing.T) {
	// Top at 1 and bottom at -1 are both 0.5 away from their guides.
	sel := boxSelection(t, cp.Vector{}, cp.Vector{X: 2, Y: 2})
	store := guides.NewStore(nil)
	store.Add(guides.Guide{Axis: geom.Horizontal, Position: -1.5})
	store.Add(guides.Guide{Axis: geom.Horizontal, Position: 1.5})
	e := &Engine{Guides: store, Settings: guideSettings(false)}

	act := e.SnapPosition(sel, 20)
	assertVec(t, "position", act.Position, cp.Vector{X: 0, Y: 1.5})
	assertVec(t, "anchor", act.Anchor, cp.Vector{X: 0.5, Y: 1})
}

func TestSnapDisabled(t *testing.T) {
	sel := boxSelection(t, cp.Vector{X: 101, Y: 0}, cp.Vector{X: 2, Y: 2})
	store := guides.NewStore(nil)
	store.Add(guides.Guide{Axis: geom.Vertical, Position: 100})

	s := settings.Default()
	s.ShowGuides = false
	e := &Engine{Guides: store, Settings: s}
	act := e.SnapPosition(sel, 100)
	assertVec(t, "hidden guides", act.Position, cp.Vector{X: 101, Y: 0})

	var nilEngine *Engine
	if act := nilEngine.SnapPosition(sel, 100); act != (Action{}) {
		t.Fatalf("nil engine should return a zero action, got %v", act)
	}
}
