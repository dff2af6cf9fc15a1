package script

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/bounds"
	"github.com/milk9111/transform2d/ecs"
	"github.com/milk9111/transform2d/ecs/component"
	"github.com/milk9111/transform2d/geom"
	"github.com/milk9111/transform2d/guides"
	"github.com/milk9111/transform2d/model"
	"github.com/milk9111/transform2d/physics"
	"github.com/milk9111/transform2d/selection"
	"github.com/milk9111/transform2d/settings"
)

type scene struct {
	ctx    *bounds.Context
	model  *model.Model
	runner *Runner
	byName map[string]ecs.Entity
}

func newScene(t *testing.T) *scene {
	t.Helper()
	ctx := &bounds.Context{World: ecs.NewWorld(), Physics: physics.NewWorld()}
	m := model.New(ctx, settings.NewManager(nil), guides.NewStore(nil))
	if err := m.UpdateSettings(func(s *settings.Settings) { s.BoundsSource = bounds.Collider }); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	return &scene{ctx: ctx, model: m, runner: NewRunner(m, ctx.World), byName: map[string]ecs.Entity{}}
}

func (s *scene) box(t *testing.T, name string, pos cp.Vector) {
	t.Helper()
	w := s.ctx.World
	e := ecs.CreateEntity(w)
	tr := component.NewTransform(pos)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &tr); err != nil {
		t.Fatalf("add transform: %v", err)
	}
	c := component.Collider{Shape: component.ColliderBox, Size: cp.Vector{X: 2, Y: 2}}
	if err := ecs.Add(w, e, component.ColliderComponent.Kind(), &c); err != nil {
		t.Fatalf("add collider: %v", err)
	}
	if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: name}); err != nil {
		t.Fatalf("add name: %v", err)
	}
	s.byName[name] = e
}

func (s *scene) handle(name string) *selection.Handle {
	return selection.NewHandle(s.ctx, s.byName[name])
}

func (s *scene) run(t *testing.T, src string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.runner.Run(ctx, []byte(src)); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestDistributeAndAlign(t *testing.T) {
	s := newScene(t)
	s.box(t, "a", cp.Vector{X: 1, Y: 1})
	s.box(t, "b", cp.Vector{X: 5, Y: 1})
	s.box(t, "c", cp.Vector{X: 11, Y: 3})

	s.run(t, `
n := t2d.select("a", "b", "c")
if n == 3 {
	t2d.distribute("horizontal_spacing")
	t2d.align("top")
}
`)

	for name, left := range map[string]float64{"a": 0, "b": 5, "c": 10} {
		h := s.handle(name)
		if !geom.Approximately(h.Left(), left) {
			t.Fatalf("%s: expected left %v, got %v", name, left, h.Left())
		}
		if !geom.Approximately(h.Top(), 4) {
			t.Fatalf("%s: expected top 4, got %v", name, h.Top())
		}
	}
}

func TestMoveAndReadBack(t *testing.T) {
	s := newScene(t)
	s.box(t, "a", cp.Vector{X: 1, Y: 1})

	s.run(t, `
t2d.select("a")
t2d.move(300, 100)
p := t2d.position()
t2d.guide("vertical", p[0])
b := t2d.bounds()
t2d.guide("horizontal", b.bottom)
`)

	got := s.handle("a").Position()
	if !geom.ApproximatelyVec(got, cp.Vector{X: 3, Y: 1}) {
		t.Fatalf("expected position (3, 1), got %v", got)
	}
	list := s.model.Guides().List()
	if len(list) != 2 {
		t.Fatalf("expected 2 guides, got %d", len(list))
	}
	if list[0].Axis != geom.Vertical || !geom.Approximately(list[0].Position, 3) {
		t.Fatalf("unexpected first guide %+v", list[0])
	}
	if list[1].Axis != geom.Horizontal || !geom.Approximately(list[1].Position, 0) {
		t.Fatalf("unexpected second guide %+v", list[1])
	}
}

func TestFixedSpacing(t *testing.T) {
	s := newScene(t)
	s.box(t, "a", cp.Vector{X: 1, Y: 1})
	s.box(t, "b", cp.Vector{X: 9, Y: 1})

	s.run(t, `
t2d.select_all()
t2d.distribute("horizontal_spacing", 100)
`)

	if got := s.handle("b").Left(); !geom.Approximately(got, 3) {
		t.Fatalf("expected left 3, got %v", got)
	}
}

func TestErrors(t *testing.T) {
	s := newScene(t)
	s.box(t, "a", cp.Vector{X: 1, Y: 1})
	s.box(t, "b", cp.Vector{X: 5, Y: 1})

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "unknown anchor", src: `t2d.select_all(); t2d.align("diagonal")`, want: "unknown mode"},
		{name: "syntax", src: `t2d.align(`},
		{name: "bad axis", src: `t2d.guide("sideways", 1)`},
		{name: "bad spacing", src: `t2d.select_all(); t2d.distribute("left", "wide")`},
		{name: "group resize", src: `t2d.select_all(); t2d.resize(10, 10)`, want: "not supported for a group"},
		{name: "group rotate", src: `t2d.select_all(); t2d.rotate(45)`, want: "not supported for a group"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := s.runner.Run(context.Background(), []byte(tc.src))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in %v", tc.want, err)
			}
		})
	}
}

func TestNilRunner(t *testing.T) {
	var r *Runner
	if err := r.Run(context.Background(), []byte(`a := 1`)); err == nil {
		t.Fatalf("expected error")
	}
}
