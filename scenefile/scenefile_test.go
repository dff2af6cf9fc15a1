package scenefile

import (
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/bounds"
	"github.com/milk9111/transform2d/ecs"
	"github.com/milk9111/transform2d/ecs/component"
	"github.com/milk9111/transform2d/geom"
	"github.com/milk9111/transform2d/guides"
	"github.com/milk9111/transform2d/model"
	"github.com/milk9111/transform2d/physics"
	"github.com/milk9111/transform2d/script"
	"github.com/milk9111/transform2d/selection"
	"github.com/milk9111/transform2d/settings"
)

func TestCleanPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "demo.yaml", want: "scenes/demo.yaml"},
		{in: "scenes/demo.yaml", want: "scenes/demo.yaml"},
		{in: "scenefile/scenes/demo.yaml", want: "scenes/demo.yaml"},
		{in: filepath.Join("/tmp", "work", "demo.yaml"), want: "scenes/demo.yaml"},
		{in: "", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := cleanScenePath(tc.in); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestLoadEmbedded(t *testing.T) {
	spec, err := LoadSceneSpec("demo.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.Name != "demo" {
		t.Fatalf("expected name demo, got %q", spec.Name)
	}
	if len(spec.Entities) != 7 {
		t.Fatalf("expected 7 entities, got %d", len(spec.Entities))
	}
	if len(spec.Guides) != 2 || spec.Guides[0].Axis != geom.Vertical || spec.Guides[0].Position != -3 {
		t.Fatalf("unexpected guides %+v", spec.Guides)
	}
	if spec.Background == nil || spec.Background.Color != (color.NRGBA{R: 0x1e, G: 0x22, B: 0x30, A: 0xff}) {
		t.Fatalf("unexpected background %+v", spec.Background)
	}

	if _, err := LoadMacro("stack.tengo"); err != nil {
		t.Fatalf("load macro: %v", err)
	}
}

func TestDiskOverridesEmbedded(t *testing.T) {
	old := Dir
	Dir = t.TempDir()
	t.Cleanup(func() { Dir = old })

	if _, ok := ModTime("demo.yaml"); ok {
		t.Fatalf("expected no disk copy yet")
	}
	if err := os.MkdirAll(ScenesDir(), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(ScenesDir(), "demo.yaml"), []byte("name: override\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	spec, err := LoadSceneSpec("demo.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.Name != "override" {
		t.Fatalf("expected disk copy, got %q", spec.Name)
	}
	if _, ok := ModTime("demo.yaml"); !ok {
		t.Fatalf("expected a mod time")
	}
}

func TestBuildDemo(t *testing.T) {
	spec, err := LoadSceneSpec("demo.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	w := ecs.NewWorld()
	order, byName, err := Build(w, spec)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(order) != 7 || len(byName) != 7 {
		t.Fatalf("expected 7 entities, got %d/%d", len(order), len(byName))
	}

	tr, _ := ecs.TransformOf(w, byName["pickaxe"])
	if tr.Parent != uint64(byName["hero"]) {
		t.Fatalf("expected pickaxe under hero")
	}

	spr, ok := ecs.Get(w, byName["hero"], component.SpriteComponent.Kind())
	if !ok || spr.Pivot != (cp.Vector{X: 32, Y: 48}) {
		t.Fatalf("expected centered pivot, got %+v", spr)
	}

	cam, ok := ecs.Get(w, byName["camera"], component.CameraComponent.Kind())
	if !ok || !cam.Orthographic {
		t.Fatalf("expected orthographic camera")
	}

	prefab, ok := ecs.Get(w, byName["door"], component.PrefabComponent.Kind())
	if !ok || prefab.Status != component.PrefabInstance {
		t.Fatalf("expected prefab instance")
	}

	col, ok := ecs.Get(w, byName["door"], component.ColliderComponent.Kind())
	if !ok || col.Shape != component.ColliderPolygon || len(col.Points) != 4 {
		t.Fatalf("unexpected door collider %+v", col)
	}

	name, ok := ecs.Get(w, byName["barrel"], component.NameComponent.Kind())
	if !ok || name.Value != "barrel" {
		t.Fatalf("expected barrel name")
	}
}

func TestBuildFailureLeavesWorldEmpty(t *testing.T) {
	tests := []struct {
		name string
		spec SceneSpec
		want error
	}{
		{
			name: "unknown parent",
			spec: SceneSpec{Entities: []EntitySpec{
				{Name: "a"},
				{Name: "b", Parent: "ghost"},
			}},
			want: ErrUnknownParent,
		},
		{
			name: "unknown component",
			spec: SceneSpec{Entities: []EntitySpec{
				{Name: "a"},
				{Name: "b", Components: map[string]any{"wobble": map[string]any{}}},
			}},
		},
		{
			name: "bad shape",
			spec: SceneSpec{Entities: []EntitySpec{
				{Name: "a", Components: map[string]any{"collider": map[string]any{"shape": "star"}}},
			}},
		},
		{
			name: "empty sprite",
			spec: SceneSpec{Entities: []EntitySpec{
				{Name: "a", Components: map[string]any{"sprite": map[string]any{"image": "a.png"}}},
			}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			_, _, err := Build(w, tc.spec)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if n := len(ecs.Entities(w)); n != 0 {
				t.Fatalf("expected empty world, got %d entities", n)
			}
		})
	}
}

func TestDemoMacro(t *testing.T) {
	spec, err := LoadSceneSpec("demo.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ctx := &bounds.Context{World: ecs.NewWorld(), Physics: physics.NewWorld()}
	_, byName, err := Build(ctx.World, spec)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	m := model.New(ctx, settings.NewManager(nil), guides.NewStore(nil))
	if err := m.UpdateSettings(func(s *settings.Settings) { s.BoundsSource = bounds.Collider }); err != nil {
		t.Fatalf("settings: %v", err)
	}
	src, err := LoadMacro(spec.Macros[0])
	if err != nil {
		t.Fatalf("load macro: %v", err)
	}
	if err := script.NewRunner(m, ctx.World).Run(context.Background(), src); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := selection.NewHandle(ctx, byName["crate"])
	want.SetSource(bounds.Collider)
	for _, name := range []string{"barrel", "sign"} {
		h := selection.NewHandle(ctx, byName[name])
		h.SetSource(bounds.Collider)
		if !geom.Approximately(h.HorizontalCenter(), want.HorizontalCenter()) {
			t.Fatalf("%s: expected center %v, got %v", name, want.HorizontalCenter(), h.HorizontalCenter())
		}
	}
}
