package guides

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/geom"
	"github.com/milk9111/transform2d/units"
	"github.com/quasilyte/gdata/v2"
)

type memory struct {
	saved [][]Guide
}

func (m *memory) Load() ([]Guide, error) {
	if len(m.saved) == 0 {
		return nil, nil
	}
	return m.saved[len(m.saved)-1], nil
}

func (m *memory) Save(list []Guide) error {
	m.saved = append(m.saved, list)
	return nil
}

func box(minX, minY, maxX, maxY float64) geom.Bounds {
	return geom.FromMinMax(cp.Vector{X: minX, Y: minY}, cp.Vector{X: maxX, Y: maxY})
}

func TestNilStore(t *testing.T) {
	var s *Store
	if s.Len() != 0 || s.List() != nil {
		t.Fatal("nil store should be empty")
	}
	if _, ok := s.Nearest(0, 10, geom.Vertical); ok {
		t.Fatal("nil store should have no nearest guide")
	}
	if s.IsSnap(box(0, 0, 1, 1), 10, geom.Horizontal) {
		t.Fatal("nil store should never snap")
	}
	if _, err := s.Apply(Create{}); !errors.Is(err, ErrNoGuide) {
		t.Fatalf("expected ErrNoGuide, got %v", err)
	}
}

func TestIsSnap(t *testing.T) {
	s := NewStore(nil)
	s.Add(Guide{Axis: geom.Vertical, Position: 100})
	s.Add(Guide{Axis: geom.Horizontal, Position: -50})

	tests := []struct {
		name string
		b    geom.Bounds
		axis geom.Axis
		want bool
	}{
		{"left edge near", box(102, 0, 110, 10), geom.Vertical, true},
		{"right edge near", box(90, 0, 97, 10), geom.Vertical, true},
		{"center near", box(80, 0, 121, 10), geom.Vertical, true},
		{"exactly at tolerance", box(105, 0, 200, 10), geom.Vertical, false},
		{"wrong axis", box(102, 0, 110, 10), geom.Horizontal, false},
		{"bottom near", box(0, -48, 10, 0), geom.Horizontal, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.IsSnap(tc.b, 5, tc.axis); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestNearest(t *testing.T) {
	s := NewStore(nil)
	s.Add(Guide{Axis: geom.Vertical, Position: 10})
	s.Add(Guide{Axis: geom.Vertical, Position: 14})
	s.Add(Guide{Axis: geom.Vertical, Position: 6})
	s.Add(Guide{Axis: geom.Horizontal, Position: 12})

	g, ok := s.Nearest(12.5, 5, geom.Vertical)
	if !ok || g.Position != 14 {
		t.Fatalf("expected guide at 14, got %v %v", g, ok)
	}
	// 10 and 14 tie; list order wins.
	g, ok = s.Nearest(12, 5, geom.Vertical)
	if !ok || g.Position != 10 {
		t.Fatalf("expected guide at 10, got %v %v", g, ok)
	}
	if _, ok := s.Nearest(30, 5, geom.Vertical); ok {
		t.Fatal("expected no guide in range")
	}
	if _, ok := s.Nearest(19, 5, geom.Vertical); ok {
		t.Fatal("distance equal to the tolerance must not match")
	}
}

func TestViewport(t *testing.T) {
	s := NewStore(nil)
	s.Add(Guide{Axis: geom.Vertical, Position: 5})
	s.Add(Guide{Axis: geom.Vertical, Position: 50})
	s.Add(Guide{Axis: geom.Horizontal, Position: 5})
	s.Add(Guide{Axis: geom.Horizontal, Position: 20})

	s.SetViewport(box(0, 0, 10, 10))
	if got := s.Visible(geom.Vertical); len(got) != 1 || got[0].Position != 5 {
		t.Fatalf("unexpected visible vertical guides %v", got)
	}
	if got := s.Visible(geom.Horizontal); len(got) != 1 || got[0].Position != 5 {
		t.Fatalf("unexpected visible horizontal guides %v", got)
	}
	if _, ok := s.Nearest(49, 5, geom.Vertical); ok {
		t.Fatal("off-screen guide should not match")
	}

	s.ClearViewport()
	if got := s.Visible(geom.Vertical); len(got) != 2 {
		t.Fatalf("expected every guide visible, got %v", got)
	}
}

func TestEvents(t *testing.T) {
	mem := &memory{}
	s := NewStore(mem)
	s.Converter = units.NewConverter(100)
	s.SnapToPixel = true
	var labels []string
	s.OnRecord = func(l string) { labels = append(labels, l) }

	i, err := s.Apply(Create{Guide: Guide{Axis: geom.Vertical, Position: 1}})
	if err != nil || i != 0 {
		t.Fatalf("create: %d %v", i, err)
	}
	if len(mem.saved) != 1 {
		t.Fatalf("create should save, saved %d times", len(mem.saved))
	}

	i, err = s.Apply(CreateByDrag{Guide: Guide{Axis: geom.Horizontal}})
	if err != nil || i != 1 {
		t.Fatalf("create by drag: %d %v", i, err)
	}
	if _, err := s.Apply(Drag{Index: 1, Position: 0.123}); err != nil {
		t.Fatalf("drag: %v", err)
	}
	if g, _ := s.Get(1); !geom.Approximately(g.Position, 0.12) {
		t.Fatalf("drag should snap to the pixel grid, got %v", g.Position)
	}
	if len(mem.saved) != 1 {
		t.Fatal("drag must not save before drop")
	}
	if _, err := s.Apply(Drop{}); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if len(mem.saved) != 2 {
		t.Fatal("drop should save")
	}

	if _, err := s.Apply(StartDrag{Index: 0, Position: 2}); err != nil {
		t.Fatalf("start drag: %v", err)
	}
	if _, err := s.Apply(Edit{Index: 0, Guide: Guide{Axis: geom.Horizontal, Position: 7}}); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if g, _ := s.Get(0); g.Axis != geom.Horizontal || g.Position != 7 {
		t.Fatalf("edit not applied: %v", g)
	}
	if _, err := s.Apply(Remove{Index: 5}); !errors.Is(err, ErrNoGuide) {
		t.Fatalf("expected ErrNoGuide, got %v", err)
	}

	s.Add(Guide{Axis: geom.Vertical, Position: 3})
	axis := geom.Horizontal
	if _, err := s.Apply(Clear{Axis: &axis}); err != nil {
		t.Fatalf("clear axis: %v", err)
	}
	if got := s.List(); len(got) != 1 || got[0].Axis != geom.Vertical {
		t.Fatalf("clear axis left %v", got)
	}
	if _, err := s.Apply(Clear{}); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if s.Len() != 0 {
		t.Fatal("clear all left guides behind")
	}

	want := []string{"Create Guide", "Create Guide", "Create Guide", "Move Guide", "Edit Guide", "Create Guide", "Clear Guides", "Clear Guides"}
	if len(labels) != len(want) {
		t.Fatalf("expected labels %v, got %v", want, labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("expected labels %v, got %v", want, labels)
		}
	}
}

func TestFilePersister(t *testing.T) {
	p := FilePersister{Path: filepath.Join(t.TempDir(), "store", "guides.yaml")}
	list, err := p.Load()
	if err != nil || list != nil {
		t.Fatalf("missing file: %v %v", list, err)
	}

	s := NewStore(p)
	s.Apply(Create{Guide: Guide{Axis: geom.Vertical, Position: 1.5}})
	s.Apply(Create{Guide: Guide{Axis: geom.Horizontal, Position: -2}})

	reloaded := NewStore(p)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	got := reloaded.List()
	if len(got) != 2 || got[0] != (Guide{Axis: geom.Vertical, Position: 1.5}) || got[1] != (Guide{Axis: geom.Horizontal, Position: -2}) {
		t.Fatalf("unexpected reload %v", got)
	}
}

func TestStoragePersister(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	m, err := gdata.Open(gdata.Config{AppName: "transform2d_guides_test"})
	if err != nil {
		t.Fatalf("open gdata: %v", err)
	}
	p := StoragePersister{Manager: m}
	if err := p.Save([]Guide{{Axis: geom.Vertical, Position: 3}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := p.Load()
	if err != nil || len(got) != 1 || got[0].Position != 3 {
		t.Fatalf("unexpected load %v %v", got, err)
	}
}

func TestRestore(t *testing.T) {
	mem := &memory{}
	s := NewStore(mem)
	records := 0
	s.OnRecord = func(string) { records++ }

	s.Add(Guide{Axis: geom.Vertical, Position: 1})
	before := s.List()
	s.Add(Guide{Axis: geom.Horizontal, Position: 2})

	s.Restore(before)
	if records != 2 {
		t.Fatalf("expected restore not to record, got %d records", records)
	}
	if s.Len() != 1 || s.List()[0].Position != 1 {
		t.Fatalf("unexpected list %+v", s.List())
	}
	if len(mem.saved) == 0 || len(mem.saved[len(mem.saved)-1]) != 1 {
		t.Fatalf("expected restore to save")
	}
}
