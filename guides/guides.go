// Package guides keeps the user's horizontal and vertical guide lines and
// answers the proximity queries snapping needs.
package guides

import (
	"errors"
	"log"
	"math"
	"sort"

	"github.com/milk9111/transform2d/geom"
	"github.com/milk9111/transform2d/units"
)

var ErrNoGuide = errors.New("guides: no such guide")

// Guide is a line across the scene. A Horizontal guide has a constant Y, a
// Vertical one a constant X.
type Guide struct {
	Axis     geom.Axis `yaml:"axis"`
	Position float64   `yaml:"position"`
}

// Store owns the guide list. The zero value and a nil *Store are usable and
// hold no guides.
type Store struct {
	guides []Guide

	viewport    geom.Bounds
	hasViewport bool
	creating    bool

	// Persister saves the list after edits. Nil keeps guides in memory.
	Persister Persister
	// Converter and SnapToPixel round dragged guides onto the pixel grid.
	Converter   units.Converter
	SnapToPixel bool
	// OnRecord is called with an undo label before each edit.
	OnRecord func(label string)
}

func NewStore(p Persister) *Store {
	return &Store{Persister: p}
}

// Load replaces the list with the persisted one.
func (s *Store) Load() error {
	if s == nil || s.Persister == nil {
		return nil
	}
	list, err := s.Persister.Load()
	if err != nil {
		return err
	}
	s.guides = list
	return nil
}

func (s *Store) save() {
	if s == nil || s.Persister == nil {
		return
	}
	if err := s.Persister.Save(s.List()); err != nil {
		log.Printf("[guides] save failed: %v", err)
	}
}

func (s *Store) record(label string) {
	if s.OnRecord != nil {
		s.OnRecord(label)
	}
}

func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.guides)
}

// List returns a copy of every guide.
func (s *Store) List() []Guide {
	if s == nil {
		return nil
	}
	return append([]Guide(nil), s.guides...)
}

func (s *Store) Get(i int) (Guide, bool) {
	if s == nil || i < 0 || i >= len(s.guides) {
		return Guide{}, false
	}
	return s.guides[i], true
}

func (s *Store) ByAxis(axis geom.Axis) []Guide {
	var out []Guide
	for _, g := range s.List() {
		if g.Axis == axis {
			out = append(out, g)
		}
	}
	return out
}

// SetViewport limits queries to guides strictly inside b. Until it is called
// every guide is visible.
func (s *Store) SetViewport(b geom.Bounds) {
	if s == nil {
		return
	}
	s.viewport = b
	s.hasViewport = true
}

func (s *Store) ClearViewport() {
	if s == nil {
		return
	}
	s.hasViewport = false
}

// Visible returns the guides of one axis that lie inside the viewport.
func (s *Store) Visible(axis geom.Axis) []Guide {
	all := s.ByAxis(axis)
	if s == nil || !s.hasViewport {
		return all
	}
	min, max := s.viewport.Min(), s.viewport.Max()
	lo, hi := min.X, max.X
	if axis == geom.Horizontal {
		lo, hi = min.Y, max.Y
	}
	out := all[:0]
	for _, g := range all {
		if g.Position > lo && g.Position < hi {
			out = append(out, g)
		}
	}
	return out
}

// IsSnap reports whether a visible guide of axis lies strictly within
// maxDistance of the near edge, far edge or center of b.
func (s *Store) IsSnap(b geom.Bounds, maxDistance float64, axis geom.Axis) bool {
	min, max, center := b.Min().Y, b.Max().Y, b.Center.Y
	if axis == geom.Vertical {
		min, max, center = b.Min().X, b.Max().X, b.Center.X
	}
	for _, g := range s.Visible(axis) {
		if math.Abs(g.Position-min) < maxDistance ||
			math.Abs(g.Position-max) < maxDistance ||
			math.Abs(g.Position-center) < maxDistance {
			return true
		}
	}
	return false
}

// Nearest returns the visible guide of axis closest to position, if one lies
// strictly within maxDistance. Equal distances keep list order.
func (s *Store) Nearest(position, maxDistance float64, axis geom.Axis) (Guide, bool) {
	candidates := s.Visible(axis)
	sort.SliceStable(candidates, func(i, j int) bool {
		return math.Abs(candidates[i].Position-position) < math.Abs(candidates[j].Position-position)
	})
	if len(candidates) == 0 || math.Abs(candidates[0].Position-position) >= maxDistance {
		return Guide{}, false
	}
	return candidates[0], true
}

// Add appends g and returns its index.
func (s *Store) Add(g Guide) int {
	if s == nil {
		return -1
	}
	s.record("Create Guide")
	s.guides = append(s.guides, g)
	return len(s.guides) - 1
}

func (s *Store) Edit(i int, g Guide) error {
	if _, ok := s.Get(i); !ok {
		return ErrNoGuide
	}
	s.record("Edit Guide")
	s.guides[i] = g
	s.save()
	return nil
}

func (s *Store) Remove(i int) error {
	if _, ok := s.Get(i); !ok {
		return ErrNoGuide
	}
	s.record("Remove Guide")
	s.guides = append(s.guides[:i], s.guides[i+1:]...)
	s.save()
	return nil
}

// Move sets the position of guide i, rounding it onto the pixel grid when
// SnapToPixel is set. The list is saved on Drop.
func (s *Store) Move(i int, position float64) error {
	if _, ok := s.Get(i); !ok {
		return ErrNoGuide
	}
	if s.creating {
		s.record("Create Guide")
	} else {
		s.record("Move Guide")
	}
	if s.SnapToPixel {
		position = s.Converter.Snap(position)
	}
	s.guides[i].Position = position
	return nil
}

func (s *Store) ClearAxis(axis geom.Axis) {
	if s == nil {
		return
	}
	s.record("Clear Guides")
	kept := s.guides[:0]
	for _, g := range s.guides {
		if g.Axis != axis {
			kept = append(kept, g)
		}
	}
	s.guides = kept
	s.save()
}

func (s *Store) ClearAll() {
	if s == nil {
		return
	}
	s.record("Clear Guides")
	s.guides = nil
	s.save()
}

// Restore replaces the list without recording, for undo.
func (s *Store) Restore(list []Guide) {
	if s == nil {
		return
	}
	s.guides = append([]Guide(nil), list...)
	s.save()
}
