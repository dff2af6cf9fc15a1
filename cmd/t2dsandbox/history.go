package main

import (
	"github.com/milk9111/transform2d/ecs"
	"github.com/milk9111/transform2d/ecs/component"
	"github.com/milk9111/transform2d/guides"
)

const historyLimit = 128

type snapshot struct {
	label      string
	transforms map[ecs.Entity]component.Transform
	guides     []guides.Guide
	hasGuides  bool
}

// history is the sandbox undo stack. Edits recorded between begin and end
// collapse into the first snapshot so one drag undoes in one step.
type history struct {
	world *ecs.World
	store *guides.Store
	stack []snapshot
	open  bool
	taken bool
}

func newHistory(w *ecs.World, store *guides.Store) *history {
	h := &history{world: w, store: store}
	if store != nil {
		store.OnRecord = h.recordGuides
	}
	return h
}

// Record snapshots the transforms of entities.
func (h *history) Record(entities []ecs.Entity, label string) {
	if h.skip() {
		return
	}
	snap := snapshot{label: label, transforms: make(map[ecs.Entity]component.Transform, len(entities))}
	for _, e := range entities {
		if t, ok := ecs.TransformOf(h.world, e); ok {
			snap.transforms[e] = *t
		}
	}
	h.push(snap)
}

func (h *history) recordGuides(label string) {
	if h.skip() {
		return
	}
	h.push(snapshot{label: label, guides: h.store.List(), hasGuides: true})
}

func (h *history) skip() bool {
	if !h.open {
		return false
	}
	if h.taken {
		return true
	}
	h.taken = true
	return false
}

func (h *history) push(s snapshot) {
	h.stack = append(h.stack, s)
	if len(h.stack) > historyLimit {
		h.stack = h.stack[len(h.stack)-historyLimit:]
	}
}

func (h *history) begin() {
	h.open, h.taken = true, false
}

func (h *history) end() {
	h.open, h.taken = false, false
}

// undo restores the latest snapshot and returns its label.
func (h *history) undo() (string, bool) {
	if len(h.stack) == 0 {
		return "", false
	}
	s := h.stack[len(h.stack)-1]
	h.stack = h.stack[:len(h.stack)-1]

	if s.hasGuides {
		h.store.Restore(s.guides)
		return s.label, true
	}
	for e, saved := range s.transforms {
		t, ok := ecs.TransformOf(h.world, e)
		if !ok {
			continue
		}
		*t = saved
		t.Changed = true
	}
	return s.label, true
}

// reset drops every snapshot, used when the scene is rebuilt.
func (h *history) reset() {
	h.stack = nil
	h.end()
}
