package guides

import (
	"fmt"

	"github.com/milk9111/transform2d/geom"
)

// Event is a guide edit coming from the rulers or the guide dialog.
type Event interface {
	isEvent()
}

// Create adds a guide at a typed position.
type Create struct{ Guide Guide }

// CreateByDrag adds a guide dragged out of a ruler. The drag continues with
// Drag events on the returned index and ends with Drop.
type CreateByDrag struct{ Guide Guide }

type Edit struct {
	Index int
	Guide Guide
}

type Remove struct{ Index int }

type StartDrag struct {
	Index    int
	Position float64
}

type Drag struct {
	Index    int
	Position float64
}

type Drop struct{}

// Clear removes the guides of Axis, or every guide when Axis is nil.
type Clear struct{ Axis *geom.Axis }

func (Create) isEvent()       {}
func (CreateByDrag) isEvent() {}
func (Edit) isEvent()         {}
func (Remove) isEvent()       {}
func (StartDrag) isEvent()    {}
func (Drag) isEvent()         {}
func (Drop) isEvent()         {}
func (Clear) isEvent()        {}

// Apply performs ev on the store. For Create and CreateByDrag it returns the
// new guide's index, otherwise the index the event addressed or -1.
func (s *Store) Apply(ev Event) (int, error) {
	if s == nil {
		return -1, ErrNoGuide
	}
	switch ev := ev.(type) {
	case Create:
		i := s.Add(ev.Guide)
		s.save()
		return i, nil
	case CreateByDrag:
		s.creating = true
		return s.Add(ev.Guide), nil
	case Edit:
		return ev.Index, s.Edit(ev.Index, ev.Guide)
	case Remove:
		return ev.Index, s.Remove(ev.Index)
	case StartDrag:
		return ev.Index, s.Move(ev.Index, ev.Position)
	case Drag:
		return ev.Index, s.Move(ev.Index, ev.Position)
	case Drop:
		s.creating = false
		s.save()
		return -1, nil
	case Clear:
		if ev.Axis == nil {
			s.ClearAll()
		} else {
			s.ClearAxis(*ev.Axis)
		}
		return -1, nil
	}
	return -1, fmt.Errorf("guides: unknown event %T", ev)
}
