package model

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/geom"
	"github.com/milk9111/transform2d/selection"
	"github.com/milk9111/transform2d/units"
)

// TransformData is the selection transform as the inspector shows it.
// Position and Size are in the display unit type; Scale is a ratio and
// Rotation is in degrees.
type TransformData struct {
	Position cp.Vector
	Size     cp.Vector
	Scale    cp.Vector
	Rotation float64
}

// ActiveSpace is the settings unit space for a single entity. Groups are
// always edited in global space.
func (m *Model) ActiveSpace() units.Space {
	if m.sel.IsSingle() {
		return m.Settings().UnitSpace
	}
	return units.Global
}

func (m *Model) toDisplay(v cp.Vector) cp.Vector {
	return m.Converter().VecToDisplay(v, m.Settings().UnitType)
}

func (m *Model) fromDisplay(v cp.Vector) cp.Vector {
	return m.Converter().VecFromDisplay(v, m.Settings().UnitType)
}

func (m *Model) Transform() TransformData {
	sel := m.sel
	if m.ActiveSpace() == units.Local {
		return TransformData{
			Position: m.toDisplay(sel.LocalPosition()),
			Size:     m.toDisplay(sel.LocalSize()),
			Scale:    sel.LocalScale(),
			Rotation: sel.LocalRotation(),
		}
	}
	return TransformData{
		Position: m.toDisplay(sel.Position()),
		Size:     m.toDisplay(sel.Size()),
		Scale:    sel.Scale(),
		Rotation: sel.Rotation(),
	}
}

// SetTransform writes every field. Groups only take the position; a group
// edit that changes any other field still moves it, then fails with
// selection.ErrGroupOperationNotSupported.
func (m *Model) SetTransform(td TransformData) error {
	cur := m.Transform()
	if err := m.SetPosition(td.Position); err != nil {
		return err
	}
	if m.sel.IsEmpty() {
		return nil
	}
	if !m.sel.IsSingle() {
		if !geom.ApproximatelyVec(td.Size, cur.Size) || !geom.ApproximatelyVec(td.Scale, cur.Scale) ||
			!geom.Approximately(td.Rotation, cur.Rotation) {
			return selection.ErrGroupOperationNotSupported
		}
		return nil
	}
	if err := m.setSize(td.Size); err != nil {
		return err
	}
	if err := m.setScale(td.Scale); err != nil {
		return err
	}
	return m.setRotation(td.Rotation)
}

// SetPosition moves the selection pivot to v, given in display units.
func (m *Model) SetPosition(v cp.Vector) error {
	pos := m.fromDisplay(v)
	if m.ActiveSpace() == units.Local {
		return m.sel.SetLocalPosition(pos)
	}
	m.sel.SetPosition(pos)
	return nil
}

// SetSize resizes a single entity to v, given in display units. With
// constrained proportions the axis not being edited follows the other one.
// Groups return selection.ErrGroupOperationNotSupported.
func (m *Model) SetSize(v cp.Vector) error {
	if m.Settings().ConstrainProportions && m.sel.IsSingle() {
		v = m.sizeLock.Constrain(m.Transform().Size, v)
	}
	return m.setSize(v)
}

func (m *Model) setSize(v cp.Vector) error {
	size := m.fromDisplay(v)
	if m.Settings().UnitSpace == units.Local {
		return m.sel.SetLocalSize(size)
	}
	return m.sel.SetSize(size)
}

func (m *Model) SetScale(v cp.Vector) error {
	if m.Settings().ConstrainProportions && m.sel.IsSingle() {
		v = m.scaleLock.Constrain(m.Transform().Scale, v)
	}
	return m.setScale(v)
}

func (m *Model) setScale(v cp.Vector) error {
	if m.Settings().UnitSpace == units.Local {
		return m.sel.SetLocalScale(v)
	}
	return m.sel.SetScale(v)
}

func (m *Model) SetRotation(deg float64) error {
	return m.setRotation(deg)
}

func (m *Model) setRotation(deg float64) error {
	if m.Settings().UnitSpace == units.Local {
		return m.sel.SetLocalRotation(deg)
	}
	return m.sel.SetRotation(deg)
}
