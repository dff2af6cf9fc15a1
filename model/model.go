// Package model connects the host editor to a selection: it routes change
// events, applies settings and converts between display and world units.
package model

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/bounds"
	"github.com/milk9111/transform2d/ecs"
	"github.com/milk9111/transform2d/guides"
	"github.com/milk9111/transform2d/layout"
	"github.com/milk9111/transform2d/selection"
	"github.com/milk9111/transform2d/settings"
	"github.com/milk9111/transform2d/snap"
	"github.com/milk9111/transform2d/units"
)

type Model struct {
	ctx       *bounds.Context
	manager   *settings.Manager
	guides    *guides.Store
	sel       *selection.Selection
	is2D      bool
	sizeLock  ProportionLock
	scaleLock ProportionLock

	Assets  SpriteAssets
	History selection.History
	// Zoom is the current scene view zoom, used for the guide tolerance.
	Zoom float64
	// OnChange is called after every change the view should redraw for.
	OnChange func()
}

// New creates a model with an empty selection. A nil manager keeps settings
// in memory; a nil store disables guide snapping.
func New(ctx *bounds.Context, manager *settings.Manager, store *guides.Store) *Model {
	if manager == nil {
		manager = settings.NewManager(nil)
	}
	m := &Model{
		ctx:     ctx,
		manager: manager,
		guides:  store,
		is2D:    true,
		Zoom:    1,
	}
	if ctx != nil {
		m.Assets = WorldSprites{World: ctx.World}
	}
	m.syncGuides()
	m.updateSelection(nil)
	return m
}

func (m *Model) Selection() *selection.Selection {
	return m.sel
}

func (m *Model) Guides() *guides.Store {
	return m.guides
}

func (m *Model) Settings() *settings.Settings {
	return m.manager.Settings()
}

func (m *Model) Converter() units.Converter {
	return m.Settings().Converter()
}

// UpdateSettings edits and saves the settings, then reapplies them to the
// selection.
func (m *Model) UpdateSettings(fn func(*settings.Settings)) error {
	err := m.manager.Update(fn)
	if err != nil {
		log.Printf("[model] save settings: %v", err)
	}
	m.syncGuides()
	if m.Settings().Enabled {
		m.applySelectionSettings()
	}
	m.dispatch()
	return err
}

func (m *Model) syncGuides() {
	if m.guides == nil {
		return
	}
	s := m.Settings()
	m.guides.SnapToPixel = s.SnapToPixel
	m.guides.Converter = s.Converter()
}

// Handle reacts to a host event. Events are ignored while the tool is
// disabled, and everything but a selection change is ignored while the
// selection holds a prefab asset or nested entities.
func (m *Model) Handle(ev Event) {
	if !m.Settings().Enabled {
		return
	}
	if e, ok := ev.(SceneViewModeChanged); ok {
		m.is2D = e.Is2D
		m.dispatch()
		return
	}
	if _, ok := ev.(SelectionChanged); !ok && (m.sel.HasPrefab() || m.sel.HasNesting()) {
		return
	}

	switch ev := ev.(type) {
	case SelectionChanged:
		m.updateSelection(ev.Entities)
	case HierarchyChanged:
		m.rebuild(ev.Entities)
	case TransformChanged:
		if m.Settings().Snapping() && ev.Origin == OriginScene && ev.Kind == TransformMove {
			m.snapSelection()
		}
		m.dispatch()
	case PropertyChanged:
		if ev.Property == PropertySprite || ev.Property == PropertyCameraOrthogonal {
			m.rebuild(ev.Entities)
			return
		}
		m.dispatch()
	case ComponentChanged:
		m.sel.Refresh()
		m.dispatch()
	}
}

func (m *Model) rebuild(entities []ecs.Entity) {
	if entities == nil {
		entities = m.sel.Entities()
	}
	m.updateSelection(entities)
}

func (m *Model) updateSelection(entities []ecs.Entity) {
	m.sel = selection.New(m.ctx, entities)
	m.sel.History = m.History
	m.sel.OnChange = m.dispatch
	m.sizeLock.Reset()
	m.scaleLock.Reset()
	m.applySelectionSettings()
	m.dispatch()
}

func (m *Model) applySelectionSettings() {
	s := m.Settings()
	m.sel.History = m.History
	m.sel.SetPivot(s.PivotType.Vector())
	m.sel.SetSource(s.BoundsSource)
}

func (m *Model) dispatch() {
	if m.OnChange != nil {
		m.OnChange()
	}
}

// snapSelection moves the selection onto guides and the pixel grid without
// recording undo or notifying on the intermediate write.
func (m *Model) snapSelection() {
	engine := snap.Engine{Guides: m.guides, Settings: m.Settings(), Converter: m.Converter()}
	act := engine.SnapPosition(m.sel, m.Zoom)

	history, onChange := m.sel.History, m.sel.OnChange
	m.sel.History, m.sel.OnChange = nil, nil
	snap.Apply(m.sel, act)
	m.sel.History, m.sel.OnChange = history, onChange
}

// Align lines up the selection on anchor.
func (m *Model) Align(anchor layout.Anchor) error {
	return layout.Align(m.sel, anchor)
}

// Distribute spreads the selection. A NaN spacing is automatic; any other
// value is in the display unit type.
func (m *Model) Distribute(mode layout.Mode, spacing float64) error {
	spec := layout.Auto(mode)
	if !math.IsNaN(spacing) {
		spec = layout.Fixed(mode, m.Converter().FromDisplay(spacing, m.Settings().UnitType))
	}
	return layout.Distribute(m.sel, spec)
}

// FixSpritePPU sets the first entity's sprite asset PPU to the project PPU
// and restores its size and position afterwards.
func (m *Model) FixSpritePPU() error {
	if m.sel.IsEmpty() || m.Assets == nil {
		return nil
	}
	h := m.sel.First()
	prevSize, prevPos := h.Size(), h.Position()
	if err := m.Assets.SetPixelsPerUnit(h.Entity(), m.Settings().ProjectPPU); err != nil {
		return err
	}
	h.Refresh()
	if h.Source().Editable() {
		if err := h.SetSize(prevSize); err != nil {
			return err
		}
	}
	h.SetPosition(prevPos)
	m.rebuild(nil)
	return nil
}

// FixSpritePivot rounds the first entity's sprite pivot to whole pixels at
// its current scale.
func (m *Model) FixSpritePivot() error {
	if m.sel.IsEmpty() || m.Assets == nil {
		return nil
	}
	h := m.sel.First()
	if err := m.Assets.SnapPivotToPixel(h.Entity(), h.LocalScale()); err != nil {
		return err
	}
	m.rebuild(nil)
	return nil
}

// SpritePivot is the single entity's sprite pivot in display units.
func (m *Model) SpritePivot() cp.Vector {
	if !m.sel.IsSingle() || !m.hasRenderer() {
		return cp.Vector{}
	}
	return m.Converter().VecToDisplay(m.sel.First().SpritePivot(), m.Settings().UnitType)
}
