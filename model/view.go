package model

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/bounds"
	"github.com/milk9111/transform2d/ecs"
	"github.com/milk9111/transform2d/ecs/component"
	"github.com/milk9111/transform2d/geom"
	"github.com/milk9111/transform2d/settings"
)

// ViewData is a snapshot of everything the inspector renders.
type ViewData struct {
	Is2DMode            bool
	ObjectCount         int
	HasPrefab           bool
	HasNesting          bool
	ActiveName          string
	Transform           TransformData
	Settings            settings.Settings
	ActiveSource        bounds.Source
	UnscaledSize        cp.Vector
	SpritePivot         cp.Vector
	SpriteIsDownscaled  bool
	SpritePPU           float64
	SpritePPUSetting    float64
	HasRenderer         bool
	HasCollider         bool
	HasText             bool
	IsMatchingPPU       bool
	PivotIsPixelPerfect bool
	CameraCount         int
	TextCount           int
}

func (v ViewData) IsNoSelection() bool     { return v.ObjectCount == 0 }
func (v ViewData) IsSingleSelection() bool { return v.ObjectCount == 1 }
func (v ViewData) IsMultiSelection() bool  { return v.ObjectCount > 1 }
func (v ViewData) HasCamera() bool         { return v.CameraCount > 0 }

func (v ViewData) SizeIsEditable() bool {
	return v.IsSingleSelection() && v.ActiveSource.Editable()
}

func (v ViewData) ScaleIsEditable() bool    { return v.IsSingleSelection() }
func (v ViewData) RotationIsEditable() bool { return v.IsSingleSelection() }

// View collects the current view data.
func (m *Model) View() ViewData {
	sel := m.sel
	v := ViewData{
		Is2DMode:            m.is2D,
		ObjectCount:         sel.Count(),
		HasPrefab:           sel.HasPrefab(),
		HasNesting:          sel.HasNesting(),
		Settings:            *m.Settings(),
		ActiveSource:        sel.Source(),
		HasRenderer:         m.hasRenderer(),
		HasCollider:         m.any(func(f bounds.Features) bool { return f.Collider }),
		HasText:             m.any(func(f bounds.Features) bool { return f.Text && !f.Camera }),
		CameraCount:         m.count(func(f bounds.Features) bool { return f.Camera }),
		TextCount:           m.count(func(f bounds.Features) bool { return f.Text && !f.Camera }),
		IsMatchingPPU:       m.isMatchingPPU(),
		PivotIsPixelPerfect: m.isPivotPixelPerfect(),
	}
	if first := sel.First(); first != nil {
		if name, ok := ecs.Get(m.ctx.World, first.Entity(), component.NameComponent.Kind()); ok {
			v.ActiveName = name.Value
		}
	}
	if v.ObjectCount > 0 && !v.HasPrefab && !v.HasNesting {
		v.Transform = m.Transform()
		v.UnscaledSize = m.toDisplay(sel.UnscaledSize())
	}
	if sel.IsSingle() && v.HasRenderer {
		first := sel.First()
		v.SpritePivot = m.SpritePivot()
		v.SpritePPU = first.SpritePPU()
		v.SpritePPUSetting = first.SpritePPUSetting()
		v.SpriteIsDownscaled = first.IsSpriteDownscaled()
	}
	return v
}

func (m *Model) any(pred func(bounds.Features) bool) bool {
	return m.count(pred) > 0
}

func (m *Model) count(pred func(bounds.Features) bool) int {
	n := 0
	for _, h := range m.sel.Children() {
		if pred(h.Features()) {
			n++
		}
	}
	return n
}

func (m *Model) hasRenderer() bool {
	return m.any(func(f bounds.Features) bool { return f.Renderer })
}

// isMatchingPPU reports whether every sprite uses the project PPU.
func (m *Model) isMatchingPPU() bool {
	ppu := m.Settings().ProjectPPU
	for _, h := range m.sel.Children() {
		if h.Features().Renderer && !geom.Approximately(h.SpritePPUSetting(), ppu) {
			return false
		}
	}
	return true
}

// isPivotPixelPerfect only matters for a single sprite with pixel snapping
// on; every other case reports true.
func (m *Model) isPivotPixelPerfect() bool {
	if !m.sel.IsSingle() || !m.hasRenderer() || !m.Settings().SnapToPixel {
		return true
	}
	h := m.sel.First()
	spr, ok := ecs.Get(m.ctx.World, h.Entity(), component.SpriteComponent.Kind())
	if !ok {
		return true
	}
	return pivotPixelPerfect(spr, h.LocalScale())
}
