package main

import (
	"fmt"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/bounds"
	"github.com/milk9111/transform2d/ecs"
	"github.com/milk9111/transform2d/geom"
	"github.com/milk9111/transform2d/guides"
	"github.com/milk9111/transform2d/layout"
	"github.com/milk9111/transform2d/model"
	"github.com/milk9111/transform2d/selection"
	"github.com/milk9111/transform2d/settings"
	"github.com/milk9111/transform2d/units"
)

// guideHitPixels is how close the cursor must be to grab a guide.
const guideHitPixels = 4

type dragKind int

const (
	dragNone dragKind = iota
	dragSelection
	dragGuide
	dragPan
)

type dragState struct {
	kind       dragKind
	guide      int
	startMouse cp.Vector
	startPos   cp.Vector
	lastX      int
	lastY      int
}

var alignKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5, ebiten.Key6, ebiten.Key7, ebiten.Key8}

var boundsSources = []bounds.Source{bounds.None, bounds.Sprite, bounds.Collider}

func ctrl() bool {
	return ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
}

func shift() bool {
	return ebiten.IsKeyPressed(ebiten.KeyShift)
}

func (s *Sandbox) handleInput() {
	mx, my := ebiten.CursorPosition()

	if _, wy := ebiten.Wheel(); wy != 0 {
		factor := 1.1
		if wy < 0 {
			factor = 1 / 1.1
		}
		s.view.zoomAt(mx, my, factor)
	}

	s.handleMouse(mx, my)
	s.handleKeys()
}

func (s *Sandbox) handleMouse(mx, my int) {
	world := s.view.toWorld(mx, my)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle) {
		s.drag = dragState{kind: dragPan, lastX: mx, lastY: my}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		s.pressLeft(mx, my, world)
	}

	switch s.drag.kind {
	case dragPan:
		s.view.pan(mx-s.drag.lastX, my-s.drag.lastY)
		s.drag.lastX, s.drag.lastY = mx, my
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonMiddle) {
			s.drag = dragState{}
		}
	case dragSelection:
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			s.model.Selection().SetPosition(s.drag.startPos.Add(world.Sub(s.drag.startMouse)))
			s.model.Handle(model.TransformChanged{Origin: model.OriginScene, Kind: model.TransformMove})
		}
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
			s.history.end()
			s.drag = dragState{}
		}
	case dragGuide:
		g, ok := s.store.Get(s.drag.guide)
		if ok && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			if _, err := s.store.Apply(guides.Drag{Index: s.drag.guide, Position: guidePosition(g.Axis, world)}); err != nil {
				log.Printf("[sandbox] drag guide: %v", err)
			}
		}
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
			if ok && inRuler(g.Axis, mx, my) {
				if err := s.store.Remove(s.drag.guide); err != nil {
					log.Printf("[sandbox] remove guide: %v", err)
				}
			}
			if _, err := s.store.Apply(guides.Drop{}); err != nil {
				log.Printf("[sandbox] drop guide: %v", err)
			}
			s.history.end()
			s.drag = dragState{}
		}
	}
}

// guidePosition is the coordinate a guide on axis takes at p.
func guidePosition(axis geom.Axis, p cp.Vector) float64 {
	if axis == geom.Horizontal {
		return p.Y
	}
	return p.X
}

// inRuler reports whether the cursor is over the ruler guides of axis are
// dragged out of.
func inRuler(axis geom.Axis, mx, my int) bool {
	if axis == geom.Horizontal {
		return my < rulerSize
	}
	return mx < rulerSize
}

func (s *Sandbox) pressLeft(mx, my int, world cp.Vector) {
	for _, axis := range []geom.Axis{geom.Horizontal, geom.Vertical} {
		if !inRuler(axis, mx, my) {
			continue
		}
		s.history.begin()
		i, err := s.store.Apply(guides.CreateByDrag{Guide: guides.Guide{Axis: axis, Position: guidePosition(axis, world)}})
		if err != nil {
			log.Printf("[sandbox] create guide: %v", err)
			s.history.end()
			return
		}
		s.drag = dragState{kind: dragGuide, guide: i}
		return
	}

	if i, ok := s.guideAt(mx, my); ok {
		g, _ := s.store.Get(i)
		s.history.begin()
		if _, err := s.store.Apply(guides.StartDrag{Index: i, Position: g.Position}); err != nil {
			log.Printf("[sandbox] start guide drag: %v", err)
		}
		s.drag = dragState{kind: dragGuide, guide: i}
		return
	}

	e, hit := s.entityAt(world)
	sel := s.model.Selection()
	switch {
	case !hit:
		if !shift() {
			s.model.Handle(model.SelectionChanged{})
		}
		return
	case shift():
		s.model.Handle(model.SelectionChanged{Entities: toggle(sel.Entities(), e)})
		return
	case !contains(sel.Entities(), e):
		s.model.Handle(model.SelectionChanged{Entities: []ecs.Entity{e}})
	}

	sel = s.model.Selection()
	if sel.IsEmpty() {
		return
	}
	s.history.begin()
	s.drag = dragState{kind: dragSelection, startMouse: world, startPos: sel.Position()}
}

// guideAt finds a visible guide under the cursor.
func (s *Sandbox) guideAt(mx, my int) (int, bool) {
	if !s.model.Settings().ShowGuides {
		return -1, false
	}
	for i, g := range s.store.List() {
		var d float64
		if g.Axis == geom.Horizontal {
			_, y := s.view.toScreen(cp.Vector{Y: g.Position})
			d = math.Abs(float64(y) - float64(my))
		} else {
			x, _ := s.view.toScreen(cp.Vector{X: g.Position})
			d = math.Abs(float64(x) - float64(mx))
		}
		if d <= guideHitPixels {
			return i, true
		}
	}
	return -1, false
}

// entityAt returns the last entity in scene order whose box contains p.
func (s *Sandbox) entityAt(p cp.Vector) (ecs.Entity, bool) {
	src := s.model.Settings().BoundsSource
	for i := len(s.entities) - 1; i >= 0; i-- {
		h := selection.NewHandle(s.ctx, s.entities[i])
		h.SetSource(src)
		if h.Bounds().AxisAligned().Contains(p) {
			return s.entities[i], true
		}
	}
	return 0, false
}

func contains(list []ecs.Entity, e ecs.Entity) bool {
	for _, x := range list {
		if x == e {
			return true
		}
	}
	return false
}

func toggle(list []ecs.Entity, e ecs.Entity) []ecs.Entity {
	out := make([]ecs.Entity, 0, len(list)+1)
	for _, x := range list {
		if x != e {
			out = append(out, x)
		}
	}
	if len(out) == len(list) {
		out = append(out, e)
	}
	return out
}

func (s *Sandbox) handleKeys() {
	if ctrl() {
		s.handleShortcuts()
		return
	}

	for i, key := range alignKeys {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		var err error
		if shift() {
			mode := layout.Mode(i)
			err = s.model.Distribute(mode, math.NaN())
			s.setStatus("distribute " + mode.String())
		} else if i < 6 {
			anchor := layout.Anchor(i)
			err = s.model.Align(anchor)
			s.setStatus("align " + anchor.String())
		}
		if err != nil {
			s.setStatus(err.Error())
		}
	}

	toggles := []struct {
		key  ebiten.Key
		name string
		fn   func(*settings.Settings)
	}{
		{ebiten.KeyE, "enabled", func(st *settings.Settings) { st.Enabled = !st.Enabled }},
		{ebiten.KeyP, "snap to pixel", func(st *settings.Settings) { st.SnapToPixel = !st.SnapToPixel }},
		{ebiten.KeyG, "show guides", func(st *settings.Settings) { st.ShowGuides = !st.ShowGuides }},
		{ebiten.KeyH, "snap only if shown", func(st *settings.Settings) { st.SnapToGuidesIfShown = !st.SnapToGuidesIfShown }},
		{ebiten.KeyK, "constrain proportions", func(st *settings.Settings) { st.ConstrainProportions = !st.ConstrainProportions }},
		{ebiten.KeyU, "unit type", func(st *settings.Settings) { st.UnitType = 1 - st.UnitType }},
		{ebiten.KeyL, "unit space", func(st *settings.Settings) { st.UnitSpace = 1 - st.UnitSpace }},
		{ebiten.KeyB, "bounds source", func(st *settings.Settings) { st.BoundsSource = nextSource(st.BoundsSource) }},
		{ebiten.KeyV, "pivot", func(st *settings.Settings) {
			st.PivotType = geom.PivotTypes[(int(st.PivotType)+1)%len(geom.PivotTypes)]
		}},
	}
	for _, tg := range toggles {
		if !inpututil.IsKeyJustPressed(tg.key) {
			continue
		}
		if err := s.model.UpdateSettings(tg.fn); err != nil {
			log.Printf("[sandbox] save settings: %v", err)
		}
		s.setStatus("toggled " + tg.name)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		s.runMacros()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if err := s.loadScene(); err != nil {
			s.setStatus(err.Error())
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDelete) {
		s.store.ClearAll()
		s.setStatus("guides cleared")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		s.fixSprite()
	}

	s.nudge()
	s.rotateAndResize()
}

func nextSource(src bounds.Source) bounds.Source {
	for i, s := range boundsSources {
		if s == src {
			return boundsSources[(i+1)%len(boundsSources)]
		}
	}
	return boundsSources[0]
}

func (s *Sandbox) handleShortcuts() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyZ):
		label, ok := s.history.undo()
		if !ok {
			s.setStatus("nothing to undo")
			return
		}
		s.model.Handle(model.ComponentChanged{})
		s.setStatus("undo " + label)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		pos := s.model.Transform().Position
		s.board.SetVector2(pos)
		s.setStatus("copied " + s.board.Text())
	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		pos, err := s.board.Vector2()
		if err != nil {
			s.setStatus(err.Error())
			return
		}
		if err := s.model.SetPosition(pos); err != nil {
			s.setStatus(err.Error())
			return
		}
		s.setStatus(fmt.Sprintf("pasted %v", pos))
	}
}

// nudge moves the selection one display unit per arrow press, ten with
// shift held.
func (s *Sandbox) nudge() {
	step := 1.0
	if s.model.Settings().UnitType == units.WorldUnits {
		step = 0.1
	}
	if shift() {
		step *= 10
	}
	var d cp.Vector
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		d.X = -step
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		d.X = step
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		d.Y = step
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		d.Y = -step
	default:
		return
	}
	if err := s.model.SetPosition(s.model.Transform().Position.Add(d)); err != nil {
		s.setStatus(err.Error())
	}
}

// rotateAndResize turns the selection with [ and ] and grows or shrinks it
// with = and -.
func (s *Sandbox) rotateAndResize() {
	td := s.model.Transform()
	var err error
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		err = s.model.SetRotation(td.Rotation - 15)
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		err = s.model.SetRotation(td.Rotation + 15)
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		err = s.model.SetSize(td.Size.Mult(1.1))
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		err = s.model.SetSize(td.Size.Mult(1 / 1.1))
	}
	if err != nil {
		s.setStatus(err.Error())
	}
}

// fixSprite applies the sprite PPU and pivot fixes the view data asks for.
func (s *Sandbox) fixSprite() {
	if !s.data.IsSingleSelection() || !s.data.HasRenderer {
		return
	}
	if !s.data.IsMatchingPPU {
		if err := s.model.FixSpritePPU(); err != nil {
			s.setStatus(err.Error())
			return
		}
		s.setStatus("sprite ppu fixed")
		return
	}
	if !s.data.PivotIsPixelPerfect {
		if err := s.model.FixSpritePivot(); err != nil {
			s.setStatus(err.Error())
			return
		}
		s.setStatus("sprite pivot fixed")
	}
}
