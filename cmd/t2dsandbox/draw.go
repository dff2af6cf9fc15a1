package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/bounds"
	"github.com/milk9111/transform2d/geom"
	"github.com/milk9111/transform2d/selection"
	"github.com/milk9111/transform2d/snap"
	"golang.org/x/image/colornames"
)

var sourceColors = map[bounds.Source]color.Color{
	bounds.Camera:   colornames.Plum,
	bounds.Collider: colornames.Lightgreen,
	bounds.Sprite:   colornames.Lightskyblue,
	bounds.Text:     colornames.Khaki,
	bounds.None:     colornames.Gray,
}

func (s *Sandbox) Draw(screen *ebiten.Image) {
	screen.Fill(s.background)

	s.drawEntities(screen)
	s.drawSelection(screen)
	if s.model.Settings().ShowGuides {
		s.drawGuides(screen)
	}
	s.drawRulers(screen)
	s.drawHUD(screen)
}

func (s *Sandbox) strokeBounds(screen *ebiten.Image, b geom.Bounds, width float32, clr color.Color) {
	x0, y0 := s.view.toScreen(b.Min())
	x1, y1 := s.view.toScreen(b.Max())
	vector.StrokeRect(screen, x0, y1, x1-x0, y0-y1, width, clr, false)
}

func (s *Sandbox) drawCross(screen *ebiten.Image, p cp.Vector, clr color.Color) {
	x, y := s.view.toScreen(p)
	vector.StrokeLine(screen, x-5, y, x+5, y, 1, clr, true)
	vector.StrokeLine(screen, x, y-5, x, y+5, 1, clr, true)
}

func (s *Sandbox) drawEntities(screen *ebiten.Image) {
	src := s.model.Settings().BoundsSource
	for _, e := range s.entities {
		h := selection.NewHandle(s.ctx, e)
		h.SetSource(src)
		s.strokeBounds(screen, h.Bounds().AxisAligned(), 1, sourceColors[h.Source()])
	}
}

func (s *Sandbox) drawSelection(screen *ebiten.Image) {
	sel := s.model.Selection()
	if sel.IsEmpty() {
		return
	}
	for _, h := range sel.Children() {
		s.strokeBounds(screen, h.Bounds().AxisAligned(), 2, colornames.Gold)
	}
	if !sel.IsSingle() {
		s.strokeBounds(screen, sel.Bounds(), 1, colornames.Orange)
	}
	s.drawCross(screen, sel.Position(), colornames.Red)
}

// drawGuides highlights guides the selection currently sits on.
func (s *Sandbox) drawGuides(screen *ebiten.Image) {
	sel := s.model.Selection()
	force := snap.Force(s.model.Zoom)
	for _, axis := range []geom.Axis{geom.Horizontal, geom.Vertical} {
		clr := color.Color(colornames.Cyan)
		if !sel.IsEmpty() && s.store.IsSnap(sel.Bounds(), force, axis) {
			clr = colornames.Orangered
		}
		for _, g := range s.store.Visible(axis) {
			if axis == geom.Horizontal {
				_, y := s.view.toScreen(cp.Vector{Y: g.Position})
				vector.StrokeLine(screen, 0, y, baseWidth, y, 1, clr, false)
			} else {
				x, _ := s.view.toScreen(cp.Vector{X: g.Position})
				vector.StrokeLine(screen, x, 0, x, baseHeight, 1, clr, false)
			}
		}
	}
}

func (s *Sandbox) drawRulers(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, baseWidth, rulerSize, colornames.Dimgray, false)
	vector.DrawFilledRect(screen, 0, 0, rulerSize, baseHeight, colornames.Dimgray, false)

	// One tick per world unit.
	b := s.view.bounds()
	lo, hi := b.Min(), b.Max()
	for u := float64(int(lo.X)) - 1; u <= hi.X; u++ {
		x, _ := s.view.toScreen(cp.Vector{X: u})
		vector.StrokeLine(screen, x, rulerSize/2, x, rulerSize, 1, colornames.Lightgray, false)
	}
	for u := float64(int(lo.Y)) - 1; u <= hi.Y; u++ {
		_, y := s.view.toScreen(cp.Vector{Y: u})
		vector.StrokeLine(screen, rulerSize/2, y, rulerSize, y, 1, colornames.Lightgray, false)
	}
}

func (s *Sandbox) drawHUD(screen *ebiten.Image) {
	d := s.data
	st := d.Settings
	var b strings.Builder

	fmt.Fprintf(&b, "scene %s  zoom %.2f  FPS %.0f\n", s.scene.Name, s.view.zoom, ebiten.ActualFPS())
	fmt.Fprintf(&b, "enabled %v  pixel %v  guides %v  ifShown %v  lock %v\n",
		st.Enabled, st.SnapToPixel, st.ShowGuides, st.SnapToGuidesIfShown, st.ConstrainProportions)
	fmt.Fprintf(&b, "units %s  space %s  source %s  pivot %s\n", st.UnitType, st.UnitSpace, st.BoundsSource, st.PivotType)

	switch {
	case d.IsNoSelection():
		b.WriteString("no selection\n")
	default:
		fmt.Fprintf(&b, "%d selected (%s) via %s\n", d.ObjectCount, d.ActiveName, d.ActiveSource)
		td := d.Transform
		fmt.Fprintf(&b, "pos %.2f, %.2f  size %.2f, %.2f  scale %.2f, %.2f  rot %.1f\n",
			td.Position.X, td.Position.Y, td.Size.X, td.Size.Y, td.Scale.X, td.Scale.Y, td.Rotation)
		if d.HasRenderer && d.IsSingleSelection() {
			fmt.Fprintf(&b, "sprite ppu %.0f/%.0f  pivot %.2f, %.2f", d.SpritePPU, d.SpritePPUSetting, d.SpritePivot.X, d.SpritePivot.Y)
			if !d.IsMatchingPPU || !d.PivotIsPixelPerfect {
				b.WriteString("  [F] fix")
			}
			b.WriteString("\n")
		}
	}
	if s.status != "" {
		b.WriteString(s.status)
	}

	ebitenutil.DebugPrintAt(screen, b.String(), rulerSize+4, rulerSize+4)
}
