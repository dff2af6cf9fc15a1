package main

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/geom"
	"github.com/milk9111/transform2d/units"
)

const (
	minZoom = 0.25
	maxZoom = 8.0
)

// view maps the y-up world onto the y-down screen. At zoom 1 one world unit
// covers units.DefaultPPU screen pixels.
type view struct {
	center cp.Vector
	zoom   float64
	width  float64
	height float64
}

func newView(width, height float64) view {
	return view{zoom: 1, width: width, height: height}
}

func (v view) scale() float64 {
	return v.zoom * units.DefaultPPU
}

func (v view) toScreen(p cp.Vector) (float32, float32) {
	s := v.scale()
	x := (p.X-v.center.X)*s + v.width/2
	y := v.height/2 - (p.Y-v.center.Y)*s
	return float32(x), float32(y)
}

func (v view) toWorld(sx, sy int) cp.Vector {
	s := v.scale()
	return cp.Vector{
		X: (float64(sx)-v.width/2)/s + v.center.X,
		Y: (v.height/2-float64(sy))/s + v.center.Y,
	}
}

// bounds is the visible world rect.
func (v view) bounds() geom.Bounds {
	s := v.scale()
	return geom.Bounds{Center: v.center, Size: cp.Vector{X: v.width / s, Y: v.height / s}}
}

// orthoSize is half the visible height in world units, the zoom figure the
// guide tolerance scales with.
func (v view) orthoSize() float64 {
	return v.height / 2 / v.scale()
}

// zoomAt changes the zoom by factor keeping the world point under the cursor
// fixed.
func (v *view) zoomAt(sx, sy int, factor float64) {
	before := v.toWorld(sx, sy)
	v.zoom = math.Max(minZoom, math.Min(maxZoom, v.zoom*factor))
	after := v.toWorld(sx, sy)
	v.center = v.center.Add(before.Sub(after))
}

func (v *view) pan(dx, dy int) {
	s := v.scale()
	v.center = v.center.Sub(cp.Vector{X: float64(dx) / s, Y: -float64(dy) / s})
}
