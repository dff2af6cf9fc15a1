package geom

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Bounds is a box described by its center and its size. Size components are
// never negative.
type Bounds struct {
	Center cp.Vector
	Size   cp.Vector
}

// FromMinMax builds bounds spanning min to max.
func FromMinMax(min, max cp.Vector) Bounds {
	size := cp.Vector{X: math.Abs(max.X - min.X), Y: math.Abs(max.Y - min.Y)}
	return Bounds{
		Center: cp.Vector{X: (min.X + max.X) * 0.5, Y: (min.Y + max.Y) * 0.5},
		Size:   size,
	}
}

// FromBB converts a chipmunk bounding box.
func FromBB(bb cp.BB) Bounds {
	return FromMinMax(cp.Vector{X: bb.L, Y: bb.B}, cp.Vector{X: bb.R, Y: bb.T})
}

// Encapsulate returns the smallest bounds containing every point. An empty
// point list yields zero bounds.
func Encapsulate(points ...cp.Vector) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return FromMinMax(min, max)
}

func (b Bounds) Extents() cp.Vector {
	return cp.Vector{X: b.Size.X * 0.5, Y: b.Size.Y * 0.5}
}

func (b Bounds) Min() cp.Vector {
	e := b.Extents()
	return cp.Vector{X: b.Center.X - e.X, Y: b.Center.Y - e.Y}
}

func (b Bounds) Max() cp.Vector {
	e := b.Extents()
	return cp.Vector{X: b.Center.X + e.X, Y: b.Center.Y + e.Y}
}

// BB converts the bounds to a chipmunk bounding box.
func (b Bounds) BB() cp.BB {
	min, max := b.Min(), b.Max()
	return cp.BB{L: min.X, B: min.Y, R: max.X, T: max.Y}
}

// Corners returns bottom-left, top-left, top-right and bottom-right.
func (b Bounds) Corners() [4]cp.Vector {
	min, max := b.Min(), b.Max()
	return [4]cp.Vector{
		{X: min.X, Y: min.Y},
		{X: min.X, Y: max.Y},
		{X: max.X, Y: max.Y},
		{X: max.X, Y: min.Y},
	}
}

// Transformed maps the four corners through m and returns their bounds.
func (b Bounds) Transformed(m Affine) Bounds {
	c := b.Corners()
	return Encapsulate(m.Point(c[0]), m.Point(c[1]), m.Point(c[2]), m.Point(c[3]))
}

// Union returns bounds containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	bMin, bMax := b.Min(), b.Max()
	oMin, oMax := o.Min(), o.Max()
	return Encapsulate(bMin, bMax, oMin, oMax)
}

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p cp.Vector) bool {
	min, max := b.Min(), b.Max()
	return p.X >= min.X && p.X <= max.X && p.Y >= min.Y && p.Y <= max.Y
}

// IsZero reports whether both center and size are zero.
func (b Bounds) IsZero() bool {
	return b.Center == (cp.Vector{}) && b.Size == (cp.Vector{})
}
