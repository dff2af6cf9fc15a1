package geom

import (
	"math"

	"github.com/jakecoffman/cp"
	"gonum.org/v1/gonum/floats/scalar"
)

// Epsilon is the tolerance used by Approximately.
const Epsilon = 1e-5

// Approximately compares two floats with a mixed absolute/relative tolerance.
func Approximately(a, b float64) bool {
	if a == b {
		return true
	}
	return scalar.EqualWithinAbsOrRel(a, b, Epsilon, Epsilon)
}

// ApproximatelyVec compares two vectors component-wise.
func ApproximatelyVec(a, b cp.Vector) bool {
	return Approximately(a.X, b.X) && Approximately(a.Y, b.Y)
}

// Rotate turns v counter-clockwise by degrees.
func Rotate(v cp.Vector, degrees float64) cp.Vector {
	if degrees == 0 {
		return v
	}
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	return cp.Vector{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}

// NormalizeDegrees wraps an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// Mul multiplies two vectors component-wise.
func Mul(a, b cp.Vector) cp.Vector {
	return cp.Vector{X: a.X * b.X, Y: a.Y * b.Y}
}

// Div divides a by b component-wise. A zero component of b is treated as 1.
func Div(a, b cp.Vector) cp.Vector {
	return cp.Vector{X: a.X / nonZero(b.X), Y: a.Y / nonZero(b.Y)}
}

// DivOrZero divides a by b component-wise; a zero component of b yields 0.
func DivOrZero(a, b cp.Vector) cp.Vector {
	var out cp.Vector
	if b.X != 0 {
		out.X = a.X / b.X
	}
	if b.Y != 0 {
		out.Y = a.Y / b.Y
	}
	return out
}

// Abs returns the component-wise absolute value.
func Abs(v cp.Vector) cp.Vector {
	return cp.Vector{X: math.Abs(v.X), Y: math.Abs(v.Y)}
}

func nonZero(f float64) float64 {
	if f == 0 {
		return 1
	}
	return f
}

// NaNVector is returned by aggregate queries on an empty set.
var NaNVector = cp.Vector{X: math.NaN(), Y: math.NaN()}
