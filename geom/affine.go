package geom

import (
	"math"

	"github.com/jakecoffman/cp"
	"gonum.org/v1/gonum/mat"
)

// Affine is a 2D affine transform:
//
//	x' = A*x + C*y + Tx
//	y' = B*x + D*y + Ty
type Affine struct {
	A, B, C, D float64
	Tx, Ty     float64
}

// Identity is the identity transform.
var Identity = Affine{A: 1, D: 1}

// TRS composes translation, rotation in degrees (counter-clockwise) and
// scale, applied as scale first and translation last.
func TRS(pos cp.Vector, degrees float64, scale cp.Vector) Affine {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Affine{
		A:  cos * scale.X,
		B:  sin * scale.X,
		C:  -sin * scale.Y,
		D:  cos * scale.Y,
		Tx: pos.X,
		Ty: pos.Y,
	}
}

// Mul returns m*o, the transform that applies o first and then m.
func (m Affine) Mul(o Affine) Affine {
	return Affine{
		A:  m.A*o.A + m.C*o.B,
		B:  m.B*o.A + m.D*o.B,
		C:  m.A*o.C + m.C*o.D,
		D:  m.B*o.C + m.D*o.D,
		Tx: m.A*o.Tx + m.C*o.Ty + m.Tx,
		Ty: m.B*o.Tx + m.D*o.Ty + m.Ty,
	}
}

// Point transforms a position.
func (m Affine) Point(p cp.Vector) cp.Vector {
	return cp.Vector{X: m.A*p.X + m.C*p.Y + m.Tx, Y: m.B*p.X + m.D*p.Y + m.Ty}
}

// Vector transforms a direction, ignoring translation.
func (m Affine) Vector(v cp.Vector) cp.Vector {
	return cp.Vector{X: m.A*v.X + m.C*v.Y, Y: m.B*v.X + m.D*v.Y}
}

// Translation returns the translation component.
func (m Affine) Translation() cp.Vector {
	return cp.Vector{X: m.Tx, Y: m.Ty}
}

func (m Affine) Determinant() float64 {
	return m.A*m.D - m.B*m.C
}

func (m Affine) dense() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		m.A, m.C, m.Tx,
		m.B, m.D, m.Ty,
		0, 0, 1,
	})
}

// Inverse returns the inverse transform. A singular transform (for example
// one with a zero scale axis) reports false and yields Identity.
func (m Affine) Inverse() (Affine, bool) {
	if m.Determinant() == 0 {
		return Identity, false
	}
	var inv mat.Dense
	if err := inv.Inverse(m.dense()); err != nil {
		return Identity, false
	}
	return Affine{
		A:  inv.At(0, 0),
		C:  inv.At(0, 1),
		Tx: inv.At(0, 2),
		B:  inv.At(1, 0),
		D:  inv.At(1, 1),
		Ty: inv.At(1, 2),
	}, true
}
