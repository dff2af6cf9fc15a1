package model

import "github.com/jakecoffman/cp"

type lockState int

const (
	lockFree lockState = iota
	lockX
	lockY
)

// ProportionLock keeps the ratio between the two axes of an edited vector.
// Zeroing one axis remembers its last non-zero value so the ratio survives
// the round trip through zero.
type ProportionLock struct {
	state  lockState
	cached float64
}

// Constrain adjusts next so that the axis the user did not edit follows the
// one they did.
func (l *ProportionLock) Constrain(prev, next cp.Vector) cp.Vector {
	if next == (cp.Vector{}) {
		l.state = lockFree
		return next
	}

	switch {
	case next.X != prev.X:
		if next.X == 0 && prev.X != 0 {
			l.state, l.cached = lockX, prev.X
			return next
		}
		factor := prev.X
		if l.state == lockX {
			factor = l.cached
		}
		if factor != 0 {
			next.Y *= next.X / factor
		}
		l.state = lockFree
	case next.Y != prev.Y:
		if next.Y == 0 && prev.Y != 0 {
			l.state, l.cached = lockY, prev.Y
			return next
		}
		factor := prev.Y
		if l.state == lockY {
			factor = l.cached
		}
		if factor != 0 {
			next.X *= next.Y / factor
		}
		l.state = lockFree
	}
	return next
}

// Reset forgets any remembered axis.
func (l *ProportionLock) Reset() {
	l.state = lockFree
}
