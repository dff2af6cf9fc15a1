// Package settings holds the editor preferences that drive units, pivots and
// snapping, and persists them between sessions.
package settings

import (
	"github.com/milk9111/transform2d/bounds"
	"github.com/milk9111/transform2d/geom"
	"github.com/milk9111/transform2d/units"
)

// GuideSnapForce is the base guide snapping tolerance before the view zoom
// is applied.
const GuideSnapForce = 0.1

type Settings struct {
	Enabled              bool           `yaml:"enabled"`
	SnapToPixel          bool           `yaml:"snapToPixel"`
	ShowGuides           bool           `yaml:"showGuides"`
	SnapToGuidesIfShown  bool           `yaml:"snapToGuidesIfShown"`
	ConstrainProportions bool           `yaml:"constrainProportions"`
	ProjectPPU           float64        `yaml:"projectPpu"`
	PivotType            geom.PivotType `yaml:"pivotType"`
	UnitType             units.Type     `yaml:"unitType"`
	UnitSpace            units.Space    `yaml:"unitSpace"`
	BoundsSource         bounds.Source  `yaml:"boundsSource"`
}

// Default returns the settings a fresh install starts with.
func Default() *Settings {
	return &Settings{
		Enabled:             true,
		ShowGuides:          true,
		SnapToGuidesIfShown: true,
		ProjectPPU:          units.DefaultPPU,
		PivotType:           geom.PivotCenter,
		UnitType:            units.Pixels,
		UnitSpace:           units.Global,
		BoundsSource:        bounds.None,
	}
}

// SnapToGuides reports whether guides are both shown and snapped to.
func (s *Settings) SnapToGuides() bool {
	return s != nil && s.SnapToGuidesIfShown && s.ShowGuides
}

// Snapping reports whether any kind of snapping is active.
func (s *Settings) Snapping() bool {
	return s != nil && (s.SnapToPixel || s.SnapToGuides())
}

// Converter returns a unit converter for the project PPU.
func (s *Settings) Converter() units.Converter {
	if s == nil {
		return units.Converter{}
	}
	return units.NewConverter(s.ProjectPPU)
}
