package component

import "github.com/jakecoffman/cp"

// Sprite describes the image a renderer draws. Rect and Pivot are in source
// pixels; Pivot is measured from the rect's bottom-left corner.
type Sprite struct {
	Image         string
	Rect          cp.Vector
	Pivot         cp.Vector
	PixelsPerUnit float64

	// ImportPPU is the pixels-per-unit configured on the asset. A smaller
	// PixelsPerUnit means the texture was downscaled on import. Zero means
	// the same as PixelsPerUnit.
	ImportPPU float64
}

// HasImage reports whether the renderer has a drawable sprite.
func (s *Sprite) HasImage() bool {
	return s != nil && s.Rect.X > 0 && s.Rect.Y > 0 && s.PixelsPerUnit > 0
}

var SpriteComponent = NewComponent[Sprite]()
