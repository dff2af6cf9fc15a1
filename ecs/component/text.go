package component

import "github.com/jakecoffman/cp"

// Text is a text block laid out in a rect. Pivot is normalized and places the
// rect relative to the entity origin.
type Text struct {
	Content string
	Size    cp.Vector
	Pivot   cp.Vector
}

var TextComponent = NewComponent[Text]()
