package bounds

import "fmt"

// Source names the component an entity's bounds come from. Declaration order
// is also the group priority order: the lowest source among a group wins.
type Source int

const (
	Camera Source = iota
	Collider
	Sprite
	Text
	None
)

var sourceNames = [...]string{
	Camera:   "camera",
	Collider: "collider",
	Sprite:   "sprite",
	Text:     "text",
	None:     "none",
}

func (s Source) String() string {
	if s < 0 || int(s) >= len(sourceNames) {
		return fmt.Sprintf("Source(%d)", int(s))
	}
	return sourceNames[s]
}

// Editable reports whether sizes can be written through this source.
func (s Source) Editable() bool {
	return s == Collider || s == Sprite || s == Text
}

// ParseSource resolves a source by name.
func ParseSource(name string) (Source, error) {
	for i, n := range sourceNames {
		if n == name {
			return Source(i), nil
		}
	}
	return None, fmt.Errorf("bounds: unknown source %q", name)
}

func (s Source) MarshalYAML() (any, error) {
	return s.String(), nil
}

func (s *Source) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	v, err := ParseSource(name)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
