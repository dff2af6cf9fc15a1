// Package scenefile loads YAML scene descriptions and builds them into an
// ECS world.
package scenefile

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/transform2d/guides"
	"gopkg.in/yaml.v3"
)

// SceneSpec is one scene file. Entities are built in order and a parent must
// be declared before its children.
type SceneSpec struct {
	Name       string         `yaml:"name"`
	Background *YAMLColor     `yaml:"background"`
	PPU        float64        `yaml:"ppu"`
	Guides     []guides.Guide `yaml:"guides"`
	Entities   []EntitySpec   `yaml:"entities"`
	Macros     []string       `yaml:"macros"`
}

type EntitySpec struct {
	Name       string         `yaml:"name"`
	Parent     string         `yaml:"parent"`
	Components map[string]any `yaml:"components"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("scenefile: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("scenefile: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func LoadSceneSpec(filename string) (SceneSpec, error) {
	return LoadSpec[SceneSpec](filename)
}

// DecodeComponentSpec re-encodes a loosely typed component block into T.
func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

// SpriteComponentSpec sizes are in source pixels.
type SpriteComponentSpec struct {
	Image     string  `yaml:"image"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	PivotX    float64 `yaml:"pivot_x"`
	PivotY    float64 `yaml:"pivot_y"`
	PPU       float64 `yaml:"ppu"`
	ImportPPU float64 `yaml:"import_ppu"`
	// CenterPivotIfZero puts the pivot in the middle of the rect when both
	// pivot fields are zero.
	CenterPivotIfZero bool `yaml:"center_pivot_if_zero"`
}

type ColliderComponentSpec struct {
	Shape     string       `yaml:"shape"`
	Width     float64      `yaml:"width"`
	Height    float64      `yaml:"height"`
	OffsetX   float64      `yaml:"offset_x"`
	OffsetY   float64      `yaml:"offset_y"`
	Radius    float64      `yaml:"radius"`
	Direction string       `yaml:"direction"`
	Points    [][2]float64 `yaml:"points"`
}

type CameraComponentSpec struct {
	Orthographic *bool   `yaml:"orthographic"`
	Size         float64 `yaml:"size"`
	Aspect       float64 `yaml:"aspect"`
}

type TextComponentSpec struct {
	Content string  `yaml:"content"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	PivotX  float64 `yaml:"pivot_x"`
	PivotY  float64 `yaml:"pivot_y"`
}

type PrefabComponentSpec struct {
	Status string `yaml:"status"`
	Source string `yaml:"source"`
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
