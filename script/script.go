// Package script runs tengo layout macros against a model.
//
// A macro sees one global, t2d, holding the functions below. Positions and
// sizes are in the model's display unit type.
//
//	t2d.select("a", "b")        select entities by name
//	t2d.select_all()            select every named entity
//	t2d.align("left")           align the selection
//	t2d.distribute("top", 8)    distribute, spacing optional
//	t2d.move(x, y)              move the selection pivot
//	t2d.resize(w, h)            resize a single entity
//	t2d.rotate(deg)             rotate a single entity
//	t2d.position()              [x, y]
//	t2d.bounds()                {left, right, top, bottom}
//	t2d.guide("vertical", x)    add a guide
//	t2d.log(...)                write to the log
package script

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/transform2d/ecs"
	"github.com/milk9111/transform2d/ecs/component"
	"github.com/milk9111/transform2d/geom"
	"github.com/milk9111/transform2d/guides"
	"github.com/milk9111/transform2d/layout"
	"github.com/milk9111/transform2d/model"
)

// Runner executes macros. World is searched for Name components.
type Runner struct {
	Model *model.Model
	World *ecs.World
}

func NewRunner(m *model.Model, w *ecs.World) *Runner {
	return &Runner{Model: m, World: w}
}

// Run compiles and runs src. The context bounds the run time.
func (r *Runner) Run(ctx context.Context, src []byte) error {
	if r == nil || r.Model == nil {
		return fmt.Errorf("script: nil runner")
	}
	s := tengo.NewScript(src)
	if err := s.Add("t2d", r.engine()); err != nil {
		return err
	}
	s.SetImports(stdlib.GetModuleMap("fmt", "math", "text"))

	compiled, err := s.Compile()
	if err != nil {
		return fmt.Errorf("script: compile: %w", err)
	}
	if err := compiled.RunContext(ctx); err != nil {
		return fmt.Errorf("script: run: %w", err)
	}
	return nil
}

func (r *Runner) engine() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}
	fn := func(name string, f tengo.CallableFunc) {
		values[name] = &tengo.UserFunction{Name: name, Value: f}
	}

	fn("select", func(args ...tengo.Object) (tengo.Object, error) {
		names := make([]string, 0, len(args))
		for _, a := range args {
			names = append(names, objectAsString(a))
		}
		entities := r.lookup(names)
		r.Model.Handle(model.SelectionChanged{Entities: entities})
		return &tengo.Int{Value: int64(r.Model.Selection().Count())}, nil
	})

	fn("select_all", func(args ...tengo.Object) (tengo.Object, error) {
		var entities []ecs.Entity
		ecs.ForEach(r.World, component.NameComponent.Kind(), func(e ecs.Entity, _ *component.Name) {
			entities = append(entities, e)
		})
		r.Model.Handle(model.SelectionChanged{Entities: entities})
		return &tengo.Int{Value: int64(r.Model.Selection().Count())}, nil
	})

	fn("align", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		anchor, err := layout.ParseAnchor(objectAsString(args[0]))
		if err != nil {
			return nil, err
		}
		return tengo.UndefinedValue, r.Model.Align(anchor)
	})

	fn("distribute", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 || len(args) > 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		mode, err := layout.ParseMode(objectAsString(args[0]))
		if err != nil {
			return nil, err
		}
		spacing := math.NaN()
		if len(args) == 2 {
			if spacing, err = number("spacing", args[1]); err != nil {
				return nil, err
			}
		}
		return tengo.UndefinedValue, r.Model.Distribute(mode, spacing)
	})

	fn("move", func(args ...tengo.Object) (tengo.Object, error) {
		v, err := vector(args)
		if err != nil {
			return nil, err
		}
		return tengo.UndefinedValue, r.Model.SetPosition(v)
	})

	fn("resize", func(args ...tengo.Object) (tengo.Object, error) {
		v, err := vector(args)
		if err != nil {
			return nil, err
		}
		return tengo.UndefinedValue, r.Model.SetSize(v)
	})

	fn("rotate", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		deg, err := number("degrees", args[0])
		if err != nil {
			return nil, err
		}
		return tengo.UndefinedValue, r.Model.SetRotation(deg)
	})

	fn("position", func(args ...tengo.Object) (tengo.Object, error) {
		p := r.Model.Transform().Position
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: p.X}, &tengo.Float{Value: p.Y}}}, nil
	})

	fn("bounds", func(args ...tengo.Object) (tengo.Object, error) {
		sel := r.Model.Selection()
		conv := r.Model.Converter()
		unit := r.Model.Settings().UnitType
		edge := func(v float64) tengo.Object {
			return &tengo.Float{Value: conv.ToDisplay(v, unit)}
		}
		if sel.IsEmpty() {
			return tengo.UndefinedValue, nil
		}
		return &tengo.ImmutableMap{Value: map[string]tengo.Object{
			"left":   edge(sel.Left()),
			"right":  edge(sel.Right()),
			"top":    edge(sel.Top()),
			"bottom": edge(sel.Bottom()),
		}}, nil
	})

	fn("guide", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		axis := geom.Horizontal
		switch objectAsString(args[0]) {
		case "horizontal":
		case "vertical":
			axis = geom.Vertical
		default:
			return nil, fmt.Errorf("script: unknown axis %q", objectAsString(args[0]))
		}
		pos, err := number("position", args[1])
		if err != nil {
			return nil, err
		}
		store := r.Model.Guides()
		if store == nil {
			return nil, fmt.Errorf("script: no guide store")
		}
		pos = r.Model.Converter().FromDisplay(pos, r.Model.Settings().UnitType)
		i, err := store.Apply(guides.Create{Guide: guides.Guide{Axis: axis, Position: pos}})
		if err != nil {
			return nil, err
		}
		return &tengo.Int{Value: int64(i)}, nil
	})

	fn("log", func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		log.Printf("[script] %s", strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	})

	return &tengo.ImmutableMap{Value: values}
}

// lookup resolves names to entities, keeping the order of names.
func (r *Runner) lookup(names []string) []ecs.Entity {
	byName := map[string]ecs.Entity{}
	ecs.ForEach(r.World, component.NameComponent.Kind(), func(e ecs.Entity, n *component.Name) {
		byName[n.Value] = e
	})
	out := make([]ecs.Entity, 0, len(names))
	for _, name := range names {
		if e, ok := byName[name]; ok {
			out = append(out, e)
		} else {
			log.Printf("[script] no entity named %q", name)
		}
	}
	return out
}

func vector(args []tengo.Object) (cp.Vector, error) {
	if len(args) != 2 {
		return cp.Vector{}, tengo.ErrWrongNumArguments
	}
	x, err := number("x", args[0])
	if err != nil {
		return cp.Vector{}, err
	}
	y, err := number("y", args[1])
	if err != nil {
		return cp.Vector{}, err
	}
	return cp.Vector{X: x, Y: y}, nil
}

func number(name string, obj tengo.Object) (float64, error) {
	v, ok := tengo.ToFloat64(obj)
	if !ok {
		return 0, tengo.ErrInvalidArgumentType{Name: name, Expected: "float(compatible)", Found: obj.TypeName()}
	}
	return v, nil
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	if s, ok := obj.(*tengo.String); ok {
		return s.Value
	}
	return strings.Trim(obj.String(), "\"")
}
