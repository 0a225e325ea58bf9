package lsif

import (
	"maps"
	"slices"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/aabizri/plantgen"
	"github.com/aabizri/plantgen/interchange"
	"github.com/aabizri/plantgen/shape"
	"github.com/aabizri/plantgen/turtle"
)

var _ interchange.Format = &Format{}

func (format *Format) Import() (interchange.Definition, error) {
	env := Constants(format.Constants)

	rules, err := format.importRules(env)
	if err != nil {
		return interchange.Definition{}, err
	}

	bindings, err := format.importShapes()
	if err != nil {
		return interchange.Definition{}, err
	}

	parameters := plantgen.Parameters{
		Axiom:      plantgen.ParseSequence(format.Initial),
		Iterations: format.Iterations,
		Rules:      rules,
		MaxLength:  format.MaxLength,
	}
	if err := parameters.Validate(); err != nil {
		return interchange.Definition{}, errors.Wrap(err, "lsif rules")
	}

	return interchange.Definition{
		Parameters: parameters,
		Bindings:   bindings,
		Seed:       format.Seed,
	}, nil
}

func parseSymbol(field, key string) (plantgen.Symbol, error) {
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError || size != len(key) {
		return 0, importErrorf(field, key, "key must be a single symbol")
	}
	return plantgen.Symbol(r), nil
}

func (format *Format) importRules(env Environment) (plantgen.Rules, error) {
	rules := make(plantgen.Rules, len(format.Rules))

	// Sorted so that the first error reported doesn't depend on map order
	for _, key := range slices.Sorted(maps.Keys(format.Rules)) {
		symbol, err := parseSymbol("rule", key)
		if err != nil {
			return nil, err
		}

		definedRule := format.Rules[key]
		if len(definedRule) == 0 {
			return nil, importErrorf("rule", key, "no productions")
		}

		productions := make([]plantgen.Production, len(definedRule))
		for i, prod := range definedRule {
			weight := 1.0
			if prod.Weight == "" {
				if len(definedRule) > 1 {
					return nil, importErrorf("rule", key, "production %d: weight required when there are alternatives", i)
				}
			} else {
				weight, err = evaluate(prod.Weight, env)
				if err != nil {
					return nil, importErrorf("rule", key, "production %d: %v", i, err)
				}
			}

			productions[i] = plantgen.NewProduction(prod.Replacement, weight)
		}
		rules[symbol] = productions
	}
	return rules, nil
}

func (format *Format) importShapes() (turtle.Bindings, error) {
	bindings := make(turtle.Bindings, len(format.Shapes))

	for _, key := range slices.Sorted(maps.Keys(format.Shapes)) {
		symbol, err := parseSymbol("shape", key)
		if err != nil {
			return nil, err
		}
		if symbol.IsControl() {
			return nil, importErrorf("shape", key, "control symbols cannot be drawn")
		}

		definedShape := format.Shapes[key]
		switch {
		case definedShape.Line != nil && definedShape.Circle != nil:
			return nil, importErrorf("shape", key, "both line and circle given")
		case definedShape.Line != nil:
			l := definedShape.Line
			color, err := l.Color.toShape(key)
			if err != nil {
				return nil, err
			}
			if l.Width < 0 || l.Length < 0 {
				return nil, importErrorf("shape", key, "negative line width or length")
			}
			bindings[symbol] = turtle.Line{
				Width:  l.Width,
				Length: l.Length,
				Turn:   l.Turn,
				Color:  color,
			}
		case definedShape.Circle != nil:
			c := definedShape.Circle
			color, err := c.Color.toShape(key)
			if err != nil {
				return nil, err
			}
			if c.Radius < 0 {
				return nil, importErrorf("shape", key, "negative radius")
			}
			bindings[symbol] = turtle.Circle{
				Radius: c.Radius,
				Color:  color,
			}
		default:
			return nil, importErrorf("shape", key, "neither line nor circle given")
		}
	}
	return bindings, nil
}

func (c Color) toShape(key string) (shape.Color, error) {
	if len(c) != 3 {
		return shape.Color{}, importErrorf("shape", key, "color needs 3 components, got %d", len(c))
	}
	for _, v := range c {
		if v < 0 || v > 1 {
			return shape.Color{}, importErrorf("shape", key, "color component %v outside 0-1", v)
		}
	}
	return shape.Color{R: float32(c[0]), G: float32(c[1]), B: float32(c[2])}, nil
}
