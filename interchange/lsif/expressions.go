package lsif

import (
	"strconv"

	"github.com/Knetic/govaluate"
	"github.com/pkg/errors"
)

// Environment resolves the variables used in expressions.
type Environment interface {
	Get(v string) (float64, error)
}

// Constants is the environment built from a document's constants section.
type Constants map[string]float64

func (c Constants) Get(v string) (float64, error) {
	val, ok := c[v]
	if !ok {
		return 0, errors.Errorf("undefined constant %q", v)
	}
	return val, nil
}

type expressionFunction func(env Environment) (float64, error)

// wrappedEnvironment adapts an Environment to govaluate.Parameters
type wrappedEnvironment struct {
	Environment
}

func (wenv wrappedEnvironment) Get(name string) (interface{}, error) {
	if wenv.Environment == nil {
		return nil, errors.Errorf("undefined constant %q: no environment", name)
	}
	return wenv.Environment.Get(name)
}

func parseExpression(asString string) (expressionFunction, error) {
	// Simplify if it just a scalar
	if scalar, err := strconv.ParseFloat(asString, 64); err == nil {
		return func(_ Environment) (float64, error) {
			return scalar, nil
		}, nil
	}

	evaluable, err := govaluate.NewEvaluableExpression(asString)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing expression %q", asString)
	}

	return func(env Environment) (float64, error) {
		resAsInterface, err := evaluable.Eval(wrappedEnvironment{env})
		if err != nil {
			return 0, errors.Wrapf(err, "evaluating %q", asString)
		}

		resAsFloat, ok := resAsInterface.(float64)
		if !ok {
			return 0, errors.Errorf("%q evaluates to %T, not a number", asString, resAsInterface)
		}
		return resAsFloat, nil
	}, nil
}

// evaluate parses and evaluates an expression in one go.
func evaluate(expr Expression, env Environment) (float64, error) {
	f, err := parseExpression(string(expr))
	if err != nil {
		return 0, err
	}
	return f(env)
}
