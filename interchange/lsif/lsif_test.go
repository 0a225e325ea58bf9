package lsif

import (
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aabizri/plantgen"
	"github.com/aabizri/plantgen/shape"
	"github.com/aabizri/plantgen/turtle"
)

func decodeOne(t *testing.T, doc string) *Format {
	t.Helper()
	format, err := NewDecoder(strings.NewReader(doc)).Decode()
	require.NoError(t, err)
	return format
}

func TestDefault(t *testing.T) {
	format, err := Default()
	require.NoError(t, err)

	def, err := format.Import()
	require.NoError(t, err)

	assert.Equal(t, "X", def.Parameters.Axiom.String())
	assert.Equal(t, uint(6), def.Parameters.Iterations)
	require.Len(t, def.Parameters.Rules['F'], 3)
	require.Len(t, def.Parameters.Rules['X'], 6)
	assert.InDelta(t, 1, def.Parameters.Rules.Total('X'), 1e-9)
	assert.Equal(t, "F[+X][-X]FA", def.Parameters.Rules['X'][5].Replacement.String())

	assert.IsType(t, turtle.Line{}, def.Bindings['F'])
	assert.IsType(t, turtle.Circle{}, def.Bindings['A'])
	assert.NotContains(t, def.Bindings, plantgen.Symbol('X'))
}

func TestImport_ExpressionWeights(t *testing.T) {
	format := decodeOne(t, `
initial: A
iterations: 2
constants: {p: 0.25}
rules:
  A:
    - {replacement: "AB", weight: p}
    - {replacement: "B", weight: "1 - p"}
  B:
    - replacement: "[+B]"
shapes:
  B: {line: {width: 1, length: 2, turn: 30, color: [1, 0.5, 0]}}
`)

	def, err := format.Import()
	require.NoError(t, err)

	a := def.Parameters.Rules['A']
	require.Len(t, a, 2)
	assert.InDelta(t, 0.25, a[0].Weight, 1e-12)
	assert.InDelta(t, 0.75, a[1].Weight, 1e-12)
	assert.Equal(t, 1.0, def.Parameters.Rules['B'][0].Weight)

	assert.Equal(t, turtle.Line{Width: 1, Length: 2, Turn: 30, Color: shape.Color{R: 1, G: 0.5}}, def.Bindings['B'])
}

func TestImport_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		doc    string
		field  string
		symbol string
	}{
		{"long key", `rules: {AB: [{replacement: A}]}`, "rule", "AB"},
		{"no productions", `rules: {A: []}`, "rule", "A"},
		{"missing weight", `rules: {A: [{replacement: A}, {replacement: B, weight: 0.5}]}`, "rule", "A"},
		{"undefined constant", `rules: {A: [{replacement: A, weight: q}]}`, "rule", "A"},
		{"boolean weight", `rules: {A: [{replacement: A, weight: "1 > 0"}]}`, "rule", "A"},
		{"control shape", `shapes: {"[": {circle: {radius: 1, color: [0, 0, 0]}}}`, "shape", "["},
		{"empty shape", `shapes: {A: {}}`, "shape", "A"},
		{"both shapes", `shapes: {A: {line: {color: [0, 0, 0]}, circle: {color: [0, 0, 0]}}}`, "shape", "A"},
		{"short color", `shapes: {A: {circle: {radius: 1, color: [0, 0]}}}`, "shape", "A"},
		{"bright color", `shapes: {A: {circle: {radius: 1, color: [0, 2, 0]}}}`, "shape", "A"},
		{"negative radius", `shapes: {A: {circle: {radius: -1, color: [0, 0, 0]}}}`, "shape", "A"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeOne(t, tc.doc).Import()
			require.Error(t, err)

			var importErr *ImportError
			require.True(t, errors.As(err, &importErr), "got %v", err)
			assert.Equal(t, tc.field, importErr.Field)
			assert.Equal(t, tc.symbol, importErr.Symbol)
		})
	}
}

func TestImport_WeightsAboveOne(t *testing.T) {
	format := decodeOne(t, `rules: {A: [{replacement: A, weight: 0.8}, {replacement: B, weight: 0.8}]}`)
	_, err := format.Import()
	assert.Error(t, err)
}

func TestDecoder_UnknownField(t *testing.T) {
	_, err := NewDecoder(strings.NewReader("initial: X\niteratons: 3\n")).Decode()
	assert.Error(t, err)
}

func TestDecoder_Stream(t *testing.T) {
	dec := NewDecoder(strings.NewReader("initial: A\n---\ninitial: B\n"))

	first, err := dec.Decode()
	require.NoError(t, err)
	assert.Equal(t, "A", first.Initial)

	second, err := dec.Decode()
	require.NoError(t, err)
	assert.Equal(t, "B", second.Initial)

	_, err = dec.Decode()
	assert.Equal(t, io.EOF, err)
}

func TestParseExpression(t *testing.T) {
	env := Constants{"p": 0.2, "n": 4}

	for expr, want := range map[string]float64{
		"0.5":     0.5,
		"1/4":     0.25,
		"p * 2":   0.4,
		"(1-p)/n": 0.2,
		"-0.0":    0,
	} {
		got, err := evaluate(Expression(expr), env)
		require.NoError(t, err, expr)
		assert.InDelta(t, want, got, 1e-12, expr)
	}

	_, err := evaluate("1 +", env)
	assert.Error(t, err)
}
