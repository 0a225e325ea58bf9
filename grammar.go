package plantgen

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Control symbols understood by the turtle regardless of shape bindings.
const (
	Push      Symbol = '['
	Pop       Symbol = ']'
	TurnLeft  Symbol = '+'
	TurnRight Symbol = '-'
)

// weightTolerance absorbs float rounding when weights are meant to sum to 1.
const weightTolerance = 1e-9

type Symbol rune

// IsControl reports whether s is one of the turtle's control symbols.
func (s Symbol) IsControl() bool {
	switch s {
	case Push, Pop, TurnLeft, TurnRight:
		return true
	}
	return false
}

func (s Symbol) String() string {
	return string(s)
}

type Sequence []Symbol

// ParseSequence splits a string into its symbols.
func ParseSequence(s string) Sequence {
	seq := make(Sequence, 0, len(s))
	for _, r := range s {
		seq = append(seq, Symbol(r))
	}
	return seq
}

// Sequence stringifier
func (seq Sequence) String() string {
	var b strings.Builder
	b.Grow(len(seq))
	for _, s := range seq {
		b.WriteRune(rune(s))
	}
	return b.String()
}

// A Production is one alternative replacement for a symbol, chosen with probability Weight.
type Production struct {
	Replacement Sequence
	Weight      float64
}

// NewProduction builds a production from its textual replacement.
func NewProduction(replacement string, weight float64) Production {
	return Production{
		Replacement: ParseSequence(replacement),
		Weight:      weight,
	}
}

// Rules maps a source symbol to its ordered alternatives. Symbols without
// an entry are terminals and rewrite to themselves.
type Rules map[Symbol][]Production

// Total returns the summed weight of the alternatives for s.
func (r Rules) Total(s Symbol) float64 {
	var total float64
	for _, p := range r[s] {
		total += p.Weight
	}
	return total
}

type Parameters struct {
	Axiom      Sequence
	Iterations uint
	Rules      Rules

	// MaxLength bounds the length of any tier, 0 disables the check
	MaxLength int
}

// Validate checks that every rule list carries usable probabilities.
// Lists summing to less than 1 are accepted: a draw landing in the
// uncovered remainder is reported at generation time.
func (p Parameters) Validate() error {
	if p.MaxLength < 0 {
		return errors.Errorf("negative maximum length %d", p.MaxLength)
	}
	if p.MaxLength > 0 && len(p.Axiom) > p.MaxLength {
		return &LengthError{Limit: p.MaxLength, Length: len(p.Axiom)}
	}

	for symbol, productions := range p.Rules {
		if len(productions) == 0 {
			return errors.Errorf("rule for %q has no productions", symbol)
		}
		for i, prod := range productions {
			if prod.Weight < 0 || math.IsNaN(prod.Weight) || math.IsInf(prod.Weight, 0) {
				return errors.Errorf("rule for %q, production %d: invalid weight %v", symbol, i, prod.Weight)
			}
		}
		if total := p.Rules.Total(symbol); total > 1+weightTolerance {
			return errors.Errorf("rule for %q: weights sum to %v, above 1", symbol, total)
		}
	}
	return nil
}
