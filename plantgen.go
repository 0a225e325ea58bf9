// Package plantgen rewrites stochastic L-system grammars into symbol sequences
// that the turtle package turns into line and circle primitives.
package plantgen

import (
	"context"
	"math/rand"
	"sync"

	"github.com/pkg/errors"
)

// A Source yields uniform draws in [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a math/rand backed Source for the given seed.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

type LSystem struct {
	Parameters Parameters

	currentTier uint

	rng  Source
	tier Sequence

	// Reused between derivations
	selected []*Production

	mu sync.Mutex
}

func New(parameters Parameters, rng Source) *LSystem {
	ls := &LSystem{
		Parameters: parameters,
		rng:        rng,
	}
	ls.reset()
	return ls
}

// Reset brings the system back to its axiom, keeping the random source.
func (ls *LSystem) Reset() {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	ls.reset()
}

func (ls *LSystem) reset() {
	ls.currentTier = 0
	ls.tier = append(Sequence(nil), ls.Parameters.Axiom...)
}

// selectProductions picks the production used by every symbol of the input.
// Terminals get a nil entry.
func (ls *LSystem) selectProductions(selected []*Production, input Sequence) error {
	for i, s := range input {
		productions, ok := ls.Parameters.Rules[s]
		if !ok {
			selected[i] = nil
			continue
		}

		// One fresh draw per symbol occurrence
		n := ls.rng.Float64()
		cum := float64(0)
		selected[i] = nil
		for j := range productions {
			cum += productions[j].Weight
			if n < cum {
				selected[i] = &productions[j]
				break
			}
		}

		// A list summing to 1 may fall short by rounding alone
		if selected[i] == nil && cum >= 1-weightTolerance {
			selected[i] = lastWeighted(productions)
		}

		if selected[i] == nil {
			return &SelectionError{
				Symbol: s,
				Draw:   n,
				Total:  cum,
				Tier:   ls.currentTier + 1,
				Index:  i,
			}
		}
	}
	return nil
}

func lastWeighted(productions []Production) *Production {
	for j := len(productions) - 1; j >= 0; j-- {
		if productions[j].Weight > 0 {
			return &productions[j]
		}
	}
	return nil
}

func (ls *LSystem) calculateOutputSize(selected []*Production) int {
	var val int
	for _, p := range selected {
		if p != nil {
			val += len(p.Replacement)
		} else {
			val++
		}
	}
	return val
}

// Execute a rewrite
func (ls *LSystem) rewrite(output Sequence, input Sequence, selected []*Production) Sequence {
	for i, s := range input {
		if p := selected[i]; p != nil {
			output = append(output, p.Replacement...)
		} else {
			output = append(output, s)
		}
	}
	return output
}

/*
Derivate runs one generation of the grammar:

	1. Select a production for every symbol of the current tier, one draw each
	2. Calculate the output size and check it against the configured maximum
	3. Rewrite into a freshly sized tier

The tier is left untouched if any step fails.
*/
func (ls *LSystem) Derivate(ctx context.Context) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	return ls.derivate(ctx)
}

func (ls *LSystem) derivate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrapf(err, "derivation of tier %d interrupted", ls.currentTier+1)
	}

	if cap(ls.selected) < len(ls.tier) {
		ls.selected = make([]*Production, len(ls.tier))
	}
	selected := ls.selected[:len(ls.tier)]

	// 1. Selection
	if err := ls.selectProductions(selected, ls.tier); err != nil {
		return err
	}

	// 2. Size
	outputSize := ls.calculateOutputSize(selected)
	if limit := ls.Parameters.MaxLength; limit > 0 && outputSize > limit {
		return &LengthError{
			Limit:  limit,
			Length: outputSize,
			Tier:   ls.currentTier + 1,
		}
	}

	// 3. Rewrite
	output := ls.rewrite(make(Sequence, 0, outputSize), ls.tier, selected)

	// Don't keep pointers into the rule table alive
	clear(selected)

	ls.tier = output
	ls.currentTier++
	return nil
}

// DerivateUntil runs generations until the given tier is reached
func (ls *LSystem) DerivateUntil(ctx context.Context, tier uint) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	for ls.currentTier < tier {
		if err := ls.derivate(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Export returns a copy of the current tier.
func (ls *LSystem) Export() Sequence {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	return append(Sequence(nil), ls.tier...)
}

func (ls *LSystem) CurrentTier() uint {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	return ls.currentTier
}

// Generate derives parameters.Iterations generations from the axiom.
// The parameters are not retained. With no iterations the axiom is returned
// as is, whatever the rules.
func Generate(ctx context.Context, parameters Parameters, rng Source) (Sequence, error) {
	if parameters.Iterations == 0 {
		return append(Sequence(nil), parameters.Axiom...), nil
	}

	if err := parameters.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid grammar")
	}

	ls := New(parameters, rng)
	if err := ls.DerivateUntil(ctx, parameters.Iterations); err != nil {
		return nil, err
	}
	return ls.tier, nil
}
