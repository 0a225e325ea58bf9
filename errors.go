package plantgen

import "fmt"

// A SelectionError is returned when the random draw for a symbol lands past
// the cumulative weight of all its productions.
type SelectionError struct {
	Symbol Symbol
	Draw   float64
	Total  float64

	// Tier being produced and position of the symbol in the previous tier
	Tier  uint
	Index int
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("no production selected for %q at tier %d, index %d: draw %v exceeds total weight %v",
		e.Symbol, e.Tier, e.Index, e.Draw, e.Total)
}

// A LengthError is returned when a sequence outgrows Parameters.MaxLength.
type LengthError struct {
	Limit  int
	Length int
	Tier   uint
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("sequence length %d at tier %d exceeds the limit of %d", e.Length, e.Tier, e.Limit)
}
