// Package interchange imports a plant definition from an interchange format
package interchange

import (
	"time"

	"github.com/aabizri/plantgen"
	"github.com/aabizri/plantgen/turtle"
)

// Definition is everything needed to grow and draw a plant.
type Definition struct {
	Parameters plantgen.Parameters
	Bindings   turtle.Bindings

	// Zero asks the host for a time-based seed
	Seed int64
}

type Format interface {
	Import() (Definition, error)
}

// Source seeds a random source, seed taking precedence over the
// definition's own, the clock being the last resort.
func (def Definition) Source(seed int64) plantgen.Source {
	if seed == 0 {
		seed = def.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return plantgen.NewSource(seed)
}
