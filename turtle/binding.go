package turtle

import (
	"github.com/aabizri/plantgen"
	"github.com/aabizri/plantgen/shape"
)

// A Binding tells the interpreter what a symbol draws. It is either a Line or a Circle.
type Binding interface {
	binding()
}

// Line moves the turtle forward by Length, drawing a segment. Turn becomes
// the increment applied by the following '+' and '-'.
type Line struct {
	Width  float64
	Length float64
	Turn   float64
	Color  shape.Color
}

// Circle draws at the current position without moving.
type Circle struct {
	Radius float64
	Color  shape.Color
}

func (Line) binding()   {}
func (Circle) binding() {}

// Bindings is looked up for every non-control symbol; missing symbols are ignored.
type Bindings map[plantgen.Symbol]Binding
