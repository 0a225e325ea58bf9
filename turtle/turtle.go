// Package turtle walks a symbol sequence and emits the primitives it draws.
package turtle

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/aabizri/plantgen"
	"github.com/aabizri/plantgen/shape"
)

// DefaultTurn is the turn increment, in degrees, before any line is drawn.
const DefaultTurn = 15.0

// Sink receives primitives in generation order.
type Sink interface {
	DrawLine(shape.Segment)
	DrawCircle(shape.Circle)
}

// Stats summarizes a walk.
type Stats struct {
	Lines    int
	Circles  int
	MaxDepth int
}

// Interpreter keeps its stack between walks so that frames don't reallocate it.
// It is not safe for concurrent use.
type Interpreter struct {
	stack Stack
	turn  float64
}

// Walk interprets symbols from the default state.
func (it *Interpreter) Walk(symbols plantgen.Sequence, bindings Bindings, sink Sink) Stats {
	it.stack.Reset()
	it.turn = DefaultTurn

	stats := Stats{MaxDepth: 1}
	for _, s := range symbols {
		switch s {
		case plantgen.Push:
			it.stack.Push()
			stats.MaxDepth = max(stats.MaxDepth, it.stack.Depth())
		case plantgen.Pop:
			it.stack.Pop()
		case plantgen.TurnLeft:
			it.stack.Top().Heading += it.turn
		case plantgen.TurnRight:
			it.stack.Top().Heading -= it.turn
		default:
			switch b := bindings[s].(type) {
			case Line:
				it.line(b, sink)
				stats.Lines++
			case Circle:
				it.circle(b, sink)
				stats.Circles++
			}
		}
	}
	return stats
}

func (it *Interpreter) line(b Line, sink Sink) {
	top := it.stack.Top()
	end := r2.Add(top.Position, r2.Scale(b.Length, direction(top.Heading)))

	sink.DrawLine(shape.Segment{
		Start: top.Position,
		End:   end,
		Width: b.Width,
		Color: b.Color,
	})

	top.Position = end
	it.turn = b.Turn
}

func (it *Interpreter) circle(b Circle, sink Sink) {
	sink.DrawCircle(shape.Circle{
		Center: it.stack.Top().Position,
		Radius: b.Radius,
		Color:  b.Color,
	})
}

// direction is the unit vector for a heading, rotating counter-clockwise from +Y.
func direction(heading float64) r2.Vec {
	sin, cos := math.Sincos(heading * math.Pi / 180)
	return r2.Vec{X: -sin, Y: cos}
}

// Interpret walks symbols with a fresh interpreter.
func Interpret(symbols plantgen.Sequence, bindings Bindings, sink Sink) Stats {
	var it Interpreter
	return it.Walk(symbols, bindings, sink)
}
