// Package shape holds the drawing primitives emitted by the turtle.
package shape

import "gonum.org/v1/gonum/spatial/r2"

// Color components range from 0 to 1.
type Color struct {
	R, G, B float32
}

// Segment is a line of the given width from Start to End.
type Segment struct {
	Start, End r2.Vec
	Width      float64
	Color      Color
}

// Length returns the distance between both ends.
func (s Segment) Length() float64 {
	return r2.Norm(r2.Sub(s.End, s.Start))
}

type Circle struct {
	Center r2.Vec
	Radius float64
	Color  Color
}
