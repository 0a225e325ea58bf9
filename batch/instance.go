package batch

import (
	"github.com/chewxy/math32"

	"github.com/aabizri/plantgen/shape"
)

// CircleScale compensates for circles being drawn inside the instanced
// triangle: the triangle is scaled so that its inscribed circle has the
// requested radius.
var CircleScale = 2 / math32.Sqrt(3)

type Vec2 struct {
	X, Y float32
}

// Instance is the per-object transform handed to instanced rendering.
// Rotation is in radians, counter-clockwise from +X.
type Instance struct {
	Position Vec2
	Scale    Vec2
	Rotation float32
	Color    shape.Color
}

// LineInstance places a unit quad over the segment: centered on the midpoint,
// stretched to (length, width) and rotated from +X onto the segment direction.
func LineInstance(s shape.Segment) Instance {
	start := Vec2{float32(s.Start.X), float32(s.Start.Y)}
	dx := float32(s.End.X) - start.X
	dy := float32(s.End.Y) - start.Y

	return Instance{
		Position: Vec2{start.X + dx*0.5, start.Y + dy*0.5},
		Scale:    Vec2{math32.Hypot(dx, dy), float32(s.Width)},
		Rotation: math32.Atan2(dy, dx),
		Color:    s.Color,
	}
}

func CircleInstance(c shape.Circle) Instance {
	scale := float32(c.Radius) * CircleScale
	return Instance{
		Position: Vec2{float32(c.Center.X), float32(c.Center.Y)},
		Scale:    Vec2{scale, scale},
		Color:    c.Color,
	}
}
