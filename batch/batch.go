// Package batch turns turtle primitives into GPU instance streams that are
// reused from one frame to the next.
package batch

import (
	"github.com/pkg/errors"

	"github.com/aabizri/plantgen/shape"
	"github.com/aabizri/plantgen/turtle"
)

var _ turtle.Sink = &Batcher{}

type Kind uint8

const (
	Lines Kind = iota
	Circles
)

func (k Kind) String() string {
	switch k {
	case Lines:
		return "lines"
	case Circles:
		return "circles"
	default:
		return "unknown"
	}
}

// Uploader makes finalized instances visible to the renderer.
type Uploader interface {
	Upload(kind Kind, instances []Instance) error
}

// Batcher keeps one stream per primitive kind. Order is kept within a kind only.
type Batcher struct {
	Lines   Stream
	Circles Stream
}

func (b *Batcher) DrawLine(s shape.Segment) {
	b.Lines.Record(LineInstance(s))
}

func (b *Batcher) DrawCircle(c shape.Circle) {
	b.Circles.Record(CircleInstance(c))
}

// Stream returns the stream holding the given kind.
func (b *Batcher) Stream(kind Kind) *Stream {
	if kind == Circles {
		return &b.Circles
	}
	return &b.Lines
}

// Finalize closes the frame on both streams and hands them to up, lines first.
// A nil Uploader only finalizes.
func (b *Batcher) Finalize(up Uploader) error {
	lines := b.Lines.Finalize()
	circles := b.Circles.Finalize()
	if up == nil {
		return nil
	}

	if err := up.Upload(Lines, lines); err != nil {
		return errors.Wrapf(err, "uploading %d %s", len(lines), Lines)
	}
	if err := up.Upload(Circles, circles); err != nil {
		return errors.Wrapf(err, "uploading %d %s", len(circles), Circles)
	}
	return nil
}
