// Package frame drives one plant through the per-frame cycle: regenerate
// when asked, walk the current sequence, finalize the instance streams.
package frame

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/aabizri/plantgen"
	"github.com/aabizri/plantgen/batch"
	"github.com/aabizri/plantgen/interchange"
	"github.com/aabizri/plantgen/turtle"
)

// Scene is driven from a single frame-update callback. Calls must not overlap.
type Scene struct {
	definition interchange.Definition
	rng        plantgen.Source
	uploader   batch.Uploader
	logger     *slog.Logger

	// symbols and the bindings they were generated with
	symbols plantgen.Sequence
	drawn   turtle.Bindings
	stale   bool

	interpreter turtle.Interpreter
	batcher     batch.Batcher
}

type Option func(*Scene)

// WithLogger replaces slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scene) {
		s.logger = logger
	}
}

// WithUploader sets the render sink that receives every finalized frame.
func WithUploader(up batch.Uploader) Option {
	return func(s *Scene) {
		s.uploader = up
	}
}

// New prepares a scene. Nothing is generated before the first Update.
func New(definition interchange.Definition, rng plantgen.Source, opts ...Option) *Scene {
	s := &Scene{
		definition: definition,
		rng:        rng,
		logger:     slog.Default(),
		stale:      true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reconfigure swaps the definition; the next Update regenerates.
func (s *Scene) Reconfigure(definition interchange.Definition) {
	s.definition = definition
	s.stale = true
}

// Update runs one frame. When generation fails the previous sequence is
// kept and drawn with its own bindings, and the error is returned for the
// host to report.
func (s *Scene) Update(ctx context.Context, regenerate bool) error {
	regenerate = regenerate || s.stale
	s.stale = false

	var genErr error
	if regenerate {
		genErr = s.generate(ctx)
	}

	stats := s.interpreter.Walk(s.symbols, s.drawn, &s.batcher)
	if err := s.batcher.Finalize(s.uploader); err != nil {
		return errors.Wrap(err, "finalizing frame")
	}

	if regenerate {
		s.logger.Debug("frame walked",
			"symbols", len(s.symbols),
			"lines", stats.Lines,
			"circles", stats.Circles,
			"max_depth", stats.MaxDepth,
		)
	}
	return genErr
}

func (s *Scene) generate(ctx context.Context) error {
	start := time.Now()
	symbols, err := plantgen.Generate(ctx, s.definition.Parameters, s.rng)
	if err != nil {
		attrs := []any{"error", err}
		var selErr *plantgen.SelectionError
		if errors.As(err, &selErr) {
			attrs = append(attrs, "symbol", selErr.Symbol.String(), "draw", selErr.Draw, "total_weight", selErr.Total)
		}
		s.logger.Error("generation failed", attrs...)
		return errors.Wrap(err, "generating plant")
	}

	s.symbols = symbols
	s.drawn = s.definition.Bindings
	s.logger.Info("plant generated",
		"iterations", s.definition.Parameters.Iterations,
		"symbols", len(symbols),
		"took", time.Since(start),
	)
	return nil
}

// Symbols returns the sequence currently drawn.
func (s *Scene) Symbols() plantgen.Sequence {
	return s.symbols
}

// Instances returns the finalized stream of the given kind.
func (s *Scene) Instances(kind batch.Kind) []batch.Instance {
	return s.batcher.Stream(kind).Instances()
}
