package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/aabizri/plantgen"
	"github.com/aabizri/plantgen/interchange"
	"github.com/aabizri/plantgen/interchange/lsif"
)

const (
	orderInQueueSize = 5
	outQueueSize     = 5
)

func newGenerateCmd() *cobra.Command {
	var (
		workers int
		seed    int64
	)

	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Derive every document of an LSIF stream, one sequence per line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			in, err := openInput(name, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer in.Close()

			return listen(cmd.Context(), cmd.OutOrStdout(), in, workers, seed)
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "Documents derived concurrently")
	cmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed for every document (0 = document seed or time-based)")
	return cmd
}

// openInput opens the named file, or stdin for "" and "-".
func openInput(name string, stdin io.Reader) (io.ReadCloser, error) {
	if name == "" || name == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "opening lsif file")
	}
	return f, nil
}

// order is one document travelling through the pipeline.
type order struct {
	seq        int
	definition interchange.Definition
	rng        plantgen.Source

	symbols plantgen.Sequence
	err     error
}

// listen decodes documents from r, derives them and writes the results to w
// in input order. The first failing document stops the output and, through
// cancellation, every stage of the pipeline.
func listen(ctx context.Context, w io.Writer, r io.Reader, workers int, seed int64) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	in, out := buildPipeline(ctx, max(workers, 1))

	decodeErr := make(chan error, 1)
	go func() {
		defer close(in)
		decodeErr <- decodeAll(ctx, r, in, seed)
	}()

	for o := range out {
		if o.err != nil {
			return errors.Wrapf(o.err, "document %d", o.seq)
		}
		slog.Debug("sequence derived", "document", o.seq, "symbols", len(o.symbols))
		if _, err := fmt.Fprintln(w, o.symbols); err != nil {
			return errors.Wrap(err, "writing sequence")
		}
	}
	return <-decodeErr
}

func decodeAll(ctx context.Context, r io.Reader, in chan<- *order, seed int64) error {
	lsifDecoder := lsif.NewDecoder(r)
	for seq := 0; ; seq++ {
		format, err := lsifDecoder.Decode()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return errors.Wrapf(err, "document %d", seq)
		}

		def, err := format.Import()
		if err != nil {
			return errors.Wrapf(err, "document %d", seq)
		}

		select {
		case in <- &order{seq: seq, definition: def, rng: def.Source(seed)}:
		case <-ctx.Done():
			return nil
		}
	}
}

func buildPipeline(ctx context.Context, workers int) (in chan<- *order, out <-chan *order) {
	orderInQueue := make(chan *order, orderInQueueSize)
	orderOutQueue := make(chan *order, workers)
	outQueue := make(chan *order, outQueueSize)

	done := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func() {
			run(ctx, orderInQueue, orderOutQueue)
			done <- struct{}{}
		}()
	}
	go func() {
		for i := 0; i < workers; i++ {
			<-done
		}
		close(orderOutQueue)
	}()
	go resolve(ctx, orderOutQueue, outQueue)

	return orderInQueue, outQueue
}

func run(ctx context.Context, orderInQueue <-chan *order, orderOutQueue chan<- *order) {
	for o := range orderInQueue {
		o.symbols, o.err = plantgen.Generate(ctx, o.definition.Parameters, o.rng)
		select {
		case orderOutQueue <- o:
		case <-ctx.Done():
			return
		}
	}
}

// resolve puts the orders back in sequence. Orders arriving early wait in
// the buffer until every order before them went out.
func resolve(ctx context.Context, orderOutQueue <-chan *order, outQueue chan<- *order) {
	defer close(outQueue)

	next := 0
	buffer := make(map[int]*order)
	for o := range orderOutQueue {
		buffer[o.seq] = o
		for {
			ready, ok := buffer[next]
			if !ok {
				break
			}
			delete(buffer, next)
			select {
			case outQueue <- ready:
			case <-ctx.Done():
				return
			}
			next++
		}
	}
}
