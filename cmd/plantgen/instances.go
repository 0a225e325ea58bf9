package main

import (
	"github.com/spf13/cobra"

	"github.com/aabizri/plantgen/batch"
	"github.com/aabizri/plantgen/frame"
	"github.com/aabizri/plantgen/interchange/lsif"
)

func newInstancesCmd() *cobra.Command {
	var (
		seed       int64
		frames     int
		regenerate bool
	)

	cmd := &cobra.Command{
		Use:   "instances [file]",
		Short: "Print the line and circle instances of a plant as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			def, err := lsif.Load(name)
			if err != nil {
				return err
			}

			scene := frame.New(def, def.Source(seed), frame.WithUploader(batch.NewCSVUploader(cmd.OutOrStdout())))
			for i := 0; i < max(frames, 1); i++ {
				if err := scene.Update(cmd.Context(), regenerate && i > 0); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed (0 = document seed or time-based)")
	cmd.Flags().IntVar(&frames, "frames", 1, "Number of frames to emit")
	cmd.Flags().BoolVar(&regenerate, "regenerate", false, "Regrow the plant on every frame after the first")
	return cmd
}
