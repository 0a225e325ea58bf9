// Command plantview draws a plant in a raylib window.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/chewxy/math32"
	"github.com/fsnotify/fsnotify"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/aabizri/plantgen/batch"
	"github.com/aabizri/plantgen/frame"
	"github.com/aabizri/plantgen/interchange/lsif"
	"github.com/aabizri/plantgen/shape"
)

func main() {
	if err := newViewCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// viewer is the render sink of the window: it keeps the last finalized
// instances and draws them with raylib primitives.
type viewer struct {
	lines   []batch.Instance
	circles []batch.Instance
}

func (v *viewer) Upload(kind batch.Kind, instances []batch.Instance) error {
	switch kind {
	case batch.Lines:
		v.lines = instances
	case batch.Circles:
		v.circles = instances
	}
	return nil
}

func toRaylib(c shape.Color) rl.Color {
	return rl.NewColor(uint8(c.R*255), uint8(c.G*255), uint8(c.B*255), 255)
}

// draw flips Y: the plant grows along +Y, the screen along -Y.
func (v *viewer) draw() {
	for _, inst := range v.lines {
		rec := rl.NewRectangle(inst.Position.X, -inst.Position.Y, inst.Scale.X, inst.Scale.Y)
		origin := rl.NewVector2(inst.Scale.X/2, inst.Scale.Y/2)
		rl.DrawRectanglePro(rec, origin, -inst.Rotation*180/math32.Pi, toRaylib(inst.Color))
	}
	for _, inst := range v.circles {
		center := rl.NewVector2(inst.Position.X, -inst.Position.Y)
		rl.DrawCircleV(center, inst.Scale.X/batch.CircleScale, toRaylib(inst.Color))
	}
}

// watch signals on changed whenever the file is written. Signals are
// coalesced so that the frame loop picks them up at most once per frame.
func watch(name string, changed chan<- struct{}) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating watcher")
	}
	// Editors replace files on save, so watch the directory
	if err := watcher.Add(filepath.Dir(name)); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "watching %s", name)
	}

	target := filepath.Clean(name)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				select {
				case changed <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("config watcher", "error", err)
			}
		}
	}()
	return func() { watcher.Close() }, nil
}

func newViewCmd() *cobra.Command {
	var (
		seed   int64
		width  int
		height int
		zoom   float32
	)

	cmd := &cobra.Command{
		Use:          "plantview [file]",
		Short:        "Draw a plant in a window; click to regrow it, R to reload the file",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.SetDefault(slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), nil)))

			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			def, err := lsif.Load(name)
			if err != nil {
				return err
			}

			v := &viewer{}
			scene := frame.New(def, def.Source(seed), frame.WithUploader(v))

			rl.InitWindow(int32(width), int32(height), "plantgen")
			defer rl.CloseWindow()
			rl.SetTargetFPS(60)

			camera := rl.Camera2D{
				Offset: rl.NewVector2(float32(width)/2, float32(height)*0.9),
				Zoom:   zoom,
			}

			changed := make(chan struct{}, 1)
			if name != "" {
				stop, err := watch(name, changed)
				if err != nil {
					slog.Warn("not watching config file", "file", name, "error", err)
				} else {
					defer stop()
				}
			}

			reload := func() {
				reloaded, err := lsif.Load(name)
				if err != nil {
					slog.Error("reload failed", "file", name, "error", err)
					return
				}
				slog.Info("config reloaded", "file", name)
				scene.Reconfigure(reloaded)
			}

			for !rl.WindowShouldClose() {
				regenerate := rl.IsMouseButtonPressed(rl.MouseButtonLeft)
				if rl.IsKeyPressed(rl.KeyR) {
					reload()
				}
				select {
				case <-changed:
					reload()
				default:
				}
				camera.Zoom = max(camera.Zoom+rl.GetMouseWheelMove()*camera.Zoom*0.1, 1)

				// Errors are logged by the scene, which keeps drawing the last plant
				_ = scene.Update(cmd.Context(), regenerate)

				rl.BeginDrawing()
				rl.ClearBackground(rl.NewColor(51, 128, 255, 255))
				rl.BeginMode2D(camera)
				v.draw()
				rl.EndMode2D()
				rl.EndDrawing()
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed (0 = document seed or time-based)")
	cmd.Flags().IntVar(&width, "width", 1000, "Window width")
	cmd.Flags().IntVar(&height, "height", 1000, "Window height")
	cmd.Flags().Float32Var(&zoom, "zoom", 50, "Pixels per world unit")
	return cmd
}
