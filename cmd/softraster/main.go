// softraster - CPU triangle rasterizer
// Render the built-in scenes or a glTF/GLB model to image files, the
// terminal, or a desktop window.
//
// Commands:
//
//	render  - Write frames to PPM/PNG files
//	view    - Interactive terminal viewer
//	window  - Interactive desktop window
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/softraster/pkg/config"
	"github.com/taigrr/softraster/pkg/render"
)

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}

// options holds the flags shared by every command. Flags override values
// from the config file only when set on the command line.
type options struct {
	configPath string
	verbose    bool

	width, height int
	scene, model  string
	seed          uint64
	cull          bool
	wireframe     bool
	bounds        bool
	axes          bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "softraster",
		Short: "Rasterize triangle meshes on the CPU",
		Long: "softraster draws colored and textured triangle meshes with a software\n" +
			"z-buffer rasterizer and writes the result to PPM/PNG files, the terminal,\n" +
			"or a desktop window.",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Log per-frame draw statistics")
	f.IntVar(&opts.width, "width", 0, "Framebuffer width in pixels")
	f.IntVar(&opts.height, "height", 0, "Framebuffer height in pixels")
	f.StringVarP(&opts.scene, "scene", "s", "", "Scene to draw ("+strings.Join(config.Scenes, ", ")+")")
	f.StringVarP(&opts.model, "model", "m", "", "glTF or GLB file for the gltf scene")
	f.Uint64Var(&opts.seed, "seed", 0, "Seed for the cube's placeholder colors")
	f.BoolVar(&opts.cull, "cull", false, "Skip models outside the view frustum")
	f.BoolVar(&opts.wireframe, "wireframe", false, "Outline triangles after filling them")
	f.BoolVar(&opts.bounds, "bounds", false, "Outline each model's bounding box")
	f.BoolVar(&opts.axes, "axes", false, "Draw the world axes at the origin")

	root.AddCommand(newRenderCmd(opts), newViewCmd(opts), newWindowCmd(opts))
	return root
}

// load reads the config file, or the defaults without one, applies the
// flags that were set and validates the result.
func (o *options) load(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = o.width
	}
	if flags.Changed("height") {
		cfg.Height = o.height
	}
	if flags.Changed("scene") {
		cfg.Scene = o.scene
	}
	if flags.Changed("model") {
		cfg.Model = o.model
		// A model on its own means the gltf scene.
		if !flags.Changed("scene") {
			cfg.Scene = config.SceneGLTF
		}
	}
	if flags.Changed("seed") {
		cfg.Seed = o.seed
	}
	if flags.Changed("cull") {
		cfg.Cull = o.cull
	}
	if flags.Changed("wireframe") {
		cfg.Wireframe = o.wireframe
	}
	if flags.Changed("bounds") {
		cfg.Bounds = o.bounds
	}
	if flags.Changed("axes") {
		cfg.Axes = o.axes
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
