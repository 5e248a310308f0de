package main

import (
	"errors"
	"math"

	"github.com/dgravesa/go-parallel/parallel"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/taigrr/softraster/pkg/config"
	"github.com/taigrr/softraster/pkg/render"
	"github.com/taigrr/softraster/pkg/scene"
)

func newRenderCmd(opts *options) *cobra.Command {
	var (
		frames   int
		yawStep  float64
		ppm      string
		depthPPM string
		pngPath  string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render frames to image files",
		Long: "Render the configured scene to PPM and PNG files. With --frames > 1 the\n" +
			"camera orbits by --yaw-step degrees between frames and each file name\n" +
			"gets a frame number before its extension.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("frames") {
				cfg.Frames = frames
			}
			if flags.Changed("yaw-step") {
				cfg.YawStep = yawStep
			}
			if flags.Changed("out") {
				cfg.Output.PPM = ppm
			}
			if flags.Changed("depth-out") {
				cfg.Output.DepthPPM = depthPPM
			}
			if flags.Changed("png") {
				cfg.Output.PNG = pngPath
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			s, err := scene.FromConfig(cfg)
			if err != nil {
				return err
			}
			return renderFrames(cfg, s)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&frames, "frames", "n", 1, "Number of frames to render")
	f.Float64Var(&yawStep, "yaw-step", 10, "Camera yaw change between frames, in degrees")
	f.StringVarP(&ppm, "out", "o", "", "Color PPM output path (empty to skip)")
	f.StringVar(&depthPPM, "depth-out", "", "Depth PPM output path")
	f.StringVar(&pngPath, "png", "", "PNG output path")
	return cmd
}

// renderFrames renders cfg.Frames frames of s, orbiting the camera by
// cfg.YawStep between them. Frames are independent, so they render in
// parallel, each into its own framebuffer.
func renderFrames(cfg *config.Config, s *scene.Scene) error {
	n := cfg.Frames
	step := cfg.YawStep * math.Pi / 180
	if n > 1 && s.Camera == nil {
		render.Logger().Warn("scene has no camera, every frame is identical", "scene", cfg.Scene)
	}

	var bar *progressbar.ProgressBar
	if n > 1 {
		bar = progressbar.Default(int64(n), "rendering")
	}

	errs := make([]error, n)
	parallel.For(n, func(i, _ int) {
		view := s.View
		if s.Camera != nil {
			view = s.Camera.Orbited(float64(i)*step, 0).ViewMatrix()
		}

		fb := render.NewFramebuffer(cfg.Width, cfg.Height)
		s.RenderView(fb, view)
		errs[i] = writeFrame(fb, cfg.Output, i, n)

		if bar != nil {
			bar.Add(1)
		}
	})
	if bar != nil {
		bar.Close()
	}
	return errors.Join(errs...)
}

// writeFrame writes frame i of n to every configured output.
func writeFrame(fb *render.Framebuffer, out config.Output, i, n int) error {
	outputs := []struct {
		path string
		save func(string) error
	}{
		{out.PPM, fb.SavePPM},
		{out.DepthPPM, fb.SaveDepthPPM},
		{out.PNG, fb.SavePNG},
	}

	var errs []error
	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		if err := o.save(config.FramePath(o.path, i, n)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
