package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"github.com/taigrr/softraster/pkg/config"
	"github.com/taigrr/softraster/pkg/render"
	"github.com/taigrr/softraster/pkg/scene"
)

// windowTurnRate is the orbit speed of the arrow keys in radians per tick.
const windowTurnRate = 0.03

func newWindowCmd(opts *options) *cobra.Command {
	var scale int

	cmd := &cobra.Command{
		Use:   "window",
		Short: "View the scene in a desktop window",
		Long: "Open a window that redraws the scene every tick.\n\n" +
			"Controls:\n" +
			"  Arrows  Orbit the camera\n" +
			"  X       Toggle wireframe overlay\n" +
			"  Esc     Quit",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			s, err := scene.FromConfig(cfg)
			if err != nil {
				return err
			}
			return runWindow(cfg, s, max(scale, 1))
		},
	}
	cmd.Flags().IntVar(&scale, "scale", 2, "Window pixels per framebuffer pixel")
	return cmd
}

func runWindow(cfg *config.Config, s *scene.Scene, scale int) error {
	g := &windowGame{
		scene: s,
		fb:    render.NewFramebuffer(cfg.Width, cfg.Height),
	}
	g.pix = make([]byte, g.fb.BufferSize(render.TopDownRGBA))

	ebiten.SetWindowTitle("softraster (" + cfg.Scene + ")")
	ebiten.SetWindowSize(cfg.Width*scale, cfg.Height*scale)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

// windowGame presents a scene through ebiten.
type windowGame struct {
	scene    *scene.Scene
	fb       *render.Framebuffer
	pix      []byte
	img      *ebiten.Image
	xPressed bool
}

func (g *windowGame) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	var dYaw, dPitch float64
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dYaw -= windowTurnRate
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dYaw += windowTurnRate
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dPitch += windowTurnRate
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dPitch -= windowTurnRate
	}
	g.scene.Orbit(dYaw, dPitch)

	// Toggle on press, not while held.
	x := ebiten.IsKeyPressed(ebiten.KeyX)
	if x && !g.xPressed {
		g.scene.Wireframe = !g.scene.Wireframe
	}
	g.xPressed = x

	g.scene.Render(g.fb)
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = ebiten.NewImage(g.fb.Width, g.fb.Height)
	}
	g.fb.CopyTo(g.pix, render.TopDownRGBA)
	g.img.WritePixels(g.pix)
	screen.DrawImage(g.img, nil)
}

func (g *windowGame) Layout(_, _ int) (int, int) {
	return g.fb.Width, g.fb.Height
}
