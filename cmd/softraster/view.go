package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/softraster/pkg/config"
	"github.com/taigrr/softraster/pkg/render"
	"github.com/taigrr/softraster/pkg/scene"
)

const (
	torqueStrength = 3.0
	torqueDecay    = 0.9
	minRadius      = 0.5
	maxRadius      = 20.0
	zoomStep       = 0.25
)

func newViewCmd(opts *options) *cobra.Command {
	var fps int

	cmd := &cobra.Command{
		Use:   "view",
		Short: "View the scene in the terminal",
		Long: "Draw the scene in the terminal with two pixels per cell.\n\n" +
			"Controls:\n" +
			"  W/S/A/D, arrows  Orbit the camera\n" +
			"  +/-              Zoom\n" +
			"  R                Reset the camera\n" +
			"  X                Toggle wireframe overlay\n" +
			"  B                Toggle bounding boxes\n" +
			"  G                Toggle world axes\n" +
			"  C                Toggle frustum culling\n" +
			"  Esc, Ctrl+C      Quit",
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
			// The terminal owns stderr while the viewer runs.
			render.SetLogger(nil)
			return runView(cfg, s, fps)
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 60, "Target FPS")
	return cmd
}

// orbitAxis is one camera angle whose velocity decays through a critically
// damped spring.
type orbitAxis struct {
	Velocity float64
	spring   harmonica.Spring
	accel    float64 // spring velocity of Velocity itself
}

func newOrbitAxis(fps int) orbitAxis {
	return orbitAxis{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

// Step returns the angle change for this frame and decays the velocity
// toward zero.
func (a *orbitAxis) Step() float64 {
	d := a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
	return d
}

// fitView resizes cfg to a terminal of cols x rows cells and refits the
// scene's projection. Fixed-matrix scenes keep theirs.
func fitView(cfg *config.Config, s *scene.Scene, cols, rows int) *render.Framebuffer {
	cfg.Width, cfg.Height = max(cols, 1), max(rows*2, 1)
	if s.Camera != nil {
		s.Projection = scene.ProjectionFromConfig(cfg)
	}
	return render.NewFramebuffer(cfg.Width, cfg.Height)
}

func runView(cfg *config.Config, s *scene.Scene, fps int) error {
	if fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", fps)
	}

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	fb := fitView(cfg, s, width, height)

	var home scene.OrbitCamera
	if s.Camera != nil {
		home = *s.Camera
	}
	yaw, pitch := newOrbitAxis(fps), newOrbitAxis(fps)
	torque := struct{ yaw, pitch float64 }{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	events := term.Events()
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				fb = fitView(cfg, s, width, height)

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "ctrl+c"):
					return nil
				case ev.MatchString("w", "up"):
					torque.pitch = torqueStrength
				case ev.MatchString("s", "down"):
					torque.pitch = -torqueStrength
				case ev.MatchString("a", "left"):
					torque.yaw = -torqueStrength
				case ev.MatchString("d", "right"):
					torque.yaw = torqueStrength
				case ev.MatchString("+", "="):
					if s.Camera != nil {
						s.Camera.Radius = max(minRadius, s.Camera.Radius-zoomStep)
					}
				case ev.MatchString("-", "_"):
					if s.Camera != nil {
						s.Camera.Radius = min(maxRadius, s.Camera.Radius+zoomStep)
					}
				case ev.MatchString("r"):
					if s.Camera != nil {
						reset := home
						s.SetCamera(&reset)
					}
					yaw, pitch = newOrbitAxis(fps), newOrbitAxis(fps)
				case ev.MatchString("x"):
					s.Wireframe = !s.Wireframe
				case ev.MatchString("c"):
					s.Cull = !s.Cull
				case ev.MatchString("b"):
					s.ShowBounds = !s.ShowBounds
				case ev.MatchString("g"):
					s.ShowAxes = !s.ShowAxes
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w", "up", "s", "down"):
					torque.pitch = 0
				case ev.MatchString("a", "left", "d", "right"):
					torque.yaw = 0
				}
			}

		case now := <-ticker.C:
			dt := min(now.Sub(lastFrame).Seconds(), 0.1)
			lastFrame = now

			// Key releases are not reported by every terminal, so held
			// torque fades on its own.
			yaw.Velocity += torque.yaw * dt
			pitch.Velocity += torque.pitch * dt
			torque.yaw *= torqueDecay
			torque.pitch *= torqueDecay

			s.Orbit(yaw.Step(), pitch.Step())
			s.Render(fb)

			fb.Draw(term, uv.Rect(0, 0, width, height))
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}
