// Package scene holds an ordered list of models with the view and
// projection they are drawn through, and renders them into a framebuffer.
package scene

import (
	"fmt"
	"math"

	"github.com/taigrr/softraster/pkg/math3d"
	"github.com/taigrr/softraster/pkg/models"
	"github.com/taigrr/softraster/pkg/render"
)

// Stats extends the pipeline counters with per-model figures.
type Stats struct {
	render.Stats
	Models int // models drawn
	Culled int // models skipped by the frustum test
}

// Scene is an ordered set of models plus camera state. Draw order only
// matters for depth ties, where the earlier model keeps the pixel.
type Scene struct {
	Models     []*models.Model
	View       math3d.Mat4
	Projection math3d.Mat4

	// Camera drives View when set. Call Orbit or SetCamera to sync them.
	Camera *OrbitCamera

	// Cull skips models whose bounding box is outside the view frustum.
	Cull bool

	// Wireframe outlines every drawn model after the fill pass.
	Wireframe      bool
	WireframeColor render.Color

	// ShowBounds outlines each drawn model's bounding box and ShowAxes
	// draws the world axes at the origin, both after the fill pass.
	ShowBounds  bool
	BoundsColor render.Color
	ShowAxes    bool
	AxesLength  float64
}

// New returns an empty scene with identity view and projection.
func New() *Scene {
	return &Scene{
		View:           math3d.Identity(),
		Projection:     math3d.Identity(),
		WireframeColor: render.ColorWhite,
		BoundsColor:    render.RGB(255, 255, 0),
		AxesLength:     1,
	}
}

// AddModel appends m after checking its mesh.
func (s *Scene) AddModel(m *models.Model) error {
	if m.Mesh == nil {
		return fmt.Errorf("%w: model has no mesh", models.ErrInvalidMesh)
	}
	if err := m.Mesh.Validate(); err != nil {
		return err
	}
	s.Models = append(s.Models, m)
	return nil
}

// SetCamera attaches c and derives the view matrix from it.
func (s *Scene) SetCamera(c *OrbitCamera) {
	s.Camera = c
	s.View = c.ViewMatrix()
}

// Orbit applies yaw and pitch deltas to the camera and refreshes the view
// matrix. It does nothing without a camera.
func (s *Scene) Orbit(dYaw, dPitch float64) {
	if s.Camera == nil {
		return
	}
	s.Camera.Update(dYaw, dPitch)
	s.View = s.Camera.ViewMatrix()
}

// Render clears fb and draws every model through the scene's view and
// projection. With a camera attached, View is first derived from the
// camera's current yaw, pitch and radius.
func (s *Scene) Render(fb *render.Framebuffer) Stats {
	if s.Camera != nil {
		s.View = s.Camera.ViewMatrix()
	}
	return s.RenderView(fb, s.View)
}

// RenderView is Render with an explicit view matrix. It does not modify
// the scene, so frames with different views may be rendered concurrently
// into separate framebuffers.
func (s *Scene) RenderView(fb *render.Framebuffer, view math3d.Mat4) Stats {
	fb.Clear()

	var (
		stats Stats
		drawn []*models.Model
	)
	for _, m := range s.Models {
		if s.Cull {
			frustum := render.NewFrustumFromMatrix(m.MVP(view, s.Projection))
			if !frustum.IntersectAABB(m.Mesh.Bounds()) {
				stats.Culled++
				continue
			}
		}
		stats.Add(m.Draw(fb, view, s.Projection))
		stats.Models++
		drawn = append(drawn, m)
	}

	for _, m := range drawn {
		if s.Wireframe {
			m.DrawWireframe(fb, view, s.Projection, s.WireframeColor)
		}
		if s.ShowBounds {
			m.DrawBounds(fb, view, s.Projection, s.BoundsColor)
		}
	}
	if s.ShowAxes {
		render.NewWireframe(fb, s.Projection.Mul(view)).DrawAxes(s.AxesLength)
	}

	render.Logger().Debug("rendered frame",
		"models", stats.Models,
		"culled", stats.Culled,
		"triangles", stats.Triangles,
		"degenerate", stats.Degenerate,
		"covered", stats.Covered,
		"depth_fail", stats.DepthFail,
		"written", stats.Written)
	return stats
}

// Bounds returns the world-space box around every model. An empty scene
// has an empty box at the origin.
func (s *Scene) Bounds() render.AABB {
	if len(s.Models) == 0 {
		return render.AABB{}
	}
	box := s.Models[0].Bounds()
	for _, m := range s.Models[1:] {
		b := m.Bounds()
		box.Min = box.Min.Min(b.Min)
		box.Max = box.Max.Max(b.Max)
	}
	return box
}

// Fit moves and uniformly scales every model so the scene's bounding box
// is centered on the origin with its largest side equal to size.
func (s *Scene) Fit(size float64) {
	box := s.Bounds()
	dims := box.Size()
	maxDim := math.Max(dims.X, math.Max(dims.Y, dims.Z))
	if maxDim <= 0 {
		return
	}

	fit := math3d.ScaleUniform(size / maxDim).Mul(math3d.Translate(box.Center().Negate()))
	for _, m := range s.Models {
		m.Transform = fit.Mul(m.Transform)
	}
}
