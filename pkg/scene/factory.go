package scene

import (
	"fmt"
	"math"

	"github.com/taigrr/softraster/pkg/config"
	"github.com/taigrr/softraster/pkg/math3d"
	"github.com/taigrr/softraster/pkg/models"
)

// FitSize is the extent glTF scenes are scaled to so they sit inside the
// default orbit radius.
const FitSize = 2.0

func single(mesh *models.Mesh) *Scene {
	s := New()
	s.Models = []*models.Model{models.NewModel(mesh)}
	return s
}

// NewTriangleScene draws one RGB triangle straight into NDC.
func NewTriangleScene() *Scene {
	return single(models.NewTriangleMesh())
}

// NewQuadScene draws a two-triangle quad straight into NDC.
func NewQuadScene() *Scene {
	return single(models.NewQuadMesh())
}

// NewCubeScene draws a palette-colored cube seen by the default orbit
// camera through proj.
func NewCubeScene(p *models.Palette, proj math3d.Mat4) *Scene {
	s := single(models.NewCubeMesh(p))
	s.Projection = proj
	s.SetCamera(NewOrbitCamera())
	return s
}

// NewOrthographicCubeScene draws the sheared box through an orthographic
// projection that maps z in [-1, 1] to depth [0, 1].
func NewOrthographicCubeScene() *Scene {
	s := single(models.NewOrthographicCubeMesh())
	s.Projection = math3d.Orthographic(2, 2, -1, 1)
	return s
}

// NewGLTFScene loads a glTF file, fits it to FitSize around the origin and
// attaches the default orbit camera.
func NewGLTFScene(path string, proj math3d.Mat4) (*Scene, error) {
	loaded, err := models.LoadGLTF(path)
	if err != nil {
		return nil, err
	}

	s := New()
	for _, m := range loaded {
		if err := s.AddModel(m); err != nil {
			return nil, err
		}
	}
	s.Fit(FitSize)
	s.Projection = proj
	s.SetCamera(NewOrbitCamera())
	return s, nil
}

// FromConfig builds the scene cfg names. The triangle, quad and ortho-cube
// scenes have fixed matrices; the cube and gltf scenes use the configured
// projection and camera.
func FromConfig(cfg *config.Config) (*Scene, error) {
	var s *Scene
	switch cfg.Scene {
	case config.SceneTriangle:
		s = NewTriangleScene()
	case config.SceneQuad:
		s = NewQuadScene()
	case config.SceneOrthoCube:
		s = NewOrthographicCubeScene()
	case config.SceneCube:
		s = NewCubeScene(models.NewPalette(cfg.Seed), ProjectionFromConfig(cfg))
	case config.SceneGLTF:
		var err error
		if s, err = NewGLTFScene(cfg.Model, ProjectionFromConfig(cfg)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown scene %q", config.ErrInvalidConfig, cfg.Scene)
	}

	if s.Camera != nil {
		s.SetCamera(CameraFromConfig(cfg))
	}
	s.Cull = cfg.Cull
	s.Wireframe = cfg.Wireframe
	s.ShowBounds = cfg.Bounds
	s.ShowAxes = cfg.Axes
	return s, nil
}

// ProjectionFromConfig returns the configured projection for a
// cfg.Width x cfg.Height framebuffer.
func ProjectionFromConfig(cfg *config.Config) math3d.Mat4 {
	p := cfg.Projection
	if p.Kind == config.ProjectionOrthographic {
		return math3d.Orthographic(p.Width, p.Height, p.Near, p.Far)
	}
	if p.FovH == 0 {
		return FitPerspective(radians(p.FovV), cfg.Width, cfg.Height, p.Near, p.Far)
	}
	return math3d.Perspective(p.Near, p.Far, radians(p.FovH), radians(p.FovV))
}

// CameraFromConfig returns the configured orbit camera. The configured
// pitch is clamped like any other pitch update.
func CameraFromConfig(cfg *config.Config) *OrbitCamera {
	c := &OrbitCamera{
		Yaw:    radians(cfg.Camera.Yaw),
		Radius: cfg.Camera.Radius,
		Target: math3d.V3(cfg.Camera.Target[0], cfg.Camera.Target[1], cfg.Camera.Target[2]),
	}
	c.Update(0, radians(cfg.Camera.Pitch))
	return c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
