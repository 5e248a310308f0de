// Package config loads render settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Scene names.
const (
	SceneTriangle  = "triangle"
	SceneQuad      = "quad"
	SceneCube      = "cube"
	SceneOrthoCube = "ortho-cube"
	SceneGLTF      = "gltf"
)

// Scenes lists every accepted scene name.
var Scenes = []string{SceneTriangle, SceneQuad, SceneCube, SceneOrthoCube, SceneGLTF}

// Projection kinds.
const (
	ProjectionPerspective  = "perspective"
	ProjectionOrthographic = "orthographic"
)

// Config describes what to render and where to write it.
type Config struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Scene  string `yaml:"scene"`
	// Model is the glTF or GLB file for the gltf scene.
	Model string `yaml:"model"`
	// Seed drives the placeholder vertex colors of the cube scene.
	Seed uint64 `yaml:"seed"`

	Projection Projection `yaml:"projection"`
	Camera     Camera     `yaml:"camera"`
	Output     Output     `yaml:"output"`

	// Frames > 1 renders an orbit sequence, turning the camera by YawStep
	// degrees between frames.
	Frames  int     `yaml:"frames"`
	YawStep float64 `yaml:"yaw_step"`

	Cull      bool `yaml:"cull"`
	Wireframe bool `yaml:"wireframe"`
	// Bounds outlines model bounding boxes; Axes draws the world axes.
	Bounds bool `yaml:"bounds"`
	Axes   bool `yaml:"axes"`
}

// Projection configures the projection used by the cube and gltf scenes.
// Angles are in degrees.
type Projection struct {
	Kind string  `yaml:"kind"`
	Near float64 `yaml:"near"`
	Far  float64 `yaml:"far"`
	// FovH of 0 derives the horizontal field of view from FovV and the
	// framebuffer aspect ratio.
	FovH float64 `yaml:"fov_h"`
	FovV float64 `yaml:"fov_v"`
	// Width and Height size the orthographic view volume.
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Camera places the orbit camera. Angles are in degrees.
type Camera struct {
	Yaw    float64    `yaml:"yaw"`
	Pitch  float64    `yaml:"pitch"`
	Radius float64    `yaml:"radius"`
	Target [3]float64 `yaml:"target"`
}

// Output lists the files to write. Empty paths are skipped.
type Output struct {
	PPM      string `yaml:"ppm"`
	DepthPPM string `yaml:"depth_ppm"`
	PNG      string `yaml:"png"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Width:  256,
		Height: 256,
		Scene:  SceneCube,
		Seed:   1,
		Projection: Projection{
			Kind:   ProjectionPerspective,
			Near:   0.1,
			Far:    100,
			FovV:   60,
			Width:  2,
			Height: 2,
		},
		Camera: Camera{
			Yaw:    90,
			Radius: 2.5,
		},
		Output: Output{
			PPM: "out.ppm",
		},
		Frames:  1,
		YawStep: 10,
	}
}

// Load reads a YAML config file. Keys missing from the file keep their
// Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults
	if cfg.Frames == 0 {
		cfg.Frames = 1
	}
	if cfg.Projection.Kind == "" {
		cfg.Projection.Kind = ProjectionPerspective
	}

	return cfg, nil
}

// Validate reports the first invalid setting. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height)
	}
	if !slices.Contains(Scenes, c.Scene) {
		return fmt.Errorf("%w: unknown scene %q (want one of %s)", ErrInvalidConfig, c.Scene, strings.Join(Scenes, ", "))
	}
	if c.Scene == SceneGLTF && c.Model == "" {
		return fmt.Errorf("%w: gltf scene needs a model path", ErrInvalidConfig)
	}
	if c.Frames < 1 {
		return fmt.Errorf("%w: frames must be at least 1, got %d", ErrInvalidConfig, c.Frames)
	}
	if c.Camera.Radius <= 0 {
		return fmt.Errorf("%w: camera radius must be positive, got %g", ErrInvalidConfig, c.Camera.Radius)
	}

	p := c.Projection
	switch p.Kind {
	case ProjectionPerspective:
		if p.Near <= 0 || p.Far <= p.Near {
			return fmt.Errorf("%w: perspective needs 0 < near < far, got %g, %g", ErrInvalidConfig, p.Near, p.Far)
		}
		if p.FovV <= 0 || p.FovV >= 180 || p.FovH < 0 || p.FovH >= 180 {
			return fmt.Errorf("%w: field of view must be in (0, 180) degrees", ErrInvalidConfig)
		}
	case ProjectionOrthographic:
		if p.Width <= 0 || p.Height <= 0 || p.Far == p.Near {
			return fmt.Errorf("%w: orthographic needs a positive size and near != far", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown projection %q", ErrInvalidConfig, p.Kind)
	}
	return nil
}

// FramePath returns the output path for frame i of n. Single frames keep
// path unchanged; sequences insert a zero-padded frame number before the
// extension.
func FramePath(path string, i, n int) string {
	if path == "" || n <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%04d%s", strings.TrimSuffix(path, ext), i, ext)
}
