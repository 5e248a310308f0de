package scene

import (
	"math"

	"github.com/taigrr/softraster/pkg/math3d"
)

// MaxPitch keeps the orbit camera off the poles, where the eye direction
// would be parallel to the up vector and LookAt would be undefined.
const MaxPitch = math.Pi/2 - 0.01

// Default orbit camera placement: looking along +z from radius 2.5.
const (
	DefaultYaw    = math.Pi / 2
	DefaultRadius = 2.5
)

// OrbitCamera circles a target point at a fixed radius. Yaw turns around
// the world y axis and pitch raises the eye above the xz plane.
type OrbitCamera struct {
	Yaw    float64
	Pitch  float64
	Radius float64
	Target math3d.Vec3
}

// NewOrbitCamera returns a camera at the default yaw and radius looking at
// the origin.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{Yaw: DefaultYaw, Radius: DefaultRadius}
}

// Update applies per-frame yaw and pitch deltas. Pitch is clamped to
// [-MaxPitch, MaxPitch]; yaw is unbounded.
func (c *OrbitCamera) Update(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch = min(max(c.Pitch+dPitch, -MaxPitch), MaxPitch)
}

// Eye returns the camera position.
func (c *OrbitCamera) Eye() math3d.Vec3 {
	cp := math.Cos(c.Pitch)
	dir := math3d.V3(math.Cos(c.Yaw)*cp, math.Sin(c.Pitch), -math.Sin(c.Yaw)*cp)
	return c.Target.Add(dir.Scale(c.Radius))
}

// ViewMatrix returns the world-to-view transform.
func (c *OrbitCamera) ViewMatrix() math3d.Mat4 {
	return math3d.LookAt(c.Eye(), c.Target, math3d.Up())
}

// Orbited returns a copy of the camera after Update(dYaw, dPitch), leaving
// c unchanged.
func (c OrbitCamera) Orbited(dYaw, dPitch float64) *OrbitCamera {
	c.Update(dYaw, dPitch)
	return &c
}

// FitPerspective returns a perspective projection with vertical field of
// view fovV whose horizontal field of view matches the width/height
// aspect ratio.
func FitPerspective(fovV float64, width, height int, near, far float64) math3d.Mat4 {
	aspect := float64(width) / float64(height)
	fovH := 2 * math.Atan(math.Tan(fovV/2)*aspect)
	return math3d.Perspective(near, far, fovH, fovV)
}
