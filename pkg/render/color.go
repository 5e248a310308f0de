package render

import (
	"image/color"

	"github.com/taigrr/softraster/pkg/math3d"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack = RGB(0, 0, 0)
	ColorWhite = RGB(255, 255, 255)
	ColorRed   = RGB(255, 0, 0)
	ColorGreen = RGB(0, 255, 0)
	ColorBlue  = RGB(0, 0, 255)
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// ColorFromVec3 converts a color with channels in [0, 1] to 8-bit RGB.
// Channels are clamped and rounded to the nearest step, so weights that
// sum to one within rounding error still reproduce a flat color exactly.
func ColorFromVec3(c math3d.Vec3) Color {
	c = c.Clamp01()
	return Color{
		R: uint8(c.X*255 + 0.5),
		G: uint8(c.Y*255 + 0.5),
		B: uint8(c.Z*255 + 0.5),
		A: 255,
	}
}

// Vec3FromColor converts an 8-bit color to channels in [0, 1].
func Vec3FromColor(c Color) math3d.Vec3 {
	return math3d.V3(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}
