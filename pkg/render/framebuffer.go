// Package render implements the software rasterization pipeline: the
// framebuffer, textures, the vertex and fragment stages, and the
// presenters that move finished frames to files, terminals and windows.
package render

import "fmt"

// bytesPerPixel is the size of one texel in the color plane (RGB).
const bytesPerPixel = 3

// Framebuffer holds a color plane and a depth plane of the same size.
//
// Both planes are row-major with row 0 at the bottom of the image, matching
// NDC where y points up. Depth lies in [0, 1]; smaller is nearer.
type Framebuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGB, 3 bytes per pixel
	Depth  []float64 // one value per pixel
}

// NewFramebuffer allocates a cleared framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Color:  make([]uint8, width*height*bytesPerPixel),
		Depth:  make([]float64, width*height),
	}
	fb.Clear()
	return fb
}

// Clear resets every pixel to black and every depth value to 1 (far).
// Call once at the start of a render pass, not once per model.
func (fb *Framebuffer) Clear() {
	clear(fb.Color)

	// Use copy-doubling for faster clearing
	n := len(fb.Depth)
	if n == 0 {
		return
	}
	fb.Depth[0] = 1
	for i := 1; i < n; i *= 2 {
		copy(fb.Depth[i:], fb.Depth[:i])
	}
}

// index returns the plane offset of (x, y). Coordinates outside the
// framebuffer are a programming error and panic.
func (fb *Framebuffer) index(x, y int) int {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		panic(fmt.Sprintf("render: pixel (%d, %d) outside %dx%d framebuffer", x, y, fb.Width, fb.Height))
	}
	return y*fb.Width + x
}

// WriteColor overwrites the color at (x, y). Alpha is ignored.
func (fb *Framebuffer) WriteColor(x, y int, c Color) {
	i := fb.index(x, y) * bytesPerPixel
	fb.Color[i] = c.R
	fb.Color[i+1] = c.G
	fb.Color[i+2] = c.B
}

// WriteDepth overwrites the depth at (x, y).
func (fb *Framebuffer) WriteDepth(x, y int, z float64) {
	fb.Depth[fb.index(x, y)] = z
}

// ReadColor returns the opaque color at (x, y).
func (fb *Framebuffer) ReadColor(x, y int) Color {
	i := fb.index(x, y) * bytesPerPixel
	return Color{R: fb.Color[i], G: fb.Color[i+1], B: fb.Color[i+2], A: 255}
}

// ReadDepth returns the depth at (x, y).
func (fb *Framebuffer) ReadDepth(x, y int) float64 {
	return fb.Depth[fb.index(x, y)]
}

// setPixel writes a color if (x, y) is inside the framebuffer and does
// nothing otherwise. Overlays use it for lines that leave the screen.
func (fb *Framebuffer) setPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.WriteColor(x, y, c)
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
// The depth plane is left untouched.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.setPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
