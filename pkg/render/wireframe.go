package render

import (
	"math"

	"github.com/taigrr/softraster/pkg/math3d"
)

// maxLineNDC bounds how far outside the screen a line endpoint may land
// before the line is dropped instead of walked pixel by pixel.
const maxLineNDC = 8

// Wireframe draws debug lines over a finished frame. Lines ignore and do
// not update the depth plane.
type Wireframe struct {
	fb  *Framebuffer
	mvp math3d.Mat4
}

// NewWireframe creates a wireframe overlay that projects points with mvp.
func NewWireframe(fb *Framebuffer, mvp math3d.Mat4) *Wireframe {
	return &Wireframe{fb: fb, mvp: mvp}
}

// project maps a point to pixel coordinates. It reports false for points
// at or behind the eye and for points far off screen.
func (w *Wireframe) project(p math3d.Vec3) (x, y int, ok bool) {
	clip := w.mvp.MulVec4(math3d.Point(p))
	if clip.W <= 0 {
		return 0, 0, false
	}
	ndc := clip.PerspectiveDivide()
	if math.Abs(ndc.X) > maxLineNDC || math.Abs(ndc.Y) > maxLineNDC {
		return 0, 0, false
	}
	x = int(math.Floor((ndc.X + 1) * float64(w.fb.Width) / 2))
	y = int(math.Floor((ndc.Y + 1) * float64(w.fb.Height) / 2))
	return x, y, true
}

// DrawLine3D draws a line between two points.
// The line is skipped unless both endpoints project.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	x1, y1, ok1 := w.project(p1)
	x2, y2, ok2 := w.project(p2)
	if !ok1 || !ok2 {
		return
	}
	w.fb.DrawLine(x1, y1, x2, y2, color)
}

// DrawMesh outlines every triangle of src.
func (w *Wireframe) DrawMesh(src TriangleSource, color Color) {
	for i := range src.TriangleCount() {
		face := src.Face(i)
		p0 := src.Vertex(face[0]).Position
		p1 := src.Vertex(face[1]).Position
		p2 := src.Vertex(face[2]).Position

		w.DrawLine3D(p0, p1, color)
		w.DrawLine3D(p1, p2, color)
		w.DrawLine3D(p2, p0, color)
	}
}

// DrawBox draws the 12 edges of a box.
func (w *Wireframe) DrawBox(box AABB, color Color) {
	c := box.Corners()
	edges := [12][2]int{
		{0, 1}, {1, 3}, {3, 2}, {2, 0},
		{4, 5}, {5, 7}, {7, 6}, {6, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	for _, e := range edges {
		w.DrawLine3D(c[e[0]], c[e[1]], color)
	}
}

// DrawAxes draws the coordinate axes at the origin.
func (w *Wireframe) DrawAxes(length float64) {
	origin := math3d.Vec3{}
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)   // X axis
	w.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen) // Y axis
	w.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)  // Z axis
}
