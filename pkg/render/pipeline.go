package render

import (
	"math"

	"github.com/taigrr/softraster/pkg/math3d"
)

// degenerateArea is the smallest NDC edge-function area a triangle may have
// and still be rasterized. Anything smaller would divide by (nearly) zero
// when computing barycentric weights.
const degenerateArea = 1e-12

// VertexInput is one mesh vertex as the vertex stage consumes it.
type VertexInput struct {
	Position math3d.Vec3
	Color    math3d.Vec3 // channels in [0, 1]
	TexCoord math3d.Vec2
}

// Varyings is the bundle the vertex stage emits and the rasterizer
// interpolates per pixel.
type Varyings struct {
	Position math3d.Vec4 // after the perspective divide, so W == 1
	Color    math3d.Vec3
	TexCoord math3d.Vec2
}

// TriangleSource is anything the pipeline can pull indexed triangles from.
// models.Mesh implements it; render never imports models.
type TriangleSource interface {
	TriangleCount() int
	Face(i int) [3]int
	Vertex(i int) VertexInput
}

// Stats counts what happened while drawing.
type Stats struct {
	Triangles  int // triangles submitted
	Degenerate int // skipped for zero area or a non-finite bounding box
	Covered    int // pixels that passed the coverage test
	DepthFail  int // covered pixels rejected by the depth test
	Written    int // pixels whose color and depth were written
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Triangles += o.Triangles
	s.Degenerate += o.Degenerate
	s.Covered += o.Covered
	s.DepthFail += o.DepthFail
	s.Written += o.Written
}

// ShadeVertex transforms a vertex by mvp and divides the whole clip-space
// position by its w. Color and texture coordinate pass through unchanged.
func ShadeVertex(in VertexInput, mvp math3d.Mat4) Varyings {
	return Varyings{
		Position: mvp.MulVec4(math3d.Point(in.Position)).PerspectiveDivide(),
		Color:    in.Color,
		TexCoord: in.TexCoord,
	}
}

// ShadeFragment returns the final color of a fragment: the nearest texel
// when a texture is bound, the interpolated vertex color otherwise.
func ShadeFragment(v Varyings, tex *Texture) Color {
	if tex != nil {
		c := tex.Sample(v.TexCoord.X, v.TexCoord.Y)
		c.A = 255
		return c
	}
	return ColorFromVec3(v.Color)
}

// EdgeFunction returns (a.x-b.x)*(c.y-b.y) - (a.y-b.y)*(c.x-b.x).
// Its sign tells which side of the directed line b->c the point a lies on,
// and edge(v0, v1, v2) is twice the signed area of the triangle.
func EdgeFunction(a, b, c math3d.Vec2) float64 {
	return (a.X-b.X)*(c.Y-b.Y) - (a.Y-b.Y)*(c.X-b.X)
}

// Barycentric returns the weights of p with respect to v0, v1, v2 and
// whether p is covered. Each weight comes from the edge opposite its
// vertex. A pixel is covered when all three edge values are non-negative,
// so only triangles whose edge(v0, v1, v2) is positive ever cover pixels.
func Barycentric(v0, v1, v2, p math3d.Vec2) (w math3d.Vec3, covered bool) {
	area := EdgeFunction(v0, v1, v2)
	e01 := EdgeFunction(p, v0, v1)
	e12 := EdgeFunction(p, v1, v2)
	e20 := EdgeFunction(p, v2, v0)
	if e01 < 0 || e12 < 0 || e20 < 0 {
		return math3d.Vec3{}, false
	}
	return math3d.V3(e12/area, e20/area, e01/area), true
}

// PixelCenter returns the NDC position of the center of pixel (x, y) in a
// width x height framebuffer. Row 0 is the bottom scanline.
func PixelCenter(x, y, width, height int) math3d.Vec2 {
	w, h := float64(width), float64(height)
	return math3d.V2(
		float64(x)*2/w-1+1/w,
		float64(y)*2/h-1+1/h,
	)
}

// DrawMesh runs every triangle of src through the pipeline with the given
// model-view-projection matrix. tex may be nil.
func DrawMesh(fb *Framebuffer, src TriangleSource, mvp math3d.Mat4, tex *Texture) Stats {
	var stats Stats
	var tri [3]Varyings

	for i := range src.TriangleCount() {
		face := src.Face(i)
		for k, idx := range face {
			tri[k] = ShadeVertex(src.Vertex(idx), mvp)
		}
		stats.Add(DrawTriangle(fb, tri, tex))
	}
	return stats
}

// DrawTriangle rasterizes one triangle whose vertices have already been
// through the vertex stage.
//
// Depth is recovered from the reciprocal of the barycentric-weighted 1/z.
// Color and texture coordinates are interpolated linearly in screen space.
// A fragment is written only if its depth is strictly less than the stored
// depth, so on ties the earlier triangle wins.
func DrawTriangle(fb *Framebuffer, tri [3]Varyings, tex *Texture) Stats {
	stats := Stats{Triangles: 1}

	v0 := math3d.V2(tri[0].Position.X, tri[0].Position.Y)
	v1 := math3d.V2(tri[1].Position.X, tri[1].Position.Y)
	v2 := math3d.V2(tri[2].Position.X, tri[2].Position.Y)

	area := EdgeFunction(v0, v1, v2)
	if !(math.Abs(area) >= degenerateArea) {
		stats.Degenerate++
		return stats
	}

	minX, maxX, okX := pixelSpan(v0.X, v1.X, v2.X, fb.Width)
	minY, maxY, okY := pixelSpan(v0.Y, v1.Y, v2.Y, fb.Height)
	if !okX || !okY {
		return stats
	}

	z0, z1, z2 := tri[0].Position.Z, tri[1].Position.Z, tri[2].Position.Z

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w, covered := Barycentric(v0, v1, v2, PixelCenter(x, y, fb.Width, fb.Height))
			if !covered {
				continue
			}
			stats.Covered++

			z := 1 / (w.X/z0 + w.Y/z1 + w.Z/z2)
			if !(z < fb.ReadDepth(x, y)) {
				stats.DepthFail++
				continue
			}
			fb.WriteDepth(x, y, z)

			frag := Varyings{
				Position: math3d.V4(0, 0, z, 1),
				Color: tri[0].Color.Scale(w.X).
					Add(tri[1].Color.Scale(w.Y)).
					Add(tri[2].Color.Scale(w.Z)),
				TexCoord: tri[0].TexCoord.Scale(w.X).
					Add(tri[1].TexCoord.Scale(w.Y)).
					Add(tri[2].TexCoord.Scale(w.Z)),
			}
			fb.WriteColor(x, y, ShadeFragment(frag, tex))
			stats.Written++
		}
	}
	return stats
}

// pixelSpan converts the NDC extent of three coordinates to the inclusive
// range of pixel indices whose centers may lie inside it, clamped to
// [0, size-1]. It reports false when the range is empty or not finite.
func pixelSpan(a, b, c float64, size int) (lo, hi int, ok bool) {
	minN := min(a, b, c)
	maxN := max(a, b, c)
	if !(minN <= maxN) {
		return 0, 0, false
	}

	// NDC n maps to pixel (n+1)*size/2 - 0.5 at its center.
	s := float64(size)
	loF := math.Max(math.Floor((minN+1)*s/2-0.5), 0)
	hiF := math.Min(math.Ceil((maxN+1)*s/2-0.5), s-1)
	if loF > hiF {
		return 0, 0, false
	}
	return int(loF), int(hiF), true
}
