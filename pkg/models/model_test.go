package models

import (
	"testing"

	"github.com/taigrr/softraster/pkg/math3d"
	"github.com/taigrr/softraster/pkg/render"
)

func TestModelMVPOrder(t *testing.T) {
	m := NewModel(NewTriangleMesh())
	m.Transform = math3d.Translate(math3d.V3(1, 0, 0))
	view := math3d.ScaleUniform(2)
	proj := math3d.Translate(math3d.V3(0, 5, 0))

	// Model first, then view, then projection.
	got := m.MVP(view, proj).MulVec3(math3d.Vec3{})
	if got != math3d.V3(2, 5, 0) {
		t.Errorf("MVP * origin = %v, want (2, 5, 0)", got)
	}
}

func TestModelDrawSharedMesh(t *testing.T) {
	mesh := NewTriangleMesh()
	left := NewModel(mesh)
	left.Transform = math3d.Translate(math3d.V3(-10, 0, 0))
	center := NewModel(mesh)

	fb := render.NewFramebuffer(16, 16)
	id := math3d.Identity()

	if stats := left.Draw(fb, id, id); stats.Written != 0 {
		t.Errorf("off-screen model wrote %d pixels", stats.Written)
	}
	stats := center.Draw(fb, id, id)
	if stats.Triangles != 1 || stats.Written == 0 {
		t.Errorf("stats = %+v, want one triangle with pixels written", stats)
	}
	if left.Mesh != center.Mesh {
		t.Error("models should share the mesh")
	}
}

func TestModelDrawTextured(t *testing.T) {
	mesh := NewQuadMesh()
	mesh.TexCoords = []math3d.Vec2{
		{X: 0, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 1},
		{X: 1, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 0},
	}
	m := NewModel(mesh)
	m.Material = NewMaterial("checker")
	m.Material.BaseColorTexture = render.NewCheckerTexture(2, 2, 1, render.ColorWhite, render.ColorWhite)

	fb := render.NewFramebuffer(8, 8)
	id := math3d.Identity()
	m.Draw(fb, id, id)

	// Center pixels fall inside the quad and show the all-white texture
	// rather than the red, green and blue vertex colors.
	if got := fb.ReadColor(4, 4); got != render.ColorWhite {
		t.Errorf("center pixel = %v, want white", got)
	}
}

func TestModelBounds(t *testing.T) {
	m := NewModel(NewCubeMesh(NewPalette(0)))
	m.Transform = math3d.Translate(math3d.V3(0, 0, 5))

	box := m.Bounds()
	if box.Min.Z < 4.19 || box.Min.Z > 4.21 || box.Max.Z < 5.79 || box.Max.Z > 5.81 {
		t.Errorf("Bounds() = %v, want z in [4.2, 5.8]", box)
	}
}

func TestModelDrawBounds(t *testing.T) {
	m := NewModel(NewQuadMesh())
	m.Transform = math3d.ScaleUniform(0.5)
	fb := render.NewFramebuffer(32, 32)
	id := math3d.Identity()

	m.DrawBounds(fb, id, id, render.ColorWhite)

	// The scaled box spans [-0.4, 0.4]: columns and rows 9 to 22.
	for _, p := range [][2]int{{9, 9}, {22, 9}, {9, 22}, {22, 22}, {16, 9}} {
		if got := fb.ReadColor(p[0], p[1]); got != render.ColorWhite {
			t.Errorf("box outline at %v = %v, want white", p, got)
		}
	}
	if got := fb.ReadColor(16, 16); got != render.ColorBlack {
		t.Errorf("box interior = %v, want untouched", got)
	}
}

func TestModelDrawWireframe(t *testing.T) {
	m := NewModel(NewQuadMesh())
	fb := render.NewFramebuffer(32, 32)
	id := math3d.Identity()

	m.DrawWireframe(fb, id, id, render.ColorWhite)

	lit := 0
	for y := range fb.Height {
		for x := range fb.Width {
			if fb.ReadColor(x, y) == render.ColorWhite {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("wireframe drew nothing")
	}
	if fb.ReadDepth(16, 16) != 1 {
		t.Error("wireframe should not touch depth")
	}
}
