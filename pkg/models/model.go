package models

import (
	"github.com/taigrr/softraster/pkg/math3d"
	"github.com/taigrr/softraster/pkg/render"
)

// Model places a shared mesh in the world with its own transform and an
// optional material.
type Model struct {
	Mesh      *Mesh
	Transform math3d.Mat4
	Material  *Material
}

// NewModel creates a model of mesh with an identity transform and no
// material.
func NewModel(mesh *Mesh) *Model {
	return &Model{Mesh: mesh, Transform: math3d.Identity()}
}

// MVP composes projection * view * transform.
func (m *Model) MVP(view, projection math3d.Mat4) math3d.Mat4 {
	return projection.Mul(view).Mul(m.Transform)
}

// Draw rasterizes the model into fb. The material's base color texture is
// sampled when present, otherwise vertex colors are used.
func (m *Model) Draw(fb *render.Framebuffer, view, projection math3d.Mat4) render.Stats {
	return render.DrawMesh(fb, m.Mesh, m.MVP(view, projection), m.Material.texture())
}

// DrawWireframe outlines the model's triangles over fb.
func (m *Model) DrawWireframe(fb *render.Framebuffer, view, projection math3d.Mat4, color render.Color) {
	render.NewWireframe(fb, m.MVP(view, projection)).DrawMesh(m.Mesh, color)
}

// DrawBounds outlines the mesh's bounding box, carried by the model
// transform, over fb.
func (m *Model) DrawBounds(fb *render.Framebuffer, view, projection math3d.Mat4, color render.Color) {
	render.NewWireframe(fb, m.MVP(view, projection)).DrawBox(m.Mesh.Bounds(), color)
}

// Bounds returns the model's bounding box in world space.
func (m *Model) Bounds() render.AABB {
	return m.Mesh.Bounds().Transform(m.Transform)
}
