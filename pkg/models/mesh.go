// Package models provides meshes, materials and model instances for the
// rasterizer, and loads them from glTF files.
package models

import (
	"errors"
	"fmt"

	"github.com/taigrr/softraster/pkg/math3d"
	"github.com/taigrr/softraster/pkg/render"
)

// ErrInvalidMesh is returned when a mesh's arrays disagree with its
// triangle count.
var ErrInvalidMesh = errors.New("invalid mesh")

// Mesh is an immutable triangle list. Positions are flat; Indices, when
// present, hold three entries per triangle. Colors, Normals and TexCoords
// are either empty or parallel to Vertices.
//
// A mesh may be shared by any number of models and must not be modified
// once it is in use.
type Mesh struct {
	Name         string
	NumTriangles int
	Vertices     []math3d.Vec3
	Indices      []uint32
	Colors       []math3d.Vec3
	Normals      []math3d.Vec3
	TexCoords    []math3d.Vec2
}

// Validate checks the mesh invariants. Errors wrap ErrInvalidMesh.
func (m *Mesh) Validate() error {
	if m.NumTriangles < 0 {
		return fmt.Errorf("%w: %q has negative triangle count %d", ErrInvalidMesh, m.Name, m.NumTriangles)
	}

	if len(m.Indices) == 0 {
		if len(m.Vertices) != 3*m.NumTriangles {
			return fmt.Errorf("%w: %q has %d vertices for %d triangles",
				ErrInvalidMesh, m.Name, len(m.Vertices), m.NumTriangles)
		}
	} else {
		if len(m.Indices) != 3*m.NumTriangles {
			return fmt.Errorf("%w: %q has %d indices for %d triangles",
				ErrInvalidMesh, m.Name, len(m.Indices), m.NumTriangles)
		}
		for i, idx := range m.Indices {
			if int(idx) >= len(m.Vertices) {
				return fmt.Errorf("%w: %q index %d is %d, only %d vertices",
					ErrInvalidMesh, m.Name, i, idx, len(m.Vertices))
			}
		}
	}

	attrs := []struct {
		name string
		n    int
	}{
		{"colors", len(m.Colors)},
		{"normals", len(m.Normals)},
		{"texcoords", len(m.TexCoords)},
	}
	for _, a := range attrs {
		if a.n != 0 && a.n != len(m.Vertices) {
			return fmt.Errorf("%w: %q has %d %s for %d vertices",
				ErrInvalidMesh, m.Name, a.n, a.name, len(m.Vertices))
		}
	}
	return nil
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return m.NumTriangles
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Face returns the vertex indices of triangle i.
func (m *Mesh) Face(i int) [3]int {
	if len(m.Indices) == 0 {
		return [3]int{3 * i, 3*i + 1, 3*i + 2}
	}
	return [3]int{int(m.Indices[3*i]), int(m.Indices[3*i+1]), int(m.Indices[3*i+2])}
}

// Vertex returns the attributes of vertex i. A mesh without colors is
// white; a mesh without texture coordinates samples at (0, 0).
func (m *Mesh) Vertex(i int) render.VertexInput {
	in := render.VertexInput{
		Position: m.Vertices[i],
		Color:    math3d.V3(1, 1, 1),
	}
	if len(m.Colors) > 0 {
		in.Color = m.Colors[i]
	}
	if len(m.TexCoords) > 0 {
		in.TexCoord = m.TexCoords[i]
	}
	return in
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (m *Mesh) Bounds() render.AABB {
	if len(m.Vertices) == 0 {
		return render.AABB{}
	}

	box := render.AABB{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		box.Min = box.Min.Min(v)
		box.Max = box.Max.Max(v)
	}
	return box
}

// CalculateNormals fills Normals with flat face normals. Shared vertices
// keep the normal of the last face that references them.
func (m *Mesh) CalculateNormals() {
	m.Normals = make([]math3d.Vec3, len(m.Vertices))
	for i := range m.NumTriangles {
		f := m.Face(i)
		v0, v1, v2 := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]

		normal := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
		m.Normals[f[0]] = normal
		m.Normals[f[1]] = normal
		m.Normals[f[2]] = normal
	}
}
