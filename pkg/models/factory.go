package models

import (
	"math/rand/v2"

	"github.com/taigrr/softraster/pkg/math3d"
)

// Palette hands out placeholder vertex colors. The sequence depends only
// on the seed, so meshes built from the same seed render identically.
type Palette struct {
	rng    *rand.Rand
	colors []math3d.Vec3
}

// DefaultColors are the primaries and secondaries a Palette draws from.
var DefaultColors = []math3d.Vec3{
	{X: 1, Y: 0, Z: 0},
	{X: 0, Y: 1, Z: 0},
	{X: 0, Y: 0, Z: 1},
	{X: 1, Y: 1, Z: 0},
	{X: 0, Y: 1, Z: 1},
	{X: 1, Y: 0, Z: 1},
}

// NewPalette creates a palette over DefaultColors seeded with seed.
func NewPalette(seed uint64) *Palette {
	return &Palette{
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		colors: DefaultColors,
	}
}

// Next returns the next color.
func (p *Palette) Next() math3d.Vec3 {
	return p.colors[p.rng.IntN(len(p.colors))]
}

var (
	red   = math3d.V3(1, 0, 0)
	green = math3d.V3(0, 1, 0)
	blue  = math3d.V3(0, 0, 1)
	cyan  = math3d.V3(0, 1, 1)
)

// NewTriangleMesh returns a single triangle spanning the view with red,
// green and blue corners.
func NewTriangleMesh() *Mesh {
	return &Mesh{
		Name:         "triangle",
		NumTriangles: 1,
		Vertices: []math3d.Vec3{
			{X: -1, Y: -1, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 1, Y: -1, Z: 0},
		},
		Colors: []math3d.Vec3{red, green, blue},
	}
}

// NewQuadMesh returns a two-triangle quad with corners at +-0.8.
func NewQuadMesh() *Mesh {
	v0 := math3d.V3(-0.8, -0.8, 0)
	v1 := math3d.V3(-0.8, 0.8, 0)
	v2 := math3d.V3(0.8, -0.8, 0)
	v3 := math3d.V3(0.8, 0.8, 0)

	return &Mesh{
		Name:         "quad",
		NumTriangles: 2,
		Vertices:     []math3d.Vec3{v0, v1, v2, v2, v1, v3},
		Colors:       []math3d.Vec3{red, green, blue, blue, green, cyan},
	}
}

// cubeFaces lists the two triangles of each cube face as corner indices.
// Corners 0-3 lie on the z=-s side, 4-7 on the z=+s side. Each triangle is
// wound so its edge function is positive when seen from outside.
var cubeFaces = [12][3]int{
	{0, 1, 2}, {2, 3, 0}, // front
	{5, 4, 7}, {7, 6, 5}, // back
	{0, 4, 5}, {5, 1, 0}, // top
	{7, 3, 2}, {2, 6, 7}, // bottom
	{4, 0, 3}, {3, 7, 4}, // left
	{1, 5, 6}, {6, 2, 1}, // right
}

// NewCubeMesh returns a cube with half-extent 0.8 centered at the origin.
// Every vertex takes its color from p.
func NewCubeMesh(p *Palette) *Mesh {
	const s = 0.8
	corners := [8]math3d.Vec3{
		{X: -s, Y: s, Z: -s},
		{X: s, Y: s, Z: -s},
		{X: s, Y: -s, Z: -s},
		{X: -s, Y: -s, Z: -s},
		{X: -s, Y: s, Z: s},
		{X: s, Y: s, Z: s},
		{X: s, Y: -s, Z: s},
		{X: -s, Y: -s, Z: s},
	}

	m := &Mesh{Name: "cube", NumTriangles: len(cubeFaces)}
	for _, f := range cubeFaces {
		for _, c := range f {
			m.Vertices = append(m.Vertices, corners[c])
			m.Colors = append(m.Colors, p.Next())
		}
	}
	return m
}

// NewOrthographicCubeMesh returns a sheared box meant to be viewed through
// an orthographic projection: its near and far faces are offset so both
// stay visible. Every triangle is colored red, green, blue.
func NewOrthographicCubeMesh() *Mesh {
	corners := [8]math3d.Vec3{
		{X: -0.5, Y: 0, Z: 0.8},
		{X: 0, Y: 0, Z: 0.8},
		{X: 0, Y: -0.5, Z: 0.8},
		{X: -0.5, Y: -0.5, Z: 0.8},
		{X: 0, Y: 0.5, Z: -0.8},
		{X: 0.5, Y: 0.5, Z: -0.8},
		{X: 0.5, Y: 0, Z: -0.8},
		{X: 0, Y: 0, Z: -0.8},
	}

	m := &Mesh{Name: "ortho-cube", NumTriangles: len(cubeFaces)}
	for _, f := range cubeFaces {
		for _, c := range f {
			m.Vertices = append(m.Vertices, corners[c])
		}
		m.Colors = append(m.Colors, red, green, blue)
	}
	return m
}
