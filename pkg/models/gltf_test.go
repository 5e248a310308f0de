package models

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/softraster/pkg/math3d"
	"github.com/taigrr/softraster/pkg/render"
)

// glbBuilder assembles a single-buffer glTF document for tests.
type glbBuilder struct {
	doc  *gltf.Document
	data []byte
}

func newGLBBuilder() *glbBuilder {
	return &glbBuilder{doc: &gltf.Document{
		Asset:  gltf.Asset{Version: "2.0"},
		Scene:  gltf.Index(0),
		Scenes: []*gltf.Scene{{Name: "root"}},
	}}
}

func (b *glbBuilder) view(p []byte) int {
	for len(b.data)%4 != 0 {
		b.data = append(b.data, 0)
	}
	b.doc.BufferViews = append(b.doc.BufferViews, &gltf.BufferView{
		Buffer:     0,
		ByteOffset: len(b.data),
		ByteLength: len(p),
	})
	b.data = append(b.data, p...)
	return len(b.doc.BufferViews) - 1
}

func (b *glbBuilder) accessor(p []byte, typ gltf.AccessorType, ct gltf.ComponentType, count int, normalized bool) int {
	b.doc.Accessors = append(b.doc.Accessors, &gltf.Accessor{
		BufferView:    gltf.Index(b.view(p)),
		ComponentType: ct,
		Normalized:    normalized,
		Count:         count,
		Type:          typ,
	})
	return len(b.doc.Accessors) - 1
}

func (b *glbBuilder) vec3(vs ...[3]float32) int {
	var p []byte
	for _, v := range vs {
		for _, c := range v {
			p = binary.LittleEndian.AppendUint32(p, math.Float32bits(c))
		}
	}
	return b.accessor(p, gltf.AccessorVec3, gltf.ComponentFloat, len(vs), false)
}

func (b *glbBuilder) vec2(vs ...[2]float32) int {
	var p []byte
	for _, v := range vs {
		for _, c := range v {
			p = binary.LittleEndian.AppendUint32(p, math.Float32bits(c))
		}
	}
	return b.accessor(p, gltf.AccessorVec2, gltf.ComponentFloat, len(vs), false)
}

func (b *glbBuilder) rgba8(cs ...[4]uint8) int {
	var p []byte
	for _, c := range cs {
		p = append(p, c[:]...)
	}
	return b.accessor(p, gltf.AccessorVec4, gltf.ComponentUbyte, len(cs), true)
}

func (b *glbBuilder) indices16(is ...uint16) int {
	var p []byte
	for _, i := range is {
		p = binary.LittleEndian.AppendUint16(p, i)
	}
	return b.accessor(p, gltf.AccessorScalar, gltf.ComponentUshort, len(is), false)
}

func (b *glbBuilder) save(t *testing.T) string {
	t.Helper()
	b.doc.Buffers = []*gltf.Buffer{{ByteLength: len(b.data), Data: b.data}}
	path := filepath.Join(t.TempDir(), "scene.glb")
	if err := gltf.SaveBinary(b.doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	return path
}

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func node(name string, mesh *int, translation, scale [3]float64, children ...int) *gltf.Node {
	return &gltf.Node{
		Name:        name,
		Mesh:        mesh,
		Matrix:      identityMatrix,
		Translation: translation,
		Rotation:    [4]float64{0, 0, 0, 1},
		Scale:       scale,
		Children:    children,
	}
}

func TestLoadGLTFInvalidPath(t *testing.T) {
	if _, err := LoadGLTF("/nonexistent/path.glb"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadGLTFHierarchy(t *testing.T) {
	b := newGLBBuilder()
	pos := b.vec3([3]float32{-1, -1, 0}, [3]float32{0, 1, 0}, [3]float32{1, -1, 0})
	col := b.rgba8([4]uint8{255, 0, 0, 255}, [4]uint8{0, 255, 0, 255}, [4]uint8{0, 0, 255, 128})
	idx := b.indices16(0, 1, 2)

	b.doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{
			{Attributes: map[string]int{gltf.POSITION: pos, gltf.COLOR_0: col}, Indices: gltf.Index(idx)},
			{Attributes: map[string]int{gltf.POSITION: pos}, Mode: gltf.PrimitiveLines},
		},
	}}
	one := [3]float64{1, 1, 1}
	b.doc.Nodes = []*gltf.Node{
		node("root", nil, [3]float64{1, 2, 3}, one, 1, 2),
		node("scaled", gltf.Index(0), [3]float64{}, [3]float64{2, 2, 2}),
		node("moved", gltf.Index(0), [3]float64{0, 0, 10}, one),
	}
	b.doc.Scenes[0].Nodes = []int{0}

	models, err := LoadGLTF(b.save(t))
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("got %d models, want 2 (line primitive skipped)", len(models))
	}
	if models[0].Mesh != models[1].Mesh {
		t.Error("nodes referencing one mesh should share it")
	}

	mesh := models[0].Mesh
	if mesh.TriangleCount() != 1 || len(mesh.Indices) != 3 {
		t.Errorf("mesh has %d triangles, %d indices", mesh.TriangleCount(), len(mesh.Indices))
	}
	wantColors := []math3d.Vec3{red, green, blue}
	for i, want := range wantColors {
		if mesh.Colors[i] != want {
			t.Errorf("color %d = %v, want %v", i, mesh.Colors[i], want)
		}
	}
	if len(mesh.Normals) != 3 {
		t.Errorf("missing normals should be calculated, got %d", len(mesh.Normals))
	}

	tests := []struct {
		name  string
		model *Model
		in    math3d.Vec3
		want  math3d.Vec3
	}{
		{"parent then scale", models[0], math3d.V3(1, 0, 0), math3d.V3(3, 2, 3)},
		{"parent then translate", models[1], math3d.V3(1, 0, 0), math3d.V3(2, 2, 13)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.model.Transform.MulVec3(tc.in)
			if got.Sub(tc.want).Len() > 1e-9 {
				t.Errorf("transform * %v = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{0, 255, 0, 255})
	img.SetRGBA(0, 1, color.RGBA{0, 0, 255, 255})
	img.SetRGBA(1, 1, color.RGBA{255, 255, 255, 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func texturedDocument(t *testing.T, uvMax float32) string {
	t.Helper()
	b := newGLBBuilder()
	pos := b.vec3([3]float32{-1, -1, 0}, [3]float32{0, 1, 0}, [3]float32{1, -1, 0})
	uv := b.vec2([2]float32{0, 1}, [2]float32{0.5, 0}, [2]float32{uvMax, 1})
	img := b.view(pngBytes(t))

	metallic := 0.25
	b.doc.Images = []*gltf.Image{{MimeType: "image/png", BufferView: gltf.Index(img)}}
	b.doc.Samplers = []*gltf.Sampler{{}}
	b.doc.Textures = []*gltf.Texture{{Source: gltf.Index(0), Sampler: gltf.Index(0)}}
	b.doc.Materials = []*gltf.Material{{
		Name: "painted",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor:  &[4]float64{0.5, 0.25, 1, 1},
			MetallicFactor:   &metallic,
			BaseColorTexture: &gltf.TextureInfo{Index: 0},
		},
	}}
	b.doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{gltf.POSITION: pos, gltf.TEXCOORD_0: uv},
			Material:   gltf.Index(0),
		}},
	}}
	b.doc.Nodes = []*gltf.Node{node("tri", gltf.Index(0), [3]float64{}, [3]float64{1, 1, 1})}
	b.doc.Scenes[0].Nodes = []int{0}
	return b.save(t)
}

func TestLoadGLTFTexture(t *testing.T) {
	models, err := LoadGLTF(texturedDocument(t, 1))
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	if len(models) != 1 {
		t.Fatalf("got %d models, want 1", len(models))
	}

	mat := models[0].Material
	if mat == nil || !mat.HasTexture() {
		t.Fatal("material should carry the base color texture")
	}
	if mat.Metallic != 0.25 || mat.Roughness != 1 {
		t.Errorf("Metallic, Roughness = %v, %v, want 0.25, 1", mat.Metallic, mat.Roughness)
	}
	if mat.Sampler == nil {
		t.Error("sampler should be recorded")
	}

	tex := mat.BaseColorTexture
	if tex.Width != 2 || tex.Height != 2 {
		t.Fatalf("texture is %dx%d, want 2x2", tex.Width, tex.Height)
	}
	// Row 0 of the texture is the top of the image.
	if got := tex.Sample(0.25, 0.25); got != render.ColorRed {
		t.Errorf("top-left texel = %v, want red", got)
	}
	if got := tex.Sample(0.25, 0.75); got != render.ColorBlue {
		t.Errorf("bottom-left texel = %v, want blue", got)
	}
	if got := models[0].Mesh.TexCoords[1]; got != math3d.V2(0.5, 0) {
		t.Errorf("texcoord 1 = %v, want (0.5, 0) without a V flip", got)
	}
}

func TestLoadGLTFTexCoordsOutOfRange(t *testing.T) {
	models, err := LoadGLTF(texturedDocument(t, 2))
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}

	mat := models[0].Material
	if mat.HasTexture() {
		t.Error("texture should be dropped when texcoords leave [0, 1]")
	}
	if mat.Name != "painted" || mat.Metallic != 0.25 {
		t.Errorf("material properties should survive, got %+v", mat)
	}

	// Without a texture the base color becomes the vertex color.
	want := math3d.V3(0.5, 0.25, 1)
	for i, c := range models[0].Mesh.Colors {
		if c != want {
			t.Errorf("color %d = %v, want %v", i, c, want)
		}
	}
}

func TestLoadGLTFInterleavedAttributes(t *testing.T) {
	b := newGLBBuilder()

	// Each vertex is a float VEC3 position followed by a normalized
	// UNSIGNED_BYTE VEC4 color, 16 bytes apart.
	positions := [][3]float32{{-1, -1, 0}, {0, 1, 0}, {1, -1, 0}}
	colors := [][4]uint8{{255, 0, 0, 255}, {0, 51, 0, 255}, {0, 0, 255, 255}}
	var p []byte
	for i, pos := range positions {
		for _, c := range pos {
			p = binary.LittleEndian.AppendUint32(p, math.Float32bits(c))
		}
		p = append(p, colors[i][:]...)
	}
	view := b.view(p)
	b.doc.BufferViews[view].ByteStride = 16
	b.doc.Accessors = append(b.doc.Accessors,
		&gltf.Accessor{BufferView: gltf.Index(view), ComponentType: gltf.ComponentFloat, Count: 3, Type: gltf.AccessorVec3},
		&gltf.Accessor{BufferView: gltf.Index(view), ByteOffset: 12, ComponentType: gltf.ComponentUbyte, Normalized: true, Count: 3, Type: gltf.AccessorVec4},
	)

	var uv []byte
	for _, c := range []uint16{0, 65535, 65535, 0, 0, 0} {
		uv = binary.LittleEndian.AppendUint16(uv, c)
	}
	texcoords := b.accessor(uv, gltf.AccessorVec2, gltf.ComponentUshort, 3, true)

	b.doc.Meshes = []*gltf.Mesh{{
		Name: "interleaved",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{gltf.POSITION: 0, gltf.COLOR_0: 1, gltf.TEXCOORD_0: texcoords},
		}},
	}}
	b.doc.Nodes = []*gltf.Node{node("tri", gltf.Index(0), [3]float64{}, [3]float64{1, 1, 1})}
	b.doc.Scenes[0].Nodes = []int{0}

	models, err := LoadGLTF(b.save(t))
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	mesh := models[0].Mesh

	for i, want := range []math3d.Vec3{math3d.V3(-1, -1, 0), math3d.V3(0, 1, 0), math3d.V3(1, -1, 0)} {
		if mesh.Vertices[i] != want {
			t.Errorf("vertex %d = %v, want %v", i, mesh.Vertices[i], want)
		}
	}
	for i, want := range []math3d.Vec3{red, math3d.V3(0, 0.2, 0), blue} {
		if mesh.Colors[i].Sub(want).Len() > 1e-9 {
			t.Errorf("color %d = %v, want %v", i, mesh.Colors[i], want)
		}
	}
	for i, want := range []math3d.Vec2{math3d.V2(0, 1), math3d.V2(1, 0), math3d.V2(0, 0)} {
		if mesh.TexCoords[i] != want {
			t.Errorf("texcoord %d = %v, want %v", i, mesh.TexCoords[i], want)
		}
	}
	if mesh.NumTriangles != 1 {
		t.Errorf("NumTriangles = %d, want 1 for a non-indexed primitive", mesh.NumTriangles)
	}
}

func TestLoadGLTFRejectsIntegerPositions(t *testing.T) {
	b := newGLBBuilder()
	pos := b.accessor(make([]byte, 9), gltf.AccessorVec3, gltf.ComponentUbyte, 3, false)
	b.doc.Meshes = []*gltf.Mesh{{
		Name:       "bytes",
		Primitives: []*gltf.Primitive{{Attributes: map[string]int{gltf.POSITION: pos}}},
	}}
	b.doc.Nodes = []*gltf.Node{node("tri", gltf.Index(0), [3]float64{}, [3]float64{1, 1, 1})}
	b.doc.Scenes[0].Nodes = []int{0}

	if _, err := LoadGLTF(b.save(t)); err == nil {
		t.Error("non-float positions should fail to load")
	}
}

func TestNodeTransformMatrix(t *testing.T) {
	// Column-major: the translation sits in elements 12 to 14.
	n := &gltf.Node{
		Matrix:   [16]float64{2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 2, 0, 4, 5, 6, 1},
		Rotation: [4]float64{0, 0, 0, 1},
		Scale:    [3]float64{1, 1, 1},
	}
	if got := nodeTransform(n).MulVec3(math3d.V3(1, 1, 1)); got != math3d.V3(6, 7, 8) {
		t.Errorf("matrix node * (1, 1, 1) = %v, want (6, 7, 8)", got)
	}

	trs := node("trs", nil, [3]float64{1, 0, 0}, [3]float64{3, 3, 3})
	if got := nodeTransform(trs).MulVec3(math3d.V3(1, 0, 0)); got.Sub(math3d.V3(4, 0, 0)).Len() > 1e-9 {
		t.Errorf("TRS node * (1, 0, 0) = %v, want (4, 0, 0)", got)
	}
}
