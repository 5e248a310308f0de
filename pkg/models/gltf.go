package models

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"net/url"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/softraster/pkg/math3d"
	"github.com/taigrr/softraster/pkg/render"
)

// ErrUnsupportedPrimitive is returned for glTF primitives the rasterizer
// cannot draw, such as points, lines and strips.
var ErrUnsupportedPrimitive = errors.New("unsupported primitive")

// LoadGLTF loads a glTF or GLB file and returns one model per triangle
// primitive reachable from the default scene. Node transforms are folded
// into each model's transform. Camera and skin data are ignored.
//
// Primitives that cannot be drawn are skipped with a warning. Any other
// problem with the file is returned as an error.
func LoadGLTF(path string) ([]*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	l := newGLTFLoader(doc, filepath.Dir(path))
	models, err := l.load()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}

	render.Logger().Info("loaded gltf",
		"path", path,
		"models", len(models),
		"materials", len(l.materials),
		"textures", len(l.textures))
	return models, nil
}

// gltfLoader walks one document. Meshes, materials and textures are built
// once and shared by every node that references them.
type gltfLoader struct {
	doc *gltf.Document
	dir string

	meshes    map[int][]primitive
	materials map[int]*Material
	textures  map[int]*render.Texture
}

// primitive is one drawable part of a glTF mesh.
type primitive struct {
	mesh     *Mesh
	material *Material
}

func newGLTFLoader(doc *gltf.Document, dir string) *gltfLoader {
	return &gltfLoader{
		doc:       doc,
		dir:       dir,
		meshes:    make(map[int][]primitive),
		materials: make(map[int]*Material),
		textures:  make(map[int]*render.Texture),
	}
}

func (l *gltfLoader) load() ([]*Model, error) {
	var models []*Model
	for _, root := range l.rootNodes() {
		var err error
		models, err = l.visit(root, math3d.Identity(), models)
		if err != nil {
			return nil, err
		}
	}
	return models, nil
}

// rootNodes returns the nodes of the default scene. Without a default
// scene every scene is used, and without scenes every node that is not
// another node's child.
func (l *gltfLoader) rootNodes() []int {
	doc := l.doc
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 {
		var roots []int
		for _, s := range doc.Scenes {
			roots = append(roots, s.Nodes...)
		}
		return roots
	}

	child := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c < len(child) {
				child[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !child[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// visit appends the models of node idx and its descendants to models.
// Children are visited before the node itself.
func (l *gltfLoader) visit(idx int, parent math3d.Mat4, models []*Model) ([]*Model, error) {
	if idx < 0 || idx >= len(l.doc.Nodes) {
		return nil, fmt.Errorf("node %d out of range", idx)
	}
	node := l.doc.Nodes[idx]
	world := parent.Mul(nodeTransform(node))

	var err error
	for _, c := range node.Children {
		models, err = l.visit(c, world, models)
		if err != nil {
			return nil, err
		}
	}

	log := render.Logger()
	if node.Camera != nil {
		log.Debug("ignoring camera node", "node", idx, "name", node.Name)
	}
	if node.Skin != nil {
		log.Debug("ignoring skin, drawing bind pose", "node", idx, "name", node.Name)
	}
	if node.Mesh == nil {
		return models, nil
	}

	prims, err := l.mesh(*node.Mesh)
	if err != nil {
		return nil, err
	}
	for _, p := range prims {
		models = append(models, &Model{Mesh: p.mesh, Transform: world, Material: p.material})
	}
	return models, nil
}

// nodeTransform returns the node's local transform. glTF stores matrices
// column-major; when the matrix is the identity the TRS properties apply.
func nodeTransform(n *gltf.Node) math3d.Mat4 {
	c := n.MatrixOrDefault()
	m := math3d.Mat4{
		{X: c[0], Y: c[4], Z: c[8], W: c[12]},
		{X: c[1], Y: c[5], Z: c[9], W: c[13]},
		{X: c[2], Y: c[6], Z: c[10], W: c[14]},
		{X: c[3], Y: c[7], Z: c[11], W: c[15]},
	}
	if m != math3d.Identity() {
		return m
	}

	t, r, s := n.TranslationOrDefault(), n.RotationOrDefault(), n.ScaleOrDefault()
	return math3d.TRS(
		math3d.V3(t[0], t[1], t[2]),
		math3d.V4(r[0], r[1], r[2], r[3]),
		math3d.V3(s[0], s[1], s[2]),
	)
}

func (l *gltfLoader) mesh(idx int) ([]primitive, error) {
	if prims, ok := l.meshes[idx]; ok {
		return prims, nil
	}
	if idx < 0 || idx >= len(l.doc.Meshes) {
		return nil, fmt.Errorf("mesh %d out of range", idx)
	}

	m := l.doc.Meshes[idx]
	var prims []primitive
	for i, p := range m.Primitives {
		name := fmt.Sprintf("%s/%d", m.Name, i)
		prim, err := l.primitive(name, p)
		if errors.Is(err, ErrUnsupportedPrimitive) {
			render.Logger().Warn("skipping primitive", "mesh", name, "err", err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", name, err)
		}
		prims = append(prims, prim)
	}

	l.meshes[idx] = prims
	return prims, nil
}

func (l *gltfLoader) primitive(name string, p *gltf.Primitive) (primitive, error) {
	if p.Mode != gltf.PrimitiveTriangles {
		return primitive{}, fmt.Errorf("%w: mode %v", ErrUnsupportedPrimitive, p.Mode)
	}
	posIdx, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return primitive{}, fmt.Errorf("%w: no POSITION attribute", ErrUnsupportedPrimitive)
	}

	mesh := &Mesh{Name: name}

	var err error
	if mesh.Vertices, err = l.readVec3(posIdx, modeler.ReadPosition); err != nil {
		return primitive{}, fmt.Errorf("read positions: %w", err)
	}
	if idx, ok := p.Attributes[gltf.NORMAL]; ok {
		if mesh.Normals, err = l.readVec3(idx, modeler.ReadNormal); err != nil {
			return primitive{}, fmt.Errorf("read normals: %w", err)
		}
	}
	if idx, ok := p.Attributes[gltf.TEXCOORD_0]; ok {
		if mesh.TexCoords, err = l.readVec2(idx); err != nil {
			return primitive{}, fmt.Errorf("read texcoords: %w", err)
		}
	}
	if idx, ok := p.Attributes[gltf.COLOR_0]; ok {
		if mesh.Colors, err = l.readColors(idx); err != nil {
			return primitive{}, fmt.Errorf("read colors: %w", err)
		}
	}

	if p.Indices != nil {
		if mesh.Indices, err = l.readIndices(*p.Indices); err != nil {
			return primitive{}, fmt.Errorf("read indices: %w", err)
		}
		mesh.NumTriangles = len(mesh.Indices) / 3
	} else {
		mesh.NumTriangles = len(mesh.Vertices) / 3
	}

	var mat *Material
	if p.Material != nil {
		if mat, err = l.material(*p.Material); err != nil {
			return primitive{}, err
		}
	}

	if mat.HasTexture() && !texCoordsInRange(mesh.TexCoords) {
		render.Logger().Warn("texture coordinates outside [0, 1], drawing without texture",
			"mesh", name, "material", mat.Name)
		untextured := *mat
		untextured.BaseColorTexture = nil
		mat = &untextured
	}

	// Untextured primitives without vertex colors take the base color.
	if len(mesh.Colors) == 0 && mat != nil && !mat.HasTexture() {
		f := mat.BaseColorFactor
		mesh.Colors = make([]math3d.Vec3, len(mesh.Vertices))
		for i := range mesh.Colors {
			mesh.Colors[i] = math3d.V3(f[0], f[1], f[2])
		}
	}

	if len(mesh.Normals) == 0 {
		mesh.CalculateNormals()
	}

	if err := mesh.Validate(); err != nil {
		return primitive{}, err
	}
	return primitive{mesh: mesh, material: mat}, nil
}

func texCoordsInRange(uvs []math3d.Vec2) bool {
	for _, uv := range uvs {
		if uv.X < 0 || uv.X > 1 || uv.Y < 0 || uv.Y > 1 {
			return false
		}
	}
	return true
}

func (l *gltfLoader) material(idx int) (*Material, error) {
	if m, ok := l.materials[idx]; ok {
		return m, nil
	}
	if idx < 0 || idx >= len(l.doc.Materials) {
		return nil, fmt.Errorf("material %d out of range", idx)
	}

	src := l.doc.Materials[idx]
	m := NewMaterial(src.Name)
	if pbr := src.PBRMetallicRoughness; pbr != nil {
		m.BaseColorFactor = pbr.BaseColorFactorOrDefault()
		m.Metallic = pbr.MetallicFactorOrDefault()
		m.Roughness = pbr.RoughnessFactorOrDefault()

		if info := pbr.BaseColorTexture; info != nil {
			if info.TexCoord != 0 {
				render.Logger().Warn("base color texture uses an unsupported texcoord set",
					"material", src.Name, "texcoord", info.TexCoord)
			} else {
				tex, err := l.texture(info.Index)
				if err != nil {
					return nil, fmt.Errorf("material %q: %w", src.Name, err)
				}
				m.BaseColorTexture = tex
				m.Sampler = l.sampler(info.Index)
			}
		}
	}

	l.materials[idx] = m
	return m, nil
}

func (l *gltfLoader) sampler(textureIdx int) *Sampler {
	t := l.doc.Textures[textureIdx]
	if t.Sampler == nil || *t.Sampler >= len(l.doc.Samplers) {
		return nil
	}
	s := l.doc.Samplers[*t.Sampler]
	return &Sampler{
		MagFilter: int(s.MagFilter),
		MinFilter: int(s.MinFilter),
		WrapS:     int(s.WrapS),
		WrapT:     int(s.WrapT),
	}
}

func (l *gltfLoader) texture(idx int) (*render.Texture, error) {
	if t, ok := l.textures[idx]; ok {
		return t, nil
	}
	if idx < 0 || idx >= len(l.doc.Textures) {
		return nil, fmt.Errorf("texture %d out of range", idx)
	}

	src := l.doc.Textures[idx].Source
	if src == nil || *src >= len(l.doc.Images) {
		return nil, fmt.Errorf("texture %d has no image", idx)
	}
	img := l.doc.Images[*src]

	var (
		tex *render.Texture
		err error
	)
	switch {
	case img.BufferView != nil:
		var data []byte
		data, err = l.bufferView(*img.BufferView)
		if err == nil {
			tex, err = render.DecodeTexture(bytes.NewReader(data))
		}
	case img.IsEmbeddedResource():
		var data []byte
		data, err = img.MarshalData()
		if err == nil {
			tex, err = render.DecodeTexture(bytes.NewReader(data))
		}
	default:
		var uri string
		uri, err = url.PathUnescape(img.URI)
		if err == nil {
			tex, err = render.LoadTexture(filepath.Join(l.dir, filepath.FromSlash(uri)))
		}
	}
	if err != nil {
		return nil, fmt.Errorf("image %d: %w", *src, err)
	}

	l.textures[idx] = tex
	return tex, nil
}

func (l *gltfLoader) bufferView(idx int) ([]byte, error) {
	if idx < 0 || idx >= len(l.doc.BufferViews) {
		return nil, fmt.Errorf("buffer view %d out of range", idx)
	}
	return modeler.ReadBufferView(l.doc, l.doc.BufferViews[idx])
}

func (l *gltfLoader) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(l.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return l.doc.Accessors[idx], nil
}

// vec3Reader is modeler.ReadPosition or modeler.ReadNormal.
type vec3Reader func(*gltf.Document, *gltf.Accessor, [][3]float32) ([][3]float32, error)

// readVec3 reads a float VEC3 accessor such as POSITION or NORMAL.
func (l *gltfLoader) readVec3(idx int, read vec3Reader) ([]math3d.Vec3, error) {
	acc, err := l.accessor(idx)
	if err != nil {
		return nil, err
	}
	data, err := read(l.doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("accessor %d: %w", idx, err)
	}
	out := make([]math3d.Vec3, len(data))
	for i, v := range data {
		out[i] = vec3From32(v)
	}
	return out, nil
}

// readVec2 reads TEXCOORD_0. Normalized integer coordinates map to [0, 1].
func (l *gltfLoader) readVec2(idx int) ([]math3d.Vec2, error) {
	acc, err := l.accessor(idx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadTextureCoord(l.doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("accessor %d: %w", idx, err)
	}
	out := make([]math3d.Vec2, len(data))
	for i, v := range data {
		out[i] = math3d.V2(float64(v[0]), float64(v[1]))
	}
	return out, nil
}

// readColors reads a VEC3 or VEC4 color accessor. Alpha is dropped. Float
// colors are kept as stored; integer colors are normalized to [0, 1].
func (l *gltfLoader) readColors(idx int) ([]math3d.Vec3, error) {
	acc, err := l.accessor(idx)
	if err != nil {
		return nil, err
	}

	if acc.ComponentType == gltf.ComponentFloat {
		data, err := modeler.ReadAccessor(l.doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("accessor %d: %w", idx, err)
		}
		switch data := data.(type) {
		case [][3]float32:
			out := make([]math3d.Vec3, len(data))
			for i, c := range data {
				out[i] = vec3From32(c)
			}
			return out, nil
		case [][4]float32:
			out := make([]math3d.Vec3, len(data))
			for i, c := range data {
				out[i] = vec3From32([3]float32{c[0], c[1], c[2]})
			}
			return out, nil
		}
		return nil, fmt.Errorf("accessor %d: color type %v", idx, acc.Type)
	}

	data, err := modeler.ReadColor64(l.doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("accessor %d: %w", idx, err)
	}
	out := make([]math3d.Vec3, len(data))
	for i, c := range data {
		out[i] = math3d.V3(
			float64(c[0])/math.MaxUint16,
			float64(c[1])/math.MaxUint16,
			float64(c[2])/math.MaxUint16,
		)
	}
	return out, nil
}

func (l *gltfLoader) readIndices(idx int) ([]uint32, error) {
	acc, err := l.accessor(idx)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadIndices(l.doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("accessor %d: %w", idx, err)
	}
	return data, nil
}

func vec3From32(v [3]float32) math3d.Vec3 {
	return math3d.V3(float64(v[0]), float64(v[1]), float64(v[2]))
}
