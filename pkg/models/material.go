package models

import (
	"github.com/taigrr/softraster/pkg/render"
)

// Sampler records how a glTF texture asked to be filtered and wrapped.
// Sampling is always nearest with no wrap; the values are kept so callers
// can tell what the asset expected.
type Sampler struct {
	MagFilter int
	MinFilter int
	WrapS     int
	WrapT     int
}

// Material is the metallic-roughness PBR material from glTF. Only the base
// color texture affects rendering.
type Material struct {
	Name             string
	BaseColorFactor  [4]float64 // RGBA in 0-1 range
	Metallic         float64    // 0 = dielectric, 1 = metal
	Roughness        float64    // 0 = smooth, 1 = rough
	BaseColorTexture *render.Texture
	Sampler          *Sampler
}

// NewMaterial returns a material with the glTF defaults: white base color
// and metallic and roughness factors of 1.
func NewMaterial(name string) *Material {
	return &Material{
		Name:            name,
		BaseColorFactor: [4]float64{1, 1, 1, 1},
		Metallic:        1,
		Roughness:       1,
	}
}

// HasTexture reports whether the material has a base color texture.
func (m *Material) HasTexture() bool {
	return m != nil && m.BaseColorTexture != nil
}

// texture returns the texture to bind for m, which may be nil.
func (m *Material) texture() *render.Texture {
	if m == nil {
		return nil
	}
	return m.BaseColorTexture
}
