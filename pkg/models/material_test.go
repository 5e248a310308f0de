package models

import (
	"testing"

	"github.com/taigrr/softraster/pkg/render"
)

func TestMaterialDefaults(t *testing.T) {
	m := NewMaterial("test")

	if m.BaseColorFactor != [4]float64{1, 1, 1, 1} {
		t.Errorf("BaseColorFactor = %v, want white", m.BaseColorFactor)
	}
	if m.Metallic != 1 || m.Roughness != 1 {
		t.Errorf("Metallic, Roughness = %v, %v, want 1, 1", m.Metallic, m.Roughness)
	}
	if m.HasTexture() {
		t.Error("HasTexture should be false by default")
	}

	var none *Material
	if none.HasTexture() {
		t.Error("nil material should have no texture")
	}
}

func TestMaterialTexture(t *testing.T) {
	m := NewMaterial("checker")
	m.BaseColorTexture = render.NewCheckerTexture(4, 4, 2, render.ColorWhite, render.ColorBlack)

	if !m.HasTexture() {
		t.Error("HasTexture should be true once a texture is set")
	}
	if m.texture() != m.BaseColorTexture {
		t.Error("texture() should return the base color texture")
	}

	var none *Material
	if none.texture() != nil {
		t.Error("nil material should bind no texture")
	}
}
