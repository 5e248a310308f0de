package math3d

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func vec4ApproxEqual(a, b Vec4) bool {
	return approxEqual(a.X, b.X) && approxEqual(a.Y, b.Y) &&
		approxEqual(a.Z, b.Z) && approxEqual(a.W, b.W)
}

func mat4ApproxEqual(a, b Mat4) bool {
	for i := range 4 {
		if !vec4ApproxEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func TestIdentityLaw(t *testing.T) {
	vectors := []Vec4{
		V4(0, 0, 0, 0),
		V4(1, 2, 3, 1),
		V4(-4.5, 0.25, 1e6, -2),
	}
	for _, v := range vectors {
		if got := Identity().MulVec4(v); got != v {
			t.Errorf("Identity() * %v = %v", v, got)
		}
	}

	matrices := map[string]Mat4{
		"translate":   Translate(V3(1, -2, 3)),
		"rotate":      RotateX(0.3).Mul(RotateZ(1.1)),
		"perspective": Perspective(0.1, 100, math.Pi/2, math.Pi/3),
		"lookat":      LookAt(V3(1, 2, 3), V3(0, 0, 0), Up()),
	}
	for name, m := range matrices {
		t.Run(name, func(t *testing.T) {
			if got := m.Mul(Identity()); got != m {
				t.Errorf("M * I = %v, want %v", got, m)
			}
			if got := Identity().Mul(m); got != m {
				t.Errorf("I * M = %v, want %v", got, m)
			}
		})
	}
}

func TestMulOrder(t *testing.T) {
	// Translate after scale: the point is scaled first, then moved.
	m := Translate(V3(10, 0, 0)).Mul(ScaleUniform(2))
	got := m.MulVec3(V3(1, 1, 1))
	want := V3(12, 2, 2)
	if got != want {
		t.Errorf("(T*S) * p = %v, want %v", got, want)
	}
}

func TestRotations(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		in   Vec3
		want Vec3
	}{
		{"x quarter turn", RotateX(math.Pi / 2), V3(0, 1, 0), V3(0, 0, 1)},
		{"y quarter turn", RotateY(math.Pi / 2), V3(1, 0, 0), V3(0, 0, -1)},
		{"z quarter turn", RotateZ(math.Pi / 2), V3(1, 0, 0), V3(0, 1, 0)},
		{"axis y matches RotateY", Rotate(V3(0, 2, 0), math.Pi/2), V3(1, 0, 0), V3(0, 0, -1)},
		{"axis x matches RotateX", Rotate(V3(1, 0, 0), math.Pi/2), V3(0, 1, 0), V3(0, 0, 1)},
		{"quat matches RotateY", FromQuat(V4(0, math.Sin(math.Pi/4), 0, math.Cos(math.Pi/4))), V3(1, 0, 0), V3(0, 0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.MulVec3Dir(tt.in)
			if !approxEqual(got.X, tt.want.X) || !approxEqual(got.Y, tt.want.Y) || !approxEqual(got.Z, tt.want.Z) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTRS(t *testing.T) {
	m := TRS(V3(1, 2, 3), V4(0, 0, 0, 1), V3(2, 2, 2))
	if got := m.MulVec3(V3(1, 0, 0)); got != V3(3, 2, 3) {
		t.Errorf("TRS * p = %v, want (3, 2, 3)", got)
	}
	if got := m.Translation(); got != V3(1, 2, 3) {
		t.Errorf("Translation() = %v", got)
	}
}

func TestDeterminant(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		want float64
	}{
		{"identity", Identity(), 1},
		{"scale", Scale(V3(2, 3, 4)), 24},
		{"rotation", RotateX(0.7).Mul(RotateY(-1.3)), 1},
		{"translation", Translate(V3(5, -6, 7)), 1},
		{"singular", Scale(V3(1, 0, 1)), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Determinant(); !approxEqual(got, tt.want) {
				t.Errorf("Determinant() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInverse(t *testing.T) {
	matrices := map[string]Mat4{
		"trs":         TRS(V3(1, -2, 3), V4(0, math.Sin(0.4), 0, math.Cos(0.4)), V3(2, 0.5, 3)),
		"lookat":      LookAt(V3(1, 2, -3), V3(0, 0.5, 0), Up()),
		"perspective": Perspective(0.1, 100, math.Pi/2, math.Pi/3),
		"axis":        Rotate(V3(1, 1, 1), 0.9),
	}
	for name, m := range matrices {
		t.Run(name, func(t *testing.T) {
			if got := m.Mul(m.Inverse()); !mat4ApproxEqual(got, Identity()) {
				t.Errorf("M * M^-1 = %v, want identity", got)
			}
			if got := m.Inverse().Mul(m); !mat4ApproxEqual(got, Identity()) {
				t.Errorf("M^-1 * M = %v, want identity", got)
			}
		})
	}

	if got := Scale(V3(1, 0, 1)).Inverse(); got != Identity() {
		t.Errorf("singular Inverse() = %v, want identity", got)
	}
}

func TestTranspose(t *testing.T) {
	m := Translate(V3(1, 2, 3))
	tr := m.Transpose()
	for i := range 4 {
		for j := range 4 {
			if m.Get(i, j) != tr.Get(j, i) {
				t.Fatalf("element (%d,%d) = %v, transposed = %v", i, j, m.Get(i, j), tr.Get(j, i))
			}
		}
	}
	if tr.Transpose() != m {
		t.Error("double transpose should return the original matrix")
	}
}

func TestLookAt(t *testing.T) {
	view := LookAt(V3(0, 0, -3), V3(0, 0, 0), Up())
	want := Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 3},
		{0, 0, 0, 1},
	}
	if !mat4ApproxEqual(view, want) {
		t.Fatalf("LookAt = %v, want %v", view, want)
	}

	// Basis rows must stay orthonormal for an arbitrary eye.
	view = LookAt(V3(2, 1.5, -0.5), V3(0.1, 0, 0.2), Up())
	for i := range 3 {
		r := view[i].Vec3()
		if !approxEqual(r.Len(), 1) {
			t.Errorf("row %d length = %v, want 1", i, r.Len())
		}
		for j := i + 1; j < 3; j++ {
			if d := r.Dot(view[j].Vec3()); !approxEqual(d, 0) {
				t.Errorf("rows %d and %d dot = %v, want 0", i, j, d)
			}
		}
	}
}

func TestProjectionMapsTargetToCenter(t *testing.T) {
	target := V3(0.5, -0.25, 1)
	eyes := []Vec3{V3(0, 0, -3), V3(2, 2, 2), V3(-1, 0.5, 4)}
	proj := Perspective(0.1, 100, math.Pi/2, math.Pi/2)

	for _, eye := range eyes {
		clip := proj.Mul(LookAt(eye, target, Up())).MulVec4(Point(target))
		ndc := clip.PerspectiveDivide()
		if !approxEqual(ndc.X, 0) || !approxEqual(ndc.Y, 0) {
			t.Errorf("eye %v: target maps to NDC (%v, %v), want (0, 0)", eye, ndc.X, ndc.Y)
		}
		if ndc.Z <= 0 || ndc.Z >= 1 {
			t.Errorf("eye %v: depth %v outside (0, 1)", eye, ndc.Z)
		}
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	near, far := 0.5, 50.0
	proj := Perspective(near, far, math.Pi/2, math.Pi/2)

	tests := []struct {
		name string
		z    float64
		want float64
	}{
		{"near plane", near, 0},
		{"far plane", far, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := proj.MulVec4(V4(0, 0, tt.z, 1)).PerspectiveDivide().Z
			if !approxEqual(got, tt.want) {
				t.Errorf("depth at z=%v = %v, want %v", tt.z, got, tt.want)
			}
		})
	}

	// Depth is nonlinear: the midpoint in view space lands past 0.5.
	mid := proj.MulVec4(V4(0, 0, (near+far)/2, 1)).PerspectiveDivide().Z
	if mid <= 0.5 {
		t.Errorf("mid-range depth = %v, want > 0.5", mid)
	}
}

func TestOrthographic(t *testing.T) {
	proj := Orthographic(4, 2, 1, 11)
	got := proj.MulVec4(V4(2, -1, 6, 1))
	want := V4(1, -1, 0.5, 1)
	if !vec4ApproxEqual(got, want) {
		t.Errorf("Orthographic * p = %v, want %v", got, want)
	}
}

func TestNormalize(t *testing.T) {
	if got := V3(3, 0, 4).Normalize(); !approxEqual(got.Len(), 1) || !approxEqual(got.X, 0.6) {
		t.Errorf("Normalize = %v", got)
	}

	// The zero vector is left to the caller.
	z := Vec3{}.Normalize()
	if !math.IsNaN(z.X) {
		t.Errorf("Normalize(zero) = %v, want NaN components", z)
	}
}

func TestCross(t *testing.T) {
	if got := V3(1, 0, 0).Cross(V3(0, 1, 0)); got != V3(0, 0, 1) {
		t.Errorf("x × y = %v, want z", got)
	}
}
