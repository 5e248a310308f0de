package math3d

import "math"

// Mat4 is a 4x4 matrix stored as four row vectors.
//
// A column vector is transformed as M * v, each output component being the
// dot product of one row with v:
//
//	| Xx Yx Zx Tx |   X,Y,Z = basis vectors (rotation/scale)
//	| Xy Yy Zy Ty |   T = translation
//	| Xz Yz Zz Tz |
//	| 0  0  0  1  |
type Mat4 [4]Vec4

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		{1, 0, 0, v.X},
		{0, 1, 0, v.Y},
		{0, 0, 1, v.Z},
		{0, 0, 0, 1},
	}
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		{v.X, 0, 0, 0},
		{0, v.Y, 0, 0},
		{0, 0, v.Z, 0},
		{0, 0, 0, 1},
	}
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// RotateX creates a rotation matrix around the X axis.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		{1, 0, 0, 0},
		{0, c, -s, 0},
		{0, s, c, 0},
		{0, 0, 0, 1},
	}
}

// RotateY creates a rotation matrix around the Y axis.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		{c, 0, s, 0},
		{0, 1, 0, 0},
		{-s, 0, c, 0},
		{0, 0, 0, 1},
	}
}

// RotateZ creates a rotation matrix around the Z axis.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		{c, -s, 0, 0},
		{s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Rotate creates a rotation matrix around an arbitrary axis.
func Rotate(axis Vec3, angle float64) Mat4 {
	axis = axis.Normalize()
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z

	return Mat4{
		{t*x*x + c, t*x*y - s*z, t*x*z + s*y, 0},
		{t*x*y + s*z, t*y*y + c, t*y*z - s*x, 0},
		{t*x*z - s*y, t*y*z + s*x, t*z*z + c, 0},
		{0, 0, 0, 1},
	}
}

// FromQuat builds a rotation matrix from a unit quaternion (x, y, z, w).
func FromQuat(q Vec4) Mat4 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	return Mat4{
		{1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w), 0},
		{2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w), 0},
		{2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y), 0},
		{0, 0, 0, 1},
	}
}

// TRS composes translation, rotation and scale as T * R * S.
func TRS(t Vec3, r Vec4, s Vec3) Mat4 {
	return Translate(t).Mul(FromQuat(r)).Mul(Scale(s))
}

// LookAt creates a view matrix for a camera at eye looking at target.
//
// The rows are the camera basis [right, up, forward] with the eye
// translation folded into the fourth column, so the matrix is the inverse
// of the camera's world transform. Forward points from eye to target, which
// makes visible geometry land at positive view-space z.
func LookAt(eye, target, up Vec3) Mat4 {
	f := target.Sub(eye).Normalize()
	r := up.Cross(f).Normalize()
	u := f.Cross(r)

	return Mat4{
		{r.X, r.Y, r.Z, -r.Dot(eye)},
		{u.X, u.Y, u.Z, -u.Dot(eye)},
		{f.X, f.Y, f.Z, -f.Dot(eye)},
		{0, 0, 0, 1},
	}
}

// Perspective creates a perspective projection matrix.
// fovH and fovV are the full horizontal and vertical fields of view in
// radians. After the divide by w, view-space z in [near, far] maps to [0, 1].
func Perspective(near, far, fovH, fovV float64) Mat4 {
	w := 1 / math.Tan(fovH/2)
	h := 1 / math.Tan(fovV/2)
	q := far / (far - near)

	return Mat4{
		{w, 0, 0, 0},
		{0, h, 0, 0},
		{0, 0, q, -q * near},
		{0, 0, 1, 0},
	}
}

// Orthographic creates an orthographic projection matrix for a view volume
// of the given width and height centered on the view axis, mapping
// view-space z in [near, far] to [0, 1].
func Orthographic(width, height, near, far float64) Mat4 {
	fn := 1 / (far - near)

	return Mat4{
		{2 / width, 0, 0, 0},
		{0, 2 / height, 0, 0},
		{0, 0, fn, -near * fn},
		{0, 0, 0, 1},
	}
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for row := range 4 {
		for col := range 4 {
			m.Set(row, col, a[row].Dot(b.Col(col)))
		}
	}
	return m
}

// MulVec4 transforms a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0].Dot(v),
		m[1].Dot(v),
		m[2].Dot(v),
		m[3].Dot(v),
	}
}

// MulVec3 transforms a Vec3 as a point (w=1) and divides by the resulting w.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(Point(v)).PerspectiveDivide().Vec3()
}

// MulVec3Dir transforms a Vec3 as a direction (w=0, no translation).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return m.MulVec4(Vec4{v.X, v.Y, v.Z, 0}).Vec3()
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4{m.Col(0), m.Col(1), m.Col(2), m.Col(3)}
}

// Determinant returns the determinant of the matrix.
func (m Mat4) Determinant() float64 {
	b := m.minors()
	return b[0]*b[11] - b[1]*b[10] + b[2]*b[9] + b[3]*b[8] - b[4]*b[7] + b[5]*b[6]
}

// Inverse returns the inverse of the matrix.
// Returns identity if the matrix is singular (det=0).
func (m Mat4) Inverse() Mat4 {
	b := m.minors()
	det := b[0]*b[11] - b[1]*b[10] + b[2]*b[9] + b[3]*b[8] - b[4]*b[7] + b[5]*b[6]
	if det == 0 {
		return Identity()
	}
	d := 1 / det

	a0, a1, a2, a3 := m[0], m[1], m[2], m[3]
	return Mat4{
		{
			(a1.Y*b[11] - a1.Z*b[10] + a1.W*b[9]) * d,
			(a0.Z*b[10] - a0.Y*b[11] - a0.W*b[9]) * d,
			(a3.Y*b[5] - a3.Z*b[4] + a3.W*b[3]) * d,
			(a2.Z*b[4] - a2.Y*b[5] - a2.W*b[3]) * d,
		},
		{
			(a1.Z*b[8] - a1.X*b[11] - a1.W*b[7]) * d,
			(a0.X*b[11] - a0.Z*b[8] + a0.W*b[7]) * d,
			(a3.Z*b[2] - a3.X*b[5] - a3.W*b[1]) * d,
			(a2.X*b[5] - a2.Z*b[2] + a2.W*b[1]) * d,
		},
		{
			(a1.X*b[10] - a1.Y*b[8] + a1.W*b[6]) * d,
			(a0.Y*b[8] - a0.X*b[10] - a0.W*b[6]) * d,
			(a3.X*b[4] - a3.Y*b[2] + a3.W*b[0]) * d,
			(a2.Y*b[2] - a2.X*b[4] - a2.W*b[0]) * d,
		},
		{
			(a1.Y*b[7] - a1.X*b[9] - a1.Z*b[6]) * d,
			(a0.X*b[9] - a0.Y*b[7] + a0.Z*b[6]) * d,
			(a3.Y*b[1] - a3.X*b[3] - a3.Z*b[0]) * d,
			(a2.X*b[3] - a2.Y*b[1] + a2.Z*b[0]) * d,
		},
	}
}

// minors returns the 2x2 determinants of the top two rows and of the
// bottom two rows that the Laplace expansion of a 4x4 matrix needs.
func (m Mat4) minors() [12]float64 {
	a0, a1, a2, a3 := m[0], m[1], m[2], m[3]
	return [12]float64{
		a0.X*a1.Y - a0.Y*a1.X,
		a0.X*a1.Z - a0.Z*a1.X,
		a0.X*a1.W - a0.W*a1.X,
		a0.Y*a1.Z - a0.Z*a1.Y,
		a0.Y*a1.W - a0.W*a1.Y,
		a0.Z*a1.W - a0.W*a1.Z,
		a2.X*a3.Y - a2.Y*a3.X,
		a2.X*a3.Z - a2.Z*a3.X,
		a2.X*a3.W - a2.W*a3.X,
		a2.Y*a3.Z - a2.Z*a3.Y,
		a2.Y*a3.W - a2.W*a3.Y,
		a2.Z*a3.W - a2.W*a3.Z,
	}
}

// Row returns row i.
func (m Mat4) Row(i int) Vec4 {
	return m[i]
}

// Col returns column j.
func (m Mat4) Col(j int) Vec4 {
	return Vec4{m.Get(0, j), m.Get(1, j), m.Get(2, j), m.Get(3, j)}
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	switch col {
	case 0:
		return m[row].X
	case 1:
		return m[row].Y
	case 2:
		return m[row].Z
	default:
		return m[row].W
	}
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, val float64) {
	switch col {
	case 0:
		m[row].X = val
	case 1:
		m[row].Y = val
	case 2:
		m[row].Z = val
	default:
		m[row].W = val
	}
}

// Translation extracts the translation column.
func (m Mat4) Translation() Vec3 {
	return m.Col(3).Vec3()
}
