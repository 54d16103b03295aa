package core

import "math"

// Mat4 is a 4x4 matrix stored row-major: element (row, col) is M[row*4+col].
// Vectors are columns, so transforms compose right to left.
type Mat4 [16]float64

// Identity returns the identity matrix
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a translation matrix
func Translate(offset Vec3) Mat4 {
	m := Identity()
	m[3] = offset.X
	m[7] = offset.Y
	m[11] = offset.Z
	return m
}

// RotateY returns a rotation about the Y axis by angle radians
func RotateY(angle float64) Mat4 {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Mat4{
		cos, 0, sin, 0,
		0, 1, 0, 0,
		-sin, 0, cos, 0,
		0, 0, 0, 1,
	}
}

// Perspective builds an OpenGL-style right-handed projection that maps
// the view frustum to clip space with z in [-1, 1]. fovy is in radians.
func Perspective(fovy, aspect, zNear, zFar float64) Mat4 {
	f := 1.0 / math.Tan(fovy/2)
	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = -(zFar + zNear) / (zFar - zNear)
	m[11] = -2 * zFar * zNear / (zFar - zNear)
	m[14] = -1
	return m
}

// LookAt builds a right-handed view matrix for an eye looking at center
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Subtract(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)
	return Mat4{
		s.X, s.Y, s.Z, -s.Dot(eye),
		u.X, u.Y, u.Z, -u.Dot(eye),
		-f.X, -f.Y, -f.Z, f.Dot(eye),
		0, 0, 0, 1,
	}
}

// Mul returns m × other
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[row*4+k] * other[k*4+col]
			}
			out[row*4+col] = sum
		}
	}
	return out
}

// MulVec4 transforms the homogeneous vector (x, y, z, w)
func (m Mat4) MulVec4(x, y, z, w float64) (float64, float64, float64, float64) {
	return m[0]*x + m[1]*y + m[2]*z + m[3]*w,
		m[4]*x + m[5]*y + m[6]*z + m[7]*w,
		m[8]*x + m[9]*y + m[10]*z + m[11]*w,
		m[12]*x + m[13]*y + m[14]*z + m[15]*w
}

// TransformPoint applies m to a point (w = 1) and divides by w
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	x, y, z, w := m.MulVec4(p.X, p.Y, p.Z, 1)
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// Inverse returns the inverse of m and false when m is singular
func (m Mat4) Inverse() (Mat4, bool) {
	var inv Mat4

	inv[0] = m[5]*m[10]*m[15] - m[5]*m[11]*m[14] - m[9]*m[6]*m[15] + m[9]*m[7]*m[14] + m[13]*m[6]*m[11] - m[13]*m[7]*m[10]
	inv[4] = -m[4]*m[10]*m[15] + m[4]*m[11]*m[14] + m[8]*m[6]*m[15] - m[8]*m[7]*m[14] - m[12]*m[6]*m[11] + m[12]*m[7]*m[10]
	inv[8] = m[4]*m[9]*m[15] - m[4]*m[11]*m[13] - m[8]*m[5]*m[15] + m[8]*m[7]*m[13] + m[12]*m[5]*m[11] - m[12]*m[7]*m[9]
	inv[12] = -m[4]*m[9]*m[14] + m[4]*m[10]*m[13] + m[8]*m[5]*m[14] - m[8]*m[6]*m[13] - m[12]*m[5]*m[10] + m[12]*m[6]*m[9]
	inv[1] = -m[1]*m[10]*m[15] + m[1]*m[11]*m[14] + m[9]*m[2]*m[15] - m[9]*m[3]*m[14] - m[13]*m[2]*m[11] + m[13]*m[3]*m[10]
	inv[5] = m[0]*m[10]*m[15] - m[0]*m[11]*m[14] - m[8]*m[2]*m[15] + m[8]*m[3]*m[14] + m[12]*m[2]*m[11] - m[12]*m[3]*m[10]
	inv[9] = -m[0]*m[9]*m[15] + m[0]*m[11]*m[13] + m[8]*m[1]*m[15] - m[8]*m[3]*m[13] - m[12]*m[1]*m[11] + m[12]*m[3]*m[9]
	inv[13] = m[0]*m[9]*m[14] - m[0]*m[10]*m[13] - m[8]*m[1]*m[14] + m[8]*m[2]*m[13] + m[12]*m[1]*m[10] - m[12]*m[2]*m[9]
	inv[2] = m[1]*m[6]*m[15] - m[1]*m[7]*m[14] - m[5]*m[2]*m[15] + m[5]*m[3]*m[14] + m[13]*m[2]*m[7] - m[13]*m[3]*m[6]
	inv[6] = -m[0]*m[6]*m[15] + m[0]*m[7]*m[14] + m[4]*m[2]*m[15] - m[4]*m[3]*m[14] - m[12]*m[2]*m[7] + m[12]*m[3]*m[6]
	inv[10] = m[0]*m[5]*m[15] - m[0]*m[7]*m[13] - m[4]*m[1]*m[15] + m[4]*m[3]*m[13] + m[12]*m[1]*m[7] - m[12]*m[3]*m[5]
	inv[14] = -m[0]*m[5]*m[14] + m[0]*m[6]*m[13] + m[4]*m[1]*m[14] - m[4]*m[2]*m[13] - m[12]*m[1]*m[6] + m[12]*m[2]*m[5]
	inv[3] = -m[1]*m[6]*m[11] + m[1]*m[7]*m[10] + m[5]*m[2]*m[11] - m[5]*m[3]*m[10] - m[9]*m[2]*m[7] + m[9]*m[3]*m[6]
	inv[7] = m[0]*m[6]*m[11] - m[0]*m[7]*m[10] - m[4]*m[2]*m[11] + m[4]*m[3]*m[10] + m[8]*m[2]*m[7] - m[8]*m[3]*m[6]
	inv[11] = -m[0]*m[5]*m[11] + m[0]*m[7]*m[9] + m[4]*m[1]*m[11] - m[4]*m[3]*m[9] - m[8]*m[1]*m[7] + m[8]*m[3]*m[5]
	inv[15] = m[0]*m[5]*m[10] - m[0]*m[6]*m[9] - m[4]*m[1]*m[10] + m[4]*m[2]*m[9] + m[8]*m[1]*m[6] - m[8]*m[2]*m[5]

	det := m[0]*inv[0] + m[1]*inv[4] + m[2]*inv[8] + m[3]*inv[12]
	if det == 0 {
		return Mat4{}, false
	}

	invDet := 1.0 / det
	for i := range inv {
		inv[i] *= invDet
	}
	return inv, true
}

// UnProject maps window coordinates back to world space through the
// inverse of a combined projection×view matrix. win.Z is depth in [0, 1];
// the viewport is (0, 0, width, height).
func UnProject(win Vec3, inverseViewProj Mat4, width, height float64) Vec3 {
	ndcX := win.X/width*2 - 1
	ndcY := win.Y/height*2 - 1
	ndcZ := win.Z*2 - 1
	x, y, z, w := inverseViewProj.MulVec4(ndcX, ndcY, ndcZ, 1)
	return Vec3{x / w, y / w, z / w}
}
