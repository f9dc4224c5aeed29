package emath

// 3x3 matrix and 3-vector arithmetic, used throughout the colour
// transforms: IDT/CAT matrices, XYZ/RGB/LAB triples.

import (
	"fmt"

	"golang.org/x/image/math/f64"
)

// Use a local type so we can hang methods off it
type Vec3 f64.Vec3
type Mat3 f64.Mat3

func Identity3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

func (a Mat3) Mult(b Mat3) Mat3 {
	return Mat3{
		a[3*0+0]*b[3*0+0] + a[3*0+1]*b[3*1+0] + a[3*0+2]*b[3*2+0],
		a[3*0+0]*b[3*0+1] + a[3*0+1]*b[3*1+1] + a[3*0+2]*b[3*2+1],
		a[3*0+0]*b[3*0+2] + a[3*0+1]*b[3*1+2] + a[3*0+2]*b[3*2+2],

		a[3*1+0]*b[3*0+0] + a[3*1+1]*b[3*1+0] + a[3*1+2]*b[3*2+0],
		a[3*1+0]*b[3*0+1] + a[3*1+1]*b[3*1+1] + a[3*1+2]*b[3*2+1],
		a[3*1+0]*b[3*0+2] + a[3*1+1]*b[3*1+2] + a[3*1+2]*b[3*2+2],

		a[3*2+0]*b[3*0+0] + a[3*2+1]*b[3*1+0] + a[3*2+2]*b[3*2+0],
		a[3*2+0]*b[3*0+1] + a[3*2+1]*b[3*1+1] + a[3*2+2]*b[3*2+1],
		a[3*2+0]*b[3*0+2] + a[3*2+1]*b[3*1+2] + a[3*2+2]*b[3*2+2],
	}
}

func (m Mat3) Apply(v Vec3) Vec3 {
	return Vec3{
		(m[3*0+0]*v[0] + m[3*0+1]*v[1] + m[3*0+2]*v[2]),
		(m[3*1+0]*v[0] + m[3*1+1]*v[1] + m[3*1+2]*v[2]),
		(m[3*2+0]*v[0] + m[3*2+1]*v[1] + m[3*2+2]*v[2]),
	}
}

func (m Mat3) Determinant() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// Invert returns the matrix inverse; ok is false if m is singular.
func (m Mat3) Invert() (Mat3, bool) {
	det := m.Determinant()
	if det == 0 {
		return Mat3{}, false
	}
	invDet := 1.0 / det
	return Mat3{
		(m[4]*m[8] - m[5]*m[7]) * invDet,
		(m[2]*m[7] - m[1]*m[8]) * invDet,
		(m[1]*m[5] - m[2]*m[4]) * invDet,

		(m[5]*m[6] - m[3]*m[8]) * invDet,
		(m[0]*m[8] - m[2]*m[6]) * invDet,
		(m[2]*m[3] - m[0]*m[5]) * invDet,

		(m[3]*m[7] - m[4]*m[6]) * invDet,
		(m[1]*m[6] - m[0]*m[7]) * invDet,
		(m[0]*m[4] - m[1]*m[3]) * invDet,
	}, true
}

func (m Mat3) Row(i int) Vec3 {
	return Vec3{m[3*i], m[3*i+1], m[3*i+2]}
}

func (m Mat3) Scale(k float64) Mat3 {
	out := m
	for i := range out {
		out[i] *= k
	}
	return out
}

func (m Mat3) String() string {
	str := ""
	for i := 0; i < 3; i++ {
		r := m.Row(i)
		str += fmt.Sprintf("[%10f, %10f, %10f]\n", r[0], r[1], r[2])
	}
	return str
}

func (v Vec3) String() string {
	return fmt.Sprintf("[%12.10f, %12.10f, %12.10f]", v[0], v[1], v[2])
}

// Diag places the vector on the diagonal of an otherwise-zero matrix.
func (v Vec3) Diag() Mat3 {
	return Mat3{
		v[0], 0, 0,
		0, v[1], 0,
		0, 0, v[2],
	}
}

// Places the vector on the diagonal of a matrix, then inverts it
func (v Vec3) InvertDiag() Mat3 {
	return Mat3{
		1.0 / v[0], 0, 0,
		0, 1.0 / v[1], 0,
		0, 0, 1.0 / v[2],
	}
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }
func (v Vec3) Scale(k float64) Vec3 { return Vec3{v[0] * k, v[1] * k, v[2] * k} }
func (v Vec3) Sum() float64         { return v[0] + v[1] + v[2] }

