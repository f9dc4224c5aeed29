// Package colormath holds the small, pure conversions that the
// spectral and metadata solvers both build on: CCT<->chromaticity,
// XYZ<->uv, XYZ<->LAB, Bradford chromatic adaptation, and RGB-primaries
// to XYZ matrix construction. None of these hold state; they are free
// functions operating on emath.Vec3/Mat3, grounded in
// original_source/rawtoaces_core.cpp and generalized from the teacher's
// fixed D50->D65 adaptation in pkg/ecolor/cameranative.go.
package colormath

import (
	"math"

	"github.com/abworrall/acesidt/pkg/colorconst"
	"github.com/abworrall/acesidt/pkg/emath"
)

// CCTToXY converts a correlated color temperature (Kelvin) to CIE 1931
// chromaticity coordinates, using the piecewise cubic approximation
// with a pivot at 7003.77K.
func CCTToXY(cct float64) (x, y float64) {
	switch {
	case cct >= 4002.15 && cct <= 7003.77:
		x = 0.244063 + 99.11/cct + 2.9678e6/(cct*cct) - 4.6070e9/(cct*cct*cct)
	default:
		x = 0.237040 + 247.48/cct + 1.9018e6/(cct*cct) - 2.0064e9/(cct*cct*cct)
	}
	y = -3.0*x*x + 2.87*x - 0.275
	return x, y
}

// XYToXYZ lifts a chromaticity pair to an XYZ triple with Y normalized to 1.
func XYToXYZ(x, y float64) emath.Vec3 {
	if y == 0 {
		return emath.Vec3{0, 0, 0}
	}
	return emath.Vec3{x / y, 1.0, (1 - x - y) / y}
}

// XYZToXY projects an XYZ triple down to CIE 1931 chromaticity.
func XYZToXY(xyz emath.Vec3) (x, y float64) {
	sum := xyz[0] + xyz[1] + xyz[2]
	if sum == 0 {
		return 0, 0
	}
	return xyz[0] / sum, xyz[1] / sum
}

// XYZToUV converts an XYZ triple to CIE 1960 UCS (u, v) coordinates,
// the space the Robertson CCT table is defined in.
func XYZToUV(xyz emath.Vec3) (u, v float64) {
	denom := xyz[0] + 15*xyz[1] + 3*xyz[2]
	if denom == 0 {
		return 0, 0
	}
	u = 4 * xyz[0] / denom
	v = 6 * xyz[1] / denom
	return u, v
}

// UVToXY converts CIE 1960 UCS (u, v) back to CIE 1931 (x, y).
func UVToXY(u, v float64) (x, y float64) {
	denom := 2*u - 8*v + 4
	if denom == 0 {
		return 0, 0
	}
	x = 3 * u / denom
	y = 2 * v / denom
	return x, y
}

// XYZToLAB converts an XYZ triple to CIE LAB relative to the given
// reference white, using the standard piecewise cube-root/linear
// response curve.
func XYZToLAB(xyz, whiteXYZ emath.Vec3) emath.Vec3 {
	f := func(t float64) float64 {
		const delta = 6.0 / 29.0
		if t > delta*delta*delta {
			return math.Cbrt(t)
		}
		return t/(3*delta*delta) + 4.0/29.0
	}

	fx := f(xyz[0] / whiteXYZ[0])
	fy := f(xyz[1] / whiteXYZ[1])
	fz := f(xyz[2] / whiteXYZ[2])

	L := 116*fy - 16
	a := 500 * (fx - fy)
	b := 200 * (fy - fz)
	return emath.Vec3{L, a, b}
}

// BradfordCAT builds the 3x3 chromatic adaptation matrix that maps XYZ
// values under srcWhite to their appearance under dstWhite, using the
// Bradford cone-response transform (spec §4.6.5).
func BradfordCAT(srcWhite, dstWhite emath.Vec3) emath.Mat3 {
	bInv, ok := colorconst.Bradford.Invert()
	if !ok {
		// Bradford is a fixed, well-conditioned matrix; this can't happen.
		panic("colormath: Bradford matrix is not invertible")
	}

	srcCone := colorconst.Bradford.Apply(srcWhite)
	dstCone := colorconst.Bradford.Apply(dstWhite)

	gain := dstCone.Diag().Mult(srcCone.InvertDiag())

	return bInv.Mult(gain).Mult(colorconst.Bradford)
}

// RGBPrimariesToXYZ builds the matrix that converts linear RGB values
// in the color space defined by the given chromaticities (each an (x,y)
// pair) and white point into XYZ, normalized so that RGB=(1,1,1) maps
// exactly onto whiteXYZ.
func RGBPrimariesToXYZ(rx, ry, gx, gy, bx, by float64, whiteXYZ emath.Vec3) emath.Mat3 {
	Xr, Yr, Zr := rx/ry, 1.0, (1-rx-ry)/ry
	Xg, Yg, Zg := gx/gy, 1.0, (1-gx-gy)/gy
	Xb, Yb, Zb := bx/by, 1.0, (1-bx-by)/by

	// Columns are the primaries' unscaled XYZ.
	primaries := emath.Mat3{
		Xr, Xg, Xb,
		Yr, Yg, Yb,
		Zr, Zg, Zb,
	}

	inv, ok := primaries.Invert()
	if !ok {
		return emath.Identity3()
	}
	s := inv.Apply(whiteXYZ) // per-primary scale factors

	return emath.Mat3{
		Xr * s[0], Xg * s[1], Xb * s[2],
		Yr * s[0], Yg * s[1], Yb * s[2],
		Zr * s[0], Zg * s[1], Zb * s[2],
	}
}
