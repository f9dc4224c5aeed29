package metasolver

import (
	"math"

	"github.com/abworrall/acesidt/pkg/colorconst"
	"github.com/abworrall/acesidt/pkg/colormath"
	"github.com/abworrall/acesidt/pkg/emath"
)

// MiredFromCCT and CCTFromMired are each other's inverse (spec §4.6.1).
func MiredFromCCT(cct float64) float64 { return 1.0e6 / cct }
func CCTFromMired(mired float64) float64 { return 1.0e6 / mired }

// LightSourceToCCT maps an EXIF LightSource tag to a nominal CCT (spec
// §4.6.1). Tags >= 32768 encode CCT directly, offset by 32768.
func LightSourceToCCT(tag uint16) float64 {
	if tag >= 32768 {
		return float64(tag) - 32768.0
	}
	if cct, ok := colorconst.LightSourceToCCT[int(tag)]; ok {
		return cct
	}
	return colorconst.DefaultLightSourceCCT
}

// robertsonDistance computes the signed Robertson distance of source_uv
// from the isotherm line through row (spec §4.6.2), grounded in
// original_source/rawtoaces_core.cpp's robertson_length.
func robertsonDistance(u, v float64, row colorconst.RobertsonPoint) float64 {
	t := row.Tang
	sign := 0.0
	switch {
	case t < 0:
		sign = -1.0
	case t > 0:
		sign = 1.0
	}
	slopeX := -sign / math.Sqrt(1+t*t)
	slopeY := t * slopeX

	dx := u - row.U
	dy := v - row.V
	return slopeX*dy - slopeY*dx
}

// XYZToCCT estimates correlated color temperature from an XYZ triple by
// walking the Robertson table for the first isotherm the point has
// crossed, then interpolating in Mired space (spec §4.6.2).
func XYZToCCT(xyz emath.Vec3) float64 {
	u, v := colormath.XYZToUV(xyz)

	table := colorconst.RobertsonTable
	n := len(table)

	i := 0
	distPrev, distThis := 0.0, 0.0
	for ; i < n; i++ {
		distThis = robertsonDistance(u, v, table[i])
		if distThis <= 0 {
			break
		}
		distPrev = distThis
	}

	var mired float64
	switch {
	case i <= 0:
		mired = table[0].Mired
	case i >= n:
		mired = table[n-1].Mired
	default:
		mired = table[i-1].Mired + distPrev*(table[i].Mired-table[i-1].Mired)/(distPrev-distThis)
	}

	cct := CCTFromMired(mired)
	return clamp(cct, 2000, 50000)
}

// CCTToXYZ is the supplemental inverse of XYZToCCT: it locates the
// Mired-straddling pair of Robertson rows, blends their uv coordinates,
// and lifts the result back to XYZ (spec §4.6.2, "Inverse CCT -> XYZ";
// the rawtoaces_core.cpp equivalent is color_temperature_to_XYZ).
func CCTToXYZ(cct float64) emath.Vec3 {
	mired := MiredFromCCT(cct)
	table := colorconst.RobertsonTable
	n := len(table)

	i := 0
	for ; i < n; i++ {
		if table[i].Mired >= mired {
			break
		}
	}

	var u, v float64
	switch {
	case i <= 0:
		u, v = table[0].U, table[0].V
	case i >= n:
		u, v = table[n-1].U, table[n-1].V
	default:
		weight := (mired - table[i-1].Mired) / (table[i].Mired - table[i-1].Mired)
		u = table[i].U*weight + table[i-1].U*(1-weight)
		v = table[i].V*weight + table[i-1].V*(1-weight)
	}

	x, y := colormath.UVToXY(u, v)
	return colormath.XYToXYZ(x, y)
}

// weightedMatrix blends two calibration matrices by the position of
// miredTarget in [miredStart, miredEnd] (spec §4.6.3), grounded in
// original_source/rawtoaces_core.cpp's XYZ_to_camera_weighted_matrix.
func weightedMatrix(miredTarget, miredStart, miredEnd float64, start, end emath.Mat3) emath.Mat3 {
	weight := clamp((miredStart-miredTarget)/(miredStart-miredEnd), 0, 1)
	var out emath.Mat3
	for i := range out {
		out[i] = start[i] + weight*(end[i]-start[i])
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
