package metasolver

import (
	"fmt"
	"math"

	"github.com/abworrall/acesidt/pkg/colorerr"
	"github.com/abworrall/acesidt/pkg/emath"
)

// FindXYZToCameraMatrix recovers the XYZ-to-camera matrix implied by
// the capture illuminant, by iterative search in Mired space between
// the two DNG calibrations (spec §4.6.3). If the first calibration's
// illuminant tag is zero, or neutral_RGB isn't exactly 3 entries, the
// search can't run: the first calibration's matrix is returned alongside
// a wrapped ErrCalibrationDegenerate so the caller can fall back and warn
// (spec §7).
func FindXYZToCameraMatrix(metadata Metadata) (emath.Mat3, error) {
	if metadata.Calibration[0].Illuminant == 0 {
		return metadata.Calibration[0].XYZToRGBMatrix, fmt.Errorf("no calibration illuminants: %w", colorerr.ErrCalibrationDegenerate)
	}
	if len(metadata.NeutralRGB) != 3 {
		return metadata.Calibration[0].XYZToRGBMatrix, fmt.Errorf("no neutral RGB values: %w", colorerr.ErrCalibrationDegenerate)
	}

	cct1 := LightSourceToCCT(metadata.Calibration[0].Illuminant)
	cct2 := LightSourceToCCT(metadata.Calibration[1].Illuminant)
	mir1 := MiredFromCCT(cct1)
	mir2 := MiredFromCCT(cct2)

	maxMired := MiredFromCCT(2000)
	minMired := MiredFromCCT(50000)

	matrixStart := metadata.Calibration[0].XYZToRGBMatrix
	matrixEnd := metadata.Calibration[1].XYZToRGBMatrix

	lowMired := clamp(math.Min(mir1, mir2), minMired, maxMired)
	highMired := clamp(math.Max(mir1, mir2), minMired, maxMired)
	miredStep := math.Max(5.0, (highMired-lowMired)/50.0)

	neutral := emath.Vec3{metadata.NeutralRGB[0], metadata.NeutralRGB[1], metadata.NeutralRGB[2]}

	var lastMired, estimatedMired, currentError, lastError, smallestError float64

	for currentMired := lowMired; currentMired < highMired; currentMired += miredStep {
		estimatedCCT := impliedCCT(currentMired, mir1, mir2, matrixStart, matrixEnd, neutral)
		currentError = currentMired - MiredFromCCT(estimatedCCT)

		if math.Abs(currentError) <= 1e-9 {
			estimatedMired = currentMired
			break
		}
		if math.Abs(currentMired-lowMired) > 1e-9 && currentError*lastError <= 0 {
			estimatedMired = currentMired - (currentError/(currentError-lastError))*(currentMired-lastMired)
			break
		}
		if math.Abs(currentMired-lowMired) <= 1e-9 || math.Abs(currentError) < math.Abs(smallestError) {
			estimatedMired = currentMired
			smallestError = currentError
		}

		lastError = currentError
		lastMired = currentMired
	}

	return weightedMatrix(estimatedMired, mir1, mir2, matrixStart, matrixEnd), nil
}

// impliedCCT computes the color temperature implied by interpreting
// neutral under the XYZ-to-camera matrix blended at miredTarget.
func impliedCCT(miredTarget, mir1, mir2 float64, matrixStart, matrixEnd emath.Mat3, neutral emath.Vec3) float64 {
	blended := weightedMatrix(miredTarget, mir1, mir2, matrixStart, matrixEnd)
	inv, ok := blended.Invert()
	if !ok {
		return colorconstDefaultCCT
	}
	xyz := inv.Apply(neutral)
	return XYZToCCT(xyz)
}

// colorconstDefaultCCT mirrors the fallback used elsewhere when a
// candidate matrix can't be inverted; the search loop treats it as a
// large, consistent error rather than aborting.
const colorconstDefaultCCT = 5500.0
