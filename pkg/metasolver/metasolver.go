// Package metasolver implements MetadataSolver (spec §4.6): recovering
// a capture illuminant's chromaticity from DNG dual-illuminant
// calibration data by iterative search in mired space, then assembling
// a CAT and IDT matrix to the ACES white point. Grounded in
// original_source/rawtoaces_core.cpp's find_XYZ_to_camera_matrix,
// XYZ_to_color_temperature, and the CAT/IDT free functions.
package metasolver

import (
	"fmt"
	"log"
	"math"

	"github.com/abworrall/acesidt/pkg/colorconst"
	"github.com/abworrall/acesidt/pkg/colorerr"
	"github.com/abworrall/acesidt/pkg/colormath"
	"github.com/abworrall/acesidt/pkg/emath"
)

// Calibration is one of a DNG's two illuminant/matrix pairs (spec §3).
//
// CameraCalibrationMatrix is carried at the width spec §6's external
// interface actually hands over (Float x16, the DNG CameraCalibration
// tag's row-major 4x4), even though spec §3's data model calls the
// same field a 3x3 — that mismatch is in the spec itself, and since the
// field is documented as "currently unused in computation", there is
// nothing here that would surface the discrepancy.
type Calibration struct {
	Illuminant              uint16
	XYZToRGBMatrix          emath.Mat3
	CameraCalibrationMatrix []float64
}

// Metadata is the DNG-path snapshot the MetadataSolver borrows for the
// duration of one computation (spec §3).
type Metadata struct {
	BaselineExposure float64
	NeutralRGB       []float64 // length 0 or 3
	Calibration      [2]Calibration
}

// MetadataSolver borrows a Metadata snapshot and produces a CAT and/or
// IDT matrix to the ACES white point (spec §4.6).
type MetadataSolver struct {
	Metadata  Metadata
	Verbosity int

	CameraToXYZ emath.Mat3
	WhiteXYZ    emath.Vec3
	CATMatrix   emath.Mat3
	IDTMatrix   emath.Mat3

	resolved bool
}

func New(md Metadata) *MetadataSolver {
	return &MetadataSolver{
		Metadata:  md,
		IDTMatrix: emath.Identity3(),
	}
}

// resolve computes CameraToXYZ and WhiteXYZ once, per spec §4.6.3/4.6.4.
// A CalibrationDegenerate condition is not fatal: it is logged
// (verbosity-gated) and the solver proceeds with the first calibration's
// matrix, per spec §7's fallback policy.
func (s *MetadataSolver) resolve() error {
	if s.resolved {
		return nil
	}

	xyzToCamera, err := FindXYZToCameraMatrix(s.Metadata)
	if err != nil {
		if s.Verbosity > 0 {
			log.Printf("metasolver: %v; falling back to calibration[0]'s matrix", err)
		}
	}

	cameraToXYZ, whiteXYZ, err := cameraToXYZAndWhitePoint(s.Metadata, xyzToCamera)
	if err != nil {
		return err
	}

	s.CameraToXYZ = cameraToXYZ
	s.WhiteXYZ = whiteXYZ
	s.resolved = true
	return nil
}

// CalculateCATMatrix returns the CAT from the camera's recovered white
// point to the ACES white point (spec §4.6.6).
func (s *MetadataSolver) CalculateCATMatrix() error {
	if err := s.resolve(); err != nil {
		return err
	}
	s.CATMatrix = colormath.BradfordCAT(s.WhiteXYZ, colorconst.ACESWhitepointXYZ)
	return nil
}

// CalculateIDTMatrix returns XYZ_D65_to_ACES_AP0 * CAT (spec §4.6.6),
// computing the CAT first on every call.
func (s *MetadataSolver) CalculateIDTMatrix() error {
	if err := s.CalculateCATMatrix(); err != nil {
		return err
	}
	s.IDTMatrix = colorconst.XYZ_D65_to_ACES_AP0.Mult(s.CATMatrix)
	return nil
}

// cameraToXYZAndWhitePoint implements spec §4.6.4.
func cameraToXYZAndWhitePoint(metadata Metadata, xyzToCamera emath.Mat3) (emath.Mat3, emath.Vec3, error) {
	inv, ok := xyzToCamera.Invert()
	if !ok {
		return emath.Mat3{}, emath.Vec3{}, fmt.Errorf("XYZ-to-camera matrix is singular: %w", colorerr.ErrNumericFailure)
	}
	cameraToXYZ := inv.Scale(math.Pow(2, metadata.BaselineExposure))

	var whiteXYZ emath.Vec3
	if len(metadata.NeutralRGB) == 3 {
		neutral := emath.Vec3{metadata.NeutralRGB[0], metadata.NeutralRGB[1], metadata.NeutralRGB[2]}
		whiteXYZ = cameraToXYZ.Apply(neutral)
	} else {
		cct := LightSourceToCCT(metadata.Calibration[0].Illuminant)
		whiteXYZ = CCTToXYZ(cct)
	}

	if whiteXYZ.Sum() == 0 {
		return emath.Mat3{}, emath.Vec3{}, fmt.Errorf("recovered white point is zero: %w", colorerr.ErrNumericFailure)
	}
	if whiteXYZ[1] != 0 {
		whiteXYZ = whiteXYZ.Scale(1.0 / whiteXYZ[1])
	}
	return cameraToXYZ, whiteXYZ, nil
}
