package metasolver

import (
	"errors"
	"math"
	"testing"

	"github.com/abworrall/acesidt/pkg/colorerr"
	"github.com/abworrall/acesidt/pkg/emath"
)

func TestMiredRoundTrip(t *testing.T) {
	for _, m := range []float64{0.001, 1, 100, 5000, 1e4 - 1} {
		cct := CCTFromMired(m)
		got := MiredFromCCT(cct)
		if math.Abs(got-m) > 1e-9 {
			t.Errorf("MiredFromCCT(CCTFromMired(%v)) = %v, want %v", m, got, m)
		}
	}
}

func TestLightSourceToCCT(t *testing.T) {
	cases := map[uint16]float64{
		0: 5500, 17: 2856, 21: 6500, 9999: 5500, 32768 + 4000: 4000,
	}
	for tag, want := range cases {
		if got := LightSourceToCCT(tag); got != want {
			t.Errorf("LightSourceToCCT(%d) = %v, want %v", tag, got, want)
		}
	}
}

func TestXYZToCCTClamped(t *testing.T) {
	cases := []emath.Vec3{
		{0.9505, 1.0, 1.0890}, // roughly D65
		{1.0985, 1.0, 0.3558}, // roughly A
		{0.0001, 1.0, 0.0001},
	}
	for _, xyz := range cases {
		cct := XYZToCCT(xyz)
		if cct < 2000 || cct > 50000 {
			t.Errorf("XYZToCCT(%v) = %v, want in [2000,50000]", xyz, cct)
		}
	}
}

func TestCCTToXYZRoundTripsThroughCCT(t *testing.T) {
	for _, cct := range []float64{2856, 5500, 6500, 9000} {
		xyz := CCTToXYZ(cct)
		got := XYZToCCT(xyz)
		if math.Abs(got-cct) > 50 {
			t.Errorf("XYZToCCT(CCTToXYZ(%v)) = %v, want close to %v", cct, got, cct)
		}
	}
}

// TestDNGInterpolationMonotonicity is seed-test scenario 6 (spec §8):
// two synthetic calibrations at illuminant A (tag 17, 2856K) and D65
// (tag 21, 6500K), identity matrices scaled by 0.5 and 1.5, with a
// neutral RGB midway: the XYZ of the color temperature at the mired
// midpoint of the two calibrations (a scaled identity matrix leaves its
// chromaticity unchanged). The recovered matrix should land close to
// the element-wise midpoint between the two calibration matrices.
func TestDNGInterpolationMonotonicity(t *testing.T) {
	scale := func(k float64) emath.Mat3 {
		return emath.Mat3{
			k, 0, 0,
			0, k, 0,
			0, 0, k,
		}
	}

	m1 := scale(0.5)
	m2 := scale(1.5)
	midpoint := scale(1.0)

	midMired := (MiredFromCCT(2856) + MiredFromCCT(6500)) / 2
	neutral := CCTToXYZ(CCTFromMired(midMired))

	md := Metadata{
		NeutralRGB: []float64{neutral[0], neutral[1], neutral[2]},
		Calibration: [2]Calibration{
			{Illuminant: 17, XYZToRGBMatrix: m1},
			{Illuminant: 21, XYZToRGBMatrix: m2},
		},
	}

	got, err := FindXYZToCameraMatrix(md)
	if err != nil {
		t.Fatalf("FindXYZToCameraMatrix: %v", err)
	}

	for i := range got {
		if math.Abs(got[i]-midpoint[i]) > 0.25 {
			t.Errorf("got[%d] = %v, want close to midpoint[%d] = %v", i, got[i], i, midpoint[i])
		}
	}
}

func TestFindXYZToCameraMatrixDegenerateMissingIlluminant(t *testing.T) {
	md := Metadata{
		NeutralRGB: []float64{1, 1, 1},
		Calibration: [2]Calibration{
			{Illuminant: 0, XYZToRGBMatrix: emath.Identity3()},
			{Illuminant: 21, XYZToRGBMatrix: emath.Identity3()},
		},
	}
	_, err := FindXYZToCameraMatrix(md)
	if !errors.Is(err, colorerr.ErrCalibrationDegenerate) {
		t.Fatalf("expected ErrCalibrationDegenerate, got %v", err)
	}
}

func TestFindXYZToCameraMatrixDegenerateMissingNeutral(t *testing.T) {
	md := Metadata{
		Calibration: [2]Calibration{
			{Illuminant: 17, XYZToRGBMatrix: emath.Identity3()},
			{Illuminant: 21, XYZToRGBMatrix: emath.Identity3()},
		},
	}
	_, err := FindXYZToCameraMatrix(md)
	if !errors.Is(err, colorerr.ErrCalibrationDegenerate) {
		t.Fatalf("expected ErrCalibrationDegenerate, got %v", err)
	}
}

func TestCalculateIDTMatrixRowsFinite(t *testing.T) {
	md := Metadata{
		BaselineExposure: 0,
		NeutralRGB:       []float64{0.6, 1.0, 0.5},
		Calibration: [2]Calibration{
			{Illuminant: 17, XYZToRGBMatrix: emath.Identity3()},
			{Illuminant: 21, XYZToRGBMatrix: emath.Identity3()},
		},
	}
	s := New(md)
	if err := s.CalculateIDTMatrix(); err != nil {
		t.Fatalf("CalculateIDTMatrix: %v", err)
	}
	for i, v := range s.IDTMatrix {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("IDTMatrix[%d] = %v, want finite", i, v)
		}
	}
}
