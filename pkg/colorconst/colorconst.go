// Package colorconst holds the fixed numeric tables the color-science
// core is built on: CIE daylight basis functions, the Robertson
// correlated-color-temperature table, the Bradford chromatic adaptation
// matrix, ACES AP0 primaries, and the EXIF LightSource code map. These
// never change at runtime, so they live as package-level values rather
// than being threaded through every solver constructor.
package colorconst

import "github.com/abworrall/acesidt/pkg/emath"

// Physical constants (SI units) for Planckian blackbody synthesis.
const (
	PlanckConstant  = 6.62607015e-34 // J*s
	LightSpeed      = 2.99792458e8   // m/s
	BoltzmannConst  = 1.380649e-23   // J/K
)

// ReferenceShape is the canonical 380-780nm/5nm sampling grid every
// Spectrum is reshaped onto before arithmetic between spectra.
var (
	ReferenceShapeFirst = 380.0
	ReferenceShapeLast  = 780.0
	ReferenceShapeStep  = 5.0
)

// ACES AP0 primaries and white point (ACES white, CIE 1931 2-degree).
var (
	ACESWhitepointXYZ = emath.Vec3{0.95265, 1.0, 1.00883}

	// D65WhitepointXYZ is the standard CIE D65 white point, used as the
	// fixed source white for the Metadata(non-DNG)/Adobe matrix-method
	// CAT (spec §4.7).
	D65WhitepointXYZ = emath.Vec3{0.95047, 1.0, 1.08883}

	// XYZ(D65) -> ACES AP0, per the AMPAS standard IDT reference matrix.
	XYZ_D65_to_ACES_AP0 = emath.Mat3{
		1.0498110175, 0.0000000000, -0.0000974845,
		-0.4959030231, 1.3733130458, 0.0982400361,
		0.0000000000, 0.0000000000, 0.9912520182,
	}
)

// Bradford cone-response matrix, used for chromatic adaptation between
// two XYZ white points (spec §4.6.5's CAT construction).
var (
	Bradford = emath.Mat3{
		0.8951000, 0.2664000, -0.1614000,
		-0.7502000, 1.7135000, 0.0367000,
		0.0389000, -0.0685000, 1.0296000,
	}
)

// CIE daylight basis functions S0/S1/S2, sampled 300-830nm every 10nm
// (the standard 54-entry CIE table). Used by daylight SPD synthesis
// (spec §4.3).
var (
	DaylightShapeFirst = 300.0
	DaylightShapeStep  = 10.0

	DaylightS0 = []float64{
		0.04, 6.0, 29.6, 55.3, 57.3, 61.8, 61.5, 68.8, 63.4, 65.8,
		94.8, 104.8, 105.9, 96.8, 113.9, 125.6, 125.5, 121.3, 121.3, 113.5,
		113.1, 110.8, 106.5, 108.8, 105.3, 104.4, 100.0, 96.0, 95.1, 89.1,
		90.5, 90.3, 88.4, 84.0, 85.1, 81.9, 82.6, 84.9, 81.3, 71.9,
		74.3, 76.4, 63.3, 71.7, 77.0, 65.2, 47.7, 68.6, 65.0, 66.0,
		61.0, 53.3, 58.9, 61.9,
	}
	DaylightS1 = []float64{
		0.02, 4.5, 22.4, 42.0, 40.6, 41.6, 38.0, 42.4, 38.5, 35.0,
		43.4, 46.3, 43.9, 37.1, 36.7, 35.9, 32.6, 27.9, 24.3, 20.1,
		16.2, 13.2, 8.6, 6.1, 4.2, 1.9, 0.0, -1.6, -3.5, -3.5,
		-5.8, -7.2, -8.6, -9.5, -10.9, -10.7, -12.0, -14.0, -13.6, -12.0,
		-13.3, -12.9, -10.6, -11.6, -12.2, -10.2, -7.8, -11.2, -10.4, -10.6,
		-9.7, -8.3, -9.3, -9.8,
	}
	DaylightS2 = []float64{
		0.0, 2.0, 4.0, 8.5, 7.8, 6.7, 5.3, 6.1, 3.0, 1.2,
		-1.1, -0.5, -0.7, -1.2, -2.6, -2.9, -2.8, -2.6, -2.6, -1.8,
		-1.5, -1.3, -1.2, -1.0, -0.5, -0.3, 0.0, 0.2, 0.5, 2.1,
		3.2, 4.1, 4.7, 5.1, 6.7, 7.3, 8.6, 9.8, 10.2, 8.3,
		9.6, 8.5, 7.0, 7.6, 8.0, 6.7, 5.2, 7.4, 6.8, 7.0,
		6.4, 5.5, 6.1, 6.5,
	}
)

// DefaultLightSourceCCT is the fallback CCT for an EXIF LightSource tag
// that isn't in LightSourceToCCT.
const DefaultLightSourceCCT = 5500.0

// LightSourceToCCT maps EXIF LightSource tag values to a nominal
// correlated color temperature (spec §4.6.1). Tags >= 32768 are handled
// separately by the caller as CCT = tag - 32768.
var LightSourceToCCT = map[int]float64{
	0:  5500,
	1:  5500,
	2:  3500,
	3:  3400,
	10: 5550,
	17: 2856,
	18: 4874,
	19: 6774,
	20: 5500,
	21: 6500,
	22: 7500,
}

// RobertsonPoint is one row of the classic Robertson mired/uv table
// used for uv-distance interpolation to correlated color temperature
// (spec §4.6.2).
type RobertsonPoint struct {
	Mired float64
	U, V  float64
	Tang  float64 // slope of the isotherm line at this point
}

// RobertsonTable is the standard 31-row table (Robertson, 1968),
// mired values from 0 (infinite K) to 600 (1667K).
var RobertsonTable = []RobertsonPoint{
	{0, 0.18006, 0.26352, -0.24341},
	{10, 0.18066, 0.26589, -0.25479},
	{20, 0.18133, 0.26846, -0.26876},
	{30, 0.18208, 0.27119, -0.28539},
	{40, 0.18293, 0.27407, -0.30470},
	{50, 0.18388, 0.27709, -0.32675},
	{60, 0.18494, 0.28021, -0.35156},
	{70, 0.18611, 0.28342, -0.37915},
	{80, 0.18740, 0.28668, -0.40955},
	{90, 0.18880, 0.28997, -0.44278},
	{100, 0.19032, 0.29326, -0.47888},
	{125, 0.19462, 0.30141, -0.58204},
	{150, 0.19962, 0.30921, -0.70471},
	{175, 0.20525, 0.31647, -0.84901},
	{200, 0.21142, 0.32312, -1.0182},
	{225, 0.21807, 0.32909, -1.2168},
	{250, 0.22511, 0.33439, -1.4512},
	{275, 0.23247, 0.33904, -1.7298},
	{300, 0.24010, 0.34308, -2.0637},
	{325, 0.24792, 0.34655, -2.4681},
	{350, 0.25591, 0.34951, -2.9641},
	{375, 0.26400, 0.35200, -3.5814},
	{400, 0.27218, 0.35407, -4.3633},
	{425, 0.28039, 0.35577, -5.3762},
	{450, 0.28863, 0.35714, -6.7262},
	{475, 0.29685, 0.35823, -8.5955},
	{500, 0.30505, 0.35907, -11.324},
	{525, 0.31320, 0.35968, -15.628},
	{550, 0.32129, 0.36011, -23.325},
	{575, 0.32931, 0.36038, -40.770},
	{600, 0.33724, 0.36051, -116.45},
}
