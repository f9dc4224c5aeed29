// Package illuminant synthesizes daylight (CIE D-series) and blackbody
// spectral power distributions from a correlated color temperature,
// grounded in original_source/rawtoaces_core.cpp's
// calculate_daylight_SPD/calculate_blackbody_SPD.
package illuminant

import (
	"fmt"
	"math"

	"github.com/abworrall/acesidt/pkg/colorconst"
	"github.com/abworrall/acesidt/pkg/colorerr"
	"github.com/abworrall/acesidt/pkg/colormath"
	"github.com/abworrall/acesidt/pkg/spectral"
)

// Daylight synthesizes a CIE D-series illuminant power spectrum for
// the given CCT input. cctInput may be either a raw Kelvin value in
// [4000, 25000] or the historical x100 shorthand in [40, 250].
func Daylight(cctInput int) (spectral.Spectrum, error) {
	var cct float64
	switch {
	case cctInput >= 40 && cctInput <= 250:
		cct = float64(cctInput) * 100 * 1.4387752 / 1.438
	case cctInput >= 4000 && cctInput <= 25000:
		cct = float64(cctInput)
	default:
		return spectral.Spectrum{}, fmt.Errorf(
			"daylight CCT %d out of range [4000,25000] or shorthand [40,250]: %w",
			cctInput, colorerr.ErrInvalidArgument)
	}

	x, y := colormath.CCTToXY(cct)

	m0 := 0.0241 + 0.2562*x - 0.7341*y
	m1 := (-1.3515 - 1.7703*x + 5.9114*y) / m0
	m2 := (0.03000 - 31.4424*x + 30.0717*y) / m0

	s0 := spectral.Spectrum{
		Shape:  spectral.Shape{First: colorconst.DaylightShapeFirst, Last: colorconst.DaylightShapeFirst + colorconst.DaylightShapeStep*float64(len(colorconst.DaylightS0)-1), Step: colorconst.DaylightShapeStep},
		Values: colorconst.DaylightS0,
	}
	s1 := spectral.Spectrum{Shape: s0.Shape, Values: colorconst.DaylightS1}
	s2 := spectral.Spectrum{Shape: s0.Shape, Values: colorconst.DaylightS2}

	combined := s0.Add(scaledCopy(s1, m1)).Add(scaledCopy(s2, m2))
	return combined.Reshape(), nil
}

// scaledCopy is a small local helper: Spectrum doesn't expose a
// non-mutating scalar multiply (only ScaleInPlace), since nothing else
// in the core needs one; this keeps Daylight() from mutating the
// package-level S1/S2 tables it borrowed.
func scaledCopy(s spectral.Spectrum, k float64) spectral.Spectrum {
	out := s.Clone()
	out.ScaleInPlace(k)
	return out
}

// Blackbody synthesizes a Planckian blackbody power spectrum for cct,
// which must lie in [1500, 4000).
func Blackbody(cct int) (spectral.Spectrum, error) {
	if cct < 1500 || cct >= 4000 {
		return spectral.Spectrum{}, fmt.Errorf(
			"blackbody CCT %d out of range [1500,4000): %w", cct, colorerr.ErrInvalidArgument)
	}

	shape := spectral.ReferenceShape
	values := make([]float64, shape.Count())
	for i := range values {
		wavelength := shape.Wavelength(i)
		lambda := wavelength / 1e9
		c1 := 2 * colorconst.PlanckConstant * colorconst.LightSpeed * colorconst.LightSpeed
		c2 := (colorconst.PlanckConstant * colorconst.LightSpeed) /
			(colorconst.BoltzmannConst * lambda * float64(cct))
		values[i] = c1 * math.Pi / (math.Pow(lambda, 5) * (math.Exp(c2) - 1))
	}
	return spectral.Spectrum{Shape: shape, Values: values}, nil
}

// TypeString returns the canonical lowercase type label for a
// generated illuminant: "d{cct/100}" for daylight, "{cct}k" for
// blackbody.
func TypeString(cctInput int, isDaylight bool) string {
	if isDaylight {
		return fmt.Sprintf("d%d", cctInput/100)
	}
	return fmt.Sprintf("%dk", cctInput)
}

// Generate builds a full single-channel SpectralData ("main" set,
// "power" channel) for the given CCT and kind.
func Generate(cctInput int, isDaylight bool) (spectral.SpectralData, error) {
	var power spectral.Spectrum
	var err error
	if isDaylight {
		power, err = Daylight(cctInput)
	} else {
		power, err = Blackbody(cctInput)
	}
	if err != nil {
		return spectral.SpectralData{}, err
	}

	sd := spectral.NewSpectralData()
	sd.Header.Type = TypeString(cctInput, isDaylight)
	sd.Sets["main"] = spectral.SpectralSet{
		{Name: "power", Spectrum: power},
	}
	return sd, nil
}
