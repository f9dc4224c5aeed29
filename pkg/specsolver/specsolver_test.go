package specsolver

import (
	"math"
	"testing"

	"github.com/abworrall/acesidt/pkg/catalog"
	"github.com/abworrall/acesidt/pkg/emath"
	"github.com/abworrall/acesidt/pkg/spectral"
)

func flatSpectrum(v float64) spectral.Spectrum {
	return spectral.NewSpectrum(v, spectral.ReferenceShape)
}

// rampSpectrum gives each sample a distinct value so that different
// channels aren't simply proportional to each other, which would
// starve the IDT solver's Jacobian of rank.
func rampSpectrum(base, slope float64) spectral.Spectrum {
	s := spectral.NewSpectrum(0, spectral.ReferenceShape)
	for i := range s.Values {
		s.Values[i] = base + slope*float64(i%7)
	}
	return s
}

func testCameraData() spectral.SpectralData {
	sd := spectral.NewSpectralData()
	sd.Sets["main"] = spectral.SpectralSet{
		{Name: "R", Spectrum: flatSpectrum(1.0)},
		{Name: "G", Spectrum: flatSpectrum(1.2)},
		{Name: "B", Spectrum: flatSpectrum(0.9)},
	}
	return sd
}

func testIlluminantData() spectral.SpectralData {
	sd := spectral.NewSpectralData()
	sd.Sets["main"] = spectral.SpectralSet{
		{Name: "power", Spectrum: flatSpectrum(1.0)},
	}
	return sd
}

func TestCalculateWBGreenNormalized(t *testing.T) {
	s := New(catalog.New(nil))
	s.Camera = testCameraData()
	s.Illuminant = testIlluminantData()

	if err := s.CalculateWB(); err != nil {
		t.Fatalf("CalculateWB: %v", err)
	}
	if s.WBMultipliers[1] != 1.0 {
		t.Errorf("WBMultipliers[1] = %v, want exactly 1.0", s.WBMultipliers[1])
	}
	if s.WBMultipliers[0] <= 0 || s.WBMultipliers[2] <= 0 {
		t.Errorf("WBMultipliers = %v, want all positive", s.WBMultipliers)
	}
}

func TestCalculateWBRequiresInitializedCameraAndIlluminant(t *testing.T) {
	s := New(catalog.New(nil))
	if err := s.CalculateWB(); err == nil {
		t.Fatal("expected InvalidState error on uninitialized solver")
	}
}

func TestFindIlluminantByTokenDaylightBlackbodyAndError(t *testing.T) {
	s := New(catalog.New(nil))

	if err := s.FindIlluminantByToken("D65"); err != nil {
		t.Fatalf("FindIlluminantByToken(D65): %v", err)
	}
	if len(s.Illuminant.MainSet()) != 1 {
		t.Fatalf("expected a single power channel after daylight synthesis")
	}

	if err := s.FindIlluminantByToken("3200K"); err != nil {
		t.Fatalf("FindIlluminantByToken(3200K): %v", err)
	}

	if err := s.FindIlluminantByToken("D3000"); err == nil {
		t.Fatal("expected error for daylight CCT below 4000K")
	}
	if err := s.FindIlluminantByToken("1000K"); err == nil {
		t.Fatal("expected error for blackbody CCT below 1500K")
	}
}

func TestIDTMatrixRowSums(t *testing.T) {
	s := New(catalog.New(nil))
	s.Camera = testCameraData()
	s.Illuminant = testIlluminantData()

	sd := spectral.NewSpectralData()
	sd.Sets["main"] = spectral.SpectralSet{
		{Name: "X", Spectrum: rampSpectrum(0.4, 0.05)},
		{Name: "Y", Spectrum: rampSpectrum(0.9, 0.02)},
		{Name: "Z", Spectrum: rampSpectrum(0.5, 0.08)},
	}
	s.Observer = sd
	s.Camera = spectral.SpectralData{Sets: map[string]spectral.SpectralSet{
		"main": {
			{Name: "R", Spectrum: rampSpectrum(1.0, 0.03)},
			{Name: "G", Spectrum: rampSpectrum(1.2, -0.02)},
			{Name: "B", Spectrum: rampSpectrum(0.9, 0.04)},
		},
	}}

	training := spectral.NewSpectralData()
	patches := spectral.SpectralSet{}
	for i := 0; i < 8; i++ {
		patches = append(patches, spectral.SpectralChannel{
			Name:     "patch",
			Spectrum: rampSpectrum(0.1+0.1*float64(i), 0.01*float64(i+1)),
		})
	}
	training.Sets["main"] = patches
	s.Training = training

	if err := s.CalculateIDTMatrix(); err != nil {
		t.Fatalf("CalculateIDTMatrix: %v", err)
	}

	m := s.IDTMatrix
	for row := 0; row < 3; row++ {
		sum := m[3*row] + m[3*row+1] + m[3*row+2]
		if math.Abs(sum-1.0) > 1e-6 {
			t.Errorf("row %d sums to %v, want 1.0", row, sum)
		}
	}
}

func TestFindIlluminantByWBRequires3ChannelCamera(t *testing.T) {
	s := New(catalog.New(nil))
	err := s.FindIlluminantByWB(emath.Vec3{1, 1, 1})
	if err == nil {
		t.Fatal("expected InvalidState error when camera has no main channels")
	}
}
