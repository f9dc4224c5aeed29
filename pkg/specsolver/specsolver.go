// Package specsolver implements SpectralSolver (spec §4.5): camera and
// illuminant lookup, white-balance computation, and the IDT
// non-linear least-squares solve over a spectral training set.
// Grounded in original_source/rawtoaces_core.cpp's SpectralSolver and
// its free functions (find_camera, find_illuminant, calculate_WB,
// calculate_IDT_matrix, IDTOptimizationCost).
package specsolver

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/abworrall/acesidt/pkg/catalog"
	"github.com/abworrall/acesidt/pkg/colorerr"
	"github.com/abworrall/acesidt/pkg/emath"
	"github.com/abworrall/acesidt/pkg/illuminant"
	"github.com/abworrall/acesidt/pkg/spectral"
)

// SpectralSolver owns one camera, one illuminant, one observer, and
// one training SpectralData, plus a lazily-populated illuminant
// catalog cache. Exactly the teacher's one-struct-per-concern shape.
type SpectralSolver struct {
	Catalog *catalog.DataCatalog

	Camera     spectral.SpectralData
	Illuminant spectral.SpectralData
	Observer   spectral.SpectralData
	Training   spectral.SpectralData

	Verbosity int

	WBMultipliers emath.Vec3
	IDTMatrix     emath.Mat3

	allIlluminants []illuminantCandidate
}

type illuminantCandidate struct {
	data spectral.SpectralData
	name string
}

func New(cat *catalog.DataCatalog) *SpectralSolver {
	return &SpectralSolver{
		Catalog:   cat,
		IDTMatrix: emath.Identity3(),
	}
}

// FindCamera loads the first camera record whose manufacturer/model
// match case-insensitively, and returns whether one was found.
func (s *SpectralSolver) FindCamera(make_, model string) bool {
	sd, ok := s.Catalog.FindCamera(make_, model)
	if ok {
		s.Camera = sd
	}
	return ok
}

// FindIlluminantByToken dispatches on the shape of the token: a
// "d"/"D" prefix without a "k"/"K" suffix means daylight synthesis; a
// "k"/"K" suffix without a "d"/"D" prefix means blackbody synthesis;
// otherwise it's a catalog type name, matched case-insensitively.
func (s *SpectralSolver) FindIlluminantByToken(token string) error {
	lower := strings.ToLower(token)
	startsD := strings.HasPrefix(lower, "d")
	endsK := strings.HasSuffix(lower, "k")

	switch {
	case startsD && !endsK:
		cct, err := strconv.Atoi(strings.TrimPrefix(lower, "d"))
		if err != nil {
			return fmt.Errorf("illuminant token %q: %w", token, colorerr.ErrInvalidArgument)
		}
		sd, err := illuminant.Generate(cct, true)
		if err != nil {
			return err
		}
		s.Illuminant = sd
		return nil

	case endsK && !startsD:
		cct, err := strconv.Atoi(strings.TrimSuffix(lower, "k"))
		if err != nil {
			return fmt.Errorf("illuminant token %q: %w", token, colorerr.ErrInvalidArgument)
		}
		sd, err := illuminant.Generate(cct, false)
		if err != nil {
			return err
		}
		s.Illuminant = sd
		return nil

	default:
		for _, path := range s.Catalog.CollectFiles(catalog.KindIlluminant) {
			sd, err := s.Catalog.LoadSpectralData(path, true)
			if err != nil {
				continue
			}
			if strings.EqualFold(sd.Header.Type, token) {
				s.Illuminant = sd
				return nil
			}
		}
		return fmt.Errorf("illuminant %q: %w", token, colorerr.ErrNotFound)
	}
}

// FindIlluminantByWB requires the camera's "main" set to have exactly
// 3 channels, then (on first call) populates a memoized catalog of
// daylight/blackbody/file-based illuminants, computing a provisional
// WB triple for each and keeping the one whose sum-of-squares error
// against wb is smallest.
func (s *SpectralSolver) FindIlluminantByWB(wb emath.Vec3) error {
	if len(s.Camera.MainSet()) != 3 {
		return fmt.Errorf("camera not initialized with 3 main channels: %w", colorerr.ErrInvalidState)
	}

	if s.allIlluminants == nil {
		s.allIlluminants = s.buildIlluminantCatalog()
	}

	bestSSE := -1.0
	var bestData spectral.SpectralData
	var bestWB emath.Vec3
	found := false

	for _, cand := range s.allIlluminants {
		illumCopy := cand.data
		candWB, err := computeWB(s.Camera, illumCopy)
		if err != nil {
			continue
		}
		sse := sqDist(candWB, wb)
		if !found || sse < bestSSE {
			bestSSE = sse
			bestData = cand.data
			bestWB = candWB
			found = true
		}
	}

	if !found {
		return fmt.Errorf("no illuminant candidate matched wb triplet: %w", colorerr.ErrNotFound)
	}
	s.Illuminant = bestData
	s.WBMultipliers = bestWB
	return nil
}

func sqDist(a, b emath.Vec3) float64 {
	d := a.Sub(b)
	return d[0]*d[0] + d[1]*d[1] + d[2]*d[2]
}

func (s *SpectralSolver) buildIlluminantCatalog() []illuminantCandidate {
	var out []illuminantCandidate

	for cct := 4000; cct <= 25000; cct += 500 {
		if sd, err := illuminant.Generate(cct, true); err == nil {
			out = append(out, illuminantCandidate{data: sd, name: fmt.Sprintf("d%d", cct/100)})
		}
	}
	for cct := 1500; cct <= 3500; cct += 500 {
		if sd, err := illuminant.Generate(cct, false); err == nil {
			out = append(out, illuminantCandidate{data: sd, name: fmt.Sprintf("%dk", cct)})
		}
	}
	for _, path := range s.Catalog.CollectFiles(catalog.KindIlluminant) {
		if sd, err := s.Catalog.LoadSpectralData(path, true); err == nil {
			out = append(out, illuminantCandidate{data: sd, name: sd.Header.Type})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// CalculateWB requires both camera (3 channels) and illuminant (1
// channel, "power") to be initialized, and computes the green-
// normalized white-balance triple per spec §4.5.1. The illuminant's
// power curve is scaled in place as a side effect.
func (s *SpectralSolver) CalculateWB() error {
	if len(s.Camera.MainSet()) != 3 {
		return fmt.Errorf("camera not initialized with 3 main channels: %w", colorerr.ErrInvalidState)
	}
	if len(s.Illuminant.MainSet()) != 1 {
		return fmt.Errorf("illuminant not initialized with 1 main channel: %w", colorerr.ErrInvalidState)
	}

	wb, err := computeWB(s.Camera, s.Illuminant)
	if err != nil {
		return err
	}
	s.WBMultipliers = wb
	return nil
}

// computeWB implements spec §4.5.1. It mutates illuminant's power
// curve in place (scale_illuminant's documented contract). A
// SpectralData copied by value shares its sample slices, so
// FindIlluminantByWB's per-candidate copies leave each cached
// candidate's power curve normalized in place as well.
func computeWB(camera, illum spectral.SpectralData) (emath.Vec3, error) {
	r, err := camera.At("R")
	if err != nil {
		return emath.Vec3{}, err
	}
	g, err := camera.At("G")
	if err != nil {
		return emath.Vec3{}, err
	}
	b, err := camera.At("B")
	if err != nil {
		return emath.Vec3{}, err
	}
	power, err := illum.At("power")
	if err != nil {
		return emath.Vec3{}, err
	}

	maxR, maxG, maxB := r.Max(), g.Max(), b.Max()
	dominant := b
	switch {
	case maxR >= maxG && maxR >= maxB:
		dominant = r
	case maxG >= maxB:
		dominant = g
	}

	denom := dominant.Mul(power).Integrate()
	if denom == 0 {
		return emath.Vec3{}, fmt.Errorf("illuminant/camera dominant channel integral is zero: %w", colorerr.ErrNumericFailure)
	}
	power.ScaleInPlace(1.0 / denom)

	rSum := r.Mul(power).Integrate()
	gSum := g.Mul(power).Integrate()
	bSum := b.Mul(power).Integrate()
	if rSum == 0 || bSum == 0 {
		return emath.Vec3{}, fmt.Errorf("zero channel integral computing WB: %w", colorerr.ErrNumericFailure)
	}

	return emath.Vec3{gSum / rSum, 1, gSum / bSum}, nil
}
