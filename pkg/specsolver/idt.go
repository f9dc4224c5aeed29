package specsolver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/abworrall/acesidt/pkg/colorconst"
	"github.com/abworrall/acesidt/pkg/colorerr"
	"github.com/abworrall/acesidt/pkg/colormath"
	"github.com/abworrall/acesidt/pkg/emath"
	"github.com/abworrall/acesidt/pkg/spectral"
)

// acesRGBToXYZ is the inverse of the standard XYZ(D65)->ACES AP0
// matrix: it carries the IDT optimizer's predicted ACES RGB back to
// XYZ so the residual can be formed in LAB, mirroring
// IDTOptimizationCost::operator() in the source.
var acesRGBToXYZ = func() emath.Mat3 {
	m, ok := colorconst.XYZ_D65_to_ACES_AP0.Invert()
	if !ok {
		panic("specsolver: XYZ_D65_to_ACES_AP0 is not invertible")
	}
	return m
}()

// trainingPatch holds the per-patch precomputation of spec §4.5.2:
// the camera RGB response and the LAB target it should map to.
type trainingPatch struct {
	rgb emath.Vec3
	lab emath.Vec3
}

// CalculateIDTMatrix requires camera (3 channels), illuminant (1
// channel), observer (3 channels) and a non-empty training set, and
// solves the six-parameter row-sum-constrained IDT matrix via
// Levenberg-Marquardt (spec §4.5.2).
func (s *SpectralSolver) CalculateIDTMatrix() error {
	if len(s.Camera.MainSet()) != 3 {
		return fmt.Errorf("camera not initialized with 3 main channels: %w", colorerr.ErrInvalidState)
	}
	if len(s.Illuminant.MainSet()) != 1 {
		return fmt.Errorf("illuminant not initialized with 1 main channel: %w", colorerr.ErrInvalidState)
	}
	if len(s.Observer.MainSet()) != 3 {
		return fmt.Errorf("observer not initialized with 3 main channels: %w", colorerr.ErrInvalidState)
	}
	trainingSet := s.Training.MainSet()
	if len(trainingSet) == 0 {
		return fmt.Errorf("training set is empty: %w", colorerr.ErrInvalidState)
	}

	patches, err := s.precomputeTrainingPatches(trainingSet)
	if err != nil {
		return err
	}

	beta, ok := levenbergMarquardt(patches)
	if !ok {
		return fmt.Errorf("IDT solve reported zero successful steps: %w", colorerr.ErrNumericFailure)
	}

	s.IDTMatrix = unpackBeta(beta)
	return nil
}

func (s *SpectralSolver) precomputeTrainingPatches(trainingSet spectral.SpectralSet) ([]trainingPatch, error) {
	r, err := s.Camera.At("R")
	if err != nil {
		return nil, err
	}
	g, err := s.Camera.At("G")
	if err != nil {
		return nil, err
	}
	b, err := s.Camera.At("B")
	if err != nil {
		return nil, err
	}
	power, err := s.Illuminant.At("power")
	if err != nil {
		return nil, err
	}
	obsX, err := s.Observer.At("X")
	if err != nil {
		return nil, err
	}
	obsY, err := s.Observer.At("Y")
	if err != nil {
		return nil, err
	}
	obsZ, err := s.Observer.At("Z")
	if err != nil {
		return nil, err
	}

	wb := s.WBMultipliers
	if wb == (emath.Vec3{}) {
		wb = emath.Vec3{1, 1, 1}
	}

	yPowerIntegral := obsY.Mul(power).Integrate()
	if yPowerIntegral == 0 {
		return nil, fmt.Errorf("observer Y x illuminant power integral is zero: %w", colorerr.ErrNumericFailure)
	}
	xPowerIntegral := obsX.Mul(power).Integrate()
	zPowerIntegral := obsZ.Mul(power).Integrate()
	sourceWhite := emath.Vec3{xPowerIntegral / yPowerIntegral, 1, zPowerIntegral / yPowerIntegral}
	scale := 1.0 / yPowerIntegral

	cat := colormath.BradfordCAT(sourceWhite, colorconst.ACESWhitepointXYZ)

	patches := make([]trainingPatch, 0, len(trainingSet))
	for _, ch := range trainingSet {
		ti := ch.Spectrum.Mul(power)

		rgb := emath.Vec3{
			ti.Mul(r).Integrate() * wb[0],
			ti.Mul(g).Integrate() * wb[1],
			ti.Mul(b).Integrate() * wb[2],
		}

		xyz := emath.Vec3{
			ti.Mul(obsX).Integrate() * scale,
			ti.Mul(obsY).Integrate() * scale,
			ti.Mul(obsZ).Integrate() * scale,
		}
		xyzAdapted := cat.Apply(xyz)
		lab := colormath.XYZToLAB(xyzAdapted, colorconst.ACESWhitepointXYZ)

		patches = append(patches, trainingPatch{rgb: rgb, lab: lab})
	}
	return patches, nil
}

// unpackBeta builds M(beta), the row-sum-constrained 3x3 matrix of
// spec §4.5.2.
func unpackBeta(beta []float64) emath.Mat3 {
	return emath.Mat3{
		beta[0], beta[1], 1 - beta[0] - beta[1],
		beta[2], beta[3], 1 - beta[2] - beta[3],
		beta[4], beta[5], 1 - beta[4] - beta[5],
	}
}

// residual fills dst with the flattened {lab_k - lab'_k} vector for
// the given beta, where lab'_k is derived from M(beta), RGB_k via
// ACES_RGB->XYZ->LAB.
func residual(dst []float64, beta []float64, patches []trainingPatch) {
	m := unpackBeta(beta)
	for k, p := range patches {
		xyzPrime := acesRGBToXYZ.Apply(m.Apply(p.rgb))
		labPrime := colormath.XYZToLAB(xyzPrime, colorconst.ACESWhitepointXYZ)
		dst[3*k+0] = p.lab[0] - labPrime[0]
		dst[3*k+1] = p.lab[1] - labPrime[1]
		dst[3*k+2] = p.lab[2] - labPrime[2]
	}
}

// levenbergMarquardt solves for the 6-parameter beta minimizing
// ||residual(beta)||^2, starting from the identity matrix
// (1,0,0,1,0,0). ok is false if not even one damping step ever reduced
// the residual norm (spec's "zero successful steps" failure mode).
func levenbergMarquardt(patches []trainingPatch) ([]float64, bool) {
	const (
		maxIterations = 300
		tolerance     = 1e-17
	)

	beta := []float64{1, 0, 0, 1, 0, 0}
	m := 3 * len(patches)
	n := 6

	r := make([]float64, m)
	residual(r, beta, patches)
	cost := normSq(r)

	lambda := 1e-3
	anySuccess := false

	jac := mat.NewDense(m, n, nil)
	for iter := 0; iter < maxIterations; iter++ {
		fd.Jacobian(jac, func(dst, x []float64) { residual(dst, x, patches) }, beta, &fd.JacobianSettings{
			Formula: fd.Central,
		})

		// Augmented system [J; sqrt(lambda)*I] delta = [r; 0], solved by
		// QR least squares — a damped Gauss-Newton step.
		aug := mat.NewDense(m+n, n, nil)
		for i := 0; i < m; i++ {
			for j := 0; j < n; j++ {
				aug.Set(i, j, jac.At(i, j))
			}
		}
		for i := 0; i < n; i++ {
			aug.Set(m+i, i, math.Sqrt(lambda))
		}

		// Minimizing ||r(beta+delta)||^2 needs (J^T J + lambda I) delta =
		// -J^T r, so the QR least-squares RHS is -r, not r.
		bAug := mat.NewDense(m+n, 1, nil)
		for i := 0; i < m; i++ {
			bAug.Set(i, 0, -r[i])
		}

		var qr mat.QR
		qr.Factorize(aug)
		var deltaDense mat.Dense
		if err := qr.SolveTo(&deltaDense, false, bAug); err != nil {
			lambda *= 10
			continue
		}

		trial := make([]float64, n)
		for i := range trial {
			trial[i] = beta[i] + deltaDense.At(i, 0)
		}

		trialR := make([]float64, m)
		residual(trialR, trial, patches)
		trialCost := normSq(trialR)

		if trialCost < cost {
			beta = trial
			r = trialR
			cost = trialCost
			lambda = math.Max(lambda/10, 1e-12)
			anySuccess = true

			if math.Abs(cost) < tolerance {
				break
			}
		} else {
			lambda *= 10
			if lambda > 1e12 {
				break
			}
		}
	}

	return beta, anySuccess
}

func normSq(v []float64) float64 {
	total := 0.0
	for _, x := range v {
		total += x * x
	}
	return total
}
