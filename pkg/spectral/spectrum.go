package spectral

import "fmt"

// Spectrum is a regularly-sampled curve: a Shape plus the matching
// number of Float64 samples. Spectra are value-owned; arithmetic
// methods return a new Spectrum rather than mutating the receiver, so
// that `a.Add(a)` and similar self-referential uses read every sample
// from the untouched original before any output sample is written —
// the source implementation mutated through an advancing pointer pair,
// which is only safe for commutative pointwise ops; we don't rely on
// that here at all.
type Spectrum struct {
	Shape  Shape
	Values []float64
}

// NewSpectrum allocates a Spectrum on shape, every sample set to value.
// A step=0 shape allocates no samples.
func NewSpectrum(value float64, shape Shape) Spectrum {
	n := shape.Count()
	if n == 0 {
		return Spectrum{Shape: shape}
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = value
	}
	return Spectrum{Shape: shape, Values: values}
}

func (s Spectrum) requireCompatible(o Spectrum) {
	if !s.Shape.Equal(o.Shape) || len(s.Values) != len(o.Values) {
		panic(fmt.Sprintf("spectral: incompatible shapes %v(%d) vs %v(%d)",
			s.Shape, len(s.Values), o.Shape, len(o.Values)))
	}
}

func (s Spectrum) elementwise(o Spectrum, f func(a, b float64) float64) Spectrum {
	s.requireCompatible(o)
	out := make([]float64, len(s.Values))
	for i := range out {
		out[i] = f(s.Values[i], o.Values[i])
	}
	return Spectrum{Shape: s.Shape, Values: out}
}

func (s Spectrum) Add(o Spectrum) Spectrum { return s.elementwise(o, func(a, b float64) float64 { return a + b }) }
func (s Spectrum) Sub(o Spectrum) Spectrum { return s.elementwise(o, func(a, b float64) float64 { return a - b }) }
func (s Spectrum) Mul(o Spectrum) Spectrum { return s.elementwise(o, func(a, b float64) float64 { return a * b }) }
func (s Spectrum) Div(o Spectrum) Spectrum { return s.elementwise(o, func(a, b float64) float64 { return a / b }) }

// ScaleInPlace multiplies every sample by k, mutating the receiver.
// scale_illuminant relies on exactly this in-place semantics: it avoids
// a second allocation in the illuminant-normalization hot path, at the
// cost that callers needing the pre-scale curve must clone first.
func (s *Spectrum) ScaleInPlace(k float64) {
	for i := range s.Values {
		s.Values[i] *= k
	}
}

// Clone returns an independent copy of s.
func (s Spectrum) Clone() Spectrum {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)
	return Spectrum{Shape: s.Shape, Values: values}
}

// Integrate returns the unweighted sum of samples. Since callers only
// ever use ratios of integrals, the step factor of the true continuous
// integral cancels and is omitted.
func (s Spectrum) Integrate() float64 {
	total := 0.0
	for _, v := range s.Values {
		total += v
	}
	return total
}

// Max returns the largest sample, or 0 for an empty Spectrum.
func (s Spectrum) Max() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	m := s.Values[0]
	for _, v := range s.Values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Reshape remaps s onto ReferenceShape via piecewise-linear
// interpolation, clamping to the nearest sample outside the source
// range. It is idempotent: reshaping a Spectrum already on
// ReferenceShape returns an equal copy untouched.
func (s Spectrum) Reshape() Spectrum {
	if s.Shape.Equal(ReferenceShape) {
		return s.Clone()
	}
	if len(s.Values) == 0 {
		return NewSpectrum(0, ReferenceShape)
	}

	out := make([]float64, ReferenceShape.Count())
	for idx := range out {
		w := ReferenceShape.Wavelength(idx)
		out[idx] = s.sampleAt(w)
	}
	return Spectrum{Shape: ReferenceShape, Values: out}
}

// sampleAt linearly interpolates the value at wavelength w, clamping
// to the nearest endpoint sample if w falls outside the source range.
func (s Spectrum) sampleAt(w float64) float64 {
	n := len(s.Values)
	if w <= s.Shape.First {
		return s.Values[0]
	}
	if w >= s.Shape.Last {
		return s.Values[n-1]
	}

	// index of the last source sample with wavelength <= w
	i := int((w - s.Shape.First) / s.Shape.Step)
	if i >= n-1 {
		return s.Values[n-1]
	}
	wi := s.Shape.Wavelength(i)
	if w == wi {
		return s.Values[i]
	}
	wNext := s.Shape.Wavelength(i + 1)
	weight := (w - wi) / (wNext - wi)
	return s.Values[i] + weight*(s.Values[i+1]-s.Values[i])
}
