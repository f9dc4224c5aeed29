package spectral

import (
	"math"
	"testing"
)

func TestShapeCount(t *testing.T) {
	if got := ReferenceShape.Count(); got != 81 {
		t.Errorf("ReferenceShape.Count() = %d, want 81", got)
	}
	if got := EmptyShape.Count(); got != 0 {
		t.Errorf("EmptyShape.Count() = %d, want 0", got)
	}
}

func TestSpectrumIntegrateLinearity(t *testing.T) {
	a := NewSpectrum(1.0, ReferenceShape)
	b := NewSpectrum(2.0, ReferenceShape)

	sum := a.Add(b)
	if got, want := sum.Integrate(), a.Integrate()+b.Integrate(); math.Abs(got-want) > 1e-9 {
		t.Errorf("integrate(a+b) = %v, want %v", got, want)
	}

	k := 3.0
	scaled := a.Clone()
	scaled.ScaleInPlace(k)
	if got, want := scaled.Integrate(), k*a.Integrate(); math.Abs(got-want) > 1e-9 {
		t.Errorf("integrate(k*a) = %v, want %v", got, want)
	}
}

func TestSpectrumMaxEmpty(t *testing.T) {
	var s Spectrum
	if got := s.Max(); got != 0 {
		t.Errorf("Max() on empty = %v, want 0", got)
	}
}

func TestReshapeIdempotent(t *testing.T) {
	src := Spectrum{
		Shape:  Shape{First: 400, Last: 700, Step: 10},
		Values: make([]float64, Shape{First: 400, Last: 700, Step: 10}.Count()),
	}
	for i := range src.Values {
		src.Values[i] = float64(i)
	}

	once := src.Reshape()
	twice := once.Reshape()

	if !once.Shape.Equal(ReferenceShape) {
		t.Fatalf("Reshape() shape = %v, want %v", once.Shape, ReferenceShape)
	}
	for i := range once.Values {
		if math.Abs(once.Values[i]-twice.Values[i]) > 1e-12 {
			t.Errorf("reshape not idempotent at %d: %v vs %v", i, once.Values[i], twice.Values[i])
		}
	}
}

func TestReshapeAlreadyReferenceShape(t *testing.T) {
	s := NewSpectrum(5, ReferenceShape)
	r := s.Reshape()
	if !r.Shape.Equal(ReferenceShape) || len(r.Values) != len(s.Values) {
		t.Fatalf("reshape of a ReferenceShape spectrum changed shape: %v", r.Shape)
	}
	for i := range s.Values {
		if r.Values[i] != s.Values[i] {
			t.Errorf("reshape of a no-op case changed value at %d", i)
		}
	}
}

func TestArithmeticMismatchPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on shape mismatch")
		}
	}()
	a := NewSpectrum(1, ReferenceShape)
	b := NewSpectrum(1, Shape{First: 400, Last: 700, Step: 10})
	_ = a.Add(b)
}

func TestParseBasicFile(t *testing.T) {
	raw := []byte(`{
		"header": {"manufacturer": "Test", "model": "Cam", "type": "camera"},
		"spectral_data": {
			"index": {"main": ["R", "G", "B"]},
			"data": {"main": {
				"400": [0.1, 0.2, 0.3],
				"410": [0.2, 0.3, 0.4],
				"420": [0.3, 0.4, 0.5]
			}}
		}
	}`)

	sd, err := Parse(raw, false)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r, err := sd.At("R")
	if err != nil {
		t.Fatalf("At(R): %v", err)
	}
	if !r.Shape.Equal(Shape{First: 400, Last: 420, Step: 10}) {
		t.Errorf("shape = %v", r.Shape)
	}
	if r.Values[0] != 0.1 || r.Values[2] != 0.3 {
		t.Errorf("values = %v", r.Values)
	}
}

func TestParseInconsistentStepFails(t *testing.T) {
	raw := []byte(`{
		"spectral_data": {
			"index": {"main": ["power"]},
			"data": {"main": {"400": [1], "410": [1], "425": [1]}}
		}
	}`)
	if _, err := Parse(raw, false); err == nil {
		t.Fatal("expected parse error for inconsistent step")
	}
}

func TestParseLegacySchemaIlluminant(t *testing.T) {
	raw := []byte(`{
		"header": {"schema_version": "0.1.0", "illuminant": "D65"},
		"spectral_data": {
			"index": {"main": ["power"]},
			"data": {"main": {"400": [1], "410": [1]}}
		}
	}`)
	sd, err := Parse(raw, false)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sd.Header.Type != "D65" {
		t.Errorf("Header.Type = %q, want D65 (copied from legacy illuminant field)", sd.Header.Type)
	}
}
