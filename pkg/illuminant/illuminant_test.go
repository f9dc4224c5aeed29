package illuminant

import "testing"

func TestDaylightD65(t *testing.T) {
	s, err := Daylight(65) // shorthand: 65*100 -> corrected to ~6500K
	if err != nil {
		t.Fatalf("Daylight(65): %v", err)
	}
	if len(s.Values) != 81 {
		t.Fatalf("len(values) = %d, want 81", len(s.Values))
	}
	for i, v := range s.Values {
		if v != v { // NaN check
			t.Fatalf("value at %d is NaN", i)
		}
	}
	if s.Integrate() <= 0 {
		t.Fatalf("integrate() = %v, want > 0", s.Integrate())
	}
}

func TestBlackbody3200K(t *testing.T) {
	s, err := Blackbody(3200)
	if err != nil {
		t.Fatalf("Blackbody(3200): %v", err)
	}
	if len(s.Values) != 81 {
		t.Fatalf("len(values) = %d, want 81", len(s.Values))
	}
	// At 3200K the Planckian peak (Wien's law, ~906nm) lies above the
	// visible range, so within [380,780] radiance should increase
	// monotonically toward the long-wavelength end.
	if s.Values[len(s.Values)-1] <= s.Values[0] {
		t.Errorf("expected blackbody radiance to rise toward 780nm at 3200K")
	}
}

func TestDaylightOutOfRange(t *testing.T) {
	if _, err := Daylight(30); err == nil {
		t.Fatal("expected error for daylight CCT shorthand 30 (<40)")
	}
}

func TestBlackbodyOutOfRange(t *testing.T) {
	if _, err := Blackbody(1000); err == nil {
		t.Fatal("expected error for blackbody CCT 1000 (<1500)")
	}
}

func TestTypeString(t *testing.T) {
	if got := TypeString(6500, true); got != "d65" {
		t.Errorf("TypeString(6500, daylight) = %q, want d65", got)
	}
	if got := TypeString(3200, false); got != "3200k" {
		t.Errorf("TypeString(3200, blackbody) = %q, want 3200k", got)
	}
}
