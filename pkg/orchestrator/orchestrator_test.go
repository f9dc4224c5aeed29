package orchestrator

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/abworrall/acesidt/pkg/emath"
)

func TestCollapseWBTripletFourChannel(t *testing.T) {
	got, err := collapseWBTriplet([]float64{2.0, 1.0, 1.5, 1.1})
	if err != nil {
		t.Fatalf("collapseWBTriplet: %v", err)
	}
	// The two greens average to 1.05, the smallest entry, so every entry
	// is then divided by it and green comes out as 1.
	avgG := (1.0 + 1.1) / 2
	want := emath.Vec3{2.0, avgG, 1.5}.Scale(1.0 / avgG)
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCollapseWBTripletTrimsZerosAndNormalizes(t *testing.T) {
	got, err := collapseWBTriplet([]float64{0, 2.0, 1.0, 3.0, 0})
	if err != nil {
		t.Fatalf("collapseWBTriplet: %v", err)
	}
	// trimmed = [2.0, 1.0, 3.0], min positive = 1.0, so unchanged.
	want := emath.Vec3{2.0, 1.0, 3.0}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCollapseWBTripletRejectsWrongLength(t *testing.T) {
	if _, err := collapseWBTriplet([]float64{1, 2}); err == nil {
		t.Fatal("expected error for a 2-entry pre_mul")
	}
}

func TestSettingsYAMLRoundTrip(t *testing.T) {
	s := NewSettings()
	s.CameraMake = "Canon"
	s.Illuminant = "D65"
	b := []byte(s.AsYAML())

	got, err := SettingsFromYAML(b)
	if err != nil {
		t.Fatalf("SettingsFromYAML: %v", err)
	}
	if got.CameraMake != "Canon" || got.Illuminant != "D65" {
		t.Errorf("round-tripped settings = %+v", got)
	}
}

func TestRunMetadataNonDNGPathReturnsCAT(t *testing.T) {
	settings := NewSettings()
	settings.MatrixMethod = MatrixMethodAdobe
	o := New(settings)

	res, err := o.Run(Inputs{CameraMake: "Nonexistent", CameraModel: "Camera"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.HasCAT || res.HasIDT {
		t.Errorf("Adobe path should populate CAT only, got %+v", res)
	}
}

func TestRunCustomMatrixPath(t *testing.T) {
	settings := NewSettings()
	settings.MatrixMethod = MatrixMethodCustom
	settings.CustomMatrix = emath.Identity3()
	o := New(settings)

	res, err := o.Run(Inputs{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.HasIDT || res.IDTMatrix != emath.Identity3() {
		t.Errorf("Custom path should return the configured matrix, got %+v", res)
	}
}

func TestRunAutoFallsBackToMetadataWhenCameraUnresolved(t *testing.T) {
	root := writeEmptyCatalog(t)
	settings := NewSettings()
	settings.DatabaseDirectories = []string{root}
	settings.MatrixMethod = MatrixMethodAuto
	o := New(settings)

	res, err := o.Run(Inputs{CameraMake: "Nonexistent", CameraModel: "Camera", DNGVersionPresent: false})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.HasCAT {
		t.Errorf("Auto fallback with no DNG data should take the non-DNG Metadata branch, got %+v", res)
	}
}

func writeEmptyCatalog(t *testing.T) string {
	t.Helper()
	root, err := ioutil.TempDir("", "orchestrator_test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(root) })
	if err := os.MkdirAll(filepath.Join(root, "camera"), 0755); err != nil {
		t.Fatal(err)
	}
	return root
}
