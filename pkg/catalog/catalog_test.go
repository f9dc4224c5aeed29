package catalog

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

const testCameraJSON = `{
	"header": {"manufacturer": "Canon", "model": "EOS_R6", "type": "camera"},
	"spectral_data": {
		"index": {"main": ["R", "G", "B"]},
		"data": {"main": {"400": [1,1,1], "405": [1,1,1]}}
	}
}`

func writeTestCatalog(t *testing.T) string {
	t.Helper()
	root, err := ioutil.TempDir("", "catalog_test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(root) })

	camDir := filepath.Join(root, "camera")
	if err := os.MkdirAll(camDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := ioutil.WriteFile(filepath.Join(camDir, "eos_r6.json"), []byte(testCameraJSON), 0644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestCollectFilesMissingDirIsWarningNotError(t *testing.T) {
	root := writeTestCatalog(t)
	c := New([]string{root})
	files := c.CollectFiles(KindIlluminant) // no illuminant/ dir exists
	if len(files) != 0 {
		t.Errorf("expected no illuminant files, got %v", files)
	}
}

func TestFindCameraCaseInsensitive(t *testing.T) {
	root := writeTestCatalog(t)
	c := New([]string{root})

	if _, ok := c.FindCamera("canon", "eos_r6"); !ok {
		t.Error("FindCamera(lowercase) should match")
	}
	if _, ok := c.FindCamera("CANON", "EOS_R6"); !ok {
		t.Error("FindCamera(uppercase) should match")
	}
	if _, ok := c.FindCamera("Nikon", "D850"); ok {
		t.Error("FindCamera should not match an absent camera")
	}
}

func TestLoadSpectralDataRelativeAndAbsolute(t *testing.T) {
	root := writeTestCatalog(t)
	c := New([]string{root})

	if _, err := c.LoadSpectralData("camera/eos_r6.json", false); err != nil {
		t.Errorf("relative load: %v", err)
	}

	abs := filepath.Join(root, "camera", "eos_r6.json")
	if _, err := c.LoadSpectralData(abs, false); err != nil {
		t.Errorf("absolute load: %v", err)
	}
}
