// Package catalog implements DataCatalog (spec §4.4): search a list of
// database directories for typed spectral-data JSON files, and resolve
// either relative or absolute load paths against those roots. The walk
// itself is grounded in the teacher's
// pkg/eclipse/load.go:LoadFilesAndDirs recursive directory walk,
// narrowed from "recurse everywhere and dispatch by extension" to
// "enumerate one directory level per data kind" since every file under
// a kind subfolder here is spectral-data JSON.
package catalog

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/abworrall/acesidt/pkg/spectral"
)

// Kind names the data-kind subfolder under a search directory.
type Kind string

const (
	KindCamera     Kind = "camera"
	KindIlluminant Kind = "illuminant"
	KindTraining   Kind = "training"
	KindCMF        Kind = "cmf"
)

// DataCatalog enumerates and loads spectral-data JSON files across an
// ordered list of search directories.
type DataCatalog struct {
	SearchDirectories []string
	Verbosity         int
}

func New(searchDirectories []string) *DataCatalog {
	return &DataCatalog{SearchDirectories: searchDirectories}
}

// CollectFiles returns every JSON file under {dir}/{kind}/ for each
// search directory, in directory order. A missing directory is a
// verbosity-gated warning, not an error.
func (c *DataCatalog) CollectFiles(kind Kind) []string {
	var result []string
	for _, dir := range c.SearchDirectories {
		typePath := filepath.Join(dir, string(kind))
		info, err := os.Stat(typePath)
		if err != nil || !info.IsDir() {
			if c.Verbosity > 0 {
				fmt.Fprintf(os.Stderr, "catalog: no %s directory under %s\n", kind, dir)
			}
			continue
		}

		entries, err := ioutil.ReadDir(typePath)
		if err != nil {
			if c.Verbosity > 0 {
				fmt.Fprintf(os.Stderr, "catalog: readdir %s: %v\n", typePath, err)
			}
			continue
		}
		for _, e := range entries {
			if e.IsDir() || strings.ToLower(filepath.Ext(e.Name())) != ".json" {
				continue
			}
			result = append(result, filepath.Join(typePath, e.Name()))
		}
	}
	return result
}

// LoadSpectralData resolves path (absolute, or relative against each
// search root in order) and parses the first hit. reshape is forwarded
// to spectral.Parse.
func (c *DataCatalog) LoadSpectralData(path string, reshape bool) (spectral.SpectralData, error) {
	if filepath.IsAbs(path) {
		return loadFile(path, reshape)
	}

	var lastErr error
	for _, dir := range c.SearchDirectories {
		candidate := filepath.Join(dir, path)
		if _, err := os.Stat(candidate); err != nil {
			lastErr = err
			continue
		}
		return loadFile(candidate, reshape)
	}
	return spectral.SpectralData{}, fmt.Errorf("load_spectral_data %q: no search root had it (last: %v)", path, lastErr)
}

func loadFile(path string, reshape bool) (spectral.SpectralData, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return spectral.SpectralData{}, fmt.Errorf("read %s: %w", path, err)
	}
	return spectral.Parse(raw, reshape)
}

// LoadAll loads every file CollectFiles(kind) finds, skipping (and
// warning about, if verbose) any file that fails to parse rather than
// aborting the whole enumeration.
func (c *DataCatalog) LoadAll(kind Kind, reshape bool) []spectral.SpectralData {
	var out []spectral.SpectralData
	for _, path := range c.CollectFiles(kind) {
		sd, err := loadFile(path, reshape)
		if err != nil {
			if c.Verbosity > 0 {
				fmt.Fprintf(os.Stderr, "catalog: skipping %s: %v\n", path, err)
			}
			continue
		}
		out = append(out, sd)
	}
	return out
}

// FindCamera iterates the camera catalog and returns the first record
// whose manufacturer and model match case-insensitively.
func (c *DataCatalog) FindCamera(make_, model string) (spectral.SpectralData, bool) {
	for _, path := range c.CollectFiles(KindCamera) {
		sd, err := loadFile(path, true)
		if err != nil {
			continue
		}
		if strings.EqualFold(sd.Header.Manufacturer, make_) && strings.EqualFold(sd.Header.Model, model) {
			return sd, true
		}
	}
	return spectral.SpectralData{}, false
}
