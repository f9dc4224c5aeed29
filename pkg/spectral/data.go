package spectral

import (
	"fmt"

	"github.com/abworrall/acesidt/pkg/colorerr"
)

// SpectralChannel is a named curve; names are case-sensitive.
type SpectralChannel struct {
	Name     string
	Spectrum Spectrum
}

// SpectralSet is an ordered, name-unique collection of channels. Order
// matters for presentation and tie-breaking, not for lookup.
type SpectralSet []SpectralChannel

func (set SpectralSet) Get(name string) (Spectrum, error) {
	for _, ch := range set {
		if ch.Name == name {
			return ch.Spectrum, nil
		}
	}
	return Spectrum{}, fmt.Errorf("channel %q: %w", name, colorerr.ErrNotFound)
}

func (set SpectralSet) Has(name string) bool {
	_, err := set.Get(name)
	return err == nil
}

// SpectralData is a mapping from set name to SpectralSet, plus header
// metadata. "main" is the canonical set; lookup by channel name alone
// is sugar for looking it up in "main".
type SpectralData struct {
	Sets   map[string]SpectralSet
	Header Header
}

// Header carries the descriptive fields of a spectral-data file;
// all are optional and default to the empty string.
type Header struct {
	Manufacturer string
	Model        string
	Type         string
	Illuminant   string // legacy, folded into Type for schema 0.1.0 files
	SchemaVersion string
}

func NewSpectralData() SpectralData {
	return SpectralData{Sets: map[string]SpectralSet{}}
}

// Get looks up a channel within a named set.
func (d SpectralData) Get(set, name string) (Spectrum, error) {
	s, ok := d.Sets[set]
	if !ok {
		return Spectrum{}, fmt.Errorf("set %q: %w", set, colorerr.ErrNotFound)
	}
	return s.Get(name)
}

// At is sugar for Get("main", name).
func (d SpectralData) At(name string) (Spectrum, error) {
	return d.Get("main", name)
}

// MainSet returns the canonical "main" SpectralSet, or nil if absent.
func (d SpectralData) MainSet() SpectralSet {
	return d.Sets["main"]
}

// Reshape returns a copy of d with every curve, in every set, remapped
// onto ReferenceShape.
func (d SpectralData) Reshape() SpectralData {
	out := SpectralData{Sets: map[string]SpectralSet{}, Header: d.Header}
	for setName, set := range d.Sets {
		reshaped := make(SpectralSet, len(set))
		for i, ch := range set {
			reshaped[i] = SpectralChannel{Name: ch.Name, Spectrum: ch.Spectrum.Reshape()}
		}
		out.Sets[setName] = reshaped
	}
	return out
}
