package spectral

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/abworrall/acesidt/pkg/colorerr"
)

// fileHeader and fileSpectralData mirror the on-disk JSON grammar
// (spec §6). Every string field defaults to empty on null/missing,
// which json.Unmarshal already gives us for free.
type fileHeader struct {
	Manufacturer  string `json:"manufacturer"`
	Model         string `json:"model"`
	Type          string `json:"type"`
	Illuminant    string `json:"illuminant"`
	SchemaVersion string `json:"schema_version"`
}

type fileSpectralData struct {
	Index map[string][]string                    `json:"index"`
	Data  map[string]map[string][]float64        `json:"data"`
}

type fileFormat struct {
	Header       fileHeader       `json:"header"`
	SpectralData fileSpectralData `json:"spectral_data"`
}

// Parse decodes raw JSON bytes into a SpectralData. reshape, if true,
// remaps every loaded curve onto ReferenceShape before returning.
func Parse(raw []byte, reshape bool) (SpectralData, error) {
	var ff fileFormat
	if err := json.Unmarshal(raw, &ff); err != nil {
		return SpectralData{}, fmt.Errorf("spectral data: %w: %v", colorerr.ErrParseError, err)
	}

	out := NewSpectralData()
	out.Header = Header{
		Manufacturer:  ff.Header.Manufacturer,
		Model:         ff.Header.Model,
		Type:          ff.Header.Type,
		Illuminant:    ff.Header.Illuminant,
		SchemaVersion: ff.Header.SchemaVersion,
	}
	if out.Header.SchemaVersion == "0.1.0" && out.Header.Type == "" {
		out.Header.Type = out.Header.Illuminant
	}

	for setName, channelNames := range ff.SpectralData.Index {
		setData, ok := ff.SpectralData.Data[setName]
		if !ok {
			return SpectralData{}, fmt.Errorf("set %q has no data: %w", setName, colorerr.ErrParseError)
		}

		shape, rows, err := shapeFromWavelengthKeys(setData)
		if err != nil {
			return SpectralData{}, fmt.Errorf("set %q: %w", setName, err)
		}

		for _, row := range rows {
			if len(row.values) != len(channelNames) {
				return SpectralData{}, fmt.Errorf(
					"set %q wavelength %g: channel count mismatch with index (want %d, got %d): %w",
					setName, row.wavelength, len(channelNames), len(row.values), colorerr.ErrParseError)
			}
		}

		set := make(SpectralSet, len(channelNames))
		for ci, chName := range channelNames {
			values := make([]float64, len(rows))
			for wi, row := range rows {
				values[wi] = row.values[ci]
			}
			set[ci] = SpectralChannel{Name: chName, Spectrum: Spectrum{Shape: shape, Values: values}}
		}
		out.Sets[setName] = set
	}

	if reshape {
		out = out.Reshape()
	}
	return out, nil
}

type wavelengthRow struct {
	wavelength float64
	values     []float64
}

// shapeFromWavelengthKeys sorts a set's wavelength keys numerically,
// validates a single consistent step between consecutive entries, and
// returns the implied Shape along with the sorted rows.
func shapeFromWavelengthKeys(setData map[string][]float64) (Shape, []wavelengthRow, error) {
	rows := make([]wavelengthRow, 0, len(setData))
	for k, v := range setData {
		wl, err := strconv.ParseFloat(k, 64)
		if err != nil {
			return Shape{}, nil, fmt.Errorf("wavelength key %q: %w: %v", k, colorerr.ErrParseError, err)
		}
		rows = append(rows, wavelengthRow{wavelength: wl, values: v})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].wavelength < rows[j].wavelength })

	if len(rows) == 0 {
		return EmptyShape, rows, nil
	}
	if len(rows) == 1 {
		return Shape{First: rows[0].wavelength, Last: rows[0].wavelength, Step: 0}, rows, nil
	}

	step := rows[1].wavelength - rows[0].wavelength
	for i := 1; i < len(rows); i++ {
		got := rows[i].wavelength - rows[i-1].wavelength
		if math.Abs(got-step) > 1e-6 {
			return Shape{}, nil, fmt.Errorf(
				"inconsistent wavelength step: %g then %g: %w", step, got, colorerr.ErrParseError)
		}
	}

	return Shape{First: rows[0].wavelength, Last: rows[len(rows)-1].wavelength, Step: step}, rows, nil
}
