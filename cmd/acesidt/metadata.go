package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/abworrall/acesidt/pkg/orchestrator"
)

// inputsFromTIFF reads the EXIF-visible fields a TIFF export of a raw
// file carries (Make/Model, LightSource) into an orchestrator.Inputs.
// DNG-private tags (color_matrix{1,2}, calibration_illuminant{1,2},
// pre_mul, cam_mul) live outside the standard EXIF tag set the goexif
// library decodes; per spec §1's "raw decoding ... is an external
// collaborator" boundary, something upstream of this adapter (the raw
// reader) is expected to supply those directly by setting the
// corresponding orchestrator.Inputs fields before calling Run, the way
// this function's caller already does for CameraMake/CameraModel
// overrides.
func inputsFromTIFF(filename string) (orchestrator.Inputs, error) {
	var in orchestrator.Inputs

	reader, err := os.Open(filename)
	if err != nil {
		return in, fmt.Errorf("open %s: %v", filename, err)
	}
	defer reader.Close()

	ex, err := exif.Decode(reader)
	if err != nil {
		return in, fmt.Errorf("exif decode %s: %v", filename, err)
	}

	if tag, err := ex.Get(exif.Make); err == nil {
		if s, err := tag.StringVal(); err == nil {
			in.CameraMake = s
		}
	}
	if tag, err := ex.Get(exif.Model); err == nil {
		if s, err := tag.StringVal(); err == nil {
			in.CameraModel = s
		}
	}
	if tag, err := ex.Get(exif.LightSource); err == nil {
		if v, err := tag.Int64(0); err == nil {
			in.CalibrationIlluminant[0] = uint16(v)
		}
	}

	return in, nil
}

func loadSettingsFile(filename string) (orchestrator.Settings, error) {
	contents, err := ioutil.ReadFile(filename)
	if err != nil {
		return orchestrator.Settings{}, fmt.Errorf("read %s: %v", filename, err)
	}
	return orchestrator.SettingsFromYAML(contents)
}
