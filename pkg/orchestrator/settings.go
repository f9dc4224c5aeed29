// Package orchestrator implements MethodOrchestrator (spec §4.7): it
// selects WB method x matrix method, drives the spectral and/or
// metadata solvers, and emits the final {WB, IDT, CAT} triple.
// Settings is the ambient YAML-configurable knob set, grounded the way
// the teacher's pkg/eclipse.Config is: a flat struct, YAML-marshalable,
// with string-keyed strategy selectors resolved by a switch.
package orchestrator

import (
	"log"

	"gopkg.in/yaml.v2"

	"github.com/abworrall/acesidt/pkg/emath"
)

// WBMethod selects where the white-balance triplet comes from (spec §4.7).
type WBMethod string

const (
	WBMethodMetadata   WBMethod = "metadata"
	WBMethodIlluminant WBMethod = "illuminant"
	WBMethodBox        WBMethod = "box"
	WBMethodCustom     WBMethod = "custom"
)

// MatrixMethod selects how the IDT/CAT matrices are produced (spec §4.7).
type MatrixMethod string

const (
	MatrixMethodAuto     MatrixMethod = "auto"
	MatrixMethodSpectral MatrixMethod = "spectral"
	MatrixMethodMetadata MatrixMethod = "metadata"
	MatrixMethodAdobe    MatrixMethod = "adobe"
	MatrixMethodCustom   MatrixMethod = "custom"
)

// Settings is the orchestrator's full configuration, YAML-round-trippable
// the way pkg/eclipse.Config is.
type Settings struct {
	Verbosity int

	WBMethod     WBMethod
	MatrixMethod MatrixMethod

	CameraMake  string
	CameraModel string

	// Illuminant, if non-empty, overrides auto-detection in the
	// Spectral matrix-method path (spec §4.7).
	Illuminant string

	DatabaseDirectories []string

	// Headroom is a linear scale factor the external pixel pipeline
	// applies after matrixing; the orchestrator only carries it through,
	// since applying it is out of scope (spec §1 Non-goals).
	Headroom float64

	// CustomWB/CustomMatrix are the user-supplied values returned
	// verbatim by the WBMethodCustom/MatrixMethodCustom branches.
	CustomWB     emath.Vec3
	CustomMatrix emath.Mat3
}

func NewSettings() Settings {
	return Settings{
		WBMethod:     WBMethodIlluminant,
		MatrixMethod: MatrixMethodAuto,
		Headroom:     1.0,
	}
}

func SettingsFromYAML(b []byte) (Settings, error) {
	s := NewSettings()
	err := yaml.Unmarshal(b, &s)
	return s, err
}

func (s Settings) AsYAML() string {
	b, err := yaml.Marshal(s)
	if err != nil {
		log.Fatalf("orchestrator: can't marshal settings yaml: %v\n", err)
	}
	return string(b)
}

// Validate returns warnings about mode combinations that are legal but
// probably not what the caller meant (it does not consult Verbosity;
// the caller decides whether to print them), mirroring the
// teacher's check_param-style validation in spirit (spec §4.7's
// resolution rules are the source of truth for what's actually legal;
// this only flags likely mistakes).
func (s Settings) Validate() []string {
	var warnings []string

	if s.MatrixMethod == MatrixMethodCustom && s.CustomMatrix == (emath.Mat3{}) {
		warnings = append(warnings, "matrix method is custom but custom_matrix is the zero matrix")
	}
	if s.WBMethod == WBMethodCustom && s.CustomWB == (emath.Vec3{}) {
		warnings = append(warnings, "wb method is custom but custom_wb is the zero vector")
	}
	if s.MatrixMethod == MatrixMethodSpectral && len(s.DatabaseDirectories) == 0 {
		warnings = append(warnings, "matrix method is spectral but no database_directories are configured")
	}
	return warnings
}
