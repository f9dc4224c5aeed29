package orchestrator

import (
	"fmt"
	"log"

	"github.com/abworrall/acesidt/pkg/catalog"
	"github.com/abworrall/acesidt/pkg/colorconst"
	"github.com/abworrall/acesidt/pkg/colorerr"
	"github.com/abworrall/acesidt/pkg/colormath"
	"github.com/abworrall/acesidt/pkg/emath"
	"github.com/abworrall/acesidt/pkg/metasolver"
	"github.com/abworrall/acesidt/pkg/specsolver"
)

// Fixed catalog paths the Spectral matrix method requires (spec §4.7).
const (
	trainingSpectralPath = "training/training_spectral.json"
	observerCMFPath      = "cmf/cmf_1931.json"
)

// Inputs is everything the core needs from the external raw-reader
// metadata (spec §6).
type Inputs struct {
	CameraMake, CameraModel string

	PreMul []float64 // raw:pre_mul, Float x4
	CamMul []float64 // raw:cam_mul, Float x4

	BaselineExposure      float64
	CalibrationIlluminant [2]uint16
	ColorMatrix           [2]emath.Mat3 // raw:dng:color_matrix{1,2}
	CameraCalibration     [2][]float64  // raw:dng:camera_calibration{1,2}, unused
	DNGVersionPresent     bool
}

// Result is the core's output triple (spec §6). HasIDT/HasCAT record
// which of IDTMatrix/CATMatrix the chosen path actually populated —
// "empty" per spec's output contract.
type Result struct {
	WBMultipliers []float64
	IDTMatrix     emath.Mat3
	CATMatrix     emath.Mat3
	HasIDT        bool
	HasCAT        bool
}

// MethodOrchestrator owns one SpectralSolver and one MetadataSolver
// instance per conversion (spec §4.7/§5: the orchestrator owns the
// solver instances per-image-configuration).
type MethodOrchestrator struct {
	Settings Settings
	Catalog  *catalog.DataCatalog
	Spectral *specsolver.SpectralSolver
}

func New(settings Settings) *MethodOrchestrator {
	cat := catalog.New(settings.DatabaseDirectories)
	cat.Verbosity = settings.Verbosity
	return &MethodOrchestrator{
		Settings: settings,
		Catalog:  cat,
		Spectral: specsolver.New(cat),
	}
}

// SupportedIlluminants lists every type string in the illuminant
// catalog, mirroring image_converter.cpp's --list-illuminants support.
func (o *MethodOrchestrator) SupportedIlluminants() []string {
	var out []string
	for _, sd := range o.Catalog.LoadAll(catalog.KindIlluminant, false) {
		out = append(out, sd.Header.Type)
	}
	return out
}

// SupportedCameras lists every "Manufacturer Model" pair in the camera
// catalog, mirroring image_converter.cpp's --list-cameras support.
func (o *MethodOrchestrator) SupportedCameras() []string {
	var out []string
	for _, sd := range o.Catalog.LoadAll(catalog.KindCamera, false) {
		out = append(out, sd.Header.Manufacturer+" "+sd.Header.Model)
	}
	return out
}

// Run resolves WB method x matrix method against in and produces the
// final {WB, IDT, CAT} triple (spec §4.7).
func (o *MethodOrchestrator) Run(in Inputs) (Result, error) {
	var res Result

	camResolved := o.Spectral.FindCamera(in.CameraMake, in.CameraModel)

	matrixMethod := o.Settings.MatrixMethod
	if matrixMethod == MatrixMethodAuto {
		if camResolved {
			matrixMethod = MatrixMethodSpectral
		} else {
			matrixMethod = MatrixMethodMetadata
			if o.Settings.Verbosity > 0 {
				log.Printf("orchestrator: camera %s/%s not in catalog, falling back to Metadata matrix method\n", in.CameraMake, in.CameraModel)
			}
		}
	}

	switch matrixMethod {
	case MatrixMethodSpectral:
		if !camResolved {
			return res, fmt.Errorf("spectral matrix method requires a cataloged camera: %w", colorerr.ErrNotFound)
		}
		idt, wb, err := o.runSpectralPath(in)
		if err != nil {
			return res, err
		}
		res.IDTMatrix, res.HasIDT = idt, true
		res.WBMultipliers = wb

	case MatrixMethodMetadata:
		if in.DNGVersionPresent {
			idt, err := o.runMetadataDNGPath(in)
			if err != nil {
				return res, err
			}
			res.IDTMatrix, res.HasIDT = idt, true
		} else {
			res.CATMatrix, res.HasCAT = o.runMetadataNonDNGPath(), true
		}
		res.WBMultipliers = o.resolveNonSpectralWB(in)

	case MatrixMethodAdobe:
		res.CATMatrix, res.HasCAT = o.runMetadataNonDNGPath(), true
		res.WBMultipliers = o.resolveNonSpectralWB(in)

	case MatrixMethodCustom:
		res.IDTMatrix, res.HasIDT = o.Settings.CustomMatrix, true
		res.WBMultipliers = o.resolveNonSpectralWB(in)

	default:
		return res, fmt.Errorf("unknown matrix method %q: %w", matrixMethod, colorerr.ErrInvalidArgument)
	}

	return res, nil
}

// runSpectralPath implements spec §4.7's Spectral branch.
func (o *MethodOrchestrator) runSpectralPath(in Inputs) (emath.Mat3, []float64, error) {
	training, err := o.Catalog.LoadSpectralData(trainingSpectralPath, true)
	if err != nil {
		return emath.Mat3{}, nil, fmt.Errorf("loading training set: %w", err)
	}
	observer, err := o.Catalog.LoadSpectralData(observerCMFPath, true)
	if err != nil {
		return emath.Mat3{}, nil, fmt.Errorf("loading observer CMF: %w", err)
	}
	o.Spectral.Training = training
	o.Spectral.Observer = observer

	if o.Settings.Illuminant != "" {
		if err := o.Spectral.FindIlluminantByToken(o.Settings.Illuminant); err != nil {
			return emath.Mat3{}, nil, err
		}
		if err := o.Spectral.CalculateWB(); err != nil {
			return emath.Mat3{}, nil, err
		}
	} else {
		triplet, err := collapseWBTriplet(in.PreMul)
		if err != nil {
			return emath.Mat3{}, nil, err
		}
		if err := o.Spectral.FindIlluminantByWB(triplet); err != nil {
			return emath.Mat3{}, nil, err
		}
	}

	if err := o.Spectral.CalculateIDTMatrix(); err != nil {
		return emath.Mat3{}, nil, err
	}

	wb := o.Spectral.WBMultipliers
	return o.Spectral.IDTMatrix, []float64{wb[0], wb[1], wb[2]}, nil
}

// runMetadataDNGPath implements spec §4.7's Metadata(DNG) branch.
func (o *MethodOrchestrator) runMetadataDNGPath(in Inputs) (emath.Mat3, error) {
	md := metasolver.Metadata{
		BaselineExposure: in.BaselineExposure,
		NeutralRGB:       reciprocalTriplet(in.CamMul),
		Calibration: [2]metasolver.Calibration{
			{
				Illuminant:              in.CalibrationIlluminant[0],
				XYZToRGBMatrix:          in.ColorMatrix[0],
				CameraCalibrationMatrix: in.CameraCalibration[0],
			},
			{
				Illuminant:              in.CalibrationIlluminant[1],
				XYZToRGBMatrix:          in.ColorMatrix[1],
				CameraCalibrationMatrix: in.CameraCalibration[1],
			},
		},
	}

	solver := metasolver.New(md)
	solver.Verbosity = o.Settings.Verbosity
	if err := solver.CalculateIDTMatrix(); err != nil {
		return emath.Mat3{}, err
	}
	return solver.IDTMatrix, nil
}

// runMetadataNonDNGPath implements spec §4.7's Metadata(non-DNG)/Adobe
// branch: a fixed D65->ACES CAT: the external pipeline is responsible
// for multiplying in the standard XYZ->ACES matrix itself.
func (o *MethodOrchestrator) runMetadataNonDNGPath() emath.Mat3 {
	return colormath.BradfordCAT(colorconst.D65WhitepointXYZ, colorconst.ACESWhitepointXYZ)
}

// resolveNonSpectralWB handles the WBMethod axis for paths that don't
// run the spectral solver (spec §4.7: Box/Custom are passed straight
// through to the external raw reader; Metadata WB is the camera's
// as-shot multipliers; Illuminant WB without a Spectral matrix method
// has nothing to match against, so it falls back to as-shot too).
func (o *MethodOrchestrator) resolveNonSpectralWB(in Inputs) []float64 {
	switch o.Settings.WBMethod {
	case WBMethodCustom:
		return []float64{o.Settings.CustomWB[0], o.Settings.CustomWB[1], o.Settings.CustomWB[2]}
	case WBMethodBox:
		return nil
	default:
		if len(in.CamMul) >= 3 && in.CamMul[1] != 0 {
			return []float64{in.CamMul[0] / in.CamMul[1], 1, in.CamMul[2] / in.CamMul[1]}
		}
		return nil
	}
}

func reciprocalTriplet(camMul []float64) []float64 {
	if len(camMul) < 3 {
		return nil
	}
	out := make([]float64, 3)
	for i := 0; i < 3; i++ {
		if camMul[i] == 0 {
			return nil
		}
		out[i] = 1.0 / camMul[i]
	}
	return out
}

// collapseWBTriplet implements spec §4.7's WB-triplet normalization for
// illuminant auto-detection: a 4-entry raw pre-multiplier array has its
// two green channels averaged into one; leading/trailing zero entries
// (a camera quirk where unused channels are zero-padded) are trimmed
// first; the result is normalized by its smallest positive entry.
func collapseWBTriplet(raw []float64) (emath.Vec3, error) {
	trimmed := trimZeros(raw)

	var triplet emath.Vec3
	switch len(trimmed) {
	case 3:
		triplet = emath.Vec3{trimmed[0], trimmed[1], trimmed[2]}
	case 4:
		triplet = emath.Vec3{trimmed[0], (trimmed[1] + trimmed[3]) / 2, trimmed[2]}
	default:
		return emath.Vec3{}, fmt.Errorf("pre_mul has %d usable entries, want 3 or 4: %w", len(trimmed), colorerr.ErrInvalidArgument)
	}

	min := -1.0
	for _, v := range triplet {
		if v > 0 && (min < 0 || v < min) {
			min = v
		}
	}
	if min > 0 && min != 1 {
		triplet = triplet.Scale(1.0 / min)
	}
	return triplet, nil
}

func trimZeros(vals []float64) []float64 {
	start := 0
	for start < len(vals) && vals[start] == 0 {
		start++
	}
	end := len(vals)
	for end > start && vals[end-1] == 0 {
		end--
	}
	return vals[start:end]
}
