package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/abworrall/acesidt/pkg/orchestrator"
)

var (
	fVerbosity       int
	fWBMethod        string
	fMatrixMethod    string
	fIlluminant      string
	fCameraMake      string
	fCameraModel     string
	fDatabaseDirs    string
	fHeadroom        float64
	fConfig          string
	fListIlluminants bool
	fListCameras     bool
)

func init() {
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.StringVar(&fWBMethod, "wbmethod", string(orchestrator.WBMethodIlluminant), "wb method: metadata|illuminant|box|custom")
	flag.StringVar(&fMatrixMethod, "matrixmethod", string(orchestrator.MatrixMethodAuto), "matrix method: auto|spectral|metadata|adobe|custom")
	flag.StringVar(&fIlluminant, "illuminant", "", "illuminant token override, e.g. D65, 3200K, or a catalog type name")
	flag.StringVar(&fCameraMake, "cameramake", "", "camera manufacturer override")
	flag.StringVar(&fCameraModel, "cameramodel", "", "camera model override")
	flag.StringVar(&fDatabaseDirs, "db", "", "comma-separated list of spectral database search directories")
	flag.Float64Var(&fHeadroom, "headroom", 1.0, "linear headroom scale factor, carried through to the caller")
	flag.StringVar(&fConfig, "config", "", "path to a YAML settings file, overridden by any flag also given")
	flag.BoolVar(&fListIlluminants, "list-illuminants", false, "print every illuminant type in the database and exit")
	flag.BoolVar(&fListCameras, "list-cameras", false, "print every camera in the database and exit")
	flag.Parse()
}

func main() {
	settings := orchestrator.NewSettings()

	if fConfig != "" {
		cfg, err := loadSettingsFile(fConfig)
		if err != nil {
			log.Fatalf("loading config %s: %v\n", fConfig, err)
		}
		settings = cfg
	}

	settings.Verbosity = fVerbosity
	settings.WBMethod = orchestrator.WBMethod(fWBMethod)
	settings.MatrixMethod = orchestrator.MatrixMethod(fMatrixMethod)
	settings.Illuminant = fIlluminant
	settings.CameraMake = fCameraMake
	settings.CameraModel = fCameraModel
	settings.Headroom = fHeadroom
	if fDatabaseDirs != "" {
		settings.DatabaseDirectories = strings.Split(fDatabaseDirs, ",")
	}

	for _, warning := range settings.Validate() {
		log.Printf("acesidt: warning: %s\n", warning)
	}

	o := orchestrator.New(settings)

	if fListIlluminants {
		for _, name := range o.SupportedIlluminants() {
			fmt.Println(name)
		}
		return
	}
	if fListCameras {
		for _, name := range o.SupportedCameras() {
			fmt.Println(name)
		}
		return
	}

	if settings.Verbosity > 0 {
		log.Printf("acesidt starting with settings:\n\n%s\n", settings.AsYAML())
	}

	for _, filename := range flag.Args() {
		in, err := inputsFromTIFF(filename)
		if err != nil {
			log.Fatalf("loading metadata from %s: %v\n", filename, err)
		}
		if settings.CameraMake != "" {
			in.CameraMake = settings.CameraMake
		}
		if settings.CameraModel != "" {
			in.CameraModel = settings.CameraModel
		}

		res, err := o.Run(in)
		if err != nil {
			log.Fatalf("%s: %v\n", filename, err)
		}

		fmt.Printf("%s:\n", filename)
		fmt.Printf("  WB multipliers: %v\n", res.WBMultipliers)
		if res.HasIDT {
			fmt.Printf("  IDT matrix:\n%s", res.IDTMatrix.String())
		}
		if res.HasCAT {
			fmt.Printf("  CAT matrix:\n%s", res.CATMatrix.String())
		}
	}
}
