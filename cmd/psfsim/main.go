// Command psfsim computes the point spread function of a simple imaging
// system from a json5 scenario file and writes the result as a 16 bit data
// image, an 8 bit stretched view image and a center cut profile plot.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/KevinWang15/go-json5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bob-anderson-ok/fourieroptics/field"
	"github.com/bob-anderson-ok/fourieroptics/optics"
	"github.com/bob-anderson-ok/fourieroptics/plotting"
)

const version = "1_0_0"

func initLogger() {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Str("app", "psfsim").Logger()
}

func main() {

	programStart := time.Now()

	initLogger()

	args := os.Args

	if len(args) != 2 {
		fmt.Println("\n\tWrong number of arguments.\n\tUsage: psfsim <scenario-file>")
		os.Exit(1)
	}

	path := args[1]

	// Read the Json5 (or Json) scenario file
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("cannot read the scenario file")
	}

	// Parse json(5) data into a generic container
	var jsonTable map[string]interface{}
	err = json.Unmarshal(data, &jsonTable)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("format error in the scenario file")
	}

	var scen Scenario
	msg, ok := validateJsonFileAndFillScenario(jsonTable, &scen)
	if !ok {
		log.Fatal().Str("path", path).Msg(msg)
	}

	// Check for user wanting printout of the complete jsonTable
	if scen.ShowInput {
		fmt.Printf("%s", "\nPrintout of complete jsonTable contents...\n")
		fmt.Println(string(data))
	}

	log.Info().Str("version", version).Str("scenario", path).Msg("psfsim starting")

	// Elementary checks to make sure that the user has not supplied bad parameters
	if scen.PupilGridPoints < 8 {
		log.Fatal().Int("pupil_grid_num_points", scen.PupilGridPoints).
			Msg("the pupil grid must be at least 8 points wide")
	}
	if scen.PupilWidthM <= 0.0 {
		log.Fatal().Float64("pupil_width_m", scen.PupilWidthM).
			Msg("the pupil width must be positive")
	}
	if scen.ObservationWavelengthNm <= 0.0 {
		log.Fatal().Float64("observation_wavelength_nm", scen.ObservationWavelengthNm).
			Msg("the observation wavelength must be positive")
	}

	Npts := scen.PupilGridPoints // Just a shorthand version

	nmToM := 1e-9
	wavelength0 := scen.ObservationWavelengthNm * nmToM

	// Calculate resolution in the pupil plane
	resolution := scen.PupilWidthM / float64(Npts)
	log.Info().Float64("m_per_sample", resolution).Msg("pupil plane resolution")

	// Read the spectrum table if one was given
	if scen.PathToSpectrumFile != "" {
		specData, err := os.ReadFile(scen.PathToSpectrumFile)
		if err != nil {
			log.Fatal().Err(err).Str("path", scen.PathToSpectrumFile).Msg("cannot read the spectrum file")
		}
		table, err := parseSpectrumTable(specData)
		if err != nil {
			log.Fatal().Err(err).Str("path", scen.PathToSpectrumFile).Msg("error reading the spectrum file")
		}
		if len(table) < 1 {
			log.Fatal().Str("path", scen.PathToSpectrumFile).Msg("the spectrum file is empty")
		}
		var cumWeights = 0.0
		for i := 0; i < len(table); i++ {
			cumWeights += table[i][1]
		}
		if cumWeights <= 0.0 {
			log.Fatal().Str("path", scen.PathToSpectrumFile).Msg("the spectrum weights must sum to a positive value")
		}
		for i := 0; i < len(table); i++ {
			table[i][1] /= cumWeights
		}
		scen.SpectrumTable = table
		log.Info().Int("entries", len(table)).Msg("loaded spectrum table")
	}

	start := time.Now() // Time generation of the pupil

	pupilGrid, err := field.UniformGrid([]int{Npts, Npts}, []float64{scen.PupilWidthM, scen.PupilWidthM}, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("building the pupil grid failed")
	}

	var pupil *field.Field
	switch scen.ApertureKind {
	case "circular":
		pupil, err = optics.CircularAperture(pupilGrid, scen.ApertureXSizeM)
	case "elliptical":
		pupil, err = optics.EllipticalAperture(pupilGrid, scen.ApertureXSizeM, scen.ApertureYSizeM, scen.ApertureRotationDegrees)
	case "rectangular":
		pupil, err = optics.RectangularAperture(pupilGrid, scen.ApertureXSizeM, scen.ApertureYSizeM)
	case "gaussian":
		pupil, err = optics.GaussianBeam(pupilGrid, scen.ApertureXSizeM)
	default:
		log.Fatal().Str("kind", scen.ApertureKind).
			Msg("aperture kind must be circular, elliptical, rectangular or gaussian")
	}
	if err != nil {
		log.Fatal().Err(err).Str("kind", scen.ApertureKind).Msg("building the aperture failed")
	}

	// On the focal grid built below the number of samples across the
	// diffraction core is the pupil width over the aperture width.
	samplesPerCore := scen.PupilWidthM / scen.ApertureXSizeM
	log.Info().Float64("samples_per_core", samplesPerCore).
		Msg("sampling across the diffraction core (to resolve the PSF, this number should be at least 2)")

	if err = os.MkdirAll(scen.OutputFolder, 0o755); err != nil {
		log.Fatal().Err(err).Str("folder", scen.OutputFolder).Msg("cannot create the output folder")
	}

	pupilWf, err := optics.NewWavefront(pupil, wavelength0)
	if err != nil {
		log.Fatal().Err(err).Msg("building the pupil wavefront failed")
	}

	// Save a view image of the pupil so the user can confirm the geometry
	pupilView, err := plotting.IntensityGray8Stretch(pupilWf.Intensity(), pupilGrid, 0.0, 100.0)
	if err != nil {
		log.Fatal().Err(err).Msg("creation of the pupil view image failed")
	}
	pupilPath := filepath.Join(scen.OutputFolder, "pupilImage8bit.png")
	if err = plotting.SavePNG(pupilPath, pupilView); err != nil {
		log.Fatal().Err(err).Str("path", pupilPath).Msg("writing the pupil view image failed")
	}

	log.Info().Dur("elapsed", time.Since(start)).Msg("generation of the pupil finished")

	focalGrid, err := optics.FocalGrid(pupilGrid, wavelength0, scen.FocalLengthM)
	if err != nil {
		log.Fatal().Err(err).Msg("building the focal grid failed")
	}
	log.Info().Float64("sample_spacing", focalGrid.Delta()[0]).Msg("focal plane resolution")

	start = time.Now() // Time the propagation itself

	var intensity []float64
	if len(scen.SpectrumTable) > 0 {
		poly := optics.NewFraunhoferPolychromatic(pupilGrid, focalGrid, wavelength0, scen.FocalLengthM)

		components := make([]optics.SpectralComponent, 0, len(scen.SpectrumTable))
		for _, row := range scen.SpectrumTable {
			wf, err := optics.NewWavefront(pupil, row[0]*nmToM)
			if err != nil {
				log.Fatal().Err(err).Float64("wavelength_nm", row[0]).Msg("building a spectral wavefront failed")
			}
			components = append(components, optics.SpectralComponent{Wavefront: wf, Weight: row[1]})
		}
		sw, err := optics.NewSpectralWavefront(components)
		if err != nil {
			log.Fatal().Err(err).Msg("assembling the spectral wavefront failed")
		}

		focalSw, err := poly.ForwardSpectrum(sw)
		if err != nil {
			log.Fatal().Err(err).Msg("propagation to the focal plane failed")
		}
		intensity = focalSw.Intensity()
		log.Info().Int("wavelengths", len(components)).Dur("elapsed", time.Since(start)).
			Msg("polychromatic propagation finished")
	} else {
		prop, err := optics.NewFraunhofer(pupilGrid, focalGrid, optics.FraunhoferParams{
			Wavelength0: wavelength0,
			FocalLength: scen.FocalLengthM,
			Wavelength:  wavelength0,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("building the propagator failed")
		}
		focal, err := prop.Forward(pupilWf)
		if err != nil {
			log.Fatal().Err(err).Msg("propagation to the focal plane failed")
		}
		intensity = focal.Intensity()
		log.Info().Dur("elapsed", time.Since(start)).Msg("monochromatic propagation finished")
	}

	start = time.Now()

	// Make a user-friendly .png of the focal plane intensity
	viewImage, err := plotting.IntensityGray8Stretch(intensity, focalGrid, scen.ViewLowPercentile, scen.ViewHighPercentile)
	if err != nil {
		log.Fatal().Err(err).Msg("creation of the display image failed")
	}
	viewPath := filepath.Join(scen.OutputFolder, "psfImage8bit.png")
	if err = plotting.SavePNG(viewPath, viewImage); err != nil {
		log.Fatal().Err(err).Str("path", viewPath).Msg("writing the display image failed")
	}

	// Make the scientific (well-defined scaling) version of the intensity
	dataImage, err := plotting.IntensityGray16(intensity, focalGrid, scen.Gray16Scale)
	if err != nil {
		log.Fatal().Err(err).Msg("creation of the data image failed")
	}
	dataPath := filepath.Join(scen.OutputFolder, "psfImage16bit.png")
	if err = plotting.SavePNG(dataPath, dataImage); err != nil {
		log.Fatal().Err(err).Str("path", dataPath).Msg("writing the data image failed")
	}

	// Plot a cut through the center of the PSF
	xs, ys, err := plotting.CutProfile(intensity, focalGrid)
	if err != nil {
		log.Fatal().Err(err).Msg("extracting the center cut failed")
	}
	title := scen.Title
	if title == "" {
		title = "PSF center cut"
	}
	xLabel := "focal plane x (m)"
	if scen.FocalLengthM == optics.Afocal {
		xLabel = "focal plane x"
	}
	profilePath := filepath.Join(scen.OutputFolder, "psfProfile.png")
	err = plotting.SaveCutPlot(profilePath, xs, ys, title, xLabel, "intensity",
		float64(scen.PlotWidthPixels), float64(scen.PlotHeightPixels))
	if err != nil {
		log.Fatal().Err(err).Str("path", profilePath).Msg("writing the profile plot failed")
	}

	log.Info().Dur("elapsed", time.Since(start)).Msg("image and plot output finished")
	log.Info().Str("folder", scen.OutputFolder).Dur("total", time.Since(programStart)).Msg("psfsim finished")
}
