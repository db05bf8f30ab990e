package main

import (
	json "github.com/KevinWang15/go-json5"

	"github.com/bob-anderson-ok/fourieroptics/optics"
)

// Scenario holds the validated contents of a psfsim parameter file.
type Scenario struct {
	ShowInput               bool
	Title                   string
	PupilGridPoints         int
	PupilWidthM             float64
	ApertureKind            string
	ApertureXSizeM          float64
	ApertureYSizeM          float64
	ApertureRotationDegrees float64
	FocalLengthM            float64 // optics.Afocal when focal_length_m is absent
	ObservationWavelengthNm float64
	PathToSpectrumFile      string
	SpectrumTable           [][2]float64 // rows of [wavelength_nm, weight]
	OutputFolder            string
	PlotWidthPixels         int
	PlotHeightPixels        int
	Gray16Scale             float64
	ViewLowPercentile       float64
	ViewHighPercentile      float64
}

func parseSpectrumTable(data []byte) ([][2]float64, error) {
	var pairs [][2]float64
	err := json.Unmarshal(data, &pairs)
	return pairs, err
}

func getLeafValue(jsonTable map[string]interface{}, path ...string) (interface{}, bool) {
	var cur interface{} = jsonTable
	for _, p := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func validateJsonFileAndFillScenario(jsonTable map[string]interface{}, scen *Scenario) (string, bool) {
	msg := "No problem found in json file" // Initialize msg to presumed success.

	showInput, ok := getLeafValue(jsonTable, "show_input_bool")
	if !ok {
		scen.ShowInput = false // default to false if this field is missing
	} else {
		scen.ShowInput, ok = showInput.(bool)
		if !ok {
			msg = "show_input_bool: is not a bool"
			return msg, false
		}
	}

	title, ok := getLeafValue(jsonTable, "title")
	if ok {
		scen.Title, ok = title.(string)
		if !ok {
			msg = "title: is not a string"
			return msg, false
		}
	}

	numPts, ok := getLeafValue(jsonTable, "pupil_grid_num_points")
	if !ok {
		msg = "pupil_grid_num_points: not found"
		return msg, false
	}
	numberOfPoints, ok := numPts.(float64)
	if !ok {
		msg = "pupil_grid_num_points: is not a float64"
		return msg, false
	}
	scen.PupilGridPoints = int(numberOfPoints)

	pupilWidth, ok := getLeafValue(jsonTable, "pupil_width_m")
	if !ok {
		msg = "pupil_width_m: not found"
		return msg, false
	}
	scen.PupilWidthM, ok = pupilWidth.(float64)
	if !ok {
		msg = "pupil_width_m: is not a float64"
		return msg, false
	}

	// Check that the aperture group is present. It is always required.
	_, ok = getLeafValue(jsonTable, "aperture")
	if !ok {
		msg = "aperture group not found and is required."
		return msg, false
	}

	// Validate the aperture.kind entry
	v, ok := getLeafValue(jsonTable, "aperture", "kind")
	if ok {
		value, ok := v.(string)
		if ok {
			scen.ApertureKind = value
		} else {
			msg = "aperture.kind: is not a string"
			return msg, false
		}
	} else {
		msg = "aperture.kind: not found"
		return msg, false
	}

	// Validate the aperture.x_size_m entry
	v, ok = getLeafValue(jsonTable, "aperture", "x_size_m")
	if ok {
		value, ok := v.(float64)
		if ok {
			scen.ApertureXSizeM = value
		} else {
			msg = "aperture.x_size_m: is not a float64"
			return msg, false
		}
	} else {
		msg = "aperture.x_size_m: not found"
		return msg, false
	}

	// Validate the aperture.y_size_m entry. When missing it defaults to x_size_m.
	v, ok = getLeafValue(jsonTable, "aperture", "y_size_m")
	if !ok {
		scen.ApertureYSizeM = scen.ApertureXSizeM
	} else {
		value, ok := v.(float64)
		if !ok {
			msg = "aperture.y_size_m: is not a float64"
			return msg, false
		}
		scen.ApertureYSizeM = value
	}

	// Validate the aperture.rotation_degrees entry
	v, ok = getLeafValue(jsonTable, "aperture", "rotation_degrees")
	if ok { // We allow this field to be missing - if missing, it defaults to 0
		value, ok := v.(float64)
		if !ok {
			msg = "aperture.rotation_degrees: is not a float64"
			return msg, false
		}
		scen.ApertureRotationDegrees = value
	}

	focalLength, ok := getLeafValue(jsonTable, "focal_length_m")
	if !ok {
		scen.FocalLengthM = optics.Afocal // No lens given: output stays angular
	} else {
		scen.FocalLengthM, ok = focalLength.(float64)
		if !ok {
			msg = "focal_length_m: is not a float64"
			return msg, false
		}
	}

	wavelength, ok := getLeafValue(jsonTable, "observation_wavelength_nm")
	if !ok {
		msg = "observation_wavelength_nm: not found"
		return msg, false
	}
	scen.ObservationWavelengthNm, ok = wavelength.(float64)
	if !ok {
		msg = "observation_wavelength_nm: is not a float64"
		return msg, false
	}

	filePath, ok := getLeafValue(jsonTable, "path_to_spectrum_file")
	if ok {
		scen.PathToSpectrumFile, ok = filePath.(string)
		if !ok {
			msg = "path_to_spectrum_file: is not a string"
			return msg, false
		}
	}

	outputFolder, ok := getLeafValue(jsonTable, "output_folder")
	if !ok {
		scen.OutputFolder = "." // Default to the working directory
	} else {
		scen.OutputFolder, ok = outputFolder.(string)
		if !ok {
			msg = "output_folder: is not a string"
			return msg, false
		}
	}

	plotWidth, ok := getLeafValue(jsonTable, "plot_width_pixels")
	if !ok {
		scen.PlotWidthPixels = 1200 // Default plot width
	} else {
		wPix, ok := plotWidth.(float64)
		if !ok {
			msg = "plot_width_pixels: is not a float64"
			return msg, false
		}
		scen.PlotWidthPixels = int(wPix)
	}

	plotHeight, ok := getLeafValue(jsonTable, "plot_height_pixels")
	if !ok {
		scen.PlotHeightPixels = 800 // Default plot height
	} else {
		hPix, ok := plotHeight.(float64)
		if !ok {
			msg = "plot_height_pixels: is not a float64"
			return msg, false
		}
		scen.PlotHeightPixels = int(hPix)
	}

	gray16Scale, ok := getLeafValue(jsonTable, "gray16_scale")
	if !ok {
		scen.Gray16Scale = 10000.0 // Default counts per unit intensity
	} else {
		scen.Gray16Scale, ok = gray16Scale.(float64)
		if !ok {
			msg = "gray16_scale: is not a float64"
			return msg, false
		}
	}

	lowPct, ok := getLeafValue(jsonTable, "view_low_percentile")
	if !ok {
		scen.ViewLowPercentile = 0.5 // Default value
	} else {
		scen.ViewLowPercentile, ok = lowPct.(float64)
		if !ok {
			msg = "view_low_percentile: is not a float64"
			return msg, false
		}
	}

	highPct, ok := getLeafValue(jsonTable, "view_high_percentile")
	if !ok {
		scen.ViewHighPercentile = 99.5 // Default value
	} else {
		scen.ViewHighPercentile, ok = highPct.(float64)
		if !ok {
			msg = "view_high_percentile: is not a float64"
			return msg, false
		}
	}

	return msg, true
}
