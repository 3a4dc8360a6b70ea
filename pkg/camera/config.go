// Package camera provides the runtime-configurable capture defaults the
// bridge applies to every capture it starts.
package camera

import (
	"fmt"
	"math"

	"github.com/teslashibe/go-theta/pkg/theta"
)

// Option ranges shared by current THETA models
const (
	MinExposureCompensation = -2.0
	MaxExposureCompensation = 2.0
	MaxExposureDelay        = 10 // seconds
	MinColorTemperature     = 2500
	MaxColorTemperature     = 10000
	ColorTemperatureStep    = 100
	MinISO                  = 50
	MaxISO                  = 6400
	MaxShutterSpeed         = 60.0 // seconds
)

var (
	validWhiteBalance = map[theta.WhiteBalance]bool{
		theta.WhiteBalanceAuto:             true,
		theta.WhiteBalanceDaylight:         true,
		theta.WhiteBalanceShade:            true,
		theta.WhiteBalanceCloudyDaylight:   true,
		theta.WhiteBalanceIncandescent:     true,
		theta.WhiteBalanceWarmWhiteFluor:   true,
		theta.WhiteBalanceDaylightFluor:    true,
		theta.WhiteBalanceDayWhiteFluor:    true,
		theta.WhiteBalanceFluorescent:      true,
		theta.WhiteBalanceBulbFluorescent:  true,
		theta.WhiteBalanceColorTemperature: true,
		theta.WhiteBalanceUnderwater:       true,
	}
	validExposurePrograms = map[theta.ExposureProgram]bool{
		theta.ExposureProgramManual:           true,
		theta.ExposureProgramNormalProgram:    true,
		theta.ExposureProgramAperturePriority: true,
		theta.ExposureProgramShutterPriority:  true,
		theta.ExposureProgramISOPriority:      true,
	}
	validFilters = map[theta.Filter]bool{
		theta.FilterOff:         true,
		theta.FilterDRComp:      true,
		theta.FilterNoiseReduce: true,
		theta.FilterHDR:         true,
		theta.FilterHHHDR:       true,
	}
)

// Validate checks option values against the ranges the cameras accept.
// Returns a list of validation errors, or nil if valid.
func Validate(o theta.Options) []string {
	var errors []string

	if v := o.ExposureCompensation; v != nil {
		if *v < MinExposureCompensation || *v > MaxExposureCompensation {
			errors = append(errors, "exposureCompensation must be between -2.0 and 2.0")
		} else if thirds := *v * 3; math.Abs(thirds-math.Round(thirds)) > 1e-6 {
			errors = append(errors, "exposureCompensation must be a multiple of 1/3")
		}
	}
	if v := o.ExposureDelay; v != nil && (*v < 0 || *v > MaxExposureDelay) {
		errors = append(errors, "exposureDelay must be between 0 and 10")
	}
	if v := o.ColorTemperature; v != nil {
		if *v < MinColorTemperature || *v > MaxColorTemperature || *v%ColorTemperatureStep != 0 {
			errors = append(errors, "_colorTemperature must be 2500 to 10000 in steps of 100")
		}
	}
	if v := o.ISO; v != nil && *v != theta.ISOAuto && (*v < MinISO || *v > MaxISO) {
		errors = append(errors, "iso must be 0 (auto) or between 50 and 6400")
	}
	if v := o.ISOAutoHighLimit; v != nil && (*v < MinISO || *v > MaxISO) {
		errors = append(errors, "isoAutoHighLimit must be between 50 and 6400")
	}
	if v := o.ShutterSpeed; v != nil && (*v < 0 || *v > MaxShutterSpeed) {
		errors = append(errors, "shutterSpeed must be between 0 (auto) and 60 seconds")
	}
	if v := o.Aperture; v != nil && *v < 0 {
		errors = append(errors, "aperture must not be negative")
	}
	if v := o.WhiteBalance; v != nil && !validWhiteBalance[*v] {
		errors = append(errors, fmt.Sprintf("whiteBalance %q is not supported", *v))
	}
	if v := o.ExposureProgram; v != nil && !validExposurePrograms[*v] {
		errors = append(errors, fmt.Sprintf("exposureProgram %d is not supported", *v))
	}
	if v := o.Filter; v != nil && !validFilters[*v] {
		errors = append(errors, fmt.Sprintf("_filter %q is not supported", *v))
	}
	if v := o.CaptureMode; v != nil {
		errors = append(errors, "captureMode is chosen by the capture mode and cannot be a default")
	}

	return errors
}

// Capabilities returns the accepted option ranges.
func Capabilities() map[string]any {
	return map[string]any{
		"exposure_compensation": []float64{MinExposureCompensation, MaxExposureCompensation},
		"exposure_delay_max":    MaxExposureDelay,
		"color_temperature":     []int{MinColorTemperature, MaxColorTemperature, ColorTemperatureStep},
		"iso":                   []int{MinISO, MaxISO},
		"shutter_speed_max":     MaxShutterSpeed,
		"filters":               []theta.Filter{theta.FilterOff, theta.FilterDRComp, theta.FilterNoiseReduce, theta.FilterHDR, theta.FilterHHHDR},
		"presets":               PresetNames(),
	}
}
