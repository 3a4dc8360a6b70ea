package camera

import "github.com/teslashibe/go-theta/pkg/theta"

// Preset names for common capture defaults
const (
	PresetDefault = "default"
	PresetHDR     = "hdr"
	PresetNight   = "night"
	PresetBright  = "bright"
	PresetIndoor  = "indoor"
	PresetManual  = "manual"
	Preset11K     = "11k"
	Preset4KVideo = "4k-video"
)

// Presets returns all available presets.
func Presets() map[string]theta.Options {
	return map[string]theta.Options{
		PresetDefault: DefaultOptions(),
		PresetHDR:     HDROptions(),
		PresetNight:   NightOptions(),
		PresetBright:  BrightOptions(),
		PresetIndoor:  IndoorOptions(),
		PresetManual:  ManualOptions(),
		Preset11K:     Image11KOptions(),
		Preset4KVideo: Video4KOptions(),
	}
}

// PresetNames returns the list of available preset names.
func PresetNames() []string {
	return []string{
		PresetDefault,
		PresetHDR,
		PresetNight,
		PresetBright,
		PresetIndoor,
		PresetManual,
		Preset11K,
		Preset4KVideo,
	}
}

// GetPreset returns a preset by name, or nil if not found.
func GetPreset(name string) *theta.Options {
	if o, ok := Presets()[name]; ok {
		return &o
	}
	return nil
}

// DefaultOptions leaves every option to the camera.
func DefaultOptions() theta.Options {
	return theta.Options{}
}

// HDROptions enables the HDR rendering filter.
func HDROptions() theta.Options {
	return theta.Options{Filter: theta.Ptr(theta.FilterHDR)}
}

// NightOptions brightens low-light scenes and suppresses noise.
func NightOptions() theta.Options {
	return theta.Options{
		ExposureProgram:      theta.Ptr(theta.ExposureProgramNormalProgram),
		ExposureCompensation: theta.Ptr(2.0 / 3.0),
		ISOAutoHighLimit:     theta.Ptr(3200),
		Filter:               theta.Ptr(theta.FilterNoiseReduce),
	}
}

// BrightOptions keeps highlights in bright outdoor scenes.
func BrightOptions() theta.Options {
	return theta.Options{
		ExposureCompensation: theta.Ptr(-2.0 / 3.0),
		WhiteBalance:         theta.Ptr(theta.WhiteBalanceDaylight),
		Filter:               theta.Ptr(theta.FilterDRComp),
	}
}

// IndoorOptions balances tungsten lighting.
func IndoorOptions() theta.Options {
	return theta.Options{
		WhiteBalance:     theta.Ptr(theta.WhiteBalanceIncandescent),
		ISOAutoHighLimit: theta.Ptr(1600),
	}
}

// ManualOptions is a fixed exposure starting point for tripod work.
func ManualOptions() theta.Options {
	return theta.Options{
		ExposureProgram: theta.Ptr(theta.ExposureProgramManual),
		ISO:             theta.Ptr(100),
		ShutterSpeed:    theta.Ptr(1.0 / 100),
		WhiteBalance:    theta.Ptr(theta.WhiteBalanceAuto),
	}
}

// Image11KOptions selects the largest still format of the THETA X.
func Image11KOptions() theta.Options {
	return theta.Options{FileFormat: theta.Ptr(theta.FileFormatImage11K)}
}

// Video4KOptions selects 4K video.
func Video4KOptions() theta.Options {
	return theta.Options{FileFormat: theta.Ptr(theta.FileFormatVideo4K)}
}
