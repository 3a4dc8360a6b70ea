package theta

import "reflect"

// Options is a sparse set of camera options.
// Every field is optional; nil fields are omitted when sent to the camera.
type Options struct {
	Aperture                        *float64                  `json:"aperture,omitempty"`
	AutoBracket                     *AutoBracket              `json:"_autoBracket,omitempty"`
	BitRate                         *string                   `json:"_bitrate,omitempty"`
	BurstMode                       *BurstMode                `json:"_burstMode,omitempty"`
	BurstOption                     *BurstOption              `json:"_burstOption,omitempty"`
	CaptureInterval                 *int                      `json:"captureInterval,omitempty"`
	CaptureMode                     *CaptureMode              `json:"captureMode,omitempty"`
	CaptureNumber                   *int                      `json:"captureNumber,omitempty"`
	ColorTemperature                *int                      `json:"_colorTemperature,omitempty"`
	CompositeShootingOutputInterval *int                      `json:"_compositeShootingOutputInterval,omitempty"`
	CompositeShootingTime           *int                      `json:"_compositeShootingTime,omitempty"`
	ContinuousNumber                *ContinuousNumber         `json:"continuousNumber,omitempty"`
	ExposureCompensation            *float64                  `json:"exposureCompensation,omitempty"`
	ExposureDelay                   *int                      `json:"exposureDelay,omitempty"`
	ExposureProgram                 *ExposureProgram          `json:"exposureProgram,omitempty"`
	FileFormat                      *FileFormat               `json:"fileFormat,omitempty"`
	Filter                          *Filter                   `json:"_filter,omitempty"`
	GpsInfo                         *GpsInfo                  `json:"gpsInfo,omitempty"`
	GpsTagRecording                 *GpsTagRecording          `json:"_gpsTagRecording,omitempty"`
	ISO                             *int                      `json:"iso,omitempty"`
	ISOAutoHighLimit                *int                      `json:"isoAutoHighLimit,omitempty"`
	MaxRecordableTime               *MaxRecordableTime        `json:"_maxRecordableTime,omitempty"`
	Preset                          *Preset                   `json:"_preset,omitempty"`
	ShootingMethod                  *ShootingMethod           `json:"_shootingMethod,omitempty"`
	ShutterSpeed                    *float64                  `json:"shutterSpeed,omitempty"`
	TimeShift                       *TimeShift                `json:"_timeShift,omitempty"`
	WhiteBalance                    *WhiteBalance             `json:"whiteBalance,omitempty"`
	WhiteBalanceAutoStrength        *WhiteBalanceAutoStrength `json:"_whiteBalanceAutoStrength,omitempty"`
}

// Ptr returns a pointer to v. Handy for filling Options literals.
func Ptr[T any](v T) *T {
	return &v
}

// IsEmpty reports whether no option is set.
func (o Options) IsEmpty() bool {
	v := reflect.ValueOf(o)
	for i := 0; i < v.NumField(); i++ {
		if !v.Field(i).IsNil() {
			return false
		}
	}
	return true
}

// Merge returns a copy of o with every option set in other overlaid on it.
func (o Options) Merge(other Options) Options {
	out := o
	dst := reflect.ValueOf(&out).Elem()
	src := reflect.ValueOf(other)
	for i := 0; i < src.NumField(); i++ {
		if f := src.Field(i); !f.IsNil() {
			dst.Field(i).Set(f)
		}
	}
	return out
}

// GpsInfo is the gpsInfo option.
type GpsInfo struct {
	Latitude     float64 `json:"lat"`
	Longitude    float64 `json:"lng"`
	Altitude     float64 `json:"_altitude"`
	DateTimeZone string  `json:"_dateTimeZone"` // "2006:01:02 15:04:05-07:00"
	Datum        string  `json:"_datum"`
}

// DisabledGpsInfo clears the camera's GPS information when set.
var DisabledGpsInfo = GpsInfo{Latitude: 65535, Longitude: 65535}

// FileFormat is the fileFormat option.
type FileFormat struct {
	Type      string `json:"type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Codec     string `json:"_codec,omitempty"`
	FrameRate int    `json:"_frameRate,omitempty"`
}

// Common file formats.
var (
	FileFormatImage2K    = FileFormat{Type: "jpeg", Width: 2048, Height: 1024}
	FileFormatImage5K    = FileFormat{Type: "jpeg", Width: 5376, Height: 2688}
	FileFormatImage6_7K  = FileFormat{Type: "jpeg", Width: 6720, Height: 3360}
	FileFormatImage11K   = FileFormat{Type: "jpeg", Width: 11008, Height: 5504}
	FileFormatRawP6_7K   = FileFormat{Type: "raw+", Width: 6720, Height: 3360}
	FileFormatVideoHD    = FileFormat{Type: "mp4", Width: 1920, Height: 960, Codec: "H.264/MPEG-4 AVC", FrameRate: 30}
	FileFormatVideo4K    = FileFormat{Type: "mp4", Width: 3840, Height: 1920, Codec: "H.264/MPEG-4 AVC", FrameRate: 30}
	FileFormatVideo5_7K  = FileFormat{Type: "mp4", Width: 5760, Height: 2880, Codec: "H.264/MPEG-4 AVC", FrameRate: 30}
	FileFormatVideo8K10F = FileFormat{Type: "mp4", Width: 7680, Height: 3840, Codec: "H.264/MPEG-4 AVC", FrameRate: 10}
)

// BracketSetting is one shot of a multi bracket sequence.
type BracketSetting struct {
	Aperture             *float64         `json:"aperture,omitempty"`
	ColorTemperature     *int             `json:"_colorTemperature,omitempty"`
	ExposureCompensation *float64         `json:"exposureCompensation,omitempty"`
	ExposureProgram      *ExposureProgram `json:"exposureProgram,omitempty"`
	ISO                  *int             `json:"iso,omitempty"`
	ShutterSpeed         *float64         `json:"shutterSpeed,omitempty"`
	WhiteBalance         *WhiteBalance    `json:"whiteBalance,omitempty"`
}

// AutoBracket is the _autoBracket option.
type AutoBracket struct {
	Number     int              `json:"_bracketNumber"`
	Parameters []BracketSetting `json:"_bracketParameters"`
}

// NewAutoBracket builds an AutoBracket from a list of settings.
func NewAutoBracket(settings ...BracketSetting) AutoBracket {
	return AutoBracket{
		Number:     len(settings),
		Parameters: settings,
	}
}

// BurstOption is the _burstOption option (THETA X burst shooting).
type BurstOption struct {
	CaptureNum       int     `json:"_burstCaptureNum"`
	BracketStep      float64 `json:"_burstBracketStep"`
	Compensation     float64 `json:"_burstCompensation"`
	MaxExposureTime  float64 `json:"_burstMaxExposureTime"`
	EnableISOControl int     `json:"_burstEnableIsoControl"`
	Order            int     `json:"_burstOrder"`
}

// TimeShift is the _timeShift option.
type TimeShift struct {
	FirstShooting  string `json:"firstShooting"`  // "front" or "rear"
	FirstInterval  int    `json:"firstInterval"`  // seconds
	SecondInterval int    `json:"secondInterval"` // seconds
}

// DefaultTimeShift shoots the front lens first with 5 second intervals.
var DefaultTimeShift = TimeShift{FirstShooting: "front", FirstInterval: 5, SecondInterval: 5}
