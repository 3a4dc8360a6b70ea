package theta

// CaptureMode is the captureMode option.
type CaptureMode string

const (
	CaptureModeImage       CaptureMode = "image"
	CaptureModeVideo       CaptureMode = "video"
	CaptureModeVideoLegacy CaptureMode = "_video"
)

// ShootingMode is the _mode parameter of camera.startCapture.
type ShootingMode string

const (
	ShootingModeInterval        ShootingMode = "interval"
	ShootingModeComposite       ShootingMode = "composite"
	ShootingModeBracket         ShootingMode = "bracket"
	ShootingModeTimeShift       ShootingMode = "timeShift"
	ShootingModeTimeShiftManual ShootingMode = "timeShiftManual"
	ShootingModeBurst           ShootingMode = "burst"
	ShootingModeContinuous      ShootingMode = "continuous"
)

// ShootingMethod is the THETA X _shootingMethod option.
type ShootingMethod string

const (
	ShootingMethodNormal          ShootingMethod = "normal"
	ShootingMethodInterval        ShootingMethod = "interval"
	ShootingMethodMoveInterval    ShootingMethod = "moveInterval"
	ShootingMethodFixedInterval   ShootingMethod = "fixedInterval"
	ShootingMethodBracket         ShootingMethod = "bracket"
	ShootingMethodComposite       ShootingMethod = "composite"
	ShootingMethodContinuous      ShootingMethod = "continuous"
	ShootingMethodTimeShift       ShootingMethod = "timeShift"
	ShootingMethodTimeShiftManual ShootingMethod = "timeShiftManual"
	ShootingMethodBurst           ShootingMethod = "burst"
)

// ExposureProgram is the exposureProgram option.
type ExposureProgram int

const (
	ExposureProgramManual           ExposureProgram = 1
	ExposureProgramNormalProgram    ExposureProgram = 2
	ExposureProgramAperturePriority ExposureProgram = 3
	ExposureProgramShutterPriority  ExposureProgram = 4
	ExposureProgramISOPriority      ExposureProgram = 9
)

// WhiteBalance is the whiteBalance option.
type WhiteBalance string

const (
	WhiteBalanceAuto             WhiteBalance = "auto"
	WhiteBalanceDaylight         WhiteBalance = "daylight"
	WhiteBalanceShade            WhiteBalance = "shade"
	WhiteBalanceCloudyDaylight   WhiteBalance = "cloudy-daylight"
	WhiteBalanceIncandescent     WhiteBalance = "incandescent"
	WhiteBalanceWarmWhiteFluor   WhiteBalance = "_warmWhiteFluorescent"
	WhiteBalanceDaylightFluor    WhiteBalance = "_dayLightFluorescent"
	WhiteBalanceDayWhiteFluor    WhiteBalance = "_dayWhiteFluorescent"
	WhiteBalanceFluorescent      WhiteBalance = "fluorescent"
	WhiteBalanceBulbFluorescent  WhiteBalance = "_bulbFluorescent"
	WhiteBalanceColorTemperature WhiteBalance = "_colorTemperature"
	WhiteBalanceUnderwater       WhiteBalance = "_underwater"
)

// WhiteBalanceAutoStrength is the _whiteBalanceAutoStrength option.
type WhiteBalanceAutoStrength string

const (
	WhiteBalanceAutoStrengthOn  WhiteBalanceAutoStrength = "ON"
	WhiteBalanceAutoStrengthOff WhiteBalanceAutoStrength = "OFF"
)

// Filter is the _filter option (image processing).
type Filter string

const (
	FilterOff         Filter = "off"
	FilterDRComp      Filter = "DR Comp"
	FilterNoiseReduce Filter = "Noise Reduction"
	FilterHDR         Filter = "hdr"
	FilterHHHDR       Filter = "Hh hdr"
)

// Preset is the _preset option.
type Preset string

const (
	PresetFace       Preset = "face"
	PresetNightView  Preset = "nightView"
	PresetLensByLens Preset = "lensbylensExposure"
	PresetRoom       Preset = "room"
)

// BurstMode is the _burstMode option.
type BurstMode string

const (
	BurstModeOn  BurstMode = "ON"
	BurstModeOff BurstMode = "OFF"
)

// ContinuousNumber is the continuousNumber option (THETA X).
type ContinuousNumber string

const (
	ContinuousNumberOff   ContinuousNumber = "off"
	ContinuousNumberMax1  ContinuousNumber = "MAX_1"
	ContinuousNumberMax2  ContinuousNumber = "MAX_2"
	ContinuousNumberMax3  ContinuousNumber = "MAX_3"
	ContinuousNumberMax10 ContinuousNumber = "MAX_10"
	ContinuousNumberMax20 ContinuousNumber = "MAX_20"
)

// MaxRecordableTime is the _maxRecordableTime option in seconds.
type MaxRecordableTime int

const (
	MaxRecordableTime180  MaxRecordableTime = 180
	MaxRecordableTime300  MaxRecordableTime = 300
	MaxRecordableTime1500 MaxRecordableTime = 1500
	MaxRecordableTime3000 MaxRecordableTime = 3000
	MaxRecordableTime7200 MaxRecordableTime = 7200
)

// GpsTagRecording is the _gpsTagRecording option.
type GpsTagRecording string

const (
	GpsTagRecordingOn  GpsTagRecording = "on"
	GpsTagRecordingOff GpsTagRecording = "off"
)

// ISO values. 0 means automatic.
const (
	ISOAuto = 0
)

// Aperture values. 0 means automatic.
const (
	ApertureAuto = 0.0
	Aperture2_0  = 2.0
	Aperture2_1  = 2.1
	Aperture2_4  = 2.4
	Aperture3_5  = 3.5
	Aperture5_6  = 5.6
)
