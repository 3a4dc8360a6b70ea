package osc

import "github.com/teslashibe/go-theta/pkg/theta"

// CommandState is the state of an OSC command.
type CommandState string

const (
	StateInProgress CommandState = "inProgress"
	StateDone       CommandState = "done"
	StateError      CommandState = "error"
)

// Command names used by this package.
const (
	CommandTakePicture  = "camera.takePicture"
	CommandStartCapture = "camera.startCapture"
	CommandStopCapture  = "camera.stopCapture"
	CommandSetOptions   = "camera.setOptions"
)

// CommandProgress reports how far an in-progress command has got.
type CommandProgress struct {
	Completion *float64 `json:"completion,omitempty"`
}

// CommandResults carries the files produced by a command.
type CommandResults struct {
	FileURL  string   `json:"fileUrl,omitempty"`
	FileURLs []string `json:"fileUrls,omitempty"`
}

// CommandError is the structured error of a failed command.
type CommandError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// IsCanceled reports whether the error is the canceled-shooting code.
func (e *CommandError) IsCanceled() bool {
	return e != nil && e.Code == CodeCanceledShooting
}

// CommandResponse is the body of commands/execute and commands/status.
type CommandResponse struct {
	Name     string           `json:"name"`
	ID       string           `json:"id,omitempty"`
	State    CommandState     `json:"state"`
	Progress *CommandProgress `json:"progress,omitempty"`
	Results  *CommandResults  `json:"results,omitempty"`
	Error    *CommandError    `json:"error,omitempty"`
}

// ProgressFraction returns the completion fraction, or 0 when absent.
func (r *CommandResponse) ProgressFraction() float64 {
	if r == nil || r.Progress == nil || r.Progress.Completion == nil {
		return 0
	}
	return *r.Progress.Completion
}

// FileURL returns the single result URL, falling back to the first of a list.
// Empty when the command produced no file.
func (r *CommandResponse) FileURL() string {
	if r == nil || r.Results == nil {
		return ""
	}
	if r.Results.FileURL != "" {
		return r.Results.FileURL
	}
	if len(r.Results.FileURLs) > 0 {
		return r.Results.FileURLs[0]
	}
	return ""
}

// FileURLs returns the result URL list. A lone fileUrl is returned as a
// one-element list. Never nil, so callers can tell "completed with no
// files" from "canceled".
func (r *CommandResponse) FileURLs() []string {
	if r == nil || r.Results == nil {
		return []string{}
	}
	if len(r.Results.FileURLs) > 0 {
		return append([]string(nil), r.Results.FileURLs...)
	}
	if r.Results.FileURL != "" {
		return []string{r.Results.FileURL}
	}
	return []string{}
}

// Err converts an error-state response into a *WebAPIError.
// Returns nil for responses that are not in the error state.
func (r *CommandResponse) Err() error {
	if r == nil {
		return ErrEmptyResponse
	}
	if r.State != StateError && r.Error == nil {
		return nil
	}
	if r.Error == nil {
		return &WebAPIError{Message: "command " + r.Name + " failed"}
	}
	return &WebAPIError{Code: r.Error.Code, Message: r.Error.Message}
}

// StartCaptureParams are the parameters of camera.startCapture.
// Mode is omitted for THETA X, which takes the mode from _shootingMethod.
type StartCaptureParams struct {
	Mode theta.ShootingMode `json:"_mode,omitempty"`
}

// CameraState is the "state" object of /osc/state.
type CameraState struct {
	BatteryLevel   float64             `json:"batteryLevel"`
	CaptureStatus  theta.CaptureStatus `json:"_captureStatus"`
	RecordedTime   int                 `json:"_recordedTime"`
	RecordableTime int                 `json:"_recordableTime"`
	CapturedPics   int                 `json:"_capturedPictures"`
	LatestFileURL  string              `json:"_latestFileUrl"`
	BatteryState   string              `json:"_batteryState"`
	CameraError    []string            `json:"_cameraError,omitempty"`
}

// StateResponse is the body of /osc/state.
type StateResponse struct {
	Fingerprint string      `json:"fingerprint"`
	State       CameraState `json:"state"`
}

// InfoResponse is the body of /osc/info.
type InfoResponse struct {
	Manufacturer    string   `json:"manufacturer"`
	Model           string   `json:"model"`
	SerialNumber    string   `json:"serialNumber"`
	FirmwareVersion string   `json:"firmwareVersion"`
	SupportURL      string   `json:"supportUrl"`
	Endpoints       Endpoint `json:"endpoints"`
	APILevel        []int    `json:"apiLevel"`
	Uptime          int      `json:"uptime"`
}

// Endpoint describes the camera's HTTP ports.
type Endpoint struct {
	HTTPPort        int `json:"httpPort"`
	HTTPUpdatesPort int `json:"httpUpdatesPort"`
}

// CameraModel returns the parsed camera model.
func (i *InfoResponse) CameraModel() theta.Model {
	if i == nil {
		return theta.ModelUnknown
	}
	return theta.ParseModel(i.Model, i.SerialNumber)
}
