package theta

import "strings"

// Model identifies a THETA camera family.
// Request shapes and completion detection vary by family.
type Model string

const (
	ModelUnknown Model = "unknown"
	ModelX       Model = "RICOH THETA X"
	ModelZ1      Model = "RICOH THETA Z1"
	ModelSC2     Model = "RICOH THETA SC2"
	ModelSC2B    Model = "RICOH THETA SC2 for business"
	ModelV       Model = "RICOH THETA V"
	ModelS       Model = "RICOH THETA S"
	ModelSC      Model = "RICOH THETA SC"
	ModelA1      Model = "RICOH360 THETA A1"
)

var knownModels = []Model{ModelSC2B, ModelSC2, ModelSC, ModelS, ModelX, ModelZ1, ModelV, ModelA1}

// ParseModel maps the model string reported by /osc/info to a Model.
// The serial number distinguishes the SC2 business edition, whose info
// model string is identical to the consumer SC2.
func ParseModel(name, serial string) Model {
	name = strings.TrimSpace(name)
	for _, m := range knownModels {
		if strings.EqualFold(name, string(m)) {
			if m == ModelSC2 && strings.HasPrefix(serial, "4") {
				return ModelSC2B
			}
			return m
		}
	}
	return ModelUnknown
}

// IsX reports whether the model is a THETA X.
// THETA X selects the shooting mode through _shootingMethod instead of
// the _mode start parameter.
func (m Model) IsX() bool {
	return m == ModelX
}

// IsSC2 reports whether the model belongs to the SC2 family.
// SC2 never reports a terminal state for multi-shot commands, so completion
// must be inferred from the capture status returning to idle.
func (m Model) IsSC2() bool {
	return m == ModelSC2 || m == ModelSC2B
}

// IsLegacy reports whether the model predates the Z1 (THETA S, SC).
func (m Model) IsLegacy() bool {
	return m == ModelS || m == ModelSC
}

// VideoCaptureMode returns the captureMode value this model uses for video.
func (m Model) VideoCaptureMode() CaptureMode {
	if m.IsX() || m == ModelA1 {
		return CaptureModeVideo
	}
	return CaptureModeVideoLegacy
}
