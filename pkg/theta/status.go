package theta

// CaptureStatus is the _captureStatus value reported by /osc/state.
type CaptureStatus string

const (
	CaptureStatusUnknown                     CaptureStatus = "unknown"
	CaptureStatusIdle                        CaptureStatus = "idle"
	CaptureStatusShooting                    CaptureStatus = "shooting"
	CaptureStatusSelfTimerCountdown          CaptureStatus = "self-timer countdown"
	CaptureStatusBracketShooting             CaptureStatus = "bracket shooting"
	CaptureStatusConverting                  CaptureStatus = "converting"
	CaptureStatusTimeShiftShooting           CaptureStatus = "timeShiftShooting"
	CaptureStatusTimeShiftShootingIdle       CaptureStatus = "timeShiftShootingIdle"
	CaptureStatusContinuousShooting          CaptureStatus = "continuousShooting"
	CaptureStatusRetrospectiveImageRecording CaptureStatus = "retrospectiveImageRecording"
	CaptureStatusBurstShooting               CaptureStatus = "burstShooting"
)

var captureStatuses = map[CaptureStatus]bool{
	CaptureStatusIdle:                        true,
	CaptureStatusShooting:                    true,
	CaptureStatusSelfTimerCountdown:          true,
	CaptureStatusBracketShooting:             true,
	CaptureStatusConverting:                  true,
	CaptureStatusTimeShiftShooting:           true,
	CaptureStatusTimeShiftShootingIdle:       true,
	CaptureStatusContinuousShooting:          true,
	CaptureStatusRetrospectiveImageRecording: true,
	CaptureStatusBurstShooting:               true,
}

// Known reports whether s is a status this package recognizes.
func (s CaptureStatus) Known() bool {
	return captureStatuses[s]
}

// Normalize returns s, or CaptureStatusUnknown for unrecognized values.
func (s CaptureStatus) Normalize() CaptureStatus {
	if s.Known() {
		return s
	}
	return CaptureStatusUnknown
}

// IsIdle reports whether the camera is not capturing.
func (s CaptureStatus) IsIdle() bool {
	return s == CaptureStatusIdle
}
