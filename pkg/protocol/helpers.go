package protocol

import "time"

// =============================================================================
// Message Constructors
// =============================================================================

// NewStartedMessage creates a session started event
func NewStartedMessage(ref SessionRef, model string) (*Message, error) {
	return NewMessage(TypeStarted, StartedData{SessionRef: ref, Model: model})
}

// NewProgressMessage creates a progress event
func NewProgressMessage(ref SessionRef, completion float64) (*Message, error) {
	return NewMessage(TypeProgress, ProgressData{SessionRef: ref, Completion: completion})
}

// NewCapturingMessage creates a capture status event
func NewCapturingMessage(ref SessionRef, status string) (*Message, error) {
	return NewMessage(TypeCapturing, CapturingData{SessionRef: ref, Status: status})
}

// NewCompletedMessage creates a completion event for a single file
func NewCompletedMessage(ref SessionRef, fileURL string) (*Message, error) {
	return NewMessage(TypeCompleted, CompletedData{
		SessionRef: ref,
		FileURL:    fileURL,
		Canceled:   fileURL == "",
	})
}

// NewCompletedListMessage creates a completion event for a file list.
// A nil list is a cancellation; an empty list is a capture whose files the
// camera did not report.
func NewCompletedListMessage(ref SessionRef, fileURLs []string) (*Message, error) {
	return NewMessage(TypeCompleted, CompletedData{
		SessionRef: ref,
		FileURLs:   fileURLs,
		Canceled:   fileURLs == nil,
	})
}

// NewFailedMessage creates a failure event
func NewFailedMessage(ref SessionRef, kind, code, message string) (*Message, error) {
	return NewMessage(TypeFailed, FailedData{SessionRef: ref, Kind: kind, Code: code, Message: message})
}

// NewStopFailedMessage creates a stop failure event
func NewStopFailedMessage(ref SessionRef, kind, code, message string) (*Message, error) {
	return NewMessage(TypeStopFailed, FailedData{SessionRef: ref, Kind: kind, Code: code, Message: message})
}

// NewPingMessage creates a ping message
func NewPingMessage(id string) (*Message, error) {
	return NewMessage(TypePing, PingData{ID: id})
}

// NewPongMessage creates a pong response
func NewPongMessage(id string, pingTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{
		ID:     id,
		PingTS: pingTS,
		PongTS: time.Now().UnixMilli(),
	})
}

// =============================================================================
// Data Extractors
// =============================================================================

// GetProgressData extracts progress data from a message
func (m *Message) GetProgressData() (*ProgressData, error) {
	var data ProgressData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetCapturingData extracts capture status data from a message
func (m *Message) GetCapturingData() (*CapturingData, error) {
	var data CapturingData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetCompletedData extracts completion data from a message
func (m *Message) GetCompletedData() (*CompletedData, error) {
	var data CompletedData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetFailedData extracts failure data from a failed or stopFailed message
func (m *Message) GetFailedData() (*FailedData, error) {
	var data FailedData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetSessionRef extracts the session reference common to all capture events
func (m *Message) GetSessionRef() (*SessionRef, error) {
	var data SessionRef
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}
