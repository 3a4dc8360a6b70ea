// Package protocol defines the WebSocket messages the capture bridge
// streams to its subscribers.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Bridge → subscriber capture events
	TypeStarted    MessageType = "started"    // Session created
	TypeProgress   MessageType = "progress"   // Command completion fraction
	TypeCapturing  MessageType = "capturing"  // Capture status transition
	TypeCompleted  MessageType = "completed"  // Session completed or canceled
	TypeFailed     MessageType = "failed"     // Session failed
	TypeStopFailed MessageType = "stopFailed" // Stop command failed

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data any) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v any) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &msg, nil
}

// IsTerminal reports whether the message ends a capture session.
func (m *Message) IsTerminal() bool {
	return m.Type == TypeCompleted || m.Type == TypeFailed
}

// =============================================================================
// Capture event payloads
// =============================================================================

// SessionRef identifies the capture session an event belongs to.
type SessionRef struct {
	ID   string `json:"id"`
	Mode string `json:"mode"`
}

// StartedData announces a new session.
type StartedData struct {
	SessionRef
	Model string `json:"model,omitempty"`
}

// ProgressData carries a command completion fraction.
type ProgressData struct {
	SessionRef
	Completion float64 `json:"completion"` // 0.0 to 1.0
}

// CapturingData carries a capture status transition.
type CapturingData struct {
	SessionRef
	Status string `json:"status"` // e.g. "shooting", "timeShiftShootingIdle"
}

// CompletedData carries the session result. A canceled capture has
// Canceled set and no files.
type CompletedData struct {
	SessionRef
	FileURL  string   `json:"fileUrl,omitempty"`
	FileURLs []string `json:"fileUrls,omitempty"`
	Canceled bool     `json:"canceled,omitempty"`
}

// FailedData describes a failed session or stop command.
type FailedData struct {
	SessionRef
	Kind    string `json:"kind"`           // "device", "notConnected", "other"
	Code    string `json:"code,omitempty"` // OSC error code
	Message string `json:"message"`
}

// PingData is sent to check connection health
type PingData struct {
	ID string `json:"id"`
}

// PongData is the response to a ping
type PongData struct {
	ID     string `json:"id"`
	PingTS int64  `json:"ping_ts"`
	PongTS int64  `json:"pong_ts"`
}
