package web

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teslashibe/go-theta/pkg/capture"
	"github.com/teslashibe/go-theta/pkg/hub"
	"github.com/teslashibe/go-theta/pkg/osc"
	"github.com/teslashibe/go-theta/pkg/protocol"
	"github.com/teslashibe/go-theta/pkg/theta"
)

// Session lifecycle as reported by the bridge
const (
	StatusStarting  = "starting"
	StatusCapturing = "capturing"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
	StatusEnded     = "ended"
	StatusFailed    = "failed"
)

// Modes the camera can end by itself, with no file to report. An empty
// result in these modes is StatusEnded unless a stop was requested.
var endsOnIdle = map[string]bool{
	ModeVideo:             true,
	ModeLimitlessInterval: true,
}

// Error kinds
const (
	KindDevice       = "device"
	KindNotConnected = "notConnected"
	KindOther        = "other"
)

// ErrorInfo describes a session or stop failure
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// Snapshot is the bridge's view of one capture session
type Snapshot struct {
	ID              string     `json:"id"`
	Mode            string     `json:"mode"`
	Model           string     `json:"model"`
	Status          string     `json:"status"`
	CaptureStatus   string     `json:"captureStatus,omitempty"`
	Progress        float64    `json:"progress"`
	FileURL         string     `json:"fileUrl,omitempty"`
	FileURLs        []string   `json:"fileUrls,omitempty"`
	Error           *ErrorInfo `json:"error,omitempty"`
	StopError       *ErrorInfo `json:"stopError,omitempty"`
	SecondAvailable bool       `json:"secondAvailable,omitempty"`
	StartedAt       time.Time  `json:"startedAt"`
	FinishedAt      *time.Time `json:"finishedAt,omitempty"`
}

// secondCapturer is implemented by handles with a second phase
type secondCapturer interface {
	IsAvailableSecondCapture() bool
	StartSecondCapture()
}

// entry tracks one session. Callbacks run on the session goroutine, HTTP
// handlers on fiber's; mu guards snap.
type entry struct {
	mu     sync.Mutex
	snap   Snapshot
	handle capture.Handle
	second secondCapturer
	events *hub.Hub

	stopRequested bool
}

func (e *entry) ref() protocol.SessionRef {
	return protocol.SessionRef{ID: e.snap.ID, Mode: e.snap.Mode}
}

func (e *entry) snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := e.snap
	if e.second != nil {
		snap.SecondAvailable = e.second.IsAvailableSecondCapture()
	}
	return snap
}

func (e *entry) bind(h capture.Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handle = h
	if sc, ok := h.(secondCapturer); ok {
		e.second = sc
	}
}

// requestStop records a caller stop and returns the handle to stop.
func (e *entry) requestStop() capture.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handle != nil {
		e.stopRequested = true
	}
	return e.handle
}

// emptyStatus must be called with mu held.
func (e *entry) emptyStatus() string {
	if endsOnIdle[e.snap.Mode] && !e.stopRequested {
		return StatusEnded
	}
	return StatusCanceled
}

func (e *entry) controls() (capture.Handle, secondCapturer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.handle, e.second
}

func (e *entry) publish(msg *protocol.Message, err error) {
	if err != nil {
		return
	}
	e.events.BroadcastMessage(msg)
}

func (e *entry) onProgress(completion float64) {
	e.mu.Lock()
	e.snap.Progress = completion
	ref := e.ref()
	e.mu.Unlock()
	e.publish(protocol.NewProgressMessage(ref, completion))
}

func (e *entry) onCapturing(status theta.CaptureStatus) {
	e.mu.Lock()
	e.snap.Status = StatusCapturing
	e.snap.CaptureStatus = string(status)
	ref := e.ref()
	e.mu.Unlock()
	e.publish(protocol.NewCapturingMessage(ref, string(status)))
}

func (e *entry) onFile(fileURL string) {
	e.mu.Lock()
	e.finish(StatusCompleted)
	if fileURL == "" {
		e.snap.Status = e.emptyStatus()
	}
	e.snap.FileURL = fileURL
	ref := e.ref()
	e.mu.Unlock()
	e.publish(protocol.NewCompletedMessage(ref, fileURL))
}

func (e *entry) onFiles(fileURLs []string) {
	e.mu.Lock()
	e.finish(StatusCompleted)
	if fileURLs == nil {
		e.snap.Status = e.emptyStatus()
	}
	e.snap.FileURLs = fileURLs
	ref := e.ref()
	e.mu.Unlock()
	e.publish(protocol.NewCompletedListMessage(ref, fileURLs))
}

func (e *entry) onFailed(err error) {
	info := describe(err)
	e.mu.Lock()
	e.finish(StatusFailed)
	e.snap.Error = info
	ref := e.ref()
	e.mu.Unlock()
	e.publish(protocol.NewFailedMessage(ref, info.Kind, info.Code, info.Message))
}

func (e *entry) onStopFailed(err error) {
	info := describe(err)
	e.mu.Lock()
	e.snap.StopError = info
	ref := e.ref()
	e.mu.Unlock()
	e.publish(protocol.NewStopFailedMessage(ref, info.Kind, info.Code, info.Message))
}

// finish must be called with mu held.
func (e *entry) finish(status string) {
	now := time.Now()
	e.snap.Status = status
	e.snap.FinishedAt = &now
}

func (e *entry) fileCallback() capture.FileCallback {
	return capture.CallbackFuncs[string]{
		Progress:   e.onProgress,
		Capturing:  e.onCapturing,
		Completed:  e.onFile,
		Failed:     e.onFailed,
		StopFailed: e.onStopFailed,
	}
}

func (e *entry) filesCallback() capture.FilesCallback {
	return capture.CallbackFuncs[[]string]{
		Progress:   e.onProgress,
		Capturing:  e.onCapturing,
		Completed:  e.onFiles,
		Failed:     e.onFailed,
		StopFailed: e.onStopFailed,
	}
}

// describe maps an error onto the bridge's error taxonomy
func describe(err error) *ErrorInfo {
	var apiErr *osc.WebAPIError
	switch {
	case errors.As(err, &apiErr):
		return &ErrorInfo{Kind: KindDevice, Code: apiErr.Code, Message: apiErr.Message}
	case osc.IsNotConnected(err):
		return &ErrorInfo{Kind: KindNotConnected, Message: err.Error()}
	default:
		return &ErrorInfo{Kind: KindOther, Message: err.Error()}
	}
}

// registry holds every session started by the bridge
type registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func newRegistry() *registry {
	return &registry{entries: make(map[string]*entry)}
}

func (r *registry) create(mode string, model theta.Model, events *hub.Hub) *entry {
	e := &entry{
		snap: Snapshot{
			ID:        uuid.NewString(),
			Mode:      mode,
			Model:     string(model),
			Status:    StatusStarting,
			StartedAt: time.Now(),
		},
		events: events,
	}
	r.mu.Lock()
	r.entries[e.snap.ID] = e
	r.mu.Unlock()
	return e
}

func (r *registry) get(id string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

// list returns snapshots ordered by start time
func (r *registry) list() []Snapshot {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	snaps := make([]Snapshot, 0, len(entries))
	for _, e := range entries {
		snaps = append(snaps, e.snapshot())
	}
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].StartedAt.Before(snaps[j].StartedAt)
	})
	return snaps
}
