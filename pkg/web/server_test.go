package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/teslashibe/go-theta/pkg/osc"
	"github.com/teslashibe/go-theta/pkg/theta"
)

const (
	testInterval = 10 * time.Millisecond
	testTimeout  = 2 * time.Second
	testFile     = "http://192.168.1.1/files/100RICOH/R0010015.JPG"
)

func newTestServer(t *testing.T, mock *osc.Mock, opts ...Option) *Server {
	t.Helper()
	opts = append([]Option{WithCheckInterval(testInterval)}, opts...)
	s := NewServer("127.0.0.1:0", mock, opts...)
	t.Cleanup(func() { s.Shutdown() })
	return s
}

func request(t *testing.T, s *Server, method, path, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req, int(testTimeout/time.Millisecond))
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	defer resp.Body.Close()

	var out map[string]any
	data, _ := io.ReadAll(resp.Body)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("invalid JSON %q: %v", data, err)
		}
	}
	return resp.StatusCode, out
}

func startCapture(t *testing.T, s *Server, mode, body string) string {
	t.Helper()
	status, out := request(t, s, http.MethodPost, "/api/captures/"+mode, body)
	if status != http.StatusAccepted {
		t.Fatalf("start %s: status = %d, body = %v", mode, status, out)
	}
	id, _ := out["id"].(string)
	if id == "" {
		t.Fatalf("start %s: missing id in %v", mode, out)
	}
	return id
}

// waitStatus polls the session until it reports want
func waitStatus(t *testing.T, s *Server, id, want string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(testTimeout)
	var out map[string]any
	for time.Now().Before(deadline) {
		_, out = request(t, s, http.MethodGet, "/api/captures/"+id, "")
		if out["status"] == want {
			return out
		}
		time.Sleep(testInterval)
	}
	t.Fatalf("session %s status = %v, want %s", id, out["status"], want)
	return nil
}

func shooting(context.Context) (*osc.StateResponse, error) {
	return &osc.StateResponse{State: osc.CameraState{CaptureStatus: theta.CaptureStatusShooting}}, nil
}

func TestInfoAndState(t *testing.T) {
	s := newTestServer(t, osc.NewMock())

	status, out := request(t, s, http.MethodGet, "/api/info", "")
	if status != http.StatusOK {
		t.Fatalf("info status = %d", status)
	}
	if out["model"] != string(theta.ModelZ1) {
		t.Errorf("model = %v, want %s", out["model"], theta.ModelZ1)
	}

	status, out = request(t, s, http.MethodGet, "/api/state", "")
	if status != http.StatusOK {
		t.Fatalf("state status = %d", status)
	}
	state, _ := out["state"].(map[string]any)
	if state["_captureStatus"] != string(theta.CaptureStatusIdle) {
		t.Errorf("state = %v", out)
	}
}

func TestInfoNotConnected(t *testing.T) {
	mock := osc.NewMock()
	mock.InfoFunc = func(context.Context) (*osc.InfoResponse, error) {
		return nil, errors.New("dial tcp 192.168.1.1:80: connect: connection refused")
	}
	s := newTestServer(t, mock)

	status, out := request(t, s, http.MethodGet, "/api/info", "")
	if status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 (%v)", status, out)
	}
}

func TestPhotoCapture(t *testing.T) {
	mock := osc.NewMock()
	mock.TakePictureFunc = func(context.Context) (*osc.CommandResponse, error) {
		return osc.Done(osc.CommandTakePicture, &osc.CommandResults{FileURL: testFile}), nil
	}
	s := newTestServer(t, mock, WithModel(theta.ModelZ1))

	id := startCapture(t, s, ModePhoto, `{"options":{"exposureDelay":0}}`)
	out := waitStatus(t, s, id, StatusCompleted)
	if out["fileUrl"] != testFile {
		t.Errorf("fileUrl = %v, want %s", out["fileUrl"], testFile)
	}
	if out["mode"] != ModePhoto {
		t.Errorf("mode = %v", out["mode"])
	}

	status, list := request(t, s, http.MethodGet, "/api/captures", "")
	if status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	captures, _ := list["captures"].([]any)
	if len(captures) != 1 {
		t.Errorf("captures = %v, want 1 entry", list["captures"])
	}

	// Photo sessions have no stop handle
	status, _ = request(t, s, http.MethodPost, "/api/captures/"+id+"/stop", "")
	if status != http.StatusConflict {
		t.Errorf("stop photo status = %d, want 409", status)
	}
}

func TestVideoStop(t *testing.T) {
	mock := osc.NewMock()
	mock.StateFunc = shooting
	mock.StopCaptureFunc = func(context.Context) (*osc.CommandResponse, error) {
		return osc.Done(osc.CommandStopCapture, &osc.CommandResults{FileURL: testFile}), nil
	}
	s := newTestServer(t, mock, WithModel(theta.ModelZ1))

	id := startCapture(t, s, ModeVideo, "")
	waitStatus(t, s, id, StatusCapturing)

	status, _ := request(t, s, http.MethodPost, "/api/captures/"+id+"/stop", "")
	if status != http.StatusOK {
		t.Fatalf("stop status = %d", status)
	}
	out := waitStatus(t, s, id, StatusCompleted)
	if out["fileUrl"] != testFile {
		t.Errorf("fileUrl = %v, want %s", out["fileUrl"], testFile)
	}
	if n := mock.CallCount("StopCapture"); n != 1 {
		t.Errorf("StopCapture calls = %d, want 1", n)
	}
}

func TestVideoEndedByCamera(t *testing.T) {
	var mu sync.Mutex
	polls := 0
	mock := osc.NewMock()
	mock.StateFunc = func(ctx context.Context) (*osc.StateResponse, error) {
		mu.Lock()
		defer mu.Unlock()
		polls++
		if polls <= 3 {
			return shooting(ctx)
		}
		return &osc.StateResponse{State: osc.CameraState{CaptureStatus: theta.CaptureStatusIdle}}, nil
	}
	s := newTestServer(t, mock, WithModel(theta.ModelZ1))

	id := startCapture(t, s, ModeVideo, "")
	out := waitStatus(t, s, id, StatusEnded)
	if out["fileUrl"] != nil {
		t.Errorf("fileUrl = %v, want none", out["fileUrl"])
	}
	if n := mock.CallCount("StopCapture"); n != 0 {
		t.Errorf("StopCapture calls = %d, want 0", n)
	}
}

func TestVideoStopWithoutFileIsCanceled(t *testing.T) {
	mock := osc.NewMock()
	mock.StateFunc = shooting
	mock.StopCaptureFunc = func(context.Context) (*osc.CommandResponse, error) {
		return osc.Done(osc.CommandStopCapture, &osc.CommandResults{}), nil
	}
	s := newTestServer(t, mock, WithModel(theta.ModelZ1))

	id := startCapture(t, s, ModeVideo, "")
	waitStatus(t, s, id, StatusCapturing)
	request(t, s, http.MethodPost, "/api/captures/"+id+"/stop", "")
	waitStatus(t, s, id, StatusCanceled)
}

func TestStopFailureReported(t *testing.T) {
	mock := osc.NewMock()
	mock.StateFunc = shooting
	mock.StopCaptureFunc = func(context.Context) (*osc.CommandResponse, error) {
		return osc.Failed(osc.CommandStopCapture, "disabledCommand", "busy"), nil
	}
	s := newTestServer(t, mock, WithModel(theta.ModelZ1))

	id := startCapture(t, s, ModeLimitlessInterval, "")
	waitStatus(t, s, id, StatusCapturing)

	_, out := request(t, s, http.MethodPost, "/api/captures/"+id+"/stop", "")
	stopErr, _ := out["stopError"].(map[string]any)
	if stopErr["code"] != "disabledCommand" || stopErr["kind"] != KindDevice {
		t.Errorf("stopError = %v", out["stopError"])
	}
	if out["status"] != StatusCapturing {
		t.Errorf("status = %v, want capturing", out["status"])
	}
}

func TestStartErrors(t *testing.T) {
	tests := []struct {
		name   string
		mode   string
		body   string
		model  theta.Model
		setup  func(*osc.Mock)
		status int
	}{
		{
			name:   "unknown mode",
			mode:   "panorama",
			model:  theta.ModelZ1,
			status: http.StatusNotFound,
		},
		{
			name:   "invalid shot count",
			mode:   ModeShotCountInterval,
			body:   `{"shotCount":1}`,
			model:  theta.ModelZ1,
			status: http.StatusBadRequest,
		},
		{
			name:   "too few bracket settings",
			mode:   ModeMultiBracket,
			body:   `{"bracketSettings":[{"iso":100}]}`,
			model:  theta.ModelZ1,
			status: http.StatusBadRequest,
		},
		{
			name:   "burst without option",
			mode:   ModeBurst,
			model:  theta.ModelZ1,
			status: http.StatusBadRequest,
		},
		{
			name:   "continuous unsupported",
			mode:   ModeContinuous,
			model:  theta.ModelSC2,
			status: http.StatusBadRequest,
		},
		{
			name:   "composite without shooting time",
			mode:   ModeCompositeInterval,
			model:  theta.ModelZ1,
			status: http.StatusBadRequest,
		},
		{
			name:   "malformed body",
			mode:   ModePhoto,
			body:   `{"options":`,
			model:  theta.ModelZ1,
			status: http.StatusBadRequest,
		},
		{
			name:  "device rejects options",
			mode:  ModePhoto,
			model: theta.ModelZ1,
			setup: func(m *osc.Mock) {
				m.SetOptionsFunc = func(context.Context, theta.Options) (*osc.CommandResponse, error) {
					return osc.Failed(osc.CommandSetOptions, "invalidParameterValue", "bad option"), nil
				}
			},
			status: http.StatusBadGateway,
		},
		{
			name:  "camera unreachable",
			mode:  ModeVideo,
			model: theta.ModelZ1,
			setup: func(m *osc.Mock) {
				m.SetOptionsFunc = func(context.Context, theta.Options) (*osc.CommandResponse, error) {
					return nil, &net.OpError{Op: "dial", Err: errors.New("no route to host")}
				}
			},
			status: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := osc.NewMock()
			if tt.setup != nil {
				tt.setup(mock)
			}
			s := newTestServer(t, mock, WithModel(tt.model))

			status, out := request(t, s, http.MethodPost, "/api/captures/"+tt.mode, tt.body)
			if status != tt.status {
				t.Errorf("status = %d, want %d (%v)", status, tt.status, out)
			}
			if out["error"] == nil {
				t.Error("response should carry an error message")
			}
		})
	}
}

func TestUnknownSession(t *testing.T) {
	s := newTestServer(t, osc.NewMock())

	for _, path := range []string{"/api/captures/nope"} {
		if status, _ := request(t, s, http.MethodGet, path, ""); status != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, status)
		}
	}
	for _, path := range []string{"/api/captures/nope/stop", "/api/captures/nope/second"} {
		if status, _ := request(t, s, http.MethodPost, path, ""); status != http.StatusNotFound {
			t.Errorf("POST %s status = %d, want 404", path, status)
		}
	}
}

func TestSecondCaptureRequiresManualTimeShift(t *testing.T) {
	mock := osc.NewMock()
	mock.StateFunc = shooting
	s := newTestServer(t, mock, WithModel(theta.ModelZ1))

	id := startCapture(t, s, ModeVideo, "")
	status, _ := request(t, s, http.MethodPost, "/api/captures/"+id+"/second", "")
	if status != http.StatusConflict {
		t.Errorf("status = %d, want 409", status)
	}
}

func TestTimeShiftManualSecondCapture(t *testing.T) {
	var phase atomic.Int32
	mock := osc.NewMock()
	mock.StartCaptureFunc = func(context.Context, osc.StartCaptureParams) (*osc.CommandResponse, error) {
		if phase.Add(1) == 1 {
			return osc.InProgress(osc.CommandStartCapture, "first", -1), nil
		}
		return osc.InProgress(osc.CommandStartCapture, "second", -1), nil
	}
	mock.StatusFunc = func(_ context.Context, id string) (*osc.CommandResponse, error) {
		if id == "second" {
			return osc.Done(osc.CommandStartCapture, &osc.CommandResults{FileURL: testFile}), nil
		}
		return osc.InProgress(osc.CommandStartCapture, id, -1), nil
	}
	mock.StateFunc = func(context.Context) (*osc.StateResponse, error) {
		return &osc.StateResponse{State: osc.CameraState{CaptureStatus: theta.CaptureStatusTimeShiftShootingIdle}}, nil
	}
	s := newTestServer(t, mock, WithModel(theta.ModelZ1))

	id := startCapture(t, s, ModeTimeShiftManual, "")

	deadline := time.Now().Add(testTimeout)
	for {
		_, out := request(t, s, http.MethodGet, "/api/captures/"+id, "")
		if out["secondAvailable"] == true {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("second capture never became available: %v", out)
		}
		time.Sleep(testInterval)
	}

	status, _ := request(t, s, http.MethodPost, "/api/captures/"+id+"/second", "")
	if status != http.StatusAccepted {
		t.Fatalf("second status = %d, want 202", status)
	}
	out := waitStatus(t, s, id, StatusCompleted)
	if out["fileUrl"] != testFile {
		t.Errorf("fileUrl = %v, want %s", out["fileUrl"], testFile)
	}
}

func TestModelResolvedFromInfo(t *testing.T) {
	mock := osc.NewMock()
	mock.InfoFunc = func(context.Context) (*osc.InfoResponse, error) {
		return &osc.InfoResponse{Model: "RICOH THETA X"}, nil
	}
	mock.StateFunc = shooting
	s := newTestServer(t, mock)

	id1 := startCapture(t, s, ModeVideo, "")
	id2 := startCapture(t, s, ModeVideo, "")

	for _, id := range []string{id1, id2} {
		_, out := request(t, s, http.MethodGet, "/api/captures/"+id, "")
		if out["model"] != string(theta.ModelX) {
			t.Errorf("model = %v, want %s", out["model"], theta.ModelX)
		}
	}
	if n := mock.CallCount("Info"); n != 1 {
		t.Errorf("Info calls = %d, want 1", n)
	}
}

func TestSettings(t *testing.T) {
	mock := osc.NewMock()
	s := newTestServer(t, mock, WithModel(theta.ModelZ1))

	status, out := request(t, s, http.MethodGet, "/api/settings", "")
	if status != http.StatusOK || out["preset"] != "default" {
		t.Fatalf("GET settings = %d %v", status, out)
	}

	status, out = request(t, s, http.MethodPut, "/api/settings", `{"preset":"hdr","options":{"iso":400}}`)
	if status != http.StatusOK {
		t.Fatalf("PUT settings status = %d (%v)", status, out)
	}
	opts, _ := out["options"].(map[string]any)
	if opts["_filter"] != string(theta.FilterHDR) || opts["iso"] != float64(400) {
		t.Errorf("options = %v", opts)
	}

	status, _ = request(t, s, http.MethodPut, "/api/settings", `{"options":{"iso":3}}`)
	if status != http.StatusBadRequest {
		t.Errorf("invalid PUT status = %d, want 400", status)
	}

	status, out = request(t, s, http.MethodGet, "/api/settings/presets", "")
	if status != http.StatusOK || out["night"] == nil {
		t.Errorf("presets = %d %v", status, out)
	}
}

func TestCaptureUsesDefaults(t *testing.T) {
	mock := osc.NewMock()
	s := newTestServer(t, mock, WithModel(theta.ModelZ1))
	if err := s.Settings().Update("hdr", theta.Options{}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	id := startCapture(t, s, ModePhoto, `{"options":{"exposureDelay":2}}`)
	waitStatus(t, s, id, StatusCanceled)

	var batch *theta.Options
	for _, call := range mock.Calls() {
		if call.Method != "SetOptions" {
			continue
		}
		if o := call.Arg.(theta.Options); o.CaptureMode == nil {
			batch = &o
		}
	}
	if batch == nil {
		t.Fatal("no option batch pushed")
	}
	if batch.Filter == nil || *batch.Filter != theta.FilterHDR {
		t.Errorf("Filter = %v, want default hdr", batch.Filter)
	}
	if batch.ExposureDelay == nil || *batch.ExposureDelay != 2 {
		t.Errorf("ExposureDelay = %v, want request value 2", batch.ExposureDelay)
	}

	// A request preset replaces the defaults
	mock.Reset()
	status, out := request(t, s, http.MethodPost, "/api/captures/photo", `{"preset":"nope"}`)
	if status != http.StatusBadRequest {
		t.Errorf("unknown preset status = %d, want 400 (%v)", status, out)
	}
	status, _ = request(t, s, http.MethodPost, "/api/captures/photo", `{"options":{"iso":3}}`)
	if status != http.StatusBadRequest {
		t.Errorf("invalid options status = %d, want 400", status)
	}
}
