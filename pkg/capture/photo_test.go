package capture

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/teslashibe/go-theta/pkg/osc"
	"github.com/teslashibe/go-theta/pkg/theta"
)

func TestPhotoCapture_DefaultOptions(t *testing.T) {
	mock := osc.NewMock()
	mock.TakePictureFunc = func(context.Context) (*osc.CommandResponse, error) {
		return osc.InProgress(osc.CommandTakePicture, "1", -1), nil
	}
	mock.StatusFunc = func(_ context.Context, id string) (*osc.CommandResponse, error) {
		if id != "1" {
			t.Errorf("status id = %q, want 1", id)
		}
		return osc.Done(osc.CommandTakePicture, &osc.CommandResults{FileURL: testURL}), nil
	}

	photo, err := NewPhotoCaptureBuilder(mock, theta.ModelZ1).
		SetCheckStatusCommandInterval(testInterval).
		Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	sets := callsOf(mock, "SetOptions")
	if len(sets) != 1 {
		t.Fatalf("SetOptions called %d times, want 1", len(sets))
	}
	opts := optionsArg(t, sets[0])
	if opts.CaptureMode == nil || *opts.CaptureMode != theta.CaptureModeImage {
		t.Errorf("captureMode = %v, want image", opts.CaptureMode)
	}
	opts.CaptureMode = nil
	if !opts.IsEmpty() {
		t.Errorf("mode command carries extra options: %+v", opts)
	}

	rec := newRecorder[string]()
	photo.TakePicture(context.Background(), rec)
	if got := rec.waitCompleted(t); got != testURL {
		t.Errorf("url = %q, want %q", got, testURL)
	}
	if n := mock.CallCount("TakePicture"); n != 1 {
		t.Errorf("TakePicture called %d times", n)
	}
	if n := mock.CallCount("Status"); n != 1 {
		t.Errorf("Status called %d times, want 1", n)
	}
}

func TestPhotoCapture_Options(t *testing.T) {
	mock := osc.NewMock()
	photo, err := NewPhotoCaptureBuilder(mock, theta.ModelZ1).
		SetISO(400).
		SetWhiteBalance(theta.WhiteBalanceDaylight).
		SetFileFormat(theta.FileFormatImage6_7K).
		SetExposureProgram(theta.ExposureProgramShutterPriority).
		Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	sets := callsOf(mock, "SetOptions")
	if len(sets) != 2 {
		t.Fatalf("SetOptions called %d times, want 2", len(sets))
	}
	batch := optionsArg(t, sets[1])
	if batch.ISO == nil || *batch.ISO != 400 {
		t.Errorf("iso = %v", batch.ISO)
	}
	if batch.FileFormat == nil || *batch.FileFormat != theta.FileFormatImage6_7K {
		t.Errorf("fileFormat = %v", batch.FileFormat)
	}

	if got := photo.ISO(); got == nil || *got != 400 {
		t.Errorf("ISO() = %v", got)
	}
	if got := photo.Aperture(); got != nil {
		t.Errorf("Aperture() = %v, want nil", *got)
	}
	if got := photo.WhiteBalance(); got == nil || *got != theta.WhiteBalanceDaylight {
		t.Errorf("WhiteBalance() = %v", got)
	}
	if photo.Model() != theta.ModelZ1 {
		t.Errorf("Model() = %q", photo.Model())
	}
}

func TestPhotoCapture_ProgressForwarded(t *testing.T) {
	mock := osc.NewMock()
	mock.TakePictureFunc = func(context.Context) (*osc.CommandResponse, error) {
		return osc.InProgress(osc.CommandTakePicture, "1", -1), nil
	}
	mock.StatusFunc = responses(
		osc.InProgress(osc.CommandTakePicture, "1", 0.2),
		osc.InProgress(osc.CommandTakePicture, "1", 0.5),
		osc.InProgress(osc.CommandTakePicture, "1", -1),
		osc.InProgress(osc.CommandTakePicture, "1", 1),
		osc.Done(osc.CommandTakePicture, &osc.CommandResults{FileURL: testURL}),
	)

	photo, err := NewPhotoCaptureBuilder(mock, theta.ModelZ1).SetCheckStatusCommandInterval(testInterval).Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	rec := newRecorder[string]()
	photo.TakePicture(context.Background(), rec)
	rec.waitCompleted(t)

	want := []float64{0.2, 0.5, 0, 1}
	if got := rec.Progress(); !reflect.DeepEqual(got, want) {
		t.Errorf("progress = %v, want %v", got, want)
	}
}

func TestPhotoCapture_Outcomes(t *testing.T) {
	tests := []struct {
		name       string
		status     *osc.CommandResponse
		statusErr  error
		wantURL    string
		wantFail   bool
		wantNotCon bool
	}{
		{
			name:    "canceled shooting is not a failure",
			status:  osc.Failed(osc.CommandTakePicture, osc.CodeCanceledShooting, "canceled"),
			wantURL: "",
		},
		{
			name:     "device error fails",
			status:   osc.Failed(osc.CommandTakePicture, "unexpected", "lens error"),
			wantFail: true,
		},
		{
			name:       "transport error fails as not connected",
			statusErr:  errors.New("connection reset"),
			wantFail:   true,
			wantNotCon: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := osc.NewMock()
			mock.TakePictureFunc = func(context.Context) (*osc.CommandResponse, error) {
				return osc.InProgress(osc.CommandTakePicture, "1", -1), nil
			}
			mock.StatusFunc = func(context.Context, string) (*osc.CommandResponse, error) {
				return tt.status, tt.statusErr
			}
			photo, err := NewPhotoCaptureBuilder(mock, theta.ModelZ1).SetCheckStatusCommandInterval(testInterval).Build(context.Background())
			if err != nil {
				t.Fatalf("Build: %v", err)
			}

			rec := newRecorder[string]()
			photo.TakePicture(context.Background(), rec)
			if !tt.wantFail {
				if got := rec.waitCompleted(t); got != tt.wantURL {
					t.Errorf("url = %q, want %q", got, tt.wantURL)
				}
				return
			}
			err = rec.waitFailed(t)
			var apiErr *osc.WebAPIError
			if tt.wantNotCon && !osc.IsNotConnected(err) {
				t.Errorf("err = %v, want not connected", err)
			}
			if !tt.wantNotCon && !errors.As(err, &apiErr) {
				t.Errorf("err = %v, want *WebAPIError", err)
			}
		})
	}
}

func TestPhotoCapture_StartError(t *testing.T) {
	mock := osc.NewMock()
	mock.TakePictureFunc = func(context.Context) (*osc.CommandResponse, error) {
		return nil, &osc.WebAPIError{StatusCode: 400, Code: "disabledCommand", Message: "busy"}
	}
	photo, err := NewPhotoCaptureBuilder(mock, theta.ModelZ1).Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	rec := newRecorder[string]()
	photo.TakePicture(context.Background(), rec)
	err = rec.waitFailed(t)
	if err.Error() != "osc: camera error (disabledCommand): busy" {
		t.Errorf("message = %q", err.Error())
	}
	if n := mock.CallCount("Status"); n != 0 {
		t.Errorf("Status called %d times after start error", n)
	}
}

func TestBuild_FailureAbortsConstruction(t *testing.T) {
	deviceErr := &osc.WebAPIError{StatusCode: 400, Code: "invalidParameterValue", Message: "bad option"}

	t.Run("capture mode", func(t *testing.T) {
		mock := osc.NewMock()
		mock.SetOptionsFunc = func(context.Context, theta.Options) (*osc.CommandResponse, error) {
			return nil, deviceErr
		}
		photo, err := NewPhotoCaptureBuilder(mock, theta.ModelZ1).SetISO(100).Build(context.Background())
		if photo != nil {
			t.Error("Build returned a capture")
		}
		if !errors.Is(err, deviceErr) {
			t.Errorf("err = %v, want device error", err)
		}
		if n := mock.CallCount("SetOptions"); n != 1 {
			t.Errorf("SetOptions called %d times, want 1", n)
		}
	})

	t.Run("options batch", func(t *testing.T) {
		mock := osc.NewMock()
		mock.SetOptionsFunc = func(_ context.Context, o theta.Options) (*osc.CommandResponse, error) {
			if o.ISO != nil {
				return osc.Failed(osc.CommandSetOptions, "invalidParameterValue", "bad iso"), nil
			}
			return osc.Done(osc.CommandSetOptions, nil), nil
		}
		video, err := NewVideoCaptureBuilder(mock, theta.ModelZ1).SetISO(1).Build(context.Background())
		if video != nil {
			t.Error("Build returned a capture")
		}
		var apiErr *osc.WebAPIError
		if !errors.As(err, &apiErr) || apiErr.Code != "invalidParameterValue" {
			t.Errorf("err = %v, want invalidParameterValue", err)
		}
	})

	t.Run("not connected", func(t *testing.T) {
		mock := osc.NewMock()
		mock.SetOptionsFunc = func(context.Context, theta.Options) (*osc.CommandResponse, error) {
			return nil, context.DeadlineExceeded
		}
		_, err := NewPhotoCaptureBuilder(mock, theta.ModelZ1).Build(context.Background())
		if !osc.IsNotConnected(err) {
			t.Errorf("err = %v, want not connected", err)
		}
	})
}
