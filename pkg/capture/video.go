package capture

import (
	"context"

	"github.com/teslashibe/go-theta/pkg/osc"
	"github.com/teslashibe/go-theta/pkg/theta"
)

// VideoCaptureBuilder builds a video recording.
type VideoCaptureBuilder struct {
	Builder[VideoCaptureBuilder]
}

// NewVideoCaptureBuilder creates a video builder.
func NewVideoCaptureBuilder(t osc.Transport, model theta.Model) *VideoCaptureBuilder {
	b := &VideoCaptureBuilder{}
	b.Builder = newBuilder(b, t, model)
	return b
}

// SetMaxRecordableTime limits the recording length.
func (b *VideoCaptureBuilder) SetMaxRecordableTime(v theta.MaxRecordableTime) *VideoCaptureBuilder {
	b.options.MaxRecordableTime = &v
	return b
}

// SetBitRate sets the _bitrate option ("Fine", "Normal", "Economy" or a
// number of bits per second).
func (b *VideoCaptureBuilder) SetBitRate(v string) *VideoCaptureBuilder {
	b.options.BitRate = &v
	return b
}

// Build selects the model's video mode and pushes the options.
func (b *VideoCaptureBuilder) Build(ctx context.Context) (*VideoCapture, error) {
	c, err := b.build(ctx, b.model.VideoCaptureMode(), theta.Options{})
	if err != nil {
		return nil, err
	}
	return &VideoCapture{Capture: c}, nil
}

// VideoCapture records video until stopped.
type VideoCapture struct {
	Capture
}

func (c *VideoCapture) MaxRecordableTime() *theta.MaxRecordableTime {
	return clone(c.options.MaxRecordableTime)
}

func (c *VideoCapture) BitRate() *string { return clone(c.options.BitRate) }

// StartCapture starts recording. The recording ends with StopCapture, whose
// response carries the file URL, or when the camera stops on its own. The
// camera reports no file in the second case, so the callback completes with
// "" exactly as for a canceled recording. Callers that need to tell the two
// apart track whether they called StopCapture.
func (c *VideoCapture) StartCapture(ctx context.Context, cb FileCallback) *VideoCapturing {
	h := &VideoCapturing{}
	s := newSession(&c.Capture, cb, strategy[string]{
		mode:       "video",
		start:      c.startCapture(""),
		monitored:  true,
		idle:       func(bool) (string, bool) { return "", false },
		stopResult: fileURL,
	})
	launch(ctx, s, &h.capturing)
	return h
}

// VideoCapturing controls a running recording.
type VideoCapturing struct {
	capturing
}
