package capture

import (
	"context"

	"github.com/teslashibe/go-theta/pkg/osc"
	"github.com/teslashibe/go-theta/pkg/theta"
)

// PhotoCaptureBuilder builds a still image capture.
type PhotoCaptureBuilder struct {
	Builder[PhotoCaptureBuilder]
}

// NewPhotoCaptureBuilder creates a photo builder.
func NewPhotoCaptureBuilder(t osc.Transport, model theta.Model) *PhotoCaptureBuilder {
	b := &PhotoCaptureBuilder{}
	b.Builder = newBuilder(b, t, model)
	return b
}

// Build selects image mode and pushes the options.
func (b *PhotoCaptureBuilder) Build(ctx context.Context) (*PhotoCapture, error) {
	c, err := b.build(ctx, theta.CaptureModeImage, shootingMethod(b.model, theta.ShootingMethodNormal))
	if err != nil {
		return nil, err
	}
	return &PhotoCapture{Capture: c}, nil
}

// PhotoCapture takes single still images.
type PhotoCapture struct {
	Capture
}

// TakePicture issues camera.takePicture and follows it until the image
// is saved. It returns immediately; the URL arrives through cb.
func (c *PhotoCapture) TakePicture(ctx context.Context, cb FileCallback) {
	s := newSession(&c.Capture, cb, strategy[string]{
		mode:   "photo",
		start:  c.transport.TakePicture,
		result: fileURL,
	})
	s.begin(ctx, s.run)
}
