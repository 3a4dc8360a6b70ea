package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/go-theta/pkg/camera"
	"github.com/teslashibe/go-theta/pkg/capture"
	"github.com/teslashibe/go-theta/pkg/osc"
	"github.com/teslashibe/go-theta/pkg/protocol"
	"github.com/teslashibe/go-theta/pkg/theta"
)

// Bridge-level errors
var (
	ErrUnknownMode    = errors.New("unknown capture mode")
	ErrUnknownSession = errors.New("unknown capture session")
	ErrNotStoppable   = errors.New("capture cannot be stopped")
	ErrNoSecondPhase  = errors.New("capture has no second phase")
)

// errorHandler maps errors onto HTTP statuses and a JSON body
func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	body := fiber.Map{"error": err.Error()}

	var fe *fiber.Error
	var apiErr *osc.WebAPIError
	switch {
	case errors.As(err, &fe):
		status = fe.Code
	case errors.Is(err, capture.ErrInvalidArgument), errors.Is(err, capture.ErrUnsupported):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrUnknownMode), errors.Is(err, ErrUnknownSession):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrNotStoppable), errors.Is(err, ErrNoSecondPhase):
		status = fiber.StatusConflict
	case errors.As(err, &apiErr):
		status = fiber.StatusBadGateway
		body["code"] = apiErr.Code
	case osc.IsNotConnected(err):
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(body)
}

// handleInfo returns the camera info
func (s *Server) handleInfo(c *fiber.Ctx) error {
	info, err := s.transport.Info(c.UserContext())
	if err != nil {
		return osc.Classify(err)
	}
	return c.JSON(info)
}

// handleState returns the camera state
func (s *Server) handleState(c *fiber.Ctx) error {
	state, err := s.transport.State(c.UserContext())
	if err != nil {
		return osc.Classify(err)
	}
	return c.JSON(state)
}

// SettingsRequest is the body of PUT /api/settings
type SettingsRequest struct {
	Preset  string        `json:"preset,omitempty"`
	Options theta.Options `json:"options"`
	Replace bool          `json:"replace,omitempty"` // replace instead of overlay
}

// handleGetSettings returns the capture defaults
func (s *Server) handleGetSettings(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"preset":       s.settings.Preset(),
		"options":      s.settings.Options(),
		"capabilities": camera.Capabilities(),
	})
}

// handleUpdateSettings switches preset and/or overlays options
func (s *Server) handleUpdateSettings(c *fiber.Ctx) error {
	var req SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}

	var err error
	if req.Replace {
		err = s.settings.SetOptions(req.Options)
	} else {
		err = s.settings.Update(req.Preset, req.Options)
	}
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	s.logger.Info("capture defaults updated", "preset", s.settings.Preset())
	return s.handleGetSettings(c)
}

// handleListPresets returns the available presets
func (s *Server) handleListPresets(c *fiber.Ctx) error {
	return c.JSON(camera.Presets())
}

// handleListCaptures returns every session
func (s *Server) handleListCaptures(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"captures": s.sessions.list(),
		"modes":    Modes(),
	})
}

// handleStartCapture builds and starts a capture in the requested mode
func (s *Server) handleStartCapture(c *fiber.Ctx) error {
	mode := c.Params("mode")
	start, ok := modes[mode]
	if !ok {
		return ErrUnknownMode
	}

	var req CaptureRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
		}
	}

	options, err := s.resolveOptions(&req)
	if err != nil {
		return err
	}
	req.Options = options

	ctx := c.UserContext()
	model, err := s.resolveModel(ctx)
	if err != nil {
		return err
	}

	e := s.sessions.create(mode, model, s.events)
	log := s.logger.With("session", e.snap.ID, "mode", mode)
	e.publish(protocol.NewStartedMessage(e.ref(), string(model)))

	if err := start(s, ctx, model, &req, e); err != nil {
		log.Warn("capture not started", "error", err)
		e.onFailed(err)
		return err
	}

	log.Info("capture started", "model", string(model))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"id":   e.snap.ID,
		"mode": mode,
	})
}

// handleGetCapture returns a session snapshot
func (s *Server) handleGetCapture(c *fiber.Ctx) error {
	e, ok := s.sessions.get(c.Params("id"))
	if !ok {
		return ErrUnknownSession
	}
	return c.JSON(e.snapshot())
}

// handleStopCapture stops a running session. The camera's answer arrives
// through the session's callbacks; the response carries the snapshot at
// that point.
func (s *Server) handleStopCapture(c *fiber.Ctx) error {
	e, ok := s.sessions.get(c.Params("id"))
	if !ok {
		return ErrUnknownSession
	}
	h := e.requestStop()
	if h == nil {
		return ErrNotStoppable
	}
	h.StopCapture()
	return c.JSON(e.snapshot())
}

// handleSecondCapture triggers the second phase of a manual time-shift
func (s *Server) handleSecondCapture(c *fiber.Ctx) error {
	e, ok := s.sessions.get(c.Params("id"))
	if !ok {
		return ErrUnknownSession
	}
	_, second := e.controls()
	if second == nil {
		return ErrNoSecondPhase
	}
	if !second.IsAvailableSecondCapture() {
		return fiber.NewError(fiber.StatusConflict, "second capture not available yet")
	}
	go second.StartSecondCapture()
	return c.Status(fiber.StatusAccepted).JSON(e.snapshot())
}
