// Package web provides the capture bridge: a REST surface for starting and
// controlling capture sessions, plus a websocket stream of their events.
package web

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/teslashibe/go-theta/pkg/camera"
	"github.com/teslashibe/go-theta/pkg/hub"
	"github.com/teslashibe/go-theta/pkg/osc"
	"github.com/teslashibe/go-theta/pkg/theta"
)

// EventsPath is the websocket endpoint for capture events.
const EventsPath = "/ws/events"

// Server is the capture bridge server
type Server struct {
	app       *fiber.App
	addr      string
	transport osc.Transport
	interval  time.Duration
	logger    *slog.Logger

	// Camera model, resolved from /osc/info when not configured
	model   theta.Model
	modelMu sync.Mutex

	// Broadcast hub for /ws/events
	events *hub.Hub

	sessions *registry

	// Capture defaults merged under every request
	settings *camera.Manager

	// Parent context of every capture session
	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a Server
type Option func(*Server)

// WithModel fixes the camera model instead of querying the camera.
func WithModel(m theta.Model) Option {
	return func(s *Server) {
		s.model = m
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSettings sets the capture defaults manager
func WithSettings(m *camera.Manager) Option {
	return func(s *Server) {
		if m != nil {
			s.settings = m
		}
	}
}

// WithCheckInterval sets the polling interval of started sessions.
func WithCheckInterval(d time.Duration) Option {
	return func(s *Server) {
		s.interval = d
	}
}

// NewServer creates a bridge server for the camera behind transport
func NewServer(addr string, transport osc.Transport, opts ...Option) *Server {
	s := &Server{
		addr:      addr,
		transport: transport,
		logger:    slog.Default(),
		sessions:  newRegistry(),
		settings:  camera.NewManager(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "bridge")
	s.events = hub.New("events", s.logger)
	s.ctx, s.cancel = context.WithCancel(context.Background())

	app := fiber.New(fiber.Config{
		AppName:               "THETA Bridge",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	// CORS for local development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/info", s.handleInfo)
	api.Get("/state", s.handleState)
	api.Get("/settings", s.handleGetSettings)
	api.Put("/settings", s.handleUpdateSettings)
	api.Get("/settings/presets", s.handleListPresets)
	api.Get("/captures", s.handleListCaptures)
	api.Post("/captures/:mode", s.handleStartCapture)
	api.Get("/captures/:id", s.handleGetCapture)
	api.Post("/captures/:id/stop", s.handleStopCapture)
	api.Post("/captures/:id/second", s.handleSecondCapture)

	s.events.RegisterRoutes(app, EventsPath)

	s.app = app
	return s
}

// App returns the underlying Fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Start listens on the configured address and serves until ctx is done
// or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done or the listener fails.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.events.Run(hubCtx)

	go func() {
		<-hubCtx.Done()
		s.Shutdown()
	}()

	s.logger.Info("bridge listening", "addr", ln.Addr().String(), "camera", s.cameraDesc())
	return s.app.Listener(ln)
}

// Shutdown cancels running sessions and stops the server
func (s *Server) Shutdown() error {
	s.cancel()
	return s.app.Shutdown()
}

// Settings returns the capture defaults manager
func (s *Server) Settings() *camera.Manager {
	return s.settings
}

// Events returns the broadcast hub
func (s *Server) Events() *hub.Hub {
	return s.events
}

func (s *Server) cameraDesc() string {
	if c, ok := s.transport.(*osc.Client); ok {
		return c.Endpoint()
	}
	return "custom"
}

// resolveModel returns the configured model or asks the camera once.
func (s *Server) resolveModel(ctx context.Context) (theta.Model, error) {
	s.modelMu.Lock()
	defer s.modelMu.Unlock()

	if s.model != "" {
		return s.model, nil
	}
	info, err := s.transport.Info(ctx)
	if err != nil {
		return "", osc.Classify(err)
	}
	s.model = info.CameraModel()
	s.logger.Info("camera detected", "model", string(s.model))
	return s.model, nil
}
