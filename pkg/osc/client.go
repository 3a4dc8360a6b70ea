package osc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/teslashibe/go-theta/internal/httpc"
	"github.com/teslashibe/go-theta/pkg/theta"
)

// DefaultEndpoint is the camera address in access point mode.
const DefaultEndpoint = "http://192.168.1.1"

// Client talks to a camera over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithTimeout uses a dedicated HTTP client with the given timeout.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.httpClient = httpc.NewClient(d)
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = l
	}
}

// NewClient creates a client for the camera at endpoint, e.g.
// "http://192.168.1.1". A bare host is accepted and given the http scheme.
func NewClient(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	c := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: httpc.Client,
		logger:     slog.Default().With("component", "osc"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the camera base URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type executeRequest struct {
	Name       string `json:"name"`
	Parameters any    `json:"parameters,omitempty"`
}

type statusRequest struct {
	ID string `json:"id"`
}

type setOptionsParams struct {
	Options theta.Options `json:"options"`
}

// StartCapture issues camera.startCapture.
func (c *Client) StartCapture(ctx context.Context, params StartCaptureParams) (*CommandResponse, error) {
	return c.execute(ctx, CommandStartCapture, params)
}

// TakePicture issues camera.takePicture.
func (c *Client) TakePicture(ctx context.Context) (*CommandResponse, error) {
	return c.execute(ctx, CommandTakePicture, nil)
}

// StopCapture issues camera.stopCapture.
func (c *Client) StopCapture(ctx context.Context) (*CommandResponse, error) {
	return c.execute(ctx, CommandStopCapture, nil)
}

// SetOptions issues camera.setOptions.
func (c *Client) SetOptions(ctx context.Context, options theta.Options) (*CommandResponse, error) {
	return c.execute(ctx, CommandSetOptions, setOptionsParams{Options: options})
}

// Status polls a command started earlier.
func (c *Client) Status(ctx context.Context, id string) (*CommandResponse, error) {
	var resp CommandResponse
	if err := c.post(ctx, "/osc/commands/status", statusRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// State fetches the camera state.
func (c *Client) State(ctx context.Context) (*StateResponse, error) {
	var resp StateResponse
	if err := c.post(ctx, "/osc/state", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Info fetches the camera information.
func (c *Client) Info(ctx context.Context) (*InfoResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/osc/info", nil)
	if err != nil {
		return nil, fmt.Errorf("osc: build request: %w", err)
	}
	var resp InfoResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) execute(ctx context.Context, name string, params any) (*CommandResponse, error) {
	var resp CommandResponse
	if err := c.post(ctx, "/osc/commands/execute", executeRequest{Name: name, Parameters: params}, &resp); err != nil {
		return nil, err
	}
	c.logger.Debug("command executed", "name", name, "id", resp.ID, "state", resp.State)
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	var rd io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("osc: marshal %s: %w", path, err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, rd)
	if err != nil {
		return fmt.Errorf("osc: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	return c.do(req, out)
}

// do sends req and decodes a 200 body into out. Non-200 replies become a
// *WebAPIError carrying the OSC error body when one is present.
func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Classify(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Classify(err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &WebAPIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var body CommandResponse
		if json.Unmarshal(data, &body) == nil && body.Error != nil {
			apiErr.Code = body.Error.Code
			apiErr.Message = body.Error.Message
		}
		c.logger.Debug("camera returned error", "path", req.URL.Path, "status", resp.StatusCode, "code", apiErr.Code)
		return apiErr
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return &NotConnectedError{Err: ErrEmptyResponse}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return Classify(fmt.Errorf("decode %s: %w", req.URL.Path, err))
	}
	return nil
}

// Verify Client implements Transport at compile time.
var _ Transport = (*Client)(nil)
