package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-theta/pkg/protocol"
)

// Subscriber reads the capture event stream of a bridge
type Subscriber struct {
	url    string
	dialer *websocket.Dialer
	logger *slog.Logger
}

// SubscriberOption configures a Subscriber
type SubscriberOption func(*Subscriber)

// WithDialer sets the websocket dialer
func WithDialer(d *websocket.Dialer) SubscriberOption {
	return func(s *Subscriber) {
		if d != nil {
			s.dialer = d
		}
	}
}

// WithSubscriberLogger sets the logger
func WithSubscriberLogger(l *slog.Logger) SubscriberOption {
	return func(s *Subscriber) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSubscriber creates a subscriber for the bridge at base, e.g.
// "http://localhost:8090" or "localhost:8090".
func NewSubscriber(base string, opts ...SubscriberOption) (*Subscriber, error) {
	u, err := eventsURL(base)
	if err != nil {
		return nil, err
	}
	s := &Subscriber{
		url:    u,
		dialer: websocket.DefaultDialer,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "subscriber")
	return s, nil
}

// URL returns the websocket URL the subscriber dials
func (s *Subscriber) URL() string {
	return s.url
}

func eventsURL(base string) (string, error) {
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid bridge address %q: %w", base, err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid bridge scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + EventsPath
	return u.String(), nil
}

// Subscribe dials the bridge and calls fn for every event until ctx is
// done, fn returns false, or the connection fails. It returns nil when
// stopped by ctx or fn.
func (s *Subscriber) Subscribe(ctx context.Context, fn func(*protocol.Message) bool) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.url, err)
	}
	defer conn.Close()
	s.logger.Info("subscribed", "url", s.url)

	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}
		msg, err := protocol.ParseMessage(data)
		if err != nil {
			s.logger.Warn("skipping malformed event", "error", err)
			continue
		}
		if !fn(msg) {
			return nil
		}
	}
}

// Errors returned by Wait
var (
	ErrSessionFailed = errors.New("capture failed")
	ErrStreamClosed  = errors.New("event stream closed")
)

// Wait follows one session until its terminal event, passing every event
// of that session to fn (which may be nil). It returns the completion
// payload, or ErrSessionFailed wrapping the failure message.
func (s *Subscriber) Wait(ctx context.Context, id string, fn func(*protocol.Message)) (*protocol.CompletedData, error) {
	var (
		result  *protocol.CompletedData
		failure error
	)
	err := s.Subscribe(ctx, func(msg *protocol.Message) bool {
		ref, err := msg.GetSessionRef()
		if err != nil || ref.ID != id {
			return true
		}
		if fn != nil {
			fn(msg)
		}
		switch msg.Type {
		case protocol.TypeCompleted:
			result, failure = msg.GetCompletedData()
			return false
		case protocol.TypeFailed:
			data, err := msg.GetFailedData()
			if err != nil {
				failure = err
			} else {
				failure = fmt.Errorf("%w: %s", ErrSessionFailed, data.Message)
			}
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if failure != nil {
		return nil, failure
	}
	if result == nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrStreamClosed
	}
	return result, nil
}
