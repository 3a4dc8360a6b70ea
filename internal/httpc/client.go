// Package httpc provides the HTTP client used to talk to the camera.
// Use this instead of http.DefaultClient to ensure timeouts are set.
package httpc

import (
	"net"
	"net/http"
	"time"
)

// Camera link defaults. A THETA serves one client over Wi-Fi; a session
// needs at most one command and one status poll in flight.
const (
	DefaultTimeout         = 30 * time.Second
	DefaultConnectTimeout  = 5 * time.Second
	DefaultKeepAlive       = 15 * time.Second
	DefaultIdleConnTimeout = 60 * time.Second

	// MaxConnsPerCamera caps parallel requests to the device.
	MaxConnsPerCamera = 2
)

// Client is the shared camera client.
var Client = NewClient(DefaultTimeout)

// NewClient returns a client whose whole request, including reading the
// response body, is bounded by timeout. Zero means DefaultTimeout.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: NewTransport(),
	}
}

// NewTransport returns a transport sized for a single camera.
func NewTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   DefaultConnectTimeout,
		KeepAlive: DefaultKeepAlive,
	}
	return &http.Transport{
		DialContext:         dialer.DialContext,
		MaxConnsPerHost:     MaxConnsPerCamera,
		MaxIdleConnsPerHost: MaxConnsPerCamera,
		IdleConnTimeout:     DefaultIdleConnTimeout,
		// camera responses are small JSON documents
		DisableCompression: true,
	}
}

// Do sends req with the shared client.
func Do(req *http.Request) (*http.Response, error) {
	return Client.Do(req)
}
