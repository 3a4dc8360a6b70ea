package httpc

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClientTimeout(t *testing.T) {
	c := NewClient(5 * time.Second)
	if c.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", c.Timeout)
	}
	if c.Transport == nil {
		t.Fatal("Transport should be set")
	}
}

func TestNewClientZeroTimeout(t *testing.T) {
	if c := NewClient(0); c.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", c.Timeout, DefaultTimeout)
	}
}

func TestNewTransportSizedForCamera(t *testing.T) {
	tr := NewTransport()
	if tr.MaxConnsPerHost != MaxConnsPerCamera || tr.MaxIdleConnsPerHost != MaxConnsPerCamera {
		t.Errorf("conns = %d/%d, want %d", tr.MaxConnsPerHost, tr.MaxIdleConnsPerHost, MaxConnsPerCamera)
	}
	if !tr.DisableCompression {
		t.Error("DisableCompression = false")
	}
	if tr.IdleConnTimeout != DefaultIdleConnTimeout {
		t.Errorf("IdleConnTimeout = %v", tr.IdleConnTimeout)
	}
}

func TestSharedClientDefaults(t *testing.T) {
	if Client.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", Client.Timeout, DefaultTimeout)
	}
}

func TestDo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("StatusCode = %d, want 204", resp.StatusCode)
	}
}
