package hub

import (
	"context"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-theta/pkg/protocol"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()

	h := New("test", nil)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	h.RegisterRoutes(app, "/ws/events")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go app.Listener(ln)

	t.Cleanup(func() {
		cancel()
		app.Shutdown()
	})
	return h, "ws://" + ln.Addr().String() + "/ws/events"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("WebSocket dial error: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func waitClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("ClientCount = %d, want %d", h.ClientCount(), want)
}

func TestNew(t *testing.T) {
	h := New("bridge", nil)
	if h.ClientCount() != 0 {
		t.Error("ClientCount should be 0 initially")
	}
	if h.IsRunning() {
		t.Error("hub should not be running before Run")
	}
}

func TestBroadcastWithoutClients(t *testing.T) {
	h := New("idle", nil)

	// Broadcast to a hub that is not running should not block
	for range 300 {
		h.Broadcast(NewJSONMessage([]byte(`{}`)))
	}
	if err := h.BroadcastJSON(map[string]string{"a": "b"}); err != nil {
		t.Errorf("BroadcastJSON() error = %v", err)
	}
	if err := h.BroadcastJSON(make(chan int)); err == nil {
		t.Error("BroadcastJSON() should fail on unmarshalable value")
	}
}

func TestUpgradeRequired(t *testing.T) {
	h := New("plain", nil)
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	h.RegisterRoutes(app, "/ws/events")

	resp, err := app.Test(httptest.NewRequest("GET", "/ws/events", nil))
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Errorf("Status = %d, want %d", resp.StatusCode, fiber.StatusUpgradeRequired)
	}
}

func TestBroadcastToSubscribers(t *testing.T) {
	h, url := startHub(t)

	a := dial(t, url)
	b := dial(t, url)
	waitClients(t, h, 2)

	msg, _ := protocol.NewCapturingMessage(protocol.SessionRef{ID: "s1", Mode: "video"}, "shooting")
	if err := h.BroadcastMessage(msg); err != nil {
		t.Fatalf("BroadcastMessage() error = %v", err)
	}

	for _, ws := range []*websocket.Conn{a, b} {
		ws.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := ws.ReadMessage()
		if err != nil {
			t.Fatalf("Read error: %v", err)
		}
		got, err := protocol.ParseMessage(data)
		if err != nil {
			t.Fatalf("ParseMessage() error = %v", err)
		}
		if got.Type != protocol.TypeCapturing {
			t.Errorf("Type = %s, want capturing", got.Type)
		}
	}
}

func TestDisconnect(t *testing.T) {
	h, url := startHub(t)

	ws := dial(t, url)
	waitClients(t, h, 1)

	ws.Close()
	waitClients(t, h, 0)
}

func TestPingPong(t *testing.T) {
	h, url := startHub(t)

	ws := dial(t, url)
	waitClients(t, h, 1)

	ping, _ := protocol.NewPingMessage("p1")
	data, _ := ping.Bytes()
	if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, resp, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	msg, _ := protocol.ParseMessage(resp)
	if msg.Type != protocol.TypePong {
		t.Fatalf("Type = %s, want pong", msg.Type)
	}
	var pong protocol.PongData
	if err := msg.ParseData(&pong); err != nil {
		t.Fatalf("ParseData() error = %v", err)
	}
	if pong.ID != "p1" {
		t.Errorf("pong ID = %q, want p1", pong.ID)
	}
}

func TestRunStopClosesClients(t *testing.T) {
	h := New("stop", nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for !h.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !h.IsRunning() {
		t.Fatal("hub should be running")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if h.IsRunning() {
		t.Error("hub should not be running after cancel")
	}
}
