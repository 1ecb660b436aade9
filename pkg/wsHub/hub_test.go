package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Temutjin2k/qglide-admin/pkg/logger"
)

// echoServer upgrades, registers the conn in hub and echoes every message
// back through Send.
func echoServer(t *testing.T, hub *ConnectionHub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn := NewConn(context.Background(), r.URL.Query().Get("id"), raw)
		_ = hub.Add(conn)
		go func() { _ = conn.WritePump() }()
		_ = conn.Listen(func(msg json.RawMessage) error {
			return conn.Send(msg)
		})
		_ = hub.Delete(conn.ID())
	}))
}

func dial(t *testing.T, srv *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?id=" + id
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return c
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_EchoAndSendTo(t *testing.T) {
	hub := NewConnHub("test", logger.Discard())
	srv := echoServer(t, hub)
	defer srv.Close()

	client := dial(t, srv, "view-1")
	defer client.Close()
	waitFor(t, func() bool { return hub.Count() == 1 })

	if err := client.WriteJSON(map[string]string{"type": "select", "id": "t1"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var got map[string]string
	if err := client.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got["id"] != "t1" {
		t.Fatalf("unexpected echo %v", got)
	}

	if err := hub.SendTo("view-1", map[string]string{"type": "notice"}); err != nil {
		t.Fatalf("SendTo: %v", err)
	}
	if err := client.ReadJSON(&got); err != nil || got["type"] != "notice" {
		t.Fatalf("expected pushed notice, got %v (%v)", got, err)
	}

	if err := hub.SendTo("missing", nil); err != ErrConnIsNotFound {
		t.Fatalf("expected ErrConnIsNotFound, got %v", err)
	}
}

func TestHub_ClientDisconnectRemoves(t *testing.T) {
	hub := NewConnHub("test", logger.Discard())
	srv := echoServer(t, hub)
	defer srv.Close()

	client := dial(t, srv, "view-2")
	waitFor(t, func() bool { return hub.Count() == 1 })

	_ = client.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	client.Close()
	waitFor(t, func() bool { return hub.Count() == 0 })
}

func TestConn_SendAfterClose(t *testing.T) {
	hub := NewConnHub("test", logger.Discard())
	srv := echoServer(t, hub)
	defer srv.Close()

	client := dial(t, srv, "view-3")
	defer client.Close()
	waitFor(t, func() bool { return hub.Count() == 1 })

	hub.Close()
	if hub.Count() != 0 {
		t.Fatalf("hub should be empty after Close")
	}
	if err := hub.SendTo("view-3", "x"); err != ErrConnIsNotFound {
		t.Fatalf("expected ErrConnIsNotFound after close, got %v", err)
	}
}
