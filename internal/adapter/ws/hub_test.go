package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/Strob0t/PropDesk/internal/port/broadcast"
)

const (
	ownerA = "6f1c1d7e-8a2b-4c3d-9e4f-5a6b7c8d9e0f"
	ownerB = "0b9e8d7c-6a5f-4e3d-2c1b-0a9f8e7d6c5b"
)

func websocketMux(hub *Hub) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleWS)
	return mux
}

func dial(t *testing.T, srv *httptest.Server, owner string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?owner=" + owner
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = c.Close(websocket.StatusNormalClosure, "") })
	return c
}

func waitForConns(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for hub.ConnectionCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d connections, got %d", n, hub.ConnectionCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func readMessage(t *testing.T, c *websocket.Conn, timeout time.Duration) (Message, bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_, data, err := c.Read(ctx)
	if err != nil {
		return Message{}, false
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return msg, true
}

func TestNewHub(t *testing.T) {
	hub := NewHub()
	if hub.ConnectionCount() != 0 {
		t.Fatalf("expected 0 connections, got %d", hub.ConnectionCount())
	}
}

func TestHubBroadcastNoConnections(t *testing.T) {
	hub := NewHub()
	hub.Broadcast(context.Background(), Message{Type: "test", Payload: []byte(`{"key":"value"}`)})
	hub.BroadcastToOwner(context.Background(), ownerA, Message{Type: "test", Payload: []byte(`{}`)})
}

func TestHubBroadcastEventMarshalError(t *testing.T) {
	hub := NewHub()

	// A channel cannot be marshaled to JSON; should log, not panic.
	hub.BroadcastEvent(context.Background(), "bad", make(chan int))
}

func TestHubRemoveNonexistent(t *testing.T) {
	hub := NewHub()
	_, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub.remove(&conn{cancel: cancel, ownerID: ownerA})
}

func TestHubInvalidationIsOwnerScoped(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(websocketMux(hub))
	defer srv.Close()

	a := dial(t, srv, ownerA)
	b := dial(t, srv, ownerB)
	waitForConns(t, hub, 2)

	hub.BroadcastEvent(context.Background(), broadcast.EventCacheInvalidated, broadcast.CacheInvalidatedEvent{
		OwnerID:  ownerA,
		Resource: "properties",
		Keys:     []string{"properties:" + ownerA},
	})

	msg, ok := readMessage(t, a, 5*time.Second)
	if !ok {
		t.Fatal("owner A did not receive the invalidation")
	}
	if msg.Type != broadcast.EventCacheInvalidated {
		t.Fatalf("type = %q", msg.Type)
	}
	var ev broadcast.CacheInvalidatedEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if ev.Resource != "properties" || len(ev.Keys) != 1 {
		t.Fatalf("unexpected payload: %+v", ev)
	}

	if _, ok := readMessage(t, b, 200*time.Millisecond); ok {
		t.Fatal("owner B must not receive owner A's invalidation")
	}
}

func TestHubRejectsInvalidOwner(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(websocketMux(hub))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?owner=not-a-uuid"
	if _, _, err := websocket.Dial(ctx, url, nil); err == nil {
		t.Fatal("expected handshake to fail")
	}
}

func TestHubClose(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(websocketMux(hub))
	defer srv.Close()

	c := dial(t, srv, ownerA)
	waitForConns(t, hub, 1)

	hub.Close()
	if hub.ConnectionCount() != 0 {
		t.Fatalf("expected 0 connections after Close, got %d", hub.ConnectionCount())
	}
	if _, ok := readMessage(t, c, 2*time.Second); ok {
		t.Fatal("expected closed connection")
	}
}
