package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHeartbeatPingsIdleConnection(t *testing.T) {
	send := make(chan []byte, 1)
	send <- mustMarshal(wsMessage{Type: "status"})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = writeWSWithHeartbeat(conn, send, 20*time.Millisecond)
	}))
	defer server.Close()
	defer close(send)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	for _, want := range []string{"status", "ping"} {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read %s: %v", want, err)
		}
		if msg.Type != want {
			t.Fatalf("expected %s message, got %q", want, msg.Type)
		}
	}
}
