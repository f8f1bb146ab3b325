package main

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsIdlePingInterval = 30 * time.Second
	wsWriteTimeout     = 10 * time.Second
)

type pingPayload struct {
	ServerTimeMs int64 `json:"server_time_ms"`
}

// writeWSWithHeartbeat forwards send to conn until send is closed, writing a
// ping message whenever the connection stayed quiet for interval.
func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	lastWrite := time.Now()

	write := func(data []byte) error {
		if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
			return err
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return err
		}
		lastWrite = time.Now()
		return nil
	}

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return nil
			}
			if err := write(msg); err != nil {
				return err
			}
		case <-ticker.C:
			if time.Since(lastWrite) < interval {
				continue
			}
			ping := mustMarshal(wsMessage{Type: "ping", Payload: mustMarshal(pingPayload{ServerTimeMs: time.Now().UnixMilli()})})
			if err := write(ping); err != nil {
				return err
			}
		}
	}
}
