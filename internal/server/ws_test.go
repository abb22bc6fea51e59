package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/challenge"
)

func dialHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) challenge.Snapshot {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read error = %v", err)
	}
	var s challenge.Snapshot
	if err := json.Unmarshal(msg, &s); err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}
	return s
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for h.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, h.Clients())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHub_BroadcastsSnapshots(t *testing.T) {
	h := NewHub(nil)
	conn := dialHub(t, h)
	waitClients(t, h, 1)

	h.Publish(challenge.Snapshot{Game: "finger-count", State: challenge.StateRunning, Target: "4"})

	s := readSnapshot(t, conn)
	if s.Game != "finger-count" || s.Target != "4" {
		t.Errorf("unexpected snapshot %+v", s)
	}
}

func TestHub_SendsLatestOnConnect(t *testing.T) {
	h := NewHub(nil)
	h.Publish(challenge.Snapshot{Game: "music", Correct: 7})

	conn := dialHub(t, h)
	if s := readSnapshot(t, conn); s.Correct != 7 {
		t.Errorf("expected the latest snapshot, got %+v", s)
	}
}

func TestHub_ClientDisconnect(t *testing.T) {
	h := NewHub(nil)
	conn := dialHub(t, h)
	waitClients(t, h, 1)

	conn.Close()
	waitClients(t, h, 0)

	// Publishing with no clients must not block
	h.Publish(challenge.Snapshot{Game: "music"})
}
