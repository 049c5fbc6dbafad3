package stream

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"towerverse/internal/domain/tower"
)

func TestHubBroadcastReachesObserver(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	waitForObservers(t, hub, 1)

	sent := tower.Event{
		Seq:        7,
		Tick:       3,
		Type:       tower.EventGossipStart,
		ResidentID: "res_1",
		LocationID: "rooftop",
	}
	hub.Broadcast(sent)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got tower.Event
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Seq != sent.Seq || got.Type != sent.Type || got.ResidentID != sent.ResidentID {
		t.Fatalf("event mismatch: got %+v want %+v", got, sent)
	}
}

func TestHubRemovesDisconnectedObserver(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	waitForObservers(t, hub, 1)

	conn.Close()
	waitForObservers(t, hub, 0)

	// Broadcasting with no observers must not panic.
	hub.Broadcast(tower.Event{Seq: 1, Type: tower.EventTalk})
}

func waitForObservers(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ObserverCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("observer count never reached %d (got %d)", want, hub.ObserverCount())
}
