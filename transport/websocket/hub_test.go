package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/lastmove/game/engine"
	"github.com/wricardo/lastmove/game/match"
)

func createTestClient(hub *Hub, matchID string) *Client {
	return &Client{
		hub:     hub,
		matchID: matchID,
		send:    make(chan []byte, 256),
	}
}

func startTestServer(t *testing.T, hub *Hub, initial *engine.State) string {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("match"), initial)
	}))
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func waitForClients(t *testing.T, hub *Hub, matchID string, expected int) {
	t.Helper()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount(matchID) == expected {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients for %s, got %d", expected, matchID, hub.ClientCount(matchID))
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	return message
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()
	client1 := createTestClient(hub, "m1")
	client2 := createTestClient(hub, "m1")

	hub.registerClient(client1)
	hub.registerClient(client2)
	if hub.ClientCount("m1") != 2 {
		t.Errorf("Expected 2 clients, got %d", hub.ClientCount("m1"))
	}

	hub.unregisterClient(client1)
	if hub.ClientCount("m1") != 1 {
		t.Errorf("Expected 1 client remaining, got %d", hub.ClientCount("m1"))
	}
	if !hub.matches["m1"][client2] {
		t.Error("client2 should still be registered")
	}
	if _, ok := <-client1.send; ok {
		t.Error("Expected client1's send channel to be closed")
	}

	hub.unregisterClient(client2)
	if _, exists := hub.matches["m1"]; exists {
		t.Error("Match should have been cleaned up after last client unregistered")
	}

	// Unregistering twice is harmless
	hub.unregisterClient(client2)
}

func TestHubBroadcastMessage(t *testing.T) {
	hub := NewHub()
	watching := createTestClient(hub, "m1")
	other := createTestClient(hub, "m2")
	hub.registerClient(watching)
	hub.registerClient(other)

	hub.broadcastMessage(&Message{
		MatchID: "m1",
		Type:    MessageEvent,
		Event:   &match.Event{Type: match.EventMove, MatchID: "m1", Player: "Alice", Direction: "Up"},
	})

	select {
	case data := <-watching.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.Type != MessageEvent || message.Event == nil {
			t.Fatalf("Expected an event message, got %+v", message)
		}
		if message.Event.Player != "Alice" || message.Event.Direction != "Up" {
			t.Errorf("Event not correctly transmitted: %+v", message.Event)
		}
	default:
		t.Error("Expected a message for the watching client")
	}

	select {
	case <-other.send:
		t.Error("Client of another match should not receive the message")
	default:
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	client := &Client{hub: hub, matchID: "m1", send: make(chan []byte)}
	hub.registerClient(client)

	hub.broadcastMessage(&Message{MatchID: "m1", Type: MessageState, State: &engine.State{}})

	if hub.ClientCount("m1") != 0 {
		t.Error("Expected the slow client to be dropped")
	}
}

func TestHubEnqueueNeverBlocks(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer+10; i++ {
			hub.BroadcastEvent("m1", match.Event{Type: match.EventMove})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked without a running hub")
	}
	if len(hub.broadcast) != broadcastBuffer {
		t.Errorf("Expected a full queue of %d, got %d", broadcastBuffer, len(hub.broadcast))
	}
}

func TestWebSocketSpectator(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	initial := &engine.State{Rows: 5, Columns: 5, Round: 1}
	url := startTestServer(t, hub, initial)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?match=m1", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	message := readMessage(t, conn)
	if message.Type != MessageState || message.State == nil || message.State.Rows != 5 {
		t.Fatalf("Expected the initial state, got %+v", message)
	}

	waitForClients(t, hub, "m1", 1)

	hub.Observe(match.Event{Type: match.EventEliminated, MatchID: "m1", Player: "Bob", Remaining: []string{"Alice"}})

	message = readMessage(t, conn)
	if message.MatchID != "m1" || message.Event == nil {
		t.Fatalf("Expected an event for m1, got %+v", message)
	}
	if message.Event.Type != match.EventEliminated || message.Event.Player != "Bob" {
		t.Errorf("Unexpected event %+v", message.Event)
	}

	conn.Close()
	waitForClients(t, hub, "m1", 0)
}

func TestWebSocketHubShutdown(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	url := startTestServer(t, hub, nil)
	conn, _, err := websocket.DefaultDialer.Dial(url+"?match=m1", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	waitForClients(t, hub, "m1", 1)
	cancel()
	waitForClients(t, hub, "m1", 0)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected the connection to be closed on shutdown")
	}
}
