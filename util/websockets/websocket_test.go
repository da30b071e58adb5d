package websockets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwise1/travel_planner_api/internal/grouptravel"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func dial(t *testing.T, hub *Hub, userID primitive.ObjectID) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.HandleConnections(w, r, userID)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	var welcome Message
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&welcome); err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	if welcome.Type != MsgTypeWelcome {
		t.Fatalf("first message type = %q", welcome.Type)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.Connected(userID) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func TestNotifyReachesAddressedUser(t *testing.T) {
	hub, _ := startHub(t)
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	aliceConn := dial(t, hub, alice)
	bobConn := dial(t, hub, bob)

	hub.Notify([]primitive.ObjectID{alice}, grouptravel.Event{
		Type:    grouptravel.EventSOSCreated,
		GroupID: "g1",
		Data:    map[string]string{"message": "help"},
	})

	aliceConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := aliceConn.ReadMessage()
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	var got struct {
		Type    string            `json:"type"`
		Payload grouptravel.Event `json:"payload"`
	}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Type != MsgTypeEvent || got.Payload.Type != grouptravel.EventSOSCreated || got.Payload.GroupID != "g1" {
		t.Errorf("got %+v", got)
	}

	bobConn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	if _, _, err := bobConn.ReadMessage(); err == nil {
		t.Error("bob received an event addressed to alice")
	}
}

func TestDisconnectUnregisters(t *testing.T) {
	hub, _ := startHub(t)
	user := primitive.NewObjectID()
	conn := dial(t, hub, user)
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Connected(user) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client still registered after close")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestShutdownClosesConnections(t *testing.T) {
	hub, cancel := startHub(t)
	conn := dial(t, hub, primitive.NewObjectID())

	cancel()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected connection to close on shutdown")
	}
}

func TestNotifyWithoutRecipients(t *testing.T) {
	hub := NewHub(nil, nil)
	hub.Notify(nil, grouptravel.Event{Type: grouptravel.EventAnnouncementCreated})
	if len(hub.deliver) != 0 {
		t.Errorf("queued %d deliveries for no recipients", len(hub.deliver))
	}
}

func TestUpgradeChecksOrigin(t *testing.T) {
	hub := NewHub(nil, []string{"https://app.example.com/"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.HandleConnections(w, r, primitive.NewObjectID())
	}))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	cases := []struct {
		origin string
		ok     bool
	}{
		{"https://evil.example.net", false},
		{"https://APP.example.com", true},
		{srv.URL, true},
		{"", true},
	}
	for _, tc := range cases {
		header := http.Header{}
		if tc.origin != "" {
			header.Set("Origin", tc.origin)
		}
		conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
		if tc.ok {
			if err != nil {
				t.Errorf("origin %q: dial: %v", tc.origin, err)
				continue
			}
			conn.Close()
			continue
		}
		if err == nil {
			conn.Close()
			t.Errorf("origin %q: upgrade accepted", tc.origin)
			continue
		}
		if resp == nil || resp.StatusCode != http.StatusForbidden {
			t.Errorf("origin %q: resp = %v, want 403", tc.origin, resp)
		}
	}
}
