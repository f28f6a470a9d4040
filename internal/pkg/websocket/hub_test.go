package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslink/backend/internal/app/models/dto"
)

func newTestClient(hub *Hub, userID, communityID int64, buffer int) *Client {
	return &Client{
		hub:         hub,
		send:        make(chan []byte, buffer),
		userID:      userID,
		communityID: communityID,
		logger:      zerolog.Nop(),
	}
}

func waitForCount(t *testing.T, hub *Hub, communityID int64, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount(communityID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("ClientCount(%d) = %d, want %d", communityID, hub.ClientCount(communityID), want)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	client := newTestClient(hub, 1, 10, 8)
	hub.register <- client
	waitForCount(t, hub, 10, 1)

	hub.unregister <- client
	waitForCount(t, hub, 10, 0)

	// The send channel is closed on unregister so writePump exits
	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected the send channel to be closed")
		}
	case <-time.After(time.Second):
		t.Error("send channel was not closed after unregister")
	}
}

func TestHub_BroadcastPost_ReachesCommunitySubscribers(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	subscriber := newTestClient(hub, 1, 10, 8)
	otherCommunity := newTestClient(hub, 2, 99, 8)
	hub.register <- subscriber
	hub.register <- otherCommunity
	waitForCount(t, hub, 10, 1)
	waitForCount(t, hub, 99, 1)

	hub.BroadcastPost(&dto.PostResponse{ID: 7, CommunityID: 10, Content: "hello"})

	select {
	case raw := <-subscriber.send:
		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			t.Fatalf("failed to unmarshal event: %v", err)
		}
		if event.Type != EventPostCreated {
			t.Errorf("event.Type = %q, want %q", event.Type, EventPostCreated)
		}
		if event.CommunityID != 10 {
			t.Errorf("event.CommunityID = %d, want 10", event.CommunityID)
		}
		if event.Post == nil || event.Post.ID != 7 {
			t.Errorf("event.Post = %+v, want post 7", event.Post)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the broadcast")
	}

	select {
	case raw := <-otherCommunity.send:
		t.Fatalf("subscriber of another community received %s", raw)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_Broadcast_DropsSlowSubscribers(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	// Zero buffer and no reader, every send fails immediately
	slow := newTestClient(hub, 1, 10, 0)
	hub.register <- slow
	waitForCount(t, hub, 10, 1)

	hub.BroadcastPost(&dto.PostResponse{ID: 1, CommunityID: 10})
	waitForCount(t, hub, 10, 0)
}
