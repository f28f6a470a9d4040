package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuslink/backend/internal/app/models/dto"
)

// EventPostCreated is pushed to a community feed when a post is created.
const EventPostCreated = "post.created"

// Event is the envelope pushed to feed subscribers.
type Event struct {
	Type        string            `json:"type"`
	CommunityID int64             `json:"communityId"`
	Post        *dto.PostResponse `json:"post,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Hub maintains the set of active feed subscribers per community and fans
// events out to them. Clients never publish through the socket; posts are
// created over HTTP and pushed here by the post service.
type Hub struct {
	// Subscribers organized by community ID
	clients map[int64]map[*Client]bool

	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *Event),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[int64]map[*Client]bool),
		logger:     logger,
	}
}

// Run starts the hub loop, handling registrations and broadcasts
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	communityID := client.communityID
	if _, ok := h.clients[communityID]; !ok {
		h.clients[communityID] = make(map[*Client]bool)
	}
	h.clients[communityID][client] = true

	h.logger.Info().
		Int64("communityID", communityID).
		Int64("userID", client.userID).
		Msg("Feed subscriber registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	communityID := client.communityID
	if _, ok := h.clients[communityID]; ok {
		if _, ok := h.clients[communityID][client]; ok {
			delete(h.clients[communityID], client)
			close(client.send)

			if len(h.clients[communityID]) == 0 {
				delete(h.clients, communityID)
			}

			h.logger.Info().
				Int64("communityID", communityID).
				Int64("userID", client.userID).
				Msg("Feed subscriber unregistered")
		}
	}
}

func (h *Hub) broadcastEvent(event *Event) {
	h.mu.RLock()

	clients, ok := h.clients[event.CommunityID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.mu.RUnlock()
		h.logger.Error().
			Err(err).
			Int64("communityID", event.CommunityID).
			Msg("Failed to marshal feed event")
		return
	}

	// Collect slow clients first so the read lock is not held while
	// re-entering the unregister path.
	var stale []*Client
	for client := range clients {
		select {
		case client.send <- data:
		default:
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	// Direct call, sending to h.unregister here would deadlock the run loop
	for _, client := range stale {
		h.unregisterClient(client)
	}

	h.logger.Debug().
		Int64("communityID", event.CommunityID).
		Int("clientCount", len(clients)).
		Msg("Feed event broadcast to community")
}

// BroadcastPost pushes a created post to every subscriber of its community
func (h *Hub) BroadcastPost(post *dto.PostResponse) {
	h.broadcast <- &Event{
		Type:        EventPostCreated,
		CommunityID: post.CommunityID,
		Post:        post,
		Timestamp:   time.Now(),
	}
}

// ClientCount returns the number of subscribers for a community
func (h *Hub) ClientCount(communityID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.clients[communityID]; ok {
		return len(clients)
	}
	return 0
}
