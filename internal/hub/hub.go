package hub

import (
	"encoding/json"
	"sync"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client represents a single client connection (one open notification
// stream). It's essentially a channel the SSE handler listens to.
type Client chan []byte

// Hub fans notification events out to the users currently subscribed to
// their stream.
type Hub struct {
	users map[string]map[Client]bool
	mu    sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		users: make(map[string]map[Client]bool),
	}
}

// Subscribe adds a new client for a user. A user can hold several clients
// (multiple tabs/devices).
func (h *Hub) Subscribe(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.users[userID]; !ok {
		h.users[userID] = make(map[Client]bool)
	}
	h.users[userID][client] = true
}

// Unsubscribe removes a client and closes its channel to signal the SSE
// handler to stop.
func (h *Hub) Unsubscribe(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.users[userID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(h.users, userID)
			}
		}
	}
}

// Broadcast sends an event to all clients of one user.
func (h *Hub) Broadcast(userID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.users[userID]
	if !ok {
		return
	}
	messageBytes, err := json.Marshal(event)
	if err != nil {
		return
	}

	for client := range clients {
		// Non-blocking send so a slow client cannot block the hub.
		select {
		case client <- messageBytes:
		default:
		}
	}
}
