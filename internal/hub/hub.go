package hub

import (
	"encoding/json"
	"log"
	"sync"
)

// Event types published for document changes.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client is a subscriber's outbox. The SSE handler drains it.
type Client chan []byte

// Hub fans document changes out to the subscribers of each collection.
type Hub struct {
	collections map[string]map[Client]bool
	mu          sync.RWMutex
}

// GlobalHub is the singleton instance of our Hub.
var GlobalHub = NewHub()

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		collections: make(map[string]map[Client]bool),
	}
}

// Subscribe adds a client to a collection's feed.
func (h *Hub) Subscribe(collection string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.collections[collection]; !ok {
		h.collections[collection] = make(map[Client]bool)
	}
	h.collections[collection][client] = true
}

// Unsubscribe removes a client and closes its channel.
func (h *Hub) Unsubscribe(collection string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.collections[collection]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(h.collections, collection)
			}
		}
	}
}

// Subscribers returns how many clients follow collection.
func (h *Hub) Subscribers(collection string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.collections[collection])
}

// Broadcast sends an event to every subscriber of collection. A subscriber
// whose buffer is full misses the event; feeds are hints to refetch, not a
// source of truth.
func (h *Hub) Broadcast(collection string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.collections[collection]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(event)
	if err != nil {
		log.Printf("Warning: dropping %s event for %s: %v", event.Type, collection, err)
		return
	}

	for client := range clients {
		select {
		case client <- messageBytes:
		default:
		}
	}
}
