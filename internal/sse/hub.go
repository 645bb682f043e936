package sse

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mycoder/solutions_api/internal/models"
)

// EventType defines the SSE event name.
type EventType string

const (
	EventCartUpdated EventType = "cart.updated"
)

// Action names the cart command that produced an event.
type Action string

const (
	ActionItemAdded       Action = "item_added"
	ActionItemToggledOut  Action = "item_toggled_out"
	ActionItemRemoved     Action = "item_removed"
	ActionQuantityChanged Action = "quantity_changed"
	ActionPriceChanged    Action = "price_changed"
	ActionCleared         Action = "cleared"
)

// CartEvent is the payload streamed to a session's subscribers.
type CartEvent struct {
	Event     EventType     `json:"event"`
	SessionID string        `json:"sessionId"`
	Action    Action        `json:"action"`
	ItemID    string        `json:"itemId,omitempty"`
	Totals    models.Totals `json:"totals"`
	Timestamp time.Time     `json:"timestamp"`
}

// Client represents one open event stream.
type Client struct {
	ID        string
	SessionID string
	Events    chan []byte
}

// Hub manages SSE client connections and fans events out per session.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a new SSE hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a new client for sessionID and returns it for streaming.
func (h *Hub) Register(clientID, sessionID string) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := &Client{
		ID:        clientID,
		SessionID: sessionID,
		Events:    make(chan []byte, 64),
	}
	h.clients[clientID] = c
	log.Info().Str("client_id", clientID).Str("session_id", sessionID).Int("total_clients", len(h.clients)).Msg("SSE client connected")
	return c
}

// Unregister removes a client and closes its channel.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		close(c.Events)
		delete(h.clients, clientID)
		log.Info().Str("client_id", clientID).Int("total_clients", len(h.clients)).Msg("SSE client disconnected")
	}
}

// Broadcast sends an event to every client of the event's session.
// Non-blocking: drops message if client buffer is full.
func (h *Hub) Broadcast(event *CartEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal SSE event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		if c.SessionID != event.SessionID {
			continue
		}
		select {
		case c.Events <- data:
		default:
			log.Warn().Str("client_id", c.ID).Msg("SSE client buffer full, dropping event")
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
