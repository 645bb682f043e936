package sse

import (
	"time"

	"github.com/mycoder/solutions_api/internal/models"
)

// CartNotifier is the interface services use to emit cart events.
type CartNotifier interface {
	NotifyCartChanged(sessionID string, action Action, itemID string, totals models.Totals)
}

// HubNotifier implements CartNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

// NotifyCartChanged broadcasts a cart.updated event to the session's streams.
// Nothing is built when no client is connected.
func (n *HubNotifier) NotifyCartChanged(sessionID string, action Action, itemID string, totals models.Totals) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&CartEvent{
		Event:     EventCartUpdated,
		SessionID: sessionID,
		Action:    action,
		ItemID:    itemID,
		Totals:    totals,
		Timestamp: time.Now(),
	})
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

// NotifyCartChanged does nothing.
func (n *NopNotifier) NotifyCartChanged(string, Action, string, models.Totals) {}
