package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mycoder/solutions_api/internal/utils"
)

var startTime = time.Now()

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	storeKind string
	store     Pinger
	entries   int
}

// NewHealthHandler creates a new HealthHandler. store may be nil when the
// cart store lives in process.
func NewHealthHandler(storeKind string, store Pinger, entries int) *HealthHandler {
	return &HealthHandler{storeKind: storeKind, store: store, entries: entries}
}

// GetHealth responds with service and cart store status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	storeStatus := "connected"
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			storeStatus = "disconnected"
		}
	}

	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":         "healthy",
		"version":        "1.0.0",
		"uptime":         int(time.Since(startTime).Seconds()),
		"catalogEntries": h.entries,
		"cartStore": gin.H{
			"kind":   h.storeKind,
			"status": storeStatus,
		},
	})
}
