package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mycoder/solutions_api/internal/service"
	"github.com/mycoder/solutions_api/internal/sse"
	"github.com/mycoder/solutions_api/internal/utils"
)

// SSEHandler streams cart events to the browser.
type SSEHandler struct {
	hub          *sse.Hub
	cartService  *service.CartService
	pingInterval time.Duration
}

// NewSSEHandler creates a new SSEHandler.
func NewSSEHandler(hub *sse.Hub, cartService *service.CartService) *SSEHandler {
	return &SSEHandler{hub: hub, cartService: cartService, pingInterval: 30 * time.Second}
}

// Stream handles GET /v1/cart/events?token=<cart token>
// EventSource API cannot set custom headers, so the token is passed via query param.
func (h *SSEHandler) Stream(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.Error(c, 401, "MISSING_CART_TOKEN", "Missing token query parameter")
		return
	}

	sessionID, err := h.cartService.ResolveToken(token)
	if err != nil {
		utils.Error(c, 401, "INVALID_CART_TOKEN", "Invalid or expired cart token")
		return
	}
	if _, err := h.cartService.Get(c.Request.Context(), sessionID); err != nil {
		respondCartError(c, err)
		return
	}

	clientID := "cart-" + uuid.New().String()[:8]

	// SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable nginx buffering

	client := h.hub.Register(clientID, sessionID)
	defer h.hub.Unregister(clientID)

	c.SSEvent("connected", gin.H{
		"clientId":  clientID,
		"sessionId": sessionID,
		"timestamp": time.Now().Format(time.RFC3339),
	})
	c.Writer.Flush()

	log.Info().Str("client_id", clientID).Str("session_id", sessionID).Msg("Cart SSE stream started")

	ping := time.NewTicker(h.pingInterval)
	defer ping.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case data, ok := <-client.Events:
			if !ok {
				return false
			}
			c.SSEvent(string(sse.EventCartUpdated), string(data))
			return true
		case <-ping.C:
			c.SSEvent("ping", gin.H{"timestamp": time.Now().Format(time.RFC3339)})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
