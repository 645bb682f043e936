package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mycoder/solutions_api/internal/utils"
)

const sessionIDKey = "session_id"

// TokenResolver maps a cart token to its session id.
type TokenResolver interface {
	ResolveToken(token string) (string, error)
}

// CartSessionMiddleware resolves the cart token on cart routes.
type CartSessionMiddleware struct {
	resolver TokenResolver
}

// NewCartSessionMiddleware constructs a CartSessionMiddleware.
func NewCartSessionMiddleware(resolver TokenResolver) *CartSessionMiddleware {
	return &CartSessionMiddleware{resolver: resolver}
}

// Handle returns a Gin middleware that requires a valid cart token in the
// X-Cart-Token header or as a Bearer token.
func (m *CartSessionMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := CartToken(c)
		if token == "" {
			utils.Error(c, 401, "MISSING_CART_TOKEN", "Missing cart token")
			c.Abort()
			return
		}

		sessionID, err := m.resolver.ResolveToken(token)
		if err != nil {
			utils.Error(c, 401, "INVALID_CART_TOKEN", "Invalid or expired cart token")
			c.Abort()
			return
		}

		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

// CartToken extracts the raw cart token from the request headers.
func CartToken(c *gin.Context) string {
	if t := strings.TrimSpace(c.GetHeader("X-Cart-Token")); t != "" {
		return t
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// GetSessionID returns the cart session id set by the middleware.
func GetSessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
