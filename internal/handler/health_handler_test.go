package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthStatus(t *testing.T, h *HealthHandler) (string, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/v1/health", h.GetHealth)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			CatalogEntries int `json:"catalogEntries"`
			CartStore      struct {
				Kind   string `json:"kind"`
				Status string `json:"status"`
			} `json:"cartStore"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 39, body.Data.CatalogEntries)
	return body.Data.CartStore.Kind, body.Data.CartStore.Status
}

func TestGetHealth_InProcessStore(t *testing.T) {
	kind, status := healthStatus(t, NewHealthHandler("memory", nil, 39))
	assert.Equal(t, "memory", kind)
	assert.Equal(t, "connected", status)
}

func TestGetHealth_StoreDown(t *testing.T) {
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	kind, status := healthStatus(t, NewHealthHandler("redis", down, 39))
	assert.Equal(t, "redis", kind)
	assert.Equal(t, "disconnected", status)
}
