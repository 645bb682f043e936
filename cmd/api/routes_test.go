package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycoder/solutions_api/internal/catalog"
	"github.com/mycoder/solutions_api/internal/config"
	"github.com/mycoder/solutions_api/internal/handler"
	"github.com/mycoder/solutions_api/internal/middleware"
	"github.com/mycoder/solutions_api/internal/repository"
	"github.com/mycoder/solutions_api/internal/service"
	"github.com/mycoder/solutions_api/internal/sse"
	"github.com/mycoder/solutions_api/internal/utils"
)

type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *utils.ErrorInfo `json:"error"`
	Meta    utils.Meta       `json:"meta"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat, err := catalog.LoadEmbedded(false)
	require.NoError(t, err)

	hub := sse.NewHub()
	cartSvc := service.NewCartService(
		cat, repository.NewCartSessionRepository(), utils.NewCartTokenSigner("test-secret"),
		sse.NewHubNotifier(hub), time.Hour, 2*time.Second,
	)
	handlers := &Handlers{
		Health:  handler.NewHealthHandler(config.StoreMemory, nil, len(cat.Entries())),
		Catalog: handler.NewCatalogHandler(service.NewCatalogService(cat)),
		Cart:    handler.NewCartHandler(cartSvc),
		SSE:     handler.NewSSEHandler(hub, cartSvc),
	}
	limiter := middleware.NewRateLimiter(100, time.Minute)
	t.Cleanup(limiter.Close)

	router := gin.New()
	setupRoutes(router, handlers, middleware.NewCartSessionMiddleware(cartSvc), limiter)
	return router
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Cart-Token", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestRoutes_Catalog(t *testing.T) {
	r := newTestRouter(t)

	code, env := do(t, r, http.MethodGet, "/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	code, env = do(t, r, http.MethodGet, "/v1/catalog", "", nil)
	assert.Equal(t, http.StatusOK, code)
	require.NotNil(t, env.Meta.Count)
	assert.Equal(t, 39, *env.Meta.Count)

	code, env = do(t, r, http.MethodGet, "/v1/catalog?q=WEBSITE", "", nil)
	assert.Equal(t, http.StatusOK, code)
	var entries []service.EntryResponse
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "web-starter", entries[0].ID)
	assert.Equal(t, "$799 – $1,799", entries[0].PriceLabel)

	_, env = do(t, r, http.MethodGet, "/v1/catalog?category=Digital+Presence&billing=monthly", "", nil)
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "site-care", entries[0].ID)

	_, env = do(t, r, http.MethodGet, "/v1/catalog?category=", "", nil)
	assert.Equal(t, 0, *env.Meta.Count)

	code, env = do(t, r, http.MethodGet, "/v1/catalog?billing=weekly", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_BILLING", env.Error.Code)

	code, _ = do(t, r, http.MethodGet, "/v1/catalog/web-starter", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = do(t, r, http.MethodGet, "/v1/catalog/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "ENTRY_NOT_FOUND", env.Error.Code)

	_, env = do(t, r, http.MethodGet, "/v1/catalog/categories", "", nil)
	assert.Equal(t, 8, *env.Meta.Count)

	_, env = do(t, r, http.MethodGet, "/v1/bundles", "", nil)
	assert.Equal(t, 4, *env.Meta.Count)
}

func TestRoutes_PriceRange(t *testing.T) {
	r := newTestRouter(t)

	var band struct {
		Min        int    `json:"min"`
		Max        int    `json:"max"`
		PriceLabel string `json:"priceLabel"`
	}

	code, env := do(t, r, http.MethodGet, "/v1/pricing/range?model=pro&tier=3", "", nil)
	assert.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &band))
	assert.Equal(t, 2499, band.Min)
	assert.Equal(t, 5999, band.Max)
	assert.Equal(t, "$2,499 – $5,999", band.PriceLabel)

	code, env = do(t, r, http.MethodGet, "/v1/pricing/range?model=pro&tier=7", "", nil)
	assert.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &band))
	assert.Zero(t, band.Min)
	assert.Zero(t, band.Max)

	code, env = do(t, r, http.MethodGet, "/v1/pricing/range?model=pro&tier=x", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_TIER", env.Error.Code)
}

func TestRoutes_CartFlow(t *testing.T) {
	r := newTestRouter(t)

	code, env := do(t, r, http.MethodPost, "/v1/cart", "", nil)
	require.Equal(t, http.StatusCreated, code)
	var created service.NewCartResult
	require.NoError(t, json.Unmarshal(env.Data, &created))
	token := created.Token
	require.NotEmpty(t, token)

	var cart service.CartView

	code, env = do(t, r, http.MethodPost, "/v1/cart/items/toggle", token, gin.H{"entryId": "web-starter"})
	require.Equal(t, http.StatusOK, code)
	code, env = do(t, r, http.MethodPost, "/v1/cart/items/toggle", token, gin.H{"entryId": "shop-ecommerce"})
	require.Equal(t, http.StatusOK, code)

	code, env = do(t, r, http.MethodPut, "/v1/cart/items/web-starter/quantity", token, gin.H{"quantity": 3})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Equal(t, 4, cart.Totals.TotalItems)
	assert.Equal(t, 3*1299+4249, cart.Totals.TotalPrice)

	code, env = do(t, r, http.MethodPut, "/v1/cart/items/web-starter/price", token, gin.H{"price": 5000})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "PRICE_OUT_OF_RANGE", env.Error.Code)

	code, env = do(t, r, http.MethodPut, "/v1/cart/items/web-starter/price", token, gin.H{"price": 799})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Equal(t, 3*799+4249, cart.Totals.TotalPrice)

	code, env = do(t, r, http.MethodPut, "/v1/cart/items/web-starter/quantity", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_REQUEST", env.Error.Code)

	code, env = do(t, r, http.MethodPost, "/v1/cart/items/toggle", token, gin.H{"entryId": "nope"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "ENTRY_NOT_FOUND", env.Error.Code)

	code, env = do(t, r, http.MethodDelete, "/v1/cart/items/shop-ecommerce", token, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Len(t, cart.Items, 1)

	code, env = do(t, r, http.MethodPost, "/v1/cart/checkout", token, nil)
	require.Equal(t, http.StatusOK, code)
	var quote service.Quote
	require.NoError(t, json.Unmarshal(env.Data, &quote))
	assert.Equal(t, "quote", quote.Status)
	assert.Equal(t, 3*799, quote.UnspecifiedTotal)

	code, _ = do(t, r, http.MethodDelete, "/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = do(t, r, http.MethodPost, "/v1/cart/checkout", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "CART_EMPTY", env.Error.Code)

	code, env = do(t, r, http.MethodGet, "/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Empty(t, cart.Items)
}

func TestRoutes_CartRequiresToken(t *testing.T) {
	r := newTestRouter(t)

	code, env := do(t, r, http.MethodGet, "/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "MISSING_CART_TOKEN", env.Error.Code)

	code, env = do(t, r, http.MethodGet, "/v1/cart", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "INVALID_CART_TOKEN", env.Error.Code)

	code, env = do(t, r, http.MethodGet, "/v1/cart/events", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "MISSING_CART_TOKEN", env.Error.Code)
}

func TestRoutes_TokenForUnknownSession(t *testing.T) {
	r := newTestRouter(t)

	token, err := utils.NewCartTokenSigner("test-secret").Issue("ghost")
	require.NoError(t, err)

	code, env := do(t, r, http.MethodGet, "/v1/cart", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "CART_NOT_FOUND", env.Error.Code)
}

func TestRoutes_QuantityOverflowIsRejected(t *testing.T) {
	r := newTestRouter(t)

	_, env := do(t, r, http.MethodPost, "/v1/cart", "", nil)
	var created service.NewCartResult
	require.NoError(t, json.Unmarshal(env.Data, &created))

	code, _ := do(t, r, http.MethodPost, "/v1/cart/items/toggle", created.Token, gin.H{"entryId": "ops-automation"})
	require.Equal(t, http.StatusOK, code)

	code, env = do(t, r, http.MethodPut, "/v1/cart/items/ops-automation/quantity", created.Token, gin.H{"quantity": int64(92233720368547758)})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "TOTALS_OUT_OF_RANGE", env.Error.Code)
}
