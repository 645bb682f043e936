package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mycoder/solutions_api/internal/cache"
	"github.com/mycoder/solutions_api/internal/catalog"
	"github.com/mycoder/solutions_api/internal/config"
	"github.com/mycoder/solutions_api/internal/handler"
	"github.com/mycoder/solutions_api/internal/middleware"
	"github.com/mycoder/solutions_api/internal/repository"
	"github.com/mycoder/solutions_api/internal/service"
	"github.com/mycoder/solutions_api/internal/sse"
	"github.com/mycoder/solutions_api/internal/utils"
	"github.com/mycoder/solutions_api/internal/worker"
)

// main is the entrypoint for the solutions catalog and cart API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting solutions api")

	// 3. Load catalog; band diagnostics only outside production
	cat, err := catalog.LoadEmbedded(!cfg.IsProduction())
	if err != nil {
		log.Error().Err(err).Msg("catalog load failed")
		fmt.Fprintf(os.Stderr, "catalog load failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Int("entries", len(cat.Entries())).Msg("catalog loaded")

	// 4. Cart token secret
	secret := cfg.Cart.TokenSecret
	if secret == "" {
		if secret, err = utils.GenerateSecret(32); err != nil {
			fmt.Fprintf(os.Stderr, "failed to generate cart token secret: %v\n", err)
			os.Exit(1)
		}
		log.Warn().Msg("CART_TOKEN_SECRET not set, using an ephemeral secret; carts will not survive a restart")
	}
	signer := utils.NewCartTokenSigner(secret)

	// 5. Cart session store
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		store       service.CartSessionStore
		storePinger handler.Pinger
	)
	switch cfg.Cart.Store {
	case config.StoreRedis:
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Error().Err(err).Msg("redis connection failed")
			fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected successfully")
		store = cache.NewCartStore(redisClient)
		storePinger = redisClient
	default:
		memStore := repository.NewCartSessionRepository()
		store = memStore
		go worker.NewSessionSweeper(memStore, cfg.Cart.SweepInterval).Start(ctx)
	}

	// 6. Real-time channel
	hub := sse.NewHub()

	// 7. Services
	catalogSvc := service.NewCatalogService(cat)
	cartSvc := service.NewCartService(
		cat, store, signer, sse.NewHubNotifier(hub),
		cfg.Cart.SessionTTL, cfg.Cart.RecentlyRemovedWindow,
	)

	// 8. Handlers and middleware
	handlers := &Handlers{
		Health:  handler.NewHealthHandler(cfg.Cart.Store, storePinger, len(cat.Entries())),
		Catalog: handler.NewCatalogHandler(catalogSvc),
		Cart:    handler.NewCartHandler(cartSvc),
		SSE:     handler.NewSSEHandler(hub, cartSvc),
	}
	sessionMw := middleware.NewCartSessionMiddleware(cartSvc)
	createLimiter := middleware.NewRateLimiter(cfg.Cart.CreateLimitPerMinute, time.Minute)
	defer createLimiter.Close()

	// 9. Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, sessionMw, createLimiter)

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down server...")

	// 12. Stop workers
	cancel()

	// 13. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health  *handler.HealthHandler
	Catalog *handler.CatalogHandler
	Cart    *handler.CartHandler
	SSE     *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, sessionMw *middleware.CartSessionMiddleware, createLimiter *middleware.RateLimiter) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Catalog read model
	router.GET("/v1/catalog", handlers.Catalog.ListEntries)
	router.GET("/v1/catalog/categories", handlers.Catalog.GetCategories)
	router.GET("/v1/catalog/:id", handlers.Catalog.GetEntry)
	router.GET("/v1/bundles", handlers.Catalog.GetBundles)
	router.GET("/v1/pricing/range", handlers.Catalog.GetPriceRange)

	// Cart session bootstrap and event stream (token in query)
	router.POST("/v1/cart", createLimiter.Handle(), handlers.Cart.CreateCart)
	router.GET("/v1/cart/events", handlers.SSE.Stream)

	// Cart commands (cart token required)
	cart := router.Group("/v1/cart")
	cart.Use(sessionMw.Handle())
	{
		cart.GET("", handlers.Cart.GetCart)
		cart.DELETE("", handlers.Cart.ClearCart)
		cart.POST("/items/toggle", handlers.Cart.ToggleItem)
		cart.DELETE("/items/:id", handlers.Cart.RemoveItem)
		cart.PUT("/items/:id/quantity", handlers.Cart.SetQuantity)
		cart.PUT("/items/:id/price", handlers.Cart.SetPrice)
		cart.POST("/checkout", handlers.Cart.Checkout)
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
