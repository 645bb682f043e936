package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store kinds accepted by CART_STORE.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port string
	Env  string

	Cart  CartConfig
	Redis RedisConfig
	CORS  CORSConfig
}

// CartConfig controls cart session storage and lifetimes.
type CartConfig struct {
	Store                 string
	TokenSecret           string
	SessionTTL            time.Duration
	SweepInterval         time.Duration
	RecentlyRemovedWindow time.Duration
	CreateLimitPerMinute  int
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// CORSConfig lists the browser origins (host[:port]) allowed to call the API.
type CORSConfig struct {
	AllowedHosts []string
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Missing .env is fine; production relies on real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")

	// Cart
	cfg.Cart.Store = strings.ToLower(getEnv("CART_STORE", StoreMemory))
	cfg.Cart.TokenSecret = getEnv("CART_TOKEN_SECRET", "")
	cfg.Cart.CreateLimitPerMinute = getEnvInt("CART_CREATE_LIMIT", 30)

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// CORS
	cfg.CORS.AllowedHosts = splitList(getEnv("CORS_ALLOWED_HOSTS", "localhost:3000,127.0.0.1:3000"))

	// Durations
	var err error
	if cfg.Cart.SessionTTL, err = parseDurationEnv("CART_SESSION_TTL", "2h"); err != nil {
		return nil, fmt.Errorf("invalid CART_SESSION_TTL: %w", err)
	}
	if cfg.Cart.SweepInterval, err = parseDurationEnv("CART_SWEEP_INTERVAL", "1m"); err != nil {
		return nil, fmt.Errorf("invalid CART_SWEEP_INTERVAL: %w", err)
	}
	if cfg.Cart.RecentlyRemovedWindow, err = parseDurationEnv("RECENTLY_REMOVED_WINDOW", "2s"); err != nil {
		return nil, fmt.Errorf("invalid RECENTLY_REMOVED_WINDOW: %w", err)
	}

	if cfg.Cart.SessionTTL == 0 {
		return nil, errors.New("CART_SESSION_TTL must be greater than zero")
	}
	if cfg.Cart.SweepInterval == 0 {
		return nil, errors.New("CART_SWEEP_INTERVAL must be greater than zero")
	}

	if cfg.Cart.CreateLimitPerMinute <= 0 {
		return nil, errors.New("CART_CREATE_LIMIT must be greater than zero")
	}

	switch cfg.Cart.Store {
	case StoreMemory, StoreRedis:
	default:
		return nil, fmt.Errorf("CART_STORE must be %q or %q, got %q", StoreMemory, StoreRedis, cfg.Cart.Store)
	}

	// Development may run with an ephemeral secret; production may not.
	if cfg.Cart.TokenSecret == "" && cfg.IsProduction() {
		return nil, errors.New("CART_TOKEN_SECRET must be set in production")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}
