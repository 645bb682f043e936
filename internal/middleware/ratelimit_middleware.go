package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mycoder/solutions_api/internal/utils"
)

// RateLimiter allows at most limit attempts per key within a fixed window.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptInfo
	limit    int
	window   time.Duration
	now      func() time.Time
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

type attemptInfo struct {
	count   int
	firstAt time.Time
}

// NewRateLimiter creates a limiter and starts its cleanup loop. Call Close to stop it.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		attempts: make(map[string]*attemptInfo),
		limit:    limit,
		window:   window,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go rl.cleanup(5 * window)
	return rl
}

// Allow checks if key can make another attempt.
func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	info, exists := r.attempts[key]
	if !exists || now.Sub(info.firstAt) > r.window {
		r.attempts[key] = &attemptInfo{count: 1, firstAt: now}
		return true
	}

	if info.count >= r.limit {
		return false
	}
	info.count++
	return true
}

// Handle returns a Gin middleware keyed by client IP.
func (r *RateLimiter) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.Allow(c.ClientIP()) {
			utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many requests, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Close stops the cleanup loop.
func (r *RateLimiter) Close() {
	r.once.Do(func() {
		close(r.stop)
		<-r.done
	})
}

func (r *RateLimiter) cleanup(every time.Duration) {
	defer close(r.done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.mu.Lock()
			now := r.now()
			for key, info := range r.attempts {
				if now.Sub(info.firstAt) > r.window {
					delete(r.attempts, key)
				}
			}
			r.mu.Unlock()
		case <-r.stop:
			return
		}
	}
}
