package repository

import (
	"context"
	"sync"
	"time"

	"github.com/mycoder/solutions_api/internal/models"
	"github.com/mycoder/solutions_api/internal/utils"
)

// CartSessionRepository keeps cart sessions in process memory. Sessions are
// cloned on the way in and out, so callers never share state with the map.
type CartSessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*models.CartSession
	now      func() time.Time
}

// NewCartSessionRepository creates an empty in-memory repository.
func NewCartSessionRepository() *CartSessionRepository {
	return &CartSessionRepository{
		sessions: make(map[string]*models.CartSession),
		now:      time.Now,
	}
}

// SetClock replaces the time source used for expiry checks. Used by tests.
func (r *CartSessionRepository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Get returns the session with id, or utils.ErrCartNotFound when it is
// missing or expired.
func (r *CartSessionRepository) Get(_ context.Context, id string) (*models.CartSession, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	now := r.now
	r.mu.RUnlock()
	if !ok || s.Expired(now()) {
		return nil, utils.ErrCartNotFound
	}
	return s.Clone(), nil
}

// Save stores a copy of s, replacing any previous version.
func (r *CartSessionRepository) Save(_ context.Context, s *models.CartSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s.Clone()
	return nil
}

// Delete removes the session with id. Missing ids are ignored.
func (r *CartSessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// Sweep evicts sessions expired at now and returns how many were dropped.
func (r *CartSessionRepository) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Count returns the number of stored sessions, expired or not.
func (r *CartSessionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
