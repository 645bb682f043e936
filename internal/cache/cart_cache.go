package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mycoder/solutions_api/internal/models"
	"github.com/mycoder/solutions_api/internal/utils"
)

const (
	defaultLockTTL   = 5 * time.Second
	defaultLockWait  = 3 * time.Second
	lockRetryBackoff = 20 * time.Millisecond
)

// CartStore keeps cart sessions in Redis so several API instances can serve
// the same visitor. Each session is one JSON value whose TTL tracks ExpiresAt.
type CartStore struct {
	redis    *RedisClient
	lockTTL  time.Duration
	lockWait time.Duration
}

// NewCartStore creates a new CartStore.
func NewCartStore(redis *RedisClient) *CartStore {
	return &CartStore{redis: redis, lockTTL: defaultLockTTL, lockWait: defaultLockWait}
}

// keyBySessionID returns the Redis key for a cart session.
func keyBySessionID(id string) string {
	return fmt.Sprintf("cart:session:%s", id)
}

// lockKeyBySessionID returns the Redis key guarding writes to a cart session.
func lockKeyBySessionID(id string) string {
	return fmt.Sprintf("cart:lock:%s", id)
}

// Get loads a session; missing or expired keys map to utils.ErrCartNotFound.
func (s *CartStore) Get(ctx context.Context, id string) (*models.CartSession, error) {
	raw, err := s.redis.Get(ctx, keyBySessionID(id))
	if err != nil {
		if errors.Is(err, ErrMiss) {
			return nil, utils.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart session: %w", err)
	}

	var session models.CartSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart session: %w", err)
	}
	if session.Expired(time.Now()) {
		return nil, utils.ErrCartNotFound
	}
	return &session, nil
}

// Save writes the session with a TTL running until its ExpiresAt.
func (s *CartStore) Save(ctx context.Context, session *models.CartSession) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, session.ID)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal cart session: %w", err)
	}
	if err := s.redis.Set(ctx, keyBySessionID(session.ID), string(data), ttl); err != nil {
		return fmt.Errorf("failed to save cart session: %w", err)
	}
	return nil
}

// Delete removes a session.
func (s *CartStore) Delete(ctx context.Context, id string) error {
	return s.redis.Delete(ctx, keyBySessionID(id))
}

// LockSession takes the cross-instance write lock of a session, retrying
// until lockWait runs out (utils.ErrCartBusy) or ctx is done. The lock
// expires on its own after lockTTL if the holder dies. The returned func
// releases it only while this caller still owns it.
func (s *CartStore) LockSession(ctx context.Context, id string) (func(), error) {
	key := lockKeyBySessionID(id)
	owner := uuid.NewString()
	deadline := time.Now().Add(s.lockWait)

	for {
		ok, err := s.redis.SetNX(ctx, key, owner, s.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to lock cart session: %w", err)
		}
		if ok {
			break
		}
		if !time.Now().Before(deadline) {
			return nil, utils.ErrCartBusy
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryBackoff):
		}
	}

	return func() {
		// The request context may already be canceled here.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.redis.DeleteIfValue(releaseCtx, key, owner); err != nil {
			log.Warn().Err(err).Str("session_id", id).Msg("Failed to release cart lock")
		}
	}, nil
}
