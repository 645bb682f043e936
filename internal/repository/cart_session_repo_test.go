package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycoder/solutions_api/internal/models"
	"github.com/mycoder/solutions_api/internal/utils"
)

func newTestRepo(now *time.Time) *CartSessionRepository {
	r := NewCartSessionRepository()
	r.SetClock(func() time.Time { return *now })
	return r
}

func TestCartSessionRepository_SaveGet(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := newTestRepo(&now)
	ctx := context.Background()

	s := &models.CartSession{
		ID:        "s1",
		Items:     []models.CartItem{{ID: "web-starter", Quantity: 1, SelectedPrice: 1299, Deliverables: []string{"a"}}},
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, r.Save(ctx, s))

	got, err := r.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestCartSessionRepository_ClonesOnSaveAndGet(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := newTestRepo(&now)
	ctx := context.Background()

	s := &models.CartSession{
		ID:              "s1",
		Items:           []models.CartItem{{ID: "a", Quantity: 1, Deliverables: []string{"x"}}},
		RecentlyRemoved: map[string]time.Time{"b": now},
		ExpiresAt:       now.Add(time.Hour),
	}
	require.NoError(t, r.Save(ctx, s))

	s.Items[0].Quantity = 9
	s.Items[0].Deliverables[0] = "changed"
	s.RecentlyRemoved["c"] = now

	got, err := r.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Items[0].Quantity)
	assert.Equal(t, "x", got.Items[0].Deliverables[0])
	assert.NotContains(t, got.RecentlyRemoved, "c")

	got.Items[0].Quantity = 5
	again, err := r.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Items[0].Quantity)
}

func TestCartSessionRepository_Missing(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := newTestRepo(&now)

	_, err := r.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, utils.ErrCartNotFound)
}

func TestCartSessionRepository_ExpiryAndSweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := newTestRepo(&now)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, &models.CartSession{ID: "short", ExpiresAt: now.Add(time.Minute)}))
	require.NoError(t, r.Save(ctx, &models.CartSession{ID: "long", ExpiresAt: now.Add(time.Hour)}))

	now = now.Add(time.Minute)
	_, err := r.Get(ctx, "short")
	assert.ErrorIs(t, err, utils.ErrCartNotFound)
	assert.Equal(t, 2, r.Count())

	assert.Equal(t, 1, r.Sweep(now))
	assert.Equal(t, 1, r.Count())

	_, err = r.Get(ctx, "long")
	assert.NoError(t, err)
}

func TestCartSessionRepository_Delete(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := newTestRepo(&now)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, &models.CartSession{ID: "s1", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, r.Delete(ctx, "s1"))
	require.NoError(t, r.Delete(ctx, "s1"))

	_, err := r.Get(ctx, "s1")
	assert.ErrorIs(t, err, utils.ErrCartNotFound)
}
