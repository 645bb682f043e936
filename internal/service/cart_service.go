package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mycoder/solutions_api/internal/cart"
	"github.com/mycoder/solutions_api/internal/catalog"
	"github.com/mycoder/solutions_api/internal/models"
	"github.com/mycoder/solutions_api/internal/sse"
	"github.com/mycoder/solutions_api/internal/utils"
)

// CartSessionStore persists cart sessions between requests.
// Get returns utils.ErrCartNotFound for unknown or expired sessions.
type CartSessionStore interface {
	Get(ctx context.Context, id string) (*models.CartSession, error)
	Save(ctx context.Context, session *models.CartSession) error
	Delete(ctx context.Context, id string) error
}

// SessionLocker is implemented by stores shared between API instances. Its
// lock serializes commands on one session across processes.
type SessionLocker interface {
	LockSession(ctx context.Context, id string) (func(), error)
}

// CartService runs cart commands for browsing sessions.
type CartService struct {
	catalog       *catalog.Catalog
	store         CartSessionStore
	signer        *utils.CartTokenSigner
	notifier      sse.CartNotifier
	ttl           time.Duration
	removalWindow time.Duration
	locks         *sessionLocks
	now           func() time.Time
}

// NewCartService constructs a CartService.
func NewCartService(
	c *catalog.Catalog,
	store CartSessionStore,
	signer *utils.CartTokenSigner,
	notifier sse.CartNotifier,
	ttl time.Duration,
	removalWindow time.Duration,
) *CartService {
	if notifier == nil {
		notifier = &sse.NopNotifier{}
	}
	return &CartService{
		catalog:       c,
		store:         store,
		signer:        signer,
		notifier:      notifier,
		ttl:           ttl,
		removalWindow: removalWindow,
		locks:         newSessionLocks(),
		now:           time.Now,
	}
}

// SetClock replaces the time source. Used by tests.
func (s *CartService) SetClock(now func() time.Time) {
	s.now = now
}

// CartItemView is a cart line with derived amounts.
type CartItemView struct {
	models.CartItem
	Subtotal      int    `json:"subtotal"`
	PriceLabel    string `json:"priceLabel"`
	SubtotalLabel string `json:"subtotalLabel"`
}

// CartView is the read model of a cart.
type CartView struct {
	SessionID       string         `json:"sessionId"`
	Items           []CartItemView `json:"items"`
	Totals          models.Totals  `json:"totals"`
	TotalLabel      string         `json:"totalLabel"`
	RecentlyRemoved []string       `json:"recentlyRemoved"`
	ExpiresAt       time.Time      `json:"expiresAt"`
}

// NewCartResult is returned when a session is opened.
type NewCartResult struct {
	Token string    `json:"token"`
	Cart  *CartView `json:"cart"`
}

// Quote is the checkout summary. Nothing is charged.
type Quote struct {
	SessionID        string         `json:"sessionId"`
	Status           string         `json:"status"`
	Items            []CartItemView `json:"items"`
	Totals           models.Totals  `json:"totals"`
	TotalLabel       string         `json:"totalLabel"`
	OneTimeTotal     int            `json:"oneTimeTotal"`
	MonthlyTotal     int            `json:"monthlyTotal"`
	UnspecifiedTotal int            `json:"unspecifiedTotal"`
}

// Create opens an empty cart session and signs a token for it.
func (s *CartService) Create(ctx context.Context) (*NewCartResult, error) {
	now := s.now()
	session := &models.CartSession{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	token, err := s.signer.Issue(session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign cart token: %w", err)
	}

	log.Info().Str("session_id", session.ID).Msg("Cart session created")
	return &NewCartResult{Token: token, Cart: s.view(session, now)}, nil
}

// ResolveToken returns the session id named by a cart token.
func (s *CartService) ResolveToken(token string) (string, error) {
	return s.signer.Parse(token)
}

// Get returns the current cart.
func (s *CartService) Get(ctx context.Context, sessionID string) (*CartView, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(session, s.now()), nil
}

// Toggle adds the entry if absent, or removes it if present.
func (s *CartService) Toggle(ctx context.Context, sessionID, entryID string) (*CartView, error) {
	entry, ok := s.catalog.Entry(entryID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", utils.ErrEntryNotFound, entryID)
	}
	price := s.catalog.Bands().PriceRange(entry.Model, entry.Tier).Midpoint()
	return s.mutate(ctx, sessionID, func(st *cart.Store, marks *cart.RemovalMarks, now time.Time) (sse.Action, string, error) {
		if !st.Contains(entry.ID) && !st.Fits(entry.ID, price, 1) {
			return "", "", fmt.Errorf("%w: adding %s", utils.ErrTotalsOverflow, entry.ID)
		}
		if st.Toggle(entry) {
			marks.Unmark(entry.ID)
			return sse.ActionItemAdded, entry.ID, nil
		}
		marks.Mark(entry.ID, now)
		return sse.ActionItemToggledOut, entry.ID, nil
	})
}

// Remove drops an item. Removing an absent item succeeds.
func (s *CartService) Remove(ctx context.Context, sessionID, itemID string) (*CartView, error) {
	return s.mutate(ctx, sessionID, func(st *cart.Store, _ *cart.RemovalMarks, _ time.Time) (sse.Action, string, error) {
		st.Remove(itemID)
		return sse.ActionItemRemoved, itemID, nil
	})
}

// SetQuantity sets an item's quantity; values below 1 remove it. Quantities
// that would overflow the cart totals are rejected.
func (s *CartService) SetQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*CartView, error) {
	return s.mutate(ctx, sessionID, func(st *cart.Store, _ *cart.RemovalMarks, _ time.Time) (sse.Action, string, error) {
		if item, ok := st.Item(itemID); ok && quantity >= 1 && !st.Fits(itemID, item.SelectedPrice, quantity) {
			return "", "", fmt.Errorf("%w: quantity %d of %s", utils.ErrTotalsOverflow, quantity, itemID)
		}
		st.SetQuantity(itemID, quantity)
		if quantity < 1 {
			return sse.ActionItemRemoved, itemID, nil
		}
		return sse.ActionQuantityChanged, itemID, nil
	})
}

// SetPrice sets an item's selected price. The price must lie inside the
// band captured when the item was added.
func (s *CartService) SetPrice(ctx context.Context, sessionID, itemID string, price int) (*CartView, error) {
	return s.mutate(ctx, sessionID, func(st *cart.Store, _ *cart.RemovalMarks, _ time.Time) (sse.Action, string, error) {
		item, ok := st.Item(itemID)
		if ok && !item.Price.Contains(price) {
			return "", "", fmt.Errorf("%w: %d not in [%d, %d]", utils.ErrPriceOutOfRange, price, item.Price.Min, item.Price.Max)
		}
		if ok && !st.Fits(itemID, price, item.Quantity) {
			return "", "", fmt.Errorf("%w: price %d of %s", utils.ErrTotalsOverflow, price, itemID)
		}
		st.SetPrice(itemID, price)
		return sse.ActionPriceChanged, itemID, nil
	})
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, sessionID string) (*CartView, error) {
	return s.mutate(ctx, sessionID, func(st *cart.Store, _ *cart.RemovalMarks, _ time.Time) (sse.Action, string, error) {
		st.Clear()
		return sse.ActionCleared, "", nil
	})
}

// Checkout summarizes the cart as a quote. The cart is left untouched.
func (s *CartService) Checkout(ctx context.Context, sessionID string) (*Quote, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(session.Items) == 0 {
		return nil, utils.ErrCartEmpty
	}

	v := s.view(session, s.now())
	q := &Quote{
		SessionID:  sessionID,
		Status:     "quote",
		Items:      v.Items,
		Totals:     v.Totals,
		TotalLabel: v.TotalLabel,
	}
	for _, it := range session.Items {
		switch it.BillingType {
		case models.BillingOneTime:
			q.OneTimeTotal += it.Subtotal()
		case models.BillingMonthly:
			q.MonthlyTotal += it.Subtotal()
		default:
			q.UnspecifiedTotal += it.Subtotal()
		}
	}

	log.Info().
		Str("session_id", sessionID).
		Int("total_items", q.Totals.TotalItems).
		Int("total_price", q.Totals.TotalPrice).
		Msg("Checkout quote generated")
	return q, nil
}

type mutation func(st *cart.Store, marks *cart.RemovalMarks, now time.Time) (sse.Action, string, error)

// mutate loads the session under its lock, applies fn, refreshes the TTL,
// saves, and notifies subscribers. Stores implementing SessionLocker are
// locked as well, after the in-process lock.
func (s *CartService) mutate(ctx context.Context, sessionID string, fn mutation) (*CartView, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	if locker, ok := s.store.(SessionLocker); ok {
		release, err := locker.LockSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	st := cart.Restore(s.catalog.Bands(), session.Items)
	marks := cart.NewRemovalMarks(s.removalWindow, session.RecentlyRemoved)

	action, itemID, err := fn(st, marks, now)
	if err != nil {
		return nil, err
	}
	marks.Prune(now)

	session.Items = st.Items()
	session.RecentlyRemoved = marks.Snapshot()
	session.UpdatedAt = now
	session.ExpiresAt = now.Add(s.ttl)
	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	totals := st.Totals()
	log.Debug().
		Str("session_id", sessionID).
		Str("action", string(action)).
		Str("item_id", itemID).
		Int("total_items", totals.TotalItems).
		Int("total_price", totals.TotalPrice).
		Msg("Cart updated")
	s.notifier.NotifyCartChanged(sessionID, action, itemID, totals)

	return s.view(session, now), nil
}

func (s *CartService) view(session *models.CartSession, now time.Time) *CartView {
	st := cart.Restore(s.catalog.Bands(), session.Items)
	marks := cart.NewRemovalMarks(s.removalWindow, session.RecentlyRemoved)

	items := st.Items()
	views := make([]CartItemView, 0, len(items))
	for _, it := range items {
		views = append(views, CartItemView{
			CartItem:      it,
			Subtotal:      it.Subtotal(),
			PriceLabel:    utils.FormatUSDRange(it.Price.Min, it.Price.Max),
			SubtotalLabel: utils.FormatUSD(it.Subtotal()),
		})
	}
	totals := st.Totals()
	return &CartView{
		SessionID:       session.ID,
		Items:           views,
		Totals:          totals,
		TotalLabel:      utils.FormatUSD(totals.TotalPrice),
		RecentlyRemoved: marks.IDs(now),
		ExpiresAt:       session.ExpiresAt,
	}
}
