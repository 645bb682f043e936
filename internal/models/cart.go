package models

import "time"

// CartItem is a snapshot of a catalog entry taken when it was added to a cart,
// plus the quantity and the price the visitor picked inside the captured band.
type CartItem struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	PainPoint     string      `json:"painPoint"`
	Solution      string      `json:"solution"`
	Category      Category    `json:"category"`
	Tier          Tier        `json:"tier"`
	Model         Model       `json:"model"`
	BillingType   BillingType `json:"billingType,omitempty"`
	Deliverables  []string    `json:"deliverables"`
	Price         PriceBand   `json:"price"`
	Quantity      int         `json:"quantity"`
	SelectedPrice int         `json:"selectedPrice"`
}

// Subtotal returns SelectedPrice multiplied by Quantity.
func (i CartItem) Subtotal() int {
	return i.SelectedPrice * i.Quantity
}

// Totals is the derived summary of a cart.
type Totals struct {
	TotalItems int `json:"totalItems"`
	TotalPrice int `json:"totalPrice"`
}

// CartSession is the stored state of one browsing session's cart.
// RecentlyRemoved maps entry ids to the instant their marker expires.
type CartSession struct {
	ID              string               `json:"id"`
	Items           []CartItem           `json:"items"`
	RecentlyRemoved map[string]time.Time `json:"recentlyRemoved,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
	ExpiresAt       time.Time            `json:"expiresAt"`
}

// Expired reports whether the session has outlived its TTL at now.
func (s *CartSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Clone returns a deep copy so stored sessions never alias caller state.
func (s *CartSession) Clone() *CartSession {
	out := *s
	if s.Items != nil {
		out.Items = make([]CartItem, len(s.Items))
		for i, it := range s.Items {
			it.Deliverables = append([]string(nil), it.Deliverables...)
			out.Items[i] = it
		}
	}
	if s.RecentlyRemoved != nil {
		out.RecentlyRemoved = make(map[string]time.Time, len(s.RecentlyRemoved))
		for k, v := range s.RecentlyRemoved {
			out.RecentlyRemoved[k] = v
		}
	}
	return &out
}
