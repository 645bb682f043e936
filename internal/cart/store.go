// Package cart implements the shopping cart state container. It is a plain
// single-owner value: callers serialize access.
package cart

import (
	"math"

	"github.com/mycoder/solutions_api/internal/models"
)

// PriceLookup resolves the price band of a (model, tier) pair.
type PriceLookup interface {
	PriceRange(model models.Model, tier models.Tier) models.PriceBand
}

// Store is an ordered set of cart items, unique by entry id.
type Store struct {
	bands PriceLookup
	items []models.CartItem
}

// NewStore returns an empty cart resolving bands through bands.
func NewStore(bands PriceLookup) *Store {
	return &Store{bands: bands}
}

// Restore rebuilds a cart from previously captured items.
func Restore(bands PriceLookup, items []models.CartItem) *Store {
	s := &Store{bands: bands}
	if len(items) > 0 {
		s.items = make([]models.CartItem, len(items))
		copy(s.items, items)
	}
	return s
}

// Toggle flips membership of entry. A present item is removed whatever its
// quantity; an absent one is appended with quantity 1 at the band midpoint.
// It reports whether the entry is in the cart afterwards.
func (s *Store) Toggle(entry models.CatalogEntry) bool {
	if s.indexOf(entry.ID) >= 0 {
		s.Remove(entry.ID)
		return false
	}

	band := s.bands.PriceRange(entry.Model, entry.Tier)
	s.items = append(s.items, models.CartItem{
		ID:            entry.ID,
		Title:         entry.Title,
		PainPoint:     entry.PainPoint,
		Solution:      entry.Solution,
		Category:      entry.Category,
		Tier:          entry.Tier,
		Model:         entry.Model,
		BillingType:   entry.BillingType,
		Deliverables:  append([]string(nil), entry.Deliverables...),
		Price:         band,
		Quantity:      1,
		SelectedPrice: band.Midpoint(),
	})
	return true
}

// Remove drops the item with id. Absent ids are ignored.
func (s *Store) Remove(id string) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	kept := make([]models.CartItem, 0, len(s.items)-1)
	kept = append(kept, s.items[:i]...)
	s.items = append(kept, s.items[i+1:]...)
}

// SetQuantity sets the quantity of id; anything below 1 removes the item.
func (s *Store) SetQuantity(id string, q int) {
	if q < 1 {
		s.Remove(id)
		return
	}
	if i := s.indexOf(id); i >= 0 {
		s.items[i].Quantity = q
	}
}

// SetPrice sets the selected price of id. The price is stored as given;
// keeping it inside the item's band is the caller's job.
func (s *Store) SetPrice(id string, price int) {
	if i := s.indexOf(id); i >= 0 {
		s.items[i].SelectedPrice = price
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.items = nil
}

// Totals sums quantities and line subtotals.
func (s *Store) Totals() models.Totals {
	var t models.Totals
	for _, it := range s.items {
		t.TotalItems += it.Quantity
		t.TotalPrice += it.Subtotal()
	}
	return t
}

// Fits reports whether the line for id, priced at price with quantity q,
// keeps both totals within int range. id need not be in the cart yet; an
// existing line for id is replaced in the calculation.
func (s *Store) Fits(id string, price, q int) bool {
	if price < 0 || q < 0 {
		return false
	}
	items, total := 0, 0
	for _, it := range s.items {
		if it.ID == id {
			continue
		}
		items += it.Quantity
		total += it.Subtotal()
	}
	if q > math.MaxInt-items {
		return false
	}
	return price == 0 || q <= (math.MaxInt-total)/price
}

// Items returns a copy of the items in insertion order.
func (s *Store) Items() []models.CartItem {
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Item returns the item with id.
func (s *Store) Item(id string) (models.CartItem, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return models.CartItem{}, false
}

// Contains reports whether id is in the cart.
func (s *Store) Contains(id string) bool {
	return s.indexOf(id) >= 0
}

// Len returns the number of distinct items.
func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
