package service

import (
	"fmt"
	"strings"

	"github.com/mycoder/solutions_api/internal/catalog"
	"github.com/mycoder/solutions_api/internal/models"
	"github.com/mycoder/solutions_api/internal/utils"
)

// CatalogService exposes the read side of the solutions catalog.
type CatalogService struct {
	catalog *catalog.Catalog
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(c *catalog.Catalog) *CatalogService {
	return &CatalogService{catalog: c}
}

// EntryResponse is a catalog entry decorated with its resolved price band.
type EntryResponse struct {
	models.CatalogEntry
	PriceRange models.PriceBand `json:"priceRange"`
	PriceLabel string           `json:"priceLabel"`
}

// CategoryResponse is a category with the number of entries filed under it.
type CategoryResponse struct {
	Name  models.Category `json:"name"`
	Count int             `json:"count"`
}

// BundleResponse is a bundle with its formatted typical range.
type BundleResponse struct {
	models.Bundle
	TypicalLabel string `json:"typicalLabel"`
}

// FilterParams is the raw filter input of the catalog listing.
// HasCategories distinguishes "no category parameter" (all categories)
// from an explicitly empty selection.
type FilterParams struct {
	Query         string
	Categories    []string
	HasCategories bool
	Billing       string
}

// BuildFilter turns raw parameters into a FilterState.
func (s *CatalogService) BuildFilter(p FilterParams) (models.FilterState, error) {
	billing, ok := models.ParseBillingFilter(p.Billing)
	if !ok {
		return models.FilterState{}, fmt.Errorf("%w: %q", utils.ErrInvalidBilling, p.Billing)
	}

	f := s.catalog.DefaultFilter()
	f.Query = p.Query
	f.Billing = billing
	if p.HasCategories {
		f.Categories = f.Categories[:0]
		for _, raw := range p.Categories {
			for _, c := range strings.Split(raw, ",") {
				if c = strings.TrimSpace(c); c != "" {
					f.Categories = append(f.Categories, models.Category(c))
				}
			}
		}
	}
	return f, nil
}

// ListEntries returns the entries visible under f.
func (s *CatalogService) ListEntries(f models.FilterState) []EntryResponse {
	entries := s.catalog.Filter(f)
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, s.decorate(e))
	}
	return out
}

// GetEntry returns one entry by id.
func (s *CatalogService) GetEntry(id string) (*EntryResponse, error) {
	e, ok := s.catalog.Entry(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", utils.ErrEntryNotFound, id)
	}
	resp := s.decorate(e)
	return &resp, nil
}

// Categories returns every category in order with its entry count.
func (s *CatalogService) Categories() []CategoryResponse {
	counts := make(map[models.Category]int)
	for _, e := range s.catalog.Entries() {
		counts[e.Category]++
	}
	cats := s.catalog.Categories()
	out := make([]CategoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryResponse{Name: c, Count: counts[c]})
	}
	return out
}

// Bundles returns the display bundles.
func (s *CatalogService) Bundles() []BundleResponse {
	bundles := s.catalog.Bundles()
	out := make([]BundleResponse, 0, len(bundles))
	for _, b := range bundles {
		out = append(out, BundleResponse{
			Bundle:       b,
			TypicalLabel: utils.FormatUSDRange(b.TypicalMin, b.TypicalMax),
		})
	}
	return out
}

// PriceRange resolves a band. Unknown pairs yield a zero band.
func (s *CatalogService) PriceRange(model models.Model, tier models.Tier) models.PriceBand {
	return s.catalog.Bands().PriceRange(model, tier)
}

func (s *CatalogService) decorate(e models.CatalogEntry) EntryResponse {
	band := s.catalog.Bands().PriceRange(e.Model, e.Tier)
	return EntryResponse{
		CatalogEntry: e,
		PriceRange:   band,
		PriceLabel:   utils.FormatUSDRange(band.Min, band.Max),
	}
}
