// Package catalog holds the immutable solutions dataset: entries, categories,
// price bands, affiliate links and bundles, plus the pure filter over them.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mycoder/solutions_api/internal/models"
)

//go:embed data/catalog.yaml
var embeddedDataset []byte

type dataset struct {
	Bands      map[models.Model]map[string][]int `yaml:"bands"`
	Categories []models.Category                 `yaml:"categories"`
	Solutions  []models.CatalogEntry             `yaml:"solutions"`
	Affiliates map[string][]models.Affiliate     `yaml:"affiliates"`
	Bundles    []models.Bundle                   `yaml:"bundles"`
}

// Catalog is the loaded dataset. It is never mutated after Parse returns.
type Catalog struct {
	entries    []models.CatalogEntry
	byID       map[string]int
	categories []models.Category
	bundles    []models.Bundle
	bands      *BandTable
}

// LoadEmbedded parses the dataset compiled into the binary.
func LoadEmbedded(diagnostics bool) (*Catalog, error) {
	return Parse(embeddedDataset, diagnostics)
}

// Parse decodes and validates a YAML dataset.
func Parse(data []byte, diagnostics bool) (*Catalog, error) {
	var ds dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	bands, err := NewBandTable(ds.Bands, diagnostics)
	if err != nil {
		return nil, err
	}

	if len(ds.Categories) == 0 {
		return nil, errors.New("catalog: no categories declared")
	}
	known := make(map[models.Category]bool, len(ds.Categories))
	for _, c := range ds.Categories {
		if c == "" || known[c] {
			return nil, fmt.Errorf("catalog: empty or duplicate category %q", c)
		}
		known[c] = true
	}

	byID := make(map[string]int, len(ds.Solutions))
	for i := range ds.Solutions {
		e := &ds.Solutions[i]
		if err := validateEntry(e, known); err != nil {
			return nil, err
		}
		if _, dup := byID[e.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate entry id %q", e.ID)
		}
		byID[e.ID] = i
	}

	for id, links := range ds.Affiliates {
		i, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("catalog: affiliates reference unknown entry %q", id)
		}
		ds.Solutions[i].Affiliates = links
	}

	for _, b := range ds.Bundles {
		if b.ID == "" || b.TypicalMin > b.TypicalMax {
			return nil, fmt.Errorf("catalog: invalid bundle %q", b.ID)
		}
	}

	return &Catalog{
		entries:    ds.Solutions,
		byID:       byID,
		categories: ds.Categories,
		bundles:    ds.Bundles,
		bands:      bands,
	}, nil
}

func validateEntry(e *models.CatalogEntry, categories map[models.Category]bool) error {
	switch {
	case e.ID == "":
		return errors.New("catalog: entry without id")
	case !categories[e.Category]:
		return fmt.Errorf("catalog: entry %q has unknown category %q", e.ID, e.Category)
	case !e.Tier.Valid():
		return fmt.Errorf("catalog: entry %q has tier %d outside 1..3", e.ID, e.Tier)
	case !e.Model.Valid():
		return fmt.Errorf("catalog: entry %q has unknown model %q", e.ID, e.Model)
	case !e.BillingType.Valid():
		return fmt.Errorf("catalog: entry %q has unknown billing type %q", e.ID, e.BillingType)
	}
	return nil
}

// Entries returns every entry in declaration order.
func (c *Catalog) Entries() []models.CatalogEntry {
	return append([]models.CatalogEntry(nil), c.entries...)
}

// Entry looks up an entry by id.
func (c *Catalog) Entry(id string) (models.CatalogEntry, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.CatalogEntry{}, false
	}
	return c.entries[i], true
}

// Categories returns the categories in declaration order.
func (c *Catalog) Categories() []models.Category {
	return append([]models.Category(nil), c.categories...)
}

// Bundles returns the display bundles.
func (c *Catalog) Bundles() []models.Bundle {
	return append([]models.Bundle(nil), c.bundles...)
}

// Bands returns the price band table.
func (c *Catalog) Bands() *BandTable {
	return c.bands
}

// DefaultFilter selects every category and billing type with no query.
func (c *Catalog) DefaultFilter() models.FilterState {
	return models.FilterState{
		Categories: c.Categories(),
		Billing:    models.BillingFilterAll,
	}
}

// Filter applies f to the full catalog.
func (c *Catalog) Filter(f models.FilterState) []models.CatalogEntry {
	return Filter(c.entries, f)
}
