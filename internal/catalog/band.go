package catalog

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mycoder/solutions_api/internal/models"
)

// BandTable maps (model, level key) pairs to price bands. It is built once
// and read-only afterwards, so it is safe for concurrent use.
type BandTable struct {
	bands       map[models.Model]map[string]models.PriceBand
	diagnostics bool
}

// NewBandTable validates raw [min, max] pairs keyed by model and level key
// ("level1".."level3"). When diagnostics is true, lookups that miss the
// table are logged.
func NewBandTable(raw map[models.Model]map[string][]int, diagnostics bool) (*BandTable, error) {
	bands := make(map[models.Model]map[string]models.PriceBand, len(raw))
	for model, levels := range raw {
		if !model.Valid() {
			return nil, fmt.Errorf("band table: unknown model %q", model)
		}
		m := make(map[string]models.PriceBand, len(levels))
		for level, pair := range levels {
			if len(pair) != 2 {
				return nil, fmt.Errorf("band table: %s.%s must be [min, max], got %v", model, level, pair)
			}
			band := models.PriceBand{Min: pair[0], Max: pair[1]}
			if band.Min < 0 || band.Max < 0 {
				return nil, fmt.Errorf("band table: %s.%s has a negative bound", model, level)
			}
			if band.Min > band.Max {
				return nil, fmt.Errorf("band table: %s.%s min %d exceeds max %d", model, level, band.Min, band.Max)
			}
			m[level] = band
		}
		bands[model] = m
	}
	return &BandTable{bands: bands, diagnostics: diagnostics}, nil
}

// PriceRange returns the band for the model and tier. A pair missing from
// the table yields a zero band instead of failing.
func (t *BandTable) PriceRange(model models.Model, tier models.Tier) models.PriceBand {
	level := tier.LevelKey()
	band, ok := t.bands[model][level]
	if !ok {
		if t.diagnostics {
			log.Warn().
				Str("model", string(model)).
				Str("level", level).
				Msg("Missing price band entry, falling back to 0-0")
		}
		return models.PriceBand{}
	}
	return band
}
