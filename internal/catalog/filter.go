package catalog

import (
	"strings"

	"github.com/mycoder/solutions_api/internal/models"
)

// Filter returns the entries visible under f, in catalog order.
//
// An entry is kept when its billing type matches the selector (or the
// selector is "all"), its category is in f.Categories, and the query is
// blank or a case-insensitive substring of "title painPoint solution category".
// Entries without a billing type only show up under "all".
func Filter(entries []models.CatalogEntry, f models.FilterState) []models.CatalogEntry {
	active := make(map[models.Category]struct{}, len(f.Categories))
	for _, c := range f.Categories {
		active[c] = struct{}{}
	}

	blank := strings.TrimSpace(f.Query) == ""
	needle := strings.ToLower(f.Query)

	out := make([]models.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if !billingMatches(f.Billing, e.BillingType) {
			continue
		}
		if _, ok := active[e.Category]; !ok {
			continue
		}
		if !blank && !strings.Contains(searchText(e), needle) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func billingMatches(sel models.BillingFilter, b models.BillingType) bool {
	switch sel {
	case models.BillingFilterAll, "":
		return true
	case models.BillingFilterOneTime:
		return b == models.BillingOneTime
	case models.BillingFilterMonthly:
		return b == models.BillingMonthly
	}
	return false
}

func searchText(e models.CatalogEntry) string {
	return strings.ToLower(e.Title + " " + e.PainPoint + " " + e.Solution + " " + string(e.Category))
}
