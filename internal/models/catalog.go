package models

import "strconv"

// Model enumerates the engagement types a solution can be sold under.
type Model string

const (
	ModelStarter Model = "starter"
	ModelPro     Model = "pro"
)

// Valid reports whether m is one of the known engagement types.
func (m Model) Valid() bool {
	return m == ModelStarter || m == ModelPro
}

// Tier is the 1-3 scope level of a solution.
type Tier int

const (
	TierOne   Tier = 1
	TierTwo   Tier = 2
	TierThree Tier = 3
)

// Valid reports whether t is within 1..3.
func (t Tier) Valid() bool {
	return t >= TierOne && t <= TierThree
}

// LevelKey returns the band table key for the tier, e.g. "level2".
func (t Tier) LevelKey() string {
	return "level" + strconv.Itoa(int(t))
}

// BillingType tells whether a solution is charged once or monthly.
// The empty value means the entry does not declare one.
type BillingType string

const (
	BillingUnspecified BillingType = ""
	BillingOneTime     BillingType = "oneTime"
	BillingMonthly     BillingType = "monthly"
)

// Valid reports whether b is a declared billing type or unspecified.
func (b BillingType) Valid() bool {
	return b == BillingUnspecified || b == BillingOneTime || b == BillingMonthly
}

// BillingFilter is the billing selector of the catalog filter.
type BillingFilter string

const (
	BillingFilterAll     BillingFilter = "all"
	BillingFilterOneTime BillingFilter = "oneTime"
	BillingFilterMonthly BillingFilter = "monthly"
)

// ParseBillingFilter maps a raw selector to a BillingFilter. Empty input means all.
func ParseBillingFilter(raw string) (BillingFilter, bool) {
	switch BillingFilter(raw) {
	case "", BillingFilterAll:
		return BillingFilterAll, true
	case BillingFilterOneTime:
		return BillingFilterOneTime, true
	case BillingFilterMonthly:
		return BillingFilterMonthly, true
	}
	return "", false
}

// Category is one of the fixed solution categories.
type Category string

// PriceBand is an inclusive [Min, Max] price range in whole US dollars.
type PriceBand struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Midpoint returns the band midpoint rounded half up.
func (b PriceBand) Midpoint() int {
	return (b.Min + b.Max + 1) / 2
}

// Contains reports whether price lies inside the band.
func (b PriceBand) Contains(price int) bool {
	return price >= b.Min && price <= b.Max
}

// Affiliate is an external tool link shown next to a catalog entry.
type Affiliate struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
	Icon string `yaml:"icon" json:"icon"`
}

// EntryDetails holds the long-form copy of a catalog entry.
type EntryDetails struct {
	Overview    string   `yaml:"overview" json:"overview"`
	KeyFeatures []string `yaml:"keyFeatures" json:"keyFeatures"`
	Benefits    []string `yaml:"benefits" json:"benefits"`
	UseCases    []string `yaml:"useCases" json:"useCases"`
}

// CatalogEntry is a productized service offering.
type CatalogEntry struct {
	ID           string        `yaml:"id" json:"id"`
	Title        string        `yaml:"title" json:"title"`
	PainPoint    string        `yaml:"painPoint" json:"painPoint"`
	Solution     string        `yaml:"solution" json:"solution"`
	Category     Category      `yaml:"category" json:"category"`
	Tier         Tier          `yaml:"tier" json:"tier"`
	Model        Model         `yaml:"model" json:"model"`
	BillingType  BillingType   `yaml:"billingType" json:"billingType,omitempty"`
	Deliverables []string      `yaml:"deliverables" json:"deliverables"`
	Details      *EntryDetails `yaml:"details" json:"details,omitempty"`
	Affiliates   []Affiliate   `yaml:"-" json:"affiliates,omitempty"`
}

// BundleComponent is one named part of a solution bundle.
type BundleComponent struct {
	Label       string      `yaml:"label" json:"label"`
	BillingType BillingType `yaml:"billingType" json:"billingType"`
}

// Bundle is a display-only package of solutions with a typical price range.
type Bundle struct {
	ID         string            `yaml:"id" json:"id"`
	Name       string            `yaml:"name" json:"name"`
	Components []BundleComponent `yaml:"components" json:"components"`
	TypicalMin int               `yaml:"typicalMin" json:"typicalMin"`
	TypicalMax int               `yaml:"typicalMax" json:"typicalMax"`
	Savings    string            `yaml:"savings" json:"savings"`
}

// FilterState is the user-controlled view over the catalog.
// A nil Categories set matches nothing; callers wanting every category
// pass the full list.
type FilterState struct {
	Query      string
	Categories []Category
	Billing    BillingFilter
}
