package models

// Recommendation is the pricing verdict for one product.
type Recommendation int

const (
	NoData Recommendation = iota
	Overpriced
	Underpriced
	AtMarket
)

// Recommendations lists every verdict in report order.
var Recommendations = []Recommendation{Overpriced, Underpriced, AtMarket, NoData}

// String returns the label used in reports and exports.
func (r Recommendation) String() string {
	switch r {
	case Overpriced:
		return "Overpriced"
	case Underpriced:
		return "Underpriced"
	case AtMarket:
		return "At Market"
	default:
		return "No Data"
	}
}

// CategoryPriceMap maps a normalized category to its reference price.
// It is built once per run and is read-only afterwards.
type CategoryPriceMap struct {
	order  []string
	prices map[string]float64
}

// NewCategoryPriceMap freezes prices. order fixes iteration order; keys of prices
// missing from order are dropped, entries of order missing from prices are skipped.
func NewCategoryPriceMap(order []string, prices map[string]float64) *CategoryPriceMap {
	m := &CategoryPriceMap{
		order:  make([]string, 0, len(order)),
		prices: make(map[string]float64, len(order)),
	}
	for _, cat := range order {
		p, ok := prices[cat]
		if !ok {
			continue
		}
		if _, dup := m.prices[cat]; dup {
			continue
		}
		m.order = append(m.order, cat)
		m.prices[cat] = p
	}
	return m
}

// Get returns the price for category and whether it is mapped.
func (m *CategoryPriceMap) Get(category string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	p, ok := m.prices[category]
	return p, ok
}

// Lookup returns the price for a nullable category, nil when unmapped.
func (m *CategoryPriceMap) Lookup(category *string) *float64 {
	if category == nil {
		return nil
	}
	p, ok := m.Get(*category)
	if !ok {
		return nil
	}
	return &p
}

// Categories returns the keys in first-seen order.
func (m *CategoryPriceMap) Categories() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of mapped categories.
func (m *CategoryPriceMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}
