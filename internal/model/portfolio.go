package model

import "strings"

// Portfolio construction limits enforced before any request is built
const (
	MaxPortfolioEntries = 20
	MaxTickerLength     = 10
	AllocationTolerance = 0.01
)

// PortfolioEntry represents a single holding and its target allocation
// as a percentage of the whole portfolio
type PortfolioEntry struct {
	Ticker     string  `json:"ticker"`
	Allocation float64 `json:"allocation"`
}

// Portfolio is an ordered list of entries; insertion order is preserved
// for display but carries no meaning for validation
type Portfolio []PortfolioEntry

// AllocationSum returns the total allocation across all entries
func (p Portfolio) AllocationSum() float64 {
	var sum float64
	for _, e := range p {
		sum += e.Allocation
	}
	return sum
}

// Tickers returns the entry tickers in portfolio order
func (p Portfolio) Tickers() []string {
	out := make([]string, 0, len(p))
	for _, e := range p {
		out = append(out, e.Ticker)
	}
	return out
}

// NormalizeTicker trims surrounding whitespace and uppercases a raw
// ticker the way the analytics service expects it
func NormalizeTicker(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
