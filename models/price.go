package models

import "github.com/shopspring/decimal"

type PriceScope string

const (
	PriceScopePT PriceScope = "PT"
	PriceScopeAG PriceScope = "AG"
)

// PriceEntry is the authoritative unit price for one product in one
// warehouse scope. HasPrice is false when the source cell was not
// numeric; the entry is kept so the product counts as known, but it
// never corrects a line.
type PriceEntry struct {
	Product   string          `json:"producto"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	HasPrice  bool            `json:"has_price"`
	Scope     PriceScope      `json:"scope"`
}

// PriceMap holds at most one entry per normalized product name.
type PriceMap struct {
	Scope   PriceScope
	entries map[string]PriceEntry
	order   []string
}

func NewPriceMap(scope PriceScope) *PriceMap {
	return &PriceMap{Scope: scope, entries: map[string]PriceEntry{}}
}

// Add registers an entry under its normalized product name. Duplicates
// are dropped, first occurrence wins.
func (m *PriceMap) Add(entry PriceEntry) {
	key := NormalizeProduct(entry.Product)
	if _, exists := m.entries[key]; exists {
		return
	}
	entry.Scope = m.Scope
	m.entries[key] = entry
	m.order = append(m.order, key)
}

// Lookup returns the entry for a normalized key.
func (m *PriceMap) Lookup(normKey string) (PriceEntry, bool) {
	if m == nil {
		return PriceEntry{}, false
	}
	e, ok := m.entries[normKey]
	return e, ok
}

// Price returns the usable unit price for a normalized key. Entries
// without a numeric price do not match.
func (m *PriceMap) Price(normKey string) (decimal.Decimal, bool) {
	e, ok := m.Lookup(normKey)
	if !ok || !e.HasPrice {
		return decimal.Zero, false
	}
	return e.UnitPrice, true
}

// Set overwrites or inserts an entry regardless of first-wins dedupe.
// Used by the price-list update workflow when merging gold corrections.
func (m *PriceMap) Set(entry PriceEntry) {
	key := NormalizeProduct(entry.Product)
	if _, exists := m.entries[key]; !exists {
		m.order = append(m.order, key)
	}
	entry.Scope = m.Scope
	m.entries[key] = entry
}

// Len reports the number of distinct products.
func (m *PriceMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns all entries in insertion order.
func (m *PriceMap) Entries() []PriceEntry {
	if m == nil {
		return nil
	}
	out := make([]PriceEntry, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, m.entries[key])
	}
	return out
}

// Keys returns the normalized keys in insertion order.
func (m *PriceMap) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.order...)
}
