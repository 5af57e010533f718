package workflow

import (
	"math"
	"sort"

	"github.com/mmdatafocus/transfers_backend/config"
	"github.com/mmdatafocus/transfers_backend/models"
	"github.com/mmdatafocus/transfers_backend/utils"
	"github.com/shopspring/decimal"
)

// GoldCanonicalPrices derives one canonical unit price per product from
// the validation facts: the median of the observed unit costs, with
// count and dispersion stats for the reasonable-value filter. The
// median rides out the odd mispriced line better than a mean would.
func GoldCanonicalPrices(facts []models.GoldFact) []models.GoldCanonicalPrice {
	byProduct := map[string][]decimal.Decimal{}
	names := map[string]string{}
	var order []string
	for i := range facts {
		f := &facts[i]
		key := models.NormalizeProduct(f.Product)
		if _, seen := byProduct[key]; !seen {
			order = append(order, key)
			names[key] = f.Product
		}
		byProduct[key] = append(byProduct[key], f.UnitCost)
	}

	prices := make([]models.GoldCanonicalPrice, 0, len(order))
	for _, key := range order {
		observed := byProduct[key]
		p := models.GoldCanonicalPrice{
			Product:   names[key],
			UnitPrice: median(observed),
			Count:     len(observed),
		}
		if len(observed) > 1 {
			std, cv, ok := dispersion(observed)
			p.Std = std
			p.CV = cv
			p.HasCV = ok
		}
		prices = append(prices, p)
	}
	return prices
}

func median(values []decimal.Decimal) decimal.Decimal {
	sorted := append([]decimal.Decimal(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return sorted[n/2-1].Add(sorted[n/2]).Div(decimal.NewFromInt(2))
}

// dispersion reports the sample standard deviation (n-1 denominator)
// and coefficient of variation. Callers only invoke it with two or more
// observations.
func dispersion(values []decimal.Decimal) (std, cv decimal.Decimal, cvOK bool) {
	floats := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		floats[i] = v.InexactFloat64()
		sum += floats[i]
	}
	mean := sum / float64(len(floats))
	var sq float64
	for _, f := range floats {
		sq += (f - mean) * (f - mean)
	}
	stdF := math.Sqrt(sq / float64(len(floats)-1))
	std = decimal.NewFromFloat(stdF)
	if mean != 0 {
		return std, decimal.NewFromFloat(stdF / mean), true
	}
	return std, decimal.Zero, false
}

// goldReasonable applies the sanity filter: price inside the plausible
// band and, when dispersion is known, stable across observations.
func goldReasonable(p models.GoldCanonicalPrice, cfg *config.ReconciliationConfig) bool {
	if p.UnitPrice.LessThan(cfg.GoldMinReasonable) || p.UnitPrice.GreaterThan(cfg.GoldMaxReasonable) {
		return false
	}
	if p.HasCV && p.CV.GreaterThan(decimal.NewFromFloat(cfg.GoldCVMax)) {
		return false
	}
	return true
}

// ComparePrices cross-checks an authoritative price list against the
// gold canonical prices, over the union of both plus any extra products
// observed on transfer lines. Per row it decides:
//   - FlagReview: both sides have a price but they disagree by more than
//     the review ratio in either direction, too far apart to auto-adopt.
//   - UseGold: the gold price passes the sanity filter, moves the list
//     price by more than a cent, and is not flagged; gold-only products
//     with a reasonable price are adopted as additions.
func ComparePrices(ours *models.PriceMap, gold []models.GoldCanonicalPrice, transferProducts []string, cfg *config.ReconciliationConfig) []models.PriceComparison {
	goldByKey := map[string]models.GoldCanonicalPrice{}
	var order []string
	seen := map[string]bool{}
	for _, g := range gold {
		key := models.NormalizeProduct(g.Product)
		if seen[key] {
			continue
		}
		seen[key] = true
		goldByKey[key] = g
		order = append(order, key)
	}
	for _, key := range ours.Keys() {
		if !seen[key] {
			seen[key] = true
			order = append(order, key)
		}
	}
	for _, product := range transferProducts {
		key := models.NormalizeProduct(product)
		if !seen[key] {
			seen[key] = true
			order = append(order, key)
			goldByKey[key] = models.GoldCanonicalPrice{Product: product}
		}
	}

	penny := decimal.RequireFromString("0.01")
	ratioHigh := decimal.NewFromFloat(cfg.ReviewRatio)

	rows := make([]models.PriceComparison, 0, len(order))
	for _, key := range order {
		row := models.PriceComparison{Scope: ours.Scope}
		if g, ok := goldByKey[key]; ok && g.Count > 0 {
			row.Product = g.Product
			row.GoldPrice = g.UnitPrice
			row.HasGold = true
			row.GoldCount = g.Count
			row.GoldCV = g.CV
			row.GoldReasonable = goldReasonable(g, cfg)
		}
		if entry, ok := ours.Lookup(key); ok {
			if row.Product == "" {
				row.Product = entry.Product
			}
			if entry.HasPrice {
				row.OursPrice = entry.UnitPrice
				row.HasOurs = true
			}
		}
		if row.Product == "" {
			row.Product = goldByKey[key].Product
		}

		if row.HasOurs && row.HasGold {
			// Read as "the list price relative to gold": positive means
			// the list is above the validated price.
			row.Diff = row.OursPrice.Sub(row.GoldPrice)
			row.PctDiff, row.PctDiffOK = utils.PctChange(row.GoldPrice, row.OursPrice)
			if !row.OursPrice.IsZero() {
				ratio := row.GoldPrice.Div(row.OursPrice)
				if ratio.GreaterThan(ratioHigh) || ratio.LessThan(decimal.NewFromInt(1).Div(ratioHigh)) {
					row.FlagReview = true
				}
			}
			row.UseGold = row.GoldReasonable && row.Diff.Abs().GreaterThan(penny) && !row.FlagReview
		} else if row.HasGold {
			row.UseGold = row.GoldReasonable
		}
		rows = append(rows, row)
	}
	return rows
}

// BuildUpdatedPrices folds the comparison decisions back into a new
// price list: rows marked UseGold take the gold price, everything else
// keeps the current entry. Entries are kept in the original list order,
// adoptions appended after.
func BuildUpdatedPrices(ours *models.PriceMap, comparisons []models.PriceComparison) *models.PriceMap {
	updated := models.NewPriceMap(ours.Scope)
	for _, entry := range ours.Entries() {
		updated.Add(entry)
	}
	for _, row := range comparisons {
		if !row.UseGold {
			continue
		}
		updated.Set(models.PriceEntry{
			Product:   row.Product,
			UnitPrice: row.GoldPrice,
			HasPrice:  true,
		})
	}
	return updated
}
