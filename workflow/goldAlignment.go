package workflow

import (
	"github.com/mmdatafocus/transfers_backend/config"
	"github.com/mmdatafocus/transfers_backend/models"
	"github.com/mmdatafocus/transfers_backend/utils"
	"github.com/shopspring/decimal"
)

// FilterOrdersForGoldAlignment drops the curated order ids that bleed
// into the validation workbook from adjacent weeks, per origin class.
// Diagnostic path only: production artifacts are always built from the
// unfiltered lines.
func FilterOrdersForGoldAlignment(lines []models.TransferLine, cfg *config.ReconciliationConfig) []models.TransferLine {
	agExcluded := toSet(cfg.AGExcludedOrders)
	ptExcluded := toSet(cfg.PTExcludedOrders)

	kept := make([]models.TransferLine, 0, len(lines))
	for i := range lines {
		l := lines[i]
		switch l.Origin() {
		case models.OriginGeneral:
			if agExcluded[l.OrderId] {
				continue
			}
		case models.OriginFinishedGoods:
			if ptExcluded[l.OrderId] {
				continue
			}
		}
		kept = append(kept, l)
	}
	return kept
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// MatchAgainstGold diffs corrected lines against the validation facts
// line by line, keyed on (order, normalized product). Lines without a
// gold counterpart are kept with Matched=false so the report shows how
// much of the week the workbook actually covers.
func MatchAgainstGold(lines []models.TransferLine, facts []models.GoldFact) []models.GoldMatch {
	type key struct{ order, product string }
	index := make(map[key]*models.GoldFact, len(facts))
	for i := range facts {
		f := &facts[i]
		k := key{f.OrderId, models.NormalizeProduct(f.Product)}
		if _, exists := index[k]; !exists {
			index[k] = f
		}
	}

	matches := make([]models.GoldMatch, 0, len(lines))
	for i := range lines {
		l := &lines[i]
		m := models.GoldMatch{
			OrderId:      l.OrderId,
			Product:      l.Product,
			DestBranch:   l.DestBranch,
			OriginText:   l.OriginWarehouse,
			OursUnitCost: l.UnitCost,
			OursCost:     l.Cost,
		}
		if f, ok := index[key{l.OrderId, models.NormalizeProduct(l.Product)}]; ok {
			m.Matched = true
			m.GoldUnitCost = f.UnitCost
			m.GoldCost = f.Cost
			m.DiffUnitCost = l.UnitCost.Sub(f.UnitCost)
			m.DiffCost = l.Cost.Sub(f.Cost)
		}
		matches = append(matches, m)
	}
	return matches
}

// GoldTotal sums the cost over a set of validation facts.
func GoldTotal(facts []models.GoldFact) decimal.Decimal {
	total := decimal.Zero
	for i := range facts {
		total = total.Add(facts[i].Cost)
	}
	return total
}

// CompareToNumeros totals the corrected lines headed to the configured
// branch and diffs against the NUMEROS figure. The comparison carries
// the NumerosTotal source tag through, so a fallback figure is never
// mistaken for a parsed one downstream.
func CompareToNumeros(lines []models.TransferLine, numeros models.NumerosTotal, cfg *config.ReconciliationConfig) models.NumerosComparison {
	ours := decimal.Zero
	for i := range lines {
		if lines[i].DestBranch == cfg.KaviaBranch {
			ours = ours.Add(lines[i].Cost)
		}
	}
	cmp := models.NumerosComparison{
		Branch:    cfg.KaviaBranch,
		OursTotal: ours,
		Numeros:   numeros,
		Diff:      ours.Sub(numeros.Value),
	}
	cmp.PctDiff, cmp.PctDiffOK = utils.PctChange(numeros.Value, ours)
	return cmp
}
