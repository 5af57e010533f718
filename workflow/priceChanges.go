package workflow

import (
	"sort"

	"github.com/mmdatafocus/transfers_backend/config"
	"github.com/mmdatafocus/transfers_backend/models"
	"github.com/mmdatafocus/transfers_backend/utils"
	"github.com/shopspring/decimal"
)

// WeeklyPriceChanges extracts the audit trail of lines whose cost moved
// during price application. No changes yields an empty slice; the CSV
// writer still emits the header so the artifact schema is stable.
func WeeklyPriceChanges(lines []models.TransferLine) []models.PriceChange {
	changes := make([]models.PriceChange, 0)
	for i := range lines {
		l := &lines[i]
		if !l.Changed() {
			continue
		}
		// The before-unit-cost is derived from the cost, not copied from
		// the source cell: exports sometimes carry a stale unit price
		// that disagrees with cost/quantity.
		unitBefore := l.UnitCostBefore
		if !l.Quantity.IsZero() {
			unitBefore = l.CostBefore.Div(l.Quantity)
		}
		changes = append(changes, models.PriceChange{
			Product:        l.Product,
			OriginText:     l.OriginWarehouse,
			Quantity:       l.Quantity,
			UnitCostBefore: unitBefore,
			UnitCostAfter:  l.UnitCost,
			CostBefore:     l.CostBefore,
			CostAfter:      l.Cost,
			DestBranch:     l.DestBranch,
			OrderId:        l.OrderId,
		})
	}
	return changes
}

// PriceChangeAlerts aggregates corrections per (product, origin) and
// compares the quantity-weighted original unit price with the corrected
// one. Large relative moves usually mean a bad entry in the price list
// itself, so they are surfaced for review rather than silently applied
// and forgotten.
func PriceChangeAlerts(lines []models.TransferLine, cfg *config.ReconciliationConfig) []models.PriceChangeAlert {
	type group struct {
		product    string
		originText string
		quantity   decimal.Decimal
		beforeSum  decimal.Decimal
		afterSum   decimal.Decimal
		unitAfter  decimal.Decimal
	}
	groups := map[string]*group{}
	var order []string

	for i := range lines {
		l := &lines[i]
		if !l.Changed() {
			continue
		}
		key := models.NormalizeProduct(l.Product) + "|" + string(l.Origin())
		g, ok := groups[key]
		if !ok {
			g = &group{product: l.Product, originText: l.OriginWarehouse}
			groups[key] = g
			order = append(order, key)
		}
		g.quantity = g.quantity.Add(l.Quantity)
		g.beforeSum = g.beforeSum.Add(l.CostBefore)
		g.afterSum = g.afterSum.Add(l.Cost)
		g.unitAfter = l.UnitCost
	}

	alerts := make([]models.PriceChangeAlert, 0, len(groups))
	for _, key := range order {
		g := groups[key]
		a := models.PriceChangeAlert{
			Product:       g.product,
			OriginText:    g.originText,
			TotalQuantity: g.quantity,
			UnitAfter:     g.unitAfter,
			CostBeforeSum: g.beforeSum,
			CostAfterSum:  g.afterSum,
			CostDiff:      g.afterSum.Sub(g.beforeSum),
		}
		if !g.quantity.IsZero() {
			a.WeightedUnitBefore = g.beforeSum.Div(g.quantity)
		}
		if pct, ok := utils.PctChange(a.WeightedUnitBefore, a.UnitAfter); ok {
			a.PctChangeUnit = pct
		}
		a.Alert = alertLevel(a.PctChangeUnit, cfg)
		alerts = append(alerts, a)
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].PctChangeUnit.Abs().GreaterThan(alerts[j].PctChangeUnit.Abs())
	})
	return alerts
}

func alertLevel(pct decimal.Decimal, cfg *config.ReconciliationConfig) models.AlertLevel {
	abs := pct.Abs()
	switch {
	case abs.GreaterThan(decimal.NewFromFloat(cfg.AlertPctHigh)):
		return models.AlertHigh
	case abs.GreaterThan(decimal.NewFromFloat(cfg.AlertPctMedium)):
		return models.AlertMedium
	default:
		return models.AlertNone
	}
}
