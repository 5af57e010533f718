package workflow

import (
	"testing"

	"github.com/mmdatafocus/transfers_backend/config"
	"github.com/mmdatafocus/transfers_backend/models"
	"github.com/shopspring/decimal"
)

// correctedLine builds a line as it looks after price application moved
// the unit cost from before to after.
func correctedLine(product string, qty, before, after int64) models.TransferLine {
	l := agLine(product, qty, qty*before, before)
	l.CostBefore = decimal.NewFromInt(qty * before)
	l.UnitCostBefore = decimal.NewFromInt(before)
	l.UnitCost = decimal.NewFromInt(after)
	l.Cost = decimal.NewFromInt(qty * after)
	l.Corrected = true
	l.Week = "2026-02-02_2026-02-08"
	return l
}

func TestWeeklyPriceChangesOnlyChangedLines(t *testing.T) {
	unchanged := agLine("Croissant", 2, 24, 12)
	unchanged.CostBefore = unchanged.Cost
	unchanged.UnitCostBefore = unchanged.UnitCost
	unchanged.Corrected = true

	changes := WeeklyPriceChanges([]models.TransferLine{
		unchanged,
		correctedLine("Harina", 5, 10, 12),
	})
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	c := changes[0]
	if c.Product != "Harina" || !c.UnitCostAfter.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("unexpected change row %+v", c)
	}
}

func TestWeeklyPriceChangesDerivesUnitBefore(t *testing.T) {
	// The export's unit-cost cell can disagree with cost/quantity; the
	// audit trail trusts the cost.
	l := correctedLine("Harina", 10, 10, 12)
	l.UnitCostBefore = decimal.NewFromInt(99)

	changes := WeeklyPriceChanges([]models.TransferLine{l})
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	if !changes[0].UnitCostBefore.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("UnitCostBefore = %s, want 10 (CostBefore/Quantity)", changes[0].UnitCostBefore)
	}
}

func TestWeeklyPriceChangesEmpty(t *testing.T) {
	changes := WeeklyPriceChanges(nil)
	if changes == nil || len(changes) != 0 {
		t.Fatalf("no corrections must yield an empty, non-nil slice, got %v", changes)
	}
}

func TestPriceChangeAlertThresholds(t *testing.T) {
	cfg := config.DefaultReconciliation()
	alerts := PriceChangeAlerts([]models.TransferLine{
		correctedLine("Doubled", 1, 10, 20),   // +100%
		correctedLine("Nudged", 1, 100, 110),  // +10%
		correctedLine("Shifted", 1, 100, 140), // +40%
		correctedLine("Halved", 1, 100, 40),   // -60%
	}, cfg)

	byProduct := map[string]models.PriceChangeAlert{}
	for _, a := range alerts {
		byProduct[a.Product] = a
	}
	if byProduct["Doubled"].Alert != models.AlertHigh {
		t.Fatalf("+100%% must be HIGH, got %q", byProduct["Doubled"].Alert)
	}
	if byProduct["Nudged"].Alert != models.AlertNone {
		t.Fatalf("+10%% must not alert, got %q", byProduct["Nudged"].Alert)
	}
	if byProduct["Shifted"].Alert != models.AlertMedium {
		t.Fatalf("+40%% must be MEDIUM, got %q", byProduct["Shifted"].Alert)
	}
	if byProduct["Halved"].Alert != models.AlertHigh {
		t.Fatalf("-60%% must be HIGH by magnitude, got %q", byProduct["Halved"].Alert)
	}

	// Sorted by absolute percent change, biggest first.
	if alerts[0].Product != "Doubled" {
		t.Fatalf("expected Doubled first, got %q", alerts[0].Product)
	}
	for i := 1; i < len(alerts); i++ {
		if alerts[i].PctChangeUnit.Abs().GreaterThan(alerts[i-1].PctChangeUnit.Abs()) {
			t.Fatalf("alerts not sorted by |pct| desc at %d", i)
		}
	}
}

func TestPriceChangeAlertsQuantityWeighted(t *testing.T) {
	cfg := config.DefaultReconciliation()
	// Same product corrected from two different original prices; the
	// weighted before-price is (1*10 + 9*20)/10 = 19.
	a := correctedLine("Mezcla", 1, 10, 19)
	b := correctedLine("Mezcla", 9, 20, 19)
	alerts := PriceChangeAlerts([]models.TransferLine{a, b}, cfg)

	if len(alerts) != 1 {
		t.Fatalf("expected one aggregated alert, got %d", len(alerts))
	}
	if !alerts[0].WeightedUnitBefore.Equal(decimal.NewFromInt(19)) {
		t.Fatalf("weighted before = %s, want 19", alerts[0].WeightedUnitBefore)
	}
	if !alerts[0].TotalQuantity.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("total quantity = %s", alerts[0].TotalQuantity)
	}
}
