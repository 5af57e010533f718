package workflow

import (
	"testing"

	"github.com/mmdatafocus/transfers_backend/config"
	"github.com/mmdatafocus/transfers_backend/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func agLine(product string, qty, cost, unitCost int64) models.TransferLine {
	return models.TransferLine{
		OrderId:         "9980-11588-1",
		OriginWarehouse: "ALMACEN GENERAL",
		DestBranch:      "Panem - Punto Valle",
		Product:         product,
		Quantity:        decimal.NewFromInt(qty),
		Cost:            decimal.NewFromInt(cost),
		UnitCost:        decimal.NewFromInt(unitCost),
	}
}

func ptLine(product string, qty, cost, unitCost int64) models.TransferLine {
	l := agLine(product, qty, cost, unitCost)
	l.OrderId = "9982-11588-1"
	l.OriginWarehouse = "ALMACEN PRODUCTO TERMINADO"
	return l
}

func priceMap(scope models.PriceScope, product string, price string) *models.PriceMap {
	m := models.NewPriceMap(scope)
	m.Add(models.PriceEntry{Product: product, UnitPrice: decimal.RequireFromString(price), HasPrice: true})
	return m
}

func TestApplyPricesAliasFallback(t *testing.T) {
	cfg := config.DefaultReconciliation()
	ag := priceMap(models.PriceScopeAG, "Mayonesa de Panem *", "25.50")
	lines := []models.TransferLine{agLine("Mayones de Panem *", 10, 300, 30)}

	res := ApplyPrices(lines, models.NewPriceMap(models.PriceScopePT), ag, cfg, testLogger())

	l := res.Lines[0]
	if !l.Corrected {
		t.Fatal("alias-resolved line must be corrected")
	}
	if !l.UnitCost.Equal(decimal.RequireFromString("25.5")) {
		t.Fatalf("unit cost = %s, want 25.5", l.UnitCost)
	}
	if !l.Cost.Equal(decimal.RequireFromString("255")) {
		t.Fatalf("cost = %s, want 255", l.Cost)
	}
	if !l.CostBefore.Equal(decimal.NewFromInt(300)) || !l.UnitCostBefore.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("pre-correction values lost: cost=%s unit=%s", l.CostBefore, l.UnitCostBefore)
	}
	if res.CorrectedAG != 1 {
		t.Fatalf("CorrectedAG = %d", res.CorrectedAG)
	}
}

func TestApplyPricesAliasOnlyOnMiss(t *testing.T) {
	cfg := config.DefaultReconciliation()
	// Both the raw key and the alias target exist; the raw key must win.
	ag := models.NewPriceMap(models.PriceScopeAG)
	ag.Add(models.PriceEntry{Product: "Mayones de Panem *", UnitPrice: decimal.NewFromInt(11), HasPrice: true})
	ag.Add(models.PriceEntry{Product: "Mayonesa de Panem *", UnitPrice: decimal.NewFromInt(22), HasPrice: true})
	lines := []models.TransferLine{agLine("Mayones de Panem *", 1, 0, 0)}

	res := ApplyPrices(lines, models.NewPriceMap(models.PriceScopePT), ag, cfg, testLogger())
	if !res.Lines[0].UnitCost.Equal(decimal.NewFromInt(11)) {
		t.Fatalf("raw key must win over alias, got %s", res.Lines[0].UnitCost)
	}
}

func TestApplyPricesOriginExclusivity(t *testing.T) {
	cfg := config.DefaultReconciliation()
	pt := priceMap(models.PriceScopePT, "Croissant", "12")
	ag := priceMap(models.PriceScopeAG, "Croissant", "99")

	lines := []models.TransferLine{ptLine("Croissant", 4, 40, 10)}
	res := ApplyPrices(lines, pt, ag, cfg, testLogger())

	// The finished-goods line takes the PT price and never the AG one.
	if !res.Lines[0].UnitCost.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("unit cost = %s, want PT price 12", res.Lines[0].UnitCost)
	}

	// The same product is unmatched when only the other scope prices it.
	lines = []models.TransferLine{ptLine("Harina", 1, 5, 5)}
	res = ApplyPrices(lines, models.NewPriceMap(models.PriceScopePT), priceMap(models.PriceScopeAG, "Harina", "7"), cfg, testLogger())
	if res.Lines[0].Corrected {
		t.Fatal("PT line must not take an AG-only price")
	}
	if len(res.UnmatchedPT) != 1 || res.UnmatchedPT[0] != "harina" {
		t.Fatalf("UnmatchedPT = %v", res.UnmatchedPT)
	}
}

func TestApplyPricesPassthroughOrigin(t *testing.T) {
	cfg := config.DefaultReconciliation()
	line := agLine("Croissant", 2, 30, 15)
	line.OriginWarehouse = "BODEGA CENTRAL"

	res := ApplyPrices([]models.TransferLine{line}, priceMap(models.PriceScopePT, "Croissant", "12"), priceMap(models.PriceScopeAG, "Croissant", "9"), cfg, testLogger())
	if res.Passthrough != 1 {
		t.Fatalf("Passthrough = %d", res.Passthrough)
	}
	if res.Lines[0].Corrected || !res.Lines[0].Cost.Equal(decimal.NewFromInt(30)) {
		t.Fatal("unknown-origin line must pass through unmodified")
	}
}

func TestApplyPricesEntryWithoutPriceNeverMatches(t *testing.T) {
	cfg := config.DefaultReconciliation()
	ag := models.NewPriceMap(models.PriceScopeAG)
	ag.Add(models.PriceEntry{Product: "Harina"})

	res := ApplyPrices([]models.TransferLine{agLine("Harina", 1, 5, 5)}, models.NewPriceMap(models.PriceScopePT), ag, cfg, testLogger())
	if res.Lines[0].Corrected {
		t.Fatal("null-price entry must not correct a line")
	}
	if len(res.UnmatchedAG) != 1 {
		t.Fatalf("UnmatchedAG = %v", res.UnmatchedAG)
	}
}

func TestApplyPricesIdempotent(t *testing.T) {
	cfg := config.DefaultReconciliation()
	pt := priceMap(models.PriceScopePT, "Croissant", "12")
	ag := priceMap(models.PriceScopeAG, "Mayonesa de Panem *", "25.50")

	lines := []models.TransferLine{
		ptLine("Croissant", 4, 41, 10),
		agLine("Mayones de Panem *", 10, 300, 30),
		agLine("Sin Precio", 1, 7, 7),
	}
	first := ApplyPrices(lines, pt, ag, cfg, testLogger())

	again := make([]models.TransferLine, len(first.Lines))
	copy(again, first.Lines)
	second := ApplyPrices(again, pt, ag, cfg, testLogger())

	for i := range first.Lines {
		a, b := first.Lines[i], second.Lines[i]
		if !a.Cost.Equal(b.Cost) || !a.UnitCost.Equal(b.UnitCost) ||
			!a.CostBefore.Equal(b.CostBefore) || !a.UnitCostBefore.Equal(b.UnitCostBefore) ||
			a.Corrected != b.Corrected {
			t.Fatalf("line %d not stable under reapplication:\nfirst  %+v\nsecond %+v", i, a, b)
		}
	}
}
