package workflow

import (
	"testing"

	"github.com/mmdatafocus/transfers_backend/config"
	"github.com/mmdatafocus/transfers_backend/models"
	"github.com/shopspring/decimal"
)

func goldFact(product string, unitCost string) models.GoldFact {
	return models.GoldFact{
		Product:  product,
		UnitCost: decimal.RequireFromString(unitCost),
		Quantity: decimal.NewFromInt(1),
		Cost:     decimal.RequireFromString(unitCost),
	}
}

func TestGoldCanonicalPricesMedian(t *testing.T) {
	facts := []models.GoldFact{
		goldFact("Croissant", "10"),
		goldFact("Croissant", "12"),
		goldFact("Croissant", "100"), // outlier the median must ride out
		goldFact("Harina", "5"),
		goldFact("Harina", "7"),
	}
	prices := GoldCanonicalPrices(facts)
	byProduct := map[string]models.GoldCanonicalPrice{}
	for _, p := range prices {
		byProduct[p.Product] = p
	}

	if !byProduct["Croissant"].UnitPrice.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("odd-count median = %s, want 12", byProduct["Croissant"].UnitPrice)
	}
	if byProduct["Croissant"].Count != 3 {
		t.Fatalf("count = %d", byProduct["Croissant"].Count)
	}
	if !byProduct["Harina"].UnitPrice.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("even-count median = %s, want 6", byProduct["Harina"].UnitPrice)
	}
	if !byProduct["Croissant"].HasCV {
		t.Fatal("multi-observation product must carry dispersion stats")
	}
}

func TestComparePricesAdoptionAndReview(t *testing.T) {
	cfg := config.DefaultReconciliation()
	ours := models.NewPriceMap(models.PriceScopePT)
	ours.Add(models.PriceEntry{Product: "Croissant", UnitPrice: decimal.NewFromInt(10), HasPrice: true})
	ours.Add(models.PriceEntry{Product: "Estable", UnitPrice: decimal.NewFromInt(20), HasPrice: true})
	ours.Add(models.PriceEntry{Product: "Sospechoso", UnitPrice: decimal.NewFromInt(10), HasPrice: true})

	gold := []models.GoldCanonicalPrice{
		{Product: "Croissant", UnitPrice: decimal.NewFromInt(12), Count: 3},
		{Product: "Estable", UnitPrice: decimal.RequireFromString("20.005"), Count: 2},
		{Product: "Sospechoso", UnitPrice: decimal.NewFromInt(40), Count: 2}, // 4x the list price
		{Product: "Nuevo", UnitPrice: decimal.NewFromInt(15), Count: 2},
		{Product: "Absurdo", UnitPrice: decimal.RequireFromString("0.01"), Count: 2}, // below plausible band
	}

	rows := ComparePrices(ours, gold, nil, cfg)
	byProduct := map[string]models.PriceComparison{}
	for _, r := range rows {
		byProduct[r.Product] = r
	}

	if !byProduct["Croissant"].UseGold {
		t.Fatal("reasonable gold price with a real diff must be adopted")
	}
	if byProduct["Estable"].UseGold {
		t.Fatal("sub-cent diff must not churn the price list")
	}
	if !byProduct["Sospechoso"].FlagReview || byProduct["Sospechoso"].UseGold {
		t.Fatalf("4x disagreement must be flagged, never auto-adopted: %+v", byProduct["Sospechoso"])
	}
	if !byProduct["Nuevo"].UseGold || byProduct["Nuevo"].HasOurs {
		t.Fatal("gold-only product with a reasonable price must be adopted as an addition")
	}
	if byProduct["Absurdo"].UseGold || byProduct["Absurdo"].GoldReasonable {
		t.Fatal("price outside the plausible band must never be adopted")
	}
}

func TestComparePricesDiffRelativeToGold(t *testing.T) {
	cfg := config.DefaultReconciliation()
	ours := models.NewPriceMap(models.PriceScopePT)
	ours.Add(models.PriceEntry{Product: "Croissant", UnitPrice: decimal.NewFromInt(10), HasPrice: true})

	rows := ComparePrices(ours, []models.GoldCanonicalPrice{
		{Product: "Croissant", UnitPrice: decimal.NewFromInt(12), Count: 3},
	}, nil, cfg)

	// List below gold reads negative, and the percentage is against the
	// validated price, not the list.
	if !rows[0].Diff.Equal(decimal.NewFromInt(-2)) {
		t.Fatalf("diff = %s, want -2 (ours - gold)", rows[0].Diff)
	}
	if !rows[0].PctDiffOK || rows[0].PctDiff.Round(2).String() != "-16.67" {
		t.Fatalf("pct diff = %s (ok=%v), want -16.67 vs gold", rows[0].PctDiff, rows[0].PctDiffOK)
	}
}

func TestGoldCanonicalPricesSampleStd(t *testing.T) {
	facts := []models.GoldFact{
		goldFact("Harina", "10"),
		goldFact("Harina", "14"),
	}
	prices := GoldCanonicalPrices(facts)
	if len(prices) != 1 || !prices[0].HasCV {
		t.Fatalf("expected dispersion stats, got %+v", prices)
	}
	// Two observations: sample std = sqrt(8) ~ 2.8284, CV ~ 0.2357.
	// The population formula would give 2 and 0.1667.
	if prices[0].CV.Sub(decimal.RequireFromString("0.2357")).Abs().GreaterThan(decimal.RequireFromString("0.001")) {
		t.Fatalf("CV = %s, want ~0.2357 (sample std)", prices[0].CV)
	}
}

func TestComparePricesCVFilter(t *testing.T) {
	cfg := config.DefaultReconciliation()
	ours := models.NewPriceMap(models.PriceScopePT)
	ours.Add(models.PriceEntry{Product: "Volatil", UnitPrice: decimal.NewFromInt(10), HasPrice: true})

	gold := []models.GoldCanonicalPrice{
		{Product: "Volatil", UnitPrice: decimal.NewFromInt(12), Count: 4, CV: decimal.RequireFromString("0.9"), HasCV: true},
	}
	rows := ComparePrices(ours, gold, nil, cfg)
	if rows[0].GoldReasonable || rows[0].UseGold {
		t.Fatal("high dispersion must fail the sanity filter")
	}
}

func TestComparePricesIncludesTransferOnlyProducts(t *testing.T) {
	cfg := config.DefaultReconciliation()
	ours := models.NewPriceMap(models.PriceScopePT)

	rows := ComparePrices(ours, nil, []string{"Solo En Transferencias"}, cfg)
	if len(rows) != 1 {
		t.Fatalf("expected the transfer-only product in the grid, got %d rows", len(rows))
	}
	r := rows[0]
	if r.HasOurs || r.HasGold || r.UseGold {
		t.Fatalf("product priced nowhere must be reported without a decision: %+v", r)
	}
}

func TestBuildUpdatedPrices(t *testing.T) {
	ours := models.NewPriceMap(models.PriceScopePT)
	ours.Add(models.PriceEntry{Product: "Croissant", UnitPrice: decimal.NewFromInt(10), HasPrice: true})
	ours.Add(models.PriceEntry{Product: "Estable", UnitPrice: decimal.NewFromInt(20), HasPrice: true})

	updated := BuildUpdatedPrices(ours, []models.PriceComparison{
		{Product: "Croissant", GoldPrice: decimal.NewFromInt(12), HasGold: true, HasOurs: true, UseGold: true},
		{Product: "Estable", GoldPrice: decimal.NewFromInt(99), HasGold: true, HasOurs: true, UseGold: false},
		{Product: "Nuevo", GoldPrice: decimal.NewFromInt(15), HasGold: true, UseGold: true},
	})

	if price, _ := updated.Price("croissant"); !price.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("adopted price = %s, want 12", price)
	}
	if price, _ := updated.Price("estable"); !price.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("non-adopted price must stay, got %s", price)
	}
	if price, ok := updated.Price("nuevo"); !ok || !price.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("gold-only addition missing: %s (ok=%v)", price, ok)
	}
	if updated.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", updated.Len())
	}
	// The source list is untouched.
	if price, _ := ours.Price("croissant"); !price.Equal(decimal.NewFromInt(10)) {
		t.Fatal("BuildUpdatedPrices must not mutate its input")
	}
}

func TestComparePTStages(t *testing.T) {
	pt := models.NewPriceMap(models.PriceScopePT)
	pt.Add(models.PriceEntry{Product: "Croissant", UnitPrice: decimal.NewFromInt(12), HasPrice: true})

	raw := []models.GoldFact{
		{BranchCode: "PV", OrderId: "A-1", Product: "Croissant", UnitCost: decimal.NewFromInt(10)},
		{BranchCode: "PV", OrderId: "A-2", Product: "Croissant", UnitCost: decimal.NewFromInt(10)},
	}
	corrected := []models.GoldFact{
		{BranchCode: "PV", OrderId: "A-1", Product: "croissant", UnitCost: decimal.RequireFromString("12.0005")},
	}

	rows := ComparePTStages(raw, corrected, pt)
	if len(rows) != 2 {
		t.Fatalf("expected a row per raw fact, got %d", len(rows))
	}
	if !rows[0].HasCorrected || !rows[0].MatchesList {
		t.Fatalf("corrected-within-tolerance must match the list: %+v", rows[0])
	}
	if rows[1].HasCorrected {
		t.Fatal("fact without a corrected counterpart must say so")
	}
}
