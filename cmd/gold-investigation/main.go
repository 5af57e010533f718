package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mmdatafocus/transfers_backend/config"
	"github.com/mmdatafocus/transfers_backend/gold"
	"github.com/mmdatafocus/transfers_backend/models"
	"github.com/mmdatafocus/transfers_backend/pricelist"
	"github.com/mmdatafocus/transfers_backend/reports"
	"github.com/mmdatafocus/transfers_backend/transfers"
	"github.com/mmdatafocus/transfers_backend/utils"
	"github.com/mmdatafocus/transfers_backend/workflow"
)

// Cross-validates one corrected week against the externally curated
// validation workbook. Everything written here is diagnostic; the
// production artifacts are never built from the filtered line set.
func main() {
	goldPath := flag.String("gold", "", "Required: validation workbook xlsx")
	batchDir := flag.String("batch-dir", "", "Required: directory holding per-branch TransfersIssued exports")
	outputDir := flag.String("output-dir", "output", "Directory for investigation artifacts")
	ptPrices := flag.String("pt-prices", "", "Required: PRECIOS xlsx")
	agPrices := flag.String("ag-prices", "", "Optional: AG_PRECIOS xlsx")
	cfgPath := flag.String("config", "", "Optional: reconciliation config JSON override")
	flag.Parse()

	if strings.TrimSpace(*goldPath) == "" || strings.TrimSpace(*batchDir) == "" || strings.TrimSpace(*ptPrices) == "" {
		fmt.Fprintln(os.Stderr, "--gold, --batch-dir and --pt-prices are required")
		os.Exit(1)
	}

	config.LoadSecretsEnv()
	logger := config.GetLogger()

	cfg, err := config.LoadReconciliation(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	pt, err := pricelist.LoadPT(*ptPrices, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load PT prices: %v\n", err)
		os.Exit(1)
	}
	ag, err := pricelist.LoadAG(*agPrices, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load AG prices: %v\n", err)
		os.Exit(1)
	}

	allFacts, _, err := gold.ParseWorkbook(*goldPath, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse gold workbook: %v\n", err)
		os.Exit(1)
	}
	numeros := gold.ParseNumeros(*goldPath, cfg, logger)

	// The validation window is one Mon-Sun week; read the matching
	// branch exports and correct them the production way first.
	start, end := transfers.WeekBoundaries(cfg.GoldWindowStart)
	week := transfers.WeekRange{Start: start, End: end}
	paths, err := transfers.CollectBranchCSVPaths(*batchDir, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "collect branch exports: %v\n", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "no branch exports found for week %s\n", week.Label())
		os.Exit(1)
	}
	lines, err := transfers.ReadAll(paths, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read branch exports: %v\n", err)
		os.Exit(1)
	}
	for i := range lines {
		lines[i].Week = week.Label()
	}
	applied := workflow.ApplyPrices(lines, pt, ag, cfg, logger)

	aligned := workflow.FilterOrdersForGoldAlignment(applied.Lines, cfg)
	matches := workflow.MatchAgainstGold(aligned, allFacts)
	if err := reports.WriteInvestigationReport(filepath.Join(*outputDir, "investigation_report.csv"), matches); err != nil {
		fmt.Fprintf(os.Stderr, "write investigation report: %v\n", err)
		os.Exit(1)
	}

	numerosCmp := workflow.CompareToNumeros(aligned, numeros, cfg)
	if err := reports.WriteKaviaNumerosComparison(filepath.Join(*outputDir, "kavia_numeros_comparison.csv"), numerosCmp); err != nil {
		fmt.Fprintf(os.Stderr, "write numeros comparison: %v\n", err)
		os.Exit(1)
	}

	// Price-list vs gold cross-check over both origin classes.
	var ptFacts, agFacts []models.GoldFact
	for _, f := range allFacts {
		switch f.Origin() {
		case models.OriginFinishedGoods:
			ptFacts = append(ptFacts, f)
		case models.OriginGeneral:
			agFacts = append(agFacts, f)
		}
	}
	comparisons := workflow.ComparePrices(pt, workflow.GoldCanonicalPrices(ptFacts), transferProducts(aligned, models.OriginFinishedGoods), cfg)
	comparisons = append(comparisons, workflow.ComparePrices(ag, workflow.GoldCanonicalPrices(agFacts), transferProducts(aligned, models.OriginGeneral), cfg)...)
	if err := reports.WritePriceComparisonFull(filepath.Join(*outputDir, "unit_price_comparison_full.csv"), comparisons); err != nil {
		fmt.Fprintf(os.Stderr, "write price comparison: %v\n", err)
		os.Exit(1)
	}
	if err := reports.WritePriceInvestigationReport(filepath.Join(*outputDir, "unit_price_investigation_report.md"), models.PriceScopePT, comparisons, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "write price investigation report: %v\n", err)
		os.Exit(1)
	}

	// Raw vs corrected PT stage check: did the external correction pass
	// land on the same list prices we apply?
	rawPT, err := gold.ParsePTSheets(*goldPath, models.GoldStagePTW, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse raw PT sheets: %v\n", err)
		os.Exit(1)
	}
	stageRows := workflow.ComparePTStages(rawPT, ptFacts, pt)
	if err := reports.WritePTStageComparison(filepath.Join(*outputDir, "pt_stage_comparison.csv"), stageRows); err != nil {
		fmt.Fprintf(os.Stderr, "write PT stage comparison: %v\n", err)
		os.Exit(1)
	}

	goldTotal := workflow.GoldTotal(allFacts)
	oursTotal := workflow.SumCost(aligned)
	fmt.Printf("week %s: ours %s vs gold %s (numeros %s, %s)\n",
		week.Label(),
		utils.MoneyString(oursTotal),
		utils.MoneyString(goldTotal),
		utils.MoneyString(numeros.Value),
		numeros.Source)
	fmt.Printf("matched %d of %d lines against the validation workbook\n", countMatched(matches), len(matches))
}

func transferProducts(lines []models.TransferLine, origin models.WarehouseOrigin) []string {
	seen := map[string]bool{}
	var products []string
	for i := range lines {
		if lines[i].Origin() != origin {
			continue
		}
		key := models.NormalizeProduct(lines[i].Product)
		if !seen[key] {
			seen[key] = true
			products = append(products, lines[i].Product)
		}
	}
	return products
}

func countMatched(matches []models.GoldMatch) int {
	n := 0
	for _, m := range matches {
		if m.Matched {
			n++
		}
	}
	return n
}
