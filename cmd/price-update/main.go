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
	"github.com/mmdatafocus/transfers_backend/workflow"
)

// Rebuilds the authoritative price lists from the validation workbook:
// adopts gold prices that pass the sanity filter, flags the rest for
// manual review, and writes PRECIOS_UPDATED / AG_PRECIOS_UPDATED next
// to the comparison artifacts. The original lists are never touched.
func main() {
	goldPath := flag.String("gold", "", "Required: validation workbook xlsx")
	ptPrices := flag.String("pt-prices", "", "Required: PRECIOS xlsx")
	agPrices := flag.String("ag-prices", "", "Optional: AG_PRECIOS xlsx")
	outputDir := flag.String("output-dir", "output", "Directory for updated lists and reports")
	cfgPath := flag.String("config", "", "Optional: reconciliation config JSON override")
	flag.Parse()

	if strings.TrimSpace(*goldPath) == "" || strings.TrimSpace(*ptPrices) == "" {
		fmt.Fprintln(os.Stderr, "--gold and --pt-prices are required")
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
	var ptFacts, agFacts []models.GoldFact
	for _, f := range allFacts {
		switch f.Origin() {
		case models.OriginFinishedGoods:
			ptFacts = append(ptFacts, f)
		case models.OriginGeneral:
			agFacts = append(agFacts, f)
		}
	}

	ptComparisons := workflow.ComparePrices(pt, workflow.GoldCanonicalPrices(ptFacts), nil, cfg)
	agComparisons := workflow.ComparePrices(ag, workflow.GoldCanonicalPrices(agFacts), nil, cfg)

	updatedPT := workflow.BuildUpdatedPrices(pt, ptComparisons)
	if err := pricelist.WriteUpdated(filepath.Join(*outputDir, "PRECIOS_UPDATED.xlsx"), updatedPT); err != nil {
		fmt.Fprintf(os.Stderr, "write updated PT prices: %v\n", err)
		os.Exit(1)
	}
	if ag.Len() > 0 || len(agFacts) > 0 {
		updatedAG := workflow.BuildUpdatedPrices(ag, agComparisons)
		if err := pricelist.WriteUpdated(filepath.Join(*outputDir, "AG_PRECIOS_UPDATED.xlsx"), updatedAG); err != nil {
			fmt.Fprintf(os.Stderr, "write updated AG prices: %v\n", err)
			os.Exit(1)
		}
	}

	comparisons := append(append([]models.PriceComparison(nil), ptComparisons...), agComparisons...)
	if err := reports.WritePriceComparisonFull(filepath.Join(*outputDir, "unit_price_comparison_full.csv"), comparisons); err != nil {
		fmt.Fprintf(os.Stderr, "write price comparison: %v\n", err)
		os.Exit(1)
	}
	if err := reports.WritePriceInvestigationReport(filepath.Join(*outputDir, "unit_price_investigation_report.md"), models.PriceScopePT, comparisons, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "write investigation report: %v\n", err)
		os.Exit(1)
	}

	var adopted, flagged int
	for _, c := range comparisons {
		if c.UseGold {
			adopted++
		}
		if c.FlagReview {
			flagged++
		}
	}
	fmt.Printf("price update: %d prices adopted, %d flagged for review\n", adopted, flagged)
}
