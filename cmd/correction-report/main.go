package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mmdatafocus/transfers_backend/config"
	"github.com/mmdatafocus/transfers_backend/reports"
	"github.com/mmdatafocus/transfers_backend/workflow"
)

// Runs the correction pass over the requested windows and renders the
// cross-week summary as Markdown next to the CSV artifacts.
func main() {
	batchDir := flag.String("batch-dir", "", "Required: directory holding per-branch TransfersIssued exports")
	outputDir := flag.String("output-dir", "output", "Directory for the report and supporting CSVs")
	ptPrices := flag.String("pt-prices", "", "Required: PRECIOS xlsx")
	agPrices := flag.String("ag-prices", "", "Optional: AG_PRECIOS xlsx")
	endStr := flag.String("end", "", "Optional: last day covered (YYYY-MM-DD). Defaults to today.")
	weeks := flag.Int("weeks", 4, "Number of Mon-Sun windows to cover, most recent first")
	cfgPath := flag.String("config", "", "Optional: reconciliation config JSON override")
	flag.Parse()

	if strings.TrimSpace(*batchDir) == "" || strings.TrimSpace(*ptPrices) == "" {
		fmt.Fprintln(os.Stderr, "--batch-dir and --pt-prices are required")
		os.Exit(1)
	}

	config.LoadSecretsEnv()
	logger := config.GetLogger()

	cfg, err := config.LoadReconciliation(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	end := time.Now().UTC()
	if strings.TrimSpace(*endStr) != "" {
		d, err := time.Parse("2006-01-02", strings.TrimSpace(*endStr))
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid end date: %v\n", err)
			os.Exit(1)
		}
		end = d
	}

	result, err := workflow.RunWeeklyPipeline(workflow.PipelineOptions{
		BatchDir:    *batchDir,
		OutputDir:   *outputDir,
		PTPricePath: *ptPrices,
		AGPricePath: *agPrices,
		EndDate:     end,
		Weeks:       *weeks,
	}, cfg, logger)
	if err != nil {
		config.LogError(logger, "cmd/correction-report", "main", "run weekly pipeline", nil, err)
		os.Exit(1)
	}

	weekly := workflow.WeeklyCostComparison(result.AllLines, true, cfg)
	origins := workflow.OriginCostTotals(result.AllLines, true, cfg)
	alerts := workflow.PriceChangeAlerts(result.AllLines, cfg)

	reportPath := filepath.Join(*outputDir, "correction_report.md")
	if err := reports.WriteCorrectionSummary(reportPath, weekly, origins, alerts, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "write correction report: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("correction report for %d weeks written to %s\n", len(result.Weeks), reportPath)
}
