package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mmdatafocus/transfers_backend/config"
	"github.com/mmdatafocus/transfers_backend/notify"
	"github.com/mmdatafocus/transfers_backend/workflow"
)

func main() {
	batchDir := flag.String("batch-dir", "", "Required: directory holding per-branch TransfersIssued exports")
	outputDir := flag.String("output-dir", "output", "Directory for corrected CSVs and reports")
	ptPrices := flag.String("pt-prices", "", "Required: PRECIOS xlsx (finished goods price list)")
	agPrices := flag.String("ag-prices", "", "Optional: AG_PRECIOS xlsx (general warehouse price list)")
	endStr := flag.String("end", "", "Optional: last day covered (YYYY-MM-DD). Defaults to today.")
	weeks := flag.Int("weeks", 4, "Number of Mon-Sun windows to process, most recent first")
	cfgPath := flag.String("config", "", "Optional: reconciliation config JSON override")
	sendNotify := flag.Bool("notify", false, "Send the run summary and manifest via Telegram")
	flag.Parse()

	if strings.TrimSpace(*batchDir) == "" {
		fmt.Fprintln(os.Stderr, "--batch-dir is required")
		os.Exit(1)
	}
	if strings.TrimSpace(*ptPrices) == "" {
		fmt.Fprintln(os.Stderr, "--pt-prices is required")
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
		config.LogError(logger, "cmd/weekly-transfers", "main", "run weekly pipeline", nil, err)
		os.Exit(1)
	}

	for _, w := range result.Weeks {
		fmt.Printf("week %s: %d files, %d lines, %d PT + %d AG corrected\n",
			w.Week, w.SourceFiles, w.Lines, w.CorrectedPT, w.CorrectedAG)
	}
	fmt.Printf("run %s wrote %d artifacts to %s\n", result.RunID, len(result.Artifacts), *outputDir)

	if *sendNotify {
		if err := notifyRun(result); err != nil {
			config.LogError(logger, "cmd/weekly-transfers", "main", "telegram notify", nil, err)
			os.Exit(1)
		}
	}
}

func notifyRun(result *workflow.PipelineResult) error {
	client, err := notify.NewTelegramClient()
	if err != nil {
		if errors.Is(err, notify.ErrTelegramNotConfigured) {
			fmt.Fprintln(os.Stderr, "telegram not configured, skipping notification")
			return nil
		}
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	summary := fmt.Sprintf("Weekly transfers run %s: %d weeks processed", result.RunID, len(result.Weeks))
	if err := client.SendMessage(ctx, summary); err != nil {
		return err
	}
	for _, artifact := range result.Artifacts {
		if err := client.SendDocument(ctx, artifact, ""); err != nil {
			return err
		}
	}
	return nil
}
