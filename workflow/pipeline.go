package workflow

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/mmdatafocus/transfers_backend/config"
	"github.com/mmdatafocus/transfers_backend/models"
	"github.com/mmdatafocus/transfers_backend/pricelist"
	"github.com/mmdatafocus/transfers_backend/reports"
	"github.com/mmdatafocus/transfers_backend/transfers"
	"github.com/mmdatafocus/transfers_backend/utils"
	"github.com/sirupsen/logrus"
)

// PipelineOptions configures one weekly correction run.
type PipelineOptions struct {
	BatchDir    string
	OutputDir   string
	PTPricePath string
	AGPricePath string
	EndDate     time.Time
	Weeks       int
}

// WeekOutcome records what one week's window produced.
type WeekOutcome struct {
	Week        string   `json:"week"`
	SourceFiles int      `json:"source_files"`
	Lines       int      `json:"lines"`
	CorrectedPT int      `json:"corrected_pt"`
	CorrectedAG int      `json:"corrected_ag"`
	Passthrough int      `json:"passthrough"`
	UnmatchedPT []string `json:"unmatched_pt,omitempty"`
	UnmatchedAG []string `json:"unmatched_ag,omitempty"`
	Artifacts   []string `json:"artifacts"`
}

// PipelineResult is the full outcome of a run, serialized into the run
// manifest alongside the artifacts.
type PipelineResult struct {
	RunID       string        `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Weeks       []WeekOutcome `json:"weeks"`
	Artifacts   []string      `json:"artifacts"`

	AllLines      []models.TransferLine           `json:"-"`
	ChangesByWeek map[string][]models.PriceChange `json:"-"`
	WeekOrder     []string                        `json:"-"`
}

// RunWeeklyPipeline executes the whole correction pass: load the
// authoritative price lists once, then walk the requested Mon-Sun
// windows most recent first, correcting and writing each week's
// artifacts, and finish with the cross-week reports and the run
// manifest. A window without source files is skipped, not an error;
// branches deliver their exports on their own schedule.
func RunWeeklyPipeline(opts PipelineOptions, cfg *config.ReconciliationConfig, logger *logrus.Logger) (*PipelineResult, error) {
	pt, err := pricelist.LoadPT(opts.PTPricePath, logger)
	if err != nil {
		return nil, err
	}
	ag, err := pricelist.LoadAG(opts.AGPricePath, logger)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"pt_products": pt.Len(),
		"ag_products": ag.Len(),
	}).Info("authoritative price lists loaded")

	ranges := transfers.WeekRanges(opts.EndDate, opts.Weeks)
	if len(ranges) == 0 {
		return nil, utils.ErrorNoWeekRanges
	}

	result := &PipelineResult{
		RunID:         uuid.NewString(),
		GeneratedAt:   time.Now().UTC(),
		ChangesByWeek: map[string][]models.PriceChange{},
	}

	for _, wr := range ranges {
		label := wr.Label()
		paths, err := transfers.CollectBranchCSVPaths(opts.BatchDir, wr.Start.Format("2006-01-02"), wr.End.Format("2006-01-02"))
		if err != nil {
			return nil, err
		}
		if len(paths) == 0 {
			logger.WithField("week", label).Warn("no branch exports for window, skipping")
			continue
		}

		lines, err := transfers.ReadAll(paths, logger)
		if err != nil {
			return nil, err
		}
		for i := range lines {
			lines[i].Week = label
		}

		applied := ApplyPrices(lines, pt, ag, cfg, logger)
		changes := WeeklyPriceChanges(applied.Lines)

		// Named apart from the TransfersIssued_* input glob so a re-run
		// over a shared directory never ingests its own output.
		weeklyPath := filepath.Join(opts.OutputDir, fmt.Sprintf("transfers_%s.csv", label))
		if err := transfers.WriteWeekly(weeklyPath, applied.Lines); err != nil {
			return nil, err
		}
		changesPath := filepath.Join(opts.OutputDir, fmt.Sprintf("price_changes_%s.csv", label))
		if err := transfers.WritePriceChanges(changesPath, changes); err != nil {
			return nil, err
		}

		outcome := WeekOutcome{
			Week:        label,
			SourceFiles: len(paths),
			Lines:       len(applied.Lines),
			CorrectedPT: applied.CorrectedPT,
			CorrectedAG: applied.CorrectedAG,
			Passthrough: applied.Passthrough,
			UnmatchedPT: applied.UnmatchedPT,
			UnmatchedAG: applied.UnmatchedAG,
			Artifacts:   []string{weeklyPath, changesPath},
		}
		result.Weeks = append(result.Weeks, outcome)
		result.Artifacts = append(result.Artifacts, weeklyPath, changesPath)
		result.AllLines = append(result.AllLines, applied.Lines...)
		result.ChangesByWeek[label] = changes
		result.WeekOrder = append(result.WeekOrder, label)

		logger.WithFields(logrus.Fields{
			"week":         label,
			"files":        len(paths),
			"lines":        len(applied.Lines),
			"corrected_pt": applied.CorrectedPT,
			"corrected_ag": applied.CorrectedAG,
			"changed":      len(changes),
		}).Info("week processed")
	}

	if err := writeCrossWeekReports(opts.OutputDir, result, cfg); err != nil {
		return nil, err
	}

	manifestPath := filepath.Join(opts.OutputDir, "manifest.json")
	if err := writeManifest(manifestPath, result); err != nil {
		return nil, err
	}
	result.Artifacts = append(result.Artifacts, manifestPath)
	return result, nil
}

func writeCrossWeekReports(outputDir string, result *PipelineResult, cfg *config.ReconciliationConfig) error {
	weekly := WeeklyCostComparison(result.AllLines, true, cfg)
	origins := OriginCostTotals(result.AllLines, true, cfg)
	alerts := PriceChangeAlerts(result.AllLines, cfg)
	breakdown := WeeklyReconciliationBreakdown(result.AllLines, cfg)

	artifacts := []struct {
		name  string
		write func(string) error
	}{
		{"price_correction_report.csv", func(p string) error {
			return reports.WriteBranchComparison(p, CostByDestBranch(result.AllLines))
		}},
		{"price_changes_all_weeks.csv", func(p string) error {
			return reports.WritePriceChangeLog(p, result.ChangesByWeek, result.WeekOrder)
		}},
		{"weekly_cost_comparison.csv", func(p string) error {
			return reports.WriteWeeklyCostComparison(p, weekly)
		}},
		{"weekly_breakdown.csv", func(p string) error {
			return reports.WriteWeeklyBreakdown(p, breakdown)
		}},
		{"correction_summary_totals.csv", func(p string) error {
			return reports.WriteOriginTotals(p, origins)
		}},
		{"correction_summary_alerts.csv", func(p string) error {
			return reports.WriteAlerts(p, alerts)
		}},
	}
	for _, a := range artifacts {
		path := filepath.Join(outputDir, a.name)
		if err := a.write(path); err != nil {
			return err
		}
		result.Artifacts = append(result.Artifacts, path)
	}
	return nil
}

func writeManifest(path string, result *PipelineResult) error {
	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	return utils.AtomicWriteFile(path, raw)
}
