package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// GoldReference holds the authoritative totals for one week, taken from
// the externally curated validation workbook: the sum over its detail
// sheets and the NUMEROS summary figure.
type GoldReference struct {
	DetailTotal  decimal.Decimal `json:"detail_total"`
	NumerosTotal decimal.Decimal `json:"numeros_total"`
}

// ReconciliationConfig carries every deployment-specific table and
// threshold used by the correction and validation pipeline. Production
// values come from DefaultReconciliation; a JSON file can override them
// per deployment without code changes.
type ReconciliationConfig struct {
	// ProductAliases maps known misspellings (normalized) to their
	// canonical normalized counterpart. Applied only when the raw
	// normalized key fails to match a price list.
	ProductAliases map[string]string `json:"product_aliases"`

	// SheetBranchNames maps gold sheet branch codes (first hyphen token
	// of the sheet name) to destination branch names.
	SheetBranchNames map[string]string `json:"sheet_branch_names" validate:"required,min=1"`

	// BranchPrefix is used to synthesize a branch name for unknown codes.
	BranchPrefix string `json:"branch_prefix" validate:"required"`

	// HubBranch is the central distribution branch excluded from
	// "branches only" totals.
	HubBranch string `json:"hub_branch" validate:"required"`

	// GoldWindowStart/End bound the validation date window (inclusive).
	GoldWindowStart time.Time `json:"gold_window_start" validate:"required"`
	GoldWindowEnd   time.Time `json:"gold_window_end" validate:"required,gtefield=GoldWindowStart"`

	// Sanity thresholds for gold-derived prices.
	GoldMinReasonable decimal.Decimal `json:"gold_min_reasonable"`
	GoldMaxReasonable decimal.Decimal `json:"gold_max_reasonable"`
	GoldCVMax         float64         `json:"gold_cv_max" validate:"gt=0"`
	ReviewRatio       float64         `json:"review_ratio" validate:"gt=1"`

	// Alert thresholds (percent) for corrected-vs-original unit prices.
	AlertPctHigh   float64 `json:"alert_pct_high" validate:"gt=0"`
	AlertPctMedium float64 `json:"alert_pct_medium" validate:"gt=0,ltfield=AlertPctHigh"`

	// Orders excluded when aligning with the gold dataset (bleed-through
	// from prior weeks). Diagnostic-only; never applied in production.
	AGExcludedOrders []string `json:"ag_excluded_orders"`
	PTExcludedOrders []string `json:"pt_excluded_orders"`

	// GoldReferenceByWeek maps a week label to its gold totals.
	GoldReferenceByWeek map[string]GoldReference `json:"gold_reference_by_week"`

	// NumerosFallbackTotal is reported when the NUMEROS sheet cannot be
	// parsed. Diagnostic path only.
	NumerosFallbackTotal decimal.Decimal `json:"numeros_fallback_total"`

	// KaviaBranch is the branch whose NUMEROS total is cross-checked.
	KaviaBranch string `json:"kavia_branch" validate:"required"`

	// HeaderScanRows bounds the header-row search in gold sheets.
	HeaderScanRows int `json:"header_scan_rows" validate:"gt=0"`

	// UnmatchedPreviewLimit caps the unmatched-product warning list.
	UnmatchedPreviewLimit int `json:"unmatched_preview_limit" validate:"gt=0"`
}

// ResolveAlias returns the canonical key for a normalized product key,
// or the key unchanged when no alias is registered.
func (c *ReconciliationConfig) ResolveAlias(key string) string {
	if canonical, ok := c.ProductAliases[key]; ok {
		return canonical
	}
	return key
}

// InGoldWindow reports whether d falls inside the validation window.
func (c *ReconciliationConfig) InGoldWindow(d time.Time) bool {
	return !d.Before(c.GoldWindowStart) && !d.After(c.GoldWindowEnd)
}

func (c *ReconciliationConfig) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("reconciliation config: %w", err)
	}
	if c.GoldMinReasonable.GreaterThanOrEqual(c.GoldMaxReasonable) {
		return fmt.Errorf("reconciliation config: gold_min_reasonable must be below gold_max_reasonable")
	}
	return nil
}

// DefaultReconciliation returns the production configuration.
func DefaultReconciliation() *ReconciliationConfig {
	return &ReconciliationConfig{
		ProductAliases: map[string]string{
			"mayones de panem *": "mayonesa de panem *",
			"sopa de tomate*":    "sopa de tomate *",
		},
		SheetBranchNames: map[string]string{
			"KAVIA":   "Panem - Hotel Kavia N",
			"PV":      "Panem - Punto Valle",
			"QIN":     "Panem - Plaza QIN N",
			"Q":       "Panem - Plaza QIN N",
			"HZ":      "Panem - Hospital Zambrano N",
			"CARRETA": "Panem - La Carreta N",
			"C":       "Panem - La Carreta N",
			"NATIVA":  "Panem - Plaza Nativa",
			"N":       "Panem - Plaza Nativa",
			"CC":      "Panem - Credi Club",
		},
		BranchPrefix:      "Panem - ",
		HubBranch:         "Panem - CEDIS",
		GoldWindowStart:   time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
		GoldWindowEnd:     time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC),
		GoldMinReasonable: decimal.RequireFromString("0.1"),
		GoldMaxReasonable: decimal.NewFromInt(100000),
		GoldCVMax:         0.5,
		ReviewRatio:       3.0,
		AlertPctHigh:      50,
		AlertPctMedium:    25,
		AGExcludedOrders:  []string{"9980-11588-2609294", "9980-11588-2609295", "9980-11588-2609296"},
		PTExcludedOrders:  []string{"9982-11588-2607562", "9982-11588-2607690"},
		GoldReferenceByWeek: map[string]GoldReference{
			"2026-02-02_2026-02-07": {
				DetailTotal:  decimal.NewFromInt(311794),
				NumerosTotal: decimal.NewFromInt(283368),
			},
		},
		NumerosFallbackTotal:  decimal.NewFromInt(283368),
		KaviaBranch:           "Panem - Hotel Kavia N",
		HeaderScanRows:        15,
		UnmatchedPreviewLimit: 20,
	}
}

// LoadReconciliation reads a JSON override file on top of the defaults.
// An empty path returns the defaults unchanged.
func LoadReconciliation(path string) (*ReconciliationConfig, error) {
	cfg := DefaultReconciliation()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reconciliation config %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse reconciliation config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
