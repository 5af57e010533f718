package models

import "github.com/shopspring/decimal"

// WeeklyAggregate is a per-week rollup of before/after costs.
// PctChangeOK is false when the before total is zero.
type WeeklyAggregate struct {
	Week        string          `json:"week"`
	TotalBefore decimal.Decimal `json:"total_before"`
	TotalAfter  decimal.Decimal `json:"total_after"`
	Difference  decimal.Decimal `json:"difference"`
	PctChange   decimal.Decimal `json:"pct_change"`
	PctChangeOK bool            `json:"pct_change_ok"`
}

// BranchAggregate is the same rollup sliced by destination branch
// across all weeks.
type BranchAggregate struct {
	DestBranch  string          `json:"sucursal_destino"`
	TotalBefore decimal.Decimal `json:"total_before"`
	TotalAfter  decimal.Decimal `json:"total_after"`
	Difference  decimal.Decimal `json:"difference"`
	PctChange   decimal.Decimal `json:"pct_change"`
	PctChangeOK bool            `json:"pct_change_ok"`
}

// PriceChange is the line-level audit trail entry for a corrected line.
type PriceChange struct {
	Product        string          `json:"producto"`
	OriginText     string          `json:"almacen_origen"`
	Quantity       decimal.Decimal `json:"cantidad"`
	UnitCostBefore decimal.Decimal `json:"costo_unitario_before"`
	UnitCostAfter  decimal.Decimal `json:"costo_unitario_after"`
	CostBefore     decimal.Decimal `json:"costo_before"`
	CostAfter      decimal.Decimal `json:"costo_after"`
	DestBranch     string          `json:"sucursal_destino"`
	OrderId        string          `json:"orden"`
}

type AlertLevel string

const (
	AlertNone   AlertLevel = ""
	AlertMedium AlertLevel = "MEDIUM"
	AlertHigh   AlertLevel = "HIGH"
)

// PriceChangeAlert aggregates corrections per (product, origin) and
// flags implausibly large unit-price moves, surfacing likely data-entry
// errors in the authoritative price lists themselves.
type PriceChangeAlert struct {
	Product            string          `json:"producto"`
	OriginText         string          `json:"almacen_origen"`
	TotalQuantity      decimal.Decimal `json:"total_cantidad"`
	WeightedUnitBefore decimal.Decimal `json:"weighted_avg_unit_before"`
	UnitAfter          decimal.Decimal `json:"unit_after"`
	PctChangeUnit      decimal.Decimal `json:"pct_change_unit"`
	CostBeforeSum      decimal.Decimal `json:"costo_before_sum"`
	CostAfterSum       decimal.Decimal `json:"costo_after_sum"`
	CostDiff           decimal.Decimal `json:"cost_diff"`
	Alert              AlertLevel      `json:"alert"`
}

// OriginTotals holds before/after totals for one week split by origin
// warehouse class. The synthetic "All" row sums across weeks.
type OriginTotals struct {
	Week     string          `json:"week"`
	AGBefore decimal.Decimal `json:"ag_before"`
	AGAfter  decimal.Decimal `json:"ag_after"`
	AGDiff   decimal.Decimal `json:"ag_diff"`
	AGPct    decimal.Decimal `json:"ag_pct"`
	AGPctOK  bool            `json:"ag_pct_ok"`
	PTBefore decimal.Decimal `json:"pt_before"`
	PTAfter  decimal.Decimal `json:"pt_after"`
	PTDiff   decimal.Decimal `json:"pt_diff"`
	PTPct    decimal.Decimal `json:"pt_pct"`
	PTPctOK  bool            `json:"pt_pct_ok"`
}

// WeeklyBreakdown is the per-week reconciliation row: total after
// correction, hub vs branches split, per-origin split, and the gold
// reference totals when the week has them.
type WeeklyBreakdown struct {
	Week           string          `json:"week"`
	TotalAfter     decimal.Decimal `json:"total_after"`
	ToHub          decimal.Decimal `json:"to_cedis"`
	ToBranchesOnly decimal.Decimal `json:"to_branches_only"`
	PTOnly         decimal.Decimal `json:"apt_only"`
	AGOnly         decimal.Decimal `json:"ag_only"`
	GoldReference  decimal.Decimal `json:"gold_reference"`
	GoldNumeros    decimal.Decimal `json:"gold_numeros"`
	HasGold        bool            `json:"has_gold"`
}

// GoldMatch is one row of the line-level gold diff: our corrected line
// against the gold fact with the same (order, product) key. Unmatched
// rows are kept with Matched=false so the report shows coverage.
type GoldMatch struct {
	OrderId      string          `json:"orden"`
	Product      string          `json:"producto"`
	DestBranch   string          `json:"sucursal_destino"`
	OriginText   string          `json:"almacen_origen"`
	OursUnitCost decimal.Decimal `json:"ours_unit_cost"`
	GoldUnitCost decimal.Decimal `json:"gold_unit_cost"`
	OursCost     decimal.Decimal `json:"ours_costo"`
	GoldCost     decimal.Decimal `json:"gold_costo"`
	DiffUnitCost decimal.Decimal `json:"diff_unit_cost"`
	DiffCost     decimal.Decimal `json:"diff_costo"`
	Matched      bool            `json:"matched"`
}

// GoldCanonicalPrice is the per-product canonical price derived from
// gold facts for one origin: median unit cost with dispersion stats
// used by the reasonable-value filter.
type GoldCanonicalPrice struct {
	Product   string          `json:"producto"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Count     int             `json:"count"`
	Std       decimal.Decimal `json:"std"`
	CV        decimal.Decimal `json:"cv"`
	HasCV     bool            `json:"has_cv"`
}

// PriceComparison is one row of the price-list vs gold cross-check.
type PriceComparison struct {
	Product        string          `json:"producto"`
	Scope          PriceScope      `json:"origin"`
	OursPrice      decimal.Decimal `json:"ours_precio"`
	HasOurs        bool            `json:"has_ours"`
	GoldPrice      decimal.Decimal `json:"gold_precio"`
	HasGold        bool            `json:"has_gold"`
	Diff           decimal.Decimal `json:"diff"`
	PctDiff        decimal.Decimal `json:"pct_diff"`
	PctDiffOK      bool            `json:"pct_diff_ok"`
	GoldCount      int             `json:"gold_count"`
	GoldCV         decimal.Decimal `json:"gold_cv"`
	GoldReasonable bool            `json:"gold_reasonable"`
	FlagReview     bool            `json:"flag_review"`
	UseGold        bool            `json:"use_gold"`
}
