package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoldStage identifies the correction stage a gold sheet represents,
// encoded in the sheet name suffix.
type GoldStage string

const (
	GoldStageAG  GoldStage = "AG"   // corrected, general warehouse
	GoldStagePTW GoldStage = "PT-W" // finished goods, raw (pre-correction)
	GoldStagePTR GoldStage = "PT-R" // finished goods, corrected
)

// GoldFact is one validated line item from the external reference
// workbook. UnitCost is derived as Cost/Quantity at parse time.
type GoldFact struct {
	OrderId         string          `json:"orden"`
	Product         string          `json:"producto"`
	DestBranch      string          `json:"sucursal_destino"`
	OriginWarehouse string          `json:"almacen_origen"`
	Date            time.Time       `json:"fecha"`
	Quantity        decimal.Decimal `json:"cantidad"`
	Cost            decimal.Decimal `json:"costo"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	Sheet           string          `json:"sheet"`
	BranchCode      string          `json:"branch_code"`
}

// Origin classifies the fact's origin warehouse.
func (g *GoldFact) Origin() WarehouseOrigin {
	return OriginFromText(g.OriginWarehouse)
}

type NumerosSource string

const (
	NumerosSourceParsed   NumerosSource = "Parsed"
	NumerosSourceFallback NumerosSource = "Fallback"
)

// NumerosTotal is the branch total extracted from the NUMEROS summary
// sheet. The diagnostic path never fails: on any parse problem the
// configured fallback constant is returned, tagged as low confidence so
// callers can decide whether to trust it.
type NumerosTotal struct {
	Value  decimal.Decimal `json:"value"`
	Source NumerosSource   `json:"source"`
	Reason string          `json:"reason,omitempty"`
}

// Trusted reports whether the value was actually parsed from the sheet.
func (n NumerosTotal) Trusted() bool {
	return n.Source == NumerosSourceParsed
}

// PTStageComparison pairs a raw finished-goods line from the validation
// workbook with its corrected counterpart and checks whether the
// corrected unit cost actually landed on the authoritative list price.
type PTStageComparison struct {
	BranchCode        string          `json:"branch_code"`
	OrderId           string          `json:"orden"`
	Product           string          `json:"producto"`
	RawUnitCost       decimal.Decimal `json:"raw_unit_cost"`
	CorrectedUnitCost decimal.Decimal `json:"corrected_unit_cost"`
	HasCorrected      bool            `json:"has_corrected"`
	ListPrice         decimal.Decimal `json:"list_price"`
	HasListPrice      bool            `json:"has_list_price"`
	MatchesList       bool            `json:"matches_list"`
}

// NumerosComparison is the cross-check of one branch's corrected total
// against the NUMEROS summary figure.
type NumerosComparison struct {
	Branch    string          `json:"branch"`
	OursTotal decimal.Decimal `json:"ours_total"`
	Numeros   NumerosTotal    `json:"numeros"`
	Diff      decimal.Decimal `json:"diff"`
	PctDiff   decimal.Decimal `json:"pct_diff"`
	PctDiffOK bool            `json:"pct_diff_ok"`
}
