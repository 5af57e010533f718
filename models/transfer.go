package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type WarehouseOrigin string

const (
	OriginGeneral       WarehouseOrigin = "AG"
	OriginFinishedGoods WarehouseOrigin = "PT"
	OriginOther         WarehouseOrigin = "OTHER"
)

const (
	originGeneralText       = "ALMACEN GENERAL"
	originFinishedGoodsText = "ALMACEN PRODUCTO TERMINADO"
)

// OriginFromText classifies the free-text origin warehouse field.
// Anything that is neither the general nor the finished-goods warehouse
// is OriginOther and passes through correction unmodified.
func OriginFromText(raw string) WarehouseOrigin {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case strings.Contains(upper, originGeneralText):
		return OriginGeneral
	case strings.Contains(upper, "PRODUCTO TERMINADO"):
		return OriginFinishedGoods
	default:
		return OriginOther
	}
}

// TransferLine is one inter-branch stock-transfer line item as exported
// per branch per week. UnitCost and Cost are mutated by price
// application; the pre-correction values are preserved in the *_Before
// fields so deltas stay reconstructable.
type TransferLine struct {
	OrderId         string          `json:"orden"`
	OriginWarehouse string          `json:"almacen_origen"`
	DestBranch      string          `json:"sucursal_destino"`
	DestWarehouse   string          `json:"almacen_destino"`
	Date            time.Time       `json:"fecha"`
	Status          string          `json:"estatus"`
	Quantity        decimal.Decimal `json:"cantidad"`
	Department      string          `json:"departamento"`
	ProductKey      string          `json:"clave"`
	Product         string          `json:"producto"`
	Presentation    string          `json:"presentacion"`
	Cost            decimal.Decimal `json:"costo"`
	IEPS            string          `json:"ieps"`
	IVA             string          `json:"iva"`
	UnitCost        decimal.Decimal `json:"costo_unitario"`

	CostBefore     decimal.Decimal `json:"costo_before"`
	UnitCostBefore decimal.Decimal `json:"costo_unitario_before"`
	Corrected      bool            `json:"corrected"`
	Week           string          `json:"week"`
}

// Origin classifies the line's origin warehouse.
func (t *TransferLine) Origin() WarehouseOrigin {
	return OriginFromText(t.OriginWarehouse)
}

// Changed reports whether price application moved the line cost.
func (t *TransferLine) Changed() bool {
	return !t.CostBefore.Equal(t.Cost)
}
