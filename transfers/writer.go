package transfers

import (
	"github.com/mmdatafocus/transfers_backend/models"
	"github.com/mmdatafocus/transfers_backend/utils"
)

var weeklyHeader = []string{
	"Orden", "Almacén origen", "Sucursal destino", "Almacén destino",
	"Fecha", "Estatus", "Cantidad", "Departamento", "Clave", "Producto",
	"Presentación", "Costo", "IEPS", "IVA", "Costo unitario",
}

const dateLayout = "2006-01-02"

// WriteWeekly writes the corrected consolidated week to a CSV with the
// same column set as the branch exports. The bookkeeping fields
// (before-values, corrected flag, week label) stay internal. No BOM:
// this file feeds tooling, only the audit CSV is opened in Excel.
func WriteWeekly(path string, lines []models.TransferLine) error {
	rows := make([][]string, 0, len(lines))
	for i := range lines {
		l := &lines[i]
		date := ""
		if !l.Date.IsZero() {
			date = l.Date.Format(dateLayout)
		}
		rows = append(rows, []string{
			l.OrderId,
			l.OriginWarehouse,
			l.DestBranch,
			l.DestWarehouse,
			date,
			l.Status,
			l.Quantity.String(),
			l.Department,
			l.ProductKey,
			l.Product,
			l.Presentation,
			utils.MoneyString(l.Cost),
			l.IEPS,
			l.IVA,
			utils.MoneyString(l.UnitCost),
		})
	}
	return utils.WriteCSV(path, weeklyHeader, rows)
}

var priceChangesHeader = []string{
	"Producto", "Almacén origen", "Cantidad",
	"Costo unitario anterior", "Costo unitario nuevo",
	"Costo anterior", "Costo nuevo",
	"Sucursal destino", "Orden",
}

// WritePriceChanges writes the per-line correction audit trail for one
// week. An empty change set still produces the header row so downstream
// consumers see a stable schema.
func WritePriceChanges(path string, changes []models.PriceChange) error {
	rows := make([][]string, 0, len(changes))
	for _, c := range changes {
		rows = append(rows, []string{
			c.Product,
			c.OriginText,
			c.Quantity.String(),
			utils.MoneyString(c.UnitCostBefore),
			utils.MoneyString(c.UnitCostAfter),
			utils.MoneyString(c.CostBefore),
			utils.MoneyString(c.CostAfter),
			c.DestBranch,
			c.OrderId,
		})
	}
	return utils.WriteCSVWithBOM(path, priceChangesHeader, rows)
}
