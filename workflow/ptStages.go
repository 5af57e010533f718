package workflow

import (
	"github.com/mmdatafocus/transfers_backend/models"
	"github.com/shopspring/decimal"
)

var listPriceTolerance = decimal.RequireFromString("0.001")

// ComparePTStages matches raw against corrected finished-goods facts by
// (branch, order, normalized product). It answers whether the external
// correction pass agrees with the PT price list, which is the whole
// point of carrying both sheet stages in the workbook.
func ComparePTStages(raw, corrected []models.GoldFact, pt *models.PriceMap) []models.PTStageComparison {
	type key struct{ branch, order, product string }
	correctedIdx := make(map[key]*models.GoldFact, len(corrected))
	for i := range corrected {
		f := &corrected[i]
		k := key{f.BranchCode, f.OrderId, models.NormalizeProduct(f.Product)}
		if _, exists := correctedIdx[k]; !exists {
			correctedIdx[k] = f
		}
	}

	rows := make([]models.PTStageComparison, 0, len(raw))
	for i := range raw {
		f := &raw[i]
		normKey := models.NormalizeProduct(f.Product)
		row := models.PTStageComparison{
			BranchCode:  f.BranchCode,
			OrderId:     f.OrderId,
			Product:     f.Product,
			RawUnitCost: f.UnitCost,
		}
		if c, ok := correctedIdx[key{f.BranchCode, f.OrderId, normKey}]; ok {
			row.CorrectedUnitCost = c.UnitCost
			row.HasCorrected = true
		}
		if price, ok := pt.Price(normKey); ok {
			row.ListPrice = price
			row.HasListPrice = true
			if row.HasCorrected {
				row.MatchesList = row.CorrectedUnitCost.Sub(price).Abs().LessThanOrEqual(listPriceTolerance)
			}
		}
		rows = append(rows, row)
	}
	return rows
}
