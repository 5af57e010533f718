package reports

import (
	"github.com/mmdatafocus/transfers_backend/models"
	"github.com/mmdatafocus/transfers_backend/utils"
)

func pctOrEmpty(pct interface{ String() string }, ok bool) string {
	if !ok {
		return ""
	}
	return pct.String()
}

// WriteWeeklyCostComparison writes the per-week before/after rollup.
func WriteWeeklyCostComparison(path string, rows []models.WeeklyAggregate) error {
	header := []string{"Week", "Total_Before", "Total_After", "Difference", "Pct_Change"}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Week,
			utils.MoneyString(r.TotalBefore),
			utils.MoneyString(r.TotalAfter),
			utils.MoneyString(r.Difference),
			pctOrEmpty(r.PctChange.Round(2), r.PctChangeOK),
		})
	}
	return utils.WriteCSVWithBOM(path, header, out)
}

// WriteBranchComparison writes the per-destination-branch rollup.
func WriteBranchComparison(path string, rows []models.BranchAggregate) error {
	header := []string{"Sucursal_Destino", "Total_Before", "Total_After", "Difference", "Pct_Change"}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.DestBranch,
			utils.MoneyString(r.TotalBefore),
			utils.MoneyString(r.TotalAfter),
			utils.MoneyString(r.Difference),
			pctOrEmpty(r.PctChange.Round(2), r.PctChangeOK),
		})
	}
	return utils.WriteCSVWithBOM(path, header, out)
}

// WriteOriginTotals writes the per-origin correction summary, with the
// cross-week "All" row last.
func WriteOriginTotals(path string, rows []models.OriginTotals) error {
	header := []string{
		"Week",
		"AG_Before", "AG_After", "AG_Diff", "AG_Pct",
		"PT_Before", "PT_After", "PT_Diff", "PT_Pct",
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Week,
			utils.MoneyString(r.AGBefore), utils.MoneyString(r.AGAfter),
			utils.MoneyString(r.AGDiff), pctOrEmpty(r.AGPct.Round(2), r.AGPctOK),
			utils.MoneyString(r.PTBefore), utils.MoneyString(r.PTAfter),
			utils.MoneyString(r.PTDiff), pctOrEmpty(r.PTPct.Round(2), r.PTPctOK),
		})
	}
	return utils.WriteCSVWithBOM(path, header, out)
}

// WriteAlerts writes the per-product correction alerts, biggest unit
// price move first.
func WriteAlerts(path string, rows []models.PriceChangeAlert) error {
	header := []string{
		"Producto", "Almacen_Origen", "Total_Cantidad",
		"Weighted_Unit_Before", "Unit_After", "Pct_Change_Unit",
		"Costo_Before", "Costo_After", "Cost_Diff", "Alert",
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Product,
			r.OriginText,
			r.TotalQuantity.String(),
			utils.MoneyString(r.WeightedUnitBefore),
			utils.MoneyString(r.UnitAfter),
			r.PctChangeUnit.Round(2).String(),
			utils.MoneyString(r.CostBeforeSum),
			utils.MoneyString(r.CostAfterSum),
			utils.MoneyString(r.CostDiff),
			string(r.Alert),
		})
	}
	return utils.WriteCSVWithBOM(path, header, out)
}

// WriteWeeklyBreakdown writes the per-week reconciliation breakdown,
// gold columns blank for weeks without a reference.
func WriteWeeklyBreakdown(path string, rows []models.WeeklyBreakdown) error {
	header := []string{
		"Week", "Total_After", "To_CEDIS", "To_Branches_Only",
		"APT_Only", "AG_Only", "Gold_Reference", "Gold_Numeros",
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		goldRef, goldNum := "", ""
		if r.HasGold {
			goldRef = utils.MoneyString(r.GoldReference)
			goldNum = utils.MoneyString(r.GoldNumeros)
		}
		out = append(out, []string{
			r.Week,
			utils.MoneyString(r.TotalAfter),
			utils.MoneyString(r.ToHub),
			utils.MoneyString(r.ToBranchesOnly),
			utils.MoneyString(r.PTOnly),
			utils.MoneyString(r.AGOnly),
			goldRef,
			goldNum,
		})
	}
	return utils.WriteCSVWithBOM(path, header, out)
}

// WritePriceChangeLog concatenates every week's changed lines into the
// cross-week audit artifact.
func WritePriceChangeLog(path string, changesByWeek map[string][]models.PriceChange, weekOrder []string) error {
	header := []string{
		"Week", "Producto", "Almacén origen", "Cantidad",
		"Costo unitario anterior", "Costo unitario nuevo",
		"Costo anterior", "Costo nuevo", "Sucursal destino", "Orden",
	}
	var out [][]string
	for _, week := range weekOrder {
		for _, c := range changesByWeek[week] {
			out = append(out, []string{
				week,
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
	}
	return utils.WriteCSVWithBOM(path, header, out)
}

// WriteInvestigationReport writes the line-level gold diff.
func WriteInvestigationReport(path string, rows []models.GoldMatch) error {
	header := []string{
		"Orden", "Producto", "Sucursal_Destino", "Almacen_Origen",
		"Ours_Unit_Cost", "Gold_Unit_Cost", "Ours_Costo", "Gold_Costo",
		"Diff_Unit_Cost", "Diff_Costo", "Matched",
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		matched := "false"
		goldUnit, goldCost, diffUnit, diffCost := "", "", "", ""
		if r.Matched {
			matched = "true"
			goldUnit = utils.MoneyString(r.GoldUnitCost)
			goldCost = utils.MoneyString(r.GoldCost)
			diffUnit = utils.MoneyString(r.DiffUnitCost)
			diffCost = utils.MoneyString(r.DiffCost)
		}
		out = append(out, []string{
			r.OrderId, r.Product, r.DestBranch, r.OriginText,
			utils.MoneyString(r.OursUnitCost), goldUnit,
			utils.MoneyString(r.OursCost), goldCost,
			diffUnit, diffCost, matched,
		})
	}
	return utils.WriteCSVWithBOM(path, header, out)
}

// WriteKaviaNumerosComparison writes the single-branch NUMEROS
// cross-check, including the source tag so a fallback figure is visible
// in the artifact itself.
func WriteKaviaNumerosComparison(path string, cmp models.NumerosComparison) error {
	header := []string{"Branch", "Ours_Total", "Numeros_Total", "Numeros_Source", "Diff", "Pct_Diff"}
	row := []string{
		cmp.Branch,
		utils.MoneyString(cmp.OursTotal),
		utils.MoneyString(cmp.Numeros.Value),
		string(cmp.Numeros.Source),
		utils.MoneyString(cmp.Diff),
		pctOrEmpty(cmp.PctDiff.Round(2), cmp.PctDiffOK),
	}
	return utils.WriteCSVWithBOM(path, header, [][]string{row})
}

// WritePriceComparisonFull writes the full price-list vs gold
// cross-check grid.
func WritePriceComparisonFull(path string, rows []models.PriceComparison) error {
	header := []string{
		"Producto", "Origin", "Ours_Precio", "Gold_Precio", "Diff",
		"Pct_Diff", "Gold_Count", "Gold_CV", "Gold_Reasonable",
		"Flag_Review", "Use_Gold",
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		ours, gold, diff, pct := "", "", "", ""
		if r.HasOurs {
			ours = utils.MoneyString(r.OursPrice)
		}
		if r.HasGold {
			gold = utils.MoneyString(r.GoldPrice)
		}
		if r.HasOurs && r.HasGold {
			diff = utils.MoneyString(r.Diff)
			pct = pctOrEmpty(r.PctDiff.Round(2), r.PctDiffOK)
		}
		out = append(out, []string{
			r.Product,
			string(r.Scope),
			ours,
			gold,
			diff,
			pct,
			itoa(r.GoldCount),
			r.GoldCV.Round(4).String(),
			boolString(r.GoldReasonable),
			boolString(r.FlagReview),
			boolString(r.UseGold),
		})
	}
	return utils.WriteCSVWithBOM(path, header, out)
}

// WritePTStageComparison writes the raw-vs-corrected finished-goods
// stage check from the validation workbook.
func WritePTStageComparison(path string, rows []models.PTStageComparison) error {
	header := []string{
		"Branch_Code", "Orden", "Producto", "Raw_Costo_Unitario",
		"Corrected_Costo_Unitario", "Precio_Lista", "Matches_Lista",
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		corrected, list, matches := "", "", ""
		if r.HasCorrected {
			corrected = utils.MoneyString(r.CorrectedUnitCost)
		}
		if r.HasListPrice {
			list = utils.MoneyString(r.ListPrice)
			if r.HasCorrected {
				matches = boolString(r.MatchesList)
			}
		}
		out = append(out, []string{
			r.BranchCode,
			r.OrderId,
			r.Product,
			utils.MoneyString(r.RawUnitCost),
			corrected,
			list,
			matches,
		})
	}
	return utils.WriteCSVWithBOM(path, header, out)
}
