package workflow

import (
	"sort"

	"github.com/mmdatafocus/transfers_backend/config"
	"github.com/mmdatafocus/transfers_backend/models"
	"github.com/mmdatafocus/transfers_backend/utils"
	"github.com/shopspring/decimal"
)

// AllWeeksLabel is the synthetic row summing every week in a report.
const AllWeeksLabel = "All"

// OriginCostTotals splits before/after cost totals per week by origin
// warehouse class, led by the cross-week "All" row. Lines headed to
// the hub are dropped when excludeHub is set, since hub restocking
// transfers would double-count against the branch deliveries cut from
// the same stock.
func OriginCostTotals(lines []models.TransferLine, excludeHub bool, cfg *config.ReconciliationConfig) []models.OriginTotals {
	byWeek := map[string]*models.OriginTotals{}
	for i := range lines {
		l := &lines[i]
		if excludeHub && l.DestBranch == cfg.HubBranch {
			continue
		}
		t, ok := byWeek[l.Week]
		if !ok {
			t = &models.OriginTotals{Week: l.Week}
			byWeek[l.Week] = t
		}
		switch l.Origin() {
		case models.OriginGeneral:
			t.AGBefore = t.AGBefore.Add(l.CostBefore)
			t.AGAfter = t.AGAfter.Add(l.Cost)
		case models.OriginFinishedGoods:
			t.PTBefore = t.PTBefore.Add(l.CostBefore)
			t.PTAfter = t.PTAfter.Add(l.Cost)
		}
	}

	all := models.OriginTotals{Week: AllWeeksLabel}
	weekRows := make([]models.OriginTotals, 0, len(byWeek))
	for _, week := range sortedWeeksDesc(byWeek) {
		t := byWeek[week]
		finishOriginTotals(t)
		all.AGBefore = all.AGBefore.Add(t.AGBefore)
		all.AGAfter = all.AGAfter.Add(t.AGAfter)
		all.PTBefore = all.PTBefore.Add(t.PTBefore)
		all.PTAfter = all.PTAfter.Add(t.PTAfter)
		weekRows = append(weekRows, *t)
	}
	finishOriginTotals(&all)
	return append([]models.OriginTotals{all}, weekRows...)
}

func finishOriginTotals(t *models.OriginTotals) {
	t.AGDiff = t.AGAfter.Sub(t.AGBefore)
	t.PTDiff = t.PTAfter.Sub(t.PTBefore)
	t.AGPct, t.AGPctOK = utils.PctChange(t.AGBefore, t.AGAfter)
	t.PTPct, t.PTPctOK = utils.PctChange(t.PTBefore, t.PTAfter)
}

// WeeklyCostComparison rolls before/after totals up per week.
func WeeklyCostComparison(lines []models.TransferLine, excludeHub bool, cfg *config.ReconciliationConfig) []models.WeeklyAggregate {
	byWeek := map[string]*models.WeeklyAggregate{}
	for i := range lines {
		l := &lines[i]
		if excludeHub && l.DestBranch == cfg.HubBranch {
			continue
		}
		agg, ok := byWeek[l.Week]
		if !ok {
			agg = &models.WeeklyAggregate{Week: l.Week}
			byWeek[l.Week] = agg
		}
		agg.TotalBefore = agg.TotalBefore.Add(l.CostBefore)
		agg.TotalAfter = agg.TotalAfter.Add(l.Cost)
	}

	rows := make([]models.WeeklyAggregate, 0, len(byWeek))
	for _, week := range sortedWeeksDesc(byWeek) {
		agg := byWeek[week]
		agg.Difference = agg.TotalAfter.Sub(agg.TotalBefore)
		agg.PctChange, agg.PctChangeOK = utils.PctChange(agg.TotalBefore, agg.TotalAfter)
		rows = append(rows, *agg)
	}
	return rows
}

// CostByDestBranch rolls before/after totals up per destination branch
// across all weeks, largest corrected total first.
func CostByDestBranch(lines []models.TransferLine) []models.BranchAggregate {
	byBranch := map[string]*models.BranchAggregate{}
	for i := range lines {
		l := &lines[i]
		agg, ok := byBranch[l.DestBranch]
		if !ok {
			agg = &models.BranchAggregate{DestBranch: l.DestBranch}
			byBranch[l.DestBranch] = agg
		}
		agg.TotalBefore = agg.TotalBefore.Add(l.CostBefore)
		agg.TotalAfter = agg.TotalAfter.Add(l.Cost)
	}

	rows := make([]models.BranchAggregate, 0, len(byBranch))
	for _, agg := range byBranch {
		agg.Difference = agg.TotalAfter.Sub(agg.TotalBefore)
		agg.PctChange, agg.PctChangeOK = utils.PctChange(agg.TotalBefore, agg.TotalAfter)
		rows = append(rows, *agg)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalAfter.Equal(rows[j].TotalAfter) {
			return rows[i].DestBranch < rows[j].DestBranch
		}
		return rows[i].TotalAfter.GreaterThan(rows[j].TotalAfter)
	})
	return rows
}

// WeeklyReconciliationBreakdown produces the per-week row the
// cross-validation report is built from: corrected total, hub vs
// branches split, per-origin split, and the gold reference figures for
// weeks that have them.
func WeeklyReconciliationBreakdown(lines []models.TransferLine, cfg *config.ReconciliationConfig) []models.WeeklyBreakdown {
	byWeek := map[string]*models.WeeklyBreakdown{}
	for i := range lines {
		l := &lines[i]
		b, ok := byWeek[l.Week]
		if !ok {
			b = &models.WeeklyBreakdown{Week: l.Week}
			byWeek[l.Week] = b
		}
		b.TotalAfter = b.TotalAfter.Add(l.Cost)
		if l.DestBranch == cfg.HubBranch {
			b.ToHub = b.ToHub.Add(l.Cost)
		} else {
			b.ToBranchesOnly = b.ToBranchesOnly.Add(l.Cost)
		}
		// The origin split covers the whole week frame; only the
		// branches-only figure subtracts the hub.
		switch l.Origin() {
		case models.OriginFinishedGoods:
			b.PTOnly = b.PTOnly.Add(l.Cost)
		case models.OriginGeneral:
			b.AGOnly = b.AGOnly.Add(l.Cost)
		}
	}

	rows := make([]models.WeeklyBreakdown, 0, len(byWeek))
	for _, week := range sortedWeeksDesc(byWeek) {
		b := byWeek[week]
		if ref, ok := cfg.GoldReferenceByWeek[week]; ok {
			b.GoldReference = ref.DetailTotal
			b.GoldNumeros = ref.NumerosTotal
			b.HasGold = true
		}
		rows = append(rows, *b)
	}
	return rows
}

func sortedWeeksDesc[T any](byWeek map[string]*T) []string {
	weeks := make([]string, 0, len(byWeek))
	for w := range byWeek {
		weeks = append(weeks, w)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(weeks)))
	return weeks
}

// SumCost totals corrected line cost.
func SumCost(lines []models.TransferLine) decimal.Decimal {
	total := decimal.Zero
	for i := range lines {
		total = total.Add(lines[i].Cost)
	}
	return total
}
