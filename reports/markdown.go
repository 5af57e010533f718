package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmdatafocus/transfers_backend/models"
	"github.com/mmdatafocus/transfers_backend/utils"
)

// WritePriceInvestigationReport renders the price-list vs gold findings
// as Markdown for human review: adoption and review counts up front,
// then only the rows that need a decision.
func WritePriceInvestigationReport(path string, scope models.PriceScope, rows []models.PriceComparison, generatedAt time.Time) error {
	var adopt, review, goldOnly int
	for _, r := range rows {
		if r.FlagReview {
			review++
		}
		if r.UseGold {
			adopt++
			if !r.HasOurs {
				goldOnly++
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Unit price investigation (%s)\n\n", scope)
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "- Products compared: %d\n", len(rows))
	fmt.Fprintf(&b, "- Prices to adopt from the validation workbook: %d (%d new products)\n", adopt, goldOnly)
	fmt.Fprintf(&b, "- Flagged for manual review: %d\n\n", review)

	if review > 0 {
		b.WriteString("## Flagged for review\n\n")
		b.WriteString("| Producto | List price | Gold price | Pct diff | Gold count |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, r := range rows {
			if !r.FlagReview {
				continue
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %d |\n",
				r.Product,
				utils.MoneyString(r.OursPrice),
				utils.MoneyString(r.GoldPrice),
				pctOrEmpty(r.PctDiff.Round(2), r.PctDiffOK),
				r.GoldCount)
		}
		b.WriteString("\n")
	}

	if adopt > 0 {
		b.WriteString("## Adopted from validation workbook\n\n")
		b.WriteString("| Producto | List price | Gold price | Gold count |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, r := range rows {
			if !r.UseGold {
				continue
			}
			ours := "(missing)"
			if r.HasOurs {
				ours = utils.MoneyString(r.OursPrice)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %d |\n",
				r.Product, ours, utils.MoneyString(r.GoldPrice), r.GoldCount)
		}
		b.WriteString("\n")
	}

	return utils.AtomicWriteFile(path, []byte(b.String()))
}

// WriteCorrectionSummary renders the cross-week correction summary as
// Markdown, one section per rollup.
func WriteCorrectionSummary(path string, weekly []models.WeeklyAggregate, origins []models.OriginTotals, alerts []models.PriceChangeAlert, generatedAt time.Time) error {
	var b strings.Builder
	b.WriteString("# Transfer price correction summary\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.UTC().Format(time.RFC3339))

	b.WriteString("## Weekly totals\n\n")
	b.WriteString("| Week | Before | After | Difference | Pct change |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, w := range weekly {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			w.Week,
			utils.MoneyString(w.TotalBefore),
			utils.MoneyString(w.TotalAfter),
			utils.MoneyString(w.Difference),
			pctOrEmpty(w.PctChange.Round(2), w.PctChangeOK))
	}
	b.WriteString("\n## By origin warehouse\n\n")
	b.WriteString("| Week | AG before | AG after | AG diff | PT before | PT after | PT diff |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, o := range origins {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			o.Week,
			utils.MoneyString(o.AGBefore), utils.MoneyString(o.AGAfter), utils.MoneyString(o.AGDiff),
			utils.MoneyString(o.PTBefore), utils.MoneyString(o.PTAfter), utils.MoneyString(o.PTDiff))
	}

	var flagged []models.PriceChangeAlert
	for _, a := range alerts {
		if a.Alert != models.AlertNone {
			flagged = append(flagged, a)
		}
	}
	if len(flagged) > 0 {
		b.WriteString("\n## Price change alerts\n\n")
		b.WriteString("| Producto | Origen | Unit before | Unit after | Pct change | Level |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, a := range flagged {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				a.Product,
				a.OriginText,
				utils.MoneyString(a.WeightedUnitBefore),
				utils.MoneyString(a.UnitAfter),
				a.PctChangeUnit.Round(2).String(),
				a.Alert)
		}
	}
	b.WriteString("\n")
	return utils.AtomicWriteFile(path, []byte(b.String()))
}
