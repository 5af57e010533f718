package gold

import (
	"strings"

	"github.com/mmdatafocus/transfers_backend/config"
	"github.com/mmdatafocus/transfers_backend/models"
	"github.com/mmdatafocus/transfers_backend/spreadsheet"
	"github.com/mmdatafocus/transfers_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	numerosNameHints  = []string{"sucursal", "branch", "destino"}
	numerosValueHints = []string{"total", "costo", "suma"}
)

// ParseNumeros extracts the configured branch's total from the NUMEROS
// summary sheet. This path is diagnostic-only and never fails: any
// parse problem yields the configured fallback constant tagged as a
// low-confidence result, with the reason logged and recorded.
func ParseNumeros(path string, cfg *config.ReconciliationConfig, logger *logrus.Logger) models.NumerosTotal {
	fallback := func(reason string) models.NumerosTotal {
		logger.WithFields(logrus.Fields{
			"file":   path,
			"reason": reason,
		}).Warn("NUMEROS parse fell back to configured constant")
		return models.NumerosTotal{
			Value:  cfg.NumerosFallbackTotal,
			Source: models.NumerosSourceFallback,
			Reason: reason,
		}
	}

	f, err := spreadsheet.OpenWorkbook(path)
	if err != nil {
		return fallback("workbook unreadable: " + err.Error())
	}
	defer f.Close()

	rows, err := spreadsheet.SheetRows(f, numerosSheet)
	if err != nil {
		return fallback("no NUMEROS sheet")
	}
	if len(rows) == 0 {
		return fallback("NUMEROS sheet empty")
	}

	nameCol, valueCol, headerRow := detectNumerosColumns(rows, cfg.HeaderScanRows)
	branchNeedle := strings.ToLower(cfg.KaviaBranch)
	// Sheet rows usually carry the short code, not the full branch name.
	shortNeedle := "kavia"

	for _, row := range rows[headerRow+1:] {
		name := strings.ToLower(spreadsheet.Cell(row, nameCol))
		if name == "" {
			continue
		}
		if !strings.Contains(name, shortNeedle) && !strings.Contains(branchNeedle, name) {
			continue
		}
		var value decimal.Decimal
		var ok bool
		if valueCol >= 0 {
			value, ok = utils.ParseDecimal(spreadsheet.Cell(row, valueCol))
		}
		if !ok {
			value, ok = rightmostNumeric(row, nameCol)
		}
		if ok {
			return models.NumerosTotal{Value: value, Source: models.NumerosSourceParsed}
		}
	}
	return fallback("branch row not found or value not numeric")
}

// detectNumerosColumns locates the branch-name and total columns by
// header hints. When no header row qualifies it assumes column 0 for
// names and defers the value to the rightmost numeric cell per row.
func detectNumerosColumns(rows [][]string, scanRows int) (nameCol, valueCol, headerRow int) {
	limit := scanRows
	if limit > len(rows) {
		limit = len(rows)
	}
	for i := 0; i < limit; i++ {
		name, value := -1, -1
		for j, cell := range rows[i] {
			lower := strings.ToLower(strings.TrimSpace(cell))
			if lower == "" {
				continue
			}
			if name < 0 && containsAny(lower, numerosNameHints) {
				name = j
			}
			if containsAny(lower, numerosValueHints) {
				value = j
			}
		}
		if name >= 0 {
			return name, value, i
		}
	}
	return 0, -1, -1
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func rightmostNumeric(row []string, skipCol int) (decimal.Decimal, bool) {
	for i := len(row) - 1; i >= 0; i-- {
		if i == skipCol {
			continue
		}
		if v, ok := utils.ParseDecimal(row[i]); ok {
			return v, true
		}
	}
	return decimal.Zero, false
}
