// Package gold parses the externally curated validation workbook
// ("gold reference"). Sheets are named <BRANCHCODE>-<STAGE> with stage
// AG, PT-W (raw) or PT-R (corrected), plus one NUMEROS summary sheet.
// Gold data validates the pipeline's output; it never feeds production
// artifacts.
package gold

import (
	"strings"

	"github.com/mmdatafocus/transfers_backend/config"
	"github.com/mmdatafocus/transfers_backend/models"
	"github.com/mmdatafocus/transfers_backend/spreadsheet"
	"github.com/mmdatafocus/transfers_backend/utils"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	numerosSheet    = "NUMEROS"
	headerMarker    = "Orden"
	minProductRunes = 2
)

const (
	fieldOrder      = "orden"
	fieldOrigin     = "almacen_origen"
	fieldDest       = "sucursal_destino"
	fieldDate       = "fecha"
	fieldQuantity   = "cantidad"
	fieldDepartment = "departamento"
	fieldProduct    = "producto"
	fieldCost       = "costo"
)

// ParseWorkbook parses every detail sheet of the gold workbook into
// facts. It returns (all facts, AG-only facts).
//
// Per the sheet naming convention each sheet is authoritative for
// exactly one origin: *-AG sheets for the general warehouse, *-PT-R for
// corrected finished goods. *-PT-W sheets hold the pre-correction state
// and are skipped. All facts are restricted to the configured
// validation window.
func ParseWorkbook(path string, cfg *config.ReconciliationConfig, logger *logrus.Logger) ([]models.GoldFact, []models.GoldFact, error) {
	f, err := spreadsheet.OpenWorkbook(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var all, agOnly []models.GoldFact
	for _, sheet := range f.GetSheetList() {
		if sheet == numerosSheet || strings.Contains(sheet, "-PT-W") {
			continue
		}
		parts := strings.Split(sheet, "-")
		if len(parts) < 2 {
			continue
		}
		facts := parseSheet(f, sheet, parts[0], cfg, logger)
		switch {
		case strings.Contains(sheet, "-AG"):
			facts = filterOrigin(facts, models.OriginGeneral)
			agOnly = append(agOnly, facts...)
			all = append(all, facts...)
		case strings.Contains(sheet, "-PT-R"):
			facts = filterOrigin(facts, models.OriginFinishedGoods)
			all = append(all, facts...)
		}
	}

	logger.WithFields(logrus.Fields{
		"file":    path,
		"rows":    len(all),
		"ag_rows": len(agOnly),
	}).Info("parsed gold workbook")
	return all, agOnly, nil
}

// ParsePTSheets parses only the finished-goods sheets of one stage
// (PT-W or PT-R), used by the raw-vs-corrected comparison.
func ParsePTSheets(path string, stage models.GoldStage, cfg *config.ReconciliationConfig, logger *logrus.Logger) ([]models.GoldFact, error) {
	f, err := spreadsheet.OpenWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	suffix := "-" + string(stage)
	var facts []models.GoldFact
	for _, sheet := range f.GetSheetList() {
		if sheet == numerosSheet || !strings.Contains(sheet, suffix) {
			continue
		}
		parts := strings.Split(sheet, "-")
		if len(parts) < 2 {
			continue
		}
		parsed := filterOrigin(parseSheet(f, sheet, parts[0], cfg, logger), models.OriginFinishedGoods)
		facts = append(facts, parsed...)
	}
	return facts, nil
}

// parseSheet converts one detail sheet to facts. Local failures (no
// header row, unreadable rows) yield an empty slice so one malformed
// sheet never aborts the workbook.
func parseSheet(f *excelize.File, sheet, branchCode string, cfg *config.ReconciliationConfig, logger *logrus.Logger) []models.GoldFact {
	rows, err := spreadsheet.SheetRows(f, sheet)
	if err != nil {
		logger.WithField("sheet", sheet).WithError(err).Warn("gold sheet unreadable, skipped")
		return nil
	}
	hdr := spreadsheet.FindHeaderRow(rows, headerMarker, cfg.HeaderScanRows)
	if hdr < 0 {
		logger.WithField("sheet", sheet).Warn("gold sheet has no recognizable header row, skipped")
		return nil
	}

	// Positional fallbacks reflect the source's usual column order; the
	// resolver flags them as degraded when used.
	res, err := spreadsheet.Resolve(sheet, rows[hdr], []spreadsheet.ColumnSpec{
		{Field: fieldOrder, Candidates: []string{"Orden"}, Fallback: 1, Required: true},
		{Field: fieldOrigin, Candidates: []string{"Almacén origen", "Almacen origen", "origen"}, Fallback: 2, Required: true},
		{Field: fieldDest, Candidates: []string{"Sucursal destino", "destino"}, Fallback: 3},
		{Field: fieldDate, Candidates: []string{"Fecha"}, Fallback: 5, Required: true},
		{Field: fieldQuantity, Candidates: []string{"Cantidad"}, Fallback: 6, Required: true},
		{Field: fieldDepartment, Candidates: []string{"Departamento"}, Fallback: 7},
		{Field: fieldProduct, Candidates: []string{"Producto"}, Fallback: 8, Required: true},
		{Field: fieldCost, Candidates: []string{"Costo"}, Fallback: 10, Required: true},
	})
	if err != nil {
		logger.WithField("sheet", sheet).WithError(err).Warn("gold sheet columns unresolvable, skipped")
		return nil
	}
	if len(res.Degraded) > 0 {
		logger.WithFields(logrus.Fields{
			"sheet":  sheet,
			"fields": res.Degraded,
		}).Warn("gold sheet columns resolved by position only")
	}

	branch, ok := cfg.SheetBranchNames[branchCode]
	if !ok {
		branch = cfg.BranchPrefix + branchCode
	}

	var facts []models.GoldFact
	for _, row := range rows[hdr+1:] {
		product := spreadsheet.Cell(row, res.Col(fieldProduct))
		if len([]rune(product)) <= minProductRunes {
			continue
		}
		cost, costOK := utils.ParseDecimal(spreadsheet.Cell(row, res.Col(fieldCost)))
		quantity, qtyOK := utils.ParseDecimal(spreadsheet.Cell(row, res.Col(fieldQuantity)))
		if !costOK || !qtyOK || quantity.IsZero() {
			continue
		}
		date, dateOK := spreadsheet.ParseCellDate(spreadsheet.Cell(row, res.Col(fieldDate)))
		if !dateOK || !cfg.InGoldWindow(date) {
			continue
		}
		facts = append(facts, models.GoldFact{
			OrderId:         spreadsheet.Cell(row, res.Col(fieldOrder)),
			Product:         product,
			DestBranch:      branch,
			OriginWarehouse: strings.ToUpper(spreadsheet.Cell(row, res.Col(fieldOrigin))),
			Date:            date,
			Quantity:        quantity,
			Cost:            cost,
			UnitCost:        cost.Div(quantity),
			Sheet:           sheet,
			BranchCode:      branchCode,
		})
	}
	return facts
}

func filterOrigin(facts []models.GoldFact, origin models.WarehouseOrigin) []models.GoldFact {
	out := facts[:0]
	for _, fact := range facts {
		if fact.Origin() == origin {
			out = append(out, fact)
		}
	}
	return out
}
