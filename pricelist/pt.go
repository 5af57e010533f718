// Package pricelist loads and writes the authoritative price-list
// spreadsheets: PRECIOS.xlsx for the finished-goods warehouse (PT) and
// AG_PRECIOS.xlsx for the general warehouse (AG).
package pricelist

import (
	"strings"

	"github.com/mmdatafocus/transfers_backend/models"
	"github.com/mmdatafocus/transfers_backend/spreadsheet"
	"github.com/mmdatafocus/transfers_backend/utils"
	"github.com/sirupsen/logrus"
)

const (
	fieldProduct      = "producto"
	fieldUnitPrice    = "precio_unitario"
	fieldDrivePrice   = "precio_drive"
	fieldUnit         = "unidad"
	fieldPresentation = "presentacion"
)

// LoadPT parses the PT price list into a price map.
//
// Price semantics depend on the columns present:
//   - a PRECIO UNITARIO / Precio unitario column already holds the true
//     unit price and is used as-is;
//   - otherwise PRECIO DRIVE holds the package price: for UNIDAD "PZ" it
//     is divided by PRESENTACION (pack size) to get the unit price, for
//     LT/KG it already is the unit price. A missing or non-positive pack
//     size falls back to the listed price, logged as degraded.
//
// A file with no recognizable product or price column is unusable and
// returns MissingColumnError.
func LoadPT(path string, logger *logrus.Logger) (*models.PriceMap, error) {
	f, err := spreadsheet.OpenWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := spreadsheet.FirstSheetRows(f)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &spreadsheet.MissingColumnError{File: path, Field: fieldProduct, Candidates: []string{"NOMBRE WANSOFT", "Producto"}}
	}

	res, err := spreadsheet.Resolve(path, rows[0], []spreadsheet.ColumnSpec{
		{Field: fieldProduct, Candidates: []string{"NOMBRE WANSOFT", "Producto"}, Fallback: -1, Required: true},
		{Field: fieldUnitPrice, Candidates: []string{"Precio unitario"}, Fallback: -1},
		{Field: fieldDrivePrice, Candidates: []string{"PRECIO DRIVE"}, Fallback: -1},
		{Field: fieldUnit, Candidates: []string{"UNIDAD"}, Fallback: -1},
		{Field: fieldPresentation, Candidates: []string{"PRESENTACION", "Presentación"}, Fallback: -1},
	})
	if err != nil {
		return nil, err
	}

	unitCol := res.Col(fieldUnitPrice)
	driveCol := res.Col(fieldDrivePrice)
	if unitCol < 0 && driveCol < 0 {
		return nil, &spreadsheet.MissingColumnError{File: path, Field: fieldUnitPrice, Candidates: []string{"Precio unitario", "PRECIO DRIVE"}}
	}

	prices := models.NewPriceMap(models.PriceScopePT)
	degraded := 0
	for _, row := range rows[1:] {
		product := spreadsheet.Cell(row, res.Col(fieldProduct))
		if product == "" {
			continue
		}
		entry := models.PriceEntry{Product: product}
		if unitCol >= 0 {
			entry.UnitPrice, entry.HasPrice = utils.ParseDecimal(spreadsheet.Cell(row, unitCol))
		} else {
			price, ok := utils.ParseDecimal(spreadsheet.Cell(row, driveCol))
			if ok && strings.EqualFold(spreadsheet.Cell(row, res.Col(fieldUnit)), "PZ") {
				pack, packOK := utils.ParseDecimal(spreadsheet.Cell(row, res.Col(fieldPresentation)))
				if packOK && pack.IsPositive() {
					price = price.Div(pack)
				} else {
					degraded++
				}
			}
			entry.UnitPrice, entry.HasPrice = price, ok
		}
		prices.Add(entry)
	}

	if degraded > 0 {
		logger.WithFields(logrus.Fields{
			"file": path,
			"rows": degraded,
		}).Warn("PZ rows without a usable pack size kept the listed package price")
	}
	logger.WithFields(logrus.Fields{
		"file":     path,
		"products": prices.Len(),
	}).Info("loaded PT price list")
	return prices, nil
}
