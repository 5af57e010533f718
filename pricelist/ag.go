package pricelist

import (
	"os"

	"github.com/mmdatafocus/transfers_backend/models"
	"github.com/mmdatafocus/transfers_backend/spreadsheet"
	"github.com/mmdatafocus/transfers_backend/utils"
	"github.com/sirupsen/logrus"
)

// LoadAG parses the AG price list. AG correction is optional: an empty
// path, a missing file, or a file without the exact Producto /
// Precio unitario columns all yield an empty map rather than an error.
func LoadAG(path string, logger *logrus.Logger) (*models.PriceMap, error) {
	prices := models.NewPriceMap(models.PriceScopeAG)
	if path == "" {
		return prices, nil
	}
	if _, err := os.Stat(path); err != nil {
		logger.WithField("file", path).Info("AG price list not found, AG correction disabled")
		return prices, nil
	}

	f, err := spreadsheet.OpenWorkbook(path)
	if err != nil {
		logger.WithField("file", path).WithError(err).Warn("AG price list unreadable, AG correction disabled")
		return prices, nil
	}
	defer f.Close()

	rows, err := spreadsheet.FirstSheetRows(f)
	if err != nil || len(rows) == 0 {
		logger.WithField("file", path).Warn("AG price list empty, AG correction disabled")
		return prices, nil
	}

	res, resErr := spreadsheet.Resolve(path, rows[0], []spreadsheet.ColumnSpec{
		{Field: fieldProduct, Candidates: []string{"Producto"}, Fallback: -1, Required: true},
		{Field: fieldUnitPrice, Candidates: []string{"Precio unitario"}, Fallback: -1, Required: true},
	})
	if resErr != nil {
		logger.WithField("file", path).WithError(resErr).Warn("AG price list malformed, AG correction disabled")
		return prices, nil
	}

	for _, row := range rows[1:] {
		product := spreadsheet.Cell(row, res.Col(fieldProduct))
		if product == "" {
			continue
		}
		entry := models.PriceEntry{Product: product}
		entry.UnitPrice, entry.HasPrice = utils.ParseDecimal(spreadsheet.Cell(row, res.Col(fieldUnitPrice)))
		prices.Add(entry)
	}

	logger.WithFields(logrus.Fields{
		"file":     path,
		"products": prices.Len(),
	}).Info("loaded AG price list")
	return prices, nil
}
