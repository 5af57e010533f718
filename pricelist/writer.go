package pricelist

import (
	"fmt"

	"github.com/mmdatafocus/transfers_backend/models"
	"github.com/mmdatafocus/transfers_backend/utils"
	"github.com/xuri/excelize/v2"
)

// WriteUpdated writes a price map back to an xlsx file with the
// scope-correct headers: NOMBRE WANSOFT / PRECIO DRIVE for PT,
// Producto / Precio unitario for AG. The write is atomic.
func WriteUpdated(path string, prices *models.PriceMap) error {
	productHeader, priceHeader := "Producto", "Precio unitario"
	if prices.Scope == models.PriceScopePT {
		productHeader, priceHeader = "NOMBRE WANSOFT", "PRECIO DRIVE"
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	f.SetCellValue(sheet, "A1", productHeader)
	f.SetCellValue(sheet, "B1", priceHeader)
	for i, entry := range prices.Entries() {
		rowNo := i + 2
		f.SetCellValue(sheet, "A"+fmt.Sprint(rowNo), entry.Product)
		if entry.HasPrice {
			price, _ := entry.UnitPrice.Round(2).Float64()
			f.SetCellValue(sheet, "B"+fmt.Sprint(rowNo), price)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("render price list %s: %w", path, err)
	}
	return utils.AtomicWriteFile(path, buf.Bytes())
}
