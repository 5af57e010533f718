package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// OpenWorkbook opens an xlsx file for reading. The caller owns closing.
func OpenWorkbook(path string) (*excelize.File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return f, nil
}

// FirstSheetRows returns all rows of the workbook's first sheet.
func FirstSheetRows(f *excelize.File) ([][]string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return SheetRows(f, sheets[0])
}

// SheetRows returns all rows of the named sheet as trimmed-length
// string slices.
func SheetRows(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}
