package transfers

import (
	"encoding/csv"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmdatafocus/transfers_backend/models"
	"github.com/mmdatafocus/transfers_backend/spreadsheet"
	"github.com/mmdatafocus/transfers_backend/utils"
	"github.com/sirupsen/logrus"
)

const (
	fieldOrder        = "orden"
	fieldOrigin       = "almacen_origen"
	fieldDestBranch   = "sucursal_destino"
	fieldDestWare     = "almacen_destino"
	fieldDate         = "fecha"
	fieldStatus       = "estatus"
	fieldQuantity     = "cantidad"
	fieldDepartment   = "departamento"
	fieldProductKey   = "clave"
	fieldProduct      = "producto"
	fieldPresentation = "presentacion"
	fieldCost         = "costo"
	fieldIEPS         = "ieps"
	fieldIVA          = "iva"
	fieldUnitCost     = "costo_unitario"
)

// CollectBranchCSVPaths walks batchDir recursively for the per-branch
// exports of one week: TransfersIssued_<branch>_<start>_<end>.csv.
func CollectBranchCSVPaths(batchDir, start, end string) ([]string, error) {
	pattern := fmt.Sprintf("TransfersIssued_*_%s_%s.csv", start, end)
	var paths []string
	err := filepath.WalkDir(batchDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ok, matchErr := filepath.Match(pattern, d.Name())
		if matchErr != nil {
			return matchErr
		}
		if ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan %s: %w", batchDir, err)
	}
	return paths, nil
}

// ReadAll reads and concatenates per-branch transfer CSVs. A missing
// required column in any file is a structural failure and aborts the
// run; bad numeric or date cells in individual rows are kept as
// missing values, never dropped silently.
func ReadAll(paths []string, logger *logrus.Logger) ([]models.TransferLine, error) {
	var lines []models.TransferLine
	for _, path := range paths {
		fileLines, err := readOne(path, logger)
		if err != nil {
			return nil, err
		}
		lines = append(lines, fileLines...)
	}
	return lines, nil
}

func readOne(path string, logger *logrus.Logger) ([]models.TransferLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transfers csv %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read transfers csv %s: %w", path, err)
	}
	if len(records) == 0 {
		logger.WithField("file", path).Warn("empty transfers csv")
		return nil, nil
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	res, err := spreadsheet.Resolve(path, header, []spreadsheet.ColumnSpec{
		{Field: fieldOrder, Candidates: []string{"Orden"}, Fallback: -1, Required: true},
		{Field: fieldOrigin, Candidates: []string{"Almacén origen", "Almacen origen", "origen"}, Fallback: -1, Required: true},
		{Field: fieldDestBranch, Candidates: []string{"Sucursal destino"}, Fallback: -1, Required: true},
		{Field: fieldDestWare, Candidates: []string{"Almacén destino", "Almacen destino"}, Fallback: -1},
		{Field: fieldDate, Candidates: []string{"Fecha"}, Fallback: -1, Required: true},
		{Field: fieldStatus, Candidates: []string{"Estatus"}, Fallback: -1},
		{Field: fieldQuantity, Candidates: []string{"Cantidad"}, Fallback: -1, Required: true},
		{Field: fieldDepartment, Candidates: []string{"Departamento"}, Fallback: -1},
		{Field: fieldProductKey, Candidates: []string{"Clave"}, Fallback: -1},
		{Field: fieldProduct, Candidates: []string{"Producto"}, Fallback: -1, Required: true},
		{Field: fieldPresentation, Candidates: []string{"Presentación", "Presentacion"}, Fallback: -1},
		{Field: fieldCost, Candidates: []string{"Costo"}, Fallback: -1, Required: true},
		{Field: fieldIEPS, Candidates: []string{"IEPS"}, Fallback: -1},
		{Field: fieldIVA, Candidates: []string{"IVA"}, Fallback: -1},
		{Field: fieldUnitCost, Candidates: []string{"Costo unitario"}, Fallback: -1, Required: true},
	})
	if err != nil {
		return nil, err
	}

	lines := make([]models.TransferLine, 0, len(records)-1)
	for _, row := range records[1:] {
		line := models.TransferLine{
			OrderId:         spreadsheet.Cell(row, res.Col(fieldOrder)),
			OriginWarehouse: spreadsheet.Cell(row, res.Col(fieldOrigin)),
			DestBranch:      spreadsheet.Cell(row, res.Col(fieldDestBranch)),
			DestWarehouse:   spreadsheet.Cell(row, res.Col(fieldDestWare)),
			Status:          spreadsheet.Cell(row, res.Col(fieldStatus)),
			Department:      spreadsheet.Cell(row, res.Col(fieldDepartment)),
			ProductKey:      spreadsheet.Cell(row, res.Col(fieldProductKey)),
			Product:         spreadsheet.Cell(row, res.Col(fieldProduct)),
			Presentation:    spreadsheet.Cell(row, res.Col(fieldPresentation)),
			IEPS:            spreadsheet.Cell(row, res.Col(fieldIEPS)),
			IVA:             spreadsheet.Cell(row, res.Col(fieldIVA)),
		}
		if line.OrderId == "" && line.Product == "" {
			continue
		}
		line.Quantity, _ = utils.ParseDecimal(spreadsheet.Cell(row, res.Col(fieldQuantity)))
		line.Cost, _ = utils.ParseDecimal(spreadsheet.Cell(row, res.Col(fieldCost)))
		line.UnitCost, _ = utils.ParseDecimal(spreadsheet.Cell(row, res.Col(fieldUnitCost)))
		line.Date, _ = spreadsheet.ParseCellDate(spreadsheet.Cell(row, res.Col(fieldDate)))
		lines = append(lines, line)
	}
	return lines, nil
}
