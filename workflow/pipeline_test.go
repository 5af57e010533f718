package workflow

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmdatafocus/transfers_backend/config"
	"github.com/mmdatafocus/transfers_backend/transfers"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func writePriceList(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func TestRunWeeklyPipeline(t *testing.T) {
	batchDir := t.TempDir()
	outputDir := t.TempDir()
	priceDir := t.TempDir()

	ptPath := filepath.Join(priceDir, "PRECIOS.xlsx")
	writePriceList(t, ptPath, [][]interface{}{
		{"Producto", "Precio unitario"},
		{"Croissant", 12.0},
	})
	agPath := filepath.Join(priceDir, "AG_PRECIOS.xlsx")
	writePriceList(t, agPath, [][]interface{}{
		{"Producto", "Precio unitario"},
		{"Mayonesa de Panem *", 25.5},
	})

	// One export for the most recent window; the older window stays
	// empty and must be skipped without failing the run. The AG line
	// carries the known misspelling and resolves through the alias
	// table; the PT line already matches the list price.
	csvBody := "Orden,Almacén origen,Sucursal destino,Almacén destino,Fecha,Estatus,Cantidad,Departamento,Clave,Producto,Presentación,Costo,IEPS,IVA,Costo unitario\n" +
		"9980-1,ALMACEN GENERAL,Panem - Punto Valle,AG PV,2026-02-03,Surtida,10,Abarrotes,CL1,Mayones de Panem *,CAJA,200.00,0,0,20.00\n" +
		"9981-1,ALMACEN PRODUCTO TERMINADO,Panem - Punto Valle,APT,2026-02-04,Surtida,4,Panadería,CL2,Croissant,PZ,48.00,0,0,12.00\n"
	csvPath := filepath.Join(batchDir, "TransfersIssued_PV_2026-02-02_2026-02-08.csv")
	if err := os.WriteFile(csvPath, []byte(csvBody), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultReconciliation()
	result, err := RunWeeklyPipeline(PipelineOptions{
		BatchDir:    batchDir,
		OutputDir:   outputDir,
		PTPricePath: ptPath,
		AGPricePath: agPath,
		EndDate:     time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC),
		Weeks:       2,
	}, cfg, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Weeks) != 1 {
		t.Fatalf("expected 1 processed week, got %d", len(result.Weeks))
	}
	week := result.Weeks[0]
	if week.Week != "2026-02-02_2026-02-08" {
		t.Fatalf("week label = %q", week.Week)
	}
	if week.CorrectedAG != 1 || week.CorrectedPT != 1 || week.Passthrough != 0 {
		t.Fatalf("counts AG=%d PT=%d passthrough=%d", week.CorrectedAG, week.CorrectedPT, week.Passthrough)
	}
	if result.RunID == "" {
		t.Fatal("run must carry an id")
	}

	seen := make(map[string]bool)
	for _, artifact := range result.Artifacts {
		if _, err := os.Stat(artifact); err != nil {
			t.Fatalf("artifact missing: %v", err)
		}
		name := filepath.Base(artifact)
		seen[name] = true
		// Output names must stay disjoint from the input glob so a re-run
		// over the same directory never ingests its own export.
		if ok, _ := filepath.Match("TransfersIssued_*_2026-02-02_2026-02-08.csv", name); ok {
			t.Fatalf("artifact %s matches the input glob", name)
		}
	}
	for _, want := range []string{"transfers_2026-02-02_2026-02-08.csv", "price_correction_report.csv", "price_changes_all_weeks.csv"} {
		if !seen[want] {
			t.Fatalf("artifact list is missing %s", want)
		}
	}

	// The corrected weekly export must carry the authoritative price.
	reread, err := transfers.ReadAll([]string{filepath.Join(outputDir, "transfers_2026-02-02_2026-02-08.csv")}, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(reread) != 2 {
		t.Fatalf("reread %d lines", len(reread))
	}
	var found bool
	for _, line := range reread {
		if line.OrderId == "9980-1" {
			found = true
			if !line.UnitCost.Equal(decimal.RequireFromString("25.5")) {
				t.Fatalf("unit cost = %s, want 25.5", line.UnitCost)
			}
			if !line.Cost.Equal(decimal.NewFromInt(255)) {
				t.Fatalf("cost = %s, want 255", line.Cost)
			}
		}
	}
	if !found {
		t.Fatal("corrected AG line not in weekly export")
	}

	// Only lines whose cost actually moved count as price changes.
	changes := result.ChangesByWeek["2026-02-02_2026-02-08"]
	if len(changes) != 1 || changes[0].OrderId != "9980-1" {
		t.Fatalf("changes = %+v", changes)
	}

	raw, err := os.ReadFile(filepath.Join(outputDir, "manifest.json"))
	if err != nil {
		t.Fatal(err)
	}
	var manifest PipelineResult
	if err := json.Unmarshal(raw, &manifest); err != nil {
		t.Fatal(err)
	}
	if manifest.RunID != result.RunID || len(manifest.Weeks) != 1 {
		t.Fatalf("manifest run=%q weeks=%d", manifest.RunID, len(manifest.Weeks))
	}
}

func TestRunWeeklyPipelineNoWindows(t *testing.T) {
	ptPath := filepath.Join(t.TempDir(), "PRECIOS.xlsx")
	writePriceList(t, ptPath, [][]interface{}{
		{"Producto", "Precio unitario"},
		{"Croissant", 12.0},
	})

	_, err := RunWeeklyPipeline(PipelineOptions{
		BatchDir:    t.TempDir(),
		OutputDir:   t.TempDir(),
		PTPricePath: ptPath,
		EndDate:     time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC),
		Weeks:       0,
	}, config.DefaultReconciliation(), testLogger())
	if err == nil {
		t.Fatal("zero windows must be an error")
	}
}
