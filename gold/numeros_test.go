package gold

import (
	"path/filepath"
	"testing"

	"github.com/mmdatafocus/transfers_backend/config"
	"github.com/mmdatafocus/transfers_backend/models"
	"github.com/shopspring/decimal"
)

func TestParseNumeros(t *testing.T) {
	cfg := config.DefaultReconciliation()
	total := ParseNumeros(goldFixture(t), cfg, testLogger())

	if total.Source != models.NumerosSourceParsed {
		t.Fatalf("source = %q, reason %q", total.Source, total.Reason)
	}
	if !total.Trusted() {
		t.Fatal("parsed total must be trusted")
	}
	if !total.Value.Equal(decimal.NewFromInt(283000)) {
		t.Fatalf("value = %s, want 283000", total.Value)
	}
}

func TestParseNumerosHeaderless(t *testing.T) {
	cfg := config.DefaultReconciliation()
	path := filepath.Join(t.TempDir(), "gold.xlsx")
	// No recognizable header: the branch name is assumed in the first
	// column and the value taken from the rightmost numeric cell.
	writeGoldWorkbook(t, path, []fixtureSheet{
		{name: "NUMEROS", rows: [][]interface{}{
			{"Hotel Kavia", "x", 283500},
		}},
	})

	total := ParseNumeros(path, cfg, testLogger())
	if total.Source != models.NumerosSourceParsed || !total.Value.Equal(decimal.NewFromInt(283500)) {
		t.Fatalf("total = %+v", total)
	}
}

func TestParseNumerosFallback(t *testing.T) {
	cfg := config.DefaultReconciliation()

	cases := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{"missing workbook", func(t *testing.T) string {
			return filepath.Join(t.TempDir(), "missing.xlsx")
		}},
		{"no NUMEROS sheet", func(t *testing.T) string {
			path := filepath.Join(t.TempDir(), "gold.xlsx")
			writeGoldWorkbook(t, path, []fixtureSheet{
				{name: "KAVIA-AG", rows: [][]interface{}{goldHeader}},
			})
			return path
		}},
		{"branch row absent", func(t *testing.T) string {
			path := filepath.Join(t.TempDir(), "gold.xlsx")
			writeGoldWorkbook(t, path, []fixtureSheet{
				{name: "NUMEROS", rows: [][]interface{}{
					{"Sucursal", "Total"},
					{"Punto Valle", 100000},
				}},
			})
			return path
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			total := ParseNumeros(c.setup(t), cfg, testLogger())
			if total.Source != models.NumerosSourceFallback {
				t.Fatalf("source = %q", total.Source)
			}
			if total.Trusted() {
				t.Fatal("fallback must not be trusted")
			}
			if total.Reason == "" {
				t.Fatal("fallback must record a reason")
			}
			if !total.Value.Equal(cfg.NumerosFallbackTotal) {
				t.Fatalf("value = %s, want %s", total.Value, cfg.NumerosFallbackTotal)
			}
		})
	}
}
