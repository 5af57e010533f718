package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"12.50", "12.5", true},
		{" $1,234.56 ", "1234.56", true},
		{"-3", "-3", true},
		{"", "", false},
		{"N/A", "", false},
		{"12,000", "12000", true},
	}
	for _, c := range cases {
		got, ok := ParseDecimal(c.in)
		if ok != c.wantOK {
			t.Fatalf("ParseDecimal(%q) ok = %v, want %v", c.in, ok, c.wantOK)
		}
		if ok && got.String() != c.want {
			t.Fatalf("ParseDecimal(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestPctChange(t *testing.T) {
	pct, ok := PctChange(decimal.NewFromInt(100), decimal.NewFromInt(150))
	if !ok || !pct.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected +50%%, got %s (ok=%v)", pct, ok)
	}
	pct, ok = PctChange(decimal.NewFromInt(200), decimal.NewFromInt(100))
	if !ok || !pct.Equal(decimal.NewFromInt(-50)) {
		t.Fatalf("expected -50%%, got %s (ok=%v)", pct, ok)
	}
	if _, ok := PctChange(decimal.Zero, decimal.NewFromInt(10)); ok {
		t.Fatal("pct change from zero must be undefined, not infinite")
	}
}

func TestMoneyString(t *testing.T) {
	if got := MoneyString(decimal.RequireFromString("12.345")); got != "12.35" {
		t.Fatalf("MoneyString = %q, want 12.35", got)
	}
	if got := MoneyString(decimal.NewFromInt(7)); got != "7" {
		t.Fatalf("MoneyString = %q, want 7", got)
	}
}
