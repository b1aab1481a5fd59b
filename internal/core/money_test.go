package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"1", 1, true},
		{"4.50", 4.5, true},
		{"4,50", 4.5, true},
		{" 2000 ", 2000, true},
		{"$12.25", 12.25, true},
		{"-3", -3, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestFormatting(t *testing.T) {
	if got := FormatAmount(4.5); got != "4.5" {
		t.Fatalf("FormatAmount(4.5) = %s", got)
	}
	if got := FormatAmount(2000); got != "2000" {
		t.Fatalf("FormatAmount(2000) = %s", got)
	}
	if got := FormatDollars(decimal.RequireFromString("1995.5")); got != "$1995.50" {
		t.Fatalf("FormatDollars = %s", got)
	}
	if got := FormatDollars(decimal.RequireFromString("-4.5")); got != "$-4.50" {
		t.Fatalf("FormatDollars negative = %s", got)
	}
}

func TestSummaryChart(t *testing.T) {
	s := Summary{
		Income:  decimal.NewFromInt(2000),
		Expense: decimal.RequireFromString("4.5"),
	}
	c := s.Chart()
	if len(c.Data) != 2 || c.Data[0] != 2000 || c.Data[1] != 4.5 {
		t.Fatalf("unexpected chart data: %v", c.Data)
	}
	if c.Labels[0] != "Income" || c.BackgroundColor[1] != ExpenseColor {
		t.Fatalf("unexpected chart styling: %+v", c)
	}
}
