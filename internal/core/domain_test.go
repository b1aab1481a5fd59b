package core

import (
	"math"
	"testing"
	"time"
)

func TestParseTxType(t *testing.T) {
	cases := []struct {
		in  string
		out TxType
		ok  bool
	}{
		{"income", Income, true},
		{"Expense", Expense, true},
		{" income ", Income, true},
		{"", "", false},
		{"transfer", "", false},
	}
	for _, tc := range cases {
		got, err := ParseTxType(tc.in)
		if tc.ok && (err != nil || got != tc.out) {
			t.Fatalf("%q expected %q, got %q (err=%v)", tc.in, tc.out, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestValidateEntry(t *testing.T) {
	if err := ValidateEntry("Coffee", 4.5, Expense); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := ValidateEntry("Refund", -3, Income); err != nil {
		t.Fatalf("negative amounts are kept as entered, got %v", err)
	}

	bads := []struct {
		desc   string
		amount float64
		typ    TxType
		want   error
	}{
		{"", 1, Income, ErrEmptyDescription},
		{"   ", 1, Income, ErrEmptyDescription},
		{"a", math.NaN(), Income, ErrInvalidAmount},
		{"a", math.Inf(1), Expense, ErrInvalidAmount},
		{"a", 1, TxType("gift"), ErrInvalidType},
	}
	for i, b := range bads {
		if err := ValidateEntry(b.desc, b.amount, b.typ); err != b.want {
			t.Fatalf("case %d expected %v, got %v", i, b.want, err)
		}
	}
}

func TestRecordMonth(t *testing.T) {
	id := time.Date(2025, 3, 31, 23, 30, 0, 0, time.UTC).UnixMilli()
	r := Record{ID: id}
	if got := r.Month(time.UTC); got != "2025-03" {
		t.Fatalf("expected 2025-03, got %s", got)
	}
	// One hour east of UTC the same instant falls in April.
	east := time.FixedZone("UTC+1", 3600)
	if got := r.Month(east); got != "2025-04" {
		t.Fatalf("expected 2025-04, got %s", got)
	}
}

func TestValidMonthKey(t *testing.T) {
	for _, s := range []string{"all", "2025-01", "1999-12"} {
		if !ValidMonthKey(s) {
			t.Fatalf("%q should be valid", s)
		}
	}
	for _, s := range []string{"", "2025-13", "2025/01", "All"} {
		if ValidMonthKey(s) {
			t.Fatalf("%q should be invalid", s)
		}
	}
}
