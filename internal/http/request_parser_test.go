package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"lavish/internal/core"
)

func TestParseMonthFilter(t *testing.T) {
	tests := []struct {
		query   string
		want    string
		wantErr bool
	}{
		{"", core.AllMonths, false},
		{"?month=all", core.AllMonths, false},
		{"?month=2024-03", "2024-03", false},
		{"?month=%202024-03%20", "2024-03", false},
		{"?month=2024-3", "", true},
		{"?month=march", "", true},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/ui/ledger"+tt.query, nil)
		got, err := parseMonthFilter(r)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseMonthFilter(%q) err = %v, wantErr %v", tt.query, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("parseMonthFilter(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestNewEntry(t *testing.T) {
	in, err := newEntry("  Coffee\x00 ", "$4,50", "Expense")
	if err != nil {
		t.Fatalf("newEntry: %v", err)
	}
	if in.Description != "Coffee" || in.Amount != 4.5 || in.Type != core.Expense {
		t.Errorf("newEntry = %+v", in)
	}

	if _, err := newEntry("", "abc", "income"); !isValidationError(err) || validationMessage(err) != "Please enter a description." {
		t.Errorf("empty description should be reported first, got %v", err)
	}
}

func TestMonthLabel(t *testing.T) {
	if got := monthLabel("2024-03"); got != "March 2024" {
		t.Errorf("monthLabel = %q", got)
	}
	if got := monthLabel(core.AllMonths); got != "All" {
		t.Errorf("monthLabel(all) = %q", got)
	}
}
