package memory

import (
	"context"
	"testing"

	"lavish/internal/export"
)

func TestMirrorReplace(t *testing.T) {
	m := New()
	rows := []export.Row{{Description: "Salary", Amount: 2000, Type: "income"}}

	if err := m.Replace(context.Background(), rows); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	rows[0].Description = "changed"

	got := m.Rows()
	if len(got) != 1 || got[0].Description != "Salary" {
		t.Fatalf("mirror should hold a copy, got %+v", got)
	}

	if err := m.Replace(context.Background(), nil); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if len(m.Rows()) != 0 || m.Replacements() != 2 {
		t.Fatalf("rows=%v replacements=%d", m.Rows(), m.Replacements())
	}
}

func TestMirrorReplaceCanceled(t *testing.T) {
	m := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := m.Replace(ctx, nil); err == nil {
		t.Fatal("expected context error")
	}
	if m.Replacements() != 0 {
		t.Fatal("canceled replace must not count")
	}
}
