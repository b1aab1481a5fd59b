// Package memory is an in-process ledger mirror.
package memory

import (
	"context"
	"slices"
	"sync"

	"lavish/internal/export"
	ports "lavish/internal/sheets"
)

type Mirror struct {
	mu           sync.Mutex
	rows         []export.Row
	replacements int
}

var _ ports.LedgerMirror = (*Mirror)(nil)

func New() *Mirror {
	return &Mirror{}
}

// Replace stores a copy of rows.
func (m *Mirror) Replace(ctx context.Context, rows []export.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = slices.Clone(rows)
	m.replacements++
	return nil
}

// Rows returns the last mirrored rows.
func (m *Mirror) Rows() []export.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.rows)
}

// Replacements counts successful Replace calls.
func (m *Mirror) Replacements() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replacements
}
