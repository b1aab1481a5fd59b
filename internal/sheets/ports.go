// Package sheets defines the ledger mirror port and its adapters.
package sheets

import (
	"context"

	"lavish/internal/export"
)

// LedgerMirror keeps an external copy of the ledger.
type LedgerMirror interface {
	// Replace overwrites the mirror with rows, oldest first.
	Replace(ctx context.Context, rows []export.Row) error
}
