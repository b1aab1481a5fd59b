package backend

import (
	"context"

	"lavish/internal/storage"
)

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// BackendResult is an opened slot together with its cleanup.
type BackendResult struct {
	Slot    storage.Slot
	Cleanup CleanupFunc
}

// Close runs the cleanup, if any.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory opens the slot a ledger persists into.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config selects and configures one slot backend.
type Config struct {
	Type BackendType

	// File specific
	DataDirectory string

	// SQLite specific
	SQLiteDBPath string

	// Postgres specific
	DatabaseURL string
}

type BackendType string

const (
	FileBackend     BackendType = "file"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
	MemoryBackend   BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case FileBackend, SQLiteBackend, PostgresBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
