// Package backend opens the storage slot selected by configuration.
package backend

import (
	"context"
	"fmt"

	"lavish/internal/log"
	"lavish/internal/storage"
)

type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend validates config and opens the matching slot.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case FileBackend:
		return f.createFileBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case PostgresBackend:
		return f.createPostgresBackend(ctx, config)
	case MemoryBackend:
		f.logger.Warn("Using in-memory slot; the ledger will not survive a restart")
		return &BackendResult{Slot: storage.NewMemorySlot()}, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createFileBackend(config Config) (*BackendResult, error) {
	slot, err := storage.NewFileSlot(config.DataDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file slot: %w", err)
	}
	f.logger.Info("Initialized file backend", "data_directory", config.DataDirectory)
	return &BackendResult{Slot: slot}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	slot, err := storage.NewSQLiteSlot(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite slot: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return &BackendResult{Slot: slot, Cleanup: slot.Close}, nil
}

func (f *DefaultFactory) createPostgresBackend(ctx context.Context, config Config) (*BackendResult, error) {
	slot, err := storage.NewPostgresSlot(ctx, config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Postgres slot: %w", err)
	}
	f.logger.Info("Initialized Postgres backend")
	return &BackendResult{Slot: slot, Cleanup: slot.Close}, nil
}
