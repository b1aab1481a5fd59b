// Package cli holds the start-up steps shared by cmd/lavish and
// cmd/lavish-worker.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lavish/internal/amqp"
	"lavish/internal/backend"
	"lavish/internal/config"
	"lavish/internal/export"
	"lavish/internal/ledger"
	"lavish/internal/log"
	"lavish/internal/services"

	"github.com/joho/godotenv"
)

// SetupLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// makes it the slog default. A nil out means stdout.
func SetupLogger(cfg *config.Config, out io.Writer) *log.Logger {
	lc := log.DefaultConfig()
	if out != nil {
		lc.Output = out
	}
	if cfg != nil {
		lc.Level = log.ParseLevel(cfg.LogLevel)
		lc.Format = cfg.LogFormat
	}
	logger := log.New(lc)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ExportOptions derives export date rendering from cfg.
func ExportOptions(cfg *config.Config) (export.Options, error) {
	loc, err := cfg.Location()
	if err != nil {
		return export.Options{}, fmt.Errorf("load timezone: %w", err)
	}
	return export.Options{DateLayout: cfg.DateLayout, Location: loc}, nil
}

// Ledger is an opened store with the resources behind it.
type Ledger struct {
	Store     *ledger.Store
	Persister *ledger.SlotPersister
	Publisher *services.ChangePublisher

	backend *backend.BackendResult
	amqp    *amqp.Client
}

// OpenSlot opens the configured storage slot without loading it.
func OpenSlot(ctx context.Context, cfg *config.Config, logger *log.Logger) (*ledger.SlotPersister, *backend.BackendResult, error) {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bc)
	if err != nil {
		return nil, nil, err
	}
	return ledger.NewSlotPersister(res.Slot, cfg.SlotName, logger), res, nil
}

// OpenLedger opens the slot, loads the ledger and, when AMQP is configured,
// publishes its changes. An unreachable broker is logged and skipped.
func OpenLedger(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Ledger, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	persister, res, err := OpenSlot(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	store, err := ledger.Open(ctx, persister, ledger.WithLocation(loc), ledger.WithLogger(logger))
	if err != nil {
		_ = res.Close()
		return nil, err
	}

	l := &Ledger{Store: store, Persister: persister, backend: res}
	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without change events", log.FieldError, err)
		} else {
			l.amqp = client
			l.Publisher = services.NewChangePublisher(client, logger)
			l.Publisher.Attach(store)
			logger.Info("Publishing change events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}
	return l, nil
}

func (l *Ledger) Close() error {
	var errs []error
	if l.amqp != nil {
		errs = append(errs, l.amqp.Close())
	}
	errs = append(errs, l.backend.Close())
	return errors.Join(errs...)
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM. cleanup
// runs first with timeout to finish; done closes once it has returned.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		cancel()

		if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
			logger.Warn("Shutdown timeout reached")
			return
		}
		logger.Info("Shutdown complete")
	}()

	return ctx, done
}
