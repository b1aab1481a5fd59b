// Package worker keeps the ledger mirror in step with the slot.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"lavish/internal/amqp"
	"lavish/internal/export"
	"lavish/internal/ledger"
	"lavish/internal/log"
	"lavish/internal/sheets"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ConsumeFunc delivers change events to handler until ctx ends.
// (*amqp.Client).ConsumeChanges satisfies it.
type ConsumeFunc func(ctx context.Context, handler func(context.Context, *amqp.ChangeEvent) error) error

type Config struct {
	// Debounce collapses bursts of change events into one refresh.
	Debounce time.Duration
	// ResyncInterval refreshes the mirror even without events, covering
	// lost messages. Zero disables it.
	ResyncInterval time.Duration
	ExportOptions  export.Options
}

func DefaultConfig() Config {
	return Config{
		Debounce:       2 * time.Second,
		ResyncInterval: 15 * time.Minute,
	}
}

// MirrorWorker reloads the persisted ledger and overwrites the mirror.
type MirrorWorker struct {
	persister ledger.Persister
	mirror    sheets.LedgerMirror
	config    Config

	group   singleflight.Group
	pending chan struct{}

	refreshes atomic.Int64
	failures  atomic.Int64
	logger    *log.Logger
}

func NewMirrorWorker(persister ledger.Persister, mirror sheets.LedgerMirror, config Config, logger *log.Logger) *MirrorWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &MirrorWorker{
		persister: persister,
		mirror:    mirror,
		config:    config,
		pending:   make(chan struct{}, 1),
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

// HandleChange schedules a refresh for ev. The message is acknowledged
// right away; a failed refresh is retried by the loop.
func (w *MirrorWorker) HandleChange(ctx context.Context, ev *amqp.ChangeEvent) error {
	w.logger.DebugContext(ctx, "Change event received",
		log.FieldEventID, ev.EventID, "kind", ev.Kind, log.FieldRecordID, ev.RecordID)
	w.schedule()
	return nil
}

func (w *MirrorWorker) schedule() {
	select {
	case w.pending <- struct{}{}:
	default:
	}
}

// Refresh copies the current slot snapshot to the mirror. Concurrent calls
// share one reload.
func (w *MirrorWorker) Refresh(ctx context.Context) error {
	_, err, shared := w.group.Do("mirror", func() (any, error) {
		records, err := w.persister.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load ledger: %w", err)
		}
		rows := export.Rows(records, w.config.ExportOptions)
		if err := w.mirror.Replace(ctx, rows); err != nil {
			return nil, fmt.Errorf("replace mirror: %w", err)
		}
		w.refreshes.Add(1)
		w.logger.InfoContext(ctx, "Mirror refreshed", log.FieldOperation, log.OpMirror, log.FieldCount, len(rows))
		return nil, nil
	})
	if shared {
		w.logger.DebugContext(ctx, "Mirror refresh coalesced")
	}
	return err
}

// Run consumes change events and refreshes the mirror until ctx ends. The
// mirror is refreshed once at startup.
func (w *MirrorWorker) Run(ctx context.Context, consume ConsumeFunc) error {
	g, ctx := errgroup.WithContext(ctx)
	if consume != nil {
		g.Go(func() error { return consume(ctx, w.HandleChange) })
	}
	g.Go(func() error { return w.loop(ctx) })

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (w *MirrorWorker) loop(ctx context.Context) error {
	var resync <-chan time.Time
	if w.config.ResyncInterval > 0 {
		ticker := time.NewTicker(w.config.ResyncInterval)
		defer ticker.Stop()
		resync = ticker.C
	}

	var debounce <-chan time.Time
	w.schedule()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.pending:
			if debounce == nil {
				debounce = time.After(w.config.Debounce)
			}
		case <-debounce:
			debounce = nil
			w.refreshOrRetry(ctx)
		case <-resync:
			w.refreshOrRetry(ctx)
		}
	}
}

func (w *MirrorWorker) refreshOrRetry(ctx context.Context) {
	if err := w.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		w.failures.Add(1)
		w.logger.ErrorContext(ctx, "Mirror refresh failed, will retry",
			log.FieldError, err, log.FieldOperation, log.OpMirror)
		w.schedule()
	}
}

// Stats returns successful and failed refresh counts.
func (w *MirrorWorker) Stats() (refreshes, failures int64) {
	return w.refreshes.Load(), w.failures.Load()
}
