// Package services connects the ledger to its asynchronous consumers.
package services

import (
	"context"
	"sync/atomic"
	"time"

	"lavish/internal/amqp"
	"lavish/internal/ledger"
	"lavish/internal/log"
)

const publishTimeout = 5 * time.Second

// Publisher sends change events to the broker.
type Publisher interface {
	PublishChange(ctx context.Context, ev *amqp.ChangeEvent) error
}

// ChangePublisher forwards ledger mutations to a Publisher. A failed publish
// is logged and counted; the mutation it describes has already been saved.
type ChangePublisher struct {
	publisher Publisher
	logger    *log.Logger

	published atomic.Int64
	failed    atomic.Int64
}

func NewChangePublisher(publisher Publisher, logger *log.Logger) *ChangePublisher {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ChangePublisher{
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentAMQP),
	}
}

// Attach subscribes p to store.
func (p *ChangePublisher) Attach(store *ledger.Store) {
	store.Subscribe(p.Handle)
}

// Handle publishes ev. It never returns an error to the store.
func (p *ChangePublisher) Handle(ctx context.Context, ev ledger.Event) {
	// The request may finish before the broker answers.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	msg := amqp.NewChangeEvent(string(ev.Kind), ev.Record.ID, ev.Count)
	msg.Timestamp = ev.At

	if err := p.publisher.PublishChange(ctx, msg); err != nil {
		p.failed.Add(1)
		p.logger.ErrorContext(ctx, "Failed to publish change event",
			log.FieldError, err,
			log.FieldOperation, log.OpPublish,
			log.FieldRecordID, ev.Record.ID,
			"kind", ev.Kind)
		return
	}
	p.published.Add(1)
}

// Stats returns how many events were published and how many failed.
func (p *ChangePublisher) Stats() (published, failed int64) {
	return p.published.Load(), p.failed.Load()
}
