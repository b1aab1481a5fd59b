package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"lavish/internal/core"
	"lavish/internal/log"
	"lavish/internal/storage"
)

// Encode serializes the ledger as a JSON array of flat records.
func Encode(records []core.Record) ([]byte, error) {
	if records == nil {
		records = []core.Record{}
	}
	return json.Marshal(records)
}

// Decode parses a payload written by Encode. A JSON null decodes to an
// empty ledger.
func Decode(data []byte) ([]core.Record, error) {
	var records []core.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []core.Record{}
	}
	return records, nil
}

// SlotPersister stores the ledger under one named slot.
type SlotPersister struct {
	slot   storage.Slot
	name   string
	logger *log.Logger
}

var _ Persister = (*SlotPersister)(nil)

func NewSlotPersister(slot storage.Slot, name string, logger *log.Logger) *SlotPersister {
	if name == "" {
		name = storage.DefaultSlotName
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &SlotPersister{slot: slot, name: name, logger: logger.WithComponent(log.ComponentStorage)}
}

// Load returns an empty ledger when the slot is absent or its payload is
// malformed.
func (p *SlotPersister) Load(ctx context.Context) ([]core.Record, error) {
	data, ok, err := p.slot.Get(ctx, p.name)
	if err != nil {
		return nil, fmt.Errorf("read slot: %w", err)
	}
	if !ok {
		return []core.Record{}, nil
	}
	records, err := Decode(data)
	if err != nil {
		p.logger.WarnContext(ctx, "Malformed ledger slot, starting empty",
			log.FieldSlot, p.name, log.FieldError, err, "bytes", len(data))
		return []core.Record{}, nil
	}
	return records, nil
}

func (p *SlotPersister) Save(ctx context.Context, records []core.Record) error {
	data, err := Encode(records)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := p.slot.Put(ctx, p.name, data); err != nil {
		return fmt.Errorf("write slot: %w", err)
	}
	return nil
}
