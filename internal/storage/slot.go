package storage

import (
	"context"
	"errors"
	"strings"
)

// DefaultSlotName is the slot the ledger lives in unless configured otherwise.
const DefaultSlotName = "lavish_transactions"

var ErrInvalidSlotName = errors.New("invalid slot name")

// Slot is durable key/value storage holding whole payloads under a name.
type Slot interface {
	// Get returns the payload stored under name. ok is false when the slot
	// has never been written.
	Get(ctx context.Context, name string) (payload []byte, ok bool, err error)
	// Put replaces the payload stored under name.
	Put(ctx context.Context, name string, payload []byte) error
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return ErrInvalidSlotName
	}
	return nil
}
