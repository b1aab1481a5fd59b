package ledger

import (
	"context"
	"time"

	"lavish/internal/core"
)

type EventKind string

const (
	RecordAdded   EventKind = "added"
	RecordRemoved EventKind = "removed"
)

// Event describes one successful mutation. Count is the ledger size after it.
type Event struct {
	Kind   EventKind
	Record core.Record
	Count  int
	At     time.Time
}

// Listener is called after every mutation, outside the store lock, in
// registration order.
type Listener func(ctx context.Context, ev Event)

// Subscribe registers l for change events.
func (s *Store) Subscribe(l Listener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Store) notify(ctx context.Context, ev Event) {
	s.listenersMu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.listenersMu.RUnlock()

	for _, l := range listeners {
		l(ctx, ev)
	}
}
