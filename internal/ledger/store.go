// Package ledger holds the transaction ledger: an ordered append/remove log
// of records persisted wholesale after every mutation, with the derived
// list, summary and month views computed on demand.
package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"lavish/internal/core"
	"lavish/internal/log"

	"github.com/shopspring/decimal"
)

// Persister loads and saves the whole ledger.
type Persister interface {
	Load(ctx context.Context) ([]core.Record, error)
	Save(ctx context.Context, records []core.Record) error
}

// Store owns the ledger. It is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	records   []core.Record
	persister Persister
	ids       *IDGenerator
	loc       *time.Location
	logger    *log.Logger

	listenersMu sync.RWMutex
	listeners   []Listener
}

type Option func(*Store)

// WithLocation sets the time zone month keys are derived in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock replaces the clock ids are drawn from.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.ids = NewIDGenerator(now)
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger.WithComponent(log.ComponentLedger)
		}
	}
}

// Open reads the ledger from p once and returns a store serving it.
func Open(ctx context.Context, p Persister, opts ...Option) (*Store, error) {
	s := &Store{
		persister: p,
		ids:       NewIDGenerator(time.Now),
		loc:       time.Local,
		logger:    log.New(log.DefaultConfig()).WithComponent(log.ComponentLedger),
	}
	for _, opt := range opts {
		opt(s)
	}

	records, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	for _, r := range records {
		s.ids.Observe(r.ID)
	}
	s.records = records

	s.logger.InfoContext(ctx, "Ledger loaded", log.FieldCount, len(records), log.FieldOperation, log.OpLoad)
	return s, nil
}

// Location returns the time zone month keys are derived in.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Add appends a new record. The ledger is unchanged when validation or the
// save fails.
func (s *Store) Add(ctx context.Context, description string, amount float64, typ core.TxType) (core.Record, error) {
	description = strings.TrimSpace(description)
	if err := core.ValidateEntry(description, amount, typ); err != nil {
		return core.Record{}, err
	}

	s.mu.Lock()
	rec := core.Record{
		ID:          s.ids.Next(),
		Description: description,
		Amount:      amount,
		Type:        typ,
	}
	next := make([]core.Record, len(s.records), len(s.records)+1)
	copy(next, s.records)
	next = append(next, rec)

	if err := s.persister.Save(ctx, next); err != nil {
		s.mu.Unlock()
		return core.Record{}, fmt.Errorf("save ledger: %w", err)
	}
	s.records = next
	count := len(next)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Record added",
		log.NewFields().WithRecord(rec.ID, rec.Description, rec.Amount, rec.Type.String()).
			WithOperation(log.OpAdd).ToSlice()...)

	s.notify(ctx, Event{Kind: RecordAdded, Record: rec, Count: count, At: time.Now()})
	return rec, nil
}

// Remove deletes the record with the given id. Removing an unknown id is a
// no-op and reports false.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	idx := slices.IndexFunc(s.records, func(r core.Record) bool { return r.ID == id })
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}
	removed := s.records[idx]
	next := make([]core.Record, 0, len(s.records)-1)
	next = append(next, s.records[:idx]...)
	next = append(next, s.records[idx+1:]...)

	if err := s.persister.Save(ctx, next); err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("save ledger: %w", err)
	}
	s.records = next
	count := len(next)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Record removed", log.FieldRecordID, id, log.FieldOperation, log.OpRemove)

	s.notify(ctx, Event{Kind: RecordRemoved, Record: removed, Count: count, At: time.Now()})
	return true, nil
}

// ListFiltered returns the records of month (a YYYY-MM key), most recent
// first. "all" or "" selects every record.
func (s *Store) ListFiltered(month string) []core.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listFiltered(month)
}

// listFiltered, like distinctMonths, expects s.mu held.
func (s *Store) listFiltered(month string) []core.Record {
	all := month == "" || month == core.AllMonths
	out := make([]core.Record, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		r := s.records[i]
		if all || r.Month(s.loc) == month {
			out = append(out, r)
		}
	}
	return out
}

// Summarize totals the whole ledger by type.
func (s *Store) Summarize() core.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return summarize(s.records)
}

func summarize(records []core.Record) core.Summary {
	income, expense := decimal.Zero, decimal.Zero
	for _, r := range records {
		switch r.Type {
		case core.Income:
			income = income.Add(core.Decimal(r.Amount))
		case core.Expense:
			expense = expense.Add(core.Decimal(r.Amount))
		}
	}
	return core.Summary{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
}

// DistinctMonths returns every month key present in the ledger, ascending.
func (s *Store) DistinctMonths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.distinctMonths()
}

func (s *Store) distinctMonths() []string {
	seen := make(map[string]struct{}, len(s.records))
	months := make([]string, 0)
	for _, r := range s.records {
		m := r.Month(s.loc)
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		months = append(months, m)
	}
	slices.Sort(months)
	return months
}

// All returns a copy of the ledger in insertion order.
func (s *Store) All() []core.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.records)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
