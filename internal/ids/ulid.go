// Package ids issues the ULIDs that tag HTTP requests and ledger change
// events.
package ids

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Source hands out ULIDs in strictly increasing order, including several
// within one millisecond.
type Source struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy *ulid.MonotonicEntropy
}

func NewSource(now func() time.Time) *Source {
	if now == nil {
		now = time.Now
	}
	return &Source{now: now, entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Next never fails. When the monotonic counter overflows inside one
// millisecond the entropy is reseeded and ordering holds only across
// milliseconds. If entropy is unreadable the id carries its timestamp alone.
func (s *Source) Next() ulid.ULID {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := ulid.Timestamp(s.now())
	id, err := ulid.New(ms, s.entropy)
	if err == nil {
		return id
	}
	s.entropy = ulid.Monotonic(rand.Reader, 0)
	if id, err = ulid.New(ms, s.entropy); err == nil {
		return id
	}
	var bare ulid.ULID
	_ = bare.SetTime(ms)
	return bare
}

var std = NewSource(time.Now)

// New returns the next process-wide ULID as a string.
func New() string { return std.Next().String() }

func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
