package ids

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
)

func TestNewIsSortedAndValid(t *testing.T) {
	prev := New()
	assert.True(t, Valid(prev))
	for i := 0; i < 100; i++ {
		next := New()
		assert.Less(t, prev, next)
		prev = next
	}
	assert.False(t, Valid("req_123"))
}

func TestSourceOrdersWithinOneMillisecond(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	src := NewSource(func() time.Time { return at })

	prev := src.Next()
	for i := 0; i < 1000; i++ {
		next := src.Next()
		assert.Equal(t, ulid.Timestamp(at), next.Time())
		assert.Equal(t, -1, prev.Compare(next))
		prev = next
	}
}
