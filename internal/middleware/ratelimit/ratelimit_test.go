package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lavish/internal/log"

	"github.com/stretchr/testify/assert"
)

func TestAllowWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewLimiter(Config{RequestsPerMinute: 2}, log.Discard())
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "clients are limited independently")

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("a"), "a new window resets the count")
}

func TestCleanupDropsStaleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewLimiter(Config{}, log.Discard())
	rl.now = func() time.Time { return now }

	rl.Allow("old")
	now = now.Add(11 * time.Minute)
	rl.Allow("fresh")

	assert.Equal(t, 1, rl.cleanup())
	assert.Equal(t, int64(1), rl.GetMetrics().ClientCount)
}

func TestMiddlewareLimitsMutationsOnly(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 1}, log.Discard())
	h := rl.Middleware(func(*http.Request) string { return "client" }, MutatingOnly)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	do := func(method string) int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(method, "/transactions", nil))
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, do(http.MethodPost))
	assert.Equal(t, http.StatusTooManyRequests, do(http.MethodPost))
	assert.Equal(t, http.StatusNoContent, do(http.MethodGet))
	assert.Equal(t, http.StatusNoContent, do(http.MethodGet))
	assert.Equal(t, int64(1), rl.GetMetrics().TotalHits)
}
