package cache

import (
	"context"
	"sync"
	"time"

	"lavish/internal/ledger"
	"lavish/internal/log"
)

// Views caches ledger.View values per month filter. Every ledger change
// purges it, since one record moves the global summary for all filters.
type Views struct {
	store  *ledger.Store
	lru    *LRUCache[ledger.View]
	logger *log.Logger

	// gen counts purges. A view computed under an older generation is
	// returned to its caller but never stored.
	mu  sync.Mutex
	gen uint64

	compute func(month string) ledger.View
}

func NewViews(store *ledger.Store, size int, ttl time.Duration, logger *log.Logger) *Views {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	v := &Views{
		store:   store,
		lru:     NewLRUCache[ledger.View](size, ttl),
		logger:  logger.WithComponent(log.ComponentCache),
		compute: store.View,
	}
	store.Subscribe(v.invalidate)
	return v
}

// Get returns the cached view for month, computing it on a miss.
func (v *Views) Get(month string) ledger.View {
	if view, ok := v.lru.Get(month); ok {
		return view
	}
	gen := v.generation()
	view := v.compute(month)
	v.setIfCurrent(month, gen, view)
	return view
}

func (v *Views) generation() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.gen
}

func (v *Views) setIfCurrent(month string, gen uint64, view ledger.View) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen != gen {
		return
	}
	v.lru.Set(month, view)
}

func (v *Views) invalidate(ctx context.Context, ev ledger.Event) {
	v.mu.Lock()
	v.gen++
	v.lru.Purge()
	v.mu.Unlock()
	v.logger.DebugContext(ctx, "View cache purged", "kind", string(ev.Kind))
}

// Cleaner exposes the underlying LRU for the cleanup manager.
func (v *Views) Cleaner() Cleaner { return v.lru }

func (v *Views) Stats() (hits, misses uint64) { return v.lru.Stats() }
