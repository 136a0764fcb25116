// Package cache implements the two-tier lookup cache for resolved entries:
// a process-local TTL map in front of the shared remote store.
package cache

import (
	"sync"
	"time"

	"github.com/drag2anki/backend/internal/domain"
)

// DefaultTTL bounds how long a locally cached entry is served.
const DefaultTTL = 24 * time.Hour

type localItem struct {
	entry    domain.ResolvedEntry
	storedAt time.Time
}

// Local is the in-memory cache tier. Entries older than the TTL are treated
// as absent on read; there is no background sweep. The zero value is not
// usable — construct with NewLocal.
type Local struct {
	mu    sync.Mutex
	items map[string]localItem
	ttl   time.Duration
	now   func() time.Time
}

// NewLocal creates a local tier with the given TTL (DefaultTTL if zero).
func NewLocal(ttl time.Duration) *Local {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Local{
		items: make(map[string]localItem),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the cached entry for key, or false when absent or expired.
// Expired entries are removed lazily on access.
func (l *Local) Get(key string) (domain.ResolvedEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, ok := l.items[key]
	if !ok {
		return domain.ResolvedEntry{}, false
	}
	if l.now().Sub(item.storedAt) >= l.ttl {
		delete(l.items, key)
		return domain.ResolvedEntry{}, false
	}
	return item.entry, true
}

// Put stores entry under key with storedAt = now. The local tier accepts
// empty entries: within one session a confirmed "no result" is not retried.
func (l *Local) Put(key string, entry domain.ResolvedEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items[key] = localItem{entry: entry, storedAt: l.now()}
}

// Evict removes a single key.
func (l *Local) Evict(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.items, key)
}

// Clear drops every cached entry.
func (l *Local) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = make(map[string]localItem)
}

// Len returns the number of stored entries, expired ones included.
func (l *Local) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}
