package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"fieldbooking/internal/domain"
)

// fieldFetchTimeout bounds a shared fetch, which runs detached from the
// context of whichever caller started it.
const fieldFetchTimeout = 5 * time.Second

// FieldLookup resolves hosting-field metadata.
type FieldLookup interface {
	Get(ctx context.Context, fieldID string) (*domain.Field, error)
}

type cachedField struct {
	field     domain.Field
	expiresAt time.Time
}

// FieldCache fronts a FieldRepository with a TTL cache. Concurrent misses for
// the same field share one fetch. Entries can be dropped early with Invalidate.
type FieldCache struct {
	source domain.FieldRepository
	ttl    time.Duration
	now    Clock

	mu      sync.RWMutex
	entries map[string]cachedField
	group   singleflight.Group
}

// NewFieldCache returns a cache over source. A ttl <= 0 disables caching.
func NewFieldCache(source domain.FieldRepository, ttl time.Duration, clock Clock) *FieldCache {
	if clock == nil {
		clock = SystemClock
	}
	return &FieldCache{
		source:  source,
		ttl:     ttl,
		now:     clock,
		entries: make(map[string]cachedField),
	}
}

// Get returns the field, fetching it from the source on a miss or after expiry.
func (c *FieldCache) Get(ctx context.Context, fieldID string) (*domain.Field, error) {
	if f, ok := c.lookup(fieldID); ok {
		return &f, nil
	}
	v, err, _ := c.group.Do(fieldID, func() (any, error) {
		if f, ok := c.lookup(fieldID); ok {
			return f, nil
		}
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fieldFetchTimeout)
		defer cancel()
		f, err := c.source.GetByID(ctx, fieldID)
		if err != nil {
			return nil, err
		}
		c.store(fieldID, *f)
		return *f, nil
	})
	if err != nil {
		return nil, err
	}
	f := v.(domain.Field)
	return &f, nil
}

// Invalidate drops the cached entry for fieldID.
func (c *FieldCache) Invalidate(fieldID string) {
	c.mu.Lock()
	delete(c.entries, fieldID)
	c.mu.Unlock()
}

// Purge drops every cached entry.
func (c *FieldCache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]cachedField)
	c.mu.Unlock()
}

// Len returns the number of cached entries, expired ones included.
func (c *FieldCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *FieldCache) lookup(fieldID string) (domain.Field, bool) {
	c.mu.RLock()
	e, ok := c.entries[fieldID]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expiresAt) {
		return domain.Field{}, false
	}
	return e.field, true
}

func (c *FieldCache) store(fieldID string, f domain.Field) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[fieldID] = cachedField{field: f, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}
