// Package cache holds the time-bounded result memoization. Entries are
// keyed by a canonical serialization of the exact query parameters; after
// the TTL a cached entry is treated as stale and recomputed by the caller.
package cache

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/salesboard/sales-dashboard/internal/entity"
)

// Config holds the memoization settings.
type Config struct {
	TTL time.Duration `mapstructure:"ttl"`
}

const defaultTTL = 5 * time.Minute

// Results is a TTL-stamped key-value store shared across requests. Reads
// and writes are safe for concurrent use.
type Results struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

type entry struct {
	val     any
	expires time.Time
}

func New(cfg Config) *Results {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Results{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Get returns the cached value for key, or false when the key is absent or
// its entry has expired. Expired entries are removed on the way out.
func (c *Results) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(e.expires) {
		c.mu.Lock()
		// re-check under the write lock, another writer may have refreshed it
		if cur, ok := c.entries[key]; ok && c.now().After(cur.expires) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.val, true
}

// Set stores val under key with a fresh expiry.
func (c *Results) Set(key string, val any) {
	c.mu.Lock()
	c.entries[key] = entry{val: val, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Key builds the canonical cache key for an operation over a filter
// context. ID sets are sorted so selection order never splits the cache;
// extras carry per-call parameters such as limit or rank key.
func Key(op string, fc entity.FilterContext, extras ...string) string {
	var b strings.Builder
	b.WriteString(op)
	b.WriteByte('|')
	b.WriteString(fc.Range.From.UTC().Format(time.RFC3339))
	b.WriteByte('|')
	b.WriteString(fc.Range.To.UTC().Format(time.RFC3339))
	b.WriteByte('|')
	writeIDs(&b, fc.StoreIDs)
	b.WriteByte('|')
	writeIDs(&b, fc.ChannelIDs)
	for _, e := range extras {
		b.WriteByte('|')
		b.WriteString(e)
	}
	return b.String()
}

func writeIDs(b *strings.Builder, ids []int) {
	if len(ids) == 0 {
		b.WriteString("all")
		return
	}
	sorted := make([]int, len(ids))
	copy(sorted, ids)
	sort.Ints(sorted)
	for i, id := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(id))
	}
}
