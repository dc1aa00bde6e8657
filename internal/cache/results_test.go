package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesboard/sales-dashboard/internal/entity"
)

func TestResultsExpiry(t *testing.T) {
	clock := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	c := New(Config{TTL: time.Minute})
	c.now = func() time.Time { return clock }

	c.Set("k", 42)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, got)

	// still fresh just inside the TTL
	clock = clock.Add(59 * time.Second)
	_, ok = c.Get("k")
	assert.True(t, ok)

	// stale past the TTL and removed on read
	clock = clock.Add(2 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
	_, ok = c.entries["k"]
	assert.False(t, ok, "expired entry is deleted")
}

func TestResultsMiss(t *testing.T) {
	c := New(Config{})
	_, ok := c.Get("absent")
	assert.False(t, ok)
}

func TestResultsDefaultTTL(t *testing.T) {
	c := New(Config{})
	assert.Equal(t, defaultTTL, c.ttl)

	c = New(Config{TTL: -time.Second})
	assert.Equal(t, defaultTTL, c.ttl)
}

func TestKeyCanonical(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	a := entity.FilterContext{
		Range:    entity.TimeRange{From: from, To: to},
		StoreIDs: []int{3, 1, 2},
	}
	b := entity.FilterContext{
		Range:    entity.TimeRange{From: from, To: to},
		StoreIDs: []int{2, 3, 1},
	}

	// selection order never splits the cache
	assert.Equal(t, Key("daily", a), Key("daily", b))

	// distinct windows, filters and extras all key differently
	assert.NotEqual(t, Key("daily", a), Key("summary", a))
	assert.NotEqual(t, Key("daily", a), Key("daily", entity.FilterContext{Range: a.Range}))
	assert.NotEqual(t, Key("top", a, "quantity", "10"), Key("top", a, "revenue", "10"))

	// empty selections read as "all"
	assert.Contains(t, Key("daily", entity.FilterContext{Range: a.Range}), "|all|all")
}
