package provider

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"SpotScout/internal/model"
)

// entry is one cached value with its fetch instant.
type entry struct {
	value     any
	fetchedAt time.Time
}

// stale reports whether the entry has outlived ttl at the given instant.
// Freshness is a pure function of (fetchedAt, now, ttl).
func (e *entry) stale(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.fetchedAt) >= ttl
}

// Cached decorates a Provider with per-key time-to-live caching, so a scan
// cycle re-running within the TTL reuses the previous fetch instead of
// hitting the upstream API again.
type Cached struct {
	inner Provider
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]*entry

	// now is the clock; replaced in tests.
	now func() time.Time
}

// NewCached wraps inner with a TTL cache.
func NewCached(inner Provider, ttl time.Duration) *Cached {
	return &Cached{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

func (c *Cached) Name() string { return c.inner.Name() }

// lookup returns the fresh cached value for key, or fills the cache via
// fetch. A fetch error is returned as-is and nothing is cached.
func (c *Cached) lookup(key string, fetch func() (any, error)) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && !e.stale(c.now(), c.ttl) {
		return e.value, nil
	}

	value, err := fetch()
	if err != nil {
		return nil, err
	}
	c.entries[key] = &entry{value: value, fetchedAt: c.now()}
	return value, nil
}

func (c *Cached) ListTopAssets(ctx context.Context, n int) ([]model.AssetSnapshot, error) {
	key := "top:" + strconv.Itoa(n)
	v, err := c.lookup(key, func() (any, error) {
		return c.inner.ListTopAssets(ctx, n)
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.AssetSnapshot), nil
}

func (c *Cached) GetPriceHistory(ctx context.Context, assetID string, days int) (*model.PriceSeries, error) {
	key := "hist:" + assetID + ":" + strconv.Itoa(days)
	v, err := c.lookup(key, func() (any, error) {
		return c.inner.GetPriceHistory(ctx, assetID, days)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.PriceSeries), nil
}

func (c *Cached) GetCurrentPrices(ctx context.Context, assetIDs []string) (map[string]float64, error) {
	ids := append([]string(nil), assetIDs...)
	sort.Strings(ids)
	key := "prices:" + strings.Join(ids, ",")
	v, err := c.lookup(key, func() (any, error) {
		return c.inner.GetCurrentPrices(ctx, assetIDs)
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]float64), nil
}
