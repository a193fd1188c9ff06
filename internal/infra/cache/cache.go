// Package cache memoizes aggregation results. Feeds on the upstream side
// refresh on the order of minutes, so a short TTL absorbs request bursts
// without serving stale cards.
package cache

import (
	"sort"
	"strings"
	"time"

	expirable "github.com/go-pkgz/expirable-cache/v2"

	"cardfeed/internal/observability/metrics"
	"cardfeed/internal/usecase/aggregate"
)

const (
	// DefaultTTL is how long an aggregation result stays fresh.
	DefaultTTL = 5 * time.Minute

	// maxKeys bounds memory: one entry per distinct category-set/country
	// combination.
	maxKeys = 512
)

// ResultCache memoizes aggregation results keyed by the request's category
// set and country.
//
// Thread safety: safe for concurrent use.
type ResultCache struct {
	entries expirable.Cache[string, *aggregate.Result]
	ttl     time.Duration
}

// New creates a ResultCache. A non-positive ttl falls back to DefaultTTL.
func New(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResultCache{
		entries: expirable.NewCache[string, *aggregate.Result]().
			WithLRU().
			WithMaxKeys(maxKeys).
			WithTTL(ttl),
		ttl: ttl,
	}
}

// Get returns the cached result for a request, if fresh.
func (c *ResultCache) Get(req aggregate.Request) (*aggregate.Result, bool) {
	result, ok := c.entries.Get(Key(req))
	metrics.RecordCacheLookup(ok)
	return result, ok
}

// Set stores a result under the request's key with the default TTL.
func (c *ResultCache) Set(req aggregate.Request, result *aggregate.Result) {
	c.entries.Set(Key(req), result, 0)
}

// Key derives the cache key: sorted categories plus the country, so that
// equivalent requests with reordered categories share an entry.
func Key(req aggregate.Request) string {
	categories := make([]string, len(req.Categories))
	for i, c := range req.Categories {
		categories[i] = string(c)
	}
	sort.Strings(categories)
	return strings.Join(categories, ",") + "|" + strings.ToLower(req.Country)
}
