package aggregate

import (
	"context"
	"errors"
	"testing"

	"cardfeed/internal/domain/entity"
	"cardfeed/internal/infra/feedparse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	entries map[string]*Result
}

func newMapCache() *mapCache { return &mapCache{entries: map[string]*Result{}} }

func (c *mapCache) key(req Request) string {
	key := req.Country
	for _, cat := range req.Categories {
		key += "," + string(cat)
	}
	return key
}

func (c *mapCache) Get(req Request) (*Result, bool) {
	result, ok := c.entries[c.key(req)]
	return result, ok
}

func (c *mapCache) Set(req Request, result *Result) { c.entries[c.key(req)] = result }

// countingRetriever tracks how often feeds are actually fetched.
type countingRetriever struct {
	calls int
	body  string
	err   error
}

func (r *countingRetriever) Get(context.Context, string) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return r.body, nil
}

func TestCachedService_SecondCallHitsCache(t *testing.T) {
	retriever := &countingRetriever{body: feedDoc(item("Launch succeeds on third attempt",
		"https://news.google.com/rss/articles/CCC", goodDescription))}
	service := NewCachedService(
		NewService(retriever, feedparse.NewParser(nil), stubResolver{}, nil),
		newMapCache())

	req := Request{Categories: []entity.Category{entity.CategoryTechnology}, Country: "us"}

	first, cached, err := service.News(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, cached)

	second, cached, err := service.News(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Same(t, first, second)
	assert.Equal(t, 1, retriever.calls, "cache hit skips the upstream fetch")
}

func TestCachedService_PartialResultNotCached(t *testing.T) {
	techBody := feedDoc(item("Launch succeeds on third attempt",
		"https://news.google.com/rss/articles/CCC", goodDescription))
	retriever := &stubRetriever{
		bodies: map[string]string{topicFragment(entity.CategoryTechnology): techBody},
		errs:   map[string]error{topicFragment(entity.CategoryBusiness): errors.New("all relays failed")},
	}
	cache := newMapCache()
	service := NewCachedService(
		NewService(retriever, feedparse.NewParser(nil), stubResolver{}, nil), cache)

	req := Request{
		Categories: []entity.Category{entity.CategoryTechnology, entity.CategoryBusiness},
		Country:    "us",
	}

	_, cached, err := service.News(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Empty(t, cache.entries, "partial results are served but not stored")

	_, cached, err = service.News(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, cached, "failing categories are retried on the next request")
}

func TestCachedService_ErrorNotCached(t *testing.T) {
	retriever := &countingRetriever{err: errors.New("all relays failed")}
	service := NewCachedService(
		NewService(retriever, feedparse.NewParser(nil), stubResolver{}, nil),
		newMapCache())

	req := Request{Categories: []entity.Category{entity.CategoryGeneral}, Country: "us"}

	_, _, err := service.News(context.Background(), req)
	require.Error(t, err)

	_, _, err = service.News(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, 2, retriever.calls)
}
