package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cardfeed/internal/config"
	"cardfeed/internal/domain/entity"
	"cardfeed/internal/usecase/aggregate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWarmer struct {
	mu       sync.Mutex
	requests []aggregate.Request
	err      error
}

func (w *recordingWarmer) News(_ context.Context, req aggregate.Request) (*aggregate.Result, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.requests = append(w.requests, req)
	if w.err != nil {
		return nil, false, w.err
	}
	return &aggregate.Result{}, false, nil
}

func (w *recordingWarmer) recorded() []aggregate.Request {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]aggregate.Request(nil), w.requests...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestPrefetcher_WarmsAllCountriesOnStart(t *testing.T) {
	warmer := &recordingWarmer{}
	p := NewPrefetcher(warmer, config.PrefetchConfig{
		Enabled:   true,
		Schedule:  "@every 1h",
		Countries: []string{"us", "de"},
	}, nil)

	require.NoError(t, p.Start())
	defer p.Stop(context.Background())

	waitFor(t, func() bool { return len(warmer.recorded()) == 2 })

	requests := warmer.recorded()
	assert.Equal(t, "us", requests[0].Country)
	assert.Equal(t, "de", requests[1].Country)
	assert.Equal(t, entity.AllCategories, requests[0].Categories,
		"empty category config means all categories")
}

func TestPrefetcher_ConfiguredCategorySubset(t *testing.T) {
	warmer := &recordingWarmer{}
	p := NewPrefetcher(warmer, config.PrefetchConfig{
		Enabled:    true,
		Schedule:   "@every 1h",
		Countries:  []string{"us"},
		Categories: []string{"technology", "science"},
	}, nil)

	require.NoError(t, p.Start())
	defer p.Stop(context.Background())

	waitFor(t, func() bool { return len(warmer.recorded()) == 1 })
	assert.Equal(t,
		[]entity.Category{entity.CategoryTechnology, entity.CategoryScience},
		warmer.recorded()[0].Categories)
}

func TestPrefetcher_FailuresDoNotStopSweep(t *testing.T) {
	warmer := &recordingWarmer{err: errors.New("all relays failed")}
	p := NewPrefetcher(warmer, config.PrefetchConfig{
		Enabled:   true,
		Schedule:  "@every 1h",
		Countries: []string{"us", "de", "jp"},
	}, nil)

	require.NoError(t, p.Start())
	defer p.Stop(context.Background())

	waitFor(t, func() bool { return len(warmer.recorded()) == 3 })
}

func TestPrefetcher_InvalidScheduleFailsStart(t *testing.T) {
	p := NewPrefetcher(&recordingWarmer{}, config.PrefetchConfig{
		Enabled:   true,
		Schedule:  "definitely not cron",
		Countries: []string{"us"},
	}, nil)

	assert.Error(t, p.Start())
}
