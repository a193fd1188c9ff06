// Package worker runs the background prefetch job that keeps the response
// cache warm for the configured countries, so interactive requests are
// served from cache instead of waiting on upstream feeds.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cardfeed/internal/config"
	"cardfeed/internal/domain/entity"
	"cardfeed/internal/usecase/aggregate"

	"github.com/robfig/cron/v3"
)

// jobTimeout bounds one full prefetch sweep across all countries.
const jobTimeout = 5 * time.Minute

// NewsWarmer is the cache-filling entry point the prefetcher drives.
type NewsWarmer interface {
	News(ctx context.Context, req aggregate.Request) (*aggregate.Result, bool, error)
}

// Prefetcher schedules periodic aggregation runs for the configured
// countries and categories.
type Prefetcher struct {
	warmer     NewsWarmer
	cfg        config.PrefetchConfig
	categories []entity.Category
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewPrefetcher creates a Prefetcher. Empty configured categories mean all
// known categories. A nil logger falls back to slog.Default.
func NewPrefetcher(warmer NewsWarmer, cfg config.PrefetchConfig, logger *slog.Logger) *Prefetcher {
	if logger == nil {
		logger = slog.Default()
	}

	categories := make([]entity.Category, 0, len(cfg.Categories))
	for _, name := range cfg.Categories {
		categories = append(categories, entity.ParseCategory(name))
	}
	if len(categories) == 0 {
		categories = append(categories, entity.AllCategories...)
	}

	return &Prefetcher{
		warmer:     warmer,
		cfg:        cfg,
		categories: categories,
		cron:       cron.New(),
		logger:     logger,
	}
}

// Start registers the cron job, fires one immediate warming run, and starts
// the scheduler.
func (p *Prefetcher) Start() error {
	if _, err := p.cron.AddFunc(p.cfg.Schedule, p.runOnce); err != nil {
		return fmt.Errorf("register prefetch schedule %q: %w", p.cfg.Schedule, err)
	}

	go p.runOnce()
	p.cron.Start()

	p.logger.Info("prefetcher started",
		slog.String("schedule", p.cfg.Schedule),
		slog.Any("countries", p.cfg.Countries),
		slog.Int("categories", len(p.categories)))
	return nil
}

// Stop halts the scheduler and waits for a running job, bounded by ctx.
func (p *Prefetcher) Stop(ctx context.Context) {
	done := p.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		p.logger.Warn("prefetch job still running at shutdown")
	}
}

// runOnce warms the cache for every configured country. A failing country
// does not stop the sweep.
func (p *Prefetcher) runOnce() {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	failures := 0
	for _, country := range p.cfg.Countries {
		result, cached, err := p.warmer.News(ctx, aggregate.Request{
			Categories: p.categories,
			Country:    country,
		})
		if err != nil {
			failures++
			p.logger.Warn("prefetch failed",
				slog.String("country", country),
				slog.Any("error", err))
			continue
		}
		p.logger.Info("prefetch completed",
			slog.String("country", country),
			slog.Bool("was_cached", cached),
			slog.Int("articles", len(result.Articles)))
	}

	status := "success"
	if failures == len(p.cfg.Countries) {
		status = "failure"
	} else if failures > 0 {
		status = "partial"
	}
	recordRun(status, time.Since(start))

	p.logger.Info("prefetch sweep finished",
		slog.String("status", status),
		slog.Int("countries", len(p.cfg.Countries)),
		slog.Int("failures", failures),
		slog.Duration("duration", time.Since(start)))
}
