// Package imageresolver finds a display image for every article through a
// cascade of strategies, ordered from cheapest to most expensive: declared
// feed media, inline description markup, publisher page scraping, stock
// photo search, and finally a country flag. The flag strategy cannot fail,
// so every article leaves the cascade with an image.
package imageresolver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"cardfeed/internal/infra/feedparse"
	"cardfeed/internal/infra/transport"
	"cardfeed/internal/observability/metrics"
	"cardfeed/internal/usecase/aggregate"
)

// Strategy is one step of the cascade. ok is false when the strategy found
// no acceptable image and the next one should run.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, item feedparse.RawItem, country string) (result aggregate.ImageResult, ok bool)
}

// DefaultCascade wires the full strategy chain in its production order. The
// scrape strategy gets a page transport of its own rather than sharing the
// feed retriever, keeping publisher-page failures out of the feed breaker.
func DefaultCascade(client *http.Client, logger *slog.Logger) *CascadeResolver {
	return NewCascadeResolver(logger,
		NewMediaStrategy(),
		NewInlineStrategy(),
		NewScrapeStrategy(transport.NewPageTransport(client), logger),
		NewStockStrategy(client, logger),
		NewFlagStrategy(),
	)
}

// CascadeResolver runs strategies in order and returns the first hit.
//
// Thread safety: safe for concurrent use when its strategies are.
type CascadeResolver struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewCascadeResolver creates a resolver over the given strategies in order.
// A nil logger falls back to slog.Default.
func NewCascadeResolver(logger *slog.Logger, strategies ...Strategy) *CascadeResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &CascadeResolver{strategies: strategies, logger: logger}
}

// Resolve runs the cascade. The returned result always carries a URL as long
// as the final strategy is the flag fallback.
func (r *CascadeResolver) Resolve(ctx context.Context, item feedparse.RawItem, country string) aggregate.ImageResult {
	start := time.Now()

	for _, strategy := range r.strategies {
		if ctx.Err() != nil {
			break
		}
		result, ok := strategy.Resolve(ctx, item, country)
		if !ok {
			continue
		}
		result.Strategy = strategy.Name()
		metrics.RecordImageResolved(strategy.Name(), time.Since(start))
		r.logger.Debug("image resolved",
			slog.String("strategy", strategy.Name()),
			slog.String("title", item.Title))
		return result
	}

	return aggregate.ImageResult{}
}
