// Package aggregate implements the news aggregation pipeline: for each
// requested category it builds a locale-aware feed URL, retrieves and parses
// the feed, normalizes items into articles, resolves a display image per
// article, and merges category results with URL-based deduplication.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cardfeed/internal/domain/entity"
	"cardfeed/internal/feed"
	"cardfeed/internal/infra/feedparse"
	"cardfeed/internal/observability/metrics"
	"cardfeed/internal/observability/tracing"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	// perCategoryCap bounds how many articles one category contributes.
	perCategoryCap = 10

	// categoryParallelism bounds concurrent category pipelines. Relay
	// services throttle aggressively, so fan-out stays moderate.
	categoryParallelism = 4
)

// Retriever fetches the raw body of a feed URL.
type Retriever interface {
	Get(ctx context.Context, url string) (string, error)
}

// FeedParser converts a raw feed document into items.
type FeedParser interface {
	Parse(body string) ([]feedparse.RawItem, error)
}

// ImageResult is a resolved display image with optional attribution.
type ImageResult struct {
	URL      string
	Credit   *entity.ImageCredit
	Strategy string
}

// ImageResolver finds a display image for a feed item. Implementations
// always return a usable image; the final fallback never fails.
type ImageResolver interface {
	Resolve(ctx context.Context, item feedparse.RawItem, country string) ImageResult
}

// Request identifies what to aggregate.
type Request struct {
	Categories []entity.Category
	Country    string
}

// Result is the merged outcome of one aggregation run.
type Result struct {
	Articles    []*entity.Article
	Total       int
	Diagnostics []CategoryDiagnostics
}

// Service orchestrates the aggregation pipeline.
//
// Thread safety: Service is safe for concurrent use.
type Service struct {
	retriever  Retriever
	parser     FeedParser
	resolver   ImageResolver
	normalizer *Normalizer
	logger     *slog.Logger
}

// NewService creates an aggregation Service. A nil logger falls back to
// slog.Default.
func NewService(retriever Retriever, parser FeedParser, resolver ImageResolver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		retriever:  retriever,
		parser:     parser,
		resolver:   resolver,
		normalizer: NewNormalizer(),
		logger:     logger,
	}
}

// Aggregate runs the pipeline for every requested category. Category
// failures are isolated: a failing category contributes zero articles and a
// diagnostic entry, and only when every category fails does the call return
// an error. Results keep request category order, then feed order, with
// duplicate URLs removed first-wins.
func (s *Service) Aggregate(ctx context.Context, req Request) (*Result, error) {
	if len(req.Categories) == 0 {
		return nil, ErrNoCategoriesRequested
	}

	ctx, span := tracing.GetTracer().Start(ctx, "aggregate.Aggregate")
	defer span.End()
	span.SetAttributes(
		attribute.Int("categories", len(req.Categories)),
		attribute.String("country", req.Country),
	)

	start := time.Now()
	loc := feed.ResolveLocale(req.Country)

	perCategory := make([][]*entity.Article, len(req.Categories))
	diagnostics := make([]CategoryDiagnostics, len(req.Categories))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(categoryParallelism)
	for i, category := range req.Categories {
		i, category := i, category
		g.Go(func() error {
			articles, diag := s.runCategory(gctx, category, loc, req.Country)
			perCategory[i] = articles
			diagnostics[i] = diag
			return nil
		})
	}
	// Workers never return errors; failures land in diagnostics.
	_ = g.Wait()

	var merged []*entity.Article
	failures := 0
	for i, articles := range perCategory {
		merged = append(merged, articles...)
		if diagnostics[i].Failed() {
			failures++
		}
	}
	merged = lo.UniqBy(merged, func(a *entity.Article) string { return a.URL })

	metrics.RecordAggregate(time.Since(start))
	s.logger.Info("aggregation completed",
		slog.Int("categories", len(req.Categories)),
		slog.Int("failed_categories", failures),
		slog.Int("articles", len(merged)),
		slog.Duration("duration", time.Since(start)))

	if failures == len(req.Categories) {
		return nil, fmt.Errorf("%w: %s", ErrAllCategoriesFailed, diagnostics[0].Err)
	}

	return &Result{Articles: merged, Total: len(merged), Diagnostics: diagnostics}, nil
}

// runCategory executes the pipeline for a single category. It never returns
// an error: failures are captured in the diagnostics entry so sibling
// categories are unaffected.
func (s *Service) runCategory(ctx context.Context, category entity.Category, loc feed.LocaleParams, country string) ([]*entity.Article, CategoryDiagnostics) {
	diag := CategoryDiagnostics{Category: category}
	logger := s.logger.With(slog.String("category", string(category)))

	feedURL := feed.BuildFeedURL(category, loc)

	fetchStart := time.Now()
	body, err := s.retriever.Get(ctx, feedURL)
	metrics.RecordFeedFetch(string(category), time.Since(fetchStart))
	if err != nil {
		metrics.RecordFeedFetchError(string(category), "fetch")
		logger.Warn("feed fetch failed", slog.String("url", feedURL), slog.Any("error", err))
		diag.Err = err.Error()
		return nil, diag
	}

	items, err := s.parser.Parse(body)
	if err != nil {
		metrics.RecordFeedFetchError(string(category), "parse")
		logger.Warn("feed parse failed", slog.Any("error", err))
		diag.Err = err.Error()
		return nil, diag
	}
	diag.Fetched = len(items)

	articles := make([]*entity.Article, 0, perCategoryCap)
	for _, item := range items {
		if len(articles) == perCategoryCap {
			break
		}

		article, err := s.normalizer.Normalize(item, category)
		if err != nil {
			diag.Rejected++
			if rejection, ok := err.(*RejectionError); ok {
				metrics.RecordItemRejected(string(rejection.Reason))
			}
			logger.Debug("feed item rejected", slog.Any("error", err))
			continue
		}

		image := s.resolver.Resolve(ctx, item, country)
		article.ImageURL = image.URL
		article.ProxiedImageURL = proxiedImageURL(image.URL)
		article.ImageCredit = image.Credit

		articles = append(articles, article)
	}

	diag.Accepted = len(articles)
	metrics.RecordArticlesAggregated(string(category), len(articles))
	return articles, diag
}
