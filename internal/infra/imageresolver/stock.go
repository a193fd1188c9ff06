package imageresolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"cardfeed/internal/domain/entity"
	"cardfeed/internal/infra/feedparse"
	"cardfeed/internal/resilience/circuitbreaker"
	"cardfeed/internal/resilience/retry"
	"cardfeed/internal/usecase/aggregate"

	"golang.org/x/time/rate"
)

const (
	openverseEndpoint = "https://api.openverse.org/v1/images/"

	// stockQueryTerms caps how many title words feed the search query.
	// Long headlines over-constrain the search and return nothing.
	stockQueryTerms = 6

	maxStockBodySize = 1 << 20 // 1MB
)

// openverseResponse is the subset of the Openverse search response we read.
type openverseResponse struct {
	Results []openverseImage `json:"results"`
}

type openverseImage struct {
	URL            string `json:"url"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Creator        string `json:"creator"`
	License        string `json:"license"`
	Source         string `json:"source"`
	ForeignLanding string `json:"foreign_landing_url"`
}

// StockStrategy searches the Openverse openly-licensed image catalog for a
// photograph matching the article title. Openverse is keyless but
// rate limited, so requests go through a local limiter in addition to the
// usual retry and circuit breaker protection. Matches carry attribution.
type StockStrategy struct {
	client         *http.Client
	limiter        *rate.Limiter
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	logger         *slog.Logger

	// endpoint is overridable for tests.
	endpoint string
}

// NewStockStrategy creates a StockStrategy. A nil client gets a default;
// a nil logger falls back to slog.Default.
func NewStockStrategy(client *http.Client, logger *slog.Logger) *StockStrategy {
	if client == nil {
		client = &http.Client{Timeout: scrapeTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StockStrategy{
		client:         client,
		limiter:        rate.NewLimiter(rate.Limit(2), 4),
		circuitBreaker: circuitbreaker.New(circuitbreaker.StockSearchConfig()),
		retryConfig:    retry.StockSearchConfig(),
		logger:         logger,
		endpoint:       openverseEndpoint,
	}
}

func (*StockStrategy) Name() string { return "stock" }

func (s *StockStrategy) Resolve(ctx context.Context, item feedparse.RawItem, _ string) (aggregate.ImageResult, bool) {
	query := stockQuery(item)
	if query == "" {
		return aggregate.ImageResult{}, false
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return aggregate.ImageResult{}, false
	}

	var result aggregate.ImageResult
	retryErr := retry.WithBackoff(ctx, s.retryConfig, func() error {
		cbResult, err := s.circuitBreaker.Execute(func() (interface{}, error) {
			return s.search(ctx, query)
		})
		if err != nil {
			return err
		}
		result = cbResult.(aggregate.ImageResult)
		return nil
	})
	if retryErr != nil {
		s.logger.Debug("stock image search failed",
			slog.String("query", query), slog.Any("error", retryErr))
		return aggregate.ImageResult{}, false
	}
	if result.URL == "" {
		return aggregate.ImageResult{}, false
	}
	return result, true
}

// search performs one Openverse query and picks the first result meeting the
// pixel floor.
func (s *StockStrategy) search(ctx context.Context, query string) (aggregate.ImageResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("category", "photograph")
	params.Set("page_size", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return aggregate.ImageResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return aggregate.ImageResult{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return aggregate.ImageResult{}, &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxStockBodySize))
	if err != nil {
		return aggregate.ImageResult{}, fmt.Errorf("read body: %w", err)
	}

	var payload openverseResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return aggregate.ImageResult{}, fmt.Errorf("decode response: %w", err)
	}

	for _, image := range payload.Results {
		if image.URL == "" || !acceptableImageURL(image.URL) {
			continue
		}
		if image.Width*image.Height < minStockPixels {
			continue
		}
		return aggregate.ImageResult{
			URL: image.URL,
			Credit: &entity.ImageCredit{
				Provider:   image.Source,
				Creator:    image.Creator,
				License:    image.License,
				LandingURL: image.ForeignLanding,
			},
		}, nil
	}
	return aggregate.ImageResult{}, nil
}

// stockQuery builds the search query from the leading title words plus the
// publisher hostname, which anchors ambiguous headlines to their subject.
func stockQuery(item feedparse.RawItem) string {
	words := strings.Fields(item.Title)
	if len(words) == 0 {
		return ""
	}
	if len(words) > stockQueryTerms {
		words = words[:stockQueryTerms]
	}
	query := strings.Join(words, " ")
	if host := sourceHostname(item); host != "" {
		query += " " + host
	}
	return query
}

// sourceHostname extracts the publisher hostname, preferring the article
// URL recovered from the description over the aggregator redirect link.
func sourceHostname(item feedparse.RawItem) string {
	parsed, err := url.Parse(scrapeTarget(item))
	if err != nil || parsed.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}
