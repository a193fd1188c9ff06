package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"cardfeed/internal/resilience/circuitbreaker"
	"cardfeed/internal/resilience/retry"
)

// maxBodySize bounds response bodies to prevent memory exhaustion from
// oversized or malicious documents.
const maxBodySize = 10 * 1024 * 1024 // 10MB

// DirectTransport issues requests straight to the target host. It is used on
// platforms with unrestricted network access, where direct retrieval is
// assumed reliable; failures are retried for transient causes only and then
// surfaced without further fallback.
//
// Thread safety: DirectTransport is safe for concurrent use.
type DirectTransport struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewDirectTransport creates a DirectTransport with the given HTTP client.
// A nil client gets a pooled default with a 30s timeout and TLS 1.2+.
func NewDirectTransport(client *http.Client) *DirectTransport {
	if client == nil {
		client = NewHTTPClient(30 * time.Second)
	}
	return &DirectTransport{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryConfig:    retry.FeedFetchConfig(),
	}
}

// NewPageTransport creates a DirectTransport tuned for publisher-page
// fetches: a short retry budget and a breaker of its own, so a run of bad
// scrape targets cannot open the breaker guarding feed retrieval.
func NewPageTransport(client *http.Client) *DirectTransport {
	if client == nil {
		client = NewHTTPClient(30 * time.Second)
	}
	return &DirectTransport{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.PageScrapeConfig()),
		retryConfig:    retry.PageScrapeConfig(),
	}
}

// NewHTTPClient creates an HTTP client with connection pooling and enforced
// TLS 1.2+, shared by both transports and the image-resolution fetchers.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// Get retrieves the document at url, retrying transient failures through the
// circuit breaker. The returned body is never empty on success.
func (t *DirectTransport) Get(ctx context.Context, url string) (string, error) {
	var body string

	retryErr := retry.WithBackoff(ctx, t.retryConfig, func() error {
		result, err := t.circuitBreaker.Execute(func() (interface{}, error) {
			return t.doGet(ctx, url)
		})
		if err != nil {
			return err
		}
		body = result.(string)
		return nil
	})
	if retryErr != nil {
		return "", retryErr
	}

	return body, nil
}

// doGet performs a single request without retry or circuit breaker.
func (t *DirectTransport) doGet(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("direct fetch %s: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if len(raw) == 0 {
		return "", ErrEmptyBody
	}

	return string(raw), nil
}
