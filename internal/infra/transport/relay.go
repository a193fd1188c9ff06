package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"cardfeed/internal/observability/metrics"
)

// Relay describes one relay service: how to wrap a target URL into a relayed
// request and how to decode the relay's response back into the original body.
type Relay struct {
	// Name identifies the relay in logs and metrics.
	Name string

	// Wrap converts the target URL into the relayed request URL.
	Wrap func(target string) string

	// Decode extracts the original document body from the relay response.
	// A nil Decode means the relay returns the body verbatim.
	Decode func(body []byte) (string, error)
}

// allOriginsEnvelope is the JSON wrapper the allorigins relay returns.
type allOriginsEnvelope struct {
	Contents string `json:"contents"`
}

// DecodeJSONContents unwraps an allorigins-style JSON envelope, returning
// its "contents" field.
func DecodeJSONContents(body []byte) (string, error) {
	var envelope allOriginsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("decode relay envelope: %w", err)
	}
	return envelope.Contents, nil
}

// DefaultRelays returns the built-in relay chain, in priority order. The
// order matters: earlier relays have proven more reliable, and attempts are
// strictly sequential to avoid burning the shared quota of several
// unauthenticated services at once.
func DefaultRelays() []Relay {
	return []Relay{
		{
			Name: "allorigins",
			Wrap: func(target string) string {
				return "https://api.allorigins.win/get?url=" + url.QueryEscape(target)
			},
			Decode: DecodeJSONContents,
		},
		{
			Name: "corsproxy",
			Wrap: func(target string) string {
				return "https://corsproxy.io/?url=" + url.QueryEscape(target)
			},
		},
		{
			Name: "codetabs",
			Wrap: func(target string) string {
				return "https://api.codetabs.com/v1/proxy?quest=" + url.QueryEscape(target)
			},
		},
	}
}

// RelayChainTransport retrieves documents through third-party relays,
// working around cross-origin restrictions on platforms without direct
// network access. Relays are tried strictly in order; the first one yielding
// a non-empty body wins. Each attempt is bounded by AttemptTimeout so a
// hanging relay cannot block the rest of the chain.
type RelayChainTransport struct {
	relays         []Relay
	client         *http.Client
	attemptTimeout time.Duration
}

// NewRelayChainTransport creates a RelayChainTransport. Empty relays fall
// back to DefaultRelays; a nil client gets a pooled default. attemptTimeout
// bounds each individual relay attempt (default 10s).
func NewRelayChainTransport(relays []Relay, client *http.Client, attemptTimeout time.Duration) *RelayChainTransport {
	if len(relays) == 0 {
		relays = DefaultRelays()
	}
	if client == nil {
		client = NewHTTPClient(30 * time.Second)
	}
	if attemptTimeout <= 0 {
		attemptTimeout = 10 * time.Second
	}
	return &RelayChainTransport{
		relays:         relays,
		client:         client,
		attemptTimeout: attemptTimeout,
	}
}

// Get tries each relay in order until one returns a usable body. When every
// relay fails the call fails with an aggregate error wrapping the last
// underlying cause; an empty body is never disguised as success.
func (t *RelayChainTransport) Get(ctx context.Context, target string) (string, error) {
	logger := slog.Default()
	var lastErr error

	for _, relay := range t.relays {
		body, err := t.attempt(ctx, relay, target)
		if err != nil {
			metrics.RecordRelayAttempt(relay.Name, false)
			logger.Warn("relay attempt failed",
				slog.String("relay", relay.Name),
				slog.String("target", target),
				slog.Any("error", err))
			lastErr = fmt.Errorf("relay %s: %w", relay.Name, err)

			// Caller cancellation ends the chain, relay failure does not.
			if ctx.Err() != nil {
				return "", fmt.Errorf("relay chain aborted: %w", ctx.Err())
			}
			continue
		}

		metrics.RecordRelayAttempt(relay.Name, true)
		return body, nil
	}

	return "", fmt.Errorf("%w for %s: %w", ErrAllRelaysFailed, target, lastErr)
}

// attempt performs one bounded relay request.
func (t *RelayChainTransport) attempt(ctx context.Context, relay Relay, target string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, t.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, relay.Wrap(target), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	body := string(raw)
	if relay.Decode != nil {
		body, err = relay.Decode(raw)
		if err != nil {
			return "", err
		}
	}

	if body == "" {
		return "", ErrEmptyBody
	}
	return body, nil
}
