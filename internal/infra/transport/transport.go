// Package transport provides document retrieval for the aggregation pipeline.
// Two implementations exist: DirectTransport issues requests straight to the
// target host, and RelayChainTransport routes them through an ordered list of
// third-party relay services for environments without direct cross-origin
// access. Callers depend only on the Transport interface.
package transport

import (
	"context"
	"errors"
)

// Transport retrieves the raw text body of a document. It performs no
// parsing; an error is returned whenever no usable body could be obtained.
// Implementations never return an empty body with a nil error.
type Transport interface {
	Get(ctx context.Context, url string) (string, error)
}

// Sentinel errors for retrieval operations.
var (
	// ErrEmptyBody indicates the upstream answered but the body was empty.
	ErrEmptyBody = errors.New("empty response body")

	// ErrAllRelaysFailed indicates every relay in the chain was exhausted.
	ErrAllRelaysFailed = errors.New("all relays failed")
)

// UserAgent identifies this client on direct requests. Feed hosts reject
// requests without a descriptive agent string.
const UserAgent = "Mozilla/5.0 (compatible; CardfeedBot/1.0)"
