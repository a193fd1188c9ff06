package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectTransport_Get_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("<rss>hello</rss>"))
	}))
	defer server.Close()

	transport := NewDirectTransport(server.Client())

	body, err := transport.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "<rss>hello</rss>", body)
}

func TestDirectTransport_Get_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("recovered"))
	}))
	defer server.Close()

	transport := NewDirectTransport(server.Client())

	body, err := transport.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "recovered", body)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDirectTransport_Get_NonRetryableStatusFailsFast(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	transport := NewDirectTransport(server.Client())

	_, err := transport.Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDirectTransport_Get_EmptyBodyIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	transport := NewDirectTransport(server.Client())

	_, err := transport.Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyBody)
}

func TestPageTransport_BreakerIsolatedFromFeedFetch(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer failing.Close()

	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<rss>ok</rss>"))
	}))
	defer healthy.Close()

	pages := NewPageTransport(failing.Client())
	feeds := NewDirectTransport(healthy.Client())

	var lastErr error
	for i := 0; i < 12; i++ {
		_, lastErr = pages.Get(context.Background(), failing.URL)
		require.Error(t, lastErr)
	}
	assert.ErrorIs(t, lastErr, gobreaker.ErrOpenState, "page breaker opens on its own failures")

	body, err := feeds.Get(context.Background(), healthy.URL)
	require.NoError(t, err, "feed breaker is unaffected by page fetch failures")
	assert.Equal(t, "<rss>ok</rss>", body)
}

func TestDirectTransport_Get_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	transport := NewDirectTransport(server.Client())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := transport.Get(ctx, server.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled))
}
