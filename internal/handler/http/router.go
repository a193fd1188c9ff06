package http

import (
	"log/slog"
	"net/http"
	"time"

	"cardfeed/internal/handler/http/requestid"
	"cardfeed/internal/observability/tracing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the API routes with the full middleware stack.
func NewRouter(news *NewsHandler, health *HealthHandler, logger *slog.Logger, requestTimeout time.Duration) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/news", Chain(news, Timeout(requestTimeout)))
	mux.HandleFunc("/healthz", health.Healthz)
	mux.HandleFunc("/readyz", health.Readyz)
	mux.Handle("/metrics", promhttp.Handler())

	return Chain(mux,
		requestid.Middleware,
		tracing.Middleware,
		Logging(logger),
		Metrics(),
		Recover(logger),
		CORS(),
	)
}
