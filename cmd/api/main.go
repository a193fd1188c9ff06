// Command api runs the cardfeed HTTP API: a news aggregation service that
// retrieves Google News RSS feeds per category and country, normalizes them
// into swipeable article cards, and serves them as JSON.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"cardfeed/internal/config"
	hhttp "cardfeed/internal/handler/http"
	"cardfeed/internal/infra/cache"
	"cardfeed/internal/infra/feedparse"
	"cardfeed/internal/infra/imageresolver"
	"cardfeed/internal/infra/transport"
	"cardfeed/internal/infra/worker"
	"cardfeed/internal/observability/logging"
	"cardfeed/internal/usecase/aggregate"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	shutdownTracing := initTracing(logger)
	defer shutdownTracing()

	service, err := buildService(cfg, logger)
	if err != nil {
		logger.Error("failed to build service", slog.Any("error", err))
		os.Exit(1)
	}

	var prefetcher *worker.Prefetcher
	if cfg.Prefetch.Enabled {
		prefetcher = worker.NewPrefetcher(service, cfg.Prefetch, logger)
		if err := prefetcher.Start(); err != nil {
			logger.Error("failed to start prefetcher", slog.Any("error", err))
			os.Exit(1)
		}
	}

	router := hhttp.NewRouter(
		hhttp.NewNewsHandler(service, logger),
		&hhttp.HealthHandler{Version: version},
		logger,
		cfg.Server.RequestTimeout,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server started",
			slog.Int("port", cfg.Server.Port),
			slog.String("fetch_mode", cfg.Fetch.Mode),
			slog.String("version", version))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if prefetcher != nil {
		prefetcher.Stop(ctx)
	}
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// buildService wires the aggregation pipeline from configuration.
func buildService(cfg *config.Config, logger *slog.Logger) (*aggregate.CachedService, error) {
	client := transport.NewHTTPClient(cfg.Fetch.HTTPTimeout)

	var retriever aggregate.Retriever
	switch cfg.Fetch.Mode {
	case config.FetchModeRelay:
		relays, err := loadRelays(cfg, logger)
		if err != nil {
			return nil, err
		}
		retriever = transport.NewRelayChainTransport(relays, client, cfg.Fetch.RelayAttemptTimeout)
	default:
		retriever = transport.NewDirectTransport(client)
	}

	resolver := imageresolver.DefaultCascade(client, logger)
	service := aggregate.NewService(retriever, feedparse.NewParser(logger), resolver, logger)
	return aggregate.NewCachedService(service, cache.New(cfg.Cache.TTL)), nil
}

// loadRelays returns the configured relay chain, or the built-in default
// when no config file is set.
func loadRelays(cfg *config.Config, logger *slog.Logger) ([]transport.Relay, error) {
	if cfg.Fetch.RelayConfigFile == "" {
		return transport.DefaultRelays(), nil
	}
	relays, err := transport.LoadRelaysFromYAML(cfg.Fetch.RelayConfigFile)
	if err != nil {
		return nil, fmt.Errorf("load relay config: %w", err)
	}
	logger.Info("relay chain loaded from file",
		slog.String("path", cfg.Fetch.RelayConfigFile),
		slog.Int("relays", len(relays)))
	return relays, nil
}

// initTracing installs a basic tracer provider so spans and trace IDs are
// generated. Exporter wiring is a deployment concern; without one the spans
// only feed log correlation.
func initTracing(logger *slog.Logger) func() {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error("tracer shutdown failed", slog.Any("error", err))
		}
	}
}
