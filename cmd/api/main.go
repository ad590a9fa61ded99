package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/time/rate"

	"github.com/sahildhillon803/STRATIFY/internal/api/handlers"
	"github.com/sahildhillon803/STRATIFY/internal/api/middleware"
	"github.com/sahildhillon803/STRATIFY/internal/catalog"
	"github.com/sahildhillon803/STRATIFY/internal/config"
	"github.com/sahildhillon803/STRATIFY/internal/embcache"
	"github.com/sahildhillon803/STRATIFY/internal/embeddings"
	"github.com/sahildhillon803/STRATIFY/internal/observability"
	"github.com/sahildhillon803/STRATIFY/internal/service"
	"github.com/sahildhillon803/STRATIFY/internal/worker"
	"github.com/sahildhillon803/STRATIFY/pkg/cache"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Configure slog with the log level from config
	setupLogging(cfg.LogLevel)

	// Metrics and tracing providers. Both are optional; nil providers leave
	// the instruments and spans as no-ops.
	meterProvider, metricsHandler, err := observability.NewMeterProvider(cfg)
	if err != nil {
		slog.Error("Failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	if meterProvider != nil {
		otel.SetMeterProvider(meterProvider)
		slog.Info("Metrics enabled", "exporter", cfg.OtelMetricsExporter)
	}

	tracerProvider, err := observability.NewTracerProvider(cfg)
	if err != nil {
		slog.Error("Failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	if tracerProvider != nil {
		otel.SetTracerProvider(tracerProvider)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, propagation.Baggage{}))
		slog.Info("Tracing enabled", "exporter", cfg.OtelTracesExporter)
	}

	metrics, err := observability.NewMetrics(observability.Meter(meterProvider))
	if err != nil {
		slog.Error("Failed to initialize metric instruments", "error", err)
		os.Exit(1)
	}

	var (
		requestMetrics   observability.RequestMetrics
		cacheMetrics     observability.CacheMetrics
		matchMetrics     observability.MatchMetrics
		embeddingMetrics observability.EmbeddingMetrics
	)
	if metrics != nil {
		requestMetrics = metrics.Requests
		cacheMetrics = metrics.Cache
		matchMetrics = metrics.Match
		embeddingMetrics = metrics.Embeddings
	}

	// On-disk embedding cache so catalog rebuilds only embed changed theses
	var embeddingCache *embcache.Cache
	if cfg.EmbeddingCachePath != "" {
		embeddingCache, err = embcache.Open(cfg.EmbeddingCachePath)
		if err != nil {
			slog.Error("Failed to open embedding cache", "path", cfg.EmbeddingCachePath, "error", err)
			os.Exit(1)
		}
		slog.Info("Embedding cache enabled", "path", cfg.EmbeddingCachePath)
	}

	embedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		slog.Error("Failed to create embedding client", "error", err)
		os.Exit(1)
	}

	builder, err := catalog.NewBuilder(catalog.BuilderDeps{
		Embedder: embedder,
		Cache:    embeddingCache,
		Limiter:  rate.NewLimiter(rate.Limit(cfg.EmbeddingRateLimit), 1),
		Workers:  cfg.EmbeddingWorkers,
		Model:    cfg.EmbeddingModel,
	})
	if err != nil {
		slog.Error("Failed to create catalog builder", "error", err)
		os.Exit(1)
	}

	// Load the catalog before serving. Startup blocks until every thesis is
	// embedded; a failure here is fatal rather than serving an empty catalog.
	slog.Info("Loading investor catalog", "path", cfg.CatalogPath)
	loadStart := time.Now()

	initial, err := catalog.Load(ctx, cfg.CatalogPath, builder)
	if err != nil {
		slog.Error("Failed to load investor catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}

	slog.Info("Investor catalog loaded",
		"investors", initial.Size(),
		"duration", time.Since(loadStart).Round(time.Millisecond),
	)

	store := catalog.NewStore(initial)
	if matchMetrics != nil {
		matchMetrics.SetCatalogSize(initial.Size())
	}

	queryCache, err := cache.New[[]float32](cfg.QueryCacheSize)
	if err != nil {
		slog.Error("Failed to create query cache", "error", err)
		os.Exit(1)
	}

	matchService := service.NewMatchService(service.MatchServiceParams{
		Store:            store,
		Embedder:         embedder,
		Builder:          builder,
		CatalogPath:      cfg.CatalogPath,
		QueryCache:       queryCache,
		CacheMetrics:     cacheMetrics,
		MatchMetrics:     matchMetrics,
		EmbeddingMetrics: embeddingMetrics,
	})

	matchingHandler := handlers.NewMatchingHandler(matchService)
	catalogHandler := handlers.NewCatalogHandler(matchService)
	healthHandler := handlers.NewHealthHandler(store)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Tracing)
	r.Use(middleware.Metrics(requestMetrics))
	r.Use(middleware.MaxBody(cfg.MaxRequestBodyBytes, requestMetrics))

	// Public endpoints (no authentication required)
	r.Get("/health", healthHandler.Check)
	r.Get("/ready", healthHandler.Ready)
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	// Protected endpoints. Order matters: CORS must wrap Auth so OPTIONS
	// preflight requests bypass authentication.
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.CORS(cfg.CORSAllowedOrigins))
		api.Use(middleware.Auth(cfg.APIKey))

		api.Post("/matching/investors", matchingHandler.Match)
		api.Get("/matching/filter-options", matchingHandler.FilterOptions)
		api.Get("/matching/all", matchingHandler.List)

		api.Post("/catalog/reload", catalogHandler.Reload)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Start the catalog reload watcher if enabled
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	if cfg.CatalogReloadInterval > 0 {
		watcher := worker.NewReloadWatcher(matchService, cfg.CatalogPath, cfg.CatalogReloadInterval)
		go watcher.Start(workerCtx)
	}

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 1. Stop accepting new HTTP requests
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	// 2. Stop the reload watcher
	workerCancel()

	// 3. Flush telemetry
	if err := observability.ShutdownMeterProvider(shutdownCtx, meterProvider); err != nil {
		slog.Error("Failed to shut down meter provider", "error", err)
	}

	if err := observability.ShutdownTracerProvider(shutdownCtx, tracerProvider); err != nil {
		slog.Error("Failed to shut down tracer provider", "error", err)
	}

	// 4. Close the embedding cache
	if embeddingCache != nil {
		if err := embeddingCache.Close(); err != nil {
			slog.Error("Failed to close embedding cache", "error", err)
		}
	}

	slog.Info("Server exited")
}

// newEmbedder selects the embedding provider from config. The remote
// providers fall back to the local hashing embedder when their API key is
// missing, so the service still starts in development environments.
func newEmbedder(ctx context.Context, cfg *config.Config) (embeddings.Client, error) {
	switch cfg.EmbeddingProvider {
	case config.EmbeddingProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			slog.Warn("OPENAI_API_KEY not set, using local hashing embedder")
			return embeddings.NewLocalClient(cfg.EmbeddingDimensions), nil
		}

		slog.Info("OpenAI embeddings enabled",
			"model", cfg.EmbeddingModel, "dimensions", cfg.EmbeddingDimensions)

		return embeddings.NewOpenAIClient(cfg.OpenAIAPIKey,
			embeddings.WithModel(cfg.EmbeddingModel),
			embeddings.WithDimensions(cfg.EmbeddingDimensions),
		), nil
	case config.EmbeddingProviderGoogle:
		if cfg.GoogleAPIKey == "" {
			slog.Warn("GOOGLE_API_KEY not set, using local hashing embedder")
			return embeddings.NewLocalClient(cfg.EmbeddingDimensions), nil
		}

		slog.Info("Gemini embeddings enabled",
			"model", cfg.EmbeddingModel, "dimensions", cfg.EmbeddingDimensions)

		return embeddings.NewGoogleClient(ctx, cfg.GoogleAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimensions)
	default:
		slog.Info("Using local hashing embedder", "dimensions", cfg.EmbeddingDimensions)

		return embeddings.NewLocalClient(cfg.EmbeddingDimensions), nil
	}
}

// setupLogging configures slog with the specified log level. Log records
// written inside a request carry the request id and, when tracing is
// enabled, the trace and span ids.
func setupLogging(level string) {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	handler := slog.NewTextHandler(os.Stdout, opts)
	slog.SetDefault(slog.New(observability.NewTraceContextHandler(handler)))
}
