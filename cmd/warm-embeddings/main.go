// warm-embeddings loads the investor catalog CSV and embeds every thesis
// through the on-disk embedding cache, so the next API start serves from
// cache instead of calling the provider for each row. Run it after
// refreshing the CSV.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/sahildhillon803/STRATIFY/internal/catalog"
	"github.com/sahildhillon803/STRATIFY/internal/embcache"
	"github.com/sahildhillon803/STRATIFY/internal/embeddings"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

func main() {
	os.Exit(run())
}

func run() int {
	catalogPath := flag.String("catalog", "", "path to the investor CSV (defaults to CATALOG_PATH)")
	flag.Parse()

	// Load .env for consistency with the main API server (godotenv.Load() there).
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	path := *catalogPath
	if path == "" {
		path = os.Getenv("CATALOG_PATH")
	}

	if path == "" {
		slog.Error("catalog path is required (-catalog flag or CATALOG_PATH)")

		return exitFailure
	}

	cachePath := os.Getenv("EMBEDDING_CACHE_PATH")
	if cachePath == "" {
		slog.Error("EMBEDDING_CACHE_PATH is required, warming writes into the on-disk cache")

		return exitFailure
	}

	provider := getEnv("EMBEDDING_PROVIDER", "openai")
	dimensions := getEnvAsInt("EMBEDDING_DIMENSIONS", 1536)
	rateLimit := getEnvAsInt("EMBEDDING_RATE_LIMIT", 10)
	workers := getEnvAsInt("EMBEDDING_WORKERS", 8)

	// Warming only makes sense against a real provider; the local hashing
	// embedder never goes through the cache path the API reads on startup.
	var (
		embedder embeddings.Client
		model    string
	)

	switch provider {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			slog.Error("OPENAI_API_KEY is required")

			return exitFailure
		}

		model = getEnv("EMBEDDING_MODEL", "text-embedding-3-small")
		embedder = embeddings.NewOpenAIClient(apiKey,
			embeddings.WithModel(model),
			embeddings.WithDimensions(dimensions),
		)
	case "google":
		apiKey := os.Getenv("GOOGLE_API_KEY")
		if apiKey == "" {
			slog.Error("GOOGLE_API_KEY is required")

			return exitFailure
		}

		model = getEnv("EMBEDDING_MODEL", "gemini-embedding-001")

		var err error
		embedder, err = embeddings.NewGoogleClient(context.Background(), apiKey, model, dimensions)
		if err != nil {
			slog.Error("Failed to create Gemini embeddings client", "error", err)

			return exitFailure
		}
	default:
		slog.Error("EMBEDDING_PROVIDER must be openai or google", "provider", provider)

		return exitFailure
	}

	embeddingCache, err := embcache.Open(cachePath)
	if err != nil {
		slog.Error("Failed to open embedding cache", "path", cachePath, "error", err)

		return exitFailure
	}
	defer func() {
		if err := embeddingCache.Close(); err != nil {
			slog.Error("Failed to close embedding cache", "error", err)
		}
	}()

	builder, err := catalog.NewBuilder(catalog.BuilderDeps{
		Embedder: embedder,
		Cache:    embeddingCache,
		Limiter:  rate.NewLimiter(rate.Limit(rateLimit), 1),
		Workers:  workers,
		Model:    model,
	})
	if err != nil {
		slog.Error("Failed to create catalog builder", "error", err)

		return exitFailure
	}

	start := time.Now()

	cat, err := catalog.Load(context.Background(), path, builder)
	if err != nil {
		slog.Error("Warm failed", "error", err)

		return exitFailure
	}

	slog.Info("Warm complete",
		"investors", cat.Size(),
		"duration", time.Since(start).Round(time.Millisecond),
	)

	fmt.Printf("Embedded %d investor thesis vector(s) into %s.\n", cat.Size(), cachePath)

	return exitSuccess
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}

	return n
}
