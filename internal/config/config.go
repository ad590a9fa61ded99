// Package config provides application configuration loaded from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Supported embedding providers.
const (
	EmbeddingProviderOpenAI = "openai"
	EmbeddingProviderGoogle = "google"
	EmbeddingProviderLocal  = "local"
)

// Config holds all application configuration.
type Config struct {
	CatalogPath string
	Port        string
	APIKey      string
	LogLevel    string

	// EmbeddingProvider selects the embedding backend: "openai" (default),
	// "google", or "local". The remote providers fall back to the local
	// hashing embedder when their API key is missing.
	EmbeddingProvider   string
	OpenAIAPIKey        string
	GoogleAPIKey        string
	EmbeddingModel      string
	EmbeddingDimensions int

	// Max embedding provider requests per second during catalog builds
	EmbeddingRateLimit int

	// Concurrent thesis embeddings during a catalog build
	EmbeddingWorkers int

	// On-disk embedding cache directory; empty disables the cache
	EmbeddingCachePath string

	// Max entries in the in-memory query embedding cache
	QueryCacheSize int

	// How often to poll the catalog file for changes; 0 disables reloads
	CatalogReloadInterval time.Duration

	MaxRequestBodyBytes int64
	CORSAllowedOrigins  string

	// OtelMetricsExporter selects the metrics exporter: "prometheus", "otlp", or empty (disabled).
	OtelMetricsExporter string

	// OtelTracesExporter selects the trace exporter: "otlp", "stdout", or empty (disabled).
	OtelTracesExporter string
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsInt64 retrieves an environment variable as an int64 or returns a default value.
func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration retrieves an environment variable as a duration (e.g. "30s",
// "5m") or returns a default value.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// Load reads configuration from environment variables and returns a Config struct.
// It automatically loads .env file if it exists.
// Returns default values for any missing environment variables.
// API_KEY is required and the function will return an error if it's not set.
func Load() (*Config, error) {
	// Load .env file if it exists. Skip logging when absent (e.g. env from secrets/parameter store).
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		return nil, errors.New("API_KEY environment variable is required but not set")
	}

	embeddingProvider := getEnv("EMBEDDING_PROVIDER", EmbeddingProviderOpenAI)
	switch embeddingProvider {
	case EmbeddingProviderOpenAI, EmbeddingProviderGoogle, EmbeddingProviderLocal:
	default:
		return nil, fmt.Errorf("EMBEDDING_PROVIDER must be one of openai, google, local (got %q)", embeddingProvider)
	}

	// The model default follows the provider so a bare EMBEDDING_PROVIDER
	// switch never sends one provider's model name to the other.
	defaultEmbeddingModel := "text-embedding-3-small"
	if embeddingProvider == EmbeddingProviderGoogle {
		defaultEmbeddingModel = "gemini-embedding-001"
	}

	embeddingDimensions := getEnvAsInt("EMBEDDING_DIMENSIONS", 1536)
	if embeddingDimensions <= 0 {
		return nil, errors.New("EMBEDDING_DIMENSIONS must be a positive integer")
	}

	embeddingRateLimit := getEnvAsInt("EMBEDDING_RATE_LIMIT", 10)
	if embeddingRateLimit <= 0 {
		return nil, errors.New("EMBEDDING_RATE_LIMIT must be a positive integer")
	}

	embeddingWorkers := getEnvAsInt("EMBEDDING_WORKERS", 8)
	if embeddingWorkers <= 0 {
		return nil, errors.New("EMBEDDING_WORKERS must be a positive integer")
	}

	queryCacheSize := getEnvAsInt("QUERY_CACHE_SIZE", 512)
	if queryCacheSize <= 0 {
		return nil, errors.New("QUERY_CACHE_SIZE must be a positive integer")
	}

	catalogReloadInterval := getEnvAsDuration("CATALOG_RELOAD_INTERVAL", 0)
	if catalogReloadInterval < 0 {
		return nil, errors.New("CATALOG_RELOAD_INTERVAL must not be negative")
	}

	maxRequestBodyBytes := getEnvAsInt64("MAX_REQUEST_BODY_BYTES", 1<<20)
	if maxRequestBodyBytes <= 0 {
		return nil, errors.New("MAX_REQUEST_BODY_BYTES must be a positive integer")
	}

	cfg := &Config{
		CatalogPath: getEnv("CATALOG_PATH", "cleaned_investors.csv"),
		Port:        getEnv("PORT", "8080"),
		APIKey:      apiKey,
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		EmbeddingProvider:   embeddingProvider,
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		GoogleAPIKey:        os.Getenv("GOOGLE_API_KEY"),
		EmbeddingModel:      getEnv("EMBEDDING_MODEL", defaultEmbeddingModel),
		EmbeddingDimensions: embeddingDimensions,
		EmbeddingRateLimit:  embeddingRateLimit,
		EmbeddingWorkers:    embeddingWorkers,
		EmbeddingCachePath:  os.Getenv("EMBEDDING_CACHE_PATH"),

		QueryCacheSize:        queryCacheSize,
		CatalogReloadInterval: catalogReloadInterval,

		MaxRequestBodyBytes: maxRequestBodyBytes,
		CORSAllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "*"),

		OtelMetricsExporter: os.Getenv("OTEL_METRICS_EXPORTER"),
		OtelTracesExporter:  os.Getenv("OTEL_TRACES_EXPORTER"),
	}

	return cfg, nil
}
