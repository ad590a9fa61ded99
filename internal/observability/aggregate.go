package observability

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all metric collectors for the matching API. When metrics are
// disabled, all fields are nil. Components that accept an interface
// (RequestMetrics, CacheMetrics, MatchMetrics, EmbeddingMetrics) already
// handle the nil case.
type Metrics struct {
	Requests   RequestMetrics
	Cache      CacheMetrics
	Match      MatchMetrics
	Embeddings EmbeddingMetrics
}

// NewMetrics creates all metric collectors from the given meter.
// Returns (nil, nil) when meter is nil (metrics disabled).
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		//nolint:nilnil // intentional: callers use "if metrics != nil" when metrics disabled
		return nil, nil
	}

	requests, err := NewRequestMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("request metrics: %w", err)
	}

	cache, err := NewCacheMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("cache metrics: %w", err)
	}

	match, err := NewMatchMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("match metrics: %w", err)
	}

	embeddings, err := NewEmbeddingMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("embedding metrics: %w", err)
	}

	return &Metrics{
		Requests:   requests,
		Cache:      cache,
		Match:      match,
		Embeddings: embeddings,
	}, nil
}
