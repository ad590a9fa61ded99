package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// EmbeddingMetrics records embedding provider calls (catalog builds and query
// embeddings). Methods accept ctx for future exemplar support.
type EmbeddingMetrics interface {
	RecordRequest(ctx context.Context, status string, duration time.Duration)
}

// embeddingMetrics implements EmbeddingMetrics.
type embeddingMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

// NewEmbeddingMetrics creates EmbeddingMetrics. Returns (nil, nil) when meter is nil (metrics disabled).
func NewEmbeddingMetrics(meter metric.Meter) (EmbeddingMetrics, error) {
	if meter == nil {
		//nolint:nilnil // intentional: callers use "if metrics != nil" when metrics disabled
		return nil, nil
	}

	requests, err := meter.Int64Counter(
		MetricNameEmbeddingRequests,
		metric.WithDescription("Total embedding provider requests by status (success, error)"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create embedding requests counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		MetricNameEmbeddingDuration,
		metric.WithDescription("Embedding provider request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create embedding duration histogram: %w", err)
	}

	return &embeddingMetrics{requests: requests, duration: duration}, nil
}

func (e *embeddingMetrics) RecordRequest(ctx context.Context, status string, duration time.Duration) {
	status = NormalizeStatus(status)
	attrs := metric.WithAttributes(attribute.String(AttrStatus, status))
	e.requests.Add(ctx, 1, attrs)
	e.duration.Record(ctx, duration.Seconds(), attrs)
}
