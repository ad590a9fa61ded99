package observability

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MatchMetrics records matching pipeline metrics (match requests, catalog reloads,
// catalog size). Methods accept ctx for future exemplar support.
type MatchMetrics interface {
	RecordMatch(ctx context.Context, outcome string, duration time.Duration, results int)
	RecordCatalogReload(ctx context.Context, status string)
	SetCatalogSize(size int)
}

// matchMetrics implements MatchMetrics.
type matchMetrics struct {
	matchRequests    metric.Int64Counter
	matchDuration    metric.Float64Histogram
	matchResults     metric.Int64Histogram
	catalogReloads   metric.Int64Counter
	catalogSize      atomic.Int64
	catalogSizeGauge metric.Float64ObservableGauge
}

// NewMatchMetrics creates MatchMetrics and registers the catalog size gauge.
// Returns (nil, nil) when meter is nil (metrics disabled).
func NewMatchMetrics(meter metric.Meter) (MatchMetrics, error) {
	if meter == nil {
		//nolint:nilnil // intentional: callers use "if metrics != nil" when metrics disabled
		return nil, nil
	}

	matchRequests, err := meter.Int64Counter(
		MetricNameMatchRequests,
		metric.WithDescription("Total match requests by outcome (banded, stage_fallback, empty, error)"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create match requests counter: %w", err)
	}

	matchDuration, err := meter.Float64Histogram(
		MetricNameMatchDuration,
		metric.WithDescription("End-to-end match duration in seconds (embedding lookup plus scoring)"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create match duration histogram: %w", err)
	}

	matchResults, err := meter.Int64Histogram(
		MetricNameMatchResults,
		metric.WithDescription("Number of investors returned per match request"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create match results histogram: %w", err)
	}

	catalogReloads, err := meter.Int64Counter(
		MetricNameCatalogReloads,
		metric.WithDescription("Catalog reload attempts by status (success, error)"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create catalog reloads counter: %w", err)
	}

	mMetrics := &matchMetrics{
		matchRequests:  matchRequests,
		matchDuration:  matchDuration,
		matchResults:   matchResults,
		catalogReloads: catalogReloads,
	}

	catalogSizeGauge, err := meter.Float64ObservableGauge(
		MetricNameCatalogSize,
		metric.WithDescription("Number of investors in the active catalog snapshot"),
		metric.WithFloat64Callback(func(_ context.Context, o metric.Float64Observer) error {
			o.Observe(float64(mMetrics.catalogSize.Load()))

			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create catalog size gauge: %w", err)
	}

	mMetrics.catalogSizeGauge = catalogSizeGauge

	return mMetrics, nil
}

func (m *matchMetrics) RecordMatch(ctx context.Context, outcome string, duration time.Duration, results int) {
	outcome = NormalizeMatchOutcome(outcome)
	attrs := metric.WithAttributes(attribute.String(AttrOutcome, outcome))
	m.matchRequests.Add(ctx, 1, attrs)
	m.matchDuration.Record(ctx, duration.Seconds(), attrs)
	m.matchResults.Record(ctx, int64(results), attrs)
}

func (m *matchMetrics) RecordCatalogReload(ctx context.Context, status string) {
	status = NormalizeStatus(status)
	m.catalogReloads.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrStatus, status)))
}

func (m *matchMetrics) SetCatalogSize(size int) {
	m.catalogSize.Store(int64(size))
}
