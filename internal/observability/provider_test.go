package observability

import (
	"context"
	"testing"

	"github.com/sahildhillon803/STRATIFY/internal/config"
)

func TestNewMeterProvider_Disabled(t *testing.T) {
	provider, handler, err := NewMeterProvider(&config.Config{OtelMetricsExporter: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider != nil || handler != nil {
		t.Error("expected nil provider and handler when metrics are disabled")
	}

	if meter := Meter(provider); meter != nil {
		t.Error("Meter(nil) should return nil")
	}
}

func TestNewMeterProvider_Prometheus(t *testing.T) {
	provider, handler, err := NewMeterProvider(&config.Config{OtelMetricsExporter: "prometheus"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider == nil {
		t.Fatal("expected a provider for the prometheus exporter")
	}

	t.Cleanup(func() {
		if err := ShutdownMeterProvider(context.Background(), provider); err != nil {
			t.Errorf("shutdown: %v", err)
		}
	})

	if handler == nil {
		t.Error("expected a scrape handler for the prometheus exporter")
	}

	metrics, err := NewMetrics(Meter(provider))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	if metrics == nil || metrics.Requests == nil || metrics.Cache == nil || metrics.Match == nil || metrics.Embeddings == nil {
		t.Fatal("expected all collectors to be created")
	}
}

func TestNewMetrics_NilMeter(t *testing.T) {
	metrics, err := NewMetrics(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if metrics != nil {
		t.Error("expected nil Metrics when meter is nil")
	}
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	for _, exporter := range []string{"", "jaeger"} {
		provider, err := NewTracerProvider(&config.Config{OtelTracesExporter: exporter})
		if err != nil {
			t.Fatalf("exporter %q: unexpected error: %v", exporter, err)
		}

		if provider != nil {
			t.Errorf("exporter %q: expected nil provider", exporter)
		}
	}
}

func TestNewTracerProvider_Stdout(t *testing.T) {
	provider, err := NewTracerProvider(&config.Config{OtelTracesExporter: "stdout"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider == nil {
		t.Fatal("expected a provider for the stdout exporter")
	}

	if err := ShutdownTracerProvider(context.Background(), provider); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestShutdownHelpers_Nil(t *testing.T) {
	if err := ShutdownMeterProvider(context.Background(), nil); err != nil {
		t.Errorf("ShutdownMeterProvider(nil) = %v, want nil", err)
	}

	if err := ShutdownTracerProvider(context.Background(), nil); err != nil {
		t.Errorf("ShutdownTracerProvider(nil) = %v, want nil", err)
	}
}
