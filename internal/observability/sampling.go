package observability

import (
	"os"
	"strconv"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Sampling follows the standard OTel env vars rather than config keys, so
// deployments can tune it without touching the service configuration.
const (
	envTracesSampler    = "OTEL_TRACES_SAMPLER"
	envTracesSamplerArg = "OTEL_TRACES_SAMPLER_ARG"
)

// defaultTraceIDRatio applies when a ratio sampler is selected but
// OTEL_TRACES_SAMPLER_ARG is missing or out of range.
const defaultTraceIDRatio = 1.0

// newSampler builds the trace sampler from OTEL_TRACES_SAMPLER and
// OTEL_TRACES_SAMPLER_ARG. Recognized samplers: always_on, always_off,
// traceidratio, and their parentbased_ variants. Anything else falls back to
// parentbased_always_on, matching the SDK default.
func newSampler() sdktrace.Sampler {
	arg := os.Getenv(envTracesSamplerArg)

	switch os.Getenv(envTracesSampler) {
	case "always_on":
		return sdktrace.AlwaysSample()
	case "always_off":
		return sdktrace.NeverSample()
	case "traceidratio":
		return sdktrace.TraceIDRatioBased(parseTraceIDRatio(arg))
	case "parentbased_always_off":
		return sdktrace.ParentBased(sdktrace.NeverSample())
	case "parentbased_traceidratio":
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(parseTraceIDRatio(arg)))
	default:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
}

// parseTraceIDRatio parses the sampler argument as a ratio in [0, 1].
func parseTraceIDRatio(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f > 1 {
		return defaultTraceIDRatio
	}

	return f
}
