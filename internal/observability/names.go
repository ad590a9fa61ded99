// Package observability provides OpenTelemetry metrics and optional tracing
// for the matching API.
package observability

// Metric names (Prometheus / OpenTelemetry).
const (
	MetricNameRequestCount        = "stratify_http_requests_total"
	MetricNameRequestDuration     = "stratify_http_request_duration_seconds"
	MetricNameRequestBodyTooLarge = "stratify_request_body_too_large_total"
	MetricNameMatchRequests       = "stratify_match_requests_total"
	MetricNameMatchDuration       = "stratify_match_duration_seconds"
	MetricNameMatchResults        = "stratify_match_results"
	MetricNameCatalogReloads      = "stratify_catalog_reloads_total"
	MetricNameCatalogSize         = "stratify_catalog_investors"
	MetricNameCacheHits           = "stratify_cache_hits_total"
	MetricNameCacheMisses         = "stratify_cache_misses_total"
	MetricNameEmbeddingRequests   = "stratify_embedding_requests_total"
	MetricNameEmbeddingDuration   = "stratify_embedding_duration_seconds"
)

// Attribute keys.
const (
	AttrMethod      = "method"
	AttrRoute       = "route"
	AttrStatusClass = "status_class"
	AttrOutcome     = "outcome"
	AttrStatus      = "status"
	AttrCache       = "cache"
)

// Match outcomes for stratify_match_requests_total.
const (
	MatchOutcomeBanded        = "banded"
	MatchOutcomeStageFallback = "stage_fallback"
	MatchOutcomeEmpty         = "empty"
	MatchOutcomeError         = "error"
)

// AllowedMatchOutcomes bounds the outcome attribute's cardinality.
var AllowedMatchOutcomes = map[string]bool{
	MatchOutcomeBanded:        true,
	MatchOutcomeStageFallback: true,
	MatchOutcomeEmpty:         true,
	MatchOutcomeError:         true,
}

// AllowedStatuses for stratify_catalog_reloads_total and stratify_embedding_requests_total.
var AllowedStatuses = map[string]bool{
	"success": true,
	"error":   true,
}

// AllowedCacheNames for stratify_cache_hits_total and stratify_cache_misses_total.
var AllowedCacheNames = map[string]bool{
	"query_embedding":   true,
	"catalog_embedding": true,
}

// NormalizeMatchOutcome returns outcome if allowed, otherwise "unknown".
func NormalizeMatchOutcome(outcome string) string {
	if AllowedMatchOutcomes[outcome] {
		return outcome
	}

	return "unknown"
}

// NormalizeStatus returns status if allowed, otherwise "unknown".
func NormalizeStatus(status string) string {
	if AllowedStatuses[status] {
		return status
	}

	return "unknown"
}

// NormalizeCacheName returns name if allowed, otherwise "other".
func NormalizeCacheName(name string) string {
	if AllowedCacheNames[name] {
		return name
	}

	return "other"
}
