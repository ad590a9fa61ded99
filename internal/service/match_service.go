package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/sahildhillon803/STRATIFY/internal/catalog"
	"github.com/sahildhillon803/STRATIFY/internal/embeddings"
	"github.com/sahildhillon803/STRATIFY/internal/models"
	"github.com/sahildhillon803/STRATIFY/internal/observability"
	"github.com/sahildhillon803/STRATIFY/pkg/cache"
	"github.com/sahildhillon803/STRATIFY/pkg/vectormath"
)

const (
	// maxMatches caps the semantic match result list.
	maxMatches = 10

	// chequeBandLower and chequeBandUpper define the ±20% tolerance band
	// around the requested raise amount.
	chequeBandLower = 0.8
	chequeBandUpper = 1.2

	// defaultListLimit is the browse page size when the client sends none.
	defaultListLimit = 50
)

// Sentinel errors for matching (used by handlers for status mapping).
var (
	ErrCatalogNotLoaded    = errors.New("investor catalog not loaded")
	ErrReloadNotConfigured = errors.New("catalog reload is not configured")
)

// MatchError reports a failure while computing matches: the embedding
// capability or catalog access failed mid-request. No partial result
// accompanies it.
type MatchError struct {
	Op  string
	Err error
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("match %s: %v", e.Op, e.Err)
}

func (e *MatchError) Unwrap() error {
	return e.Err
}

// MatchService ranks the investor catalog against startup queries and serves
// plain filtered browsing. Every read operates on the immutable snapshot
// current at the start of the call, so concurrent requests and reloads never
// observe a half-updated catalog.
type MatchService struct {
	store            *catalog.Store
	embedder         embeddings.Client
	builder          *catalog.Builder
	catalogPath      string
	queryCache       *cache.LoaderCache[[]float32]
	cacheMetrics     observability.CacheMetrics
	matchMetrics     observability.MatchMetrics
	embeddingMetrics observability.EmbeddingMetrics
	logger           *slog.Logger
}

// MatchServiceParams configures MatchService. QueryCache and the metrics may
// be nil (no caching, metrics disabled). Builder and CatalogPath are only
// required when Reload is used.
type MatchServiceParams struct {
	Store            *catalog.Store
	Embedder         embeddings.Client
	Builder          *catalog.Builder
	CatalogPath      string
	QueryCache       *cache.LoaderCache[[]float32]
	CacheMetrics     observability.CacheMetrics
	MatchMetrics     observability.MatchMetrics
	EmbeddingMetrics observability.EmbeddingMetrics
	Logger           *slog.Logger
}

// NewMatchService creates a MatchService.
func NewMatchService(p MatchServiceParams) *MatchService {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &MatchService{
		store:            p.Store,
		embedder:         p.Embedder,
		builder:          p.Builder,
		catalogPath:      p.CatalogPath,
		queryCache:       p.QueryCache,
		cacheMetrics:     p.CacheMetrics,
		matchMetrics:     p.MatchMetrics,
		embeddingMetrics: p.EmbeddingMetrics,
		logger:           logger,
	}
}

// FilterOptions returns the distinct values for the browse filter dropdowns:
// sorted unique headquarters countries (the "Location Unknown" sentinel
// excluded) and sorted unique stage tags split out of every record's
// pipe-separated stage string.
func (s *MatchService) FilterOptions() (models.FilterOptions, error) {
	cat := s.store.Current()
	if cat == nil {
		return models.FilterOptions{}, ErrCatalogNotLoaded
	}

	hqSet := make(map[string]struct{})
	stageSet := make(map[string]struct{})

	for i := range cat.Records {
		rec := &cat.Records[i]
		if rec.HeadquartersCountry != "" && rec.HeadquartersCountry != models.UnknownLocation {
			hqSet[rec.HeadquartersCountry] = struct{}{}
		}

		for _, tag := range strings.Split(rec.InvestmentStages, "|") {
			if tag = strings.TrimSpace(tag); tag != "" {
				stageSet[tag] = struct{}{}
			}
		}
	}

	return models.FilterOptions{
		HQs:    sortedKeys(hqSet),
		Stages: sortedKeys(stageSet),
	}, nil
}

// ListInvestors returns one page of the filtered catalog plus the total
// filtered count before pagination. Stage matches case-insensitively against
// the raw stage string, HQ against the full headquarters string; "All" or
// empty disables a filter. Unrecognized sort keys leave encounter order
// unchanged. Out-of-range skip/limit clip instead of erroring.
func (s *MatchService) ListInvestors(filters models.ListInvestorsFilters) (models.ListInvestorsResponse, error) {
	cat := s.store.Current()
	if cat == nil {
		return models.ListInvestorsResponse{}, ErrCatalogNotLoaded
	}

	filterStage := filters.Stage != "" && filters.Stage != models.FilterAll
	filterHQ := filters.HQ != "" && filters.HQ != models.FilterAll
	stageLower := strings.ToLower(filters.Stage)
	hqLower := strings.ToLower(filters.HQ)

	idxs := make([]int, 0, len(cat.Records))

	for i := range cat.Records {
		rec := &cat.Records[i]
		if filterStage && !strings.Contains(strings.ToLower(rec.InvestmentStages), stageLower) {
			continue
		}

		if filterHQ && !strings.Contains(strings.ToLower(rec.HeadquartersRaw), hqLower) {
			continue
		}

		idxs = append(idxs, i)
	}

	sortInvestors(cat.Records, idxs, filters.SortBy)

	total := len(idxs)

	limit := filters.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	start := min(max(filters.Skip, 0), total)
	end := min(start+limit, total)

	page := idxs[start:end]

	investors := make([]models.InvestorSummary, 0, len(page))
	for _, idx := range page {
		investors = append(investors, summarize(&cat.Records[idx], 0))
	}

	return models.ListInvestorsResponse{
		Status:    models.StatusSuccess,
		Investors: investors,
		Total:     total,
	}, nil
}

// Match returns up to 10 investors ranked by cosine similarity between the
// startup description and each candidate's precomputed thesis embedding.
// Candidates are hard-filtered first: cheque range overlapping the ±20% band
// around the raise amount, and stage appearing in the investor's stage string.
// When the band eliminates everyone the stage-only set is ranked instead, and
// when no investor matches the stage at all the result is an empty list, not
// an error.
func (s *MatchService) Match(ctx context.Context, req models.MatchRequest) ([]models.InvestorSummary, error) {
	start := time.Now()

	cat := s.store.Current()
	if cat == nil {
		return nil, ErrCatalogNotLoaded
	}

	minAcceptable := req.RaiseAmount * chequeBandLower
	maxAcceptable := req.RaiseAmount * chequeBandUpper

	outcome := observability.MatchOutcomeBanded

	candidates := bandedCandidates(cat.Records, req.Stage, minAcceptable, maxAcceptable)
	if len(candidates) == 0 {
		s.logger.Warn("cheque band eliminated all candidates, retrying with stage only",
			"raiseAmount", req.RaiseAmount, "stage", req.Stage)

		outcome = observability.MatchOutcomeStageFallback
		candidates = stageCandidates(cat.Records, req.Stage)
	}

	if len(candidates) == 0 {
		s.logger.Info("no investor matches the requested stage", "stage", req.Stage)
		s.recordMatch(ctx, observability.MatchOutcomeEmpty, time.Since(start), 0)

		return []models.InvestorSummary{}, nil
	}

	queryVec, err := s.queryEmbedding(ctx, req.StartupDescription)
	if err != nil {
		s.logger.Error("match: query embedding failed", "error", err)
		s.recordMatch(ctx, observability.MatchOutcomeError, time.Since(start), 0)

		return nil, &MatchError{Op: "embed query", Err: err}
	}

	scored := make([]scoredCandidate, len(candidates))
	for i, idx := range candidates {
		scored[i] = scoredCandidate{
			idx:   idx,
			score: vectormath.CosineSimilarity(queryVec, cat.Embeddings[idx]),
		}
	}

	// Stable keeps catalog order for equal scores, so identical inputs always
	// produce the identical ranking.
	slices.SortStableFunc(scored, func(a, b scoredCandidate) int {
		return cmp.Compare(b.score, a.score)
	})

	if len(scored) > maxMatches {
		scored = scored[:maxMatches]
	}

	results := make([]models.InvestorSummary, 0, len(scored))
	for _, sc := range scored {
		results = append(results, summarize(&cat.Records[sc.idx], sc.score))
	}

	s.recordMatch(ctx, outcome, time.Since(start), len(results))

	return results, nil
}

// Reload rebuilds the catalog from the configured source and atomically
// publishes it as the new snapshot; in-flight reads keep the snapshot they
// started with. The query embedding cache is purged because a reload may
// change the embedding space.
func (s *MatchService) Reload(ctx context.Context) (int, error) {
	if s.builder == nil || s.catalogPath == "" {
		return 0, ErrReloadNotConfigured
	}

	cat, err := catalog.Load(ctx, s.catalogPath, s.builder)
	if err != nil {
		s.logger.Error("catalog reload failed", "error", err, "path", s.catalogPath)
		s.recordReload(ctx, "error")

		return 0, fmt.Errorf("reload catalog: %w", err)
	}

	s.store.Swap(cat)

	if s.queryCache != nil {
		s.queryCache.Purge()
	}

	s.recordReload(ctx, "success")

	if s.matchMetrics != nil {
		s.matchMetrics.SetCatalogSize(cat.Size())
	}

	s.logger.Info("catalog reloaded", "investors", cat.Size(), "path", s.catalogPath)

	return cat.Size(), nil
}

type scoredCandidate struct {
	idx   int
	score float64
}

// bandedCandidates returns the catalog indices whose cheque range overlaps
// [minAcceptable, maxAcceptable] and whose stage string contains stage. A nil
// cheque bound means no constraint on that side, so an investor with no
// declared range is never excluded by the band.
func bandedCandidates(records []models.InvestorRecord, stage string, minAcceptable, maxAcceptable float64) []int {
	stageLower := strings.ToLower(stage)

	var out []int

	for i := range records {
		rec := &records[i]

		chequeMin := 0.0
		if rec.ChequeMin != nil {
			chequeMin = *rec.ChequeMin
		}

		chequeMax := math.Inf(1)
		if rec.ChequeMax != nil {
			chequeMax = *rec.ChequeMax
		}

		if chequeMin <= maxAcceptable && chequeMax >= minAcceptable &&
			strings.Contains(strings.ToLower(rec.InvestmentStages), stageLower) {
			out = append(out, i)
		}
	}

	return out
}

// stageCandidates returns the catalog indices whose stage string contains
// stage, ignoring cheque ranges.
func stageCandidates(records []models.InvestorRecord, stage string) []int {
	stageLower := strings.ToLower(stage)

	var out []int

	for i := range records {
		if strings.Contains(strings.ToLower(records[i].InvestmentStages), stageLower) {
			out = append(out, i)
		}
	}

	return out
}

func sortInvestors(records []models.InvestorRecord, idxs []int, sortBy string) {
	switch sortBy {
	case models.SortNameAsc:
		slices.SortStableFunc(idxs, func(a, b int) int {
			return strings.Compare(records[a].Name, records[b].Name)
		})
	case models.SortNameDesc:
		slices.SortStableFunc(idxs, func(a, b int) int {
			return strings.Compare(records[b].Name, records[a].Name)
		})
	case models.SortChequeDesc:
		slices.SortStableFunc(idxs, func(a, b int) int {
			return cmp.Compare(chequeMaxOrLowest(&records[b]), chequeMaxOrLowest(&records[a]))
		})
	}
}

// chequeMaxOrLowest makes records with no declared maximum sort below every
// declared value in cheque_desc order.
func chequeMaxOrLowest(rec *models.InvestorRecord) float64 {
	if rec.ChequeMax == nil {
		return math.Inf(-1)
	}

	return *rec.ChequeMax
}

func summarize(rec *models.InvestorRecord, score float64) models.InvestorSummary {
	return models.InvestorSummary{
		InvestorID: rec.ID,
		Name:       rec.Name,
		MatchScore: score,
		Website:    rec.Website,
		HQ:         rec.HeadquartersCountry,
		Type:       rec.Type,
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}

	sort.Strings(out)

	return out
}

func (s *MatchService) queryEmbedding(ctx context.Context, description string) ([]float32, error) {
	if s.queryCache == nil {
		return s.embedText(ctx, description)
	}

	vec, hit, err := s.queryCache.Get(ctx, description, s.embedText)
	if err != nil {
		return nil, err
	}

	if s.cacheMetrics != nil {
		if hit {
			s.cacheMetrics.RecordHit(ctx, observability.CacheNameQueryEmbedding)
		} else {
			s.cacheMetrics.RecordMiss(ctx, observability.CacheNameQueryEmbedding)
		}
	}

	return vec, nil
}

func (s *MatchService) embedText(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()

	vec, err := s.embedder.EmbedText(ctx, text)

	if s.embeddingMetrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}

		s.embeddingMetrics.RecordRequest(ctx, status, time.Since(start))
	}

	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}

	return vec, nil
}

func (s *MatchService) recordMatch(ctx context.Context, outcome string, duration time.Duration, results int) {
	if s.matchMetrics != nil {
		s.matchMetrics.RecordMatch(ctx, outcome, duration, results)
	}
}

func (s *MatchService) recordReload(ctx context.Context, status string) {
	if s.matchMetrics != nil {
		s.matchMetrics.RecordCatalogReload(ctx, status)
	}
}
