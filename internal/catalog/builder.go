package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"

	"github.com/sahildhillon803/STRATIFY/internal/embcache"
	"github.com/sahildhillon803/STRATIFY/internal/embeddings"
	"github.com/sahildhillon803/STRATIFY/internal/models"
)

// embedBatchSize is the number of theses sent per provider request.
const embedBatchSize = 64

// Builder computes the thesis embedding matrix for a normalized record set.
// Records with an empty thesis get a zero vector of the right length, never a
// provider call, so row alignment survives sparse data.
type Builder struct {
	embedder embeddings.Client
	cache    *embcache.Cache
	limiter  *rate.Limiter
	workers  int
	model    string
	logger   *slog.Logger
}

// BuilderDeps holds the Builder's dependencies. Cache and Limiter are
// optional; Workers defaults to 1 when not positive.
type BuilderDeps struct {
	Embedder embeddings.Client
	Cache    *embcache.Cache
	Limiter  *rate.Limiter
	Workers  int

	// Model qualifies cache keys so switching models never serves stale vectors.
	Model string
}

// NewBuilder creates a Builder.
func NewBuilder(deps BuilderDeps) (*Builder, error) {
	if deps.Embedder == nil {
		return nil, errors.New("catalog: embedder is required")
	}

	workers := deps.Workers
	if workers < 1 {
		workers = 1
	}

	return &Builder{
		embedder: deps.Embedder,
		cache:    deps.Cache,
		limiter:  deps.Limiter,
		workers:  workers,
		model:    deps.Model,
		logger:   slog.Default(),
	}, nil
}

// Build returns one embedding per record, row-aligned with records. Cached
// vectors are reused; the rest are embedded in batches on a worker pool. Any
// provider failure fails the whole build — a partial matrix is never
// returned.
func (b *Builder) Build(ctx context.Context, records []models.InvestorRecord) ([][]float32, error) {
	dims := b.embedder.Dimensions()
	out := make([][]float32, len(records))

	var pending []int
	for i, rec := range records {
		if strings.TrimSpace(rec.InvestmentThesis) == "" {
			out[i] = make([]float32, dims)
			continue
		}

		if b.cache != nil {
			vec, found, err := b.cache.Get(b.model, dims, rec.InvestmentThesis)
			if err != nil {
				return nil, fmt.Errorf("catalog: embedding cache: %w", err)
			}
			if found {
				out[i] = vec
				continue
			}
		}

		pending = append(pending, i)
	}

	if len(pending) == 0 {
		return out, nil
	}

	b.logger.Info("embedding catalog theses",
		"total", len(records), "cached", len(records)-len(pending), "pending", len(pending))

	if err := b.embedPending(ctx, records, pending, out); err != nil {
		return nil, err
	}

	return out, nil
}

// embedPending embeds the records at the pending indices, writing vectors
// into out by index. Batches run concurrently on an ants pool.
func (b *Builder) embedPending(ctx context.Context, records []models.InvestorRecord, pending []int, out [][]float32) error {
	workers := b.workers
	if workers > len(pending) {
		workers = len(pending)
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return fmt.Errorf("catalog: create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	setErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	for start := 0; start < len(pending); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			if failed() {
				return
			}

			if err := b.embedBatch(ctx, records, batch, out); err != nil {
				setErr(err)
			}
		})
		if submitErr != nil {
			wg.Done()
			setErr(fmt.Errorf("catalog: submit batch: %w", submitErr))
			break
		}
	}

	wg.Wait()

	return firstErr
}

// embedBatch performs one provider call for a batch of record indices.
func (b *Builder) embedBatch(ctx context.Context, records []models.InvestorRecord, batch []int, out [][]float32) error {
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("catalog: rate limiter: %w", err)
		}
	}

	texts := make([]string, len(batch))
	for i, idx := range batch {
		texts[i] = records[idx].InvestmentThesis
	}

	vectors, err := b.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("catalog: embed theses: %w", err)
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("catalog: got %d embeddings for %d theses", len(vectors), len(batch))
	}

	for i, idx := range batch {
		out[idx] = vectors[i]

		if b.cache != nil {
			if err := b.cache.Put(b.model, b.embedder.Dimensions(), texts[i], vectors[i]); err != nil {
				b.logger.Warn("failed to cache embedding", "error", err)
			}
		}
	}

	return nil
}
