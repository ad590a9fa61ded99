// Package catalog loads the investor catalog from CSV, normalizes it, and
// holds the active snapshot of records and precomputed thesis embeddings.
package catalog

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sahildhillon803/STRATIFY/internal/models"
)

// Catalog is an immutable snapshot of the investor table and its embedding
// matrix. Embeddings is row-aligned with Records: Embeddings[i] is the thesis
// vector for Records[i]. Nothing mutates a Catalog after construction; a
// reload builds a fresh one and swaps it in wholesale.
type Catalog struct {
	Records    []models.InvestorRecord
	Embeddings [][]float32
	Dimensions int
	LoadedAt   time.Time
}

// New builds a Catalog from records and their embeddings, enforcing the
// row-alignment invariant.
func New(records []models.InvestorRecord, embeddings [][]float32, dimensions int) (*Catalog, error) {
	if len(records) != len(embeddings) {
		return nil, fmt.Errorf("catalog: %d records but %d embeddings", len(records), len(embeddings))
	}

	return &Catalog{
		Records:    records,
		Embeddings: embeddings,
		Dimensions: dimensions,
		LoadedAt:   time.Now().UTC(),
	}, nil
}

// Size returns the number of investors in the snapshot.
func (c *Catalog) Size() int {
	return len(c.Records)
}

// Load reads the catalog source at path and builds a complete snapshot with
// its embedding matrix. Used for the blocking startup load and again on every
// reload.
func Load(ctx context.Context, path string, builder *Builder) (*Catalog, error) {
	records, err := LoadRecords(path)
	if err != nil {
		return nil, err
	}

	embeds, err := builder.Build(ctx, records)
	if err != nil {
		return nil, err
	}

	return New(records, embeds, builder.embedder.Dimensions())
}

// Store publishes the current catalog snapshot. Readers get a consistent
// (records, embeddings) pair via Current; Swap replaces the whole snapshot
// atomically so in-flight requests keep the pair they started with.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore creates a store holding the initial snapshot.
func NewStore(initial *Catalog) *Store {
	s := &Store{}
	s.current.Store(initial)
	return s
}

// Current returns the active snapshot.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Swap publishes a new snapshot.
func (s *Store) Swap(c *Catalog) {
	s.current.Store(c)
}
