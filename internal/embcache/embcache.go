// Package embcache provides a persistent embedding cache backed by BadgerDB.
// Catalog builds consult it before calling the embedding provider, so
// restarts and reloads only pay for theses that actually changed.
package embcache

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Cache stores embedding vectors keyed by model, dimension, and text hash.
// Entries from one model or dimension are never served for another.
type Cache struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to the badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens (or creates) an embedding cache at the given directory.
func Open(path string) (*Cache, error) {
	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, err
		}
	} else if !info.IsDir() {
		return nil, fmt.Errorf("embcache: %s is not a directory", path)
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("embcache: open badger at %s: %w", path, err)
	}

	return &Cache{db: db, logger: slog.Default()}, nil
}

// OpenInMemory opens an in-memory cache. Used by tests and available when a
// process wants dedup within a run without a persistent directory.
func OpenInMemory() (*Cache, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("embcache: open in-memory badger: %w", err)
	}

	return &Cache{db: db, logger: slog.Default()}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached vector for (model, dim, text), or found=false on a
// miss. A stored value whose length does not match dim is treated as a miss.
func (c *Cache) Get(model string, dim int, text string) ([]float32, bool, error) {
	var vec []float32

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(makeKey(model, dim, text))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			vec = decodeVector(val)
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("embcache: get: %w", err)
	}

	if len(vec) != dim {
		c.logger.Warn("discarding cached embedding with wrong dimension",
			"model", model, "want", dim, "got", len(vec))
		return nil, false, nil
	}

	return vec, true, nil
}

// Put stores the vector for (model, dim, text).
func (c *Cache) Put(model string, dim int, text string, vec []float32) error {
	if len(vec) != dim {
		return fmt.Errorf("embcache: vector length %d does not match dimension %d", len(vec), dim)
	}

	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(makeKey(model, dim, text), encodeVector(vec))
	})
	if err != nil {
		return fmt.Errorf("embcache: put: %w", err)
	}

	return nil
}

// makeKey builds the cache key. The text is hashed so arbitrarily long theses
// produce fixed-size keys.
func makeKey(model string, dim int, text string) []byte {
	sum := sha256.Sum256([]byte(text))
	return []byte(fmt.Sprintf("emb:%s:%d:%x", model, dim, sum))
}

// encodeVector packs float32 values little-endian, 4 bytes each.
func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

// decodeVector unpacks a little-endian float32 buffer. Trailing bytes that do
// not form a full float are ignored.
func decodeVector(buf []byte) []float32 {
	n := len(buf) / 4
	vec := make([]float32, n)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return vec
}
