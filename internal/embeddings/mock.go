package embeddings

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/sahildhillon803/STRATIFY/pkg/vectormath"
)

// MockClient implements the Client interface for testing purposes.
// It generates deterministic embeddings based on the input text hash, so the
// same text always maps to the same unit vector and distinct texts are
// effectively uncorrelated.
type MockClient struct {
	dimensions int
}

var _ Client = (*MockClient)(nil)

// NewMockClient creates a mock embedding client with custom dimensions.
func NewMockClient(dimensions int) *MockClient {
	if dimensions <= 0 {
		dimensions = defaultDimension
	}
	return &MockClient{dimensions: dimensions}
}

// Dimensions returns the configured embedding dimension.
func (c *MockClient) Dimensions() int {
	return c.dimensions
}

// EmbedText generates a deterministic embedding from the text hash.
func (c *MockClient) EmbedText(_ context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyInput
	}

	return c.deterministicEmbedding(text), nil
}

// EmbedTexts generates embeddings for multiple texts.
// Returns an error if any text is empty.
func (c *MockClient) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		if text == "" {
			return nil, fmt.Errorf("%w: index %d", ErrEmptyInput, i)
		}
		out[i] = c.deterministicEmbedding(text)
	}

	return out, nil
}

func (c *MockClient) deterministicEmbedding(text string) []float32 {
	hash := sha256.Sum256([]byte(text))
	vec := make([]float32, c.dimensions)

	for i := range vec {
		// Cycle through hash bytes, mapping each to [-1, 1].
		vec[i] = (float32(hash[i%len(hash)]) / 127.5) - 1.0
	}

	vectormath.NormalizeL2(vec)

	return vec
}
