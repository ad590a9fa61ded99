package embeddings

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/sahildhillon803/STRATIFY/pkg/vectormath"
)

// LocalClient is a bag-of-words hashing embedder. Each word is hashed into a
// fixed-size vector and the result is L2-normalized, so texts sharing words
// get positive cosine similarity. It has no notion of semantics but keeps
// matching deterministic and dependency-free when no OpenAI key is
// configured, and it backs the end-to-end tests.
type LocalClient struct {
	dimensions int
}

var _ Client = (*LocalClient)(nil)

// NewLocalClient creates a local hashing embedder with the given dimension.
func NewLocalClient(dimensions int) *LocalClient {
	if dimensions <= 0 {
		dimensions = defaultDimension
	}
	return &LocalClient{dimensions: dimensions}
}

// Dimensions returns the configured embedding dimension.
func (c *LocalClient) Dimensions() int {
	return c.dimensions
}

// EmbedText generates an embedding by hashing words into vector positions.
func (c *LocalClient) EmbedText(_ context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	return c.embed(text), nil
}

// EmbedTexts generates embeddings for multiple texts.
func (c *LocalClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}

	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := c.EmbedText(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}

	return out, nil
}

func (c *LocalClient) embed(text string) []float32 {
	vec := make([]float32, c.dimensions)

	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:()\"'-")
		if word == "" {
			continue
		}

		h := fnv.New32a()
		_, _ = h.Write([]byte(word))

		vec[int(h.Sum32()%uint32(c.dimensions))]++
	}

	vectormath.NormalizeL2(vec)

	return vec
}
