// Package embeddings provides text embedding clients for the matching engine.
// The OpenAI client is used when an API key is configured; the local hashing
// client keeps the service fully functional without one.
package embeddings

import (
	"context"
	"errors"
)

// ErrEmptyInput is returned when an embedding is requested for empty text.
// Callers that tolerate empty text (e.g. investors with no thesis) must
// substitute a zero vector instead of calling the client.
var ErrEmptyInput = errors.New("embeddings: input text is empty")

// Client defines the interface for generating text embeddings.
type Client interface {
	// EmbedText generates an embedding vector for the given text.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embedding vectors for multiple texts in a batch.
	// More efficient than calling EmbedText in a loop for providers that
	// support batch input.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the length of vectors produced by this client.
	Dimensions() int
}
