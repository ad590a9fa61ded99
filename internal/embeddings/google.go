package embeddings

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGoogleModel = "gemini-embedding-001"

// GoogleClient calls the Gemini embeddings API via the Google Gen AI SDK.
type GoogleClient struct {
	sdk        *genai.Client
	model      string
	dimensions int
}

var _ Client = (*GoogleClient)(nil)

// NewGoogleClient creates a Gemini embeddings client. An empty model selects
// gemini-embedding-001; a non-positive dimension selects the default. The
// requested dimension is sent as OutputDimensionality so Gemini's native
// vector length never leaks into the catalog.
func NewGoogleClient(ctx context.Context, apiKey, model string, dimensions int) (*GoogleClient, error) {
	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("google embeddings client: %w", err)
	}

	if model == "" {
		model = defaultGoogleModel
	}

	if dimensions <= 0 {
		dimensions = defaultDimension
	}

	return &GoogleClient{
		sdk:        sdk,
		model:      model,
		dimensions: dimensions,
	}, nil
}

// Dimensions returns the configured embedding dimension.
func (c *GoogleClient) Dimensions() int {
	return c.dimensions
}

// EmbedText returns the embedding vector for the given text.
func (c *GoogleClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	return vecs[0], nil
}

// EmbedTexts returns embedding vectors for multiple texts in a single API
// call. The response embeddings are aligned with the input order.
func (c *GoogleClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}

	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			return nil, fmt.Errorf("%w: index %d", ErrEmptyInput, i)
		}

		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	//nolint:gosec // G115: dimensions is validated positive and far below MaxInt32
	dim := int32(c.dimensions)

	resp, err := c.sdk.Models.EmbedContent(ctx, c.model, contents, &genai.EmbedContentConfig{
		OutputDimensionality: &dim,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini embeddings: %w", err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings, expected %d",
			ErrNoEmbeddingInResponse, len(resp.Embeddings), len(texts))
	}

	out := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) != c.dimensions {
			got := 0
			if emb != nil {
				got = len(emb.Values)
			}

			return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, got, c.dimensions)
		}

		vec := make([]float32, c.dimensions)
		copy(vec, emb.Values)
		out[i] = vec
	}

	return out, nil
}
