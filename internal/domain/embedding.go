package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
// A failed call returns a non-nil error; there is no "intentionally empty
// embedding" state, so callers can always treat an error as a transient
// upstream failure.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and provenance.
type EmbeddingResult struct {
	Vector       []float32
	Model        string
	Dimensions   int
	PromptTokens int
	TotalTokens  int
}
