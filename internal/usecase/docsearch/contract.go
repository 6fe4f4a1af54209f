package docsearch

import (
	"context"

	"github.com/caseflow/searchd/internal/domain"
)

// Repository is the storage contract for document retrieval.
type Repository interface {
	Fulltext(
		ctx context.Context, tenantID, caseID string,
		filters domain.Filters, queryText string, limit int,
	) ([]domain.DocumentHit, error)

	Semantic(
		ctx context.Context, tenantID, caseID string,
		filters domain.Filters, vector []float32, k int,
	) ([]domain.DocumentHit, error)

	GetMany(ctx context.Context, tenantID string, ids []string) ([]domain.Document, error)
}

// Embedder vectorizes the query text for semantic retrieval.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
