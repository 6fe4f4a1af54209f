package indexer

import (
	"context"

	"github.com/caseflow/searchd/internal/domain"
)

// VectorStore reads indexable items and persists their embeddings.
type VectorStore interface {
	// Indexable loads the embeddable fields of one item plus the storage
	// key the resulting vector is written back to.
	Indexable(ctx context.Context, kind domain.IndexKind, id string) (domain.Indexable, string, error)
	StoreVector(ctx context.Context, key string, vec []float32, model string) error
	Count(ctx context.Context, kind domain.IndexKind, tenantID string) (int, error)
	CountIndexed(ctx context.Context, kind domain.IndexKind, tenantID string) (int, error)
	UnindexedIDs(ctx context.Context, kind domain.IndexKind, tenantID string, limit int) ([]string, error)
	PageIDs(ctx context.Context, kind domain.IndexKind, tenantID string, offset, limit int) ([]string, error)
}
