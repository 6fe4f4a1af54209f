// Package vectors is the indexer's storage surface: it resolves indexable
// records, persists embedding vectors, and reports index coverage for the
// document and note corpora independently.
package vectors

import (
	"context"
	"fmt"
	"strings"

	"github.com/caseflow/searchd/internal/db"
	"github.com/caseflow/searchd/internal/domain"
	"github.com/caseflow/searchd/internal/repository/keys"
)

// store is the consumer interface for vector bookkeeping.
type store interface {
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
	HSet(ctx context.Context, key string, fields map[string]string) error
}

// Repo implements the indexer usecase's storage contract.
type Repo struct {
	store store
}

// New creates a vectors repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Indexable resolves a record's text fields by id. The record is located via
// the id tag so callers do not need to know the tenant of an id. Returns
// domain.ErrDocumentNotFound for unknown ids.
func (r *Repo) Indexable(ctx context.Context, kind domain.IndexKind, id string) (domain.Indexable, string, error) {
	res, err := r.store.SearchText(ctx, &db.TextQuery{
		Index: indexName(kind),
		Query: db.And(append(eligibleClauses(kind, ""), db.TagFilter(keys.FieldID, id))...),
		Limit: 1,
		ReturnFields: []string{
			keys.FieldID, keys.FieldTitle, keys.FieldDescription,
			keys.FieldText, keys.FieldContent, keys.FieldTags,
		},
	})
	if err != nil {
		return domain.Indexable{}, "", fmt.Errorf("resolve %s %s: %w", kind, id, err)
	}
	if len(res.Entries) == 0 {
		return domain.Indexable{}, "", fmt.Errorf("%s %s: %w", kind, id, domain.ErrDocumentNotFound)
	}

	e := res.Entries[0]
	item := domain.Indexable{
		ID:          e.Fields[keys.FieldID],
		Title:       e.Fields[keys.FieldTitle],
		Description: e.Fields[keys.FieldDescription],
		Text:        e.Fields[keys.FieldText],
	}
	// Notes carry their body under the record content field.
	if item.Text == "" {
		item.Text = e.Fields[keys.FieldContent]
	}
	if tags := e.Fields[keys.FieldTags]; tags != "" {
		item.Tags = strings.Split(tags, keys.TagSeparator)
	}
	return item, e.Key, nil
}

// StoreVector persists an embedding on the record's hash and marks it
// indexed. Ownership of the vector transfers to storage here.
func (r *Repo) StoreVector(ctx context.Context, key string, vec []float32, model string) error {
	err := r.store.HSet(ctx, key, map[string]string{
		keys.FieldVector:         db.EncodeVector(vec),
		keys.FieldEmbedded:       "1",
		keys.FieldEmbeddingModel: model,
	})
	if err != nil {
		return fmt.Errorf("store vector %s: %w", key, err)
	}
	return nil
}

// Count returns the number of eligible records of one kind, optionally
// scoped to a tenant.
func (r *Repo) Count(ctx context.Context, kind domain.IndexKind, tenantID string) (int, error) {
	n, err := r.store.SearchCount(ctx, indexName(kind), db.And(eligibleClauses(kind, tenantID)...))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", kind, err)
	}
	return n, nil
}

// CountIndexed returns the number of eligible records with a stored vector.
func (r *Repo) CountIndexed(ctx context.Context, kind domain.IndexKind, tenantID string) (int, error) {
	clauses := append(eligibleClauses(kind, tenantID), db.TagFilter(keys.FieldEmbedded, "1"))
	n, err := r.store.SearchCount(ctx, indexName(kind), db.And(clauses...))
	if err != nil {
		return 0, fmt.Errorf("count indexed %s: %w", kind, err)
	}
	return n, nil
}

// UnindexedIDs returns ids of eligible records without a stored vector,
// oldest first. This is how interrupted re-index runs recompute remaining
// work; no checkpoint state is persisted.
func (r *Repo) UnindexedIDs(ctx context.Context, kind domain.IndexKind, tenantID string, limit int) ([]string, error) {
	clauses := append(eligibleClauses(kind, tenantID), db.Not(db.TagFilter(keys.FieldEmbedded, "1")))
	return r.pageIDs(ctx, kind, db.And(clauses...), 0, limit)
}

// PageIDs returns one page of eligible record ids ordered by creation time.
func (r *Repo) PageIDs(ctx context.Context, kind domain.IndexKind, tenantID string, offset, limit int) ([]string, error) {
	return r.pageIDs(ctx, kind, db.And(eligibleClauses(kind, tenantID)...), offset, limit)
}

func (r *Repo) pageIDs(ctx context.Context, kind domain.IndexKind, query string, offset, limit int) ([]string, error) {
	res, err := r.store.SearchText(ctx, &db.TextQuery{
		Index:        indexName(kind),
		Query:        query,
		Offset:       offset,
		Limit:        limit,
		SortBy:       keys.FieldCreatedAt,
		ReturnFields: []string{keys.FieldID},
	})
	if err != nil {
		return nil, fmt.Errorf("page %s ids: %w", kind, err)
	}

	ids := make([]string, 0, len(res.Entries))
	for _, e := range res.Entries {
		ids = append(ids, e.Fields[keys.FieldID])
	}
	return ids, nil
}

func indexName(kind domain.IndexKind) string {
	if kind == domain.IndexNotes {
		return keys.RecordIndex(domain.SourceNotes)
	}
	return keys.DocumentIndex
}

// eligibleClauses scopes a query to records that should carry embeddings:
// all notes, and only the latest non-deleted document versions.
func eligibleClauses(kind domain.IndexKind, tenantID string) []string {
	var clauses []string
	if tenantID != "" {
		clauses = append(clauses, db.TagFilter(keys.FieldTenant, tenantID))
	}
	if kind == domain.IndexDocuments {
		clauses = append(clauses,
			db.TagFilter(keys.FieldLatest, "1"),
			db.TagFilter(keys.FieldDeleted, "0"),
		)
	}
	return clauses
}
