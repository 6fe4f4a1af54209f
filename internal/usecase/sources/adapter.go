// Package sources turns raw record matches into lexically scored search
// results. One adapter serves all row-shaped sources; the access predicate
// is applied at the storage query, scoring and snippets happen here.
package sources

import (
	"context"
	"fmt"

	"github.com/caseflow/searchd/internal/domain"
)

// RecordReader is the storage contract for row-shaped sources.
type RecordReader interface {
	Find(
		ctx context.Context, source domain.SourceKind,
		pred domain.AccessPredicate, queryText string, filters domain.Filters,
	) ([]domain.Record, error)
}

// Adapter searches one record type per call and produces scored results.
type Adapter struct {
	records RecordReader
}

// NewAdapter creates a source adapter over a record reader.
func NewAdapter(records RecordReader) *Adapter {
	return &Adapter{records: records}
}

// Search fetches candidates for one source under the given predicate and
// scores them lexically. Zero-scoring candidates are dropped.
func (a *Adapter) Search(
	ctx context.Context, source domain.SourceKind,
	pred domain.AccessPredicate, q *domain.Query,
) ([]domain.Result, error) {
	records, err := a.records.Find(ctx, source, pred, q.Text, q.Filters)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", source, err)
	}

	results := make([]domain.Result, 0, len(records))
	for i := range records {
		rec := &records[i]
		searchable := rec.Title + "\n" + rec.Content
		score := Score(q.Text, searchable)
		if score == 0 {
			continue
		}
		results = append(results, domain.Result{
			ID:           rec.ID,
			Source:       source,
			Title:        rec.Title,
			Content:      rec.Content,
			Snippet:      Snippet(rec.Content, q.Text),
			Score:        score,
			LexicalScore: score,
			Metadata:     rec.Metadata,
			CreatedAt:    rec.CreatedAt,
			UpdatedAt:    rec.UpdatedAt,
		})
	}
	return results, nil
}
