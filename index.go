package searchd

import (
	"context"
	"fmt"

	"github.com/caseflow/searchd/internal/domain"
	indexeruc "github.com/caseflow/searchd/internal/usecase/indexer"
)

// IndexDocument embeds one document by id.
func (c *Client) IndexDocument(ctx context.Context, id string) IndexResult {
	return fromIndexResult(c.indexer.IndexDocument(ctx, id))
}

// IndexNote embeds one note by id.
func (c *Client) IndexNote(ctx context.Context, id string) IndexResult {
	return fromIndexResult(c.indexer.IndexNote(ctx, id))
}

// IndexBatch embeds a set of ids with bounded concurrency. An empty input
// yields an all-zero result.
func (c *Client) IndexBatch(ctx context.Context, kind IndexKind, ids []string) BatchIndexResult {
	return fromBatchResult(c.indexer.IndexBatch(ctx, domain.IndexKind(kind), ids))
}

// ReindexAll re-embeds every eligible record of one kind. tenantID may be
// empty to cover all tenants; onProgress may be nil.
func (c *Client) ReindexAll(
	ctx context.Context, kind IndexKind, tenantID string,
	onProgress func(ReindexProgress),
) (BatchIndexResult, error) {
	var cb indexeruc.ProgressFunc
	if onProgress != nil {
		cb = func(p indexeruc.Progress) {
			onProgress(ReindexProgress(p))
		}
	}
	res, err := c.indexer.ReindexAll(ctx, domain.IndexKind(kind), tenantID, cb)
	if err != nil {
		return fromBatchResult(res), fmt.Errorf("reindex: %w", err)
	}
	return fromBatchResult(res), nil
}

// UnindexedIDs lists records still missing an embedding, oldest first.
func (c *Client) UnindexedIDs(ctx context.Context, kind IndexKind, tenantID string, limit int) ([]string, error) {
	ids, err := c.indexer.UnindexedIDs(ctx, domain.IndexKind(kind), tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("unindexed ids: %w", err)
	}
	return ids, nil
}

// IndexStats reports embedding coverage for documents and notes.
func (c *Client) IndexStats(ctx context.Context, tenantID string) (IndexStatsByKind, error) {
	st, err := c.indexer.Stats(ctx, tenantID)
	if err != nil {
		return IndexStatsByKind{}, fmt.Errorf("index stats: %w", err)
	}
	return IndexStatsByKind{
		Documents: IndexStats(st.Documents),
		Notes:     IndexStats(st.Notes),
	}, nil
}
