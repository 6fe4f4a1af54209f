// Package indexer generates and stores embeddings for documents and notes:
// single items, bounded concurrent batches, and full re-index runs with
// progress reporting.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/caseflow/searchd/internal/domain"
	"github.com/caseflow/searchd/internal/logger"
	"github.com/caseflow/searchd/internal/metrics"
)

// Config bounds the indexer's external pressure. Embedding providers are the
// scarce resource here, so concurrency is a hard cap and chunks are separated
// by a fixed delay rather than a token bucket.
type Config struct {
	MaxConcurrent int
	ChunkDelay    time.Duration
	BatchSize     int
	BatchDelay    time.Duration
	RetryAttempts int
	RetryBaseWait time.Duration
}

// DefaultConfig returns the production indexing limits.
func DefaultConfig() Config {
	return Config{
		MaxConcurrent: 3,
		ChunkDelay:    100 * time.Millisecond,
		BatchSize:     10,
		BatchDelay:    time.Second,
		RetryAttempts: 3,
		RetryBaseWait: 500 * time.Millisecond,
	}
}

// Service drives embedding generation against the vector store.
type Service struct {
	store VectorStore
	embed domain.Embedder
	cfg   Config
}

func New(store VectorStore, embed domain.Embedder, cfg Config) *Service {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	return &Service{store: store, embed: embed, cfg: cfg}
}

// IndexDocument embeds one document by id.
func (s *Service) IndexDocument(ctx context.Context, id string) Result {
	return s.indexOne(ctx, domain.IndexDocuments, id)
}

// IndexNote embeds one note by id.
func (s *Service) IndexNote(ctx context.Context, id string) Result {
	return s.indexOne(ctx, domain.IndexNotes, id)
}

// indexOne never returns an error: fetch, generation, and persistence
// failures are all reported inside the Result so batch callers can aggregate
// without unwinding.
func (s *Service) indexOne(ctx context.Context, kind domain.IndexKind, id string) Result {
	start := time.Now()
	res := Result{ID: id}

	item, key, err := s.store.Indexable(ctx, kind, id)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			res.Error = fmt.Sprintf("%s not found", kind)
		} else {
			res.Error = fmt.Sprintf("fetch failed: %v", err)
		}
		return s.finish(kind, res, start)
	}

	if s.embed == nil {
		res.Error = "embedding generation failed: no provider configured"
		return s.finish(kind, res, start)
	}

	input := item.EmbeddingInput()
	if input == "" {
		// Nothing to embed; the item is done, not failed.
		res.Success = true
		return s.finish(kind, res, start)
	}

	var emb domain.EmbeddingResult
	err = retryBackoff(ctx, func() error {
		var embErr error
		emb, embErr = s.embed.Embed(ctx, input)
		return embErr
	}, s.cfg.RetryAttempts, s.cfg.RetryBaseWait)
	if err != nil {
		res.Error = fmt.Sprintf("embedding generation failed: %v", err)
		return s.finish(kind, res, start)
	}

	if err := s.store.StoreVector(ctx, key, emb.Vector, emb.Model); err != nil {
		res.Error = fmt.Sprintf("store vector failed: %v", err)
		return s.finish(kind, res, start)
	}

	res.Success = true
	res.EmbeddingGenerated = true
	return s.finish(kind, res, start)
}

func (s *Service) finish(kind domain.IndexKind, res Result, start time.Time) Result {
	res.ElapsedMs = time.Since(start).Milliseconds()
	status := "failed"
	if res.Success {
		status = "ok"
	}
	metrics.IndexerProcessedTotal.WithLabelValues(string(kind), status).Inc()
	return res
}

// IndexBatch processes ids in chunks of MaxConcurrent. Items within a chunk
// run concurrently; chunks are separated by ChunkDelay. An empty input yields
// an all-zero result.
func (s *Service) IndexBatch(ctx context.Context, kind domain.IndexKind, ids []string) BatchResult {
	start := time.Now()
	out := BatchResult{Total: len(ids), Results: make([]Result, len(ids))}
	if len(ids) == 0 {
		out.Results = []Result{}
		return out
	}

	for chunkStart := 0; chunkStart < len(ids); chunkStart += s.cfg.MaxConcurrent {
		chunkEnd := chunkStart + s.cfg.MaxConcurrent
		if chunkEnd > len(ids) {
			chunkEnd = len(ids)
		}

		var wg sync.WaitGroup
		for i := chunkStart; i < chunkEnd; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				out.Results[i] = s.indexOne(ctx, kind, ids[i])
			}()
		}
		wg.Wait()

		if chunkEnd < len(ids) && s.cfg.ChunkDelay > 0 {
			timer := time.NewTimer(s.cfg.ChunkDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				// Remaining items are reported as not attempted.
				for i := chunkEnd; i < len(ids); i++ {
					out.Results[i] = Result{ID: ids[i], Error: ctx.Err().Error()}
				}
				return s.tally(out, start)
			case <-timer.C:
			}
		}
	}
	return s.tally(out, start)
}

func (s *Service) tally(out BatchResult, start time.Time) BatchResult {
	for _, r := range out.Results {
		if r.Success {
			out.Successful++
		} else {
			out.Failed++
		}
	}
	out.TotalElapsedMs = time.Since(start).Milliseconds()
	return out
}

// ReindexAll re-embeds every eligible record of one kind, paging by BatchSize
// ordered by creation time. onProgress fires after every batch; the ETA is a
// straight extrapolation of elapsed time over processed items. No checkpoint
// is persisted: an interrupted run resumes via UnindexedIDs.
func (s *Service) ReindexAll(ctx context.Context, kind domain.IndexKind, tenantID string, onProgress ProgressFunc) (BatchResult, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	total, err := s.store.Count(ctx, kind, tenantID)
	if err != nil {
		return BatchResult{}, fmt.Errorf("count eligible: %w", err)
	}

	agg := BatchResult{Results: []Result{}}
	if total == 0 {
		return agg, nil
	}
	totalBatches := (total + s.cfg.BatchSize - 1) / s.cfg.BatchSize

	for batch := 0; batch < totalBatches; batch++ {
		ids, err := s.store.PageIDs(ctx, kind, tenantID, batch*s.cfg.BatchSize, s.cfg.BatchSize)
		if err != nil {
			return agg, fmt.Errorf("page %d: %w", batch, err)
		}
		if len(ids) == 0 {
			break
		}

		br := s.IndexBatch(ctx, kind, ids)
		agg.Total += br.Total
		agg.Successful += br.Successful
		agg.Failed += br.Failed
		agg.Results = append(agg.Results, br.Results...)

		if onProgress != nil {
			onProgress(s.progress(agg, total, batch+1, totalBatches, start))
		}
		if err := ctx.Err(); err != nil {
			return agg, err
		}

		if batch+1 < totalBatches && s.cfg.BatchDelay > 0 {
			timer := time.NewTimer(s.cfg.BatchDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return agg, ctx.Err()
			case <-timer.C:
			}
		}
	}

	agg.TotalElapsedMs = time.Since(start).Milliseconds()
	log.Info("reindex complete",
		zap.String("kind", string(kind)),
		zap.String("tenant_id", tenantID),
		zap.Int("total", agg.Total),
		zap.Int("successful", agg.Successful),
		zap.Int("failed", agg.Failed),
		zap.Int64("elapsed_ms", agg.TotalElapsedMs))
	return agg, nil
}

func (s *Service) progress(agg BatchResult, total, currentBatch, totalBatches int, start time.Time) Progress {
	p := Progress{
		Total:        total,
		Processed:    agg.Total,
		Successful:   agg.Successful,
		Failed:       agg.Failed,
		CurrentBatch: currentBatch,
		TotalBatches: totalBatches,
	}
	if p.Processed > 0 {
		elapsed := time.Since(start).Milliseconds()
		p.EstimatedRemainingMs = elapsed / int64(p.Processed) * int64(total-p.Processed)
	}
	return p
}

// UnindexedIDs lists eligible records still missing an embedding, oldest
// first.
func (s *Service) UnindexedIDs(ctx context.Context, kind domain.IndexKind, tenantID string, limit int) ([]string, error) {
	return s.store.UnindexedIDs(ctx, kind, tenantID, limit)
}

// Stats reports embedding coverage for documents and notes independently.
func (s *Service) Stats(ctx context.Context, tenantID string) (StatsByKind, error) {
	var out StatsByKind
	docs, err := s.kindStats(ctx, domain.IndexDocuments, tenantID)
	if err != nil {
		return out, err
	}
	notes, err := s.kindStats(ctx, domain.IndexNotes, tenantID)
	if err != nil {
		return out, err
	}
	out.Documents = docs
	out.Notes = notes
	return out, nil
}

func (s *Service) kindStats(ctx context.Context, kind domain.IndexKind, tenantID string) (Stats, error) {
	total, err := s.store.Count(ctx, kind, tenantID)
	if err != nil {
		return Stats{}, fmt.Errorf("stats %s: %w", kind, err)
	}
	indexed, err := s.store.CountIndexed(ctx, kind, tenantID)
	if err != nil {
		return Stats{}, fmt.Errorf("stats %s: %w", kind, err)
	}
	st := Stats{Total: total, Indexed: indexed, Unindexed: total - indexed}
	metrics.IndexerUnindexed.WithLabelValues(string(kind)).Set(float64(st.Unindexed))
	return st, nil
}
