// Package search orchestrates a multi-source query: access context
// construction, parallel per-source dispatch, relevance ranking, faceting,
// pagination, and audit.
package search

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/caseflow/searchd/internal/domain"
	"github.com/caseflow/searchd/internal/logger"
	"github.com/caseflow/searchd/internal/metrics"
	"github.com/caseflow/searchd/internal/usecase/relevance"
)

// Service fans a query out to every requested source, merges the hits, and
// ranks them. One source failing drops only that source's contribution.
type Service struct {
	access  AccessResolver
	rows    SourceSearcher
	docs    DocumentSearcher
	audit   AuditSink
	ranking relevance.Config
	clock   func() time.Time
}

func New(access AccessResolver, rows SourceSearcher, docs DocumentSearcher, audit AuditSink, ranking relevance.Config) *Service {
	return &Service{
		access:  access,
		rows:    rows,
		docs:    docs,
		audit:   audit,
		ranking: ranking,
		clock:   time.Now,
	}
}

// WithClock overrides the ranking clock. Test hook.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// Search validates the query, builds the caller's access context once, and
// dispatches to every effective source in parallel. Source failures are
// isolated: the failed source contributes nothing and the rest of the
// response is served. Facets are computed over the full ranked set before
// the page is sliced out.
func (s *Service) Search(ctx context.Context, q *domain.Query) (*domain.Response, error) {
	start := s.clock()

	if err := q.Normalize(); err != nil {
		return nil, err
	}

	actx, err := s.access.BuildContext(ctx, q.UserID, q.TenantID)
	if err != nil {
		return nil, err
	}

	merged := s.dispatch(ctx, &actx, q)

	terms := relevance.Terms(q.Text)
	cfg := s.ranking
	cfg.MinScore = q.MinRelevanceScore
	ranked := relevance.Evaluate(cfg, merged, terms, start)

	facets := buildFacets(ranked, start)
	page := slicePage(ranked, q.Offset, q.Limit)

	elapsed := s.clock().Sub(start)
	s.recordAudit(ctx, q, len(ranked), elapsed)
	metrics.ObserveSearch(string(q.Mode), len(ranked), elapsed)

	return &domain.Response{
		Results:   page,
		Total:     len(ranked),
		Query:     q.Text,
		Mode:      q.Mode,
		ElapsedMs: elapsed.Milliseconds(),
		Facets:    facets,
	}, nil
}

// dispatch runs one goroutine per effective source. Each goroutine reports
// its partial failure through the log and returns nil, so the group never
// cancels sibling searches.
func (s *Service) dispatch(ctx context.Context, actx *domain.AccessContext, q *domain.Query) []domain.Result {
	log := logger.FromContext(ctx)
	sources := q.EffectiveSources()

	g, gctx := errgroup.WithContext(ctx)
	partial := make([][]domain.Result, len(sources))

	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			results, err := s.searchSource(gctx, actx, src, q)
			if err != nil {
				log.Warn("source search failed",
					zap.String("source", string(src)),
					zap.String("tenant_id", q.TenantID),
					zap.Error(err))
				metrics.SearchSourceErrorsTotal.WithLabelValues(string(src)).Inc()
				return nil
			}
			partial[i] = results
			return nil
		})
	}
	_ = g.Wait()

	var merged []domain.Result
	for _, p := range partial {
		merged = append(merged, p...)
	}
	return merged
}

func (s *Service) searchSource(ctx context.Context, actx *domain.AccessContext, src domain.SourceKind, q *domain.Query) ([]domain.Result, error) {
	if src == domain.SourceDocuments {
		return s.docs.Search(ctx, actx, q)
	}
	pred := s.access.Predicate(actx, src.Resource())
	return s.rows.Search(ctx, src, pred, q)
}

// recordAudit is best-effort: a failed write must never fail the search.
func (s *Service) recordAudit(ctx context.Context, q *domain.Query, total int, elapsed time.Duration) {
	if s.audit == nil {
		return
	}
	entry := domain.AuditEntry{
		TenantID:    q.TenantID,
		ActorID:     q.UserID,
		Action:      "search",
		Query:       q.Text,
		Sources:     q.EffectiveSources(),
		Mode:        q.Mode,
		ResultCount: total,
		Elapsed:     elapsed,
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		logger.FromContext(ctx).Warn("audit write failed",
			zap.String("tenant_id", q.TenantID),
			zap.Error(err))
	}
}

func slicePage(ranked []domain.Result, offset, limit int) []domain.Result {
	if offset >= len(ranked) {
		return []domain.Result{}
	}
	end := offset + limit
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[offset:end]
}

// buildFacets counts the full ranked set per source and per recency bucket.
// Results without an UpdatedAt land in the oldest bucket.
func buildFacets(ranked []domain.Result, origin time.Time) domain.Facets {
	f := domain.Facets{Sources: make(map[domain.SourceKind]int)}
	for i := range ranked {
		r := &ranked[i]
		f.Sources[r.Source]++
		switch age := origin.Sub(r.UpdatedAt); {
		case r.UpdatedAt.IsZero():
			f.Recency.Older++
		case age <= 24*time.Hour:
			f.Recency.Last24h++
		case age <= 7*24*time.Hour:
			f.Recency.LastWeek++
		case age <= 30*24*time.Hour:
			f.Recency.LastMonth++
		default:
			f.Recency.Older++
		}
	}
	return f
}
