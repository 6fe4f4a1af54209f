// Package docsearch orchestrates document retrieval, the only source with
// both a lexical and a vector index: fulltext ranking, semantic KNN with a
// similarity threshold, and hybrid fusion via weighted Reciprocal Rank
// Fusion. ACL filtering happens after ranking, on the re-fetched candidates.
package docsearch

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/caseflow/searchd/internal/domain"
	"github.com/caseflow/searchd/internal/logger"
	"github.com/caseflow/searchd/internal/usecase/access"
	"github.com/caseflow/searchd/internal/usecase/sources"
)

// Config holds the fusion weights for hybrid mode.
type Config struct {
	LexicalWeight  float64
	SemanticWeight float64
}

// DefaultConfig returns the production fusion weights.
func DefaultConfig() Config {
	return Config{LexicalWeight: 0.4, SemanticWeight: 0.6}
}

// Service handles document search across fulltext, semantic, and hybrid modes.
type Service struct {
	repo  Repository
	embed Embedder
	cfg   Config
}

// New creates a document search service. embed may be nil when no embedding
// provider is configured; semantic and hybrid queries then degrade to
// fulltext retrieval.
func New(repo Repository, embed Embedder, cfg Config) *Service {
	return &Service{repo: repo, embed: embed, cfg: cfg}
}

// Search runs the query's retrieval mode over the document corpus and
// returns access-filtered results. Candidates that fail the ACL check drop
// out of the page; the page is not backfilled.
func (s *Service) Search(
	ctx context.Context, actx *domain.AccessContext, q *domain.Query,
) ([]domain.Result, error) {
	var (
		hits []fused
		err  error
	)

	switch q.Mode {
	case domain.ModeFulltext:
		hits, err = s.searchFulltext(ctx, q)
	case domain.ModeSemantic:
		hits, err = s.searchSemantic(ctx, q)
	case domain.ModeHybrid:
		hits, err = s.searchHybrid(ctx, q)
	default:
		return nil, fmt.Errorf("unsupported search mode %q: %w", q.Mode, domain.ErrValidation)
	}
	if err != nil {
		return nil, err
	}

	return s.materialize(ctx, actx, q, hits)
}

// searchFulltext ranks documents lexically, rank descending. Engine scores
// are normalized against the top hit so downstream blending sees [0,1].
func (s *Service) searchFulltext(ctx context.Context, q *domain.Query) ([]fused, error) {
	raw, err := s.repo.Fulltext(ctx, q.TenantID, q.CaseID, q.Filters, q.Text, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("fulltext search: %w", err)
	}

	normalizeScores(raw)

	hits := make([]fused, len(raw))
	for i, h := range raw {
		hits[i] = fused{id: h.ID, score: h.Score, lexical: h.Score, excerpt: h.Excerpt}
	}
	return hits, nil
}

// searchSemantic embeds the query and ranks by cosine similarity, keeping
// only hits at or above the query's semantic threshold. A provider failure
// falls back to fulltext retrieval; it never surfaces an empty result. This
// is a hard contract, not a convenience.
func (s *Service) searchSemantic(ctx context.Context, q *domain.Query) ([]fused, error) {
	vector, err := s.queryVector(ctx, q)
	if err != nil {
		logger.FromContext(ctx).Warn("query embedding failed, falling back to fulltext",
			zap.Error(err))
		return s.searchFulltext(ctx, q)
	}

	raw, err := s.repo.Semantic(ctx, q.TenantID, q.CaseID, q.Filters, vector, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}

	hits := make([]fused, 0, len(raw))
	for _, h := range raw {
		if h.Score < q.SemanticThreshold {
			continue
		}
		hits = append(hits, fused{id: h.ID, score: h.Score, semantic: h.Score})
	}
	return hits, nil
}

// searchHybrid runs fulltext and semantic retrieval concurrently and fuses
// the rankings with weighted RRF. When the query cannot be embedded the
// whole search degrades to fulltext.
func (s *Service) searchHybrid(ctx context.Context, q *domain.Query) ([]fused, error) {
	vector, err := s.queryVector(ctx, q)
	if err != nil {
		logger.FromContext(ctx).Warn("query embedding failed, falling back to fulltext",
			zap.Error(err))
		return s.searchFulltext(ctx, q)
	}

	var (
		lexHits []domain.DocumentHit
		semHits []domain.DocumentHit
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lexHits, err = s.repo.Fulltext(gctx, q.TenantID, q.CaseID, q.Filters, q.Text, q.Limit)
		if err != nil {
			return fmt.Errorf("fulltext search: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		semHits, err = s.repo.Semantic(gctx, q.TenantID, q.CaseID, q.Filters, vector, q.Limit)
		if err != nil {
			return fmt.Errorf("semantic search: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	normalizeScores(lexHits)

	lex := make([]fusedInput, len(lexHits))
	for i, h := range lexHits {
		lex[i] = fusedInput{id: h.ID, score: h.Score, excerpt: h.Excerpt}
	}
	sem := make([]fusedInput, 0, len(semHits))
	for _, h := range semHits {
		if h.Score < q.SemanticThreshold {
			continue
		}
		sem = append(sem, fusedInput{id: h.ID, score: h.Score})
	}

	return fuseRRF(lex, sem, s.cfg.LexicalWeight, s.cfg.SemanticWeight, q.Limit), nil
}

// queryVector returns the query embedding, preferring one supplied with the
// query over a provider round-trip.
func (s *Service) queryVector(ctx context.Context, q *domain.Query) ([]float32, error) {
	if len(q.QueryVector) > 0 {
		return q.QueryVector, nil
	}
	if s.embed == nil {
		return nil, fmt.Errorf("no embedding provider configured: %w", domain.ErrEmbeddingProviderError)
	}
	res, err := s.embed.Embed(ctx, q.Text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return res.Vector, nil
}

// materialize re-fetches the ranked candidates with their ACL entries,
// filters per-document visibility, and builds final results.
func (s *Service) materialize(
	ctx context.Context, actx *domain.AccessContext,
	q *domain.Query, hits []fused,
) ([]domain.Result, error) {
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]string, len(hits))
	byID := make(map[string]*fused, len(hits))
	for i := range hits {
		ids[i] = hits[i].id
		byID[hits[i].id] = &hits[i]
	}

	docs, err := s.repo.GetMany(ctx, q.TenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}

	results := make([]domain.Result, 0, len(hits))
	for i := range docs {
		doc := &docs[i]
		if !access.DocumentVisible(actx, doc) {
			continue
		}
		h, ok := byID[doc.ID]
		if !ok {
			continue
		}

		snippet := h.excerpt
		if snippet == "" {
			snippet = sources.Snippet(doc.Text, q.Text)
		}

		results = append(results, domain.Result{
			ID:            doc.ID,
			Source:        domain.SourceDocuments,
			Title:         doc.Title,
			Content:       doc.Description,
			Snippet:       snippet,
			Score:         h.score,
			LexicalScore:  h.lexical,
			SemanticScore: h.semantic,
			Metadata: map[string]string{
				"document_type":  doc.DocumentType,
				"classification": doc.Classification,
				"case_id":        doc.CaseID,
			},
			ACL:       access.DocumentPrincipals(doc),
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		})
	}
	return results, nil
}

// normalizeScores maps engine rank scores onto [0,1] against the top hit,
// preserving relative order.
func normalizeScores(hits []domain.DocumentHit) {
	var top float64
	for _, h := range hits {
		if h.Score > top {
			top = h.Score
		}
	}
	if top <= 0 {
		return
	}
	for i := range hits {
		hits[i].Score /= top
	}
}
