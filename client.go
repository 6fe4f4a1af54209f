// Package searchd is the embedded client for the permissioned retrieval
// engine: multi-source search with access control plus the embedding
// indexer, wired directly over a Valkey/Redis connection without the HTTP
// layer.
package searchd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/caseflow/searchd/internal/db/redis"
	"github.com/caseflow/searchd/internal/domain"
	auditrepo "github.com/caseflow/searchd/internal/repository/audit"
	documentsrepo "github.com/caseflow/searchd/internal/repository/documents"
	rbacrepo "github.com/caseflow/searchd/internal/repository/rbac"
	recordsrepo "github.com/caseflow/searchd/internal/repository/records"
	"github.com/caseflow/searchd/internal/repository/schema"
	vectorsrepo "github.com/caseflow/searchd/internal/repository/vectors"
	openaiEmb "github.com/caseflow/searchd/internal/transport/openai"
	accessuc "github.com/caseflow/searchd/internal/usecase/access"
	docsearchuc "github.com/caseflow/searchd/internal/usecase/docsearch"
	indexeruc "github.com/caseflow/searchd/internal/usecase/indexer"
	"github.com/caseflow/searchd/internal/usecase/relevance"
	searchuc "github.com/caseflow/searchd/internal/usecase/search"
	sourcesuc "github.com/caseflow/searchd/internal/usecase/sources"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the searchd embedded entry point.
type Client struct {
	store   *dbRedis.Store
	search  *searchuc.Service
	indexer *indexeruc.Service
}

// New creates a Client and connects to the database. The search indexes are
// created on first connect if missing.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		dimensions:     1536,
		lexicalWeight:  0.4,
		semanticWeight: 0.6,
		titleBoost:     1.5,
		recencyBoost:   1.2,
		halfLifeDays:   30,
		maxResults:     100,
		logger:         zap.NewNop(),
	}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("searchd: database address required (use WithValkey or WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("searchd: connect: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("searchd: database not ready: %w", err)
	}
	if err := schema.EnsureIndexes(ctx, store, cfg.dimensions); err != nil {
		store.Close()
		return nil, fmt.Errorf("searchd: ensure indexes: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store *dbRedis.Store, cfg *clientConfig) *Client {
	var embedder domain.Embedder
	switch {
	case cfg.embedder != nil:
		embedder = embedderAdapter{inner: cfg.embedder}
	case cfg.openAIKey != "":
		embedder = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.openAIKey,
			BaseURL:    cfg.openAIBaseURL,
			Model:      cfg.openAIModel,
			Dimensions: cfg.dimensions,
			Provider:   "openai",
			Logger:     cfg.logger,
		})
	}

	accessSvc := accessuc.New(rbacrepo.New(store), nil)
	rowAdapter := sourcesuc.NewAdapter(recordsrepo.New(store))
	docSvc := docsearchuc.New(documentsrepo.New(store), embedder, docsearchuc.Config{
		LexicalWeight:  cfg.lexicalWeight,
		SemanticWeight: cfg.semanticWeight,
	})

	ranking := relevance.Config{
		LexicalWeight:  cfg.lexicalWeight,
		SemanticWeight: cfg.semanticWeight,
		TitleBoost:     cfg.titleBoost,
		RecencyBoost:   cfg.recencyBoost,
		HalfLifeDays:   cfg.halfLifeDays,
		MinScore:       domain.DefaultMinScore,
		MaxResults:     cfg.maxResults,
	}

	return &Client{
		store:   store,
		search:  searchuc.New(accessSvc, rowAdapter, docSvc, auditrepo.New(store), ranking),
		indexer: indexeruc.New(vectorsrepo.New(store), embedder, indexeruc.DefaultConfig()),
	}
}

// Search runs one permission-filtered query across the requested sources.
func (c *Client) Search(ctx context.Context, q Query) (Response, error) {
	iq := toInternalQuery(q)
	resp, err := c.search.Search(ctx, &iq)
	if err != nil {
		return Response{}, fmt.Errorf("search: %w", err)
	}
	return fromResponse(resp), nil
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// Close releases the database connection.
func (c *Client) Close() {
	c.store.Close()
}
