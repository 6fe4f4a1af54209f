package docsearch

import (
	"context"
	"errors"
	"testing"

	"github.com/caseflow/searchd/internal/domain"
)

type mockRepo struct {
	fulltext     []domain.DocumentHit
	fulltextErr  error
	semantic     []domain.DocumentHit
	semanticErr  error
	docs         []domain.Document
	getManyErr   error
	fulltextHits int
	semanticHits int
	lastIDs      []string
}

func (m *mockRepo) Fulltext(
	_ context.Context, _, _ string, _ domain.Filters, _ string, _ int,
) ([]domain.DocumentHit, error) {
	m.fulltextHits++
	return m.fulltext, m.fulltextErr
}

func (m *mockRepo) Semantic(
	_ context.Context, _, _ string, _ domain.Filters, _ []float32, _ int,
) ([]domain.DocumentHit, error) {
	m.semanticHits++
	return m.semantic, m.semanticErr
}

func (m *mockRepo) GetMany(_ context.Context, _ string, ids []string) ([]domain.Document, error) {
	m.lastIDs = ids
	return m.docs, m.getManyErr
}

type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.called = true
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Vector: m.vec, Model: "test-model"}, nil
}

func testContext() domain.AccessContext {
	return domain.NewAccessContext("u1", "t1", []string{"legal"}, nil)
}

func testQuery(mode domain.SearchMode) *domain.Query {
	q := &domain.Query{
		TenantID: "t1", UserID: "u1", Text: "contract terms", Mode: mode,
	}
	if err := q.Normalize(); err != nil {
		panic(err)
	}
	return q
}

func visibleDoc(id string) domain.Document {
	return domain.Document{
		ID: id, TenantID: "t1", CreatorID: "u1",
		Title: "Contract", Text: "contract terms apply",
	}
}

func TestSearchFulltextNormalizesScores(t *testing.T) {
	repo := &mockRepo{
		fulltext: []domain.DocumentHit{
			{ID: "d1", Score: 8, Excerpt: "top"},
			{ID: "d2", Score: 4, Excerpt: "half"},
		},
		docs: []domain.Document{visibleDoc("d1"), visibleDoc("d2")},
	}
	svc := New(repo, nil, DefaultConfig())

	actx := testContext()
	results, err := svc.Search(context.Background(), &actx, testQuery(domain.ModeFulltext))
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Score != 1 {
		t.Errorf("top score = %v, want 1 after normalization", results[0].Score)
	}
	if results[1].Score != 0.5 {
		t.Errorf("second score = %v, want 0.5", results[1].Score)
	}
}

func TestSearchSemanticAppliesThreshold(t *testing.T) {
	repo := &mockRepo{
		semantic: []domain.DocumentHit{
			{ID: "d1", Score: 0.92},
			{ID: "d2", Score: 0.41}, // below default threshold 0.7
		},
		docs: []domain.Document{visibleDoc("d1")},
	}
	emb := &mockEmbedder{vec: []float32{0.1, 0.2}}
	svc := New(repo, emb, DefaultConfig())

	actx := testContext()
	results, err := svc.Search(context.Background(), &actx, testQuery(domain.ModeSemantic))
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !emb.called {
		t.Error("embedder was not called")
	}
	if len(results) != 1 || results[0].ID != "d1" {
		t.Fatalf("results = %+v, want only d1", results)
	}
	if results[0].SemanticScore != 0.92 {
		t.Errorf("semantic component = %v, want 0.92", results[0].SemanticScore)
	}
}

func TestSearchSemanticFallsBackToFulltextOnEmbedError(t *testing.T) {
	repo := &mockRepo{
		fulltext: []domain.DocumentHit{{ID: "d1", Score: 2}},
		docs:     []domain.Document{visibleDoc("d1")},
	}
	emb := &mockEmbedder{err: errors.New("provider down")}
	svc := New(repo, emb, DefaultConfig())

	actx := testContext()
	results, err := svc.Search(context.Background(), &actx, testQuery(domain.ModeSemantic))
	if err != nil {
		t.Fatalf("Search() error = %v, want fulltext fallback", err)
	}
	if repo.fulltextHits != 1 || repo.semanticHits != 0 {
		t.Errorf("fulltext=%d semantic=%d, want fallback to fulltext only",
			repo.fulltextHits, repo.semanticHits)
	}
	if len(results) != 1 {
		t.Errorf("got %d results from fallback, want 1", len(results))
	}
}

func TestSearchHybridFusesBothLists(t *testing.T) {
	repo := &mockRepo{
		fulltext: []domain.DocumentHit{{ID: "d1", Score: 5}, {ID: "d2", Score: 3}},
		semantic: []domain.DocumentHit{{ID: "d1", Score: 0.9}, {ID: "d3", Score: 0.8}},
		docs:     []domain.Document{visibleDoc("d1"), visibleDoc("d2"), visibleDoc("d3")},
	}
	emb := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, emb, DefaultConfig())

	actx := testContext()
	results, err := svc.Search(context.Background(), &actx, testQuery(domain.ModeHybrid))
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if repo.fulltextHits != 1 || repo.semanticHits != 1 {
		t.Error("hybrid mode should run both retrievals")
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].ID != "d1" {
		t.Errorf("top hybrid result = %s, want consensus hit d1", results[0].ID)
	}
}

func TestSearchHybridNoEmbedderDegradesToFulltext(t *testing.T) {
	repo := &mockRepo{
		fulltext: []domain.DocumentHit{{ID: "d1", Score: 1}},
		docs:     []domain.Document{visibleDoc("d1")},
	}
	svc := New(repo, nil, DefaultConfig())

	actx := testContext()
	results, err := svc.Search(context.Background(), &actx, testQuery(domain.ModeHybrid))
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if repo.semanticHits != 0 {
		t.Error("semantic retrieval should be skipped without an embedder")
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestSearchFiltersInvisibleDocuments(t *testing.T) {
	hidden := domain.Document{
		ID: "d2", TenantID: "t1", CreatorID: "someone-else",
		ACL: []domain.ACLEntry{{
			PrincipalType: domain.PrincipalUser, PrincipalID: "u9",
			AccessLevel: domain.AccessView,
		}},
	}
	shared := domain.Document{
		ID: "d3", TenantID: "t1", CreatorID: "someone-else",
		ACL: []domain.ACLEntry{{
			PrincipalType: domain.PrincipalRole, PrincipalID: "legal",
			AccessLevel: domain.AccessView,
		}},
	}
	repo := &mockRepo{
		fulltext: []domain.DocumentHit{
			{ID: "d1", Score: 3}, {ID: "d2", Score: 2}, {ID: "d3", Score: 1},
		},
		docs: []domain.Document{visibleDoc("d1"), hidden, shared},
	}
	svc := New(repo, nil, DefaultConfig())

	actx := testContext()
	results, err := svc.Search(context.Background(), &actx, testQuery(domain.ModeFulltext))
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (hidden doc dropped)", len(results))
	}
	for _, r := range results {
		if r.ID == "d2" {
			t.Error("document without a matching ACL entry leaked into results")
		}
	}
}

func TestSearchPropagatesRetrievalError(t *testing.T) {
	repoErr := errors.New("index down")
	svc := New(&mockRepo{fulltextErr: repoErr}, nil, DefaultConfig())

	actx := testContext()
	_, err := svc.Search(context.Background(), &actx, testQuery(domain.ModeFulltext))
	if !errors.Is(err, repoErr) {
		t.Errorf("Search() error = %v, want wrapped repo error", err)
	}
}
