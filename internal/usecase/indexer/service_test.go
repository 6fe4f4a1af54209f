package indexer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/caseflow/searchd/internal/domain"
)

type mockStore struct {
	items        map[string]domain.Indexable
	fetchErr     map[string]error
	storeErr     error
	total        int
	indexed      int
	countErr     error
	pages        [][]string
	unindexed    []string
	mu           sync.Mutex
	storedKeys   []string
	storedModels []string
}

func (m *mockStore) Indexable(_ context.Context, _ domain.IndexKind, id string) (domain.Indexable, string, error) {
	if err := m.fetchErr[id]; err != nil {
		return domain.Indexable{}, "", err
	}
	item, ok := m.items[id]
	if !ok {
		return domain.Indexable{}, "", domain.ErrDocumentNotFound
	}
	return item, "doc:" + id, nil
}

func (m *mockStore) StoreVector(_ context.Context, key string, _ []float32, model string) error {
	if m.storeErr != nil {
		return m.storeErr
	}
	m.mu.Lock()
	m.storedKeys = append(m.storedKeys, key)
	m.storedModels = append(m.storedModels, model)
	m.mu.Unlock()
	return nil
}

func (m *mockStore) Count(_ context.Context, _ domain.IndexKind, _ string) (int, error) {
	return m.total, m.countErr
}

func (m *mockStore) CountIndexed(_ context.Context, _ domain.IndexKind, _ string) (int, error) {
	return m.indexed, m.countErr
}

func (m *mockStore) UnindexedIDs(_ context.Context, _ domain.IndexKind, _ string, _ int) ([]string, error) {
	return m.unindexed, nil
}

func (m *mockStore) PageIDs(_ context.Context, _ domain.IndexKind, _ string, offset, limit int) ([]string, error) {
	batch := offset / limit
	if batch >= len(m.pages) {
		return nil, nil
	}
	return m.pages[batch], nil
}

type mockEmbedder struct {
	err        error
	calls      atomic.Int32
	inFlight   atomic.Int32
	peak       atomic.Int32
	settleTime time.Duration
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls.Add(1)
	cur := m.inFlight.Add(1)
	for {
		p := m.peak.Load()
		if cur <= p || m.peak.CompareAndSwap(p, cur) {
			break
		}
	}
	if m.settleTime > 0 {
		time.Sleep(m.settleTime)
	}
	m.inFlight.Add(-1)
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Vector: []float32{0.1, 0.2}, Model: "test-model", Dimensions: 2}, nil
}

func item(id, title string) domain.Indexable {
	return domain.Indexable{ID: id, Title: title, Text: "body of " + id}
}

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.ChunkDelay = 0
	cfg.BatchDelay = 0
	cfg.RetryBaseWait = time.Millisecond
	return cfg
}

func TestIndexDocumentSuccess(t *testing.T) {
	store := &mockStore{items: map[string]domain.Indexable{"d1": item("d1", "Contract")}}
	svc := New(store, &mockEmbedder{}, fastConfig())

	res := svc.IndexDocument(context.Background(), "d1")
	if !res.Success || !res.EmbeddingGenerated {
		t.Fatalf("result = %+v, want success with embedding", res)
	}
	if len(store.storedKeys) != 1 || store.storedKeys[0] != "doc:d1" {
		t.Errorf("stored keys = %v", store.storedKeys)
	}
	if store.storedModels[0] != "test-model" {
		t.Errorf("stored model = %q", store.storedModels[0])
	}
}

func TestIndexDocumentNotFound(t *testing.T) {
	svc := New(&mockStore{items: map[string]domain.Indexable{}}, &mockEmbedder{}, fastConfig())

	res := svc.IndexDocument(context.Background(), "missing")
	if res.Success {
		t.Fatal("missing document reported as success")
	}
	if res.Error != "documents not found" {
		t.Errorf("Error = %q", res.Error)
	}
}

func TestIndexNoteEmptyInputSkipsEmbedding(t *testing.T) {
	emb := &mockEmbedder{}
	store := &mockStore{items: map[string]domain.Indexable{"n1": {ID: "n1"}}}
	svc := New(store, emb, fastConfig())

	res := svc.IndexNote(context.Background(), "n1")
	if !res.Success {
		t.Fatalf("result = %+v, want success", res)
	}
	if res.EmbeddingGenerated {
		t.Error("empty input must not generate an embedding")
	}
	if emb.calls.Load() != 0 {
		t.Errorf("embedder called %d times for empty input", emb.calls.Load())
	}
}

func TestIndexDocumentNoEmbedder(t *testing.T) {
	store := &mockStore{items: map[string]domain.Indexable{"d1": item("d1", "Contract")}}
	svc := New(store, nil, fastConfig())

	res := svc.IndexDocument(context.Background(), "d1")
	if res.Success {
		t.Fatal("success without an embedding provider")
	}
	if !strings.Contains(res.Error, "no provider configured") {
		t.Errorf("Error = %q", res.Error)
	}
}

func TestIndexDocumentEmbedFailure(t *testing.T) {
	store := &mockStore{items: map[string]domain.Indexable{"d1": item("d1", "Contract")}}
	svc := New(store, &mockEmbedder{err: domain.ErrEmbeddingProviderError}, fastConfig())

	res := svc.IndexDocument(context.Background(), "d1")
	if res.Success {
		t.Fatal("success despite provider failure")
	}
	if !strings.HasPrefix(res.Error, "embedding generation failed:") {
		t.Errorf("Error = %q", res.Error)
	}
}

func TestIndexDocumentStoreFailure(t *testing.T) {
	store := &mockStore{
		items:    map[string]domain.Indexable{"d1": item("d1", "Contract")},
		storeErr: errors.New("write refused"),
	}
	svc := New(store, &mockEmbedder{}, fastConfig())

	res := svc.IndexDocument(context.Background(), "d1")
	if res.Success {
		t.Fatal("success despite store failure")
	}
	if !strings.HasPrefix(res.Error, "store vector failed:") {
		t.Errorf("Error = %q", res.Error)
	}
}

func TestIndexBatchEmpty(t *testing.T) {
	svc := New(&mockStore{}, &mockEmbedder{}, fastConfig())

	out := svc.IndexBatch(context.Background(), domain.IndexDocuments, nil)
	if out.Total != 0 || out.Successful != 0 || out.Failed != 0 {
		t.Errorf("batch = %+v, want all-zero", out)
	}
	if out.Results == nil || len(out.Results) != 0 {
		t.Errorf("Results = %v, want empty non-nil slice", out.Results)
	}
}

func TestIndexBatchAggregates(t *testing.T) {
	store := &mockStore{items: map[string]domain.Indexable{
		"d1": item("d1", "A"),
		"d2": item("d2", "B"),
	}}
	svc := New(store, &mockEmbedder{}, fastConfig())

	out := svc.IndexBatch(context.Background(), domain.IndexDocuments, []string{"d1", "missing", "d2"})
	if out.Total != 3 || out.Successful != 2 || out.Failed != 1 {
		t.Fatalf("batch = total %d / ok %d / failed %d", out.Total, out.Successful, out.Failed)
	}
	// Results keep the input order regardless of completion order.
	if out.Results[0].ID != "d1" || out.Results[1].ID != "missing" || out.Results[2].ID != "d2" {
		t.Errorf("result order = %v", []string{out.Results[0].ID, out.Results[1].ID, out.Results[2].ID})
	}
	if out.Results[1].Success {
		t.Error("missing id reported as success")
	}
}

func TestIndexBatchBoundsConcurrency(t *testing.T) {
	items := make(map[string]domain.Indexable)
	ids := make([]string, 0, 9)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"} {
		items[id] = item(id, "T "+id)
		ids = append(ids, id)
	}
	emb := &mockEmbedder{settleTime: 10 * time.Millisecond}
	cfg := fastConfig()
	cfg.MaxConcurrent = 3
	svc := New(&mockStore{items: items}, emb, cfg)

	out := svc.IndexBatch(context.Background(), domain.IndexDocuments, ids)
	if out.Successful != 9 {
		t.Fatalf("Successful = %d, want 9", out.Successful)
	}
	if peak := emb.peak.Load(); peak > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", peak)
	}
}

func TestReindexAllSingleBatch(t *testing.T) {
	store := &mockStore{
		items: map[string]domain.Indexable{
			"d1": item("d1", "A"), "d2": item("d2", "B"), "d3": item("d3", "C"),
			"d4": item("d4", "D"), "d5": item("d5", "E"),
		},
		total: 5,
		pages: [][]string{{"d1", "d2", "d3", "d4", "d5"}},
	}
	svc := New(store, &mockEmbedder{}, fastConfig())

	var progress []Progress
	out, err := svc.ReindexAll(context.Background(), domain.IndexDocuments, "t1", func(p Progress) {
		progress = append(progress, p)
	})
	if err != nil {
		t.Fatalf("ReindexAll() error = %v", err)
	}
	if out.Total != 5 || out.Successful != 5 {
		t.Errorf("aggregate = %+v", out)
	}
	// Five documents fit a single batch of ten.
	if len(progress) != 1 {
		t.Fatalf("onProgress fired %d times, want once", len(progress))
	}
	p := progress[0]
	if p.Processed != p.Total || p.Processed != 5 {
		t.Errorf("progress = %+v, want processed == total == 5", p)
	}
	if p.CurrentBatch != 1 || p.TotalBatches != 1 {
		t.Errorf("batch counters = %d/%d", p.CurrentBatch, p.TotalBatches)
	}
	if p.EstimatedRemainingMs != 0 {
		t.Errorf("EstimatedRemainingMs = %d after the final batch", p.EstimatedRemainingMs)
	}
}

func TestReindexAllPagesBatches(t *testing.T) {
	items := make(map[string]domain.Indexable)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		items[id] = item(id, "T "+id)
	}
	store := &mockStore{
		items: items,
		total: 5,
		pages: [][]string{{"a", "b"}, {"c", "d"}, {"e"}},
	}
	cfg := fastConfig()
	cfg.BatchSize = 2
	svc := New(store, &mockEmbedder{}, cfg)

	var progress []Progress
	out, err := svc.ReindexAll(context.Background(), domain.IndexDocuments, "t1", func(p Progress) {
		progress = append(progress, p)
	})
	if err != nil {
		t.Fatalf("ReindexAll() error = %v", err)
	}
	if out.Successful != 5 {
		t.Errorf("Successful = %d, want 5", out.Successful)
	}
	if len(progress) != 3 {
		t.Fatalf("onProgress fired %d times, want 3", len(progress))
	}
	if progress[0].Processed != 2 || progress[1].Processed != 4 || progress[2].Processed != 5 {
		t.Errorf("processed sequence = %d, %d, %d",
			progress[0].Processed, progress[1].Processed, progress[2].Processed)
	}
}

func TestReindexAllEmpty(t *testing.T) {
	svc := New(&mockStore{total: 0}, &mockEmbedder{}, fastConfig())

	called := false
	out, err := svc.ReindexAll(context.Background(), domain.IndexDocuments, "t1", func(Progress) { called = true })
	if err != nil {
		t.Fatalf("ReindexAll() error = %v", err)
	}
	if out.Total != 0 || called {
		t.Errorf("empty reindex = %+v, progress called = %v", out, called)
	}
}

func TestReindexAllCancelled(t *testing.T) {
	items := make(map[string]domain.Indexable)
	for _, id := range []string{"a", "b", "c", "d"} {
		items[id] = item(id, "T "+id)
	}
	store := &mockStore{
		items: items,
		total: 4,
		pages: [][]string{{"a", "b"}, {"c", "d"}},
	}
	cfg := fastConfig()
	cfg.BatchSize = 2

	ctx, cancel := context.WithCancel(context.Background())
	svc := New(store, &mockEmbedder{}, cfg)

	out, err := svc.ReindexAll(ctx, domain.IndexDocuments, "t1", func(Progress) { cancel() })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ReindexAll() error = %v, want context.Canceled", err)
	}
	if out.Total != 2 {
		t.Errorf("partial aggregate total = %d, want first batch only", out.Total)
	}
}

func TestStats(t *testing.T) {
	store := &mockStore{total: 100, indexed: 80}
	svc := New(store, &mockEmbedder{}, fastConfig())

	stats, err := svc.Stats(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Documents.Total != 100 || stats.Documents.Indexed != 80 || stats.Documents.Unindexed != 20 {
		t.Errorf("document stats = %+v", stats.Documents)
	}
	if stats.Notes.Unindexed != 20 {
		t.Errorf("note stats = %+v", stats.Notes)
	}
}

func TestUnindexedIDs(t *testing.T) {
	store := &mockStore{unindexed: []string{"x", "y"}}
	svc := New(store, &mockEmbedder{}, fastConfig())

	ids, err := svc.UnindexedIDs(context.Background(), domain.IndexDocuments, "t1", 10)
	if err != nil {
		t.Fatalf("UnindexedIDs() error = %v", err)
	}
	if len(ids) != 2 || ids[0] != "x" {
		t.Errorf("ids = %v", ids)
	}
}
