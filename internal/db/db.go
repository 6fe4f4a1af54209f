// Package db defines the storage-engine facade. The engine must provide
// tenant-scoped predicate filtering, ranked lexical search with highlighted
// excerpts, nearest-neighbor vector search, and plain hash CRUD; everything
// above this package is storage-agnostic.
package db

import (
	"context"
	"time"
)

// Store is the storage facade combining all sub-interfaces.
// Consumers depend on the narrow sub-interfaces, not on Store.
type Store interface {
	Pinger
	HashStore
	IndexManager
	Searcher
	StreamAppender
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks storage connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore provides hash-based record CRUD.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// IndexManager provides FT index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher provides ranked search over FT indexes.
type Searcher interface {
	SearchText(ctx context.Context, q *TextQuery) (*SearchResult, error)
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// StreamAppender appends entries to an append-only stream (audit trail).
type StreamAppender interface {
	StreamAdd(ctx context.Context, key string, fields map[string]string) error
}

// TextQuery is the input for ranked or filtered lexical search.
type TextQuery struct {
	Index string
	// Query is a complete engine query expression, already escaped by the
	// repository layer.
	Query        string
	Offset       int
	Limit        int
	ReturnFields []string
	// SortBy orders results by a sortable field instead of rank when set.
	SortBy   string
	SortDesc bool
	// WithScores requests the engine's lexical relevance score per hit.
	WithScores bool
	// Summarize requests a highlighted excerpt of the named field, stored
	// back under the same field name in the hit.
	Summarize string
}

// KNNQuery is the input for nearest-neighbor vector search.
type KNNQuery struct {
	Index string
	// Filter is a pre-filter expression; empty means match-all.
	Filter       string
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single hit. Score is the lexical rank score for text
// queries and cosine similarity (already converted from distance) for KNN.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
