package indexer

// Result reports one indexing attempt. EmbeddingGenerated distinguishes a
// fresh embedding from an item that had nothing to embed.
type Result struct {
	ID                 string `json:"id"`
	Success            bool   `json:"success"`
	EmbeddingGenerated bool   `json:"embedding_generated"`
	ElapsedMs          int64  `json:"elapsed_ms"`
	Error              string `json:"error,omitempty"`
}

// BatchResult aggregates per-item outcomes of one batch.
type BatchResult struct {
	Total          int      `json:"total"`
	Successful     int      `json:"successful"`
	Failed         int      `json:"failed"`
	Results        []Result `json:"results"`
	TotalElapsedMs int64    `json:"total_elapsed_ms"`
}

// Progress is passed to the reindex callback after every completed batch.
type Progress struct {
	Total                int   `json:"total"`
	Processed            int   `json:"processed"`
	Successful           int   `json:"successful"`
	Failed               int   `json:"failed"`
	CurrentBatch         int   `json:"current_batch"`
	TotalBatches         int   `json:"total_batches"`
	EstimatedRemainingMs int64 `json:"estimated_remaining_ms"`
}

// ProgressFunc observes reindex progress. May be nil.
type ProgressFunc func(Progress)

// Stats summarizes embedding coverage for one item kind.
type Stats struct {
	Total     int `json:"total"`
	Indexed   int `json:"indexed"`
	Unindexed int `json:"unindexed"`
}

// StatsByKind is the full coverage report: documents and notes counted
// independently.
type StatsByKind struct {
	Documents Stats `json:"documents"`
	Notes     Stats `json:"notes"`
}
