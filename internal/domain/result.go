package domain

import "time"

// ResultACL lists the principals that may view or edit a document result.
// Empty for row-shaped sources, which are filtered at the query boundary.
type ResultACL struct {
	ViewableBy []string `json:"viewable_by"`
	EditableBy []string `json:"editable_by"`
}

// Result is a single search hit. Produced fresh per query, never persisted.
type Result struct {
	ID            string            `json:"id"`
	Source        SourceKind        `json:"source"`
	Title         string            `json:"title"`
	Content       string            `json:"content"`
	Snippet       string            `json:"snippet"`
	Score         float64           `json:"relevance_score"`
	LexicalScore  float64           `json:"-"`
	SemanticScore float64           `json:"-"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	ACL           ResultACL         `json:"acl"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// DocumentHit is one ranked document candidate before ACL filtering.
// Score is the engine's lexical rank for fulltext retrieval and cosine
// similarity for semantic retrieval.
type DocumentHit struct {
	ID      string
	Score   float64
	Excerpt string
}

// RecencyFacet buckets the full ranked result set by UpdatedAt age.
type RecencyFacet struct {
	Last24h   int `json:"last_24h"`
	LastWeek  int `json:"last_week"`
	LastMonth int `json:"last_month"`
	Older     int `json:"older"`
}

// Facets are aggregate counts over the full ranked set, not just the page.
type Facets struct {
	Sources map[SourceKind]int `json:"sources"`
	Recency RecencyFacet       `json:"recency"`
}

// Response is the search service boundary output.
type Response struct {
	Results   []Result   `json:"results"`
	Total     int        `json:"total"`
	Query     string     `json:"query"`
	Mode      SearchMode `json:"search_mode"`
	ElapsedMs int64      `json:"elapsed_ms"`
	Facets    Facets     `json:"facets"`
}
