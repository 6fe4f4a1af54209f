package searchd

import (
	"time"

	"github.com/caseflow/searchd/internal/domain"
	indexeruc "github.com/caseflow/searchd/internal/usecase/indexer"
)

// SearchMode selects the document retrieval strategy.
type SearchMode string

const (
	ModeFulltext SearchMode = "fulltext"
	ModeSemantic SearchMode = "semantic"
	ModeHybrid   SearchMode = "hybrid"
)

// Source identifies one searchable corpus.
type Source string

const (
	SourceLeads         Source = "leads"
	SourceContacts      Source = "contacts"
	SourceAccounts      Source = "accounts"
	SourceOpportunities Source = "opportunities"
	SourceDocuments     Source = "documents"
	SourceNotes         Source = "notes"
	SourceConversations Source = "conversations"
	SourceMessages      Source = "messages"
	SourceTickets       Source = "tickets"
)

// IndexKind selects the embedding corpus for indexer operations.
type IndexKind string

const (
	IndexDocuments IndexKind = "documents"
	IndexNotes     IndexKind = "notes"
)

// Filters narrow a search beyond the free-text match.
type Filters struct {
	DateFrom       time.Time
	DateTo         time.Time
	Status         []string
	Owner          string
	Tags           []string
	Classification []string
	DocumentTypes  []string
}

// Query is one search request. TenantID, UserID, and Text are required.
type Query struct {
	TenantID          string
	UserID            string
	Text              string
	Sources           []Source
	Filters           Filters
	CaseID            string
	Mode              SearchMode
	Limit             int
	Offset            int
	MinRelevanceScore float64
	SemanticThreshold float64
}

// ResultACL lists the principals that may view or edit a document result.
type ResultACL struct {
	ViewableBy []string
	EditableBy []string
}

// Result is a single search hit.
type Result struct {
	ID        string
	Source    Source
	Title     string
	Content   string
	Snippet   string
	Score     float64
	Metadata  map[string]string
	ACL       ResultACL
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecencyFacet buckets the full ranked result set by UpdatedAt age.
type RecencyFacet struct {
	Last24h   int
	LastWeek  int
	LastMonth int
	Older     int
}

// Facets are aggregate counts over the full ranked set.
type Facets struct {
	Sources map[Source]int
	Recency RecencyFacet
}

// Response is the full search output.
type Response struct {
	Results   []Result
	Total     int
	Query     string
	Mode      SearchMode
	ElapsedMs int64
	Facets    Facets
}

// EmbeddingResult carries an embedding vector and its provenance.
type EmbeddingResult struct {
	Vector       []float32
	Model        string
	Dimensions   int
	PromptTokens int
	TotalTokens  int
}

// IndexResult reports one indexing attempt.
type IndexResult struct {
	ID                 string
	Success            bool
	EmbeddingGenerated bool
	ElapsedMs          int64
	Error              string
}

// BatchIndexResult aggregates per-item outcomes of one batch.
type BatchIndexResult struct {
	Total          int
	Successful     int
	Failed         int
	Results        []IndexResult
	TotalElapsedMs int64
}

// ReindexProgress is passed to the reindex callback after every batch.
type ReindexProgress struct {
	Total                int
	Processed            int
	Successful           int
	Failed               int
	CurrentBatch         int
	TotalBatches         int
	EstimatedRemainingMs int64
}

// IndexStats summarizes embedding coverage for one corpus.
type IndexStats struct {
	Total     int
	Indexed   int
	Unindexed int
}

// IndexStatsByKind reports documents and notes coverage independently.
type IndexStatsByKind struct {
	Documents IndexStats
	Notes     IndexStats
}

func toInternalQuery(q Query) domain.Query {
	out := domain.Query{
		TenantID:          q.TenantID,
		UserID:            q.UserID,
		Text:              q.Text,
		CaseID:            q.CaseID,
		Mode:              domain.SearchMode(q.Mode),
		Limit:             q.Limit,
		Offset:            q.Offset,
		MinRelevanceScore: q.MinRelevanceScore,
		SemanticThreshold: q.SemanticThreshold,
		Filters: domain.Filters{
			DateRange:      domain.DateRange{From: q.Filters.DateFrom, To: q.Filters.DateTo},
			Status:         q.Filters.Status,
			Owner:          q.Filters.Owner,
			Tags:           q.Filters.Tags,
			Classification: q.Filters.Classification,
			DocumentTypes:  q.Filters.DocumentTypes,
		},
	}
	for _, s := range q.Sources {
		out.Sources = append(out.Sources, domain.SourceKind(s))
	}
	return out
}

func fromResponse(r *domain.Response) Response {
	out := Response{
		Results:   make([]Result, len(r.Results)),
		Total:     r.Total,
		Query:     r.Query,
		Mode:      SearchMode(r.Mode),
		ElapsedMs: r.ElapsedMs,
		Facets: Facets{
			Sources: make(map[Source]int, len(r.Facets.Sources)),
			Recency: RecencyFacet(r.Facets.Recency),
		},
	}
	for src, n := range r.Facets.Sources {
		out.Facets.Sources[Source(src)] = n
	}
	for i := range r.Results {
		res := &r.Results[i]
		out.Results[i] = Result{
			ID:        res.ID,
			Source:    Source(res.Source),
			Title:     res.Title,
			Content:   res.Content,
			Snippet:   res.Snippet,
			Score:     res.Score,
			Metadata:  res.Metadata,
			ACL:       ResultACL(res.ACL),
			CreatedAt: res.CreatedAt,
			UpdatedAt: res.UpdatedAt,
		}
	}
	return out
}

func fromIndexResult(r indexeruc.Result) IndexResult {
	return IndexResult(r)
}

func fromBatchResult(r indexeruc.BatchResult) BatchIndexResult {
	out := BatchIndexResult{
		Total:          r.Total,
		Successful:     r.Successful,
		Failed:         r.Failed,
		Results:        make([]IndexResult, len(r.Results)),
		TotalElapsedMs: r.TotalElapsedMs,
	}
	for i, item := range r.Results {
		out.Results[i] = fromIndexResult(item)
	}
	return out
}
