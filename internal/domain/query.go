package domain

import (
	"fmt"
	"strings"
	"time"
)

// SearchMode selects the retrieval strategy for the documents source.
type SearchMode string

const (
	ModeFulltext SearchMode = "fulltext"
	ModeSemantic SearchMode = "semantic"
	ModeHybrid   SearchMode = "hybrid"
)

// Query limits enforced before any I/O.
const (
	MaxQueryLen     = 1000
	MaxLimit        = 100
	DefaultLimit    = 20
	DefaultMinScore = 0.3
	DefaultSemThold = 0.7
)

// DateRange bounds results by UpdatedAt. Zero bounds are open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Filters narrow a search beyond the free-text match.
type Filters struct {
	DateRange      DateRange
	Status         []string
	Owner          string
	Tags           []string
	Classification []string
	DocumentTypes  []string
}

// Query is one validated search request.
type Query struct {
	TenantID          string
	UserID            string
	Text              string
	Sources           []SourceKind
	Filters           Filters
	CaseID            string
	Mode              SearchMode
	// QueryVector, when set, skips query embedding for semantic search.
	QueryVector       []float32
	Limit             int
	Offset            int
	MinRelevanceScore float64
	SemanticThreshold float64
}

// Normalize applies defaults and validates ranges. Malformed queries are
// rejected here, before the access context is built.
func (q *Query) Normalize() error {
	if q.TenantID == "" {
		return fmt.Errorf("tenant id is required: %w", ErrValidation)
	}
	if q.UserID == "" {
		return fmt.Errorf("user id is required: %w", ErrValidation)
	}
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" || len(q.Text) > MaxQueryLen {
		return fmt.Errorf("query text must be 1-%d characters: %w", MaxQueryLen, ErrValidation)
	}
	for _, s := range q.Sources {
		if _, err := ParseSource(string(s)); err != nil {
			return fmt.Errorf("%v: %w", err, ErrValidation)
		}
	}
	switch q.Mode {
	case "":
		q.Mode = ModeHybrid
	case ModeFulltext, ModeSemantic, ModeHybrid:
	default:
		return fmt.Errorf("unknown search mode %q: %w", q.Mode, ErrValidation)
	}
	switch {
	case q.Limit == 0:
		q.Limit = DefaultLimit
	case q.Limit < 0 || q.Limit > MaxLimit:
		return fmt.Errorf("limit must be 1-%d: %w", MaxLimit, ErrValidation)
	}
	if q.Offset < 0 {
		return fmt.Errorf("offset must be >= 0: %w", ErrValidation)
	}
	switch {
	case q.MinRelevanceScore == 0:
		q.MinRelevanceScore = DefaultMinScore
	case q.MinRelevanceScore < 0 || q.MinRelevanceScore > 1:
		return fmt.Errorf("min relevance score must be in [0,1]: %w", ErrValidation)
	}
	switch {
	case q.SemanticThreshold == 0:
		q.SemanticThreshold = DefaultSemThold
	case q.SemanticThreshold < 0 || q.SemanticThreshold > 1:
		return fmt.Errorf("semantic threshold must be in [0,1]: %w", ErrValidation)
	}
	return nil
}

// EffectiveSources returns the explicit source set, or all sources when the
// query names none.
func (q *Query) EffectiveSources() []SourceKind {
	if len(q.Sources) > 0 {
		return q.Sources
	}
	return AllSources
}
