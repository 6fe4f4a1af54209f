// Package records queries row-shaped business records (leads, contacts,
// accounts, opportunities, notes, conversations, messages, tickets) through
// the engine's per-source FT indexes. The access predicate is applied here,
// at the query boundary, not after fetch.
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caseflow/searchd/internal/db"
	"github.com/caseflow/searchd/internal/domain"
	"github.com/caseflow/searchd/internal/repository/keys"
)

// PrefilterLimit caps the raw candidate fetch per source, ordered by recency.
const PrefilterLimit = 100

// store is the consumer interface for record queries.
type store interface {
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Repo implements the source adapters' record reader contract.
type Repo struct {
	store store
}

// New creates a records repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Find returns up to PrefilterLimit records of one source matching the access
// predicate, the keyword query, and the structural filters, newest first.
func (r *Repo) Find(
	ctx context.Context, source domain.SourceKind,
	pred domain.AccessPredicate, queryText string, filters domain.Filters,
) ([]domain.Record, error) {
	clauses := []string{
		db.TagFilter(keys.FieldTenant, pred.TenantID),
	}
	if pred.OwnerID != "" {
		clauses = append(clauses, db.TagFilter(keys.FieldOwner, pred.OwnerID))
	}
	if filters.Owner != "" {
		clauses = append(clauses, db.TagFilter(keys.FieldOwner, filters.Owner))
	}
	if len(filters.Status) > 0 {
		clauses = append(clauses, db.TagFilter(keys.FieldStatus, filters.Status...))
	}
	if len(filters.Tags) > 0 {
		clauses = append(clauses, db.TagFilter(keys.FieldTags, filters.Tags...))
	}
	if rangeClause := dateClause(filters.DateRange); rangeClause != "" {
		clauses = append(clauses, rangeClause)
	}
	if m := textClause(queryText); m != "" {
		clauses = append(clauses, m)
	}

	res, err := r.store.SearchText(ctx, &db.TextQuery{
		Index:    keys.RecordIndex(source),
		Query:    db.And(clauses...),
		Limit:    PrefilterLimit,
		SortBy:   keys.FieldUpdatedAt,
		SortDesc: true,
	})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", source, err)
	}

	records := make([]domain.Record, 0, len(res.Entries))
	for _, e := range res.Entries {
		records = append(records, recordFromHash(source, e.Fields))
	}
	return records, nil
}

// textClause matches the query terms against title or content.
func textClause(queryText string) string {
	title := db.TextMatch(keys.FieldTitle, queryText)
	content := db.TextMatch(keys.FieldContent, queryText)
	if title == "" {
		return ""
	}
	return "(" + title + "|" + content + ")"
}

func dateClause(dr domain.DateRange) string {
	if dr.From.IsZero() && dr.To.IsZero() {
		return ""
	}
	from, to := "", ""
	if !dr.From.IsZero() {
		from = strconv.FormatInt(dr.From.UnixMilli(), 10)
	}
	if !dr.To.IsZero() {
		to = strconv.FormatInt(dr.To.UnixMilli(), 10)
	}
	return db.NumericRange(keys.FieldUpdatedAt, from, to)
}

func recordFromHash(source domain.SourceKind, fields map[string]string) domain.Record {
	rec := domain.Record{
		ID:        fields[keys.FieldID],
		Source:    source,
		TenantID:  fields[keys.FieldTenant],
		OwnerID:   fields[keys.FieldOwner],
		Title:     fields[keys.FieldTitle],
		Content:   fields[keys.FieldContent],
		Status:    fields[keys.FieldStatus],
		CreatedAt: millisField(fields, keys.FieldCreatedAt),
		UpdatedAt: millisField(fields, keys.FieldUpdatedAt),
	}
	if tags := fields[keys.FieldTags]; tags != "" {
		rec.Tags = strings.Split(tags, keys.TagSeparator)
	}
	if raw := fields[keys.FieldMetadata]; raw != "" {
		var meta map[string]string
		if json.Unmarshal([]byte(raw), &meta) == nil {
			rec.Metadata = meta
		}
	}
	return rec
}

func millisField(fields map[string]string, name string) time.Time {
	ms, err := strconv.ParseInt(fields[name], 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
