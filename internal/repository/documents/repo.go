// Package documents queries the document corpus, the only source with both a
// lexical and a vector index. Ranking happens on the full candidate set; the
// per-record ACL is re-fetched and evaluated in memory by the caller.
package documents

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

// store is the consumer interface for document queries.
type store interface {
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// Repo implements the document search usecase's storage contract.
type Repo struct {
	store store
}

// New creates a documents repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Fulltext runs a ranked lexical search, rank descending, restricted to the
// latest non-deleted version, tenant- and optionally case-scoped.
func (r *Repo) Fulltext(
	ctx context.Context, tenantID, caseID string,
	filters domain.Filters, queryText string, limit int,
) ([]domain.DocumentHit, error) {
	text := db.TextMatch(keys.FieldTitle, queryText)
	body := db.TextMatch(keys.FieldText, queryText)
	desc := db.TextMatch(keys.FieldDescription, queryText)
	if text == "" {
		return nil, nil
	}
	match := "(" + text + "|" + body + "|" + desc + ")"

	res, err := r.store.SearchText(ctx, &db.TextQuery{
		Index:      keys.DocumentIndex,
		Query:      db.And(append(baseClauses(tenantID, caseID, filters), match)...),
		Limit:      limit,
		WithScores: true,
		Summarize:  keys.FieldText,
		ReturnFields: []string{
			keys.FieldID, keys.FieldText,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fulltext documents: %w", err)
	}

	hits := make([]domain.DocumentHit, 0, len(res.Entries))
	for _, e := range res.Entries {
		hits = append(hits, domain.DocumentHit{
			ID:      e.Fields[keys.FieldID],
			Score:   e.Score,
			Excerpt: e.Fields[keys.FieldText],
		})
	}
	return hits, nil
}

// Semantic runs a nearest-neighbor search over stored document vectors.
// Only embedded documents participate; scores are cosine similarity.
func (r *Repo) Semantic(
	ctx context.Context, tenantID, caseID string,
	filters domain.Filters, vector []float32, k int,
) ([]domain.DocumentHit, error) {
	clauses := append(baseClauses(tenantID, caseID, filters),
		db.TagFilter(keys.FieldEmbedded, "1"))

	res, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		Index:        keys.DocumentIndex,
		Filter:       db.And(clauses...),
		Vector:       vector,
		K:            k,
		ReturnFields: []string{keys.FieldID},
	})
	if err != nil {
		return nil, fmt.Errorf("semantic documents: %w", err)
	}

	hits := make([]domain.DocumentHit, 0, len(res.Entries))
	for _, e := range res.Entries {
		hits = append(hits, domain.DocumentHit{ID: e.Fields[keys.FieldID], Score: e.Score})
	}
	return hits, nil
}

// GetMany re-fetches documents with their ACL entries, preserving input
// order. Missing ids are skipped, not errored: a document deleted between
// ranking and fetch simply drops out of the page.
func (r *Repo) GetMany(ctx context.Context, tenantID string, ids []string) ([]domain.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	hashKeys := make([]string, len(ids))
	for i, id := range ids {
		hashKeys[i] = keys.Document(tenantID, id)
	}

	hashes, err := r.store.HGetAllMulti(ctx, hashKeys)
	if err != nil {
		return nil, fmt.Errorf("get documents: %w", err)
	}

	docs := make([]domain.Document, 0, len(hashes))
	for _, h := range hashes {
		if len(h) == 0 {
			continue
		}
		docs = append(docs, documentFromHash(h))
	}
	return docs, nil
}

func baseClauses(tenantID, caseID string, filters domain.Filters) []string {
	clauses := []string{
		db.TagFilter(keys.FieldTenant, tenantID),
		db.TagFilter(keys.FieldLatest, "1"),
		db.TagFilter(keys.FieldDeleted, "0"),
	}
	if caseID != "" {
		clauses = append(clauses, db.TagFilter(keys.FieldCase, caseID))
	}
	if len(filters.Classification) > 0 {
		clauses = append(clauses, db.TagFilter(keys.FieldClassification, filters.Classification...))
	}
	if len(filters.DocumentTypes) > 0 {
		clauses = append(clauses, db.TagFilter(keys.FieldDocType, filters.DocumentTypes...))
	}
	if len(filters.Tags) > 0 {
		clauses = append(clauses, db.TagFilter(keys.FieldTags, filters.Tags...))
	}
	if !filters.DateRange.From.IsZero() || !filters.DateRange.To.IsZero() {
		from, to := "", ""
		if !filters.DateRange.From.IsZero() {
			from = strconv.FormatInt(filters.DateRange.From.UnixMilli(), 10)
		}
		if !filters.DateRange.To.IsZero() {
			to = strconv.FormatInt(filters.DateRange.To.UnixMilli(), 10)
		}
		clauses = append(clauses, db.NumericRange(keys.FieldUpdatedAt, from, to))
	}
	return clauses
}

func documentFromHash(fields map[string]string) domain.Document {
	doc := domain.Document{
		ID:             fields[keys.FieldID],
		TenantID:       fields[keys.FieldTenant],
		CaseID:         fields[keys.FieldCase],
		CreatorID:      fields[keys.FieldCreator],
		Title:          fields[keys.FieldTitle],
		Description:    fields[keys.FieldDescription],
		Text:           fields[keys.FieldText],
		DocumentType:   fields[keys.FieldDocType],
		Classification: fields[keys.FieldClassification],
		HasEmbedding:   fields[keys.FieldEmbedded] == "1",
		CreatedAt:      millisField(fields, keys.FieldCreatedAt),
		UpdatedAt:      millisField(fields, keys.FieldUpdatedAt),
	}
	if tags := fields[keys.FieldTags]; tags != "" {
		doc.Tags = strings.Split(tags, keys.TagSeparator)
	}
	if raw := fields[keys.FieldACL]; raw != "" {
		var entries []domain.ACLEntry
		if json.Unmarshal([]byte(raw), &entries) == nil {
			doc.ACL = entries
		}
	}
	return doc
}

func millisField(fields map[string]string, name string) time.Time {
	ms, err := strconv.ParseInt(fields[name], 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
