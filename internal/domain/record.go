package domain

import (
	"strings"
	"time"
)

// Record is one row-shaped business record returned by a source query
// (lead, contact, account, opportunity, note, conversation, message, ticket).
type Record struct {
	ID        string
	Source    SourceKind
	TenantID  string
	OwnerID   string
	Title     string
	Content   string
	Status    string
	Tags      []string
	Metadata  map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Document is a stored document with its per-record ACL. Only the latest,
// non-deleted version of a document is ever surfaced by the repositories.
type Document struct {
	ID             string
	TenantID       string
	CaseID         string
	CreatorID      string
	Title          string
	Description    string
	Text           string
	DocumentType   string
	Classification string
	Tags           []string
	ACL            []ACLEntry
	HasEmbedding   bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IndexKind selects which embedding corpus an indexer operation targets.
type IndexKind string

const (
	IndexDocuments IndexKind = "documents"
	IndexNotes     IndexKind = "notes"
)

// Indexable carries the text fields of a record destined for embedding.
type Indexable struct {
	ID          string
	Title       string
	Description string
	Text        string
	Tags        []string
}

// EmbeddingInput concatenates the non-empty text parts with blank-line
// separators, producing the single string sent to the embedding provider.
func (i Indexable) EmbeddingInput() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{i.Title, i.Description, i.Text, strings.Join(i.Tags, " ")} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n\n")
}
