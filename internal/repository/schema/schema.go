// Package schema bootstraps the engine's FT indexes at startup: one lexical
// index per row source, and the combined lexical+vector document index.
package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/caseflow/searchd/internal/db"
	"github.com/caseflow/searchd/internal/domain"
	"github.com/caseflow/searchd/internal/repository/keys"
)

// EnsureIndexes creates any missing FT indexes. Existing indexes are left
// untouched; dims must match the configured embedding dimensionality.
func EnsureIndexes(ctx context.Context, store db.IndexManager, dims int) error {
	for _, source := range domain.AllSources {
		if source == domain.SourceDocuments {
			continue
		}
		def := recordIndex(source, dims)
		if err := store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
			return fmt.Errorf("create %s index: %w", source, err)
		}
	}

	def := documentIndex(dims)
	if err := store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create document index: %w", err)
	}
	return nil
}

func recordIndex(source domain.SourceKind, dims int) *db.IndexDefinition {
	def := &db.IndexDefinition{
		Name:     keys.RecordIndex(source),
		Prefixes: []string{keys.RecordPrefix(source)},
		Fields: []db.IndexField{
			{Name: keys.FieldID, Type: db.IndexFieldTag},
			{Name: keys.FieldTenant, Type: db.IndexFieldTag},
			{Name: keys.FieldOwner, Type: db.IndexFieldTag},
			{Name: keys.FieldStatus, Type: db.IndexFieldTag},
			{Name: keys.FieldTags, Type: db.IndexFieldTag},
			{Name: keys.FieldTitle, Type: db.IndexFieldText, Weight: 2},
			{Name: keys.FieldContent, Type: db.IndexFieldText},
			{Name: keys.FieldCreatedAt, Type: db.IndexFieldNumeric, Sortable: true},
			{Name: keys.FieldUpdatedAt, Type: db.IndexFieldNumeric, Sortable: true},
		},
	}
	// Notes carry embeddings; the other row sources are lexical-only.
	if source == domain.SourceNotes {
		def.Fields = append(def.Fields,
			db.IndexField{Name: keys.FieldEmbedded, Type: db.IndexFieldTag},
			db.IndexField{Name: keys.FieldVector, Type: db.IndexFieldVector, VectorDim: dims},
		)
	}
	return def
}

func documentIndex(dims int) *db.IndexDefinition {
	return &db.IndexDefinition{
		Name:     keys.DocumentIndex,
		Prefixes: []string{keys.DocumentPrefix},
		Fields: []db.IndexField{
			{Name: keys.FieldID, Type: db.IndexFieldTag},
			{Name: keys.FieldTenant, Type: db.IndexFieldTag},
			{Name: keys.FieldCase, Type: db.IndexFieldTag},
			{Name: keys.FieldCreator, Type: db.IndexFieldTag},
			{Name: keys.FieldDocType, Type: db.IndexFieldTag},
			{Name: keys.FieldClassification, Type: db.IndexFieldTag},
			{Name: keys.FieldTags, Type: db.IndexFieldTag},
			{Name: keys.FieldLatest, Type: db.IndexFieldTag},
			{Name: keys.FieldDeleted, Type: db.IndexFieldTag},
			{Name: keys.FieldEmbedded, Type: db.IndexFieldTag},
			{Name: keys.FieldTitle, Type: db.IndexFieldText, Weight: 2},
			{Name: keys.FieldDescription, Type: db.IndexFieldText},
			{Name: keys.FieldText, Type: db.IndexFieldText},
			{Name: keys.FieldCreatedAt, Type: db.IndexFieldNumeric, Sortable: true},
			{Name: keys.FieldUpdatedAt, Type: db.IndexFieldNumeric, Sortable: true},
			{Name: keys.FieldVector, Type: db.IndexFieldVector, VectorDim: dims},
		},
	}
}
