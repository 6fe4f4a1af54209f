package redis

import (
	"context"
	"strconv"

	"github.com/caseflow/searchd/internal/db"
)

// CreateIndex creates an FT index from the given definition.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	args := []string{def.Name, "ON", "HASH", "PREFIX", strconv.Itoa(len(def.Prefixes))}
	args = append(args, def.Prefixes...)
	args = append(args, "SCHEMA")

	for i := range def.Fields {
		f := &def.Fields[i]
		args = append(args, f.Name)
		switch f.Type {
		case db.IndexFieldTag:
			args = append(args, "TAG")
		case db.IndexFieldText:
			args = append(args, "TEXT")
			if f.Weight > 0 {
				args = append(args, "WEIGHT", strconv.FormatFloat(f.Weight, 'f', -1, 64))
			}
		case db.IndexFieldNumeric:
			args = append(args, "NUMERIC")
		case db.IndexFieldVector:
			args = append(args, "VECTOR", "HNSW", "6",
				"TYPE", "FLOAT32",
				"DIM", strconv.Itoa(f.VectorDim),
				"DISTANCE_METRIC", "COSINE",
			)
		}
		if f.Sortable && f.Type != db.IndexFieldVector {
			args = append(args, "SORTABLE")
		}
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// IndexExists probes index existence via FT.INFO.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}
