package redis

import (
	"context"

	"github.com/caseflow/searchd/internal/db"
)

// StreamAdd appends an entry to a stream with an auto-generated id.
func (s *Store) StreamAdd(ctx context.Context, key string, fields map[string]string) error {
	cmd := s.b().Xadd().Key(key).Id("*").FieldValue()
	for k, v := range fields {
		cmd = cmd.FieldValue(k, v)
	}
	if err := s.do(ctx, cmd.Build()).Error(); err != nil {
		return &db.Error{Op: db.OpXAdd, Err: err}
	}
	return nil
}
