package search

import (
	"context"

	"github.com/caseflow/searchd/internal/domain"
)

// AccessResolver builds per-query access contexts and source predicates.
type AccessResolver interface {
	BuildContext(ctx context.Context, userID, tenantID string) (domain.AccessContext, error)
	Predicate(actx *domain.AccessContext, resource domain.Resource) domain.AccessPredicate
}

// SourceSearcher queries one row-shaped source under an access predicate.
type SourceSearcher interface {
	Search(
		ctx context.Context, source domain.SourceKind,
		pred domain.AccessPredicate, q *domain.Query,
	) ([]domain.Result, error)
}

// DocumentSearcher runs the hybrid document search with ACL filtering.
type DocumentSearcher interface {
	Search(ctx context.Context, actx *domain.AccessContext, q *domain.Query) ([]domain.Result, error)
}

// AuditSink records completed searches. Failures are swallowed by the caller.
type AuditSink interface {
	Record(ctx context.Context, e domain.AuditEntry) error
}
