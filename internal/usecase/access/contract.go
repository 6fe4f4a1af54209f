package access

import (
	"context"

	"github.com/caseflow/searchd/internal/domain"
)

// RBACReader resolves role assignments and permission grants. Expired
// assignments are already filtered out by the implementation.
type RBACReader interface {
	UserRoles(ctx context.Context, tenantID, userID string) ([]string, error)
	RolePermissions(ctx context.Context, tenantID, role string) ([]domain.Permission, error)
	UserGrants(ctx context.Context, tenantID, userID string) ([]domain.Permission, error)
}

// TeamResolver answers whether a manager's team contains a resource owner.
// Team-scoped visibility is an extension point: without a resolver the
// manager path denies, it never guesses.
type TeamResolver interface {
	SameTeam(ctx context.Context, tenantID, managerID, ownerID string) (bool, error)
}
