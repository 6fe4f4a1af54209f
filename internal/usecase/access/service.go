// Package access builds per-query access contexts and answers visibility
// questions: row-level predicates for the source adapters and in-memory ACL
// evaluation for documents.
package access

import (
	"context"
	"fmt"

	"github.com/caseflow/searchd/internal/domain"
)

// Service resolves access contexts and evaluates access rules.
type Service struct {
	rbac  RBACReader
	teams TeamResolver
}

// New creates an access service. teams may be nil; the manager role then
// grants nothing beyond its explicit permissions.
func New(rbac RBACReader, teams TeamResolver) *Service {
	return &Service{rbac: rbac, teams: teams}
}

// BuildContext resolves a user's effective roles and permissions into an
// immutable AccessContext. Permissions are the union of role-granted
// permissions and active direct grants. Storage errors propagate.
func (s *Service) BuildContext(ctx context.Context, userID, tenantID string) (domain.AccessContext, error) {
	roles, err := s.rbac.UserRoles(ctx, tenantID, userID)
	if err != nil {
		return domain.AccessContext{}, fmt.Errorf("resolve roles: %w", err)
	}

	seen := make(map[domain.Permission]bool)
	var perms []domain.Permission
	for _, role := range roles {
		rolePerms, err := s.rbac.RolePermissions(ctx, tenantID, role)
		if err != nil {
			return domain.AccessContext{}, fmt.Errorf("expand role %s: %w", role, err)
		}
		for _, p := range rolePerms {
			if !seen[p] {
				seen[p] = true
				perms = append(perms, p)
			}
		}
	}

	grants, err := s.rbac.UserGrants(ctx, tenantID, userID)
	if err != nil {
		return domain.AccessContext{}, fmt.Errorf("resolve grants: %w", err)
	}
	for _, p := range grants {
		if !seen[p] {
			seen[p] = true
			perms = append(perms, p)
		}
	}

	return domain.NewAccessContext(userID, tenantID, roles, perms), nil
}

// CanAccess decides whether the context may perform action on a resource.
// Admins pass unconditionally; otherwise an explicit permission or ownership
// grants. Managers fall through to the team resolver when one is configured.
func (s *Service) CanAccess(
	ctx context.Context, actx *domain.AccessContext,
	resource domain.Resource, ownerID string, action domain.Action,
) bool {
	if actx.IsAdmin() {
		return true
	}
	if actx.HasPermission(domain.Permission{Resource: resource, Action: action}) {
		return true
	}
	if ownerID != "" && ownerID == actx.UserID() {
		return true
	}
	if actx.HasRole(domain.RoleManager) && s.teams != nil {
		same, err := s.teams.SameTeam(ctx, actx.TenantID(), actx.UserID(), ownerID)
		if err == nil && same {
			return true
		}
	}
	return false
}

// Predicate builds the tenant-scoped pre-filter for one source. The scope
// narrows to owned-only unless the context holds tenant-wide read or admin.
func (s *Service) Predicate(actx *domain.AccessContext, resource domain.Resource) domain.AccessPredicate {
	pred := domain.AccessPredicate{TenantID: actx.TenantID()}
	if actx.IsAdmin() {
		return pred
	}
	if actx.HasPermission(domain.Permission{Resource: resource, Action: domain.ActionRead}) {
		return pred
	}
	pred.OwnerID = actx.UserID()
	return pred
}

// DocumentVisible reports whether a document is visible to the context:
// any matching viewable ACL entry, creator, or admin.
func DocumentVisible(actx *domain.AccessContext, doc *domain.Document) bool {
	if actx.IsAdmin() || doc.CreatorID == actx.UserID() {
		return true
	}
	roles := actx.Roles()
	for _, e := range doc.ACL {
		if e.Viewable() && e.Matches(actx.UserID(), actx.TenantID(), roles) {
			return true
		}
	}
	return false
}

// DocumentPrincipals splits a document's ACL into the viewable and editable
// principal id sets, creator included in both.
func DocumentPrincipals(doc *domain.Document) domain.ResultACL {
	acl := domain.ResultACL{
		ViewableBy: []string{doc.CreatorID},
		EditableBy: []string{doc.CreatorID},
	}
	for _, e := range doc.ACL {
		if e.Viewable() {
			acl.ViewableBy = append(acl.ViewableBy, e.PrincipalID)
		}
		if e.Editable() {
			acl.EditableBy = append(acl.EditableBy, e.PrincipalID)
		}
	}
	return acl
}
