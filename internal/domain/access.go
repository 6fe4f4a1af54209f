package domain

// AccessContext is the resolved, immutable snapshot of a user's roles and
// permissions for one query. Built once per search; never mutated after.
type AccessContext struct {
	userID      string
	tenantID    string
	roles       map[string]bool
	permissions map[Permission]bool
}

// NewAccessContext builds an access context from resolved roles and permissions.
func NewAccessContext(userID, tenantID string, roles []string, perms []Permission) AccessContext {
	rs := make(map[string]bool, len(roles))
	for _, r := range roles {
		rs[r] = true
	}
	ps := make(map[Permission]bool, len(perms))
	for _, p := range perms {
		ps[p] = true
	}
	return AccessContext{userID: userID, tenantID: tenantID, roles: rs, permissions: ps}
}

// UserID returns the requesting user id.
func (a *AccessContext) UserID() string { return a.userID }

// TenantID returns the tenant scope of the context.
func (a *AccessContext) TenantID() string { return a.tenantID }

// HasRole reports whether the user holds the named role.
func (a *AccessContext) HasRole(role string) bool { return a.roles[role] }

// HasPermission reports whether the user holds the typed permission.
func (a *AccessContext) HasPermission(p Permission) bool { return a.permissions[p] }

// Roles returns the role names held by the user.
func (a *AccessContext) Roles() []string {
	out := make([]string, 0, len(a.roles))
	for r := range a.roles {
		out = append(out, r)
	}
	return out
}

// IsAdmin reports whether the context carries the tenant-admin role.
func (a *AccessContext) IsAdmin() bool { return a.roles[RoleAdmin] }

// AccessPredicate is a storage-level pre-filter handed to source adapters.
// Access filtering for row-shaped sources happens at the query boundary;
// document ACLs are evaluated in memory after fetch.
type AccessPredicate struct {
	TenantID string
	// OwnerID narrows the query to records owned by this user when set.
	// Empty means full tenant read.
	OwnerID string
}
