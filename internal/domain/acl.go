package domain

// PrincipalType scopes an ACL entry to a user, a role, or the whole tenant.
type PrincipalType string

const (
	PrincipalUser   PrincipalType = "USER"
	PrincipalRole   PrincipalType = "ROLE"
	PrincipalTenant PrincipalType = "TENANT"
)

// AccessLevel is the capability an ACL entry grants on a document.
type AccessLevel string

const (
	AccessView    AccessLevel = "VIEW"
	AccessComment AccessLevel = "COMMENT"
	AccessEdit    AccessLevel = "EDIT"
	AccessAdmin   AccessLevel = "ADMIN"
)

// ACLEntry is one principal grant attached to a document version.
type ACLEntry struct {
	PrincipalType PrincipalType `json:"principal_type"`
	PrincipalID   string        `json:"principal_id"`
	AccessLevel   AccessLevel   `json:"access_level"`
}

// Viewable reports whether the entry's level allows reading the document.
func (e ACLEntry) Viewable() bool {
	switch e.AccessLevel {
	case AccessView, AccessComment, AccessEdit, AccessAdmin:
		return true
	}
	return false
}

// Editable reports whether the entry's level allows modifying the document.
func (e ACLEntry) Editable() bool {
	return e.AccessLevel == AccessEdit || e.AccessLevel == AccessAdmin
}

// Matches reports whether the entry applies to the given principal ids,
// scoped by the entry's principal type.
func (e ACLEntry) Matches(userID, tenantID string, roles []string) bool {
	switch e.PrincipalType {
	case PrincipalUser:
		return e.PrincipalID == userID
	case PrincipalTenant:
		return e.PrincipalID == tenantID
	case PrincipalRole:
		for _, r := range roles {
			if e.PrincipalID == r {
				return true
			}
		}
	}
	return false
}
