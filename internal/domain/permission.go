package domain

import (
	"fmt"
	"strings"
)

// Resource is a permission-bearing record kind.
type Resource string

const (
	ResourceLead         Resource = "lead"
	ResourceContact      Resource = "contact"
	ResourceAccount      Resource = "account"
	ResourceOpportunity  Resource = "opportunity"
	ResourceDocument     Resource = "document"
	ResourceNote         Resource = "note"
	ResourceConversation Resource = "conversation"
	ResourceMessage      Resource = "message"
	ResourceTicket       Resource = "ticket"
)

// Action is a capability on a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

// Permission is a typed (resource, action) capability. Permissions are stored
// and transported as "resource:action" strings; the typed pair is the only
// form used for checks.
type Permission struct {
	Resource Resource
	Action   Action
}

// String serializes the permission to its storage form.
func (p Permission) String() string {
	return string(p.Resource) + ":" + string(p.Action)
}

var knownResources = map[Resource]bool{
	ResourceLead: true, ResourceContact: true, ResourceAccount: true,
	ResourceOpportunity: true, ResourceDocument: true, ResourceNote: true,
	ResourceConversation: true, ResourceMessage: true, ResourceTicket: true,
}

var knownActions = map[Action]bool{
	ActionRead: true, ActionWrite: true, ActionDelete: true,
}

// ParsePermission parses a "resource:action" string into a typed permission.
func ParsePermission(s string) (Permission, error) {
	res, act, ok := strings.Cut(s, ":")
	if !ok {
		return Permission{}, fmt.Errorf("malformed permission %q: %w", s, ErrValidation)
	}
	p := Permission{Resource: Resource(res), Action: Action(act)}
	if !knownResources[p.Resource] {
		return Permission{}, fmt.Errorf("unknown permission resource %q: %w", res, ErrValidation)
	}
	if !knownActions[p.Action] {
		return Permission{}, fmt.Errorf("unknown permission action %q: %w", act, ErrValidation)
	}
	return p, nil
}

// Role names with built-in semantics. Any other role only contributes the
// permissions granted to it.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)
