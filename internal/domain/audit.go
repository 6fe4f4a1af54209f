package domain

import "time"

// AuditEntry is one recorded search for the tenant's audit trail.
// Recording is best-effort: a failed append never fails the search.
type AuditEntry struct {
	TenantID    string
	ActorID     string
	Action      string
	Query       string
	Sources     []SourceKind
	Mode        SearchMode
	ResultCount int
	Elapsed     time.Duration
}
