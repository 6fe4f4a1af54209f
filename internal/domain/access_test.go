package domain

import "testing"

func TestAccessContext(t *testing.T) {
	readLeads := Permission{Resource: ResourceLead, Action: ActionRead}
	actx := NewAccessContext("u1", "t1", []string{"sales_rep"}, []Permission{readLeads})

	if !actx.HasRole("sales_rep") {
		t.Error("HasRole(sales_rep) = false, want true")
	}
	if actx.HasRole("admin") {
		t.Error("HasRole(admin) = true for non-admin context")
	}
	if actx.IsAdmin() {
		t.Error("IsAdmin() = true for non-admin context")
	}
	if !actx.HasPermission(readLeads) {
		t.Error("HasPermission(lead:read) = false, want true")
	}
	if actx.HasPermission(Permission{Resource: ResourceLead, Action: ActionDelete}) {
		t.Error("HasPermission(lead:delete) = true without grant")
	}
}

func TestACLEntryMatches(t *testing.T) {
	tests := []struct {
		name  string
		entry ACLEntry
		want  bool
	}{
		{"user match", ACLEntry{PrincipalType: PrincipalUser, PrincipalID: "u1", AccessLevel: AccessView}, true},
		{"user mismatch", ACLEntry{PrincipalType: PrincipalUser, PrincipalID: "u2", AccessLevel: AccessView}, false},
		{"role match", ACLEntry{PrincipalType: PrincipalRole, PrincipalID: "legal", AccessLevel: AccessView}, true},
		{"role mismatch", ACLEntry{PrincipalType: PrincipalRole, PrincipalID: "finance", AccessLevel: AccessView}, false},
		{"tenant match", ACLEntry{PrincipalType: PrincipalTenant, PrincipalID: "t1", AccessLevel: AccessView}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.Matches("u1", "t1", []string{"legal"}); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestACLEntryLevels(t *testing.T) {
	if !(ACLEntry{AccessLevel: AccessComment}).Viewable() {
		t.Error("COMMENT should be viewable")
	}
	if (ACLEntry{AccessLevel: AccessComment}).Editable() {
		t.Error("COMMENT should not be editable")
	}
	if !(ACLEntry{AccessLevel: AccessAdmin}).Editable() {
		t.Error("ADMIN should be editable")
	}
	if (ACLEntry{AccessLevel: "UNKNOWN"}).Viewable() {
		t.Error("unknown level should not be viewable")
	}
}

func TestIndexableEmbeddingInput(t *testing.T) {
	item := Indexable{
		Title:       "Service agreement",
		Description: "",
		Text:        "Full body text",
		Tags:        []string{"contract", "legal"},
	}
	got := item.EmbeddingInput()
	want := "Service agreement\n\nFull body text\n\ncontract legal"
	if got != want {
		t.Errorf("EmbeddingInput() = %q, want %q", got, want)
	}

	if (Indexable{}).EmbeddingInput() != "" {
		t.Error("EmbeddingInput() on empty item should be empty")
	}
}
