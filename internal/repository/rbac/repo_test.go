package rbac

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/caseflow/searchd/internal/domain"
	"github.com/caseflow/searchd/internal/repository/keys"
)

type mockStore struct {
	hashes map[string]map[string]string
	err    error
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hashes[key], nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestUserRoles_FiltersExpired(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ms := &mockStore{hashes: map[string]map[string]string{
		keys.UserRoles("t1", "u1"): {
			"sales":   "0",
			"support": "2000000000",
			"interim": "1000",
			"broken":  "not-a-number",
		},
	}}
	repo := New(ms).WithClock(fixedClock(now))

	roles, err := repo.UserRoles(context.Background(), "t1", "u1")
	if err != nil {
		t.Fatalf("UserRoles() error = %v", err)
	}
	sort.Strings(roles)
	if len(roles) != 2 || roles[0] != "sales" || roles[1] != "support" {
		t.Errorf("roles = %v, want active roles only", roles)
	}
}

func TestUserRoles_StorageError(t *testing.T) {
	repo := New(&mockStore{err: errors.New("connection reset")})

	_, err := repo.UserRoles(context.Background(), "t1", "u1")
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Errorf("UserRoles() error = %v, want ErrStorageUnavailable", err)
	}
}

func TestRolePermissions_SkipsMalformed(t *testing.T) {
	ms := &mockStore{hashes: map[string]map[string]string{
		keys.RolePermissions("t1", "sales"): {
			"lead:read":       "",
			"contact:read":    "",
			"garbage":         "",
			"spacecraft:read": "",
		},
	}}
	repo := New(ms)

	perms, err := repo.RolePermissions(context.Background(), "t1", "sales")
	if err != nil {
		t.Fatalf("RolePermissions() error = %v", err)
	}
	if len(perms) != 2 {
		t.Errorf("perms = %v, want the two well-formed entries", perms)
	}
	for _, p := range perms {
		if p.Action != domain.ActionRead {
			t.Errorf("unexpected permission %s", p)
		}
	}
}

func TestUserGrants(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ms := &mockStore{hashes: map[string]map[string]string{
		keys.UserGrants("t1", "u1"): {
			"document:write": "1|0",
			"lead:delete":    "1|2000000000",
			"ticket:read":    "1|1000",    // expired
			"note:read":      "0|0",       // revoked
			"account:read":   "malformed", // no separator
		},
	}}
	repo := New(ms).WithClock(fixedClock(now))

	perms, err := repo.UserGrants(context.Background(), "t1", "u1")
	if err != nil {
		t.Fatalf("UserGrants() error = %v", err)
	}
	if len(perms) != 2 {
		t.Fatalf("grants = %v, want 2 active grants", perms)
	}
	got := map[string]bool{}
	for _, p := range perms {
		got[p.String()] = true
	}
	if !got["document:write"] || !got["lead:delete"] {
		t.Errorf("grants = %v", perms)
	}
}
