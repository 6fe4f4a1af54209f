// Package rbac reads role assignments and permission grants from storage.
// Expiry filtering happens here so the access usecase only ever sees active
// assignments.
package rbac

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caseflow/searchd/internal/domain"
	"github.com/caseflow/searchd/internal/repository/keys"
)

// store is the consumer interface for RBAC reads.
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo implements the access usecase's RBAC reader contract.
type Repo struct {
	store store
	now   func() time.Time
}

// New creates an RBAC repository.
func New(s store) *Repo {
	return &Repo{store: s, now: time.Now}
}

// WithClock overrides the clock, for tests.
func (r *Repo) WithClock(now func() time.Time) *Repo {
	r.now = now
	return r
}

// UserRoles returns the user's active (non-expired) role names.
// Hash layout: field=role name, value=unix expiry seconds, "0" = no expiry.
func (r *Repo) UserRoles(ctx context.Context, tenantID, userID string) ([]string, error) {
	m, err := r.store.HGetAll(ctx, keys.UserRoles(tenantID, userID))
	if err != nil {
		return nil, fmt.Errorf("get user roles: %w: %v", domain.ErrStorageUnavailable, err)
	}

	nowUnix := r.now().Unix()
	roles := make([]string, 0, len(m))
	for role, expiry := range m {
		if active(expiry, nowUnix) {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

// RolePermissions expands a role to its granted permission set.
// Hash layout: field="resource:action", value unused.
func (r *Repo) RolePermissions(ctx context.Context, tenantID, role string) ([]domain.Permission, error) {
	m, err := r.store.HGetAll(ctx, keys.RolePermissions(tenantID, role))
	if err != nil {
		return nil, fmt.Errorf("get role permissions: %w: %v", domain.ErrStorageUnavailable, err)
	}

	perms := make([]domain.Permission, 0, len(m))
	for raw := range m {
		p, err := domain.ParsePermission(raw)
		if err != nil {
			// Skip malformed entries rather than failing the whole
			// context build; an operator typo must not lock users out.
			continue
		}
		perms = append(perms, p)
	}
	return perms, nil
}

// UserGrants returns the user's active direct permission grants.
// Hash layout: field="resource:action", value="{granted}|{expiry}" where
// granted is 1/0 and expiry is unix seconds, 0 = no expiry.
func (r *Repo) UserGrants(ctx context.Context, tenantID, userID string) ([]domain.Permission, error) {
	m, err := r.store.HGetAll(ctx, keys.UserGrants(tenantID, userID))
	if err != nil {
		return nil, fmt.Errorf("get user grants: %w: %v", domain.ErrStorageUnavailable, err)
	}

	nowUnix := r.now().Unix()
	perms := make([]domain.Permission, 0, len(m))
	for raw, val := range m {
		granted, expiry, ok := strings.Cut(val, "|")
		if !ok || granted != "1" || !active(expiry, nowUnix) {
			continue
		}
		p, err := domain.ParsePermission(raw)
		if err != nil {
			continue
		}
		perms = append(perms, p)
	}
	return perms, nil
}

// active reports whether an expiry value (unix seconds, "0" = never) is
// still in the future.
func active(expiry string, nowUnix int64) bool {
	exp, err := strconv.ParseInt(expiry, 10, 64)
	if err != nil {
		return false
	}
	return exp == 0 || exp > nowUnix
}
