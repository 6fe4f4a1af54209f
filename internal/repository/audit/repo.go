// Package audit appends search-trail entries to a per-tenant stream.
// Failures here are the caller's to swallow: search correctness never
// depends on the trail.
package audit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/caseflow/searchd/internal/domain"
	"github.com/caseflow/searchd/internal/repository/keys"
)

// store is the consumer interface for the audit sink.
type store interface {
	StreamAdd(ctx context.Context, key string, fields map[string]string) error
}

// Repo implements the orchestrator's audit sink contract.
type Repo struct {
	store store
}

// New creates an audit repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Record appends one entry to the tenant's audit stream.
func (r *Repo) Record(ctx context.Context, e domain.AuditEntry) error {
	sources := make([]string, len(e.Sources))
	for i, s := range e.Sources {
		sources[i] = string(s)
	}

	fields := map[string]string{
		"event_id": uuid.NewString(),
		"actor":    e.ActorID,
		"action":   e.Action,
		"query":    e.Query,
		"sources":  strings.Join(sources, ","),
		"mode":     string(e.Mode),
		"results":  strconv.Itoa(e.ResultCount),
		"elapsed":  strconv.FormatInt(e.Elapsed.Milliseconds(), 10),
		"at":       strconv.FormatInt(time.Now().UnixMilli(), 10),
	}

	if err := r.store.StreamAdd(ctx, keys.AuditStream(e.TenantID), fields); err != nil {
		return fmt.Errorf("audit record: %w", err)
	}
	return nil
}
