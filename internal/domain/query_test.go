package domain

import (
	"errors"
	"strings"
	"testing"
)

func validQuery() Query {
	return Query{TenantID: "t1", UserID: "u1", Text: "invoice dispute"}
}

func TestQueryNormalizeDefaults(t *testing.T) {
	q := validQuery()
	if err := q.Normalize(); err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if q.Mode != ModeHybrid {
		t.Errorf("Mode = %q, want %q", q.Mode, ModeHybrid)
	}
	if q.Limit != DefaultLimit {
		t.Errorf("Limit = %d, want %d", q.Limit, DefaultLimit)
	}
	if q.MinRelevanceScore != DefaultMinScore {
		t.Errorf("MinRelevanceScore = %v, want %v", q.MinRelevanceScore, DefaultMinScore)
	}
	if q.SemanticThreshold != DefaultSemThold {
		t.Errorf("SemanticThreshold = %v, want %v", q.SemanticThreshold, DefaultSemThold)
	}
}

func TestQueryNormalizeRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Query)
	}{
		{"missing tenant", func(q *Query) { q.TenantID = "" }},
		{"missing user", func(q *Query) { q.UserID = "" }},
		{"empty text", func(q *Query) { q.Text = "" }},
		{"blank text", func(q *Query) { q.Text = "   " }},
		{"text too long", func(q *Query) { q.Text = strings.Repeat("a", MaxQueryLen+1) }},
		{"unknown source", func(q *Query) { q.Sources = []SourceKind{"invoices"} }},
		{"unknown mode", func(q *Query) { q.Mode = "fuzzy" }},
		{"limit too large", func(q *Query) { q.Limit = MaxLimit + 1 }},
		{"negative limit", func(q *Query) { q.Limit = -1 }},
		{"negative offset", func(q *Query) { q.Offset = -1 }},
		{"min score out of range", func(q *Query) { q.MinRelevanceScore = 1.5 }},
		{"threshold out of range", func(q *Query) { q.SemanticThreshold = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuery()
			tt.mutate(&q)
			err := q.Normalize()
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Normalize() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestQueryEffectiveSources(t *testing.T) {
	q := validQuery()
	if got := q.EffectiveSources(); len(got) != len(AllSources) {
		t.Errorf("EffectiveSources() = %d sources, want all %d", len(got), len(AllSources))
	}

	q.Sources = []SourceKind{SourceLeads, SourceNotes}
	got := q.EffectiveSources()
	if len(got) != 2 || got[0] != SourceLeads || got[1] != SourceNotes {
		t.Errorf("EffectiveSources() = %v, want explicit list", got)
	}
}

func TestParseSource(t *testing.T) {
	if _, err := ParseSource("leads"); err != nil {
		t.Errorf("ParseSource(leads) error = %v", err)
	}
	if _, err := ParseSource("payroll"); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("ParseSource(payroll) error = %v, want ErrUnknownSource", err)
	}
}
