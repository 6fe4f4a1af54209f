// Package relevance post-processes a merged result set: score blending,
// recency decay, title boosting, minimum-score filtering, ordering, and
// truncation. Pure functions over the inputs; the decay origin is passed per
// call so long-lived processes never rank against a stale clock.
package relevance

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/caseflow/searchd/internal/domain"
)

// Config holds the blending and boosting weights. Configured once at service
// construction; never overridden per query.
type Config struct {
	LexicalWeight  float64
	SemanticWeight float64
	TitleBoost     float64
	RecencyBoost   float64
	HalfLifeDays   float64
	MinScore       float64
	MaxResults     int
}

// DefaultConfig returns the production blending weights.
func DefaultConfig() Config {
	return Config{
		LexicalWeight:  0.4,
		SemanticWeight: 0.6,
		TitleBoost:     1.5,
		RecencyBoost:   1.2,
		HalfLifeDays:   30,
		MinScore:       domain.DefaultMinScore,
		MaxResults:     100,
	}
}

const millisPerDay = 86400000

// Terms tokenizes a query into lowercased terms longer than two characters,
// excluding noise words from boosting and faceting.
func Terms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := fields[:0]
	for _, f := range fields {
		if len(f) > 2 {
			terms = append(terms, f)
		}
	}
	return terms
}

// Evaluate blends component scores, applies recency decay and title
// boosting, drops results below MinScore, and returns the ranked, capped
// list. The input slice is not mutated; ordering is deterministic for
// identical inputs (stable sort by descending score).
func Evaluate(cfg Config, results []domain.Result, terms []string, origin time.Time) []domain.Result {
	out := make([]domain.Result, 0, len(results))

	for i := range results {
		r := results[i]
		score := blend(cfg, &r)
		score *= recencyFactor(cfg, origin, r.UpdatedAt)
		score *= titleFactor(cfg, r.Title, terms)

		if score > 1 {
			score = 1
		}
		if score < 0 {
			score = 0
		}
		if score < cfg.MinScore {
			continue
		}
		r.Score = score
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if cfg.MaxResults > 0 && len(out) > cfg.MaxResults {
		out = out[:cfg.MaxResults]
	}
	return out
}

// blend combines lexical and semantic component scores with the configured
// weights. Results carrying only one component (or an already-fused hybrid
// score) keep their score untouched.
func blend(cfg Config, r *domain.Result) float64 {
	if r.LexicalScore > 0 && r.SemanticScore > 0 {
		total := cfg.LexicalWeight + cfg.SemanticWeight
		if total > 0 {
			return (cfg.LexicalWeight*r.LexicalScore + cfg.SemanticWeight*r.SemanticScore) / total
		}
	}
	return r.Score
}

// recencyFactor applies an exponential half-life decay to the boost:
// a result updated now gets the full RecencyBoost, one updated long ago
// tends to a factor of 1. Monotonically non-increasing in age.
func recencyFactor(cfg Config, origin time.Time, updatedAt time.Time) float64 {
	if cfg.RecencyBoost <= 1 || cfg.HalfLifeDays <= 0 || updatedAt.IsZero() {
		return 1
	}
	days := float64(origin.UnixMilli()-updatedAt.UnixMilli()) / millisPerDay
	if days < 0 {
		days = 0
	}
	decay := math.Exp(-math.Ln2 * days / cfg.HalfLifeDays)
	return 1 + (cfg.RecencyBoost-1)*decay
}

// titleFactor boosts results whose title contains query terms, scaled by the
// fraction of terms matched.
func titleFactor(cfg Config, title string, terms []string) float64 {
	if cfg.TitleBoost <= 1 || len(terms) == 0 || title == "" {
		return 1
	}
	lower := strings.ToLower(title)
	matched := 0
	for _, t := range terms {
		if strings.Contains(lower, t) {
			matched++
		}
	}
	if matched == 0 {
		return 1
	}
	ratio := float64(matched) / float64(len(terms))
	return 1 + (cfg.TitleBoost-1)*ratio
}
