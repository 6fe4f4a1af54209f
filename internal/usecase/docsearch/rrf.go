package docsearch

import "sort"

// rrfK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const rrfK = 60

// fused accumulates a document's weighted RRF contributions from the two
// ranked lists. Components keep the original scores for diagnostics.
type fused struct {
	id       string
	score    float64
	lexical  float64
	semantic float64
	excerpt  string
}

// fuseRRF merges the fulltext and semantic rankings. A result at 0-based
// rank r contributes weight/(k+r+1); documents present in both lists sum
// both contributions, so consensus hits rise naturally. The fused score is
// rescaled by min(1, score*10) for display and the list truncated to limit.
// Fusion depends only on rank order within each list, never on score
// magnitudes or arrival order.
func fuseRRF(fulltext, semantic []fusedInput, lexWeight, semWeight float64, limit int) []fused {
	merged := make(map[string]*fused, len(fulltext)+len(semantic))

	for rank, h := range fulltext {
		merged[h.id] = &fused{
			id:      h.id,
			score:   lexWeight / float64(rrfK+rank+1),
			lexical: h.score,
			excerpt: h.excerpt,
		}
	}

	for rank, h := range semantic {
		contribution := semWeight / float64(rrfK+rank+1)
		if existing, ok := merged[h.id]; ok {
			existing.score += contribution
			existing.semantic = h.score
		} else {
			merged[h.id] = &fused{id: h.id, score: contribution, semantic: h.score}
		}
	}

	out := make([]fused, 0, len(merged))
	for _, f := range merged {
		f.score = min(1, f.score*10)
		out = append(out, *f)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].id < out[j].id // deterministic order for equal scores
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// fusedInput is one entry of a ranked input list.
type fusedInput struct {
	id      string
	score   float64
	excerpt string
}
