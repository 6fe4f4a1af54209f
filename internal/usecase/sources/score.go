package sources

import "strings"

// score weights: how much of the lexical score comes from term coverage vs
// how early the terms appear in the content.
const (
	termWeight     = 0.7
	positionWeight = 0.3
)

// Score computes the lexical relevance of content for a query.
// The query splits into whitespace terms (no stemming); each term found in
// the lowercased content counts a match plus a position bonus that rewards
// earlier occurrences. The result is clamped to [0,1].
func Score(query, content string) float64 {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 || content == "" {
		return 0
	}

	lower := strings.ToLower(content)
	contentLen := float64(len(lower))

	matched := 0
	bonusSum := 0.0
	for _, term := range terms {
		idx := strings.Index(lower, term)
		if idx < 0 {
			continue
		}
		matched++
		bonusSum += 1 - float64(idx)/contentLen
	}

	total := float64(len(terms))
	termScore := float64(matched) / total
	positionBonus := bonusSum / total

	s := termScore*termWeight + positionBonus*positionWeight
	return min(1, s)
}
