package sources

import "strings"

// Snippet window around the earliest term match.
const (
	snippetLookback  = 50
	snippetLookahead = 150
)

// Ellipsis marks a truncated snippet edge.
const Ellipsis = "..."

// Snippet builds a highlighted excerpt: a window of [match-50, match+150]
// characters around the earliest occurrence of any query term, clamped to
// the content bounds, with ellipsis markers on truncated edges. When no term
// matches, the head of the content is used.
func Snippet(content, query string) string {
	if content == "" {
		return ""
	}

	lower := strings.ToLower(content)
	matchIdx := -1
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if idx := strings.Index(lower, term); idx >= 0 && (matchIdx < 0 || idx < matchIdx) {
			matchIdx = idx
		}
	}
	if matchIdx < 0 {
		matchIdx = 0
	}

	start := matchIdx - snippetLookback
	if start < 0 {
		start = 0
	}
	end := matchIdx + snippetLookahead
	if end > len(content) {
		end = len(content)
	}

	snippet := content[start:end]
	if start > 0 {
		snippet = Ellipsis + snippet
	}
	if end < len(content) {
		snippet += Ellipsis
	}
	return snippet
}
