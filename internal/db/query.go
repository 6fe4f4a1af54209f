package db

import "strings"

// Query-string helpers used by the repository layer when composing FT.SEARCH
// expressions. Values are escaped here once, at the only place raw user input
// meets the engine syntax.

// engine syntax characters that must be backslash-escaped inside tokens.
const specialChars = `,.<>{}[]"':;!@#$%^&*()-+=~|/\ `

// EscapeToken escapes a single value for use inside a query expression.
func EscapeToken(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(specialChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TagFilter builds an exact-match tag clause: @field:{a|b|c}.
// Returns "" when no values are given.
func TagFilter(field string, values ...string) string {
	if len(values) == 0 {
		return ""
	}
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = EscapeToken(v)
	}
	return "@" + field + ":{" + strings.Join(escaped, "|") + "}"
}

// TextMatch builds a ranked text clause over a field from free-text terms.
// Terms are OR-ed so partial matches still rank.
func TextMatch(field, text string) string {
	terms := strings.Fields(text)
	if len(terms) == 0 {
		return ""
	}
	escaped := make([]string, len(terms))
	for i, t := range terms {
		escaped[i] = EscapeToken(t)
	}
	return "@" + field + ":(" + strings.Join(escaped, "|") + ")"
}

// NumericRange builds an inclusive range clause; use "-inf"/"+inf" for open ends.
func NumericRange(field, from, to string) string {
	if from == "" {
		from = "-inf"
	}
	if to == "" {
		to = "+inf"
	}
	return "@" + field + ":[" + from + " " + to + "]"
}

// Not negates a clause. Records missing the field entirely also match,
// which is what coverage queries over optional fields need.
func Not(clause string) string {
	if clause == "" {
		return ""
	}
	return "-" + clause
}

// And joins non-empty clauses into a conjunction, "*" when all are empty.
func And(clauses ...string) string {
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		if c != "" {
			parts = append(parts, c)
		}
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}
