package sources

import (
	"strings"
	"testing"
)

func TestSnippetMidContent(t *testing.T) {
	content := strings.Repeat("a", 100) + "needle" + strings.Repeat("b", 300)
	got := Snippet(content, "needle")

	if !strings.HasPrefix(got, Ellipsis) {
		t.Errorf("snippet should start with ellipsis, got %q", got[:10])
	}
	if !strings.HasSuffix(got, Ellipsis) {
		t.Errorf("snippet should end with ellipsis")
	}
	if !strings.Contains(got, "needle") {
		t.Errorf("snippet should contain the match, got %q", got)
	}
	// 50 back + 150 ahead plus two ellipsis markers.
	want := snippetLookback + snippetLookahead + 2*len(Ellipsis)
	if len(got) != want {
		t.Errorf("snippet length = %d, want %d", len(got), want)
	}
}

func TestSnippetMatchNearStart(t *testing.T) {
	content := "needle " + strings.Repeat("x", 300)
	got := Snippet(content, "needle")
	if strings.HasPrefix(got, Ellipsis) {
		t.Error("snippet at content start should not begin with ellipsis")
	}
	if !strings.HasSuffix(got, Ellipsis) {
		t.Error("truncated tail should end with ellipsis")
	}
}

func TestSnippetShortContent(t *testing.T) {
	content := "short note about a needle"
	if got := Snippet(content, "needle"); got != content {
		t.Errorf("snippet = %q, want full content", got)
	}
}

func TestSnippetNoMatchUsesHead(t *testing.T) {
	content := strings.Repeat("word ", 60)
	got := Snippet(content, "absent")
	if !strings.HasPrefix(got, "word") {
		t.Errorf("no-match snippet should start at content head, got %q", got[:10])
	}
	if !strings.HasSuffix(got, Ellipsis) {
		t.Error("truncated no-match snippet should end with ellipsis")
	}
}

func TestSnippetUsesEarliestTerm(t *testing.T) {
	content := strings.Repeat("x", 200) + " beta " + strings.Repeat("y", 200) + " alpha"
	got := Snippet(content, "alpha beta")
	if !strings.Contains(got, "beta") {
		t.Errorf("snippet should window the earliest matching term, got %q", got)
	}
}

func TestSnippetEmptyContent(t *testing.T) {
	if got := Snippet("", "query"); got != "" {
		t.Errorf("Snippet on empty content = %q, want empty", got)
	}
}
