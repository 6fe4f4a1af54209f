package sources

import (
	"strings"
	"testing"
)

func TestScoreAllTermsAtStart(t *testing.T) {
	// Every term matches at position 0 of a long content: term score 1,
	// position bonus ~1, total ~1.
	got := Score("alpha", "alpha"+strings.Repeat(" filler", 50))
	if got < 0.99 || got > 1 {
		t.Errorf("Score = %v, want ~1", got)
	}
}

func TestScoreNoMatch(t *testing.T) {
	if got := Score("alpha", "completely unrelated text"); got != 0 {
		t.Errorf("Score = %v, want 0", got)
	}
}

func TestScorePartialMatch(t *testing.T) {
	full := Score("alpha beta", "alpha beta and more")
	half := Score("alpha gamma", "alpha beta and more")
	if half >= full {
		t.Errorf("partial match %v should score below full match %v", half, full)
	}
	if half == 0 {
		t.Error("partial match should still score above zero")
	}
}

func TestScoreEarlierMatchScoresHigher(t *testing.T) {
	early := Score("target", "target "+strings.Repeat("x", 200))
	late := Score("target", strings.Repeat("x ", 100)+"target")
	if early <= late {
		t.Errorf("early match %v should outrank late match %v", early, late)
	}
}

func TestScoreCaseInsensitive(t *testing.T) {
	if Score("ALPHA", "alpha content") != Score("alpha", "alpha content") {
		t.Error("scoring should be case-insensitive")
	}
}

func TestScoreClamped(t *testing.T) {
	// Short content with a match at index 0 maximizes both components.
	if got := Score("a", "a"); got > 1 {
		t.Errorf("Score = %v, must not exceed 1", got)
	}
}

func TestScoreEmptyInputs(t *testing.T) {
	if Score("", "content") != 0 {
		t.Error("empty query should score 0")
	}
	if Score("query", "") != 0 {
		t.Error("empty content should score 0")
	}
}
