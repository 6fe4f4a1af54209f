package db

import "testing"

func TestEscapeToken(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a-b", `a\-b`},
		{"user@example.com", `user\@example\.com`},
		{"two words", `two\ words`},
	}
	for _, tt := range tests {
		if got := EscapeToken(tt.in); got != tt.want {
			t.Errorf("EscapeToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTagFilter(t *testing.T) {
	if got := TagFilter("status", "open", "pending"); got != "@status:{open|pending}" {
		t.Errorf("TagFilter = %q", got)
	}
	if got := TagFilter("status"); got != "" {
		t.Errorf("TagFilter with no values = %q, want empty", got)
	}
}

func TestTextMatch(t *testing.T) {
	if got := TextMatch("title", "invoice dispute"); got != "@title:(invoice|dispute)" {
		t.Errorf("TextMatch = %q", got)
	}
	if got := TextMatch("title", "   "); got != "" {
		t.Errorf("TextMatch on blank = %q, want empty", got)
	}
}

func TestNumericRange(t *testing.T) {
	if got := NumericRange("updated_at", "100", ""); got != "@updated_at:[100 +inf]" {
		t.Errorf("NumericRange = %q", got)
	}
	if got := NumericRange("updated_at", "", "200"); got != "@updated_at:[-inf 200]" {
		t.Errorf("NumericRange = %q", got)
	}
}

func TestAnd(t *testing.T) {
	if got := And("@a:{1}", "", "@b:{2}"); got != "@a:{1} @b:{2}" {
		t.Errorf("And = %q", got)
	}
	if got := And("", ""); got != "*" {
		t.Errorf("And on empty = %q, want *", got)
	}
}

func TestNot(t *testing.T) {
	if got := Not(TagFilter("embedded", "1")); got != "-@embedded:{1}" {
		t.Errorf("Not = %q", got)
	}
	if got := Not(""); got != "" {
		t.Errorf("Not on empty = %q, want empty", got)
	}
}

func TestVectorRoundTrip(t *testing.T) {
	vec := []float32{0.25, -1.5, 3.75}
	got := DecodeVector(EncodeVector(vec))
	if len(got) != len(vec) {
		t.Fatalf("round trip length = %d, want %d", len(got), len(vec))
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Errorf("vec[%d] = %v, want %v", i, got[i], vec[i])
		}
	}
	if DecodeVector("abc") != nil {
		t.Error("DecodeVector on misaligned input should return nil")
	}
}
