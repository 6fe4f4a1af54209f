package docsearch

import (
	"math"
	"testing"
)

func inputs(ids ...string) []fusedInput {
	// Descending synthetic scores; fusion must ignore the magnitudes.
	out := make([]fusedInput, len(ids))
	for i, id := range ids {
		out[i] = fusedInput{id: id, score: float64(len(ids)-i) * 7}
	}
	return out
}

func TestFuseRRFSingleListContribution(t *testing.T) {
	// A document at rank 0 of one list contributes w/(60+0+1), then x10.
	out := fuseRRF(inputs("d1"), nil, 1.0, 1.0, 10)
	if len(out) != 1 {
		t.Fatalf("got %d fused, want 1", len(out))
	}
	want := math.Min(1, 1.0/61*10)
	if diff := out[0].score - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("score = %v, want %v", out[0].score, want)
	}
}

func TestFuseRRFConsensusOutranksSingleList(t *testing.T) {
	// d1 appears in both lists at lower ranks; d2 tops one list only.
	fulltext := inputs("d2", "d1")
	semantic := inputs("d3", "d1")
	out := fuseRRF(fulltext, semantic, 0.4, 0.6, 10)

	if out[0].id != "d1" {
		t.Errorf("top fused = %s, want consensus hit d1", out[0].id)
	}
}

func TestFuseRRFIgnoresScoreMagnitudes(t *testing.T) {
	small := []fusedInput{{id: "a", score: 0.001}, {id: "b", score: 0.0001}}
	large := []fusedInput{{id: "a", score: 900}, {id: "b", score: 800}}

	outSmall := fuseRRF(small, nil, 1, 1, 10)
	outLarge := fuseRRF(large, nil, 1, 1, 10)

	for i := range outSmall {
		if outSmall[i].id != outLarge[i].id || outSmall[i].score != outLarge[i].score {
			t.Fatal("fusion must depend on rank order only")
		}
	}
}

func TestFuseRRFKeepsComponentScores(t *testing.T) {
	fulltext := []fusedInput{{id: "d1", score: 0.7, excerpt: "lexical excerpt"}}
	semantic := []fusedInput{{id: "d1", score: 0.91}}
	out := fuseRRF(fulltext, semantic, 0.4, 0.6, 10)

	if len(out) != 1 {
		t.Fatalf("got %d fused, want 1", len(out))
	}
	f := out[0]
	if f.lexical != 0.7 || f.semantic != 0.91 {
		t.Errorf("components = (%v, %v), want (0.7, 0.91)", f.lexical, f.semantic)
	}
	if f.excerpt != "lexical excerpt" {
		t.Errorf("excerpt = %q", f.excerpt)
	}
}

func TestFuseRRFTruncatesAndBreaksTiesByID(t *testing.T) {
	out := fuseRRF(inputs("b", "a", "c", "d"), nil, 1, 1, 2)
	if len(out) != 2 {
		t.Fatalf("got %d fused, want limit 2", len(out))
	}

	// Two docs at the same rank in separate calls score identically;
	// the tie breaks lexicographically.
	tied := fuseRRF([]fusedInput{{id: "z"}}, []fusedInput{{id: "y"}}, 0.5, 0.5, 10)
	if tied[0].id != "y" || tied[1].id != "z" {
		t.Errorf("tie order = %s, %s; want y, z", tied[0].id, tied[1].id)
	}
}

func TestFuseRRFScoreCapped(t *testing.T) {
	// Heavy weights cannot push the rescaled score past 1.
	out := fuseRRF(inputs("d1"), inputs("d1"), 50, 50, 10)
	if out[0].score > 1 {
		t.Errorf("score = %v, must be capped at 1", out[0].score)
	}
}
