package chunker

import (
	"strings"
	"testing"
)

func TestSplitPrefersSentenceBoundary(t *testing.T) {
	text := "First sentence ends here. Second sentence is a bit longer and keeps going past the window edge."
	chunks := Split(text, 40, 10)
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0].Text, ".") {
		t.Fatalf("first chunk should end at a sentence terminator, got %q", chunks[0].Text)
	}
}

func TestSplitOverlapAndCoverage(t *testing.T) {
	text := strings.Repeat("abcdefghij", 30) // no terminators: fixed windows
	size, overlap := 100, 20
	chunks := Split(text, size, overlap)
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		if cur.Start != prev.End-overlap {
			t.Fatalf("chunk %d starts at %d, want %d", i, cur.Start, prev.End-overlap)
		}
	}
	last := chunks[len(chunks)-1]
	if last.End != len([]rune(text)) {
		t.Fatalf("last chunk ends at %d, want %d", last.End, len(text))
	}
}

func TestSplitDeterministic(t *testing.T) {
	text := "One. Two! Three? Four. " + strings.Repeat("filler text ", 50)
	a := Split(text, 80, 16)
	b := Split(text, 80, 16)
	if len(a) != len(b) {
		t.Fatalf("chunk count differs between runs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("chunk %d differs between runs", i)
		}
	}
}

func TestSplitEdgeCases(t *testing.T) {
	if got := Split("", 100, 10); len(got) != 0 {
		t.Fatalf("empty text should yield no chunks, got %d", len(got))
	}
	if got := Split("   \n\t  ", 100, 10); len(got) != 0 {
		t.Fatalf("blank text should yield no chunks, got %d", len(got))
	}
	got := Split("short", 100, 10)
	if len(got) != 1 || got[0].Text != "short" {
		t.Fatalf("unexpected chunks for short input: %+v", got)
	}
	if got[0].Index != 0 {
		t.Fatalf("single chunk index = %d, want 0", got[0].Index)
	}
}
