package chunker

import "strings"

// sentenceLookback bounds the backward search for a sentence terminator
// when a window would otherwise cut mid-sentence.
const sentenceLookback = 100

// Chunk is one overlap-aware slice of a document. Start and End are
// rune offsets into the original text (End exclusive).
type Chunk struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Split cuts text into overlapping chunks of at most size runes. Each
// window prefers to end just after a sentence terminator found within
// the last sentenceLookback runes; the next window starts overlap runes
// before the previous end. Blank chunks are dropped. Splitting is
// deterministic: identical input and parameters yield identical chunks.
func Split(text string, size, overlap int) []Chunk {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	runes := []rune(text)
	out := make([]Chunk, 0)

	start := 0
	for start < len(runes) {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		} else {
			// Not the last chunk: prefer a sentence boundary.
			searchStart := end - sentenceLookback
			if searchStart < start {
				searchStart = start
			}
			for i := searchStart; i < end; i++ {
				if isTerminator(runes[i]) {
					end = i + 1
					break
				}
			}
		}

		part := strings.TrimSpace(string(runes[start:end]))
		if part != "" {
			out = append(out, Chunk{Index: len(out), Text: part, Start: start, End: end})
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
		if end == len(runes) {
			break
		}
	}
	return out
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
