package vector

import (
	"context"
	"fmt"
	"math"
	"sort"

	"policylens/internal/models"
)

// ChunkSource supplies the candidate chunks for a query scope. The
// storage layer implements it; tests use in-memory fakes.
type ChunkSource interface {
	ListByScope(ctx context.Context, ownerID, documentID string) ([]models.Chunk, error)
}

type Searcher struct {
	source ChunkSource
}

func NewSearcher(source ChunkSource) *Searcher {
	return &Searcher{source: source}
}

// Search ranks every in-scope chunk by cosine similarity to the query
// vector and returns the top limit matches. The scan is exhaustive and
// the sort is stable, so equal similarities keep storage order and the
// result is reproducible for a given corpus state.
func (s *Searcher) Search(ctx context.Context, ownerID, documentID string, query []float64, limit int) ([]models.ChunkMatch, error) {
	chunks, err := s.source.ListByScope(ctx, ownerID, documentID)
	if err != nil {
		return nil, fmt.Errorf("load chunks for search: %w", err)
	}
	if len(chunks) == 0 {
		return []models.ChunkMatch{}, nil
	}
	matches := make([]models.ChunkMatch, 0, len(chunks))
	for _, c := range chunks {
		matches = append(matches, models.ChunkMatch{Chunk: c, Similarity: CosineSimilarity(query, c.Embedding)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// CosineSimilarity of two vectors. Mismatched lengths and zero-norm
// vectors score 0 rather than erroring, so one malformed embedding
// cannot sink a whole query.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
