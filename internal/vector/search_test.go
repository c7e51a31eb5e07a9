package vector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"policylens/internal/models"
)

type memSource struct {
	chunks []models.Chunk
}

func (m *memSource) ListByScope(ctx context.Context, ownerID, documentID string) ([]models.Chunk, error) {
	out := make([]models.Chunk, 0, len(m.chunks))
	for _, c := range m.chunks {
		if c.OwnerID != ownerID {
			continue
		}
		if documentID != "" && c.DocumentID != documentID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func TestSearchRanksByCosine(t *testing.T) {
	src := &memSource{chunks: []models.Chunk{
		{DocumentID: "d1", OwnerID: "o1", ChunkIndex: 0, Text: "orthogonal", Embedding: []float64{0, 1, 0}},
		{DocumentID: "d1", OwnerID: "o1", ChunkIndex: 1, Text: "aligned", Embedding: []float64{1, 0, 0}},
		{DocumentID: "d1", OwnerID: "o1", ChunkIndex: 2, Text: "diagonal", Embedding: []float64{1, 1, 0}},
	}}
	matches, err := NewSearcher(src).Search(context.Background(), "o1", "d1", []float64{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.Equal(t, "aligned", matches[0].Text)
	require.Equal(t, "diagonal", matches[1].Text)
	require.InDelta(t, 1.0, matches[0].Similarity, 1e-9)
}

func TestSearchStableTies(t *testing.T) {
	src := &memSource{chunks: []models.Chunk{
		{DocumentID: "d1", OwnerID: "o1", ChunkIndex: 0, Embedding: []float64{1, 0}},
		{DocumentID: "d1", OwnerID: "o1", ChunkIndex: 1, Embedding: []float64{2, 0}},
		{DocumentID: "d1", OwnerID: "o1", ChunkIndex: 2, Embedding: []float64{3, 0}},
	}}
	// All three are colinear with the query so all similarities tie at 1.
	matches, err := NewSearcher(src).Search(context.Background(), "o1", "d1", []float64{1, 0}, 0)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	for i, m := range matches {
		require.Equal(t, i, m.ChunkIndex, "ties must preserve chunk order")
	}
}

func TestSearchEmptyScope(t *testing.T) {
	matches, err := NewSearcher(&memSource{}).Search(context.Background(), "nobody", "", []float64{1}, 5)
	require.NoError(t, err)
	require.NotNil(t, matches)
	require.Empty(t, matches)
}

func TestCosineSimilarityEdges(t *testing.T) {
	require.Equal(t, 0.0, CosineSimilarity(nil, nil))
	require.Equal(t, 0.0, CosineSimilarity([]float64{1, 2}, []float64{1}))
	require.Equal(t, 0.0, CosineSimilarity([]float64{0, 0}, []float64{1, 1}))
	require.InDelta(t, -1.0, CosineSimilarity([]float64{1, 0}, []float64{-1, 0}), 1e-9)
}
