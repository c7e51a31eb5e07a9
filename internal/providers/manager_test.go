package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"policylens/internal/config"
)

func TestParseProviderList(t *testing.T) {
	refs := ParseProviderList("openai:prod | mock")
	require.Len(t, refs, 2)
	require.Equal(t, "openai", refs[0].Name)
	require.Equal(t, "prod", refs[0].KeyAlias)
	require.Equal(t, "mock", refs[1].Name)

	refs = ParseProviderList("")
	require.Len(t, refs, 1)
	require.Equal(t, "mock", refs[0].Name)
}

func TestManagerMockRoundTrip(t *testing.T) {
	cfg := config.Config{LLMProviders: "mock", EmbedProviders: "mock", EmbedDim: 64}
	m, err := NewManager(cfg)
	require.NoError(t, err)

	vecs, info, err := m.Embedder().Embed(context.Background(), EmbedRequest{Inputs: []string{"alpha", "alpha", "beta"}})
	require.NoError(t, err)
	require.Equal(t, "mock", info.Name)
	require.Len(t, vecs, 3)
	require.Len(t, vecs[0], 64)
	require.Equal(t, vecs[0], vecs[1], "same input must embed identically")
	require.NotEqual(t, vecs[0], vecs[2])

	resp, _, err := m.LLM().Generate(context.Background(), GenerateRequest{Messages: []Message{{Role: "user", Content: "Question: what is covered?"}}})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Text)
}

func TestMockEmbeddingsUnitNorm(t *testing.T) {
	cfg := config.Config{LLMProviders: "mock", EmbedProviders: "mock", EmbedDim: 64}
	m, err := NewManager(cfg)
	require.NoError(t, err)

	vecs, _, err := m.Embedder().Embed(context.Background(), EmbedRequest{Inputs: []string{"deductible", "coverage limits"}})
	require.NoError(t, err)
	for _, vec := range vecs {
		var sum float64
		for _, x := range vec {
			sum += x * x
		}
		require.InDelta(t, 1.0, sum, 1e-9, "embedding must have unit Euclidean norm")
	}
}

func TestManagerRejectsUnknownProvider(t *testing.T) {
	_, err := NewManager(config.Config{LLMProviders: "bedrock", EmbedProviders: "mock"})
	require.Error(t, err)
}
