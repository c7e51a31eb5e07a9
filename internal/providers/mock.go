package providers

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// MockProvider produces deterministic embeddings and canned completions
// so the pipeline runs without any external model.
type MockProvider struct {
	dim int
}

func NewMockProvider(dim int) *MockProvider {
	if dim <= 0 {
		dim = 1536
	}
	return &MockProvider{dim: dim}
}

func (m *MockProvider) Embed(ctx context.Context, req EmbedRequest) ([][]float64, ProviderInfo, error) {
	_ = ctx
	dim := req.Dimension
	if dim <= 0 {
		dim = m.dim
	}
	vectors := make([][]float64, 0, len(req.Inputs))
	for _, input := range req.Inputs {
		vectors = append(vectors, deterministicVector(input, dim))
	}
	return vectors, ProviderInfo{Name: "mock", Model: fmt.Sprintf("mock-embed-%d", dim), Key: "mock"}, nil
}

func (m *MockProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	_ = ctx
	text := "Mock response."
	joined := strings.ToLower(flattenMessages(req.Messages))
	switch {
	case strings.Contains(joined, "compliance analyst"):
		text = `{"overall_score": 0.5, "overall_level": "partial", "checks": [{"check_name": "Policy Clarity", "level": "partial", "score": 0.5, "message": "Deterministic mock assessment.", "evidence": [], "recommendation": "Replace the mock provider for real analysis."}]}`
	case strings.Contains(joined, "question:"):
		text = "Based on the provided policy sections, this is a deterministic mock answer. Replace the mock provider for semantic quality."
	}
	return GenerateResponse{Text: text}, ProviderInfo{Name: "mock", Model: "mock-llm-v1", Key: "mock"}, nil
}

func flattenMessages(msgs []Message) string {
	b := strings.Builder{}
	for _, m := range msgs {
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return b.String()
}

func deterministicVector(input string, dim int) []float64 {
	vec := make([]float64, dim)
	seed := []byte(input)
	if len(seed) == 0 {
		seed = []byte("empty")
	}
	for i := 0; i < dim; i++ {
		h := sha256.Sum256(append(seed, byte(i%251)))
		u := binary.BigEndian.Uint32(h[:4])
		vec[i] = float64(u%2000)/1000.0 - 1.0
	}
	return normalize(vec)
}

// normalize scales v to unit Euclidean length so dot products over
// mock embeddings behave as cosine similarities.
func normalize(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return v
	}
	inv := 1.0 / math.Sqrt(sum)
	for i := range v {
		v[i] *= inv
	}
	return v
}
