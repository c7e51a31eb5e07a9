package providers

import "context"

type ProviderInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	Key   string `json:"key"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type GenerateRequest struct {
	// Model overrides the provider's default model. The analyzer uses
	// this to swap in a cheaper model on downgrade.
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type GenerateResponse struct {
	Text string `json:"text"`
}

type EmbedRequest struct {
	Inputs    []string `json:"inputs"`
	Dimension int      `json:"dimension"`
}

type LLMProvider interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error)
}

type EmbeddingProvider interface {
	Embed(ctx context.Context, req EmbedRequest) ([][]float64, ProviderInfo, error)
}
