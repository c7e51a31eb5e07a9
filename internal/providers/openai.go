package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// OpenAIProvider uses the standard OpenAI REST APIs when a key is
// configured.
type OpenAIProvider struct {
	keyName string
	apiKey  string
	client  *http.Client
}

const (
	openAIEmbedModel   = "text-embedding-3-small"
	openAIDefaultModel = "gpt-4"
)

func NewOpenAIProvider(keyName string) *OpenAIProvider {
	return &OpenAIProvider{
		keyName: keyName,
		apiKey:  resolveOpenAIKey(keyName),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (o *OpenAIProvider) Embed(ctx context.Context, req EmbedRequest) ([][]float64, ProviderInfo, error) {
	info := ProviderInfo{Name: "openai", Model: openAIEmbedModel, Key: o.keyName}
	if o.apiKey == "" {
		return nil, info, fmt.Errorf("openai key missing for alias %q", o.keyName)
	}
	inputs := make([]string, 0, len(req.Inputs))
	for _, in := range req.Inputs {
		inputs = append(inputs, strings.ReplaceAll(in, "\n", " "))
	}
	payload, _ := json.Marshal(map[string]any{"model": openAIEmbedModel, "input": inputs})
	body, err := o.post(ctx, "https://api.openai.com/v1/embeddings", payload)
	if err != nil {
		return nil, info, fmt.Errorf("openai embedding request failed: %w", err)
	}
	var parsed struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, info, fmt.Errorf("decode embedding response: %w", err)
	}
	out := make([][]float64, 0, len(parsed.Data))
	for _, d := range parsed.Data {
		out = append(out, d.Embedding)
	}
	return out, info, nil
}

func (o *OpenAIProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	model := req.Model
	if model == "" {
		model = openAIDefaultModel
	}
	info := ProviderInfo{Name: "openai", Model: model, Key: o.keyName}
	if o.apiKey == "" {
		return GenerateResponse{}, info, fmt.Errorf("openai key missing for alias %q", o.keyName)
	}
	messages := make([]map[string]string, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, map[string]string{"role": m.Role, "content": m.Content})
	}
	body := map[string]any{"model": model, "messages": messages}
	if req.MaxTokens > 0 {
		body["max_tokens"] = req.MaxTokens
	}
	if req.Temperature > 0 {
		body["temperature"] = req.Temperature
	}
	payload, _ := json.Marshal(body)
	respBody, err := o.post(ctx, "https://api.openai.com/v1/chat/completions", payload)
	if err != nil {
		return GenerateResponse{}, info, fmt.Errorf("openai generate request failed: %w", err)
	}
	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return GenerateResponse{}, info, fmt.Errorf("decode generate response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return GenerateResponse{}, info, fmt.Errorf("openai returned empty choices")
	}
	return GenerateResponse{Text: strings.TrimSpace(parsed.Choices[0].Message.Content)}, info, nil
}

func (o *OpenAIProvider) post(ctx context.Context, url string, payload []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := o.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("openai error %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func resolveOpenAIKey(alias string) string {
	if alias != "" {
		k := os.Getenv("POLICYLENS_OPENAI_KEY_" + strings.ToUpper(alias))
		if k != "" {
			return k
		}
	}
	return os.Getenv("OPENAI_API_KEY")
}
