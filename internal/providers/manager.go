package providers

import (
	"fmt"
	"strings"

	"policylens/internal/config"
)

type ProviderRef struct {
	Raw      string
	Name     string
	KeyAlias string
}

// ParseProviderList splits a "name[:keyalias]|name..." spec into refs,
// defaulting to the mock provider when empty.
func ParseProviderList(raw string) []ProviderRef {
	parts := strings.Split(raw, "|")
	out := make([]ProviderRef, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		ref := ProviderRef{Raw: p, Name: p}
		if strings.Contains(p, ":") {
			x := strings.SplitN(p, ":", 2)
			ref.Name = strings.TrimSpace(x[0])
			ref.KeyAlias = strings.TrimSpace(x[1])
		}
		out = append(out, ref)
	}
	if len(out) == 0 {
		out = append(out, ProviderRef{Raw: "mock", Name: "mock"})
	}
	return out
}

type namedLLM struct {
	ref      ProviderRef
	provider LLMProvider
}

type namedEmbed struct {
	ref      ProviderRef
	provider EmbeddingProvider
}

// Manager resolves configured providers. The first configured provider
// of each kind is the one used; later entries exist so deployments can
// flip order without code changes.
type Manager struct {
	llms   []namedLLM
	embeds []namedEmbed
}

func NewManager(cfg config.Config) (*Manager, error) {
	m := &Manager{}
	for _, ref := range ParseProviderList(cfg.LLMProviders) {
		p, err := buildProvider(ref, cfg.EmbedDim)
		if err != nil {
			return nil, err
		}
		llm, ok := p.(LLMProvider)
		if !ok {
			return nil, fmt.Errorf("provider %s does not support generation", ref.Raw)
		}
		m.llms = append(m.llms, namedLLM{ref: ref, provider: llm})
	}
	for _, ref := range ParseProviderList(cfg.EmbedProviders) {
		p, err := buildProvider(ref, cfg.EmbedDim)
		if err != nil {
			return nil, err
		}
		embed, ok := p.(EmbeddingProvider)
		if !ok {
			return nil, fmt.Errorf("provider %s does not support embeddings", ref.Raw)
		}
		m.embeds = append(m.embeds, namedEmbed{ref: ref, provider: embed})
	}
	if len(m.llms) == 0 {
		m.llms = []namedLLM{{ref: ProviderRef{Raw: "mock", Name: "mock"}, provider: NewMockProvider(cfg.EmbedDim)}}
	}
	if len(m.embeds) == 0 {
		m.embeds = []namedEmbed{{ref: ProviderRef{Raw: "mock", Name: "mock"}, provider: NewMockProvider(cfg.EmbedDim)}}
	}
	return m, nil
}

func (m *Manager) LLM() LLMProvider {
	return m.llms[0].provider
}

func (m *Manager) Embedder() EmbeddingProvider {
	return m.embeds[0].provider
}

func (m *Manager) LLMRef() ProviderRef {
	return m.llms[0].ref
}

func buildProvider(ref ProviderRef, dim int) (any, error) {
	switch strings.ToLower(ref.Name) {
	case "mock":
		return NewMockProvider(dim), nil
	case "openai":
		return NewOpenAIProvider(ref.KeyAlias), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", ref.Name)
	}
}
