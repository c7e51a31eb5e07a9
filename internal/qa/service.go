package qa

import (
	"context"
	"fmt"
	"log"
	"strings"

	"policylens/internal/confidence"
	"policylens/internal/models"
	"policylens/internal/providers"
	"policylens/internal/resilience"
	"policylens/internal/vector"
)

const answerSystemPrompt = "You are an expert policy assistant. Your job is to help users understand their policy documents by providing accurate, helpful answers grounded in the retrieved sections."

const maxSources = 3

// Service answers questions about a policy corpus: embed the question,
// retrieve the closest chunks, generate an answer over them, and score
// how much the answer deserves trust.
type Service struct {
	embedder providers.EmbeddingProvider
	llm      providers.LLMProvider
	searcher *vector.Searcher
	scorer   *confidence.Scorer
	retry    resilience.RetryPolicy
	limit    int
}

func NewService(embedder providers.EmbeddingProvider, llm providers.LLMProvider, searcher *vector.Searcher, scorer *confidence.Scorer, retry resilience.RetryPolicy, limit int) *Service {
	if limit <= 0 {
		limit = 5
	}
	return &Service{
		embedder: embedder,
		llm:      llm,
		searcher: searcher,
		scorer:   scorer,
		retry:    retry,
		limit:    limit,
	}
}

// Answer responds to a question scoped to an owner's corpus; policyID
// narrows retrieval to one document when set. Retrieval failures are
// errors; generation failures degrade to an apologetic answer rather
// than failing the request.
func (s *Service) Answer(ctx context.Context, ownerID, policyID, question string) (models.Answer, error) {
	var queryVec []float64
	err := resilience.Do(ctx, s.retry, func(ctx context.Context) error {
		vecs, _, embErr := s.embedder.Embed(ctx, providers.EmbedRequest{Inputs: []string{question}})
		if embErr != nil {
			return embErr
		}
		if len(vecs) == 0 {
			return fmt.Errorf("embedding provider returned no vectors")
		}
		queryVec = vecs[0]
		return nil
	})
	if err != nil {
		return models.Answer{}, fmt.Errorf("embed question: %w", err)
	}

	matches, err := s.searcher.Search(ctx, ownerID, policyID, queryVec, s.limit)
	if err != nil {
		return models.Answer{}, fmt.Errorf("retrieve context: %w", err)
	}

	prompt := buildAnswerPrompt(question, matches)
	var text string
	genErr := resilience.Do(ctx, s.retry, func(ctx context.Context) error {
		resp, _, callErr := s.llm.Generate(ctx, providers.GenerateRequest{
			Messages: []providers.Message{
				{Role: "system", Content: answerSystemPrompt},
				{Role: "user", Content: prompt},
			},
			MaxTokens:   1000,
			Temperature: 0.2,
		})
		if callErr != nil {
			return callErr
		}
		text = strings.TrimSpace(resp.Text)
		return nil
	})
	if genErr != nil {
		log.Printf("qa: generation failed for owner %s: %v", ownerID, genErr)
		return models.Answer{
			Answer:     "I'm sorry, I encountered an error while processing your question. Please try again.",
			Sources:    []models.SourceInfo{},
			Confidence: 0.0,
			PolicyID:   policyID,
			OwnerID:    ownerID,
		}, nil
	}

	return models.Answer{
		Answer:     text,
		Sources:    topSources(matches),
		Confidence: s.scorer.Score(text, matches),
		PolicyID:   policyID,
		OwnerID:    ownerID,
	}, nil
}

func buildAnswerPrompt(question string, matches []models.ChunkMatch) string {
	var b strings.Builder
	b.WriteString("CONTEXT FROM THE POLICY DOCUMENTS:\n")
	b.WriteString(buildContext(matches))
	b.WriteString("\nINSTRUCTIONS:\n")
	b.WriteString("1. Answer questions about coverage, benefits, exclusions, claim procedures, and validity\n")
	b.WriteString("2. Be specific and cite relevant policy sections when possible\n")
	b.WriteString("3. If information is not in the provided context, clearly state this\n")
	b.WriteString("4. For coverage questions, mention specific amounts, percentages, and conditions\n")
	b.WriteString("5. Use simple, clear language\n\n")
	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}

func buildContext(matches []models.ChunkMatch) string {
	if len(matches) == 0 {
		return "No relevant policy information found.\n"
	}
	var b strings.Builder
	for i, m := range matches {
		fmt.Fprintf(&b, "[Section %d]\n%s\n\n", i+1, m.Text)
	}
	return b.String()
}

func topSources(matches []models.ChunkMatch) []models.SourceInfo {
	n := len(matches)
	if n > maxSources {
		n = maxSources
	}
	out := make([]models.SourceInfo, 0, n)
	for _, m := range matches[:n] {
		out = append(out, models.SourceInfo{
			DocumentID:     m.DocumentID,
			ChunkIndex:     m.ChunkIndex,
			Text:           m.Text,
			RelevanceScore: m.Similarity,
		})
	}
	return out
}
