package dlp

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"policylens/internal/models"
	"policylens/internal/providers"
)

const modelScanBudget = 2000

// modelScan asks the generative model for sensitive content that the
// pattern tables cannot see. Best effort: any failure yields zero
// findings, never an error.
func (s *Scanner) modelScan(ctx context.Context, text string) []models.DLPViolation {
	excerpt := text
	if len(excerpt) > modelScanBudget {
		excerpt = excerpt[:modelScanBudget]
	}

	var b strings.Builder
	b.WriteString("Analyze the following text for sensitive information that should be protected:\n\n")
	b.WriteString("Text: ")
	b.WriteString(excerpt)
	b.WriteString("\n\nLook for:\n")
	b.WriteString("1. Personal information (names, addresses, IDs)\n")
	b.WriteString("2. Financial data (account numbers, amounts, transactions)\n")
	b.WriteString("3. Health information (medical conditions, treatments)\n")
	b.WriteString("4. Business secrets (proprietary information, trade secrets)\n")
	b.WriteString("5. Legal sensitive information (case numbers, court records)\n\n")
	b.WriteString(`Respond with JSON format:
{
  "violations": [
    {
      "type": "pii|financial|health|business|legal",
      "severity": "low|medium|high|critical",
      "description": "What was found",
      "data": "The sensitive data",
      "recommendation": "What to do"
    }
  ]
}`)

	resp, _, err := s.llm.Generate(ctx, providers.GenerateRequest{
		Messages:    []providers.Message{{Role: "user", Content: b.String()}},
		MaxTokens:   1000,
		Temperature: 0.1,
	})
	if err != nil {
		log.Printf("dlp: model-assisted scan failed: %v", err)
		return nil
	}

	start := strings.Index(resp.Text, "{")
	end := strings.LastIndex(resp.Text, "}")
	if start < 0 || end <= start {
		return nil
	}
	var parsed struct {
		Violations []struct {
			Severity       string `json:"severity"`
			Description    string `json:"description"`
			Data           string `json:"data"`
			Recommendation string `json:"recommendation"`
		} `json:"violations"`
	}
	if err := json.Unmarshal([]byte(resp.Text[start:end+1]), &parsed); err != nil {
		log.Printf("dlp: model-assisted scan returned unusable output: %v", err)
		return nil
	}

	out := make([]models.DLPViolation, 0, len(parsed.Violations))
	for _, v := range parsed.Violations {
		out = append(out, models.DLPViolation{
			ViolationType:  models.ViolationPII,
			Severity:       parseSeverity(v.Severity),
			Description:    v.Description,
			DetectedData:   v.Data,
			Location:       "Model detected",
			Recommendation: v.Recommendation,
			Confidence:     0.75,
		})
	}
	return out
}

func parseSeverity(s string) models.Severity {
	switch models.Severity(strings.ToLower(strings.TrimSpace(s))) {
	case models.SeverityLow:
		return models.SeverityLow
	case models.SeverityHigh:
		return models.SeverityHigh
	case models.SeverityCritical:
		return models.SeverityCritical
	default:
		return models.SeverityMedium
	}
}
