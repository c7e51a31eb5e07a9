package analyzer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"policylens/internal/models"
	"policylens/internal/providers"
	"policylens/internal/storage"
)

// Outcome is the terminal state of one analysis request.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeDegraded  Outcome = "degraded"
	OutcomeFailed    Outcome = "failed"
)

// Auditor records outbound model calls. Optional; nil disables
// auditing.
type Auditor interface {
	Insert(ctx context.Context, rec storage.ModelCallRecord) error
}

// Analyzer runs the tiered model escalation: primary model on the full
// prompt, then a truncated retry on the secondary model, then
// parse-or-reconstruct. Whatever happens short of a hard failure, the
// caller gets a structurally complete report.
type Analyzer struct {
	llm            providers.LLMProvider
	primaryModel   string
	secondaryModel string
	truncateBudget int
	auditor        Auditor
}

func New(llm providers.LLMProvider, primaryModel, secondaryModel string, truncateBudget int, auditor Auditor) *Analyzer {
	if truncateBudget <= 0 {
		truncateBudget = 8000
	}
	return &Analyzer{
		llm:            llm,
		primaryModel:   primaryModel,
		secondaryModel: secondaryModel,
		truncateBudget: truncateBudget,
		auditor:        auditor,
	}
}

// Analyze produces a compliance report for the text. The error is
// non-nil only for OutcomeFailed; Degraded still carries a valid
// single-check report.
func (a *Analyzer) Analyze(ctx context.Context, policyID, ownerID, text, framework string) (models.ComplianceReport, Outcome, error) {
	prompt := buildPrompt(text, framework)

	response, err := a.generate(ctx, a.primaryModel, prompt, 2000, policyID, ownerID)
	if err != nil {
		class := providers.ClassifyError(err)
		if !providers.Downgradable(class) {
			return models.ComplianceReport{}, OutcomeFailed, fmt.Errorf("compliance analysis with %s: %w", a.primaryModel, err)
		}
		log.Printf("analyzer: %s failed (%s), retrying truncated on %s", a.primaryModel, class, a.secondaryModel)

		truncated := truncatePrompt(prompt, a.truncateBudget)
		response, err = a.generate(ctx, a.secondaryModel, truncated, 1500, policyID, ownerID)
		if err != nil {
			log.Printf("analyzer: %s also failed: %v", a.secondaryModel, err)
			return degradedReport(policyID, ownerID, framework), OutcomeDegraded, nil
		}
	}

	score, level, checks := parseResponse(response)
	return models.ComplianceReport{
		PolicyID:            policyID,
		OwnerID:             ownerID,
		OverallScore:        score,
		OverallLevel:        level,
		Checks:              checks,
		RegulationFramework: framework,
		GeneratedAt:         time.Now(),
	}, OutcomeSucceeded, nil
}

func (a *Analyzer) generate(ctx context.Context, model, prompt string, maxTokens int, policyID, ownerID string) (string, error) {
	resp, info, err := a.llm.Generate(ctx, providers.GenerateRequest{
		Model: model,
		Messages: []providers.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	})
	a.audit(ctx, info, policyID, ownerID, err)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (a *Analyzer) audit(ctx context.Context, info providers.ProviderInfo, policyID, ownerID string, callErr error) {
	if a.auditor == nil {
		return
	}
	rec := storage.ModelCallRecord{
		CallID:       uuid.NewString(),
		Operation:    "compliance_analysis",
		OwnerID:      ownerID,
		PolicyID:     policyID,
		ProviderName: info.Name,
		Model:        info.Model,
		Status:       "ok",
	}
	if callErr != nil {
		rec.Status = "error"
		rec.ErrorType = string(providers.ClassifyError(callErr))
	}
	if err := a.auditor.Insert(ctx, rec); err != nil {
		log.Printf("analyzer: audit insert failed: %v", err)
	}
}

// degradedReport is the minimal but valid result when even the
// truncated retry fails.
func degradedReport(policyID, ownerID, framework string) models.ComplianceReport {
	return models.ComplianceReport{
		PolicyID:     policyID,
		OwnerID:      ownerID,
		OverallScore: 0.5,
		OverallLevel: models.LevelPartial,
		Checks: []models.ComplianceCheck{{
			CheckName:      "Policy Analysis",
			Level:          models.LevelPartial,
			Score:          0.5,
			Message:        "Policy analysis could not be completed due to size limitations. Please review the policy manually for compliance.",
			Evidence:       []string{"Policy document is too large for automated analysis"},
			Recommendation: "Consider breaking down large policies into smaller sections for better analysis",
		}},
		RegulationFramework: framework,
		GeneratedAt:         time.Now(),
	}
}
