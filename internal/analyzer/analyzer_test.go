package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"policylens/internal/compliance"
	"policylens/internal/models"
	"policylens/internal/providers"
	"policylens/internal/resilience"
)

// scriptedLLM replays one canned result per call, in order.
type scriptedLLM struct {
	responses []string
	errs      []error
	calls     []providers.GenerateRequest
}

func (s *scriptedLLM) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error) {
	i := len(s.calls)
	s.calls = append(s.calls, req)
	info := providers.ProviderInfo{Name: "scripted", Model: req.Model}
	if i < len(s.errs) && s.errs[i] != nil {
		return providers.GenerateResponse{}, info, s.errs[i]
	}
	if i < len(s.responses) {
		return providers.GenerateResponse{Text: s.responses[i]}, info, nil
	}
	return providers.GenerateResponse{}, info, errors.New("no scripted response left")
}

func requireValidReport(t *testing.T, rep models.ComplianceReport) {
	t.Helper()
	require.GreaterOrEqual(t, rep.OverallScore, 0.0)
	require.LessOrEqual(t, rep.OverallScore, 1.0)
	require.NotEmpty(t, rep.OverallLevel)
	require.NotEmpty(t, rep.Checks)
	for _, c := range rep.Checks {
		require.NotEmpty(t, c.CheckName)
		require.GreaterOrEqual(t, c.Score, 0.0)
		require.LessOrEqual(t, c.Score, 1.0)
		require.NotNil(t, c.Evidence)
	}
}

func TestAnalyzePrimarySuccess(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`Here you go: {"overall_score": 0.82, "overall_level": "compliant", "checks": [{"check_name": "Policy Clarity", "level": "compliant", "score": 0.9, "message": "clear", "evidence": ["heading"], "recommendation": "keep it"}]}`,
	}}
	a := New(llm, "gpt-4", "gpt-3.5-turbo", 8000, nil)

	rep, outcome, err := a.Analyze(context.Background(), "p1", "o1", "policy text", "insurance_standards")
	require.NoError(t, err)
	require.Equal(t, OutcomeSucceeded, outcome)
	requireValidReport(t, rep)
	require.InDelta(t, 0.82, rep.OverallScore, 1e-9)
	require.Len(t, llm.calls, 1)
	require.Equal(t, "gpt-4", llm.calls[0].Model)
}

func TestAnalyzeDowngradesOnTokenLimit(t *testing.T) {
	big := strings.Repeat("coverage terms. ", 2000)
	llm := &scriptedLLM{
		errs: []error{errors.New("maximum context length exceeded"), nil},
		responses: []string{"",
			`{"overall_score": 0.6, "overall_level": "partial", "checks": [{"check_name": "Coverage Details", "level": "partial", "score": 0.6, "message": "ok", "evidence": [], "recommendation": ""}]}`,
		},
	}
	a := New(llm, "gpt-4", "gpt-3.5-turbo", 8000, nil)

	rep, outcome, err := a.Analyze(context.Background(), "p1", "o1", big, "insurance_standards")
	require.NoError(t, err)
	require.Equal(t, OutcomeSucceeded, outcome)
	requireValidReport(t, rep)
	require.Len(t, llm.calls, 2)
	require.Equal(t, "gpt-3.5-turbo", llm.calls[1].Model)
	second := llm.calls[1].Messages[1].Content
	require.Contains(t, second, "[Policy text truncated due to length]")
	require.Less(t, len(second), len(llm.calls[0].Messages[1].Content))
}

func TestAnalyzeDegradedWhenBothModelsFail(t *testing.T) {
	llm := &scriptedLLM{errs: []error{
		errors.New("429 rate limited"),
		errors.New("429 rate limited"),
	}}
	a := New(llm, "gpt-4", "gpt-3.5-turbo", 8000, nil)

	rep, outcome, err := a.Analyze(context.Background(), "p1", "o1", "text", "gdpr")
	require.NoError(t, err)
	require.Equal(t, OutcomeDegraded, outcome)
	requireValidReport(t, rep)
	require.Len(t, rep.Checks, 1)
	require.Equal(t, "Policy Analysis", rep.Checks[0].CheckName)
}

func TestAnalyzeFailsOnPermanentError(t *testing.T) {
	llm := &scriptedLLM{errs: []error{errors.New("bad request: model does not exist")}}
	a := New(llm, "gpt-4", "gpt-3.5-turbo", 8000, nil)

	_, outcome, err := a.Analyze(context.Background(), "p1", "o1", "text", "")
	require.Error(t, err)
	require.Equal(t, OutcomeFailed, outcome)
	require.Len(t, llm.calls, 1)
}

func TestParseFallsBackToHeuristic(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		"The policy is partial: coverage details are present, exclusions are stated, claim process described, contact info given, terms and conditions listed. {broken json",
	}}
	a := New(llm, "gpt-4", "gpt-3.5-turbo", 8000, nil)

	rep, outcome, err := a.Analyze(context.Background(), "p1", "o1", "text", "insurance_standards")
	require.NoError(t, err)
	require.Equal(t, OutcomeSucceeded, outcome)
	requireValidReport(t, rep)
	require.Len(t, rep.Checks, 6)
}

func TestParseDefaultsWhenNothingUsable(t *testing.T) {
	score, level, checks := parseResponse("")
	require.Equal(t, 0.5, score)
	require.Equal(t, models.LevelPartial, level)
	require.Len(t, checks, 6)
	for i, c := range checks {
		require.Equal(t, canonicalChecks[i], c.CheckName)
		require.Equal(t, 0.5, c.Score)
	}
}

func TestTruncateKeepsPreamble(t *testing.T) {
	prompt := buildPrompt(strings.Repeat("x", 20000), "gdpr")
	truncated := truncatePrompt(prompt, 8000)
	require.Less(t, len(truncated), len(prompt))
	require.Contains(t, truncated, "GDPR requirements")
	require.True(t, strings.HasSuffix(truncated, truncationNote))

	short := buildPrompt("tiny", "gdpr")
	require.Equal(t, short, truncatePrompt(short, 8000))
}

type memStore struct {
	reports map[string]models.ComplianceReport
}

func (m *memStore) UpsertReport(ctx context.Context, rep models.ComplianceReport) error {
	if m.reports == nil {
		m.reports = map[string]models.ComplianceReport{}
	}
	m.reports[rep.OwnerID+"/"+rep.PolicyID+"/"+rep.RegulationFramework] = rep
	return nil
}

func (m *memStore) GetReport(ctx context.Context, ownerID, policyID, framework string) (models.ComplianceReport, error) {
	rep, ok := m.reports[ownerID+"/"+policyID+"/"+framework]
	if !ok {
		return models.ComplianceReport{}, errors.New("not found")
	}
	return rep, nil
}

func TestServiceCachesAndRefreshes(t *testing.T) {
	llm := &scriptedLLM{responses: []string{
		`{"overall_score": 0.9, "overall_level": "compliant", "checks": [{"check_name": "Policy Clarity", "level": "compliant", "score": 0.9, "message": "m", "evidence": [], "recommendation": ""}]}`,
		`{"overall_score": 0.4, "overall_level": "non_compliant", "checks": [{"check_name": "Policy Clarity", "level": "non_compliant", "score": 0.4, "message": "m", "evidence": [], "recommendation": ""}]}`,
	}}
	svc := NewService(
		compliance.NewEngine(),
		New(llm, "gpt-4", "gpt-3.5-turbo", 8000, nil),
		resilience.NewCache[models.ComplianceReport](time.Minute),
		&memStore{},
	)

	first, err := svc.CheckCompliance(context.Background(), "p1", "o1", "policy text", "insurance_standards", false)
	require.NoError(t, err)
	require.InDelta(t, 0.9, first.OverallScore, 1e-9)

	cached, err := svc.CheckCompliance(context.Background(), "p1", "o1", "policy text", "insurance_standards", false)
	require.NoError(t, err)
	require.InDelta(t, 0.9, cached.OverallScore, 1e-9)
	require.Len(t, llm.calls, 1, "cache hit must not call the model")

	refreshed, err := svc.CheckCompliance(context.Background(), "p1", "o1", "policy text", "insurance_standards", true)
	require.NoError(t, err)
	require.InDelta(t, 0.4, refreshed.OverallScore, 1e-9)
	require.Len(t, llm.calls, 2)
}

func TestServiceFallsBackToRuleEngine(t *testing.T) {
	llm := &scriptedLLM{errs: []error{errors.New("invalid api request payload")}}
	svc := NewService(
		compliance.NewEngine(),
		New(llm, "gpt-4", "gpt-3.5-turbo", 8000, nil),
		resilience.NewCache[models.ComplianceReport](time.Minute),
		nil,
	)

	rep, err := svc.CheckCompliance(context.Background(), "p1", "o1",
		"Exclusions: flood damage not covered. Contact customer service to file a claim form.", "insurance_standards", false)
	require.NoError(t, err)
	requireValidReport(t, rep)
	require.Len(t, rep.Checks, 6, "rule engine report carries the full check table")
}
