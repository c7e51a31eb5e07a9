package compliance

import (
	"fmt"
	"strings"
	"time"

	"policylens/internal/models"
)

// Engine runs the deterministic rule tables. State-free per
// invocation; safe for concurrent use.
type Engine struct {
	frameworks []Framework
	byKey      map[string]Framework
}

func NewEngine() *Engine {
	fws := buildFrameworks()
	byKey := make(map[string]Framework, len(fws))
	for _, fw := range fws {
		byKey[fw.Key] = fw
	}
	return &Engine{frameworks: fws, byKey: byKey}
}

func (e *Engine) AvailableFrameworks() map[string]string {
	out := make(map[string]string, len(e.frameworks))
	for _, fw := range e.frameworks {
		out[fw.Key] = fw.Name
	}
	return out
}

// Resolve returns the framework for key, or the default framework for
// an empty or unrecognized key.
func (e *Engine) Resolve(key string) Framework {
	if fw, ok := e.byKey[key]; ok {
		return fw
	}
	return e.byKey[DefaultFramework]
}

// Detect picks the framework whose detection keywords hit the text
// most often. An all-zero result falls back to the default framework.
// Candidate order is fixed so equal counts resolve the same way every
// run.
func (e *Engine) Detect(text string) string {
	lower := strings.ToLower(text)
	order := []string{"gdpr", "hipaa", "ccpa", "sox", "pci_dss"}
	best, bestHits := DefaultFramework, 0
	for _, key := range order {
		hits := 0
		for _, kw := range detectionKeywords[key] {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = key, hits
		}
	}
	return best
}

// Run executes a framework's checks in declaration order. A panicking
// check is isolated: it becomes an unknown-level finding carrying the
// failure message, and the remaining checks still run.
func (e *Engine) Run(text, frameworkKey string) []models.ComplianceCheck {
	fw := e.Resolve(frameworkKey)
	checks := make([]models.ComplianceCheck, 0, len(fw.Checks))
	for _, spec := range fw.Checks {
		checks = append(checks, runIsolated(spec, text))
	}
	return checks
}

func runIsolated(spec CheckSpec, text string) (check models.ComplianceCheck) {
	defer func() {
		if r := recover(); r != nil {
			check = models.ComplianceCheck{
				CheckName: spec.Name,
				Level:     models.LevelUnknown,
				Score:     0.0,
				Message:   fmt.Sprintf("Check failed due to error: %v", r),
				Evidence:  []string{fmt.Sprint(r)},
			}
		}
	}()
	return spec.Run(text)
}

// Aggregate folds per-check results into the overall score and level.
// Each check contributes score weighted by its level band; the overall
// level is re-banded from the mean.
func (e *Engine) Aggregate(checks []models.ComplianceCheck) (float64, models.ComplianceLevel) {
	if len(checks) == 0 {
		return 0.0, models.LevelUnknown
	}
	var sum float64
	for _, c := range checks {
		sum += c.Score * bandWeight(c.Level)
	}
	score := sum / float64(len(checks))
	return score, Band(score)
}

// Report is the one-call path: resolve or detect the framework, run
// its checks, aggregate, and stamp the result.
func (e *Engine) Report(policyID, ownerID, text, frameworkKey string) models.ComplianceReport {
	if frameworkKey == "" {
		frameworkKey = e.Detect(text)
	}
	fw := e.Resolve(frameworkKey)
	checks := e.Run(text, fw.Key)
	score, level := e.Aggregate(checks)
	return models.ComplianceReport{
		PolicyID:            policyID,
		OwnerID:             ownerID,
		OverallScore:        score,
		OverallLevel:        level,
		Checks:              checks,
		RegulationFramework: fw.Key,
		GeneratedAt:         time.Now(),
	}
}
