package dlp

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"policylens/internal/models"
	"policylens/internal/providers"
)

var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	phoneRes = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`),
		regexp.MustCompile(`\(\d{3}\)\s*\d{3}[-.]?\d{4}\b`),
		regexp.MustCompile(`\+1[-.]?\d{3}[-.]?\d{3}[-.]?\d{4}\b`),
	}

	ssnRe = regexp.MustCompile(`\b\d{3}-?\d{2}-?\d{4}\b`)

	creditCardRe = regexp.MustCompile(`\b(?:\d{4}[-\s]?){3}\d{4}\b`)

	bankRe = regexp.MustCompile(`\b\d{8,17}\b`)

	mrnRe       = regexp.MustCompile(`(?i)\bMRN[:\s]*\d{6,12}\b`)
	insuranceRe = regexp.MustCompile(`(?i)\b(?:insurance|policy)[:\s]*\d{6,12}\b`)

	credentialRes = []*regexp.Regexp{
		regexp.MustCompile(`\b[A-Za-z0-9]{32,}\b`),
		regexp.MustCompile(`\bsk-[A-Za-z0-9]{20,}\b`),
		regexp.MustCompile(`\bpk_[A-Za-z0-9]{20,}\b`),
	}

	financialContext = []string{"account", "bank", "routing", "checking", "savings"}
)

// Scanner runs the sub-scanners in fixed order and aggregates their
// findings. The model-assisted pass is optional; a nil provider keeps
// the scan purely pattern-based.
type Scanner struct {
	llm providers.LLMProvider
}

func NewScanner(llm providers.LLMProvider) *Scanner {
	return &Scanner{llm: llm}
}

// Scan inspects text for sensitive data. Sub-scanner outputs are
// concatenated in declaration order and never deduplicated: the same
// span flagged by two scanners is two findings.
func (s *Scanner) Scan(ctx context.Context, policyID, ownerID, text string, customPatterns []string) models.DLPScanResult {
	violations := make([]models.DLPViolation, 0, 8)
	violations = append(violations, scanPII(text)...)
	violations = append(violations, scanFinancial(text)...)
	violations = append(violations, scanHealth(text)...)
	violations = append(violations, scanCredentials(text)...)
	violations = append(violations, scanCustom(text, customPatterns)...)
	if s.llm != nil {
		violations = append(violations, s.modelScan(ctx, text)...)
	}

	sensitivity := sensitivityLevel(violations)
	risk := riskScore(violations)
	return models.DLPScanResult{
		PolicyID:         policyID,
		OwnerID:          ownerID,
		ScanTimestamp:    time.Now(),
		SensitivityLevel: sensitivity,
		Violations:       violations,
		RiskScore:        risk,
		IsSafeToPublish:  safeToPublish(violations, risk),
		Recommendations:  recommendations(violations, sensitivity),
	}
}

func lineOf(text string, offset int) string {
	return fmt.Sprintf("Line %d", strings.Count(text[:offset], "\n")+1)
}

func findAll(re *regexp.Regexp, text string) [][2]int {
	idx := re.FindAllStringIndex(text, -1)
	out := make([][2]int, 0, len(idx))
	for _, m := range idx {
		out = append(out, [2]int{m[0], m[1]})
	}
	return out
}

func scanPII(text string) []models.DLPViolation {
	violations := make([]models.DLPViolation, 0, 4)

	for _, m := range findAll(emailRe, text) {
		violations = append(violations, models.DLPViolation{
			ViolationType:  models.ViolationPII,
			Severity:       models.SeverityMedium,
			Description:    "Email address detected",
			DetectedData:   text[m[0]:m[1]],
			Location:       lineOf(text, m[0]),
			Recommendation: "Consider redacting or removing email addresses",
			Confidence:     0.95,
		})
	}

	for _, re := range phoneRes {
		for _, m := range findAll(re, text) {
			violations = append(violations, models.DLPViolation{
				ViolationType:  models.ViolationPII,
				Severity:       models.SeverityMedium,
				Description:    "Phone number detected",
				DetectedData:   text[m[0]:m[1]],
				Location:       lineOf(text, m[0]),
				Recommendation: "Consider redacting phone numbers",
				Confidence:     0.90,
			})
		}
	}

	for _, m := range findAll(ssnRe, text) {
		violations = append(violations, models.DLPViolation{
			ViolationType:  models.ViolationPII,
			Severity:       models.SeverityCritical,
			Description:    "Social Security Number detected",
			DetectedData:   text[m[0]:m[1]],
			Location:       lineOf(text, m[0]),
			Recommendation: "IMMEDIATELY redact SSN - this is highly sensitive data",
			Confidence:     0.95,
		})
	}

	for _, m := range findAll(creditCardRe, text) {
		violations = append(violations, models.DLPViolation{
			ViolationType:  models.ViolationFinancial,
			Severity:       models.SeverityCritical,
			Description:    "Credit card number detected",
			DetectedData:   text[m[0]:m[1]],
			Location:       lineOf(text, m[0]),
			Recommendation: "IMMEDIATELY redact credit card numbers",
			Confidence:     0.90,
		})
	}

	return violations
}

// scanFinancial flags long digit runs, but only when the surrounding
// document talks about accounts at all. Bare numbers in a policy table
// are otherwise far more likely to be limits than account numbers.
func scanFinancial(text string) []models.DLPViolation {
	lower := strings.ToLower(text)
	inContext := false
	for _, kw := range financialContext {
		if strings.Contains(lower, kw) {
			inContext = true
			break
		}
	}
	if !inContext {
		return nil
	}
	violations := make([]models.DLPViolation, 0, 2)
	for _, m := range findAll(bankRe, text) {
		violations = append(violations, models.DLPViolation{
			ViolationType:  models.ViolationFinancial,
			Severity:       models.SeverityHigh,
			Description:    "Potential bank account number detected",
			DetectedData:   text[m[0]:m[1]],
			Location:       lineOf(text, m[0]),
			Recommendation: "Verify if this is financial data and redact if necessary",
			Confidence:     0.70,
		})
	}
	return violations
}

func scanHealth(text string) []models.DLPViolation {
	violations := make([]models.DLPViolation, 0, 2)
	for _, m := range findAll(mrnRe, text) {
		violations = append(violations, models.DLPViolation{
			ViolationType:  models.ViolationHealthRecords,
			Severity:       models.SeverityHigh,
			Description:    "Medical record number detected",
			DetectedData:   text[m[0]:m[1]],
			Location:       lineOf(text, m[0]),
			Recommendation: "Redact medical record numbers - HIPAA violation risk",
			Confidence:     0.95,
		})
	}
	for _, m := range findAll(insuranceRe, text) {
		violations = append(violations, models.DLPViolation{
			ViolationType:  models.ViolationHealthRecords,
			Severity:       models.SeverityHigh,
			Description:    "Health insurance number detected",
			DetectedData:   text[m[0]:m[1]],
			Location:       lineOf(text, m[0]),
			Recommendation: "Redact health insurance numbers - HIPAA violation risk",
			Confidence:     0.80,
		})
	}
	return violations
}

func scanCredentials(text string) []models.DLPViolation {
	violations := make([]models.DLPViolation, 0, 2)
	for _, re := range credentialRes {
		for _, m := range findAll(re, text) {
			key := text[m[0]:m[1]]
			violations = append(violations, models.DLPViolation{
				ViolationType:  models.ViolationCredentials,
				Severity:       models.SeverityCritical,
				Description:    "Potential API key or credential detected",
				DetectedData:   key[:10] + "..." + key[len(key)-4:],
				Location:       lineOf(text, m[0]),
				Recommendation: "IMMEDIATELY remove API keys and credentials",
				Confidence:     0.85,
			})
		}
	}
	return violations
}

func scanCustom(text string, patterns []string) []models.DLPViolation {
	violations := make([]models.DLPViolation, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			log.Printf("dlp: skipping invalid custom pattern %q: %v", p, err)
			continue
		}
		for _, m := range findAll(re, text) {
			violations = append(violations, models.DLPViolation{
				ViolationType:  models.ViolationCustomPattern,
				Severity:       models.SeverityMedium,
				Description:    "Custom pattern match detected",
				DetectedData:   text[m[0]:m[1]],
				Location:       lineOf(text, m[0]),
				Recommendation: "Review custom pattern match",
				Confidence:     0.80,
			})
		}
	}
	return violations
}

func sensitivityLevel(violations []models.DLPViolation) models.SensitivityLevel {
	if len(violations) == 0 {
		return models.SensitivityPublic
	}
	critical, high := 0, 0
	for _, v := range violations {
		switch v.Severity {
		case models.SeverityCritical:
			critical++
		case models.SeverityHigh:
			high++
		}
	}
	switch {
	case critical > 0:
		return models.SensitivityRestricted
	case high > 2:
		return models.SensitivityConfidential
	case high > 0 || len(violations) > 3:
		return models.SensitivityInternal
	default:
		return models.SensitivityPublic
	}
}

func severityWeight(s models.Severity) float64 {
	switch s {
	case models.SeverityCritical:
		return 1.0
	case models.SeverityHigh:
		return 0.7
	case models.SeverityMedium:
		return 0.4
	case models.SeverityLow:
		return 0.1
	default:
		return 0.5
	}
}

func riskScore(violations []models.DLPViolation) float64 {
	if len(violations) == 0 {
		return 0.0
	}
	var total float64
	for _, v := range violations {
		total += severityWeight(v.Severity)
	}
	score := total / float64(len(violations))
	if score > 1.0 {
		return 1.0
	}
	return score
}

func safeToPublish(violations []models.DLPViolation, risk float64) bool {
	for _, v := range violations {
		if v.Severity == models.SeverityCritical {
			return false
		}
	}
	return risk < 0.7
}

func recommendations(violations []models.DLPViolation, level models.SensitivityLevel) []string {
	if len(violations) == 0 {
		return []string{"No sensitive data detected - content appears safe"}
	}
	present := make(map[models.ViolationType]bool, 4)
	for _, v := range violations {
		present[v.ViolationType] = true
	}
	recs := make([]string, 0, 6)
	if present[models.ViolationPII] {
		recs = append(recs, "Remove or redact personally identifiable information (PII)")
	}
	if present[models.ViolationFinancial] {
		recs = append(recs, "Remove or redact financial data and account numbers")
	}
	if present[models.ViolationHealthRecords] {
		recs = append(recs, "Remove or redact health information - HIPAA compliance required")
	}
	if present[models.ViolationCredentials] {
		recs = append(recs, "Remove all API keys, passwords, and credentials immediately")
	}
	switch level {
	case models.SensitivityRestricted:
		recs = append(recs, "Content classified as RESTRICTED - review before publishing")
	case models.SensitivityConfidential:
		recs = append(recs, "Content classified as CONFIDENTIAL - limit access")
	}
	return recs
}
