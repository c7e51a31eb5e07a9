package compliance

import (
	"fmt"
	"regexp"
	"strings"

	"policylens/internal/models"
)

// CheckSpec is one rule in a framework's ordered check table. Run must
// be a pure function of the text.
type CheckSpec struct {
	Name string
	Run  func(text string) models.ComplianceCheck
}

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile("(?i)"+p))
	}
	return out
}

func compileKeywords(keywords []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(keywords))
	for _, kw := range keywords {
		out = append(out, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(kw)+`\b`))
	}
	return out
}

// keywordCheck scores by the fraction of keywords present, banded at
// per-check thresholds. Evidence lists the keywords that matched.
func keywordCheck(name string, keywords []string, compliantAt, partialAt float64, subject, recommendation string) CheckSpec {
	res := compileKeywords(keywords)
	return CheckSpec{Name: name, Run: func(text string) models.ComplianceCheck {
		found := make([]string, 0, len(keywords))
		for i, re := range res {
			if re.MatchString(text) {
				found = append(found, keywords[i])
			}
		}
		score := float64(len(found)) / float64(len(keywords))
		return models.ComplianceCheck{
			CheckName:      name,
			Level:          bandAt(score, compliantAt, partialAt),
			Score:          score,
			Message:        fmt.Sprintf("Found %d/%d %s", len(found), len(keywords), subject),
			Evidence:       found,
			Recommendation: recommendation,
		}
	}}
}

type evidenceCheck struct {
	name          string
	patterns      []string
	passScore     float64
	failScore     float64
	passMessage   string
	failMessage   string
	passAdvice    string
	failAdvice    string
	perPatternMax int
	totalMax      int
}

// presenceCheck passes on any pattern hit with a fixed score, fails
// with a fixed low score otherwise. Matched substrings become the
// evidence list, optionally deduplicated and truncated.
func presenceCheck(c evidenceCheck) CheckSpec {
	res := compileAll(c.patterns)
	return CheckSpec{Name: c.name, Run: func(text string) models.ComplianceCheck {
		evidence := make([]string, 0, 8)
		for _, re := range res {
			matches := re.FindAllString(text, -1)
			if c.perPatternMax > 0 {
				matches = uniqueHead(matches, c.perPatternMax)
			}
			evidence = append(evidence, matches...)
		}
		if c.totalMax > 0 && len(evidence) > c.totalMax {
			evidence = evidence[:c.totalMax]
		}
		if len(evidence) > 0 {
			return models.ComplianceCheck{
				CheckName:      c.name,
				Level:          models.LevelCompliant,
				Score:          c.passScore,
				Message:        c.passMessage,
				Evidence:       evidence,
				Recommendation: c.passAdvice,
			}
		}
		return models.ComplianceCheck{
			CheckName:      c.name,
			Level:          models.LevelNonCompliant,
			Score:          c.failScore,
			Message:        c.failMessage,
			Evidence:       []string{},
			Recommendation: c.failAdvice,
		}
	}}
}

func uniqueHead(matches []string, limit int) []string {
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, limit)
	for _, m := range matches {
		key := strings.ToLower(m)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, m)
		if len(out) == limit {
			break
		}
	}
	return out
}

var (
	complexLanguage = compileAll([]string{
		"notwithstanding", "hereinbefore", "aforementioned",
		"pursuant to", "subject to the provisions",
	})
	clearLanguage = compileAll([]string{
		"you will", "we will", "this means", "in other words", "for example",
	})
)

// clarityCheck weighs plain-language markers against dense legal
// phrasing. With no markers of either kind the score stays neutral.
func clarityCheck() CheckSpec {
	const name = "Policy Clarity"
	return CheckSpec{Name: name, Run: func(text string) models.ComplianceCheck {
		complexCount, clearCount := 0, 0
		for _, re := range complexLanguage {
			complexCount += len(re.FindAllString(text, -1))
		}
		for _, re := range clearLanguage {
			clearCount += len(re.FindAllString(text, -1))
		}
		score := 0.5
		if complexCount+clearCount > 0 {
			score = float64(clearCount) / float64(complexCount+clearCount)
		}
		var level models.ComplianceLevel
		var message string
		switch {
		case score >= 0.7:
			level = models.LevelCompliant
			message = "Policy language is generally clear and understandable"
		case score >= 0.4:
			level = models.LevelPartial
			message = "Policy language has some complex terms but includes clarifications"
		default:
			level = models.LevelNonCompliant
			message = "Policy language contains many complex legal terms without clear explanations"
		}
		return models.ComplianceCheck{
			CheckName: name,
			Level:     level,
			Score:     score,
			Message:   message,
			Evidence: []string{
				fmt.Sprintf("Clear indicators: %d", clearCount),
				fmt.Sprintf("Complex terms: %d", complexCount),
			},
			Recommendation: "Use plain language and provide clear explanations for complex terms",
		}
	}}
}

var (
	coveragePatterns = []string{
		`coverage.*\d+`, "expenses.*up to", "benefits", "limits", "maximum",
		"covered.*services", "policy.*limits", "hospitalization",
		"pre.*post.*hospitalization", "daycare.*procedures",
	}
	coverageRes = compileAll(coveragePatterns)
	anyDigits   = regexp.MustCompile(`\d`)
)

// coverageCheck scores pattern coverage plus a flat bonus when the
// text carries concrete amounts.
func coverageCheck() CheckSpec {
	const name = "Coverage Details"
	return CheckSpec{Name: name, Run: func(text string) models.ComplianceCheck {
		found := make([]string, 0, len(coveragePatterns))
		for i, re := range coverageRes {
			if re.MatchString(text) {
				found = append(found, coveragePatterns[i])
			}
		}
		hasAmounts := anyDigits.MatchString(text)
		score := float64(len(found)) / float64(len(coveragePatterns))
		if hasAmounts {
			score += 0.3
		}
		if score > 1.0 {
			score = 1.0
		}
		evidence := found
		if len(evidence) > 5 {
			evidence = evidence[:5]
		}
		message := fmt.Sprintf("Found %d coverage patterns", len(found))
		if hasAmounts {
			evidence = append(evidence, "Contains specific amounts/limits")
			message += " with specific amounts"
		}
		return models.ComplianceCheck{
			CheckName:      name,
			Level:          bandAt(score, 0.6, 0.3),
			Score:          score,
			Message:        message,
			Evidence:       evidence,
			Recommendation: "Ensure all coverage details are clearly specified with amounts and conditions",
		}
	}}
}

var (
	claimsPatterns = []string{
		"claim", "cashless.*treatment", "reimbursement", "network.*hospitals",
		"non.*network", "claims.*procedure", "how.*to.*file", "claim.*form",
		"claim.*process", "claim.*submission",
	}
	claimsRes = compileAll(claimsPatterns)
)

func claimsCheck() CheckSpec {
	const name = "Claims Procedures"
	return CheckSpec{Name: name, Run: func(text string) models.ComplianceCheck {
		found := make([]string, 0, len(claimsPatterns))
		for i, re := range claimsRes {
			if re.MatchString(text) {
				found = append(found, claimsPatterns[i])
			}
		}
		score := float64(len(found)) / float64(len(claimsPatterns))
		evidence := found
		if len(evidence) > 5 {
			evidence = evidence[:5]
		}
		return models.ComplianceCheck{
			CheckName:      name,
			Level:          bandAt(score, 0.4, 0.2),
			Score:          score,
			Message:        fmt.Sprintf("Found %d claims patterns", len(found)),
			Evidence:       evidence,
			Recommendation: "Ensure comprehensive claims procedures with clear steps and contact information",
		}
	}}
}
