package analyzer

import (
	"encoding/json"
	"strings"

	"policylens/internal/models"
)

// canonicalChecks are the six categories every report carries when the
// model's output has to be reconstructed rather than parsed.
var canonicalChecks = []string{
	"Policy Clarity", "Coverage Details", "Exclusions",
	"Claims Procedures", "Contact Information", "Terms and Conditions",
}

type rawCheck struct {
	CheckName      string   `json:"check_name"`
	Level          string   `json:"level"`
	Score          float64  `json:"score"`
	Message        string   `json:"message"`
	Evidence       []string `json:"evidence"`
	Recommendation string   `json:"recommendation"`
}

type rawReport struct {
	OverallScore float64    `json:"overall_score"`
	OverallLevel string     `json:"overall_level"`
	Checks       []rawCheck `json:"checks"`
}

// parseResponse turns whatever the model said into a well-formed
// report body: strict JSON extraction first, then the text heuristic,
// then the fixed default. It cannot fail.
func parseResponse(response string) (float64, models.ComplianceLevel, []models.ComplianceCheck) {
	if raw, ok := extractJSON(response); ok {
		checks := make([]models.ComplianceCheck, 0, len(raw.Checks))
		for _, c := range raw.Checks {
			checks = append(checks, models.ComplianceCheck{
				CheckName:      nonEmpty(c.CheckName, "Unknown Check"),
				Level:          parseLevel(c.Level),
				Score:          clamp01(c.Score),
				Message:        nonEmpty(c.Message, "No message provided"),
				Evidence:       nonNil(c.Evidence),
				Recommendation: c.Recommendation,
			})
		}
		if len(checks) > 0 {
			return clamp01(raw.OverallScore), parseLevel(raw.OverallLevel), checks
		}
	}
	if score, level, checks, ok := textHeuristic(response); ok {
		return score, level, checks
	}
	return defaultReportBody()
}

// extractJSON takes the span from the first '{' to the last '}' and
// attempts a strict decode.
func extractJSON(response string) (rawReport, bool) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return rawReport{}, false
	}
	var raw rawReport
	if err := json.Unmarshal([]byte(response[start:end+1]), &raw); err != nil {
		return rawReport{}, false
	}
	return raw, true
}

type heuristicRule struct {
	name    string
	matches func(lower string) bool
	pass    models.ComplianceCheck
	fail    models.ComplianceCheck
}

var heuristicRules = []heuristicRule{
	{
		name:    "Policy Clarity",
		matches: func(s string) bool { return strings.Contains(s, "clear") || strings.Contains(s, "understandable") },
		pass: models.ComplianceCheck{
			Level: models.LevelCompliant, Score: 0.8,
			Message:        "Policy language is clear and understandable",
			Evidence:       []string{"Clear language mentioned in analysis"},
			Recommendation: "Continue using clear language",
		},
		fail: models.ComplianceCheck{
			Level: models.LevelPartial, Score: 0.5,
			Message:        "Policy clarity needs improvement",
			Evidence:       []string{"Clarity assessment from analysis"},
			Recommendation: "Improve language clarity",
		},
	},
	{
		name:    "Coverage Details",
		matches: func(s string) bool { return strings.Contains(s, "coverage") && strings.Contains(s, "details") },
		pass: models.ComplianceCheck{
			Level: models.LevelCompliant, Score: 0.8,
			Message:        "Coverage details are well specified",
			Evidence:       []string{"Coverage details mentioned in analysis"},
			Recommendation: "Maintain detailed coverage information",
		},
		fail: models.ComplianceCheck{
			Level: models.LevelPartial, Score: 0.5,
			Message:        "Coverage details could be more specific",
			Evidence:       []string{"Coverage assessment from analysis"},
			Recommendation: "Add more specific coverage details",
		},
	},
	{
		name:    "Exclusions",
		matches: func(s string) bool { return strings.Contains(s, "exclusion") || strings.Contains(s, "not covered") },
		pass: models.ComplianceCheck{
			Level: models.LevelCompliant, Score: 0.7,
			Message:        "Exclusions are clearly stated",
			Evidence:       []string{"Exclusions mentioned in analysis"},
			Recommendation: "Maintain clear exclusion statements",
		},
		fail: models.ComplianceCheck{
			Level: models.LevelPartial, Score: 0.4,
			Message:        "Exclusions need to be more clearly defined",
			Evidence:       []string{"Limited exclusion information found"},
			Recommendation: "Add detailed exclusions section",
		},
	},
	{
		name: "Claims Procedures",
		matches: func(s string) bool {
			return strings.Contains(s, "claim") && (strings.Contains(s, "procedure") || strings.Contains(s, "process"))
		},
		pass: models.ComplianceCheck{
			Level: models.LevelCompliant, Score: 0.8,
			Message:        "Claims procedures are well documented",
			Evidence:       []string{"Claims process mentioned in analysis"},
			Recommendation: "Keep claims procedures up to date",
		},
		fail: models.ComplianceCheck{
			Level: models.LevelNonCompliant, Score: 0.3,
			Message:        "Claims procedures are not clearly outlined",
			Evidence:       []string{"No clear claims process found"},
			Recommendation: "Add detailed claims procedures section",
		},
	},
	{
		name: "Contact Information",
		matches: func(s string) bool {
			return strings.Contains(s, "contact") || strings.Contains(s, "phone") || strings.Contains(s, "email")
		},
		pass: models.ComplianceCheck{
			Level: models.LevelCompliant, Score: 0.9,
			Message:        "Contact information is clearly provided",
			Evidence:       []string{"Contact details mentioned in analysis"},
			Recommendation: "Keep contact information current",
		},
		fail: models.ComplianceCheck{
			Level: models.LevelNonCompliant, Score: 0.2,
			Message:        "Contact information is missing or unclear",
			Evidence:       []string{"No clear contact information found"},
			Recommendation: "Add comprehensive contact information",
		},
	},
	{
		name:    "Terms and Conditions",
		matches: func(s string) bool { return strings.Contains(s, "term") && strings.Contains(s, "condition") },
		pass: models.ComplianceCheck{
			Level: models.LevelCompliant, Score: 0.7,
			Message:        "Terms and conditions are well covered",
			Evidence:       []string{"Terms mentioned in analysis"},
			Recommendation: "Review and update terms regularly",
		},
		fail: models.ComplianceCheck{
			Level: models.LevelPartial, Score: 0.5,
			Message:        "Terms and conditions could be more comprehensive",
			Evidence:       []string{"Basic terms found in analysis"},
			Recommendation: "Expand terms and conditions section",
		},
	},
}

// textHeuristic reconstructs the canonical report from free text by
// keyword presence. Returns ok=false only for blank input, where not
// even a band can be inferred.
func textHeuristic(response string) (float64, models.ComplianceLevel, []models.ComplianceCheck, bool) {
	lower := strings.ToLower(response)
	if strings.TrimSpace(lower) == "" {
		return 0, "", nil, false
	}

	score, level := 0.7, models.LevelPartial
	switch {
	case strings.Contains(lower, "compliant") && !strings.Contains(lower, "non-compliant"):
		score, level = 0.8, models.LevelCompliant
	case strings.Contains(lower, "non-compliant") || strings.Contains(lower, "not compliant"):
		score, level = 0.3, models.LevelNonCompliant
	case strings.Contains(lower, "partial"):
		score, level = 0.6, models.LevelPartial
	}

	checks := make([]models.ComplianceCheck, 0, len(heuristicRules))
	for _, rule := range heuristicRules {
		c := rule.fail
		if rule.matches(lower) {
			c = rule.pass
		}
		c.CheckName = rule.name
		checks = append(checks, c)
	}
	return score, level, checks, true
}

// defaultReportBody is the last line of defense: every canonical
// category marked partial at 0.5, so the caller always receives a
// structurally complete report.
func defaultReportBody() (float64, models.ComplianceLevel, []models.ComplianceCheck) {
	checks := make([]models.ComplianceCheck, 0, len(canonicalChecks))
	for _, name := range canonicalChecks {
		checks = append(checks, models.ComplianceCheck{
			CheckName:      name,
			Level:          models.LevelPartial,
			Score:          0.5,
			Message:        name + " could not be assessed due to technical limitations",
			Evidence:       []string{"Analysis failed due to parsing issues"},
			Recommendation: "Please try again or contact support",
		})
	}
	return 0.5, models.LevelPartial, checks
}

func parseLevel(s string) models.ComplianceLevel {
	switch models.ComplianceLevel(strings.ToLower(strings.TrimSpace(s))) {
	case models.LevelCompliant:
		return models.LevelCompliant
	case models.LevelPartial:
		return models.LevelPartial
	case models.LevelNonCompliant:
		return models.LevelNonCompliant
	default:
		return models.LevelUnknown
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
