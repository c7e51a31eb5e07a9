package compliance

import (
	"testing"

	"github.com/stretchr/testify/require"

	"policylens/internal/models"
)

func TestBandMonotonic(t *testing.T) {
	rank := map[models.ComplianceLevel]int{
		models.LevelUnknown:      0,
		models.LevelNonCompliant: 1,
		models.LevelPartial:      2,
		models.LevelCompliant:    3,
	}
	prev := rank[Band(0)]
	for s := 0.0; s <= 1.0; s += 0.01 {
		cur := rank[Band(s)]
		require.GreaterOrEqual(t, cur, prev, "band must never get worse as score rises (score=%f)", s)
		prev = cur
	}
	require.Equal(t, models.LevelCompliant, Band(0.8))
	require.Equal(t, models.LevelPartial, Band(0.5))
	require.Equal(t, models.LevelNonCompliant, Band(0.1))
	require.Equal(t, models.LevelUnknown, Band(0.05))
}

func TestAvailableFrameworks(t *testing.T) {
	e := NewEngine()
	fws := e.AvailableFrameworks()
	for _, key := range []string{"gdpr", "ccpa", "hipaa", "sox", "pci_dss", "insurance_standards"} {
		require.Contains(t, fws, key)
		require.NotEmpty(t, fws[key])
	}
}

func TestResolveFallsBackToDefault(t *testing.T) {
	e := NewEngine()
	require.Equal(t, DefaultFramework, e.Resolve("").Key)
	require.Equal(t, DefaultFramework, e.Resolve("nonexistent").Key)
	require.Equal(t, "gdpr", e.Resolve("gdpr").Key)
}

func TestDetectFramework(t *testing.T) {
	e := NewEngine()
	require.Equal(t, "hipaa", e.Detect("This notice covers protected health information, PHI, medical records and healthcare provider duties under HIPAA."))
	require.Equal(t, "gdpr", e.Detect("Processing of personal data requires consent; the data subject may invoke GDPR rights against the data controller."))
	require.Equal(t, DefaultFramework, e.Detect("Nothing regulatory in here at all."))
}

func TestRunReturnsDeclarationOrder(t *testing.T) {
	e := NewEngine()
	checks := e.Run("any text", "insurance_standards")
	names := make([]string, 0, len(checks))
	for _, c := range checks {
		names = append(names, c.CheckName)
	}
	require.Equal(t, []string{
		"Policy Clarity", "Coverage Details", "Exclusions",
		"Claims Procedures", "Contact Information", "Terms and Conditions",
	}, names)
}

func TestRunScoresWithinBounds(t *testing.T) {
	e := NewEngine()
	text := "Exclusions: water damage is not covered. Contact our customer service. Claim submission requires a claim form. Premium and renewal terms and conditions apply to the policyholder."
	for _, fw := range []string{"gdpr", "ccpa", "hipaa", "sox", "pci_dss", "insurance_standards"} {
		for _, c := range e.Run(text, fw) {
			require.GreaterOrEqual(t, c.Score, 0.0)
			require.LessOrEqual(t, c.Score, 1.0)
			require.NotEmpty(t, c.CheckName)
		}
	}
}

func TestAggregateDeterministic(t *testing.T) {
	e := NewEngine()
	checks := []models.ComplianceCheck{
		{CheckName: "a", Level: models.LevelCompliant, Score: 0.9},
		{CheckName: "b", Level: models.LevelPartial, Score: 0.5},
		{CheckName: "c", Level: models.LevelNonCompliant, Score: 0.2},
		{CheckName: "d", Level: models.LevelUnknown, Score: 0.7},
	}
	s1, l1 := e.Aggregate(checks)
	s2, l2 := e.Aggregate(checks)
	require.Equal(t, s1, s2)
	require.Equal(t, l1, l2)
	// (0.9*1.0 + 0.5*0.6 + 0.2*0.2 + 0.7*0.0) / 4
	require.InDelta(t, 0.31, s1, 1e-9)
	require.Equal(t, models.LevelNonCompliant, l1)
}

func TestAggregateEmpty(t *testing.T) {
	e := NewEngine()
	score, level := e.Aggregate(nil)
	require.Equal(t, 0.0, score)
	require.Equal(t, models.LevelUnknown, level)
}

func TestCheckFailureIsIsolated(t *testing.T) {
	boom := CheckSpec{Name: "Exploding Check", Run: func(string) models.ComplianceCheck {
		panic("pattern table corrupted")
	}}
	check := runIsolated(boom, "text")
	require.Equal(t, models.LevelUnknown, check.Level)
	require.Equal(t, 0.0, check.Score)
	require.Contains(t, check.Message, "pattern table corrupted")
}

func TestReportShape(t *testing.T) {
	e := NewEngine()
	rep := e.Report("p1", "o1", "Coverage limits and benefits apply; claim forms available from customer service.", "")
	require.Equal(t, "p1", rep.PolicyID)
	require.Equal(t, "o1", rep.OwnerID)
	require.NotEmpty(t, rep.RegulationFramework)
	require.NotEmpty(t, rep.Checks)
	require.GreaterOrEqual(t, rep.OverallScore, 0.0)
	require.LessOrEqual(t, rep.OverallScore, 1.0)
	require.Equal(t, Band(rep.OverallScore), rep.OverallLevel)
}
