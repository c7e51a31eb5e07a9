package privacy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssessIdentifiesCategories(t *testing.T) {
	text := "We collect your name, email and phone for payment processing. Medical treatment records are stored. Consent may be withdrawn."
	pia := Assess("p1", "o1", text)

	require.Contains(t, pia.DataCategories, "Identity Data")
	require.Contains(t, pia.DataCategories, "Contact Data")
	require.Contains(t, pia.DataCategories, "Financial Data")
	require.Contains(t, pia.DataCategories, "Health Data")
	require.Contains(t, pia.ProcessingPurposes, PurposeConsent)
	require.NotEmpty(t, pia.LegalBasis)
	require.GreaterOrEqual(t, pia.ComplianceScore, 0.0)
	require.LessOrEqual(t, pia.ComplianceScore, 1.0)
}

func TestAssessDeterministicOrder(t *testing.T) {
	text := "health payment biometric fingerprint name email"
	a := Assess("p", "o", text)
	b := Assess("p", "o", text)
	require.Equal(t, a.DataCategories, b.DataCategories)
	require.Equal(t, a.Recommendations, b.Recommendations)
}

func TestRiskLevels(t *testing.T) {
	require.Equal(t, "high", riskLevel([]string{"Health Data"}, []string{PurposeLegitimateInterest}))
	require.Equal(t, "medium", riskLevel([]string{"Health Data"}, nil))
	require.Equal(t, "medium", riskLevel(nil, []string{PurposeLegitimateInterest}))
	require.Equal(t, "low", riskLevel([]string{"Contact Data"}, []string{PurposeConsent}))
}

func TestRetentionPeriodExtraction(t *testing.T) {
	pia := Assess("p", "o", "We retain your records for 7 years after account closure.")
	require.Equal(t, "7 period found", pia.RetentionPeriod)

	pia = Assess("p", "o", "Records are kept indefinitely.")
	require.Empty(t, pia.RetentionPeriod)
}

func TestComplianceScoreBounds(t *testing.T) {
	require.Equal(t, 0.0, ComplianceScore("nothing relevant here"))

	full := "the data controller states the purpose and legal basis; you have rights to access, rectification and erasure; retention period defined; contact email provided; dpo appointed; privacy notice; consent opt-in; breach notification procedure"
	require.Equal(t, 1.0, ComplianceScore(full))
}

func TestHighRiskRecommendations(t *testing.T) {
	pia := Assess("p", "o", "We process medical diagnosis data for analytics and business improvement under legitimate interest.")
	require.Equal(t, "high", pia.RiskLevel)
	require.Contains(t, pia.Recommendations, "HIGH RISK: Consider Data Protection Impact Assessment (DPIA)")
	require.Contains(t, pia.Recommendations, "Health data detected - ensure HIPAA compliance")
}

func TestConsentAndRequestConstructors(t *testing.T) {
	c := NewConsentRecord("o1", "p1", "marketing", "email updates", "Consent (Art. 6(1)(a))", "web form")
	require.NotEmpty(t, c.ConsentID)
	require.True(t, c.Granted)
	require.Nil(t, c.WithdrawnAt)

	r := NewDataSubjectRequest("o1", RequestErasure, "delete my account data")
	require.NotEmpty(t, r.RequestID)
	require.Equal(t, "pending", r.Status)
	require.Equal(t, RequestErasure, r.RequestType)
}
