package dlp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"policylens/internal/models"
)

func countBy(violations []models.DLPViolation, desc string) int {
	n := 0
	for _, v := range violations {
		if v.Description == desc {
			n++
		}
	}
	return n
}

func TestScanClaimsFormScenario(t *testing.T) {
	text := "Customer may contact claims@x.com or call 555-123-4567; SSN 123-45-6789 found in form."
	res := NewScanner(nil).Scan(context.Background(), "p1", "o1", text, nil)

	require.Equal(t, 1, countBy(res.Violations, "Email address detected"))
	require.Equal(t, 1, countBy(res.Violations, "Phone number detected"))
	require.Equal(t, 1, countBy(res.Violations, "Social Security Number detected"))

	for _, v := range res.Violations {
		switch v.Description {
		case "Social Security Number detected":
			require.Equal(t, models.SeverityCritical, v.Severity)
			require.Equal(t, "123-45-6789", v.DetectedData)
		case "Email address detected":
			require.Equal(t, models.SeverityMedium, v.Severity)
			require.Equal(t, "claims@x.com", v.DetectedData)
		case "Phone number detected":
			require.Equal(t, models.SeverityMedium, v.Severity)
		}
	}
	require.False(t, res.IsSafeToPublish)
	require.Equal(t, models.SensitivityRestricted, res.SensitivityLevel)
}

func TestScanCleanText(t *testing.T) {
	res := NewScanner(nil).Scan(context.Background(), "p1", "o1", "This policy covers fire and theft. See section two for details.", nil)
	require.Empty(t, res.Violations)
	require.Equal(t, models.SensitivityPublic, res.SensitivityLevel)
	require.Equal(t, 0.0, res.RiskScore)
	require.True(t, res.IsSafeToPublish)
	require.Equal(t, []string{"No sensitive data detected - content appears safe"}, res.Recommendations)
}

func TestScanCreditCard(t *testing.T) {
	res := NewScanner(nil).Scan(context.Background(), "p1", "o1", "Card on file: 4111-1111-1111-1111 for premium payment.", nil)
	require.Equal(t, 1, countBy(res.Violations, "Credit card number detected"))
	require.False(t, res.IsSafeToPublish)
}

func TestScanBankNumberNeedsContext(t *testing.T) {
	s := NewScanner(nil)
	withContext := s.Scan(context.Background(), "p", "o", "Deposit refunds to bank account 12345678 at your branch.", nil)
	require.GreaterOrEqual(t, countBy(withContext.Violations, "Potential bank account number detected"), 1)

	noContext := s.Scan(context.Background(), "p", "o", "Reference number 12345678 applies.", nil)
	require.Equal(t, 0, countBy(noContext.Violations, "Potential bank account number detected"))
}

func TestScanHealthRecords(t *testing.T) {
	res := NewScanner(nil).Scan(context.Background(), "p", "o", "Patient MRN: 123456 was admitted.", nil)
	require.Equal(t, 1, countBy(res.Violations, "Medical record number detected"))
}

func TestScanCredentialsMasked(t *testing.T) {
	res := NewScanner(nil).Scan(context.Background(), "p", "o", "token sk-abcdefghijklmnopqrstuvwxyz in config", nil)
	found := false
	for _, v := range res.Violations {
		if v.Description == "Potential API key or credential detected" {
			found = true
			require.NotContains(t, v.DetectedData, "sk-abcdefghijklmnopqrstuvwxyz")
			require.Contains(t, v.DetectedData, "...")
			require.Equal(t, models.SeverityCritical, v.Severity)
		}
	}
	require.True(t, found)
}

func TestScanCustomPatterns(t *testing.T) {
	res := NewScanner(nil).Scan(context.Background(), "p", "o", "Case CASE-2291 is pending.", []string{`CASE-\d+`})
	require.Equal(t, 1, countBy(res.Violations, "Custom pattern match detected"))

	// Invalid patterns are skipped, not fatal.
	res = NewScanner(nil).Scan(context.Background(), "p", "o", "anything", []string{`([`})
	require.Empty(t, res.Violations)
}

func TestSensitivityEscalation(t *testing.T) {
	mk := func(sev models.Severity, n int) []models.DLPViolation {
		out := make([]models.DLPViolation, n)
		for i := range out {
			out[i] = models.DLPViolation{Severity: sev}
		}
		return out
	}
	require.Equal(t, models.SensitivityPublic, sensitivityLevel(nil))
	require.Equal(t, models.SensitivityRestricted, sensitivityLevel(mk(models.SeverityCritical, 1)))
	require.Equal(t, models.SensitivityConfidential, sensitivityLevel(mk(models.SeverityHigh, 3)))
	require.Equal(t, models.SensitivityInternal, sensitivityLevel(mk(models.SeverityHigh, 1)))
	require.Equal(t, models.SensitivityInternal, sensitivityLevel(mk(models.SeverityLow, 4)))
	require.Equal(t, models.SensitivityPublic, sensitivityLevel(mk(models.SeverityLow, 2)))
}

func TestRiskScoreWeights(t *testing.T) {
	vs := []models.DLPViolation{
		{Severity: models.SeverityCritical},
		{Severity: models.SeverityHigh},
		{Severity: models.SeverityMedium},
		{Severity: models.SeverityLow},
	}
	require.InDelta(t, (1.0+0.7+0.4+0.1)/4.0, riskScore(vs), 1e-9)
	require.Equal(t, 0.0, riskScore(nil))
}

func TestFindingsDeclarationOrder(t *testing.T) {
	text := "Email a@b.io\ntoken sk-abcdefghijklmnopqrstuvwxyz\nMRN: 9876543"
	res := NewScanner(nil).Scan(context.Background(), "p", "o", text, nil)

	var order []models.ViolationType
	for _, v := range res.Violations {
		order = append(order, v.ViolationType)
	}
	// PII findings precede health findings, which precede credentials,
	// matching scanner declaration order regardless of text position.
	require.Equal(t, models.ViolationPII, order[0])
	last := map[models.ViolationType]int{}
	for i, vt := range order {
		last[vt] = i
	}
	require.Less(t, last[models.ViolationPII], last[models.ViolationHealthRecords])
	require.Less(t, last[models.ViolationHealthRecords], last[models.ViolationCredentials])
}
