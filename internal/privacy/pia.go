package privacy

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"policylens/internal/models"
)

// Processing purposes, GDPR Article 6 categories.
const (
	PurposeContractPerformance = "contract_performance"
	PurposeLegitimateInterest  = "legitimate_interest"
	PurposeConsent             = "consent"
	PurposeLegalObligation     = "legal_obligation"
	PurposeVitalInterests      = "vital_interests"
	PurposePublicTask          = "public_task"
)

type patternGroup struct {
	label    string
	patterns []string
}

// The identification tables are ordered so assessments list their
// findings the same way on every run.
var (
	dataCategoryTable = []patternGroup{
		{"Identity Data", []string{"name", "identification", "id number", "passport", "driving license"}},
		{"Contact Data", []string{"email", "address", "phone", "postal", "location"}},
		{"Financial Data", []string{"payment", "bank", "credit", "financial", "transaction"}},
		{"Health Data", []string{"health", "medical", "diagnosis", "treatment", "condition"}},
		{"Biometric Data", []string{"fingerprint", "face", "voice", "biometric", "iris"}},
		{"Behavioral Data", []string{"preferences", "behavior", "activity", "usage", "interaction"}},
		{"Technical Data", []string{"ip address", "cookies", "device", "browser", "log"}},
		{"Marketing Data", []string{"marketing", "advertising", "preferences", "consent"}},
	}

	purposeTable = []patternGroup{
		{PurposeContractPerformance, []string{"contract", "agreement", "service delivery", "fulfillment", "obligation"}},
		{PurposeLegitimateInterest, []string{"legitimate interest", "business interest", "improvement", "analytics"}},
		{PurposeConsent, []string{"consent", "agreement", "opt-in", "permission", "authorization"}},
		{PurposeLegalObligation, []string{"legal requirement", "compliance", "regulation", "law", "statutory"}},
		{PurposeVitalInterests, []string{"emergency", "vital", "life", "death", "safety", "security"}},
		{PurposePublicTask, []string{"public interest", "government", "official", "public service"}},
	}

	legalBasisTable = []patternGroup{
		{"Consent (Art. 6(1)(a))", []string{"consent", "agreement", "opt-in", "permission"}},
		{"Contract (Art. 6(1)(b))", []string{"contract", "agreement", "service", "performance"}},
		{"Legal Obligation (Art. 6(1)(c))", []string{"legal", "obligation", "compliance", "required"}},
		{"Vital Interests (Art. 6(1)(d))", []string{"vital", "emergency", "life", "death"}},
		{"Public Task (Art. 6(1)(e))", []string{"public", "official", "government", "authority"}},
		{"Legitimate Interest (Art. 6(1)(f))", []string{"legitimate interest", "business", "improvement"}},
	}

	dataSubjectTable = []patternGroup{
		{"Customers", []string{"customer", "client", "user", "subscriber"}},
		{"Employees", []string{"employee", "staff", "worker", "personnel"}},
		{"Vendors", []string{"vendor", "supplier", "partner", "contractor"}},
		{"Visitors", []string{"visitor", "guest", "website visitor"}},
		{"Minors", []string{"child", "minor", "under 18", "juvenile"}},
	}

	// The fixed GDPR requirement set behind the compliance score: one
	// point per satisfied category, out of ten.
	gdprRequirementTable = []patternGroup{
		{"Data Controller Info", []string{"controller", "data controller", "company", "organization"}},
		{"Purpose Specification", []string{"purpose", "why", "reason", "objective"}},
		{"Legal Basis", []string{"legal basis", "lawful basis", "consent", "contract"}},
		{"Data Subject Rights", []string{"rights", "access", "rectification", "erasure"}},
		{"Retention Period", []string{"retention", "keep", "store", "period"}},
		{"Contact Information", []string{"contact", "email", "address", "phone"}},
		{"Data Protection Officer", []string{"dpo", "data protection officer"}},
		{"Privacy Notice", []string{"privacy", "notice", "policy", "information"}},
		{"Consent Mechanism", []string{"consent", "opt-in", "agreement", "permission"}},
		{"Data Breach Procedures", []string{"breach", "incident", "notification", "procedure"}},
	}

	retentionRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)retain.*?(\d+)\s*(?:years?|months?|days?)`),
		regexp.MustCompile(`(?i)keep.*?(\d+)\s*(?:years?|months?|days?)`),
		regexp.MustCompile(`(?i)storage.*?(\d+)\s*(?:years?|months?|days?)`),
		regexp.MustCompile(`(?i)(\d+)\s*(?:years?|months?|days?).*?retention`),
	}

	highRiskCategories = map[string]bool{"Health Data": true, "Biometric Data": true, "Financial Data": true}
)

func matchGroups(table []patternGroup, lower string) []string {
	out := make([]string, 0, len(table))
	for _, g := range table {
		for _, p := range g.patterns {
			if strings.Contains(lower, p) {
				out = append(out, g.label)
				break
			}
		}
	}
	return out
}

// Assess conducts a privacy impact assessment over the document text.
// Pure pattern analysis; deterministic for identical input.
func Assess(policyID, ownerID, text string) models.PrivacyAssessment {
	lower := strings.ToLower(text)

	categories := matchGroups(dataCategoryTable, lower)
	purposes := matchGroups(purposeTable, lower)
	basis := matchGroups(legalBasisTable, lower)
	subjects := matchGroups(dataSubjectTable, lower)
	retention := retentionPeriod(text)
	risk := riskLevel(categories, purposes)

	return models.PrivacyAssessment{
		PolicyID:           policyID,
		OwnerID:            ownerID,
		AssessmentDate:     time.Now(),
		DataCategories:     categories,
		ProcessingPurposes: purposes,
		LegalBasis:         basis,
		DataSubjects:       subjects,
		RetentionPeriod:    retention,
		RiskLevel:          risk,
		Recommendations:    recommendations(categories, purposes, basis, risk),
		ComplianceScore:    ComplianceScore(lower),
	}
}

func retentionPeriod(text string) string {
	for _, re := range retentionRes {
		if m := re.FindStringSubmatch(text); m != nil {
			return fmt.Sprintf("%s period found", m[1])
		}
	}
	return ""
}

// riskLevel is high only when sensitive data meets a legitimate
// interest basis, the combination GDPR treats as needing a DPIA.
func riskLevel(categories, purposes []string) string {
	highRiskData := false
	for _, c := range categories {
		if highRiskCategories[c] {
			highRiskData = true
			break
		}
	}
	highRiskPurpose := false
	for _, p := range purposes {
		if p == PurposeLegitimateInterest {
			highRiskPurpose = true
			break
		}
	}
	switch {
	case highRiskData && highRiskPurpose:
		return "high"
	case highRiskData || highRiskPurpose:
		return "medium"
	default:
		return "low"
	}
}

// ComplianceScore counts satisfied GDPR requirement categories over
// the fixed ten-entry set.
func ComplianceScore(lowerText string) float64 {
	satisfied := len(matchGroups(gdprRequirementTable, lowerText))
	score := float64(satisfied) / float64(len(gdprRequirementTable))
	if score > 1.0 {
		return 1.0
	}
	return score
}

func recommendations(categories, purposes, basis []string, risk string) []string {
	recs := []string{
		"Ensure clear data controller identification",
		"Specify clear purposes for data processing",
		"Establish lawful basis for each processing activity",
		"Inform data subjects about their rights",
		"Define data retention periods",
	}
	if risk == "high" {
		recs = append(recs,
			"HIGH RISK: Consider Data Protection Impact Assessment (DPIA)",
			"Implement additional security measures",
			"Appoint a Data Protection Officer (DPO)",
		)
	}
	for _, c := range categories {
		switch c {
		case "Health Data":
			recs = append(recs, "Health data detected - ensure HIPAA compliance")
		case "Biometric Data":
			recs = append(recs, "Biometric data requires special protection measures")
		case "Financial Data":
			recs = append(recs, "Financial data requires PCI DSS compliance")
		}
	}
	if len(basis) == 0 {
		recs = append(recs, "No clear legal basis identified - this is required under GDPR")
	}
	for _, p := range purposes {
		if p == PurposeConsent {
			recs = append(recs,
				"Implement clear consent mechanisms",
				"Enable easy consent withdrawal",
			)
			break
		}
	}
	return recs
}

// ConsentRecord tracks one grant of consent and its provenance.
type ConsentRecord struct {
	ConsentID   string     `json:"consent_id"`
	OwnerID     string     `json:"owner_id"`
	PolicyID    string     `json:"policy_id"`
	ConsentType string     `json:"consent_type"`
	Granted     bool       `json:"granted"`
	GrantedAt   time.Time  `json:"granted_at"`
	WithdrawnAt *time.Time `json:"withdrawn_at,omitempty"`
	Purpose     string     `json:"purpose"`
	LegalBasis  string     `json:"legal_basis"`
	Evidence    string     `json:"evidence"`
}

func NewConsentRecord(ownerID, policyID, consentType, purpose, legalBasis, evidence string) ConsentRecord {
	return ConsentRecord{
		ConsentID:   uuid.NewString(),
		OwnerID:     ownerID,
		PolicyID:    policyID,
		ConsentType: consentType,
		Granted:     true,
		GrantedAt:   time.Now(),
		Purpose:     purpose,
		LegalBasis:  legalBasis,
		Evidence:    evidence,
	}
}

// Data subject request types under GDPR chapter 3.
const (
	RequestAccess             = "right_to_access"
	RequestRectification      = "right_to_rectification"
	RequestErasure            = "right_to_erasure"
	RequestPortability        = "right_to_portability"
	RequestRestrictProcessing = "right_to_restrict_processing"
	RequestObject             = "right_to_object"
	RequestConsentWithdrawal  = "consent_withdrawal"
)

type DataSubjectRequest struct {
	RequestID   string     `json:"request_id"`
	OwnerID     string     `json:"owner_id"`
	RequestType string     `json:"request_type"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func NewDataSubjectRequest(ownerID, requestType, description string) DataSubjectRequest {
	return DataSubjectRequest{
		RequestID:   uuid.NewString(),
		OwnerID:     ownerID,
		RequestType: requestType,
		Description: description,
		Status:      "pending",
		CreatedAt:   time.Now(),
	}
}
