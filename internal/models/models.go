package models

import "time"

// Policy is an uploaded document that has been (or is being) processed
// for retrieval and assessment.
type Policy struct {
	PolicyID   string    `json:"policy_id"`
	OwnerID    string    `json:"owner_id"`
	Filename   string    `json:"filename"`
	Title      string    `json:"title,omitempty"`
	Text       string    `json:"text,omitempty"`
	Status     string    `json:"status"`
	FailReason string    `json:"fail_reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Chunk is a bounded, overlap-aware slice of document text paired with
// its embedding vector. Unique per (document, owner, index) and
// immutable once stored; re-processing a document replaces all of its
// chunks.
type Chunk struct {
	DocumentID string    `json:"document_id"`
	OwnerID    string    `json:"owner_id"`
	ChunkIndex int       `json:"chunk_index"`
	Text       string    `json:"text"`
	Embedding  []float64 `json:"embedding,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ChunkMatch is a Chunk plus its similarity to a query vector. Never
// persisted; recomputed per query.
type ChunkMatch struct {
	Chunk
	Similarity float64 `json:"similarity_score"`
}

// ComplianceLevel is the discrete band derived from a compliance score.
type ComplianceLevel string

const (
	LevelCompliant    ComplianceLevel = "compliant"
	LevelPartial      ComplianceLevel = "partial"
	LevelNonCompliant ComplianceLevel = "non_compliant"
	LevelUnknown      ComplianceLevel = "unknown"
)

type ComplianceCheck struct {
	CheckName      string          `json:"check_name"`
	Level          ComplianceLevel `json:"level"`
	Score          float64         `json:"score"`
	Message        string          `json:"message"`
	Evidence       []string        `json:"evidence"`
	Recommendation string          `json:"recommendation,omitempty"`
}

type ComplianceReport struct {
	PolicyID            string            `json:"policy_id"`
	OwnerID             string            `json:"owner_id"`
	OverallScore        float64           `json:"overall_score"`
	OverallLevel        ComplianceLevel   `json:"overall_level"`
	Checks              []ComplianceCheck `json:"checks"`
	RegulationFramework string            `json:"regulation_framework"`
	GeneratedAt         time.Time         `json:"generated_at"`
}

// Severity of a single DLP finding.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SensitivityLevel classifies a document as a whole.
type SensitivityLevel string

const (
	SensitivityPublic       SensitivityLevel = "public"
	SensitivityInternal     SensitivityLevel = "internal"
	SensitivityConfidential SensitivityLevel = "confidential"
	SensitivityRestricted   SensitivityLevel = "restricted"
)

type ViolationType string

const (
	ViolationPII           ViolationType = "pii_exposure"
	ViolationFinancial     ViolationType = "financial_data"
	ViolationHealthRecords ViolationType = "health_records"
	ViolationCredentials   ViolationType = "credentials"
	ViolationCustomPattern ViolationType = "custom_pattern"
)

type DLPViolation struct {
	ViolationType  ViolationType `json:"violation_type"`
	Severity       Severity      `json:"severity"`
	Description    string        `json:"description"`
	DetectedData   string        `json:"detected_data"`
	Location       string        `json:"location"`
	Recommendation string        `json:"recommendation"`
	Confidence     float64       `json:"confidence"`
}

// DLPScanResult is derived entirely from its violations; it is never
// persisted independently of its inputs.
type DLPScanResult struct {
	PolicyID         string           `json:"policy_id"`
	OwnerID          string           `json:"owner_id"`
	ScanTimestamp    time.Time        `json:"scan_timestamp"`
	SensitivityLevel SensitivityLevel `json:"sensitivity_level"`
	Violations       []DLPViolation   `json:"violations"`
	RiskScore        float64          `json:"risk_score"`
	IsSafeToPublish  bool             `json:"is_safe_to_publish"`
	Recommendations  []string         `json:"recommendations"`
}

type PrivacyAssessment struct {
	PolicyID           string    `json:"policy_id"`
	OwnerID            string    `json:"owner_id"`
	AssessmentDate     time.Time `json:"assessment_date"`
	DataCategories     []string  `json:"data_categories"`
	ProcessingPurposes []string  `json:"processing_purposes"`
	LegalBasis         []string  `json:"legal_basis"`
	DataSubjects       []string  `json:"data_subjects"`
	RetentionPeriod    string    `json:"retention_period,omitempty"`
	RiskLevel          string    `json:"risk_level"`
	Recommendations    []string  `json:"recommendations"`
	ComplianceScore    float64   `json:"compliance_score"`
}

type SourceInfo struct {
	DocumentID     string  `json:"document_id"`
	ChunkIndex     int     `json:"chunk_index"`
	Text           string  `json:"text"`
	RelevanceScore float64 `json:"relevance_score"`
}

type Answer struct {
	Answer     string       `json:"answer"`
	Sources    []SourceInfo `json:"sources"`
	Confidence float64      `json:"confidence"`
	PolicyID   string       `json:"policy_id"`
	OwnerID    string       `json:"owner_id"`
}
