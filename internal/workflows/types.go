package workflows

import "policylens/internal/models"

type PolicyIngestInput struct {
	OwnerID      string `json:"owner_id"`
	PolicyPath   string `json:"policy_path"`
	ChunkSize    int    `json:"chunk_size"`
	ChunkOverlap int    `json:"chunk_overlap"`
}

// PolicyStatus is the queryable progress of one ingest run.
type PolicyStatus struct {
	PolicyID    string            `json:"policy_id"`
	PolicyPath  string            `json:"policy_path"`
	CurrentStep string            `json:"current_step"`
	Status      string            `json:"status"`
	FailReason  string            `json:"fail_reason,omitempty"`
	Steps       map[string]string `json:"steps"`
	Provider    string            `json:"provider,omitempty"`
}

type ComplianceAnalyzeInput struct {
	OwnerID      string `json:"owner_id"`
	PolicyID     string `json:"policy_id"`
	Framework    string `json:"framework"`
	ForceRefresh bool   `json:"force_refresh"`
}

type AnalysisStatus struct {
	PolicyID    string `json:"policy_id"`
	CurrentStep string `json:"current_step"`
	Status      string `json:"status"`
	Framework   string `json:"framework,omitempty"`
	FailReason  string `json:"fail_reason,omitempty"`
}

type ComplianceAnalyzeOutput struct {
	Report models.ComplianceReport `json:"report"`
}
