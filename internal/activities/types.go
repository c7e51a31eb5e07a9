package activities

import "policylens/internal/models"

type ComputePolicyIDInput struct {
	PolicyPath string `json:"policy_path"`
}

type ComputePolicyIDOutput struct {
	PolicyID string `json:"policy_id"`
}

type ExtractTextInput struct {
	PolicyPath string `json:"policy_path"`
}

type ExtractTextOutput struct {
	Text string `json:"text"`
}

type StorePolicyTextInput struct {
	OwnerID  string `json:"owner_id"`
	PolicyID string `json:"policy_id"`
	Text     string `json:"text"`
}

type ChunkTextInput struct {
	PolicyID     string `json:"policy_id"`
	OwnerID      string `json:"owner_id"`
	Text         string `json:"text"`
	ChunkSize    int    `json:"chunk_size"`
	ChunkOverlap int    `json:"chunk_overlap"`
}

type ChunkItem struct {
	PolicyID   string `json:"policy_id"`
	OwnerID    string `json:"owner_id"`
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
	Hash       string `json:"hash"`
}

type ChunkTextOutput struct {
	Chunks []ChunkItem `json:"chunks"`
}

type EmbedChunksInput struct {
	Operation string      `json:"operation"`
	OwnerID   string      `json:"owner_id"`
	PolicyID  string      `json:"policy_id"`
	Input     []ChunkItem `json:"input"`
}

type EmbedChunksOutput struct {
	Vectors      [][]float64 `json:"vectors"`
	ProviderName string      `json:"provider_name"`
	Model        string      `json:"model"`
}

type UpsertChunksInput struct {
	OwnerID  string      `json:"owner_id"`
	PolicyID string      `json:"policy_id"`
	Chunks   []ChunkItem `json:"chunks"`
	Vectors  [][]float64 `json:"vectors"`
}

type WritePolicyArtifactsInput struct {
	OwnerID       string         `json:"owner_id"`
	PolicyID      string         `json:"policy_id"`
	Metadata      map[string]any `json:"metadata"`
	Chunks        []ChunkItem    `json:"chunks"`
	ProcessingLog map[string]any `json:"processing_log"`
}

type UpdatePolicyStatusInput struct {
	PolicyID   string `json:"policy_id"`
	OwnerID    string `json:"owner_id"`
	Filename   string `json:"filename"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	FailReason string `json:"fail_reason"`
}

type LogModelCallInput struct {
	CallID       string `json:"call_id"`
	Operation    string `json:"operation"`
	OwnerID      string `json:"owner_id"`
	PolicyID     string `json:"policy_id"`
	ProviderName string `json:"provider_name"`
	Model        string `json:"model"`
	Status       string `json:"status"`
	ErrorType    string `json:"error_type"`
}

type LoadPolicyTextInput struct {
	OwnerID  string `json:"owner_id"`
	PolicyID string `json:"policy_id"`
}

type LoadPolicyTextOutput struct {
	Text string `json:"text"`
}

type RunComplianceInput struct {
	OwnerID      string `json:"owner_id"`
	PolicyID     string `json:"policy_id"`
	Text         string `json:"text"`
	Framework    string `json:"framework"`
	ForceRefresh bool   `json:"force_refresh"`
}

type RunComplianceOutput struct {
	Report models.ComplianceReport `json:"report"`
}
