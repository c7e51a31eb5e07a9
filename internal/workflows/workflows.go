package workflows

import (
	"path/filepath"
	"strings"
	"time"

	"policylens/internal/activities"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	QueryGetPolicyStatus   = "GetPolicyStatus"
	QueryGetAnalysisStatus = "GetAnalysisStatus"
)

// PolicyIngestWorkflow processes one uploaded document end to end:
// identity hash, text extraction, chunking, embedding, storage, and
// artifact output. A document with no extractable text fails the policy
// record without failing the workflow.
func PolicyIngestWorkflow(ctx workflow.Context, input PolicyIngestInput) (string, error) {
	status := PolicyStatus{
		PolicyPath:  input.PolicyPath,
		CurrentStep: "init",
		Status:      "processing",
		Steps:       map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetPolicyStatus, func() (PolicyStatus, error) {
		return status, nil
	}); err != nil {
		return "", err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)
	filename := filepath.Base(input.PolicyPath)

	status.CurrentStep = "compute_policy_id"
	status.Steps[status.CurrentStep] = "processing"
	var computeOut activities.ComputePolicyIDOutput
	if err := workflow.ExecuteActivity(ctx, "ComputePolicyIDActivity", activities.ComputePolicyIDInput{PolicyPath: input.PolicyPath}).Get(ctx, &computeOut); err != nil {
		return "", err
	}
	status.PolicyID = computeOut.PolicyID
	status.Steps[status.CurrentStep] = "done"

	_ = workflow.ExecuteActivity(ctx, "UpdatePolicyStatusActivity", activities.UpdatePolicyStatusInput{
		PolicyID: computeOut.PolicyID,
		OwnerID:  input.OwnerID,
		Filename: filename,
		Status:   "processing",
	}).Get(ctx, nil)

	status.CurrentStep = "extract_text"
	status.Steps[status.CurrentStep] = "processing"
	var textOut activities.ExtractTextOutput
	if err := workflow.ExecuteActivity(ctx, "ExtractTextActivity", activities.ExtractTextInput{PolicyPath: input.PolicyPath}).Get(ctx, &textOut); err != nil {
		if isNoTextError(err) {
			status.Status = "failed"
			status.FailReason = "no extractable text found"
			status.Steps[status.CurrentStep] = "failed"
			_ = workflow.ExecuteActivity(ctx, "UpdatePolicyStatusActivity", activities.UpdatePolicyStatusInput{
				PolicyID:   computeOut.PolicyID,
				OwnerID:    input.OwnerID,
				Filename:   filename,
				Status:     "failed",
				FailReason: status.FailReason,
			}).Get(ctx, nil)
			return status.Status, nil
		}
		return "", err
	}
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "store_text"
	status.Steps[status.CurrentStep] = "processing"
	if err := workflow.ExecuteActivity(ctx, "StorePolicyTextActivity", activities.StorePolicyTextInput{
		OwnerID:  input.OwnerID,
		PolicyID: computeOut.PolicyID,
		Text:     textOut.Text,
	}).Get(ctx, nil); err != nil {
		return "", err
	}
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "chunk_text"
	status.Steps[status.CurrentStep] = "processing"
	var chunkOut activities.ChunkTextOutput
	if err := workflow.ExecuteActivity(ctx, "ChunkTextActivity", activities.ChunkTextInput{
		PolicyID:     computeOut.PolicyID,
		OwnerID:      input.OwnerID,
		Text:         textOut.Text,
		ChunkSize:    input.ChunkSize,
		ChunkOverlap: input.ChunkOverlap,
	}).Get(ctx, &chunkOut); err != nil {
		return "", err
	}
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "embed_chunks"
	status.Steps[status.CurrentStep] = "processing"
	var embedOut activities.EmbedChunksOutput
	embedErr := workflow.ExecuteActivity(ctx, "EmbedChunksActivity", activities.EmbedChunksInput{
		Operation: "ingest_embed",
		OwnerID:   input.OwnerID,
		PolicyID:  computeOut.PolicyID,
		Input:     chunkOut.Chunks,
	}).Get(ctx, &embedOut)
	logCall := activities.LogModelCallInput{
		Operation:    "ingest_embed",
		OwnerID:      input.OwnerID,
		PolicyID:     computeOut.PolicyID,
		ProviderName: embedOut.ProviderName,
		Model:        embedOut.Model,
		Status:       "ok",
	}
	if embedErr != nil {
		logCall.Status = "failed"
		logCall.ErrorType = embedErr.Error()
	}
	_ = workflow.ExecuteActivity(ctx, "LogModelCallActivity", logCall).Get(ctx, nil)
	if embedErr != nil {
		return "", embedErr
	}
	status.Provider = embedOut.ProviderName
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "upsert_chunks"
	status.Steps[status.CurrentStep] = "processing"
	if err := workflow.ExecuteActivity(ctx, "UpsertChunksActivity", activities.UpsertChunksInput{
		OwnerID:  input.OwnerID,
		PolicyID: computeOut.PolicyID,
		Chunks:   chunkOut.Chunks,
		Vectors:  embedOut.Vectors,
	}).Get(ctx, nil); err != nil {
		if isInvalidTextEncodingError(err) {
			status.Status = "failed"
			status.FailReason = "document contains invalid text encoding after extraction"
			status.Steps[status.CurrentStep] = "failed"
			_ = workflow.ExecuteActivity(ctx, "UpdatePolicyStatusActivity", activities.UpdatePolicyStatusInput{
				PolicyID:   computeOut.PolicyID,
				OwnerID:    input.OwnerID,
				Filename:   filename,
				Status:     "failed",
				FailReason: status.FailReason,
			}).Get(ctx, nil)
			return status.Status, nil
		}
		return "", err
	}
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "write_artifacts"
	status.Steps[status.CurrentStep] = "processing"
	if err := workflow.ExecuteActivity(ctx, "WritePolicyArtifactsActivity", activities.WritePolicyArtifactsInput{
		OwnerID:  input.OwnerID,
		PolicyID: computeOut.PolicyID,
		Metadata: map[string]any{
			"policy_id":   computeOut.PolicyID,
			"owner_id":    input.OwnerID,
			"filename":    filename,
			"chunk_count": len(chunkOut.Chunks),
		},
		Chunks: chunkOut.Chunks,
		ProcessingLog: map[string]any{
			"status":       "processed",
			"steps":        status.Steps,
			"generated_at": workflow.Now(ctx),
		},
	}).Get(ctx, nil); err != nil {
		return "", err
	}
	status.Steps[status.CurrentStep] = "done"

	status.CurrentStep = "mark_processed"
	status.Steps[status.CurrentStep] = "processing"
	if err := workflow.ExecuteActivity(ctx, "UpdatePolicyStatusActivity", activities.UpdatePolicyStatusInput{
		PolicyID: computeOut.PolicyID,
		OwnerID:  input.OwnerID,
		Filename: filename,
		Status:   "processed",
	}).Get(ctx, nil); err != nil {
		return "", err
	}
	status.Steps[status.CurrentStep] = "done"
	status.CurrentStep = "done"
	status.Status = "processed"
	return status.Status, nil
}

// ComplianceAnalyzeWorkflow loads a processed policy's stored text and
// runs the compliance assessment against it.
func ComplianceAnalyzeWorkflow(ctx workflow.Context, input ComplianceAnalyzeInput) (ComplianceAnalyzeOutput, error) {
	status := AnalysisStatus{
		PolicyID:    input.PolicyID,
		CurrentStep: "init",
		Status:      "processing",
		Framework:   input.Framework,
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetAnalysisStatus, func() (AnalysisStatus, error) {
		return status, nil
	}); err != nil {
		return ComplianceAnalyzeOutput{}, err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    2,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	status.CurrentStep = "load_text"
	var textOut activities.LoadPolicyTextOutput
	if err := workflow.ExecuteActivity(ctx, "LoadPolicyTextActivity", activities.LoadPolicyTextInput{
		OwnerID:  input.OwnerID,
		PolicyID: input.PolicyID,
	}).Get(ctx, &textOut); err != nil {
		status.Status = "failed"
		status.FailReason = err.Error()
		return ComplianceAnalyzeOutput{}, err
	}

	status.CurrentStep = "run_compliance"
	var out activities.RunComplianceOutput
	if err := workflow.ExecuteActivity(ctx, "RunComplianceActivity", activities.RunComplianceInput{
		OwnerID:      input.OwnerID,
		PolicyID:     input.PolicyID,
		Text:         textOut.Text,
		Framework:    input.Framework,
		ForceRefresh: input.ForceRefresh,
	}).Get(ctx, &out); err != nil {
		status.Status = "failed"
		status.FailReason = err.Error()
		return ComplianceAnalyzeOutput{}, err
	}

	status.CurrentStep = "done"
	status.Status = "completed"
	status.Framework = out.Report.RegulationFramework
	return ComplianceAnalyzeOutput{Report: out.Report}, nil
}

func isNoTextError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "no extractable text")
}

func isInvalidTextEncodingError(err error) bool {
	e := strings.ToLower(err.Error())
	return strings.Contains(e, "invalid byte sequence") || strings.Contains(e, "sqlstate 22021")
}
