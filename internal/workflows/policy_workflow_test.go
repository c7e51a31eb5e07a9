package workflows

import (
	"context"
	"errors"
	"testing"
	"time"

	"policylens/internal/activities"
	"policylens/internal/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
)

func registerActivityName[T any](env *testsuite.TestWorkflowEnvironment, name string, fn T) {
	env.RegisterActivityWithOptions(fn, activity.RegisterOptions{Name: name})
}

func TestPolicyIngestWorkflowSuccess(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(PolicyIngestWorkflow)
	registerActivityName(env, "ComputePolicyIDActivity", func(context.Context, activities.ComputePolicyIDInput) (activities.ComputePolicyIDOutput, error) {
		return activities.ComputePolicyIDOutput{}, nil
	})
	registerActivityName(env, "UpdatePolicyStatusActivity", func(context.Context, activities.UpdatePolicyStatusInput) error { return nil })
	registerActivityName(env, "ExtractTextActivity", func(context.Context, activities.ExtractTextInput) (activities.ExtractTextOutput, error) {
		return activities.ExtractTextOutput{}, nil
	})
	registerActivityName(env, "StorePolicyTextActivity", func(context.Context, activities.StorePolicyTextInput) error { return nil })
	registerActivityName(env, "ChunkTextActivity", func(context.Context, activities.ChunkTextInput) (activities.ChunkTextOutput, error) {
		return activities.ChunkTextOutput{}, nil
	})
	registerActivityName(env, "EmbedChunksActivity", func(context.Context, activities.EmbedChunksInput) (activities.EmbedChunksOutput, error) {
		return activities.EmbedChunksOutput{}, nil
	})
	registerActivityName(env, "UpsertChunksActivity", func(context.Context, activities.UpsertChunksInput) error { return nil })
	registerActivityName(env, "WritePolicyArtifactsActivity", func(context.Context, activities.WritePolicyArtifactsInput) error { return nil })
	registerActivityName(env, "LogModelCallActivity", func(context.Context, activities.LogModelCallInput) error { return nil })

	env.OnActivity("ComputePolicyIDActivity", mock.Anything, activities.ComputePolicyIDInput{PolicyPath: "/tmp/p.pdf"}).Return(activities.ComputePolicyIDOutput{PolicyID: "policy123"}, nil)
	env.OnActivity("UpdatePolicyStatusActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("ExtractTextActivity", mock.Anything, activities.ExtractTextInput{PolicyPath: "/tmp/p.pdf"}).Return(activities.ExtractTextOutput{Text: "Coverage includes fire damage."}, nil)
	env.OnActivity("StorePolicyTextActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("ChunkTextActivity", mock.Anything, mock.Anything).Return(activities.ChunkTextOutput{Chunks: []activities.ChunkItem{{PolicyID: "policy123", OwnerID: "o1", ChunkIndex: 0, Text: "Coverage includes fire damage."}}}, nil)
	env.OnActivity("EmbedChunksActivity", mock.Anything, mock.Anything).Return(activities.EmbedChunksOutput{Vectors: [][]float64{{0.1, 0.2}}, ProviderName: "mock", Model: "mock"}, nil)
	env.OnActivity("UpsertChunksActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("WritePolicyArtifactsActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("LogModelCallActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(PolicyIngestWorkflow, PolicyIngestInput{OwnerID: "o1", PolicyPath: "/tmp/p.pdf"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "processed", out)
}

func TestPolicyIngestWorkflowNoTextFailsGracefully(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(PolicyIngestWorkflow)
	registerActivityName(env, "ComputePolicyIDActivity", func(context.Context, activities.ComputePolicyIDInput) (activities.ComputePolicyIDOutput, error) {
		return activities.ComputePolicyIDOutput{}, nil
	})
	registerActivityName(env, "UpdatePolicyStatusActivity", func(context.Context, activities.UpdatePolicyStatusInput) error { return nil })
	registerActivityName(env, "ExtractTextActivity", func(context.Context, activities.ExtractTextInput) (activities.ExtractTextOutput, error) {
		return activities.ExtractTextOutput{}, nil
	})

	env.OnActivity("ComputePolicyIDActivity", mock.Anything, mock.Anything).Return(activities.ComputePolicyIDOutput{PolicyID: "policy123"}, nil)
	env.OnActivity("UpdatePolicyStatusActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("ExtractTextActivity", mock.Anything, mock.Anything).Return(activities.ExtractTextOutput{}, errors.New("no extractable text found in PDF"))

	env.ExecuteWorkflow(PolicyIngestWorkflow, PolicyIngestInput{OwnerID: "o1", PolicyPath: "/tmp/p.pdf"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "failed", out)
}

func TestComplianceAnalyzeWorkflow(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(ComplianceAnalyzeWorkflow)
	registerActivityName(env, "LoadPolicyTextActivity", func(context.Context, activities.LoadPolicyTextInput) (activities.LoadPolicyTextOutput, error) {
		return activities.LoadPolicyTextOutput{}, nil
	})
	registerActivityName(env, "RunComplianceActivity", func(context.Context, activities.RunComplianceInput) (activities.RunComplianceOutput, error) {
		return activities.RunComplianceOutput{}, nil
	})

	report := models.ComplianceReport{
		PolicyID:            "policy123",
		OwnerID:             "o1",
		OverallScore:        0.72,
		OverallLevel:        models.LevelPartial,
		RegulationFramework: "gdpr",
		GeneratedAt:         time.Now(),
	}
	env.OnActivity("LoadPolicyTextActivity", mock.Anything, activities.LoadPolicyTextInput{OwnerID: "o1", PolicyID: "policy123"}).Return(activities.LoadPolicyTextOutput{Text: "personal data processing under gdpr"}, nil)
	env.OnActivity("RunComplianceActivity", mock.Anything, mock.Anything).Return(activities.RunComplianceOutput{Report: report}, nil)

	env.ExecuteWorkflow(ComplianceAnalyzeWorkflow, ComplianceAnalyzeInput{OwnerID: "o1", PolicyID: "policy123", Framework: "gdpr"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out ComplianceAnalyzeOutput
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "gdpr", out.Report.RegulationFramework)
	require.Equal(t, models.LevelPartial, out.Report.OverallLevel)

	// The progress route reads this query; it must report the terminal
	// state after the workflow finishes.
	qr, err := env.QueryWorkflow(QueryGetAnalysisStatus)
	require.NoError(t, err)
	var status AnalysisStatus
	require.NoError(t, qr.Get(&status))
	require.Equal(t, "policy123", status.PolicyID)
	require.Equal(t, "completed", status.Status)
	require.Equal(t, "gdpr", status.Framework)
}
