package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.ComputePolicyIDActivity)
	w.RegisterActivity(a.ExtractTextActivity)
	w.RegisterActivity(a.StorePolicyTextActivity)
	w.RegisterActivity(a.ChunkTextActivity)
	w.RegisterActivity(a.EmbedChunksActivity)
	w.RegisterActivity(a.UpsertChunksActivity)
	w.RegisterActivity(a.WritePolicyArtifactsActivity)
	w.RegisterActivity(a.UpdatePolicyStatusActivity)
	w.RegisterActivity(a.LogModelCallActivity)
	w.RegisterActivity(a.LoadPolicyTextActivity)
	w.RegisterActivity(a.RunComplianceActivity)
}
