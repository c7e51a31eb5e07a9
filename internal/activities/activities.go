package activities

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"policylens/internal/analyzer"
	"policylens/internal/chunker"
	"policylens/internal/compliance"
	"policylens/internal/config"
	"policylens/internal/models"
	"policylens/internal/providers"
	"policylens/internal/resilience"
	"policylens/internal/storage"
	"policylens/internal/util"

	"github.com/ledongthuc/pdf"
)

type Activities struct {
	cfg        config.Config
	policyRepo *storage.PolicyRepo
	chunkRepo  *storage.ChunkRepo
	auditRepo  *storage.AuditRepo
	providers  *providers.Manager
	compliance *analyzer.Service
}

func New(cfg config.Config, db *storage.DB) (*Activities, error) {
	pm, err := providers.NewManager(cfg)
	if err != nil {
		return nil, err
	}
	auditRepo := storage.NewAuditRepo(db)
	engine := compliance.NewEngine()
	model := analyzer.New(pm.LLM(), cfg.PrimaryModel, cfg.SecondaryModel, cfg.TruncateBudget, auditRepo)
	cache := resilience.NewCache[models.ComplianceReport](time.Duration(cfg.CacheTTLSeconds) * time.Second)
	return &Activities{
		cfg:        cfg,
		policyRepo: storage.NewPolicyRepo(db),
		chunkRepo:  storage.NewChunkRepo(db),
		auditRepo:  auditRepo,
		providers:  pm,
		compliance: analyzer.NewService(engine, model, cache, storage.NewReportRepo(db)),
	}, nil
}

func (a *Activities) ComputePolicyIDActivity(ctx context.Context, in ComputePolicyIDInput) (ComputePolicyIDOutput, error) {
	_ = ctx
	f, err := os.Open(in.PolicyPath)
	if err != nil {
		return ComputePolicyIDOutput{}, fmt.Errorf("open file for hash: %w", err)
	}
	defer f.Close()
	sum, err := util.SHA256HexFromReader(f)
	if err != nil {
		return ComputePolicyIDOutput{}, fmt.Errorf("hash file: %w", err)
	}
	return ComputePolicyIDOutput{PolicyID: sum}, nil
}

func (a *Activities) ExtractTextActivity(ctx context.Context, in ExtractTextInput) (ExtractTextOutput, error) {
	_ = ctx
	f, r, err := pdf.Open(in.PolicyPath)
	if err != nil {
		return ExtractTextOutput{}, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return ExtractTextOutput{}, fmt.Errorf("extract pdf text: %w", err)
	}
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, reader); err != nil {
		return ExtractTextOutput{}, fmt.Errorf("read extracted text: %w", err)
	}
	text := util.SanitizeText(strings.TrimSpace(buf.String()))
	if text == "" {
		return ExtractTextOutput{}, util.ErrNoExtractableText
	}
	return ExtractTextOutput{Text: text}, nil
}

func (a *Activities) StorePolicyTextActivity(ctx context.Context, in StorePolicyTextInput) error {
	return a.policyRepo.SetPolicyText(ctx, in.OwnerID, in.PolicyID, in.Text)
}

func (a *Activities) ChunkTextActivity(ctx context.Context, in ChunkTextInput) (ChunkTextOutput, error) {
	_ = ctx
	if in.ChunkSize <= 0 {
		in.ChunkSize = a.cfg.ChunkSize
	}
	if in.ChunkOverlap < 0 || in.ChunkOverlap >= in.ChunkSize {
		in.ChunkOverlap = a.cfg.ChunkOverlap
	}

	parts := chunker.Split(in.Text, in.ChunkSize, in.ChunkOverlap)
	chunks := make([]ChunkItem, 0, len(parts))
	for _, part := range parts {
		text := util.SanitizeText(part.Text)
		if text == "" {
			continue
		}
		chunks = append(chunks, ChunkItem{
			PolicyID:   in.PolicyID,
			OwnerID:    in.OwnerID,
			ChunkIndex: part.Index,
			Text:       text,
			Hash:       util.SHA256Hex([]byte(text)),
		})
	}
	return ChunkTextOutput{Chunks: chunks}, nil
}

func (a *Activities) EmbedChunksActivity(ctx context.Context, in EmbedChunksInput) (EmbedChunksOutput, error) {
	inputs := make([]string, 0, len(in.Input))
	for _, c := range in.Input {
		inputs = append(inputs, c.Text)
	}
	vectors, info, err := a.providers.Embedder().Embed(ctx, providers.EmbedRequest{
		Inputs:    inputs,
		Dimension: a.cfg.EmbedDim,
	})
	if err != nil {
		return EmbedChunksOutput{}, err
	}
	return EmbedChunksOutput{
		Vectors:      vectors,
		ProviderName: info.Name,
		Model:        info.Model,
	}, nil
}

func (a *Activities) UpsertChunksActivity(ctx context.Context, in UpsertChunksInput) error {
	if strings.TrimSpace(in.OwnerID) == "" || strings.TrimSpace(in.PolicyID) == "" {
		return fmt.Errorf("upsert chunks: %w", util.ErrMissingIdentifier)
	}
	records := make([]models.Chunk, 0, len(in.Chunks))
	for i, c := range in.Chunks {
		var embedding []float64
		if i < len(in.Vectors) {
			embedding = in.Vectors[i]
		}
		records = append(records, models.Chunk{
			DocumentID: c.PolicyID,
			OwnerID:    c.OwnerID,
			ChunkIndex: c.ChunkIndex,
			Text:       c.Text,
			Embedding:  embedding,
		})
	}
	return a.chunkRepo.ReplaceChunks(ctx, in.OwnerID, in.PolicyID, records)
}

func (a *Activities) WritePolicyArtifactsActivity(ctx context.Context, in WritePolicyArtifactsInput) error {
	_ = ctx
	base := filepath.Join(a.cfg.DataOutRoot, in.OwnerID, "policies", in.PolicyID)
	if err := util.EnsureDir(base); err != nil {
		return err
	}
	if err := util.WriteJSONAtomic(filepath.Join(base, "metadata.json"), in.Metadata); err != nil {
		return err
	}
	rows := make([]any, 0, len(in.Chunks))
	for _, c := range in.Chunks {
		rows = append(rows, c)
	}
	if err := util.WriteJSONLinesAtomic(filepath.Join(base, "chunks.jsonl"), rows); err != nil {
		return err
	}
	return util.WriteJSONAtomic(filepath.Join(base, "processing_log.json"), in.ProcessingLog)
}

func (a *Activities) UpdatePolicyStatusActivity(ctx context.Context, in UpdatePolicyStatusInput) error {
	return a.policyRepo.UpsertPolicy(ctx, models.Policy{
		PolicyID:   in.PolicyID,
		OwnerID:    in.OwnerID,
		Filename:   in.Filename,
		Title:      in.Title,
		Status:     in.Status,
		FailReason: in.FailReason,
	})
}

func (a *Activities) LogModelCallActivity(ctx context.Context, in LogModelCallInput) error {
	return a.auditRepo.Insert(ctx, storage.ModelCallRecord{
		CallID:       in.CallID,
		Operation:    in.Operation,
		OwnerID:      in.OwnerID,
		PolicyID:     in.PolicyID,
		ProviderName: in.ProviderName,
		Model:        in.Model,
		Status:       in.Status,
		ErrorType:    in.ErrorType,
	})
}

func (a *Activities) LoadPolicyTextActivity(ctx context.Context, in LoadPolicyTextInput) (LoadPolicyTextOutput, error) {
	text, err := a.policyRepo.GetPolicyText(ctx, in.OwnerID, in.PolicyID)
	if err != nil {
		return LoadPolicyTextOutput{}, err
	}
	if strings.TrimSpace(text) == "" {
		return LoadPolicyTextOutput{}, fmt.Errorf("policy %s has no stored text: %w", in.PolicyID, util.ErrNotFound)
	}
	return LoadPolicyTextOutput{Text: text}, nil
}

func (a *Activities) RunComplianceActivity(ctx context.Context, in RunComplianceInput) (RunComplianceOutput, error) {
	rep, err := a.compliance.CheckCompliance(ctx, in.PolicyID, in.OwnerID, in.Text, in.Framework, in.ForceRefresh)
	if err != nil {
		return RunComplianceOutput{}, err
	}
	return RunComplianceOutput{Report: rep}, nil
}
