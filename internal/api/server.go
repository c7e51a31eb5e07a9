package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"policylens/internal/analyzer"
	"policylens/internal/compliance"
	"policylens/internal/config"
	"policylens/internal/confidence"
	"policylens/internal/dlp"
	"policylens/internal/models"
	"policylens/internal/privacy"
	"policylens/internal/providers"
	"policylens/internal/qa"
	"policylens/internal/resilience"
	"policylens/internal/storage"
	"policylens/internal/util"
	"policylens/internal/vector"
	"policylens/internal/workflows"

	enumspb "go.temporal.io/api/enums/v1"
	tclient "go.temporal.io/sdk/client"
)

type Server struct {
	cfg        config.Config
	db         *storage.DB
	policyRepo *storage.PolicyRepo
	chunkRepo  *storage.ChunkRepo
	reportRepo *storage.ReportRepo
	engine     *compliance.Engine
	compliance *analyzer.Service
	answers    *qa.Service
	scanner    *dlp.Scanner
	modelScan  *dlp.Scanner
	temporal   tclient.Client
}

func NewServer(cfg config.Config) *Server {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		panic(err)
	}
	pm, err := providers.NewManager(cfg)
	if err != nil {
		panic(err)
	}
	tc, err := tclient.Dial(tclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		panic(err)
	}

	policyRepo := storage.NewPolicyRepo(db)
	chunkRepo := storage.NewChunkRepo(db)
	reportRepo := storage.NewReportRepo(db)
	engine := compliance.NewEngine()

	retry := resilience.DefaultRetryPolicy()
	if cfg.RetryMaxAttempts > 0 {
		retry.MaxAttempts = cfg.RetryMaxAttempts
	}

	model := analyzer.New(pm.LLM(), cfg.PrimaryModel, cfg.SecondaryModel, cfg.TruncateBudget, storage.NewAuditRepo(db))
	cache := resilience.NewCache[models.ComplianceReport](time.Duration(cfg.CacheTTLSeconds) * time.Second)

	return &Server{
		cfg:        cfg,
		db:         db,
		policyRepo: policyRepo,
		chunkRepo:  chunkRepo,
		reportRepo: reportRepo,
		engine:     engine,
		compliance: analyzer.NewService(engine, model, cache, reportRepo),
		answers: qa.NewService(
			pm.Embedder(),
			pm.LLM(),
			vector.NewSearcher(chunkRepo),
			confidence.NewScorer(confidence.DefaultWeights()),
			retry,
			cfg.RetrievalLimit,
		),
		scanner:   dlp.NewScanner(nil),
		modelScan: dlp.NewScanner(pm.LLM()),
		temporal:  tc,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/policies", s.handlePolicies)
	mux.HandleFunc("/policies/", s.handlePoliciesScoped)
	mux.HandleFunc("/ask", s.handleAsk)
	mux.HandleFunc("/compliance/check", s.handleComplianceCheck)
	mux.HandleFunc("/compliance/refresh", s.handleComplianceRefresh)
	mux.HandleFunc("/compliance/analyze", s.handleComplianceAnalyze)
	mux.HandleFunc("/compliance/analyze/", s.handleComplianceAnalyzeScoped)
	mux.HandleFunc("/compliance/history", s.handleComplianceHistory)
	mux.HandleFunc("/compliance/frameworks", s.handleComplianceFrameworks)
	mux.HandleFunc("/dlp/scan", s.handleDLPScan)
	mux.HandleFunc("/privacy/assess", s.handlePrivacyAssess)
	mux.HandleFunc("/stats", s.handleStats)
	return withCORS(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handlePolicies(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		ownerID := strings.TrimSpace(r.URL.Query().Get("owner_id"))
		if ownerID == "" {
			writeErr(w, http.StatusBadRequest, util.ErrMissingIdentifier)
			return
		}
		policies, err := s.policyRepo.ListPolicies(r.Context(), ownerID)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"policies": policies})
	case http.MethodPost:
		s.handleUpload(w, r)
	default:
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
	}
}

// handleUpload stores a PDF under the owner's input directory, creates
// the pending policy record, and starts the ingest workflow.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(128 << 20); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("parse multipart: %w", err))
		return
	}
	ownerID := strings.TrimSpace(r.FormValue("owner_id"))
	if ownerID == "" {
		writeErr(w, http.StatusBadRequest, util.ErrMissingIdentifier)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		if single, ok := firstSingleFile(r.MultipartForm.File); ok {
			files = append(files, single)
		}
	}
	if len(files) == 0 {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("no files provided"))
		return
	}

	inDir := filepath.Join(s.cfg.DataInRoot, ownerID)
	if err := util.EnsureDir(inDir); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	type uploadResult struct {
		Filename   string `json:"filename"`
		PolicyID   string `json:"policy_id"`
		WorkflowID string `json:"workflow_id"`
	}
	out := make([]uploadResult, 0, len(files))

	for _, fh := range files {
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
			continue
		}
		policyID, savedPath, err := saveUploadedFile(inDir, fh)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		if err := s.policyRepo.UpsertPolicy(r.Context(), models.Policy{
			PolicyID: policyID,
			OwnerID:  ownerID,
			Filename: filepath.Base(savedPath),
			Status:   "pending",
		}); err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}

		wfID := "ingest-" + ownerID + "-" + policyID
		we, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
			ID:                    wfID,
			TaskQueue:             s.cfg.TemporalTaskQueue,
			WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		}, workflows.PolicyIngestWorkflow, workflows.PolicyIngestInput{
			OwnerID:      ownerID,
			PolicyPath:   savedPath,
			ChunkSize:    s.cfg.ChunkSize,
			ChunkOverlap: s.cfg.ChunkOverlap,
		})
		if err != nil {
			writeErr(w, http.StatusConflict, err)
			return
		}
		out = append(out, uploadResult{
			Filename:   filepath.Base(savedPath),
			PolicyID:   policyID,
			WorkflowID: we.GetID(),
		})
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"uploaded": out})
}

func (s *Server) handlePoliciesScoped(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/policies/"), "/"), "/")
	if len(parts) < 1 || parts[0] == "" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	policyID := parts[0]
	ownerID := strings.TrimSpace(r.URL.Query().Get("owner_id"))
	if ownerID == "" {
		writeErr(w, http.StatusBadRequest, util.ErrMissingIdentifier)
		return
	}

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
			return
		}
		p, err := s.policyRepo.GetPolicy(r.Context(), ownerID, policyID)
		if err != nil {
			writeErr(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, p)
		return
	}

	if len(parts) == 2 && parts[1] == "progress" {
		if r.Method != http.MethodGet {
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
			return
		}
		var status workflows.PolicyStatus
		resp, err := s.temporal.QueryWorkflow(r.Context(), "ingest-"+ownerID+"-"+policyID, "", workflows.QueryGetPolicyStatus)
		if err != nil {
			// No live workflow to query; report the stored record state.
			p, pErr := s.policyRepo.GetPolicy(r.Context(), ownerID, policyID)
			if pErr != nil {
				writeErr(w, statusFor(pErr), pErr)
				return
			}
			writeJSON(w, http.StatusOK, workflows.PolicyStatus{
				PolicyID:   p.PolicyID,
				Status:     p.Status,
				FailReason: p.FailReason,
			})
			return
		}
		if err := resp.Get(&status); err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req struct {
		OwnerID  string `json:"owner_id"`
		PolicyID string `json:"policy_id"`
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.OwnerID = strings.TrimSpace(req.OwnerID)
	req.Question = strings.TrimSpace(req.Question)
	if req.OwnerID == "" || req.Question == "" {
		writeErr(w, http.StatusBadRequest, util.ErrMissingIdentifier)
		return
	}

	answer, err := s.answers.Answer(r.Context(), req.OwnerID, strings.TrimSpace(req.PolicyID), req.Question)
	if err != nil {
		writeErr(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

type complianceRequest struct {
	OwnerID   string `json:"owner_id"`
	PolicyID  string `json:"policy_id"`
	Framework string `json:"framework"`
	Text      string `json:"text"`
}

func (s *Server) handleComplianceCheck(w http.ResponseWriter, r *http.Request) {
	s.runCompliance(w, r, false)
}

func (s *Server) handleComplianceRefresh(w http.ResponseWriter, r *http.Request) {
	s.runCompliance(w, r, true)
}

func (s *Server) runCompliance(w http.ResponseWriter, r *http.Request, forceRefresh bool) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req complianceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.OwnerID = strings.TrimSpace(req.OwnerID)
	req.PolicyID = strings.TrimSpace(req.PolicyID)
	if req.OwnerID == "" || req.PolicyID == "" {
		writeErr(w, http.StatusBadRequest, util.ErrMissingIdentifier)
		return
	}

	text := req.Text
	if strings.TrimSpace(text) == "" {
		stored, err := s.policyRepo.GetPolicyText(r.Context(), req.OwnerID, req.PolicyID)
		if err != nil {
			writeErr(w, statusFor(err), err)
			return
		}
		if strings.TrimSpace(stored) == "" {
			writeErr(w, http.StatusNotFound, fmt.Errorf("policy %s has no stored text: %w", req.PolicyID, util.ErrNotFound))
			return
		}
		text = stored
	}

	rep, err := s.compliance.CheckCompliance(r.Context(), req.PolicyID, req.OwnerID, text, strings.TrimSpace(req.Framework), forceRefresh)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// handleComplianceAnalyze starts the background analysis workflow for a
// previously ingested policy and returns immediately. Clients poll the
// progress route for the outcome; /compliance/check remains the
// synchronous path for inline text.
func (s *Server) handleComplianceAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req struct {
		OwnerID      string `json:"owner_id"`
		PolicyID     string `json:"policy_id"`
		Framework    string `json:"framework"`
		ForceRefresh bool   `json:"force_refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.OwnerID = strings.TrimSpace(req.OwnerID)
	req.PolicyID = strings.TrimSpace(req.PolicyID)
	if req.OwnerID == "" || req.PolicyID == "" {
		writeErr(w, http.StatusBadRequest, util.ErrMissingIdentifier)
		return
	}
	if _, err := s.policyRepo.GetPolicy(r.Context(), req.OwnerID, req.PolicyID); err != nil {
		writeErr(w, statusFor(err), err)
		return
	}

	wfID := "analyze-" + req.OwnerID + "-" + req.PolicyID
	we, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
		ID:                    wfID,
		TaskQueue:             s.cfg.TemporalTaskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}, workflows.ComplianceAnalyzeWorkflow, workflows.ComplianceAnalyzeInput{
		OwnerID:      req.OwnerID,
		PolicyID:     req.PolicyID,
		Framework:    strings.TrimSpace(req.Framework),
		ForceRefresh: req.ForceRefresh,
	})
	if err != nil {
		writeErr(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"policy_id":   req.PolicyID,
		"workflow_id": we.GetID(),
		"run_id":      we.GetRunID(),
	})
}

func (s *Server) handleComplianceAnalyzeScoped(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/compliance/analyze/"), "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "progress" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	policyID := parts[0]
	ownerID := strings.TrimSpace(r.URL.Query().Get("owner_id"))
	if ownerID == "" {
		writeErr(w, http.StatusBadRequest, util.ErrMissingIdentifier)
		return
	}

	var status workflows.AnalysisStatus
	resp, err := s.temporal.QueryWorkflow(r.Context(), "analyze-"+ownerID+"-"+policyID, "", workflows.QueryGetAnalysisStatus)
	if err != nil {
		// No live workflow to query; fall back to the latest stored report.
		reports, rErr := s.reportRepo.ListHistory(r.Context(), ownerID, policyID)
		if rErr != nil {
			writeErr(w, http.StatusInternalServerError, rErr)
			return
		}
		if len(reports) == 0 {
			writeErr(w, http.StatusNotFound, fmt.Errorf("no analysis found for policy %s: %w", policyID, util.ErrNotFound))
			return
		}
		writeJSON(w, http.StatusOK, workflows.AnalysisStatus{
			PolicyID:  policyID,
			Status:    "completed",
			Framework: reports[0].RegulationFramework,
		})
		return
	}
	if err := resp.Get(&status); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleComplianceHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	ownerID := strings.TrimSpace(r.URL.Query().Get("owner_id"))
	if ownerID == "" {
		writeErr(w, http.StatusBadRequest, util.ErrMissingIdentifier)
		return
	}
	reports, err := s.reportRepo.ListHistory(r.Context(), ownerID, strings.TrimSpace(r.URL.Query().Get("policy_id")))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (s *Server) handleComplianceFrameworks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"frameworks": s.engine.AvailableFrameworks(),
		"default":    compliance.DefaultFramework,
	})
}

func (s *Server) handleDLPScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req struct {
		OwnerID        string   `json:"owner_id"`
		PolicyID       string   `json:"policy_id"`
		Text           string   `json:"text"`
		CustomPatterns []string `json:"custom_patterns"`
		UseModel       bool     `json:"use_model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.OwnerID = strings.TrimSpace(req.OwnerID)
	req.PolicyID = strings.TrimSpace(req.PolicyID)
	if req.OwnerID == "" {
		writeErr(w, http.StatusBadRequest, util.ErrMissingIdentifier)
		return
	}

	text, err := s.resolveText(r.Context(), req.OwnerID, req.PolicyID, req.Text)
	if err != nil {
		writeErr(w, statusFor(err), err)
		return
	}

	scanner := s.scanner
	if req.UseModel {
		scanner = s.modelScan
	}
	writeJSON(w, http.StatusOK, scanner.Scan(r.Context(), req.PolicyID, req.OwnerID, text, req.CustomPatterns))
}

func (s *Server) handlePrivacyAssess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req struct {
		OwnerID  string `json:"owner_id"`
		PolicyID string `json:"policy_id"`
		Text     string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.OwnerID = strings.TrimSpace(req.OwnerID)
	req.PolicyID = strings.TrimSpace(req.PolicyID)
	if req.OwnerID == "" {
		writeErr(w, http.StatusBadRequest, util.ErrMissingIdentifier)
		return
	}

	text, err := s.resolveText(r.Context(), req.OwnerID, req.PolicyID, req.Text)
	if err != nil {
		writeErr(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, privacy.Assess(req.PolicyID, req.OwnerID, text))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	ownerID := strings.TrimSpace(r.URL.Query().Get("owner_id"))
	if ownerID == "" {
		writeErr(w, http.StatusBadRequest, util.ErrMissingIdentifier)
		return
	}
	policies, err := s.policyRepo.ListPolicies(r.Context(), ownerID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	chunks, err := s.chunkRepo.CountChunks(r.Context(), ownerID, "")
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	reports, err := s.reportRepo.ListHistory(r.Context(), ownerID, "")
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	processed := 0
	for _, p := range policies {
		if p.Status == "processed" {
			processed++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"policies":           len(policies),
		"policies_processed": processed,
		"chunks":             chunks,
		"reports":            len(reports),
	})
}

// resolveText prefers inline text; with only a policy ID it falls back
// to the text stored during ingestion.
func (s *Server) resolveText(ctx context.Context, ownerID, policyID, inline string) (string, error) {
	if strings.TrimSpace(inline) != "" {
		return inline, nil
	}
	if policyID == "" {
		return "", fmt.Errorf("text or policy_id required: %w", util.ErrMissingIdentifier)
	}
	stored, err := s.policyRepo.GetPolicyText(ctx, ownerID, policyID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(stored) == "" {
		return "", fmt.Errorf("policy %s has no stored text: %w", policyID, util.ErrNotFound)
	}
	return stored, nil
}

func saveUploadedFile(dstDir string, fh *multipart.FileHeader) (policyID, path string, err error) {
	src, err := fh.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(dstDir, "upload-*.pdf")
	if err != nil {
		return "", "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
	}()

	if _, err := io.Copy(tmp, src); err != nil {
		return "", "", fmt.Errorf("write upload: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", "", fmt.Errorf("seek temp: %w", err)
	}
	policyID, err = util.SHA256HexFromReader(tmp)
	if err != nil {
		return "", "", fmt.Errorf("hash upload: %w", err)
	}

	finalPath := util.SafeJoin(dstDir, fh.Filename)
	if err := tmp.Close(); err != nil {
		return "", "", err
	}
	if err := os.Rename(tmp.Name(), finalPath); err != nil {
		return "", "", fmt.Errorf("atomic move upload: %w", err)
	}
	return policyID, finalPath, nil
}

func firstSingleFile(m map[string][]*multipart.FileHeader) (*multipart.FileHeader, bool) {
	for _, v := range m {
		if len(v) > 0 {
			return v[0], true
		}
	}
	return nil, false
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, util.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, util.ErrMissingIdentifier):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	msg := "request failed"
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": msg,
		},
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
