package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"policylens/internal/models"
	"policylens/internal/util"
)

type ReportRepo struct {
	db *DB
}

func NewReportRepo(db *DB) *ReportRepo {
	return &ReportRepo{db: db}
}

// UpsertReport keeps the latest assessment per (policy, owner,
// framework). Re-running a check replaces the stored report rather
// than appending.
func (r *ReportRepo) UpsertReport(ctx context.Context, rep models.ComplianceReport) error {
	checks, err := json.Marshal(rep.Checks)
	if err != nil {
		return fmt.Errorf("encode report checks: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx, `
INSERT INTO compliance_reports (policy_id, owner_id, framework, overall_score, overall_level, checks, generated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (policy_id, owner_id, framework)
DO UPDATE SET
  overall_score = EXCLUDED.overall_score,
  overall_level = EXCLUDED.overall_level,
  checks = EXCLUDED.checks,
  generated_at = EXCLUDED.generated_at`,
		rep.PolicyID, rep.OwnerID, rep.RegulationFramework, rep.OverallScore, string(rep.OverallLevel), checks, rep.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert report: %w", err)
	}
	return nil
}

func (r *ReportRepo) GetReport(ctx context.Context, ownerID, policyID, framework string) (models.ComplianceReport, error) {
	var rep models.ComplianceReport
	var level string
	var checks []byte
	err := r.db.Pool.QueryRow(ctx, `
SELECT policy_id, owner_id, framework, overall_score, overall_level, checks, generated_at
FROM compliance_reports
WHERE owner_id=$1 AND policy_id=$2 AND framework=$3`, ownerID, policyID, framework).
		Scan(&rep.PolicyID, &rep.OwnerID, &rep.RegulationFramework, &rep.OverallScore, &level, &checks, &rep.GeneratedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ComplianceReport{}, fmt.Errorf("report for %s/%s: %w", policyID, framework, util.ErrNotFound)
	}
	if err != nil {
		return models.ComplianceReport{}, fmt.Errorf("get report: %w", err)
	}
	rep.OverallLevel = models.ComplianceLevel(level)
	if err := json.Unmarshal(checks, &rep.Checks); err != nil {
		return models.ComplianceReport{}, fmt.Errorf("decode report checks: %w", err)
	}
	return rep, nil
}

// ListHistory returns an owner's stored reports newest first,
// optionally scoped to one policy.
func (r *ReportRepo) ListHistory(ctx context.Context, ownerID, policyID string) ([]models.ComplianceReport, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT policy_id, owner_id, framework, overall_score, overall_level, checks, generated_at
FROM compliance_reports
WHERE owner_id=$1 AND ($2='' OR policy_id=$2)
ORDER BY generated_at DESC`, ownerID, policyID)
	if err != nil {
		return nil, fmt.Errorf("list report history: %w", err)
	}
	defer rows.Close()

	out := make([]models.ComplianceReport, 0)
	for rows.Next() {
		var rep models.ComplianceReport
		var level string
		var checks []byte
		if err := rows.Scan(&rep.PolicyID, &rep.OwnerID, &rep.RegulationFramework, &rep.OverallScore, &level, &checks, &rep.GeneratedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		rep.OverallLevel = models.ComplianceLevel(level)
		if err := json.Unmarshal(checks, &rep.Checks); err != nil {
			return nil, fmt.Errorf("decode report checks: %w", err)
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return out, nil
}
