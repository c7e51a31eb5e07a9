package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"policylens/internal/models"
	"policylens/internal/util"
)

type PolicyRepo struct {
	db *DB
}

func NewPolicyRepo(db *DB) *PolicyRepo {
	return &PolicyRepo{db: db}
}

func (r *PolicyRepo) UpsertPolicy(ctx context.Context, p models.Policy) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO policies (policy_id, owner_id, filename, title, status, fail_reason)
VALUES ($1, $2, $3, NULLIF($4,''), $5, NULLIF($6,''))
ON CONFLICT (policy_id, owner_id)
DO UPDATE SET
  filename = EXCLUDED.filename,
  title = COALESCE(EXCLUDED.title, policies.title),
  status = EXCLUDED.status,
  fail_reason = EXCLUDED.fail_reason,
  updated_at = NOW()`,
		p.PolicyID, p.OwnerID, p.Filename, p.Title, p.Status, p.FailReason,
	)
	if err != nil {
		return fmt.Errorf("upsert policy: %w", err)
	}
	return nil
}

func (r *PolicyRepo) UpdatePolicyStatus(ctx context.Context, ownerID, policyID, status, failReason string) error {
	_, err := r.db.Pool.Exec(ctx, `
UPDATE policies SET status=$3, fail_reason=NULLIF($4,''), updated_at=NOW()
WHERE owner_id=$1 AND policy_id=$2`, ownerID, policyID, status, failReason)
	if err != nil {
		return fmt.Errorf("update policy status: %w", err)
	}
	return nil
}

// SetPolicyText stores the extracted document text so assessment paths
// can run without re-reading the source file.
func (r *PolicyRepo) SetPolicyText(ctx context.Context, ownerID, policyID, text string) error {
	_, err := r.db.Pool.Exec(ctx, `
UPDATE policies SET text=$3, updated_at=NOW()
WHERE owner_id=$1 AND policy_id=$2`, ownerID, policyID, text)
	if err != nil {
		return fmt.Errorf("set policy text: %w", err)
	}
	return nil
}

func (r *PolicyRepo) GetPolicyText(ctx context.Context, ownerID, policyID string) (string, error) {
	var text string
	err := r.db.Pool.QueryRow(ctx, `
SELECT COALESCE(text,'') FROM policies WHERE owner_id=$1 AND policy_id=$2`, ownerID, policyID).Scan(&text)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("policy %s: %w", policyID, util.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get policy text: %w", err)
	}
	return text, nil
}

func (r *PolicyRepo) GetPolicy(ctx context.Context, ownerID, policyID string) (models.Policy, error) {
	var p models.Policy
	err := r.db.Pool.QueryRow(ctx, `
SELECT policy_id, owner_id, filename, COALESCE(title,''), status, COALESCE(fail_reason,''), created_at, updated_at
FROM policies
WHERE owner_id=$1 AND policy_id=$2`, ownerID, policyID).
		Scan(&p.PolicyID, &p.OwnerID, &p.Filename, &p.Title, &p.Status, &p.FailReason, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Policy{}, fmt.Errorf("policy %s: %w", policyID, util.ErrNotFound)
	}
	if err != nil {
		return models.Policy{}, fmt.Errorf("get policy: %w", err)
	}
	return p, nil
}

func (r *PolicyRepo) ListPolicies(ctx context.Context, ownerID string) ([]models.Policy, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT policy_id, owner_id, filename, COALESCE(title,''), status, COALESCE(fail_reason,''), created_at, updated_at
FROM policies
WHERE owner_id=$1
ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list policies: %w", err)
	}
	defer rows.Close()

	out := make([]models.Policy, 0)
	for rows.Next() {
		var p models.Policy
		if err := rows.Scan(&p.PolicyID, &p.OwnerID, &p.Filename, &p.Title, &p.Status, &p.FailReason, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan policy: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate policies: %w", err)
	}
	return out, nil
}
