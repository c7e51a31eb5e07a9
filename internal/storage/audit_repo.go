package storage

import (
	"context"
	"fmt"
)

// ModelCallRecord captures one outbound model call for later audit:
// which operation asked, which provider and model answered, and how
// the call ended.
type ModelCallRecord struct {
	CallID       string
	Operation    string
	OwnerID      string
	PolicyID     string
	ProviderName string
	Model        string
	Status       string
	ErrorType    string
}

type AuditRepo struct {
	db *DB
}

func NewAuditRepo(db *DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Insert(ctx context.Context, rec ModelCallRecord) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO model_calls(call_id, operation, owner_id, policy_id, provider_name, model, status, error_type)
VALUES (COALESCE(NULLIF($1,'')::uuid, gen_random_uuid()), $2, NULLIF($3,''), NULLIF($4,''), $5, $6, $7, NULLIF($8,''))`,
		rec.CallID, rec.Operation, rec.OwnerID, rec.PolicyID, rec.ProviderName, rec.Model, rec.Status, rec.ErrorType)
	if err != nil {
		return fmt.Errorf("insert model call: %w", err)
	}
	return nil
}
