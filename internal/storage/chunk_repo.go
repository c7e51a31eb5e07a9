package storage

import (
	"context"
	"fmt"

	"policylens/internal/models"
)

type ChunkRepo struct {
	db *DB
}

func NewChunkRepo(db *DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// ReplaceChunks atomically swaps a document's chunk set: all existing
// chunks for (document, owner) are removed before the new ones go in,
// so a re-processed document never mixes old and new fragments.
func (r *ChunkRepo) ReplaceChunks(ctx context.Context, ownerID, documentID string, chunks []models.Chunk) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx replace chunks: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM chunks WHERE owner_id=$1 AND document_id=$2`, ownerID, documentID); err != nil {
		return fmt.Errorf("delete stale chunks: %w", err)
	}
	for _, c := range chunks {
		_, err := tx.Exec(ctx, `
INSERT INTO chunks (document_id, owner_id, chunk_index, text, embedding)
VALUES ($1, $2, $3, $4, $5)`,
			c.DocumentID, c.OwnerID, c.ChunkIndex, c.Text, c.Embedding,
		)
		if err != nil {
			return fmt.Errorf("insert chunk %d of %s: %w", c.ChunkIndex, documentID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit chunks tx: %w", err)
	}
	return nil
}

// ListByScope returns an owner's chunks, optionally limited to one
// document, ordered by (document, index) so in-memory ranking ties
// break deterministically.
func (r *ChunkRepo) ListByScope(ctx context.Context, ownerID, documentID string) ([]models.Chunk, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT document_id, owner_id, chunk_index, text, embedding, created_at
FROM chunks
WHERE owner_id=$1 AND ($2='' OR document_id=$2)
ORDER BY document_id ASC, chunk_index ASC`, ownerID, documentID)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	defer rows.Close()

	out := make([]models.Chunk, 0, 64)
	for rows.Next() {
		var c models.Chunk
		if err := rows.Scan(&c.DocumentID, &c.OwnerID, &c.ChunkIndex, &c.Text, &c.Embedding, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}
	return out, nil
}

func (r *ChunkRepo) CountChunks(ctx context.Context, ownerID, documentID string) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx, `
SELECT COUNT(*) FROM chunks WHERE owner_id=$1 AND ($2='' OR document_id=$2)`, ownerID, documentID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}
