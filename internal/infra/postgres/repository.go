package postgres

import (
	"context"
	"fmt"

	"github.com/jantenesse/bjj-classifier/internal/domain/entity"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClassificationRepository persists boundary classification results. Only
// per-request outcomes are stored; the fingerprint index never leaves
// process memory.
type ClassificationRepository struct {
	pool *pgxpool.Pool
}

func NewClassificationRepository(pool *pgxpool.Pool) *ClassificationRepository {
	return &ClassificationRepository{pool: pool}
}

func (r *ClassificationRepository) Save(ctx context.Context, record *entity.ClassificationRecord) error {
	query := `
		INSERT INTO classifications (
			id, category, confidence, processing_ms, model_version, created_at
		) VALUES ($1,$2,$3,$4,$5,$6)`

	_, err := r.pool.Exec(ctx, query,
		record.ID, record.Category, record.Confidence,
		record.ProcessingMs, record.ModelVersion, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert classification: %w", err)
	}
	return nil
}

// EnsureSchema creates the classifications table when it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS classifications (
			id UUID PRIMARY KEY,
			category VARCHAR(255) NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			processing_ms BIGINT NOT NULL,
			model_version VARCHAR(64) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_classifications_category ON classifications(category);
		CREATE INDEX IF NOT EXISTS idx_classifications_created_at ON classifications(created_at);
	`)
	if err != nil {
		return fmt.Errorf("create classifications schema: %w", err)
	}
	return nil
}
