package port

import (
	"context"

	"github.com/jantenesse/bjj-classifier/internal/domain/entity"
)

// ClassificationRepository persists boundary classification results for
// later inspection. The fingerprint index itself is never persisted.
type ClassificationRepository interface {
	Save(ctx context.Context, record *entity.ClassificationRecord) error
}
