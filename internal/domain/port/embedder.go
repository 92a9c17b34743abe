package port

import (
	"context"

	"github.com/jantenesse/bjj-classifier/internal/domain/entity"
)

// EmbeddingModel is the pretrained model collaborator: tensor pair in,
// fixed-length vector out. Inference is assumed deterministic for a fixed
// input and fixed weights.
type EmbeddingModel interface {
	// Load prepares the model handle and selects its headless embedding
	// output (penultimate representation, not class scores). It is
	// idempotent.
	Load(ctx context.Context) error

	Infer(ctx context.Context, pair entity.PathwayPair) (entity.Fingerprint, error)
}
