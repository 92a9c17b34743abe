package usecase

import (
	"context"
	"sync"

	"github.com/jantenesse/bjj-classifier/internal/domain/entity"
	"github.com/jantenesse/bjj-classifier/internal/domain/port"
	"go.uber.org/zap"
)

// Pixel statistics the embedding model was trained with.
var (
	pixelMean = [entity.FrameChannels]float32{0.45, 0.45, 0.45}
	pixelStd  = [entity.FrameChannels]float32{0.225, 0.225, 0.225}
)

// FingerprintExtractor is the pipeline stage shared by the corpus build and
// request handling: clip path in, fingerprint out.
type FingerprintExtractor interface {
	Extract(ctx context.Context, videoPath string) (entity.Fingerprint, error)
}

// EmbeddingExtractor turns a clip file into a fingerprint: sample, normalize,
// pack pathways, run headless inference. The model handle is loaded lazily on
// the first extraction; concurrent first callers wait on the single load.
// This layer does no caching of its own — memoization of known clips belongs
// to the corpus cache.
type EmbeddingExtractor struct {
	sampler   port.FrameSampler
	model     port.EmbeddingModel
	logger    *zap.Logger
	numFrames int
	alpha     int

	loadOnce sync.Once
	loadErr  error
}

type ExtractorConfig struct {
	NumFrames int
	Alpha     int
}

func NewEmbeddingExtractor(sampler port.FrameSampler, model port.EmbeddingModel, logger *zap.Logger, cfg ExtractorConfig) *EmbeddingExtractor {
	if cfg.NumFrames <= 0 {
		cfg.NumFrames = entity.DefaultNumFrames
	}
	if cfg.Alpha <= 0 {
		cfg.Alpha = entity.DefaultAlpha
	}
	return &EmbeddingExtractor{
		sampler:   sampler,
		model:     model,
		logger:    logger,
		numFrames: cfg.NumFrames,
		alpha:     cfg.Alpha,
	}
}

// Extract produces the fingerprint for one clip. A frame shortfall
// propagates unchanged; any model failure is wrapped as
// *entity.EmbeddingError with the cause attached.
func (e *EmbeddingExtractor) Extract(ctx context.Context, videoPath string) (entity.Fingerprint, error) {
	e.loadOnce.Do(func() {
		e.logger.Info("loading embedding model")
		e.loadErr = e.model.Load(ctx)
		if e.loadErr == nil {
			e.logger.Info("embedding model ready")
		}
	})
	if e.loadErr != nil {
		return nil, &entity.EmbeddingError{Err: e.loadErr}
	}

	seq, err := e.sampler.Sample(ctx, videoPath, e.numFrames)
	if err != nil {
		return nil, err
	}

	pair := entity.Pack(entity.Normalize(seq, pixelMean, pixelStd), e.alpha)

	fingerprint, err := e.model.Infer(ctx, pair)
	if err != nil {
		return nil, &entity.EmbeddingError{Err: err}
	}
	return fingerprint, nil
}
