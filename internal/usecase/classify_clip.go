package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/jantenesse/bjj-classifier/internal/domain/entity"
	"github.com/jantenesse/bjj-classifier/internal/domain/port"
	"github.com/jantenesse/bjj-classifier/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// MediaTypeVideo is the only payload type the boundary accepts.
const MediaTypeVideo = "video"

// ClassifyRequest is the boundary input: a declared media type and a
// base64-encoded clip payload.
type ClassifyRequest struct {
	Type    string
	Content string
}

// ClassifyClipUseCase runs the full pipeline for one request: validate,
// decode to a scoped temp clip, extract the fingerprint, score against the
// corpus. The repository and publisher are optional; when wired, both are
// best-effort and never fail a request.
type ClassifyClipUseCase struct {
	extractor  FingerprintExtractor
	corpus     *CorpusCache
	classifier *SimilarityClassifier
	repo       port.ClassificationRepository
	publisher  port.EventPublisher
	logger     *zap.Logger

	tempDir      string
	modelVersion string
	timeout      time.Duration
}

type ClassifyClipConfig struct {
	TempDir        string
	ModelVersion   string
	RequestTimeout time.Duration
}

func NewClassifyClipUseCase(
	extractor FingerprintExtractor,
	corpus *CorpusCache,
	classifier *SimilarityClassifier,
	repo port.ClassificationRepository,
	publisher port.EventPublisher,
	logger *zap.Logger,
	cfg ClassifyClipConfig,
) *ClassifyClipUseCase {
	return &ClassifyClipUseCase{
		extractor:    extractor,
		corpus:       corpus,
		classifier:   classifier,
		repo:         repo,
		publisher:    publisher,
		logger:       logger,
		tempDir:      cfg.TempDir,
		modelVersion: cfg.ModelVersion,
		timeout:      cfg.RequestTimeout,
	}
}

// Execute classifies one clip. Validation failures return
// entity.ErrUnsupportedMediaType before any decoding; everything else that
// goes wrong propagates to the HTTP boundary, which is the single point
// translating errors into caller-facing responses.
func (uc *ClassifyClipUseCase) Execute(ctx context.Context, req ClassifyRequest) (entity.ClassificationResult, error) {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "ClassifyClipUseCase.Execute")
	defer span.End()

	start := time.Now()

	if req.Type != MediaTypeVideo {
		return entity.ClassificationResult{}, entity.ErrUnsupportedMediaType
	}

	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	metrics.ActiveRequests.Inc()
	defer metrics.ActiveRequests.Dec()

	clipPath, cleanup, err := uc.writeTempClip(req.Content)
	if err != nil {
		return entity.ClassificationResult{}, err
	}
	defer cleanup()

	exStart := time.Now()
	ctxEx, spanEx := tracer.Start(ctx, "extract_fingerprint")
	fingerprint, err := uc.extractor.Extract(ctxEx, clipPath)
	spanEx.End()
	if err != nil {
		return entity.ClassificationResult{}, err
	}
	metrics.PipelineStageDuration.WithLabelValues("extract").Observe(time.Since(exStart).Seconds())

	corpus, err := uc.corpus.Build(ctx)
	if err != nil {
		return entity.ClassificationResult{}, fmt.Errorf("training corpus unavailable: %w", err)
	}

	scStart := time.Now()
	_, spanSc := tracer.Start(ctx, "score_fingerprint")
	category, confidence := uc.classifier.Classify(fingerprint, corpus)
	spanSc.End()
	metrics.PipelineStageDuration.WithLabelValues("score").Observe(time.Since(scStart).Seconds())

	span.SetAttributes(
		attribute.String("classification.category", category),
		attribute.Float64("classification.confidence", confidence),
	)

	result := entity.ClassificationResult{
		Category:       category,
		Confidence:     math.Round(confidence*100) / 100,
		ProcessingTime: time.Since(start),
		ModelVersion:   uc.modelVersion,
	}

	uc.recordResult(ctx, result)
	metrics.ClassificationsTotal.WithLabelValues(category).Inc()

	uc.logger.Info("clip classified",
		zap.String("category", result.Category),
		zap.Float64("confidence", result.Confidence),
		zap.Int64("processing_ms", result.ProcessingTime.Milliseconds()),
	)

	return result, nil
}

// Ready reports whether the corpus build has completed and the service may
// accept classification traffic.
func (uc *ClassifyClipUseCase) Ready() bool {
	return uc.corpus.Ready()
}

// writeTempClip decodes the payload into a scoped temporary file. The
// returned cleanup removes it on every exit path.
func (uc *ClassifyClipUseCase) writeTempClip(content string) (string, func(), error) {
	data, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return "", nil, fmt.Errorf("decode clip payload: %w", err)
	}

	if err := os.MkdirAll(uc.tempDir, 0755); err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}

	// The .mp4 suffix lets the decoder sniff the container format.
	tmp, err := os.CreateTemp(uc.tempDir, "clip-*.mp4")
	if err != nil {
		return "", nil, fmt.Errorf("create temp clip: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("write temp clip: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("close temp clip: %w", err)
	}

	path := tmp.Name()
	return path, func() {
		if err := os.Remove(path); err != nil {
			uc.logger.Warn("failed to remove temp clip", zap.String("path", path), zap.Error(err))
		}
	}, nil
}

func (uc *ClassifyClipUseCase) recordResult(ctx context.Context, result entity.ClassificationResult) {
	record := entity.NewClassificationRecord(result)

	if uc.repo != nil {
		if err := uc.repo.Save(ctx, record); err != nil {
			uc.logger.Warn("failed to persist classification record", zap.Error(err))
		}
	}

	if uc.publisher != nil {
		event := entity.ClassificationEvent{
			ID:               record.ID,
			Technique:        record.Category,
			Confidence:       record.Confidence,
			ProcessingTimeMs: record.ProcessingMs,
			ModelVersion:     record.ModelVersion,
			CreatedAt:        record.CreatedAt,
		}
		data, _ := json.Marshal(event)
		if err := uc.publisher.PublishClassification(ctx, data); err != nil {
			uc.logger.Warn("failed to publish classification event", zap.Error(err))
		}
	}
}
