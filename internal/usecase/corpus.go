package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jantenesse/bjj-classifier/internal/domain/entity"
	"github.com/jantenesse/bjj-classifier/internal/domain/port"
	"github.com/jantenesse/bjj-classifier/internal/infra/metrics"
	"go.uber.org/zap"
)

// CorpusCache builds the training corpus at most once per process lifetime.
// The build mutex is held for the whole pass, so concurrent callers wait on
// the in-flight build instead of triggering a duplicate one. Examples whose
// fingerprint extraction fails are logged and omitted; the build itself only
// fails when the example source cannot be enumerated at all.
type CorpusCache struct {
	source    port.ExampleSource
	extractor FingerprintExtractor
	notifier  port.DegradationNotifier
	notifyTo  string
	logger    *zap.Logger

	mu     sync.Mutex
	corpus *entity.TrainingCorpus
	ready  atomic.Bool
}

func NewCorpusCache(source port.ExampleSource, extractor FingerprintExtractor, logger *zap.Logger) *CorpusCache {
	return &CorpusCache{
		source:    source,
		extractor: extractor,
		logger:    logger,
	}
}

// WithDegradationNotifier wires an operator alert for builds that had to
// skip examples.
func (c *CorpusCache) WithDegradationNotifier(notifier port.DegradationNotifier, to string) *CorpusCache {
	c.notifier = notifier
	c.notifyTo = to
	return c
}

// Build returns the corpus, constructing it on the first call. Subsequent
// calls return the cached corpus without reprocessing any example.
func (c *CorpusCache) Build(ctx context.Context) (*entity.TrainingCorpus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.corpus != nil {
		return c.corpus, nil
	}

	corpus, skipped, err := c.build(ctx)
	if err != nil {
		return nil, err
	}

	c.corpus = corpus
	c.ready.Store(true)

	c.logger.Info("training corpus built",
		zap.Int("categories", corpus.CategoryCount()),
		zap.Int("examples", corpus.ExampleCount()),
		zap.Int("skipped", skipped),
	)

	if skipped > 0 && c.notifier != nil && c.notifyTo != "" {
		details := fmt.Sprintf("%d of %d examples failed fingerprint extraction and were omitted",
			skipped, skipped+corpus.ExampleCount())
		if err := c.notifier.NotifyCorpusDegraded(ctx, c.notifyTo, skipped, details); err != nil {
			c.logger.Warn("failed to send corpus degradation notice", zap.Error(err))
		}
	}

	return c.corpus, nil
}

// Get returns the built corpus without triggering a build.
func (c *CorpusCache) Get() (*entity.TrainingCorpus, error) {
	if !c.ready.Load() {
		return nil, entity.ErrCorpusNotBuilt
	}
	return c.corpus, nil
}

// Ready reports whether a build has completed. The serving layer gates the
// classification endpoint on this.
func (c *CorpusCache) Ready() bool {
	return c.ready.Load()
}

func (c *CorpusCache) build(ctx context.Context) (*entity.TrainingCorpus, int, error) {
	categories, err := c.source.Categories(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("enumerate categories: %w", err)
	}

	corpus := &entity.TrainingCorpus{}
	skipped := 0

	for _, category := range categories {
		examples, err := c.source.Examples(ctx, category)
		if err != nil {
			return nil, 0, fmt.Errorf("enumerate examples for %s: %w", category, err)
		}

		// A category with no extractable examples stays present with an
		// empty list; it can never win a classification.
		cat := entity.CategoryExamples{Name: category}

		for _, example := range examples {
			fingerprint, err := c.fingerprintExample(ctx, category, example)
			if err != nil {
				c.logger.Warn("skipping training example",
					zap.String("category", category),
					zap.String("example", example),
					zap.Error(err),
				)
				metrics.CorpusExamplesTotal.WithLabelValues("skipped").Inc()
				skipped++
				continue
			}

			cat.Examples = append(cat.Examples, entity.Example{ID: example, Fingerprint: fingerprint})
			metrics.CorpusExamplesTotal.WithLabelValues("indexed").Inc()
		}

		corpus.Categories = append(corpus.Categories, cat)
	}

	return corpus, skipped, nil
}

func (c *CorpusCache) fingerprintExample(ctx context.Context, category, example string) (entity.Fingerprint, error) {
	path, cleanup, err := c.source.Fetch(ctx, category, example)
	if err != nil {
		return nil, fmt.Errorf("fetch example: %w", err)
	}
	defer cleanup()

	return c.extractor.Extract(ctx, path)
}
