package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jantenesse/bjj-classifier/internal/domain/entity"
)

func newTestUseCase(t *testing.T, extractor FingerprintExtractor, repo *fakeRepo, publisher *fakePublisher) *ClassifyClipUseCase {
	t.Helper()

	source := &fakeSource{
		categories: []string{"pulling_guard", "passing_guard"},
		examples: map[string][]string{
			"pulling_guard": {"a.mp4"},
			"passing_guard": {"b.mp4"},
		},
	}
	corpusExtractor := &fakeExtractor{
		fingerprints: map[string]entity.Fingerprint{
			"pulling_guard/a.mp4": {1, 0, 0},
			"passing_guard/b.mp4": {0, 1, 0},
		},
	}
	corpus := NewCorpusCache(source, corpusExtractor, zap.NewNop())

	uc := NewClassifyClipUseCase(extractor, corpus, NewSimilarityClassifier(""), nil, nil, zap.NewNop(), ClassifyClipConfig{
		TempDir:      t.TempDir(),
		ModelVersion: "v1.2.3",
	})
	if repo != nil {
		uc.repo = repo
	}
	if publisher != nil {
		uc.publisher = publisher
	}
	return uc
}

func videoRequest() ClassifyRequest {
	return ClassifyRequest{
		Type:    MediaTypeVideo,
		Content: base64.StdEncoding.EncodeToString([]byte("fake clip bytes")),
	}
}

func TestClassifyClipHappyPath(t *testing.T) {
	extractor := &fakeExtractor{fallback: entity.Fingerprint{0, 1, 0}}
	repo := &fakeRepo{}
	publisher := &fakePublisher{}
	uc := newTestUseCase(t, extractor, repo, publisher)

	result, err := uc.Execute(context.Background(), videoRequest())
	require.NoError(t, err)

	assert.Equal(t, "passing_guard", result.Category)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Equal(t, "v1.2.3", result.ModelVersion)
	assert.GreaterOrEqual(t, result.ProcessingTime.Nanoseconds(), int64(0))

	require.Len(t, repo.saved, 1)
	assert.Equal(t, "passing_guard", repo.saved[0].Category)
	assert.NotEmpty(t, repo.saved[0].ID)

	require.Len(t, publisher.published, 1)
	var event entity.ClassificationEvent
	require.NoError(t, json.Unmarshal(publisher.published[0], &event))
	assert.Equal(t, "passing_guard", event.Technique)
}

func TestClassifyClipRejectsNonVideoBeforeDecoding(t *testing.T) {
	extractor := &fakeExtractor{fallback: entity.Fingerprint{1, 0, 0}}
	uc := newTestUseCase(t, extractor, nil, nil)

	_, err := uc.Execute(context.Background(), ClassifyRequest{
		Type:    "image",
		Content: "!!! not even base64 !!!",
	})

	assert.ErrorIs(t, err, entity.ErrUnsupportedMediaType)
	assert.Equal(t, int32(0), extractor.calls.Load())
}

func TestClassifyClipRejectsBadPayload(t *testing.T) {
	extractor := &fakeExtractor{fallback: entity.Fingerprint{1, 0, 0}}
	uc := newTestUseCase(t, extractor, nil, nil)

	_, err := uc.Execute(context.Background(), ClassifyRequest{
		Type:    MediaTypeVideo,
		Content: "not-base64!!!",
	})

	assert.Error(t, err)
	assert.Equal(t, int32(0), extractor.calls.Load())
}

func TestClassifyClipRemovesTempFile(t *testing.T) {
	extractor := &fakeExtractor{fallback: entity.Fingerprint{1, 0, 0}}
	uc := newTestUseCase(t, extractor, nil, nil)

	_, err := uc.Execute(context.Background(), videoRequest())
	require.NoError(t, err)

	entries, err := os.ReadDir(uc.tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClassifyClipRemovesTempFileOnExtractionFailure(t *testing.T) {
	extractor := &fakeExtractor{err: &entity.EmbeddingError{Err: assert.AnError}}
	uc := newTestUseCase(t, extractor, nil, nil)

	_, err := uc.Execute(context.Background(), videoRequest())
	require.Error(t, err)

	var embErr *entity.EmbeddingError
	assert.ErrorAs(t, err, &embErr)

	entries, readErr := os.ReadDir(uc.tempDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestClassifyClipSurvivesSideEffectFailures(t *testing.T) {
	extractor := &fakeExtractor{fallback: entity.Fingerprint{1, 0, 0}}
	repo := &fakeRepo{err: assert.AnError}
	publisher := &fakePublisher{err: assert.AnError}
	uc := newTestUseCase(t, extractor, repo, publisher)

	result, err := uc.Execute(context.Background(), videoRequest())

	require.NoError(t, err)
	assert.Equal(t, "pulling_guard", result.Category)
}

func TestClassifyClipRoundsConfidence(t *testing.T) {
	// A fingerprint at an angle to both corpus entries produces a
	// non-terminating confidence that must round to two decimals.
	extractor := &fakeExtractor{fallback: entity.Fingerprint{3, 1, 0}}
	uc := newTestUseCase(t, extractor, nil, nil)

	result, err := uc.Execute(context.Background(), videoRequest())
	require.NoError(t, err)

	// cos({3,1,0}, {1,0,0}) = 3/sqrt(10) -> 97.434...% -> 0.97
	assert.Equal(t, "pulling_guard", result.Category)
	assert.Equal(t, 0.97, result.Confidence)
}
