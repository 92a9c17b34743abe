package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/jantenesse/bjj-classifier/internal/domain/entity"
)

// fakeSampler returns a canned sequence, or a canned error when set.
type fakeSampler struct {
	seq entity.FrameSequence
	err error
}

func (f *fakeSampler) Sample(ctx context.Context, videoPath string, numFrames int) (entity.FrameSequence, error) {
	if f.err != nil {
		return entity.FrameSequence{}, f.err
	}
	return f.seq, nil
}

// fakeModel counts loads and captures the last inferred pair.
type fakeModel struct {
	loadCalls atomic.Int32
	loadErr   error
	inferErr  error
	vector    entity.Fingerprint

	mu       sync.Mutex
	lastPair entity.PathwayPair
}

func (f *fakeModel) Load(ctx context.Context) error {
	f.loadCalls.Add(1)
	return f.loadErr
}

func (f *fakeModel) Infer(ctx context.Context, pair entity.PathwayPair) (entity.Fingerprint, error) {
	f.mu.Lock()
	f.lastPair = pair
	f.mu.Unlock()
	if f.inferErr != nil {
		return nil, f.inferErr
	}
	return f.vector, nil
}

func (f *fakeModel) pair() entity.PathwayPair {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPair
}

// fakeExtractor maps example paths to fingerprints directly, bypassing the
// sampling pipeline.
type fakeExtractor struct {
	fingerprints map[string]entity.Fingerprint
	fallback     entity.Fingerprint
	err          error
	calls        atomic.Int32
}

func (f *fakeExtractor) Extract(ctx context.Context, videoPath string) (entity.Fingerprint, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	if fp, ok := f.fingerprints[videoPath]; ok {
		return fp, nil
	}
	if f.fallback != nil {
		return f.fallback, nil
	}
	return nil, errors.New("no fingerprint for " + videoPath)
}

// fakeSource enumerates an in-memory corpus layout and counts enumerations
// so tests can prove a second build never reprocesses examples.
type fakeSource struct {
	categories     []string
	examples       map[string][]string
	categoryCalls  atomic.Int32
	enumerationErr error
}

func (f *fakeSource) Categories(ctx context.Context) ([]string, error) {
	if f.categoryCalls.Add(1) > 1 && f.enumerationErr != nil {
		return nil, f.enumerationErr
	}
	return f.categories, nil
}

func (f *fakeSource) Examples(ctx context.Context, category string) ([]string, error) {
	return f.examples[category], nil
}

func (f *fakeSource) Fetch(ctx context.Context, category, example string) (string, func(), error) {
	return category + "/" + example, func() {}, nil
}

type fakeRepo struct {
	saved []*entity.ClassificationRecord
	err   error
}

func (f *fakeRepo) Save(ctx context.Context, record *entity.ClassificationRecord) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, record)
	return nil
}

type fakePublisher struct {
	published [][]byte
	err       error
}

func (f *fakePublisher) PublishClassification(ctx context.Context, msg []byte) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}
