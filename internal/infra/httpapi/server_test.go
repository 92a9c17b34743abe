package httpapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jantenesse/bjj-classifier/internal/domain/entity"
	"github.com/jantenesse/bjj-classifier/internal/usecase"
)

type stubExtractor struct {
	fingerprint entity.Fingerprint
	err         error
}

func (s *stubExtractor) Extract(ctx context.Context, videoPath string) (entity.Fingerprint, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.fingerprint, nil
}

type stubSource struct{}

func (stubSource) Categories(ctx context.Context) ([]string, error) {
	return []string{"pulling_guard", "passing_guard"}, nil
}

func (stubSource) Examples(ctx context.Context, category string) ([]string, error) {
	return []string{"example.mp4"}, nil
}

func (stubSource) Fetch(ctx context.Context, category, example string) (string, func(), error) {
	return category + "/" + example, func() {}, nil
}

type corpusExtractor struct{}

func (corpusExtractor) Extract(ctx context.Context, videoPath string) (entity.Fingerprint, error) {
	switch videoPath {
	case "pulling_guard/example.mp4":
		return entity.Fingerprint{1, 0}, nil
	case "passing_guard/example.mp4":
		return entity.Fingerprint{0, 1}, nil
	}
	return nil, errors.New("unknown example")
}

func newTestApp(t *testing.T, extractor usecase.FingerprintExtractor) (*fiber.App, *usecase.ClassifyClipUseCase) {
	t.Helper()

	corpus := usecase.NewCorpusCache(stubSource{}, corpusExtractor{}, zap.NewNop())
	uc := usecase.NewClassifyClipUseCase(extractor, corpus, usecase.NewSimilarityClassifier(""), nil, nil, zap.NewNop(), usecase.ClassifyClipConfig{
		TempDir:      t.TempDir(),
		ModelVersion: "v1.2.3",
	})

	app := NewHTTPServer(ServerDependencies{
		Controller: NewClassificationController(uc, zap.NewNop()),
		Ready:      uc.Ready,
	})
	return app, uc
}

func classifyBody(t *testing.T, mediaType string) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(map[string]string{
		"type":    mediaType,
		"content": base64.StdEncoding.EncodeToString([]byte("clip bytes")),
	})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestGreetingEndpoint(t *testing.T) {
	app, _ := newTestApp(t, &stubExtractor{fingerprint: entity.Fingerprint{1, 0}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, apiGreeting, body["message"])
}

func TestHealthReflectsCorpusReadiness(t *testing.T) {
	app, uc := newTestApp(t, &stubExtractor{fingerprint: entity.Fingerprint{1, 0}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	// The first classification builds the corpus; health flips to ready.
	_, err = uc.Execute(context.Background(), usecase.ClassifyRequest{
		Type:    usecase.MediaTypeVideo,
		Content: base64.StdEncoding.EncodeToString([]byte("clip")),
	})
	require.NoError(t, err)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClassifyEndpoint(t *testing.T) {
	app, _ := newTestApp(t, &stubExtractor{fingerprint: entity.Fingerprint{0, 1}})

	req := httptest.NewRequest(http.MethodPost, "/classify", classifyBody(t, "video"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body classificationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "passing_guard", body.Classification.SpecificTechnique)
	assert.Equal(t, 1.0, body.Classification.Confidence)
	assert.Equal(t, "v1.2.3", body.Metadata.ModelVersion)
	assert.GreaterOrEqual(t, body.Metadata.ProcessingTimeMs, int64(0))
}

func TestClassifyRejectsNonVideoType(t *testing.T) {
	app, _ := newTestApp(t, &stubExtractor{fingerprint: entity.Fingerprint{1, 0}})

	req := httptest.NewRequest(http.MethodPost, "/classify", classifyBody(t, "image"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Only video type is supported", body["detail"])
}

func TestClassifyRejectsMalformedBody(t *testing.T) {
	app, _ := newTestApp(t, &stubExtractor{fingerprint: entity.Fingerprint{1, 0}})

	req := httptest.NewRequest(http.MethodPost, "/classify", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Invalid request body", body["detail"])
}

func TestClassifyReportsPipelineFailure(t *testing.T) {
	app, _ := newTestApp(t, &stubExtractor{err: &entity.EmbeddingError{Err: errors.New("model server unreachable")}})

	req := httptest.NewRequest(http.MethodPost, "/classify", classifyBody(t, "video"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["detail"], "Classification failed")
}
