package torchserve

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/jantenesse/bjj-classifier/internal/domain/entity"
	"go.uber.org/zap"
)

// Client talks to a TorchServe-style model server hosting the pretrained
// dual-pathway video model. Load selects the model's embedding signature, so
// inference returns the penultimate representation instead of class scores.
type Client struct {
	baseURL    string
	modelName  string
	httpClient *http.Client
	logger     *zap.Logger
}

type ClientConfig struct {
	BaseURL   string
	ModelName string
	Timeout   time.Duration
}

func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		modelName:  cfg.ModelName,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type tensorPayload struct {
	Shape []int  `json:"shape"`
	Data  string `json:"data"` // little-endian float32, base64
}

type inferRequest struct {
	Signature string        `json:"signature"`
	Slow      tensorPayload `json:"slow"`
	Fast      tensorPayload `json:"fast"`
}

type modelStatus struct {
	ModelName  string   `json:"modelName"`
	Signatures []string `json:"signatures"`
}

// Load verifies the server is up and that the model exposes an embedding
// signature. Safe to call more than once.
func (c *Client) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models/"+c.modelName, nil)
	if err != nil {
		return fmt.Errorf("build model status request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("query model status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("model %s not available: status %d: %s", c.modelName, resp.StatusCode, bytes.TrimSpace(body))
	}

	var status modelStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return fmt.Errorf("decode model status: %w", err)
	}

	for _, sig := range status.Signatures {
		if sig == "embedding" {
			c.logger.Info("embedding model loaded",
				zap.String("model", c.modelName),
				zap.String("signature", sig),
			)
			return nil
		}
	}
	return fmt.Errorf("model %s exposes no embedding signature", c.modelName)
}

// Infer posts the packed pathway pair and returns the fingerprint vector.
// The batch dimension carried on the wire is squeezed from the result.
func (c *Client) Infer(ctx context.Context, pair entity.PathwayPair) (entity.Fingerprint, error) {
	payload := inferRequest{
		Signature: "embedding",
		Slow:      encodeTensor(pair.Slow, pair.Width, pair.Height),
		Fast:      encodeTensor(pair.Fast, pair.Width, pair.Height),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/predictions/"+c.modelName, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("inference failed: status %d: %s", resp.StatusCode, bytes.TrimSpace(respBody))
	}

	var vector []float32
	if err := json.NewDecoder(resp.Body).Decode(&vector); err != nil {
		return nil, fmt.Errorf("decode embedding vector: %w", err)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("model returned an empty embedding vector")
	}

	return entity.Fingerprint(vector), nil
}

// encodeTensor lays frames out channel-first with a batch dimension,
// (1, C, T, H, W), as base64 little-endian float32.
func encodeTensor(frames []entity.Frame, width, height int) tensorPayload {
	t := len(frames)
	plane := width * height

	data := make([]byte, 4*entity.FrameChannels*t*plane)
	off := 0
	for c := 0; c < entity.FrameChannels; c++ {
		for fi := 0; fi < t; fi++ {
			frame := frames[fi]
			for p := 0; p < plane; p++ {
				v := frame[p*entity.FrameChannels+c]
				binary.LittleEndian.PutUint32(data[off:], math.Float32bits(v))
				off += 4
			}
		}
	}

	return tensorPayload{
		Shape: []int{1, entity.FrameChannels, t, height, width},
		Data:  base64.StdEncoding.EncodeToString(data),
	}
}
