package entity

import (
	"time"

	"github.com/google/uuid"
)

// ClassificationResult is the outcome of classifying one clip.
type ClassificationResult struct {
	Category       string
	Confidence     float64
	ProcessingTime time.Duration
	ModelVersion   string
}

// ClassificationRecord is the persisted form of a boundary classification.
type ClassificationRecord struct {
	ID           uuid.UUID
	Category     string
	Confidence   float64
	ProcessingMs int64
	ModelVersion string
	CreatedAt    time.Time
}

func NewClassificationRecord(result ClassificationResult) *ClassificationRecord {
	return &ClassificationRecord{
		ID:           uuid.New(),
		Category:     result.Category,
		Confidence:   result.Confidence,
		ProcessingMs: result.ProcessingTime.Milliseconds(),
		ModelVersion: result.ModelVersion,
		CreatedAt:    time.Now().UTC(),
	}
}

// ClassificationEvent is the outbound message published after a successful
// classification.
type ClassificationEvent struct {
	ID               uuid.UUID `json:"id"`
	Technique        string    `json:"technique"`
	Confidence       float64   `json:"confidence"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
	ModelVersion     string    `json:"model_version"`
	CreatedAt        time.Time `json:"created_at"`
}
