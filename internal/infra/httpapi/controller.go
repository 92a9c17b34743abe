package httpapi

import (
	"errors"

	"github.com/jantenesse/bjj-classifier/internal/domain/entity"
	"github.com/jantenesse/bjj-classifier/internal/usecase"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ClassificationController translates between the HTTP contract and the
// classification use case. It is the single point turning internal error
// kinds into caller-facing responses.
type ClassificationController struct {
	classify *usecase.ClassifyClipUseCase
	logger   *zap.Logger
}

func NewClassificationController(classify *usecase.ClassifyClipUseCase, logger *zap.Logger) *ClassificationController {
	return &ClassificationController{classify: classify, logger: logger}
}

type classificationRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type classificationPayload struct {
	SpecificTechnique string  `json:"specific_technique"`
	Confidence        float64 `json:"confidence"`
}

type classificationMetadata struct {
	ProcessingTimeMs int64  `json:"processing_time_ms"`
	ModelVersion     string `json:"model_version"`
}

type classificationResponse struct {
	Classification classificationPayload  `json:"classification"`
	Metadata       classificationMetadata `json:"metadata"`
}

// Classify handles POST /classify.
func (c *ClassificationController) Classify(ctx fiber.Ctx) error {
	var req classificationRequest
	if err := ctx.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := c.classify.Execute(ctx.RequestCtx(), usecase.ClassifyRequest{
		Type:    req.Type,
		Content: req.Content,
	})
	if err != nil {
		if errors.Is(err, entity.ErrUnsupportedMediaType) {
			return fiber.NewError(fiber.StatusBadRequest, "Only video type is supported")
		}
		c.logger.Error("classification failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Classification failed: "+err.Error())
	}

	return ctx.JSON(classificationResponse{
		Classification: classificationPayload{
			SpecificTechnique: result.Category,
			Confidence:        result.Confidence,
		},
		Metadata: classificationMetadata{
			ProcessingTimeMs: result.ProcessingTime.Milliseconds(),
			ModelVersion:     result.ModelVersion,
		},
	})
}
