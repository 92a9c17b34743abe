package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
)

const apiGreeting = "BJJ Classifier API v1.0.0"

type ServerDependencies struct {
	Controller *ClassificationController

	// Ready reports whether the training corpus build has completed; the
	// classify endpoint is not considered ready before that.
	Ready func() bool
}

func NewHTTPServer(deps ServerDependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "bjj-classifier",
		BodyLimit:    100 * 1024 * 1024, // base64 video payloads
		ErrorHandler: errorHandler,
	})

	app.Use(cors.New())
	app.Use(fiberlogger.New())

	app.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": apiGreeting})
	})

	app.Get("/health", func(c fiber.Ctx) error {
		if !deps.Ready() {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "starting",
				"detail": "training corpus build in progress",
			})
		}
		return c.JSON(fiber.Map{"status": "ready"})
	})

	app.Post("/classify", deps.Controller.Classify)

	return app
}

// errorHandler renders every handler error as {"detail": ...}, the shape the
// API's clients consume. Internal errors never leak a stack trace.
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	return c.Status(code).JSON(fiber.Map{"detail": err.Error()})
}
