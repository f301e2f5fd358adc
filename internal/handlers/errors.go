package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/skillsync/internal/repositories"
	"alfredoptarigan/skillsync/internal/services"
)

const missingInputMessage = "Please upload a resume and provide a job description."

// respondError maps service errors onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := err.Error()

	var (
		tooLarge fileTooLargeError
		fiberErr *fiber.Error
	)
	switch {
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
		message = fiberErr.Message
	case errors.As(err, &tooLarge):
		status = fiber.StatusRequestEntityTooLarge
	case errors.Is(err, services.ErrMissingInput):
		status = fiber.StatusBadRequest
		message = missingInputMessage
	case errors.Is(err, services.ErrUnsupportedFileType):
		status = fiber.StatusUnsupportedMediaType
	case errors.Is(err, repositories.ErrNotFound), errors.Is(err, services.ErrSessionNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrModelCall):
		status = fiber.StatusBadGateway
	case errors.Is(err, services.ErrChatUnavailable):
		status = fiber.StatusServiceUnavailable
	default:
		log.Printf("❌ Request %s %s failed: %v\n", c.Method(), c.Path(), err)
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}
