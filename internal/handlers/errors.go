package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"producthub/internal/models"
)

// ErrorHandler is the single place where errors become HTTP responses.
// Store faults are logged with their cause and answered with a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		validationErr *models.ValidationError
		storeErr      *models.StoreError
		fiberErr      *fiber.Error
	)

	switch {
	case errors.As(err, &validationErr):
		return respond(c, fiber.StatusBadRequest, validationErr.Error())

	case errors.Is(err, models.ErrProductNotFound):
		return respond(c, fiber.StatusNotFound, "Product not found")

	case errors.As(err, &storeErr):
		zap.L().Error("Store operation failed",
			zap.String("op", storeErr.Op),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(storeErr.Err))
		return respond(c, fiber.StatusInternalServerError, "Failed to "+storeErr.Op)

	case errors.As(err, &fiberErr):
		return respond(c, fiberErr.Code, fiberErr.Message)
	}

	zap.L().Error("Unhandled request error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))
	return respond(c, fiber.StatusInternalServerError, "Internal Server Error")
}

func respond(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"message": message})
}
