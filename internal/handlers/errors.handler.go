package handlers

import (
	"context"
	"errors"
	. "upkeep/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError maps domain errors onto HTTP statuses. Conflicting writes
// (stale state, duplicate codes, insufficient stock) are 409s the client
// can resolve by re-reading; validation failures are 422s.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrDuplicateCode),
		errors.Is(err, ErrInsufficientStock):
		status = fiber.StatusConflict
	case errors.Is(err, ErrInvalidHierarchy),
		errors.Is(err, ErrCircularReference),
		errors.Is(err, ErrUnknownQuestion),
		errors.Is(err, ErrUnknownPart),
		errors.Is(err, ErrInvalidQuantity):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, ErrStorageUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}
