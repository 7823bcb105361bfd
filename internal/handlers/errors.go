package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/signup-form/internal/form"
)

var (
	ErrMissingSession = errors.New("missing session")
)

// toHTTPError maps domain errors to client errors; anything else is left
// for the error handler.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, form.ErrUnknownField):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, form.ErrSubmitting):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return err
	}
}
