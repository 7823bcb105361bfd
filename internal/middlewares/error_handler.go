package middlewares

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/signup-form/internal/render"
)

const apiPrefix = "/api/"

// ErrorHandler answers API routes with a JSON error body and everything else
// with an error page.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}
	if code >= fiber.StatusInternalServerError {
		slog.Error("unhandled error", "code", code, "path", ctx.Path(), "error", err)
	} else {
		slog.Debug("request failed", "code", code, "path", ctx.Path(), "error", err)
	}

	if strings.HasPrefix(ctx.Path(), apiPrefix) {
		return ctx.Status(code).JSON(fiber.Map{"error": message})
	}
	ctx.Status(code)
	switch code {
	case fiber.StatusBadRequest:
		return render.RenderBadRequestError(ctx)
	case fiber.StatusForbidden:
		return render.RenderForbiddenError(ctx)
	case fiber.StatusNotFound:
		return render.RenderNotFoundError(ctx)
	default:
		return render.RenderInternalServerError(ctx)
	}
}
