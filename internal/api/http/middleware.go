package http

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/observability"
	apperrors "github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/pkg/util"
)

// ErrorHandler converts any error bubbling out of a handler into the
// canonical envelope: {"error": {"code", "message", "details"}}.
func ErrorHandler(logger *zap.Logger, metrics *observability.Metrics) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			domainErr := apperrors.NewDomainError(codeForStatus(fiberErr.Code), fiberErr.Message, fiberErr.Code, nil)
			return writeDomainError(c, logger, metrics, domainErr)
		}
		return writeDomainError(c, logger, metrics, apperrors.ToDomainError(err))
	}
}

func writeDomainError(c *fiber.Ctx, logger *zap.Logger, metrics *observability.Metrics, domainErr *apperrors.DomainError) error {
	if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.String("code", domainErr.Code),
			zap.Error(domainErr),
		)
	}
	if metrics != nil {
		metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
	}

	body := fiber.Map{
		"code":    domainErr.Code,
		"message": domainErr.Message,
	}
	if len(domainErr.Details) > 0 {
		body["details"] = domainErr.Details
	}
	return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": body})
}

// Recover catches handler panics and returns a 500 instead of dropping the
// connection.
func Recover(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Path()),
					zap.ByteString("stack", debug.Stack()),
				)
				err = apperrors.NewDomainError("INTERNAL_ERROR", "internal server error", fiber.StatusInternalServerError, nil)
			}
		}()
		return c.Next()
	}
}

// RequestTimeout bounds each request with a deadline carried on the user
// context, so repository calls inherit it.
func RequestTimeout(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	case fiber.StatusConflict:
		return "CONFLICT"
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return "VALIDATION_FAILED"
	default:
		return "INTERNAL_ERROR"
	}
}
