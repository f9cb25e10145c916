package handlers

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/auth"
	apperrors "github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/pkg/util"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

var validate = validator.New()

// parseBody unmarshals and validates a request payload. Validation failures
// surface as VALIDATION_FAILED with a per-field detail map.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	if err := validate.Struct(out); err != nil {
		var validationErrs validator.ValidationErrors
		details := map[string]any{}
		if ok := asValidationErrors(err, &validationErrs); ok {
			for _, fieldErr := range validationErrs {
				details[fieldErr.Field()] = fieldErr.Tag()
			}
		}
		return apperrors.NewValidationError("validation failed", details)
	}
	return nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	if errs, ok := err.(validator.ValidationErrors); ok {
		*target = errs
		return true
	}
	return false
}

// pagination returns (limit, offset) from ?page and ?limit, with page
// starting at 1 and limit clamped to 1..50.
func pagination(c *fiber.Ctx) (int, int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return limit, (page - 1) * limit
}

// dateRange parses optional ?from and ?to query params (RFC 3339 or date-only).
func dateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	parse := func(raw string) (*time.Time, error) {
		if raw == "" {
			return nil, nil
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return &t, nil
			}
		}
		return nil, apperrors.NewValidationError("invalid date parameter", map[string]any{"value": raw})
	}

	from, err := parse(c.Query("from"))
	if err != nil {
		return nil, nil, err
	}
	to, err := parse(c.Query("to"))
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// principal returns the authenticated caller, failing closed when missing.
func principal(c *fiber.Ctx) (*auth.Principal, error) {
	p, ok := auth.PrincipalFromContext(c)
	if !ok || p.User == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return p, nil
}
