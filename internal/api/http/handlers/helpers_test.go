package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/pkg/util"
)

func paginationFor(t *testing.T, url string) (int, int) {
	t.Helper()

	app := fiber.New()
	var limit, offset int
	app.Get("/probe", func(c *fiber.Ctx) error {
		limit, offset = pagination(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", url, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return limit, offset
}

func TestPagination(t *testing.T) {
	cases := []struct {
		name       string
		url        string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "/probe", 20, 0},
		{"explicit page and limit", "/probe?page=3&limit=10", 10, 20},
		{"limit clamped to 50", "/probe?limit=500", 50, 0},
		{"zero limit falls back", "/probe?limit=0", 20, 0},
		{"negative page falls back", "/probe?page=-2", 20, 0},
		{"garbage values fall back", "/probe?page=abc&limit=xyz", 20, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			limit, offset := paginationFor(t, tc.url)
			assert.Equal(t, tc.wantLimit, limit)
			assert.Equal(t, tc.wantOffset, offset)
		})
	}
}

func TestParseBody_ValidationDetails(t *testing.T) {
	app := fiber.New()
	type payload struct {
		Email string `json:"email" validate:"required,email"`
	}
	var parseErr error
	app.Post("/probe", func(c *fiber.Ctx) error {
		var p payload
		parseErr = parseBody(c, &p)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("POST", "/probe", strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	_, err := app.Test(req)
	require.NoError(t, err)

	require.Error(t, parseErr)
	domainErr := apperrors.ToDomainError(parseErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Details, "Email")
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("a", "b"))
	assert.Equal(t, "b", firstNonEmpty("", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}
