package util

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_PassesThroughDomainErrors(t *testing.T) {
	err := NewConflict("already claimed", map[string]any{"item_id": "x"})
	domainErr := ToDomainError(err)
	assert.Equal(t, "CONFLICT", domainErr.Code)
	assert.Equal(t, 409, domainErr.HTTPStatus)
	assert.Equal(t, "x", domainErr.Details["item_id"])
}

func TestToDomainError_MapsNoRowsToNotFound(t *testing.T) {
	domainErr := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	assert.Equal(t, 404, domainErr.HTTPStatus)
}

func TestToDomainError_WrapsUnknownErrors(t *testing.T) {
	domainErr := ToDomainError(errors.New("boom"))
	assert.Equal(t, "INTERNAL_ERROR", domainErr.Code)
	assert.Equal(t, 500, domainErr.HTTPStatus)
}

func TestIsCode(t *testing.T) {
	err := NewValidationError("bad input", nil)
	assert.True(t, IsCode(err, "VALIDATION_FAILED"))
	assert.False(t, IsCode(err, "CONFLICT"))
	assert.False(t, IsCode(errors.New("plain"), "VALIDATION_FAILED"))
}

func TestNotFoundMessage(t *testing.T) {
	err := NewNotFound("issue", nil)
	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Contains(t, domainErr.Message, "issue")
}
