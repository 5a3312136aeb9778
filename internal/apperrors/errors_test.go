// internal/apperrors/errors_test.go
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Validation("bad", nil).Status)
	assert.Equal(t, http.StatusNotFound, NotFound("order").Status)
	assert.Equal(t, http.StatusForbidden, Forbidden("no").Status)
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("no").Status)
	assert.Equal(t, http.StatusConflict, Conflict("dup").Status)
	assert.Equal(t, http.StatusBadRequest, InvalidTransition("shipped", "pending").Status)
	assert.Equal(t, http.StatusInternalServerError, Internal(errors.New("boom")).Status)
}

func TestAsUnwrapsThroughWrapping(t *testing.T) {
	base := NotFound("product")
	wrapped := fmt.Errorf("while loading: %w", base)

	appErr := As(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestAsReturnsNilForPlainErrors(t *testing.T) {
	assert.Nil(t, As(errors.New("plain")))
	assert.Nil(t, As(nil))
}

func TestIsCode(t *testing.T) {
	err := Conflict("slug taken")
	assert.True(t, IsCode(err, "CONFLICT"))
	assert.False(t, IsCode(err, "NOT_FOUND"))
	assert.False(t, IsCode(errors.New("plain"), "CONFLICT"))
}

func TestInvalidTransitionMessage(t *testing.T) {
	err := InvalidTransition("shipped", "pending")
	assert.Contains(t, err.Message, "shipped")
	assert.Contains(t, err.Message, "pending")
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Internal(cause)

	// The client-facing message must not leak the cause; Error() keeps it
	// for the logs.
	assert.Equal(t, "internal server error", err.Message)
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}
