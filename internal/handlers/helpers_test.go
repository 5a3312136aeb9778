// internal/handlers/helpers_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gostorefront/storefront-backend/internal/models"
)

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	return c, w
}

func TestCurrentUser(t *testing.T) {
	c, _ := testContext(t)
	id := uuid.New()
	c.Set("user_id", id.String())
	c.Set("user_role", "admin")

	gotID, role, ok := currentUser(c)
	require.True(t, ok)
	assert.Equal(t, id, gotID)
	assert.Equal(t, models.UserRoleAdmin, role)
}

func TestCurrentUserDefaultsRole(t *testing.T) {
	c, _ := testContext(t)
	c.Set("user_id", uuid.New().String())

	_, role, ok := currentUser(c)
	require.True(t, ok)
	assert.Equal(t, models.UserRoleUser, role)
}

func TestCurrentUserMissingIdentity(t *testing.T) {
	c, w := testContext(t)

	_, _, ok := currentUser(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCurrentUserMalformedID(t *testing.T) {
	c, w := testContext(t)
	c.Set("user_id", "not-a-uuid")

	_, _, ok := currentUser(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestParseIDParam(t *testing.T) {
	c, _ := testContext(t)
	id := uuid.New()
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	got, ok := parseIDParam(c)
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestParseIDParamMalformed(t *testing.T) {
	c, w := testContext(t)
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	_, ok := parseIDParam(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
