// internal/handlers/helpers.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gostorefront/storefront-backend/internal/models"
	"github.com/gostorefront/storefront-backend/internal/utils"
)

// currentUser pulls the authenticated identity out of the request context.
// Handlers behind AuthRequired can rely on ok being true; the false branch
// only fires on wiring mistakes and responds 401 for the caller.
func currentUser(c *gin.Context) (uuid.UUID, models.UserRole, bool) {
	idStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, "", false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, "", false
	}

	role := models.UserRoleUser
	if roleStr, ok := utils.GetUserRoleFromContext(c); ok {
		role = models.UserRole(roleStr)
	}

	return id, role, true
}

// parseIDParam parses the :id path segment as a UUID, responding 400 itself
// when it is malformed.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}
