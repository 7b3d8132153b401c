package testutil

import (
	"net/http"

	"tourbook/internal/shared/middleware"
	"tourbook/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RoleHeader selects the caller's role for FakeAuth
const RoleHeader = "X-Test-Role"

// FakeAuth stands in for JWT auth in handler tests. A request without a
// valid RoleHeader is rejected with 401.
func FakeAuth(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := users.ParseRole(c.GetHeader(RoleHeader))
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		middleware.SetPrincipal(c, &middleware.Principal{UserID: userID, Role: role})
		c.Next()
	}
}
