package settings

import (
	"github.com/gin-gonic/gin"
)

// SetupSettingsRoutes registers settings routes on an admin-only group
func SetupSettingsRoutes(admin *gin.RouterGroup, controller *Controller) {
	settings := admin.Group("/settings")
	{
		settings.GET("/commission", controller.GetCommission)
		settings.PUT("/commission", controller.UpdateCommission)
	}
}

/*
ADMIN:
- GET /api/admin/settings/commission    - Current commission rate (default when unset)
- PUT /api/admin/settings/commission    - Set commission rate {rate: 0..100}
*/
