package analytics

import (
	"github.com/gin-gonic/gin"
)

func SetupAnalyticsRoutes(guideMe, admin *gin.RouterGroup, controller *Controller) {
	guideMe.GET("/stats", controller.GetMyStats)
	admin.GET("/stats", controller.GetPlatformStats)
}

/*
GUIDE:
- GET /api/guides/me/stats - Own bookings by status, revenue, earnings still owed

ADMIN:
- GET /api/admin/stats     - Platform-wide totals, users by role, pending guide approvals
*/
