package payouts

import (
	"github.com/gin-gonic/gin"
)

// SetupPayoutRoutes expects guideMe and admin to be authenticated and role-gated already
func SetupPayoutRoutes(guideMe, admin *gin.RouterGroup, controller *Controller) {
	guideMe.GET("/payouts", controller.ListMyPayouts)

	payouts := admin.Group("/payouts")
	{
		payouts.POST("", controller.CreatePayout)
		payouts.GET("", controller.ListPayouts)
		payouts.PATCH("/:id/paid", controller.MarkPaid)
	}
}

/*
GUIDE:
- GET   /api/guides/me/payouts        - Own payouts (status, page, limit)

ADMIN:
- POST  /api/admin/payouts            - Batch a guide's completed, paid bookings {guide_id}
- GET   /api/admin/payouts            - All payouts (guide_id, status, page, limit)
- PATCH /api/admin/payouts/:id/paid   - Record the transfer
*/
