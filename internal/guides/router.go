package guides

import (
	"github.com/gin-gonic/gin"
)

// SetupGuideRoutes registers self-service routes on the guide group and
// approval routes on the admin group. Both groups arrive authenticated.
func SetupGuideRoutes(guideMe, admin *gin.RouterGroup, controller *Controller) {
	guideMe.GET("", controller.GetMyProfile)
	guideMe.PUT("", controller.UpdateMyProfile)

	adminGuides := admin.Group("/guides")
	{
		adminGuides.GET("", controller.ListProfiles)
		adminGuides.PATCH("/:id/approve", controller.Approve)
		adminGuides.PATCH("/:id/reject", controller.Reject)
	}
}

/*
GUIDE:
- GET   /api/guides/me                    - Own profile and approval status
- PUT   /api/guides/me                    - Update business metadata

ADMIN:
- GET   /api/admin/guides?status=pending  - Review queue
- PATCH /api/admin/guides/:id/approve     - Approve guide
- PATCH /api/admin/guides/:id/reject      - Reject guide {reason?}
*/
