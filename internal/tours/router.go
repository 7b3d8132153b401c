package tours

import (
	"tourbook/internal/shared/middleware"
	"tourbook/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupTourRoutes registers the public catalogue and the guide/admin
// management routes. auth must authenticate the caller.
func SetupTourRoutes(rg *gin.RouterGroup, guideMe, admin *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	tours := rg.Group("/tours")
	{
		tours.GET("", controller.ListTours)
		tours.GET("/:id", controller.GetTour)

		manage := tours.Group("")
		manage.Use(auth, middleware.RequireRoles(users.RoleGuide, users.RoleAdmin))
		{
			manage.POST("", controller.CreateTour)
			manage.PUT("/:id", controller.UpdateTour)
			manage.DELETE("/:id", controller.DeleteTour)
		}
	}

	guideMe.GET("/tours", controller.ListMyTours)
	admin.PATCH("/tours/:id/featured", controller.SetFeatured)
}

/*
PUBLIC:
- GET    /api/tours                       - Browse active tours (search, location, featured, min_price, max_price, page, limit)
- GET    /api/tours/:id                   - Tour details

GUIDE / ADMIN:
- POST   /api/tours                       - Create tour (approved guides, admins)
- PUT    /api/tours/:id                   - Update tour (owner or admin)
- DELETE /api/tours/:id                   - Deactivate tour (owner or admin)
- GET    /api/guides/me/tours             - Own tours, including inactive ones

ADMIN:
- PATCH  /api/admin/tours/:id/featured    - Toggle featured flag {featured}
*/
