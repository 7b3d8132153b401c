package availability

import (
	"tourbook/internal/shared/middleware"
	"tourbook/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupAvailabilityRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	slots := rg.Group("/tours/:id/availability")
	{
		slots.GET("", controller.ListSlots)

		manage := slots.Group("")
		manage.Use(auth, middleware.RequireRoles(users.RoleGuide, users.RoleAdmin))
		{
			manage.POST("", controller.CreateSlot)
			manage.DELETE("/:slotId", controller.DeleteSlot)
		}
	}
}

/*
PUBLIC:
- GET    /api/tours/:id/availability               - Upcoming slots with remaining spots

GUIDE (owner) / ADMIN:
- POST   /api/tours/:id/availability               - Add slot {date, start_time?, available_spots}
- DELETE /api/tours/:id/availability/:slotId       - Remove slot (existing bookings keep their reference)
*/
