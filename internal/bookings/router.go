package bookings

import (
	"tourbook/internal/shared/middleware"
	"tourbook/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes registers the traveler booking routes plus the guide
// and admin listings. auth must authenticate the caller.
func SetupBookingRoutes(rg *gin.RouterGroup, guideMe, admin *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	bookings := rg.Group("/bookings")
	bookings.Use(auth)
	{
		bookings.POST("", middleware.RequireRoles(users.RoleUser), controller.CreateBooking)
		bookings.GET("", controller.ListMyBookings)
		bookings.GET("/:id", controller.GetBooking)
		bookings.PATCH("/:id/status", middleware.RequireRoles(users.RoleGuide, users.RoleAdmin), controller.UpdateStatus)
		bookings.DELETE("/:id", middleware.RequireRoles(users.RoleUser, users.RoleAdmin), controller.CancelBooking)
	}

	guideMe.GET("/bookings", controller.ListGuideBookings)
	admin.GET("/bookings", controller.ListAllBookings)
}

/*
TRAVELER:
- POST   /api/bookings                    - Book a tour {tour_id, guests, availability_id?, date?}
- GET    /api/bookings                    - Own bookings with tour summary (status, page, limit)
- GET    /api/bookings/:id                - One booking (owner or admin)
- DELETE /api/bookings/:id                - Cancel {reason?} (owner while pending, or admin)

GUIDE (tour owner) / ADMIN:
- PATCH  /api/bookings/:id/status         - Move booking {status, reason?}
- GET    /api/guides/me/bookings          - Bookings on the guide's tours

ADMIN:
- GET    /api/admin/bookings              - All bookings (status, tour_id, date_from, date_to, page, limit)
*/
