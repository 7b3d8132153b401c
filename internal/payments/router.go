package payments

import (
	"tourbook/internal/shared/middleware"
	"tourbook/internal/users"

	"github.com/gin-gonic/gin"
)

// WebhookPath is exempt from rate limiting and authentication
const WebhookPath = "/payments/webhook"

func SetupPaymentRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	rg.POST("/bookings/:id/checkout", auth, middleware.RequireRoles(users.RoleUser), controller.CreateCheckout)
	rg.POST(WebhookPath, controller.HandleWebhook)
}

/*
TRAVELER:
- POST /api/bookings/:id/checkout   - Hosted checkout for a pending unpaid booking -> {session_id, url}

PROCESSOR:
- POST /api/payments/webhook        - Signed processor events (Stripe-Signature header, raw body)
*/
