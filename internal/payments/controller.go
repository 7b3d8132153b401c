package payments

import (
	"errors"
	"io"
	"net/http"

	"tourbook/internal/shared/middleware"
	"tourbook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	signatureHeader     = "Stripe-Signature"
	maxWebhookBodyBytes = 1 << 20
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) CreateCheckout(ctx *gin.Context) {
	principal, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	checkout, err := c.service.Checkout(ctx.Request.Context(), principal.Actor(), principal.Email, id)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Checkout session created", checkout, nil)
}

// HandleWebhook needs the body byte for byte; the signature covers it
func (c *Controller) HandleWebhook(ctx *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondJSON(ctx, "error", http.StatusRequestEntityTooLarge, "Request body too large", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Unable to read request body", nil, nil)
		return
	}

	result, err := c.service.HandleWebhook(ctx.Request.Context(), payload, ctx.GetHeader(signatureHeader))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Webhook processed", result, nil)
}
