package availability

import (
	"net/http"

	"tourbook/internal/shared/middleware"
	"tourbook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

func (c *Controller) ListSlots(ctx *gin.Context) {
	tourID, ok := parseUUIDParam(ctx, "id", "Invalid tour ID")
	if !ok {
		return
	}

	slots, err := c.service.List(ctx.Request.Context(), tourID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Availability retrieved successfully", slots, nil)
}

func (c *Controller) CreateSlot(ctx *gin.Context) {
	principal, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	tourID, ok := parseUUIDParam(ctx, "id", "Invalid tour ID")
	if !ok {
		return
	}

	var req CreateSlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondValidation(ctx, err)
		return
	}

	slot, err := c.service.Create(ctx.Request.Context(), principal.Actor(), tourID, &req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Availability slot created successfully", slot, nil)
}

func (c *Controller) DeleteSlot(ctx *gin.Context) {
	principal, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	tourID, ok := parseUUIDParam(ctx, "id", "Invalid tour ID")
	if !ok {
		return
	}
	slotID, ok := parseUUIDParam(ctx, "slotId", "Invalid slot ID")
	if !ok {
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), principal.Actor(), tourID, slotID); err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Availability slot deleted successfully", nil, nil)
}

func parseUUIDParam(ctx *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, message, nil, nil)
		return uuid.Nil, false
	}
	return id, true
}
