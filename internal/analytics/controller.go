package analytics

import (
	"net/http"

	"tourbook/internal/shared/middleware"
	"tourbook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) GetMyStats(ctx *gin.Context) {
	principal, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	stats, err := c.service.GuideStats(ctx.Request.Context(), principal.UserID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Guide stats retrieved successfully", stats, nil)
}

func (c *Controller) GetPlatformStats(ctx *gin.Context) {
	stats, err := c.service.PlatformStats(ctx.Request.Context())
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Platform stats retrieved successfully", stats, nil)
}
