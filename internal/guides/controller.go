package guides

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

func (c *Controller) GetMyProfile(ctx *gin.Context) {
	principal, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	profile, err := c.service.GetMine(ctx.Request.Context(), principal.UserID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Guide profile retrieved successfully", profile, nil)
}

func (c *Controller) UpdateMyProfile(ctx *gin.Context) {
	principal, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.RespondValidation(ctx, err)
		return
	}

	profile, err := c.service.UpdateMine(ctx.Request.Context(), principal.UserID, &req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Guide profile updated successfully", profile, nil)
}

func (c *Controller) ListProfiles(ctx *gin.Context) {
	var query ListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	profiles, pagination, err := c.service.List(ctx.Request.Context(), query)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Guide profiles retrieved successfully", gin.H{
		"guides":     profiles,
		"pagination": pagination,
	}, nil)
}

func (c *Controller) Approve(ctx *gin.Context) {
	principal, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	profileID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid guide profile ID", nil, nil)
		return
	}

	profile, err := c.service.Approve(ctx.Request.Context(), principal.UserID, profileID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Guide approved", profile, nil)
}

func (c *Controller) Reject(ctx *gin.Context) {
	principal, ok := middleware.MustPrincipal(ctx)
	if !ok {
		return
	}
	profileID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid guide profile ID", nil, nil)
		return
	}

	var req RejectRequest
	_ = ctx.ShouldBindJSON(&req) // optional body
	if err := c.validator.Struct(&req); err != nil {
		response.RespondValidation(ctx, err)
		return
	}

	profile, err := c.service.Reject(ctx.Request.Context(), principal.UserID, profileID, req.Reason)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Guide rejected", profile, nil)
}
