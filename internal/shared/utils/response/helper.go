package response

import (
	"tourbook/internal/shared/apperrors"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError writes a classified error. Internal errors are attached to
// the gin context for the request logger and never leak to the client.
func RespondError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	if kind == apperrors.KindInternal {
		_ = c.Error(err)
	}
	RespondJSON(c, "error", kind.HTTPStatus(), apperrors.PublicMessage(err), nil, nil)
}

// RespondValidation writes a 400 with binding or validator details
func RespondValidation(c *gin.Context, err error) {
	RespondJSON(c, "error", 400, "Validation failed", nil, err.Error())
}
