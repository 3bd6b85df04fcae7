package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/hourglass-gateway/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
// Detail is either a human-readable string or the structured detail the
// upstream returned.
type ErrorResponse struct {
	Detail any `json:"detail"`
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code and
// detail payload. Anything else maps to 500 Internal Server Error so no
// failure escapes without a mapped status and a {"detail": ...} body.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, ErrorResponse{Detail: appErr.Detail})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Detail: "Internal server error: " + err.Error(),
	})
}
