package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"questboard/internal/service"
)

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// writeError maps a business error to a status code and a stable
// machine-readable code so the caller can discriminate not-found from
// conflict from rule violations.
func writeError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), errorResponse{
		Code:  service.ErrorCode(err),
		Error: err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case service.IsInvalidInput(err):
		return http.StatusBadRequest
	case service.IsNotFound(err):
		return http.StatusNotFound
	case service.IsInvalidState(err), service.IsRetryable(err):
		return http.StatusConflict
	case service.IsInsufficient(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
