package v1

import (
	"errors"
	"net/http"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"

	"github.com/gin-gonic/gin"
)

// errorStatus maps service errors onto HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, payments.ErrInvalidInput), errors.Is(err, payments.ErrRejected):
		return http.StatusBadRequest
	case errors.Is(err, payments.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, payments.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, payments.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, payments.ErrVerificationFailed), errors.Is(err, payments.ErrAuthorizationMissing):
		return http.StatusUnprocessableEntity
	case errors.Is(err, payments.ErrGateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(ctx *gin.Context, status int, message string) {
	ctx.AbortWithStatusJSON(status, ErrorResponse{Message: message})
}
