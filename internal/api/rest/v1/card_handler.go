package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// CardHandler defines the interface for handling saved card operations
type CardHandler interface {
	AddCard(ctx *gin.Context)
	ListByUser(ctx *gin.Context)
	DeleteByID(ctx *gin.Context)
}

// cardHandler struct holds the services
type cardHandler struct {
	paymentMethodService payments.PaymentMethodService
	logger               logger.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(paymentMethodService payments.PaymentMethodService, logger logger.Logger) CardHandler {
	return &cardHandler{
		paymentMethodService: paymentMethodService,
		logger:               logger,
	}
}

// AddCard handles the POST request that saves the card used for a verification charge
// @Summary Save a card from a Paystack transaction reference
// @Tags Card
// @Accept json
// @Produce json
// @Param requestBody body AddCardRequest true "Reference and user"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /add-card [post]
func (handler *cardHandler) AddCard(ctx *gin.Context) {
	var request AddCardRequest

	if err := ctx.ShouldBindJSON(&request); err != nil || request.Reference == "" || request.UserID == "" {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request: Missing reference or userId"})
		return
	}

	userID, ok := resolveUserID(ctx, request.UserID)
	if !ok {
		ctx.JSON(http.StatusForbidden, ErrorResponse{Message: "userId does not match the authenticated user"})
		return
	}

	if _, err := handler.paymentMethodService.AddCard(ctx, request.Reference, userID); err != nil {
		handler.logger.Error("Error processing payment reference ", request.Reference, ": ", err)

		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, payments.ErrInvalidInput):
			status = http.StatusBadRequest
		case errors.Is(err, payments.ErrGateway):
			status = http.StatusBadGateway
		}
		ctx.JSON(status, ErrorResponse{Message: fmt.Sprintf("Error processing payment reference: %v", err)})
		return
	}

	ctx.JSON(http.StatusOK, MessageResponse{Message: "Payment reference processed successfully"})
}

// ListByUser handles the GET request listing the saved cards of a user
// @Summary List saved cards of a user
// @Tags Card
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {array} PaymentMethodResponse
// @Success 204
// @Failure 500 {object} ErrorResponse
// @Router /cards/{userId} [get]
func (handler *cardHandler) ListByUser(ctx *gin.Context) {
	userID := ctx.Param("userId")

	paymentMethods, err := handler.paymentMethodService.ListByUser(ctx, userID)
	if err != nil {
		handler.logger.Error("Error listing cards of user ", userID, ": ", err)
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Message: fmt.Sprintf("Error listing cards: %v", err)})
		return
	}

	if len(paymentMethods) == 0 {
		ctx.Status(http.StatusNoContent)
		return
	}

	listResponse := make([]PaymentMethodResponse, 0, len(paymentMethods))
	for _, pm := range paymentMethods {
		listResponse = append(listResponse, newPaymentMethodResponse(pm))
	}

	ctx.JSON(http.StatusOK, listResponse)
}

// DeleteByID handles the DELETE request removing a saved card
// @Summary Delete a saved card by ID
// @Tags Card
// @Produce json
// @Param id path int true "Card ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /cards/{id} [delete]
func (handler *cardHandler) DeleteByID(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid card id %q", ctx.Param("id"))})
		return
	}

	if principal := principalFrom(ctx); principal != nil {
		err = handler.paymentMethodService.DeleteForUser(ctx, id, principal.UID)
	} else {
		err = handler.paymentMethodService.DeleteByID(ctx, id)
	}
	if err != nil {
		status := errorStatus(err)
		if status != http.StatusNotFound && status != http.StatusForbidden {
			handler.logger.Error("Error deleting card ", id, ": ", err)
			status = http.StatusInternalServerError
		}
		ctx.JSON(status, ErrorResponse{Message: fmt.Sprintf("Error deleting card: %v", err)})
		return
	}

	ctx.JSON(http.StatusOK, MessageResponse{Message: "Card deleted successfully"})
}
