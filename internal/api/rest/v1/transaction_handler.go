package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// TransactionHandler defines the interface for handling Paystack transactions
type TransactionHandler interface {
	Initialize(ctx *gin.Context)
	ChargeSavedCard(ctx *gin.Context)
	Verify(ctx *gin.Context)
	GetByReference(ctx *gin.Context)
	List(ctx *gin.Context)
}

// transactionHandler struct holds the services
type transactionHandler struct {
	transactionService payments.TransactionService
	logger             logger.Logger
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService payments.TransactionService, logger logger.Logger) TransactionHandler {
	return &transactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// Initialize handles the POST request that starts a hosted checkout
// @Summary Initialize a Paystack transaction
// @Tags Transaction
// @Accept json
// @Produce json
// @Param requestBody body PaymentInitializationRequest true "Checkout data"
// @Success 200 {object} PaymentInitializationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /initialize [post]
func (handler *transactionHandler) Initialize(ctx *gin.Context) {
	var request PaymentInitializationRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid initialization data: %v", err)})
		return
	}

	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	userID, ok := resolveUserID(ctx, request.UserID)
	if !ok {
		ctx.JSON(http.StatusForbidden, ErrorResponse{Message: "userId does not match the authenticated user"})
		return
	}

	tx, err := handler.transactionService.Initialize(ctx, &payments.InitializeCommand{
		UserID:      userID,
		Email:       request.Email,
		Amount:      request.Amount,
		Reference:   request.Reference,
		CallbackURL: request.CallbackURL,
		OrderKey:    request.OrderFirebaseKey,
		Metadata:    request.Metadata,
	})
	if err != nil {
		handler.logger.Error("Error initializing transaction: ", err)
		ctx.JSON(errorStatus(err), ErrorResponse{Message: fmt.Sprintf("Error initializing transaction: %v", err)})
		return
	}

	ctx.JSON(http.StatusOK, PaymentInitializationResponse{
		Status:           true,
		Message:          "Authorization URL created",
		AccessCode:       tx.AccessCode,
		AuthorizationURL: tx.AuthorizationURL,
		Reference:        tx.Reference,
	})
}

// ChargeSavedCard handles the POST request charging a saved card
// @Summary Charge a saved card
// @Tags Transaction
// @Accept json
// @Produce json
// @Param requestBody body ChargeSavedCardRequest true "Charge data"
// @Success 200 {object} ChargeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /charge-saved-card [post]
func (handler *transactionHandler) ChargeSavedCard(ctx *gin.Context) {
	var request ChargeSavedCardRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid charge data: %v", err)})
		return
	}

	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	userID, ok := resolveUserID(ctx, request.UserID)
	if !ok {
		ctx.JSON(http.StatusForbidden, ErrorResponse{Message: "userId does not match the authenticated user"})
		return
	}

	result, err := handler.transactionService.ChargeSavedCard(ctx, &payments.ChargeCommand{
		UserID:            userID,
		Email:             request.Email,
		Amount:            request.Amount,
		AuthorizationCode: request.AuthorizationCode,
		PaymentMethodID:   request.PaymentMethodID,
		Reference:         request.TransactionReference,
		OrderKey:          request.OrderFirebaseKey,
	})
	if err != nil {
		handler.logger.Error("Error charging saved card: ", err)
		ctx.JSON(errorStatus(err), ErrorResponse{Message: fmt.Sprintf("Error charging saved card: %v", err)})
		return
	}

	message := result.Message
	if message == "" {
		message = result.GatewayResponse
	}
	ctx.JSON(http.StatusOK, ChargeResponse{
		Status:               result.Status == payments.StatusSuccess,
		Message:              message,
		GatewayResponse:      string(result.Status),
		TransactionReference: result.Reference,
	})
}

// Verify handles the GET request that refreshes a transaction from Paystack
// @Summary Verify a transaction with Paystack
// @Tags Transaction
// @Produce json
// @Param reference path string true "Transaction reference"
// @Success 200 {object} TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /verify/{reference} [get]
func (handler *transactionHandler) Verify(ctx *gin.Context) {
	reference := ctx.Param("reference")

	// A stored transaction of another user is never refreshed on their behalf
	if principalFrom(ctx) != nil {
		stored, err := handler.transactionService.GetByReference(ctx, reference)
		switch {
		case err == nil && !handler.owns(ctx, stored):
			ctx.JSON(http.StatusForbidden, ErrorResponse{Message: "transaction belongs to another user"})
			return
		case err != nil && !errors.Is(err, payments.ErrNotFound):
			handler.logger.Error("Error loading transaction ", reference, ": ", err)
			ctx.JSON(errorStatus(err), ErrorResponse{Message: fmt.Sprintf("Error verifying transaction: %v", err)})
			return
		}
	}

	tx, err := handler.transactionService.Verify(ctx, reference)
	if err != nil {
		handler.logger.Warn("Error verifying transaction ", reference, ": ", err)
		ctx.JSON(errorStatus(err), ErrorResponse{Message: fmt.Sprintf("Error verifying transaction: %v", err)})
		return
	}

	if !handler.owns(ctx, tx) {
		ctx.JSON(http.StatusForbidden, ErrorResponse{Message: "transaction belongs to another user"})
		return
	}

	ctx.JSON(http.StatusOK, newTransactionResponse(tx))
}

// GetByReference handles the GET request returning a recorded transaction
// @Summary Retrieve a recorded transaction
// @Tags Transaction
// @Produce json
// @Param reference path string true "Transaction reference"
// @Success 200 {object} TransactionResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /transactions/{reference} [get]
func (handler *transactionHandler) GetByReference(ctx *gin.Context) {
	reference := ctx.Param("reference")

	tx, err := handler.transactionService.GetByReference(ctx, reference)
	if err != nil && !errors.Is(err, payments.ErrNotFound) {
		handler.logger.Error("Error loading transaction ", reference, ": ", err)
		ctx.JSON(errorStatus(err), ErrorResponse{Message: fmt.Sprintf("Error loading transaction: %v", err)})
		return
	}
	// Transactions of other users are reported as missing
	if err != nil || !handler.owns(ctx, tx) {
		ctx.JSON(http.StatusNotFound, ErrorResponse{Message: fmt.Sprintf("transaction with reference %s not found", reference)})
		return
	}

	ctx.JSON(http.StatusOK, newTransactionResponse(tx))
}

// List handles the GET request listing recorded transactions
// @Summary List recorded transactions
// @Tags Transaction
// @Produce json
// @Param userId query string false "User ID"
// @Param status query string false "Transaction status"
// @Param createdBefore query string false "Upper creation bound (RFC3339)"
// @Param limit query int false "Limit the number of results"
// @Param offset query int false "Offset the results"
// @Param sortBy query string false "Sort by a specific field"
// @Param sortOrder query string false "Sort order (asc/desc)"
// @Success 200 {array} TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Router /transactions [get]
func (handler *transactionHandler) List(ctx *gin.Context) {
	query := payments.NewTransactionQuery()

	userID, _ := resolveUserID(ctx, ctx.Query("userId"))
	query.UserID = userID

	if status := ctx.Query("status"); len(status) > 0 {
		query.Status = payments.TransactionStatus(status)
	}

	if createdBefore := ctx.Query("createdBefore"); len(createdBefore) > 0 {
		parsedTime, err := time.Parse(time.RFC3339, createdBefore)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid createdBefore: %v", err)})
			return
		}
		query.CreatedBefore = parsedTime
	}

	for name, target := range map[string]*int{"limit": &query.Limit, "offset": &query.Offset} {
		if raw := ctx.Query(name); len(raw) > 0 {
			value, err := strconv.Atoi(raw)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid %s %q", name, raw)})
				return
			}
			*target = value
		}
	}

	if sortBy := ctx.Query("sortBy"); len(sortBy) > 0 {
		query.SortBy = sortBy
	}

	if sortOrder := ctx.Query("sortOrder"); len(sortOrder) > 0 {
		query.SortOrder = sortOrder
	}

	if err := query.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	transactions, err := handler.transactionService.List(ctx, query)
	if err != nil {
		handler.logger.Error("Error listing transactions: ", err)
		ctx.JSON(errorStatus(err), ErrorResponse{Message: fmt.Sprintf("list query failed: %v", err)})
		return
	}

	listResponse := make([]TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		listResponse = append(listResponse, newTransactionResponse(tx))
	}

	ctx.JSON(http.StatusOK, listResponse)
}

// owns reports whether the caller may see tx. Unauthenticated deployments see everything.
func (handler *transactionHandler) owns(ctx *gin.Context, tx *payments.Transaction) bool {
	principal := principalFrom(ctx)
	return principal == nil || tx.UserID == "" || tx.UserID == principal.UID
}
