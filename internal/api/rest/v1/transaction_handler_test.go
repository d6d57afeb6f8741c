//go:build unit
// +build unit

package v1

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/identity"
	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestTransactionHandler_Initialize_Success(t *testing.T) {
	mockService := new(MockTransactionService)
	handler := NewTransactionHandler(mockService, logger.NewNopLogger())

	mockService.On("Initialize", mock.Anything, mock.MatchedBy(func(cmd *payments.InitializeCommand) bool {
		return cmd.Amount == 5000 && cmd.UserID == "user-1" && cmd.OrderKey == "-Norder" && cmd.Metadata["cart"] == "c1"
	})).Return(&payments.Transaction{
		Reference:        "ref-1",
		AccessCode:       "ACC_1",
		AuthorizationURL: "https://checkout.paystack.com/ACC_1",
	}, nil)

	c, w := newCardTestContext("POST", "/initialize",
		`{"amount":5000,"email":"a@example.com","userId":"user-1","orderFirebaseKey":"-Norder","metadata":{"cart":"c1"}}`)
	handler.Initialize(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":true,"message":"Authorization URL created","accessCode":"ACC_1","authorizationUrl":"https://checkout.paystack.com/ACC_1","reference":"ref-1"}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestTransactionHandler_Initialize_Errors(t *testing.T) {
	mockService := new(MockTransactionService)
	handler := NewTransactionHandler(mockService, logger.NewNopLogger())

	c, w := newCardTestContext("POST", "/initialize", `{"amount":0,"email":"a@example.com"}`)
	handler.Initialize(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockService.On("Initialize", mock.Anything, mock.Anything).Return(nil, payments.ErrGateway)
	c, w = newCardTestContext("POST", "/initialize", `{"amount":10,"email":"a@example.com"}`)
	handler.Initialize(c)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestTransactionHandler_Initialize_DefaultsToPrincipal(t *testing.T) {
	mockService := new(MockTransactionService)
	handler := NewTransactionHandler(mockService, logger.NewNopLogger())

	mockService.On("Initialize", mock.Anything, mock.MatchedBy(func(cmd *payments.InitializeCommand) bool {
		return cmd.UserID == "user-9"
	})).Return(&payments.Transaction{Reference: "ref-9"}, nil)

	c, w := newCardTestContext("POST", "/initialize", `{"amount":10,"email":"a@example.com"}`)
	c.Set(principalKey, &identity.Principal{UID: "user-9"})
	handler.Initialize(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestTransactionHandler_ChargeSavedCard(t *testing.T) {
	mockService := new(MockTransactionService)
	handler := NewTransactionHandler(mockService, logger.NewNopLogger())

	mockService.On("ChargeSavedCard", mock.Anything, mock.MatchedBy(func(cmd *payments.ChargeCommand) bool {
		return cmd.AuthorizationCode == "AUTH_abc" && cmd.Reference == "order-7" && cmd.OrderKey == "-Norder"
	})).Return(&payments.ChargeResult{
		Status:          payments.StatusFailed,
		Reference:       "order-7",
		GatewayResponse: "Declined",
		Message:         "Insufficient Funds",
	}, nil)

	c, w := newCardTestContext("POST", "/charge-saved-card",
		`{"amount":100,"email":"a@example.com","authorizationCode":"AUTH_abc","transactionReference":"order-7","orderFirebaseKey":"-Norder"}`)
	handler.ChargeSavedCard(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":false,"message":"Insufficient Funds","gatewayResponse":"failed","transactionReference":"order-7"}`, w.Body.String())
}

func TestTransactionHandler_ChargeSavedCard_Errors(t *testing.T) {
	mockService := new(MockTransactionService)
	handler := NewTransactionHandler(mockService, logger.NewNopLogger())

	c, w := newCardTestContext("POST", "/charge-saved-card", `{"amount":100,"email":"a@example.com"}`)
	handler.ChargeSavedCard(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockService.On("ChargeSavedCard", mock.Anything, mock.Anything).Return(nil, payments.ErrForbidden)
	c, w = newCardTestContext("POST", "/charge-saved-card", `{"amount":100,"email":"a@example.com","paymentMethodId":3}`)
	handler.ChargeSavedCard(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTransactionHandler_Verify(t *testing.T) {
	mockService := new(MockTransactionService)
	handler := NewTransactionHandler(mockService, logger.NewNopLogger())

	paid := time.Now().UTC()
	mockService.On("Verify", mock.Anything, "ref-1").Return(&payments.Transaction{
		Reference: "ref-1",
		UserID:    "user-1",
		Status:    payments.StatusSuccess,
		PaidAt:    &paid,
	}, nil)
	mockService.On("Verify", mock.Anything, "ref-2").Return(nil, payments.ErrVerificationFailed)

	c, w := newCardTestContext("GET", "/verify/ref-1", "")
	c.Params = gin.Params{{Key: "reference", Value: "ref-1"}}
	handler.Verify(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"success"`)

	c, w = newCardTestContext("GET", "/verify/ref-2", "")
	c.Params = gin.Params{{Key: "reference", Value: "ref-2"}}
	handler.Verify(c)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestTransactionHandler_Verify_ChecksOwnershipBeforeRefreshing(t *testing.T) {
	mockService := new(MockTransactionService)
	handler := NewTransactionHandler(mockService, logger.NewNopLogger())

	mockService.On("GetByReference", mock.Anything, "ref-1").Return(&payments.Transaction{
		Reference: "ref-1",
		UserID:    "user-1",
		Status:    payments.StatusPending,
	}, nil)
	mockService.On("GetByReference", mock.Anything, "ref-new").Return(nil, payments.ErrNotFound)
	mockService.On("GetByReference", mock.Anything, "ref-broken").Return(nil, errors.New("db down"))
	mockService.On("Verify", mock.Anything, "ref-new").Return(&payments.Transaction{
		Reference: "ref-new",
		UserID:    "user-2",
		Status:    payments.StatusSuccess,
	}, nil).Once()

	t.Run("stored transaction of another user", func(t *testing.T) {
		c, w := newCardTestContext("GET", "/verify/ref-1", "")
		c.Params = gin.Params{{Key: "reference", Value: "ref-1"}}
		c.Set(principalKey, &identity.Principal{UID: "user-2"})
		handler.Verify(c)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown reference is verified", func(t *testing.T) {
		c, w := newCardTestContext("GET", "/verify/ref-new", "")
		c.Params = gin.Params{{Key: "reference", Value: "ref-new"}}
		c.Set(principalKey, &identity.Principal{UID: "user-2"})
		handler.Verify(c)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("lookup failure", func(t *testing.T) {
		c, w := newCardTestContext("GET", "/verify/ref-broken", "")
		c.Params = gin.Params{{Key: "reference", Value: "ref-broken"}}
		c.Set(principalKey, &identity.Principal{UID: "user-2"})
		handler.Verify(c)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	mockService.AssertNotCalled(t, "Verify", mock.Anything, "ref-1")
	mockService.AssertNotCalled(t, "Verify", mock.Anything, "ref-broken")
	mockService.AssertExpectations(t)
}

func TestTransactionHandler_GetByReference(t *testing.T) {
	mockService := new(MockTransactionService)
	handler := NewTransactionHandler(mockService, logger.NewNopLogger())

	mockService.On("GetByReference", mock.Anything, "ref-1").Return(&payments.Transaction{Reference: "ref-1", UserID: "user-1"}, nil)
	mockService.On("GetByReference", mock.Anything, "missing").Return(nil, payments.ErrNotFound)
	mockService.On("GetByReference", mock.Anything, "ref-broken").Return(nil, errors.New("db down"))

	c, w := newCardTestContext("GET", "/transactions/ref-1", "")
	c.Params = gin.Params{{Key: "reference", Value: "ref-1"}}
	handler.GetByReference(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newCardTestContext("GET", "/transactions/missing", "")
	c.Params = gin.Params{{Key: "reference", Value: "missing"}}
	handler.GetByReference(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newCardTestContext("GET", "/transactions/ref-1", "")
	c.Params = gin.Params{{Key: "reference", Value: "ref-1"}}
	c.Set(principalKey, &identity.Principal{UID: "user-2"})
	handler.GetByReference(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newCardTestContext("GET", "/transactions/ref-broken", "")
	c.Params = gin.Params{{Key: "reference", Value: "ref-broken"}}
	handler.GetByReference(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTransactionHandler_List(t *testing.T) {
	mockService := new(MockTransactionService)
	handler := NewTransactionHandler(mockService, logger.NewNopLogger())

	mockService.On("List", mock.Anything, mock.MatchedBy(func(q *payments.TransactionQuery) bool {
		return q.UserID == "user-1" && q.Status == payments.StatusPending && q.Limit == 5 && q.Offset == 10
	})).Return([]*payments.Transaction{{Reference: "ref-1"}}, nil)

	c, w := newCardTestContext("GET", "/transactions?userId=user-1&status=pending&limit=5&offset=10", "")
	handler.List(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ref-1")
	mockService.AssertExpectations(t)

	for _, target := range []string{
		"/transactions?limit=abc",
		"/transactions?status=bogus",
		"/transactions?createdBefore=yesterday",
		"/transactions?sortOrder=sideways",
	} {
		c, w = newCardTestContext("GET", target, "")
		handler.List(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}
