//go:build unit
// +build unit

package v1

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/identity"
	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCardTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func TestCardHandler_AddCard_Success(t *testing.T) {
	mockService := new(MockPaymentMethodService)
	handler := NewCardHandler(mockService, logger.NewNopLogger())

	mockService.On("AddCard", mock.Anything, "ref-1", "user-1").Return(&payments.PaymentMethod{ID: 1}, nil)

	c, w := newCardTestContext("POST", "/add-card", `{"reference":"ref-1","userId":"user-1"}`)
	handler.AddCard(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Payment reference processed successfully"}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestCardHandler_AddCard_MissingFields(t *testing.T) {
	handler := NewCardHandler(new(MockPaymentMethodService), logger.NewNopLogger())

	for _, body := range []string{`{"reference":"ref-1"}`, `{"userId":"user-1"}`, `not json`} {
		c, w := newCardTestContext("POST", "/add-card", body)
		handler.AddCard(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Invalid request: Missing reference or userId"}`, w.Body.String())
	}
}

func TestCardHandler_AddCard_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"verification failed", fmt.Errorf("%w: abandoned", payments.ErrVerificationFailed), http.StatusInternalServerError},
		{"authorization missing", payments.ErrAuthorizationMissing, http.StatusInternalServerError},
		{"gateway down", fmt.Errorf("verify: %w", payments.ErrGateway), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockPaymentMethodService)
			handler := NewCardHandler(mockService, logger.NewNopLogger())
			mockService.On("AddCard", mock.Anything, "ref-1", "user-1").Return(nil, tt.err)

			c, w := newCardTestContext("POST", "/add-card", `{"reference":"ref-1","userId":"user-1"}`)
			handler.AddCard(c)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), "Error processing payment reference: ")
		})
	}
}

func TestCardHandler_AddCard_OtherUserForbidden(t *testing.T) {
	handler := NewCardHandler(new(MockPaymentMethodService), logger.NewNopLogger())

	c, w := newCardTestContext("POST", "/add-card", `{"reference":"ref-1","userId":"user-2"}`)
	c.Set(principalKey, &identity.Principal{UID: "user-1"})
	handler.AddCard(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCardHandler_ListByUser(t *testing.T) {
	mockService := new(MockPaymentMethodService)
	handler := NewCardHandler(mockService, logger.NewNopLogger())

	card := &payments.PaymentMethod{
		ID:               7,
		UserID:           "user-1",
		Token:            "AUTH_abc",
		MaskedCardNumber: "****-****-****-4081",
		CardType:         "visa",
		CreatedAt:        time.Now(),
	}
	mockService.On("ListByUser", mock.Anything, "user-1").Return([]*payments.PaymentMethod{card}, nil)
	mockService.On("ListByUser", mock.Anything, "user-2").Return([]*payments.PaymentMethod{}, nil)
	mockService.On("ListByUser", mock.Anything, "user-3").Return(nil, errors.New("db down"))

	c, w := newCardTestContext("GET", "/cards/user-1", "")
	c.Params = gin.Params{{Key: "userId", Value: "user-1"}}
	handler.ListByUser(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"maskedCardNumber":"****-****-****-4081"`)
	assert.Contains(t, w.Body.String(), `"token":"AUTH_abc"`)

	c, w = newCardTestContext("GET", "/cards/user-2", "")
	c.Params = gin.Params{{Key: "userId", Value: "user-2"}}
	handler.ListByUser(c)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	c, w = newCardTestContext("GET", "/cards/user-3", "")
	c.Params = gin.Params{{Key: "userId", Value: "user-3"}}
	handler.ListByUser(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCardHandler_DeleteByID(t *testing.T) {
	mockService := new(MockPaymentMethodService)
	handler := NewCardHandler(mockService, logger.NewNopLogger())

	mockService.On("DeleteByID", mock.Anything, int64(1)).Return(nil)
	mockService.On("DeleteByID", mock.Anything, int64(2)).Return(payments.ErrNotFound)
	mockService.On("DeleteByID", mock.Anything, int64(3)).Return(errors.New("db down"))

	tests := []struct {
		id     string
		status int
	}{
		{"1", http.StatusOK},
		{"2", http.StatusNotFound},
		{"3", http.StatusInternalServerError},
		{"abc", http.StatusBadRequest},
		{"0", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			c, w := newCardTestContext("DELETE", "/cards/"+tt.id, "")
			c.Params = gin.Params{{Key: "id", Value: tt.id}}
			handler.DeleteByID(c)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestCardHandler_DeleteByID_Authenticated(t *testing.T) {
	mockService := new(MockPaymentMethodService)
	handler := NewCardHandler(mockService, logger.NewNopLogger())

	mockService.On("DeleteForUser", mock.Anything, int64(5), "user-1").Return(payments.ErrForbidden)

	c, w := newCardTestContext("DELETE", "/cards/5", "")
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	c.Set(principalKey, &identity.Principal{UID: "user-1"})
	handler.DeleteByID(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockService.AssertExpectations(t)
}
