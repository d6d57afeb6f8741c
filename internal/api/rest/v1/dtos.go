package v1

import (
	"errors"
	"fmt"
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/validators"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Message string `json:"error"`
}

// MessageResponse is the body of requests that only report an outcome
type MessageResponse struct {
	Message string `json:"message"`
}

// AddCardRequest carries the reference of the card verification charge
type AddCardRequest struct {
	Reference string `json:"reference"`
	UserID    string `json:"userId"`
}

// PaymentMethodResponse is a saved card as the Android client reads it
type PaymentMethodResponse struct {
	ID               int64     `json:"id"`
	UserID           string    `json:"userId"`
	Token            string    `json:"token"`
	MaskedCardNumber string    `json:"maskedCardNumber"`
	CardType         string    `json:"cardType"`
	Bank             string    `json:"bank,omitempty"`
	Brand            string    `json:"brand,omitempty"`
	ExpMonth         string    `json:"expMonth,omitempty"`
	ExpYear          string    `json:"expYear,omitempty"`
	Reusable         bool      `json:"reusable"`
	CreatedAt        time.Time `json:"createdAt"`
}

// PaymentInitializationRequest starts a hosted checkout
type PaymentInitializationRequest struct {
	Amount           int64                  `json:"amount" validate:"required,gt=0"`
	Email            string                 `json:"email" validate:"required,email"`
	Reference        string                 `json:"reference" validate:"omitempty,reference"`
	CallbackURL      string                 `json:"callbackUrl" validate:"omitempty,url"`
	Metadata         map[string]interface{} `json:"metadata"`
	UserID           string                 `json:"userId" validate:"max=128"`
	OrderFirebaseKey string                 `json:"orderFirebaseKey" validate:"max=255"`
}

// Validate for validating PaymentInitializationRequest struct
func (r *PaymentInitializationRequest) Validate() error {
	return validateRequest(r)
}

// PaymentInitializationResponse returns the checkout handles
type PaymentInitializationResponse struct {
	Status           bool   `json:"status"`
	Message          string `json:"message"`
	AccessCode       string `json:"accessCode"`
	AuthorizationURL string `json:"authorizationUrl"`
	Reference        string `json:"reference"`
}

// ChargeSavedCardRequest charges a saved card identified either by its
// authorization code or by the id of the stored payment method
type ChargeSavedCardRequest struct {
	Amount               int64  `json:"amount" validate:"required,gt=0"`
	Email                string `json:"email" validate:"required,email"`
	AuthorizationCode    string `json:"authorizationCode" validate:"required_without=PaymentMethodID,excluded_with=PaymentMethodID"`
	PaymentMethodID      int64  `json:"paymentMethodId" validate:"gte=0"`
	TransactionReference string `json:"transactionReference" validate:"omitempty,reference"`
	OrderFirebaseKey     string `json:"orderFirebaseKey" validate:"max=255"`
	UserID               string `json:"userId" validate:"max=128"`
}

// Validate for validating ChargeSavedCardRequest struct
func (r *ChargeSavedCardRequest) Validate() error {
	return validateRequest(r)
}

// ChargeResponse reports the outcome of a saved card charge
type ChargeResponse struct {
	Status               bool   `json:"status"`
	Message              string `json:"message"`
	GatewayResponse      string `json:"gatewayResponse"`
	TransactionReference string `json:"transactionReference"`
}

// TransactionResponse is a recorded Paystack transaction
type TransactionResponse struct {
	ID               string     `json:"id"`
	Reference        string     `json:"reference"`
	UserID           string     `json:"userId,omitempty"`
	Email            string     `json:"email"`
	Amount           int64      `json:"amount"`
	Currency         string     `json:"currency"`
	Status           string     `json:"status"`
	Kind             string     `json:"kind"`
	GatewayResponse  string     `json:"gatewayResponse,omitempty"`
	AccessCode       string     `json:"accessCode,omitempty"`
	AuthorizationURL string     `json:"authorizationUrl,omitempty"`
	OrderFirebaseKey string     `json:"orderFirebaseKey,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`
}

// HealthResponse reports liveness or readiness
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func newPaymentMethodResponse(pm *payments.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{
		ID:               pm.ID,
		UserID:           pm.UserID,
		Token:            pm.Token,
		MaskedCardNumber: pm.MaskedCardNumber,
		CardType:         pm.CardType,
		Bank:             pm.Bank,
		Brand:            pm.Brand,
		ExpMonth:         pm.ExpMonth,
		ExpYear:          pm.ExpYear,
		Reusable:         pm.Reusable,
		CreatedAt:        pm.CreatedAt,
	}
}

func newTransactionResponse(tx *payments.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:               tx.ID,
		Reference:        tx.Reference,
		UserID:           tx.UserID,
		Email:            tx.Email,
		Amount:           tx.Amount,
		Currency:         tx.Currency,
		Status:           string(tx.Status),
		Kind:             string(tx.Kind),
		GatewayResponse:  tx.GatewayResponse,
		AccessCode:       tx.AccessCode,
		AuthorizationURL: tx.AuthorizationURL,
		OrderFirebaseKey: tx.OrderKey,
		CreatedAt:        tx.CreatedAt,
		UpdatedAt:        tx.UpdatedAt,
		PaidAt:           tx.PaidAt,
	}
}

func validateRequest(s interface{}) error {
	err := validators.New().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, fieldErr := range validationErrors {
			messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
		}
		return fmt.Errorf("validation failed: %v", messages)
	}
	return fmt.Errorf("validation error: %w", err)
}
