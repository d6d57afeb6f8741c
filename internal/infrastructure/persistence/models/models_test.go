//go:build unit
// +build unit

package models

import (
	"testing"
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestPaymentMethodModel_RoundTrip(t *testing.T) {
	pm := &payments.PaymentMethod{
		ID:               7,
		UserID:           "user-1",
		Token:            "AUTH_abc",
		MaskedCardNumber: "****-****-****-4081",
		CardType:         "visa",
		Bank:             "TEST BANK",
		Brand:            "visa",
		ExpMonth:         "12",
		ExpYear:          "2030",
		Signature:        "SIG_1",
		Reusable:         true,
		CreatedAt:        time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
	}

	model := &PaymentMethodModel{}
	model.FromDomain(pm)

	assert.Equal(t, "payment_methods", model.TableName())
	if diff := cmp.Diff(pm, model.ToDomain()); diff != "" {
		t.Errorf("payment method mismatch (-want +got):\n%s", diff)
	}
}

func TestTransactionModel_RoundTrip(t *testing.T) {
	paid := time.Date(2024, 5, 1, 8, 1, 0, 0, time.UTC)
	tx := &payments.Transaction{
		ID:              "3b241101-e2bb-4255-8caf-4136c566a962",
		Reference:       "ref-1",
		UserID:          "user-1",
		Email:           "customer@example.com",
		Amount:          10000,
		Currency:        "NGN",
		Status:          payments.StatusSuccess,
		Kind:            payments.KindChargeAuthorization,
		GatewayResponse: "Approved",
		OrderKey:        "-Norder",
		CreatedAt:       paid.Add(-time.Minute),
		UpdatedAt:       paid,
		PaidAt:          &paid,
	}

	model := &TransactionModel{}
	model.FromDomain(tx)

	assert.Equal(t, "transactions", model.TableName())
	assert.Equal(t, "success", model.Status)
	if diff := cmp.Diff(tx, model.ToDomain()); diff != "" {
		t.Errorf("transaction mismatch (-want +got):\n%s", diff)
	}
}
