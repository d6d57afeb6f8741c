//go:build unit
// +build unit

package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/orders"
	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const webhookTTL = time.Hour

type webhookServiceFixture struct {
	decoder      *mockWebhookDecoder
	idempotency  *mockIdempotencyStore
	transactions *mockTransactionRepository
	methods      *mockPaymentMethodRepository
	orders       *mockOrderStore
	service      payments.WebhookService
}

func newWebhookServiceFixture(t *testing.T) *webhookServiceFixture {
	t.Helper()

	f := &webhookServiceFixture{
		decoder:      &mockWebhookDecoder{},
		idempotency:  &mockIdempotencyStore{},
		transactions: &mockTransactionRepository{},
		methods:      &mockPaymentMethodRepository{},
		orders:       &mockOrderStore{},
	}
	service, err := NewWebhookService(f.decoder, f.idempotency, webhookTTL, f.transactions, f.methods, f.orders, "NGN", logger.NewNopLogger())
	require.NoError(t, err)
	f.service = service

	t.Cleanup(func() {
		f.decoder.AssertExpectations(t)
		f.idempotency.AssertExpectations(t)
		f.transactions.AssertExpectations(t)
		f.methods.AssertExpectations(t)
		f.orders.AssertExpectations(t)
	})
	return f
}

func chargeSuccessEvent(reference string) *payments.WebhookEvent {
	return &payments.WebhookEvent{
		Event:     payments.EventChargeSuccess,
		Reference: reference,
		Transaction: &payments.VerifiedTransaction{
			Reference:       reference,
			Status:          payments.StatusSuccess,
			Amount:          1500,
			Email:           "customer@example.com",
			GatewayResponse: "Successful",
			Metadata: map[string]interface{}{
				payments.MetadataUserID:   "user-1",
				payments.MetadataOrderKey: "order-1",
			},
			Authorization: &payments.Authorization{
				Code:      "AUTH_hook",
				Last4:     "1234",
				Signature: "SIG_hook",
				Reusable:  true,
			},
		},
	}
}

func TestHandle_ChargeSuccess(t *testing.T) {
	f := newWebhookServiceFixture(t)
	ctx := context.Background()
	body := []byte(`{"event":"charge.success"}`)
	event := chargeSuccessEvent("ref-1")

	f.decoder.On("DecodeWebhook", body, "sig").Return(event, nil)
	f.idempotency.On("Claim", ctx, "paystack:webhook:charge.success:ref-1", webhookTTL).Return(true, nil)
	f.transactions.On("GetByReference", ctx, "ref-1").Return(nil, payments.ErrNotFound)
	f.transactions.On("Create", ctx, mock.MatchedBy(func(tx *payments.Transaction) bool {
		return tx.Status == payments.StatusSuccess && tx.OrderKey == "order-1" && tx.UserID == "user-1"
	})).Return(nil)
	f.methods.On("FindByUserAndSignature", ctx, "user-1", "SIG_hook").Return(nil, payments.ErrNotFound)
	f.methods.On("Create", ctx, mock.MatchedBy(func(pm *payments.PaymentMethod) bool {
		return pm.Token == "AUTH_hook" && pm.UserID == "user-1"
	})).Return(nil)
	f.orders.On("UpdatePayment", ctx, mock.MatchedBy(func(u *orders.OrderPaymentUpdate) bool {
		return u.OrderKey == "order-1" && u.Status == "success"
	})).Return(nil)

	got, err := f.service.Handle(ctx, "sig", body)
	require.NoError(t, err)
	assert.True(t, got.Handled)
}

func TestHandle_DuplicateDelivery(t *testing.T) {
	f := newWebhookServiceFixture(t)
	ctx := context.Background()
	body := []byte(`{}`)

	f.decoder.On("DecodeWebhook", body, "sig").Return(chargeSuccessEvent("ref-1"), nil)
	f.idempotency.On("Claim", ctx, "paystack:webhook:charge.success:ref-1", webhookTTL).Return(false, nil)

	got, err := f.service.Handle(ctx, "sig", body)
	assert.ErrorIs(t, err, payments.ErrDuplicateEvent)
	assert.False(t, got.Handled)
}

func TestHandle_InvalidSignature(t *testing.T) {
	f := newWebhookServiceFixture(t)
	ctx := context.Background()
	body := []byte(`{}`)

	f.decoder.On("DecodeWebhook", body, "forged").Return(nil, payments.ErrInvalidSignature)

	_, err := f.service.Handle(ctx, "forged", body)
	assert.ErrorIs(t, err, payments.ErrInvalidSignature)
}

func TestHandle_ReleasesClaimOnFailure(t *testing.T) {
	f := newWebhookServiceFixture(t)
	ctx := context.Background()
	body := []byte(`{}`)
	key := "paystack:webhook:charge.success:ref-9"

	f.decoder.On("DecodeWebhook", body, "sig").Return(chargeSuccessEvent("ref-9"), nil)
	f.idempotency.On("Claim", ctx, key, webhookTTL).Return(true, nil)
	f.transactions.On("GetByReference", ctx, "ref-9").Return(nil, errors.New("db down"))
	f.idempotency.On("Release", ctx, key).Return(nil)

	_, err := f.service.Handle(ctx, "sig", body)
	assert.Error(t, err)
}

func TestHandle_ClaimError(t *testing.T) {
	f := newWebhookServiceFixture(t)
	ctx := context.Background()
	body := []byte(`{}`)

	f.decoder.On("DecodeWebhook", body, "sig").Return(chargeSuccessEvent("ref-1"), nil)
	f.idempotency.On("Claim", ctx, mock.Anything, webhookTTL).Return(false, errors.New("redis down"))

	_, err := f.service.Handle(ctx, "sig", body)
	assert.ErrorContains(t, err, "redis down")
}

func TestHandle_ChargeSuccessOnSettledTransaction(t *testing.T) {
	f := newWebhookServiceFixture(t)
	ctx := context.Background()
	body := []byte(`{}`)

	f.decoder.On("DecodeWebhook", body, "sig").Return(chargeSuccessEvent("ref-2"), nil)
	f.idempotency.On("Claim", ctx, mock.Anything, webhookTTL).Return(true, nil)
	f.transactions.On("GetByReference", ctx, "ref-2").Return(&payments.Transaction{Reference: "ref-2", Status: payments.StatusReversed}, nil)

	got, err := f.service.Handle(ctx, "sig", body)
	require.NoError(t, err)
	assert.False(t, got.Handled)
}

func TestHandle_LateChargeSuccessRevivesAbandonedTransaction(t *testing.T) {
	f := newWebhookServiceFixture(t)
	ctx := context.Background()
	body := []byte(`{}`)
	stored := &payments.Transaction{
		ID:        "tx-3",
		Reference: "ref-3",
		UserID:    "user-1",
		OrderKey:  "order-1",
		Amount:    1500,
		Status:    payments.StatusAbandoned,
	}

	f.decoder.On("DecodeWebhook", body, "sig").Return(chargeSuccessEvent("ref-3"), nil)
	f.idempotency.On("Claim", ctx, "paystack:webhook:charge.success:ref-3", webhookTTL).Return(true, nil)
	f.transactions.On("GetByReference", ctx, "ref-3").Return(stored, nil)
	f.transactions.On("UpdateByID", ctx, mock.MatchedBy(func(tx *payments.Transaction) bool {
		return tx.ID == "tx-3" && tx.Status == payments.StatusSuccess
	})).Return(nil)
	f.methods.On("FindByUserAndSignature", ctx, "user-1", "SIG_hook").Return(nil, payments.ErrNotFound)
	f.methods.On("Create", ctx, mock.MatchedBy(func(pm *payments.PaymentMethod) bool {
		return pm.Token == "AUTH_hook" && pm.UserID == "user-1"
	})).Return(nil)
	f.orders.On("UpdatePayment", ctx, mock.MatchedBy(func(u *orders.OrderPaymentUpdate) bool {
		return u.OrderKey == "order-1" && u.Status == "success"
	})).Return(nil)

	got, err := f.service.Handle(ctx, "sig", body)
	require.NoError(t, err)
	assert.True(t, got.Handled)
	assert.Equal(t, payments.StatusSuccess, stored.Status)
	assert.NotNil(t, stored.PaidAt)
}

func TestHandle_RefundProcessed(t *testing.T) {
	ctx := context.Background()
	body := []byte(`{}`)
	refund := func() *payments.WebhookEvent {
		return &payments.WebhookEvent{Event: payments.EventRefundProcessed, Reference: "ref-5"}
	}

	t.Run("known transaction", func(t *testing.T) {
		f := newWebhookServiceFixture(t)
		paid := time.Now().UTC()
		stored := &payments.Transaction{Reference: "ref-5", Status: payments.StatusSuccess, OrderKey: "order-5", PaidAt: &paid}

		f.decoder.On("DecodeWebhook", body, "sig").Return(refund(), nil)
		f.idempotency.On("Claim", ctx, "paystack:webhook:refund.processed:ref-5", webhookTTL).Return(true, nil)
		f.transactions.On("GetByReference", ctx, "ref-5").Return(stored, nil)
		f.transactions.On("UpdateByID", ctx, mock.MatchedBy(func(tx *payments.Transaction) bool {
			return tx.Status == payments.StatusReversed
		})).Return(nil)
		f.orders.On("UpdatePayment", ctx, mock.MatchedBy(func(u *orders.OrderPaymentUpdate) bool {
			return u.Status == "reversed"
		})).Return(nil)

		got, err := f.service.Handle(ctx, "sig", body)
		require.NoError(t, err)
		assert.True(t, got.Handled)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		f := newWebhookServiceFixture(t)

		f.decoder.On("DecodeWebhook", body, "sig").Return(refund(), nil)
		f.idempotency.On("Claim", ctx, mock.Anything, webhookTTL).Return(true, nil)
		f.transactions.On("GetByReference", ctx, "ref-5").Return(nil, payments.ErrNotFound)

		got, err := f.service.Handle(ctx, "sig", body)
		require.NoError(t, err)
		assert.False(t, got.Handled)
	})
}

func TestHandle_UnhandledEventIsAcknowledged(t *testing.T) {
	f := newWebhookServiceFixture(t)
	ctx := context.Background()
	body := []byte(`{}`)

	f.decoder.On("DecodeWebhook", body, "sig").Return(&payments.WebhookEvent{Event: "transfer.success", Reference: "TRF_1"}, nil)
	f.idempotency.On("Claim", ctx, mock.Anything, webhookTTL).Return(true, nil)

	got, err := f.service.Handle(ctx, "sig", body)
	require.NoError(t, err)
	assert.False(t, got.Handled)
}
