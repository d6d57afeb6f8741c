//go:build unit
// +build unit

package app

import (
	"context"
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/orders"
	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"

	"github.com/stretchr/testify/mock"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) VerifyTransaction(ctx context.Context, reference string) (*payments.VerifiedTransaction, error) {
	args := m.Called(ctx, reference)
	if v := args.Get(0); v != nil {
		return v.(*payments.VerifiedTransaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) InitializeTransaction(ctx context.Context, req *payments.InitializeRequest) (*payments.InitializeResult, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*payments.InitializeResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) ChargeAuthorization(ctx context.Context, req *payments.ChargeRequest) (*payments.ChargeResult, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*payments.ChargeResult), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPaymentMethodRepository struct {
	mock.Mock
}

func (m *mockPaymentMethodRepository) Create(ctx context.Context, pm *payments.PaymentMethod) error {
	args := m.Called(ctx, pm)
	return args.Error(0)
}

func (m *mockPaymentMethodRepository) UpdateByID(ctx context.Context, pm *payments.PaymentMethod) error {
	args := m.Called(ctx, pm)
	return args.Error(0)
}

func (m *mockPaymentMethodRepository) GetByID(ctx context.Context, id int64) (*payments.PaymentMethod, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*payments.PaymentMethod), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPaymentMethodRepository) FindByUserAndSignature(ctx context.Context, userID, signature string) (*payments.PaymentMethod, error) {
	args := m.Called(ctx, userID, signature)
	if v := args.Get(0); v != nil {
		return v.(*payments.PaymentMethod), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPaymentMethodRepository) FindByUserAndToken(ctx context.Context, userID, token string) (*payments.PaymentMethod, error) {
	args := m.Called(ctx, userID, token)
	if v := args.Get(0); v != nil {
		return v.(*payments.PaymentMethod), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPaymentMethodRepository) ListByUser(ctx context.Context, query *payments.PaymentMethodQuery) ([]*payments.PaymentMethod, error) {
	args := m.Called(ctx, query)
	if v := args.Get(0); v != nil {
		return v.([]*payments.PaymentMethod), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPaymentMethodRepository) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockTransactionRepository struct {
	mock.Mock
}

func (m *mockTransactionRepository) Create(ctx context.Context, tx *payments.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *mockTransactionRepository) UpdateByID(ctx context.Context, tx *payments.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *mockTransactionRepository) GetByReference(ctx context.Context, reference string) (*payments.Transaction, error) {
	args := m.Called(ctx, reference)
	if v := args.Get(0); v != nil {
		return v.(*payments.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTransactionRepository) List(ctx context.Context, query *payments.TransactionQuery) ([]*payments.Transaction, error) {
	args := m.Called(ctx, query)
	if v := args.Get(0); v != nil {
		return v.([]*payments.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTransactionRepository) ListPending(ctx context.Context, createdBefore time.Time, limit int) ([]*payments.Transaction, error) {
	args := m.Called(ctx, createdBefore, limit)
	if v := args.Get(0); v != nil {
		return v.([]*payments.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockOrderStore struct {
	mock.Mock
}

func (m *mockOrderStore) UpdatePayment(ctx context.Context, update *orders.OrderPaymentUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

type mockIdempotencyStore struct {
	mock.Mock
}

func (m *mockIdempotencyStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdempotencyStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type mockWebhookDecoder struct {
	mock.Mock
}

func (m *mockWebhookDecoder) DecodeWebhook(body []byte, signature string) (*payments.WebhookEvent, error) {
	args := m.Called(body, signature)
	if v := args.Get(0); v != nil {
		return v.(*payments.WebhookEvent), args.Error(1)
	}
	return nil, args.Error(1)
}
