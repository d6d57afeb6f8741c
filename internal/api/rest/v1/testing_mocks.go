//go:build unit
// +build unit

package v1

import (
	"context"
	"strings"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/identity"
	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"

	"github.com/stretchr/testify/mock"
)

// MockPaymentMethodService is a mock implementation of PaymentMethodService
type MockPaymentMethodService struct {
	mock.Mock
}

func (m *MockPaymentMethodService) AddCard(ctx context.Context, reference, userID string) (*payments.PaymentMethod, error) {
	args := m.Called(ctx, reference, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodService) ListByUser(ctx context.Context, userID string) ([]*payments.PaymentMethod, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payments.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodService) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentMethodService) DeleteForUser(ctx context.Context, id int64, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockTransactionService is a mock implementation of TransactionService
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) Initialize(ctx context.Context, cmd *payments.InitializeCommand) (*payments.Transaction, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Transaction), args.Error(1)
}

func (m *MockTransactionService) ChargeSavedCard(ctx context.Context, cmd *payments.ChargeCommand) (*payments.ChargeResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.ChargeResult), args.Error(1)
}

func (m *MockTransactionService) Verify(ctx context.Context, reference string) (*payments.Transaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Transaction), args.Error(1)
}

func (m *MockTransactionService) GetByReference(ctx context.Context, reference string) (*payments.Transaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Transaction), args.Error(1)
}

func (m *MockTransactionService) List(ctx context.Context, query *payments.TransactionQuery) ([]*payments.Transaction, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payments.Transaction), args.Error(1)
}

// MockWebhookService is a mock implementation of WebhookService
type MockWebhookService struct {
	mock.Mock
}

func (m *MockWebhookService) Handle(ctx context.Context, signature string, body []byte) (*payments.WebhookEvent, error) {
	args := m.Called(ctx, signature, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.WebhookEvent), args.Error(1)
}

// StaticTokenVerifier accepts tokens of the form "uid:<uid>"
type StaticTokenVerifier struct{}

func (StaticTokenVerifier) Verify(_ context.Context, rawToken string) (*identity.Principal, error) {
	uid, ok := strings.CutPrefix(rawToken, "uid:")
	if !ok || uid == "" {
		return nil, identity.ErrInvalidToken
	}
	return &identity.Principal{UID: uid}, nil
}
