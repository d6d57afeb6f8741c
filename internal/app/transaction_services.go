package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/orders"
	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/config"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/validators"

	"github.com/google/uuid"
)

// transactionService implements the TransactionService interface
type transactionService struct {
	gateway      payments.Gateway
	transactions payments.TransactionRepository
	methods      payments.PaymentMethodRepository
	recorder     *transactionRecorder
	callbackURL  string
	currency     string
	logger       logger.Logger
}

// NewTransactionService creates a new instance of TransactionService
func NewTransactionService(
	gateway payments.Gateway,
	transactions payments.TransactionRepository,
	methods payments.PaymentMethodRepository,
	orderStore orders.OrderStore,
	settings config.PaystackSettings,
	logger logger.Logger,
) (payments.TransactionService, error) {
	if gateway == nil || transactions == nil || methods == nil || orderStore == nil {
		return nil, fmt.Errorf("gateway, repositories and order store are required")
	}
	return &transactionService{
		gateway:      gateway,
		transactions: transactions,
		methods:      methods,
		recorder: &transactionRecorder{
			transactions: transactions,
			orders:       orderStore,
			currency:     settings.Currency,
			logger:       logger,
		},
		callbackURL: settings.CallbackURL,
		currency:    settings.Currency,
		logger:      logger,
	}, nil
}

// Initialize creates a Paystack checkout and records it as pending
func (s *transactionService) Initialize(ctx context.Context, cmd *payments.InitializeCommand) (*payments.Transaction, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", payments.ErrInvalidInput, err)
	}

	reference := cmd.Reference
	if reference == "" {
		reference = uuid.NewString()
	}

	metadata := make(map[string]interface{}, len(cmd.Metadata)+2)
	for k, v := range cmd.Metadata {
		metadata[k] = v
	}
	if cmd.UserID != "" {
		metadata[payments.MetadataUserID] = cmd.UserID
	}
	if cmd.OrderKey != "" {
		metadata[payments.MetadataOrderKey] = cmd.OrderKey
	}

	result, err := s.gateway.InitializeTransaction(ctx, &payments.InitializeRequest{
		Email:       cmd.Email,
		Amount:      cmd.Amount,
		Currency:    s.currency,
		Reference:   reference,
		CallbackURL: firstNonEmpty(cmd.CallbackURL, s.callbackURL),
		Metadata:    metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Paystack transaction: %w", err)
	}

	now := time.Now().UTC()
	tx := &payments.Transaction{
		ID:               uuid.NewString(),
		Reference:        firstNonEmpty(result.Reference, reference),
		UserID:           cmd.UserID,
		Email:            cmd.Email,
		Amount:           cmd.Amount,
		Currency:         s.currency,
		Status:           payments.StatusPending,
		Kind:             payments.KindInitialize,
		AccessCode:       result.AccessCode,
		AuthorizationURL: result.AuthorizationURL,
		OrderKey:         cmd.OrderKey,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	s.logger.Info("Initialized transaction ", tx.Reference, " for ", tx.Amount, " ", tx.Currency)
	return tx, nil
}

// ChargeSavedCard charges a saved card and records the outcome
func (s *transactionService) ChargeSavedCard(ctx context.Context, cmd *payments.ChargeCommand) (*payments.ChargeResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", payments.ErrInvalidInput, err)
	}

	authorizationCode := cmd.AuthorizationCode
	if cmd.PaymentMethodID > 0 {
		pm, err := s.methods.GetByID(ctx, cmd.PaymentMethodID)
		if err != nil {
			return nil, err
		}
		if cmd.UserID != "" && pm.UserID != cmd.UserID {
			return nil, fmt.Errorf("%w: card %d does not belong to user %s", payments.ErrForbidden, pm.ID, cmd.UserID)
		}
		authorizationCode = pm.Token
	} else if cmd.UserID != "" {
		if _, err := s.methods.FindByUserAndToken(ctx, cmd.UserID, authorizationCode); err != nil {
			if errors.Is(err, payments.ErrNotFound) {
				return nil, fmt.Errorf("%w: authorization code is not saved for user %s", payments.ErrForbidden, cmd.UserID)
			}
			return nil, err
		}
	}

	reference := cmd.Reference
	if reference == "" {
		reference = uuid.NewString()
	}

	metadata := map[string]interface{}{}
	if cmd.UserID != "" {
		metadata[payments.MetadataUserID] = cmd.UserID
	}
	if cmd.OrderKey != "" {
		metadata[payments.MetadataOrderKey] = cmd.OrderKey
	}

	result, err := s.gateway.ChargeAuthorization(ctx, &payments.ChargeRequest{
		Email:             cmd.Email,
		Amount:            cmd.Amount,
		Currency:          s.currency,
		AuthorizationCode: authorizationCode,
		Reference:         reference,
		Metadata:          metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to charge saved card: %w", err)
	}
	if result.Reference == "" {
		result.Reference = reference
	}

	now := time.Now().UTC()
	tx := &payments.Transaction{
		ID:                uuid.NewString(),
		Reference:         result.Reference,
		UserID:            cmd.UserID,
		Email:             cmd.Email,
		Amount:            cmd.Amount,
		Currency:          s.currency,
		Status:            payments.StatusPending,
		Kind:              payments.KindChargeAuthorization,
		AuthorizationCode: authorizationCode,
		OrderKey:          cmd.OrderKey,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if _, err := tx.ApplyStatus(result.Status, truncate(firstNonEmpty(result.GatewayResponse, result.Message)), now); err != nil {
		return nil, err
	}

	// Paystack has already processed the charge; persisting or mirroring failures must not hide its result.
	if err := s.transactions.Create(ctx, tx); err != nil {
		s.logger.Error("Failed to record charge ", tx.Reference, ": ", err)
	}
	s.recorder.mirrorOrder(ctx, tx)

	s.logger.Info("Charged saved card for transaction ", tx.Reference, " with status ", tx.Status)
	return result, nil
}

// Verify refreshes a transaction from Paystack
func (s *transactionService) Verify(ctx context.Context, reference string) (*payments.Transaction, error) {
	if !validators.IsValidReference(reference) {
		return nil, fmt.Errorf("%w: invalid reference %q", payments.ErrInvalidInput, reference)
	}

	verified, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to verify Paystack transaction: %w", err)
	}

	tx, changed, err := s.recorder.applyVerified(ctx, verified, recordDefaults{Kind: payments.KindInitialize})
	if err != nil {
		return nil, err
	}
	if changed {
		s.recorder.mirrorOrder(ctx, tx)
	}
	return tx, nil
}

// GetByReference returns a recorded transaction
func (s *transactionService) GetByReference(ctx context.Context, reference string) (*payments.Transaction, error) {
	return s.transactions.GetByReference(ctx, reference)
}

// List returns recorded transactions matching query
func (s *transactionService) List(ctx context.Context, query *payments.TransactionQuery) ([]*payments.Transaction, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", payments.ErrInvalidInput, err)
	}
	return s.transactions.List(ctx, query)
}
