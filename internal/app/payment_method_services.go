package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/validators"
)

// paymentMethodService implements the PaymentMethodService interface for managing saved cards
type paymentMethodService struct {
	gateway  payments.Gateway
	methods  payments.PaymentMethodRepository
	cards    *cardSaver
	recorder *transactionRecorder
	logger   logger.Logger
}

// NewPaymentMethodService creates a new instance of PaymentMethodService
func NewPaymentMethodService(
	gateway payments.Gateway,
	methods payments.PaymentMethodRepository,
	transactions payments.TransactionRepository,
	currency string,
	logger logger.Logger,
) (payments.PaymentMethodService, error) {
	if gateway == nil || methods == nil || transactions == nil {
		return nil, fmt.Errorf("gateway and repositories are required")
	}
	return &paymentMethodService{
		gateway: gateway,
		methods: methods,
		cards:   &cardSaver{methods: methods, logger: logger},
		recorder: &transactionRecorder{
			transactions: transactions,
			currency:     currency,
			logger:       logger,
		},
		logger: logger,
	}, nil
}

// AddCard verifies reference with Paystack and saves the returned card authorization for userID
func (s *paymentMethodService) AddCard(ctx context.Context, reference, userID string) (*payments.PaymentMethod, error) {
	if userID == "" || !validators.IsValidReference(reference) {
		return nil, fmt.Errorf("%w: missing reference or userId", payments.ErrInvalidInput)
	}

	verified, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to verify Paystack transaction: %w", err)
	}
	if verified.Status != payments.StatusSuccess {
		return nil, fmt.Errorf("%w: transaction %s is %s", payments.ErrVerificationFailed, reference, verified.Status)
	}
	if verified.Authorization == nil {
		return nil, payments.ErrAuthorizationMissing
	}

	pm, err := s.cards.save(ctx, userID, verified.Authorization)
	if err != nil {
		return nil, err
	}

	// The card is saved either way; a missing transaction record is repaired by later verification.
	if _, _, err := s.recorder.applyVerified(ctx, verified, recordDefaults{UserID: userID, Kind: payments.KindCardVerification}); err != nil {
		s.logger.Warn("Failed to record card verification transaction ", reference, ": ", err)
	}

	return pm, nil
}

// ListByUser returns the saved cards of userID
func (s *paymentMethodService) ListByUser(ctx context.Context, userID string) ([]*payments.PaymentMethod, error) {
	list, err := s.methods.ListByUser(ctx, &payments.PaymentMethodQuery{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return list, nil
}

// DeleteByID removes a saved card
func (s *paymentMethodService) DeleteByID(ctx context.Context, id int64) error {
	if err := s.methods.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Deleted saved card ", id)
	return nil
}

// DeleteForUser removes a saved card after checking that userID owns it
func (s *paymentMethodService) DeleteForUser(ctx context.Context, id int64, userID string) error {
	pm, err := s.methods.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if pm.UserID != userID {
		return fmt.Errorf("%w: card %d does not belong to user %s", payments.ErrForbidden, id, userID)
	}
	if err := s.methods.DeleteByID(ctx, id); err != nil && !errors.Is(err, payments.ErrNotFound) {
		return err
	}
	s.logger.Info("Deleted saved card ", id, " of user ", userID)
	return nil
}
