package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/orders"
	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"
)

// webhookService implements the WebhookService interface
type webhookService struct {
	decoder      payments.WebhookDecoder
	idempotency  payments.IdempotencyStore
	ttl          time.Duration
	transactions payments.TransactionRepository
	recorder     *transactionRecorder
	cards        *cardSaver
	logger       logger.Logger
}

// NewWebhookService creates a new instance of WebhookService. Claims on
// processed deliveries are kept for ttl.
func NewWebhookService(
	decoder payments.WebhookDecoder,
	idempotency payments.IdempotencyStore,
	ttl time.Duration,
	transactions payments.TransactionRepository,
	methods payments.PaymentMethodRepository,
	orderStore orders.OrderStore,
	currency string,
	logger logger.Logger,
) (payments.WebhookService, error) {
	if decoder == nil || idempotency == nil || transactions == nil || methods == nil || orderStore == nil {
		return nil, fmt.Errorf("decoder, idempotency store, repositories and order store are required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &webhookService{
		decoder:      decoder,
		idempotency:  idempotency,
		ttl:          ttl,
		transactions: transactions,
		recorder: &transactionRecorder{
			transactions: transactions,
			orders:       orderStore,
			currency:     currency,
			logger:       logger,
		},
		cards:  &cardSaver{methods: methods, logger: logger},
		logger: logger,
	}, nil
}

// Handle authenticates a delivery, suppresses replays and applies the event
func (s *webhookService) Handle(ctx context.Context, signature string, body []byte) (*payments.WebhookEvent, error) {
	event, err := s.decoder.DecodeWebhook(body, signature)
	if err != nil {
		return nil, err
	}

	key := event.IdempotencyKey()
	claimed, err := s.idempotency.Claim(ctx, key, s.ttl)
	if err != nil {
		return event, fmt.Errorf("failed to claim webhook %s: %w", key, err)
	}
	if !claimed {
		s.logger.Info("Ignoring duplicate webhook ", event.Event, " for ", event.Reference)
		return event, payments.ErrDuplicateEvent
	}

	if err := s.apply(ctx, event); err != nil {
		// Let Paystack's retry claim the delivery again
		if releaseErr := s.idempotency.Release(ctx, key); releaseErr != nil {
			s.logger.Error("Failed to release webhook claim ", key, ": ", releaseErr)
		}
		return event, err
	}
	return event, nil
}

func (s *webhookService) apply(ctx context.Context, event *payments.WebhookEvent) error {
	switch event.Event {
	case payments.EventChargeSuccess:
		return s.applyChargeSuccess(ctx, event)
	case payments.EventRefundProcessed:
		return s.applyRefund(ctx, event)
	default:
		s.logger.Info("Acknowledging unhandled webhook event ", event.Event)
		return nil
	}
}

func (s *webhookService) applyChargeSuccess(ctx context.Context, event *payments.WebhookEvent) error {
	if event.Reference == "" || event.Transaction == nil {
		return fmt.Errorf("%w: charge.success without transaction data", payments.ErrInvalidInput)
	}

	data := event.Transaction
	data.Status = payments.StatusSuccess

	tx, changed, err := s.recorder.applyVerified(ctx, data, recordDefaults{Kind: payments.KindInitialize})
	if errors.Is(err, payments.ErrInvalidTransition) {
		s.logger.Warn("Ignoring charge.success for ", event.Reference, ": ", err)
		return nil
	}
	if err != nil {
		return err
	}

	userID := firstNonEmpty(payments.MetadataString(data.Metadata, payments.MetadataUserID), tx.UserID)
	if data.Authorization != nil && data.Authorization.Reusable && userID != "" {
		if _, err := s.cards.save(ctx, userID, data.Authorization); err != nil {
			return err
		}
	}

	if changed {
		s.recorder.mirrorOrder(ctx, tx)
	}
	event.Handled = true
	s.logger.Info("Applied charge.success for ", event.Reference)
	return nil
}

func (s *webhookService) applyRefund(ctx context.Context, event *payments.WebhookEvent) error {
	tx, err := s.transactions.GetByReference(ctx, event.Reference)
	if err != nil {
		if errors.Is(err, payments.ErrNotFound) {
			s.logger.Warn("Refund for unknown transaction ", event.Reference)
			return nil
		}
		return err
	}

	changed, err := tx.ApplyStatus(payments.StatusReversed, "", time.Time{})
	if err != nil {
		s.logger.Warn("Ignoring refund for transaction ", tx.Reference, ": ", err)
		return nil
	}
	if changed {
		if err := s.transactions.UpdateByID(ctx, tx); err != nil {
			return err
		}
		s.recorder.mirrorOrder(ctx, tx)
	}
	event.Handled = true
	s.logger.Info("Applied refund.processed for ", event.Reference)
	return nil
}
