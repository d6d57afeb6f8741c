package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/orders"
	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"

	"github.com/google/uuid"
)

const maxGatewayResponse = 255

// recordDefaults fill fields of a transaction first seen through verification
type recordDefaults struct {
	UserID   string
	OrderKey string
	Kind     payments.TransactionKind
}

// transactionRecorder applies gateway observations to stored transactions and
// mirrors the outcome onto Firebase orders.
type transactionRecorder struct {
	transactions payments.TransactionRepository
	orders       orders.OrderStore
	currency     string
	logger       logger.Logger
}

// applyVerified moves the stored transaction to the verified status, creating
// it when the reference is unknown. It reports whether anything changed.
func (r *transactionRecorder) applyVerified(ctx context.Context, v *payments.VerifiedTransaction, defaults recordDefaults) (*payments.Transaction, bool, error) {
	tx, err := r.transactions.GetByReference(ctx, v.Reference)
	if err != nil && !errors.Is(err, payments.ErrNotFound) {
		return nil, false, err
	}

	if tx == nil {
		tx = r.newFromVerified(v, defaults)
		if _, err := tx.ApplyStatus(v.Status, truncate(v.GatewayResponse), v.PaidAt); err != nil {
			return nil, false, err
		}
		if err := r.transactions.Create(ctx, tx); err != nil {
			return nil, false, fmt.Errorf("failed to record transaction %s: %w", v.Reference, err)
		}
		return tx, true, nil
	}

	changed, err := tx.ApplyStatus(v.Status, truncate(v.GatewayResponse), v.PaidAt)
	if err != nil {
		return tx, false, err
	}
	if tx.OrderKey == "" && defaults.OrderKey != "" {
		tx.OrderKey = defaults.OrderKey
		changed = true
	}
	if !changed {
		return tx, false, nil
	}
	if err := r.transactions.UpdateByID(ctx, tx); err != nil {
		return nil, false, fmt.Errorf("failed to update transaction %s: %w", tx.Reference, err)
	}
	return tx, true, nil
}

func (r *transactionRecorder) newFromVerified(v *payments.VerifiedTransaction, defaults recordDefaults) *payments.Transaction {
	now := time.Now().UTC()
	tx := &payments.Transaction{
		ID:        uuid.NewString(),
		Reference: v.Reference,
		UserID:    firstNonEmpty(defaults.UserID, payments.MetadataString(v.Metadata, payments.MetadataUserID)),
		Email:     v.Email,
		Amount:    v.Amount,
		Currency:  firstNonEmpty(v.Currency, r.currency),
		Status:    payments.StatusPending,
		Kind:      defaults.Kind,
		OrderKey:  firstNonEmpty(defaults.OrderKey, payments.MetadataString(v.Metadata, payments.MetadataOrderKey)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if tx.Kind == "" {
		tx.Kind = payments.KindInitialize
	}
	if v.Authorization != nil {
		tx.AuthorizationCode = v.Authorization.Code
	}
	return tx
}

// mirrorOrder writes the transaction outcome onto its Firebase order. Failures
// are logged; the payment itself is already settled with Paystack.
func (r *transactionRecorder) mirrorOrder(ctx context.Context, tx *payments.Transaction) {
	if tx.OrderKey == "" {
		return
	}
	err := r.orders.UpdatePayment(ctx, &orders.OrderPaymentUpdate{
		OrderKey:        tx.OrderKey,
		Status:          string(tx.Status),
		Reference:       tx.Reference,
		GatewayResponse: tx.GatewayResponse,
		Amount:          tx.Amount,
		PaidAt:          tx.PaidAt,
	})
	if err != nil {
		r.logger.Error("Failed to update order ", tx.OrderKey, " for transaction ", tx.Reference, ": ", err)
	}
}

// cardSaver upserts reusable card authorizations
type cardSaver struct {
	methods payments.PaymentMethodRepository
	logger  logger.Logger
}

// save stores auth for userID. A card with the same signature replaces the
// user's existing record instead of adding a duplicate. Concurrent saves of one
// card are resolved by the unique (user_id, signature) index: the loser of the
// insert refreshes the winner's row.
func (s *cardSaver) save(ctx context.Context, userID string, auth *payments.Authorization) (*payments.PaymentMethod, error) {
	pm := payments.NewPaymentMethod(userID, auth)

	if auth.Signature != "" {
		refreshed, err := s.refresh(ctx, pm)
		if err == nil {
			return refreshed, nil
		}
		if !errors.Is(err, payments.ErrNotFound) {
			return nil, err
		}
	}

	err := s.methods.Create(ctx, pm)
	if errors.Is(err, payments.ErrConflict) && auth.Signature != "" {
		return s.refresh(ctx, pm)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save payment method: %w", err)
	}
	s.logger.Info("Saved card ", payments.MaskSecret(pm.Token), " for user ", userID)
	return pm, nil
}

// refresh overwrites the stored card matching pm's user and signature. It
// returns ErrNotFound when there is none.
func (s *cardSaver) refresh(ctx context.Context, pm *payments.PaymentMethod) (*payments.PaymentMethod, error) {
	existing, err := s.methods.FindByUserAndSignature(ctx, pm.UserID, pm.Signature)
	if err != nil {
		return nil, err
	}

	pm.ID = existing.ID
	pm.CreatedAt = existing.CreatedAt
	if err := s.methods.UpdateByID(ctx, pm); err != nil {
		return nil, fmt.Errorf("failed to refresh payment method: %w", err)
	}
	s.logger.Info("Refreshed saved card ", pm.ID, " for user ", pm.UserID)
	return pm, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func truncate(s string) string {
	if len(s) > maxGatewayResponse {
		return s[:maxGatewayResponse]
	}
	return s
}
