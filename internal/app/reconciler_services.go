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
)

// reconciler implements the Reconciler interface
type reconciler struct {
	gateway      payments.Gateway
	transactions payments.TransactionRepository
	recorder     *transactionRecorder
	minAge       time.Duration
	abandonAfter time.Duration
	batchSize    int
	now          func() time.Time
	logger       logger.Logger
}

// NewReconciler creates a Reconciler that settles pending transactions older
// than settings.MinAge, at most settings.BatchSize per run. A transaction that
// is still pending after settings.AbandonAfter is marked abandoned.
func NewReconciler(
	gateway payments.Gateway,
	transactions payments.TransactionRepository,
	orderStore orders.OrderStore,
	settings config.ReconcileSettings,
	currency string,
	logger logger.Logger,
) (payments.Reconciler, error) {
	if gateway == nil || transactions == nil || orderStore == nil {
		return nil, fmt.Errorf("gateway, repository and order store are required")
	}
	return &reconciler{
		gateway:      gateway,
		transactions: transactions,
		recorder: &transactionRecorder{
			transactions: transactions,
			orders:       orderStore,
			currency:     currency,
			logger:       logger,
		},
		minAge:       settings.MinAge(),
		abandonAfter: settings.AbandonAfter(),
		batchSize:    settings.BatchSize,
		now:          time.Now,
		logger:       logger,
	}, nil
}

// Reconcile verifies one batch of stale pending transactions
func (r *reconciler) Reconcile(ctx context.Context) (int, error) {
	now := r.now().UTC()
	pending, err := r.transactions.ListPending(ctx, now.Add(-r.minAge), r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending transactions: %w", err)
	}

	updated := 0
	for _, tx := range pending {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		changed, err := r.reconcileOne(ctx, tx, now)
		if err != nil {
			r.logger.Warn("Failed to reconcile transaction ", tx.Reference, ": ", err)
			continue
		}
		if changed {
			updated++
		}
	}

	if len(pending) > 0 {
		r.logger.Info("Reconciled ", len(pending), " pending transactions, ", updated, " updated")
	}
	return updated, nil
}

func (r *reconciler) reconcileOne(ctx context.Context, tx *payments.Transaction, now time.Time) (bool, error) {
	stale := r.abandonAfter > 0 && now.Sub(tx.CreatedAt) > r.abandonAfter

	verified, err := r.gateway.VerifyTransaction(ctx, tx.Reference)
	if err != nil {
		// Paystack does not know references whose checkout was never opened
		if stale && errors.Is(err, payments.ErrVerificationFailed) {
			return r.abandon(ctx, tx)
		}
		return false, err
	}

	if verified.Status == payments.StatusPending {
		if stale {
			return r.abandon(ctx, tx)
		}
		return false, nil
	}

	current, changed, err := r.recorder.applyVerified(ctx, verified, recordDefaults{Kind: tx.Kind})
	if err != nil {
		return false, err
	}
	if changed {
		r.recorder.mirrorOrder(ctx, current)
	}
	return changed, nil
}

func (r *reconciler) abandon(ctx context.Context, tx *payments.Transaction) (bool, error) {
	changed, err := tx.ApplyStatus(payments.StatusAbandoned, "Abandoned after reconciliation timeout", time.Time{})
	if err != nil || !changed {
		return false, err
	}
	if err := r.transactions.UpdateByID(ctx, tx); err != nil {
		return false, err
	}
	r.recorder.mirrorOrder(ctx, tx)
	return true, nil
}
