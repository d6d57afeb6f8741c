package firebase

import (
	"context"
	"fmt"
	"strings"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/orders"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"

	firebase "firebase.google.com/go/v4"
)

// childUpdater merges values into the node at path
type childUpdater func(ctx context.Context, path string, values map[string]interface{}) error

type orderStore struct {
	update     childUpdater
	ordersPath string
	logger     logger.Logger
}

// NewOrderStore creates an OrderStore writing to ordersPath/<orderKey> in the Realtime Database
func NewOrderStore(ctx context.Context, app *firebase.App, ordersPath string, logger logger.Logger) (orders.OrderStore, error) {
	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase database client: %w", err)
	}

	update := func(ctx context.Context, path string, values map[string]interface{}) error {
		return client.NewRef(path).Update(ctx, values)
	}
	return newOrderStore(update, ordersPath, logger), nil
}

func newOrderStore(update childUpdater, ordersPath string, logger logger.Logger) *orderStore {
	return &orderStore{
		update:     update,
		ordersPath: strings.Trim(ordersPath, "/"),
		logger:     logger,
	}
}

func (s *orderStore) UpdatePayment(ctx context.Context, update *orders.OrderPaymentUpdate) error {
	key := strings.Trim(update.OrderKey, "/")
	if key == "" {
		return orders.ErrMissingOrderKey
	}
	if strings.ContainsAny(key, "/.#$[]") {
		return fmt.Errorf("invalid order key %q", update.OrderKey)
	}

	path := s.ordersPath + "/" + key
	if err := s.update(ctx, path, update.Fields()); err != nil {
		return fmt.Errorf("failed to update order %s: %w", key, err)
	}

	s.logger.Info("Updated order ", key, " with payment status ", update.Status)
	return nil
}

type noopOrderStore struct {
	logger logger.Logger
}

// NewNoopOrderStore creates an OrderStore that only logs, used when Firebase is disabled
func NewNoopOrderStore(logger logger.Logger) orders.OrderStore {
	return &noopOrderStore{logger: logger}
}

func (s *noopOrderStore) UpdatePayment(_ context.Context, update *orders.OrderPaymentUpdate) error {
	if update.OrderKey == "" {
		return orders.ErrMissingOrderKey
	}
	s.logger.Debug("Firebase disabled, skipping order update for ", update.OrderKey)
	return nil
}
