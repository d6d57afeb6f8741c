// Package orders describes the food orders kept in the Firebase Realtime
// Database whose payment state the backend mirrors.
package orders

import (
	"context"
	"errors"
	"time"
)

// ErrMissingOrderKey is returned when an update names no order
var ErrMissingOrderKey = errors.New("order key is required")

// OrderPaymentUpdate is the payment outcome written onto an order
type OrderPaymentUpdate struct {
	OrderKey        string
	Status          string
	Reference       string
	GatewayResponse string
	Amount          int64
	PaidAt          *time.Time
}

// Fields renders the update as the child values stored under the order node.
// paidAt is written in epoch milliseconds the way the mobile client reads it.
func (u *OrderPaymentUpdate) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"paymentStatus":    u.Status,
		"paymentReference": u.Reference,
		"gatewayResponse":  u.GatewayResponse,
		"amountPaid":       u.Amount,
	}
	if u.PaidAt != nil {
		fields["paidAt"] = u.PaidAt.UnixMilli()
	}
	return fields
}

// OrderStore updates orders with payment outcomes
type OrderStore interface {
	// UpdatePayment merges the payment fields into the order identified by update.OrderKey.
	UpdatePayment(ctx context.Context, update *OrderPaymentUpdate) error
}
