package payments

// Paystack webhook event names handled by the backend
const (
	EventChargeSuccess   = "charge.success"
	EventRefundProcessed = "refund.processed"
)

// WebhookEvent is an authenticated Paystack webhook delivery
type WebhookEvent struct {
	Event     string
	Reference string
	// Transaction is the event's data object read as a transaction
	Transaction *VerifiedTransaction
	Data        []byte
	// Handled is set once the event has been applied to local state
	Handled bool
}

// IdempotencyKey identifies the delivery for duplicate suppression
func (e *WebhookEvent) IdempotencyKey() string {
	return "paystack:webhook:" + e.Event + ":" + e.Reference
}
