package payments

import (
	"fmt"
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/pkg/validators"
)

// TransactionStatus is the lifecycle state of a Paystack transaction
type TransactionStatus string

// Transaction statuses. Only pending may move to any other status; a success
// may later be reversed by a refund.
const (
	StatusPending   TransactionStatus = "pending"
	StatusSuccess   TransactionStatus = "success"
	StatusFailed    TransactionStatus = "failed"
	StatusAbandoned TransactionStatus = "abandoned"
	StatusReversed  TransactionStatus = "reversed"
)

// TransactionKind records which flow created a transaction
type TransactionKind string

// Transaction kinds
const (
	KindInitialize          TransactionKind = "initialize"
	KindChargeAuthorization TransactionKind = "charge_authorization"
	KindCardVerification    TransactionKind = "card_verification"
)

// Transaction is a Paystack transaction initiated or observed by the backend
type Transaction struct {
	ID                string            `validate:"required,uuid4"`
	Reference         string            `validate:"required,reference"`
	UserID            string            `validate:"max=128"`
	Email             string            `validate:"required,email"`
	Amount            int64             `validate:"required,gt=0"`
	Currency          string            `validate:"required,len=3"`
	Status            TransactionStatus `validate:"required,oneof=pending success failed abandoned reversed"`
	Kind              TransactionKind   `validate:"required,oneof=initialize charge_authorization card_verification"`
	GatewayResponse   string            `validate:"max=255"`
	AccessCode        string            `validate:"max=100"`
	AuthorizationURL  string            `validate:"omitempty,url"`
	AuthorizationCode string            `validate:"max=255"`
	OrderKey          string            `validate:"max=255"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	PaidAt            *time.Time
}

// Validate for validating Transaction struct
func (t *Transaction) Validate() error {
	return validateStruct(validators.New(), t)
}

// ParseStatus maps a Paystack status string onto a TransactionStatus.
// Unknown values (ongoing, processing, queued, ...) count as pending.
func ParseStatus(s string) TransactionStatus {
	switch TransactionStatus(s) {
	case StatusSuccess, StatusFailed, StatusAbandoned, StatusReversed:
		return TransactionStatus(s)
	default:
		return StatusPending
	}
}

// IsTerminal reports whether no further transition out of s is expected.
func (s TransactionStatus) IsTerminal() bool {
	return s != StatusPending && s != StatusSuccess
}

// CanTransition reports whether a transaction may move from one status to another.
// Abandoned is set locally by reconciliation, so a later gateway confirmation
// of success still wins.
func CanTransition(from, to TransactionStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusPending:
		return true
	case StatusAbandoned:
		return to == StatusSuccess
	case StatusSuccess:
		return to == StatusReversed
	default:
		return false
	}
}

// ApplyStatus moves the transaction to status, stamping PaidAt the first time it
// succeeds. It reports whether anything changed.
func (t *Transaction) ApplyStatus(status TransactionStatus, gatewayResponse string, paidAt time.Time) (bool, error) {
	if !CanTransition(t.Status, status) {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, status)
	}

	changed := t.Status != status
	t.Status = status

	if gatewayResponse != "" && gatewayResponse != t.GatewayResponse {
		t.GatewayResponse = gatewayResponse
		changed = true
	}

	if status == StatusSuccess && t.PaidAt == nil {
		if paidAt.IsZero() {
			paidAt = time.Now()
		}
		paid := paidAt.UTC()
		t.PaidAt = &paid
		changed = true
	}

	if changed {
		t.UpdatedAt = time.Now().UTC()
	}
	return changed, nil
}
