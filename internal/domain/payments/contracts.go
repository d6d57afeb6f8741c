package payments

import (
	"context"
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/pkg/validators"
)

// PaymentMethodService manages the saved cards of a user.
type PaymentMethodService interface {
	// AddCard verifies the Paystack transaction identified by reference and
	// stores its reusable authorization for userID. Adding a card that is
	// already saved (same card signature) refreshes the existing record.
	AddCard(ctx context.Context, reference, userID string) (*PaymentMethod, error)

	// ListByUser returns the saved cards of userID, oldest first.
	ListByUser(ctx context.Context, userID string) ([]*PaymentMethod, error)

	// DeleteByID removes a saved card. It returns ErrNotFound for an unknown id.
	DeleteByID(ctx context.Context, id int64) error

	// DeleteForUser removes a saved card owned by userID. It returns ErrForbidden
	// when the card belongs to somebody else.
	DeleteForUser(ctx context.Context, id int64, userID string) error
}

// InitializeCommand is the input of TransactionService.Initialize
type InitializeCommand struct {
	UserID      string
	Email       string `validate:"required,email"`
	Amount      int64  `validate:"required,gt=0"`
	Reference   string `validate:"omitempty,reference"`
	CallbackURL string `validate:"omitempty,url"`
	OrderKey    string `validate:"max=255"`
	Metadata    map[string]interface{}
}

// Validate for validating InitializeCommand struct
func (c *InitializeCommand) Validate() error {
	return validateStruct(validators.New(), c)
}

// ChargeCommand is the input of TransactionService.ChargeSavedCard. Exactly one of
// AuthorizationCode and PaymentMethodID identifies the card.
type ChargeCommand struct {
	UserID            string
	Email             string `validate:"required,email"`
	Amount            int64  `validate:"required,gt=0"`
	AuthorizationCode string `validate:"required_without=PaymentMethodID,excluded_with=PaymentMethodID"`
	PaymentMethodID   int64  `validate:"gte=0"`
	Reference         string `validate:"omitempty,reference"`
	OrderKey          string `validate:"max=255"`
}

// Validate for validating ChargeCommand struct
func (c *ChargeCommand) Validate() error {
	return validateStruct(validators.New(), c)
}

// TransactionService initializes, charges and verifies Paystack transactions.
type TransactionService interface {
	// Initialize creates a hosted checkout and records it as a pending transaction.
	Initialize(ctx context.Context, cmd *InitializeCommand) (*Transaction, error)

	// ChargeSavedCard charges a saved authorization. A declined charge is reported
	// through the result status, not as an error.
	ChargeSavedCard(ctx context.Context, cmd *ChargeCommand) (*ChargeResult, error)

	// Verify refreshes the transaction from Paystack and applies the new status.
	Verify(ctx context.Context, reference string) (*Transaction, error)

	// GetByReference returns the locally recorded transaction.
	GetByReference(ctx context.Context, reference string) (*Transaction, error)

	// List returns recorded transactions matching query.
	List(ctx context.Context, query *TransactionQuery) ([]*Transaction, error)
}

// WebhookDecoder authenticates and parses raw webhook deliveries
type WebhookDecoder interface {
	// DecodeWebhook returns ErrInvalidSignature when signature does not match body
	// and ErrInvalidInput when body is not a webhook payload.
	DecodeWebhook(body []byte, signature string) (*WebhookEvent, error)
}

// WebhookService consumes signed Paystack webhook deliveries.
type WebhookService interface {
	// Handle authenticates and applies a webhook payload. It returns
	// ErrInvalidSignature for forged payloads and ErrDuplicateEvent for replays.
	Handle(ctx context.Context, signature string, body []byte) (*WebhookEvent, error)
}

// Reconciler settles transactions whose outcome was never reported.
type Reconciler interface {
	// Reconcile verifies a batch of stale pending transactions and returns how many changed.
	Reconcile(ctx context.Context) (int, error)
}

// PaymentMethodRepository defines persistence for saved cards
type PaymentMethodRepository interface {
	// Create inserts the card and assigns its ID
	Create(ctx context.Context, pm *PaymentMethod) error
	// UpdateByID overwrites an existing card
	UpdateByID(ctx context.Context, pm *PaymentMethod) error
	// GetByID returns ErrNotFound for an unknown id
	GetByID(ctx context.Context, id int64) (*PaymentMethod, error)
	// FindByUserAndSignature returns ErrNotFound when the user has not saved that card
	FindByUserAndSignature(ctx context.Context, userID, signature string) (*PaymentMethod, error)
	// FindByUserAndToken returns ErrNotFound when no card of the user carries that authorization code
	FindByUserAndToken(ctx context.Context, userID, token string) (*PaymentMethod, error)
	// ListByUser lists the cards of query.UserID ordered by ID
	ListByUser(ctx context.Context, query *PaymentMethodQuery) ([]*PaymentMethod, error)
	// DeleteByID returns ErrNotFound when nothing was deleted
	DeleteByID(ctx context.Context, id int64) error
}

// TransactionRepository defines persistence for transactions
type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	UpdateByID(ctx context.Context, tx *Transaction) error
	GetByReference(ctx context.Context, reference string) (*Transaction, error)
	List(ctx context.Context, query *TransactionQuery) ([]*Transaction, error)
	// ListPending returns up to limit pending transactions created before the cutoff, oldest first
	ListPending(ctx context.Context, createdBefore time.Time, limit int) ([]*Transaction, error)
}

// IdempotencyStore remembers which webhook deliveries were already processed
type IdempotencyStore interface {
	// Claim marks key as in-flight for ttl. It returns false when key is already claimed.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release forgets key so that a retry can claim it again
	Release(ctx context.Context, key string) error
}
