package payments

import (
	"context"
	"time"
)

// Authorization is the reusable card authorization Paystack returns after a successful charge
type Authorization struct {
	Code      string
	Last4     string
	CardType  string
	Bank      string
	Brand     string
	ExpMonth  string
	ExpYear   string
	Signature string
	Reusable  bool
}

// VerifiedTransaction is Paystack's view of a transaction
type VerifiedTransaction struct {
	Reference       string
	Status          TransactionStatus
	Amount          int64
	Currency        string
	GatewayResponse string
	Email           string
	PaidAt          time.Time
	Authorization   *Authorization
	Metadata        map[string]interface{}
}

// InitializeRequest starts a checkout on Paystack
type InitializeRequest struct {
	Email       string
	Amount      int64
	Currency    string
	Reference   string
	CallbackURL string
	Metadata    map[string]interface{}
}

// InitializeResult carries the checkout handles for the client
type InitializeResult struct {
	AccessCode       string
	AuthorizationURL string
	Reference        string
}

// ChargeRequest charges a saved authorization
type ChargeRequest struct {
	Email             string
	Amount            int64
	Currency          string
	AuthorizationCode string
	Reference         string
	Metadata          map[string]interface{}
}

// ChargeResult is the outcome of a charge_authorization call
type ChargeResult struct {
	Status          TransactionStatus
	Reference       string
	GatewayResponse string
	Amount          int64
	Message         string
}

// Gateway is the Paystack API surface used by the application
type Gateway interface {
	// VerifyTransaction fetches the state of the transaction identified by reference.
	VerifyTransaction(ctx context.Context, reference string) (*VerifiedTransaction, error)

	// InitializeTransaction creates a hosted checkout.
	InitializeTransaction(ctx context.Context, req *InitializeRequest) (*InitializeResult, error)

	// ChargeAuthorization charges a previously saved card.
	ChargeAuthorization(ctx context.Context, req *ChargeRequest) (*ChargeResult, error)
}

// MetadataString reads a string value from Paystack metadata
func MetadataString(metadata map[string]interface{}, key string) string {
	if metadata == nil {
		return ""
	}
	if v, ok := metadata[key].(string); ok {
		return v
	}
	return ""
}

// Metadata keys the backend writes into Paystack transactions
const (
	MetadataUserID   = "userId"
	MetadataOrderKey = "orderFirebaseKey"
)
