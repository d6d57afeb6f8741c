package payments

import "errors"

var (
	// ErrNotFound is returned when a card or transaction does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when a request fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden is returned when a caller acts on another user's card.
	ErrForbidden = errors.New("forbidden")

	// ErrGateway is returned when Paystack cannot be reached or answers with a non-2xx status.
	ErrGateway = errors.New("paystack gateway error")

	// ErrRejected is returned when Paystack refuses a request as invalid (4xx or status false).
	ErrRejected = errors.New("paystack rejected the request")

	// ErrVerificationFailed is returned when Paystack reports the transaction as unsuccessful.
	ErrVerificationFailed = errors.New("paystack transaction verification failed")

	// ErrAuthorizationMissing is returned when a verified transaction carries no card authorization.
	ErrAuthorizationMissing = errors.New("authorization details not found in Paystack response")

	// ErrInvalidSignature is returned for webhook payloads whose HMAC does not match.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrDuplicateEvent is returned when a webhook event was already processed.
	ErrDuplicateEvent = errors.New("duplicate webhook event")

	// ErrConflict is returned when a write collides with an existing unique row.
	ErrConflict = errors.New("conflicting record")

	// ErrInvalidTransition is returned when a transaction status change is not allowed.
	ErrInvalidTransition = errors.New("invalid transaction status transition")
)
