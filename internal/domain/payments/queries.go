package payments

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// TransactionQuery filters and pages transaction listings
type TransactionQuery struct {
	UserID        string            `validate:"max=128"`
	Status        TransactionStatus `validate:"omitempty,oneof=pending success failed abandoned reversed"`
	CreatedBefore time.Time
	Limit         int    `validate:"gte=0,lte=500"`
	Offset        int    `validate:"gte=0"`
	SortBy        string `validate:"omitempty,oneof=created_at updated_at amount"`
	SortOrder     string `validate:"omitempty,oneof=asc desc"`
}

// NewTransactionQuery returns a query with the default page size and newest-first ordering
func NewTransactionQuery() *TransactionQuery {
	return &TransactionQuery{
		Limit:     50,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// Validate for validating TransactionQuery struct
func (q *TransactionQuery) Validate() error {
	return validateStruct(validator.New(), q)
}

// PaymentMethodQuery pages the saved cards of one user. A zero Limit lists every card.
type PaymentMethodQuery struct {
	UserID string `validate:"required,max=128"`
	Limit  int    `validate:"gte=0,lte=500"`
	Offset int    `validate:"gte=0"`
}

// Validate for validating PaymentMethodQuery struct
func (q *PaymentMethodQuery) Validate() error {
	return validateStruct(validator.New(), q)
}
