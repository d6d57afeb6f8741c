package models

import (
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
)

// TransactionModel is the GORM database model for Paystack transactions
type TransactionModel struct {
	ID                string    `gorm:"primaryKey;type:varchar(36)"`
	Reference         string    `gorm:"not null;uniqueIndex;type:varchar(100)"`
	UserID            string    `gorm:"index;type:varchar(128)"`
	Email             string    `gorm:"not null;type:varchar(255)"`
	Amount            int64     `gorm:"not null"`
	Currency          string    `gorm:"not null;type:varchar(3)"`
	Status            string    `gorm:"not null;index:idx_transactions_status_created,priority:1;type:varchar(20)"`
	Kind              string    `gorm:"not null;type:varchar(30)"`
	GatewayResponse   string    `gorm:"type:varchar(255)"`
	AccessCode        string    `gorm:"type:varchar(100)"`
	AuthorizationURL  string    `gorm:"type:varchar(512)"`
	AuthorizationCode string    `gorm:"type:varchar(255)"`
	OrderKey          string    `gorm:"type:varchar(255)"`
	CreatedAt         time.Time `gorm:"not null;index:idx_transactions_status_created,priority:2"`
	UpdatedAt         time.Time `gorm:"not null"`
	PaidAt            *time.Time
}

// TableName specifies the table name for GORM
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToDomain converts GORM model to domain entity
func (m *TransactionModel) ToDomain() *payments.Transaction {
	return &payments.Transaction{
		ID:                m.ID,
		Reference:         m.Reference,
		UserID:            m.UserID,
		Email:             m.Email,
		Amount:            m.Amount,
		Currency:          m.Currency,
		Status:            payments.TransactionStatus(m.Status),
		Kind:              payments.TransactionKind(m.Kind),
		GatewayResponse:   m.GatewayResponse,
		AccessCode:        m.AccessCode,
		AuthorizationURL:  m.AuthorizationURL,
		AuthorizationCode: m.AuthorizationCode,
		OrderKey:          m.OrderKey,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
		PaidAt:            m.PaidAt,
	}
}

// FromDomain converts domain entity to GORM model
func (m *TransactionModel) FromDomain(t *payments.Transaction) {
	m.ID = t.ID
	m.Reference = t.Reference
	m.UserID = t.UserID
	m.Email = t.Email
	m.Amount = t.Amount
	m.Currency = t.Currency
	m.Status = string(t.Status)
	m.Kind = string(t.Kind)
	m.GatewayResponse = t.GatewayResponse
	m.AccessCode = t.AccessCode
	m.AuthorizationURL = t.AuthorizationURL
	m.AuthorizationCode = t.AuthorizationCode
	m.OrderKey = t.OrderKey
	m.CreatedAt = t.CreatedAt
	m.UpdatedAt = t.UpdatedAt
	m.PaidAt = t.PaidAt
}
