package models

import (
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
)

// PaymentMethodModel is the GORM database model for saved cards
type PaymentMethodModel struct {
	ID               int64     `gorm:"primaryKey;autoIncrement"`
	UserID           string    `gorm:"not null;uniqueIndex:idx_payment_methods_user_signature,priority:1,where:signature <> '';type:varchar(128)"`
	Token            string    `gorm:"not null;type:varchar(255)"`
	MaskedCardNumber string    `gorm:"not null;type:varchar(19)"`
	CardType         string    `gorm:"type:varchar(50)"`
	Bank             string    `gorm:"type:varchar(100)"`
	Brand            string    `gorm:"type:varchar(50)"`
	ExpMonth         string    `gorm:"type:varchar(2)"`
	ExpYear          string    `gorm:"type:varchar(4)"`
	Signature        string    `gorm:"uniqueIndex:idx_payment_methods_user_signature,priority:2,where:signature <> '';type:varchar(255)"`
	Reusable         bool      `gorm:"not null;default:false"`
	CreatedAt        time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (PaymentMethodModel) TableName() string {
	return "payment_methods"
}

// ToDomain converts GORM model to domain entity
func (m *PaymentMethodModel) ToDomain() *payments.PaymentMethod {
	return &payments.PaymentMethod{
		ID:               m.ID,
		UserID:           m.UserID,
		Token:            m.Token,
		MaskedCardNumber: m.MaskedCardNumber,
		CardType:         m.CardType,
		Bank:             m.Bank,
		Brand:            m.Brand,
		ExpMonth:         m.ExpMonth,
		ExpYear:          m.ExpYear,
		Signature:        m.Signature,
		Reusable:         m.Reusable,
		CreatedAt:        m.CreatedAt,
	}
}

// FromDomain converts domain entity to GORM model
func (m *PaymentMethodModel) FromDomain(p *payments.PaymentMethod) {
	m.ID = p.ID
	m.UserID = p.UserID
	m.Token = p.Token
	m.MaskedCardNumber = p.MaskedCardNumber
	m.CardType = p.CardType
	m.Bank = p.Bank
	m.Brand = p.Brand
	m.ExpMonth = p.ExpMonth
	m.ExpYear = p.ExpYear
	m.Signature = p.Signature
	m.Reusable = p.Reusable
	m.CreatedAt = p.CreatedAt
}
