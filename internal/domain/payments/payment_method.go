package payments

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// MaskedCardPrefix precedes the last four digits of every stored card number.
const MaskedCardPrefix = "****-****-****-"

// PaymentMethod is a reusable card authorization saved for a user
type PaymentMethod struct {
	ID               int64
	UserID           string `validate:"required,max=128"`
	Token            string `validate:"required,max=255"`
	MaskedCardNumber string `validate:"required,startswith=****-****-****-,len=19"`
	CardType         string `validate:"max=50"`
	Bank             string `validate:"max=100"`
	Brand            string `validate:"max=50"`
	ExpMonth         string `validate:"omitempty,numeric,max=2"`
	ExpYear          string `validate:"omitempty,numeric,len=4"`
	Signature        string `validate:"max=255"`
	Reusable         bool
	CreatedAt        time.Time
}

// NewPaymentMethod builds the card record of userID from a verified authorization
func NewPaymentMethod(userID string, auth *Authorization) *PaymentMethod {
	return &PaymentMethod{
		UserID:           userID,
		Token:            auth.Code,
		MaskedCardNumber: MaskCardNumber(auth.Last4),
		CardType:         strings.TrimSpace(auth.CardType),
		Bank:             auth.Bank,
		Brand:            auth.Brand,
		ExpMonth:         auth.ExpMonth,
		ExpYear:          auth.ExpYear,
		Signature:        auth.Signature,
		Reusable:         auth.Reusable,
		CreatedAt:        time.Now().UTC(),
	}
}

// MaskCardNumber renders a card number from its last four digits. Anything
// longer than four characters is cut down to its final four.
func MaskCardNumber(last4 string) string {
	last4 = strings.TrimSpace(last4)
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}
	return MaskedCardPrefix + last4
}

// Validate for validating PaymentMethod struct
func (p *PaymentMethod) Validate() error {
	return validateStruct(validator.New(), p)
}

func validateStruct(validate *validator.Validate, s interface{}) error {
	err := validate.Struct(s)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}

// MaskSecret keeps the last four characters of a secret for log output.
func MaskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
