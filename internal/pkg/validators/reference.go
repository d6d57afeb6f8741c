package validators

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Paystack accepts alphanumerics plus '-', '.' and '=' in transaction references.
var referencePattern = regexp.MustCompile(`^[A-Za-z0-9.=\-]{1,100}$`)

// ReferenceValidation validates a Paystack transaction reference.
func ReferenceValidation(fl validator.FieldLevel) bool {
	return IsValidReference(fl.Field().String())
}

// IsValidReference reports whether ref is a well-formed transaction reference.
func IsValidReference(ref string) bool {
	return referencePattern.MatchString(ref)
}

// New returns a validator with the custom payment tags registered.
func New() *validator.Validate {
	validate := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = validate.RegisterValidation("reference", ReferenceValidation)
	return validate
}
