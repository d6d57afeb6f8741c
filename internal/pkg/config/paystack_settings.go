package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultPaystackBaseURL is the public Paystack API endpoint
const DefaultPaystackBaseURL = "https://api.paystack.co"

// PaystackSettings configures the Paystack gateway client
type PaystackSettings struct {
	SecretKey          string  `yaml:"secret_key" env:"SECRET_KEY" validate:"required"`
	BaseURL            string  `yaml:"base_url" env:"BASE_URL" validate:"omitempty,url"`
	CallbackURL        string  `yaml:"callback_url" env:"CALLBACK_URL" validate:"omitempty,url"`
	Currency           string  `yaml:"currency" env:"CURRENCY" validate:"omitempty,len=3,uppercase"`
	TimeoutSeconds     int     `yaml:"timeout_seconds" env:"TIMEOUT_SECONDS" validate:"gte=0,lte=120"`
	RequestsPerSecond  float64 `yaml:"requests_per_second" env:"REQUESTS_PER_SECOND" validate:"gte=0"`
	Burst              int     `yaml:"burst" env:"BURST" validate:"gte=0"`
	WebhookIdempotency int     `yaml:"webhook_idempotency_hours" env:"WEBHOOK_IDEMPOTENCY_HOURS" validate:"gte=0"`
}

// Validate checks the Paystack settings and fills defaults for optional fields
func (s *PaystackSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for PaystackSettings: %w", err)
	}

	if !strings.HasPrefix(s.SecretKey, "sk_") {
		return fmt.Errorf("paystack secret key must start with sk_")
	}

	if s.BaseURL == "" {
		s.BaseURL = DefaultPaystackBaseURL
	}
	s.BaseURL = strings.TrimRight(s.BaseURL, "/")
	if s.Currency == "" {
		s.Currency = "NGN"
	}
	if s.TimeoutSeconds == 0 {
		s.TimeoutSeconds = 30
	}
	if s.RequestsPerSecond == 0 {
		s.RequestsPerSecond = 10
	}
	if s.Burst == 0 {
		s.Burst = 20
	}
	if s.WebhookIdempotency == 0 {
		s.WebhookIdempotency = 24
	}

	return nil
}
