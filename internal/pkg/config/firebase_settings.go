package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Auth mode constants
const (
	AuthModeFirebase = "firebase"
	AuthModeJWT      = "jwt"
)

// FirebaseSettings configures the Firebase Admin SDK
type FirebaseSettings struct {
	Enabled         bool   `yaml:"enabled" env:"ENABLED"`
	CredentialsFile string `yaml:"credentials_file" env:"CREDENTIALS_FILE"`
	ProjectID       string `yaml:"project_id" env:"PROJECT_ID"`
	DatabaseURL     string `yaml:"database_url" env:"DATABASE_URL" validate:"omitempty,url"`
	OrdersPath      string `yaml:"orders_path" env:"ORDERS_PATH"`
}

// Validate checks the Firebase settings
func (s *FirebaseSettings) Validate() error {
	if !s.Enabled {
		return nil
	}

	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for FirebaseSettings: %w", err)
	}

	if s.DatabaseURL == "" {
		return fmt.Errorf("database url is required when firebase is enabled")
	}
	if s.OrdersPath == "" {
		s.OrdersPath = "orders"
	}

	return nil
}

// AuthSettings configures how API callers are authenticated
type AuthSettings struct {
	Enabled   bool   `yaml:"enabled" env:"ENABLED"`
	Mode      string `yaml:"mode" env:"MODE" validate:"omitempty,oneof=firebase jwt"`
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`
	JWTIssuer string `yaml:"jwt_issuer" env:"JWT_ISSUER"`
}

// Validate checks the auth settings
func (s *AuthSettings) Validate() error {
	if !s.Enabled {
		return nil
	}

	validate := validator.New()
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for AuthSettings: %w", err)
	}

	if s.Mode == "" {
		s.Mode = AuthModeFirebase
	}
	if s.Mode == AuthModeJWT && len(s.JWTSecret) < 32 {
		return fmt.Errorf("jwt secret must be at least 32 characters")
	}

	return nil
}
