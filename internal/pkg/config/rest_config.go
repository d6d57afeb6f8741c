package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// RestConfig is the complete configuration of the REST API and the CLI
type RestConfig struct {
	Port      string            `yaml:"port" env:"PORT" validate:"required,numeric"`
	Logger    LoggerSettings    `yaml:"logger"`
	Database  DatabaseSettings  `yaml:"database" envPrefix:"DATABASE_"`
	Paystack  PaystackSettings  `yaml:"paystack" envPrefix:"PAYSTACK_"`
	Firebase  FirebaseSettings  `yaml:"firebase" envPrefix:"FIREBASE_"`
	Auth      AuthSettings      `yaml:"auth" envPrefix:"AUTH_"`
	Redis     RedisSettings     `yaml:"redis" envPrefix:"REDIS_"`
	RateLimit RateLimitSettings `yaml:"rate_limit" envPrefix:"RATE_LIMIT_"`
	Reconcile ReconcileSettings `yaml:"reconcile" envPrefix:"RECONCILE_"`
	Telemetry TelemetrySettings `yaml:"telemetry" envPrefix:"OTEL_"`
	CORS      CORSSettings      `yaml:"cors" envPrefix:"CORS_"`
}

// InitializeRestConfig loads the configuration from the YAML file at path (skipped
// when path is empty), applies environment overrides and validates the result.
func InitializeRestConfig(path string) (*RestConfig, error) {
	cfg := defaultRestConfig()

	if path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultRestConfig() *RestConfig {
	return &RestConfig{
		Port: "8080",
		Logger: LoggerSettings{
			LogLevel:  LogLevelInfo,
			LogType:   LogTypeConsole,
			LogFormat: LogFormatText,
		},
		Database: DatabaseSettings{
			Type:        PostgresDbType,
			AutoMigrate: true,
		},
		Firebase: FirebaseSettings{
			OrdersPath: "orders",
		},
		CORS: CORSSettings{
			AllowOrigins: []string{"*"},
		},
	}
}

func loadYAML(path string, cfg *RestConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s does not exist", path)
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate validates every section of the configuration
func (c *RestConfig) Validate() error {
	validate := validator.New()

	if err := validate.Var(c.Port, "required,numeric"); err != nil {
		return fmt.Errorf("invalid port %q: %w", c.Port, err)
	}
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Paystack.Validate(); err != nil {
		return err
	}
	if err := c.Firebase.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if c.Auth.Enabled && c.Auth.Mode == AuthModeFirebase && !c.Firebase.Enabled {
		return fmt.Errorf("firebase auth mode requires firebase to be enabled")
	}
	if err := c.Redis.validate(validate); err != nil {
		return err
	}
	if err := c.RateLimit.validate(validate); err != nil {
		return err
	}
	if err := c.Reconcile.validate(validate); err != nil {
		return err
	}
	return c.Telemetry.validate(validate)
}
