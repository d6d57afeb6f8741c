package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// RedisSettings configures the Redis client used for webhook idempotency.
// An empty address selects the in-memory store.
type RedisSettings struct {
	Addr     string `yaml:"addr" env:"ADDR" validate:"omitempty,hostname_port"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB" validate:"gte=0,lte=15"`
}

// RateLimitSettings configures the inbound per-client limiter
type RateLimitSettings struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"REQUESTS_PER_SECOND" validate:"gte=0"`
	Burst             int     `yaml:"burst" env:"BURST" validate:"gte=0"`
}

// ReconcileSettings configures the pending transaction reconciler
type ReconcileSettings struct {
	Enabled          bool   `yaml:"enabled" env:"ENABLED"`
	Schedule         string `yaml:"schedule" env:"SCHEDULE"`
	MinAgeSeconds    int    `yaml:"min_age_seconds" env:"MIN_AGE_SECONDS" validate:"gte=0"`
	BatchSize        int    `yaml:"batch_size" env:"BATCH_SIZE" validate:"gte=0,lte=1000"`
	AbandonAfterDays int    `yaml:"abandon_after_days" env:"ABANDON_AFTER_DAYS" validate:"gte=0"`
}

// MinAge returns the minimum age of a pending transaction before it is reconciled
func (s *ReconcileSettings) MinAge() time.Duration {
	return time.Duration(s.MinAgeSeconds) * time.Second
}

// AbandonAfter returns the age after which a still pending transaction is abandoned
func (s *ReconcileSettings) AbandonAfter() time.Duration {
	return time.Duration(s.AbandonAfterDays) * 24 * time.Hour
}

// TelemetrySettings configures tracing export
type TelemetrySettings struct {
	ServiceName  string  `yaml:"service_name" env:"SERVICE_NAME"`
	OTLPEndpoint string  `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT"`
	Insecure     bool    `yaml:"insecure" env:"INSECURE"`
	SampleRatio  float64 `yaml:"sample_ratio" env:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// CORSSettings configures allowed browser origins
type CORSSettings struct {
	AllowOrigins []string `yaml:"allow_origins" env:"ALLOW_ORIGINS" envSeparator:","`
}

func (s *RedisSettings) validate(v *validator.Validate) error {
	if err := v.Struct(s); err != nil {
		return fmt.Errorf("validation failed for RedisSettings: %w", err)
	}
	return nil
}

func (s *RateLimitSettings) validate(v *validator.Validate) error {
	if err := v.Struct(s); err != nil {
		return fmt.Errorf("validation failed for RateLimitSettings: %w", err)
	}
	if s.RequestsPerSecond == 0 {
		s.RequestsPerSecond = 5
	}
	if s.Burst == 0 {
		s.Burst = 10
	}
	return nil
}

func (s *ReconcileSettings) validate(v *validator.Validate) error {
	if err := v.Struct(s); err != nil {
		return fmt.Errorf("validation failed for ReconcileSettings: %w", err)
	}
	if s.Schedule == "" {
		s.Schedule = "@every 5m"
	}
	if _, err := cron.ParseStandard(s.Schedule); err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", s.Schedule, err)
	}
	if s.MinAgeSeconds == 0 {
		s.MinAgeSeconds = 120
	}
	if s.BatchSize == 0 {
		s.BatchSize = 50
	}
	if s.AbandonAfterDays == 0 {
		s.AbandonAfterDays = 2
	}
	return nil
}

func (s *TelemetrySettings) validate(v *validator.Validate) error {
	if err := v.Struct(s); err != nil {
		return fmt.Errorf("validation failed for TelemetrySettings: %w", err)
	}
	if s.ServiceName == "" {
		s.ServiceName = "paystack-integration"
	}
	if s.SampleRatio == 0 {
		s.SampleRatio = 1
	}
	return nil
}
