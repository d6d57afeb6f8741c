package config

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Database type constants
const (
	PostgresDbType = "postgres"
	SqliteDbType   = "sqlite"
)

// DatabaseSettings holds the connection settings for the relational store
type DatabaseSettings struct {
	Type            string `yaml:"type" env:"TYPE" validate:"required,oneof=postgres sqlite"`
	DSN             string `yaml:"dsn" env:"DSN"`
	Name            string `yaml:"name" env:"NAME" validate:"omitempty,max=63"`
	AutoMigrate     bool   `yaml:"auto_migrate" env:"AUTO_MIGRATE"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"MAX_OPEN_CONNS" validate:"gte=0"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS" validate:"gte=0"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime_seconds" env:"CONN_MAX_LIFETIME_SECONDS" validate:"gte=0"`
}

var dbNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks the database settings. A DSN is mandatory for PostgreSQL and
// a database name must be given so the schema lives outside the admin database.
func (s *DatabaseSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for DatabaseSettings: %w", err)
	}

	if s.Type == PostgresDbType {
		if s.DSN == "" {
			return fmt.Errorf("dsn is required for %s", PostgresDbType)
		}
		if s.Name == "" {
			return fmt.Errorf("name is required for %s", PostgresDbType)
		}
		if !dbNamePattern.MatchString(s.Name) {
			return fmt.Errorf("invalid database name %q", s.Name)
		}
	}

	return nil
}
