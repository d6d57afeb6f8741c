package commands

import (
	"fmt"

	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/persistence"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/config"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// MigrateCommandHandler encapsulates schema migrations via CLI.
type MigrateCommandHandler struct {
	logger logger.Logger
}

// NewMigrateCommandHandler initializes and returns a MigrateCommandHandler instance
func NewMigrateCommandHandler() (*MigrateCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &MigrateCommandHandler{logger: loggerInstance}, nil
}

// UpCmd applies every pending migration. SQLite databases have no versioned
// migrations and are brought up to date with the model definitions instead.
func (commandHandler *MigrateCommandHandler) UpCmd(cmd *cobra.Command, _ []string) error {
	return commandHandler.migrate(cmd, persistence.MigrateUp)
}

// DownCmd rolls back every applied migration
func (commandHandler *MigrateCommandHandler) DownCmd(cmd *cobra.Command, _ []string) error {
	return commandHandler.migrate(cmd, persistence.MigrateDown)
}

func (commandHandler *MigrateCommandHandler) migrate(cmd *cobra.Command, direction string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to create db connection: %w", err)
	}

	if cfg.Database.Type == config.SqliteDbType {
		defer func() { _ = persistence.CloseDB(db) }()
		if direction != persistence.MigrateUp {
			return fmt.Errorf("migrate %s is only supported for %s", direction, config.PostgresDbType)
		}
		if err := persistence.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
		commandHandler.logger.Info("SQLite schema migrated")
		return nil
	}

	if err := persistence.RunMigrations(db, direction); err != nil {
		return err
	}
	commandHandler.logger.Info("Migrations applied: ", direction)
	return nil
}

// VersionCmd prints the applied schema version
func (commandHandler *MigrateCommandHandler) VersionCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Database.Type != config.PostgresDbType {
		return fmt.Errorf("migrate version is only supported for %s", config.PostgresDbType)
	}

	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to create db connection: %w", err)
	}

	status, err := persistence.MigrationVersion(db)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", status.Version, status.Dirty)
	return err
}

// InitMigrateCommands registers migration commands
func InitMigrateCommands(rootCmd *cobra.Command) error {
	handler, err := NewMigrateCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create migrate command handler: %w", err)
	}

	var migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE:  handler.UpCmd,
	})
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all applied migrations",
		Args:  cobra.NoArgs,
		RunE:  handler.DownCmd,
	})
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE:  handler.VersionCmd,
	})

	rootCmd.AddCommand(migrateCmd)
	return nil
}
