// Package main is the entry point for the paystack-cli application.
// It initializes the root command and registers the operator sub-commands
// (migrations, saved cards, transactions, reconciliation, webhook signing and
// token issuing), then executes the command-line interface.
package main

import (
	"fmt"
	"log"
	"os"

	commands "github.com/coolabdulsamad/paystack-integration/cmd/paystack-cli/internal/commands"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "paystack-cli",
		Short: "Operator CLI for the Paystack payment service",
		Long: `paystack-cli is a command-line tool for operating the Paystack payment service.
It shares the configuration of the REST API, read from the file passed with --config
or from CONFIG_PATH, with environment variables taking precedence.

Supports schema migrations, inspecting and deleting saved cards, verifying
transactions against Paystack, running a reconciliation pass, signing webhook
payloads for local testing and issuing development JWTs.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringP("config", "c", os.Getenv("CONFIG_PATH"), "Path to the YAML configuration file")

	// Initialize all command groups BEFORE executing
	if err := initializeCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	// Execute root command ONCE after all commands are registered
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// initializeCommands registers all command groups with the root command.
func initializeCommands(rootCmd *cobra.Command) error {
	if err := commands.InitMigrateCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize migrate commands: %w", err)
	}

	if err := commands.InitCardCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize card commands: %w", err)
	}

	if err := commands.InitTransactionCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize transaction commands: %w", err)
	}

	if err := commands.InitWebhookCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize webhook commands: %w", err)
	}

	if err := commands.InitTokenCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize token commands: %w", err)
	}

	return nil
}

// init sets up any necessary initialization before main runs.
func init() {
	// Set log flags for better error messages
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Ensure proper exit codes on errors
	log.SetOutput(os.Stderr)
}
