package commands

import (
	"fmt"

	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// TransactionCommandHandler encapsulates transaction verification and
// reconciliation via CLI.
type TransactionCommandHandler struct {
	logger logger.Logger
}

// NewTransactionCommandHandler initializes and returns a TransactionCommandHandler instance
func NewTransactionCommandHandler() (*TransactionCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &TransactionCommandHandler{logger: loggerInstance}, nil
}

// VerifyCmd refreshes a transaction from Paystack and prints the stored result
func (commandHandler *TransactionCommandHandler) VerifyCmd(cmd *cobra.Command, _ []string) error {
	reference, err := cmd.Flags().GetString("reference")
	if err != nil {
		return fmt.Errorf("invalid reference flag: %w", err)
	}
	if reference == "" {
		return fmt.Errorf("--reference is required")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	set, err := openServices(cfg, commandHandler.logger)
	if err != nil {
		return err
	}
	defer func() { _ = set.Close() }()

	tx, err := set.transactions.Verify(cmd.Context(), reference)
	if err != nil {
		return err
	}

	commandHandler.logger.Info(fmt.Sprintf("Transaction %s is %s", tx.Reference, tx.Status))
	return printJSON(cmd, tx)
}

// ReconcileCmd runs a single reconciliation pass over stale pending transactions
func (commandHandler *TransactionCommandHandler) ReconcileCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	set, err := openServices(cfg, commandHandler.logger)
	if err != nil {
		return err
	}
	defer func() { _ = set.Close() }()

	updated, err := set.reconciler.Reconcile(cmd.Context())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "reconciled %d transactions\n", updated)
	return err
}

// InitTransactionCommands registers transaction commands
func InitTransactionCommands(rootCmd *cobra.Command) error {
	handler, err := NewTransactionCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create transaction command handler: %w", err)
	}

	var transactionsCmd = &cobra.Command{
		Use:   "transactions",
		Short: "Verify recorded transactions",
	}

	var verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Verify a transaction against Paystack",
		Args:  cobra.NoArgs,
		RunE:  handler.VerifyCmd,
	}
	verifyCmd.Flags().StringP("reference", "", "", "Paystack transaction reference")
	transactionsCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(transactionsCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "reconcile",
		Short: "Settle stale pending transactions once",
		Args:  cobra.NoArgs,
		RunE:  handler.ReconcileCmd,
	})

	return nil
}
