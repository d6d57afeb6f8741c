package commands

import (
	"fmt"

	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// CardCommandHandler encapsulates saved card operations via CLI.
type CardCommandHandler struct {
	logger logger.Logger
}

// NewCardCommandHandler initializes and returns a CardCommandHandler instance
func NewCardCommandHandler() (*CardCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &CardCommandHandler{logger: loggerInstance}, nil
}

// ListCmd prints the saved cards of a user as JSON
func (commandHandler *CardCommandHandler) ListCmd(cmd *cobra.Command, _ []string) error {
	userID, err := cmd.Flags().GetString("user")
	if err != nil {
		return fmt.Errorf("invalid user flag: %w", err)
	}
	if userID == "" {
		return fmt.Errorf("--user is required")
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

	cards, err := set.paymentMethods.ListByUser(cmd.Context(), userID)
	if err != nil {
		return err
	}

	commandHandler.logger.Info(fmt.Sprintf("Found %d saved cards for user %s", len(cards), userID))
	return printJSON(cmd, cards)
}

// DeleteCmd removes a saved card by id
func (commandHandler *CardCommandHandler) DeleteCmd(cmd *cobra.Command, _ []string) error {
	id, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return fmt.Errorf("invalid id flag: %w", err)
	}
	if id <= 0 {
		return fmt.Errorf("--id must be a positive card id")
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

	if err := set.paymentMethods.DeleteByID(cmd.Context(), id); err != nil {
		return err
	}

	commandHandler.logger.Info("Deleted saved card ", id)
	return nil
}

// InitCardCommands registers saved card commands
func InitCardCommands(rootCmd *cobra.Command) error {
	handler, err := NewCardCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create card command handler: %w", err)
	}

	var cardsCmd = &cobra.Command{
		Use:   "cards",
		Short: "Inspect and delete saved cards",
	}

	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the saved cards of a user",
		Args:  cobra.NoArgs,
		RunE:  handler.ListCmd,
	}
	listCmd.Flags().StringP("user", "", "", "User id owning the cards")
	cardsCmd.AddCommand(listCmd)

	var deleteCmd = &cobra.Command{
		Use:   "delete",
		Short: "Delete a saved card",
		Args:  cobra.NoArgs,
		RunE:  handler.DeleteCmd,
	}
	deleteCmd.Flags().Int64P("id", "", 0, "Id of the saved card")
	cardsCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(cardsCmd)
	return nil
}
