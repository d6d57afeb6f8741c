package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/paystack"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// WebhookCommandHandler signs webhook payloads so they can be replayed
// against a running service.
type WebhookCommandHandler struct {
	logger logger.Logger
}

// NewWebhookCommandHandler initializes and returns a WebhookCommandHandler instance
func NewWebhookCommandHandler() (*WebhookCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &WebhookCommandHandler{logger: loggerInstance}, nil
}

// SignCmd prints the x-paystack-signature value for a payload read from
// --file, or from stdin when no file is given
func (commandHandler *WebhookCommandHandler) SignCmd(cmd *cobra.Command, _ []string) error {
	filePath, err := cmd.Flags().GetString("file")
	if err != nil {
		return fmt.Errorf("invalid file flag: %w", err)
	}
	secret, err := cmd.Flags().GetString("secret")
	if err != nil {
		return fmt.Errorf("invalid secret flag: %w", err)
	}

	if secret == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		secret = cfg.Paystack.SecretKey
	}

	var body []byte
	if filePath == "" {
		body, err = io.ReadAll(cmd.InOrStdin())
	} else {
		body, err = os.ReadFile(filepath.Clean(filePath))
	}
	if err != nil {
		return fmt.Errorf("failed to read payload: %w", err)
	}
	if len(body) == 0 {
		return fmt.Errorf("payload is empty")
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), paystack.Sign(secret, body))
	return err
}

// InitWebhookCommands registers webhook commands
func InitWebhookCommands(rootCmd *cobra.Command) error {
	handler, err := NewWebhookCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create webhook command handler: %w", err)
	}

	var webhookCmd = &cobra.Command{
		Use:   "webhook",
		Short: "Webhook tooling",
	}

	var signCmd = &cobra.Command{
		Use:   "sign",
		Short: "Compute the " + paystack.SignatureHeader + " header for a payload",
		Args:  cobra.NoArgs,
		RunE:  handler.SignCmd,
	}
	signCmd.Flags().StringP("file", "", "", "Path to the JSON payload (defaults to stdin)")
	signCmd.Flags().StringP("secret", "", "", "Paystack secret key (defaults to the configured key)")
	webhookCmd.AddCommand(signCmd)

	rootCmd.AddCommand(webhookCmd)
	return nil
}
