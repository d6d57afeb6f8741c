package commands

import (
	"fmt"
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/identity"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// TokenCommandHandler issues bearer tokens for the jwt auth mode.
type TokenCommandHandler struct {
	logger logger.Logger
}

// NewTokenCommandHandler initializes and returns a TokenCommandHandler instance
func NewTokenCommandHandler() (*TokenCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &TokenCommandHandler{logger: loggerInstance}, nil
}

// IssueCmd prints a signed token for the given user
func (commandHandler *TokenCommandHandler) IssueCmd(cmd *cobra.Command, _ []string) error {
	uid, err := cmd.Flags().GetString("uid")
	if err != nil {
		return fmt.Errorf("invalid uid flag: %w", err)
	}
	email, err := cmd.Flags().GetString("email")
	if err != nil {
		return fmt.Errorf("invalid email flag: %w", err)
	}
	ttl, err := cmd.Flags().GetDuration("ttl")
	if err != nil {
		return fmt.Errorf("invalid ttl flag: %w", err)
	}
	secret, err := cmd.Flags().GetString("secret")
	if err != nil {
		return fmt.Errorf("invalid secret flag: %w", err)
	}
	issuer, err := cmd.Flags().GetString("issuer")
	if err != nil {
		return fmt.Errorf("invalid issuer flag: %w", err)
	}

	if secret == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		secret = cfg.Auth.JWTSecret
		if issuer == "" {
			issuer = cfg.Auth.JWTIssuer
		}
	}

	token, err := identity.IssueToken(secret, issuer, uid, email, ttl)
	if err != nil {
		return err
	}

	commandHandler.logger.Info(fmt.Sprintf("Issued token for %s valid for %s", uid, ttl))
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}

// InitTokenCommands registers token commands
func InitTokenCommands(rootCmd *cobra.Command) error {
	handler, err := NewTokenCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create token command handler: %w", err)
	}

	var tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Bearer token tooling",
	}

	var issueCmd = &cobra.Command{
		Use:   "issue",
		Short: "Issue a signed JWT for a user",
		Args:  cobra.NoArgs,
		RunE:  handler.IssueCmd,
	}
	issueCmd.Flags().StringP("uid", "", "", "User id placed in the subject claim")
	issueCmd.Flags().StringP("email", "", "", "Optional email claim")
	issueCmd.Flags().DurationP("ttl", "", time.Hour, "Token lifetime")
	issueCmd.Flags().StringP("secret", "", "", "Signing secret (defaults to the configured jwt secret)")
	issueCmd.Flags().StringP("issuer", "", "", "Issuer claim (defaults to the configured issuer)")
	tokenCmd.AddCommand(issueCmd)

	rootCmd.AddCommand(tokenCmd)
	return nil
}
