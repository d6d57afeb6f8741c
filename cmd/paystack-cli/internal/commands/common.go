package commands

import (
	"encoding/json"
	"fmt"

	"github.com/coolabdulsamad/paystack-integration/internal/app"
	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/firebase"
	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/paystack"
	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/persistence"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/config"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func setupLogger() (logger.Logger, error) {
	settings := &config.LoggerSettings{
		LogLevel: config.LogLevelInfo,
		LogType:  config.LogTypeConsole,
	}

	if err := logger.InitLogger(settings); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loggerInstance, err := logger.GetLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to get logger instance: %w", err)
	}

	return loggerInstance, nil
}

// loadConfig reads the shared service configuration named by the --config flag
func loadConfig(cmd *cobra.Command) (*config.RestConfig, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("invalid config flag: %w", err)
	}

	cfg, err := config.InitializeRestConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// serviceSet bundles what the data commands operate on
type serviceSet struct {
	db             *gorm.DB
	paymentMethods payments.PaymentMethodService
	transactions   payments.TransactionService
	reconciler     payments.Reconciler
}

func (s *serviceSet) Close() error {
	return persistence.CloseDB(s.db)
}

// openServices connects to the database and builds the application services.
// Order updates are only logged during CLI runs.
func openServices(cfg *config.RestConfig, log logger.Logger) (*serviceSet, error) {
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	set, err := newServiceSet(cfg, db, log)
	if err != nil {
		_ = persistence.CloseDB(db)
		return nil, err
	}
	return set, nil
}

func newServiceSet(cfg *config.RestConfig, db *gorm.DB, log logger.Logger) (*serviceSet, error) {
	paymentMethodRepo, err := persistence.NewGormPaymentMethodRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment method repository: %w", err)
	}

	transactionRepo, err := persistence.NewGormTransactionRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction repository: %w", err)
	}

	gateway, err := paystack.NewClient(cfg.Paystack, nil, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create paystack client: %w", err)
	}

	orderStore := firebase.NewNoopOrderStore(log)

	paymentMethodService, err := app.NewPaymentMethodService(gateway, paymentMethodRepo, transactionRepo, cfg.Paystack.Currency, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment method service: %w", err)
	}

	transactionService, err := app.NewTransactionService(gateway, transactionRepo, paymentMethodRepo, orderStore, cfg.Paystack, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction service: %w", err)
	}

	reconciler, err := app.NewReconciler(gateway, transactionRepo, orderStore, cfg.Reconcile, cfg.Paystack.Currency, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create reconciler: %w", err)
	}

	return &serviceSet{
		db:             db,
		paymentMethods: paymentMethodService,
		transactions:   transactionService,
		reconciler:     reconciler,
	}, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
