//go:build integration
// +build integration

package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/cache"
	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/firebase"
	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/paystack"
	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/persistence"
	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/telemetry"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/config"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/testutil"

	"github.com/stretchr/testify/require"
)

// TestSecretKey signs requests to and webhooks from the fake Paystack server
const TestSecretKey = "sk_test_integration0000"

// TestServices holds all application services and dependencies for testing
type TestServices struct {
	PaymentMethodService payments.PaymentMethodService
	TransactionService   payments.TransactionService
	WebhookService       payments.WebhookService
	Reconciler           payments.Reconciler

	// Infrastructure
	DBContext   *persistence.TestContext
	Idempotency *cache.MemoryIdempotencyStore
	Paystack    *httptest.Server
}

// SetupTestServices wires every application service against a database of
// dbType and a fake Paystack API served by paystackHandler.
func SetupTestServices(t *testing.T, dbType string, paystackHandler http.Handler) *TestServices {
	t.Helper()

	logger := testutil.SetupTestLogger(t)
	dbContext := persistence.SetupTestDB(t, dbType)

	server := httptest.NewServer(paystackHandler)
	t.Cleanup(server.Close)

	settings := config.PaystackSettings{SecretKey: TestSecretKey, BaseURL: server.URL}
	require.NoError(t, settings.Validate())

	client, err := paystack.NewClient(settings, telemetry.NewMetrics(), logger)
	require.NoError(t, err, "Failed to create Paystack client")

	orderStore := firebase.NewNoopOrderStore(logger)
	idempotency := cache.NewMemoryIdempotencyStore()

	paymentMethodService, err := NewPaymentMethodService(client, dbContext.PaymentMethodRepo, dbContext.TransactionRepo, settings.Currency, logger)
	require.NoError(t, err, "Failed to create PaymentMethodService")

	transactionService, err := NewTransactionService(client, dbContext.TransactionRepo, dbContext.PaymentMethodRepo, orderStore, settings, logger)
	require.NoError(t, err, "Failed to create TransactionService")

	webhookService, err := NewWebhookService(client, idempotency, time.Hour, dbContext.TransactionRepo, dbContext.PaymentMethodRepo, orderStore, settings.Currency, logger)
	require.NoError(t, err, "Failed to create WebhookService")

	reconcileSettings := config.ReconcileSettings{MinAgeSeconds: 1, BatchSize: 10, AbandonAfterDays: 2}
	reconciler, err := NewReconciler(client, dbContext.TransactionRepo, orderStore, reconcileSettings, settings.Currency, logger)
	require.NoError(t, err, "Failed to create Reconciler")

	return &TestServices{
		PaymentMethodService: paymentMethodService,
		TransactionService:   transactionService,
		WebhookService:       webhookService,
		Reconciler:           reconciler,
		DBContext:            dbContext,
		Idempotency:          idempotency,
		Paystack:             server,
	}
}
