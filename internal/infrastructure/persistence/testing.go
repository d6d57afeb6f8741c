//go:build integration
// +build integration

package persistence

import (
	"strings"
	"testing"
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/config"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Test constants
const (
	TestEmail    = "customer@example.com"
	TestCurrency = "NGN"
	TestAmount   = int64(250000)
)

// TestContext holds test database and repositories
type TestContext struct {
	DB                *gorm.DB
	PaymentMethodRepo payments.PaymentMethodRepository
	TransactionRepo   payments.TransactionRepository
}

// SetupTestDB initializes test database with automatic cleanup
func SetupTestDB(t *testing.T, dbType string) *TestContext {
	t.Helper()

	var settings config.DatabaseSettings
	var cleanupFunc func()

	switch dbType {
	case config.SqliteDbType:
		settings = config.DatabaseSettings{
			Type: config.SqliteDbType,
			DSN:  ":memory:",
		}
		cleanupFunc = func() {}

	case config.PostgresDbType:
		uniqueDBName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		settings = config.DatabaseSettings{
			Type: config.PostgresDbType,
			DSN:  "user=postgres password=postgres host=localhost port=5432 sslmode=disable",
			Name: uniqueDBName,
		}
		cleanupFunc = func() {
			adminDSN := "user=postgres password=postgres host=localhost port=5432 dbname=postgres sslmode=disable"
			_ = DropDatabase(adminDSN, uniqueDBName)
		}

	default:
		t.Fatalf("Unsupported database type: %s", dbType)
	}

	db, err := NewDBConnection(settings)
	require.NoError(t, err, "Failed to create database connection")

	t.Cleanup(func() {
		_ = CloseDB(db)
		cleanupFunc()
	})

	require.NoError(t, AutoMigrate(db), "Failed to migrate schema")

	log := testutil.SetupTestLogger(t)

	paymentMethodRepo, err := NewGormPaymentMethodRepository(db, log)
	require.NoError(t, err, "Failed to create payment method repository")

	transactionRepo, err := NewGormTransactionRepository(db, log)
	require.NoError(t, err, "Failed to create transaction repository")

	return &TestContext{
		DB:                db,
		PaymentMethodRepo: paymentMethodRepo,
		TransactionRepo:   transactionRepo,
	}
}

// CreateTestPaymentMethod creates a test card with default values
func CreateTestPaymentMethod(t *testing.T, userID, signature string) *payments.PaymentMethod {
	t.Helper()

	return &payments.PaymentMethod{
		UserID:           userID,
		Token:            "AUTH_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:10],
		MaskedCardNumber: payments.MaskCardNumber("4081"),
		CardType:         "visa",
		Bank:             "TEST BANK",
		Brand:            "visa",
		ExpMonth:         "12",
		ExpYear:          "2030",
		Signature:        signature,
		Reusable:         true,
		CreatedAt:        time.Now().UTC(),
	}
}

// CreateTestTransaction creates a pending test transaction
func CreateTestTransaction(t *testing.T, userID string, createdAt time.Time) *payments.Transaction {
	t.Helper()

	return &payments.Transaction{
		ID:        uuid.NewString(),
		Reference: uuid.NewString(),
		UserID:    userID,
		Email:     TestEmail,
		Amount:    TestAmount,
		Currency:  TestCurrency,
		Status:    payments.StatusPending,
		Kind:      payments.KindInitialize,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}
