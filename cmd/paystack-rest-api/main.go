// cmd/paystack-rest-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/coolabdulsamad/paystack-integration/internal/api/rest/v1"
	"github.com/coolabdulsamad/paystack-integration/internal/app"
	"github.com/coolabdulsamad/paystack-integration/internal/domain/identity"
	"github.com/coolabdulsamad/paystack-integration/internal/domain/orders"
	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/cache"
	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/firebase"
	jwtidentity "github.com/coolabdulsamad/paystack-integration/internal/infrastructure/identity"
	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/paystack"
	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/persistence"
	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/scheduler"
	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/telemetry"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/config"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse configuration; the YAML file is optional when the environment supplies everything
	restConfig, err := config.InitializeRestConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&restConfig.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, restConfig.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("Failed to flush traces: ", err)
		}
	}()

	// Initialize application dependencies
	deps, err := initializeDependencies(ctx, restConfig, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.close(log)

	return serve(ctx, restConfig, deps, log)
}

// appDependencies holds all initialized application components
type appDependencies struct {
	db            *gorm.DB
	redis         *redis.Client
	metrics       *telemetry.Metrics
	tokenVerifier identity.TokenVerifier
	services      *appServices
}

type appServices struct {
	paymentMethods payments.PaymentMethodService
	transactions   payments.TransactionService
	webhooks       payments.WebhookService
	reconciler     payments.Reconciler
}

func (d *appDependencies) close(log logger.Logger) {
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			log.Warn("Failed to close redis client: ", err)
		}
	}
	if err := persistence.CloseDB(d.db); err != nil {
		log.Warn("Failed to close database: ", err)
	}
}

// initializeDependencies sets up all application components
func initializeDependencies(ctx context.Context, cfg *config.RestConfig, log logger.Logger) (*appDependencies, error) {
	// Initialize database
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := persistence.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
		log.Info("Database migrations completed successfully")
	}

	// Initialize repositories
	paymentMethodRepo, err := persistence.NewGormPaymentMethodRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment method repository: %w", err)
	}

	transactionRepo, err := persistence.NewGormTransactionRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction repository: %w", err)
	}

	deps := &appDependencies{db: db, metrics: telemetry.NewMetrics()}

	// Initialize Firebase order mirroring and authentication
	orderStore, err := initializeFirebase(ctx, cfg, deps, log)
	if err != nil {
		return nil, err
	}
	if cfg.Auth.Enabled && cfg.Auth.Mode == config.AuthModeJWT {
		deps.tokenVerifier, err = jwtidentity.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
		if err != nil {
			return nil, fmt.Errorf("failed to create jwt verifier: %w", err)
		}
	}

	// Initialize webhook idempotency
	var idempotency payments.IdempotencyStore
	if cfg.Redis.Addr != "" {
		deps.redis, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		idempotency = cache.NewRedisIdempotencyStore(deps.redis)
		log.Info("Using redis idempotency store at ", cfg.Redis.Addr)
	} else {
		idempotency = cache.NewMemoryIdempotencyStore()
		log.Warn("No redis configured, webhook idempotency is kept in memory")
	}

	// Initialize Paystack client
	gateway, err := paystack.NewClient(cfg.Paystack, deps.metrics, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create paystack client: %w", err)
	}

	// Initialize services
	deps.services, err = initializeApplicationServices(cfg, gateway, paymentMethodRepo, transactionRepo, orderStore, idempotency, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return deps, nil
}

// initializeFirebase returns the order store and, in firebase auth mode, sets the token verifier
func initializeFirebase(ctx context.Context, cfg *config.RestConfig, deps *appDependencies, log logger.Logger) (orders.OrderStore, error) {
	if !cfg.Firebase.Enabled {
		log.Warn("Firebase disabled, order updates are only logged")
		return firebase.NewNoopOrderStore(log), nil
	}

	firebaseApp, err := firebase.NewApp(ctx, cfg.Firebase)
	if err != nil {
		return nil, err
	}

	orderStore, err := firebase.NewOrderStore(ctx, firebaseApp, cfg.Firebase.OrdersPath, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase order store: %w", err)
	}

	if cfg.Auth.Enabled && cfg.Auth.Mode == config.AuthModeFirebase {
		deps.tokenVerifier, err = firebase.NewTokenVerifier(ctx, firebaseApp)
		if err != nil {
			return nil, fmt.Errorf("failed to create firebase token verifier: %w", err)
		}
	}

	log.Info("Firebase initialized for project ", cfg.Firebase.ProjectID)
	return orderStore, nil
}

// initializeApplicationServices sets up all application services
func initializeApplicationServices(
	cfg *config.RestConfig,
	gateway *paystack.Client,
	paymentMethodRepo payments.PaymentMethodRepository,
	transactionRepo payments.TransactionRepository,
	orderStore orders.OrderStore,
	idempotency payments.IdempotencyStore,
	log logger.Logger,
) (*appServices, error) {
	currency := cfg.Paystack.Currency

	paymentMethodService, err := app.NewPaymentMethodService(gateway, paymentMethodRepo, transactionRepo, currency, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment method service: %w", err)
	}

	transactionService, err := app.NewTransactionService(gateway, transactionRepo, paymentMethodRepo, orderStore, cfg.Paystack, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction service: %w", err)
	}

	ttl := time.Duration(cfg.Paystack.WebhookIdempotency) * time.Hour
	webhookService, err := app.NewWebhookService(gateway, idempotency, ttl, transactionRepo, paymentMethodRepo, orderStore, currency, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook service: %w", err)
	}

	reconciler, err := app.NewReconciler(gateway, transactionRepo, orderStore, cfg.Reconcile, currency, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create reconciler: %w", err)
	}

	log.Info("Application services initialized successfully")
	return &appServices{
		paymentMethods: paymentMethodService,
		transactions:   transactionService,
		webhooks:       webhookService,
		reconciler:     reconciler,
	}, nil
}

// serve runs the HTTP server and the reconciliation scheduler until ctx is
// cancelled, then shuts both down gracefully.
func serve(ctx context.Context, cfg *config.RestConfig, deps *appDependencies, log logger.Logger) error {
	readiness := map[string]v1.ReadinessCheck{
		"database": func(ctx context.Context) error { return persistence.Ping(ctx, deps.db) },
	}
	if deps.redis != nil {
		readiness["redis"] = func(ctx context.Context) error { return deps.redis.Ping(ctx).Err() }
	}

	// Setup router
	r := gin.Default()
	v1.SetupRoutes(r, &v1.RouteDependencies{
		PaymentMethodService: deps.services.paymentMethods,
		TransactionService:   deps.services.transactions,
		WebhookService:       deps.services.webhooks,
		TokenVerifier:        deps.tokenVerifier,
		RateLimit:            cfg.RateLimit,
		CORS:                 cfg.CORS,
		Metrics:              deps.metrics,
		ReadinessChecks:      readiness,
		Logger:               log,
	})

	var cronScheduler *scheduler.Scheduler
	if cfg.Reconcile.Enabled {
		var err error
		cronScheduler, err = scheduler.NewScheduler(cfg.Reconcile.Schedule, deps.services.reconciler, time.Minute, deps.metrics, log)
		if err != nil {
			return fmt.Errorf("failed to create reconciliation scheduler: %w", err)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attack
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting server on port ", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		log.Info("Server stopped gracefully")
		return nil
	})

	if cronScheduler != nil {
		g.Go(func() error {
			return cronScheduler.Run(gctx, shutdownTimeout)
		})
	}

	return g.Wait()
}
