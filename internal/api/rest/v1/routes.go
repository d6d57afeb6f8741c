package v1

import (
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/identity"
	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/telemetry"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/config"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouteDependencies collects what SetupRoutes wires into the router
type RouteDependencies struct {
	PaymentMethodService payments.PaymentMethodService
	TransactionService   payments.TransactionService
	WebhookService       payments.WebhookService

	// TokenVerifier is nil when authentication is disabled
	TokenVerifier   identity.TokenVerifier
	RateLimit       config.RateLimitSettings
	CORS            config.CORSSettings
	Metrics         *telemetry.Metrics
	ReadinessChecks map[string]ReadinessCheck
	Logger          logger.Logger
}

// SetupRoutes sets up the payment API together with health and metrics endpoints.
func SetupRoutes(r *gin.Engine, deps *RouteDependencies) {
	if deps.Metrics != nil {
		r.Use(MetricsMiddleware(deps.Metrics))
	}

	origins := deps.CORS.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: !allowsAnyOrigin(origins),
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := NewHealthHandler(deps.ReadinessChecks)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	v1 := r.Group(BasePath) // lookup in version file

	// Paystack authenticates webhooks by signature, not by bearer token
	webhookHandler := NewWebhookHandler(deps.WebhookService, deps.Metrics, deps.Logger)
	v1.POST("/webhook", webhookHandler.Handle)

	api := v1.Group("")
	if deps.TokenVerifier != nil {
		api.Use(AuthMiddleware(deps.TokenVerifier, deps.Logger))
	}
	if deps.RateLimit.RequestsPerSecond > 0 {
		api.Use(NewRateLimiter(deps.RateLimit.RequestsPerSecond, deps.RateLimit.Burst, deps.Logger).Handler())
	}

	// Card Routes
	cardHandler := NewCardHandler(deps.PaymentMethodService, deps.Logger)
	api.POST("/add-card", cardHandler.AddCard)
	api.GET("/cards/:userId", cardHandler.ListByUser)
	api.DELETE("/cards/:id", cardHandler.DeleteByID)

	// Transaction Routes
	transactionHandler := NewTransactionHandler(deps.TransactionService, deps.Logger)
	api.POST("/initialize", transactionHandler.Initialize)
	api.POST("/charge-saved-card", transactionHandler.ChargeSavedCard)
	api.GET("/verify/:reference", transactionHandler.Verify)
	api.GET("/transactions", transactionHandler.List)
	api.GET("/transactions/:reference", transactionHandler.GetByReference)
}

func allowsAnyOrigin(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
