package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/telemetry"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the HMAC-SHA512 of a Paystack webhook body
const SignatureHeader = "x-paystack-signature"

const maxWebhookBody = 1 << 20

// WebhookHandler defines the interface for receiving Paystack webhooks
type WebhookHandler interface {
	Handle(ctx *gin.Context)
}

type webhookHandler struct {
	webhookService payments.WebhookService
	metrics        *telemetry.Metrics
	logger         logger.Logger
}

// NewWebhookHandler creates a new WebhookHandler. metrics may be nil.
func NewWebhookHandler(webhookService payments.WebhookService, metrics *telemetry.Metrics, logger logger.Logger) WebhookHandler {
	return &webhookHandler{
		webhookService: webhookService,
		metrics:        metrics,
		logger:         logger,
	}
}

// Handle handles the POST request Paystack sends for every event.
// Anything other than 2xx makes Paystack retry the delivery.
// @Summary Receive a Paystack webhook
// @Tags Webhook
// @Accept json
// @Produce json
// @Param x-paystack-signature header string true "HMAC-SHA512 of the body"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /webhook [post]
func (handler *webhookHandler) Handle(ctx *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxWebhookBody))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "unreadable webhook body"})
		return
	}

	event, err := handler.webhookService.Handle(ctx, ctx.GetHeader(SignatureHeader), body)

	eventName := "unknown"
	if event != nil {
		eventName = event.Event
	}

	switch {
	case err == nil:
		outcome := telemetry.OutcomeIgnored
		if event.Handled {
			outcome = telemetry.OutcomeSuccess
		}
		handler.record(eventName, outcome)
		ctx.JSON(http.StatusOK, MessageResponse{Message: "ok"})
	case errors.Is(err, payments.ErrDuplicateEvent):
		handler.record(eventName, telemetry.OutcomeDuplicate)
		ctx.JSON(http.StatusOK, MessageResponse{Message: "ok"})
	case errors.Is(err, payments.ErrInvalidSignature):
		handler.logger.Warn("Rejected webhook with invalid signature from ", ctx.ClientIP())
		handler.record(eventName, telemetry.OutcomeRejected)
		ctx.JSON(http.StatusUnauthorized, ErrorResponse{Message: "invalid signature"})
	case errors.Is(err, payments.ErrInvalidInput):
		handler.logger.Warn("Rejected malformed webhook: ", err)
		handler.record(eventName, telemetry.OutcomeRejected)
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	default:
		handler.logger.Error("Failed to process webhook ", eventName, ": ", err)
		handler.record(eventName, telemetry.OutcomeFailure)
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Message: "webhook processing failed"})
	}
}

func (handler *webhookHandler) record(event, outcome string) {
	if handler.metrics != nil {
		handler.metrics.WebhookEvents.WithLabelValues(event, outcome).Inc()
	}
}
