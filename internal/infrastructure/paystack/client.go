package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/telemetry"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/config"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// Endpoint labels used for metrics and logs
const (
	EndpointVerify     = "verify"
	EndpointInitialize = "initialize"
	EndpointCharge     = "charge_authorization"
)

const maxResponseBytes = 1 << 20

// Client talks to the Paystack API with the account's secret key
type Client struct {
	baseURL    string
	secretKey  string
	currency   string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *telemetry.Metrics
	logger     logger.Logger
}

// APIError is a non-2xx or status:false answer from Paystack
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: paystack %s returned %d: %s", e.kind, e.Endpoint, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// NewClient creates a Paystack client. settings must already be validated so
// that defaults are filled in. metrics may be nil.
func NewClient(settings config.PaystackSettings, metrics *telemetry.Metrics, logger logger.Logger) (*Client, error) {
	if settings.SecretKey == "" {
		return nil, fmt.Errorf("paystack secret key is required")
	}

	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultPaystackBaseURL
	}

	limit := rate.Limit(settings.RequestsPerSecond)
	if settings.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Client{
		baseURL:   baseURL,
		secretKey: settings.SecretKey,
		currency:  settings.Currency,
		httpClient: &http.Client{
			Timeout:   time.Duration(settings.TimeoutSeconds) * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: rate.NewLimiter(limit, settings.Burst),
		metrics: metrics,
		logger:  logger,
	}, nil
}

// VerifyTransaction fetches the state of the transaction identified by reference
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*payments.VerifiedTransaction, error) {
	body, status, err := c.do(ctx, EndpointVerify, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(EndpointVerify, status, body, payments.ErrVerificationFailed); err != nil {
		return nil, err
	}

	data := body.Get("data")
	verified := &payments.VerifiedTransaction{
		Reference:       data.Get("reference").String(),
		Status:          payments.ParseStatus(data.Get("status").String()),
		Amount:          data.Get("amount").Int(),
		Currency:        data.Get("currency").String(),
		GatewayResponse: data.Get("gateway_response").String(),
		Email:           data.Get("customer.email").String(),
		Authorization:   ParseAuthorization(data.Get("authorization")),
		Metadata:        ParseMetadata(data.Get("metadata")),
	}
	verified.PaidAt = parseTime(data.Get("paid_at"))
	if verified.Reference == "" {
		verified.Reference = reference
	}

	return verified, nil
}

// InitializeTransaction creates a hosted checkout
func (c *Client) InitializeTransaction(ctx context.Context, req *payments.InitializeRequest) (*payments.InitializeResult, error) {
	payload := map[string]interface{}{
		"email":    req.Email,
		"amount":   req.Amount,
		"currency": c.currencyOr(req.Currency),
	}
	if req.Reference != "" {
		payload["reference"] = req.Reference
	}
	if req.CallbackURL != "" {
		payload["callback_url"] = req.CallbackURL
	}
	if len(req.Metadata) > 0 {
		payload["metadata"] = req.Metadata
	}

	body, status, err := c.do(ctx, EndpointInitialize, http.MethodPost, "/transaction/initialize", payload)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(EndpointInitialize, status, body, payments.ErrRejected); err != nil {
		return nil, err
	}

	data := body.Get("data")
	return &payments.InitializeResult{
		AccessCode:       data.Get("access_code").String(),
		AuthorizationURL: data.Get("authorization_url").String(),
		Reference:        data.Get("reference").String(),
	}, nil
}

// ChargeAuthorization charges a saved card. A request Paystack refuses is
// reported as a failed result carrying Paystack's message; only transport
// and server errors are returned as errors.
func (c *Client) ChargeAuthorization(ctx context.Context, req *payments.ChargeRequest) (*payments.ChargeResult, error) {
	payload := map[string]interface{}{
		"email":              req.Email,
		"amount":             req.Amount,
		"currency":           c.currencyOr(req.Currency),
		"authorization_code": req.AuthorizationCode,
	}
	if req.Reference != "" {
		payload["reference"] = req.Reference
	}
	if len(req.Metadata) > 0 {
		payload["metadata"] = req.Metadata
	}

	body, status, err := c.do(ctx, EndpointCharge, http.MethodPost, "/transaction/charge_authorization", payload)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(EndpointCharge, status, body, payments.ErrRejected); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && errors.Is(err, payments.ErrRejected) {
			return &payments.ChargeResult{
				Status:    payments.StatusFailed,
				Reference: req.Reference,
				Amount:    req.Amount,
				Message:   apiErr.Message,
			}, nil
		}
		return nil, err
	}

	data := body.Get("data")
	result := &payments.ChargeResult{
		Status:          payments.ParseStatus(data.Get("status").String()),
		Reference:       data.Get("reference").String(),
		GatewayResponse: data.Get("gateway_response").String(),
		Amount:          data.Get("amount").Int(),
		Message:         body.Get("message").String(),
	}
	if result.Reference == "" {
		result.Reference = req.Reference
	}
	return result, nil
}

func (c *Client) currencyOr(currency string) string {
	if currency != "" {
		return currency
	}
	return c.currency
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, payload interface{}) (gjson.Result, int, error) {
	start := time.Now()
	outcome := telemetry.OutcomeFailure
	defer func() {
		if c.metrics != nil {
			c.metrics.GatewayCalls.WithLabelValues(endpoint, outcome).Inc()
			c.metrics.GatewayDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		}
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return gjson.Result{}, 0, fmt.Errorf("%w: rate limiter: %v", payments.ErrGateway, err)
	}

	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return gjson.Result{}, 0, fmt.Errorf("failed to encode %s request: %w", endpoint, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return gjson.Result{}, 0, fmt.Errorf("failed to build %s request: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Paystack ", endpoint, " call failed: ", err)
		return gjson.Result{}, 0, fmt.Errorf("%w: %s call failed: %v", payments.ErrGateway, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return gjson.Result{}, resp.StatusCode, fmt.Errorf("%w: failed to read %s response: %v", payments.ErrGateway, endpoint, err)
	}
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, resp.StatusCode, &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    "malformed response body",
			kind:       payments.ErrGateway,
		}
	}

	if resp.StatusCode < 300 {
		outcome = telemetry.OutcomeSuccess
	}
	c.logger.Debug("Paystack ", endpoint, " answered ", resp.StatusCode)
	return gjson.ParseBytes(raw), resp.StatusCode, nil
}

// checkStatus turns 5xx answers into ErrGateway and 4xx or status:false answers
// into rejectKind.
func checkStatus(endpoint string, statusCode int, body gjson.Result, rejectKind error) error {
	message := body.Get("message").String()
	switch {
	case statusCode >= 500:
		return &APIError{Endpoint: endpoint, StatusCode: statusCode, Message: message, kind: payments.ErrGateway}
	case statusCode >= 300:
		return &APIError{Endpoint: endpoint, StatusCode: statusCode, Message: message, kind: rejectKind}
	case !body.Get("status").Bool():
		return &APIError{Endpoint: endpoint, StatusCode: statusCode, Message: message, kind: rejectKind}
	}
	return nil
}

// ParseAuthorization reads a Paystack authorization object. It returns nil
// when the object is absent or carries no authorization code.
func ParseAuthorization(auth gjson.Result) *payments.Authorization {
	if !auth.IsObject() || auth.Get("authorization_code").String() == "" {
		return nil
	}
	return &payments.Authorization{
		Code:      auth.Get("authorization_code").String(),
		Last4:     auth.Get("last4").String(),
		CardType:  auth.Get("card_type").String(),
		Bank:      auth.Get("bank").String(),
		Brand:     auth.Get("brand").String(),
		ExpMonth:  auth.Get("exp_month").String(),
		ExpYear:   auth.Get("exp_year").String(),
		Signature: auth.Get("signature").String(),
		Reusable:  auth.Get("reusable").Bool(),
	}
}

// ParseMetadata reads transaction metadata, which Paystack returns either as an
// object or as a JSON-encoded string.
func ParseMetadata(metadata gjson.Result) map[string]interface{} {
	if metadata.Type == gjson.String && gjson.Valid(metadata.Str) {
		metadata = gjson.Parse(metadata.Str)
	}
	if !metadata.IsObject() {
		return nil
	}
	out, ok := metadata.Value().(map[string]interface{})
	if !ok {
		return nil
	}
	return out
}

func parseTime(v gjson.Result) time.Time {
	if v.String() == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, v.String())
	if err != nil {
		return time.Time{}
	}
	return t
}
