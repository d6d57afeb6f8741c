//go:build unit
// +build unit

package paystack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"
	"github.com/coolabdulsamad/paystack-integration/internal/infrastructure/telemetry"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/config"
	"github.com/coolabdulsamad/paystack-integration/internal/pkg/logger"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "sk_test_0123456789abcdef"

const verifySuccessBody = `{
  "status": true,
  "message": "Verification successful",
  "data": {
    "status": "success",
    "reference": "ref-123",
    "amount": 40333,
    "currency": "NGN",
    "gateway_response": "Successful",
    "paid_at": "2024-08-22T09:15:02.000Z",
    "customer": {"email": "customer@example.com"},
    "metadata": {"userId": "user-1", "orderFirebaseKey": "-Norder"},
    "authorization": {
      "authorization_code": "AUTH_uh8bcl3zbn",
      "last4": "4081",
      "exp_month": "12",
      "exp_year": "2030",
      "card_type": "visa ",
      "bank": "TEST BANK",
      "brand": "visa",
      "reusable": true,
      "signature": "SIG_yEXu7dLBeqG0kU7g95Ke"
    }
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *telemetry.Metrics) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	settings := config.PaystackSettings{SecretKey: testSecret, BaseURL: server.URL}
	require.NoError(t, settings.Validate())

	metrics := telemetry.NewMetrics()
	client, err := NewClient(settings, metrics, logger.NewNopLogger())
	require.NoError(t, err)
	return client, metrics
}

func TestNewClient_MissingSecret(t *testing.T) {
	_, err := NewClient(config.PaystackSettings{}, nil, logger.NewNopLogger())
	assert.Error(t, err)
}

func TestVerifyTransaction_Success(t *testing.T) {
	client, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transaction/verify/ref-123", r.URL.Path)
		assert.Equal(t, "Bearer "+testSecret, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, verifySuccessBody)
	})

	verified, err := client.VerifyTransaction(context.Background(), "ref-123")
	require.NoError(t, err)

	assert.Equal(t, payments.StatusSuccess, verified.Status)
	assert.Equal(t, int64(40333), verified.Amount)
	assert.Equal(t, "customer@example.com", verified.Email)
	assert.Equal(t, time.Date(2024, 8, 22, 9, 15, 2, 0, time.UTC), verified.PaidAt.UTC())
	require.NotNil(t, verified.Authorization)
	assert.Equal(t, "AUTH_uh8bcl3zbn", verified.Authorization.Code)
	assert.Equal(t, "4081", verified.Authorization.Last4)
	assert.True(t, verified.Authorization.Reusable)
	assert.Equal(t, "user-1", payments.MetadataString(verified.Metadata, payments.MetadataUserID))
	assert.Equal(t, "-Norder", payments.MetadataString(verified.Metadata, payments.MetadataOrderKey))

	assert.Equal(t, float64(1), promtestutil.ToFloat64(metrics.GatewayCalls.WithLabelValues(EndpointVerify, telemetry.OutcomeSuccess)))
}

func TestVerifyTransaction_EscapesReference(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/a%2Fb", r.URL.EscapedPath())
		_, _ = io.WriteString(w, `{"status":true,"data":{"status":"abandoned"}}`)
	})

	verified, err := client.VerifyTransaction(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, payments.StatusAbandoned, verified.Status)
	assert.Equal(t, "a/b", verified.Reference)
	assert.Nil(t, verified.Authorization)
}

func TestVerifyTransaction_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"status":false,"message":"Transaction reference not found"}`)
	})

	_, err := client.VerifyTransaction(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, payments.ErrVerificationFailed)
	assert.Contains(t, err.Error(), "Transaction reference not found")
}

func TestVerifyTransaction_ServerError(t *testing.T) {
	client, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `{"status":false,"message":"upstream"}`)
	})

	_, err := client.VerifyTransaction(context.Background(), "ref")
	assert.ErrorIs(t, err, payments.ErrGateway)
	assert.Equal(t, float64(1), promtestutil.ToFloat64(metrics.GatewayCalls.WithLabelValues(EndpointVerify, telemetry.OutcomeFailure)))
}

func TestVerifyTransaction_MalformedBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>oops</html>`)
	})

	_, err := client.VerifyTransaction(context.Background(), "ref")
	assert.ErrorIs(t, err, payments.ErrGateway)
}

func TestVerifyTransaction_Unreachable(t *testing.T) {
	settings := config.PaystackSettings{SecretKey: testSecret, BaseURL: "http://127.0.0.1:1"}
	require.NoError(t, settings.Validate())
	client, err := NewClient(settings, nil, logger.NewNopLogger())
	require.NoError(t, err)

	_, err = client.VerifyTransaction(context.Background(), "ref")
	assert.ErrorIs(t, err, payments.ErrGateway)
}

func TestInitializeTransaction(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "customer@example.com", payload["email"])
		assert.Equal(t, float64(50000), payload["amount"])
		assert.Equal(t, "NGN", payload["currency"])
		assert.Equal(t, "ref-1", payload["reference"])
		assert.Equal(t, "user-1", payload["metadata"].(map[string]interface{})["userId"])

		_, _ = io.WriteString(w, `{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/0peioxfhpn","access_code":"0peioxfhpn","reference":"ref-1"}}`)
	})

	result, err := client.InitializeTransaction(context.Background(), &payments.InitializeRequest{
		Email:     "customer@example.com",
		Amount:    50000,
		Reference: "ref-1",
		Metadata:  map[string]interface{}{"userId": "user-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "0peioxfhpn", result.AccessCode)
	assert.Equal(t, "https://checkout.paystack.com/0peioxfhpn", result.AuthorizationURL)
	assert.Equal(t, "ref-1", result.Reference)
}

func TestInitializeTransaction_Rejected(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"status":false,"message":"Invalid Email Address Passed"}`)
	})

	_, err := client.InitializeTransaction(context.Background(), &payments.InitializeRequest{Email: "x", Amount: 1})
	assert.ErrorIs(t, err, payments.ErrRejected)
}

func TestChargeAuthorization(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/charge_authorization", r.URL.Path)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "AUTH_abc", payload["authorization_code"])

		_, _ = io.WriteString(w, `{"status":true,"message":"Charge attempted","data":{"amount":35247,"status":"success","reference":"ref-9","gateway_response":"Approved"}}`)
	})

	result, err := client.ChargeAuthorization(context.Background(), &payments.ChargeRequest{
		Email:             "customer@example.com",
		Amount:            35247,
		AuthorizationCode: "AUTH_abc",
		Reference:         "ref-9",
	})
	require.NoError(t, err)
	assert.Equal(t, payments.StatusSuccess, result.Status)
	assert.Equal(t, "Approved", result.GatewayResponse)
	assert.Equal(t, "Charge attempted", result.Message)
	assert.Equal(t, int64(35247), result.Amount)
}

func TestChargeAuthorization_RejectedBecomesFailedResult(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"status":false,"message":"Invalid authorization code"}`)
	})

	result, err := client.ChargeAuthorization(context.Background(), &payments.ChargeRequest{
		Email: "customer@example.com", Amount: 100, AuthorizationCode: "AUTH_bad", Reference: "ref-x",
	})
	require.NoError(t, err)
	assert.Equal(t, payments.StatusFailed, result.Status)
	assert.Equal(t, "Invalid authorization code", result.Message)
	assert.Equal(t, "ref-x", result.Reference)
}

func TestParseMetadata_StringEncoded(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":true,"data":{"status":"success","metadata":"{\"userId\":\"u-2\"}"}}`)
	})

	verified, err := client.VerifyTransaction(context.Background(), "ref")
	require.NoError(t, err)
	assert.Equal(t, "u-2", payments.MetadataString(verified.Metadata, payments.MetadataUserID))
}
