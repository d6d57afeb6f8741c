//go:build unit
// +build unit

package paystack

import (
	"net/http"
	"strings"
	"testing"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	body := []byte(`{"event":"charge.success","data":{"reference":"ref-1"}}`)

	sig := Sign(testSecret, body)
	assert.Len(t, sig, 128)

	assert.True(t, VerifySignature(testSecret, body, sig))
	assert.True(t, VerifySignature(testSecret, body, strings.ToUpper(sig)))
	assert.False(t, VerifySignature("sk_test_other", body, sig))
	assert.False(t, VerifySignature(testSecret, append(body, ' '), sig))
	assert.False(t, VerifySignature(testSecret, body, ""))
}

func TestDecodeWebhook(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	body := []byte(`{"event":"charge.success","data":{"reference":"ref-1","status":"success","amount":5000,"currency":"NGN","gateway_response":"Successful","paid_at":"2024-01-01T10:00:00.000Z","customer":{"email":"c@example.com"},"metadata":{"userId":"user-1"},"authorization":{"authorization_code":"AUTH_1","last4":"1111","reusable":true,"signature":"SIG_1"}}}`)

	event, err := client.DecodeWebhook(body, Sign(testSecret, body))
	require.NoError(t, err)
	assert.Equal(t, payments.EventChargeSuccess, event.Event)
	assert.Equal(t, "ref-1", event.Reference)
	assert.Equal(t, payments.StatusSuccess, event.Transaction.Status)
	assert.Equal(t, int64(5000), event.Transaction.Amount)
	assert.Equal(t, "c@example.com", event.Transaction.Email)
	assert.False(t, event.Transaction.PaidAt.IsZero())
	require.NotNil(t, event.Transaction.Authorization)
	assert.Equal(t, "SIG_1", event.Transaction.Authorization.Signature)
	assert.Equal(t, "user-1", payments.MetadataString(event.Transaction.Metadata, payments.MetadataUserID))
}

func TestDecodeWebhook_RefundReference(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	body := []byte(`{"event":"refund.processed","data":{"status":"processed","transaction_reference":"ref-7","amount":100}}`)
	event, err := client.DecodeWebhook(body, Sign(testSecret, body))
	require.NoError(t, err)
	assert.Equal(t, "ref-7", event.Reference)
}

func TestDecodeWebhook_Errors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	body := []byte(`{"event":"charge.success","data":{}}`)
	_, err := client.DecodeWebhook(body, Sign("sk_test_wrong", body))
	assert.ErrorIs(t, err, payments.ErrInvalidSignature)

	malformed := []byte(`{"event":`)
	_, err = client.DecodeWebhook(malformed, Sign(testSecret, malformed))
	assert.ErrorIs(t, err, payments.ErrInvalidInput)

	noEvent := []byte(`{"data":{}}`)
	_, err = client.DecodeWebhook(noEvent, Sign(testSecret, noEvent))
	assert.ErrorIs(t, err, payments.ErrInvalidInput)
}
