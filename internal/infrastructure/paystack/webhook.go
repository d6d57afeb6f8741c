package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/coolabdulsamad/paystack-integration/internal/domain/payments"

	"github.com/tidwall/gjson"
)

// SignatureHeader carries the webhook HMAC
const SignatureHeader = "x-paystack-signature"

// Sign returns the hex encoded HMAC-SHA512 of body keyed with the secret key
func Sign(secretKey string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares signature against the expected HMAC in constant time
func VerifySignature(secretKey string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	expected := Sign(secretKey, body)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}

// DecodeWebhook authenticates body with the account's secret key and reads the
// event name, the transaction reference and the transaction fields of data.
// Refund events carry the reference as data.transaction_reference.
func (c *Client) DecodeWebhook(body []byte, signature string) (*payments.WebhookEvent, error) {
	if !VerifySignature(c.secretKey, body, signature) {
		return nil, payments.ErrInvalidSignature
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: malformed webhook payload", payments.ErrInvalidInput)
	}

	payload := gjson.ParseBytes(body)
	event := payload.Get("event").String()
	if event == "" {
		return nil, fmt.Errorf("%w: webhook payload has no event", payments.ErrInvalidInput)
	}

	data := payload.Get("data")
	reference := data.Get("reference").String()
	if reference == "" {
		reference = data.Get("transaction_reference").String()
	}

	tx := &payments.VerifiedTransaction{
		Reference:       reference,
		Status:          payments.ParseStatus(data.Get("status").String()),
		Amount:          data.Get("amount").Int(),
		Currency:        data.Get("currency").String(),
		GatewayResponse: data.Get("gateway_response").String(),
		Email:           data.Get("customer.email").String(),
		Authorization:   ParseAuthorization(data.Get("authorization")),
		Metadata:        ParseMetadata(data.Get("metadata")),
		PaidAt:          parseTime(data.Get("paid_at")),
	}

	return &payments.WebhookEvent{
		Event:       event,
		Reference:   reference,
		Transaction: tx,
		Data:        []byte(data.Raw),
	}, nil
}
