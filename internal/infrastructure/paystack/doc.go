// Package paystack implements the payments.Gateway on top of the Paystack
// REST API and the HMAC-SHA512 scheme Paystack uses to sign webhooks.
package paystack
