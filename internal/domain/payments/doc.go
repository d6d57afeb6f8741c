// Package payments defines the card and transaction entities of the Paystack
// integration together with the service, repository and gateway contracts
// that the application layer is built on.
package payments
