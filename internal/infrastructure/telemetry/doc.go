// Package telemetry sets up OpenTelemetry tracing and the Prometheus
// collectors shared by the HTTP layer, the Paystack client, the webhook
// processor and the reconciler.
package telemetry
