// Package cache provides the idempotency stores used to suppress duplicate
// webhook deliveries, backed by Redis or by process memory.
package cache
