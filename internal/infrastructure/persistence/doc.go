// Package persistence provides database repository implementations.
// It uses GORM as the ORM layer to store saved cards and Paystack
// transactions in PostgreSQL (SQLite for tests and local runs), and
// golang-migrate for versioned PostgreSQL schema changes.
package persistence
