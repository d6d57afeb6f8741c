// Package identity verifies HS256 bearer tokens for deployments and tests
// that do not authenticate through Firebase, and mints such tokens.
package identity
