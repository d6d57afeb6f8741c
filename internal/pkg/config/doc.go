// Package config provides functionality for loading and managing application configuration.
//
// Settings are read from an optional YAML file, overridden by environment
// variables and validated before use. Each concern (logger, database, Paystack,
// Firebase, ...) owns its own settings struct with a Validate method.
package config
