// Package config holds the environment-driven application configuration.
package config

import "time"

// DB configures the relational store.
type DB struct {
	Url string `envconfig:"URL"`
}

// HTTP configures the Fiber server.
type HTTP struct {
	Addr         string        `envconfig:"ADDR" default:":3000"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
}

// Ledger configures the atomic operation coordinator.
type Ledger struct {
	// MaxConflictRetries bounds how often an atomic unit is retried against
	// fresh state after a concurrency-token mismatch before the conflict is
	// surfaced to the caller.
	MaxConflictRetries int `envconfig:"MAX_CONFLICT_RETRIES" default:"3"`
}

// App is the root configuration, loaded from the environment with the
// BANKLEDGER_ prefix.
type App struct {
	Env    string `envconfig:"ENV" default:"development"`
	DB     DB     `envconfig:"DB"`
	HTTP   HTTP   `envconfig:"HTTP"`
	Ledger Ledger `envconfig:"LEDGER"`
}
