package fluentlogger

import (
	"fmt"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// Config - Fluent Bit forward input address.
type Config struct {
	Host string // "127.0.0.1" or "fluent-bit" inside docker compose
	Port int    // usually 24224
}

// NewClient creates an async client; it does not dial until the first record is posted.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("fluent host is required")
	}
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("fluent port must be positive, got %d", cfg.Port)
	}

	client, err := fluent.New(fluent.Config{
		FluentHost:    cfg.Host,
		FluentPort:    cfg.Port,
		Async:         true,
		MarshalAsJSON: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluent logger: %w", err)
	}

	return client, nil
}
