// Package httpclient provides HTTP clients with connection pooling shared
// by the translation providers and Telegram file downloads.
package httpclient

import (
	"net/http"
	"time"
)

// Config configures client timeout and connection pooling.
type Config struct {
	Timeout             time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:             30 * time.Second,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}
}

// New creates an HTTP client with connection pooling. Reuse one client per
// host rather than creating a client per request.
func New(cfg Config) *http.Client {
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        cfg.MaxIdleConns,
			MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
			IdleConnTimeout:     cfg.IdleConnTimeout,
		},
	}
}

// NewDefault creates an HTTP client with the default pooling settings.
func NewDefault() *http.Client {
	return New(DefaultConfig())
}
