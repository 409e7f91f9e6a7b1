package httpclient

import (
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config represents HTTP client configuration options
type Config struct {
	Timeout   time.Duration     `json:"timeout" yaml:"timeout" validate:"gt=0"`
	UserAgent string            `json:"user_agent" yaml:"user_agent"`
	Headers   map[string]string `json:"headers" yaml:"headers"`

	// TLS configuration
	TLSConfig *TLSConfig `json:"tls" yaml:"tls"`

	// Rate limiting configuration; nil disables the limiter
	RateLimitConfig *RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`

	// Connection pool configuration
	PoolConfig *PoolConfig `json:"pool" yaml:"pool"`
}

// TLSConfig defines TLS security settings
type TLSConfig struct {
	InsecureSkipVerify bool   `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	MinVersion         uint16 `json:"min_version" yaml:"min_version"`
	RootCAFile         string `json:"root_ca_file" yaml:"root_ca_file"`
}

// RateLimitConfig defines rate limiting behavior
type RateLimitConfig struct {
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" validate:"gt=0"`
	BurstSize         int     `json:"burst_size" yaml:"burst_size" validate:"gt=0"`
}

// PoolConfig defines connection pool settings
type PoolConfig struct {
	MaxIdleConns        int           `json:"max_idle_conns" yaml:"max_idle_conns" validate:"gte=0"`
	MaxIdleConnsPerHost int           `json:"max_idle_conns_per_host" yaml:"max_idle_conns_per_host" validate:"gte=0"`
	IdleConnTimeout     time.Duration `json:"idle_conn_timeout" yaml:"idle_conn_timeout" validate:"gte=0"`
	DialTimeout         time.Duration `json:"dial_timeout" yaml:"dial_timeout" validate:"gte=0"`
	KeepAlive           time.Duration `json:"keep_alive" yaml:"keep_alive" validate:"gte=0"`
}

// DefaultConfig returns a secure default configuration
func DefaultConfig() *Config {
	return &Config{
		Timeout:   30 * time.Second,
		UserAgent: "delphi-notify/1.0 (https://cybermonkey.net.au)",
		Headers:   make(map[string]string),

		TLSConfig: &TLSConfig{
			InsecureSkipVerify: false,
			MinVersion:         tls.VersionTLS12,
		},

		PoolConfig: &PoolConfig{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
			DialTimeout:         5 * time.Second,
			KeepAlive:           30 * time.Second,
		},
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *Config {
	config := DefaultConfig()
	config.Timeout = 5 * time.Second
	config.PoolConfig.DialTimeout = 1 * time.Second
	return config
}

var validate = validator.New()

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ConfigError{Field: fe.Namespace(), Message: fmt.Sprintf("failed %q check (got %v)", fe.Tag(), fe.Value())}
	}
	return err
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config field %s: %s", e.Field, e.Message)
}
