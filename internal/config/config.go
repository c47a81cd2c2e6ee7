package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Version is reported by the health endpoint and the MCP server handshake.
const Version = "1.0.0"

// Defaults and bounds for the service settings. The bounds mirror what the
// provider plan and the in-memory cache can sensibly sustain.
const (
	DefaultAPIURL   = "https://api.openweathermap.org/data/2.5/weather"
	DefaultCapacity = 100
	DefaultTTL      = 300 * time.Second
	DefaultAddr     = ":8080"

	MinCapacity = 1
	MaxCapacity = 1000
	MinTTL      = 1 * time.Second
	MaxTTL      = 86400 * time.Second
)

var ErrMissingAPIKey = errors.New("config: OPENWEATHER_API_KEY must be set")

// Settings is the immutable service configuration, assembled once at startup
// from flags and environment variables and validated before anything runs.
type Settings struct {
	// APIKey authenticates against the weather provider. Required.
	APIKey string
	// APIURL is the provider's current-conditions endpoint.
	APIURL string
	// Capacity is the cache entry limit.
	Capacity int
	// TTL is the cache entry lifetime.
	TTL time.Duration
	// Addr is the HTTP listen address (httpd only).
	Addr string
	// RequestsPerSecond throttles provider calls client-side. 0 disables.
	RequestsPerSecond float64
	// LogFile is the log destination. "-" means stderr.
	LogFile string
}

// Default returns settings with every optional field filled in.
func Default() Settings {
	return Settings{
		APIURL:   DefaultAPIURL,
		Capacity: DefaultCapacity,
		TTL:      DefaultTTL,
		Addr:     DefaultAddr,
	}
}

// Validate reports the first misconfiguration found. Called at startup so a
// bad deployment fails before it serves a single request.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if strings.TrimSpace(s.APIURL) == "" {
		return errors.New("config: provider URL must not be empty")
	}
	if s.Capacity < MinCapacity || s.Capacity > MaxCapacity {
		return fmt.Errorf("config: cache capacity %d out of range [%d, %d]", s.Capacity, MinCapacity, MaxCapacity)
	}
	if s.TTL < MinTTL || s.TTL > MaxTTL {
		return fmt.Errorf("config: cache ttl %s out of range [%s, %s]", s.TTL, MinTTL, MaxTTL)
	}
	if s.RequestsPerSecond < 0 {
		return fmt.Errorf("config: provider rate limit must not be negative")
	}
	return nil
}
