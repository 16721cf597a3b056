package server

import (
	"net"
	"strconv"
	"time"

	"github.com/agentstation/larkdocs/internal/matcher"
	"github.com/agentstation/larkdocs/pkg/errors"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// API settings
	PathPrefix string

	// Signing settings. JSAPIList is the default jsApiList of issued
	// AuthConfigs; requests may override it.
	AppID     string
	JSAPIList []string

	// RefreshInterval is how often the jsapi_ticket is re-checked in the
	// background so rotations are pushed to realtime clients. Zero
	// disables the refresher.
	RefreshInterval time.Duration

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// Authentication settings
	AuthEnabled bool
	AuthHeader  string
	APIKey      string

	// RateLimit is requests per minute per IP (0 to disable)
	RateLimit int

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "localhost",
		Port:            8080,
		PathPrefix:      "/api/v1",
		RefreshInterval: time.Minute,
		CORSEnabled:     false,
		CORSOrigins:     []string{},
		AuthEnabled:     false,
		AuthHeader:      "X-API-Key",
		RateLimit:       100,
		ReadTimeout:     10 * time.Second,
		// zero so event streams are not cut off
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return errors.NewConfigError("server", "port out of range: "+strconv.Itoa(c.Port), nil)
	}
	if c.AuthEnabled && c.APIKey == "" {
		return errors.NewConfigError("server", "auth is enabled but no API key is set", nil)
	}
	if c.RateLimit < 0 {
		return errors.NewConfigError("server", "rate limit must not be negative", nil)
	}
	if _, err := matcher.NewSet(c.CORSOrigins); err != nil {
		return errors.NewConfigError("server", "invalid CORS origin", err)
	}
	return nil
}
