package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/larkdocs/internal/server"
	"github.com/agentstation/larkdocs/internal/ticket"
	"github.com/agentstation/larkdocs/pkg/errors"
)

// Mock is an Application for tests. Nil function fields fall back to
// zero values, except Tickets which fails like an unconfigured app.
type Mock struct {
	TicketsFunc      func() (ticket.Source, error)
	AppIDValue       string
	JSAPIListValue   []string
	ServerConfigFunc func() server.Config
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
}

// Tickets returns the mock ticket source.
func (m *Mock) Tickets() (ticket.Source, error) {
	if m.TicketsFunc != nil {
		return m.TicketsFunc()
	}
	return nil, errors.NewConfigError("lark", "app id and app secret are not configured", nil)
}

// AppID returns AppIDValue.
func (m *Mock) AppID() string { return m.AppIDValue }

// JSAPIList returns JSAPIListValue.
func (m *Mock) JSAPIList() []string { return m.JSAPIListValue }

// ServerConfig returns the mock config or server.DefaultConfig.
func (m *Mock) ServerConfig() server.Config {
	if m.ServerConfigFunc != nil {
		return m.ServerConfigFunc()
	}
	cfg := server.DefaultConfig()
	cfg.AppID = m.AppIDValue
	return cfg
}

// Logger returns the mock logger or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the mock format or "json".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "json"
}

// Version returns the mock version or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }

var _ Application = (*Mock)(nil)
