// Package app wires configuration, logging and the ticket client into the
// larkdocs CLI commands.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/larkdocs/internal/cmd/application"
	"github.com/agentstation/larkdocs/internal/server"
	"github.com/agentstation/larkdocs/internal/ticket"
	"github.com/agentstation/larkdocs/pkg/errors"
)

// App holds the CLI's configuration and shared dependencies.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config       *Config
	flags        *Flags
	logger       *zerolog.Logger
	customLogger bool

	mu      sync.Mutex
	tickets ticket.Source
}

// Flags are the global command-line flags.
type Flags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
	NoColor    bool
	Format     string
	LogLevel   string
}

// Option configures an App.
type Option func(*App) error

// WithConfig sets the configuration instead of loading it.
func WithConfig(cfg *Config) Option {
	return func(a *App) error {
		a.config = cfg
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		a.customLogger = true
		return nil
	}
}

// WithTickets sets the ticket source instead of building one from the
// configured credentials.
func WithTickets(src ticket.Source) Option {
	return func(a *App) error {
		a.tickets = src
		return nil
	}
}

// New creates an App with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	a := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		flags:   &Flags{},
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	if a.config == nil {
		cfg, err := LoadConfig("")
		if err != nil {
			return nil, err
		}
		a.config = cfg
	}
	if a.logger == nil {
		logger := NewLogger(a.config, a.flags)
		a.logger = &logger
	}
	return a, nil
}

// Version returns the version string.
func (a *App) Version() string { return a.version }

// Commit returns the git commit hash.
func (a *App) Commit() string { return a.commit }

// Date returns the build date.
func (a *App) Date() string { return a.date }

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string { return a.builtBy }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// OutputFormat returns the --format flag value.
func (a *App) OutputFormat() string { return a.flags.Format }

// AppID returns the configured app id.
func (a *App) AppID() string { return a.config.AppID }

// JSAPIList returns the configured default jsApiList.
func (a *App) JSAPIList() []string { return a.config.JSAPIList }

// ServerConfig returns the server settings from configuration.
func (a *App) ServerConfig() server.Config { return a.config.ServerConfig() }

// Tickets returns the ticket client, creating it on first use.
func (a *App) Tickets() (ticket.Source, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.tickets != nil {
		return a.tickets, nil
	}
	if !a.config.HasCredentials() {
		return nil, errors.NewConfigError("lark",
			"app credentials are not configured; set LARK_APP_ID and LARK_APP_SECRET", nil)
	}

	opts := []ticket.Option{ticket.WithLogger(a.logger)}
	if a.config.BaseURL != "" {
		opts = append(opts, ticket.WithBaseURL(a.config.BaseURL))
	}
	client, err := ticket.New(
		ticket.Credentials{AppID: a.config.AppID, AppSecret: a.config.AppSecret},
		opts...,
	)
	if err != nil {
		return nil, err
	}
	a.tickets = client
	return client, nil
}

// Shutdown releases resources held by the App.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if c, ok := a.tickets.(*ticket.Client); ok {
		c.Invalidate()
	}
	return nil
}

var _ application.Application = (*App)(nil)
