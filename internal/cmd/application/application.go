// Package application defines what commands need from the application.
//
// Commands accept the Application interface rather than the concrete App
// so they can be tested with a Mock:
//
//	mock := &application.Mock{
//	    TicketsFunc: func() (ticket.Source, error) {
//	        return fakeTickets, nil
//	    },
//	}
//	cmd := auth.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/larkdocs/internal/server"
	"github.com/agentstation/larkdocs/internal/ticket"
)

// Application provides the dependencies commands need. All methods must
// be safe for concurrent use.
type Application interface {
	// Tickets returns the jsapi_ticket source for the configured app. It
	// fails with a ConfigError when no app credentials are configured.
	Tickets() (ticket.Source, error)

	// AppID returns the configured app id, possibly empty.
	AppID() string

	// JSAPIList returns the configured default jsApiList, possibly empty.
	JSAPIList() []string

	// ServerConfig returns the server settings from config file and
	// environment; command flags are applied on top by the caller.
	ServerConfig() server.Config

	// Logger returns the configured logger.
	Logger() *zerolog.Logger

	// OutputFormat returns the requested output format, possibly empty.
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
