// Package serve provides the command that runs the signing service.
package serve

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/agentstation/larkdocs/internal/cmd/application"
	"github.com/agentstation/larkdocs/internal/server"
	"github.com/agentstation/larkdocs/internal/ticket"
	"github.com/agentstation/larkdocs/pkg/errors"
)

// NewCommand creates the serve command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "platform",
		Short:   "Run the signing service",
		Long: `Serve starts an HTTP service that hands pages the signed AuthConfig the
document component needs.

Endpoints:
  POST /api/v1/auth          sign a page URL with the app's jsapi_ticket
  POST /api/v1/signature     sign with a caller-supplied ticket
  POST /api/v1/verify        check a signature
  GET  /api/v1/ready         readiness, including ticket expiry
  GET  /api/v1/events/ws     ticket rotation events over WebSocket
  GET  /api/v1/events/stream ticket rotation events over SSE
  GET  /health               liveness

Without app credentials only the endpoints that take a ticket work.`,
		Example: `  # Start on the default port
  larkdocs serve

  # Require an API key and allow one origin
  larkdocs serve --port 3000 --api-key "$KEY" --cors-origins https://app.example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app)
		},
	}

	d := server.DefaultConfig()
	cmd.Flags().IntP("port", "p", d.Port, "server port")
	cmd.Flags().String("host", d.Host, "bind address")
	cmd.Flags().String("prefix", d.PathPrefix, "API path prefix")
	cmd.Flags().Bool("cors", false, "enable CORS for all origins")
	cmd.Flags().StringSlice("cors-origins", nil, "allowed CORS origins (comma-separated)")
	cmd.Flags().String("api-key", "", "require this API key on signing endpoints")
	cmd.Flags().String("auth-header", d.AuthHeader, "API key header name")
	cmd.Flags().Int("rate-limit", d.RateLimit, "requests per minute per IP (0 to disable)")
	cmd.Flags().Duration("refresh-interval", d.RefreshInterval, "background ticket refresh interval (0 to disable)")
	cmd.Flags().Duration("read-timeout", d.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", d.WriteTimeout, "HTTP write timeout (0 keeps event streams open)")
	cmd.Flags().Duration("idle-timeout", d.IdleTimeout, "HTTP idle timeout")
	return cmd
}

func run(cmd *cobra.Command, app application.Application) error {
	logger := app.Logger()

	cfg, err := Config(app.ServerConfig(), cmd.Flags())
	if err != nil {
		return err
	}

	var tickets ticket.Source
	if src, err := app.Tickets(); err == nil {
		tickets = src
	} else if errors.Is(err, errors.ErrInvalidInput) {
		logger.Warn().Err(err).Msg("No app credentials; /auth will answer 503")
	} else {
		return err
	}

	srv, err := server.New(cfg, tickets, logger)
	if err != nil {
		return err
	}
	srv.Start()

	logger.Info().
		Str("addr", cfg.Addr()).
		Str("prefix", cfg.PathPrefix).
		Str("app_id", cfg.AppID).
		Bool("cors", cfg.CORSEnabled).
		Bool("auth", cfg.AuthEnabled).
		Int("rate_limit", cfg.RateLimit).
		Msg("Starting signing service")

	cmd.Printf("Signing service listening on http://%s%s\n", cfg.Addr(), cfg.PathPrefix)
	return srv.ListenAndServe(cmd.Context())
}

// Config applies the flags that were set explicitly on top of base.
func Config(base server.Config, flags *pflag.FlagSet) (server.Config, error) {
	cfg := base
	var err error
	set := func(name string, apply func() error) {
		if err == nil && flags.Changed(name) {
			err = apply()
		}
	}

	set("port", func() (e error) { cfg.Port, e = flags.GetInt("port"); return })
	set("host", func() (e error) { cfg.Host, e = flags.GetString("host"); return })
	set("prefix", func() (e error) { cfg.PathPrefix, e = flags.GetString("prefix"); return })
	set("cors", func() (e error) {
		cfg.CORSEnabled, e = flags.GetBool("cors")
		if cfg.CORSEnabled {
			cfg.CORSOrigins = nil
		}
		return
	})
	set("cors-origins", func() (e error) {
		cfg.CORSOrigins, e = flags.GetStringSlice("cors-origins")
		cfg.CORSEnabled = len(cfg.CORSOrigins) > 0
		return
	})
	set("api-key", func() (e error) {
		cfg.APIKey, e = flags.GetString("api-key")
		cfg.AuthEnabled = cfg.APIKey != ""
		return
	})
	set("auth-header", func() (e error) { cfg.AuthHeader, e = flags.GetString("auth-header"); return })
	set("rate-limit", func() (e error) { cfg.RateLimit, e = flags.GetInt("rate-limit"); return })
	set("refresh-interval", func() (e error) { cfg.RefreshInterval, e = flags.GetDuration("refresh-interval"); return })
	set("read-timeout", func() (e error) { cfg.ReadTimeout, e = flags.GetDuration("read-timeout"); return })
	set("write-timeout", func() (e error) { cfg.WriteTimeout, e = flags.GetDuration("write-timeout"); return })
	set("idle-timeout", func() (e error) { cfg.IdleTimeout, e = flags.GetDuration("idle-timeout"); return })
	if err != nil {
		return server.Config{}, errors.NewConfigError("serve", "read flags", err)
	}

	if err := cfg.Validate(); err != nil {
		return server.Config{}, err
	}
	return cfg, nil
}
