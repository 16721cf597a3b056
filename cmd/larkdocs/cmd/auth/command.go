// Package auth provides the auth command, which fetches the app's
// jsapi_ticket and signs a page URL with it.
package auth

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/larkdocs"
	"github.com/agentstation/larkdocs/internal/cmd/application"
	"github.com/agentstation/larkdocs/internal/cmd/output"
)

// NewCommand creates the auth command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		openID    string
		jsAPIList []string
	)

	cmd := &cobra.Command{
		Use:     "auth <url>",
		GroupID: "platform",
		Short:   "Build a signed AuthConfig for a page URL",
		Long: `Auth fetches the jsapi_ticket of the configured app from the open
platform and prints the AuthConfig a page passes to the document
component. Credentials come from LARK_APP_ID and LARK_APP_SECRET or the
config file.`,
		Example: `  larkdocs auth https://example.com/docs
  larkdocs auth https://example.com/docs --open-id ou_123 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tickets, err := app.Tickets()
			if err != nil {
				return err
			}
			t, err := tickets.JSAPITicket(cmd.Context())
			if err != nil {
				return err
			}

			var opts []larkdocs.AuthOption
			if openID != "" {
				opts = append(opts, larkdocs.WithOpenID(openID))
			}
			switch {
			case len(jsAPIList) > 0:
				opts = append(opts, larkdocs.WithJSAPIList(jsAPIList...))
			case len(app.JSAPIList()) > 0:
				opts = append(opts, larkdocs.WithJSAPIList(app.JSAPIList()...))
			}

			cfg, err := larkdocs.NewAuthConfig(app.AppID(), t.Value, args[0], opts...)
			if err != nil {
				return err
			}
			app.Logger().Debug().
				Str("app_id", cfg.AppID).
				Time("ticket_expires_at", t.ExpiresAt.Time).
				Msg("Issued AuthConfig")
			return output.Render(cmd.OutOrStdout(), app.OutputFormat(), cfg)
		},
	}

	cmd.Flags().StringVar(&openID, "open-id", "", "open_id of the signed-in user")
	cmd.Flags().StringSliceVar(&jsAPIList, "js-api-list", nil, "jsApiList entries (default from config, else DocsComponent)")
	return cmd
}
