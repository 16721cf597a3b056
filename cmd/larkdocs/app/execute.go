package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/larkdocs/cmd/larkdocs/cmd/auth"
	"github.com/agentstation/larkdocs/cmd/larkdocs/cmd/events"
	"github.com/agentstation/larkdocs/cmd/larkdocs/cmd/feature"
	"github.com/agentstation/larkdocs/cmd/larkdocs/cmd/serve"
	"github.com/agentstation/larkdocs/cmd/larkdocs/cmd/sign"
)

// Execute runs the CLI with args.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.createRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *App) createRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "larkdocs",
		Short:   "Sign and serve document component credentials",
		Version: a.version,
		Long: `larkdocs signs page URLs for the embeddable document component, fetches
jsapi_tickets from the open platform and serves signed AuthConfigs to
browser pages.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	root.AddGroup(
		&cobra.Group{ID: "signing", Title: "Signing Commands:"},
		&cobra.Group{ID: "platform", Title: "Platform Commands:"},
		&cobra.Group{ID: "config", Title: "Configuration Commands:"},
	)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.ConfigFile, "config", "", "config file (default is ./.larkdocs.yaml or $HOME/.larkdocs.yaml)")
	pf.BoolVarP(&a.flags.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	pf.BoolVarP(&a.flags.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	pf.BoolVar(&a.flags.NoColor, "no-color", false, "disable colored output")
	pf.StringVarP(&a.flags.Format, "format", "o", "", "output format: table, json, yaml, text, markdown")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	root.SetVersionTemplate("larkdocs {{.Version}}\n")

	root.AddCommand(
		sign.NewCommand(a),
		sign.NewVerifyCommand(a),
		sign.NewNonceCommand(a),
		sign.NewNormalizeCommand(a),
		auth.NewCommand(a),
		serve.NewCommand(a),
		feature.NewCommand(a),
		events.NewCommand(a),
		a.newVersionCommand(),
	)
	return root
}

// setupCommand runs before every command. It reloads configuration when
// --config was given and rebuilds the logger from the parsed flags.
func (a *App) setupCommand(_ *cobra.Command, _ []string) error {
	if a.flags.ConfigFile != "" {
		cfg, err := LoadConfig(a.flags.ConfigFile)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.config = cfg
		a.tickets = nil
		a.mu.Unlock()
	}

	if !a.customLogger {
		logger := NewLogger(a.config, a.flags)
		a.logger = &logger
	}
	return nil
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("larkdocs %s\n", a.version)
			if a.flags.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}

// ExitOnError prints err to stderr and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
