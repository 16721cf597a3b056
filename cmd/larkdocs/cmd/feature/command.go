// Package feature provides commands for feature configuration files.
package feature

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/larkdocs/internal/cmd/application"
	"github.com/agentstation/larkdocs/internal/cmd/output"
	"github.com/agentstation/larkdocs/pkg/errors"
	"github.com/agentstation/larkdocs/pkg/feature"
)

// NewCommand creates the feature command and its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "feature",
		GroupID: "config",
		Short:   "Work with feature configuration files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newValidateCommand(app), newPrintCommand(app))
	return cmd
}

func newValidateCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check that feature files only use known keys",
		Long: `Validate parses each YAML or JSON feature file strictly. Unknown keys
are reported, since the component would otherwise ignore them and fall
back to provider defaults.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed int
			for _, path := range args {
				if _, err := feature.Load(path); err != nil {
					failed++
					app.Logger().Debug().Err(err).Str("file", path).Msg("Feature file rejected")
					fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", path)
			}
			if failed > 0 {
				return errors.NewValidationError("file", "", fmt.Sprintf("%d of %d feature files are invalid", failed, len(args)))
			}
			return nil
		},
	}
}

func newPrintCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "print <file>",
		Short: "Print a feature file in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := feature.Load(args[0])
			if err != nil {
				return err
			}
			format := app.OutputFormat()
			if format == "" {
				format = string(output.FormatYAML)
			}
			return output.Render(cmd.OutOrStdout(), format, cfg)
		},
	}
}
