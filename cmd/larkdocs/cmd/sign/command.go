// Package sign provides the offline signing commands: sign, verify, nonce
// and normalize.
package sign

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/larkdocs/internal/cmd/application"
	"github.com/agentstation/larkdocs/internal/cmd/output"
	"github.com/agentstation/larkdocs/pkg/constants"
	"github.com/agentstation/larkdocs/pkg/errors"
	"github.com/agentstation/larkdocs/pkg/signature"
)

// Result is the output of the sign command.
type Result struct {
	URL       string `json:"url" yaml:"url"`
	Signature string `json:"signature" yaml:"signature"`
	Nonce     string `json:"nonce" yaml:"nonce"`
	Timestamp int64  `json:"timestamp" yaml:"timestamp"`
	Canonical string `json:"canonical,omitempty" yaml:"canonical,omitempty"`
}

// NewCommand creates the sign command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		nonce     string
		timestamp int64
		canonical bool
	)

	cmd := &cobra.Command{
		Use:     "sign <ticket> <url>",
		GroupID: "signing",
		Short:   "Sign a page URL with a jsapi_ticket",
		Long: `Sign computes the SHA-1 signature the document component expects for
a page URL. The URL is normalized first: the fragment is dropped and the
origin is canonicalized.

By default a fresh nonce and the current time are used. Pass --nonce and
--timestamp to reproduce a known signature.`,
		Example: `  larkdocs sign "$TICKET" https://example.com/page
  larkdocs sign t1 https://example.com/page --nonce abc --timestamp 1700000000000 -o yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticket, url := args[0], signature.NormalizeURL(args[1])

			res := Result{URL: url}
			if nonce == "" && timestamp == 0 {
				r, err := signature.CreateSignature(ticket, url)
				if err != nil {
					return err
				}
				res.Signature, res.Nonce, res.Timestamp = r.Signature, r.Nonce, r.Timestamp
			} else {
				if nonce == "" {
					generated, err := signature.GenerateNonce(constants.DefaultNonceLength)
					if err != nil {
						return err
					}
					nonce = generated
				}
				if timestamp == 0 {
					timestamp = time.Now().UnixMilli()
				}
				sig, err := signature.Hash(signature.BuildString(ticket, nonce, timestamp, url))
				if err != nil {
					return err
				}
				res.Signature, res.Nonce, res.Timestamp = sig, nonce, timestamp
			}
			if canonical {
				res.Canonical = signature.BuildString(ticket, res.Nonce, res.Timestamp, url)
			}

			app.Logger().Debug().Str("url", url).Int64("timestamp", res.Timestamp).Msg("Signed URL")
			return output.Render(cmd.OutOrStdout(), app.OutputFormat(), res)
		},
	}

	cmd.Flags().StringVar(&nonce, "nonce", "", "use this nonce instead of a random one")
	cmd.Flags().Int64Var(&timestamp, "timestamp", 0, "use this timestamp (epoch milliseconds) instead of now")
	cmd.Flags().BoolVar(&canonical, "canonical", false, "include the canonical string that was hashed")
	return cmd
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "verify <ticket> <url> <signature> <nonce> <timestamp>",
		GroupID: "signing",
		Short:   "Check a signature against a ticket and URL",
		Args:    cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := strconv.ParseInt(args[4], 10, 64)
			if err != nil {
				return errors.NewValidationError("timestamp", args[4], "must be epoch milliseconds")
			}
			valid, err := signature.Verify(args[0], args[1], signature.Result{
				Signature: args[2],
				Nonce:     args[3],
				Timestamp: ts,
			})
			if err != nil {
				return err
			}
			if err := output.Render(cmd.OutOrStdout(), app.OutputFormat(), map[string]bool{"valid": valid}); err != nil {
				return err
			}
			if !valid {
				return errors.New("signature does not match")
			}
			return nil
		},
	}
	return cmd
}

// NewNonceCommand creates the nonce command.
func NewNonceCommand(app application.Application) *cobra.Command {
	var length, count int

	cmd := &cobra.Command{
		Use:     "nonce",
		GroupID: "signing",
		Short:   "Generate random nonces",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return errors.NewValidationError("count", strconv.Itoa(count), "must be at least 1")
			}
			nonces := make([]string, 0, count)
			for range count {
				n, err := signature.GenerateNonce(length)
				if err != nil {
					return err
				}
				nonces = append(nonces, n)
			}
			return output.Render(cmd.OutOrStdout(), textDefault(app.OutputFormat()), nonces)
		},
	}

	cmd.Flags().IntVarP(&length, "length", "n", constants.DefaultNonceLength, "nonce length")
	cmd.Flags().IntVarP(&count, "count", "c", 1, "number of nonces")
	return cmd
}

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "normalize <url>...",
		GroupID: "signing",
		Short:   "Print URLs the way they are signed",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := make([]string, len(args))
			for i, u := range args {
				urls[i] = signature.NormalizeURL(u)
			}
			return output.Render(cmd.OutOrStdout(), textDefault(app.OutputFormat()), urls)
		},
	}
}

// textDefault makes bare values the default for commands that print lists
// of strings.
func textDefault(format string) string {
	if format == "" {
		return string(output.FormatText)
	}
	return format
}
