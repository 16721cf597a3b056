// Package events provides commands that describe the widget event catalogue.
package events

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	md "github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/agentstation/larkdocs/internal/cmd/application"
	"github.com/agentstation/larkdocs/internal/cmd/output"
	"github.com/agentstation/larkdocs/pkg/errors"
	"github.com/agentstation/larkdocs/pkg/events"
)

// Entry is one catalogued event as shown by the CLI.
type Entry struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Args string `json:"args,omitempty"`
	Type string `json:"type,omitempty"`
}

// NewCommand creates the events command and its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "events",
		GroupID: "config",
		Short:   "Describe the events the document component understands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newListCommand(app), newDocsCommand())
	return cmd
}

func newListCommand(app application.Application) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogued capabilities and notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := List(kind)
			if err != nil {
				return err
			}
			return output.Render(cmd.OutOrStdout(), app.OutputFormat(), entries)
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "only list capability or notification events")
	return cmd
}

func newDocsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "docs",
		Short: "Write a Markdown reference of the event catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return WriteDocs(cmd.OutOrStdout())
		},
	}
}

// List returns the catalogue entries of kind, or all of them when kind is
// empty.
func List(kind string) ([]Entry, error) {
	var names []events.Event
	switch strings.ToLower(kind) {
	case "":
		names = append(events.Capabilities(), events.Notifications()...)
	case events.Capability.String():
		names = events.Capabilities()
	case events.Notification.String():
		names = events.Notifications()
	default:
		return nil, errors.NewValidationError("kind", kind, "must be capability or notification")
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, entry(events.Lookup(name)))
	}
	return entries, nil
}

func entry(spec events.Spec) Entry {
	e := Entry{Name: spec.Event.String(), Kind: spec.Kind.String()}
	switch spec.Kind {
	case events.Capability:
		args := make([]string, 0, len(spec.Args))
		for _, a := range spec.Args {
			args = append(args, argString(a))
		}
		e.Args = strings.Join(args, ", ")
		e.Type = typeName(spec.Data)
	case events.Notification:
		e.Type = typeName(spec.Payload)
	}
	return e
}

func argString(a events.Arg) string {
	typ := a.Type.String()
	if a.Object != nil {
		typ = typeName(a.Object)
	}
	if a.Optional {
		return fmt.Sprintf("%s?: %s", a.Name, typ)
	}
	return fmt.Sprintf("%s: %s", a.Name, typ)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	return strings.ReplaceAll(t.String(), "events.", "")
}

// WriteDocs writes the catalogue as a Markdown document with one table per
// event kind.
func WriteDocs(w io.Writer) error {
	caps, _ := List(events.Capability.String())
	notes, _ := List(events.Notification.String())

	doc := md.NewMarkdown(w).
		H1("Document component events").
		PlainTextf("%d capabilities are invoked and answer with a `{code, msg, data}` envelope. "+
			"%d notifications are registered and deliver a payload to each handler.", len(caps), len(notes)).
		LF()

	capRows := make([][]string, 0, len(caps))
	for _, e := range caps {
		capRows = append(capRows, []string{md.Code(e.Name), e.Args, e.Type})
	}
	doc.H2("Capabilities").
		Table(md.TableSet{Header: []string{"Event", "Arguments", "Response data"}, Rows: capRows})

	noteRows := make([][]string, 0, len(notes))
	for _, e := range notes {
		noteRows = append(noteRows, []string{md.Code(e.Name), e.Type})
	}
	doc.H2("Notifications").
		Table(md.TableSet{Header: []string{"Event", "Payload"}, Rows: noteRows})

	return doc.Build()
}
