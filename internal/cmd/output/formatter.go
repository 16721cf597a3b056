// Package output renders command results as a table, JSON, YAML or
// Markdown.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	md "github.com/nao1215/markdown"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/larkdocs/pkg/errors"
)

// Format is an output format name.
type Format string

const (
	// FormatTable renders a table.
	FormatTable Format = "table"
	// FormatJSON renders indented JSON.
	FormatJSON Format = "json"
	// FormatYAML renders YAML.
	FormatYAML Format = "yaml"
	// FormatText renders bare values, one per line.
	FormatText Format = "text"
	// FormatMarkdown renders a Markdown table.
	FormatMarkdown Format = "markdown"
)

// Formatter writes data to w.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// FormatterFunc allows functions to implement Formatter.
type FormatterFunc func(io.Writer, any) error

// Format implements Formatter.
func (f FormatterFunc) Format(w io.Writer, data any) error {
	return f(w, data)
}

// NewFormatter returns the formatter for format. Unknown formats render
// as a table.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatText:
		return FormatterFunc(formatText)
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}

// Write renders data to w in the given format.
func Write(w io.Writer, format Format, data any) error {
	return NewFormatter(format).Format(w, data)
}

// Render validates explicit, falls back to DetectFormat when it is empty
// and writes data to w.
func Render(w io.Writer, explicit string, data any) error {
	format, err := ParseFormat(explicit)
	if err != nil {
		return err
	}
	if format == "" {
		format = DetectFormat("")
	}
	return Write(w, format, data)
}

// JSONFormatter outputs JSON.
type JSONFormatter struct {
	Indent string
}

// Format implements Formatter.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(data)
}

// YAMLFormatter outputs YAML.
type YAMLFormatter struct{}

// Format implements Formatter.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	out, err := yaml.MarshalWithOptions(data,
		yaml.Indent(2),
		yaml.IndentSequence(false),
		yaml.UseJSONMarshaler(),
	)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// formatText prints strings and string slices bare, falling back to %v.
func formatText(w io.Writer, data any) error {
	switch v := data.(type) {
	case string:
		_, err := fmt.Fprintln(w, v)
		return err
	case []string:
		_, err := fmt.Fprintln(w, strings.Join(v, "\n"))
		return err
	default:
		_, err := fmt.Fprintf(w, "%v\n", v)
		return err
	}
}

// MarkdownFormatter outputs GitHub flavored Markdown. Tabular data becomes
// a table, strings are written as text and anything else is a fenced JSON
// block.
type MarkdownFormatter struct{}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(w io.Writer, data any) error {
	doc := md.NewMarkdown(w)
	switch v := data.(type) {
	case string:
		doc.PlainText(v)
		return doc.Build()
	case Data:
		return doc.Table(tableSet(v)).Build()
	case *Data:
		return doc.Table(tableSet(*v)).Build()
	}
	if table, ok := toTable(data); ok {
		return doc.Table(tableSet(table)).Build()
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	return doc.CodeBlocks(md.SyntaxHighlight("json"), string(out)).Build()
}

func tableSet(data Data) md.TableSet {
	return md.TableSet{Header: data.Headers, Rows: data.Rows}
}

// Align is a column alignment.
type Align int

const (
	// AlignDefault leaves alignment to the renderer.
	AlignDefault Align = iota
	// AlignLeft aligns left.
	AlignLeft
	// AlignCenter centers.
	AlignCenter
	// AlignRight aligns right.
	AlignRight
)

// Data is a pre-built table.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align
}

// TableFormatter outputs tables. Structs become Property/Value tables and
// slices of structs one row per element; anything else falls back to JSON.
type TableFormatter struct{}

// Format implements Formatter.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case Data:
		return renderTable(w, v)
	case *Data:
		return renderTable(w, *v)
	}
	if table, ok := toTable(data); ok {
		return renderTable(w, table)
	}
	return (&JSONFormatter{Indent: "  "}).Format(w, data)
}

func renderTable(w io.Writer, data Data) error {
	config := tablewriter.Config{}
	if len(data.ColumnAlignment) > 0 {
		aligns := make([]tw.Align, len(data.ColumnAlignment))
		for i, a := range data.ColumnAlignment {
			switch a {
			case AlignLeft:
				aligns[i] = tw.AlignLeft
			case AlignCenter:
				aligns[i] = tw.AlignCenter
			case AlignRight:
				aligns[i] = tw.AlignRight
			default:
				aligns[i] = tw.Skip
			}
		}
		config.Header.Alignment = tw.CellAlignment{PerColumn: aligns}
		config.Row.Alignment = tw.CellAlignment{PerColumn: aligns}
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(config))
	if len(data.Headers) > 0 {
		headers := make([]any, len(data.Headers))
		for i, h := range data.Headers {
			headers[i] = h
		}
		table.Header(headers...)
	}
	for _, row := range data.Rows {
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}
	return table.Render()
}

// toTable converts a struct, a pointer to one, or a non-empty slice of
// structs into table data.
func toTable(data any) (Data, bool) {
	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return Data{}, false
		}
		v = v.Elem()
	}

	switch {
	case v.Kind() == reflect.Struct:
		return structTable(v), true
	case v.Kind() == reflect.Slice && v.Len() > 0 && indirect(v.Index(0)).Kind() == reflect.Struct:
		return sliceTable(v), true
	}
	return Data{}, false
}

func structTable(v reflect.Value) Data {
	data := Data{Headers: []string{"Property", "Value"}}
	for _, f := range fields(v.Type()) {
		data.Rows = append(data.Rows, []string{f.title, cell(v.FieldByIndex(f.index))})
	}
	return data
}

func sliceTable(v reflect.Value) Data {
	fs := fields(indirect(v.Index(0)).Type())
	data := Data{}
	for _, f := range fs {
		data.Headers = append(data.Headers, f.title)
	}
	for i := range v.Len() {
		elem := indirect(v.Index(i))
		row := make([]string, 0, len(fs))
		if !elem.IsValid() {
			data.Rows = append(data.Rows, make([]string, len(fs)))
			continue
		}
		for _, f := range fs {
			row = append(row, cell(elem.FieldByIndex(f.index)))
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

type field struct {
	title string
	index []int
}

// fields lists the exported fields of t, flattening embedded structs.
// Titles come from the json tag, title-cased.
func fields(t reflect.Type) []field {
	caser := cases.Title(language.English)
	var out []field
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() {
			continue
		}
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			continue
		}
		name := sf.Name
		if tag := sf.Tag.Get("json"); tag != "" {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = caser.String(splitWords(tag))
			}
		}
		out = append(out, field{title: name, index: sf.Index})
	}
	return out
}

// splitWords turns snake_case and camelCase into space separated words.
func splitWords(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || r == '-':
			b.WriteByte(' ')
			continue
		case i > 0 && r >= 'A' && r <= 'Z' && s[i-1] >= 'a' && s[i-1] <= 'z':
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func cell(v reflect.Value) string {
	v = indirect(v)
	if !v.IsValid() {
		return ""
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, v.Len())
		for i := range v.Len() {
			parts[i] = fmt.Sprintf("%v", v.Index(i).Interface())
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// DetectFormat returns the explicit format if set, a table on a terminal
// and JSON otherwise.
func DetectFormat(explicit string) Format {
	if explicit != "" {
		return Format(strings.ToLower(explicit))
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}
	return FormatJSON
}

// ParseFormat validates a format name. The empty string is accepted and
// means "detect".
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case FormatTable, FormatJSON, FormatYAML, FormatText, FormatMarkdown, "":
		return format, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", errors.NewValidationError("format", s, "must be one of: table, json, yaml, text, markdown")
	}
}
