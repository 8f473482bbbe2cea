package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"mdnav-hq/mdnav/pkg/tql/value"
)

// OutputFormat represents the output format for query results.
type OutputFormat string

const (
	// FormatPlain is human readable text (default).
	FormatPlain OutputFormat = "plain"
	// FormatJSON is compact JSON.
	FormatJSON OutputFormat = "json"
	// FormatJSONPretty is indented JSON.
	FormatJSONPretty OutputFormat = "json-pretty"
	// FormatJSONL is one compact JSON value per line.
	FormatJSONL OutputFormat = "jsonl"
	// FormatMarkdown is the raw markdown of each result.
	FormatMarkdown OutputFormat = "md"
	// FormatTree is an indented outline.
	FormatTree OutputFormat = "tree"
	// FormatYAML is a YAML document.
	FormatYAML OutputFormat = "yaml"
)

var formatAliases = map[string]OutputFormat{
	"plain":       FormatPlain,
	"text":        FormatPlain,
	"json":        FormatJSON,
	"json-pretty": FormatJSONPretty,
	"jsonp":       FormatJSONPretty,
	"jsonl":       FormatJSONL,
	"md":          FormatMarkdown,
	"markdown":    FormatMarkdown,
	"tree":        FormatTree,
	"yaml":        FormatYAML,
	"yml":         FormatYAML,
}

// Formats lists the canonical format names.
func Formats() []OutputFormat {
	return []OutputFormat{FormatPlain, FormatJSON, FormatJSONPretty, FormatJSONL, FormatMarkdown, FormatTree, FormatYAML}
}

// ParseFormat resolves a format name or alias.
func ParseFormat(name string) (OutputFormat, error) {
	f, ok := formatAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		names := make([]string, 0, len(Formats()))
		for _, f := range Formats() {
			names = append(names, string(f))
		}
		return "", fmt.Errorf("unknown output format %q (valid: %s)", name, strings.Join(names, ", "))
	}
	return f, nil
}

// Formatter renders a result stream. An empty stream renders nothing.
type Formatter interface {
	Format(results []value.Value) ([]byte, error)
	FormatTo(w io.Writer, results []value.Value) error
}

// NewFormatter creates a new formatter for the specified format.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatJSONPretty:
		return &JSONFormatter{Indent: true}
	case FormatJSONL:
		return &JSONLinesFormatter{}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	case FormatTree:
		return &TreeFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TextFormatter{}
	}
}

func formatVia(f Formatter, results []value.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.FormatTo(&buf, results); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TextFormatter writes one human readable block per result.
type TextFormatter struct{}

// Format converts results to text format.
func (f *TextFormatter) Format(results []value.Value) ([]byte, error) {
	return formatVia(f, results)
}

// FormatTo writes results to w in text format.
func (f *TextFormatter) FormatTo(w io.Writer, results []value.Value) error {
	for _, v := range results {
		if _, err := fmt.Fprintln(w, PlainText(v)); err != nil {
			return err
		}
	}
	return nil
}

// PlainText renders a single value the way the plain format prints it.
func PlainText(v value.Value) string {
	switch t := v.(type) {
	case *value.Heading:
		return strings.Repeat("#", t.Level) + " " + t.Text
	case *value.Code:
		return strings.TrimSuffix(t.Content, "\n")
	case *value.Link:
		if t.Text == "" || t.Text == t.URL {
			return t.URL
		}
		return t.Text + " (" + t.URL + ")"
	case *value.Image:
		if t.Alt == "" {
			return t.Src
		}
		return t.Alt + " (" + t.Src + ")"
	case *value.Table, *value.List:
		return value.ToMarkdown(v)
	case *value.Document:
		return strings.TrimSuffix(t.Content, "\n")
	default:
		return value.ToText(v)
	}
}

// JSONFormatter formats results as JSON. A single result is written as
// itself, several as an array.
type JSONFormatter struct {
	Indent bool
}

// Format converts results to JSON format.
func (f *JSONFormatter) Format(results []value.Value) ([]byte, error) {
	return formatVia(f, results)
}

// FormatTo writes results to w in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, results []value.Value) error {
	if len(results) == 0 {
		return nil
	}
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	if len(results) == 1 {
		return encoder.Encode(results[0])
	}
	return encoder.Encode(value.Array(results))
}

// JSONLinesFormatter writes one compact JSON value per line.
type JSONLinesFormatter struct{}

// Format converts results to JSON lines.
func (f *JSONLinesFormatter) Format(results []value.Value) ([]byte, error) {
	return formatVia(f, results)
}

// FormatTo writes results to w as JSON lines.
func (f *JSONLinesFormatter) FormatTo(w io.Writer, results []value.Value) error {
	encoder := json.NewEncoder(w)
	for _, v := range results {
		if err := encoder.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

// MarkdownFormatter writes the markdown source of each result, separated
// by blank lines.
type MarkdownFormatter struct{}

// Format converts results to markdown.
func (f *MarkdownFormatter) Format(results []value.Value) ([]byte, error) {
	return formatVia(f, results)
}

// FormatTo writes results to w as markdown.
func (f *MarkdownFormatter) FormatTo(w io.Writer, results []value.Value) error {
	for i, v := range results {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		md := strings.TrimRight(value.ToMarkdown(v), "\n")
		if _, err := io.WriteString(w, md+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// YAMLFormatter formats results as YAML, a sequence when there are several.
type YAMLFormatter struct{}

// Format converts results to YAML.
func (f *YAMLFormatter) Format(results []value.Value) ([]byte, error) {
	return formatVia(f, results)
}

// FormatTo writes results to w as YAML.
func (f *YAMLFormatter) FormatTo(w io.Writer, results []value.Value) error {
	if len(results) == 0 {
		return nil
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	var doc interface{} = []value.Value(results)
	if len(results) == 1 {
		doc = results[0]
	}
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	return encoder.Close()
}
