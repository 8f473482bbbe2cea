package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"mdnav-hq/mdnav/pkg/tql/value"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    OutputFormat
		wantErr bool
	}{
		{name: "plain", want: FormatPlain},
		{name: "text", want: FormatPlain},
		{name: "json", want: FormatJSON},
		{name: "jsonp", want: FormatJSONPretty},
		{name: "JSON-Pretty", want: FormatJSONPretty},
		{name: "jsonl", want: FormatJSONL},
		{name: "markdown", want: FormatMarkdown},
		{name: "tree", want: FormatTree},
		{name: "yml", want: FormatYAML},
		{name: "csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format OutputFormat
		want   string
	}{
		{FormatPlain, "*cli.TextFormatter"},
		{FormatJSON, "*cli.JSONFormatter"},
		{FormatJSONPretty, "*cli.JSONFormatter"},
		{FormatJSONL, "*cli.JSONLinesFormatter"},
		{FormatMarkdown, "*cli.MarkdownFormatter"},
		{FormatTree, "*cli.TreeFormatter"},
		{FormatYAML, "*cli.YAMLFormatter"},
		{"unknown", "*cli.TextFormatter"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			got := typeName(NewFormatter(tt.format))
			if got != tt.want {
				t.Errorf("NewFormatter(%q) type = %s, want %s", tt.format, got, tt.want)
			}
		})
	}
}

func typeName(f Formatter) string {
	switch f.(type) {
	case *TextFormatter:
		return "*cli.TextFormatter"
	case *JSONFormatter:
		return "*cli.JSONFormatter"
	case *JSONLinesFormatter:
		return "*cli.JSONLinesFormatter"
	case *MarkdownFormatter:
		return "*cli.MarkdownFormatter"
	case *TreeFormatter:
		return "*cli.TreeFormatter"
	case *YAMLFormatter:
		return "*cli.YAMLFormatter"
	default:
		return "unknown"
	}
}

func TestFormatters(t *testing.T) {
	heading := &value.Heading{Level: 2, Text: "A", RawMD: "## A\nbody\n"}
	code := &value.Code{Lang: "go", Content: "x\n", StartLine: 4, EndLine: 6}
	link := &value.Link{Text: "Go", URL: "https://go.dev", LinkType: "external"}
	obj := value.NewObject().Set("a", value.Number(1))

	tests := []struct {
		name    string
		format  OutputFormat
		results []value.Value
		want    string
	}{
		{"plain heading", FormatPlain, []value.Value{heading}, "## A\n"},
		{"plain code", FormatPlain, []value.Value{code}, "x\n"},
		{"plain link", FormatPlain, []value.Value{link}, "Go (https://go.dev)\n"},
		{"plain scalars", FormatPlain, []value.Value{value.Number(3), value.String("s"), value.Null{}}, "3\ns\nnull\n"},
		{"json single", FormatJSON, []value.Value{value.Number(3)}, "3\n"},
		{"json several", FormatJSON, []value.Value{value.Number(1), value.String("a")}, "[1,\"a\"]\n"},
		{"json pretty", FormatJSONPretty, []value.Value{obj}, "{\n  \"a\": 1\n}\n"},
		{"jsonl", FormatJSONL, []value.Value{value.Number(1), value.String("a")}, "1\n\"a\"\n"},
		{"markdown", FormatMarkdown, []value.Value{heading, code}, "## A\nbody\n\n```go\nx\n```\n"},
		{"yaml single", FormatYAML, []value.Value{obj}, "a: 1\n"},
		{"yaml several", FormatYAML, []value.Value{value.Number(1), value.String("x")}, "- 1\n- x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewFormatter(tt.format).Format(tt.results)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if string(out) != tt.want {
				t.Errorf("Format() = %q, want %q", string(out), tt.want)
			}
		})
	}
}

func TestEmptyResultsPrintNothing(t *testing.T) {
	for _, format := range Formats() {
		t.Run(string(format), func(t *testing.T) {
			buf := &bytes.Buffer{}
			if err := NewFormatter(format).FormatTo(buf, nil); err != nil {
				t.Fatalf("FormatTo() error = %v", err)
			}
			if buf.Len() != 0 {
				t.Errorf("FormatTo(nil) wrote %q, want nothing", buf.String())
			}
		})
	}
}

func TestJSONFormatterMarkdownValues(t *testing.T) {
	results := []value.Value{
		&value.Heading{Level: 1, Text: "Title", Line: 1},
		&value.Link{Text: "Go", URL: "https://go.dev", LinkType: "external"},
	}
	out, err := (&JSONFormatter{}).Format(results)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Format() produced invalid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded %d values, want 2", len(decoded))
	}
	if decoded[0]["type"] != "heading" || decoded[0]["text"] != "Title" {
		t.Errorf("heading = %v", decoded[0])
	}
	if decoded[1]["link_type"] != "external" {
		t.Errorf("link = %v", decoded[1])
	}
}
