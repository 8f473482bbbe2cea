package value

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Truthy reports whether v counts as true in conditions. Only null and false
// are falsy; 0, "" and [] are truthy.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case nil, Null:
		return false
	case Bool:
		return bool(t)
	default:
		return true
	}
}

// FormatNumber renders integral values without a fractional part.
func FormatNumber(n float64) string {
	switch {
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case math.IsNaN(n):
		return "NaN"
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// ToText returns the textual rendering of v. Markdown values render as the
// text a reader sees; collections render as compact JSON.
func ToText(v Value) string {
	switch t := v.(type) {
	case nil, Null:
		return "null"
	case String:
		return string(t)
	case Number:
		return FormatNumber(float64(t))
	case Bool:
		return strconv.FormatBool(bool(t))
	case *Document:
		return t.Content
	case *Heading:
		return t.Text
	case *Code:
		return t.Content
	case *Link:
		return t.Text
	case *Image:
		return t.Alt
	case *Table:
		return strings.Join(t.Headers, " | ")
	case *List:
		texts := make([]string, len(t.Items))
		for i, item := range t.Items {
			texts[i] = item.Text
		}
		return strings.Join(texts, "\n")
	case Array, *Object:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return ""
	}
}

// ToObject exposes the fields of a markdown value as an Object. Scalars and
// arrays return nil; an Object returns itself.
func ToObject(v Value) *Object {
	switch t := v.(type) {
	case *Object:
		return t
	case *Document:
		o := NewObject().
			Set("type", String(TypeDocument)).
			Set("heading_count", Number(t.HeadingCount)).
			Set("word_count", Number(t.WordCount))
		if t.FrontMatter != nil {
			o.Set("frontmatter", t.FrontMatter)
		}
		return o.Set("content", String(t.Content))
	case *Heading:
		return NewObject().
			Set("type", String(TypeHeading)).
			Set("level", Number(t.Level)).
			Set("text", String(t.Text)).
			Set("line", Number(t.Line)).
			Set("offset", Number(t.Offset)).
			Set("index", Number(t.Index)).
			Set("content", String(t.Content))
	case *Code:
		return NewObject().
			Set("type", String(TypeCode)).
			Set("lang", String(t.Lang)).
			Set("content", String(t.Content)).
			Set("start_line", Number(t.StartLine)).
			Set("end_line", Number(t.EndLine))
	case *Link:
		return NewObject().
			Set("type", String(TypeLink)).
			Set("text", String(t.Text)).
			Set("url", String(t.URL)).
			Set("link_type", String(t.LinkType))
	case *Image:
		return NewObject().
			Set("type", String(TypeImage)).
			Set("alt", String(t.Alt)).
			Set("src", String(t.Src)).
			Set("title", String(t.Title))
	case *Table:
		return NewObject().
			Set("type", String(TypeTable)).
			Set("headers", stringArray(t.Headers)).
			Set("rows", rowsArray(t.Rows)).
			Set("alignments", stringArray(t.Alignments))
	case *List:
		return NewObject().
			Set("type", String(TypeList)).
			Set("ordered", Bool(t.Ordered)).
			Set("items", itemsArray(t.Items))
	default:
		return nil
	}
}

func stringArray(ss []string) Array {
	out := make(Array, len(ss))
	for i, s := range ss {
		out[i] = String(s)
	}
	return out
}

func rowsArray(rows [][]string) Array {
	out := make(Array, len(rows))
	for i, row := range rows {
		out[i] = stringArray(row)
	}
	return out
}

func itemsArray(items []ListItem) Array {
	out := make(Array, len(items))
	for i, item := range items {
		o := NewObject().Set("text", String(item.Text))
		if item.Checked != nil {
			o.Set("checked", Bool(*item.Checked))
		} else {
			o.Set("checked", Null{})
		}
		out[i] = o
	}
	return out
}

// FromYAML converts a decoded YAML node into a Value, keeping mapping order.
func FromYAML(node *yaml.Node) Value {
	if node == nil {
		return Null{}
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null{}
		}
		return FromYAML(node.Content[0])
	case yaml.MappingNode:
		o := NewObject()
		for i := 0; i+1 < len(node.Content); i += 2 {
			o.Set(node.Content[i].Value, FromYAML(node.Content[i+1]))
		}
		return o
	case yaml.SequenceNode:
		out := make(Array, 0, len(node.Content))
		for _, child := range node.Content {
			out = append(out, FromYAML(child))
		}
		return out
	case yaml.AliasNode:
		return FromYAML(node.Alias)
	case yaml.ScalarNode:
		return fromYAMLScalar(node)
	default:
		return Null{}
	}
}

func fromYAMLScalar(node *yaml.Node) Value {
	switch node.ShortTag() {
	case "!!null":
		return Null{}
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err == nil {
			return Bool(b)
		}
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err == nil {
			return Number(f)
		}
	}
	return String(node.Value)
}
