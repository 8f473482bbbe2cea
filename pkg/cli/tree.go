package cli

import (
	"fmt"
	"io"
	"strings"

	"mdnav-hq/mdnav/pkg/tql/value"
)

const (
	treeBranch = "├── "
	treeLast   = "└── "
	treePipe   = "│   "
	treeSpace  = "    "
)

// treeNode is one line of the outline.
type treeNode struct {
	label    string
	level    int
	children []*treeNode
}

// TreeFormatter renders results as an outline. Consecutive headings nest by
// level; arrays and objects expand into their elements.
type TreeFormatter struct{}

// Format converts results to a tree.
func (f *TreeFormatter) Format(results []value.Value) ([]byte, error) {
	return formatVia(f, results)
}

// FormatTo writes results to w as a tree.
func (f *TreeFormatter) FormatTo(w io.Writer, results []value.Value) error {
	roots := buildTree(results)
	for _, root := range roots {
		if _, err := fmt.Fprintln(w, root.label); err != nil {
			return err
		}
		if err := writeChildren(w, root.children, ""); err != nil {
			return err
		}
	}
	return nil
}

func writeChildren(w io.Writer, nodes []*treeNode, prefix string) error {
	for i, n := range nodes {
		connector, next := treeBranch, treePipe
		if i == len(nodes)-1 {
			connector, next = treeLast, treeSpace
		}
		if _, err := fmt.Fprintln(w, prefix+connector+n.label); err != nil {
			return err
		}
		if err := writeChildren(w, n.children, prefix+next); err != nil {
			return err
		}
	}
	return nil
}

func buildTree(results []value.Value) []*treeNode {
	var roots, stack []*treeNode
	for _, v := range results {
		n := nodeOf("", v)
		if n.level == 0 {
			roots = append(roots, n)
			stack = stack[:0]
			continue
		}
		for len(stack) > 0 && stack[len(stack)-1].level >= n.level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, n)
		} else {
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, n)
		}
		stack = append(stack, n)
	}
	return roots
}

func nodeOf(key string, v value.Value) *treeNode {
	prefix := ""
	if key != "" {
		prefix = key + ": "
	}

	switch t := v.(type) {
	case *value.Heading:
		return &treeNode{label: prefix + fmt.Sprintf("h%d %s", t.Level, t.Text), level: t.Level}
	case value.Array:
		n := &treeNode{label: prefix + fmt.Sprintf("[%d]", len(t))}
		for i, el := range t {
			n.children = append(n.children, nodeOf(fmt.Sprintf("%d", i), el))
		}
		return n
	case *value.Object:
		n := &treeNode{label: strings.TrimSuffix(prefix, " ")}
		if n.label == "" {
			n.label = "{}"
		}
		t.Range(func(k string, el value.Value) bool {
			n.children = append(n.children, nodeOf(k, el))
			return true
		})
		return n
	default:
		return &treeNode{label: prefix + leafLabel(v)}
	}
}

func leafLabel(v value.Value) string {
	switch t := v.(type) {
	case *value.Document:
		return fmt.Sprintf("document (%d headings, %d words)", t.HeadingCount, t.WordCount)
	case *value.Code:
		lang := t.Lang
		if lang == "" {
			lang = "plain"
		}
		return fmt.Sprintf("code %s (lines %d-%d)", lang, t.StartLine, t.EndLine)
	case *value.Link:
		return fmt.Sprintf("link %s -> %s [%s]", t.Text, t.URL, t.LinkType)
	case *value.Image:
		return fmt.Sprintf("img %s -> %s", t.Alt, t.Src)
	case *value.Table:
		return fmt.Sprintf("table %d cols x %d rows", len(t.Headers), len(t.Rows))
	case *value.List:
		kind := "list"
		if t.Ordered {
			kind = "ordered list"
		}
		return fmt.Sprintf("%s %d %s", kind, len(t.Items), pluralize(len(t.Items), "item"))
	case value.String:
		return fmt.Sprintf("%q", string(t))
	default:
		return value.ToText(v)
	}
}

func pluralize(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
