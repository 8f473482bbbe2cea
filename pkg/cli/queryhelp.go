package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"mdnav-hq/mdnav/pkg/tql/functions"
)

const grammarHelp = `QUERY SYNTAX

Selectors
  .h  .h1 .. .h6        headings (any level, or one level)
  .code  .code[lang]    code blocks, optionally by language
  .link  .link[type]    links; type is external, relative, anchor, wikilink or email
  .img  .table  .list   images, tables and lists
  .frontmatter          the YAML front matter as an object
  .blockquote  .para    reserved; always empty

  Selector names (h, h1-h6, heading(s), code, link(s), a, img, image(s),
  table(s), list(s), quote, blockquote, para, paragraph, frontmatter, fm)
  read the field of that name when the input is an object that has it:
  {code: 1} | .code is 1. Use ."name" to always read a field.

Filters (after a selector)
  [N]  [-1]             element by index, negative from the end
  [start:end]           slice
  ["exact text"]        exact text match
  [text]                fuzzy text match
  [/regex/]             regular expression match

Combinators
  a > b                 b directly under a (no intermediate heading)
  a >> b                b anywhere in a's section
  a | b                 pipe every result of a into b
  a, b                  concatenate results

Values
  .prop                 property of the input (.text, .level, .lang, .url, ...)
  expr[N] expr[a:b]     index or slice arrays and strings
  expr[]                explode an array
  { key: expr, ... }    build an object
  [ expr, ... ]         collect results into an array
  if c then a else b    conditional
  == != < <= > >=       comparison
  + - * / %  ~          arithmetic, ~ concatenates strings
  and or !  && ||       logic
  a // b                a's truthy results, else b
`

// WriteQueryHelp writes the grammar reference followed by every built-in of
// reg, grouped by family.
func WriteQueryHelp(w io.Writer, reg *functions.Registry) error {
	if _, err := io.WriteString(w, grammarHelp); err != nil {
		return err
	}

	byFamily := make(map[functions.Family][]*functions.Descriptor)
	var order []functions.Family
	for _, d := range reg.Descriptors() {
		if _, seen := byFamily[d.Family]; !seen {
			order = append(order, d.Family)
		}
		byFamily[d.Family] = append(byFamily[d.Family], d)
	}

	if _, err := fmt.Fprintln(w, "\nFUNCTIONS"); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, family := range order {
		fmt.Fprintf(tw, "\n%s\n", titleCase(string(family)))
		for _, d := range byFamily[family] {
			usage := d.Usage
			if usage == "" {
				usage = d.Name
			}
			help := d.Help
			if len(d.Aliases) > 0 {
				help += " (alias: " + strings.Join(d.Aliases, ", ") + ")"
			}
			fmt.Fprintf(tw, "  %s\t%s\n", usage, help)
		}
	}
	return tw.Flush()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
