package engine

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdnav-hq/mdnav/pkg/markdown"
	tqlerrors "mdnav-hq/mdnav/pkg/tql/errors"
	"mdnav-hq/mdnav/pkg/tql/value"
)

func newEngine(t *testing.T, content string) *Engine {
	t.Helper()
	doc, err := markdown.New().Parse([]byte(content), "test.md")
	require.NoError(t, err)
	eng, err := New(doc)
	require.NoError(t, err)
	return eng
}

func run(t *testing.T, eng *Engine, query string) []value.Value {
	t.Helper()
	out, err := eng.Execute(query)
	require.NoError(t, err, query)
	return out
}

func texts(t *testing.T, vs []value.Value) []string {
	t.Helper()
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = value.ToText(v)
	}
	return out
}

func queryError(t *testing.T, err error) *tqlerrors.Error {
	t.Helper()
	var qe *tqlerrors.Error
	require.True(t, errors.As(err, &qe), "expected *errors.Error, got %v", err)
	return qe
}

const levels = "# H1\n## H2\n### H3\n"

func TestIdentity(t *testing.T) {
	eng := newEngine(t, levels)
	out := run(t, eng, ".")
	require.Len(t, out, 1)
	doc, ok := out[0].(*value.Document)
	require.True(t, ok)
	assert.Equal(t, 3, doc.HeadingCount)
}

func TestLevelSelection(t *testing.T) {
	eng := newEngine(t, levels)

	out := run(t, eng, ".h2")
	require.Len(t, out, 1)
	h := out[0].(*value.Heading)
	assert.Equal(t, "H2", h.Text)
	assert.Equal(t, 2, h.Level)
	assert.Equal(t, 1, h.Index)

	assert.Equal(t, []string{"H1", "H2", "H3"}, texts(t, run(t, eng, ".h")))
	assert.Empty(t, run(t, eng, ".h5"))
}

func TestIndexing(t *testing.T) {
	eng := newEngine(t, "## H2a\n## H2b\n")

	tests := []struct {
		query string
		want  []string
	}{
		{".h2[0]", []string{"H2a"}},
		{".h2[-1]", []string{"H2b"}},
		{".h2[5]", []string{}},
		{".h2[-5]", []string{}},
		{".h2[0:1]", []string{"H2a"}},
		{".h2[1:]", []string{"H2b"}},
		{".h2[:-1]", []string{"H2a"}},
		{".h2[1:0]", []string{}},
		{".h2[]", []string{"H2a", "H2b"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, texts(t, run(t, eng, tt.query)))
		})
	}
}

func TestFilters(t *testing.T) {
	eng := newEngine(t, "# Hello\n## World\n## Goodbye\n## World Tour\n")

	tests := []struct {
		query string
		want  []string
	}{
		{".h2[World]", []string{"World", "World Tour"}},
		{".h2[world]", []string{"World", "World Tour"}},
		{".h2[orl]", []string{"World", "World Tour"}},
		{`.h2["World"]`, []string{"World"}},
		{`.h2["world"]`, []string{}},
		{".h2[/^Good/]", []string{"Goodbye"}},
		{".h2[World][Tour]", []string{"World Tour"}},
		{".h2[World][1]", []string{"World Tour"}},
		{".h[missing]", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, texts(t, run(t, eng, tt.query)))
		})
	}
}

func TestTypeFilters(t *testing.T) {
	content := "# Code\n\n```go\npackage main\n```\n\n```Rust\nfn main() {}\n```\n\n" +
		"[site](https://example.com) [local](./a.md) [top](#top) [[Wiki]]\n"
	eng := newEngine(t, content)

	assert.Equal(t, []string{"package main\n"}, texts(t, run(t, eng, ".code[go]")))
	assert.Len(t, run(t, eng, ".code[rust]"), 1, "language match ignores case")
	assert.Empty(t, run(t, eng, ".code[python]"))

	assert.Equal(t, []string{"site"}, texts(t, run(t, eng, ".link[external] | .text")))
	assert.Equal(t, []string{"local"}, texts(t, run(t, eng, ".link[relative] | .text")))
	assert.Equal(t, []string{"top"}, texts(t, run(t, eng, ".link[anchor] | .text")))
	assert.Equal(t, []string{"Wiki"}, texts(t, run(t, eng, ".link[wikilink] | .text")))
	assert.Equal(t, []string{"site"}, texts(t, run(t, eng, ".link[example.com] | .text")),
		"links also match on url")
}

const tree = "# H1\n## H2a\n### H3x\n## H2b\n# Other\n## H2c\n"

func TestHierarchy(t *testing.T) {
	eng := newEngine(t, tree)

	tests := []struct {
		query string
		want  []string
	}{
		{".h1 > .h2", []string{"H2a", "H2b", "H2c"}},
		{".h1[H1] > .h2", []string{"H2a", "H2b"}},
		{".h1[H1] >> .h3", []string{"H3x"}},
		{".h1[H1] > .h3", []string{}},
		{".h1[H1] > .h", []string{"H2a", "H2b"}},
		{".h1[H1] >> .h", []string{"H2a", "H3x", "H2b"}},
		{".h2[H2a] > .h3", []string{"H3x"}},
		{".h1[H1] > .h2[-1]", []string{"H2b"}},
		{".h1 > .h2[b]", []string{"H2b"}},
		{".h1[H1] > .h2 > .h3", []string{"H3x"}},
		{".h3 > .h", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, texts(t, run(t, eng, tt.query)))
		})
	}
}

func TestHierarchySkippedLevel(t *testing.T) {
	eng := newEngine(t, "# Top\n### Deep\n## Mid\n### Under\n")
	assert.Equal(t, []string{"Deep"}, texts(t, run(t, eng, ".h1 > .h3")),
		"no heading between the levels, so Deep is a direct child")
	assert.Equal(t, []string{"Deep", "Under"}, texts(t, run(t, eng, ".h1 >> .h3")))
}

func TestHierarchyNonHeadingChildren(t *testing.T) {
	content := "# A\n\n```go\na\n```\n\n## B\n\n```py\nb\n```\n\n# C\n\n```rs\nc\n```\n"
	eng := newEngine(t, content)

	assert.Equal(t, []string{"go"}, texts(t, run(t, eng, ".h1[A] > .code | .lang")))
	assert.Equal(t, []string{"go", "py"}, texts(t, run(t, eng, ".h1[A] >> .code | .lang")))
	assert.Equal(t, []string{"py"}, texts(t, run(t, eng, ".h2 > .code | .lang")))
	assert.Equal(t, []string{"rs"}, texts(t, run(t, eng, ".h1[C] > .code | .lang")))
	assert.Equal(t, []string{"go", "rs"}, texts(t, run(t, eng, ".h1 > .code | .lang")))
}

func TestHierarchyIgnoresNonHeadingParents(t *testing.T) {
	eng := newEngine(t, "# A\n\n```go\nx\n```\n")
	assert.Empty(t, run(t, eng, ".code > .h"))
}

func TestDivisionByZero(t *testing.T) {
	eng := newEngine(t, levels)

	for _, q := range []string{"1 / 0", "5 % 0", ".h1 | .level / 0"} {
		t.Run(q, func(t *testing.T) {
			_, err := eng.Execute(q)
			require.Error(t, err)
			assert.ErrorIs(t, err, tqlerrors.ErrDivisionByZero)
			assert.True(t, queryError(t, err).Span.IsValid())
		})
	}
}

func TestTruthiness(t *testing.T) {
	eng := newEngine(t, levels)

	out := run(t, eng, `[0, "", [], null, false] | .[] | select(.)`)
	assert.Equal(t, []value.Value{value.Number(0), value.String(""), value.Array{}}, out)

	tests := map[string]string{
		`if 0 then "yes" else "no" end`:     "yes",
		`if "" then "yes" else "no" end`:    "yes",
		`if [] then "yes" else "no" end`:    "yes",
		`if null then "yes" else "no" end`:  "no",
		`if false then "yes" else "no" end`: "no",
	}
	for q, want := range tests {
		t.Run(q, func(t *testing.T) {
			assert.Equal(t, []value.Value{value.String(want)}, run(t, eng, q))
		})
	}
}

func TestPipelineFlattening(t *testing.T) {
	eng := newEngine(t, "## a\n## b\n## c\n")
	assert.Equal(t, []value.Value{value.Number(3)}, run(t, eng, "[.h2] | count"))
	assert.Equal(t, []string{"a", "b", "c"}, texts(t, run(t, eng, ".h2 | .text")))
}

func TestUnknownFunction(t *testing.T) {
	eng := newEngine(t, levels)
	_, err := eng.Execute("[.h] | cunt")
	require.Error(t, err)
	assert.ErrorIs(t, err, tqlerrors.ErrUnknownFunction)
	assert.Contains(t, queryError(t, err).Suggestions, "count")
}

func TestInvalidArity(t *testing.T) {
	eng := newEngine(t, levels)
	_, err := eng.Execute("[.h] | limit")
	require.Error(t, err)
	assert.ErrorIs(t, err, tqlerrors.ErrInvalidArity)
	qe := queryError(t, err)
	assert.Equal(t, "limit", qe.Name)
	assert.Equal(t, 0, qe.Got)
}

func TestPropertyNotFound(t *testing.T) {
	eng := newEngine(t, levels)
	_, err := eng.Execute(".h1 | .lvel")
	require.Error(t, err)
	assert.ErrorIs(t, err, tqlerrors.ErrPropertyNotFound)
	qe := queryError(t, err)
	assert.Equal(t, "heading", qe.TypeName)
	assert.Contains(t, qe.Suggestions, "level")
}

func TestInvalidRegex(t *testing.T) {
	eng := newEngine(t, levels)

	_, err := eng.Execute(`.h | select(.text | matches("("))`)
	assert.ErrorIs(t, err, tqlerrors.ErrInvalidRegex)

	_, err = eng.Execute(".h[/(/]")
	assert.Error(t, err)
}

func TestFunctionErrorsCarrySpan(t *testing.T) {
	eng := newEngine(t, levels)
	_, err := eng.Execute(`[.h] | limit("x")`)
	require.Error(t, err)
	assert.ErrorIs(t, err, tqlerrors.ErrTypeMismatch)
	assert.True(t, queryError(t, err).Span.IsValid())
}

func TestOperators(t *testing.T) {
	eng := newEngine(t, levels)

	tests := []struct {
		query string
		want  value.Value
	}{
		{"1 + 2 * 3", value.Number(7)},
		{"(1 + 2) * 3", value.Number(9)},
		{"7 % 4", value.Number(3)},
		{"-2 + 5", value.Number(3)},
		{`"a" + "b"`, value.String("ab")},
		{`"ab" * 2`, value.String("abab")},
		{`"a" ~ 1`, value.String("a1")},
		{"[1] + [2]", value.Array{value.Number(1), value.Number(2)}},
		{"0.1 + 0.2 == 0.3", value.Bool(true)},
		{`"a" < "b"`, value.Bool(true)},
		{"2 >= 3", value.Bool(false)},
		{"1 != 2", value.Bool(true)},
		{"!null", value.Bool(true)},
		{"!0", value.Bool(false)},
		{`null // "d"`, value.String("d")},
		{`false // "d"`, value.String("d")},
		{`"x" // "d"`, value.String("x")},
		{"true and false", value.Bool(false)},
		{"null or 1", value.Bool(true)},
		{"false and (1 / 0)", value.Bool(false)},
		{"true or (1 / 0)", value.Bool(true)},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			out := run(t, eng, tt.query)
			require.Len(t, out, 1)
			assert.True(t, value.Equal(tt.want, out[0]), "got %v", out[0])
		})
	}

	_, err := eng.Execute(`"a" - 1`)
	assert.ErrorIs(t, err, tqlerrors.ErrTypeMismatch)
}

func TestBroadcastOperators(t *testing.T) {
	eng := newEngine(t, levels)
	assert.Equal(t, []string{"2", "3", "4"}, texts(t, run(t, eng, ".h | .level + 1")))
	assert.Equal(t, []string{"H2", "H3"}, texts(t, run(t, eng, ".h | select(.level > 1) | .text")))
}

func TestConstructors(t *testing.T) {
	eng := newEngine(t, "# T\n## a\n## b\n")

	out := run(t, eng, "{title: (.h1 | .text), subs: (.h2 | .text), none: .h5}")
	require.Len(t, out, 1)
	obj := out[0].(*value.Object)
	assert.Equal(t, []string{"title", "subs", "none"}, obj.Keys())

	title, _ := obj.Get("title")
	assert.Equal(t, value.String("T"), title)
	subs, _ := obj.Get("subs")
	assert.Equal(t, value.Array{value.String("a"), value.String("b")}, subs,
		"several results collapse into an array")
	none, _ := obj.Get("none")
	assert.Equal(t, value.Null{}, none)

	arr := run(t, eng, "[.h | .level]")
	assert.Equal(t, []value.Value{value.Array{value.Number(1), value.Number(2), value.Number(2)}}, arr)

	assert.Equal(t, []value.Value{value.Array{}}, run(t, eng, "[.h6]"))
}

func TestPostfixIndex(t *testing.T) {
	eng := newEngine(t, levels)

	assert.Equal(t, []string{"H2"}, texts(t, run(t, eng, "[.h | .text] | .[1]")))
	assert.Equal(t, []string{"H3"}, texts(t, run(t, eng, "[.h | .text] | .[-1]")))
	assert.Empty(t, run(t, eng, "[.h | .text] | .[9]"))
	assert.Equal(t, []string{"H1", "H2", "H3"}, texts(t, run(t, eng, "[.h | .text] | .[]")))
	assert.Equal(t, []string{"el"}, texts(t, run(t, eng, `"hello" | .[1:3]`)))
	assert.Equal(t, []string{"o"}, texts(t, run(t, eng, `"hello" | .[-1]`)))

	_, err := eng.Execute(".h1 | .[0]")
	assert.ErrorIs(t, err, tqlerrors.ErrTypeMismatch)
}

func TestMultipleExpressions(t *testing.T) {
	eng := newEngine(t, levels)
	assert.Equal(t, []string{"H1", "H3"}, texts(t, run(t, eng, ".h1 | .text, .h3 | .text")))
}

func TestConditionalWithoutElse(t *testing.T) {
	eng := newEngine(t, levels)
	out := run(t, eng, `.h | if .level == 1 then "top" end`)
	require.Len(t, out, 3)
	assert.Equal(t, value.String("top"), out[0])
	assert.Equal(t, "H2", value.ToText(out[1]))
}

func TestFrontMatter(t *testing.T) {
	eng := newEngine(t, "---\ntitle: Guide\ntags: [a, b]\n---\n# Guide\n")

	assert.Equal(t, []string{"Guide"}, texts(t, run(t, eng, ".frontmatter | .title")))
	assert.Equal(t, []string{"b"}, texts(t, run(t, eng, ".frontmatter | .tags | .[1]")))
	assert.Equal(t, []value.Value{value.Null{}}, run(t, eng, ".frontmatter | .missing"))
	assert.Equal(t, []value.Value{value.Null{}}, run(t, eng, ".frontmatter | .missing | .deeper"))

	plain := newEngine(t, "# No front matter\n")
	assert.Empty(t, run(t, plain, ".frontmatter"))
}

func TestInvalidFrontMatterKeepsDocumentQueryable(t *testing.T) {
	doc, err := markdown.New().Parse([]byte("---\ntitle: [unclosed\n---\n# H\n"), "broken.md")
	require.NoError(t, err)

	var logs bytes.Buffer
	eng, err := New(doc, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	require.NoError(t, err)

	assert.Equal(t, []string{"H"}, texts(t, run(t, eng, ".h | .text")))
	require.Error(t, eng.Context().FrontMatterError())

	raw := run(t, eng, ".frontmatter | .raw")
	require.Len(t, raw, 1)
	assert.Contains(t, value.ToText(raw[0]), "title: [unclosed")
	assert.NotEmpty(t, texts(t, run(t, eng, ".frontmatter | .error"))[0])

	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "broken.md")
}

func TestAdjacentPropertyChain(t *testing.T) {
	eng := newEngine(t, "# T\n## A\n## B\n")

	assert.Equal(t, []string{"A"}, texts(t, run(t, eng, ".h2[0].text")))
	assert.Equal(t, []string{"A", "B"}, texts(t, run(t, eng, ".h2.text")))
	assert.Equal(t, []string{"A", "B"}, texts(t, run(t, eng, "(.h2).text")))
	assert.Equal(t, []string{"A", "B"}, texts(t, run(t, eng, ".h1 > .h2.text")))
	assert.Equal(t, []value.Value{value.Number(2), value.Number(2)}, run(t, eng, `.h2["B"].level, .h2[/A/].level`))
}

func TestSelectorNamesReadObjectFields(t *testing.T) {
	eng := newEngine(t, "# T\n\n```go\nx\n```\n\n[docs](https://example.com)\n")

	assert.Equal(t, []value.Value{value.Number(1)}, run(t, eng, "{code: 1} | .code"))
	assert.Equal(t, []value.Value{value.String("x")}, run(t, eng, `{a: "x"} | .a`))
	assert.Equal(t, []value.Value{value.Number(20)}, run(t, eng, "{links: [10, 20]} | .links[1]"))

	assert.Equal(t, []string{"go"}, texts(t, run(t, eng, "{title: 1} | .code | .lang")),
		"objects without the key still select document elements")
	assert.Equal(t, []string{"go"}, texts(t, run(t, eng, "{code: 1} | .code[go] | .lang")),
		"filtered selectors always select document elements")
	assert.Equal(t, []string{"https://example.com"}, texts(t, run(t, eng, ".link | .url")))
}

func TestNullEqualsOnlyNull(t *testing.T) {
	eng := newEngine(t, "# T\n")
	assert.Equal(t, []value.Value{value.Bool(false)}, run(t, eng, `null == "null"`))
	assert.Equal(t, []value.Value{value.Bool(true)}, run(t, eng, `null != "null"`))
	assert.Equal(t, []value.Value{value.Bool(true)}, run(t, eng, "null == null"))
}

func TestReservedSelectors(t *testing.T) {
	eng := newEngine(t, "> quote\n\nparagraph\n")
	assert.Empty(t, run(t, eng, ".blockquote"))
	assert.Empty(t, run(t, eng, ".para"))
}

func TestContextExtraction(t *testing.T) {
	content := "# Intro\n\nText ![logo](logo.png)\n\n## Setup\n\n" +
		"> ```sh\n> make\n> ```\n\n" +
		"- [x] one\n- [ ] two\n\n" +
		"| a | b |\n|---|:-:|\n| 1 | 2 |\n"
	eng := newEngine(t, content)
	ctx := eng.Context()

	require.Len(t, ctx.Headings(), 2)
	intro := ctx.Headings()[0]
	assert.Equal(t, "# Intro\n", intro.RawMD[:8])
	assert.Contains(t, intro.Content, "## Setup")
	assert.Equal(t, 1, ctx.Headings()[1].Index)

	require.Len(t, ctx.CodeBlocks(), 1, "code inside a blockquote is surfaced")
	assert.Equal(t, "sh", ctx.CodeBlocks()[0].Lang)

	require.Len(t, ctx.Images(), 1)
	assert.Equal(t, "logo.png", ctx.Images()[0].Src)

	require.Len(t, ctx.Lists(), 1)
	require.NotNil(t, ctx.Lists()[0].Items[0].Checked)
	assert.True(t, *ctx.Lists()[0].Items[0].Checked)

	require.Len(t, ctx.Tables(), 1)
	assert.Equal(t, []string{"none", "center"}, ctx.Tables()[0].Alignments)

	assert.Equal(t, value.Number(2), run(t, eng, "stats | .headings")[0])
}

func TestFunctionsThroughEngine(t *testing.T) {
	eng := newEngine(t, "# B\n## a\n# A\n")

	assert.Equal(t, []string{"A"}, texts(t, run(t, eng, "[.h1] | sort_by(.text) | first | .text")))
	assert.Equal(t, []string{"A"}, texts(t, run(t, eng, `[.h1] | sort_by("text") | first | .text`)))
	assert.Equal(t, []string{"a"}, texts(t, run(t, eng, ".h1[B] | children | .[] | .text")))
	assert.Equal(t, []string{"B"}, texts(t, run(t, eng, ".h2 | parent | .text")))
	assert.Equal(t, []value.Value{value.Number(2)}, run(t, eng, "[.h1] | length"))
}

func TestConcurrentExecute(t *testing.T) {
	eng := newEngine(t, tree)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := eng.Execute(".h1 > .h2 | .text")
			if err == nil && len(out) != 3 {
				err = errors.New("unexpected result count")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestNilDocument(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}
