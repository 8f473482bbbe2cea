package functions

import (
	"sort"
	"strconv"

	"mdnav-hq/mdnav/pkg/tql/value"
)

// Aggregations summarize the whole document and ignore the pipe input.
func aggregationBuiltins() []*Descriptor {
	return []*Descriptor{
		{Name: "stats", Family: FamilyAggregation, Arity: Exactly(0),
			Usage: "stats", Help: "element counts for the document", Call: statsFn},
		{Name: "levels", Family: FamilyAggregation, Arity: Exactly(0),
			Usage: "levels", Help: "heading count per level", Call: levelsFn},
		{Name: "langs", Aliases: []string{"languages"}, Family: FamilyAggregation, Arity: Exactly(0),
			Usage: "langs", Help: "code block count per language", Call: langsFn},
		{Name: "types", Family: FamilyAggregation, Arity: Exactly(0),
			Usage: "types", Help: "link count per link type", Call: typesFn},
	}
}

func statsFn(_ []value.Value, env Env) ([]value.Value, error) {
	doc := env.Document()
	words := 0
	if doc != nil {
		words = doc.WordCount
	}
	return one(value.NewObject().
		Set("headings", value.Number(len(env.Headings()))).
		Set("code_blocks", value.Number(len(env.CodeBlocks()))).
		Set("links", value.Number(len(env.Links()))).
		Set("images", value.Number(len(env.Images()))).
		Set("tables", value.Number(len(env.Tables()))).
		Set("lists", value.Number(len(env.Lists()))).
		Set("words", value.Number(words))), nil
}

func levelsFn(_ []value.Value, env Env) ([]value.Value, error) {
	var counts [7]int
	for _, h := range env.Headings() {
		if h.Level >= 1 && h.Level <= 6 {
			counts[h.Level]++
		}
	}
	out := value.NewObject()
	for level := 1; level <= 6; level++ {
		if counts[level] > 0 {
			out.Set("h"+strconv.Itoa(level), value.Number(counts[level]))
		}
	}
	return one(out), nil
}

func langsFn(_ []value.Value, env Env) ([]value.Value, error) {
	keys := make([]string, 0, len(env.CodeBlocks()))
	for _, c := range env.CodeBlocks() {
		lang := c.Lang
		if lang == "" {
			lang = "none"
		}
		keys = append(keys, lang)
	}
	return one(tally(keys)), nil
}

func typesFn(_ []value.Value, env Env) ([]value.Value, error) {
	keys := make([]string, 0, len(env.Links()))
	for _, l := range env.Links() {
		keys = append(keys, l.LinkType)
	}
	return one(tally(keys)), nil
}

// tally counts occurrences and returns them keyed in sorted order.
func tally(keys []string) *value.Object {
	counts := make(map[string]int, len(keys))
	for _, k := range keys {
		counts[k]++
	}
	names := make([]string, 0, len(counts))
	for k := range counts {
		names = append(names, k)
	}
	sort.Strings(names)
	out := value.NewObject()
	for _, k := range names {
		out.Set(k, value.Number(counts[k]))
	}
	return out
}
