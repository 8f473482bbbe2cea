package errors

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// DefaultSuggestionLimit caps the number of names returned by Suggest.
const DefaultSuggestionLimit = 3

// Suggest ranks candidates that look like typos of name. A candidate
// qualifies when name is a case-insensitive subsequence of it, or when the
// edit distance is small relative to the length of name. Results are ordered
// by edit distance, then alphabetically.
func Suggest(name string, candidates []string, limit int) []string {
	if name == "" || len(candidates) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	best := make(map[string]int)
	consider := func(candidate string, dist int) {
		if candidate == name {
			return
		}
		if prev, ok := best[candidate]; !ok || dist < prev {
			best[candidate] = dist
		}
	}

	subsequenceLimit := max(3, len(name))
	for _, rank := range fuzzy.RankFindFold(name, candidates) {
		if rank.Distance <= subsequenceLimit {
			consider(rank.Target, rank.Distance)
		}
	}

	editLimit := max(2, len(name)/3)
	lower := strings.ToLower(name)
	for _, candidate := range candidates {
		dist := fuzzy.LevenshteinDistance(lower, strings.ToLower(candidate))
		if dist <= editLimit {
			consider(candidate, dist)
		}
	}

	names := make([]string, 0, len(best))
	for candidate := range best {
		names = append(names, candidate)
	}
	sort.Slice(names, func(i, j int) bool {
		if best[names[i]] != best[names[j]] {
			return best[names[i]] < best[names[j]]
		}
		return names[i] < names[j]
	})

	if len(names) > limit {
		names = names[:limit]
	}
	return names
}
