package match

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/sahilm/fuzzy"
)

// InternalItem is a slash-command candidate offered while the query starts
// with "/".
type InternalItem struct {
	Name        string
	Description string
}

// RankInternal returns the indices of items matching the query (the text
// after the leading slash), best first. An empty query lists everything in
// name order.
func RankInternal(items []InternalItem, query string) []int {
	normalized := strings.ToLower(strings.TrimSpace(query))

	type ranked struct {
		index int
		total int64
		name  string
	}
	var scored []ranked

	for index, item := range items {
		haystack := strings.ToLower(item.Name + " " + item.Description)

		var fuzzyScore int64 = 1
		if normalized != "" {
			fuzzyScore = internalFuzzy(haystack, normalized)
		}

		contains := normalized != "" && strings.Contains(haystack, normalized)
		if normalized != "" && fuzzyScore <= 0 && !contains {
			continue
		}

		var containsBonus int64
		if contains {
			containsBonus = internalContainsBonus
		}
		scored = append(scored, ranked{index, fuzzyScore*fuzzyWeight + containsBonus, item.Name})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].total != scored[j].total {
			return scored[i].total > scored[j].total
		}
		return scored[i].name < scored[j].name
	})

	indices := make([]int, len(scored))
	for i, entry := range scored {
		indices[i] = entry.index
	}
	return indices
}

func internalFuzzy(haystack, query string) int64 {
	matches := fuzzy.Find(query, []string{haystack})
	if len(matches) == 0 {
		return 0
	}
	score := int64(matches[0].Score)
	if score < 1 {
		score = 1
	}
	return score
}

// Suggest returns the candidate closest to name by edit distance, or "" when
// nothing is close enough to be a plausible typo.
func Suggest(name string, candidates []string) string {
	best := ""
	bestDistance := 0
	for _, candidate := range candidates {
		distance := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(candidate))
		if best == "" || distance < bestDistance {
			best = candidate
			bestDistance = distance
		}
	}
	if best == "" || bestDistance > len(best)/2+1 {
		return ""
	}
	return best
}
