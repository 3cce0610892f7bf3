// Package match ranks catalog entries against an interactive search query.
//
// Ranking combines a fuzzy subsequence score with strong token-level bonuses,
// so whole-word hits on the command name dominate scattered character
// matches, and multi-word queries reward order and adjacency.
package match

import (
	"sort"
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"

	"github.com/cristianoliveira/quickfire/internal/catalog"
)

// Bonus weights, from weakest to strongest tier. Name-token hits outweigh
// description hits, full coverage outweighs individual hits, and phrase-level
// structure outweighs everything else.
const (
	fuzzyWeight          = 10
	exactNameBonus       = 12_000
	partialNameBonus     = 6_000
	coverageBonus        = 10_000
	descriptionBonus     = 2_500
	allTermsInNameBonus  = 35_000
	orderedInNameBonus   = 10_000
	contiguousNameBonus  = 10_000
	phraseSubstringBonus = 15_000

	internalContainsBonus = 10_000
)

// Engine ranks entries. Aliases maps a normalized alias to its provider name;
// UnaliasedProviders holds lowercased provider names reachable by their raw
// name because no alias shadows them.
type Engine struct {
	Aliases            map[string]string
	UnaliasedProviders map[string]struct{}
}

// NewEngine builds an engine from the configured aliases and the providers
// present in the catalog. A provider with a configured alias can only be
// selected through that alias.
func NewEngine(aliases map[string]string, entries []catalog.Entry) *Engine {
	aliased := make(map[string]struct{}, len(aliases))
	for _, provider := range aliases {
		aliased[strings.ToLower(provider)] = struct{}{}
	}

	unaliased := make(map[string]struct{})
	for _, entry := range entries {
		name := strings.ToLower(entry.Provider)
		if _, ok := aliased[name]; !ok {
			unaliased[name] = struct{}{}
		}
	}

	return &Engine{Aliases: aliases, UnaliasedProviders: unaliased}
}

// Score carries the composite rank and the raw fuzzy component used for
// tie-breaking.
type Score struct {
	Total int64
	Fuzzy int64
}

// Rank returns the indices of entries matching query, best first. The boost
// callback contributes the per-entry usage bonus. An unknown provider
// selector yields no results.
func (e *Engine) Rank(entries []catalog.Entry, query string, boost func(catalog.Entry) int64) []int {
	provider, rest, unknown := e.ParseProviderFilter(query)
	if unknown {
		return nil
	}
	query = rest

	if strings.TrimSpace(query) == "" {
		return e.rankByUsage(entries, provider, boost)
	}

	queryTerms := tokenize(query)

	type ranked struct {
		index int
		total int64
		fuzzy int64
		name  string
	}
	var scored []ranked

	for index, entry := range entries {
		if provider != "" && !strings.EqualFold(entry.Provider, provider) {
			continue
		}
		score, ok := scoreEntry(query, queryTerms, entry)
		if !ok {
			continue
		}
		scored = append(scored, ranked{
			index: index,
			total: score.Total + boost(entry),
			fuzzy: score.Fuzzy,
			name:  strings.ToLower(entry.Name),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].total != scored[j].total {
			return scored[i].total > scored[j].total
		}
		if scored[i].fuzzy != scored[j].fuzzy {
			return scored[i].fuzzy > scored[j].fuzzy
		}
		return scored[i].name < scored[j].name
	})

	indices := make([]int, len(scored))
	for i, entry := range scored {
		indices[i] = entry.index
	}
	return indices
}

// rankByUsage orders the full (possibly provider-filtered) catalog by usage
// boost, then case-insensitive name.
func (e *Engine) rankByUsage(entries []catalog.Entry, provider string, boost func(catalog.Entry) int64) []int {
	type ranked struct {
		index int
		boost int64
		name  string
	}
	var ordered []ranked

	for index, entry := range entries {
		if provider != "" && !strings.EqualFold(entry.Provider, provider) {
			continue
		}
		ordered = append(ordered, ranked{index, boost(entry), strings.ToLower(entry.Name)})
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].boost != ordered[j].boost {
			return ordered[i].boost > ordered[j].boost
		}
		return ordered[i].name < ordered[j].name
	})

	indices := make([]int, len(ordered))
	for i, entry := range ordered {
		indices[i] = entry.index
	}
	return indices
}

// ParseProviderFilter splits a ":selector rest" query. The selector resolves
// through configured aliases first, then raw provider names that have no
// alias. Unknown selectors are reported so the caller can show an empty list.
func (e *Engine) ParseProviderFilter(query string) (provider, rest string, unknown bool) {
	trimmed := strings.TrimLeft(query, " \t")
	if !strings.HasPrefix(trimmed, ":") {
		return "", query, false
	}

	after := trimmed[1:]
	aliasEnd := strings.IndexFunc(after, isSpace)
	if aliasEnd < 0 {
		aliasEnd = len(after)
	}
	alias := strings.ToLower(strings.TrimSpace(after[:aliasEnd]))
	remaining := strings.TrimLeft(after[aliasEnd:], " \t")

	if alias == "" {
		return "", query, false
	}

	if provider, ok := e.Aliases[alias]; ok {
		return provider, remaining, false
	}
	if _, ok := e.UnaliasedProviders[alias]; ok {
		return alias, remaining, false
	}
	return "", remaining, true
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

// scoreEntry computes the composite score for one entry, or reports no match.
func scoreEntry(query string, queryTerms []string, entry catalog.Entry) (Score, bool) {
	haystack := strings.ToLower(entry.Name)
	if entry.Description != "" {
		haystack += " " + strings.ToLower(entry.Description)
	}

	fuzzyScore := fuzzyMatch(haystack, strings.ToLower(query))
	if len(queryTerms) == 0 {
		return Score{Total: fuzzyScore * fuzzyWeight, Fuzzy: fuzzyScore}, true
	}

	nameTerms := tokenize(entry.Name)
	haystackTerms := tokenize(haystack)

	var exactNameHits, partialNameHits, coverageHits, descriptionHits int64

	for _, term := range queryTerms {
		matchedName := false
		for _, token := range nameTerms {
			switch tokenMatchQuality(token, term) {
			case 2:
				exactNameHits++
				matchedName = true
			case 1:
				partialNameHits++
				matchedName = true
			}
			if matchedName {
				break
			}
		}
		if matchedName {
			coverageHits++
			continue
		}

		for _, token := range haystackTerms {
			if tokenMatchQuality(token, term) > 0 {
				coverageHits++
				descriptionHits++
				break
			}
		}
	}

	if fuzzyScore == 0 && coverageHits == 0 {
		return Score{}, false
	}

	allTermsInName := true
	for _, term := range queryTerms {
		found := false
		for _, token := range nameTerms {
			if tokenMatchQuality(token, term) > 0 {
				found = true
				break
			}
		}
		if !found {
			allTermsInName = false
			break
		}
	}

	queryPhrase := strings.Join(queryTerms, " ")
	normalizedName := strings.Join(nameTerms, " ")
	phraseMatch := queryPhrase != "" && strings.Contains(normalizedName, queryPhrase)

	total := fuzzyScore*fuzzyWeight +
		exactNameHits*exactNameBonus +
		partialNameHits*partialNameBonus +
		coverageHits*coverageBonus +
		descriptionHits*descriptionBonus
	if allTermsInName {
		total += allTermsInNameBonus
	}
	if termsInOrder(nameTerms, queryTerms) {
		total += orderedInNameBonus
	}
	if termsContiguous(nameTerms, queryTerms) {
		total += contiguousNameBonus
	}
	if phraseMatch {
		total += phraseSubstringBonus
	}

	return Score{Total: total, Fuzzy: fuzzyScore}, true
}

// fuzzyMatch returns a positive subsequence score, or 0 when query is not a
// subsequence of haystack.
func fuzzyMatch(haystack, query string) int64 {
	if query == "" {
		return 0
	}
	matches := fuzzy.Find(query, []string{haystack})
	if len(matches) == 0 {
		return 0
	}
	score := int64(matches[0].Score)
	if score < 1 {
		// Matched, but penalties drove the score down. Matching at all
		// must stay distinguishable from no match.
		score = 1
	}
	return score
}

// tokenize splits raw into lowercase alphanumeric words.
func tokenize(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return !isAlphanumeric(r)
	})
	terms := make([]string, 0, len(fields))
	for _, field := range fields {
		terms = append(terms, strings.ToLower(field))
	}
	return terms
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// tokenMatchQuality grades how well a name token satisfies a query term:
// 2 for an exact match, 1 for a substring hit, 0 otherwise.
func tokenMatchQuality(token, term string) int64 {
	if token == term {
		return 2
	}
	if strings.Contains(token, term) {
		return 1
	}
	return 0
}

// termsInOrder reports whether every query term hits a name token in
// left-to-right order.
func termsInOrder(nameTerms, queryTerms []string) bool {
	if len(queryTerms) == 0 {
		return false
	}

	cursor := 0
	for _, query := range queryTerms {
		found := false
		for cursor < len(nameTerms) {
			matched := tokenMatchQuality(nameTerms[cursor], query) > 0
			cursor++
			if matched {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// termsContiguous reports whether the query terms hit a consecutive run of
// name tokens.
func termsContiguous(nameTerms, queryTerms []string) bool {
	if len(queryTerms) == 0 || len(queryTerms) > len(nameTerms) {
		return false
	}

	for start := 0; start <= len(nameTerms)-len(queryTerms); start++ {
		allMatch := true
		for offset := range queryTerms {
			if tokenMatchQuality(nameTerms[start+offset], queryTerms[offset]) == 0 {
				allMatch = false
				break
			}
		}
		if allMatch {
			return true
		}
	}
	return false
}
