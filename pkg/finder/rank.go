package finder

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// RankByName orders a copy of refs by how closely each definition's leading
// name line matches query, best first. Find itself preserves search-hit
// order; ranking is for callers that pick a few definitions to stuff into a
// prompt and want the closest names up front.
func RankByName(query string, refs []FunctionReference) []FunctionReference {
	ranked := make([]FunctionReference, len(refs))
	copy(ranked, refs)

	queryLower := strings.ToLower(query)
	sort.SliceStable(ranked, func(i, j int) bool {
		return nameScore(queryLower, ranked[i]) > nameScore(queryLower, ranked[j])
	})
	return ranked
}

// nameScore returns a similarity score in [0, 1] between the query and the
// definition's name.
func nameScore(queryLower string, ref FunctionReference) float64 {
	name := strings.ToLower(definitionName(ref.Text))
	if name == "" {
		return 0
	}

	if name == queryLower {
		return 1.0
	}
	if strings.Contains(name, queryLower) {
		// Substring match is very strong.
		return 0.95
	}

	dist := levenshtein.Distance(queryLower, name, nil)
	maxLen := float64(len(queryLower))
	if float64(len(name)) > maxLen {
		maxLen = float64(len(name))
	}
	score := 1.0 - float64(dist)/maxLen
	if score < 0 {
		return 0
	}
	return score
}

// definitionName extracts the function name from a definition's first line.
func definitionName(text string) string {
	line := text
	if idx := strings.IndexByte(line, '\n'); idx != -1 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "async ")
	if !strings.HasPrefix(line, "def ") {
		return ""
	}
	line = strings.TrimPrefix(line, "def ")
	if idx := strings.IndexByte(line, '('); idx != -1 {
		line = line[:idx]
	}
	return strings.TrimSpace(line)
}
