package normalize

import (
	"regexp"
	"strings"
)

// Candidate header names for each canonical field. Fixed for every source.
var (
	TeamColumns   = []string{"team", "team name", "participant", "user", "username"}
	DateColumns   = []string{"date of last entry", "last entry", "submission date", "submitted", "date"}
	AUCColumns    = []string{"auc"}
	MRRColumns    = []string{"mrr"}
	NDCG5Columns  = []string{"ndcg@5", "ndcg5", "ndcg 5"}
	NDCG10Columns = []string{"ndcg@10", "ndcg10", "ndcg 10"}
)

var spacePattern = regexp.MustCompile(`\s+`)

// NormalizeKey lowercases and collapses internal whitespace so header
// comparisons ignore formatting differences between exports.
func NormalizeKey(s string) string {
	return spacePattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// ResolveColumn maps a source header list to one of the candidate names.
// Exact (normalized) matches win; only when none exists does a substring
// pass run, where a header qualifies if any candidate is contained in it.
// The first qualifying header in header order is returned, "" when none.
func ResolveColumn(headers []string, candidates []string) string {
	normHeaders := make([]string, len(headers))
	for i, h := range headers {
		normHeaders[i] = NormalizeKey(h)
	}
	normCands := make([]string, len(candidates))
	for i, c := range candidates {
		normCands[i] = NormalizeKey(c)
	}

	for i, nh := range normHeaders {
		for _, c := range normCands {
			if nh == c {
				return headers[i]
			}
		}
	}
	for i, nh := range normHeaders {
		for _, c := range normCands {
			if c != "" && strings.Contains(nh, c) {
				return headers[i]
			}
		}
	}
	return ""
}
