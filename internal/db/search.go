package db

import "github.com/kailas-cloud/jobmatch/internal/domain/search/filter"

// DocumentField is the FT.SEARCH return field holding a whole JSON document.
const DocumentField = "$"

// FuzzyClause matches any of Terms within MaxEdits Levenshtein distance
// in any of Fields.
type FuzzyClause struct {
	Fields   []string
	Terms    []string
	MaxEdits int
}

// TextQuery is the input for a full-text search. Clauses are ORed; Filters
// are applied as a pre-filter. Offset and Limit page through the ranked hits.
type TextQuery struct {
	IndexName    string
	Clauses      []FuzzyClause
	Filters      filter.Expression
	Scorer       string
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
