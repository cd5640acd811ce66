// Package sift implements the row filtering, column retention, and
// deduplication rules applied to a parsed CSV.
package sift

// Table is the in-memory result of filtering and column retention. Data rows
// are aligned to RetainedHeaders.
type Table struct {
	AllHeaders      []string
	RetainedHeaders []string
	Data            [][]string
}
