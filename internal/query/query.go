// Package query provides the predicate filtering and free-text search
// primitives shared by the record managers.
package query

import "strings"

// Predicate is one equality constraint over a record.
type Predicate[T any] func(T) bool

// Filter returns the records satisfying every predicate, preserving
// input order. An empty predicate list selects everything.
func Filter[T any](records []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(records))
next:
	for _, r := range records {
		for _, p := range preds {
			if !p(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}

// Match reports whether keyword occurs in text, case-insensitively.
// An empty keyword matches everything.
func Match(text, keyword string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(keyword))
}

// HasTag reports whether tag is a member of tags (exact match).
func HasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SearchText joins the searchable fields of a record into the single
// string that Match runs against.
func SearchText(fields ...string) string {
	return strings.Join(fields, " ")
}
