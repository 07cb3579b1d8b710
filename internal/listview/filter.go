// Package listview derives what the list screens show: filtered, joined
// and truncated views over the locally held collections, plus the per
// screen statistics.
package listview

import (
	"fmt"
	"strings"
)

// PageSize caps how many rows a screen renders.
const PageSize = 50

// NotAvailable is rendered for references that cannot be resolved.
const NotAvailable = "Not available"

// Query is the search box and status dropdown of a list screen. Zero values
// match everything.
type Query struct {
	Search string
	Status string
}

// Projection exposes the searchable text of a record and its status.
type Projection[T any] func(rec T) (fields []string, status string)

// Filter keeps the records whose fields contain the search term
// (case-insensitive) and whose status equals the status filter. Order is
// preserved.
func Filter[T any](items []T, q Query, project Projection[T]) []T {
	term := strings.ToLower(q.Search)
	out := make([]T, 0, len(items))

	for _, rec := range items {
		fields, status := project(rec)
		if q.Status != "" && status != q.Status {
			continue
		}
		if term != "" && !containsAny(fields, term) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func containsAny(fields []string, lowerTerm string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), lowerTerm) {
			return true
		}
	}
	return false
}

// Page is the slice of a filtered view that gets rendered.
type Page[T any] struct {
	Rows  []T
	Total int
}

func Paginate[T any](items []T) Page[T] {
	rows := items
	if len(rows) > PageSize {
		rows = rows[:PageSize]
	}
	return Page[T]{Rows: rows, Total: len(items)}
}

func (p Page[T]) Truncated() bool {
	return p.Total > len(p.Rows)
}

// Banner is the informational line shown when matches were cut off, or
// empty when every match is rendered.
func (p Page[T]) Banner() string {
	if !p.Truncated() {
		return ""
	}
	return fmt.Sprintf("Showing the first %d of %d matches. Use the filters to narrow the search.", len(p.Rows), p.Total)
}
