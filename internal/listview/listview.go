// Package listview implements the live-list pattern shared by the forum feed,
// the inbox, and the admin dashboards: mirror a store subscription into local
// state, derive a filtered view from search text and facets, and gate
// mutating actions behind an explicit confirmation.
package listview

import (
	"strings"
)

// Facet is one active filter: an exact-match value for a named dimension.
type Facet struct {
	Field string
	Value string
}

// Fields describes how to read searchable text and facet values out of an
// item. Search fields are OR'd for substring matching; facet filters are
// AND'd across dimensions.
type Fields[T any] struct {
	Search func(item T) []string
	Facet  func(item T, field string) string
}

// DeriveVisible filters items by case-insensitive substring match over the
// search fields and by exact facet equality, preserving input order. With no
// search text and no filters the input slice is returned as-is.
func DeriveVisible[T any](items []T, search string, filters []Facet, fields Fields[T]) []T {
	search = strings.TrimSpace(search)
	if search == "" && len(filters) == 0 {
		return items
	}

	needle := strings.ToLower(search)
	visible := make([]T, 0, len(items))
	for _, item := range items {
		if needle != "" && !matchesSearch(item, needle, fields) {
			continue
		}
		if !matchesFacets(item, filters, fields) {
			continue
		}
		visible = append(visible, item)
	}
	return visible
}

func matchesSearch[T any](item T, needle string, fields Fields[T]) bool {
	if fields.Search == nil {
		return false
	}
	for _, text := range fields.Search(item) {
		if strings.Contains(strings.ToLower(text), needle) {
			return true
		}
	}
	return false
}

func matchesFacets[T any](item T, filters []Facet, fields Fields[T]) bool {
	if len(filters) == 0 {
		return true
	}
	if fields.Facet == nil {
		return false
	}
	for _, f := range filters {
		if fields.Facet(item, f.Field) != f.Value {
			return false
		}
	}
	return true
}
