package engine

import (
	"math"
	"strings"
)

// ============================================================================
// FILTERS — Range and country predicates over a View
// ============================================================================
// Single pass, AND-combined: a record passes when its total lies inside
// the inclusive [MinTotal, MaxTotal] range and its country is selected.
// Records whose total is NaN never pass the range predicate. The result is
// always a fresh SubView; a zero-length result is a valid outcome.
// ============================================================================

// Filter returns the records of view matching c. Country matching is
// case-insensitive; the sentinel selection admits every country. A vacuous
// range (MinTotal > MaxTotal) matches nothing.
func Filter(view View, c Criteria) View {
	var allowed map[string]bool
	if c.HasCountryFilter() {
		allowed = toLowerSet(c.Countries)
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		rec := view.Record(i)
		if math.IsNaN(rec.Total) || rec.Total < c.MinTotal || rec.Total > c.MaxTotal {
			continue
		}
		if allowed != nil && !allowed[strings.ToLower(rec.Country)] {
			continue
		}
		indices = append(indices, i)
	}

	return newSubView(view, indices)
}

// Restrict narrows view to an allow-list of countries, leaving the total
// column alone. The spotlight share view applies it after the main filter
// pass.
func Restrict(view View, allow []string) View {
	set := toLowerSet(allow)

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if set[strings.ToLower(view.Record(i).Country)] {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
