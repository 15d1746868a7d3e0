package dataset

import (
	"strings"
	"unicode"
)

// ============================================================================
// SCHEMA — Required columns and header normalization
// ============================================================================
// The dashboard binds to a fixed eight-column contract. Headers are trimmed
// and snake_cased before matching, so " Total ", "Family Households" and
// "familyHouseholds" all resolve to the same key. Validation happens once,
// at the load boundary; everything downstream assumes a complete schema.
// ============================================================================

// Canonical column keys.
const (
	ColCountry            = "country"
	ColTotal              = "total"
	ColIndividuals        = "individuals"
	ColFamilyHouseholds   = "family_households"
	ColVeterans           = "veterans"
	ColUnaccompaniedYouth = "unaccompanied_youth"
	ColLatitude           = "latitude"
	ColLongitude          = "longitude"
)

// RequiredColumns lists every column a source must provide, in canonical
// display order.
var RequiredColumns = []string{
	ColCountry,
	ColTotal,
	ColIndividuals,
	ColFamilyHouseholds,
	ColVeterans,
	ColUnaccompaniedYouth,
	ColLatitude,
	ColLongitude,
}

// MeasureColumns lists the additive numeric columns, in display order.
// Latitude and longitude are numeric but not additive, so they stay out.
var MeasureColumns = []string{
	ColTotal,
	ColIndividuals,
	ColFamilyHouseholds,
	ColVeterans,
	ColUnaccompaniedYouth,
}

// Columns returns a fresh copy of the canonical column order for tables
// and exports.
func Columns() []string {
	cols := make([]string, len(RequiredColumns))
	copy(cols, RequiredColumns)
	return cols
}

// NormalizeHeader converts a raw CSV header to its canonical snake_case
// key: surrounding whitespace is trimmed, spaces and dashes become
// underscores, and camelCase boundaries split.
func NormalizeHeader(h string) string {
	h = strings.TrimSpace(h)

	var b strings.Builder
	b.Grow(len(h) + 4)
	prevLower := false
	for _, r := range h {
		switch {
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('_')
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}

	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	return strings.Trim(out, "_")
}

// missingColumns reports the required columns absent from the normalized
// headers, in canonical order.
func missingColumns(normalized []string) []string {
	present := make(map[string]bool, len(normalized))
	for _, h := range normalized {
		present[h] = true
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}
