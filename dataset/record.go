package dataset

import (
	"math"
	"time"
)

// ============================================================================
// RECORD — Typed per-country observation row
// ============================================================================
// One Record per CSV row. Numeric fields hold NaN when the source cell was
// blank or unparsable; downstream cleaning decides whether NaN rows
// participate. Country is not unique across rows: aggregation sums
// duplicates rather than rejecting them.
// ============================================================================

// Record is a single per-country homelessness observation.
type Record struct {
	Country            string
	Total              float64
	Individuals        float64
	FamilyHouseholds   float64
	Veterans           float64
	UnaccompaniedYouth float64
	Latitude           float64
	Longitude          float64
}

// Measure returns the named numeric column. Unknown names return NaN.
func (r Record) Measure(col string) float64 {
	switch col {
	case ColTotal:
		return r.Total
	case ColIndividuals:
		return r.Individuals
	case ColFamilyHouseholds:
		return r.FamilyHouseholds
	case ColVeterans:
		return r.Veterans
	case ColUnaccompaniedYouth:
		return r.UnaccompaniedYouth
	case ColLatitude:
		return r.Latitude
	case ColLongitude:
		return r.Longitude
	}
	return math.NaN()
}

// Dataset is an immutable set of Records parsed from one source.
type Dataset struct {
	Records  []Record
	Source   string
	LoadedAt time.Time
	Skipped  int
}

// Empty returns a zero-record Dataset for source. The dashboard serves it
// when a load fails and the views degrade to their no-data state.
func Empty(source string) *Dataset {
	return &Dataset{Records: []Record{}, Source: source, LoadedAt: time.Now()}
}

// Len returns the record count. Safe on a nil Dataset.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}
