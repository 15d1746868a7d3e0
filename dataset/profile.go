package dataset

import "math"

// ============================================================================
// PROFILE — Column-level dataset diagnostics
// ============================================================================
// Backs the `homesight check` command: one pass per numeric column
// producing missing counts and value ranges, plus dataset-level counts.
// ============================================================================

// ColumnProfile summarizes one numeric column. Min and Max are NaN when
// the column has no finite values.
type ColumnProfile struct {
	Name    string
	Missing int
	Min     float64
	Max     float64
}

// Profile summarizes a loaded dataset for diagnostics.
type Profile struct {
	Source    string
	Rows      int
	Skipped   int
	Countries int
	Columns   []ColumnProfile
}

// Describe builds a Profile of ds.
func Describe(ds *Dataset) *Profile {
	p := &Profile{Source: ds.Source, Rows: ds.Len(), Skipped: ds.Skipped}

	seen := make(map[string]bool)
	for _, r := range ds.Records {
		seen[r.Country] = true
	}
	p.Countries = len(seen)

	numeric := append(append([]string{}, MeasureColumns...), ColLatitude, ColLongitude)
	for _, col := range numeric {
		cp := ColumnProfile{Name: col, Min: math.NaN(), Max: math.NaN()}
		for _, r := range ds.Records {
			v := r.Measure(col)
			if math.IsNaN(v) {
				cp.Missing++
				continue
			}
			if math.IsNaN(cp.Min) || v < cp.Min {
				cp.Min = v
			}
			if math.IsNaN(cp.Max) || v > cp.Max {
				cp.Max = v
			}
		}
		p.Columns = append(p.Columns, cp)
	}
	return p
}
