package engine

import (
	"fmt"
	"math"
	"sort"
)

// ============================================================================
// AGGREGATORS — Group, sum, bound and bin
// ============================================================================
// Pure functions from View to plain values. Grouping preserves first-seen
// country order; the descending sort is stable, so equal totals keep that
// first-seen order. NaN measures are skipped when summing, matching
// dataframe semantics.
// ============================================================================

// SumByCountry groups view by country and sums the total column, returning
// rows sorted by descending total. Ties keep first-seen order. A country
// whose every total is NaN still appears, summed to zero.
func SumByCountry(view View) []CountrySum {
	sums := make(map[string]float64)
	order := make([]string, 0)

	n := view.Len()
	for i := 0; i < n; i++ {
		rec := view.Record(i)
		if _, seen := sums[rec.Country]; !seen {
			sums[rec.Country] = 0
			order = append(order, rec.Country)
		}
		if !math.IsNaN(rec.Total) {
			sums[rec.Country] += rec.Total
		}
	}

	out := make([]CountrySum, 0, len(order))
	for _, country := range order {
		out = append(out, CountrySum{Country: country, Total: sums[country]})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out
}

// Countries returns the distinct country values of view in first-seen
// order, mirroring how the multi-select options are presented.
func Countries(view View) []string {
	seen := make(map[string]bool)
	var out []string

	n := view.Len()
	for i := 0; i < n; i++ {
		country := view.Record(i).Country
		if country != "" && !seen[country] {
			seen[country] = true
			out = append(out, country)
		}
	}
	return out
}

// TotalBounds returns the smallest and largest finite totals in view.
// ok is false when the view has no finite totals to bound a slider with.
func TotalBounds(view View) (lo, hi float64, ok bool) {
	n := view.Len()
	for i := 0; i < n; i++ {
		t := view.Record(i).Total
		if !finite(t) {
			continue
		}
		if !ok {
			lo, hi, ok = t, t, true
			continue
		}
		if t < lo {
			lo = t
		}
		if t > hi {
			hi = t
		}
	}
	return lo, hi, ok
}

// CleanTotals returns the finite totals of view. NaN and infinite values
// are dropped before binning.
func CleanTotals(view View) []float64 {
	n := view.Len()
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if t := view.Record(i).Total; finite(t) {
			out = append(out, t)
		}
	}
	return out
}

// Histogram bins values into equal-width buckets across [min, max].
// Edges has bins+1 entries; every bucket is half-open except the last,
// which includes its upper edge. A constant series widens to a unit range
// so the single value still lands in a bucket. Values must be finite.
func Histogram(values []float64, bins int) (edges []float64, counts []int) {
	if len(values) == 0 {
		return nil, nil
	}
	if bins < 1 {
		bins = 1
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	width := (hi - lo) / float64(bins)
	edges = make([]float64, bins+1)
	for i := range edges {
		edges[i] = lo + width*float64(i)
	}
	edges[bins] = hi

	counts = make([]int, bins)
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		// Division can land an on-edge value one bucket off; snap to the
		// bucket whose edges actually contain it.
		if idx > 0 && v < edges[idx] {
			idx--
		} else if idx < bins-1 && v >= edges[idx+1] {
			idx++
		}
		counts[idx]++
	}
	return edges, counts
}

// JoinRegions left-joins country sums against a region lookup by exact
// country name. Countries without a region are collected in unmapped and
// omitted from the result rather than treated as an error.
func JoinRegions(sums []CountrySum, regions map[string]string) (slices []RegionSlice, unmapped []string) {
	for _, s := range sums {
		region, ok := regions[s.Country]
		if !ok {
			unmapped = append(unmapped, s.Country)
			continue
		}
		slices = append(slices, RegionSlice{Region: region, Country: s.Country, Total: s.Total})
	}
	return slices, unmapped
}

// sumMeasure sums one numeric column across view, skipping NaN cells.
func sumMeasure(view View, col string) float64 {
	var total float64
	n := view.Len()
	for i := 0; i < n; i++ {
		if v := view.Record(i).Measure(col); !math.IsNaN(v) {
			total += v
		}
	}
	return total
}

// finite reports whether v is a usable number.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatInt formats a numeric value as a comma-grouped whole number.
// NaN and infinities render blank so table cells stay empty rather than
// showing "NaN".
func FormatInt(v float64) string {
	if !finite(v) {
		return ""
	}
	n := int64(math.Round(v))
	if n < 0 {
		return "-" + formatGrouped(-n)
	}
	return formatGrouped(n)
}

func formatGrouped(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", formatGrouped(n/1000), n%1000)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
