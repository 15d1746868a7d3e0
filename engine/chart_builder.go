package engine

// ============================================================================
// CHART BUILDERS — Bar, share, spotlight, treemap and histogram payloads
// ============================================================================
// Builders turn an already-filtered View into wire-ready payloads. Every
// builder returns an optional EmptyResultWarning instead of an error when
// the view holds no usable data: empty is a state the dashboard renders,
// not a failure it reports. Payload slices are always non-nil so the wire
// shape stays stable.
// ============================================================================

// BuildBar ranks countries by summed total, largest first.
func BuildBar(view View) (*BarView, *EmptyResultWarning) {
	sums := SumByCountry(view)
	if len(sums) == 0 {
		return &BarView{Bars: []CountrySum{}},
			&EmptyResultWarning{View: "bar", Reason: "no rows match the current filters"}
	}
	return &BarView{Bars: sums}, nil
}

// BuildShare computes each country's percentage of the combined total.
// A combined total of zero cannot be shared out and yields the warning,
// even when rows are present.
func BuildShare(view View) (*ShareView, *EmptyResultWarning) {
	sums := SumByCountry(view)
	if len(sums) == 0 {
		return &ShareView{Slices: []ShareSlice{}},
			&EmptyResultWarning{View: "share", Reason: "no rows match the current filters"}
	}

	slices, grand := shareSlices(sums)
	if slices == nil {
		return &ShareView{Slices: []ShareSlice{}},
			&EmptyResultWarning{View: "share", Reason: "no positive totals to share out"}
	}
	return &ShareView{Slices: slices, GrandTotal: grand}, nil
}

// BuildSpotlight is BuildShare restricted to a fixed allow-list, so a
// handful of countries can be compared on their own. The allow-list is
// echoed back so the caller can label the view.
func BuildSpotlight(view View, allow []string) (*SpotlightView, *EmptyResultWarning) {
	sub := Restrict(view, allow)
	if sub.Len() == 0 {
		return &SpotlightView{Slices: []ShareSlice{}, Allowed: allow},
			&EmptyResultWarning{View: "spotlight", Reason: "no data available for the selected countries"}
	}

	slices, grand := shareSlices(SumByCountry(sub))
	if slices == nil {
		return &SpotlightView{Slices: []ShareSlice{}, Allowed: allow},
			&EmptyResultWarning{View: "spotlight", Reason: "no positive totals to share out"}
	}
	return &SpotlightView{Slices: slices, GrandTotal: grand, Allowed: allow}, nil
}

// shareSlices converts country sums to percentage slices of their combined
// total. Returns nil when the combined total is not positive.
func shareSlices(sums []CountrySum) ([]ShareSlice, float64) {
	var grand float64
	for _, s := range sums {
		grand += s.Total
	}
	if grand <= 0 {
		return nil, grand
	}

	out := make([]ShareSlice, 0, len(sums))
	for _, s := range sums {
		out = append(out, ShareSlice{
			Country: s.Country,
			Total:   s.Total,
			Share:   RoundTo2(s.Total / grand * 100),
		})
	}
	return out, grand
}

// BuildTreemap nests country totals under their region. Countries missing
// from the region table are reported as unmapped and left out of the
// slices.
func BuildTreemap(view View, regions map[string]string) (*TreemapView, *EmptyResultWarning) {
	slices, unmapped := JoinRegions(SumByCountry(view), regions)
	if slices == nil {
		slices = []RegionSlice{}
	}

	tv := &TreemapView{Slices: slices, Unmapped: unmapped}
	if len(slices) == 0 {
		return tv, &EmptyResultWarning{View: "treemap", Reason: "no filtered country appears in the region table"}
	}
	return tv, nil
}

// BuildHistogram bins the finite totals of view.
func BuildHistogram(view View, bins int) (*HistogramView, *EmptyResultWarning) {
	values := CleanTotals(view)
	if len(values) == 0 {
		return &HistogramView{Edges: []float64{}, Counts: []int{}},
			&EmptyResultWarning{View: "histogram", Reason: "no finite totals to bin"}
	}

	edges, counts := Histogram(values, bins)
	return &HistogramView{Edges: edges, Counts: counts}, nil
}
