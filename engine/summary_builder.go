package engine

import "github.com/spektr-org/homesight/dataset"

// ============================================================================
// SUMMARY BUILDER — Headline figures for the dashboard header
// ============================================================================

// BuildSummary computes the headline figures: row and country counts, the
// summed measures, and the top country by total. Measure sums skip NaN
// cells so one blank cell does not poison a column.
func BuildSummary(view View) (*SummaryView, *EmptyResultWarning) {
	if view.Len() == 0 {
		return &SummaryView{},
			&EmptyResultWarning{View: "summary", Reason: "no rows match the current filters"}
	}

	s := &SummaryView{
		Records:            view.Len(),
		Countries:          len(Countries(view)),
		Total:              sumMeasure(view, dataset.ColTotal),
		Individuals:        sumMeasure(view, dataset.ColIndividuals),
		FamilyHouseholds:   sumMeasure(view, dataset.ColFamilyHouseholds),
		Veterans:           sumMeasure(view, dataset.ColVeterans),
		UnaccompaniedYouth: sumMeasure(view, dataset.ColUnaccompaniedYouth),
	}

	if sums := SumByCountry(view); len(sums) > 0 {
		s.TopCountry = sums[0].Country
		s.TopTotal = sums[0].Total
	}
	return s, nil
}
