package engine

import (
	"strconv"

	"github.com/spektr-org/homesight/dataset"
)

// ============================================================================
// TABLE BUILDER — Formatted rows for the data table and CSV preview
// ============================================================================
// Columns follow the canonical dataset order. Measures render as grouped
// whole numbers, coordinates keep four decimals, and NaN cells render
// blank.
// ============================================================================

// BuildTable renders view as ordered columns and formatted string rows.
func BuildTable(view View) (*TableView, *EmptyResultWarning) {
	columns := dataset.Columns()

	n := view.Len()
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		rec := view.Record(i)

		row := make([]string, 0, len(columns))
		row = append(row, rec.Country)
		for _, col := range dataset.MeasureColumns {
			row = append(row, FormatInt(rec.Measure(col)))
		}
		row = append(row, formatCoord(rec.Latitude), formatCoord(rec.Longitude))

		rows = append(rows, row)
	}

	tv := &TableView{Columns: columns, Rows: rows}
	if len(rows) == 0 {
		return tv, &EmptyResultWarning{View: "table", Reason: "no rows match the current filters"}
	}
	return tv, nil
}

// formatCoord renders a coordinate with four decimal places, blank for
// non-finite values.
func formatCoord(v float64) string {
	if !finite(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
