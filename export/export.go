package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/homesight/dataset"
	"github.com/spektr-org/homesight/engine"
)

// ============================================================================
// EXPORT — CSV and XLSX downloads of the filtered records
// ============================================================================
// Exports operate on the same filtered View the charts see, so a download
// always matches what is on screen. Numeric cells stay numeric in XLSX;
// NaN cells are written blank in both formats.
// ============================================================================

// Worksheet names in the XLSX export.
const (
	recordsSheet = "Records"
	totalsSheet  = "Totals by Country"
)

// WriteCSV writes view as CSV with the canonical column header.
func WriteCSV(w io.Writer, view engine.View) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(dataset.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	n := view.Len()
	for i := 0; i < n; i++ {
		rec := view.Record(i)
		row := []string{
			rec.Country,
			csvNumber(rec.Total),
			csvNumber(rec.Individuals),
			csvNumber(rec.FamilyHouseholds),
			csvNumber(rec.Veterans),
			csvNumber(rec.UnaccompaniedYouth),
			csvNumber(rec.Latitude),
			csvNumber(rec.Longitude),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// csvNumber renders a numeric cell, leaving NaN and infinities blank.
func csvNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteXLSX writes view as a workbook: a Records sheet with typed cells
// and a second sheet ranking countries by summed total.
func WriteXLSX(w io.Writer, view engine.View, sums []engine.CountrySum) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", recordsSheet)

	columns := dataset.Columns()
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(recordsSheet, cell, col)
		name, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(recordsSheet, name, name, 18)
	}

	n := view.Len()
	for i := 0; i < n; i++ {
		rec := view.Record(i)
		row := i + 2

		cell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(recordsSheet, cell, rec.Country)

		values := []float64{
			rec.Total,
			rec.Individuals,
			rec.FamilyHouseholds,
			rec.Veterans,
			rec.UnaccompaniedYouth,
			rec.Latitude,
			rec.Longitude,
		}
		for j, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(j+2, row)
			f.SetCellValue(recordsSheet, cell, v)
		}
	}

	if _, err := f.NewSheet(totalsSheet); err != nil {
		return fmt.Errorf("add totals sheet: %w", err)
	}
	f.SetCellValue(totalsSheet, "A1", "country")
	f.SetCellValue(totalsSheet, "B1", "total")
	f.SetColWidth(totalsSheet, "A", "B", 22)
	for i, s := range sums {
		f.SetCellValue(totalsSheet, fmt.Sprintf("A%d", i+2), s.Country)
		f.SetCellValue(totalsSheet, fmt.Sprintf("B%d", i+2), s.Total)
	}

	return f.Write(w)
}
